package ring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("deduplicates members", func(t *testing.T) {
		r := New([]string{"a", "b", "a", "b"}, 10)

		require.Equal(t, []string{"a", "b"}, r.Members())
		require.Equal(t, 20, r.Size())
	})

	t.Run("member order does not change ownership", func(t *testing.T) {
		forward := New([]string{"a", "b", "c"}, 50)
		reversed := New([]string{"c", "b", "a"}, 50)

		for i := range 200 {
			key := fmt.Sprintf("resource-%d", i)
			require.Equal(t, forward.Owner(key), reversed.Owner(key))
		}
	})

	t.Run("defaults virtual nodes when non-positive", func(t *testing.T) {
		r := New([]string{"a"}, 0)

		require.Equal(t, DefaultVirtualNodes, r.Size())
	})
}

func TestRing_Owner(t *testing.T) {
	t.Run("empty ring returns empty owner", func(t *testing.T) {
		r := New(nil, 10)

		require.Empty(t, r.Owner("anything"))
	})

	t.Run("single member owns everything", func(t *testing.T) {
		r := New([]string{"only"}, 10)

		for i := range 50 {
			require.Equal(t, "only", r.Owner(fmt.Sprintf("key-%d", i)))
		}
	})

	t.Run("ownership is stable across rebuilds", func(t *testing.T) {
		members := []string{"agent-1", "agent-2", "agent-3"}
		first := New(members, 100)
		second := New(members, 100)

		for i := range 500 {
			key := fmt.Sprintf("resource-%d", i)
			require.Equal(t, first.Owner(key), second.Owner(key))
		}
	})

	t.Run("every key is owned by a known member", func(t *testing.T) {
		members := []string{"agent-1", "agent-2", "agent-3"}
		r := New(members, 100)

		owned := make(map[string]int)
		for i := range 1000 {
			owner := r.Owner(fmt.Sprintf("resource-%d", i))
			require.Contains(t, members, owner)
			owned[owner]++
		}
		// With 1000 keys over 3 members, every member should own some.
		for _, m := range members {
			require.Positive(t, owned[m], "member %s owns no keys", m)
		}
	})
}
