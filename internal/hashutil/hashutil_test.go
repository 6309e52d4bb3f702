package hashutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanheven/ceilometer-1/types"
)

func TestHashOfSet(t *testing.T) {
	t.Run("order independent", func(t *testing.T) {
		a := HashOfSet([]types.Resource{"r1", "r2", "r3"})
		b := HashOfSet([]types.Resource{"r3", "r1", "r2"})

		require.Equal(t, a, b)
	})

	t.Run("duplicates ignored", func(t *testing.T) {
		a := HashOfSet([]types.Resource{"r1", "r2"})
		b := HashOfSet([]types.Resource{"r1", "r2", "r2", "r1"})

		require.Equal(t, a, b)
	})

	t.Run("different sets differ", func(t *testing.T) {
		a := HashOfSet([]types.Resource{"r1", "r2"})
		b := HashOfSet([]types.Resource{"r1", "r3"})

		require.NotEqual(t, a, b)
	})

	t.Run("element boundaries matter", func(t *testing.T) {
		a := HashOfSet([]types.Resource{"ab", "c"})
		b := HashOfSet([]types.Resource{"a", "bc"})

		require.NotEqual(t, a, b)
	})

	t.Run("empty set is stable", func(t *testing.T) {
		require.Equal(t, HashOfSet(nil), HashOfSet([]types.Resource{}))
	})
}
