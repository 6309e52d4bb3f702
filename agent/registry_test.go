package agent

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanheven/ceilometer-1/types"
)

func TestRegistry_loadPollsters(t *testing.T) {
	noError := func(name string, err error) {
		t.Fatalf("unexpected load error for %s: %v", name, err)
	}

	t.Run("loads only the requested namespace", func(t *testing.T) {
		reg := NewRegistry()
		reg.RegisterPollster("central", "cpu", func() (types.Pollster, error) {
			return &fakePollster{name: "cpu"}, nil
		})
		reg.RegisterPollster("compute", "instance", func() (types.Pollster, error) {
			return &fakePollster{name: "instance"}, nil
		})

		loaded := reg.loadPollsters("central", noError)
		require.Len(t, loaded, 1)
		require.Equal(t, "cpu", loaded[0].Name())
	})

	t.Run("reports and skips failing factories", func(t *testing.T) {
		reg := NewRegistry()
		reg.RegisterPollster("central", "cpu", func() (types.Pollster, error) {
			return &fakePollster{name: "cpu"}, nil
		})
		reg.RegisterPollster("central", "broken", func() (types.Pollster, error) {
			return nil, errors.New("hypervisor unreachable")
		})

		var failed []string
		loaded := reg.loadPollsters("central", func(name string, err error) {
			require.Error(t, err)
			failed = append(failed, name)
		})

		require.Len(t, loaded, 1)
		require.Equal(t, []string{"broken"}, failed)
	})

	t.Run("re-registration replaces the factory", func(t *testing.T) {
		reg := NewRegistry()
		reg.RegisterPollster("central", "cpu", func() (types.Pollster, error) {
			return &fakePollster{name: "cpu", defaultDiscovery: "old://"}, nil
		})
		reg.RegisterPollster("central", "cpu", func() (types.Pollster, error) {
			return &fakePollster{name: "cpu", defaultDiscovery: "new://"}, nil
		})

		loaded := reg.loadPollsters("central", noError)
		require.Len(t, loaded, 1)
		require.Equal(t, "new://", loaded[0].DefaultDiscovery())
	})

	t.Run("unknown namespace loads nothing", func(t *testing.T) {
		reg := NewRegistry()
		reg.RegisterPollster("central", "cpu", func() (types.Pollster, error) {
			return &fakePollster{name: "cpu"}, nil
		})

		require.Empty(t, reg.loadPollsters("ipmi", noError))
	})
}

func TestRegistry_loadDiscoverers(t *testing.T) {
	t.Run("loads all registered discoverers", func(t *testing.T) {
		reg := NewRegistry()
		reg.RegisterDiscoverer("instance", func() (types.Discoverer, error) {
			return &fakeDiscoverer{name: "instance"}, nil
		})
		reg.RegisterDiscoverer("endpoint", func() (types.Discoverer, error) {
			return &fakeDiscoverer{name: "endpoint"}, nil
		})

		loaded := reg.loadDiscoverers(func(name string, err error) {
			t.Fatalf("unexpected load error for %s: %v", name, err)
		})
		require.Len(t, loaded, 2)
	})

	t.Run("reports and skips failing factories", func(t *testing.T) {
		reg := NewRegistry()
		reg.RegisterDiscoverer("instance", func() (types.Discoverer, error) {
			return nil, errors.New("keystone down")
		})

		var failed []string
		loaded := reg.loadDiscoverers(func(name string, _ error) {
			failed = append(failed, name)
		})

		require.Empty(t, loaded)
		require.Equal(t, []string{"instance"}, failed)
	})
}
