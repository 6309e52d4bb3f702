package agent

import (
	"strings"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/yanheven/ceilometer-1/types"
)

// PollsterFactory builds one pollster instance. Factories run while
// extensions are loaded; a factory returning an error is skipped and logged,
// never aborting the load of the remaining plugins.
type PollsterFactory func() (types.Pollster, error)

// DiscovererFactory builds one discoverer instance, with the same failure
// tolerance as PollsterFactory.
type DiscovererFactory func() (types.Discoverer, error)

// Registry is the explicit plugin registry pollsters and discoverers are
// published into at startup.
//
// Pollsters are registered under a namespace (e.g. "compute", "central") so
// that different agent flavours can load different plugin sets; discoverers
// form a single flat namespace. Registration is safe for concurrent use and
// typically happens from package init functions of plugin packages.
// Registering a name twice replaces the earlier factory.
type Registry struct {
	pollsters   *xsync.Map[string, PollsterFactory]
	discoverers *xsync.Map[string, DiscovererFactory]
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		pollsters:   xsync.NewMap[string, PollsterFactory](),
		discoverers: xsync.NewMap[string, DiscovererFactory](),
	}
}

// RegisterPollster publishes a pollster factory under the given namespace
// and name.
func (r *Registry) RegisterPollster(namespace, name string, factory PollsterFactory) {
	r.pollsters.Store(pollsterKey(namespace, name), factory)
}

// RegisterDiscoverer publishes a discoverer factory under the given name.
// The name is matched against discovery URL schemes.
func (r *Registry) RegisterDiscoverer(name string, factory DiscovererFactory) {
	r.discoverers.Store(name, factory)
}

// loadPollsters instantiates every pollster registered under the namespace.
// Factories that fail are skipped and reported through the callback.
func (r *Registry) loadPollsters(namespace string, onError func(name string, err error)) []types.Pollster {
	prefix := namespace + "/"
	var loaded []types.Pollster
	r.pollsters.Range(func(key string, factory PollsterFactory) bool {
		name, ok := strings.CutPrefix(key, prefix)
		if !ok {
			return true
		}
		pollster, err := factory()
		if err != nil {
			onError(name, err)

			return true
		}
		loaded = append(loaded, pollster)

		return true
	})

	return loaded
}

// loadDiscoverers instantiates every registered discoverer, skipping and
// reporting factories that fail.
func (r *Registry) loadDiscoverers(onError func(name string, err error)) []types.Discoverer {
	var loaded []types.Discoverer
	r.discoverers.Range(func(name string, factory DiscovererFactory) bool {
		discoverer, err := factory()
		if err != nil {
			onError(name, err)

			return true
		}
		loaded = append(loaded, discoverer)

		return true
	})

	return loaded
}

func pollsterKey(namespace, name string) string {
	return namespace + "/" + name
}
