package timebombs

import (
	"slices"
	"sync"
)

var (
	//nolint:gochecknoglobals // Process-wide catalog, like database/sql drivers.
	catalogMu sync.RWMutex
	//nolint:gochecknoglobals // Process-wide catalog, like database/sql drivers.
	catalog = make(map[string]*Registry)
)

// Publish makes r resolvable by name from the timebombs CLI
// when the CLI runs inside the same binary. Publishing a name again replaces it;
// publishing nil withdraws it.
func Publish(name string, r *Registry) {
	catalogMu.Lock()
	defer catalogMu.Unlock()

	if r == nil {
		delete(catalog, name)
		return
	}

	catalog[name] = r
}

// Lookup returns the registry published under name.
func Lookup(name string) (*Registry, bool) {
	catalogMu.RLock()
	defer catalogMu.RUnlock()

	r, ok := catalog[name]

	return r, ok
}

// Published returns the sorted names of all published registries.
func Published() []string {
	catalogMu.RLock()
	defer catalogMu.RUnlock()

	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}
