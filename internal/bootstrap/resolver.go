package bootstrap

import (
	"fmt"
	"sort"
)

// Resolver hands out the service handles constructed during a successful
// run, addressable by system name or by capability name. It is only
// obtainable once the orchestrator is READY, so a handle it returns always
// belongs to a fully initialized system.
type Resolver struct {
	services     map[string]any
	capabilities map[string]any
}

// System returns the handle constructed for the given system name.
func (r *Resolver) System(name string) (any, error) {
	h, ok := r.services[name]
	if !ok {
		return nil, fmt.Errorf("system %s not initialized", name)
	}
	return h, nil
}

// Capability returns the handle of the system that provides the given
// capability.
func (r *Resolver) Capability(name string) (any, error) {
	h, ok := r.capabilities[name]
	if !ok {
		return nil, fmt.Errorf("capability %s not available", name)
	}
	return h, nil
}

// Systems returns the names of all initialized systems, sorted.
func (r *Resolver) Systems() []string {
	names := make([]string, 0, len(r.services))
	for name := range r.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
