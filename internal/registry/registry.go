package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Action constructs and starts one system. On success it returns the
// constructed service handle, which the orchestrator retains and exposes
// through the service resolver once the run is READY. Actions own their own
// retry policy, if any; the orchestrator never retries.
type Action func(ctx context.Context) (any, error)

// Registry maps system names to their construction actions. The orchestrator
// treats it as an opaque collaborator: which concrete subsystem an action
// builds, and with what configuration, is the caller's business.
type Registry interface {
	// Register adds an action under a system name.
	Register(name string, action Action) error

	// Resolve returns the action for a system name.
	Resolve(name string) (Action, bool)

	// Names returns all registered system names, sorted.
	Names() []string
}

// mapRegistry is a simple mutex-guarded implementation of Registry.
type mapRegistry struct {
	mu      sync.RWMutex
	actions map[string]Action
}

// New creates an empty registry.
func New() Registry {
	return &mapRegistry{actions: make(map[string]Action)}
}

// Register adds an action under a system name.
func (r *mapRegistry) Register(name string, action Action) error {
	if name == "" {
		return fmt.Errorf("cannot register action with empty system name")
	}
	if action == nil {
		return fmt.Errorf("cannot register nil action for system %s", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.actions[name]; exists {
		return fmt.Errorf("action for system %s already registered", name)
	}
	r.actions[name] = action
	return nil
}

// Resolve returns the action for a system name.
func (r *mapRegistry) Resolve(name string) (Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	action, exists := r.actions[name]
	return action, exists
}

// Names returns all registered system names, sorted.
func (r *mapRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
