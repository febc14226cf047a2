package dependency

import "sort"

// Validate proves that the table is safe to initialize from: every
// dependency reference resolves, the dependency relation is acyclic, and
// every dependency lives in a strictly lower tier than its dependent.
//
// A cycle necessarily violates the tier invariant as well, so the cycle
// search runs before the tier-order check; a true cycle is reported as a
// CycleError with its path rather than as the less precise TierOrderError.
// The walk covers all descriptors, not just the roots, because a
// disconnected component of the graph can independently contain a cycle.
// Validate has no side effects and may be called repeatedly.
func Validate(t *Table) error {
	names := make([]string, 0, t.Len())
	for name := range t.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		d := t.descriptors[name]
		for _, dep := range d.Dependencies {
			if _, ok := t.descriptors[dep]; !ok {
				return &UnknownDependencyError{System: d.Name, Dependency: dep}
			}
		}
	}

	// Depth-first cycle search with the classic visiting/visited marker
	// pair. "visiting" means on the current DFS stack.
	visiting := make(map[string]bool)
	visited := make(map[string]bool)

	var walk func(name string, path []string) *CycleError
	walk = func(name string, path []string) *CycleError {
		if visiting[name] {
			return &CycleError{Path: append(append([]string(nil), path...), name)}
		}
		if visited[name] {
			return nil
		}
		visiting[name] = true
		path = append(path, name)
		for _, dep := range t.descriptors[name].Dependencies {
			if cycle := walk(dep, path); cycle != nil {
				return cycle
			}
		}
		visiting[name] = false
		visited[name] = true
		return nil
	}

	for _, name := range names {
		if cycle := walk(name, nil); cycle != nil {
			// Trim the lead-in so the path starts at the repeated node.
			repeated := cycle.Path[len(cycle.Path)-1]
			for i, n := range cycle.Path {
				if n == repeated {
					cycle.Path = cycle.Path[i:]
					break
				}
			}
			return cycle
		}
	}

	for _, name := range names {
		d := t.descriptors[name]
		for _, dep := range d.Dependencies {
			depDesc := t.descriptors[dep]
			if depDesc.Tier >= d.Tier {
				return &TierOrderError{
					System:         d.Name,
					SystemTier:     d.Tier,
					Dependency:     dep,
					DependencyTier: depDesc.Tier,
				}
			}
		}
	}
	return nil
}
