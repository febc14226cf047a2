package dependency

import (
	"fmt"
	"sort"
)

// SystemDescriptor is the static declaration of one system: where it sits in
// the startup order and what it needs before its initializer may run. A
// descriptor is immutable once its Table has been built.
type SystemDescriptor struct {
	// Name uniquely identifies the system.
	Name string

	// Tier is the startup rank. Tiers are processed in strictly increasing
	// order and every dependency must live in a strictly lower tier.
	Tier int

	// Dependencies lists systems that must have succeeded before this
	// system's initializer runs.
	Dependencies []string

	// Required marks a system whose failure is fatal to the whole run.
	Required bool

	// Order sequences logging and registration within a tier. It has no
	// effect on concurrency.
	Order int

	// Capabilities names the services this system is expected to make
	// available on success. Informational; used in reporting and to address
	// service handles through the resolver.
	Capabilities []string
}

// Table holds the full descriptor set for a run. It answers tier and
// dependency queries; correctness of the declarations themselves is proven
// separately by Validate.
type Table struct {
	descriptors map[string]SystemDescriptor
}

// NewTable builds a Table from the given descriptors. It rejects duplicate
// names, empty names and non-positive tiers; the structural invariants
// (dangling references, tier ordering, acyclicity) are checked by Validate.
func NewTable(descriptors ...SystemDescriptor) (*Table, error) {
	t := &Table{descriptors: make(map[string]SystemDescriptor, len(descriptors))}
	for _, d := range descriptors {
		if err := t.add(d); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) add(d SystemDescriptor) error {
	if d.Name == "" {
		return fmt.Errorf("system descriptor has empty name")
	}
	if d.Tier <= 0 {
		return fmt.Errorf("system %s has non-positive tier %d", d.Name, d.Tier)
	}
	if _, exists := t.descriptors[d.Name]; exists {
		return fmt.Errorf("system %s declared twice", d.Name)
	}
	// Copy the slices so later mutation of the caller's descriptor cannot
	// leak into the table.
	d.Dependencies = append([]string(nil), d.Dependencies...)
	d.Capabilities = append([]string(nil), d.Capabilities...)
	t.descriptors[d.Name] = d
	return nil
}

// Len returns the number of declared systems.
func (t *Table) Len() int {
	return len(t.descriptors)
}

// Get returns the descriptor for the given system name.
func (t *Table) Get(name string) (SystemDescriptor, bool) {
	d, ok := t.descriptors[name]
	return d, ok
}

// All returns every descriptor sorted by tier, then Order, then name.
func (t *Table) All() []SystemDescriptor {
	all := make([]SystemDescriptor, 0, len(t.descriptors))
	for _, d := range t.descriptors {
		all = append(all, d)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Tier != all[j].Tier {
			return all[i].Tier < all[j].Tier
		}
		if all[i].Order != all[j].Order {
			return all[i].Order < all[j].Order
		}
		return all[i].Name < all[j].Name
	})
	return all
}

// Tiers returns the declared tier numbers in ascending order.
func (t *Table) Tiers() []int {
	seen := make(map[int]bool)
	var tiers []int
	for _, d := range t.descriptors {
		if !seen[d.Tier] {
			seen[d.Tier] = true
			tiers = append(tiers, d.Tier)
		}
	}
	sort.Ints(tiers)
	return tiers
}

// Tier returns the descriptors of one tier sorted by Order, then name. The
// ordering is for deterministic logging only; members of a tier run
// concurrently.
func (t *Table) Tier(tier int) []SystemDescriptor {
	var members []SystemDescriptor
	for _, d := range t.descriptors {
		if d.Tier == tier {
			members = append(members, d)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Order != members[j].Order {
			return members[i].Order < members[j].Order
		}
		return members[i].Name < members[j].Name
	})
	return members
}

// RequiredNames returns the names of all required systems.
func (t *Table) RequiredNames() []string {
	var names []string
	for _, d := range t.descriptors {
		if d.Required {
			names = append(names, d.Name)
		}
	}
	sort.Strings(names)
	return names
}

// OptionalNames returns the names of all optional systems.
func (t *Table) OptionalNames() []string {
	var names []string
	for _, d := range t.descriptors {
		if !d.Required {
			names = append(names, d.Name)
		}
	}
	sort.Strings(names)
	return names
}
