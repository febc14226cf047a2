package dependency

import (
	"errors"
	"fmt"
	"strings"
)

// CycleError reports a dependency cycle. Path holds the traversal from the
// cycle's entry point back to the repeated node, so "a -> b -> a" reads in
// the order the validator walked it.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Path, " -> "))
}

// IsCycle checks whether err is or wraps a CycleError.
func IsCycle(err error) bool {
	var cycleErr *CycleError
	return errors.As(err, &cycleErr)
}

// TierOrderError reports a descriptor whose dependency lives in the same or
// a higher tier. This is a configuration error distinct from a cycle but is
// equally fatal: the tier barrier cannot guarantee ordering for it.
type TierOrderError struct {
	System         string
	SystemTier     int
	Dependency     string
	DependencyTier int
}

func (e *TierOrderError) Error() string {
	return fmt.Sprintf("system %s (tier %d) depends on %s (tier %d); dependencies must live in a strictly lower tier",
		e.System, e.SystemTier, e.Dependency, e.DependencyTier)
}

// IsTierOrder checks whether err is or wraps a TierOrderError.
func IsTierOrder(err error) bool {
	var tierErr *TierOrderError
	return errors.As(err, &tierErr)
}

// UnknownDependencyError reports a dependency reference that does not match
// any declared system.
type UnknownDependencyError struct {
	System     string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("system %s depends on %s, which is not declared", e.System, e.Dependency)
}

// IsUnknownDependency checks whether err is or wraps an UnknownDependencyError.
func IsUnknownDependency(err error) bool {
	var unknownErr *UnknownDependencyError
	return errors.As(err, &unknownErr)
}
