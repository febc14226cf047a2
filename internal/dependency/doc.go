// Package dependency declares the static system descriptor table and proves
// it safe to initialize from.
//
// A SystemDescriptor assigns each system a tier, a dependency set, a
// required/optional flag and the capabilities it provides. The bootstrap
// orchestrator processes tiers in ascending order and relies on the tier
// barrier alone for cross-system ordering, so Validate must reject any table
// where a dependency lives in the same or a higher tier as its dependent,
// any dangling dependency reference, and any dependency cycle - all before a
// single initializer runs.
package dependency
