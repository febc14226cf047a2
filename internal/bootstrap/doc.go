// Package bootstrap implements the dependency-tiered initialization
// orchestrator: a lifecycle state machine that brings up the declared
// systems tier by tier, running the members of a tier concurrently and
// joining on all of them before the next tier may start.
//
// The orchestrator provides exactly one ordering guarantee: a system's
// initializer never runs before every system it depends on has succeeded in
// an earlier tier. That guarantee rests on the tier barrier, not on
// per-dependency waits, which is why the dependency validator must accept
// the table before any initializer runs.
//
// Failure semantics: a failed required system ends the run after its tier
// (later tiers never start); a failed optional system is recorded and
// tolerated. In-flight siblings are never cancelled, and there is no
// orchestrator-level timeout - a hung construction action hangs the run.
// The context handed to Initialize is forwarded to the construction actions,
// so deadlines belong there if the caller wants them.
package bootstrap
