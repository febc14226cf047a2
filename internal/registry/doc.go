// Package registry holds the name-keyed map of system construction actions
// supplied by the process entry point. The bootstrap orchestrator resolves
// each system's action by name and never needs to know concrete subsystem
// types.
package registry
