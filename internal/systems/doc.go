// Package systems contains the built-in subsystems wired into the default
// service registry: the memory store, the parameter store, and the
// character, plot and analysis services layered on top of it. They are small
// in-memory implementations; the orchestrator itself never depends on this
// package and works against whatever registry the caller injects.
package systems
