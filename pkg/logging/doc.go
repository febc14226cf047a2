// Package logging provides the structured logger shared by all ignition
// subsystems. It wraps log/slog with a fixed "subsystem" attribute so that
// log lines from the validator, the tier scheduler and the bootstrap state
// machine can be filtered apart.
//
// Init must be called once at startup (the app layer does this based on the
// --debug and --silent flags); the package falls back to stderr if a message
// is logged before initialization.
package logging
