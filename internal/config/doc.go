// Package config loads the ignition manifest: the declarative table of
// systems (name, tier, dependencies, required flag, capabilities) plus
// process settings. Without a manifest on disk the built-in default table is
// used.
package config
