// Package app bootstraps the ignition process: it loads the manifest, builds
// the descriptor table and the registry of built-in construction actions,
// and hands both to the bootstrap orchestrator. The CLI layer talks to this
// package only.
package app
