package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"ignition/internal/bootstrap"
	"ignition/internal/config"
	"ignition/internal/dependency"
	"ignition/pkg/logging"
)

// Application bundles everything the CLI needs to run an orchestration: the
// loaded manifest, the validated-on-use descriptor table, and the
// orchestrator itself.
//
// The bootstrap follows a two-phase pattern:
//  1. Construction (NewApplication): logging, manifest, table, registry.
//  2. Execution (Run): the orchestrator's Initialize drives the tiers.
type Application struct {
	config       *Config
	table        *dependency.Table
	bootstrapper *bootstrap.Bootstrapper
}

// NewApplication creates and wires an application instance. It configures
// logging from the flags and manifest, loads the manifest, builds the
// descriptor table and the registry of construction actions, and constructs
// the orchestrator. Dependency validation is not run here; it is the first
// thing Initialize does, so failures share one reporting path.
func NewApplication(cfg *Config) (*Application, error) {
	path := cfg.ConfigPath
	if path == "" {
		path = DefaultManifestPath
	}

	// Logging needs to exist before the manifest loads, so start from the
	// flag-derived level and tighten from the manifest afterwards.
	initLogging(cfg, "")

	manifest, err := config.Load(path)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to load manifest")
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	cfg.Manifest = &manifest
	initLogging(cfg, manifest.Settings.LogLevel)

	table, err := dependency.NewTable(manifest.Descriptors()...)
	if err != nil {
		logging.Error("Bootstrap", err, "Invalid system declarations")
		return nil, fmt.Errorf("invalid system declarations: %w", err)
	}

	reg, err := buildRegistry(manifest)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to build service registry")
		return nil, fmt.Errorf("failed to build service registry: %w", err)
	}

	b, err := bootstrap.New(table, reg)
	if err != nil {
		return nil, err
	}

	return &Application{
		config:       cfg,
		table:        table,
		bootstrapper: b,
	}, nil
}

// Run executes the orchestration once and returns the terminal error, if
// any. The final status stays inspectable through Status either way.
func (a *Application) Run(ctx context.Context) error {
	return a.bootstrapper.Initialize(ctx)
}

// Status returns the orchestrator's current snapshot.
func (a *Application) Status() bootstrap.Status {
	return a.bootstrapper.Status()
}

// ServiceResolver exposes the orchestrator's readiness-gated resolver.
func (a *Application) ServiceResolver() (*bootstrap.Resolver, error) {
	return a.bootstrapper.ServiceResolver()
}

// Table returns the descriptor table for reporting commands.
func (a *Application) Table() *dependency.Table {
	return a.table
}

func initLogging(cfg *Config, manifestLevel string) {
	level := logging.ParseLevel(manifestLevel)
	if cfg.Debug {
		level = logging.LevelDebug
	}

	var out io.Writer = os.Stdout
	if cfg.Silent {
		out = io.Discard
	}
	logging.Init(level, out)
}
