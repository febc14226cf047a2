package app

import (
	"context"
	"fmt"

	"ignition/internal/config"
	"ignition/internal/registry"
	"ignition/internal/systems"
)

// wiring carries the handles built by earlier tiers to the actions of later
// ones. Fields are written by at most one action each, and cross-tier reads
// are ordered by the scheduler's tier barrier, so no locking is needed.
type wiring struct {
	memory     *systems.MemoryStore
	parameters *systems.ParameterStore
	characters *systems.CharacterService
	plots      *systems.PlotService
}

// buildRegistry wires a construction action for every system the manifest
// declares. Only the built-in system names are known here; a manifest
// declaring anything else is rejected before the orchestrator starts.
func buildRegistry(manifest config.Config) (registry.Registry, error) {
	reg := registry.New()
	w := &wiring{}

	for _, s := range manifest.Systems {
		action, err := builtinAction(s.Name, w)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(s.Name, action); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func builtinAction(name string, w *wiring) (registry.Action, error) {
	switch name {
	case "memory-store":
		return func(ctx context.Context) (any, error) {
			w.memory = systems.NewMemoryStore()
			return w.memory, nil
		}, nil
	case "parameter-store":
		return func(ctx context.Context) (any, error) {
			w.parameters = systems.NewParameterStore(map[string]string{
				"tone":        "neutral",
				"perspective": "third-person",
			})
			return w.parameters, nil
		}, nil
	case "character-service":
		return func(ctx context.Context) (any, error) {
			svc, err := systems.NewCharacterService(w.memory)
			if err != nil {
				return nil, err
			}
			w.characters = svc
			return svc, nil
		}, nil
	case "plot-service":
		return func(ctx context.Context) (any, error) {
			svc, err := systems.NewPlotService(w.memory)
			if err != nil {
				return nil, err
			}
			w.plots = svc
			return svc, nil
		}, nil
	case "analysis-service":
		return func(ctx context.Context) (any, error) {
			return systems.NewAnalysisService(w.characters, w.plots)
		}, nil
	default:
		return nil, fmt.Errorf("unknown system %s: no built-in constructor", name)
	}
}
