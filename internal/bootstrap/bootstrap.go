package bootstrap

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ignition/internal/dependency"
	"ignition/internal/registry"
	"ignition/pkg/logging"
)

// Bootstrapper drives the tiered initialization run: it validates the
// descriptor table, runs each tier through the scheduler in ascending order,
// folds the results into its state between tiers, and exposes the readiness
// contract.
//
// Exactly one Bootstrapper is expected per process, constructed by the entry
// point with the service registry injected. That is an operational
// convention, not a language-level constraint.
type Bootstrapper struct {
	table    *dependency.Table
	registry registry.Registry

	// mu guards everything below. State is written only by the single
	// controlling goroutine inside Initialize, between tiers; concurrent
	// readers go through Status.
	mu          sync.RWMutex
	started     bool
	runID       uuid.UUID
	stage       Stage
	history     []StageResult
	initialized map[string]bool
	failed      map[string]bool
	services    map[string]any
	capOwner    map[string]string
	startedAt   time.Time
	finishedAt  time.Time
}

// New creates a Bootstrapper over the given descriptor table and service
// registry. The table is not validated here; Initialize runs the validator
// before any side effect so that validation failures and run failures share
// one reporting path.
func New(table *dependency.Table, reg registry.Registry) (*Bootstrapper, error) {
	if table == nil {
		return nil, fmt.Errorf("descriptor table is required")
	}
	if reg == nil {
		return nil, fmt.Errorf("service registry is required")
	}
	return &Bootstrapper{
		table:       table,
		registry:    reg,
		stage:       StageNotStarted,
		initialized: make(map[string]bool),
		failed:      make(map[string]bool),
		services:    make(map[string]any),
		capOwner:    make(map[string]string),
	}, nil
}

// Initialize runs the orchestration once: graph validation, then each tier
// in ascending order, then READY. Any fatal condition (cycle, tier-invariant
// violation, missing action, required-system failure) transitions to FAILED
// and is returned; partial progress stays inspectable through Status.
//
// A second call while the instance is no longer NOT_STARTED is a no-op that
// logs a warning. It performs no construction calls and leaves history
// untouched.
func (b *Bootstrapper) Initialize(ctx context.Context) error {
	b.mu.Lock()
	if b.started {
		stage := b.stage
		b.mu.Unlock()
		logging.Warn("Bootstrap", "Initialize called again (current stage: %s); ignoring", stage)
		return nil
	}
	b.started = true
	b.runID = uuid.New()
	b.startedAt = time.Now()
	b.mu.Unlock()

	logging.Info("Bootstrap", "Starting initialization run %s (%d systems)", b.runID, b.table.Len())

	if err := dependency.Validate(b.table); err != nil {
		logging.Error("Bootstrap", err, "Dependency validation failed")
		b.fail()
		return err
	}

	// Every declared system must have a construction action before any of
	// them runs. Like validation, this happens pre side effect.
	for _, d := range b.table.All() {
		if _, ok := b.registry.Resolve(d.Name); !ok {
			err := &ActionNotRegisteredError{System: d.Name}
			logging.Error("Bootstrap", err, "Registry check failed")
			b.fail()
			return err
		}
	}

	for _, tier := range b.table.Tiers() {
		members := b.table.Tier(tier)

		b.mu.RLock()
		initialized := copySet(b.initialized)
		failed := copySet(b.failed)
		b.mu.RUnlock()

		run, err := runTier(ctx, tier, members, b.registry, initialized, failed)
		if err != nil {
			logging.Error("Bootstrap", err, "Tier %d aborted before launch", tier)
			b.fail()
			return err
		}

		// Fold this tier's results into shared state; this is the only
		// barrier between tiers.
		b.mu.Lock()
		for i, m := range members {
			switch run.outcomes[i].Status {
			case OutcomeSucceeded:
				b.initialized[m.Name] = true
				b.services[m.Name] = run.handles[m.Name]
				for _, c := range m.Capabilities {
					b.capOwner[c] = m.Name
				}
			case OutcomeFailed:
				b.failed[m.Name] = true
			}
		}
		result := stageResult(tier, run, members, b.initialized)
		b.history = append(b.history, result)
		if run.success {
			b.stage = TierStage(tier)
		}
		b.mu.Unlock()

		if !run.success {
			b.fail()
			err := b.stageFailure(tier, run)
			logging.Error("Bootstrap", err, "Stopping after tier %d: required system failed", tier)
			return err
		}
	}

	b.mu.Lock()
	b.stage = StageReady
	b.finishedAt = time.Now()
	b.mu.Unlock()

	status := b.Status()
	logging.Info("Bootstrap", "Initialization complete in %s (stability: %.2f)", status.Elapsed, status.Stability)
	return nil
}

// fail transitions the run into its terminal failure state.
func (b *Bootstrapper) fail() {
	b.mu.Lock()
	b.stage = StageFailed
	b.finishedAt = time.Now()
	b.mu.Unlock()
}

// stageFailure builds the terminal error for a tier in which a required
// system failed, preserving the underlying per-system errors.
func (b *Bootstrapper) stageFailure(tier int, run tierRun) *StageFailureError {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var errs []error
	for _, o := range run.outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return &StageFailureError{
		Tier:        tier,
		Initialized: sortedKeys(b.initialized),
		Failed:      sortedKeys(b.failed),
		Errs:        errs,
	}
}

// Status returns a read-only snapshot of the orchestrator state. It is safe
// to call from any goroutine at any point during or after a run and never
// blocks the run itself beyond the brief state read.
func (b *Bootstrapper) Status() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var elapsed time.Duration
	switch {
	case b.startedAt.IsZero():
	case b.finishedAt.IsZero():
		elapsed = time.Since(b.startedAt)
	default:
		elapsed = b.finishedAt.Sub(b.startedAt)
	}

	history := make([]StageResult, len(b.history))
	copy(history, b.history)

	return Status{
		RunID:       b.runID,
		Stage:       b.stage,
		Ready:       b.stage == StageReady,
		StartedAt:   b.startedAt,
		Elapsed:     elapsed,
		History:     history,
		Initialized: sortedKeys(b.initialized),
		Failed:      sortedKeys(b.failed),
		Stability:   b.stabilityLocked(),
	}
}

// ServiceResolver returns the resolver over the constructed service handles.
// It fails with a NotReadyError (wrapping ErrNotReady) at every stage other
// than READY, so no caller can observe a system's services before its tier
// has completed.
func (b *Bootstrapper) ServiceResolver() (*Resolver, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.stage != StageReady {
		return nil, &NotReadyError{Stage: b.stage}
	}

	services := make(map[string]any, len(b.services))
	for name, h := range b.services {
		services[name] = h
	}
	capabilities := make(map[string]any, len(b.capOwner))
	for c, owner := range b.capOwner {
		capabilities[c] = b.services[owner]
	}
	return &Resolver{services: services, capabilities: capabilities}, nil
}

func copySet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func sortedKeys(s map[string]bool) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
