package bootstrap

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Stage identifies where the orchestrator currently is in its lifecycle:
// NOT_STARTED, one stage per completed tier, then READY or FAILED.
type Stage string

const (
	StageNotStarted Stage = "not-started"
	StageReady      Stage = "ready"
	StageFailed     Stage = "failed"
)

// TierStage returns the stage entered after the given tier completes
// successfully.
func TierStage(tier int) Stage {
	return Stage(fmt.Sprintf("tier-%d", tier))
}

// OutcomeStatus tracks one system's initialization through its lifecycle.
type OutcomeStatus string

const (
	OutcomePending   OutcomeStatus = "pending"
	OutcomeRunning   OutcomeStatus = "running"
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomeFailed    OutcomeStatus = "failed"
)

// InitializationOutcome records one system's result for one run. It is
// created when the system's tier begins and written only by the goroutine
// that owns it; the scheduler folds it into shared state after the tier
// join, never before.
type InitializationOutcome struct {
	SystemName string
	Status     OutcomeStatus
	Duration   time.Duration

	// Err is set iff Status is OutcomeFailed.
	Err error
}

// StageResult is the record of one completed tier, appended to the
// orchestrator's history.
type StageResult struct {
	Tier int

	// Success is true iff no required system in the tier failed.
	// Optional-system failure does not affect it.
	Success bool

	// Duration is the wall clock for the whole tier, i.e. the slowest
	// concurrent initializer.
	Duration time.Duration

	// DependenciesResolved names every system successfully initialized up
	// to and including this tier.
	DependenciesResolved []string

	// ServicesInitialized is the union of the capabilities of this tier's
	// successful systems.
	ServicesInitialized []string

	// Outcomes holds the per-system results of this tier, in Order.
	Outcomes []InitializationOutcome
}

// Status is a read-only snapshot of the orchestrator state. It is safe to
// request from any goroutine at any point during or after a run.
type Status struct {
	RunID     uuid.UUID
	Stage     Stage
	Ready     bool
	StartedAt time.Time
	Elapsed   time.Duration
	History   []StageResult

	// Initialized and Failed are disjoint sets of system names, sorted.
	Initialized []string
	Failed      []string

	// Stability is the 0-1 diagnostic score; 0 unless the run is READY.
	Stability float64
}
