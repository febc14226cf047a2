package bootstrap

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotReady is the sentinel wrapped by NotReadyError. Callers use it to
// tell "not started / still starting" apart from a genuinely broken run.
var ErrNotReady = errors.New("orchestrator not ready")

// NotReadyError is returned by ServiceResolver before the run reaches READY.
type NotReadyError struct {
	Stage Stage
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("service resolver unavailable: orchestrator not ready (current stage: %s)", e.Stage)
}

func (e *NotReadyError) Unwrap() error {
	return ErrNotReady
}

// IsNotReady checks whether err is or wraps the not-ready condition.
func IsNotReady(err error) bool {
	return errors.Is(err, ErrNotReady)
}

// StageFailureError is the terminal error of a run in which a required
// system failed. It carries how far the run got.
type StageFailureError struct {
	// Tier is the failing stage number.
	Tier int

	// Initialized names the systems that succeeded before the run stopped.
	Initialized []string

	// Failed names the systems that failed, required and optional alike.
	Failed []string

	// Errs holds the underlying per-system errors from the failing tier.
	Errs []error
}

func (e *StageFailureError) Error() string {
	return fmt.Sprintf("initialization failed at tier %d: %d system(s) failed (%s)",
		e.Tier, len(e.Failed), strings.Join(e.Failed, ", "))
}

// Unwrap exposes the underlying per-system errors for errors.Is/As.
func (e *StageFailureError) Unwrap() []error {
	return e.Errs
}

// IsStageFailure checks whether err is or wraps a StageFailureError.
func IsStageFailure(err error) bool {
	var stageErr *StageFailureError
	return errors.As(err, &stageErr)
}

// UnmetDependencyError marks a system that was skipped because one of its
// dependencies failed in an earlier tier. The system's constructor is never
// invoked in that case.
type UnmetDependencyError struct {
	System     string
	Dependency string
}

func (e *UnmetDependencyError) Error() string {
	return fmt.Sprintf("system %s skipped: dependency %s failed to initialize", e.System, e.Dependency)
}

// IsUnmetDependency checks whether err is or wraps an UnmetDependencyError.
func IsUnmetDependency(err error) bool {
	var unmetErr *UnmetDependencyError
	return errors.As(err, &unmetErr)
}

// InconsistentTierError reports a dependency that is neither initialized nor
// failed when its dependent's tier is about to launch. The validator makes
// this unreachable for tables it accepted; it exists as a hard assertion so
// a scheduling bug can never silently start a system before its
// dependencies.
type InconsistentTierError struct {
	System     string
	Dependency string
	Tier       int
}

func (e *InconsistentTierError) Error() string {
	return fmt.Sprintf("tier %d cannot start: dependency %s of system %s has not been processed (inconsistent tier assignment)",
		e.Tier, e.Dependency, e.System)
}

// ActionNotRegisteredError reports a declared system with no construction
// action in the registry. Detected before any constructor runs.
type ActionNotRegisteredError struct {
	System string
}

func (e *ActionNotRegisteredError) Error() string {
	return fmt.Sprintf("no construction action registered for system %s", e.System)
}
