package bootstrap

import (
	"context"
	"fmt"
	"time"

	"ignition/internal/dependency"
	"ignition/internal/registry"
	"ignition/pkg/logging"
)

// runInitializer executes one system's construction action and converts the
// result into an InitializationOutcome. It never lets a failure escape: an
// error return or a panic inside the delegated action becomes a Failed
// outcome, so a broken initializer cannot abort or corrupt its siblings in
// the tier. No business logic and no retries live here; both belong to the
// action itself.
func runInitializer(ctx context.Context, desc dependency.SystemDescriptor, action registry.Action) (outcome InitializationOutcome, handle any) {
	outcome = InitializationOutcome{SystemName: desc.Name, Status: OutcomeRunning}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			outcome.Duration = time.Since(start)
			outcome.Status = OutcomeFailed
			outcome.Err = fmt.Errorf("initializer for system %s panicked: %v", desc.Name, r)
			handle = nil
			logging.Error("Initializer", outcome.Err, "System %s panicked during initialization", desc.Name)
		}
	}()

	logging.Debug("Initializer", "Initializing system %s", desc.Name)
	h, err := action(ctx)
	outcome.Duration = time.Since(start)

	if err != nil {
		outcome.Status = OutcomeFailed
		outcome.Err = fmt.Errorf("system %s failed to initialize: %w", desc.Name, err)
		return outcome, nil
	}

	outcome.Status = OutcomeSucceeded
	logging.Debug("Initializer", "System %s initialized in %s", desc.Name, outcome.Duration)
	return outcome, h
}
