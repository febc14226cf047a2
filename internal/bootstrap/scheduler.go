package bootstrap

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"ignition/internal/dependency"
	"ignition/internal/registry"
	"ignition/pkg/logging"
)

// tierRun is the result of one tier: the per-system outcomes in Order, the
// constructed handles of the successes, and whether a required system
// failed.
type tierRun struct {
	outcomes []InitializationOutcome
	handles  map[string]any
	duration time.Duration
	success  bool
}

// runTier launches one goroutine per runnable system in the tier and joins
// on all of them before evaluating the outcome. There is no synchronization
// between members (systems in a tier must not depend on each other; the
// validator enforces that) and no cancellation within the tier: a failing
// sibling must not discard a slower optional system's success, so every
// launched initializer runs to completion.
//
// Systems whose dependency failed in an earlier tier are skipped without
// invoking their constructor and marked Failed with an UnmetDependencyError.
// A dependency that is neither initialized nor failed aborts the tier before
// any constructor runs; that can only mean an inconsistent tier assignment.
func runTier(ctx context.Context, tier int, members []dependency.SystemDescriptor, reg registry.Registry, initialized, failed map[string]bool) (tierRun, error) {
	// Assert the barrier's promise before launching anything.
	skipped := make(map[string]*UnmetDependencyError, len(members))
	for _, m := range members {
		for _, dep := range m.Dependencies {
			switch {
			case initialized[dep]:
				// Satisfied in an earlier tier.
			case failed[dep]:
				if skipped[m.Name] == nil {
					skipped[m.Name] = &UnmetDependencyError{System: m.Name, Dependency: dep}
				}
			default:
				return tierRun{}, &InconsistentTierError{System: m.Name, Dependency: dep, Tier: tier}
			}
		}
	}

	logging.Info("TierScheduler", "Starting tier %d with %d system(s)", tier, len(members))
	start := time.Now()

	outcomes := make([]InitializationOutcome, len(members))
	handles := make([]any, len(members))
	for i, m := range members {
		outcomes[i] = InitializationOutcome{SystemName: m.Name, Status: OutcomePending}
	}

	var g errgroup.Group
	for i, m := range members {
		if unmet := skipped[m.Name]; unmet != nil {
			outcomes[i] = InitializationOutcome{
				SystemName: m.Name,
				Status:     OutcomeFailed,
				Err:        unmet,
			}
			logging.Warn("TierScheduler", "Skipping system %s: dependency %s failed earlier", m.Name, unmet.Dependency)
			continue
		}

		action, ok := reg.Resolve(m.Name)
		if !ok {
			// Pre-flight checking makes this unreachable; record it as a
			// plain failure rather than panic if it ever happens.
			outcomes[i] = InitializationOutcome{
				SystemName: m.Name,
				Status:     OutcomeFailed,
				Err:        &ActionNotRegisteredError{System: m.Name},
			}
			continue
		}

		i, m := i, m // per-iteration copies for pre-1.22 loop semantics
		g.Go(func() error {
			outcomes[i], handles[i] = runInitializer(ctx, m, action)
			return nil
		})
	}

	// Join: every launched initializer reaches Succeeded or Failed before
	// the tier is evaluated.
	_ = g.Wait()

	run := tierRun{
		outcomes: outcomes,
		handles:  make(map[string]any, len(members)),
		duration: time.Since(start),
		success:  true,
	}
	for i, m := range members {
		switch outcomes[i].Status {
		case OutcomeSucceeded:
			run.handles[m.Name] = handles[i]
		case OutcomeFailed:
			if m.Required {
				run.success = false
			}
			logging.Error("TierScheduler", outcomes[i].Err, "System %s failed in tier %d (required=%t)", m.Name, tier, m.Required)
		}
	}

	logging.Info("TierScheduler", "Tier %d finished in %s (success=%t)", tier, run.duration, run.success)
	return run, nil
}

// stageResult folds a tier run into the StageResult appended to history.
func stageResult(tier int, run tierRun, members []dependency.SystemDescriptor, initialized map[string]bool) StageResult {
	resolved := make([]string, 0, len(initialized))
	for name := range initialized {
		resolved = append(resolved, name)
	}
	sort.Strings(resolved)

	var services []string
	for i, m := range members {
		if run.outcomes[i].Status == OutcomeSucceeded {
			services = append(services, m.Capabilities...)
		}
	}
	sort.Strings(services)

	return StageResult{
		Tier:                 tier,
		Success:              run.success,
		Duration:             run.duration,
		DependenciesResolved: resolved,
		ServicesInitialized:  services,
		Outcomes:             run.outcomes,
	}
}
