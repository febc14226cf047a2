package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ignition/internal/dependency"
	"ignition/internal/registry"
)

// actionRecorder builds registry actions that count their invocations, so
// tests can prove which constructors ran.
type actionRecorder struct {
	mu    sync.Mutex
	calls map[string]int
}

func newActionRecorder() *actionRecorder {
	return &actionRecorder{calls: make(map[string]int)}
}

func (r *actionRecorder) action(name string, handle any, err error) registry.Action {
	return func(ctx context.Context) (any, error) {
		r.mu.Lock()
		r.calls[name]++
		r.mu.Unlock()
		return handle, err
	}
}

func (r *actionRecorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}

func newBootstrapper(t *testing.T, descriptors []dependency.SystemDescriptor, actions map[string]registry.Action) *Bootstrapper {
	t.Helper()
	table, err := dependency.NewTable(descriptors...)
	require.NoError(t, err)

	reg := registry.New()
	for name, action := range actions {
		require.NoError(t, reg.Register(name, action))
	}

	b, err := New(table, reg)
	require.NoError(t, err)
	return b
}

func TestInitializeReachesReady(t *testing.T) {
	rec := newActionRecorder()
	b := newBootstrapper(t,
		[]dependency.SystemDescriptor{
			{Name: "memory-store", Tier: 1, Required: true, Capabilities: []string{"memory"}},
			{Name: "parameter-store", Tier: 1, Required: true, Capabilities: []string{"parameters"}},
			{Name: "character-service", Tier: 2, Required: true, Dependencies: []string{"memory-store", "parameter-store"}, Capabilities: []string{"characters"}},
			{Name: "analysis-service", Tier: 3, Dependencies: []string{"character-service"}, Capabilities: []string{"analysis"}},
		},
		map[string]registry.Action{
			"memory-store":      rec.action("memory-store", "memory-handle", nil),
			"parameter-store":   rec.action("parameter-store", "param-handle", nil),
			"character-service": rec.action("character-service", "char-handle", nil),
			"analysis-service":  rec.action("analysis-service", "analysis-handle", nil),
		},
	)

	require.NoError(t, b.Initialize(context.Background()))

	status := b.Status()
	assert.Equal(t, StageReady, status.Stage)
	assert.True(t, status.Ready)
	assert.Equal(t, []string{"analysis-service", "character-service", "memory-store", "parameter-store"}, status.Initialized)
	assert.Empty(t, status.Failed)
	assert.InDelta(t, 1.0, status.Stability, 1e-9)
	require.Len(t, status.History, 3)

	// Each system's constructor ran exactly once.
	for _, name := range []string{"memory-store", "parameter-store", "character-service", "analysis-service"} {
		assert.Equal(t, 1, rec.count(name), name)
	}

	// Stage results accumulate resolved dependencies and capabilities.
	assert.Equal(t, []string{"memory-store", "parameter-store"}, status.History[0].DependenciesResolved)
	assert.Equal(t, []string{"memory", "parameters"}, status.History[0].ServicesInitialized)
	assert.Equal(t, []string{"character-service", "memory-store", "parameter-store"}, status.History[1].DependenciesResolved)
	assert.Equal(t, []string{"analysis"}, status.History[2].ServicesInitialized)
}

func TestInitializeRejectsCycleBeforeAnyConstruction(t *testing.T) {
	rec := newActionRecorder()
	b := newBootstrapper(t,
		[]dependency.SystemDescriptor{
			{Name: "a", Tier: 1, Required: true, Dependencies: []string{"b"}},
			{Name: "b", Tier: 1, Required: true, Dependencies: []string{"a"}},
		},
		map[string]registry.Action{
			"a": rec.action("a", nil, nil),
			"b": rec.action("b", nil, nil),
		},
	)

	err := b.Initialize(context.Background())
	require.Error(t, err)
	assert.True(t, dependency.IsCycle(err))

	var cycleErr *dependency.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Contains(t, cycleErr.Path, "a")
	assert.Contains(t, cycleErr.Path, "b")

	assert.Equal(t, 0, rec.count("a"))
	assert.Equal(t, 0, rec.count("b"))

	status := b.Status()
	assert.Equal(t, StageFailed, status.Stage)
	assert.Empty(t, status.History)
}

func TestInitializeRejectsTierOrderViolation(t *testing.T) {
	rec := newActionRecorder()
	b := newBootstrapper(t,
		[]dependency.SystemDescriptor{
			{Name: "memory-store", Tier: 2, Required: true},
			{Name: "character-service", Tier: 1, Required: true, Dependencies: []string{"memory-store"}},
		},
		map[string]registry.Action{
			"memory-store":      rec.action("memory-store", nil, nil),
			"character-service": rec.action("character-service", nil, nil),
		},
	)

	err := b.Initialize(context.Background())
	require.Error(t, err)
	assert.True(t, dependency.IsTierOrder(err))
	assert.Equal(t, 0, rec.count("memory-store"))
	assert.Equal(t, 0, rec.count("character-service"))
	assert.Equal(t, StageFailed, b.Status().Stage)
}

func TestInitializeRejectsMissingAction(t *testing.T) {
	rec := newActionRecorder()
	b := newBootstrapper(t,
		[]dependency.SystemDescriptor{
			{Name: "memory-store", Tier: 1, Required: true},
			{Name: "plot-service", Tier: 2, Required: true, Dependencies: []string{"memory-store"}},
		},
		map[string]registry.Action{
			"memory-store": rec.action("memory-store", nil, nil),
		},
	)

	err := b.Initialize(context.Background())
	require.Error(t, err)

	var missingErr *ActionNotRegisteredError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, "plot-service", missingErr.System)
	assert.Equal(t, 0, rec.count("memory-store"))
}

func TestFailFastOnRequiredFailure(t *testing.T) {
	rec := newActionRecorder()
	bErr := errors.New("store exploded")
	b := newBootstrapper(t,
		[]dependency.SystemDescriptor{
			{Name: "a", Tier: 1, Required: true},
			{Name: "b", Tier: 2, Required: true, Dependencies: []string{"a"}},
			{Name: "c", Tier: 3, Dependencies: []string{"b"}},
		},
		map[string]registry.Action{
			"a": rec.action("a", "a-handle", nil),
			"b": rec.action("b", nil, bErr),
			"c": rec.action("c", nil, nil),
		},
	)

	err := b.Initialize(context.Background())
	require.Error(t, err)

	var stageErr *StageFailureError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, 2, stageErr.Tier)
	assert.Equal(t, []string{"a"}, stageErr.Initialized)
	assert.Equal(t, []string{"b"}, stageErr.Failed)
	assert.ErrorIs(t, err, bErr)

	// c's constructor is never invoked: tier 3 never starts.
	assert.Equal(t, 0, rec.count("c"))

	status := b.Status()
	assert.Equal(t, StageFailed, status.Stage)
	assert.Equal(t, []string{"a"}, status.Initialized)
	assert.Equal(t, []string{"b"}, status.Failed)
	assert.Zero(t, status.Stability)
	require.Len(t, status.History, 2)
	assert.True(t, status.History[0].Success)
	assert.False(t, status.History[1].Success)
}

func TestOptionalFailureIsTolerated(t *testing.T) {
	rec := newActionRecorder()
	b := newBootstrapper(t,
		[]dependency.SystemDescriptor{
			{Name: "a", Tier: 1, Required: true},
			{Name: "b", Tier: 2, Required: false, Dependencies: []string{"a"}},
			{Name: "c", Tier: 2, Required: true, Dependencies: []string{"a"}},
		},
		map[string]registry.Action{
			"a": rec.action("a", nil, nil),
			"b": rec.action("b", nil, errors.New("optional cache offline")),
			"c": rec.action("c", nil, nil),
		},
	)

	require.NoError(t, b.Initialize(context.Background()))

	status := b.Status()
	assert.True(t, status.Ready)
	assert.Equal(t, []string{"b"}, status.Failed)
	assert.Equal(t, []string{"a", "c"}, status.Initialized)
	assert.Greater(t, status.Stability, 0.0)
	assert.Less(t, status.Stability, 1.0)
	require.Len(t, status.History, 2)
	assert.True(t, status.History[1].Success)
}

func TestTierRunsConcurrently(t *testing.T) {
	const delay = 100 * time.Millisecond

	slow := func(ctx context.Context) (any, error) {
		time.Sleep(delay)
		return nil, nil
	}

	b := newBootstrapper(t,
		[]dependency.SystemDescriptor{
			{Name: "left", Tier: 1, Required: true},
			{Name: "right", Tier: 1, Required: true},
		},
		map[string]registry.Action{
			"left":  slow,
			"right": slow,
		},
	)

	require.NoError(t, b.Initialize(context.Background()))

	status := b.Status()
	require.Len(t, status.History, 1)
	// The tier takes about one delay, not two: both initializers ran in
	// parallel. Generous upper bound for slow CI machines.
	assert.GreaterOrEqual(t, status.History[0].Duration, delay)
	assert.Less(t, status.History[0].Duration, 2*delay)
}

func TestSiblingsRunToCompletionAfterFailure(t *testing.T) {
	rec := newActionRecorder()
	slowDone := make(chan struct{})

	b := newBootstrapper(t,
		[]dependency.SystemDescriptor{
			{Name: "fast-failure", Tier: 1, Required: true},
			{Name: "slow-optional", Tier: 1, Required: false},
		},
		map[string]registry.Action{
			"fast-failure": rec.action("fast-failure", nil, errors.New("boom")),
			"slow-optional": func(ctx context.Context) (any, error) {
				time.Sleep(50 * time.Millisecond)
				close(slowDone)
				return nil, nil
			},
		},
	)

	err := b.Initialize(context.Background())
	require.Error(t, err)

	// The slow optional sibling was not abandoned; its success is recorded
	// even though the tier failed.
	select {
	case <-slowDone:
	default:
		t.Fatal("slow sibling did not run to completion")
	}
	status := b.Status()
	assert.Equal(t, []string{"slow-optional"}, status.Initialized)
	assert.Equal(t, []string{"fast-failure"}, status.Failed)
}

func TestIdempotentStart(t *testing.T) {
	rec := newActionRecorder()
	b := newBootstrapper(t,
		[]dependency.SystemDescriptor{
			{Name: "memory-store", Tier: 1, Required: true},
		},
		map[string]registry.Action{
			"memory-store": rec.action("memory-store", nil, nil),
		},
	)

	require.NoError(t, b.Initialize(context.Background()))
	first := b.Status()

	require.NoError(t, b.Initialize(context.Background()))
	second := b.Status()

	assert.Equal(t, 1, rec.count("memory-store"))
	assert.Equal(t, first.History, second.History)
	assert.Equal(t, first.RunID, second.RunID)
}

func TestIdempotentStartAfterFailure(t *testing.T) {
	rec := newActionRecorder()
	b := newBootstrapper(t,
		[]dependency.SystemDescriptor{
			{Name: "memory-store", Tier: 1, Required: true},
		},
		map[string]registry.Action{
			"memory-store": rec.action("memory-store", nil, errors.New("no disk")),
		},
	)

	require.Error(t, b.Initialize(context.Background()))
	require.NoError(t, b.Initialize(context.Background()))
	assert.Equal(t, 1, rec.count("memory-store"))
	assert.Equal(t, StageFailed, b.Status().Stage)
}

func TestServiceResolverGating(t *testing.T) {
	block := make(chan struct{})
	b := newBootstrapper(t,
		[]dependency.SystemDescriptor{
			{Name: "memory-store", Tier: 1, Required: true, Capabilities: []string{"memory"}},
		},
		map[string]registry.Action{
			"memory-store": func(ctx context.Context) (any, error) {
				<-block
				return "memory-handle", nil
			},
		},
	)

	// Immediately after construction.
	_, err := b.ServiceResolver()
	require.Error(t, err)
	assert.True(t, IsNotReady(err))

	var notReady *NotReadyError
	require.ErrorAs(t, err, &notReady)
	assert.Equal(t, StageNotStarted, notReady.Stage)

	// During a tier.
	done := make(chan error, 1)
	go func() { done <- b.Initialize(context.Background()) }()

	require.Eventually(t, func() bool {
		return b.Status().Elapsed > 0
	}, time.Second, 5*time.Millisecond)

	_, err = b.ServiceResolver()
	require.Error(t, err)
	assert.True(t, IsNotReady(err))

	close(block)
	require.NoError(t, <-done)

	// After READY the resolver works, by system name and by capability.
	resolver, err := b.ServiceResolver()
	require.NoError(t, err)

	h, err := resolver.System("memory-store")
	require.NoError(t, err)
	assert.Equal(t, "memory-handle", h)

	h, err = resolver.Capability("memory")
	require.NoError(t, err)
	assert.Equal(t, "memory-handle", h)

	_, err = resolver.System("missing")
	assert.Error(t, err)
	assert.Equal(t, []string{"memory-store"}, resolver.Systems())
}

func TestDependentOfFailedOptionalIsSkipped(t *testing.T) {
	rec := newActionRecorder()
	b := newBootstrapper(t,
		[]dependency.SystemDescriptor{
			{Name: "a", Tier: 1, Required: true},
			{Name: "cache", Tier: 1, Required: false},
			{Name: "cache-warmer", Tier: 2, Required: false, Dependencies: []string{"cache"}},
			{Name: "core", Tier: 2, Required: true, Dependencies: []string{"a"}},
		},
		map[string]registry.Action{
			"a":            rec.action("a", nil, nil),
			"cache":        rec.action("cache", nil, errors.New("cache offline")),
			"cache-warmer": rec.action("cache-warmer", nil, nil),
			"core":         rec.action("core", nil, nil),
		},
	)

	require.NoError(t, b.Initialize(context.Background()))

	// The dependent of the failed optional system is skipped without its
	// constructor running, and recorded as failed with a distinct error.
	assert.Equal(t, 0, rec.count("cache-warmer"))

	status := b.Status()
	assert.True(t, status.Ready)
	assert.Equal(t, []string{"cache", "cache-warmer"}, status.Failed)

	var skippedOutcome InitializationOutcome
	for _, o := range status.History[1].Outcomes {
		if o.SystemName == "cache-warmer" {
			skippedOutcome = o
		}
	}
	require.Equal(t, OutcomeFailed, skippedOutcome.Status)
	assert.True(t, IsUnmetDependency(skippedOutcome.Err))
}

func TestRequiredDependentOfFailedOptionalFailsTier(t *testing.T) {
	rec := newActionRecorder()
	b := newBootstrapper(t,
		[]dependency.SystemDescriptor{
			{Name: "cache", Tier: 1, Required: false},
			{Name: "core", Tier: 2, Required: true, Dependencies: []string{"cache"}},
		},
		map[string]registry.Action{
			"cache": rec.action("cache", nil, errors.New("cache offline")),
			"core":  rec.action("core", nil, nil),
		},
	)

	err := b.Initialize(context.Background())
	require.Error(t, err)
	assert.True(t, IsStageFailure(err))
	assert.Equal(t, 0, rec.count("core"))
}

func TestPanicInActionBecomesFailure(t *testing.T) {
	b := newBootstrapper(t,
		[]dependency.SystemDescriptor{
			{Name: "flaky", Tier: 1, Required: false},
			{Name: "steady", Tier: 1, Required: true},
		},
		map[string]registry.Action{
			"flaky":  func(ctx context.Context) (any, error) { panic("nil pointer somewhere") },
			"steady": func(ctx context.Context) (any, error) { return nil, nil },
		},
	)

	require.NoError(t, b.Initialize(context.Background()))

	status := b.Status()
	assert.True(t, status.Ready)
	assert.Equal(t, []string{"flaky"}, status.Failed)
	assert.Equal(t, []string{"steady"}, status.Initialized)
}

func TestNewValidatesArguments(t *testing.T) {
	table, err := dependency.NewTable()
	require.NoError(t, err)

	_, err = New(nil, registry.New())
	assert.Error(t, err)

	_, err = New(table, nil)
	assert.Error(t, err)
}
