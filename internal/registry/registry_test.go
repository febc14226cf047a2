package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopAction(ctx context.Context) (any, error) { return nil, nil }

func TestRegisterAndResolve(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("memory-store", noopAction))

	action, ok := r.Resolve("memory-store")
	assert.True(t, ok)
	assert.NotNil(t, action)

	_, ok = r.Resolve("missing")
	assert.False(t, ok)
}

func TestRegisterRejectsInvalid(t *testing.T) {
	r := New()

	err := r.Register("", noopAction)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty system name")

	err = r.Register("memory-store", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil action")
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("memory-store", noopAction))

	err := r.Register("memory-store", noopAction)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestNamesSorted(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("plot-service", noopAction))
	require.NoError(t, r.Register("memory-store", noopAction))
	require.NoError(t, r.Register("analysis-service", noopAction))

	assert.Equal(t, []string{"analysis-service", "memory-store", "plot-service"}, r.Names())
}
