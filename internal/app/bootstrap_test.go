package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ignition/internal/bootstrap"
	"ignition/internal/systems"
)

func TestNewApplicationWithDefaults(t *testing.T) {
	cfg := NewConfig(false, true, filepath.Join(t.TempDir(), "ignition.yaml"))

	application, err := NewApplication(cfg)
	require.NoError(t, err)
	assert.Equal(t, 5, application.Table().Len())
	assert.Equal(t, bootstrap.StageNotStarted, application.Status().Stage)
}

func TestRunDefaultManifestReachesReady(t *testing.T) {
	cfg := NewConfig(false, true, filepath.Join(t.TempDir(), "ignition.yaml"))

	application, err := NewApplication(cfg)
	require.NoError(t, err)
	require.NoError(t, application.Run(context.Background()))

	status := application.Status()
	assert.True(t, status.Ready)
	assert.Empty(t, status.Failed)
	assert.InDelta(t, 1.0, status.Stability, 1e-9)

	resolver, err := application.ServiceResolver()
	require.NoError(t, err)

	h, err := resolver.Capability("characters")
	require.NoError(t, err)
	characters, ok := h.(*systems.CharacterService)
	require.True(t, ok)

	characters.Add("ada", "an engineer")
	sketch, ok := characters.Get("ada")
	assert.True(t, ok)
	assert.Equal(t, "an engineer", sketch)
}

func TestNewApplicationRejectsUnknownSystem(t *testing.T) {
	manifest := `
systems:
  - name: memory-store
    tier: 1
    required: true
  - name: mystery-service
    tier: 2
    dependencies: [memory-store]
`
	path := filepath.Join(t.TempDir(), "ignition.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	_, err := NewApplication(NewConfig(false, true, path))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mystery-service")
}

func TestRunSurfacesValidationFailure(t *testing.T) {
	manifest := `
systems:
  - name: memory-store
    tier: 1
    required: true
  - name: parameter-store
    tier: 1
    required: true
    dependencies: [memory-store]
`
	path := filepath.Join(t.TempDir(), "ignition.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	application, err := NewApplication(NewConfig(false, true, path))
	require.NoError(t, err)

	err = application.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, bootstrap.StageFailed, application.Status().Stage)
}
