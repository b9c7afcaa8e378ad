package factory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDryRunService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pno.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed:\n  workers: 2\nlog:\n  level: error\n"), 0o600))

	f := New("test")
	f.Options.ConfigFile = path
	f.Options.DryRun = true
	f.Options.Seed = 42
	defer f.Close()

	cfg, err := f.Config()
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed.Seed)
	assert.Equal(t, 2, cfg.Seed.Workers)

	svc, err := f.Service(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), svc.Seed())

	require.NoError(t, f.Migrate(context.Background()))
}

func TestFlagOverridesAreValidated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pno.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600))

	f := New("test")
	f.Options.ConfigFile = path
	f.Options.LogLevel = "chatty"

	_, err := f.Config()
	assert.Error(t, err)
}

func TestFlagOverrideRescuesInvalidFileValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pno.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o600))

	f := New("test")
	f.Options.ConfigFile = path
	f.Options.LogLevel = "debug"

	cfg, err := f.Config()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInvalidFileValueWithoutOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pno.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: loud\n"), 0o600))

	f := New("test")
	f.Options.ConfigFile = path

	_, err := f.Config()
	assert.Error(t, err)
}
