package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mash-protocol/mash-session/pkg/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := parseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseLevel("loud")
	assert.Error(t, err)
}

func TestLoadPolicyDefault(t *testing.T) {
	cfg, resolver, err := loadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, policy.Default(), cfg)
	assert.Nil(t, resolver)
}

func TestLoadPolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "night.yaml")
	doc := `policy:
  id: vendor-night
  processor: night
processors:
  - id: night
    operations: [zoom, torch]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, resolver, err := loadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, "vendor-night", cfg.ID)

	p, err := resolver.Resolve(cfg)
	require.NoError(t, err)
	assert.Equal(t, "night", p.ID())
}

func TestLoadPolicyMissingFile(t *testing.T) {
	_, _, err := loadPolicy(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSwitchWriter(t *testing.T) {
	var a, b bytes.Buffer
	w := &switchWriter{w: &a}

	_, _ = w.Write([]byte("one"))
	w.Set(&b)
	_, _ = w.Write([]byte("two"))

	assert.Equal(t, "one", a.String())
	assert.Equal(t, "two", b.String())
}

func TestLoadEnvDefaults(t *testing.T) {
	cfg, err := loadEnv()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "0", cfg.DeviceID)
	assert.Equal(t, 50*time.Millisecond, cfg.ReleaseDelay)
	assert.False(t, cfg.Interactive)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MASH_SESSION_POLICY", "night.yaml")
	t.Setenv("MASH_SESSION_DEVICE", "2")
	t.Setenv("MASH_SESSION_FRONT", "true")
	t.Setenv("MASH_SESSION_RELEASE_DELAY", "1s")

	cfg, err := loadEnv()
	require.NoError(t, err)
	assert.Equal(t, "night.yaml", cfg.PolicyFile)
	assert.Equal(t, "2", cfg.DeviceID)
	assert.True(t, cfg.FrontFacing)
	assert.Equal(t, time.Second, cfg.ReleaseDelay)
}

func TestLoadEnvInvalid(t *testing.T) {
	t.Setenv("MASH_SESSION_RELEASE_DELAY", "soon")

	_, err := loadEnv()
	assert.Error(t, err)
}
