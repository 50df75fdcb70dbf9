package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
workers: 4
validate: schema/sdf-validation.jsonschema
strict: true
eventLog: /var/log/converter/run.tlog
logLevel: debug
info:
  title: OMA LwM2M Registry
  version: "2024-05-01"
  license: BSD-3-Clause
namespace:
  lwm2m: https://onedm.org/ecosystem/lwm2m
defaultNamespace: lwm2m
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Strict)
	assert.Equal(t, "schema/sdf-validation.jsonschema", cfg.Validate)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	require.NotNil(t, cfg.Info)
	assert.Equal(t, "2024-05-01", cfg.Info.Version)

	opts := cfg.Options()
	assert.Equal(t, "lwm2m", opts.DefaultNamespace)
	assert.Equal(t, "https://onedm.org/ecosystem/lwm2m", opts.Namespace["lwm2m"])
	require.NotNil(t, opts.Info)
	assert.Equal(t, "OMA LwM2M Registry", opts.Info.Title)
	assert.Equal(t, "BSD-3-Clause", opts.Info.License)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("strict: false\n"))
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 0, cfg.Workers)
	assert.Nil(t, cfg.Options().Info)

	cfg, err = Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name, doc, want string
	}{
		{"bad yaml", "workers: [", "parsing config"},
		{"wrong type", "workers: many", "parsing config"},
		{"negative workers", "workers: -1", "workers must not be negative"},
		{"bad level", "logLevel: loud", "unknown log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_ResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "converter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "schema", "sdf-validation.jsonschema"), cfg.Validate)
	assert.Equal(t, "/var/log/converter/run.tlog", cfg.EventLog, "absolute paths are kept")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logLevel: loud\n"), 0o644))
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	assert.Equal(t, slog.LevelInfo, (&Config{LogLevel: "bogus"}).Level())
}
