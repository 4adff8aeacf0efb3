package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-inject/framework/config"
)

// ── helpers ──────────────────────────────────────────────────────────────────

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func missingEnv(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("", missingEnv(t))
	require.NoError(t, err)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"App.Name", cfg.App.Name, "GoInject"},
		{"App.Env", cfg.App.Env, "local"},
		{"App.Debug", cfg.App.Debug, true},
		{"App.Port", cfg.App.Port, "8000"},
		{"Log.Format", cfg.Log.Format, "console"},
		{"Log.Level", cfg.Log.Level, "info"},
		{"Metrics.Driver", cfg.Metrics.Driver, "prometheus"},
		{"Metrics.Namespace", cfg.Metrics.Namespace, "goinject"},
		{"Metrics.Path", cfg.Metrics.Path, "/metrics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("APP_NAME", "MyApp")
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("APP_DEBUG", "false")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("METRICS_DRIVER", "nop")

	cfg, err := config.Load("", missingEnv(t))
	require.NoError(t, err)

	assert.Equal(t, "MyApp", cfg.App.Name)
	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.False(t, cfg.App.Debug)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "nop", cfg.Metrics.Driver)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	path := writeFile(t, "config.yaml", `app:
  name: "from-file"
  port: "7000"
log:
  format: "json"
  level: "debug"
metrics:
  namespace: "custom"
`)
	t.Setenv("APP_PORT", "7100")

	cfg, err := config.Load(path, missingEnv(t))
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.App.Name)
	assert.Equal(t, "7100", cfg.App.Port, "environment wins over file")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "custom", cfg.Metrics.Namespace)
	assert.Equal(t, "prometheus", cfg.Metrics.Driver, "unset keys keep defaults")
}

func TestLoad_JSONFile(t *testing.T) {
	path := writeFile(t, "config.json", `{"app":{"name":"json-app"},"metrics":{"driver":"nop"}}`)

	cfg, err := config.Load(path, missingEnv(t))
	require.NoError(t, err)
	assert.Equal(t, "json-app", cfg.App.Name)
	assert.Equal(t, "nop", cfg.Metrics.Driver)
}

func TestLoad_DotEnvFile(t *testing.T) {
	envFile := writeFile(t, "test.env", "APP_NAME=DotEnvApp\n")
	t.Cleanup(func() { _ = os.Unsetenv("APP_NAME") })

	cfg, err := config.Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "DotEnvApp", cfg.App.Name)
}

func TestLoad_MissingEnvFileDoesNotSkipLaterOnes(t *testing.T) {
	envFile := writeFile(t, "real.env", "APP_NAME=SecondFile\n")
	t.Cleanup(func() { _ = os.Unsetenv("APP_NAME") })

	cfg, err := config.Load("", missingEnv(t), envFile)
	require.NoError(t, err)
	assert.Equal(t, "SecondFile", cfg.App.Name)
}

func TestLoad_UnreadableEnvFile(t *testing.T) {
	_, err := config.Load("", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load env file")
}

func TestLoad_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "config.toml", "")
	_, err := config.Load(path, missingEnv(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), missingEnv(t))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	t.Setenv("APP_PORT", "eighty")

	_, err := config.Load("", missingEnv(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown log.format "xml"`)
	assert.Contains(t, err.Error(), "app.port must be numeric")
}

// ── Validate ─────────────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	cfg := config.Defaults()
	assert.NoError(t, cfg.Validate())

	cfg.Metrics.Driver = "statsd"
	cfg.Metrics.Path = "metrics"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown metrics.driver "statsd"`)
	assert.Contains(t, err.Error(), "metrics.path must start with /")
}
