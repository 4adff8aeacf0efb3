package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/km-arc/go-inject/framework/logging"
	"github.com/km-arc/go-inject/framework/metrics"
)

// Config is the central typed configuration struct.
type Config struct {
	App     AppConfig      `koanf:"app"`
	Log     logging.Config `koanf:"log"`
	Metrics metrics.Config `koanf:"metrics"`
}

type AppConfig struct {
	Name  string `koanf:"name"`
	Env   string `koanf:"env"` // local | production | testing
	Debug bool   `koanf:"debug"`
	Port  string `koanf:"port"`
}

// envSections lists the variable prefixes mapped onto the config tree:
// APP_NAME → app.name, LOG_FORMAT → log.format, METRICS_DRIVER → metrics.driver.
var envSections = []string{"app", "log", "metrics"}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		App: AppConfig{
			Name:  "GoInject",
			Env:   "local",
			Debug: true,
			Port:  "8000",
		},
		Log: logging.Config{
			Format: logging.FormatConsole,
			Level:  "info",
		},
		Metrics: metrics.Config{
			Driver:    metrics.DriverPrometheus,
			Namespace: "goinject",
			Path:      "/metrics",
		},
	}
}

// Load builds a Config from defaults, an optional YAML/JSON file and the
// environment, in that order of precedence (environment wins).
//
// envFiles are loaded into the process environment first, each on its own;
// they default to ".env" and a missing file is skipped.
//
//	cfg, err := config.Load("config.yaml")
func Load(path string, envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		// Non-fatal: .env may not exist in production
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	k := koanf.New(".")
	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps SECTION_FIELD to section.field and drops unrelated variables.
func envKey(s string) string {
	s = strings.ToLower(s)
	for _, section := range envSections {
		if rest, ok := strings.CutPrefix(s, section+"_"); ok && rest != "" {
			return section + "." + rest
		}
	}
	return ""
}

// Validate checks enumerated fields.
func (c Config) Validate() error {
	var errs []error
	if _, err := strconv.Atoi(c.App.Port); err != nil {
		errs = append(errs, fmt.Errorf("app.port must be numeric, got %q", c.App.Port))
	}
	switch strings.ToLower(c.Log.Format) {
	case logging.FormatConsole, logging.FormatJSON, logging.FormatNop:
	default:
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}
	switch strings.ToLower(c.Metrics.Driver) {
	case metrics.DriverPrometheus, metrics.DriverNop:
	default:
		errs = append(errs, fmt.Errorf("unknown metrics.driver %q", c.Metrics.Driver))
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with /, got %q", c.Metrics.Path))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether App.Env is "production".
func (c Config) IsProduction() bool { return c.App.Env == "production" }
