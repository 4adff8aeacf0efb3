package providers

import (
	"fmt"
	"net/http"

	"github.com/km-arc/go-inject/framework/config"
	"github.com/km-arc/go-inject/framework/container"
	gohttp "github.com/km-arc/go-inject/framework/http"
	"github.com/km-arc/go-inject/framework/logging"
	"github.com/km-arc/go-inject/framework/metrics"
	"github.com/km-arc/go-inject/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider binds an already loaded configuration.
//
// Bound abstractions:
//   - *config.Config (instance)
type ConfigServiceProvider struct {
	container.BaseProvider
	Config *config.Config
}

func (p *ConfigServiceProvider) Register(r *container.Registry) {
	container.Instance(r, p.Config)
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider binds the application logger and, once booted, logs
// every resolution at debug level.
//
// Bound abstractions:
//   - logging.Logger
//
// Configuration keys read from *config.Config:
//   - log.format, log.level
//   - app.name (component field)
type LoggingServiceProvider struct {
	container.BaseProvider
}

func (p *LoggingServiceProvider) Register(r *container.Registry) {
	container.BindFactory(r, container.Factory[logging.Logger](func() (logging.Logger, error) {
		cfg, err := container.Get[*config.Config](r)
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		return logging.New(cfg.Log, cfg.App.Name), nil
	}))
}

func (p *LoggingServiceProvider) Boot(r *container.Registry) {
	log := container.MustGet[logging.Logger](r)
	r.OnResolve(func(ev container.ResolveEvent) {
		fields := map[string]any{
			"interface": ev.Key.String(),
			"outcome":   string(ev.Outcome),
		}
		if ev.Err != nil {
			fields["error"] = ev.Err.Error()
		}
		log.Debugw("resolve", fields)
	})
}

// ── MetricsServiceProvider ────────────────────────────────────────────────────

// MetricsServiceProvider binds the metrics backend and feeds it every
// resolution once booted.
//
// Bound abstractions:
//   - metrics.Metrics
//
// Configuration keys read from *config.Config:
//   - metrics.driver, metrics.namespace
type MetricsServiceProvider struct {
	container.BaseProvider
}

func (p *MetricsServiceProvider) Register(r *container.Registry) {
	container.BindFactory(r, container.Factory[metrics.Metrics](func() (metrics.Metrics, error) {
		cfg, err := container.Get[*config.Config](r)
		if err != nil {
			return nil, fmt.Errorf("metrics: %w", err)
		}
		return metrics.New(cfg.Metrics)
	}))
}

func (p *MetricsServiceProvider) Boot(r *container.Registry) {
	r.OnResolve(container.MustGet[metrics.Metrics](r).RecordResolve)
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router with the diagnostics
// routes. It is deferred: nothing is built until the router is first
// resolved.
//
// Bound abstractions:
//   - *routing.Router
//
// Routes:
//   - GET /healthz
//   - GET /bindings, GET /bindings/{name}
//   - metrics.path (default /metrics)
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) IsDeferred() bool { return true }

func (p *RoutingServiceProvider) Provides() []container.Key {
	return []container.Key{container.KeyOf[*routing.Router]()}
}

func (p *RoutingServiceProvider) Register(r *container.Registry) {
	container.BindFactory(r, container.Factory[*routing.Router](func() (*routing.Router, error) {
		cfg, err := container.Get[*config.Config](r)
		if err != nil {
			return nil, fmt.Errorf("router: %w", err)
		}
		log, err := container.Get[logging.Logger](r)
		if err != nil {
			return nil, fmt.Errorf("router: %w", err)
		}

		router := routing.New(log)
		diag := &gohttp.DiagnosticsController{Registry: r, Param: routing.Param}
		router.Get("/healthz", diag.Health)
		router.Prefix("/bindings", func(b *routing.Router) {
			b.Get("/", diag.Index)
			b.Get("/{name}", diag.Show)
		})
		router.Handle(cfg.Metrics.Path, metricsHandler(r))
		return router, nil
	}))
}

// metricsHandler resolves the metrics backend per request so a rebound
// backend is picked up after a registry Reset.
func metricsHandler(r *container.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		m, err := container.Get[metrics.Metrics](r)
		if err != nil {
			gohttp.NewResponse(w).ServerError(err.Error())
			return
		}
		m.Handler().ServeHTTP(w, req)
	})
}
