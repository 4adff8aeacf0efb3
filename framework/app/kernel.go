package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/km-arc/go-inject/framework/config"
	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/logging"
	"github.com/km-arc/go-inject/framework/metrics"
	"github.com/km-arc/go-inject/framework/providers"
	"github.com/km-arc/go-inject/routing"
)

const shutdownTimeout = 10 * time.Second

// Application is the top-level application container.
// It embeds the Registry and the ProviderRegistry so user code can bind
// and register providers on the application directly:
//
//	application, _ := app.New("config.yaml")
//	container.Bind[Clock](application.Registry, func() Clock { return systemClock{} })
type Application struct {
	*container.Registry
	Providers *container.ProviderRegistry
}

// New loads the configuration and builds the application around it.
func New(path string, envFiles ...string) (*Application, error) {
	cfg, err := config.Load(path, envFiles...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg), nil
}

// NewWithConfig builds the application from an already loaded configuration
// and registers the framework providers.
func NewWithConfig(cfg *config.Config) *Application {
	base := logging.Base(cfg.Log, os.Stdout)
	r := container.New(container.WithLogger(base.With().Str("component", "container").Logger()))
	registry := container.NewProviderRegistry(r)

	app := &Application{
		Registry:  r,
		Providers: registry,
	}

	registry.Register(&providers.ConfigServiceProvider{Config: cfg})
	registry.Register(&providers.LoggingServiceProvider{})
	registry.Register(&providers.MetricsServiceProvider{})
	registry.Register(&providers.RoutingServiceProvider{})

	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() {
	a.Providers.Boot()
}

func (a *Application) Config() *config.Config {
	return container.MustGet[*config.Config](a.Registry)
}

func (a *Application) Logger() logging.Logger {
	return container.MustGet[logging.Logger](a.Registry)
}

func (a *Application) Metrics() metrics.Metrics {
	return container.MustGet[metrics.Metrics](a.Registry)
}

func (a *Application) Router() *routing.Router {
	return container.MustGet[*routing.Router](a.Registry)
}

// Handler boots the application if needed and returns the router.
func (a *Application) Handler() http.Handler {
	if !a.Providers.Booted() {
		a.Boot()
	}
	return a.Router()
}

// Run boots the application (if needed) and serves HTTP on app.port until
// ctx is cancelled, then shuts the server down gracefully.
func (a *Application) Run(ctx context.Context) error {
	handler := a.Handler()
	cfg := a.Config()
	log := a.Logger()

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.App.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Infof("%s running on http://localhost%s [%s]", cfg.App.Name, srv.Addr, cfg.App.Env)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Environment returns the app.env value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Config().IsProduction() }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
