// Package metrics records registry activity.
package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/km-arc/go-inject/framework/container"
)

// Supported drivers.
const (
	DriverPrometheus = "prometheus"
	DriverNop        = "nop"
)

// Config selects and configures the Metrics implementation.
type Config struct {
	Driver    string `koanf:"driver"`
	Namespace string `koanf:"namespace"`
	Path      string `koanf:"path"`
}

// Metrics receives one event per container.Get and exposes them over HTTP.
type Metrics interface {
	RecordResolve(ev container.ResolveEvent)
	Handler() http.Handler
}

// New returns the implementation selected by cfg.Driver.
func New(cfg Config) (Metrics, error) {
	if strings.ToLower(cfg.Driver) == DriverNop {
		return NopMetrics{}, nil
	}
	return NewPromMetrics(cfg.Namespace, prometheus.NewRegistry())
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordResolve(container.ResolveEvent) {}

func (NopMetrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
}

// PromMetrics counts resolutions per interface and outcome.
type PromMetrics struct {
	gatherer    prometheus.Gatherer
	resolutions *prometheus.CounterVec
}

// NewPromMetrics registers its collectors on reg. If the collectors are
// already registered, the existing ones are reused.
func NewPromMetrics(namespace string, reg *prometheus.Registry) (*PromMetrics, error) {
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resolutions_total",
		Help:      "Total number of container resolutions by interface and outcome",
	}, []string{"interface", "outcome"})

	if err := reg.Register(resolutions); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		resolutions = are.ExistingCollector.(*prometheus.CounterVec)
	}
	return &PromMetrics{gatherer: reg, resolutions: resolutions}, nil
}

// RecordResolve increments the counter for ev.
func (m *PromMetrics) RecordResolve(ev container.ResolveEvent) {
	m.resolutions.WithLabelValues(ev.Key.String(), string(ev.Outcome)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *PromMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
