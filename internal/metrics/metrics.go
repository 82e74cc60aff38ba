// Package metrics exports Prometheus metrics fed by toast manager events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/idilsaglam/toast/internal/toast"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "toast").
	Namespace string

	// Registry is where metrics are registered.
	// Default: a fresh prometheus.Registry.
	Registry *prometheus.Registry
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(c *Config) { c.Registry = r }
}

// Collector records toast lifecycle metrics:
//   - toast_created_total{variant}
//   - toast_dismissed_total{variant,reason}
//   - toast_active
//   - toast_lifetime_seconds{reason}
type Collector struct {
	registry  *prometheus.Registry
	created   *prometheus.CounterVec
	dismissed *prometheus.CounterVec
	active    prometheus.Gauge
	lifetime  *prometheus.HistogramVec
}

// New registers the collector's metrics.
func New(opts ...Option) *Collector {
	cfg := Config{Namespace: "toast"}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	factory := promauto.With(cfg.Registry)

	return &Collector{
		registry: cfg.Registry,
		created: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "created_total",
			Help:      "Total number of toasts created",
		}, []string{"variant"}),
		dismissed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "dismissed_total",
			Help:      "Total number of toasts dismissed, by reason",
		}, []string{"variant", "reason"}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Name:      "active",
			Help:      "Number of toasts currently shown",
		}),
		lifetime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "lifetime_seconds",
			Help:      "Time between a toast's creation and its dismissal",
			Buckets:   []float64{0.5, 1, 2, 3, 5, 8, 13, 30, 60, 300},
		}, []string{"reason"}),
	}
}

// Registry returns the registry the metrics live in.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Observe records one manager event. Pass it to Manager.Subscribe.
func (c *Collector) Observe(ev toast.Event) {
	variant := string(ev.Toast.Variant)
	switch ev.Kind {
	case toast.EventCreated:
		c.created.WithLabelValues(variant).Inc()
		c.active.Inc()
	case toast.EventDismissed:
		c.dismissed.WithLabelValues(variant, string(ev.Reason)).Inc()
		c.active.Dec()
		c.lifetime.WithLabelValues(string(ev.Reason)).Observe(ev.At.Sub(ev.Toast.CreatedAt).Seconds())
	}
}
