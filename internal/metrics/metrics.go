package metrics

import (
	"net/http"

	"github.com/aretw0/damascout/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements ports.Observer with Prometheus counters.
type Collector struct {
	registry *prometheus.Registry
	reports  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// New creates a collector registered on its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		reports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "damascout_reports_total",
				Help: "Total number of routed reports",
			},
			[]string{"kind", "destination"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "damascout_sink_failures_total",
				Help: "Total number of reports a sink rejected",
			},
			[]string{"kind"},
		),
	}
	c.registry.MustRegister(c.reports, c.failures)
	return c
}

// Observe counts a routed report.
func (c *Collector) Observe(kind domain.Kind, dest domain.Destination) {
	c.reports.WithLabelValues(string(kind), string(dest)).Inc()
}

// SinkFailed counts a sink failure.
func (c *Collector) SinkFailed(kind domain.Kind) {
	c.failures.WithLabelValues(string(kind)).Inc()
}

// Handler serves the collector's metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
