// Package monitoring collects Prometheus metrics for the coordinator and
// optionally serves them over HTTP.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Fusion metrics
	FusionsTotal    prometheus.Counter
	PublishesTotal  prometheus.Counter
	PublishErrors   prometheus.Counter
	AuxUpdatesTotal prometheus.Counter

	// Bus metrics
	DecodeErrors *prometheus.CounterVec

	// Supervisor metrics
	ProcessesLaunched prometheus.Gauge
	LaunchErrors      prometheus.Counter
}

// NewMetrics creates a metrics collector on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates a metrics collector on the given registerer. Tests
// use a fresh registry to avoid duplicate registration.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FusionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "statecoord_fusions_total",
			Help: "Total number of primary messages fused",
		}),
		PublishesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "statecoord_publishes_total",
			Help: "Total number of records published on the output channel",
		}),
		PublishErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "statecoord_publish_errors_total",
			Help: "Total number of failed output publishes",
		}),
		AuxUpdatesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "statecoord_aux_updates_total",
			Help: "Total number of auxiliary cache updates",
		}),
		DecodeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "statecoord_decode_errors_total",
			Help: "Total number of malformed records dropped per channel",
		}, []string{"topic"}),
		ProcessesLaunched: factory.NewGauge(prometheus.GaugeOpts{
			Name: "statecoord_processes_launched",
			Help: "Number of estimator processes currently tracked",
		}),
		LaunchErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "statecoord_launch_errors_total",
			Help: "Total number of estimator launch failures",
		}),
	}
}
