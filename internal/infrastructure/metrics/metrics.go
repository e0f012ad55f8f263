package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the channel adder service
type Metrics struct {
	// Command surface
	CommandsTotal *prometheus.CounterVec

	// Provisioning workflow
	ProvisioningRuns     *prometheus.CounterVec
	ProvisioningDuration prometheus.Histogram
	BotsProvisioned      *prometheus.CounterVec

	// Request queue
	PendingRequests   prometheus.Gauge
	RequestsProcessed *prometheus.CounterVec

	// Session client
	SessionConnected prometheus.Gauge
	SessionCalls     *prometheus.CounterVec

	// Event publishing
	EventsPublished *prometheus.CounterVec
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

// NewMetrics creates a new Metrics instance registered on the default registry
func NewMetrics() *Metrics {
	return &Metrics{
		CommandsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channel_adder_commands_total",
				Help: "Total number of /ok commands by result",
			},
			[]string{"result"},
		),
		ProvisioningRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channel_adder_provisioning_runs_total",
				Help: "Total number of provisioning workflow runs by terminal stage",
			},
			[]string{"stage", "success"},
		),
		ProvisioningDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "channel_adder_provisioning_duration_seconds",
			Help:    "Duration of provisioning workflow runs in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		BotsProvisioned: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channel_adder_bots_provisioned_total",
				Help: "Total number of helper bot invitations by result",
			},
			[]string{"result"},
		),
		PendingRequests: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "channel_adder_pending_requests",
			Help: "Number of pending join requests seen by the last monitor tick",
		}),
		RequestsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channel_adder_requests_processed_total",
				Help: "Total number of join requests handled by the monitor by resulting status",
			},
			[]string{"status"},
		),
		SessionConnected: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "channel_adder_session_connected",
			Help: "1 when the privileged session account is connected",
		}),
		SessionCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channel_adder_session_calls_total",
				Help: "Total number of session client calls by operation and error kind",
			},
			[]string{"operation", "error_kind"},
		),
		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "channel_adder_events_published_total",
				Help: "Total number of provisioning events published by topic and result",
			},
			[]string{"topic", "result"},
		),
	}
}

// RecordCommand records an /ok command result
func (m *Metrics) RecordCommand(result string) {
	m.CommandsTotal.WithLabelValues(result).Inc()
}

// RecordProvisioning records a workflow run ending at stage
func (m *Metrics) RecordProvisioning(stage string, success bool, seconds float64) {
	label := "false"
	if success {
		label = "true"
	}
	m.ProvisioningRuns.WithLabelValues(stage, label).Inc()
	m.ProvisioningDuration.Observe(seconds)
}

// RecordBot records one helper bot invitation result
func (m *Metrics) RecordBot(added bool) {
	if added {
		m.BotsProvisioned.WithLabelValues("added").Inc()
		return
	}
	m.BotsProvisioned.WithLabelValues("failed").Inc()
}

// RecordSessionCall records a session client call
func (m *Metrics) RecordSessionCall(operation, errorKind string) {
	m.SessionCalls.WithLabelValues(operation, errorKind).Inc()
}

// SetSessionConnected updates the session connection gauge
func (m *Metrics) SetSessionConnected(connected bool) {
	if connected {
		m.SessionConnected.Set(1)
		return
	}
	m.SessionConnected.Set(0)
}
