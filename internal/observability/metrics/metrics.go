package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the constant labels applied to every metric.
type Config struct {
	ServiceName string
	Environment string
}

// HTTPMetrics exposes request-level instruments.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP instruments on the default registerer.
func NewHTTPMetrics(cfg Config) *HTTPMetrics {
	return newHTTPMetrics(prometheus.DefaultRegisterer, cfg)
}

func newHTTPMetrics(registerer prometheus.Registerer, cfg Config) *HTTPMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	constLabels := constLabelsFor(cfg)

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "projectledger_http_requests_total",
		Help:        "Inbound HTTP requests by route, method and status class.",
		ConstLabels: constLabels,
	}, []string{"route", "method", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "projectledger_http_request_duration_seconds",
		Help:        "Inbound HTTP request latency.",
		Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		ConstLabels: constLabels,
	}, []string{"route", "method"})
	inflight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "projectledger_http_inflight_requests",
		Help:        "Inbound HTTP requests currently being served.",
		ConstLabels: constLabels,
	})

	registerer.MustRegister(requests, duration, inflight)

	return &HTTPMetrics{
		requests: requests,
		duration: duration,
		inflight: inflight,
	}
}

// ReconcileMetrics counts reconciliation activity.
type ReconcileMetrics struct {
	runs             *prometheus.CounterVec
	completions      prometheus.Counter
	incentiveErrors  prometheus.Counter
	releasedBalances prometheus.Counter
}

// NewReconcileMetrics registers reconciliation instruments on the default registerer.
func NewReconcileMetrics(cfg Config) *ReconcileMetrics {
	return newReconcileMetrics(prometheus.DefaultRegisterer, cfg)
}

func newReconcileMetrics(registerer prometheus.Registerer, cfg Config) *ReconcileMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	constLabels := constLabelsFor(cfg)

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "projectledger_reconcile_runs_total",
		Help:        "Reconciliation pipeline runs by trigger source.",
		ConstLabels: constLabels,
	}, []string{"source"})
	completions := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "projectledger_project_completions_total",
		Help:        "Projects auto-completed on reaching a zero balance.",
		ConstLabels: constLabels,
	})
	incentiveErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "projectledger_incentive_release_errors_total",
		Help:        "Incentive transfers skipped because the transfer failed.",
		ConstLabels: constLabels,
	})
	releasedBalances := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        "projectledger_incentive_releases_total",
		Help:        "Incentive pending balances released to current.",
		ConstLabels: constLabels,
	})

	registerer.MustRegister(runs, completions, incentiveErrors, releasedBalances)

	return &ReconcileMetrics{
		runs:             runs,
		completions:      completions,
		incentiveErrors:  incentiveErrors,
		releasedBalances: releasedBalances,
	}
}

// RecordRun counts one pipeline run for the given trigger source.
func (m *ReconcileMetrics) RecordRun(source string) {
	if m == nil {
		return
	}
	source = strings.TrimSpace(source)
	if source == "" {
		source = "unknown"
	}
	m.runs.WithLabelValues(source).Inc()
}

// RecordCompletion counts one auto-completion.
func (m *ReconcileMetrics) RecordCompletion() {
	if m == nil {
		return
	}
	m.completions.Inc()
}

// RecordIncentiveError counts one failed incentive transfer.
func (m *ReconcileMetrics) RecordIncentiveError() {
	if m == nil {
		return
	}
	m.incentiveErrors.Inc()
}

// RecordIncentiveRelease counts one released incentive balance.
func (m *ReconcileMetrics) RecordIncentiveRelease() {
	if m == nil {
		return
	}
	m.releasedBalances.Inc()
}

func constLabelsFor(cfg Config) prometheus.Labels {
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "projectledger"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	return prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}
}
