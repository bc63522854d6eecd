package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	jobTracker = "job_tracker"

	jobOperationsTotal = "job_operations_total"
	signInsTotal       = "sign_ins_total"

	// Labels
	operationLabel = "operation"
	resultLabel    = "result"
	providerLabel  = "provider"
)

const (
	ResultSuccess  = "success"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

var jobOperationsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: jobTracker,
		Name:      jobOperationsTotal,
		Help:      "number of job store operations partitioned by operation and result",
	},
	[]string{operationLabel, resultLabel},
)

var signInsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: jobTracker,
		Name:      signInsTotal,
		Help:      "number of sign-in attempts partitioned by provider and result",
	},
	[]string{providerLabel, resultLabel},
)

func IncreaseJobOperationsMetric(operation, result string) {
	jobOperationsTotalMetric.With(prometheus.Labels{
		operationLabel: operation,
		resultLabel:    result,
	}).Inc()
}

func IncreaseSignInsMetric(provider, result string) {
	signInsTotalMetric.With(prometheus.Labels{
		providerLabel: provider,
		resultLabel:   result,
	}).Inc()
}

type PrometheusMetricsHandler struct{}

func NewPrometheusMetricsHandler() *PrometheusMetricsHandler {
	return &PrometheusMetricsHandler{}
}

func (h *PrometheusMetricsHandler) Handler() http.Handler {
	return promhttp.Handler()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(jobOperationsTotalMetric)
	prometheus.MustRegister(signInsTotalMetric)
	prometheus.MustRegister(activeUsersPerWeekMetric)
}
