// Package metrics holds the Prometheus collectors of a plugin run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "serverless_cors"

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusPanic   = "panic"
)

// Resolution label values.
const (
	ResolutionEnabled  = "enabled"
	ResolutionDisabled = "disabled"
	ResolutionInvalid  = "invalid"
)

var (
	hookRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hook_runs_total",
			Help:      "Total number of hook invocations",
		},
		[]string{"action", "event", "hook", "status"},
	)

	hookDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "hook_duration_seconds",
			Help:      "Hook invocation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"action", "event", "hook"},
	)

	policyResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_resolutions_total",
			Help:      "Total number of endpoint CORS policy resolutions",
		},
		[]string{"result"},
	)

	preflightsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "preflights_total",
			Help:      "Total number of synthesized preflight endpoints",
		},
		[]string{"mode"},
	)

	gatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "apigateway_requests_total",
			Help:      "Total number of API Gateway requests",
		},
		[]string{"operation", "status"},
	)

	gatewayRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "apigateway_request_duration_seconds",
			Help:      "API Gateway request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	lockWaitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "deploy_lock_wait_seconds",
			Help:      "Time spent waiting for the deployment lock",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(hookRunsTotal)
	prometheus.MustRegister(hookDuration)
	prometheus.MustRegister(policyResolutionsTotal)
	prometheus.MustRegister(preflightsTotal)
	prometheus.MustRegister(gatewayRequestsTotal)
	prometheus.MustRegister(gatewayRequestDuration)
	prometheus.MustRegister(lockWaitDuration)
}

// ObserveHook records a hook invocation.
func ObserveHook(action, event, hook, status string, duration time.Duration) {
	hookRunsTotal.WithLabelValues(action, event, hook, status).Inc()
	hookDuration.WithLabelValues(action, event, hook).Observe(duration.Seconds())
}

// ObserveResolution records the outcome of an endpoint policy resolution.
func ObserveResolution(result string) {
	policyResolutionsTotal.WithLabelValues(result).Inc()
}

// ObservePreflights records synthesized preflight endpoints.
func ObservePreflights(mode string, count int) {
	preflightsTotal.WithLabelValues(mode).Add(float64(count))
}

// ObserveGatewayRequest records an API Gateway request.
func ObserveGatewayRequest(operation string, err error, duration time.Duration) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}

	gatewayRequestsTotal.WithLabelValues(operation, status).Inc()
	gatewayRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveLockWait records the time spent acquiring the deployment lock.
func ObserveLockWait(duration time.Duration) {
	lockWaitDuration.Observe(duration.Seconds())
}

// WriteTextfile writes all registered metrics to path in the Prometheus text
// format, for pickup by the node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	return nil
}
