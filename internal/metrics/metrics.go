// Package metrics exposes Prometheus collectors for the orchestration
// service: HTTP traffic, cache tier hit/miss rates, rate limiter rejections,
// engine invocations and workflow executions.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the service's Prometheus collectors.
var Registry = prometheus.NewRegistry()

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "consciousness_engine",
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "Current number of in-flight HTTP requests.",
	})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "consciousness_engine",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled.",
	}, []string{"method", "path", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "consciousness_engine",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"method", "path"})

	cacheOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "consciousness_engine",
		Subsystem: "cache",
		Name:      "operations_total",
		Help:      "Cache tier operations grouped by tier and result (hit|miss|error).",
	}, []string{"tier", "result"})

	cacheSingleflight = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "consciousness_engine",
		Subsystem: "cache",
		Name:      "singleflight_total",
		Help:      "Single-flight de-duplication outcomes (leader|follower).",
	}, []string{"role"})

	rateLimitDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "consciousness_engine",
		Subsystem: "ratelimit",
		Name:      "decisions_total",
		Help:      "Rate limiter decisions grouped by result (allowed|rejected).",
	}, []string{"result"})

	engineInvocations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "consciousness_engine",
		Subsystem: "engine",
		Name:      "invocations_total",
		Help:      "Engine invocations grouped by engine id and status.",
	}, []string{"engine_id", "status"})

	engineDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "consciousness_engine",
		Subsystem: "engine",
		Name:      "invocation_duration_seconds",
		Help:      "Duration of engine invocations.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
	}, []string{"engine_id"})

	workflowExecutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "consciousness_engine",
		Subsystem: "workflow",
		Name:      "executions_total",
		Help:      "Workflow executions grouped by workflow id and status.",
	}, []string{"workflow_id", "status"})

	workflowDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "consciousness_engine",
		Subsystem: "workflow",
		Name:      "execution_duration_seconds",
		Help:      "Duration of workflow executions.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"workflow_id"})

	sidecarCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "consciousness_engine",
		Subsystem: "sidecar",
		Name:      "calls_total",
		Help:      "Sidecar bridge calls grouped by engine id and status.",
	}, []string{"engine_id", "status"})
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		cacheOps,
		cacheSingleflight,
		rateLimitDecisions,
		engineInvocations,
		engineDuration,
		workflowExecutions,
		workflowDuration,
		sidecarCalls,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps next with HTTP request metrics.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		path := canonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	})
}

// RecordCacheOp records a cache tier operation outcome.
func RecordCacheOp(tier, result string) {
	cacheOps.WithLabelValues(tier, result).Inc()
}

// RecordSingleflight records whether this call led or followed an in-flight
// computation for the same cache key.
func RecordSingleflight(isLeader bool) {
	role := "follower"
	if isLeader {
		role = "leader"
	}
	cacheSingleflight.WithLabelValues(role).Inc()
}

// RecordRateLimitDecision records an allow/reject decision.
func RecordRateLimitDecision(allowed bool) {
	result := "rejected"
	if allowed {
		result = "allowed"
	}
	rateLimitDecisions.WithLabelValues(result).Inc()
}

// RecordEngineInvocation records an engine invocation's outcome and duration.
func RecordEngineInvocation(engineID, status string, duration time.Duration) {
	engineInvocations.WithLabelValues(engineID, status).Inc()
	engineDuration.WithLabelValues(engineID).Observe(duration.Seconds())
}

// RecordWorkflowExecution records a workflow execution's outcome and duration.
func RecordWorkflowExecution(workflowID, status string, duration time.Duration) {
	workflowExecutions.WithLabelValues(workflowID, status).Inc()
	workflowDuration.WithLabelValues(workflowID).Observe(duration.Seconds())
}

// RecordSidecarCall records the outcome of a call to the bridged-engine sidecar.
func RecordSidecarCall(engineID, status string) {
	sidecarCalls.WithLabelValues(engineID, status).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func canonicalPath(raw string) string {
	if raw == "" || raw == "/" {
		return "/"
	}
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return "/"
	}
	parts := strings.Split(trimmed, "/")
	if parts[0] == "v1" && len(parts) >= 2 {
		if len(parts) >= 3 {
			return "/v1/" + parts[1] + "/:id"
		}
		return "/v1/" + parts[1]
	}
	return "/" + parts[0]
}
