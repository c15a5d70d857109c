package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "puppy_bowl"

// Recorder owns a private prometheus registry. A nil *Recorder discards everything so
// components can be built without metrics in tests.
type Recorder struct {
	registry        *prometheus.Registry
	rosterCalls     *prometheus.CounterVec
	rosterLatency   *prometheus.HistogramVec
	renders         *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	breakerTransits *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rosterCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roster_api_requests_total",
			Help:      "Roster API attempts by operation and outcome.",
		}, []string{"operation", "outcome"}),
		rosterLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "roster_api_request_duration_seconds",
			Help:      "Roster API attempt latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Main container renders by view.",
		}, []string{"view"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Served HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		breakerTransits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "roster_circuit_transitions_total",
			Help:      "Roster API circuit breaker state changes.",
		}, []string{"to"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.rosterCalls,
		r.rosterLatency,
		r.renders,
		r.httpRequests,
		r.breakerTransits,
	)
	return r
}

// RecordRosterAttempt tracks one HTTP attempt against the roster API.
func (r *Recorder) RecordRosterAttempt(operation string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.rosterCalls.WithLabelValues(operation, outcome).Inc()
	r.rosterLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

func (r *Recorder) RecordRender(view string) {
	if r == nil {
		return
	}
	r.renders.WithLabelValues(view).Inc()
}

func (r *Recorder) RecordHTTPRequest(method, route string, status int) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (r *Recorder) RecordCircuitTransition(to string) {
	if r == nil {
		return
	}
	r.breakerTransits.WithLabelValues(to).Inc()
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.registry
}

// Handler serves the registry in the prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry(), promhttp.HandlerOpts{})
}
