// Package metrics exposes prometheus instruments for the pricing engine and
// the HTTP surface.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes engine-level instruments.
type Metrics struct {
	recomputes        prometheus.Counter
	mutationsRejected *prometheus.CounterVec
}

// New registers the engine instruments on the given registerer.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contractbill_line_recomputes_total",
			Help: "Line total recomputations triggered by block mutations.",
		}),
		mutationsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contractbill_mutations_rejected_total",
			Help: "Block mutations rejected by validation, by reason code.",
		}, []string{"reason"}),
	}

	for _, c := range []prometheus.Collector{m.recomputes, m.mutationsRejected} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, err
		}
	}
	return m, nil
}

// ObserveRecompute counts one synchronous line total recomputation.
func (m *Metrics) ObserveRecompute() {
	if m == nil {
		return
	}
	m.recomputes.Inc()
}

// ObserveRejection counts one rejected mutation by reason code.
func (m *Metrics) ObserveRejection(reason string) {
	if m == nil {
		return
	}
	m.mutationsRejected.WithLabelValues(reason).Inc()
}

// HTTPMetrics instruments the gin surface.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP instruments on the given registerer.
func NewHTTPMetrics(reg prometheus.Registerer) (*HTTPMetrics, error) {
	h := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contractbill_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contractbill_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	for _, c := range []prometheus.Collector{h.requests, h.duration} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, err
		}
	}
	return h, nil
}

// GinMiddleware records request counts and latency.
func GinMiddleware(h *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		h.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		h.duration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
