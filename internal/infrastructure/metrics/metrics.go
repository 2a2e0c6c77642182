// Package metrics exposes the prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tdesk"

// Metrics groups every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	reqTotal        *prometheus.CounterVec
	reqLatency      *prometheus.HistogramVec
	req5xxTotal     prometheus.Counter
	mutationsTotal  *prometheus.CounterVec
	degradedWrites  *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
	eventsFailed    *prometheus.CounterVec
	gatherer        prometheus.Gatherer
}

// New registers the collectors on reg. When reg is also a Gatherer the
// Handler serves exactly what was registered there.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		reqTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"route", "method", "status"},
		),
		req5xxTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_5xx_total",
				Help:      "Total number of HTTP 5xx responses.",
			},
		),
		reqLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		mutationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "ticket_mutations_total", Help: "Committed ticket mutations."},
			[]string{"operation"},
		),
		degradedWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "degraded_writes_total", Help: "Optional writes skipped because their table is unavailable."},
			[]string{"table"},
		),
		eventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "events_published_total", Help: "Published ticket events."},
			[]string{"event_type"},
		),
		eventsFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "events_failed_total", Help: "Failed ticket event publish attempts."},
			[]string{"event_type"},
		),
	}

	reg.MustRegister(m.reqTotal, m.reqLatency, m.req5xxTotal, m.mutationsTotal,
		m.degradedWrites, m.eventsPublished, m.eventsFailed)

	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	} else {
		m.gatherer = prometheus.DefaultGatherer
	}
	return m
}

// Middleware records request count and latency labelled by the route
// template, so /tickets/7 and /tickets/8 share one series.
func (m *Metrics) Middleware(skipPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil || c.Request.URL.Path == skipPath {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		m.reqTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(status)).Inc()
		m.reqLatency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
		if status >= http.StatusInternalServerError {
			m.req5xxTotal.Inc()
		}
	}
}

// Handler serves the exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}

func (m *Metrics) MutationCommitted(operation string) {
	if m == nil {
		return
	}
	m.mutationsTotal.WithLabelValues(operation).Inc()
}

func (m *Metrics) DegradedWrite(table string) {
	if m == nil {
		return
	}
	m.degradedWrites.WithLabelValues(table).Inc()
}

func (m *Metrics) EventPublished(eventType string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(eventType).Inc()
}

func (m *Metrics) EventFailed(eventType string) {
	if m == nil {
		return
	}
	m.eventsFailed.WithLabelValues(eventType).Inc()
}
