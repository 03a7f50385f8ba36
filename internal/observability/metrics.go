package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friendo_http_requests_total",
			Help: "Total number of HTTP requests processed by the friendo service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "friendo_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "friendo_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friendo_ws_events_total",
			Help: "Total number of websocket events.",
		},
		[]string{"event"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "friendo_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
	venueCacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friendo_venue_cache_requests_total",
			Help: "Partner venue lookups by cache outcome.",
		},
		[]string{"result"},
	)
	remindersPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friendo_reminders_published_total",
			Help: "Reminder events published, by kind.",
		},
		[]string{"kind"},
	)
	holdFlowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friendo_hold_flows_total",
			Help: "Long-press flows, by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		wsActiveConnections,
		wsEventsTotal,
		amqpPublishErrorsTotal,
		venueCacheRequestsTotal,
		remindersPublishedTotal,
		holdFlowsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncWSActive() {
	wsActiveConnections.Inc()
}

func DecWSActive() {
	wsActiveConnections.Dec()
}

func IncWSEvent(event string) {
	wsEventsTotal.WithLabelValues(event).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}

func IncVenueCache(result string) {
	venueCacheRequestsTotal.WithLabelValues(result).Inc()
}

func IncReminderPublished(kind string) {
	remindersPublishedTotal.WithLabelValues(kind).Inc()
}

func IncHoldFlow(outcome string) {
	holdFlowsTotal.WithLabelValues(outcome).Inc()
}
