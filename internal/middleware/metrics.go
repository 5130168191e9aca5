package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors shared by the HTTP layer and the services.
type Metrics struct {
	Requests          *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	BillsCreated      prometheus.Counter
	UtilitiesCreated  prometheus.Counter
	NotificationsSent prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "municipal_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "municipal_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		BillsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "municipal_bills_created_total",
			Help: "Total number of bills created",
		}),
		UtilitiesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "municipal_utilities_autocreated_total",
			Help: "Total number of utilities created on first use by a bill",
		}),
		NotificationsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "municipal_notifications_created_total",
			Help: "Total number of notifications generated",
		}),
	}
}

func (m *Metrics) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) IncBillsCreated() {
	if m != nil {
		m.BillsCreated.Inc()
	}
}

func (m *Metrics) IncUtilitiesCreated() {
	if m != nil {
		m.UtilitiesCreated.Inc()
	}
}

func (m *Metrics) AddNotifications(n int) {
	if m != nil {
		m.NotificationsSent.Add(float64(n))
	}
}
