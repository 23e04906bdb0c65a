package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Notification outcomes.
const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

var (
	AlertsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "halo_alerts_total",
		Help: "Alerts created by the screening pipeline.",
	}, []string{"kind", "suspicious"})

	NotificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "halo_notifications_total",
		Help: "Push notification attempts by outcome.",
	}, []string{"outcome"})

	TasksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "halo_tasks_total",
		Help: "Deferred tasks by outcome.",
	}, []string{"outcome"})

	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "halo_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Registry holds every HALO collector. It is separate from the default registry so
// tests can build several routers in one process.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(AlertsTotal, NotificationsTotal, TasksTotal, RequestDuration)
	Registry.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
}

// ObserveAlert counts one created alert.
func ObserveAlert(kind string, suspicious bool) {
	AlertsTotal.WithLabelValues(kind, strconv.FormatBool(suspicious)).Inc()
}

func ObserveNotification(outcome string) {
	NotificationsTotal.WithLabelValues(outcome).Inc()
}

func ObserveTask(outcome string) {
	TasksTotal.WithLabelValues(outcome).Inc()
}

// Middleware records request latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
