package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route template, method and status.",
	}, []string{"path", "method", "status"})

	latency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route template and method.",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"path", "method"})

	// AuthEvents event: register / login_ok / login_failed
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_events_total",
		Help: "Registration and login outcomes.",
	}, []string{"event"})

	// TaskMutations op: create / update / delete
	TaskMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tasks_mutations_total",
		Help: "Successful task mutations.",
	}, []string{"op"})
)

// routeLabel 用路由模板而不是原始路径，/api/tasks/:id 只占一个序列
func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		begin := time.Now()
		c.Next()
		route, method := routeLabel(c), c.Request.Method
		requests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		latency.WithLabelValues(route, method).Observe(time.Since(begin).Seconds())
	}
}

// MetricsHandler 暴露默认 registry
func MetricsHandler() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }
