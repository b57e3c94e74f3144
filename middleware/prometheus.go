package middleware

import (
	"Ninety/pkg/context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ninety_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		// code 为业务码，成功时为 0
		[]string{"method", "route", "status", "code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ninety_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ninety_http_in_flight_requests",
		Help: "Requests currently being served",
	})
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpInFlight)
}

// skipMetrics 探活和抓取本身不计入
var skipMetrics = map[string]struct{}{
	"/healthz": {},
	"/metrics": {},
}

// PrometheusMiddleware 按路由模板统计，未命中路由的请求归到 unknown
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if _, ok := skipMetrics[route]; ok {
			c.Next()
			return
		}
		if route == "" {
			route = "unknown"
		}

		httpInFlight.Inc()
		start := time.Now()
		c.Next()
		httpInFlight.Dec()

		code := c.GetInt(context.CtxBizCode)
		httpRequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()), strconv.Itoa(code),
		).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
