package monitor

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SectionSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funding_section_saves_total",
			Help: "Section save attempts by section type and outcome",
		},
		[]string{"section_type", "outcome"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funding_submissions_total",
			Help: "Application submission attempts by outcome",
		},
		[]string{"outcome"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "funding_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RequestMetrics records latency for every request under its route pattern.
func RequestMetrics() gin.HandlerFunc {
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

// RegisterMetricsRoute exposes the default Prometheus registry on /metrics.
func RegisterMetricsRoute(router gin.IRoutes) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
