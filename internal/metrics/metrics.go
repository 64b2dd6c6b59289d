// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BlobOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blobstore_operations_total",
			Help: "Blob store operations by backend, operation and result.",
		},
		[]string{"backend", "op", "result"},
	)

	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Calls to the speech and translation services.",
		},
		[]string{"service", "result"},
	)
)

// Register adds every collector to reg, labelled with the service name.
func Register(reg prometheus.Registerer, serviceName string) error {
	wrapped := prometheus.WrapRegistererWith(prometheus.Labels{"service": serviceName}, reg)
	for _, c := range []prometheus.Collector{
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		BlobOperationsTotal,
		UpstreamRequestsTotal,
	} {
		if err := wrapped.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Result maps an error to the "result" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// GinMiddleware records request counts and latency by route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDurationSeconds.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
