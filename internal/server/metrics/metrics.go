// Package metrics holds the Prometheus instruments of the server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storjvault"

type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec   // storjvault_http_requests_total{method,route,status}
	RequestDuration *prometheus.HistogramVec // storjvault_http_request_duration_seconds{method,route}

	BytesUploaded   prometheus.Counter
	BytesDownloaded prometheus.Counter
	ObjectsDeleted  prometheus.Counter
	ObjectsMoved    prometheus.Counter

	Compressions      *prometheus.CounterVec // storjvault_compressions_total{type,result}
	CompressionSaving prometheus.Histogram   // saved share of the original size, percent

	AuthFailures *prometheus.CounterVec // storjvault_auth_failures_total{reason}
}

// New creates the instruments on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code",
		}, []string{"method", "route", "status"}),

		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		BytesUploaded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_uploaded_total",
			Help:      "Bytes written to the object store by uploads",
		}),

		BytesDownloaded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_downloaded_total",
			Help:      "Bytes served by download and stream responses",
		}),

		ObjectsDeleted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "objects_deleted_total",
			Help:      "Objects removed by delete requests",
		}),

		ObjectsMoved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "objects_moved_total",
			Help:      "Objects relocated by rename and move requests",
		}),

		Compressions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compressions_total",
			Help:      "Compression runs by file type and result",
		}, []string{"type", "result"}),

		CompressionSaving: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compression_saving_percent",
			Help:      "Share of the original size saved by compression",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),

		AuthFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Rejected logins and tokens by reason",
		}, []string{"reason"}),
	}
}

// TrackSessions exposes fn as the signaling session gauge.
func (m *Metrics) TrackSessions(fn func() int) {
	promauto.With(m.registry).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "signaling_sessions",
		Help:      "Open signaling sessions",
	}, func() float64 { return float64(fn()) })
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveCompression records a compression outcome. saving is ignored for
// failures.
func (m *Metrics) ObserveCompression(fileType string, err error, saving float64) {
	if err != nil {
		m.Compressions.WithLabelValues(fileType, "error").Inc()
		return
	}
	m.Compressions.WithLabelValues(fileType, "ok").Inc()
	m.CompressionSaving.Observe(saving)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
