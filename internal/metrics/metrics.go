package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 使用独立 Registry，便于测试中重复创建
type Metrics struct {
	registry          *prometheus.Registry
	samplesEmitted    prometheus.Counter
	sinkErrors        *prometheus.CounterVec
	connectedClients  prometheus.Gauge
	collectionRunning prometheus.Gauge
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		samplesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "runcoach_samples_emitted_total",
			Help: "Total sensor samples broadcast to real-time subscribers.",
		}),
		sinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "runcoach_sink_errors_total",
			Help: "Total sample sink failures by sink.",
		}, []string{"sink"}),
		connectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "runcoach_realtime_clients",
			Help: "Currently connected real-time clients.",
		}),
		collectionRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "runcoach_collection_running",
			Help: "1 while a collection session is active.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		m.samplesEmitted,
		m.sinkErrors,
		m.connectedClients,
		m.collectionRunning,
		m.httpRequestsTotal,
		m.httpDuration,
	)

	return m
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler 按 route 统计请求数与耗时
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) SampleEmitted() {
	if m == nil {
		return
	}
	m.samplesEmitted.Inc()
}

func (m *Metrics) SinkError(sink string) {
	if m == nil {
		return
	}
	m.sinkErrors.WithLabelValues(sink).Inc()
}

func (m *Metrics) SetClients(n int) {
	if m == nil {
		return
	}
	m.connectedClients.Set(float64(n))
}

func (m *Metrics) SetCollectionRunning(running bool) {
	if m == nil {
		return
	}
	if running {
		m.collectionRunning.Set(1)
	} else {
		m.collectionRunning.Set(0)
	}
}
