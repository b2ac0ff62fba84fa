package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics HTTP and ingestion collectors. It implements ingest.Recorder.
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	batches       *prometheus.CounterVec
	records       *prometheus.CounterVec
	batchDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}, []string{"method", "route", "status"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_ingest_batches_total",
			Help: "Ingestion batches by final status.",
		}, []string{"sync_type", "status"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_ingest_records_total",
			Help: "Ingested records by outcome.",
		}, []string{"sync_type", "outcome"}),
		batchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_ingest_batch_duration_seconds",
			Help:    "Duration of ingestion batches.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"sync_type"}),
	}
	reg.MustRegister(m.httpRequests, m.httpDuration, m.batches, m.records, m.batchDuration)
	return m
}

// RecordRequest observes one HTTP request; status is bucketed as 2xx/3xx/4xx/5xx.
func (m *Metrics) RecordRequest(method, route string, statusCode int, elapsed time.Duration) {
	status := classifyStatus(statusCode)
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}

func (m *Metrics) BatchFinished(syncType, status string, elapsed time.Duration) {
	m.batches.WithLabelValues(syncType, status).Inc()
	m.batchDuration.WithLabelValues(syncType).Observe(elapsed.Seconds())
}

func (m *Metrics) RecordsProcessed(syncType string, created, updated, failed int) {
	m.records.WithLabelValues(syncType, "created").Add(float64(created))
	m.records.WithLabelValues(syncType, "updated").Add(float64(updated))
	m.records.WithLabelValues(syncType, "error").Add(float64(failed))
}

func classifyStatus(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return strconv.Itoa(code/100) + "xx"
}
