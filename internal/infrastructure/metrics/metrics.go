package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Certificate-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "microlearn",
			Subsystem: "certificate_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "microlearn",
			Subsystem: "certificate_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Generated certificates by kind
	CertificatesGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "microlearn",
			Subsystem: "certificate_api",
			Name:      "certificates_generated_total",
			Help:      "Total number of certificates generated",
		},
		[]string{"certificate_type"},
	)

	// Generation duration
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "microlearn",
			Subsystem: "certificate_api",
			Name:      "generation_duration_seconds",
			Help:      "Time spent rendering and uploading certificates",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
	)

	// Storage operations counter
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "microlearn",
			Subsystem: "certificate_api",
			Name:      "storage_operations_total",
			Help:      "Total blob storage operations",
		},
		[]string{"operation", "status"},
	)

	// Storage operation duration
	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "microlearn",
			Subsystem: "certificate_api",
			Name:      "storage_duration_seconds",
			Help:      "Blob storage operation duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"operation"},
	)

	// Presign URL duration
	PresignDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "microlearn",
			Subsystem: "certificate_api",
			Name:      "presign_duration_seconds",
			Help:      "Presigned URL generation duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// Cache hit/miss counter
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "microlearn",
			Subsystem: "certificate_api",
			Name:      "cache_lookups_total",
			Help:      "Certificate key cache lookups",
		},
		[]string{"result"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordGeneration records a generated certificate
func RecordGeneration(certificateType string, durationSec float64) {
	CertificatesGeneratedTotal.WithLabelValues(certificateType).Inc()
	GenerationDuration.Observe(durationSec)
}

// RecordStorageOperation records a blob storage operation
func RecordStorageOperation(operation, status string, durationSec float64) {
	StorageOperationsTotal.WithLabelValues(operation, status).Inc()
	StorageDuration.WithLabelValues(operation).Observe(durationSec)
}

// RecordPresign records presigned URL generation
func RecordPresign(durationSec float64) {
	PresignDuration.Observe(durationSec)
}

// RecordCacheLookup records a key cache lookup outcome (hit, miss, error)
func RecordCacheLookup(result string) {
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

// Recorder adapts the package-level collectors to the narrow interfaces the
// domain services accept.
type Recorder struct{}

func (Recorder) RecordGeneration(certificateType string, durationSec float64) {
	RecordGeneration(certificateType, durationSec)
}

func (Recorder) RecordCacheLookup(result string) {
	RecordCacheLookup(result)
}
