package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StorageUploadLatency records object-storage upload latency per outcome.
	StorageUploadLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "estate_storage_upload_latency_seconds",
		Help:    "Object storage upload latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	// LikeOperations counts like-ledger operations by kind and outcome.
	LikeOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_like_operations_total",
		Help: "Total like ledger operations by kind and outcome",
	}, []string{"kind", "outcome"})

	// PipelineSteps counts listing-creation pipeline steps by step and outcome.
	PipelineSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_pipeline_steps_total",
		Help: "Listing creation pipeline steps by step name and outcome",
	}, []string{"step", "outcome"})

	// OrphanRecords counts records left behind by failed pipeline runs.
	OrphanRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_orphan_records_total",
		Help: "Records orphaned by partial pipeline failures",
	}, []string{"entity"})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estate_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "estate_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// ObserveUpload records one storage upload with its outcome ("ok" or "error").
func ObserveUpload(start time.Time, outcome string) {
	StorageUploadLatency.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

// RecordPipelineStep increments the pipeline step counter.
func RecordPipelineStep(step, outcome string) {
	PipelineSteps.WithLabelValues(step, outcome).Inc()
}

// RecordOrphan increments the orphan counter for the given entity kind.
func RecordOrphan(entity string) {
	OrphanRecords.WithLabelValues(entity).Inc()
}

// RecordLikeOperation increments the like operations counter.
func RecordLikeOperation(kind, outcome string) {
	LikeOperations.WithLabelValues(kind, outcome).Inc()
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
