package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	recommendationRunsTotal    atomic.Uint64
	recommendationsCreated     atomic.Uint64
	recommendationRunsFailed   atomic.Uint64
	metricsCalculatedTotal     atomic.Uint64
	metricsCalculationsFailed  atomic.Uint64
	workerJobsReceived         atomic.Uint64
	workerJobsCompleted        atomic.Uint64
	workerJobsFailed           atomic.Uint64
	workerJobsDeletedUnrecover atomic.Uint64

	recommendationDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000})
	metricsDuration        = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000})
)

// IncRecommendationRun counts a recommendation generation run.
func IncRecommendationRun() {
	recommendationRunsTotal.Add(1)
}

// AddRecommendationsCreated counts newly persisted match results.
func AddRecommendationsCreated(n int) {
	if n > 0 {
		recommendationsCreated.Add(uint64(n))
	}
}

// IncRecommendationRunFailed counts a failed recommendation run.
func IncRecommendationRunFailed() {
	recommendationRunsFailed.Add(1)
}

// IncMetricsCalculated counts a completed metrics calculation.
func IncMetricsCalculated() {
	metricsCalculatedTotal.Add(1)
}

// IncMetricsCalculationFailed counts a failed metrics calculation.
func IncMetricsCalculationFailed() {
	metricsCalculationsFailed.Add(1)
}

// IncWorkerJobsReceived increments the received worker job counter.
func IncWorkerJobsReceived() {
	workerJobsReceived.Add(1)
}

// IncWorkerJobsCompleted increments the completed worker job counter.
func IncWorkerJobsCompleted() {
	workerJobsCompleted.Add(1)
}

// IncWorkerJobsFailed increments the failed worker job counter.
func IncWorkerJobsFailed() {
	workerJobsFailed.Add(1)
}

// IncWorkerJobsDeletedUnrecoverable counts messages dropped because they can never succeed.
func IncWorkerJobsDeletedUnrecoverable() {
	workerJobsDeletedUnrecover.Add(1)
}

// ObserveRecommendationDurationMs records a recommendation run duration in milliseconds.
func ObserveRecommendationDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	recommendationDuration.Observe(value)
}

// ObserveMetricsDurationMs records a metrics calculation duration in milliseconds.
func ObserveMetricsDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	metricsDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "recommendation_runs_total", "Total recommendation generation runs", recommendationRunsTotal.Load())
	writeCounter(&buf, "recommendation_runs_failed_total", "Total failed recommendation runs", recommendationRunsFailed.Load())
	writeCounter(&buf, "recommendations_created_total", "Total match results persisted", recommendationsCreated.Load())
	writeCounter(&buf, "candidate_metrics_calculated_total", "Total candidate metrics calculations", metricsCalculatedTotal.Load())
	writeCounter(&buf, "candidate_metrics_failed_total", "Total failed candidate metrics calculations", metricsCalculationsFailed.Load())
	writeCounter(&buf, "worker_jobs_received_total", "Total worker jobs received", workerJobsReceived.Load())
	writeCounter(&buf, "worker_jobs_completed_total", "Total worker jobs completed", workerJobsCompleted.Load())
	writeCounter(&buf, "worker_jobs_failed_total", "Total worker jobs failed", workerJobsFailed.Load())
	writeCounter(&buf, "worker_jobs_deleted_unrecoverable_total", "Total worker jobs dropped as unrecoverable", workerJobsDeletedUnrecover.Load())
	writeHistogram(&buf, "recommendation_duration_ms", "Recommendation run duration in milliseconds", recommendationDuration.Snapshot())
	writeHistogram(&buf, "candidate_metrics_duration_ms", "Metrics calculation duration in milliseconds", metricsDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	// Observe already counts each value into every bucket it fits, so counts are cumulative.
	for i, bound := range snap.buckets {
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), snap.counts[i])
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// SinceMillis returns the elapsed time since start in milliseconds.
func SinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
