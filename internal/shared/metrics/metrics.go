// Package metrics exposes process-local conversion counters in Prometheus
// text format, without pulling in a metrics client library.
package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	conversionStartedTotal   atomic.Uint64
	conversionCompletedTotal atomic.Uint64
	conversionFailedTotal    atomic.Uint64
	conversionRejectedTotal  atomic.Uint64

	conversionDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncConversionStarted increments the started counter.
func IncConversionStarted() {
	conversionStartedTotal.Add(1)
}

// IncConversionCompleted increments the completed counter.
func IncConversionCompleted() {
	conversionCompletedTotal.Add(1)
}

// IncConversionFailed increments the failed counter.
func IncConversionFailed() {
	conversionFailedTotal.Add(1)
}

// IncConversionRejected increments the counter of validation rejections.
func IncConversionRejected() {
	conversionRejectedTotal.Add(1)
}

// ObserveConversionDurationMs records one pipeline duration in milliseconds.
func ObserveConversionDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	conversionDuration.Observe(value)
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
	writeCounter(&buf, "conversion_started_total", "Total conversions started", conversionStartedTotal.Load())
	writeCounter(&buf, "conversion_completed_total", "Total conversions completed", conversionCompletedTotal.Load())
	writeCounter(&buf, "conversion_failed_total", "Total conversions failed upstream", conversionFailedTotal.Load())
	writeCounter(&buf, "conversion_rejected_total", "Total conversions rejected by validation", conversionRejectedTotal.Load())
	writeHistogram(&buf, "conversion_duration_ms", "Conversion pipeline duration in milliseconds", conversionDuration.Snapshot())
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
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
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
