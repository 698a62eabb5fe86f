package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	pageLoads           = newCounterVec()
	pageLoadFailures    = newCounterVec()
	staleDiscardedTotal atomic.Uint64
	gestureIntents      = newCounterVec()
	notificationsPushed = newCounterVec()
	backendErrors       = newCounterVec()
	panics              = newCounterVec()

	backendDuration = newHistogram([]float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000})
)

// IncPageLoad counts a started load for a page section.
func IncPageLoad(page string) {
	pageLoads.Inc(page)
}

// IncPageLoadFailed counts a load that failed and left its section unchanged.
func IncPageLoadFailed(page string) {
	pageLoadFailures.Inc(page)
}

// IncStaleDiscarded counts a load result dropped by the generation guard.
func IncStaleDiscarded() {
	staleDiscardedTotal.Add(1)
}

func IncGestureIntent(intent string) {
	gestureIntents.Inc(intent)
}

func IncNotification(kind string) {
	notificationsPushed.Inc(kind)
}

// IncBackendError counts failed backend calls by error class.
func IncBackendError(class string) {
	backendErrors.Inc(class)
}

// IncPanic counts a recovered handler panic by route.
func IncPanic(route string) {
	panics.Inc(route)
}

// ObserveBackendDurationMs records a backend call duration in milliseconds.
func ObserveBackendDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	backendDuration.Observe(value)
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
	writeCounterVec(&buf, "page_loads_total", "Page section loads started", "page", pageLoads.Snapshot())
	writeCounterVec(&buf, "page_load_failures_total", "Page section loads that failed", "page", pageLoadFailures.Snapshot())
	writeCounter(&buf, "stale_responses_discarded_total", "Load results discarded after navigation", staleDiscardedTotal.Load())
	writeCounterVec(&buf, "gesture_intents_total", "Gesture intents recognized", "intent", gestureIntents.Snapshot())
	writeCounterVec(&buf, "notifications_total", "Notifications pushed", "kind", notificationsPushed.Snapshot())
	writeCounterVec(&buf, "backend_errors_total", "Backend calls that failed", "class", backendErrors.Snapshot())
	writeCounterVec(&buf, "http_panics_total", "Handler panics recovered", "route", panics.Snapshot())
	writeHistogram(&buf, "backend_request_duration_ms", "Backend request duration in milliseconds", backendDuration.Snapshot())
	return buf.String()
}

type counterVec struct {
	mu     sync.Mutex
	values map[string]uint64
}

func newCounterVec() *counterVec {
	return &counterVec{values: make(map[string]uint64)}
}

func (v *counterVec) Inc(label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[label]++
}

func (v *counterVec) Snapshot() map[string]uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]uint64, len(v.values))
	for k, n := range v.values {
		out[k] = n
	}
	return out
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
			break
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

func writeCounterVec(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
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

// Since returns the elapsed milliseconds since start.
func Since(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}
