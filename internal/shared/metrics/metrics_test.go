package metrics

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCounterVecSnapshotIsCopy(t *testing.T) {
	v := newCounterVec()
	v.Inc("home")
	v.Inc("home")
	snap := v.Snapshot()
	snap["home"] = 99
	if got := v.Snapshot()["home"]; got != 2 {
		t.Fatalf("home = %d, want 2", got)
	}
}

func TestHistogramIsCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	var buf bytes.Buffer
	writeHistogram(&buf, "lat", "test", h.Snapshot())
	out := buf.String()
	for _, want := range []string{
		`lat_bucket{le="10"} 1`,
		`lat_bucket{le="100"} 2`,
		`lat_bucket{le="+Inf"} 3`,
		`lat_sum 555`,
		`lat_count 3`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestHandlerRendersPrometheusText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	IncGestureIntent("swipe_left")
	IncStaleDiscarded()
	ObserveBackendDurationMs(-3)

	r := gin.New()
	r.GET("/metrics", Handler())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content type = %q", ct)
	}
	body := resp.Body.String()
	for _, want := range []string{
		"# TYPE gesture_intents_total counter",
		`gesture_intents_total{intent="swipe_left"}`,
		"# TYPE stale_responses_discarded_total counter",
		"# TYPE backend_request_duration_ms histogram",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q", want)
		}
	}
}
