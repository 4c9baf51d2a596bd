package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsHandler_Smoke(t *testing.T) {
	reg := prometheus.NewRegistry()
	Init(reg, true)
	ExposeBuildInfo("test")
	ObserveHTTP("POST", "/v1/cameras/{id}/intent", 200, 0.001)
	IncIntent(true)
	IncAction("manual_stop")
	IncStop("flight", "center")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		`camera_build_info{version="test"} 1`,
		`http_requests_total{method="POST",route="/v1/cameras/{id}/intent",status="200"} 1`,
		`camera_intents_total{outcome="changed"} 1`,
		`camera_actions_total{kind="manual_stop"} 1`,
		`camera_stops_compiled_total{mode="flight",target="center"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in payload:\n%s", want, body)
		}
	}
}

func TestStoreOp_ResultLabel(t *testing.T) {
	Init(prometheus.NewRegistry(), true)
	ObserveStoreOp("load", nil, 0.001)
	ObserveStoreOp("load", errors.New("down"), 0.001)
	ObserveStoreOp("load", errors.New("down"), 0.001)

	c := get()
	if got := testutil.ToFloat64(c.storeOps.WithLabelValues("load", "ok")); got != 1 {
		t.Fatalf("ok=%v want 1", got)
	}
	if got := testutil.ToFloat64(c.storeOps.WithLabelValues("load", "error")); got != 2 {
		t.Fatalf("error=%v want 2", got)
	}
}

func TestInit_DisabledDoesNotRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	Init(reg, false)
	IncLocationUpdate("ok")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) != 0 {
		t.Fatalf("disabled init registered %d families", len(mfs))
	}
}
