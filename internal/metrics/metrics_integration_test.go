package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mohammed-shakir/camera-stop-engine/internal/core/observability"
)

func assertHasMetricLine(t *testing.T, body, metric string, wantLabels ...string) {
	t.Helper()
	for ln := range strings.SplitSeq(body, "\n") {
		if !strings.HasPrefix(ln, metric+"{") {
			continue
		}
		ok := true
		for _, s := range wantLabels {
			if !strings.Contains(ln, s) {
				ok = false
				break
			}
		}
		if ok && (len(ln) > 0 && ln[len(ln)-1] >= '0' && ln[len(ln)-1] <= '9') {
			return
		}
	}
	t.Fatalf("expected a %s line with labels %v; got:\n%s", metric, wantLabels, body)
}

func Test_AppMetrics_CustomRegistry_Smoke(t *testing.T) {
	p := Init(Config{Build: BuildInfo{Version: "test"}})
	observability.Init(p.Registerer(), true)
	observability.ExposeBuildInfo("test")

	observability.IncIntent(false)
	observability.IncAction("update_following")
	observability.ObserveStoreOp("save", nil, 0.002)
	observability.IncBridgePublish("kafka", nil)
	observability.IncLocationUpdate("stale")
	observability.SetTrackedLocations(3)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	p.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()

	assertHasMetricLine(t, body, "camera_intents_total", `outcome="unchanged"`)
	assertHasMetricLine(t, body, "camera_actions_total", `kind="update_following"`)
	assertHasMetricLine(t, body, "session_store_op_total", `op="save"`, `result="ok"`)
	assertHasMetricLine(t, body, "session_store_op_duration_seconds_bucket", `op="save"`)
	assertHasMetricLine(t, body, "bridge_publish_total", `driver="kafka"`)
	assertHasMetricLine(t, body, "location_updates_total", `result="stale"`)
	assertHasMetricLine(t, body, "camera_build_info", `version="test"`)
	if !strings.Contains(body, "location_tracked_devices 3") {
		t.Fatalf("missing tracked devices gauge:\n%s", body)
	}
}
