package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/mohammed-shakir/camera-stop-engine/internal/bridge"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/config"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/health"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/observability"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/router"
	"github.com/mohammed-shakir/camera-stop-engine/internal/metrics"
	"github.com/mohammed-shakir/camera-stop-engine/internal/service"
	"github.com/mohammed-shakir/camera-stop-engine/internal/session/memstore"
)

func TestNewRouter_Wiring(t *testing.T) {
	cfg := config.FromEnv()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := metrics.Init(metrics.Config{})
	observability.Init(p.Registerer(), true)

	svc := service.New(service.Options{Store: memstore.New(8), Bridge: &bridge.Recorder{}, Logger: logger})
	var ready atomic.Bool
	h := NewRouter(cfg, logger, Deps{
		Handlers: router.New(logger, cfg, svc, nil),
		Metrics:  p.Handler(),
		Ready:    []health.ReadinessReporter{health.ReadyFunc(func() bool { return ready.Load() })},
	})
	srv := httptest.NewServer(h)
	defer srv.Close()

	get := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer func() { _ = resp.Body.Close() }()
		b, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(b)
	}

	if code, _ := get("/healthz"); code != http.StatusOK {
		t.Fatalf("healthz=%d", code)
	}
	if code, _ := get("/readyz"); code != http.StatusServiceUnavailable {
		t.Fatalf("readyz=%d want 503", code)
	}
	ready.Store(true)
	if code, _ := get("/readyz"); code != http.StatusOK {
		t.Fatalf("readyz=%d want 200", code)
	}

	resp, err := http.Post(srv.URL+"/v1/cameras/a/intent", "application/json", strings.NewReader(`{"zoomLevel":4}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	_ = resp.Body.Close()

	code, body := get("/metrics")
	if code != http.StatusOK {
		t.Fatalf("metrics=%d", code)
	}
	for _, want := range []string{`camera_intents_total{outcome="changed"} 1`, `route="/v1/cameras/{id}/intent"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics missing %q", want)
		}
	}
}
