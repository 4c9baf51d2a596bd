package redisstore

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/mohammed-shakir/camera-stop-engine/internal/camera/controller"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/model"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/observability"
	"github.com/mohammed-shakir/camera-stop-engine/internal/metrics"
	"github.com/mohammed-shakir/camera-stop-engine/internal/session/keys"
)

// creates new client connected to miniredis for testing
func newMini(t *testing.T, ttl time.Duration) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	t.Cleanup(cancel)

	rc, err := New(ctx, mr.Addr(), ttl)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

func TestSaveLoadDelete_RoundTrip(t *testing.T) {
	rc, mr := newMini(t, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	st := controller.State{
		Intent: model.CameraIntent{
			CenterCoordinate:  model.Pos(18.06, 59.33),
			Bounds:            &model.Bounds{NE: model.Pos(10, 20), SW: model.Pos(0, 0), PaddingTop: 12},
			AnimationMode:     model.ModeFlight,
			AnimationDuration: 1200,
			TriggerKey:        model.NewTrigger("tick-1"),
		},
		Applied: 4,
	}
	if err := rc.Save(ctx, "cam-1", st); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !mr.Exists(keys.Camera("cam-1")) {
		t.Fatalf("expected key %s in redis", keys.Camera("cam-1"))
	}
	if ttl := mr.TTL(keys.Camera("cam-1")); ttl != time.Hour {
		t.Fatalf("ttl=%v want 1h", ttl)
	}

	got, ok, err := rc.Load(ctx, "cam-1")
	if err != nil || !ok {
		t.Fatalf("Load ok=%v err=%v", ok, err)
	}
	if got.Applied != 4 || got.Intent.AnimationMode != model.ModeFlight || got.Intent.Bounds.PaddingTop != 12 {
		t.Fatalf("loaded %+v", got)
	}
	if got.Intent.TriggerKey == nil || got.Intent.TriggerKey.Raw() != `"tick-1"` {
		t.Fatalf("trigger value lost: %+v", got.Intent.TriggerKey)
	}

	if err := rc.Delete(ctx, "cam-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, err := rc.Load(ctx, "cam-1"); err != nil || ok {
		t.Fatalf("after delete ok=%v err=%v", ok, err)
	}
}

func TestLoad_CorruptPayload(t *testing.T) {
	rc, mr := newMini(t, 0)
	if err := mr.Set(keys.Camera("bad"), "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, _, err := rc.Load(context.Background(), "bad"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestLocationMirror(t *testing.T) {
	rc, _ := newMini(t, time.Minute)
	ctx := context.Background()

	if _, ok, err := rc.LoadLocation(ctx, "dev"); err != nil || ok {
		t.Fatalf("empty load ok=%v err=%v", ok, err)
	}
	if err := rc.SaveLocation(ctx, "dev", []byte(`{"coords":{"longitude":1,"latitude":2}}`)); err != nil {
		t.Fatalf("SaveLocation: %v", err)
	}
	b, ok, err := rc.LoadLocation(ctx, "dev")
	if err != nil || !ok || !strings.Contains(string(b), `"latitude":2`) {
		t.Fatalf("LoadLocation=%s ok=%v err=%v", b, ok, err)
	}
}

func TestContextDeadline_IsRespected(t *testing.T) {
	rc, _ := newMini(t, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := rc.Save(ctx, "k", controller.State{}); err == nil {
		t.Fatalf("expected error on Save with canceled context")
	}
	if _, _, err := rc.Load(ctx, "k"); err == nil {
		t.Fatalf("expected error on Load with canceled context")
	}
	if err := rc.Delete(ctx, "k"); err == nil {
		t.Fatalf("expected error on Delete with canceled context")
	}
}

func TestMetrics_Incremented(t *testing.T) {
	p := metrics.Init(metrics.Config{})
	observability.Init(p.Registerer(), true)

	rc, _ := newMini(t, 0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_ = rc.Save(ctx, "m1", controller.State{})
	_, _, _ = rc.Load(ctx, "m1")
	_ = rc.Delete(ctx, "m1")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	p.Handler().ServeHTTP(rr, req)
	body := rr.Body.String()
	for _, op := range []string{"save", "load", "delete"} {
		if !strings.Contains(body, `session_store_op_total{op="`+op+`",result="ok"}`) {
			t.Fatalf("missing %s op metric; got:\n%s", op, body)
		}
	}
}

func TestPing_FollowsServer(t *testing.T) {
	rc, mr := newMini(t, 0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	mr.Close()
	if err := rc.Ping(ctx); err == nil {
		t.Fatalf("ping must fail once redis is gone")
	}
}
