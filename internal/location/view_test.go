package location

import (
	"testing"

	"github.com/mohammed-shakir/camera-stop-engine/internal/core/model"
)

func TestUserLocation_ShouldRender(t *testing.T) {
	u := NewUserLocation()
	if u.ShouldRender() {
		t.Fatalf("no coordinates yet, must not render")
	}
	loc := at(10, 20)
	u.OnLocation(&loc)
	if !u.ShouldRender() {
		t.Fatalf("visible with coordinates must render")
	}
	u.Visible = false
	if u.ShouldRender() {
		t.Fatalf("hidden must not render")
	}
	u.Visible = true
	u.OnLocation(&Location{})
	if u.ShouldRender() {
		t.Fatalf("a location without coords clears the puck")
	}
}

func TestUserLocation_Layers(t *testing.T) {
	u := NewUserLocation()
	ls := u.Layers()
	if len(ls) != 3 {
		t.Fatalf("normal layers=%d want 3", len(ls))
	}
	if ls[2].ID != "mapboxUserLocationBlueCicle" || ls[2].AboveLayerID != "mapboxUserLocationWhiteCircle" {
		t.Fatalf("foreground layer=%+v", ls[2])
	}
	if ls[0].Style.CircleOpacity == nil || *ls[0].Style.CircleOpacity != 0.2 {
		t.Fatalf("pulse opacity=%v", ls[0].Style.CircleOpacity)
	}

	for _, m := range []RenderMode{RenderCompass, RenderNavigation, RenderCustom} {
		u.RenderMode = m
		if got := u.Layers(); got != nil {
			t.Fatalf("%s layers=%v want none", m, got)
		}
	}

	custom := []Layer{{ID: "mine"}}
	u.CustomLayers = custom
	u.RenderMode = RenderNormal
	if got := u.Layers(); len(got) != 1 || got[0].ID != "mine" {
		t.Fatalf("custom layers must win: %v", got)
	}
}

func TestTrackingMode_FollowMode(t *testing.T) {
	cases := map[TrackingMode]model.FollowMode{
		TrackingFollow:            model.FollowNormal,
		TrackingFollowWithHeading: model.FollowCompass,
		TrackingFollowWithCourse:  model.FollowCourse,
	}
	for tm, want := range cases {
		got, ok := tm.FollowMode()
		if !ok || got != want {
			t.Fatalf("%s -> %q,%v want %q", tm, got, ok, want)
		}
	}
	if _, ok := TrackingNone.FollowMode(); ok {
		t.Fatalf("none must not map to a follow mode")
	}
}
