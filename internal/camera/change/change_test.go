package change

import (
	"math"
	"testing"

	"github.com/mohammed-shakir/camera-stop-engine/internal/core/model"
)

func fullIntent() model.CameraIntent {
	return model.CameraIntent{
		CenterCoordinate:   model.Pos(18.06, 59.33),
		Bounds:             &model.Bounds{NE: model.Pos(10, 20), SW: model.Pos(0, 0), PaddingTop: 4},
		ZoomLevel:          model.Float(12),
		Pitch:              model.Float(30),
		Heading:            model.Float(90),
		AnimationMode:      model.ModeFlight,
		AnimationDuration:  1500,
		FollowUserLocation: true,
		FollowUserMode:     model.FollowCompass,
		FollowPitch:        model.Float(45),
		FollowHeading:      model.Float(10),
		FollowZoomLevel:    model.Float(16),
		TriggerKey:         model.NewTrigger("a"),
	}
}

func TestHasChanged_SameIntentIsUnchanged(t *testing.T) {
	cases := map[string]model.CameraIntent{
		"empty": {},
		"full":  fullIntent(),
		"nan":   {ZoomLevel: model.Float(math.NaN()), CenterCoordinate: model.Pos(math.NaN(), 1)},
	}
	for name, in := range cases {
		if HasChanged(in, in) {
			t.Fatalf("%s: HasChanged(I, I) = true, want false", name)
		}
	}
}

func TestHasChanged_TriggerIdentity(t *testing.T) {
	a := fullIntent()
	b := fullIntent()
	b.TriggerKey = a.TriggerKey
	if HasChanged(a, b) {
		t.Fatalf("shared trigger must not change")
	}

	// same value, new token
	b.TriggerKey = model.NewTrigger("a")
	if !HasChanged(a, b) {
		t.Fatalf("fresh trigger token must force a change")
	}

	b.TriggerKey = nil
	if !HasChanged(a, b) {
		t.Fatalf("dropping the trigger must change")
	}
}

// every single-field mutation must be detected, in both directions
func TestHasChanged_EachFieldDetected(t *testing.T) {
	mutations := map[string]func(*model.CameraIntent){
		"heading":           func(i *model.CameraIntent) { i.Heading = model.Float(91) },
		"heading unset":     func(i *model.CameraIntent) { i.Heading = nil },
		"pitch":             func(i *model.CameraIntent) { i.Pitch = model.Float(0) },
		"zoom":              func(i *model.CameraIntent) { i.ZoomLevel = model.Float(12.0001) },
		"zoom unset":        func(i *model.CameraIntent) { i.ZoomLevel = nil },
		"center lon":        func(i *model.CameraIntent) { i.CenterCoordinate = model.Pos(18.07, 59.33) },
		"center lat":        func(i *model.CameraIntent) { i.CenterCoordinate = model.Pos(18.06, 59.34) },
		"center unset":      func(i *model.CameraIntent) { i.CenterCoordinate = nil },
		"bounds ne":         func(i *model.CameraIntent) { i.Bounds = &model.Bounds{NE: model.Pos(10, 21), SW: model.Pos(0, 0)} },
		"bounds sw":         func(i *model.CameraIntent) { i.Bounds = &model.Bounds{NE: model.Pos(10, 20), SW: model.Pos(1, 0)} },
		"bounds unset":      func(i *model.CameraIntent) { i.Bounds = nil },
		"bounds corner nil": func(i *model.CameraIntent) { i.Bounds = &model.Bounds{NE: model.Pos(10, 20)} },
		"trigger":           func(i *model.CameraIntent) { i.TriggerKey = model.NewTrigger("b") },
		"follow":            func(i *model.CameraIntent) { i.FollowUserLocation = false },
		"follow mode":       func(i *model.CameraIntent) { i.FollowUserMode = model.FollowCourse },
		"follow zoom":       func(i *model.CameraIntent) { i.FollowZoomLevel = model.Float(15) },
		"follow heading":    func(i *model.CameraIntent) { i.FollowHeading = nil },
		"follow pitch":      func(i *model.CameraIntent) { i.FollowPitch = model.Float(0) },
		"animation mode":    func(i *model.CameraIntent) { i.AnimationMode = model.ModeEase },
		"animation dur":     func(i *model.CameraIntent) { i.AnimationDuration = 0 },
	}

	for name, mutate := range mutations {
		prev := fullIntent()
		next := fullIntent()
		next.TriggerKey = prev.TriggerKey
		mutate(&next)

		if !HasChanged(prev, next) {
			t.Fatalf("%s: HasChanged(prev, next) = false, want true", name)
		}
		if !HasChanged(next, prev) {
			t.Fatalf("%s: HasChanged(next, prev) = false, want true", name)
		}
	}
}

func TestHasChanged_PaddingIgnored(t *testing.T) {
	prev := model.CameraIntent{Bounds: &model.Bounds{NE: model.Pos(10, 20), SW: model.Pos(0, 0)}}
	next := model.CameraIntent{Bounds: &model.Bounds{NE: model.Pos(10, 20), SW: model.Pos(0, 0), PaddingLeft: 30}}
	if HasChanged(prev, next) {
		t.Fatalf("padding-only change should not trigger")
	}
}

func TestCenterChanged(t *testing.T) {
	if CenterChanged(nil, nil) {
		t.Fatalf("both absent must be unchanged")
	}
	if !CenterChanged(nil, model.Pos(0, 0)) || !CenterChanged(model.Pos(0, 0), nil) {
		t.Fatalf("existence change must be a change")
	}
	if CenterChanged(model.Pos(1, 2), model.Pos(1, 2)) {
		t.Fatalf("equal coordinates must be unchanged")
	}
	if !CenterChanged(model.Pos(1, 2), model.Pos(1, 2.0000001)) {
		t.Fatalf("no tolerance on coordinate compare")
	}
}

func TestBoundsChanged_CornerCompare(t *testing.T) {
	prev := &model.Bounds{NE: model.Pos(10, 20), SW: model.Pos(0, 0)}
	next := &model.Bounds{NE: model.Pos(10, 20), SW: model.Pos(0, 0)}
	if BoundsChanged(prev, next) {
		t.Fatalf("identical corners reported changed")
	}
	next.SW = model.Pos(1, 0)
	if !BoundsChanged(prev, next) {
		t.Fatalf("moved sw not detected")
	}
	if BoundsChanged(nil, nil) {
		t.Fatalf("both absent must be unchanged")
	}
	if !BoundsChanged(nil, next) || !BoundsChanged(next, nil) {
		t.Fatalf("existence change must be a change")
	}
}
