package region

import (
	"sync"
	"testing"

	"github.com/mohammed-shakir/camera-stop-engine/internal/core/model"
)

var cam = Camera{
	Center:        model.Position{18.07, 59.33},
	Zoom:          12,
	VisibleBounds: model.Region{NE: model.Position{18.2, 59.4}, SW: model.Position{17.9, 59.2}},
}

func TestGesture_WillThenDid(t *testing.T) {
	tr := NewTracker()

	ev, ok := tr.MoveStarted(ReasonUserGesture, cam)
	if !ok || ev.Type != WillChange {
		t.Fatalf("want will-change, got %v ok=%v", ev.Type, ok)
	}
	p := ev.Payload.Properties
	if !p.IsUserInteraction || p.Animated {
		t.Fatalf("gesture props=%+v", p)
	}
	if ev.Payload.Geometry.Coordinates != cam.Center || p.VisibleBounds[0] != cam.VisibleBounds.NE {
		t.Fatalf("payload=%+v", ev.Payload)
	}

	ev, ok = tr.Idle(cam)
	if !ok || ev.Type != DidChange || !ev.Payload.Properties.IsUserInteraction {
		t.Fatalf("did-change=%+v ok=%v", ev, ok)
	}
	if tr.Reason() != ReasonEmpty {
		t.Fatalf("reason must reset after did-change, got %s", tr.Reason())
	}
}

func TestFling_SuppressesEvents(t *testing.T) {
	tr := NewTracker()
	tr.MoveStarted(ReasonUserGesture, cam)
	tr.AnimationStarted()

	if _, ok := tr.Idle(cam); ok {
		t.Fatalf("did-change must be held while animating")
	}
	if _, ok := tr.MoveStarted(ReasonSDKAnimation, cam); ok {
		t.Fatalf("will-change must only fire from the empty state")
	}
	if tr.Reason() != ReasonUserGesture {
		t.Fatalf("fling keeps the gesture reason, got %s", tr.Reason())
	}

	tr.AnimationFinished()
	ev, ok := tr.Idle(cam)
	if !ok || !ev.Payload.Properties.IsUserInteraction {
		t.Fatalf("settled fling must report the gesture: %+v ok=%v", ev, ok)
	}
}

func TestAnimationReasons_AreAnimated(t *testing.T) {
	for _, r := range []Reason{ReasonDeveloperAnimation, ReasonSDKAnimation} {
		tr := NewTracker()
		ev, _ := tr.MoveStarted(r, cam)
		if !ev.Payload.Properties.Animated || ev.Payload.Properties.IsUserInteraction {
			t.Fatalf("%s props=%+v", r, ev.Payload.Properties)
		}
	}
}

func TestChanged_OverridesAnimated(t *testing.T) {
	tr := NewTracker()
	tr.MoveStarted(ReasonDeveloperAnimation, cam)
	ev := tr.Changed(cam, false)
	if ev.Type != DidChange || ev.Payload.Properties.Animated {
		t.Fatalf("explicit animated=false must win: %+v", ev.Payload.Properties)
	}
	if tr.Reason() != ReasonEmpty {
		t.Fatalf("reason must reset")
	}
}

func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker()
	var wg sync.WaitGroup
	wills := make(chan struct{}, 32)
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := tr.MoveStarted(ReasonUserGesture, cam); ok {
				wills <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wills)
	n := 0
	for range wills {
		n++
	}
	if n != 1 {
		t.Fatalf("will-change fired %d times want 1", n)
	}
}
