// Package region reports visible-region change events for a camera the way
// the native map view does: one will-change per gesture or animation, one
// did-change once the camera settles.
package region

import (
	"sync"

	"github.com/mohammed-shakir/camera-stop-engine/internal/core/model"
)

// Reason is why the camera started moving.
type Reason int

const (
	ReasonEmpty              Reason = -1
	ReasonUserGesture        Reason = 1
	ReasonDeveloperAnimation Reason = 2
	ReasonSDKAnimation       Reason = 3
)

func (r Reason) String() string {
	switch r {
	case ReasonUserGesture:
		return "user_gesture"
	case ReasonDeveloperAnimation:
		return "developer_animation"
	case ReasonSDKAnimation:
		return "sdk_animation"
	case ReasonEmpty:
		return "empty"
	}
	return "unknown"
}

type EventType string

const (
	WillChange EventType = "regionwillchange"
	DidChange  EventType = "regiondidchange"
)

// Camera is the settled camera state a payload is built from.
type Camera struct {
	Center        model.Position `json:"center"`
	Zoom          float64        `json:"zoomLevel"`
	Heading       float64        `json:"heading"`
	Pitch         float64        `json:"pitch"`
	VisibleBounds model.Region   `json:"visibleBounds"`
}

type Properties struct {
	ZoomLevel         float64           `json:"zoomLevel"`
	Heading           float64           `json:"heading"`
	Pitch             float64           `json:"pitch"`
	Animated          bool              `json:"animated"`
	IsUserInteraction bool              `json:"isUserInteraction"`
	VisibleBounds     [2]model.Position `json:"visibleBounds"`
}

type Geometry struct {
	Type        string         `json:"type"`
	Coordinates model.Position `json:"coordinates"`
}

// Payload is a GeoJSON point feature at the camera center.
type Payload struct {
	Type       string     `json:"type"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

type Event struct {
	Type    EventType `json:"type"`
	Payload Payload   `json:"payload"`
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	reason    Reason
	animating bool
}

func NewTracker() *Tracker {
	return &Tracker{reason: ReasonEmpty}
}

// MoveStarted emits will-change only when no move is in flight. A fling
// that follows a gesture keeps the gesture's reason and emits nothing.
func (t *Tracker) MoveStarted(reason Reason, cam Camera) (Event, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.reason != ReasonEmpty {
		return Event{}, false
	}
	t.reason = reason
	return t.event(WillChange, cam, nil), true
}

func (t *Tracker) AnimationStarted() {
	t.mu.Lock()
	t.animating = true
	t.mu.Unlock()
}

func (t *Tracker) AnimationFinished() {
	t.mu.Lock()
	t.animating = false
	t.mu.Unlock()
}

// Idle emits did-change unless an animation is still running, and clears
// the reason when it does.
func (t *Tracker) Idle(cam Camera) (Event, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.animating {
		return Event{}, false
	}
	ev := t.event(DidChange, cam, nil)
	t.reason = ReasonEmpty
	return ev, true
}

// Changed emits did-change with an explicit animated flag regardless of
// tracker state. It is used after an imperative camera update.
func (t *Tracker) Changed(cam Camera, animated bool) Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	ev := t.event(DidChange, cam, &animated)
	t.reason = ReasonEmpty
	return ev
}

func (t *Tracker) Reason() Reason {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reason
}

func (t *Tracker) IsAnimating() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.animating
}

func (t *Tracker) event(typ EventType, cam Camera, animated *bool) Event {
	a := t.reason == ReasonDeveloperAnimation || t.reason == ReasonSDKAnimation
	if animated != nil {
		a = *animated
	}
	return Event{
		Type: typ,
		Payload: Payload{
			Type:     "Feature",
			Geometry: Geometry{Type: "Point", Coordinates: cam.Center},
			Properties: Properties{
				ZoomLevel:         cam.Zoom,
				Heading:           cam.Heading,
				Pitch:             cam.Pitch,
				Animated:          a,
				IsUserInteraction: t.reason == ReasonUserGesture,
				VisibleBounds:     [2]model.Position{cam.VisibleBounds.NE, cam.VisibleBounds.SW},
			},
		},
	}
}
