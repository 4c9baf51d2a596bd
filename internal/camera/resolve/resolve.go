// Package resolve turns a camera transition into the ordered native
// instructions that apply it.
package resolve

import (
	"github.com/mohammed-shakir/camera-stop-engine/internal/camera/change"
	"github.com/mohammed-shakir/camera-stop-engine/internal/camera/stop"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/model"
)

type Kind string

const (
	KindStopFollowing   Kind = "stop_following"
	KindStartFollowing  Kind = "start_following"
	KindUpdateFollowing Kind = "update_following"
	KindManualStop      Kind = "manual_stop"
	KindManualStops     Kind = "manual_stops"
)

// Action is one native instruction.
type Action interface {
	Kind() Kind
}

type StopFollowing struct{}

type StartFollowing struct {
	Mode model.FollowMode
}

type UpdateFollowing struct {
	Overrides model.FollowOverrides
}

type ManualStop struct {
	Stop *model.StopDescriptor
}

// ManualStops is a multi-leg camera path.
type ManualStops struct {
	Stops []*model.StopDescriptor
}

func (StopFollowing) Kind() Kind   { return KindStopFollowing }
func (StartFollowing) Kind() Kind  { return KindStartFollowing }
func (UpdateFollowing) Kind() Kind { return KindUpdateFollowing }
func (ManualStop) Kind() Kind      { return KindManualStop }
func (ManualStops) Kind() Kind     { return KindManualStops }

// Resolve returns nothing when next does not differ from prev. Otherwise:
//   - leaving follow mode disables it and does nothing else this cycle
//   - entering follow mode enables it, then applies the follow overrides
//   - staying in follow mode applies only the overrides
//   - manual mode emits one stop
func Resolve(prev, next model.CameraIntent) []Action {
	if !change.HasChanged(prev, next) {
		return nil
	}

	if prev.FollowUserLocation && !next.FollowUserLocation {
		return []Action{StopFollowing{}}
	}

	switch m := model.ModeOf(next).(type) {
	case model.Following:
		upd := UpdateFollowing{Overrides: m.Overrides}
		if !prev.FollowUserLocation {
			return []Action{StartFollowing{Mode: m.Mode}, upd}
		}
		return []Action{upd}
	case model.Manual:
		return []Action{ManualStop{Stop: stop.CompileManual(manualTarget(prev, m))}}
	}
	return nil
}

// manualTarget keeps exactly one positional target: the bounds when they
// are well formed and moved since prev, else the center coordinate.
func manualTarget(prev model.CameraIntent, m model.Manual) model.Manual {
	if m.Bounds.Valid() && change.BoundsChanged(prev.Bounds, m.Bounds) {
		m.CenterCoordinate = nil
		return m
	}
	m.Bounds = nil
	return m
}
