// Package controller applies camera intents as explicit state transitions.
// Callers own the event loop and must apply intents in arrival order.
package controller

import (
	"github.com/mohammed-shakir/camera-stop-engine/internal/camera/resolve"
	"github.com/mohammed-shakir/camera-stop-engine/internal/camera/stop"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/model"
)

// State is the last intent applied to one camera.
type State struct {
	Intent  model.CameraIntent `json:"intent"`
	Applied int64              `json:"applied"`
}

// Following reports whether the native tracking subsystem owns the camera.
func (s State) Following() bool { return s.Intent.FollowUserLocation }

// ApplyIntent moves the camera from state to next. The returned state
// always holds next, even when no action was needed.
func ApplyIntent(state State, next model.CameraIntent) (State, []resolve.Action) {
	actions := resolve.Resolve(state.Intent, next)
	ns := State{Intent: next, Applied: state.Applied}
	if len(actions) > 0 {
		ns.Applied++
	}
	return ns, actions
}

// CameraConfig is an imperative camera move. When Stops is non-empty the
// single-stop fields are ignored.
type CameraConfig struct {
	model.CameraIntent
	Stops []model.CameraIntent `json:"stops,omitempty"`
}

// SetCamera compiles an imperative move without touching the state. It
// yields nothing while the camera follows the user.
func SetCamera(state State, cfg CameraConfig) []resolve.Action {
	if state.Following() {
		return nil
	}
	if len(cfg.Stops) > 0 {
		return []resolve.Action{resolve.ManualStops{Stops: stop.CompileBatch(cfg.Stops)}}
	}
	sd := stop.Compile(cfg.CameraIntent)
	if sd == nil {
		return nil
	}
	return []resolve.Action{resolve.ManualStop{Stop: sd}}
}

// CarryTrigger rebinds next's trigger to prev's when both carry the same
// value. Triggers decoded from the wire are fresh tokens every time, so
// their identity is their value.
func CarryTrigger(prev model.CameraIntent, next *model.CameraIntent) {
	if prev.TriggerKey.SameValue(next.TriggerKey) {
		next.TriggerKey = prev.TriggerKey
	}
}
