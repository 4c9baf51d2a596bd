// Package bridge hands resolved camera actions to the native map layer.
package bridge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mohammed-shakir/camera-stop-engine/internal/camera/resolve"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/model"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/observability"
)

// Bridge is fire-and-forget from the engine's point of view: an error is
// logged and counted, never retried.
type Bridge interface {
	Apply(ctx context.Context, cameraID string, actions []resolve.Action) error
}

// Command is the wire form of one native instruction, shaped like the
// native camera's props.
type Command struct {
	CameraID           string                  `json:"cameraId"`
	Kind               resolve.Kind            `json:"kind"`
	FollowUserLocation *bool                   `json:"followUserLocation,omitempty"`
	FollowUserMode     model.FollowMode        `json:"followUserMode,omitempty"`
	FollowPitch        *float64                `json:"followPitch,omitempty"`
	FollowHeading      *float64                `json:"followHeading,omitempty"`
	FollowZoomLevel    *float64                `json:"followZoomLevel,omitempty"`
	Stop               *model.StopDescriptor   `json:"stop,omitempty"`
	Stops              []*model.StopDescriptor `json:"stops,omitempty"`
	TS                 time.Time               `json:"ts"`
}

// Commands converts actions in order.
func Commands(cameraID string, actions []resolve.Action, now time.Time) []Command {
	out := make([]Command, 0, len(actions))
	for _, a := range actions {
		c := Command{CameraID: cameraID, Kind: a.Kind(), TS: now}
		switch v := a.(type) {
		case resolve.StopFollowing:
			c.FollowUserLocation = boolPtr(false)
		case resolve.StartFollowing:
			c.FollowUserLocation = boolPtr(true)
			c.FollowUserMode = v.Mode
		case resolve.UpdateFollowing:
			c.FollowPitch = v.Overrides.Pitch
			c.FollowHeading = v.Overrides.Heading
			c.FollowZoomLevel = v.Overrides.ZoomLevel
		case resolve.ManualStop:
			c.Stop = v.Stop
		case resolve.ManualStops:
			c.Stops = v.Stops
		}
		out = append(out, c)
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

// Log writes each command to the logger.
type Log struct {
	L *slog.Logger
}

func (b Log) Apply(ctx context.Context, cameraID string, actions []resolve.Action) error {
	l := b.L
	if l == nil {
		l = slog.Default()
	}
	for _, c := range Commands(cameraID, actions, time.Now().UTC()) {
		l.InfoContext(ctx, "camera command", "kind", string(c.Kind), "command", c)
		observability.IncBridgePublish("log", nil)
	}
	return nil
}

// Recorder keeps every command in memory.
type Recorder struct {
	mu   sync.Mutex
	cmds []Command
}

func (r *Recorder) Apply(_ context.Context, cameraID string, actions []resolve.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, Commands(cameraID, actions, time.Now().UTC())...)
	return nil
}

func (r *Recorder) Commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Command, len(r.cmds))
	copy(out, r.cmds)
	return out
}

// Multi fans actions out to every bridge and returns the first error.
type Multi []Bridge

func (m Multi) Apply(ctx context.Context, cameraID string, actions []resolve.Action) error {
	var first error
	for _, b := range m {
		if err := b.Apply(ctx, cameraID, actions); err != nil && first == nil {
			first = err
		}
	}
	return first
}
