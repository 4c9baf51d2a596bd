// Package model defines the camera intent and stop types shared across the service.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Position is a [lon, lat] pair in EPSG:4326.
type Position [2]float64

func (p Position) Lon() float64 { return p[0] }
func (p Position) Lat() float64 { return p[1] }

func (p Position) String() string {
	return fmt.Sprintf("%.6f,%.6f", p[0], p[1])
}

// Bounds is a camera target box. Corners are optional so that a malformed
// request can be told apart from an absent one.
type Bounds struct {
	NE            *Position `json:"ne,omitempty"`
	SW            *Position `json:"sw,omitempty"`
	PaddingTop    float64   `json:"paddingTop,omitempty"`
	PaddingRight  float64   `json:"paddingRight,omitempty"`
	PaddingBottom float64   `json:"paddingBottom,omitempty"`
	PaddingLeft   float64   `json:"paddingLeft,omitempty"`
}

// Valid reports whether both corners are present.
func (b *Bounds) Valid() bool {
	return b != nil && b.NE != nil && b.SW != nil
}

type AnimationMode string

const (
	ModeFlight AnimationMode = "flyTo"
	ModeMove   AnimationMode = "moveTo"
	ModeEase   AnimationMode = "easeTo"
)

type FollowMode string

const (
	FollowNormal  FollowMode = "normal"
	FollowCompass FollowMode = "compass"
	FollowCourse  FollowMode = "course"
)

// Trigger is an opaque token. Two intents carry the same trigger only when
// they hold the same *Trigger; equal values in distinct tokens still differ.
// The value is kept as compact JSON text, so 1 and "1" are different values.
type Trigger struct {
	raw string
}

// NewTrigger wraps any JSON-encodable value.
func NewTrigger(v any) *Trigger {
	b, err := json.Marshal(v)
	if err != nil {
		b, _ = json.Marshal(fmt.Sprint(v))
	}
	return &Trigger{raw: string(b)}
}

// Raw returns the value as JSON text.
func (t *Trigger) Raw() string { return t.raw }

// SameValue compares values, not identity.
func (t *Trigger) SameValue(o *Trigger) bool {
	return t != nil && o != nil && t.raw == o.raw
}

func (t *Trigger) MarshalJSON() ([]byte, error) {
	if t == nil || t.raw == "" {
		return []byte("null"), nil
	}
	return []byte(t.raw), nil
}

func (t *Trigger) UnmarshalJSON(b []byte) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return fmt.Errorf("trigger: %w", err)
	}
	t.raw = buf.String()
	return nil
}

// CameraIntent is the declarative camera state requested by a caller.
type CameraIntent struct {
	CenterCoordinate  *Position     `json:"centerCoordinate,omitempty"`
	Bounds            *Bounds       `json:"bounds,omitempty"`
	ZoomLevel         *float64      `json:"zoomLevel,omitempty"`
	Pitch             *float64      `json:"pitch,omitempty"`
	Heading           *float64      `json:"heading,omitempty"`
	AnimationMode     AnimationMode `json:"animationMode,omitempty"`
	AnimationDuration int           `json:"animationDuration,omitempty"`

	FollowUserLocation bool       `json:"followUserLocation,omitempty"`
	FollowUserMode     FollowMode `json:"followUserMode,omitempty"`
	FollowPitch        *float64   `json:"followPitch,omitempty"`
	FollowHeading      *float64   `json:"followHeading,omitempty"`
	FollowZoomLevel    *float64   `json:"followZoomLevel,omitempty"`

	TriggerKey *Trigger `json:"triggerKey,omitempty"`
}

// Float returns a pointer to v, for building intents inline.
func Float(v float64) *float64 { return &v }

// Pos returns a pointer to a Position.
func Pos(lon, lat float64) *Position {
	p := Position{lon, lat}
	return &p
}

// NativeMode is the animation code understood by the native camera.
type NativeMode int

const (
	NativeFlight NativeMode = 1
	NativeEase   NativeMode = 2
	NativeNone   NativeMode = 3
)

func (m NativeMode) String() string {
	switch m {
	case NativeFlight:
		return "flight"
	case NativeNone:
		return "none"
	default:
		return "ease"
	}
}

// PaddedBounds is the bounds target of a stop. Corners are always set.
type PaddedBounds struct {
	NE            Position `json:"ne"`
	SW            Position `json:"sw"`
	PaddingTop    float64  `json:"paddingTop"`
	PaddingRight  float64  `json:"paddingRight"`
	PaddingBottom float64  `json:"paddingBottom"`
	PaddingLeft   float64  `json:"paddingLeft"`
}

// StopDescriptor is a compiled camera stop. At most one of CenterCoordinate
// and Bounds is set.
type StopDescriptor struct {
	Mode             NativeMode    `json:"mode"`
	Pitch            *float64      `json:"pitch,omitempty"`
	Heading          *float64      `json:"heading,omitempty"`
	Zoom             *float64      `json:"zoom,omitempty"`
	DurationMs       int           `json:"duration"`
	CenterCoordinate *Position     `json:"centerCoordinate,omitempty"`
	Bounds           *PaddedBounds `json:"bounds,omitempty"`
}

// Region is a visible map area.
type Region struct {
	NE Position `json:"ne"`
	SW Position `json:"sw"`
}

type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
