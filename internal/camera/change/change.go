// Package change decides whether two camera intents differ enough to warrant
// a native camera update.
package change

import (
	"math"

	"github.com/mohammed-shakir/camera-stop-engine/internal/core/model"
)

// HasChanged reports whether any positional, follow or animation field
// differs between prev and next.
func HasChanged(prev, next model.CameraIntent) bool {
	return positionalChanged(prev, next) ||
		followChanged(prev, next) ||
		animationChanged(prev, next)
}

func positionalChanged(c, n model.CameraIntent) bool {
	return floatChanged(c.Heading, n.Heading) ||
		CenterChanged(c.CenterCoordinate, n.CenterCoordinate) ||
		BoundsChanged(c.Bounds, n.Bounds) ||
		floatChanged(c.Pitch, n.Pitch) ||
		floatChanged(c.ZoomLevel, n.ZoomLevel) ||
		c.TriggerKey != n.TriggerKey
}

func followChanged(c, n model.CameraIntent) bool {
	return c.FollowUserLocation != n.FollowUserLocation ||
		c.FollowUserMode != n.FollowUserMode ||
		floatChanged(c.FollowZoomLevel, n.FollowZoomLevel) ||
		floatChanged(c.FollowHeading, n.FollowHeading) ||
		floatChanged(c.FollowPitch, n.FollowPitch)
}

func animationChanged(c, n model.CameraIntent) bool {
	return c.AnimationMode != n.AnimationMode ||
		c.AnimationDuration != n.AnimationDuration
}

// CenterChanged compares two optional center coordinates. A coordinate
// appearing or disappearing counts as a change.
func CenterChanged(c, n *model.Position) bool {
	if existenceChanged(c, n) {
		return true
	}
	if c == nil && n == nil {
		return false
	}
	return differ(c[0], n[0]) || differ(c[1], n[1])
}

// BoundsChanged compares the corners of two optional bounds. Padding is
// not compared.
func BoundsChanged(c, n *model.Bounds) bool {
	if c == nil && n == nil {
		return false
	}
	if existenceChanged(c, n) {
		return true
	}
	return CenterChanged(c.NE, n.NE) || CenterChanged(c.SW, n.SW)
}

func existenceChanged[T any](c, n *T) bool {
	return (c == nil) != (n == nil)
}

func floatChanged(c, n *float64) bool {
	if existenceChanged(c, n) {
		return true
	}
	if c == nil {
		return false
	}
	return differ(*c, *n)
}

// NaN equals NaN here, so an intent never differs from itself.
func differ(a, b float64) bool {
	return a != b && !(math.IsNaN(a) && math.IsNaN(b))
}
