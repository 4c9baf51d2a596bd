package model

// CameraMode is either Manual or Following.
type CameraMode interface {
	isCameraMode()
}

// Manual carries the fields of a positional camera move.
type Manual struct {
	CenterCoordinate  *Position
	Bounds            *Bounds
	ZoomLevel         *float64
	Pitch             *float64
	Heading           *float64
	AnimationMode     AnimationMode
	AnimationDuration int
}

// FollowOverrides are the only camera fields applied while tracking the user.
type FollowOverrides struct {
	Pitch     *float64 `json:"followPitch,omitempty"`
	Heading   *float64 `json:"followHeading,omitempty"`
	ZoomLevel *float64 `json:"followZoomLevel,omitempty"`
}

// Following means the native tracking subsystem owns the camera position.
type Following struct {
	Mode      FollowMode
	Overrides FollowOverrides
}

func (Manual) isCameraMode()    {}
func (Following) isCameraMode() {}

// ModeOf splits an intent into its camera mode. Follow overrides fall back
// to the manual field when absent.
func ModeOf(in CameraIntent) CameraMode {
	if in.FollowUserLocation {
		return Following{
			Mode: in.FollowUserMode,
			Overrides: FollowOverrides{
				Pitch:     firstSet(in.FollowPitch, in.Pitch),
				Heading:   firstSet(in.FollowHeading, in.Heading),
				ZoomLevel: firstSet(in.FollowZoomLevel, in.ZoomLevel),
			},
		}
	}
	return Manual{
		CenterCoordinate:  in.CenterCoordinate,
		Bounds:            in.Bounds,
		ZoomLevel:         in.ZoomLevel,
		Pitch:             in.Pitch,
		Heading:           in.Heading,
		AnimationMode:     in.AnimationMode,
		AnimationDuration: in.AnimationDuration,
	}
}

func firstSet(a, b *float64) *float64 {
	if a != nil {
		return a
	}
	return b
}
