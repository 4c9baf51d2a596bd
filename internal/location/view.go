package location

import "github.com/mohammed-shakir/camera-stop-engine/internal/core/model"

type RenderMode string

const (
	RenderNormal     RenderMode = "normal"
	RenderCompass    RenderMode = "compass"
	RenderNavigation RenderMode = "navigation"
	RenderCustom     RenderMode = "custom"
)

type TrackingMode string

const (
	TrackingNone              TrackingMode = "none"
	TrackingFollow            TrackingMode = "follow"
	TrackingFollowWithHeading TrackingMode = "followWithHeading"
	TrackingFollowWithCourse  TrackingMode = "followWithCourse"
)

// FollowMode maps a tracking mode onto the camera's follow mode. ok is
// false for TrackingNone.
func (m TrackingMode) FollowMode() (mode model.FollowMode, ok bool) {
	switch m {
	case TrackingFollow:
		return model.FollowNormal, true
	case TrackingFollowWithHeading:
		return model.FollowCompass, true
	case TrackingFollowWithCourse:
		return model.FollowCourse, true
	}
	return "", false
}

const (
	AnnotationID = "mapboxUserLocation"
	puckBlue     = "rgba(51, 181, 229, 100)"
)

type CircleStyle struct {
	CircleRadius         float64  `json:"circleRadius"`
	CircleColor          string   `json:"circleColor"`
	CircleOpacity        *float64 `json:"circleOpacity,omitempty"`
	CirclePitchAlignment string   `json:"circlePitchAlignment"`
}

type Layer struct {
	ID           string      `json:"id"`
	AboveLayerID string      `json:"aboveLayerID,omitempty"`
	Style        CircleStyle `json:"style"`
}

func normalLayers() []Layer {
	return []Layer{
		{
			ID: "mapboxUserLocationPluseCircle",
			Style: CircleStyle{
				CircleRadius:         15,
				CircleColor:          puckBlue,
				CircleOpacity:        model.Float(0.2),
				CirclePitchAlignment: "map",
			},
		},
		{
			ID:    "mapboxUserLocationWhiteCircle",
			Style: CircleStyle{CircleRadius: 9, CircleColor: "#fff", CirclePitchAlignment: "map"},
		},
		{
			ID:           "mapboxUserLocationBlueCicle",
			AboveLayerID: "mapboxUserLocationWhiteCircle",
			Style:        CircleStyle{CircleRadius: 6, CircleColor: puckBlue, CirclePitchAlignment: "map"},
		},
	}
}

// UserLocation is the view state of the user-location annotation.
type UserLocation struct {
	Visible     bool            `json:"visible"`
	Animated    bool            `json:"animated"`
	RenderMode  RenderMode      `json:"renderMode"`
	Coordinates *model.Position `json:"coordinates,omitempty"`
	// CustomLayers replaces the built-in puck when set.
	CustomLayers []Layer `json:"customLayers,omitempty"`
}

func NewUserLocation() UserLocation {
	return UserLocation{Visible: true, Animated: true, RenderMode: RenderNormal}
}

// OnLocation replaces the coordinates; a location without coords clears them.
func (u *UserLocation) OnLocation(loc *Location) {
	u.Coordinates = CoordinatesFrom(loc)
}

func (u UserLocation) ShouldRender() bool {
	return u.Visible && u.Coordinates != nil
}

// Layers returns the layers drawn for the puck. Compass and navigation
// modes have no built-in icon.
func (u UserLocation) Layers() []Layer {
	if len(u.CustomLayers) > 0 {
		return u.CustomLayers
	}
	switch u.RenderMode {
	case RenderNormal:
		return normalLayers()
	case RenderCompass, RenderNavigation:
		return nil
	}
	return u.CustomLayers
}
