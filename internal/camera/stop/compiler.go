// Package stop compiles camera intents into native-ready stop descriptors.
package stop

import "github.com/mohammed-shakir/camera-stop-engine/internal/core/model"

// Compile returns the stop for intent, or nil while the intent follows the
// user location.
func Compile(intent model.CameraIntent) *model.StopDescriptor {
	m, ok := model.ModeOf(intent).(model.Manual)
	if !ok {
		return nil
	}
	return CompileManual(m)
}

// CompileManual builds a stop from manual camera fields. Valid bounds win
// over the center coordinate.
func CompileManual(m model.Manual) *model.StopDescriptor {
	sd := &model.StopDescriptor{
		Mode:       NativeMode(m.AnimationMode),
		Pitch:      m.Pitch,
		Heading:    m.Heading,
		Zoom:       m.ZoomLevel,
		DurationMs: max(m.AnimationDuration, 0),
	}

	if m.Bounds.Valid() {
		b := m.Bounds
		sd.Bounds = &model.PaddedBounds{
			NE:            *b.NE,
			SW:            *b.SW,
			PaddingTop:    b.PaddingTop,
			PaddingRight:  b.PaddingRight,
			PaddingBottom: b.PaddingBottom,
			PaddingLeft:   b.PaddingLeft,
		}
		return sd
	}

	if m.CenterCoordinate != nil {
		c := *m.CenterCoordinate
		sd.CenterCoordinate = &c
	}
	return sd
}

// CompileBatch compiles each stop independently, keeping order. Entries for
// following intents are nil.
func CompileBatch(stops []model.CameraIntent) []*model.StopDescriptor {
	out := make([]*model.StopDescriptor, 0, len(stops))
	for _, s := range stops {
		out = append(out, Compile(s))
	}
	return out
}

// NativeMode maps an animation mode to its native code. Unknown values ease.
func NativeMode(mode model.AnimationMode) model.NativeMode {
	switch mode {
	case model.ModeFlight:
		return model.NativeFlight
	case model.ModeMove:
		return model.NativeNone
	default:
		return model.NativeEase
	}
}
