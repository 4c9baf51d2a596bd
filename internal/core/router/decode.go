package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mohammed-shakir/camera-stop-engine/internal/camera/controller"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/config"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/model"
)

// presence records which animation fields the client actually sent; the
// intent itself cannot tell an omitted duration from zero.
type presence struct {
	AnimationMode     *string `json:"animationMode"`
	AnimationDuration *int    `json:"animationDuration"`
}

type wireConfig struct {
	Stops []json.RawMessage `json:"stops"`
}

func readBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(strings.TrimSpace(string(b))) == 0 {
		return nil, errors.New("empty body")
	}
	return b, nil
}

// DecodeIntent parses one intent and fills the animation defaults the
// native camera assumes when a field is omitted. An unknown animationMode
// is kept; the stop compiler eases it.
func DecodeIntent(b []byte, cfg config.Config) (model.CameraIntent, error) {
	if err := checkSchema(intentSchema, b); err != nil {
		return model.CameraIntent{}, fmt.Errorf("invalid intent: %w", err)
	}
	var in model.CameraIntent
	if err := json.Unmarshal(b, &in); err != nil {
		return model.CameraIntent{}, fmt.Errorf("decode intent: %w", err)
	}
	var p presence
	if err := json.Unmarshal(b, &p); err != nil {
		return model.CameraIntent{}, fmt.Errorf("decode intent: %w", err)
	}
	if p.AnimationMode == nil {
		in.AnimationMode = model.AnimationMode(cfg.DefaultAnimation)
	}
	if p.AnimationDuration == nil {
		in.AnimationDuration = cfg.DefaultDurationMs
	}
	return in, nil
}

// DecodeCameraConfig parses an imperative move; each stop gets the same
// defaults as a single intent.
func DecodeCameraConfig(b []byte, cfg config.Config) (controller.CameraConfig, error) {
	in, err := DecodeIntent(b, cfg)
	if err != nil {
		return controller.CameraConfig{}, err
	}
	var wc wireConfig
	if err := json.Unmarshal(b, &wc); err != nil {
		return controller.CameraConfig{}, fmt.Errorf("decode stops: %w", err)
	}
	out := controller.CameraConfig{CameraIntent: in}
	for i, raw := range wc.Stops {
		s, err := DecodeIntent(raw, cfg)
		if err != nil {
			return controller.CameraConfig{}, fmt.Errorf("stop %d: %w", i, err)
		}
		out.Stops = append(out.Stops, s)
	}
	return out, nil
}

func validPosition(p model.Position) bool {
	return p.Lon() >= -180 && p.Lon() <= 180 && p.Lat() >= -90 && p.Lat() <= 90
}
