package router

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/mohammed-shakir/camera-stop-engine/internal/core/config"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/model"
)

func TestDecodeIntent_Defaults(t *testing.T) {
	cfg := config.Config{DefaultAnimation: "easeTo", DefaultDurationMs: 2000}

	in, err := DecodeIntent([]byte(`{"zoomLevel":3}`), cfg)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.AnimationMode != model.ModeEase || in.AnimationDuration != 2000 {
		t.Fatalf("defaults=%q/%d", in.AnimationMode, in.AnimationDuration)
	}

	in, _ = DecodeIntent([]byte(`{"animationMode":"flyTo","animationDuration":0}`), cfg)
	if in.AnimationMode != model.ModeFlight || in.AnimationDuration != 0 {
		t.Fatalf("explicit values overwritten: %q/%d", in.AnimationMode, in.AnimationDuration)
	}
}

func TestDecodeIntent_TriggerKey(t *testing.T) {
	in, err := DecodeIntent([]byte(`{"triggerKey":"k1"}`), config.Config{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.TriggerKey == nil || in.TriggerKey.Raw() != `"k1"` {
		t.Fatalf("trigger=%v", in.TriggerKey)
	}
}

func TestDecodeIntent_ScalarTriggerKeys(t *testing.T) {
	for body, want := range map[string]string{
		`{"triggerKey":1697040000000}`: `1697040000000`,
		`{"triggerKey":true}`:          `true`,
		`{"triggerKey":"1"}`:           `"1"`,
	} {
		in, err := DecodeIntent([]byte(body), config.Config{})
		if err != nil {
			t.Fatalf("%s: %v", body, err)
		}
		if in.TriggerKey == nil || in.TriggerKey.Raw() != want {
			t.Fatalf("%s: trigger=%v want %s", body, in.TriggerKey, want)
		}
	}
	if _, err := DecodeIntent([]byte(`{"triggerKey":{"a":1}}`), config.Config{}); err == nil {
		t.Fatalf("object trigger key accepted")
	}
}

func TestDecodeIntent_CenterArity(t *testing.T) {
	if _, err := DecodeIntent([]byte(`{"centerCoordinate":[1,2,3]}`), config.Config{}); err == nil {
		t.Fatalf("three-element coordinate accepted")
	}
}

func TestDecodeIntent_AlignmentNotStored(t *testing.T) {
	in, err := DecodeIntent([]byte(`{"centerCoordinate":[1,2],"alignment":[0.5,0.5]}`), config.Config{})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "alignment") {
		t.Fatalf("alignment persisted with intent: %s", b)
	}
}

func TestDecodeCameraConfig_StopErrorsCarryIndex(t *testing.T) {
	_, err := DecodeCameraConfig([]byte(`{"stops":[{},{"followUserMode":"warp"}]}`), config.Config{})
	if err == nil || err.Error()[:6] != "stop 1" {
		t.Fatalf("err=%v want stop 1 prefix", err)
	}
}

func TestDecodeIntent_SchemaRejects(t *testing.T) {
	cfg := config.Config{}
	for _, body := range []string{
		`{"zoomLevel":"high"}`,
		`{"centerCoordinate":[1]}`,
		`{"centerCoordinate":[0,91]}`,
		`{"bounds":{"ne":[181,0]}}`,
		`{"followUserMode":"sideways"}`,
		`{"animationDuration":1.5}`,
		`[]`,
	} {
		if _, err := DecodeIntent([]byte(body), cfg); err == nil {
			t.Fatalf("%s: expected schema error", body)
		}
	}
}

func TestDecodeIntent_NullsAccepted(t *testing.T) {
	in, err := DecodeIntent([]byte(`{"centerCoordinate":null,"zoomLevel":null,"triggerKey":null,"animationDuration":null}`),
		config.Config{DefaultDurationMs: 2000})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if in.CenterCoordinate != nil || in.ZoomLevel != nil || in.TriggerKey != nil || in.AnimationDuration != 2000 {
		t.Fatalf("intent=%+v", in)
	}
}
