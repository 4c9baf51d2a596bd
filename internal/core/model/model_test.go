package model

import (
	"encoding/json"
	"testing"
)

func TestTrigger_KeepsJSONText(t *testing.T) {
	var in CameraIntent
	if err := json.Unmarshal([]byte(`{"triggerKey": 1697040000000}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.TriggerKey == nil || in.TriggerKey.Raw() != "1697040000000" {
		t.Fatalf("trigger=%v", in.TriggerKey)
	}
	if !in.TriggerKey.SameValue(NewTrigger(1697040000000)) {
		t.Fatalf("decoded and built numeric triggers must match")
	}
	if in.TriggerKey.SameValue(NewTrigger("1697040000000")) {
		t.Fatalf("number and string must stay distinct")
	}

	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"triggerKey":1697040000000}` {
		t.Fatalf("encoded=%s", b)
	}
}

func TestTrigger_NullAndNil(t *testing.T) {
	var in CameraIntent
	if err := json.Unmarshal([]byte(`{"triggerKey":null}`), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if in.TriggerKey != nil {
		t.Fatalf("null trigger=%v want nil", in.TriggerKey)
	}
	var nilT *Trigger
	if nilT.SameValue(NewTrigger("a")) || NewTrigger("a").SameValue(nil) {
		t.Fatalf("nil trigger never matches")
	}
}
