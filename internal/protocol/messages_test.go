package protocol

import (
	"encoding/json"
	"testing"

	"github.com/easelhq/easel/internal/board"
)

func TestDecodeRejectsMalformedEnvelopes(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte(""),
		[]byte("not json"),
		[]byte(`{"payload":{}}`),
		[]byte(`{"type":""}`),
	}
	for _, data := range cases {
		if _, err := Decode(data); err == nil {
			t.Errorf("Decode(%q) should fail", data)
		}
	}
}

func TestDecodeKeepsPayloadRaw(t *testing.T) {
	env, err := Decode([]byte(`{"type":"stroke-start","payload":{"stroke_id":"s1","color":"#fff","width":3,"tool":"brush","point":{"x":1,"y":2}}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if env.Kind != KindStrokeStart {
		t.Errorf("Expected stroke-start, got %s", env.Kind)
	}

	var start StrokeStart
	if err := json.Unmarshal(env.Payload, &start); err != nil {
		t.Fatalf("Payload unmarshal failed: %v", err)
	}
	if err := start.Validate(); err != nil {
		t.Errorf("Valid payload rejected: %v", err)
	}
	if start.Point.X != 1 || start.Point.Y != 2 {
		t.Errorf("Point lost in transit: %+v", start.Point)
	}
}

func TestPayloadValidation(t *testing.T) {
	if err := (&JoinRequest{}).Validate(); err == nil {
		t.Error("join without room should fail validation")
	}
	if err := (&JoinRequest{Room: "r"}).Validate(); err != nil {
		t.Errorf("join with room should pass, got %v", err)
	}

	if err := (&StrokeStart{StrokeID: "s", Width: 2, Tool: "pencil"}).Validate(); err == nil {
		t.Error("unknown tool should fail validation")
	}
	if err := (&StrokeStart{StrokeID: "s", Width: 0, Tool: board.ToolBrush}).Validate(); err == nil {
		t.Error("zero width should fail validation")
	}
	if err := (&StrokeStart{StrokeID: "s", Width: 2, Tool: board.ToolEraser}).Validate(); err != nil {
		t.Errorf("eraser stroke should pass, got %v", err)
	}

	if err := (&StrokeAppend{StrokeID: "s"}).Validate(); err == nil {
		t.Error("append without points should fail validation")
	}
	if err := (&StrokeEnd{}).Validate(); err == nil {
		t.Error("stroke-end without id should fail validation")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	data := MustEncode(KindCleared, Cleared{ParticipantID: "p1"})

	env, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if env.Kind != KindCleared {
		t.Errorf("Expected cleared, got %s", env.Kind)
	}

	var cleared Cleared
	if err := json.Unmarshal(env.Payload, &cleared); err != nil {
		t.Fatalf("Payload unmarshal failed: %v", err)
	}
	if cleared.ParticipantID != "p1" {
		t.Errorf("Unexpected payload: %+v", cleared)
	}
}

func TestEncodeOmitsEmptyPayload(t *testing.T) {
	data, err := Encode(KindUndo, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	env, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if env.Kind != KindUndo || len(env.Payload) != 0 {
		t.Errorf("Unexpected envelope: %+v", env)
	}
}
