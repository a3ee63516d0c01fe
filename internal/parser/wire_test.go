package parser

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestToWireOmitsSegmentTypeExceptOnStart(t *testing.T) {
	start := ToWire(SegmentEvent{Kind: EventStart, SegmentID: "seg_1", SegmentType: SegmentText})
	if start.SegmentType != SegmentText {
		t.Fatalf("expected segment_type on START, got %q", start.SegmentType)
	}

	content := ToWire(SegmentEvent{Kind: EventContent, SegmentID: "seg_1", Delta: "hi"})
	if content.SegmentType != "" {
		t.Fatalf("expected no segment_type on CONTENT, got %q", content.SegmentType)
	}
	if content.Payload.Delta != "hi" {
		t.Fatalf("expected delta hi, got %q", content.Payload.Delta)
	}
}

func TestEventWriterEncodesOneJSONLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	writer := NewEventWriter(&buf)

	events := []SegmentEvent{
		{Kind: EventStart, SegmentID: "seg_1", SegmentType: SegmentText},
		{Kind: EventContent, SegmentID: "seg_1", Delta: "hi"},
		{Kind: EventEnd, SegmentID: "seg_1"},
	}
	if err := writer.WriteAll(events); err != nil {
		t.Fatalf("write all: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 JSON lines, got %d: %q", len(lines), buf.String())
	}
	var decoded WireEvent
	if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil {
		t.Fatalf("decode first line: %v", err)
	}
	if decoded.Type != EventStart || decoded.SegmentType != SegmentText {
		t.Fatalf("unexpected decoded event: %+v", decoded)
	}
}

func TestEventWriterWriteInvocationOmitsEnvelope(t *testing.T) {
	var buf bytes.Buffer
	writer := NewEventWriter(&buf)

	if err := writer.WriteInvocation(ToolInvocation{ID: "seg_1", Name: "weather", Arguments: map[string]any{"city": "NYC"}}); err != nil {
		t.Fatalf("write invocation: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["id"] != "seg_1" || decoded["name"] != "weather" {
		t.Fatalf("unexpected decoded invocation: %+v", decoded)
	}
}
