package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// WireEvent is the transport-agnostic, JSON-friendly rendering of a SegmentEvent
// (spec.md §6 "Event sink"): `segment_type` is present only on START, and the
// variable part of the payload (metadata/delta/arg_name/arg_state) is nested
// under `payload` so the envelope shape is uniform across all three kinds.
type WireEvent struct {
	// Type is one of SEGMENT_START, SEGMENT_CONTENT, SEGMENT_END.
	Type EventKind `json:"type"`
	// SegmentID is stable across every event belonging to one segment.
	SegmentID string `json:"segment_id"`
	// SegmentType is only populated on START events.
	SegmentType SegmentType `json:"segment_type,omitempty"`
	Payload     WirePayload `json:"payload"`
}

// WirePayload carries the fields that vary by event kind.
type WirePayload struct {
	// Metadata is present on START and END.
	Metadata map[string]any `json:"metadata,omitempty"`
	// Delta is present on CONTENT.
	Delta string `json:"delta,omitempty"`
	// ArgName names the tool argument Delta belongs to, on CONTENT events that
	// stream an argument.
	ArgName string `json:"arg_name,omitempty"`
	// ArgState is the argument boundary state, alongside ArgName.
	ArgState ArgState `json:"arg_state,omitempty"`
}

// ToWire renders a SegmentEvent into its wire envelope.
func ToWire(event SegmentEvent) WireEvent {
	wire := WireEvent{
		Type:      event.Kind,
		SegmentID: event.SegmentID,
	}
	if event.Kind == EventStart {
		wire.SegmentType = event.SegmentType
	}
	wire.Payload = WirePayload{
		Metadata: event.Metadata,
		Delta:    event.Delta,
		ArgName:  event.ArgName,
		ArgState: event.ArgState,
	}
	return wire
}

// EventWriter emits SegmentEvents as newline-delimited JSON, one WireEvent per
// line, the way streamjson.Writer emits Claude Code's own stream-json events.
type EventWriter struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewEventWriter constructs an EventWriter over writer.
func NewEventWriter(writer io.Writer) *EventWriter {
	return &EventWriter{writer: writer}
}

// Write encodes event as one JSON line.
func (w *EventWriter) Write(event SegmentEvent) error {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(ToWire(event)); err != nil {
		return fmt.Errorf("encode segment event: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.writer.Write(buffer.Bytes()); err != nil {
		return fmt.Errorf("write segment event: %w", err)
	}
	return nil
}

// WriteAll encodes every event in order.
func (w *EventWriter) WriteAll(events []SegmentEvent) error {
	for _, event := range events {
		if err := w.Write(event); err != nil {
			return err
		}
	}
	return nil
}

// WriteInvocation encodes a ToolInvocation as one JSON line, using the wire
// shape spec.md §6 "Tool-invocation sink" documents directly (no envelope).
func (w *EventWriter) WriteInvocation(invocation ToolInvocation) error {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(invocation); err != nil {
		return fmt.Errorf("encode tool invocation: %w", err)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.writer.Write(buffer.Bytes()); err != nil {
		return fmt.Errorf("write tool invocation: %w", err)
	}
	return nil
}
