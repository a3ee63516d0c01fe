package parser

// SegmentType classifies a contiguous run of the stream.
type SegmentType string

// Recognized segment types (spec.md §6 "Recognized segment types (wire values)").
const (
	SegmentText           SegmentType = "text"
	SegmentToolCall       SegmentType = "tool_call"
	SegmentWriteFile      SegmentType = "write_file"
	SegmentPatchFile      SegmentType = "patch_file"
	SegmentRunTerminalCmd SegmentType = "run_terminal_cmd"
	SegmentIframe         SegmentType = "iframe"
	SegmentReasoning      SegmentType = "reasoning"
)

// EventKind is the lifecycle stage of a SegmentEvent.
type EventKind string

// The three lifecycle stages a segment passes through.
const (
	EventStart   EventKind = "SEGMENT_START"
	EventContent EventKind = "SEGMENT_CONTENT"
	EventEnd     EventKind = "SEGMENT_END"
)

// ArgState marks where in an argument's own lifecycle a CONTENT event falls.
type ArgState string

// Argument boundary states, used only on CONTENT events that stream a tool argument.
const (
	ArgStart ArgState = "start"
	ArgDelta ArgState = "delta"
	ArgEnd   ArgState = "end"
)

// SegmentEvent is one of START/CONTENT/END, describing a segment's lifecycle
// (spec.md §3 "Segment Event").
type SegmentEvent struct {
	Kind EventKind
	// SegmentID is stable across all events for one segment.
	SegmentID string
	// SegmentType is only populated on START events.
	SegmentType SegmentType
	// Metadata carries the segment's metadata map; present on START and END.
	// The consumer is expected to merge END's map over START's.
	Metadata map[string]any
	// Delta is the content fragment; only present on CONTENT events.
	Delta string
	// ArgName names which tool argument Delta belongs to, if any.
	ArgName string
	// ArgState reports the argument boundary state for CONTENT events that carry ArgName.
	ArgState ArgState
}

// ToolInvocation is the downstream-ready payload produced by the adapter
// (spec.md §3 "Tool Invocation"). ID equals the producing segment's ID, so the UI
// event stream and the execution queue can correlate on the same identifier.
type ToolInvocation struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func cloneMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}
	cloned := make(map[string]any, len(metadata))
	for key, value := range metadata {
		cloned[key] = value
	}
	return cloned
}
