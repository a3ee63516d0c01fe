package parser

// Segment is a finalized, fully-assembled view of one segment's lifecycle: its
// accumulated content and its merged metadata (END's map layered over START's).
// AssembleSegments produces these from a raw SegmentEvent stream, mirroring
// `streaming_parser.py`'s `extract_segments`.
type Segment struct {
	ID          string
	SegmentType SegmentType
	Content     string
	Metadata    map[string]any

	// ToolName and Arguments are populated only for tool-bearing segment types,
	// read out of Metadata for convenience.
	ToolName  string
	Arguments map[string]any

	// Unclosed is true when the event slice ended before this segment's END was
	// seen; it is still included, force-closed with whatever content/metadata had
	// accumulated so far.
	Unclosed bool
}

type activeSegment struct {
	segmentType SegmentType
	content     []byte
	metadata    map[string]any
}

// AssembleSegments replays events into finalized Segment values, in the order
// each segment's END (or, for a segment never closed, the order it was opened)
// appears. It is a pure function: it holds no parser state and can be called on
// any Handler's or Parser's accumulated event history.
func AssembleSegments(events []SegmentEvent) []Segment {
	active := make(map[string]*activeSegment)
	order := make([]string, 0)
	var segments []Segment

	for _, event := range events {
		switch event.Kind {
		case EventStart:
			active[event.SegmentID] = &activeSegment{
				segmentType: event.SegmentType,
				metadata:    cloneMetadata(event.Metadata),
			}
			order = append(order, event.SegmentID)

		case EventContent:
			if segment, ok := active[event.SegmentID]; ok {
				segment.content = append(segment.content, event.Delta...)
			}

		case EventEnd:
			segment, ok := active[event.SegmentID]
			if !ok {
				continue
			}
			delete(active, event.SegmentID)
			segment.metadata = mergeMetadata(segment.metadata, event.Metadata)
			segments = append(segments, buildSegment(event.SegmentID, segment, false))
		}
	}

	for _, id := range order {
		if segment, ok := active[id]; ok {
			segments = append(segments, buildSegment(id, segment, true))
		}
	}

	return segments
}

func buildSegment(id string, active *activeSegment, unclosed bool) Segment {
	segment := Segment{
		ID:          id,
		SegmentType: active.segmentType,
		Content:     string(active.content),
		Metadata:    active.metadata,
		Unclosed:    unclosed,
	}
	if active.metadata != nil {
		if toolName, ok := active.metadata["tool_name"].(string); ok {
			segment.ToolName = toolName
		}
		if arguments, ok := active.metadata["arguments"].(map[string]any); ok {
			segment.Arguments = arguments
		}
	}
	return segment
}

func mergeMetadata(into map[string]any, from map[string]any) map[string]any {
	if from == nil {
		return into
	}
	if into == nil {
		into = make(map[string]any, len(from))
	}
	for key, value := range from {
		into[key] = value
	}
	return into
}
