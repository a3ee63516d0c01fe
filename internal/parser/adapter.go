package parser

// toolBearingSegmentTypes lists the segment types that can produce a ToolInvocation.
var toolBearingSegmentTypes = map[SegmentType]bool{
	SegmentToolCall:       true,
	SegmentWriteFile:      true,
	SegmentPatchFile:      true,
	SegmentRunTerminalCmd: true,
}

type activeToolSegment struct {
	segmentType SegmentType
	toolName    string
	content     string
}

// ToolInvocationAdapter is a pure event consumer: it holds no reference to the
// parser and only reacts to the SegmentEvent stream, turning the END of each
// tool-bearing segment into a ToolInvocation (spec.md §4.12).
type ToolInvocationAdapter struct {
	registry *toolSyntaxRegistry
	active   map[string]*activeToolSegment
}

// NewToolInvocationAdapter returns an adapter ready to consume events.
func NewToolInvocationAdapter() *ToolInvocationAdapter {
	return &ToolInvocationAdapter{
		registry: newToolSyntaxRegistry(),
		active:   make(map[string]*activeToolSegment),
	}
}

// ProcessEvent feeds one event to the adapter. It returns a ToolInvocation, ready to
// execute, exactly when event closes a tool-bearing segment with a resolvable name
// and arguments; otherwise it returns (nil, false).
func (a *ToolInvocationAdapter) ProcessEvent(event SegmentEvent) (*ToolInvocation, bool) {
	switch event.Kind {
	case EventStart:
		return a.handleStart(event)
	case EventContent:
		return a.handleContent(event)
	case EventEnd:
		return a.handleEnd(event)
	}
	return nil, false
}

// ProcessEvents feeds a batch of events and returns every ToolInvocation produced.
func (a *ToolInvocationAdapter) ProcessEvents(events []SegmentEvent) []ToolInvocation {
	var invocations []ToolInvocation
	for _, event := range events {
		if invocation, ok := a.ProcessEvent(event); ok {
			invocations = append(invocations, *invocation)
		}
	}
	return invocations
}

func (a *ToolInvocationAdapter) handleStart(event SegmentEvent) (*ToolInvocation, bool) {
	if !toolBearingSegmentTypes[event.SegmentType] {
		return nil, false
	}
	toolName, _ := event.Metadata["tool_name"].(string)
	if toolName == "" {
		if spec, ok := a.registry.lookup(event.SegmentType); ok {
			toolName = spec.toolName
		}
	}
	a.active[event.SegmentID] = &activeToolSegment{
		segmentType: event.SegmentType,
		toolName:    toolName,
	}
	return nil, false
}

func (a *ToolInvocationAdapter) handleContent(event SegmentEvent) (*ToolInvocation, bool) {
	segment, ok := a.active[event.SegmentID]
	if !ok {
		return nil, false
	}
	segment.content += event.Delta
	return nil, false
}

func (a *ToolInvocationAdapter) handleEnd(event SegmentEvent) (*ToolInvocation, bool) {
	segment, ok := a.active[event.SegmentID]
	if !ok {
		return nil, false
	}
	delete(a.active, event.SegmentID)

	toolName, _ := event.Metadata["tool_name"].(string)
	if toolName == "" {
		toolName = segment.toolName
	}
	if toolName == "" {
		return nil, false
	}

	// Only tool_call takes arguments straight from END metadata: the generic XmlTool
	// and JsonTool states populate {tool_name, arguments} themselves. Every other
	// registry-mapped type must go through buildArguments, even though its own state
	// also stamps an "arguments" key into the segment's metadata for wire consumers —
	// that stamped value is never a substitute for the registry's required-field
	// check (spec.md §4.12).
	var arguments map[string]any
	if segment.segmentType == SegmentToolCall {
		arguments, _ = event.Metadata["arguments"].(map[string]any)
	} else if spec, ok := a.registry.lookup(segment.segmentType); ok {
		arguments = spec.buildArguments(event.Metadata, segment.content)
	}
	if arguments == nil {
		return nil, false
	}

	return &ToolInvocation{ID: event.SegmentID, Name: toolName, Arguments: arguments}, true
}

// Reset clears all tracked in-flight tool segments.
func (a *ToolInvocationAdapter) Reset() {
	a.active = make(map[string]*activeToolSegment)
}

// ActiveSegmentIDs returns the ids of tool segments currently open.
func (a *ToolInvocationAdapter) ActiveSegmentIDs() []string {
	ids := make([]string, 0, len(a.active))
	for id := range a.active {
		ids = append(ids, id)
	}
	return ids
}
