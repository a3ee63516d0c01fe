package parser

import "testing"

func TestToolInvocationAdapterIgnoresNonToolSegments(t *testing.T) {
	adapter := NewToolInvocationAdapter()
	events := []SegmentEvent{
		{Kind: EventStart, SegmentID: "seg_1", SegmentType: SegmentText},
		{Kind: EventContent, SegmentID: "seg_1", Delta: "hello"},
		{Kind: EventEnd, SegmentID: "seg_1"},
	}
	if got := adapter.ProcessEvents(events); len(got) != 0 {
		t.Fatalf("expected zero invocations for a text segment, got %d", len(got))
	}
}

func TestToolInvocationAdapterPrefersParserSuppliedArguments(t *testing.T) {
	adapter := NewToolInvocationAdapter()
	events := []SegmentEvent{
		{Kind: EventStart, SegmentID: "seg_1", SegmentType: SegmentToolCall, Metadata: map[string]any{"tool_name": "weather"}},
		{Kind: EventContent, SegmentID: "seg_1", Delta: `{"city":"NYC"}`},
		{Kind: EventEnd, SegmentID: "seg_1", Metadata: map[string]any{"arguments": map[string]any{"city": "NYC"}}},
	}
	invocations := adapter.ProcessEvents(events)
	if len(invocations) != 1 {
		t.Fatalf("expected one invocation, got %d", len(invocations))
	}
	if invocations[0].ID != "seg_1" || invocations[0].Name != "weather" {
		t.Fatalf("unexpected invocation: %+v", invocations[0])
	}
	if invocations[0].Arguments["city"] != "NYC" {
		t.Fatalf("expected city NYC, got %v", invocations[0].Arguments["city"])
	}
}

func TestToolInvocationAdapterFallsBackToRegistryForWriteFile(t *testing.T) {
	adapter := NewToolInvocationAdapter()
	events := []SegmentEvent{
		{Kind: EventStart, SegmentID: "seg_1", SegmentType: SegmentWriteFile},
		{Kind: EventContent, SegmentID: "seg_1", Delta: "print('hi')\n"},
		{Kind: EventEnd, SegmentID: "seg_1", Metadata: map[string]any{"path": "/a.py"}},
	}
	invocations := adapter.ProcessEvents(events)
	if len(invocations) != 1 {
		t.Fatalf("expected one invocation, got %d", len(invocations))
	}
	if invocations[0].Name != "write_file" {
		t.Fatalf("expected write_file, got %s", invocations[0].Name)
	}
	if invocations[0].Arguments["content"] != "print('hi')\n" {
		t.Fatalf("expected streamed content as arguments.content, got %v", invocations[0].Arguments["content"])
	}
	if invocations[0].Arguments["path"] != "/a.py" {
		t.Fatalf("expected path /a.py, got %v", invocations[0].Arguments["path"])
	}
}

func TestToolInvocationAdapterDropsWriteFileWithoutPath(t *testing.T) {
	input := `<tool name="write_file"><arguments><arg name="content">hello</arg></arguments></tool>`
	events := feedAndFinalize(t, DefaultParserConfig(), []string{input})

	invocations := NewToolInvocationAdapter().ProcessEvents(events)
	if len(invocations) != 0 {
		t.Fatalf("expected the path-less write_file invocation to be dropped, got %+v", invocations)
	}
}

func TestToolInvocationAdapterDropsPatchFileWithoutPath(t *testing.T) {
	input := `<tool name="patch_file"><arguments><arg name="patch">@@ -1 +1 @@</arg></arguments></tool>`
	events := feedAndFinalize(t, DefaultParserConfig(), []string{input})

	invocations := NewToolInvocationAdapter().ProcessEvents(events)
	if len(invocations) != 0 {
		t.Fatalf("expected the path-less patch_file invocation to be dropped, got %+v", invocations)
	}
}

func TestToolInvocationAdapterDropsRunTerminalCmdWithoutCommand(t *testing.T) {
	input := `<tool name="run_terminal_cmd"><arguments></arguments></tool>`
	events := feedAndFinalize(t, DefaultParserConfig(), []string{input})

	invocations := NewToolInvocationAdapter().ProcessEvents(events)
	if len(invocations) != 0 {
		t.Fatalf("expected the command-less run_terminal_cmd invocation to be dropped, got %+v", invocations)
	}
}

// A metadata-supplied "arguments" map (as the file-like states always stamp, even
// without a path, for wire consumers) must never substitute for the registry's
// required-field check on non-tool_call segment types.
func TestToolInvocationAdapterIgnoresStampedArgumentsForWriteFile(t *testing.T) {
	adapter := NewToolInvocationAdapter()
	events := []SegmentEvent{
		{Kind: EventStart, SegmentID: "seg_1", SegmentType: SegmentWriteFile},
		{Kind: EventContent, SegmentID: "seg_1", Delta: "hello"},
		{Kind: EventEnd, SegmentID: "seg_1", Metadata: map[string]any{"arguments": map[string]any{"content": "hello"}}},
	}
	if got := adapter.ProcessEvents(events); len(got) != 0 {
		t.Fatalf("expected zero invocations, got %+v", got)
	}
}

func TestToolInvocationAdapterReset(t *testing.T) {
	adapter := NewToolInvocationAdapter()
	adapter.ProcessEvent(SegmentEvent{Kind: EventStart, SegmentID: "seg_1", SegmentType: SegmentToolCall})
	if ids := adapter.ActiveSegmentIDs(); len(ids) != 1 {
		t.Fatalf("expected one active segment, got %d", len(ids))
	}
	adapter.Reset()
	if ids := adapter.ActiveSegmentIDs(); len(ids) != 0 {
		t.Fatalf("expected zero active segments after reset, got %d", len(ids))
	}
}
