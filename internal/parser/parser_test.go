package parser

import (
	"testing"
)

func feedAndFinalize(t *testing.T, config ParserConfig, chunks []string) []SegmentEvent {
	t.Helper()
	p := NewParser(config)
	var events []SegmentEvent
	for _, chunk := range chunks {
		got, err := p.Feed(chunk)
		if err != nil {
			t.Fatalf("feed(%q): %v", chunk, err)
		}
		events = append(events, got...)
	}
	tail, err := p.Finalize()
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	events = append(events, tail...)
	return events
}

// concatenateContent sums the CONTENT deltas per segment id, in first-seen order.
func concatenateContent(events []SegmentEvent) (order []string, bySegment map[string]string) {
	bySegment = make(map[string]string)
	seen := make(map[string]bool)
	for _, event := range events {
		if !seen[event.SegmentID] {
			seen[event.SegmentID] = true
			order = append(order, event.SegmentID)
		}
		if event.Kind == EventContent {
			bySegment[event.SegmentID] += event.Delta
		}
	}
	return order, bySegment
}

func TestPlainTextTwoChunks(t *testing.T) {
	events := feedAndFinalize(t, DefaultParserConfig(), []string{"Hello, ", "world!"})

	order, content := concatenateContent(events)
	if len(order) != 1 {
		t.Fatalf("expected exactly one segment, got %d (%v)", len(order), order)
	}
	if got := content[order[0]]; got != "Hello, world!" {
		t.Fatalf("expected %q, got %q", "Hello, world!", got)
	}

	adapter := NewToolInvocationAdapter()
	if invocations := adapter.ProcessEvents(events); len(invocations) != 0 {
		t.Fatalf("expected zero invocations, got %d", len(invocations))
	}
}

func TestWriteFileWithSentinels(t *testing.T) {
	input := "pre<tool name=\"write_file\"><arguments><arg name=\"path\">/a.py</arg>" +
		"<arg name=\"content\">__START_CONTENT__\nprint('<x>')\n__END_CONTENT__</arg>" +
		"</arguments></tool>post"

	events := feedAndFinalize(t, DefaultParserConfig(), []string{input})

	adapter := NewToolInvocationAdapter()
	invocations := adapter.ProcessEvents(events)
	if len(invocations) != 1 {
		t.Fatalf("expected one invocation, got %d: %+v", len(invocations), invocations)
	}
	invocation := invocations[0]
	if invocation.Name != "write_file" {
		t.Fatalf("expected write_file, got %s", invocation.Name)
	}
	if invocation.Arguments["path"] != "/a.py" {
		t.Fatalf("expected path /a.py, got %v", invocation.Arguments["path"])
	}
	if invocation.Arguments["content"] != "print('<x>')\n" {
		t.Fatalf("expected content %q, got %q", "print('<x>')\n", invocation.Arguments["content"])
	}

	segments := AssembleSegments(events)
	var texts []string
	for _, segment := range segments {
		if segment.SegmentType == SegmentText {
			texts = append(texts, segment.Content)
		}
	}
	if len(texts) != 2 || texts[0] != "pre" || texts[1] != "post" {
		t.Fatalf("expected text segments [pre post], got %v", texts)
	}
}

func TestNestedFalseSentinel(t *testing.T) {
	input := "<tool name=\"write_file\"><arguments><arg name=\"path\">/a.py</arg>" +
		"<arg name=\"content\">__START_CONTENT__\n" +
		"# do not remove __END_CONTENT__ marker\n" +
		"__END_CONTENT__</arg></arguments></tool>"

	events := feedAndFinalize(t, DefaultParserConfig(), []string{input})

	adapter := NewToolInvocationAdapter()
	invocations := adapter.ProcessEvents(events)
	if len(invocations) != 1 {
		t.Fatalf("expected one invocation, got %d", len(invocations))
	}
	want := "# do not remove __END_CONTENT__ marker\n"
	if got := invocations[0].Arguments["content"]; got != want {
		t.Fatalf("expected content %q, got %q", want, got)
	}
}

func TestJSONToolOpenAIDialectChunked(t *testing.T) {
	input := `{"tool_calls":[{"function":{"name":"weather","arguments":"{\"city\":\"NYC\"}"}}]}`
	config := ParserConfig{
		ParseToolCalls: true,
		StrategyOrder:  []Strategy{StrategyXMLTag, StrategyJSONTool},
		JSONDialect:    JSONDialectGeneric,
	}

	var chunks []string
	for i := 0; i < len(input); i += 5 {
		end := i + 5
		if end > len(input) {
			end = len(input)
		}
		chunks = append(chunks, input[i:end])
	}

	events := feedAndFinalize(t, config, chunks)

	adapter := NewToolInvocationAdapter()
	invocations := adapter.ProcessEvents(events)
	if len(invocations) != 1 {
		t.Fatalf("expected one invocation, got %d: %+v", len(invocations), invocations)
	}
	if invocations[0].Name != "weather" {
		t.Fatalf("expected weather, got %s", invocations[0].Name)
	}
	if invocations[0].Arguments["city"] != "NYC" {
		t.Fatalf("expected city NYC, got %v", invocations[0].Arguments["city"])
	}
}

func TestSentinelFraming(t *testing.T) {
	input := `[[SEG_START {"type":"run_terminal_cmd"}]]echo hi[[SEG_END]]`
	events := feedAndFinalize(t, DefaultParserConfig(), []string{input})

	adapter := NewToolInvocationAdapter()
	invocations := adapter.ProcessEvents(events)
	if len(invocations) != 1 {
		t.Fatalf("expected one invocation, got %d", len(invocations))
	}
	if invocations[0].Name != "execute_bash" {
		t.Fatalf("expected execute_bash, got %s", invocations[0].Name)
	}
	if invocations[0].Arguments["command"] != "echo hi" {
		t.Fatalf("expected command %q, got %v", "echo hi", invocations[0].Arguments["command"])
	}
}

func TestMalformedTagSwallowedToText(t *testing.T) {
	input := "<foobar>stuff</foobar>"
	events := feedAndFinalize(t, DefaultParserConfig(), []string{input})

	order, content := concatenateContent(events)
	if len(order) != 1 {
		t.Fatalf("expected one segment, got %d", len(order))
	}
	if got := content[order[0]]; got != input {
		t.Fatalf("expected literal input %q, got %q", input, got)
	}

	adapter := NewToolInvocationAdapter()
	if invocations := adapter.ProcessEvents(events); len(invocations) != 0 {
		t.Fatalf("expected zero invocations, got %d", len(invocations))
	}
}

func TestEmptyStreamProducesZeroEvents(t *testing.T) {
	events := feedAndFinalize(t, DefaultParserConfig(), nil)
	if len(events) != 0 {
		t.Fatalf("expected zero events, got %d", len(events))
	}
}

func TestUnclosedToolTagFlushedAsTextOnFinalize(t *testing.T) {
	events := feedAndFinalize(t, DefaultParserConfig(), []string{"<tool"})

	order, content := concatenateContent(events)
	if len(order) != 1 || content[order[0]] != "<tool" {
		t.Fatalf("expected TEXT %q, got %v", "<tool", content)
	}
}

func TestChunkInvarianceAcrossSizes(t *testing.T) {
	input := "pre<tool name=\"write_file\"><arguments><arg name=\"path\">/a.py</arg>" +
		"<arg name=\"content\">__START_CONTENT__\nprint('<x>')\n__END_CONTENT__</arg>" +
		"</arguments></tool>mid" +
		`[[SEG_START {"type":"run_terminal_cmd"}]]echo hi[[SEG_END]]` +
		"post"

	var reference []ToolInvocation
	var referenceContent map[string]string

	for _, size := range []int{1, 3, 7, 64, len(input)} {
		var chunks []string
		for i := 0; i < len(input); i += size {
			end := i + size
			if end > len(input) {
				end = len(input)
			}
			chunks = append(chunks, input[i:end])
		}
		if len(chunks) == 0 {
			chunks = []string{""}
		}

		events := feedAndFinalize(t, DefaultParserConfig(), chunks)
		adapter := NewToolInvocationAdapter()
		invocations := adapter.ProcessEvents(events)

		if reference == nil {
			reference = invocations
			referenceContent = aggregateBySegmentType(events)
			continue
		}

		got := aggregateBySegmentType(events)
		if len(got) != len(referenceContent) {
			t.Fatalf("chunk size %d: segment-type content map size differs: %v vs %v", size, got, referenceContent)
		}
		for segType, want := range referenceContent {
			if got[segType] != want {
				t.Fatalf("chunk size %d: segment type %s content differs:\nwant %q\ngot  %q", size, segType, want, got[segType])
			}
		}

		if len(invocations) != len(reference) {
			t.Fatalf("chunk size %d: invocation count differs: want %d got %d", size, len(reference), len(invocations))
		}
		for i := range invocations {
			if invocations[i].Name != reference[i].Name {
				t.Fatalf("chunk size %d: invocation %d name differs: want %s got %s", size, i, reference[i].Name, invocations[i].Name)
			}
		}
	}
}

// TestGenericXmlToolStateByteChunkInvariance exercises the generic XmlTool state's
// structural-tag recognition (<arguments>, <arg>, <item>, </tool>, etc.) one byte at
// a time, so that every tag boundary lands on its own chunk at least once. Unlike
// the file-like tool states, the generic state's own holdback relies on matching
// each candidate tag's full length via strings.HasPrefix.
func TestGenericXmlToolStateByteChunkInvariance(t *testing.T) {
	input := `pre<tool name="search"><arguments><arg name="query">weather in <city>` +
		`<item>NYC</item><item>SF</item></city></arg></arguments></tool>post`

	whole := feedAndFinalize(t, DefaultParserConfig(), []string{input})
	wholeAdapter := NewToolInvocationAdapter()
	wholeInvocations := wholeAdapter.ProcessEvents(whole)
	wholeContent := aggregateBySegmentType(whole)

	var chunks []string
	for i := 0; i < len(input); i++ {
		chunks = append(chunks, input[i:i+1])
	}
	chunked := feedAndFinalize(t, DefaultParserConfig(), chunks)
	chunkedAdapter := NewToolInvocationAdapter()
	chunkedInvocations := chunkedAdapter.ProcessEvents(chunked)
	chunkedContent := aggregateBySegmentType(chunked)

	if len(chunkedContent) != len(wholeContent) {
		t.Fatalf("byte-chunked content map size differs: %v vs %v", chunkedContent, wholeContent)
	}
	for segType, want := range wholeContent {
		if chunkedContent[segType] != want {
			t.Fatalf("segment type %s content differs:\nwant %q\ngot  %q", segType, want, chunkedContent[segType])
		}
	}
	if len(chunkedInvocations) != len(wholeInvocations) {
		t.Fatalf("invocation count differs: want %d got %d", len(wholeInvocations), len(chunkedInvocations))
	}
	for i := range chunkedInvocations {
		if chunkedInvocations[i].Name != wholeInvocations[i].Name {
			t.Fatalf("invocation %d name differs: want %s got %s", i, wholeInvocations[i].Name, chunkedInvocations[i].Name)
		}
	}

	textSegments := chunkedContent[string(SegmentText)]
	if textSegments != "pre"+"post" {
		t.Fatalf("expected surrounding text %q, got %q", "prepost", textSegments)
	}
}

// aggregateBySegmentType concatenates content per segment type, in stream order,
// so results are comparable across runs where raw segment ids differ. It walks
// events directly (not the id-keyed map) so the concatenation order is the
// deterministic stream order rather than Go's randomized map iteration order.
func aggregateBySegmentType(events []SegmentEvent) map[string]string {
	typeOf := make(map[string]SegmentType)
	aggregated := make(map[string]string)
	for _, event := range events {
		switch event.Kind {
		case EventStart:
			typeOf[event.SegmentID] = event.SegmentType
		case EventContent:
			aggregated[string(typeOf[event.SegmentID])] += event.Delta
		}
	}
	return aggregated
}
