package parser

import "strings"

// defaultJSONToolPatterns are the signature prefixes that flag a JSON-shaped tool
// call (spec.md "json_tool_patterns"), used when ParserConfig doesn't supply its own.
var defaultJSONToolPatterns = []string{
	`{"name"`, `{"tool"`, `{"function"`, `{"tool_calls"`,
	`[{"name"`, `[{"tool"`, `[{"function"`,
}

// jsonInitState classifies the buffer prefix against the configured signature
// patterns into match/partial/no_match (spec.md §4.8 "JsonInit").
type jsonInitState struct {
	buffer string
}

func newJSONInitState() *jsonInitState {
	return &jsonInitState{}
}

func (s *jsonInitState) run(ctx *Context) {
	patterns := ctx.config.JSONToolPatterns
	if len(patterns) == 0 {
		patterns = defaultJSONToolPatterns
	}

	for ctx.scanner.hasMore() {
		char, _ := ctx.scanner.peek()
		s.buffer += string(char)
		ctx.scanner.advance()

		switch classifyJSONSignature(s.buffer, patterns) {
		case jsonSigMatch:
			ctx.transitionTo(newJSONToolState(s.buffer))
			return
		case jsonSigNoMatch:
			ctx.appendText(s.buffer)
			ctx.transitionTo(newTextState())
			return
		}
	}
}

func (s *jsonInitState) finalize(ctx *Context) {
	if s.buffer != "" {
		ctx.appendText(s.buffer)
		s.buffer = ""
	}
	ctx.transitionTo(newTextState())
}

type jsonSignatureMatch int

const (
	jsonSigPartial jsonSignatureMatch = iota
	jsonSigMatch
	jsonSigNoMatch
)

func classifyJSONSignature(buffer string, patterns []string) jsonSignatureMatch {
	sawPartial := false
	for _, pattern := range patterns {
		if strings.HasPrefix(buffer, pattern) {
			return jsonSigMatch
		}
		if len(buffer) < len(pattern) && strings.HasPrefix(pattern, buffer) {
			sawPartial = true
		}
	}
	if sawPartial {
		return jsonSigPartial
	}
	return jsonSigNoMatch
}
