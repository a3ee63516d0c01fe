package parser

import (
	"encoding/json"
	"strings"
)

// jsonToolState consumes a complete JSON value (object or object-in-array),
// tracking balanced braces/brackets with proper string/escape handling, then hands
// the raw JSON to the configured JSONDialect to extract tool-call records
// (spec.md §4.8 "JsonTool").
type jsonToolState struct {
	content      strings.Builder
	braceCount   int
	bracketCount int
	inString     bool
	escapeNext   bool
	isArray      bool
}

func newJSONToolState(signature string) *jsonToolState {
	s := &jsonToolState{isArray: strings.HasPrefix(signature, "[")}
	for i := 0; i < len(signature); i++ {
		s.updateBraceCount(signature[i])
	}
	s.content.WriteString(signature)
	return s
}

func (s *jsonToolState) run(ctx *Context) {
	if !ctx.scanner.hasMore() {
		return
	}
	chunk := ctx.consumeRemaining()

	for i := 0; i < len(chunk); i++ {
		char := chunk[i]
		s.content.WriteByte(char)
		s.updateBraceCount(char)

		if s.isComplete() {
			full := s.content.String()
			remainder := chunk[i+1:]
			if remainder != "" {
				ctx.rewindBy(len(remainder))
			}
			s.emitRecords(ctx, full)
			ctx.transitionTo(newTextState())
			return
		}
	}
}

func (s *jsonToolState) updateBraceCount(char byte) {
	if s.escapeNext {
		s.escapeNext = false
		return
	}
	if char == '\\' && s.inString {
		s.escapeNext = true
		return
	}
	if char == '"' {
		s.inString = !s.inString
		return
	}
	if s.inString {
		return
	}
	switch char {
	case '{':
		s.braceCount++
	case '}':
		s.braceCount--
	case '[':
		s.bracketCount++
	case ']':
		s.bracketCount--
	}
}

func (s *jsonToolState) isComplete() bool {
	if s.inString {
		return false
	}
	if s.isArray {
		return s.bracketCount == 0 && s.braceCount == 0
	}
	return s.braceCount == 0
}

func (s *jsonToolState) emitRecords(ctx *Context, rawJSON string) {
	var data any
	if err := json.Unmarshal([]byte(rawJSON), &data); err != nil {
		ctx.appendText(rawJSON)
		return
	}

	dialect := ctx.config.JSONDialect
	if dialect.extract == nil {
		dialect = JSONDialectGeneric
	}
	records := dialect.extract(data)
	if len(records) == 0 {
		ctx.appendText(rawJSON)
		return
	}

	for _, record := range records {
		ctx.emitStart(SegmentToolCall, map[string]any{"tool_name": record.name})
		_ = ctx.emitContent(rawJSON, "", "")
		ctx.updateMetadata(map[string]any{"arguments": record.arguments})
		ctx.emitEnd()
	}
}

func (s *jsonToolState) finalize(ctx *Context) {
	if ctx.scanner.hasMore() {
		s.content.WriteString(ctx.consumeRemaining())
	}
	if text := s.content.String(); text != "" {
		ctx.appendText(text)
	}
	ctx.transitionTo(newTextState())
}
