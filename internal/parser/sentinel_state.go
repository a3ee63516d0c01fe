package parser

import (
	"encoding/json"
	"strings"
)

const sentinelHeaderPrefix = "[[SEG_START"
const sentinelEndMarker = "[[SEG_END]]"

// sentinelInitState accumulates the `[[SEG_START <json-header>]]` header, which may
// span multiple feed() calls, then dispatches to sentinelContentState once the
// header JSON is parsed (spec.md §4.9).
type sentinelInitState struct {
	buffer    string
	confirmed bool
}

func newSentinelInitState() *sentinelInitState {
	return &sentinelInitState{}
}

func (s *sentinelInitState) run(ctx *Context) {
	for ctx.scanner.hasMore() {
		char, _ := ctx.scanner.peek()
		s.buffer += string(char)
		ctx.scanner.advance()

		if !s.confirmed {
			if len(s.buffer) <= len(sentinelHeaderPrefix) {
				if strings.HasPrefix(sentinelHeaderPrefix, s.buffer) {
					continue
				}
				s.bail(ctx)
				return
			}
			if !strings.HasPrefix(s.buffer, sentinelHeaderPrefix) {
				s.bail(ctx)
				return
			}
			s.confirmed = true
		}

		idx := strings.Index(s.buffer, "]]")
		if idx == -1 {
			continue
		}

		header := s.buffer[:idx]
		after := s.buffer[idx+2:]

		segmentType, metadata, ok := parseSentinelHeader(header)
		if !ok {
			ctx.appendText(s.buffer[:idx+2])
			if after != "" {
				ctx.rewindBy(len(after))
			}
			ctx.transitionTo(newTextState())
			return
		}

		ctx.emitStart(segmentType, metadata)
		if after != "" {
			ctx.rewindBy(len(after))
		}
		ctx.transitionTo(newSentinelContentState())
		return
	}
}

func (s *sentinelInitState) bail(ctx *Context) {
	ctx.appendText(s.buffer)
	s.buffer = ""
	ctx.transitionTo(newTextState())
}

func (s *sentinelInitState) finalize(ctx *Context) {
	if s.buffer != "" {
		ctx.appendText(s.buffer)
		s.buffer = ""
	}
	ctx.transitionTo(newTextState())
}

// parseSentinelHeader parses the header's JSON object (everything after
// "[[SEG_START") and extracts the declared segment type plus the remaining keys as
// metadata.
func parseSentinelHeader(header string) (SegmentType, map[string]any, bool) {
	payload := strings.TrimSpace(strings.TrimPrefix(header, sentinelHeaderPrefix))
	var data map[string]any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return "", nil, false
	}
	typeValue, ok := data["type"].(string)
	if !ok || typeValue == "" {
		return "", nil, false
	}
	metadata := make(map[string]any, len(data))
	for key, value := range data {
		if key == "type" {
			continue
		}
		metadata[key] = value
	}
	return SegmentType(typeValue), metadata, true
}

// sentinelContentState streams bytes between the header close and `[[SEG_END]]`
// verbatim as CONTENT, holding back len(sentinelEndMarker)-1 bytes.
type sentinelContentState struct {
	tail string
}

func newSentinelContentState() *sentinelContentState {
	return &sentinelContentState{}
}

func (s *sentinelContentState) run(ctx *Context) {
	if !ctx.scanner.hasMore() {
		return
	}
	combined := s.tail + ctx.consumeRemaining()

	idx := strings.Index(combined, sentinelEndMarker)
	if idx != -1 {
		if actual := combined[:idx]; actual != "" {
			_ = ctx.emitContent(actual, "", "")
		}
		remainder := combined[idx+len(sentinelEndMarker):]
		ctx.emitEnd()
		if remainder != "" {
			ctx.rewindBy(len(remainder))
		}
		s.tail = ""
		ctx.transitionTo(newTextState())
		return
	}

	holdback := len(sentinelEndMarker) - 1
	if len(combined) > holdback {
		safe := combined[:len(combined)-holdback]
		if safe != "" {
			_ = ctx.emitContent(safe, "", "")
		}
		s.tail = combined[len(combined)-holdback:]
	} else {
		s.tail = combined
	}
}

func (s *sentinelContentState) finalize(ctx *Context) {
	remaining := ""
	if ctx.scanner.hasMore() {
		remaining = ctx.consumeRemaining()
	}
	if combined := s.tail + remaining; combined != "" {
		_ = ctx.emitContent(combined, "", "")
	}
	s.tail = ""
	ctx.emitEnd()
	ctx.transitionTo(newTextState())
}
