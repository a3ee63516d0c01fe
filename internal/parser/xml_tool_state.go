package parser

import (
	"regexp"
	"strings"
)

const (
	argsOpenTag    = "<arguments>"
	argsCloseTag   = "</arguments>"
	itemOpenTag    = "<item>"
	itemCloseTag   = "</item>"
	rawContentOpen = "__START_CONTENT__"
	rawContentEnd  = "__END_CONTENT__"
)

var argOpenPattern = regexp.MustCompile(`(?i)<arg\s+name\s*=\s*["']([^"']+)["']\s*>`)

// xmlToolState is the generic `<tool name="X">…</tool>` state: it streams the body
// with arg_name context, handles the raw-content guard, and assembles the final
// argument map at `</tool>` (spec.md §4.6).
type xmlToolState struct {
	openingTag string
	toolName   string

	segmentStarted   bool
	segmentCompleted bool

	buffer           string
	fullContentParts []string
	inRawGuard       bool

	currentArgName *string
	argStack       []*string
	inArguments    bool
}

func newXMLToolState(openingTag string) *xmlToolState {
	return &xmlToolState{openingTag: openingTag, toolName: extractTagName(openingTag)}
}

func (s *xmlToolState) run(ctx *Context) {
	if !s.segmentStarted {
		if s.toolName == "" {
			ctx.appendText(s.openingTag)
			ctx.transitionTo(newTextState())
			return
		}
		ctx.emitStart(SegmentToolCall, map[string]any{"tool_name": s.toolName})
		s.segmentStarted = true
	}

	if !ctx.scanner.hasMore() {
		return
	}
	s.buffer += ctx.consumeRemaining()
	s.processBuffer(ctx)
}

func (s *xmlToolState) processBuffer(ctx *Context) {
	for s.buffer != "" {
		if s.currentArgName != nil {
			if s.processInsideArg(ctx) {
				return
			}
			continue
		}
		if s.processOutsideArg(ctx) {
			return
		}
	}
}

// processInsideArg handles one step of the loop while inside an <arg>. It returns
// true when processBuffer should return (yielded or transitioned away).
func (s *xmlToolState) processInsideArg(ctx *Context) bool {
	if s.inRawGuard {
		endIdx := strings.Index(s.buffer, rawContentEnd)
		if endIdx == -1 {
			holdback := len(rawContentEnd) - 1
			if len(s.buffer) > holdback {
				safe := s.buffer[:len(s.buffer)-holdback]
				s.emitArgDelta(ctx, safe)
				s.appendFullText(safe)
				s.buffer = s.buffer[len(s.buffer)-holdback:]
			}
			return true
		}
		if endIdx > 0 {
			s.emitArgDelta(ctx, s.buffer[:endIdx])
			s.appendFullText(s.buffer[:endIdx])
		}
		s.buffer = s.buffer[endIdx+len(rawContentEnd):]
		if strings.HasPrefix(s.buffer, "\n") {
			s.buffer = s.buffer[1:]
		}
		s.inRawGuard = false
		return false
	}

	markerIdx := strings.Index(s.buffer, rawContentOpen)
	ltIdx := strings.Index(s.buffer, "<")
	nextIdx := minNonNeg(markerIdx, ltIdx)

	if nextIdx == -1 {
		holdback := rawStartHoldbackLen(s.buffer)
		if holdback > 0 {
			safe := s.buffer[:len(s.buffer)-holdback]
			if safe != "" {
				s.emitArgDelta(ctx, safe)
				s.appendFullText(safe)
			}
			s.buffer = s.buffer[len(s.buffer)-holdback:]
		} else {
			s.emitArgDelta(ctx, s.buffer)
			s.appendFullText(s.buffer)
			s.buffer = ""
		}
		return true
	}

	if nextIdx > 0 {
		s.emitArgDelta(ctx, s.buffer[:nextIdx])
		s.appendFullText(s.buffer[:nextIdx])
		s.buffer = s.buffer[nextIdx:]
		return false
	}

	if markerIdx == 0 {
		s.buffer = s.buffer[len(rawContentOpen):]
		if strings.HasPrefix(s.buffer, "\n") {
			s.buffer = s.buffer[1:]
		}
		s.inRawGuard = true
		return false
	}

	lower := strings.ToLower(s.buffer)
	switch {
	case strings.HasPrefix(lower, "</arg>"):
		s.appendFullRaw("</arg>")
		s.emitArgState(ctx, ArgEnd)
		s.popArg()
		s.buffer = s.buffer[len("</arg>"):]
		return false
	case isArgTagPrefix(lower):
		endIdx := strings.Index(s.buffer, ">")
		if endIdx == -1 {
			return true
		}
		tagText := s.buffer[:endIdx+1]
		s.appendFullRaw(tagText)
		s.pushArgFromTag(ctx, tagText)
		s.buffer = s.buffer[endIdx+1:]
		return false
	case strings.HasPrefix(lower, itemOpenTag):
		s.appendFullRaw(itemOpenTag)
		s.buffer = s.buffer[len(itemOpenTag):]
		return false
	case strings.HasPrefix(lower, itemCloseTag):
		s.appendFullRaw(itemCloseTag)
		s.buffer = s.buffer[len(itemCloseTag):]
		return false
	case strings.HasPrefix(lower, toolCloseTag):
		s.closeAllOpenArgs(ctx)
		afterTag := s.buffer[len(toolCloseTag):]
		s.finalizeToolCall(ctx)
		if afterTag != "" {
			ctx.rewindBy(len(afterTag))
		}
		s.buffer = ""
		ctx.transitionTo(newTextState())
		s.segmentCompleted = true
		return true
	}

	if isPartialStructuralTagPrefix(lower, insideArgStructuralTags) {
		return true
	}

	s.emitArgDelta(ctx, "<")
	s.appendFullText("<")
	s.buffer = s.buffer[1:]
	return false
}

// processOutsideArg handles one step of the loop while outside any <arg>.
func (s *xmlToolState) processOutsideArg(ctx *Context) bool {
	ltIdx := strings.Index(s.buffer, "<")
	if ltIdx == -1 {
		s.emitOutsideArg(ctx, s.buffer)
		s.appendFullText(s.buffer)
		s.buffer = ""
		return true
	}
	if ltIdx > 0 {
		s.emitOutsideArg(ctx, s.buffer[:ltIdx])
		s.appendFullText(s.buffer[:ltIdx])
		s.buffer = s.buffer[ltIdx:]
		return false
	}

	lower := strings.ToLower(s.buffer)
	switch {
	case strings.HasPrefix(lower, toolCloseTag):
		afterTag := s.buffer[len(toolCloseTag):]
		s.finalizeToolCall(ctx)
		if afterTag != "" {
			ctx.rewindBy(len(afterTag))
		}
		s.buffer = ""
		ctx.transitionTo(newTextState())
		s.segmentCompleted = true
		return true
	case strings.HasPrefix(lower, argsOpenTag):
		s.appendFullRaw(argsOpenTag)
		s.buffer = s.buffer[len(argsOpenTag):]
		s.inArguments = true
		return false
	case strings.HasPrefix(lower, argsCloseTag):
		s.appendFullRaw(argsCloseTag)
		s.buffer = s.buffer[len(argsCloseTag):]
		s.inArguments = false
		return false
	case isArgTagPrefix(lower):
		endIdx := strings.Index(s.buffer, ">")
		if endIdx == -1 {
			return true
		}
		tagText := s.buffer[:endIdx+1]
		s.appendFullRaw(tagText)
		s.pushArgFromTag(ctx, tagText)
		s.buffer = s.buffer[endIdx+1:]
		return false
	}

	if isPartialStructuralTagPrefix(lower, outsideArgStructuralTags) {
		return true
	}

	s.emitOutsideArg(ctx, "<")
	s.appendFullText("<")
	s.buffer = s.buffer[1:]
	return false
}

func (s *xmlToolState) emitOutsideArg(ctx *Context, content string) {
	if content != "" {
		_ = ctx.emitContent(content, "", "")
	}
}

func (s *xmlToolState) emitArgDelta(ctx *Context, content string) {
	if content != "" {
		_ = ctx.emitContent(content, *s.currentArgName, ArgDelta)
	}
}

func (s *xmlToolState) emitArgState(ctx *Context, argState ArgState) {
	if s.currentArgName != nil {
		_ = ctx.emitContent("", *s.currentArgName, argState)
	}
}

func (s *xmlToolState) pushArgFromTag(ctx *Context, tagText string) {
	match := argOpenPattern.FindStringSubmatch(tagText)
	var name *string
	if match != nil {
		n := match[1]
		name = &n
	}
	s.argStack = append(s.argStack, s.currentArgName)
	s.currentArgName = name
	s.emitArgState(ctx, ArgStart)
}

func (s *xmlToolState) popArg() {
	if len(s.argStack) > 0 {
		s.currentArgName = s.argStack[len(s.argStack)-1]
		s.argStack = s.argStack[:len(s.argStack)-1]
	} else {
		s.currentArgName = nil
	}
	s.inRawGuard = false
}

func (s *xmlToolState) closeAllOpenArgs(ctx *Context) {
	for s.currentArgName != nil {
		s.emitArgState(ctx, ArgEnd)
		s.popArg()
	}
}

func (s *xmlToolState) appendFullRaw(content string) {
	if content != "" {
		s.fullContentParts = append(s.fullContentParts, content)
	}
}

func (s *xmlToolState) appendFullText(content string) {
	if content != "" {
		s.fullContentParts = append(s.fullContentParts, escapeXMLText(content))
	}
}

func escapeXMLText(content string) string {
	content = strings.ReplaceAll(content, "&", "&amp;")
	content = strings.ReplaceAll(content, "<", "&lt;")
	content = strings.ReplaceAll(content, ">", "&gt;")
	return content
}

func minNonNeg(a int, b int) int {
	if a == -1 {
		return b
	}
	if b == -1 {
		return a
	}
	if a < b {
		return a
	}
	return b
}

// rawStartHoldbackLen returns how many trailing bytes of buffer could still grow
// into rawContentOpen, so they can be held back instead of emitted.
func rawStartHoldbackLen(buffer string) int {
	maxCheck := len(rawContentOpen) - 1
	if len(buffer) < maxCheck {
		maxCheck = len(buffer)
	}
	for length := maxCheck; length > 0; length-- {
		if strings.HasPrefix(rawContentOpen, buffer[len(buffer)-length:]) {
			return length
		}
	}
	return 0
}

// insideArgStructuralTags and outsideArgStructuralTags are the structural tags each
// position's fallthrough must not mistake for literal text. "<arg" stands in for the
// variable-length `<arg name="...">` open tag, whose own prefix check (isArgTagPrefix)
// only kicks in once the buffer is at least 4 bytes long.
var insideArgStructuralTags = []string{contentArgCloseTag, itemOpenTag, itemCloseTag, toolCloseTag, "<arg"}
var outsideArgStructuralTags = []string{toolCloseTag, argsOpenTag, argsCloseTag, "<arg"}

// isPartialStructuralTagPrefix reports whether buffer is too short to match any
// candidate tag via strings.HasPrefix (which requires the haystack to be at least as
// long as the prefix) but could still grow into one on the next chunk — the case a
// bare HasPrefix fallthrough misses when a chunk boundary lands right after "<".
func isPartialStructuralTagPrefix(buffer string, candidates []string) bool {
	for _, candidate := range candidates {
		if len(buffer) < len(candidate) && strings.HasPrefix(candidate, buffer) {
			return true
		}
	}
	return false
}

func isArgTagPrefix(lower string) bool {
	if !strings.HasPrefix(lower, "<arg") {
		return false
	}
	if len(lower) == len("<arg") {
		return true
	}
	next := lower[len("<arg")]
	return next == ' ' || next == '\t' || next == '\n' || next == '\r' || next == '>' || next == '/'
}

func (s *xmlToolState) finalizeToolCall(ctx *Context) {
	content := strings.Join(s.fullContentParts, "")
	arguments := parseXMLArguments(content)
	ctx.updateMetadata(map[string]any{"arguments": arguments})
	ctx.emitEnd()
}

func (s *xmlToolState) finalize(ctx *Context) {
	remaining := ""
	if ctx.scanner.hasMore() {
		remaining = ctx.consumeRemaining()
	}

	if !s.segmentStarted {
		text := s.openingTag + s.buffer + remaining
		if text != "" {
			ctx.appendText(text)
		}
		ctx.transitionTo(newTextState())
		return
	}

	s.buffer += remaining
	s.processBuffer(ctx)

	if !s.segmentCompleted {
		if s.buffer != "" {
			if s.currentArgName != nil {
				s.emitArgDelta(ctx, s.buffer)
				s.appendFullText(s.buffer)
			} else {
				s.emitOutsideArg(ctx, s.buffer)
				s.appendFullText(s.buffer)
			}
			s.buffer = ""
		}
		s.closeAllOpenArgs(ctx)
		s.finalizeToolCall(ctx)
	}

	ctx.transitionTo(newTextState())
}
