package parser

import "strings"

const possibleToolPrefix = "<tool"
const possibleDoctypePrefix = "<!doctype html"

// xmlTagInitState is entered after consuming a single '<'. It buffers subsequent
// characters into a small holdback buffer until either '>' closes a tag or the
// accumulation can no longer match any known prefix (spec.md §4.5).
type xmlTagInitState struct {
	tagBuffer string
}

func newXMLTagInitState() *xmlTagInitState {
	return &xmlTagInitState{tagBuffer: "<"}
}

func (s *xmlTagInitState) run(ctx *Context) {
	for ctx.scanner.hasMore() {
		char, _ := ctx.scanner.peek()
		s.tagBuffer += string(char)
		ctx.scanner.advance()

		lower := strings.ToLower(s.tagBuffer)

		if char == '>' {
			s.dispatch(ctx, lower)
			return
		}

		if !s.couldStillMatch(lower) {
			s.bail(ctx)
			return
		}
	}
}

// dispatch decides where to hand off once a full opening tag has been buffered.
func (s *xmlTagInitState) dispatch(ctx *Context, lower string) {
	switch {
	case strings.HasPrefix(lower, possibleToolPrefix):
		if !ctx.config.ParseToolCalls {
			ctx.appendText(s.tagBuffer)
			ctx.transitionTo(newTextState())
			return
		}
		name := extractTagName(s.tagBuffer)
		if specialized, ok := ctx.specializedState(name, s.tagBuffer); ok {
			ctx.transitionTo(specialized)
			return
		}
		ctx.transitionTo(newXMLToolState(s.tagBuffer))
	case strings.HasPrefix(lower, possibleDoctypePrefix):
		ctx.transitionTo(newIframeState(s.tagBuffer))
	default:
		ctx.appendText(s.tagBuffer)
		ctx.transitionTo(newTextState())
	}
}

// couldStillMatch reports whether the buffered (lowercased) prefix could still grow
// into one of the known tag prefixes, in either direction (buffer shorter than the
// prefix, or the prefix shorter than the buffer and already matched).
func (s *xmlTagInitState) couldStillMatch(lower string) bool {
	return prefixCompatible(lower, possibleToolPrefix) || prefixCompatible(lower, possibleDoctypePrefix)
}

func prefixCompatible(buffer string, known string) bool {
	if len(buffer) <= len(known) {
		return strings.HasPrefix(known, buffer)
	}
	return strings.HasPrefix(buffer, known)
}

func (s *xmlTagInitState) bail(ctx *Context) {
	ctx.appendText(s.tagBuffer)
	s.tagBuffer = ""
	ctx.transitionTo(newTextState())
}

// finalize flushes whatever was buffered when the stream ended mid-tag.
func (s *xmlTagInitState) finalize(ctx *Context) {
	if s.tagBuffer != "" {
		ctx.appendText(s.tagBuffer)
		s.tagBuffer = ""
	}
	ctx.transitionTo(newTextState())
}
