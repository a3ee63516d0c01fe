package parser

import (
	"regexp"
	"strings"
)

var commandArgOpen = regexp.MustCompile(`(?i)<arg\s+name=["']command["']>`)

// runTerminalCmdState streams only the `command` argument as segment content; no
// raw-content sentinel pair since commands don't carry XML-hostile payloads
// (spec.md §4.7 "RunTerminalCmd").
type runTerminalCmdState struct {
	openingTag       string
	segmentStarted   bool
	foundCommand     bool
	contentBuffering string
	swallowing       bool
	tail             string
}

func newRunTerminalCmdState(openingTag string) state {
	return &runTerminalCmdState{openingTag: openingTag}
}

func (s *runTerminalCmdState) run(ctx *Context) {
	if s.swallowing {
		s.handleSwallowing(ctx)
		return
	}

	if !s.segmentStarted {
		ctx.emitStart(SegmentRunTerminalCmd, nil)
		s.segmentStarted = true
	}

	if !ctx.scanner.hasMore() {
		return
	}
	chunk := ctx.consumeRemaining()

	if !s.foundCommand {
		s.contentBuffering += chunk
		loc := commandArgOpen.FindStringIndex(s.contentBuffering)
		if loc != nil {
			s.foundCommand = true
			real := s.contentBuffering[loc[1]:]
			s.contentBuffering = ""
			s.processChunk(ctx, real)
			return
		}
		if strings.Contains(s.contentBuffering, toolCloseTag) {
			s.finishSegment(ctx)
			ctx.transitionTo(newTextState())
		}
		return
	}

	s.processChunk(ctx, chunk)
}

func (s *runTerminalCmdState) processChunk(ctx *Context, chunk string) {
	combined := s.tail + chunk
	idx := strings.Index(combined, contentArgCloseTag)
	if idx != -1 {
		if actual := combined[:idx]; actual != "" {
			_ = ctx.emitContent(actual, "", "")
		}
		s.tail = ""
		s.contentBuffering = combined[idx+len(contentArgCloseTag):]
		s.swallowing = true
		s.handleSwallowing(ctx)
		return
	}

	holdback := len(contentArgCloseTag) - 1
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

func (s *runTerminalCmdState) handleSwallowing(ctx *Context) {
	s.contentBuffering += ctx.consumeRemaining()
	idx := strings.Index(s.contentBuffering, toolCloseTag)
	if idx != -1 {
		remainder := s.contentBuffering[idx+len(toolCloseTag):]
		s.finishSegment(ctx)
		ctx.transitionTo(newTextState())
		if remainder != "" {
			ctx.rewindBy(len(remainder))
		}
		return
	}
	holdback := len(toolCloseTag) - 1
	if len(s.contentBuffering) > holdback {
		s.contentBuffering = s.contentBuffering[len(s.contentBuffering)-holdback:]
	}
}

func (s *runTerminalCmdState) finishSegment(ctx *Context) {
	ctx.updateMetadata(map[string]any{"arguments": map[string]any{"command": ctx.emitter.currentContent()}})
	ctx.emitEnd()
}

func (s *runTerminalCmdState) finalize(ctx *Context) {
	remaining := ""
	if ctx.scanner.hasMore() {
		remaining = ctx.consumeRemaining()
	}
	if !s.segmentStarted {
		ctx.emitStart(SegmentRunTerminalCmd, nil)
		s.segmentStarted = true
	}
	if s.swallowing {
		s.contentBuffering += remaining
	} else {
		combined := s.tail + s.contentBuffering + remaining
		if combined != "" {
			_ = ctx.emitContent(combined, "", "")
		}
		s.tail = ""
	}
	s.finishSegment(ctx)
	ctx.transitionTo(newTextState())
}
