package parser

import (
	"regexp"
	"strings"
)

var pathArgPattern = regexp.MustCompile(`(?i)<arg\s+name=["']path["']>([^<]+)</arg>`)
var writeFileContentArgOpen = regexp.MustCompile(`(?i)<arg\s+name=["']content["']>`)
var patchFileContentArgOpen = regexp.MustCompile(`(?i)<arg\s+name=["']patch["']>`)

const contentArgCloseTag = "</arg>"
const toolCloseTag = "</tool>"

// fileLikeToolState is the shared engine behind WriteFile and PatchFile: it streams
// only the one content-bearing argument as segment CONTENT, suppressing the rest of
// the tool's XML scaffolding, and defers START until either the path argument or
// the content argument itself is found (spec.md §4.7).
type fileLikeToolState struct {
	openingTag     string
	segmentType    SegmentType
	contentArgName string
	startMarker    string
	endMarker      string
	contentArgOpen *regexp.Regexp

	segmentStarted    bool
	foundContentStart bool
	contentBuffering  string
	capturedPath      string
	swallowing        bool

	contentMode string // "seek_marker" | "marker" | "default"
	seekBuffer  string
	tail        string
	// trimMarkerNewline is set on entering marker mode: a single "\n" directly
	// after the start marker is not part of the streamed content.
	trimMarkerNewline bool
}

func newWriteFileState(openingTag string) state {
	return &fileLikeToolState{
		openingTag:     openingTag,
		segmentType:    SegmentWriteFile,
		contentArgName: "content",
		startMarker:    "__START_CONTENT__",
		endMarker:      "__END_CONTENT__",
		contentArgOpen: writeFileContentArgOpen,
		contentMode:    "seek_marker",
	}
}

func newPatchFileState(openingTag string) state {
	return &fileLikeToolState{
		openingTag:     openingTag,
		segmentType:    SegmentPatchFile,
		contentArgName: "patch",
		startMarker:    "__START_PATCH__",
		endMarker:      "__END_PATCH__",
		contentArgOpen: patchFileContentArgOpen,
		contentMode:    "seek_marker",
	}
}

func (s *fileLikeToolState) run(ctx *Context) {
	if s.swallowing {
		s.handleSwallowing(ctx)
		return
	}

	if !ctx.scanner.hasMore() {
		return
	}
	chunk := ctx.consumeRemaining()

	if s.foundContentStart {
		s.processContentChunk(ctx, chunk)
		return
	}

	s.contentBuffering += chunk

	if s.capturedPath == "" {
		if match := pathArgPattern.FindStringSubmatch(s.contentBuffering); match != nil {
			s.capturedPath = strings.TrimSpace(match[1])
			if !s.segmentStarted {
				s.emitStart(ctx)
			} else {
				ctx.updateMetadata(map[string]any{"path": s.capturedPath})
			}
		}
	}

	loc := s.contentArgOpen.FindStringIndex(s.contentBuffering)
	if loc != nil {
		s.foundContentStart = true
		if !s.segmentStarted {
			s.emitStart(ctx)
		} else if s.capturedPath != "" {
			ctx.updateMetadata(map[string]any{"path": s.capturedPath})
		}
		realContent := s.contentBuffering[loc[1]:]
		s.contentBuffering = ""
		s.contentMode = "seek_marker"
		s.seekBuffer = ""
		s.tail = ""
		s.processContentChunk(ctx, realContent)
		return
	}

	if strings.Contains(s.contentBuffering, toolCloseTag) {
		if !s.segmentStarted {
			s.emitStart(ctx)
		}
		s.finishSegment(ctx)
		ctx.transitionTo(newTextState())
	}
}

func (s *fileLikeToolState) emitStart(ctx *Context) {
	metadata := map[string]any{}
	if s.capturedPath != "" {
		metadata["path"] = s.capturedPath
	}
	ctx.emitStart(s.segmentType, metadata)
	s.segmentStarted = true
}

func (s *fileLikeToolState) processContentChunk(ctx *Context, chunk string) {
	if chunk == "" {
		return
	}
	switch s.contentMode {
	case "marker":
		s.processMarkerContent(ctx, chunk)
	case "default":
		s.processDefaultContent(ctx, chunk)
	default:
		s.processSeekMarkerContent(ctx, chunk)
	}
}

func (s *fileLikeToolState) processSeekMarkerContent(ctx *Context, chunk string) {
	s.seekBuffer += chunk

	if startIdx := strings.Index(s.seekBuffer, s.startMarker); startIdx != -1 {
		after := s.seekBuffer[startIdx+len(s.startMarker):]
		s.seekBuffer = ""
		s.contentMode = "marker"
		s.tail = ""
		s.trimMarkerNewline = true
		if after != "" {
			s.processMarkerContent(ctx, after)
		}
		return
	}

	if closingIdx := strings.Index(s.seekBuffer, contentArgCloseTag); closingIdx != -1 {
		buffered := s.seekBuffer
		s.seekBuffer = ""
		s.contentMode = "default"
		s.tail = ""
		s.processDefaultContent(ctx, buffered)
		return
	}

	stripped := strings.TrimLeft(s.seekBuffer, " \t\r\n")
	if stripped != "" && !strings.HasPrefix(s.startMarker, stripped) {
		buffered := s.seekBuffer
		s.seekBuffer = ""
		s.contentMode = "default"
		s.tail = ""
		s.processDefaultContent(ctx, buffered)
	}
}

func (s *fileLikeToolState) processDefaultContent(ctx *Context, chunk string) {
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

func (s *fileLikeToolState) processMarkerContent(ctx *Context, chunk string) {
	if s.trimMarkerNewline {
		s.trimMarkerNewline = false
		chunk = strings.TrimPrefix(chunk, "\n")
	}
	combined := s.tail + chunk
	contentEnd, consumedThrough, found, ambiguous, ambiguousFrom := locateRealMarker(combined, s.endMarker, contentArgCloseTag)

	if found {
		if actual := combined[:contentEnd]; actual != "" {
			_ = ctx.emitContent(actual, "", "")
		}
		s.tail = ""
		s.contentBuffering = combined[consumedThrough:]
		s.swallowing = true
		s.handleSwallowing(ctx)
		return
	}

	if ambiguous {
		if ambiguousFrom > 0 {
			_ = ctx.emitContent(combined[:ambiguousFrom], "", "")
		}
		s.tail = combined[ambiguousFrom:]
		return
	}

	holdback := len(s.endMarker) - 1
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

func (s *fileLikeToolState) handleSwallowing(ctx *Context) {
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

func (s *fileLikeToolState) finishSegment(ctx *Context) {
	arguments := map[string]any{}
	if s.capturedPath != "" {
		arguments["path"] = s.capturedPath
	}
	arguments[s.contentArgName] = ctx.emitter.currentContent()
	ctx.updateMetadata(map[string]any{"arguments": arguments})
	ctx.emitEnd()
}

func (s *fileLikeToolState) finalize(ctx *Context) {
	remaining := ""
	if ctx.scanner.hasMore() {
		remaining = ctx.consumeRemaining()
	}

	if !s.segmentStarted {
		text := s.openingTag + s.contentBuffering + remaining
		if text != "" {
			ctx.appendText(text)
		}
		ctx.transitionTo(newTextState())
		return
	}

	if s.swallowing {
		s.contentBuffering += remaining
	} else if remaining != "" {
		s.processContentChunk(ctx, remaining)
	}

	if !s.swallowing {
		if s.tail != "" {
			_ = ctx.emitContent(s.tail, "", "")
			s.tail = ""
		}
		if s.seekBuffer != "" {
			_ = ctx.emitContent(s.seekBuffer, "", "")
			s.seekBuffer = ""
		}
	}

	s.finishSegment(ctx)
	ctx.transitionTo(newTextState())
}
