package parser

import "strings"

const iframeCloseTag = "</html>"

// iframeState streams an `<!doctype html>…</html>` block as a single IFRAME
// segment, including both the opening DOCTYPE and the closing tag in its content
// (spec.md §4.10).
type iframeState struct {
	openingTag     string
	segmentStarted bool
	tail           string
}

func newIframeState(openingTag string) *iframeState {
	return &iframeState{openingTag: openingTag}
}

func (s *iframeState) run(ctx *Context) {
	if !s.segmentStarted {
		ctx.emitStart(SegmentIframe, nil)
		_ = ctx.emitContent(s.openingTag, "", "")
		s.segmentStarted = true
	}

	if !ctx.scanner.hasMore() {
		return
	}
	combined := s.tail + ctx.consumeRemaining()

	lower := strings.ToLower(combined)
	idx := strings.Index(lower, iframeCloseTag)
	if idx != -1 {
		cut := idx + len(iframeCloseTag)
		if actual := combined[:cut]; actual != "" {
			_ = ctx.emitContent(actual, "", "")
		}
		remainder := combined[cut:]
		s.tail = ""
		ctx.emitEnd()
		if remainder != "" {
			ctx.rewindBy(len(remainder))
		}
		ctx.transitionTo(newTextState())
		return
	}

	holdback := len(iframeCloseTag) - 1
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

func (s *iframeState) finalize(ctx *Context) {
	if !s.segmentStarted {
		ctx.emitStart(SegmentIframe, nil)
		_ = ctx.emitContent(s.openingTag, "", "")
		s.segmentStarted = true
	}
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
