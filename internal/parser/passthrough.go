package parser

// PassthroughParser is the degenerate façade described in spec.md §4.13: it opens
// a single TEXT segment on the first non-empty Feed, emits every subsequent
// chunk verbatim as a CONTENT delta on that segment, and emits END on Finalize.
// It performs no markup recognition and produces zero tool invocations, for
// callers whose tool calls arrive over a side channel instead of inline markup.
// NewHandlerForVariant does not use it for the `native`/`api_tool_call` variants;
// callers construct it directly.
type PassthroughParser struct {
	emitter   *eventEmitter
	started   bool
	finalized bool
}

// NewPassthroughParser returns a PassthroughParser with the given segment-id prefix.
func NewPassthroughParser(idPrefix string) *PassthroughParser {
	return &PassthroughParser{emitter: newEventEmitter(idPrefix)}
}

// Feed opens the TEXT segment on first call and appends chunk as its content.
// An empty chunk is a no-op and does not by itself open the segment.
func (p *PassthroughParser) Feed(chunk string) ([]SegmentEvent, error) {
	if p.finalized {
		return nil, ErrAlreadyFinalized
	}
	if chunk == "" {
		return p.emitter.drainEvents(), nil
	}
	if !p.started {
		p.emitter.emitStart(SegmentText, nil)
		p.started = true
	}
	_ = p.emitter.emitContent(chunk, "", "")
	return p.emitter.drainEvents(), nil
}

// Finalize closes the open TEXT segment, if any, and marks the instance finalized.
func (p *PassthroughParser) Finalize() ([]SegmentEvent, error) {
	if p.finalized {
		return nil, ErrFinalizedTwice
	}
	p.finalized = true
	if p.started {
		p.emitter.emitEnd()
	}
	return p.emitter.drainEvents(), nil
}

// Reset returns the instance to its initial, pre-first-feed state.
func (p *PassthroughParser) Reset() {
	idPrefix := p.emitter.idPrefix
	p.emitter = newEventEmitter(idPrefix)
	p.started = false
	p.finalized = false
}
