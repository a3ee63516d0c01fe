package parser

// Parser drives the character-by-character state machine over a StreamScanner,
// accumulating SegmentEvents as chunks arrive (spec.md §4 "State Machine").
//
// A Parser is single-threaded and synchronous: Feed must not be called
// concurrently with itself or with Finalize (spec.md §5).
type Parser struct {
	ctx       *Context
	finalized bool
}

// NewParser returns a Parser starting in TextState, configured per config.
func NewParser(config ParserConfig) *Parser {
	ctx := newContext(config)
	ctx.current = newTextState()
	return &Parser{ctx: ctx}
}

// Feed appends chunk to the scanner and drives the state machine until it can
// make no further progress without more input, returning every event produced.
// Feeding after Finalize returns ErrAlreadyFinalized.
func (p *Parser) Feed(chunk string) ([]SegmentEvent, error) {
	if p.finalized {
		return nil, ErrAlreadyFinalized
	}
	p.ctx.scanner.append(chunk)
	p.drive()
	p.ctx.scanner.compact()
	return p.ctx.emitter.drainEvents(), nil
}

// Finalize calls the current state's finalize, draining whatever events that
// produces, and marks the parser finalized. Calling it twice returns
// ErrFinalizedTwice.
func (p *Parser) Finalize() ([]SegmentEvent, error) {
	if p.finalized {
		return nil, ErrFinalizedTwice
	}
	p.finalized = true
	p.ctx.current.finalize(p.ctx)
	return p.ctx.emitter.drainEvents(), nil
}

// Reset returns the parser to its initial TextState with an empty scanner and
// buffered event queue, keeping its configuration, so the instance can be
// reused for a new stream.
func (p *Parser) Reset() {
	config := p.ctx.config
	p.ctx = newContext(config)
	p.ctx.current = newTextState()
	p.finalized = false
}

// drive repeatedly runs the current state until a Feed call either transitions
// without exhausting input (in which case the new state gets a turn against the
// same buffered bytes) or yields without transitioning, which per the
// state-machine execution contract (spec.md §4.14) means no further progress is
// possible until more bytes arrive.
func (p *Parser) drive() {
	for {
		before := p.ctx.current
		before.run(p.ctx)
		if p.ctx.current == before {
			return
		}
	}
}
