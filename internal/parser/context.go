package parser

// state is implemented by every state in the machine. run consumes as many bytes as
// it definitively can from the scanner; it either transitions (by calling
// ctx.transitionTo) or yields having advanced the cursor as far as the holdback
// discipline allows. finalize is called exactly once, at end of stream, to flush any
// buffered bytes and close an open segment (spec.md §4.1).
type state interface {
	run(ctx *Context)
	finalize(ctx *Context)
}

// Context is the narrow façade states use to reach the scanner, the emitter, the
// config, the per-tool-name state registry, and the current-state slot. States never
// mutate events directly; all emission flows through the emitter (spec.md §4.3).
type Context struct {
	scanner     *StreamScanner
	emitter     *eventEmitter
	config      ParserConfig
	stateByTool *toolStateRegistry

	current state
}

func newContext(config ParserConfig) *Context {
	return &Context{
		scanner:     newStreamScanner(),
		emitter:     newEventEmitter(config.IDPrefix),
		config:      config,
		stateByTool: newToolStateRegistry(),
	}
}

// transitionTo switches the active state. It does not itself run the new state;
// the driving loop calls run again on the next iteration.
func (c *Context) transitionTo(next state) {
	c.current = next
}

// rewindBy moves the scanner cursor back up to n positions, clamped to the start of
// the buffer, so bytes already looked at can be re-processed by the next state (for
// example, text immediately following a tool's closing tag).
func (c *Context) rewindBy(n int) {
	c.scanner.setPosition(c.scanner.position() - n)
}

// consumeRemaining drains every buffered byte from the cursor onward and advances
// the cursor to the end of the buffer.
func (c *Context) consumeRemaining() string {
	return c.scanner.consumeRemaining()
}

func (c *Context) emitStart(segmentType SegmentType, metadata map[string]any) string {
	return c.emitter.emitStart(segmentType, metadata)
}

func (c *Context) emitContent(delta string, argName string, argState ArgState) error {
	return c.emitter.emitContent(delta, argName, argState)
}

func (c *Context) updateMetadata(kv map[string]any) {
	c.emitter.updateMetadata(kv)
}

func (c *Context) emitEnd() string {
	return c.emitter.emitEnd()
}

func (c *Context) appendText(text string) {
	c.emitter.appendText(text)
}

func (c *Context) hasOpenSegment() bool {
	_, open := c.emitter.currentID()
	return open
}

func (c *Context) openSegmentType() (SegmentType, bool) {
	return c.emitter.currentType()
}

// hasStrategy reports whether strategy is enabled for this parser instance.
func (c *Context) hasStrategy(strategy Strategy) bool {
	for _, candidate := range c.config.StrategyOrder {
		if candidate == strategy {
			return true
		}
	}
	return false
}

// specializedState returns the specialized content state for a tool name, if the
// per-tool-name registry has one, given the tool's full opening tag.
func (c *Context) specializedState(toolName string, openingTag string) (state, bool) {
	return c.stateByTool.lookup(toolName, openingTag)
}
