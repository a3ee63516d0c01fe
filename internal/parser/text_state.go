package parser

// textState is the default state. It walks the scanner emitting nothing eagerly;
// on a trigger character it flushes the accumulated slice as TEXT and transitions
// (spec.md §4.4).
type textState struct{}

func newTextState() *textState {
	return &textState{}
}

func (s *textState) run(ctx *Context) {
	start := ctx.scanner.position()

	for ctx.scanner.hasMore() {
		char, _ := ctx.scanner.peek()
		pos := ctx.scanner.position()

		if char == '<' {
			s.flush(ctx, start)
			ctx.scanner.advance()
			ctx.transitionTo(newXMLTagInitState())
			return
		}

		if char == '[' && ctx.hasStrategy(StrategySentinel) {
			tail := ctx.scanner.substringFrom(pos)
			if len(tail) >= 2 {
				if tail[:2] == "[[" {
					s.flush(ctx, start)
					ctx.transitionTo(newSentinelInitState())
					return
				}
				// Second byte rules out sentinel framing; fall through below.
			} else {
				// Not enough buffered yet to tell; yield without consuming.
				s.flush(ctx, start)
				return
			}
		}

		if (char == '{' || char == '[') && ctx.config.ParseToolCalls && ctx.hasStrategy(StrategyJSONTool) {
			s.flush(ctx, start)
			ctx.transitionTo(newJSONInitState())
			return
		}

		ctx.scanner.advance()
	}

	s.flush(ctx, start)
}

func (s *textState) flush(ctx *Context, start int) {
	text := ctx.scanner.substring(start, ctx.scanner.position())
	if text != "" {
		ctx.appendText(text)
	}
}

// finalize flushes, as TEXT, any bytes run left unconsumed: run yields without
// consuming a '[' that ends the buffer while it waits to see whether a second
// '[' opens sentinel framing.
func (s *textState) finalize(ctx *Context) {
	if ctx.scanner.hasMore() {
		ctx.appendText(ctx.consumeRemaining())
	}
}
