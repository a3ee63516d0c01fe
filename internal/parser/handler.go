package parser

import "log/slog"

// Handler is the streaming façade: it owns a Parser and a ToolInvocationAdapter,
// fans every drained event out to an optional OnEvent callback, runs each event
// through the adapter, and fans resulting invocations out to an optional
// OnInvocation callback. It also keeps a running history so a caller can inspect
// everything seen so far (spec.md §4.13).
type Handler struct {
	parser  *Parser
	adapter *ToolInvocationAdapter
	logger  *slog.Logger

	onEvent      func(SegmentEvent)
	onInvocation func(ToolInvocation)

	events      []SegmentEvent
	invocations []ToolInvocation
}

// HandlerOption configures a Handler at construction time.
type HandlerOption func(*Handler)

// WithOnEvent registers a callback invoked once per drained SegmentEvent, in order.
func WithOnEvent(fn func(SegmentEvent)) HandlerOption {
	return func(h *Handler) { h.onEvent = fn }
}

// WithOnInvocation registers a callback invoked once per ToolInvocation the
// adapter resolves.
func WithOnInvocation(fn func(ToolInvocation)) HandlerOption {
	return func(h *Handler) { h.onInvocation = fn }
}

// WithLogger overrides the logger used to report swallowed callback panics.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) { h.logger = logger }
}

// NewHandler returns a Handler wrapping a fresh Parser built from config.
func NewHandler(config ParserConfig, opts ...HandlerOption) *Handler {
	h := &Handler{
		parser:  NewParser(config),
		adapter: NewToolInvocationAdapter(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Feed pushes chunk through the parser, runs the adapter over every event
// produced, invokes callbacks, and returns the drained events.
func (h *Handler) Feed(chunk string) ([]SegmentEvent, error) {
	events, err := h.parser.Feed(chunk)
	if err != nil {
		return nil, err
	}
	h.dispatch(events)
	return events, nil
}

// Finalize finalizes the underlying parser, dispatches whatever final events
// that produces, and returns them.
func (h *Handler) Finalize() ([]SegmentEvent, error) {
	events, err := h.parser.Finalize()
	if err != nil {
		return nil, err
	}
	h.dispatch(events)
	return events, nil
}

// Reset clears the handler's parser, adapter, and history so the instance can be
// reused for a new stream.
func (h *Handler) Reset() {
	config := h.parser.ctx.config
	h.parser = NewParser(config)
	h.adapter.Reset()
	h.events = nil
	h.invocations = nil
}

// AllEvents returns every SegmentEvent seen so far, across all Feed/Finalize calls.
func (h *Handler) AllEvents() []SegmentEvent {
	return h.events
}

// AllInvocations returns every ToolInvocation resolved so far.
func (h *Handler) AllInvocations() []ToolInvocation {
	return h.invocations
}

func (h *Handler) dispatch(events []SegmentEvent) {
	for _, event := range events {
		h.events = append(h.events, event)
		h.safeOnEvent(event)

		invocation, ok := h.adapter.ProcessEvent(event)
		if !ok {
			continue
		}
		h.invocations = append(h.invocations, *invocation)
		h.safeOnInvocation(*invocation)
	}
}

// safeOnEvent invokes the OnEvent callback behind a recover, so a panicking
// caller callback can never unwind into the parser loop (spec.md §7
// CallbackException).
func (h *Handler) safeOnEvent(event SegmentEvent) {
	if h.onEvent == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("streamparse: on_event callback panicked", "recovered", r, "segment_id", event.SegmentID)
		}
	}()
	h.onEvent(event)
}

func (h *Handler) safeOnInvocation(invocation ToolInvocation) {
	if h.onInvocation == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("streamparse: on_invocation callback panicked", "recovered", r, "invocation_id", invocation.ID)
		}
	}()
	h.onInvocation(invocation)
}
