package parser

import "fmt"

// eventEmitter owns the single open-segment record and the pending event queue. It
// is the only component permitted to allocate segment ids or append to the queue;
// states reach it only through Context, never directly (spec.md §4.3).
type eventEmitter struct {
	idPrefix string
	counter  int

	queue []SegmentEvent

	openID       string
	openType     SegmentType
	openContent  []byte
	openMetadata map[string]any
	hasOpen      bool
}

func newEventEmitter(idPrefix string) *eventEmitter {
	return &eventEmitter{idPrefix: idPrefix}
}

func (e *eventEmitter) nextID() string {
	e.counter++
	return fmt.Sprintf("%sseg_%d", e.idPrefix, e.counter)
}

// emitStart allocates a new segment id, opens it, and enqueues START. metadata may
// be nil.
func (e *eventEmitter) emitStart(segmentType SegmentType, metadata map[string]any) string {
	id := e.nextID()
	e.openID = id
	e.openType = segmentType
	e.openContent = e.openContent[:0]
	e.openMetadata = cloneMetadata(metadata)
	e.hasOpen = true

	e.queue = append(e.queue, SegmentEvent{
		Kind:        EventStart,
		SegmentID:   id,
		SegmentType: segmentType,
		Metadata:    cloneMetadata(e.openMetadata),
	})
	return id
}

// emitContent appends delta to the open segment's accumulated content and enqueues
// CONTENT. It returns ErrNoOpenSegment if no segment is open.
func (e *eventEmitter) emitContent(delta string, argName string, argState ArgState) error {
	if !e.hasOpen {
		return ErrNoOpenSegment
	}
	e.openContent = append(e.openContent, delta...)
	e.queue = append(e.queue, SegmentEvent{
		Kind:      EventContent,
		SegmentID: e.openID,
		Delta:     delta,
		ArgName:   argName,
		ArgState:  argState,
	})
	return nil
}

// updateMetadata merges kv into the open segment's metadata; the next END carries a
// copy of the merged map.
func (e *eventEmitter) updateMetadata(kv map[string]any) {
	if !e.hasOpen {
		return
	}
	if e.openMetadata == nil {
		e.openMetadata = make(map[string]any, len(kv))
	}
	for key, value := range kv {
		e.openMetadata[key] = value
	}
}

// emitEnd enqueues END for the open segment and closes it. Returns "" if no segment
// was open.
func (e *eventEmitter) emitEnd() string {
	if !e.hasOpen {
		return ""
	}
	id := e.openID
	e.queue = append(e.queue, SegmentEvent{
		Kind:      EventEnd,
		SegmentID: id,
		Metadata:  cloneMetadata(e.openMetadata),
	})
	e.hasOpen = false
	e.openID = ""
	e.openMetadata = nil
	return id
}

func (e *eventEmitter) currentID() (string, bool) {
	return e.openID, e.hasOpen
}

func (e *eventEmitter) currentType() (SegmentType, bool) {
	return e.openType, e.hasOpen
}

func (e *eventEmitter) currentContent() string {
	return string(e.openContent)
}

// appendText is the TEXT-append convenience from spec.md §4.2: coalesce consecutive
// text deltas into one logical segment, opening a new TEXT segment only when none is
// open or a non-text segment is open.
func (e *eventEmitter) appendText(text string) {
	if text == "" {
		return
	}
	if e.hasOpen && e.openType == SegmentText {
		_ = e.emitContent(text, "", "")
		return
	}
	e.emitStart(SegmentText, nil)
	_ = e.emitContent(text, "", "")
}

// drainEvents returns and clears all queued events.
func (e *eventEmitter) drainEvents() []SegmentEvent {
	drained := e.queue
	e.queue = nil
	return drained
}
