package parser

// StreamScanner owns a growable byte buffer and a non-decreasing cursor. It never
// discards buffered bytes on its own — states advance the cursor past every byte
// they decide is either emitted or definitively skipped — except through explicit
// compaction (compact), which rebases the cursor once it has moved far enough past
// the start of the buffer that the consumed prefix is safe to drop.
type StreamScanner struct {
	buffer []byte
	pos    int
	// base is the absolute offset of buffer[0] in the logical stream, after compaction.
	base int
}

// newStreamScanner returns an empty scanner.
func newStreamScanner() *StreamScanner {
	return &StreamScanner{}
}

// append adds more bytes to the end of the buffer.
func (s *StreamScanner) append(text string) {
	s.buffer = append(s.buffer, text...)
}

// peek returns the byte at the cursor without advancing, and whether one exists.
func (s *StreamScanner) peek() (byte, bool) {
	idx := s.pos - s.base
	if idx < len(s.buffer) {
		return s.buffer[idx], true
	}
	return 0, false
}

// advance moves the cursor forward by one position, saturating at the buffer end.
func (s *StreamScanner) advance() {
	if s.hasMore() {
		s.pos++
	}
}

// advanceBy moves the cursor forward by count positions, saturating at the buffer end.
func (s *StreamScanner) advanceBy(count int) {
	end := s.base + len(s.buffer)
	s.pos += count
	if s.pos > end {
		s.pos = end
	}
	if s.pos < s.base {
		s.pos = s.base
	}
}

// hasMore reports whether the cursor has not yet reached the end of the buffer.
func (s *StreamScanner) hasMore() bool {
	return s.pos-s.base < len(s.buffer)
}

// position returns the current zero-based cursor position in the logical stream.
func (s *StreamScanner) position() int {
	return s.pos
}

// setPosition moves the cursor to position, clamped to the valid range.
func (s *StreamScanner) setPosition(position int) {
	end := s.base + len(s.buffer)
	if position < s.base {
		position = s.base
	}
	if position > end {
		position = end
	}
	s.pos = position
}

// substring extracts buffer[start:end) in logical-stream coordinates. A negative
// end means "to the end of the buffer".
func (s *StreamScanner) substring(start int, end int) string {
	lo := start - s.base
	if lo < 0 {
		lo = 0
	}
	hi := len(s.buffer)
	if end >= 0 {
		hi = end - s.base
		if hi > len(s.buffer) {
			hi = len(s.buffer)
		}
	}
	if lo >= hi {
		return ""
	}
	return string(s.buffer[lo:hi])
}

// substringFrom extracts buffer[start:] in logical-stream coordinates.
func (s *StreamScanner) substringFrom(start int) string {
	return s.substring(start, -1)
}

// consumeRemaining returns the slice from the cursor to the end of the buffer and
// advances the cursor to the end.
func (s *StreamScanner) consumeRemaining() string {
	remaining := s.substringFrom(s.pos)
	s.setPosition(s.base + len(s.buffer))
	return remaining
}

// compactThreshold bounds how far the cursor may run ahead of the buffer's logical
// start before compact() is worth its O(n) copy.
const compactThreshold = 64 * 1024

// compact drops the consumed prefix of the buffer once the cursor has moved far
// enough past it, bounding memory growth in steady state (spec.md §5).
func (s *StreamScanner) compact() {
	drop := s.pos - s.base
	if drop < compactThreshold {
		return
	}
	s.buffer = s.buffer[drop:]
	s.base = s.pos
}
