package parser

import "testing"

func TestStreamScannerPeekAdvance(t *testing.T) {
	s := newStreamScanner()
	s.append("abc")

	b, ok := s.peek()
	if !ok || b != 'a' {
		t.Fatalf("expected peek 'a', got %q ok=%v", b, ok)
	}
	s.advance()
	b, ok = s.peek()
	if !ok || b != 'b' {
		t.Fatalf("expected peek 'b', got %q ok=%v", b, ok)
	}
}

func TestStreamScannerHasMoreAtEnd(t *testing.T) {
	s := newStreamScanner()
	s.append("a")
	if !s.hasMore() {
		t.Fatalf("expected hasMore true before advancing")
	}
	s.advance()
	if s.hasMore() {
		t.Fatalf("expected hasMore false at buffer end")
	}
	s.advance()
	if s.position() != 1 {
		t.Fatalf("expected advance past the end to saturate, got position %d", s.position())
	}
}

func TestStreamScannerSubstringAndConsumeRemaining(t *testing.T) {
	s := newStreamScanner()
	s.append("hello world")

	if got := s.substring(0, 5); got != "hello" {
		t.Fatalf("expected %q, got %q", "hello", got)
	}
	if got := s.substringFrom(6); got != "world" {
		t.Fatalf("expected %q, got %q", "world", got)
	}

	s.setPosition(6)
	if got := s.consumeRemaining(); got != "world" {
		t.Fatalf("expected consumeRemaining %q, got %q", "world", got)
	}
	if s.hasMore() {
		t.Fatalf("expected no more bytes after consuming to the end")
	}
}

func TestStreamScannerSetPositionClampsToRange(t *testing.T) {
	s := newStreamScanner()
	s.append("abc")

	s.setPosition(-5)
	if s.position() != 0 {
		t.Fatalf("expected clamp to 0, got %d", s.position())
	}
	s.setPosition(100)
	if s.position() != 3 {
		t.Fatalf("expected clamp to buffer end 3, got %d", s.position())
	}
}

func TestStreamScannerCompactRebasesAfterThreshold(t *testing.T) {
	s := newStreamScanner()
	s.append(string(make([]byte, compactThreshold+10)))
	s.setPosition(compactThreshold + 5)

	s.compact()

	if s.base != compactThreshold+5 {
		t.Fatalf("expected base rebased to %d, got %d", compactThreshold+5, s.base)
	}
	if len(s.buffer) != 5 {
		t.Fatalf("expected 5 bytes remaining in buffer, got %d", len(s.buffer))
	}
	if s.position() != compactThreshold+5 {
		t.Fatalf("expected logical position unchanged at %d, got %d", compactThreshold+5, s.position())
	}
}

func TestStreamScannerCompactNoopBelowThreshold(t *testing.T) {
	s := newStreamScanner()
	s.append("abcdef")
	s.setPosition(3)

	s.compact()

	if s.base != 0 {
		t.Fatalf("expected no compaction below threshold, base stayed 0, got %d", s.base)
	}
	if len(s.buffer) != 6 {
		t.Fatalf("expected buffer unchanged, got len %d", len(s.buffer))
	}
}
