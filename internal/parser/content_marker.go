package parser

import "strings"

// locateRealMarker scans combined for the first occurrence of endMarker that is
// genuinely followed (after optional whitespace) by closeTag — the raw-content
// sentinel only counts as a boundary when it precedes the argument's closing tag;
// otherwise it is literal content the model happened to write (spec.md §4.7).
//
// found reports a genuine sentinel+closeTag pair: contentEnd is where streamed
// content should be cut, consumedThrough is just past the matched closeTag.
// ambiguous reports a candidate occurrence that needs more buffered bytes before
// it can be resolved either way; ambiguousFrom is where that candidate begins, so
// the caller can hold back from there instead of the literal end of buffer.
func locateRealMarker(combined string, endMarker string, closeTag string) (contentEnd int, consumedThrough int, found bool, ambiguous bool, ambiguousFrom int) {
	searchFrom := 0
	for {
		rel := strings.Index(combined[searchFrom:], endMarker)
		if rel == -1 {
			return 0, 0, false, false, 0
		}
		idx := searchFrom + rel
		after := combined[idx+len(endMarker):]
		trimmed := strings.TrimLeft(after, " \t\r\n")
		if strings.HasPrefix(trimmed, closeTag) {
			consumed := len(after) - len(trimmed)
			return idx, idx + len(endMarker) + consumed + len(closeTag), true, false, 0
		}
		if isUnresolvedPrefix(trimmed, closeTag) {
			return 0, 0, false, true, idx
		}
		searchFrom = idx + 1
	}
}

// isUnresolvedPrefix reports whether trimmed — already stripped of leading
// whitespace — is too short to prove or disprove that closeTag follows.
func isUnresolvedPrefix(trimmed string, closeTag string) bool {
	if len(trimmed) >= len(closeTag) {
		return false
	}
	return strings.HasPrefix(closeTag, trimmed)
}
