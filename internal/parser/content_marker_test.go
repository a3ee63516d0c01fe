package parser

import "testing"

func TestLocateRealMarkerFindsGenuineSentinel(t *testing.T) {
	combined := "print('hi')\n__END_CONTENT__</arg>rest"
	contentEnd, consumedThrough, found, ambiguous, _ := locateRealMarker(combined, "__END_CONTENT__", "</arg>")
	if !found || ambiguous {
		t.Fatalf("expected a genuine match, got found=%v ambiguous=%v", found, ambiguous)
	}
	if combined[:contentEnd] != "print('hi')\n" {
		t.Fatalf("unexpected content slice: %q", combined[:contentEnd])
	}
	if combined[consumedThrough:] != "rest" {
		t.Fatalf("unexpected remainder: %q", combined[consumedThrough:])
	}
}

func TestLocateRealMarkerToleratesWhitespaceBeforeCloseTag(t *testing.T) {
	combined := "body__END_CONTENT__  \n </arg>tail"
	_, consumedThrough, found, _, _ := locateRealMarker(combined, "__END_CONTENT__", "</arg>")
	if !found {
		t.Fatalf("expected match despite intervening whitespace")
	}
	if combined[consumedThrough:] != "tail" {
		t.Fatalf("unexpected remainder: %q", combined[consumedThrough:])
	}
}

func TestLocateRealMarkerSkipsFalsePositiveNotFollowedByCloseTag(t *testing.T) {
	combined := "# mentions __END_CONTENT__ in a comment\nmore text__END_CONTENT__</arg>"
	contentEnd, _, found, ambiguous, _ := locateRealMarker(combined, "__END_CONTENT__", "</arg>")
	if !found || ambiguous {
		t.Fatalf("expected the second occurrence to resolve as genuine")
	}
	want := "# mentions __END_CONTENT__ in a comment\nmore text"
	if combined[:contentEnd] != want {
		t.Fatalf("expected content up to the real marker, got %q", combined[:contentEnd])
	}
}

func TestLocateRealMarkerReportsAmbiguousWhenCloseTagMightBeSplit(t *testing.T) {
	combined := "body__END_CONTENT__</ar"
	_, _, found, ambiguous, ambiguousFrom := locateRealMarker(combined, "__END_CONTENT__", "</arg>")
	if found {
		t.Fatalf("expected not-yet-resolved, not a confirmed match")
	}
	if !ambiguous {
		t.Fatalf("expected ambiguous=true since more bytes could complete </arg>")
	}
	if combined[ambiguousFrom:] != "__END_CONTENT__</ar" {
		t.Fatalf("unexpected ambiguousFrom slice: %q", combined[ambiguousFrom:])
	}
}

func TestLocateRealMarkerNotFoundWhenMarkerAbsent(t *testing.T) {
	combined := "nothing interesting here"
	_, _, found, ambiguous, _ := locateRealMarker(combined, "__END_CONTENT__", "</arg>")
	if found || ambiguous {
		t.Fatalf("expected no match and no ambiguity, got found=%v ambiguous=%v", found, ambiguous)
	}
}
