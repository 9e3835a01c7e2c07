package search

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFaultMessage_TruncatesOnRuneBoundary(t *testing.T) {
	// 199 ASCII bytes then a 3-byte rune straddling the limit.
	body := strings.Repeat("x", maxFaultBytes-1) + "€" + strings.Repeat("y", 50)
	got := faultMessage([]byte(body))
	if !utf8.ValidString(got) {
		t.Fatalf("truncated message is not valid UTF-8: %q", got[len(got)-4:])
	}
	if got != strings.Repeat("x", maxFaultBytes-1) {
		t.Fatalf("unexpected truncation, len=%d", len(got))
	}
}

func TestFaultMessage_PrefersFaultString(t *testing.T) {
	got := faultMessage([]byte(`{"fault":{"faultstring":"Invalid ApiKey"}}`))
	if got != "Invalid ApiKey" {
		t.Fatalf("got %q", got)
	}
	if got := faultMessage([]byte("  short body \n")); got != "short body" {
		t.Fatalf("got %q", got)
	}
}
