package report

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hyperifyio/keywordtrends/internal/aggregate"
)

// FormatTable renders entries as an aligned, indexed text table for the
// console. Counts use English digit grouping.
func FormatTable(entries []aggregate.Entry) string {
	p := message.NewPrinter(language.English)
	counts := make([]string, len(entries))
	kwWidth, countWidth := len("Keyword"), len("Count")
	for i, e := range entries {
		counts[i] = p.Sprintf("%d", e.Count)
		if n := utf8.RuneCountInString(e.Keyword); n > kwWidth {
			kwWidth = n
		}
		if n := len(counts[i]); n > countWidth {
			countWidth = n
		}
	}
	idxWidth := len(p.Sprintf("%d", len(entries)))

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", idxWidth+2))
	b.WriteString(pad("Keyword", kwWidth))
	b.WriteString("  ")
	b.WriteString(padLeft("Count", countWidth))
	b.WriteString("\n")
	for i, e := range entries {
		b.WriteString(padLeft(p.Sprintf("%d", i), idxWidth))
		b.WriteString("  ")
		b.WriteString(pad(e.Keyword, kwWidth))
		b.WriteString("  ")
		b.WriteString(padLeft(counts[i], countWidth))
		b.WriteString("\n")
	}
	return b.String()
}

func pad(s string, w int) string {
	if n := utf8.RuneCountInString(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

func padLeft(s string, w int) string {
	if n := utf8.RuneCountInString(s); n < w {
		return strings.Repeat(" ", w-n) + s
	}
	return s
}
