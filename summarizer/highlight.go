package summarizer

import (
	"sort"
	"strings"

	"github.com/c360/lexrank/segment"
)

// Highlight returns a copy of text with every selected sentence wrapped in
// the open and close markers. selected holds sentence indices into spans.
//
// HighlightSpan inserts markers at the recorded span of each selected
// sentence, so duplicates elsewhere in the text stay unmarked. When any
// selected span has no recorded position the call falls back to
// HighlightReplaceAll.
func Highlight(text string, spans []segment.Span, selected []int, mode HighlightMode, open, close string) string {
	if len(selected) == 0 {
		return text
	}

	if mode == HighlightSpan {
		if out, ok := spliceSpans(text, spans, selected, open, close); ok {
			return out
		}
	}
	return replaceAll(text, spans, selected, open, close)
}

func spliceSpans(text string, spans []segment.Span, selected []int, open, close string) (string, bool) {
	picked := make([]segment.Span, 0, len(selected))
	for _, idx := range selected {
		s := spans[idx]
		if !s.Located() || s.End > len(text) {
			return "", false
		}
		picked = append(picked, s)
	}
	sort.Slice(picked, func(a, b int) bool { return picked[a].Start < picked[b].Start })

	var b strings.Builder
	b.Grow(len(text) + len(picked)*(len(open)+len(close)))
	cursor := 0
	for _, s := range picked {
		if s.Start < cursor {
			// overlapping spans
			return "", false
		}
		b.WriteString(text[cursor:s.Start])
		b.WriteString(open)
		b.WriteString(text[s.Start:s.End])
		b.WriteString(close)
		cursor = s.End
	}
	b.WriteString(text[cursor:])
	return b.String(), true
}

// replaceAll wraps every occurrence of each selected sentence, applied in
// the order given. A selected sentence contained in another selected one is
// wrapped again inside it.
func replaceAll(text string, spans []segment.Span, selected []int, open, close string) string {
	out := text
	for _, idx := range selected {
		s := spans[idx].Text
		if s == "" {
			continue
		}
		out = strings.ReplaceAll(out, s, open+s+close)
	}
	return out
}
