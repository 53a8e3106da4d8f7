// Package segment splits raw text into sentences.
//
// Sentence boundary detection is a collaborator of the summarizer, not part
// of the ranking core. Any implementation of Segmenter can be injected; the
// summarizer only relies on the contract below.
//
// Contract: Segment returns the sentences of text in document order. Every
// Span holds non-empty, whitespace-trimmed Text, and when Start >= 0 the
// invariant text[Start:End] == Span.Text holds. Spans let callers mark up a
// sentence at its original position instead of searching for its text.
package segment

import "strings"

// Span is one sentence and its byte range in the segmented text.
// Start and End are -1 when the position is unknown.
type Span struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Located reports whether the span carries a byte range.
func (s Span) Located() bool {
	return s.Start >= 0 && s.End >= s.Start
}

// Segmenter splits text into ordered sentence spans.
type Segmenter interface {
	Segment(text string) []Span
}

// Func adapts a collaborator that only returns sentence strings. Each
// sentence is located in the text by searching forward from the end of the
// previous one; sentences that cannot be found keep Start and End at -1.
type Func func(text string) []string

// Segment implements Segmenter.
func (f Func) Segment(text string) []Span {
	var spans []Span
	cursor := 0
	for _, raw := range f(text) {
		sentence := strings.TrimSpace(raw)
		if sentence == "" {
			continue
		}

		span := Span{Index: len(spans), Text: sentence, Start: -1, End: -1}
		if offset := strings.Index(text[cursor:], sentence); offset >= 0 {
			span.Start = cursor + offset
			span.End = span.Start + len(sentence)
			cursor = span.End
		}
		spans = append(spans, span)
	}
	return spans
}

// Texts returns the sentence strings of spans in order.
func Texts(spans []Span) []string {
	texts := make([]string, len(spans))
	for i, s := range spans {
		texts[i] = s.Text
	}
	return texts
}
