package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// fixedAbbreviations never end a sentence with their period.
var fixedAbbreviations = []string{
	"mr", "mrs", "ms", "dr", "prof", "sr", "jr", "vs",
	"e.g", "i.e", "cf", "fig", "approx", "dept",
}

// ambiguousAbbreviations are also ordinary words or often close a sentence.
// Their period ends the sentence unless the next word continues it.
var ambiguousAbbreviations = []string{
	"st", "etc", "no", "inc", "ltd", "co",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov", "dec",
	"u.s", "u.k", "a.m", "p.m",
}

// RuleSegmenter is a rule-based sentence splitter.
//
// A sentence ends at a run of terminal punctuation (. ! ? …), optionally
// followed by closing quotes or brackets, when the run is followed by
// whitespace or the end of the text. A blank line always ends a sentence.
// A single period after a fixed abbreviation such as "Dr." does not end a
// sentence. After an ambiguous abbreviation such as "Jan." or "no." it
// ends the sentence unless the next word starts with a lowercase letter or
// a digit. A one-letter initial behaves like an ambiguous abbreviation,
// and it also continues when it is part of a run of initials or follows a
// fixed abbreviation, as in "J. R. Doe" or "Dr. J. Doe".
type RuleSegmenter struct {
	fixed     map[string]struct{}
	ambiguous map[string]struct{}
}

// NewRuleSegmenter creates a segmenter with the default abbreviation lists.
// Extra abbreviations (case-insensitive, trailing period optional) are
// treated as fixed.
func NewRuleSegmenter(extraAbbreviations ...string) *RuleSegmenter {
	r := &RuleSegmenter{
		fixed:     make(map[string]struct{}, len(fixedAbbreviations)+len(extraAbbreviations)),
		ambiguous: make(map[string]struct{}, len(ambiguousAbbreviations)),
	}
	for _, a := range fixedAbbreviations {
		r.fixed[a] = struct{}{}
	}
	for _, a := range extraAbbreviations {
		r.fixed[strings.ToLower(strings.TrimSuffix(a, "."))] = struct{}{}
	}
	for _, a := range ambiguousAbbreviations {
		r.ambiguous[a] = struct{}{}
	}
	return r
}

// Segment implements Segmenter.
func (r *RuleSegmenter) Segment(text string) []Span {
	var spans []Span
	start := 0

	emit := func(end int) {
		if span, ok := trimmedSpan(text, start, end); ok {
			span.Index = len(spans)
			spans = append(spans, span)
		}
		start = end
	}

	for i := 0; i < len(text); {
		c, size := utf8.DecodeRuneInString(text[i:])

		if c == '\n' && blankLineAt(text, i+size) {
			emit(i)
			i += size
			continue
		}

		if !isTerminator(c) {
			i += size
			continue
		}

		// Consume the full run of terminators and closers
		runStart := i
		end := i + size
		for end < len(text) {
			next, nsize := utf8.DecodeRuneInString(text[end:])
			if !isTerminator(next) && !isCloser(next) {
				break
			}
			end += nsize
		}

		if end < len(text) {
			next, _ := utf8.DecodeRuneInString(text[end:])
			if !unicode.IsSpace(next) {
				i = end
				continue
			}
		}

		if end-runStart == 1 && c == '.' && r.continuesAfterPeriod(text[start:runStart], text[end:]) {
			i = end
			continue
		}

		emit(end)
		i = end
	}
	emit(len(text))

	return spans
}

// continuesAfterPeriod decides whether a lone period after before is an
// abbreviation inside the sentence. rest is the text after the period.
func (r *RuleSegmenter) continuesAfterPeriod(before, rest string) bool {
	prev, word := lastTwoTokens(before)
	word = trimLeadingPunct(word)
	if word == "" {
		return false
	}

	if utf8.RuneCountInString(word) == 1 {
		c, _ := utf8.DecodeRuneInString(word)
		if !unicode.IsUpper(c) {
			return false
		}
		return nextWordContinues(rest) || startsWithInitial(rest) ||
			isInitialToken(prev) || r.isFixedToken(prev)
	}

	key := strings.ToLower(word)
	if _, ok := r.fixed[key]; ok {
		return true
	}
	if _, ok := r.ambiguous[key]; ok {
		return nextWordContinues(rest)
	}
	return false
}

// isFixedToken reports whether tok is a fixed abbreviation with its period.
func (r *RuleSegmenter) isFixedToken(tok string) bool {
	tok = trimLeadingPunct(tok)
	if !strings.HasSuffix(tok, ".") {
		return false
	}
	_, ok := r.fixed[strings.ToLower(strings.TrimSuffix(tok, "."))]
	return ok
}

// lastTwoTokens returns the last two whitespace separated tokens of s.
func lastTwoTokens(s string) (prev, last string) {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	idx := strings.LastIndexFunc(s, unicode.IsSpace)
	last = s[idx+1:]
	if idx < 0 {
		return "", last
	}

	s = strings.TrimRightFunc(s[:idx], unicode.IsSpace)
	prev = s[strings.LastIndexFunc(s, unicode.IsSpace)+1:]
	return prev, last
}

func trimLeadingPunct(word string) string {
	return strings.TrimLeftFunc(word, func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsNumber(c)
	})
}

// nextWord returns rest without leading whitespace and opening punctuation.
func nextWord(rest string) string {
	return strings.TrimLeftFunc(rest, func(c rune) bool {
		return unicode.IsSpace(c) || isOpener(c)
	})
}

// nextWordContinues reports whether the next word starts with a lowercase
// letter or a digit.
func nextWordContinues(rest string) bool {
	next := nextWord(rest)
	if next == "" {
		return false
	}
	c, _ := utf8.DecodeRuneInString(next)
	return unicode.IsLower(c) || unicode.IsDigit(c)
}

// startsWithInitial reports whether the next token is an initial like "R.".
func startsWithInitial(rest string) bool {
	next := nextWord(rest)
	if idx := strings.IndexFunc(next, unicode.IsSpace); idx >= 0 {
		next = next[:idx]
	}
	return isInitialToken(next)
}

// isInitialToken matches one uppercase letter followed by a period.
func isInitialToken(tok string) bool {
	tok = trimLeadingPunct(tok)
	c, size := utf8.DecodeRuneInString(tok)
	return size > 0 && unicode.IsUpper(c) && tok[size:] == "."
}

// blankLineAt reports whether only horizontal whitespace separates pos from
// the next newline.
func blankLineAt(text string, pos int) bool {
	for pos < len(text) {
		c, size := utf8.DecodeRuneInString(text[pos:])
		switch {
		case c == '\n':
			return true
		case c == ' ' || c == '\t' || c == '\r':
			pos += size
		default:
			return false
		}
	}
	return false
}

func isTerminator(c rune) bool {
	switch c {
	case '.', '!', '?', '…', '。', '！', '？':
		return true
	}
	return false
}

func isOpener(c rune) bool {
	switch c {
	case '"', '\'', '(', '[', '{', '“', '‘', '«':
		return true
	}
	return false
}

func isCloser(c rune) bool {
	switch c {
	case '"', '\'', ')', ']', '}', '”', '’', '»':
		return true
	}
	return false
}

// trimmedSpan returns text[start:end] without surrounding whitespace and its
// adjusted byte range.
func trimmedSpan(text string, start, end int) (Span, bool) {
	raw := text[start:end]
	trimmedLeft := strings.TrimLeftFunc(raw, unicode.IsSpace)
	trimmed := strings.TrimRightFunc(trimmedLeft, unicode.IsSpace)
	if trimmed == "" {
		return Span{}, false
	}

	s := start + (len(raw) - len(trimmedLeft))
	return Span{Text: trimmed, Start: s, End: s + len(trimmed)}, true
}
