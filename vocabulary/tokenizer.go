package vocabulary

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// DefaultMinTokenLength drops single-rune tokens such as "a" or "I".
const DefaultMinTokenLength = 2

// Tokenizer splits a sentence into normalized terms.
type Tokenizer interface {
	Tokenize(text string) []string
}

// TokenizerFunc adapts a plain function to the Tokenizer interface.
type TokenizerFunc func(text string) []string

// Tokenize calls f(text).
func (f TokenizerFunc) Tokenize(text string) []string {
	return f(text)
}

// DefaultTokenizer lowercases text and splits it on non-alphanumeric boundaries.
type DefaultTokenizer struct {
	// MinLength is the minimum token length in runes. Values below 1 keep
	// every non-empty token.
	MinLength int
}

// NewDefaultTokenizer returns a tokenizer with DefaultMinTokenLength.
func NewDefaultTokenizer() *DefaultTokenizer {
	return &DefaultTokenizer{MinLength: DefaultMinTokenLength}
}

// Tokenize implements Tokenizer.
func (t *DefaultTokenizer) Tokenize(text string) []string {
	// Caser is stateful, one per call keeps Tokenize safe for concurrent use
	lower := cases.Lower(language.Und)
	text = lower.String(norm.NFKC.String(text))

	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		token := current.String()
		current.Reset()
		if utf8.RuneCountInString(token) >= t.MinLength {
			tokens = append(tokens, token)
		}
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r) {
			_, _ = current.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}
