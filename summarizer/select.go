package summarizer

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/c360/lexrank/errors"
	"github.com/c360/lexrank/segment"
)

// ValidateRatio rejects ratios outside (0,1].
func ValidateRatio(ratio float64) error {
	if math.IsNaN(ratio) || ratio <= 0 || ratio > 1 {
		return errors.WrapInvalid(errors.ErrInvalidRatio, "Summarizer", "ValidateRatio",
			fmt.Sprintf("ratio %v", ratio))
	}
	return nil
}

// SelectCount returns max(1, floor(n*ratio)) capped at n. It returns 0 when
// n is not positive.
func SelectCount(n int, ratio float64) int {
	if n <= 0 {
		return 0
	}
	k := int(math.Floor(float64(n) * ratio))
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	return k
}

// Rank orders the sentences by descending score. scores must have one entry
// per sentence. Ties follow tieBreak; sentences that are still tied keep
// their original order.
func Rank(sentences []segment.Span, scores []float64, tieBreak TieBreak) []RankedEntry {
	entries := make([]RankedEntry, len(sentences))
	for i, s := range sentences {
		entries[i] = RankedEntry{Score: scores[i], SentenceIndex: s.Index, Text: s.Text}
	}

	sort.SliceStable(entries, func(a, b int) bool {
		ea, eb := entries[a], entries[b]
		if ea.Score != eb.Score {
			return ea.Score > eb.Score
		}
		if tieBreak == TieBreakTextDesc && ea.Text != eb.Text {
			return ea.Text > eb.Text
		}
		return ea.SentenceIndex < eb.SentenceIndex
	})
	return entries
}

// selectTop takes the first k ranked entries and returns their sentence
// indices in original order.
func selectTop(ranked []RankedEntry, k int) []int {
	if k > len(ranked) {
		k = len(ranked)
	}
	selected := make([]int, k)
	for i := 0; i < k; i++ {
		selected[i] = ranked[i].SentenceIndex
	}
	sort.Ints(selected)
	return selected
}

// assemble joins the selected sentences with single spaces.
func assemble(sentences []segment.Span, selected []int) string {
	parts := make([]string, len(selected))
	for i, idx := range selected {
		parts[i] = sentences[idx].Text
	}
	return strings.Join(parts, " ")
}

// WordCount counts whitespace separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
