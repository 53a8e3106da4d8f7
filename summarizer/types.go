package summarizer

// State is the terminal state of one summarization.
type State string

// Terminal states of the pipeline.
const (
	StateTrivial State = "trivial"
	StateRanked  State = "ranked"
)

// TieBreak orders sentences with identical scores.
type TieBreak string

// Supported tie-break rules.
const (
	// TieBreakTextDesc orders ties by descending sentence text.
	TieBreakTextDesc TieBreak = "text_desc"
	// TieBreakIndex orders ties by original sentence position.
	TieBreakIndex TieBreak = "index"
)

// HighlightMode selects how selected sentences are marked in the original text.
type HighlightMode string

// Supported highlight modes.
const (
	// HighlightSpan splices markers at each selected sentence's span.
	HighlightSpan HighlightMode = "span"
	// HighlightReplaceAll wraps every textual occurrence of a selected sentence.
	HighlightReplaceAll HighlightMode = "replace_all"
)

// RankedEntry is one sentence in the ranking.
type RankedEntry struct {
	Score         float64 `json:"score"`
	SentenceIndex int     `json:"sentence_index"`
	Text          string  `json:"text"`
}

// Diagnostics exposes the intermediate state of a ranked summarization.
type Diagnostics struct {
	Similarity [][]float64 `json:"similarity,omitempty"`
	Scores     []float64   `json:"scores"`
	Iterations int         `json:"iterations"`
	Converged  bool        `json:"converged"`
	Delta      float64     `json:"delta"`
}

// Result is the outcome of one summarization. It is never mutated after
// Summarize returns.
type Result struct {
	SummaryText       string          `json:"summary_text"`
	HighlightedText   string          `json:"highlighted_text"`
	OriginalWordCount int             `json:"original_word_count"`
	SummaryWordCount  int             `json:"summary_word_count"`
	RankedEntries     []RankedEntry   `json:"ranked_entries"`
	Scores            map[int]float64 `json:"scores"`
	Selected          []int           `json:"selected"`
	State             State           `json:"state"`
	Diagnostics       *Diagnostics    `json:"diagnostics,omitempty"`
}

// CompressionRatio returns summary words over original words, or 0 for an
// empty original.
func (r *Result) CompressionRatio() float64 {
	if r.OriginalWordCount == 0 {
		return 0
	}
	return float64(r.SummaryWordCount) / float64(r.OriginalWordCount)
}
