package summarizer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/c360/lexrank/errors"
	"github.com/c360/lexrank/graph"
	"github.com/c360/lexrank/metric"
	"github.com/c360/lexrank/pkg/embedding"
	"github.com/c360/lexrank/pkg/pagerank"
	"github.com/c360/lexrank/segment"
	"github.com/c360/lexrank/vocabulary"
)

// Summarizer ranks and extracts the central sentences of a document.
type Summarizer struct {
	cfg       Config
	segmenter segment.Segmenter
	tokenizer vocabulary.Tokenizer
	logger    *slog.Logger
	registry  *metric.MetricsRegistry
	metrics   *Metrics
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Summarizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics registers the summarizer collectors with registry.
func WithMetrics(registry *metric.MetricsRegistry) Option {
	return func(s *Summarizer) {
		s.registry = registry
	}
}

// WithTokenizer replaces the default tokenizer.
func WithTokenizer(tok vocabulary.Tokenizer) Option {
	return func(s *Summarizer) {
		if tok != nil {
			s.tokenizer = tok
		}
	}
}

// New creates a Summarizer. A nil segmenter selects the rule based segmenter
// with cfg.Abbreviations added to its abbreviation list.
func New(seg segment.Segmenter, cfg Config, opts ...Option) (*Summarizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "Summarizer", "New", "validate config")
	}
	if seg == nil {
		seg = segment.NewRuleSegmenter(cfg.Abbreviations...)
	}

	s := &Summarizer{
		cfg:       cfg,
		segmenter: seg,
		tokenizer: &vocabulary.DefaultTokenizer{MinLength: cfg.MinTokenLength},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	m, err := NewMetrics(s.registry)
	if err != nil {
		return nil, errors.Wrap(err, "Summarizer", "New", "register metrics")
	}
	s.metrics = m
	return s, nil
}

// Config returns the configuration the Summarizer was built with.
func (s *Summarizer) Config() Config {
	return s.cfg
}

// Summarize extracts a summary holding max(1, floor(N*ratio)) sentences of
// text. Invalid ratios and blank text are rejected before any work is done.
// A context that ends during ranking yields the current score estimate with
// Diagnostics.Converged set to false.
func (s *Summarizer) Summarize(ctx context.Context, text string, ratio float64) (*Result, error) {
	start := time.Now()

	if err := ValidateRatio(ratio); err != nil {
		s.metrics.recordError()
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		s.metrics.recordError()
		return nil, errors.WrapInvalid(errors.ErrEmptyText, "Summarizer", "Summarize", "validate text")
	}

	spans := s.segmenter.Segment(text)
	if len(spans) < 2 {
		res := trivialResult(text, spans)
		s.metrics.record(StateTrivial, len(spans), nil, time.Since(start))
		return res, nil
	}

	res, pr, err := s.rank(ctx, text, spans, ratio)
	if err != nil {
		s.metrics.recordError()
		return nil, err
	}

	elapsed := time.Since(start)
	s.metrics.record(StateRanked, len(spans), pr, elapsed)
	s.logger.Debug("Summarized document",
		"sentences", len(spans),
		"selected", len(res.Selected),
		"iterations", pr.Iterations,
		"converged", pr.Converged,
		"elapsed", elapsed)
	return res, nil
}

func (s *Summarizer) rank(ctx context.Context, text string, spans []segment.Span, ratio float64) (*Result, *pagerank.Result, error) {
	sentences := segment.Texts(spans)
	vocab := vocabulary.Build(sentences, s.tokenizer)

	vectors, err := embedding.NewTFIDFVectorizer(embedding.WithWorkers(s.cfg.Workers)).Vectorize(ctx, vocab)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Summarizer", "Summarize", "vectorize sentences")
	}

	graphOpts := []graph.Option{graph.WithWorkers(s.cfg.Workers)}
	if s.cfg.ExcludeSelfSimilarity {
		graphOpts = append(graphOpts, graph.WithoutSelfLoops())
	}
	matrix, err := graph.BuildSimilarity(ctx, vectors, graphOpts...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Summarizer", "Summarize", "build similarity graph")
	}

	pr, err := pagerank.Compute(ctx, matrix, s.cfg.PageRank())
	if err != nil {
		return nil, nil, errors.Wrap(err, "Summarizer", "Summarize", "compute pagerank")
	}

	ranked := Rank(spans, pr.Scores, s.cfg.TieBreak)
	k := SelectCount(len(spans), ratio)
	selected := selectTop(ranked, k)
	summary := assemble(spans, selected)

	// replace_all applies markers in rank order
	markOrder := selected
	if s.cfg.HighlightMode == HighlightReplaceAll {
		markOrder = make([]int, k)
		for i := 0; i < k; i++ {
			markOrder[i] = ranked[i].SentenceIndex
		}
	}
	highlighted := Highlight(text, spans, markOrder, s.cfg.HighlightMode, s.cfg.HighlightOpen, s.cfg.HighlightClose)

	scores := make(map[int]float64, len(pr.Scores))
	for i, v := range pr.Scores {
		scores[i] = v
	}

	diag := &Diagnostics{
		Scores:     append([]float64(nil), pr.Scores...),
		Iterations: pr.Iterations,
		Converged:  pr.Converged,
		Delta:      pr.Delta,
	}
	if s.cfg.IncludeSimilarity {
		diag.Similarity = matrix.Dense()
	}

	return &Result{
		SummaryText:       summary,
		HighlightedText:   highlighted,
		OriginalWordCount: WordCount(text),
		SummaryWordCount:  WordCount(summary),
		RankedEntries:     ranked,
		Scores:            scores,
		Selected:          selected,
		State:             StateRanked,
		Diagnostics:       diag,
	}, pr, nil
}

// trivialResult returns text as its own summary. A single sentence gets a
// ranking entry with score 1.
func trivialResult(text string, spans []segment.Span) *Result {
	words := WordCount(text)
	res := &Result{
		SummaryText:       text,
		HighlightedText:   text,
		OriginalWordCount: words,
		SummaryWordCount:  words,
		RankedEntries:     []RankedEntry{},
		Scores:            map[int]float64{},
		Selected:          []int{},
		State:             StateTrivial,
	}
	if len(spans) == 1 {
		res.RankedEntries = append(res.RankedEntries, RankedEntry{Score: 1, SentenceIndex: 0, Text: spans[0].Text})
		res.Scores[0] = 1
		res.Selected = append(res.Selected, 0)
	}
	return res
}
