package summarizer

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/lexrank/errors"
	"github.com/c360/lexrank/metric"
	"github.com/c360/lexrank/segment"
)

const petsText = "Cats and dogs are pets. Cats are independent. Dogs are loyal. Rockets reach orbit."

func newTestSummarizer(t *testing.T, mutate func(*Config), opts ...Option) *Summarizer {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := New(nil, cfg, opts...)
	require.NoError(t, err)
	return s
}

func TestSummarize_HubSentenceWins(t *testing.T) {
	s := newTestSummarizer(t, nil)

	res, err := s.Summarize(context.Background(), petsText, 0.25)
	require.NoError(t, err)

	assert.Equal(t, StateRanked, res.State)
	assert.Equal(t, "Cats and dogs are pets.", res.SummaryText)
	assert.Equal(t, []int{0}, res.Selected)
	require.Len(t, res.RankedEntries, 4)
	assert.Equal(t, 0, res.RankedEntries[0].SentenceIndex)
	// an isolated sentence with a self loop keeps exactly 1/N
	assert.InDelta(t, 0.25, res.Scores[3], 1e-6)
	assert.Equal(t, 14, res.OriginalWordCount)
	assert.Equal(t, 5, res.SummaryWordCount)
	assert.InDelta(t, 5.0/14.0, res.CompressionRatio(), 1e-12)
	assert.True(t, res.Diagnostics.Converged)
	assert.Nil(t, res.Diagnostics.Similarity)
}

func TestSummarize_MammalExample(t *testing.T) {
	text := "Cats are mammals. Dogs are mammals too. The sky is blue."

	t.Run("self similarity excluded", func(t *testing.T) {
		s := newTestSummarizer(t, func(c *Config) { c.ExcludeSelfSimilarity = true })

		res, err := s.Summarize(context.Background(), text, 0.34)
		require.NoError(t, err)

		require.Len(t, res.Selected, 1)
		assert.Equal(t, "Dogs are mammals too.", res.SummaryText)
		assert.Equal(t, res.Scores[0], res.Scores[1])
		assert.Greater(t, res.Scores[0], res.Scores[2])
	})

	t.Run("self similarity excluded with index tie break", func(t *testing.T) {
		s := newTestSummarizer(t, func(c *Config) {
			c.ExcludeSelfSimilarity = true
			c.TieBreak = TieBreakIndex
		})

		res, err := s.Summarize(context.Background(), text, 0.34)
		require.NoError(t, err)
		assert.Equal(t, "Cats are mammals.", res.SummaryText)
	})

	t.Run("self similarity included", func(t *testing.T) {
		// Both components are symmetric, so every sentence keeps 1/3.
		s := newTestSummarizer(t, nil)

		res, err := s.Summarize(context.Background(), text, 0.34)
		require.NoError(t, err)
		require.Len(t, res.Selected, 1)
		for i := 0; i < 3; i++ {
			assert.InDelta(t, 1.0/3.0, res.Scores[i], 1e-6)
		}

		// A three-way tie, so text_desc alone picks the summary.
		order := make([]int, len(res.RankedEntries))
		for i, entry := range res.RankedEntries {
			order[i] = entry.SentenceIndex
		}
		assert.Equal(t, []int{2, 1, 0}, order)
		assert.Equal(t, []int{2}, res.Selected)
		assert.Equal(t, "The sky is blue.", res.SummaryText)
	})
}

func TestSummarize_Deterministic(t *testing.T) {
	s := newTestSummarizer(t, nil)
	text := strings.Repeat("Alpha beta gamma. Beta gamma delta. Gamma delta epsilon. Zeta eta theta. ", 3)

	first, err := s.Summarize(context.Background(), text, 0.3)
	require.NoError(t, err)
	second, err := s.Summarize(context.Background(), text, 0.3)
	require.NoError(t, err)

	assert.Equal(t, first.Scores, second.Scores)
	assert.Equal(t, first.RankedEntries, second.RankedEntries)
	assert.Equal(t, first.SummaryText, second.SummaryText)
	assert.Equal(t, first.HighlightedText, second.HighlightedText)
}

func TestSummarize_Invariants(t *testing.T) {
	text := "The committee met on Monday. The committee approved the budget. " +
		"Budget talks lasted hours. Members praised the committee chair. " +
		"Weather was mild. The chair thanked members for the budget work. " +
		"Coffee ran out early."

	for _, ratio := range []float64{0.01, 0.2, 0.3, 0.5, 0.99, 1} {
		s := newTestSummarizer(t, nil)
		res, err := s.Summarize(context.Background(), text, ratio)
		require.NoError(t, err)

		n := len(res.RankedEntries)
		require.Equal(t, 7, n)

		sum := 0.0
		for _, v := range res.Scores {
			sum += v
		}
		assert.InDelta(t, 1.0, sum, 1e-6, "ratio %v", ratio)

		assert.Len(t, res.Selected, SelectCount(n, ratio), "ratio %v", ratio)
		assert.IsIncreasing(t, append([]int{-1}, res.Selected...), "summary keeps original order")

		for i := 1; i < n; i++ {
			assert.GreaterOrEqual(t, res.RankedEntries[i-1].Score, res.RankedEntries[i].Score)
		}
	}
}

func TestSummarize_FullRatioKeepsEverySentence(t *testing.T) {
	s := newTestSummarizer(t, nil)

	res, err := s.Summarize(context.Background(), petsText, 1)
	require.NoError(t, err)
	assert.Equal(t, petsText, res.SummaryText)
	assert.Equal(t, []int{0, 1, 2, 3}, res.Selected)
}

func TestSummarize_Trivial(t *testing.T) {
	s := newTestSummarizer(t, nil)

	res, err := s.Summarize(context.Background(), "OnlyOneSentence.", 0.5)
	require.NoError(t, err)

	assert.Equal(t, StateTrivial, res.State)
	assert.Equal(t, "OnlyOneSentence.", res.SummaryText)
	assert.Equal(t, "OnlyOneSentence.", res.HighlightedText)
	require.Len(t, res.RankedEntries, 1)
	assert.Equal(t, 1.0, res.RankedEntries[0].Score)
	assert.Nil(t, res.Diagnostics)
}

func TestSummarize_EmptySegmentation(t *testing.T) {
	none := segment.Func(func(string) []string { return nil })
	s, err := New(none, DefaultConfig())
	require.NoError(t, err)

	res, err := s.Summarize(context.Background(), "!!! ???", 0.5)
	require.NoError(t, err)
	assert.Equal(t, StateTrivial, res.State)
	assert.Equal(t, "!!! ???", res.SummaryText)
	assert.Empty(t, res.RankedEntries)
}

func TestSummarize_DegenerateSentence(t *testing.T) {
	split := segment.Func(func(string) []string {
		return []string{"Rivers flow to the sea.", "?!", "The sea feeds rivers."}
	})
	s, err := New(split, DefaultConfig())
	require.NoError(t, err)

	res, err := s.Summarize(context.Background(), "Rivers flow to the sea. ?! The sea feeds rivers.", 0.5)
	require.NoError(t, err)

	sum := 0.0
	for _, v := range res.Scores {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
	assert.Greater(t, res.Scores[1], 0.0)
	assert.NotContains(t, res.SummaryText, "?!")
}

func TestSummarize_Validation(t *testing.T) {
	s := newTestSummarizer(t, nil)

	tests := []struct {
		name  string
		text  string
		ratio float64
		want  error
	}{
		{"zero ratio", petsText, 0, errors.ErrInvalidRatio},
		{"negative ratio", petsText, -0.1, errors.ErrInvalidRatio},
		{"ratio above one", petsText, 1.01, errors.ErrInvalidRatio},
		{"empty text", "", 0.3, errors.ErrEmptyText},
		{"blank text", "  \n\t ", 0.3, errors.ErrEmptyText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Summarize(context.Background(), tt.text, tt.ratio)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, errors.IsInvalid(err))
		})
	}
}

func TestSummarize_HighlightModes(t *testing.T) {
	text := "Solar power is growing. Wind power is growing too. Solar power is growing. Tea is hot."
	split := segment.Func(func(string) []string {
		return []string{"Solar power is growing.", "Wind power is growing too.", "Solar power is growing.", "Tea is hot."}
	})

	t.Run("span", func(t *testing.T) {
		s, err := New(split, DefaultConfig())
		require.NoError(t, err)

		res, err := s.Summarize(context.Background(), text, 0.25)
		require.NoError(t, err)
		assert.Equal(t, []int{0}, res.Selected)
		assert.Equal(t, 1, strings.Count(res.HighlightedText, DefaultHighlightOpen))
		assert.True(t, strings.HasPrefix(res.HighlightedText, DefaultHighlightOpen+"Solar"))
	})

	t.Run("replace all", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.HighlightMode = HighlightReplaceAll
		cfg.TieBreak = TieBreakIndex
		s, err := New(split, cfg)
		require.NoError(t, err)

		res, err := s.Summarize(context.Background(), text, 0.25)
		require.NoError(t, err)
		assert.Equal(t, []int{0}, res.Selected)
		assert.Equal(t, 2, strings.Count(res.HighlightedText, DefaultHighlightOpen))
	})
}

func TestSummarize_IncludeSimilarity(t *testing.T) {
	s := newTestSummarizer(t, func(c *Config) { c.IncludeSimilarity = true })

	res, err := s.Summarize(context.Background(), petsText, 0.5)
	require.NoError(t, err)

	sim := res.Diagnostics.Similarity
	require.Len(t, sim, 4)
	for i := range sim {
		assert.Equal(t, 1.0, sim[i][i])
		for j := range sim {
			assert.Equal(t, sim[i][j], sim[j][i])
		}
	}
	assert.Equal(t, 0.0, sim[0][3])
}

func TestSummarize_CancelledContext(t *testing.T) {
	s := newTestSummarizer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Summarize(ctx, petsText, 0.5)
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))
}

func TestSummarize_Metrics(t *testing.T) {
	registry := metric.NewMetricsRegistry()
	s := newTestSummarizer(t, nil, WithMetrics(registry))

	_, err := s.Summarize(context.Background(), petsText, 0.5)
	require.NoError(t, err)
	_, err = s.Summarize(context.Background(), "Just one.", 0.5)
	require.NoError(t, err)
	_, err = s.Summarize(context.Background(), petsText, 2)
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues("ranked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues("trivial")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues("error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(s.metrics.nonConverged))

	_, err = New(nil, DefaultConfig(), WithMetrics(registry))
	assert.Error(t, err, "second registration on the same registry is rejected")
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"ratio", func(c *Config) { c.Ratio = 0 }},
		{"damping", func(c *Config) { c.Damping = 1.5 }},
		{"tie break", func(c *Config) { c.TieBreak = "random" }},
		{"highlight", func(c *Config) { c.HighlightMode = "bold" }},
		{"workers", func(c *Config) { c.Workers = -1 }},
		{"min token length", func(c *Config) { c.MinTokenLength = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := New(nil, cfg)
			require.Error(t, err)
			assert.True(t, errors.IsFatal(err))
		})
	}
}
