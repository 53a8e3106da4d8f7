package summarizer

import (
	"fmt"

	"github.com/c360/lexrank/errors"
	"github.com/c360/lexrank/pkg/pagerank"
	"github.com/c360/lexrank/vocabulary"
)

// Default highlight markers.
const (
	DefaultHighlightOpen  = `<span class="highlight">`
	DefaultHighlightClose = `</span>`
	DefaultRatio          = 0.3
)

// Config holds the tunables of the pipeline.
type Config struct {
	Ratio                 float64       `json:"ratio"`
	Damping               float64       `json:"damping"`
	Tolerance             float64       `json:"tolerance"`
	MaxIterations         int           `json:"max_iterations"`
	MinTokenLength        int           `json:"min_token_length"`
	TieBreak              TieBreak      `json:"tie_break"`
	HighlightMode         HighlightMode `json:"highlight_mode"`
	HighlightOpen         string        `json:"highlight_open"`
	HighlightClose        string        `json:"highlight_close"`
	ExcludeSelfSimilarity bool          `json:"exclude_self_similarity"`
	IncludeSimilarity     bool          `json:"include_similarity"`
	Workers               int           `json:"workers"`
	Abbreviations         []string      `json:"abbreviations,omitempty"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	pr := pagerank.DefaultConfig()
	return Config{
		Ratio:          DefaultRatio,
		Damping:        pr.DampingFactor,
		Tolerance:      pr.Tolerance,
		MaxIterations:  pr.MaxIterations,
		MinTokenLength: vocabulary.DefaultMinTokenLength,
		TieBreak:       TieBreakTextDesc,
		HighlightMode:  HighlightSpan,
		HighlightOpen:  DefaultHighlightOpen,
		HighlightClose: DefaultHighlightClose,
	}
}

// PageRank returns the power-iteration settings.
func (c Config) PageRank() pagerank.Config {
	return pagerank.Config{
		MaxIterations: c.MaxIterations,
		DampingFactor: c.Damping,
		Tolerance:     c.Tolerance,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := ValidateRatio(c.Ratio); err != nil {
		return errors.WrapFatal(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("default ratio %v", c.Ratio))
	}
	if err := c.PageRank().Validate(); err != nil {
		return err
	}
	if c.MinTokenLength < 0 {
		return errors.WrapFatal(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("min_token_length %d", c.MinTokenLength))
	}
	if c.Workers < 0 {
		return errors.WrapFatal(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("workers %d", c.Workers))
	}
	switch c.TieBreak {
	case TieBreakTextDesc, TieBreakIndex:
	default:
		return errors.WrapFatal(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("unknown tie_break %q", c.TieBreak))
	}
	switch c.HighlightMode {
	case HighlightSpan, HighlightReplaceAll:
	default:
		return errors.WrapFatal(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("unknown highlight_mode %q", c.HighlightMode))
	}
	return nil
}
