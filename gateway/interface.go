package gateway

import (
	"context"

	"github.com/c360/lexrank/summarizer"
)

// Summarizer is the pipeline a transport serves. *summarizer.Summarizer
// satisfies it.
type Summarizer interface {
	Summarize(ctx context.Context, text string, ratio float64) (*summarizer.Result, error)
	Config() summarizer.Config
}
