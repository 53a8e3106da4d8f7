package graph

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/c360/lexrank/errors"
	"github.com/c360/lexrank/pkg/embedding"
)

// SimilarityMatrix is a dense, symmetric matrix of pairwise sentence
// similarities stored in row-major order.
type SimilarityMatrix struct {
	n    int
	data []float64
}

// Option configures BuildSimilarity.
type Option func(*buildConfig)

type buildConfig struct {
	workers     int
	excludeSelf bool
}

// WithWorkers bounds the number of rows computed concurrently.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(c *buildConfig) {
		c.workers = n
	}
}

// WithoutSelfLoops zeroes the diagonal so a sentence's similarity to itself
// does not count toward its own centrality.
func WithoutSelfLoops() Option {
	return func(c *buildConfig) {
		c.excludeSelf = true
	}
}

// BuildSimilarity computes the similarity matrix of the given unit-norm (or
// zero) vectors.
func BuildSimilarity(ctx context.Context, vectors []embedding.SparseVector, opts ...Option) (*SimilarityMatrix, error) {
	cfg := buildConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.workers < 1 {
		cfg.workers = runtime.GOMAXPROCS(0)
	}

	n := len(vectors)
	m := &SimilarityMatrix{n: n, data: make([]float64, n*n)}

	zero := make([]bool, n)
	for i, vec := range vectors {
		zero[i] = vec.IsZero()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)

	// Row i owns cells (i, j) and (j, i) for j >= i, so writes never overlap.
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if zero[i] {
				return nil
			}
			if !cfg.excludeSelf {
				m.data[i*n+i] = 1
			}
			for j := i + 1; j < n; j++ {
				if zero[j] {
					continue
				}
				sim := clamp(embedding.Dot(vectors[i], vectors[j]))
				m.data[i*n+j] = sim
				m.data[j*n+i] = sim
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.WrapTransient(err, "SimilarityMatrix", "BuildSimilarity", "compute rows")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapTransient(err, "SimilarityMatrix", "BuildSimilarity", "compute rows")
	}

	return m, nil
}

// clamp keeps rounding error from pushing a cosine outside [0, 1].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Len returns the number of nodes (sentences).
func (m *SimilarityMatrix) Len() int {
	return m.n
}

// Weight returns the edge weight between nodes i and j.
func (m *SimilarityMatrix) Weight(i, j int) float64 {
	return m.data[i*m.n+j]
}

// Row returns a copy of row i.
func (m *SimilarityMatrix) Row(i int) []float64 {
	row := make([]float64, m.n)
	copy(row, m.data[i*m.n:(i+1)*m.n])
	return row
}

// RowSum returns the total outgoing weight of node i.
func (m *SimilarityMatrix) RowSum(i int) float64 {
	sum := 0.0
	for _, w := range m.data[i*m.n : (i+1)*m.n] {
		sum += w
	}
	return sum
}

// Dense returns the matrix as a freshly allocated slice of rows.
func (m *SimilarityMatrix) Dense() [][]float64 {
	rows := make([][]float64, m.n)
	for i := range rows {
		rows[i] = m.Row(i)
	}
	return rows
}
