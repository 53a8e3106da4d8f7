// Package pagerank computes eigenvector centrality on weighted graphs by
// power iteration.
package pagerank

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/c360/lexrank/errors"
)

// WeightedGraph is a graph with nodes 0..Len()-1 and non-negative edge weights.
// Weight(i, j) is the weight of the edge i -> j; 0 means no edge.
type WeightedGraph interface {
	Len() int
	Weight(i, j int) float64
}

// Config holds configuration for PageRank computation
type Config struct {
	// MaxIterations caps the number of power iterations (default: 100)
	MaxIterations int

	// DampingFactor is the probability of following an edge rather than
	// restarting uniformly at random (default: 0.85)
	DampingFactor float64

	// Tolerance is the L1 distance between successive score vectors below
	// which iteration stops (default: 1e-6)
	Tolerance float64
}

// DefaultConfig returns the standard PageRank configuration
func DefaultConfig() Config {
	return Config{
		MaxIterations: 100,
		DampingFactor: 0.85,
		Tolerance:     1e-6,
	}
}

// Validate checks that the configuration can drive a convergent iteration.
func (c Config) Validate() error {
	if c.MaxIterations < 1 {
		return errors.WrapFatal(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("max iterations %d must be at least 1", c.MaxIterations))
	}
	if c.DampingFactor < 0 || c.DampingFactor >= 1 || math.IsNaN(c.DampingFactor) {
		return errors.WrapFatal(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("damping factor %v must be in [0, 1)", c.DampingFactor))
	}
	if !(c.Tolerance > 0) {
		return errors.WrapFatal(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("tolerance %v must be positive", c.Tolerance))
	}
	return nil
}

// Result holds the results of PageRank computation
type Result struct {
	// Scores holds one score per node; the scores sum to 1
	Scores []float64

	// Ranked contains node indices sorted by score descending, ties by index
	Ranked []int

	// Iterations is the number of iterations actually run
	Iterations int

	// Converged indicates whether the L1 change fell below Tolerance
	Converged bool

	// Delta is the L1 change produced by the last iteration
	Delta float64
}

// Compute runs power iteration on g.
//
// Each row of g is normalized into a transition distribution
// p(i->j) = w(i,j) / Σk w(i,k). A node whose row sums to zero is dangling and
// distributes its score uniformly over all nodes. One synchronous step is
//
//	score'(j) = (1-d)/N + d * Σi score(i) * p(i->j)
//
// starting from the uniform vector. Running out of iterations is not an
// error, and neither is ctx ending early: both return the latest estimate
// with Converged false.
func Compute(ctx context.Context, g WeightedGraph, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := g.Len()
	if n == 0 {
		return &Result{
			Scores:    []float64{},
			Ranked:    []int{},
			Converged: true,
		}, nil
	}

	// Row-normalize once; dangling rows stay nil
	transition := make([][]float64, n)
	dangling := make([]int, 0)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		sum := 0.0
		for j := 0; j < n; j++ {
			row[j] = g.Weight(i, j)
			sum += row[j]
		}
		if sum <= 0 {
			dangling = append(dangling, i)
			continue
		}
		for j := range row {
			row[j] /= sum
		}
		transition[i] = row
	}

	nf := float64(n)
	d := cfg.DampingFactor
	teleport := (1.0 - d) / nf

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / nf
	}
	next := make([]float64, n)

	result := &Result{}

	for result.Iterations < cfg.MaxIterations {
		if ctx.Err() != nil {
			break
		}

		danglingMass := 0.0
		for _, i := range dangling {
			danglingMass += scores[i]
		}
		base := teleport + d*danglingMass/nf
		for j := range next {
			next[j] = base
		}

		for i, row := range transition {
			if row == nil || scores[i] == 0 {
				continue
			}
			share := d * scores[i]
			for j, p := range row {
				next[j] += share * p
			}
		}

		delta := 0.0
		for i := range scores {
			delta += math.Abs(next[i] - scores[i])
		}

		scores, next = next, scores
		result.Iterations++
		result.Delta = delta

		if delta < cfg.Tolerance {
			result.Converged = true
			break
		}
	}

	// The update preserves total mass; renormalize away rounding drift
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	if sum > 0 {
		for i := range scores {
			scores[i] /= sum
		}
	}

	ranked := make([]int, n)
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return scores[ranked[a]] > scores[ranked[b]]
	})

	result.Scores = scores
	result.Ranked = ranked
	return result, nil
}
