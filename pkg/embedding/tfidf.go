package embedding

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/c360/lexrank/errors"
	"github.com/c360/lexrank/vocabulary"
)

// IDF returns the smoothed inverse document frequency of a term that occurs
// in df of n sentences:
//
//	idf = ln((n+1)/(df+1)) + 1
//
// The +1 terms keep the weight strictly positive, so a term present in every
// sentence still contributes.
func IDF(n, df int) float64 {
	return math.Log(float64(n+1)/float64(df+1)) + 1
}

// TFIDFVectorizer converts the sentences of a Vocabulary into L2-normalized
// TF-IDF vectors.
//
// The raw weight of term t in sentence s is count(t, s) * idf(t). Each vector
// is divided by its Euclidean norm; sentences without recognized terms keep
// the zero vector. Sentences are vectorized in parallel, but every vector is
// computed in a fixed index order, so results are bit-identical across runs.
type TFIDFVectorizer struct {
	workers int
}

// VectorizerOption configures a TFIDFVectorizer.
type VectorizerOption func(*TFIDFVectorizer)

// WithWorkers bounds the number of sentences vectorized concurrently.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) VectorizerOption {
	return func(v *TFIDFVectorizer) {
		v.workers = n
	}
}

// NewTFIDFVectorizer creates a vectorizer.
func NewTFIDFVectorizer(opts ...VectorizerOption) *TFIDFVectorizer {
	v := &TFIDFVectorizer{}
	for _, opt := range opts {
		opt(v)
	}
	if v.workers < 1 {
		v.workers = runtime.GOMAXPROCS(0)
	}
	return v
}

// Vectorize returns one vector per sentence of vocab, in sentence order.
func (v *TFIDFVectorizer) Vectorize(ctx context.Context, vocab *vocabulary.Vocabulary) ([]SparseVector, error) {
	if vocab == nil {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "TFIDFVectorizer", "Vectorize", "nil vocabulary")
	}

	n := vocab.Sentences()
	df := vocab.DocumentFrequency()
	idf := make([]float64, len(df))
	for id, count := range df {
		idf[id] = IDF(n, count)
	}

	vectors := make([]SparseVector, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			vectors[i] = weigh(vocab.Counts(i), idf)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.WrapTransient(err, "TFIDFVectorizer", "Vectorize", "vectorize sentences")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapTransient(err, "TFIDFVectorizer", "Vectorize", "vectorize sentences")
	}

	return vectors, nil
}

// weigh builds the normalized TF-IDF vector of one sentence.
func weigh(counts map[int]int, idf []float64) SparseVector {
	weights := make(map[int]float64, len(counts))
	for id, count := range counts {
		if count > 0 {
			weights[id] = float64(count) * idf[id]
		}
	}

	vec := newSparseVector(weights)
	normalize(vec)
	return vec
}
