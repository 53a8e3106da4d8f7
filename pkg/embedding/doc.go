// Package embedding turns sentences into sparse TF-IDF term vectors and
// provides the vector arithmetic used to compare them.
//
// Vectors are SparseVector values indexed by vocabulary term id. Every vector
// produced by TFIDFVectorizer is either L2-normalized (norm 1 within float64
// rounding) or the zero vector, so the dot product of two vectors is already
// their cosine similarity.
//
// Basic usage:
//
//	vocab := vocabulary.Build(sentences, nil)
//	vectors, err := embedding.NewTFIDFVectorizer().Vectorize(ctx, vocab)
//	if err != nil {
//	    return err
//	}
//	sim := embedding.Dot(vectors[0], vectors[1])
package embedding
