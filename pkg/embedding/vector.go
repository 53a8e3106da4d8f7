package embedding

import (
	"math"
	"sort"
)

// SparseVector is a term vector stored as parallel index/value slices.
// Indices are vocabulary term ids sorted ascending; Values are the
// corresponding non-negative weights. The zero value is the zero vector.
type SparseVector struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

// newSparseVector builds a vector from an id->weight map with indices sorted
// so that every reduction over the vector runs in a fixed order.
func newSparseVector(weights map[int]float64) SparseVector {
	if len(weights) == 0 {
		return SparseVector{}
	}

	indices := make([]int, 0, len(weights))
	for id := range weights {
		indices = append(indices, id)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, id := range indices {
		values[i] = weights[id]
	}

	return SparseVector{Indices: indices, Values: values}
}

// Len returns the number of stored (non-zero) components.
func (v SparseVector) Len() int {
	return len(v.Indices)
}

// IsZero reports whether every component is zero.
func (v SparseVector) IsZero() bool {
	for _, val := range v.Values {
		if val != 0 {
			return false
		}
	}
	return true
}

// Get returns the weight stored for term id, or 0.
func (v SparseVector) Get(id int) float64 {
	i := sort.SearchInts(v.Indices, id)
	if i < len(v.Indices) && v.Indices[i] == id {
		return v.Values[i]
	}
	return 0
}

// Norm computes the Euclidean (L2) norm of a vector.
//
// Formula: ||A|| = √(Σai²)
func Norm(v SparseVector) float64 {
	sum := 0.0
	for _, val := range v.Values {
		sum += val * val
	}
	return math.Sqrt(sum)
}

// Dot computes the dot product of two sparse vectors with a merge join over
// their sorted indices.
//
// Formula: A · B = Σ(ai × bi)
func Dot(a, b SparseVector) float64 {
	sum := 0.0
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			sum += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// CosineSimilarity computes the cosine similarity between two sparse vectors.
//
// Returns 0 when either vector is zero, since a zero vector has no direction.
// For non-negative vectors the result lies in [0, 1].
//
// Formula: cos(θ) = (A · B) / (||A|| × ||B||)
func CosineSimilarity(a, b SparseVector) float64 {
	normA := Norm(a)
	normB := Norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	return Dot(a, b) / (normA * normB)
}

// normalize scales v in place to unit length. Zero vectors are left as is.
func normalize(v SparseVector) {
	mag := Norm(v)
	if mag == 0 {
		return
	}
	for i := range v.Values {
		v.Values[i] /= mag
	}
}
