// Package graph builds the sentence similarity graph ranked by LexRank.
//
// The graph is a dense N×N SimilarityMatrix whose entry (i, j) is the cosine
// similarity of the TF-IDF vectors of sentences i and j. Every pair takes
// part, self loops included; nothing is pruned or thresholded. The matrix is
// symmetric, but PageRank walks it as a directed graph after row
// normalization.
//
// Conventions:
//   - entries lie in [0, 1]
//   - a zero vector has similarity 0 with everything, itself included
//   - the diagonal is exactly 1 for non-zero vectors unless self loops are
//     excluded with WithoutSelfLoops
//
// Rows are computed concurrently. The matrix is written once during
// BuildSimilarity and is read-only afterwards.
package graph
