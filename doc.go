// Package lexrank is an extractive text summarizer built on LexRank: the
// sentences of a document are ranked by their centrality in a graph of
// TF-IDF cosine similarities and the top-ranked ones are returned in their
// original order.
//
// # Pipeline
//
// A summarization runs these stages, each in its own package:
//
//	segment      text -> sentence spans (rule based, abbreviation aware)
//	vocabulary   sentences -> tokens and first-seen term ids
//	pkg/embedding  tokens -> L2-normalized TF-IDF sparse vectors
//	graph        vectors -> symmetric cosine similarity matrix in [0, 1]
//	pkg/pagerank matrix -> stationary scores (damping 0.85, L1 tolerance 1e-6)
//	summarizer   scores -> ranking, selection, summary and highlighting
//
// idf is ln((N+1)/(df+1)) + 1, so a term present in every sentence still
// carries weight. PageRank spreads the mass of rows with no outgoing weight
// uniformly. A context that ends during ranking yields the current
// estimate, reported as not converged, instead of an error.
//
// # Selection
//
// A ratio r in (0, 1] keeps max(1, floor(N*r)) of N sentences. Equal scores
// are ordered by sentence text, descending, unless the tie_break setting
// asks for sentence order. Documents with fewer than two sentences are
// returned unchanged in the trivial state.
//
// # Transports
//
// The summarizer is a library first. The lexrank command exposes it three
// ways:
//
//	lexrank -ratio 0.3 article.txt          one document, text report
//	lexrank -output json a.txt b.txt        batch via pkg/worker, NDJSON
//	lexrank -serve -config lexrank.yaml     HTTP and NATS gateways
//
// With -serve, gateway/http answers POST /v1/summarize and GET /health, and
// gateway/nats answers requests on lexrank.summarize through a queue group.
// Both take {"text": "...", "ratio": 0.3} and return the Result JSON or an
// error body carrying the error class.
//
// # Errors
//
// Errors are classified by package errors as invalid (bad input, never
// retried), transient (retry may succeed) or fatal (configuration or
// programming errors). Gateways map the class to HTTP status codes and to
// the Lexrank-Error-Class NATS header.
//
// # Configuration
//
// Configuration is layered: built-in defaults, then each JSON or YAML file
// given with -config (validated against an embedded JSON Schema), then
// LEXRANK_* environment variables, then command line flags.
package lexrank
