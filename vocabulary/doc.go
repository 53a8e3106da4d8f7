// Package vocabulary builds the per-document term vocabulary used by the
// TF-IDF vectorizer.
//
// A Vocabulary assigns every distinct normalized term a stable integer id in
// first-seen order and records, for each sentence, how many times each term
// occurs in it. It is built once per document and discarded after
// vectorization; nothing is cached between documents.
//
// Tokenization is a configuration point. DefaultTokenizer normalizes text to
// NFKC, lowercases it, splits on anything that is not a letter, digit or
// combining mark, and drops tokens shorter than MinLength runes:
//
//	vocab := vocabulary.Build([]string{"Cats are mammals.", "Dogs are mammals too."}, nil)
//	vocab.Len()      // 5: cats, are, mammals, dogs, too
//	vocab.ID("are")  // 1, true
//
// A document whose sentences contain no recognizable terms yields an empty
// vocabulary; downstream stages turn that into all-zero vectors.
package vocabulary
