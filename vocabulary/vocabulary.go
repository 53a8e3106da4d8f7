package vocabulary

// Vocabulary maps normalized terms to dense integer ids and holds the raw
// per-sentence term counts for one document.
type Vocabulary struct {
	index  map[string]int
	terms  []string
	counts []map[int]int
}

// Build tokenizes every sentence and assigns ids in first-seen order.
// A nil tokenizer selects NewDefaultTokenizer().
func Build(sentences []string, tok Tokenizer) *Vocabulary {
	if tok == nil {
		tok = NewDefaultTokenizer()
	}

	v := &Vocabulary{
		index:  make(map[string]int),
		counts: make([]map[int]int, len(sentences)),
	}

	for i, sentence := range sentences {
		counts := make(map[int]int)
		for _, term := range tok.Tokenize(sentence) {
			id, ok := v.index[term]
			if !ok {
				id = len(v.terms)
				v.index[term] = id
				v.terms = append(v.terms, term)
			}
			counts[id]++
		}
		v.counts[i] = counts
	}

	return v
}

// Len returns the number of distinct terms.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// Sentences returns the number of sentences the vocabulary was built from.
func (v *Vocabulary) Sentences() int {
	return len(v.counts)
}

// ID returns the id assigned to term.
func (v *Vocabulary) ID(term string) (int, bool) {
	id, ok := v.index[term]
	return id, ok
}

// Term returns the term with the given id, or "" when out of range.
func (v *Vocabulary) Term(id int) string {
	if id < 0 || id >= len(v.terms) {
		return ""
	}
	return v.terms[id]
}

// Counts returns the raw term counts of sentence i keyed by term id.
// The returned map must not be modified.
func (v *Vocabulary) Counts(i int) map[int]int {
	return v.counts[i]
}

// DocumentFrequency returns, for each term id, the number of sentences that
// contain the term at least once.
func (v *Vocabulary) DocumentFrequency() []int {
	df := make([]int, len(v.terms))
	for _, counts := range v.counts {
		for id := range counts {
			df[id]++
		}
	}
	return df
}
