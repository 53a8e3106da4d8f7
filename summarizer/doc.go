// Package summarizer runs the LexRank pipeline end to end and assembles the
// extractive summary.
//
// A call to Summarize segments the text, builds a per-call vocabulary,
// vectorizes every sentence with smoothed TF-IDF, builds the cosine
// similarity graph, ranks the sentences by PageRank centrality and selects
// the top max(1, floor(N*ratio)) sentences. The selected sentences are
// emitted in their original order joined by single spaces.
//
// Nothing is cached between calls. A Summarizer is safe for concurrent use
// once constructed.
//
// Basic usage:
//
//	s, err := summarizer.New(segment.NewRuleSegmenter(), summarizer.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	res, err := s.Summarize(ctx, text, 0.3)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.SummaryText)
//
// Documents with fewer than two sentences short-circuit: the input is
// returned unchanged as both summary and highlighted text and the result
// State is StateTrivial.
//
// Ranking ties default to descending sentence text for parity with the
// reference behavior. TieBreakIndex orders ties by original position
// instead. Highlighting defaults to splicing markers at each selected
// sentence's character span. HighlightReplaceAll reproduces the legacy
// global substring replacement, which also marks duplicate occurrences.
package summarizer
