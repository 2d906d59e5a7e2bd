// Package search provides a bleve-backed implementation of index.Searcher.
//
// It exists to:
//   - Offer a second, independently implemented backend for the n-gram lookup
//   - Keep the index package dependency-free while letting callers opt into
//     bleve's analysis pipeline
//
// # Usage
//
// The primary type is [BleveSearcher], which implements [index.Searcher]:
//
//	s := search.NewBleveSearcher(search.BleveConfig{})
//	matches, err := s.Search("cal", 5, items)
//
// # Analysis
//
// Every call builds an in-memory bleve index of names folded with [index.Fold].
// The name field is analyzed by a single-token tokenizer and an n-gram filter
// covering widths 1 through MaxTokenWidth. The keyword is run as one term query, so it
// matches exactly the items the index package would return.
//
// # Scoring
//
// Candidates found by bleve are re-scored with [index.Score] from their
// substring occurrences. Rankings, scores and tie-breaking are therefore
// identical to [index.NgramSearcher]; only the candidate lookup differs.
//
// # Thread Safety
//
// BleveSearcher holds no per-query state and is safe for concurrent use. The
// bleve index is created and closed within each Search call.
package search
