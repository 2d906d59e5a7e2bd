// Package index provides the n-gram inverted index behind application search.
//
// An [Index] maps every case-folded substring of an item's display name, up to
// a bounded width, to the items containing it. It is built all at once from an
// ordered item list, answers single-token lookups, and is then thrown away:
// nothing is cached between queries.
//
// # Tokens
//
// A display name of rune length L produces every contiguous window of width
// 1 through [DefaultMaxTokenWidth] (configurable), clipped at the name
// boundaries:
//
//	"Notes" -> n, no, not, note, notes, o, ot, ote, otes, t, te, tes, e, es, s
//
// Repeated windows inside one name collapse into a single [Posting] whose
// frequency counts the occurrences and whose positions list every rune offset.
//
// # Usage
//
//	idx, err := index.Build(items)
//	if err != nil {
//	    return err
//	}
//	matches := idx.Search("cal", 5)
//
// A keyword is folded and looked up as one exact token. It is never split
// again, so a keyword wider than the configured token width matches nothing.
//
// # Ranking
//
// Matches are scored by [Score], which grows strictly with the frequency of the
// keyword inside a name. Ties keep the order of the input item list, and the
// whole candidate set is ranked before the limit is applied.
//
// # Pluggable Search
//
// [Searcher] abstracts build-and-query so callers can swap backends:
//
//	var s index.Searcher = index.NewNgramSearcher(index.Options{})
//	matches, err := s.Search("term", 5, items)
//
// The search package provides a bleve-backed implementation with identical
// results.
//
// # Thread Safety
//
// An Index is read-only after [Build] and safe for concurrent reads. Each
// query is expected to build its own Index, so no locking is involved.
package index
