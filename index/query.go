package index

import (
	"math"
	"sort"
)

// bm25K1 controls how quickly repeated occurrences saturate.
const bm25K1 = 1.2

// Match is a ranked hit for a keyword.
type Match struct {
	Ordinal   int
	ID        string
	Score     float64
	Freq      int
	Positions []int
}

// Score returns the relevance of a token that occurs freq times in one name,
// given that docFreq of docCount items contain it. It is strictly increasing
// in freq and positive whenever freq > 0.
//
// The BM25 term-frequency curve is used without length normalization so that a
// longer name never outranks a name with more occurrences.
func Score(freq, docFreq, docCount int) float64 {
	if freq <= 0 || docFreq <= 0 {
		return 0
	}
	if docCount < docFreq {
		docCount = docFreq
	}
	idf := math.Log(1 + (float64(docCount-docFreq)+0.5)/(float64(docFreq)+0.5))
	tf := float64(freq) * (bm25K1 + 1) / (float64(freq) + bm25K1)
	return idf * tf
}

// Search looks up the folded keyword as a single token and returns at most
// limit matches ordered by score descending, then by input order.
//
// An empty keyword, a keyword wider than MaxTokenWidth, or limit <= 0 yields
// no matches.
func (idx *Index) Search(keyword string, limit int) []Match {
	if limit <= 0 {
		return []Match{}
	}
	term := Fold(keyword)
	if term == "" || termWidth(term) > idx.width {
		return []Match{}
	}

	postings := idx.postings[term]
	matches := make([]Match, 0, len(postings))
	for _, p := range postings {
		matches = append(matches, Match{
			Ordinal:   p.Ordinal,
			ID:        idx.items[p.Ordinal].ID,
			Score:     Score(p.Freq, len(postings), len(idx.items)),
			Freq:      p.Freq,
			Positions: p.Positions,
		})
	}

	return Rank(matches, limit)
}

// Rank sorts matches by score descending with ties in ordinal order, then
// truncates to limit. The full slice is ranked before truncation.
func Rank(matches []Match, limit int) []Match {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Ordinal < matches[j].Ordinal
	})
	if limit >= 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
