package index

// Searcher builds an index over items and answers one keyword against it.
// Implementations must not retain items after Search returns.
type Searcher interface {
	Search(keyword string, limit int, items []Item) ([]Match, error)
}

// NgramSearcher is the default Searcher: Build followed by Index.Search.
type NgramSearcher struct {
	opts Options
}

// NewNgramSearcher creates a searcher that builds a fresh index per call.
func NewNgramSearcher(opts Options) *NgramSearcher {
	return &NgramSearcher{opts: opts}
}

// Search implements Searcher.
func (s *NgramSearcher) Search(keyword string, limit int, items []Item) ([]Match, error) {
	idx, err := Build(items, s.opts)
	if err != nil {
		return nil, err
	}
	return idx.Search(keyword, limit), nil
}
