package index

// Posting records one item's occurrences of a token.
type Posting struct {
	Ordinal   int   // position of the item in the build input
	Freq      int   // occurrences of the token in the item's name
	Positions []int // rune offsets of each occurrence, ascending
}

// Index is an ephemeral token -> postings map over one item list.
// It is read-only once Build returns.
type Index struct {
	width    int
	items    []Item
	postings map[string][]Posting
	skipped  int
}

// Build tokenizes every item and returns the finished index.
//
// Items with an empty display name contribute no tokens and are counted by
// Skipped. The only error is an invalid option.
func Build(items []Item, opts ...Options) (*Index, error) {
	width, err := resolveOptions(opts).tokenWidth()
	if err != nil {
		return nil, err
	}

	idx := &Index{
		width:    width,
		items:    items,
		postings: make(map[string][]Posting),
	}

	// Per-item scratch map, reused across items.
	local := make(map[string]int)
	for ordinal, item := range items {
		if item.DisplayName == "" {
			idx.skipped++
			continue
		}

		clear(local)
		for _, tok := range Tokenize(item.DisplayName, width) {
			list := idx.postings[tok.Text]
			if at, ok := local[tok.Text]; ok {
				list[at].Freq++
				list[at].Positions = append(list[at].Positions, tok.Offset)
				continue
			}
			local[tok.Text] = len(list)
			idx.postings[tok.Text] = append(list, Posting{
				Ordinal:   ordinal,
				Freq:      1,
				Positions: []int{tok.Offset},
			})
		}
	}

	return idx, nil
}

// Len returns the number of items the index was built from, skipped ones included.
func (idx *Index) Len() int {
	return len(idx.items)
}

// Skipped returns how many items had nothing to tokenize.
func (idx *Index) Skipped() int {
	return idx.skipped
}

// Tokens returns the number of distinct tokens.
func (idx *Index) Tokens() int {
	return len(idx.postings)
}

// MaxTokenWidth returns the widest token this index holds.
func (idx *Index) MaxTokenWidth() int {
	return idx.width
}

// Item returns the input item at ordinal.
func (idx *Index) Item(ordinal int) (Item, bool) {
	if ordinal < 0 || ordinal >= len(idx.items) {
		return Item{}, false
	}
	return idx.items[ordinal], true
}

// Postings returns the postings for an already folded token, ordered by
// ordinal. The returned slice must not be modified.
func (idx *Index) Postings(token string) []Posting {
	return idx.postings[token]
}
