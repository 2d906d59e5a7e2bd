package search

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/ngram"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/jonwraymond/appdiscovery/index"
)

const (
	nameField       = "name"
	ngramFilterName = "name_ngram"
	analyzerName    = "name_ngram_analyzer"
)

// ErrIndexFailed wraps bleve failures while building or querying.
var ErrIndexFailed = errors.New("bleve index failed")

// BleveConfig configures a BleveSearcher.
type BleveConfig struct {
	// MaxTokenWidth is the widest n-gram indexed. Default: index.DefaultMaxTokenWidth.
	MaxTokenWidth int
}

// BleveSearcher implements index.Searcher on top of a per-call in-memory bleve index.
type BleveSearcher struct {
	config BleveConfig
}

// NewBleveSearcher creates a new bleve-backed searcher.
func NewBleveSearcher(cfg BleveConfig) *BleveSearcher {
	return &BleveSearcher{config: cfg}
}

// Search implements index.Searcher.
func (s *BleveSearcher) Search(keyword string, limit int, items []index.Item) ([]index.Match, error) {
	width, err := s.tokenWidth()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []index.Match{}, nil
	}

	term := index.Fold(keyword)
	if term == "" || len([]rune(term)) > width {
		return []index.Match{}, nil
	}

	ordinals, err := s.candidates(term, width, items)
	if err != nil {
		return nil, err
	}

	matches := make([]index.Match, 0, len(ordinals))
	for _, ordinal := range ordinals {
		item := items[ordinal]
		positions := index.Occurrences(item.DisplayName, term, width)
		if len(positions) == 0 {
			continue
		}
		matches = append(matches, index.Match{
			Ordinal:   ordinal,
			ID:        item.ID,
			Score:     index.Score(len(positions), len(ordinals), len(items)),
			Freq:      len(positions),
			Positions: positions,
		})
	}

	return index.Rank(matches, limit), nil
}

func (s *BleveSearcher) tokenWidth() (int, error) {
	switch {
	case s.config.MaxTokenWidth < 0:
		return 0, fmt.Errorf("%w: %d", index.ErrInvalidTokenWidth, s.config.MaxTokenWidth)
	case s.config.MaxTokenWidth == 0:
		return index.DefaultMaxTokenWidth, nil
	default:
		return s.config.MaxTokenWidth, nil
	}
}

// candidates indexes the items and returns the ordinals of every item whose
// name carries term as an n-gram.
func (s *BleveSearcher) candidates(term string, width int, items []index.Item) ([]int, error) {
	m, err := buildMapping(width)
	if err != nil {
		return nil, err
	}

	bidx, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexFailed, err)
	}
	defer func() {
		_ = bidx.Close()
	}()

	batch := bidx.NewBatch()
	indexed := 0
	for ordinal, item := range items {
		if item.DisplayName == "" {
			continue
		}
		doc := map[string]any{nameField: index.Fold(item.DisplayName)}
		if err := batch.Index(strconv.Itoa(ordinal), doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIndexFailed, err)
		}
		indexed++
	}
	if indexed == 0 {
		return nil, nil
	}
	if err := bidx.Batch(batch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexFailed, err)
	}

	q := bleve.NewTermQuery(term)
	q.SetField(nameField)
	req := bleve.NewSearchRequestOptions(q, indexed, 0, false)

	res, err := bidx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexFailed, err)
	}

	ordinals := make([]int, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ordinal, err := strconv.Atoi(hit.ID)
		if err != nil || ordinal < 0 || ordinal >= len(items) {
			continue
		}
		ordinals = append(ordinals, ordinal)
	}
	return ordinals, nil
}

// buildMapping returns a mapping whose name field is split into every n-gram
// of width 1..width. Names are indexed already folded with index.Fold.
func buildMapping(width int) (mapping.IndexMapping, error) {
	m := bleve.NewIndexMapping()

	err := m.AddCustomTokenFilter(ngramFilterName, map[string]any{
		"type": ngram.Name,
		"min":  1.0,
		"max":  float64(width),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: ngram filter: %v", ErrIndexFailed, err)
	}

	err = m.AddCustomAnalyzer(analyzerName, map[string]any{
		"type":          custom.Name,
		"tokenizer":     single.Name,
		"token_filters": []string{ngramFilterName},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: analyzer: %v", ErrIndexFailed, err)
	}

	nameMapping := bleve.NewTextFieldMapping()
	nameMapping.Analyzer = analyzerName
	nameMapping.Store = false
	nameMapping.IncludeInAll = false

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt(nameField, nameMapping)
	m.DefaultMapping = doc

	return m, nil
}
