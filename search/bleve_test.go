package search

import (
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/jonwraymond/appdiscovery/index"
)

func makeItems(names ...string) []index.Item {
	items := make([]index.Item, len(names))
	for i, name := range names {
		items[i] = index.Item{ID: name, DisplayName: name}
	}
	return items
}

func matchIDs(matches []index.Match) []string {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return ids
}

func TestBleveSearcher_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		items   []string
		keyword string
		want    []string
	}{
		{
			name:    "calculator",
			items:   []string{"Safari", "Terminal", "Calculator"},
			keyword: "cal",
			want:    []string{"Calculator"},
		},
		{
			name:    "duplicate notes",
			items:   []string{"Notes", "Mail", "Notes"},
			keyword: "not",
			want:    []string{"Notes", "Notes"},
		},
		{
			name:    "nine rune keyword",
			items:   []string{"Terminal", "Terminally Online"},
			keyword: "terminall",
			want:    []string{},
		},
		{
			name:    "empty keyword",
			items:   []string{"Safari"},
			keyword: "",
			want:    []string{},
		},
		{
			name:    "upper case keyword",
			items:   []string{"Safari", "Terminal"},
			keyword: "TERM",
			want:    []string{"Terminal"},
		},
		{
			name:    "frequency ranks first",
			items:   []string{"bat", "banana", "Ada"},
			keyword: "a",
			want:    []string{"banana", "Ada", "bat"},
		},
	}

	s := NewBleveSearcher(BleveConfig{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := s.Search(tt.keyword, 5, makeItems(tt.items...))
			if err != nil {
				t.Fatalf("Search error: %v", err)
			}
			if got := matchIDs(matches); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.keyword, got, tt.want)
			}
		})
	}
}

func TestBleveSearcher_MatchesNgramSearcher(t *testing.T) {
	items := makeItems(
		"Safari", "Terminal", "Calculator", "Notes", "", "System Settings",
		"App Store", "Notes", "Preview", "TextEdit", "Photo Booth", "Podcasts",
		"İstanbul", "Straße", "ΣΟΦΙΑ", "Ångström",
	)
	keywords := []string{
		"a", "s", "no", "te", "set", "pre", "oo", "store", "xyz", "terminal", "settings",
		"stanbul", "straße", "ß", "σοφ", "ΣΟΦΙΑ", "ång", "ö",
		index.Fold("İstanbul"), index.Fold("İs"),
	}

	bleveSearcher := NewBleveSearcher(BleveConfig{})
	ngramSearcher := index.NewNgramSearcher(index.Options{})

	for _, kw := range keywords {
		for _, limit := range []int{1, 5, 20} {
			got, err := bleveSearcher.Search(kw, limit, items)
			if err != nil {
				t.Fatalf("bleve Search(%q) error: %v", kw, err)
			}
			want, err := ngramSearcher.Search(kw, limit, items)
			if err != nil {
				t.Fatalf("ngram Search(%q) error: %v", kw, err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Search(%q, %d): bleve %v != ngram %v", kw, limit, matchIDs(got), matchIDs(want))
			}
		}
	}
}

func TestBleveSearcher_FoldedPrefixes(t *testing.T) {
	s := NewBleveSearcher(BleveConfig{})
	for _, name := range []string{"İstanbul", "Straße", "ΣΟΦΙΑ"} {
		items := makeItems("Safari", name)
		folded := []rune(index.Fold(name))
		for n := 1; n <= len(folded) && n <= index.DefaultMaxTokenWidth; n++ {
			kw := string(folded[:n])
			matches, err := s.Search(kw, 5, items)
			if err != nil {
				t.Fatalf("Search(%q) error: %v", kw, err)
			}
			if !slices.Contains(matchIDs(matches), name) {
				t.Errorf("Search(%q) = %v, want %s among matches", kw, matchIDs(matches), name)
			}
		}
	}
}

func TestBleveSearcher_CustomWidth(t *testing.T) {
	s := NewBleveSearcher(BleveConfig{MaxTokenWidth: 3})
	items := makeItems("Calculator")

	matches, err := s.Search("cal", 5, items)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("expected 1 match for width 3, got %d", len(matches))
	}

	matches, err = s.Search("calc", 5, items)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no match for 4 runes with width 3, got %d", len(matches))
	}
}

func TestBleveSearcher_InvalidWidth(t *testing.T) {
	s := NewBleveSearcher(BleveConfig{MaxTokenWidth: -1})

	_, err := s.Search("cal", 5, makeItems("Calculator"))
	if !errors.Is(err, index.ErrInvalidTokenWidth) {
		t.Fatalf("expected ErrInvalidTokenWidth, got %v", err)
	}
}

func TestBleveSearcher_NoIndexableItems(t *testing.T) {
	s := NewBleveSearcher(BleveConfig{})

	for _, items := range [][]index.Item{nil, {{ID: "blank"}}} {
		matches, err := s.Search("a", 5, items)
		if err != nil {
			t.Fatalf("Search error: %v", err)
		}
		if len(matches) != 0 {
			t.Errorf("expected no matches, got %v", matchIDs(matches))
		}
	}
}

func TestBleveSearcher_ZeroLimit(t *testing.T) {
	s := NewBleveSearcher(BleveConfig{})

	matches, err := s.Search("a", 0, makeItems("Safari"))
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestBleveSearcher_ImplementsSearcher(t *testing.T) {
	var _ index.Searcher = (*BleveSearcher)(nil)
}

func BenchmarkBleveSearcher(b *testing.B) {
	s := NewBleveSearcher(BleveConfig{})
	items := makeItems("Safari", "Terminal", "Calculator", "Notes", "System Settings", "App Store")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := s.Search("set", 5, items); err != nil {
			b.Fatal(err)
		}
	}
}
