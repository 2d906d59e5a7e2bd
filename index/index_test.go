package index

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func makeItems(names ...string) []Item {
	items := make([]Item, len(names))
	for i, name := range names {
		items[i] = Item{ID: name, DisplayName: name}
	}
	return items
}

func mustBuild(t *testing.T, items []Item, opts ...Options) *Index {
	t.Helper()
	idx, err := Build(items, opts...)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return idx
}

func matchIDs(matches []Match) []string {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return ids
}

// ============================================================
// Tokenizer
// ============================================================

func TestTokenize_Notes(t *testing.T) {
	tokens := Tokenize("Notes", 8)

	var got []string
	for _, tok := range tokens {
		got = append(got, tok.Text)
	}
	want := []string{
		"n", "no", "not", "note", "notes",
		"o", "ot", "ote", "otes",
		"t", "te", "tes",
		"e", "es",
		"s",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokenize(Notes) = %v, want %v", got, want)
	}
	if tokens[5].Offset != 1 {
		t.Errorf("expected offset 1 for %q, got %d", tokens[5].Text, tokens[5].Offset)
	}
}

func TestTokenize_Count(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  int
	}{
		{name: "empty", input: "", width: 8, want: 0},
		{name: "single rune", input: "a", width: 8, want: 1},
		{name: "shorter than width", input: "Safari", width: 8, want: 21},
		{name: "longer than width", input: "Calculator", width: 8, want: 52},
		{name: "width one", input: "Terminal", width: 1, want: 8},
		{name: "zero width", input: "Terminal", width: 0, want: 0},
		{name: "multibyte runes", input: "Café", width: 8, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := len(Tokenize(tt.input, tt.width))
			if got != tt.want {
				t.Errorf("len(Tokenize(%q, %d)) = %d, want %d", tt.input, tt.width, got, tt.want)
			}
			if tt.input != "" && tt.width > 0 {
				if n := tokenCount(len([]rune(tt.input)), tt.width); n != tt.want {
					t.Errorf("tokenCount = %d, want %d", n, tt.want)
				}
			}
		})
	}
}

func TestTokenize_FoldsCase(t *testing.T) {
	for _, tok := range Tokenize("ABC", 8) {
		if tok.Text != strings.ToLower(tok.Text) {
			t.Errorf("token %q is not folded", tok.Text)
		}
	}
}

func TestOccurrences(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		keyword string
		want    []int
	}{
		{name: "prefix", input: "Calculator", keyword: "cal", want: []int{0}},
		{name: "overlapping", input: "aaaa", keyword: "aa", want: []int{0, 1, 2}},
		{name: "case folded", input: "BaNaNa", keyword: "AN", want: []int{1, 3}},
		{name: "absent", input: "Safari", keyword: "xyz", want: nil},
		{name: "empty keyword", input: "Safari", keyword: "", want: nil},
		{name: "too wide", input: "Terminalling", keyword: "terminall", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Occurrences(tt.input, tt.keyword, DefaultMaxTokenWidth)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Occurrences(%q, %q) = %v, want %v", tt.input, tt.keyword, got, tt.want)
			}
		})
	}
}

// ============================================================
// Index construction
// ============================================================

func TestBuild_PostingFrequencyAndPositions(t *testing.T) {
	idx := mustBuild(t, makeItems("Banana", "Bandana"))

	postings := idx.Postings("an")
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings for 'an', got %d", len(postings))
	}

	first := postings[0]
	if first.Ordinal != 0 || first.Freq != 2 {
		t.Errorf("Banana posting = %+v, want ordinal 0 freq 2", first)
	}
	if !reflect.DeepEqual(first.Positions, []int{1, 3}) {
		t.Errorf("Banana positions = %v, want [1 3]", first.Positions)
	}

	second := postings[1]
	if second.Ordinal != 1 || second.Freq != 2 {
		t.Errorf("Bandana posting = %+v, want ordinal 1 freq 2", second)
	}
	if !reflect.DeepEqual(second.Positions, []int{1, 4}) {
		t.Errorf("Bandana positions = %v, want [1 4]", second.Positions)
	}
}

func TestBuild_EmptyNameIsSkipped(t *testing.T) {
	items := []Item{
		{ID: "blank", DisplayName: ""},
		{ID: "Mail", DisplayName: "Mail"},
	}

	idx := mustBuild(t, items)
	if idx.Skipped() != 1 {
		t.Errorf("expected 1 skipped item, got %d", idx.Skipped())
	}
	if idx.Len() != 2 {
		t.Errorf("expected Len 2, got %d", idx.Len())
	}
	if got := matchIDs(idx.Search("mail", 5)); !reflect.DeepEqual(got, []string{"Mail"}) {
		t.Errorf("expected [Mail], got %v", got)
	}
}

func TestBuild_InvalidTokenWidth(t *testing.T) {
	_, err := Build(makeItems("Safari"), Options{MaxTokenWidth: -1})
	if !errors.Is(err, ErrInvalidTokenWidth) {
		t.Fatalf("expected ErrInvalidTokenWidth, got %v", err)
	}
}

func TestBuild_DefaultTokenWidth(t *testing.T) {
	idx := mustBuild(t, makeItems("Safari"))
	if idx.MaxTokenWidth() != DefaultMaxTokenWidth {
		t.Errorf("expected width %d, got %d", DefaultMaxTokenWidth, idx.MaxTokenWidth())
	}
}

func TestBuild_Deterministic(t *testing.T) {
	items := makeItems("Safari", "Terminal", "Calculator", "Notes", "Notes")

	a := mustBuild(t, items)
	b := mustBuild(t, items)

	if !reflect.DeepEqual(a.postings, b.postings) {
		t.Error("two builds over the same items differ")
	}
}

func TestIndex_Item(t *testing.T) {
	idx := mustBuild(t, makeItems("Safari"))

	item, ok := idx.Item(0)
	if !ok || item.ID != "Safari" {
		t.Errorf("Item(0) = %+v, %v", item, ok)
	}
	if _, ok := idx.Item(1); ok {
		t.Error("expected Item(1) to be out of range")
	}
	if _, ok := idx.Item(-1); ok {
		t.Error("expected Item(-1) to be out of range")
	}
}

// ============================================================
// Query engine
// ============================================================

func TestSearch_Scenarios(t *testing.T) {
	tests := []struct {
		name    string
		items   []string
		keyword string
		want    []string
	}{
		{
			name:    "prefix of one app",
			items:   []string{"Safari", "Terminal", "Calculator"},
			keyword: "cal",
			want:    []string{"Calculator"},
		},
		{
			name:    "keyword case is folded",
			items:   []string{"Safari", "Terminal", "Calculator"},
			keyword: "CAL",
			want:    []string{"Calculator"},
		},
		{
			name:    "duplicate names keep list order",
			items:   []string{"Mail", "Notes", "Safari", "Notes"},
			keyword: "not",
			want:    []string{"Notes", "Notes"},
		},
		{
			name:    "nine runes never match",
			items:   []string{"Terminal", "Terminally Online"},
			keyword: "terminall",
			want:    []string{},
		},
		{
			name:    "eight runes match",
			items:   []string{"Terminal", "Terminally Online"},
			keyword: "terminal",
			want:    []string{"Terminal", "Terminally Online"},
		},
		{
			name:    "empty keyword",
			items:   []string{"Safari", "Terminal"},
			keyword: "",
			want:    []string{},
		},
		{
			name:    "no match",
			items:   []string{"Safari", "Terminal"},
			keyword: "xcode",
			want:    []string{},
		},
		{
			name:    "keyword with space",
			items:   []string{"System Settings", "Settings"},
			keyword: "m s",
			want:    []string{"System Settings"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := mustBuild(t, makeItems(tt.items...))
			got := matchIDs(idx.Search(tt.keyword, 5))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Search(%q) = %v, want %v", tt.keyword, got, tt.want)
			}
		})
	}
}

func TestSearch_NonzeroScore(t *testing.T) {
	idx := mustBuild(t, makeItems("Safari", "Terminal", "Calculator"))

	matches := idx.Search("cal", 5)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Score <= 0 {
		t.Errorf("expected positive score, got %v", matches[0].Score)
	}
	if !reflect.DeepEqual(matches[0].Positions, []int{0}) {
		t.Errorf("expected positions [0], got %v", matches[0].Positions)
	}
}

func TestSearch_ExactSubstringProperty(t *testing.T) {
	names := []string{"Safari", "Terminal", "Calculator", "System Settings", "Notes", "App Store", "Ü-Bahn"}
	items := makeItems(names...)
	idx := mustBuild(t, items)

	for ordinal, name := range names {
		runes := []rune(Fold(name))
		for start := range runes {
			for width := 1; width <= DefaultMaxTokenWidth && start+width <= len(runes); width++ {
				keyword := string(runes[start : start+width])
				found := false
				for _, m := range idx.Search(keyword, len(items)) {
					if m.Ordinal == ordinal {
						found = true
						break
					}
				}
				if !found {
					t.Fatalf("Search(%q) did not return %q", keyword, name)
				}
			}
		}
	}
}

func TestSearch_LengthBoundaryProperty(t *testing.T) {
	items := makeItems("Calculator Calculator", "Terminal Terminal", "aaaaaaaaaaaaaaaa")
	idx := mustBuild(t, items)

	keywords := []string{"calculato", "terminal ", "aaaaaaaaa", "aaaaaaaaaaaaaaaa", "CALCULATOR"}
	for _, kw := range keywords {
		if got := idx.Search(kw, 10); len(got) != 0 {
			t.Errorf("Search(%q) = %v, want empty", kw, matchIDs(got))
		}
	}
}

func TestSearch_CustomTokenWidth(t *testing.T) {
	idx := mustBuild(t, makeItems("Calculator"), Options{MaxTokenWidth: 3})

	if got := idx.Search("cal", 5); len(got) != 1 {
		t.Errorf("expected 'cal' to match with width 3, got %d", len(got))
	}
	if got := idx.Search("calc", 5); len(got) != 0 {
		t.Errorf("expected 'calc' to miss with width 3, got %d", len(got))
	}
}

func TestSearch_Deterministic(t *testing.T) {
	items := makeItems("Notes", "Notion", "Keynote", "Notes", "Nota")
	idx := mustBuild(t, items)

	first := idx.Search("no", 5)
	for i := 0; i < 10; i++ {
		again := mustBuild(t, items).Search("no", 5)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, matchIDs(first), matchIDs(again))
		}
	}
}

func TestSearch_MonotonicRanking(t *testing.T) {
	// "bat" comes first in the list but has fewer occurrences of "a".
	idx := mustBuild(t, makeItems("bat", "banana", "Ada"))

	matches := idx.Search("a", 5)
	got := matchIDs(matches)
	want := []string{"banana", "Ada", "bat"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Search(a) = %v, want %v", got, want)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Freq < matches[i].Freq {
			t.Errorf("freq %d ranked above freq %d", matches[i-1].Freq, matches[i].Freq)
		}
		if matches[i-1].Score < matches[i].Score {
			t.Errorf("scores not descending: %v", matches)
		}
	}
}

func TestSearch_LimitRanksFullCandidateSet(t *testing.T) {
	var names []string
	for i := 0; i < 10; i++ {
		names = append(names, fmt.Sprintf("x%d", i))
	}
	// Highest frequencies come last in the list.
	names = append(names, "xx1", "xxx", "xxx2")
	idx := mustBuild(t, makeItems(names...))

	got := matchIDs(idx.Search("x", 2))
	want := []string{"xxx", "xxx2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Search(x, 2) = %v, want %v", got, want)
	}
}

func TestSearch_LimitRespected(t *testing.T) {
	idx := mustBuild(t, makeItems("a1", "a2", "a3", "a4", "a5", "a6", "a7"))

	for _, limit := range []int{-1, 0, 1, 5, 100} {
		got := idx.Search("a", limit)
		bound := limit
		if bound < 0 {
			bound = 0
		}
		if len(got) > bound {
			t.Errorf("limit %d returned %d results", limit, len(got))
		}
	}
	if got := idx.Search("a", 5); len(got) != 5 {
		t.Errorf("expected 5 results, got %d", len(got))
	}
}

func TestScore(t *testing.T) {
	if Score(0, 1, 10) != 0 {
		t.Error("zero frequency should score 0")
	}
	if Score(1, 0, 10) != 0 {
		t.Error("zero document frequency should score 0")
	}
	prev := 0.0
	for freq := 1; freq <= 20; freq++ {
		s := Score(freq, 3, 10)
		if s <= prev {
			t.Fatalf("Score not strictly increasing at freq %d: %v <= %v", freq, s, prev)
		}
		prev = s
	}
	if Score(1, 10, 10) <= 0 {
		t.Error("a token present in every item should still score above 0")
	}
	if Score(1, 5, 2) <= 0 {
		t.Error("docCount below docFreq should be clamped")
	}
}

func TestRank_TieBreakByOrdinal(t *testing.T) {
	matches := []Match{
		{Ordinal: 2, ID: "c", Score: 1},
		{Ordinal: 0, ID: "a", Score: 1},
		{Ordinal: 1, ID: "b", Score: 2},
	}
	got := matchIDs(Rank(matches, 10))
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rank = %v, want %v", got, want)
	}
}

// ============================================================
// Searcher
// ============================================================

func TestNgramSearcher(t *testing.T) {
	var s Searcher = NewNgramSearcher(Options{})

	matches, err := s.Search("term", 5, makeItems("Safari", "Terminal"))
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if got := matchIDs(matches); !reflect.DeepEqual(got, []string{"Terminal"}) {
		t.Errorf("expected [Terminal], got %v", got)
	}
}

func TestNgramSearcher_InvalidOptions(t *testing.T) {
	s := NewNgramSearcher(Options{MaxTokenWidth: -3})

	_, err := s.Search("term", 5, makeItems("Terminal"))
	if !errors.Is(err, ErrInvalidTokenWidth) {
		t.Fatalf("expected ErrInvalidTokenWidth, got %v", err)
	}
}

func TestNgramSearcher_ConcurrentUse(t *testing.T) {
	s := NewNgramSearcher(Options{})
	items := makeItems("Safari", "Terminal", "Calculator", "Notes")

	done := make(chan []string, 8)
	for i := 0; i < 8; i++ {
		go func() {
			matches, err := s.Search("a", 5, items)
			if err != nil {
				done <- nil
				return
			}
			done <- matchIDs(matches)
		}()
	}

	want := []string{"Safari", "Calculator", "Terminal"}
	for i := 0; i < 8; i++ {
		if got := <-done; !reflect.DeepEqual(got, want) {
			t.Errorf("concurrent search = %v, want %v", got, want)
		}
	}
}
