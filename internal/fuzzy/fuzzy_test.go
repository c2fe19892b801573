package fuzzy

import (
	"slices"
	"testing"
)

func TestFilter(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		candidates []string
		want       []string
	}{
		{
			name:       "prefix",
			query:      "pari",
			candidates: []string{"Paris", "Marseille", "Prague"},
			want:       []string{"Paris"},
		},
		{
			name:       "subsequence keeps input order",
			query:      "ly",
			candidates: []string{"Paris Gare de Lyon", "Lyon Part-Dieu", "Lille"},
			want:       []string{"Paris Gare de Lyon", "Lyon Part-Dieu"},
		},
		{
			name:       "case insensitive",
			query:      "LYON",
			candidates: []string{"lyon perrache"},
			want:       []string{"lyon perrache"},
		},
		{
			name:       "accents folded",
			query:      "geneve",
			candidates: []string{"Genève Cornavin", "Gênes"},
			want:       []string{"Genève Cornavin"},
		},
		{
			name:       "date labels",
			query:      "mon jan",
			candidates: []string{"Sunday, January 4", "Monday, January 5", "Monday, February 2"},
			want:       []string{"Monday, January 5"},
		},
		{
			name:       "no match",
			query:      "xyz",
			candidates: []string{"Paris", "Lyon"},
			want:       []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(tt.query, tt.candidates)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Filter(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestFilter_EmptyQueryIsIdentity(t *testing.T) {
	lists := [][]string{
		nil,
		{},
		{"Paris", "Marseille", "Prague"},
		{"b", "a", "b"},
	}
	for _, l := range lists {
		if got := Filter("", l); !slices.Equal(got, l) {
			t.Errorf("Filter(\"\", %v) = %v", l, got)
		}
	}
}

func TestMatch(t *testing.T) {
	if !Match("", "anything") {
		t.Error("empty query should match")
	}
	if !Match("pgdl", "Paris Gare de Lyon") {
		t.Error("pgdl should match Paris Gare de Lyon")
	}
	if Match("lyonx", "Lyon") {
		t.Error("longer query should not match")
	}
	if Match("noyl", "Lyon") {
		t.Error("out of order characters should not match")
	}
}
