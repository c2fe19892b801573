// Package fuzzy filters candidate lists by subsequence matching, the way
// interactive pickers narrow their options as the user types.
package fuzzy

import (
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Filter returns the candidates that match query, in their original order.
// An empty query matches everything.
func Filter(query string, candidates []string) []string {
	if query == "" {
		return candidates
	}

	q := []rune(fold(query))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if subsequence(q, fold(c)) {
			out = append(out, c)
		}
	}
	return out
}

// Match reports whether every character of query appears in candidate in
// order, ignoring case and accents.
func Match(query, candidate string) bool {
	if query == "" {
		return true
	}
	return subsequence([]rune(fold(query)), fold(candidate))
}

func subsequence(q []rune, s string) bool {
	i := 0
	for _, r := range s {
		if i == len(q) {
			break
		}
		if r == q[i] {
			i++
		}
	}
	return i == len(q)
}

// fold case-folds s and strips combining marks, so "Genève" and "GENEVE"
// compare equal.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(out)
}
