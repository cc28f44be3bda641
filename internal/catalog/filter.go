// Package catalog holds the pure derivations the presentation layer runs on every
// state change: league filtering, category extraction and badge resolution.
package catalog

import (
	"sort"
	"strings"

	"github.com/preston-bernstein/league-catalog/internal/domain/leagues"
)

// FilterState is the user's current search text and category selection.
// An empty Category means no category filter.
type FilterState struct {
	Search   string
	Category string
}

// IsZero reports whether no filter is active.
func (s FilterState) IsZero() bool {
	return s.Search == "" && s.Category == ""
}

// Filter returns the leagues matching state, preserving input order. The result is
// always a new slice.
//
// A league matches when Search is a case-insensitive substring of its display name
// or non-empty alternate name, and Category is empty or equals its category exactly.
func Filter(list []leagues.League, state FilterState) []leagues.League {
	needle := strings.ToLower(state.Search)
	out := make([]leagues.League, 0, len(list))
	for _, l := range list {
		if state.Category != "" && l.Category != state.Category {
			continue
		}
		if needle != "" && !matchesSearch(l, needle) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func matchesSearch(l leagues.League, needle string) bool {
	if strings.Contains(strings.ToLower(l.DisplayName), needle) {
		return true
	}
	return l.AlternateName != "" && strings.Contains(strings.ToLower(l.AlternateName), needle)
}

// DistinctCategories returns the categories present in list, sorted ascending and
// compared case-sensitively.
func DistinctCategories(list []leagues.League) []string {
	seen := make(map[string]struct{}, 16)
	out := make([]string, 0, 16)
	for _, l := range list {
		if _, ok := seen[l.Category]; ok {
			continue
		}
		seen[l.Category] = struct{}{}
		out = append(out, l.Category)
	}
	sort.Strings(out)
	return out
}
