package scoring

import (
	"cmp"
	"slices"
)

// Rank orders items by score, highest first. Items with equal scores keep
// their input order. A positive limit truncates the result.
func Rank[T any](items []T, score func(T) float64, limit int) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(score(b), score(a))
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
