// Package similarity provides the 0-100 string similarity scores used by the
// matching pipeline. Every function is total: degenerate inputs score 0.
package similarity

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// Ratio returns the Levenshtein edit ratio between two strings, scaled to
// 0-100 and rounded. Either side empty scores 0.
func Ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	return int(math.Round(100 * (1 - float64(dist)/float64(maxLen))))
}

// TokenSortRatio sorts the whitespace tokens of both strings before taking
// the edit ratio, making the score insensitive to token order.
func TokenSortRatio(a, b string) int {
	return Ratio(sortTokens(a), sortTokens(b))
}

// NameScore is the token-order-insensitive similarity used for person
// names: the better of the plain and token-sorted ratios.
func NameScore(a, b string) int {
	r := Ratio(a, b)
	if ts := TokenSortRatio(a, b); ts > r {
		r = ts
	}
	return r
}

// JaroWinkler wraps smetrics with the conventional boost threshold and
// prefix size. Used only as a deterministic secondary ranking key; it never
// decides whether a match is adopted.
func JaroWinkler(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return smetrics.JaroWinkler(a, b, 0.7, 4)
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
