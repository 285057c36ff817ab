package pricing

import (
	"regexp"
	"strings"

	"github.com/pawcompare/backend/internal/domain"
)

// DefaultSimilarityThreshold is the Jaccard similarity two weight-stripped
// names must exceed to be considered the same base product. Business policy,
// not a derived constant.
const DefaultSimilarityThreshold = 0.8

// stripWeightRegex removes size tokens from product names: a number
// immediately followed by a unit, then a space or end of string. Shares the
// unit vocabulary with the weight parser.
var stripWeightRegex = regexp.MustCompile(`(?i)\d+(?:[.,]\d+)?(?:` + unitVocabulary + `)(\s|$)`)

// MatcherConfig holds configuration for the similarity matcher
type MatcherConfig struct {
	SimilarityThreshold float64
}

// Matcher decides whether two differently-sized listings are the same base
// product. Matching is symmetric and free of side effects.
type Matcher struct {
	similarityThreshold float64
}

// NewMatcher creates a matcher with the given configuration
func NewMatcher(config MatcherConfig) *Matcher {
	threshold := config.SimilarityThreshold
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	return &Matcher{similarityThreshold: threshold}
}

// SameBaseProduct reports whether a and b are size variants of one base
// product: identical brand plus equal or sufficiently similar names once
// weight tokens are stripped.
//
// Brand comparison is case-sensitive by choice: persisted groups are keyed by
// the raw brand string, and loosening equality here would fork the keyspace
// for already-stored groups.
func (m *Matcher) SameBaseProduct(a, b domain.ProductListing) bool {
	if a.Name == "" || b.Name == "" || a.Brand == "" || b.Brand == "" {
		return false
	}
	if a.Brand != b.Brand {
		return false
	}

	strippedA := StripWeightTokens(a.Name)
	strippedB := StripWeightTokens(b.Name)
	if strippedA == strippedB {
		return true
	}

	return jaccard(tokenSet(strippedA), tokenSet(strippedB)) > m.similarityThreshold
}

// StripWeightTokens removes size tokens ("15kg", "2x400g" leaves "2x") from a
// product name and collapses the remaining whitespace. The result doubles as
// the group's base product name.
func StripWeightTokens(name string) string {
	stripped := stripWeightRegex.ReplaceAllString(name, " ")
	return strings.TrimSpace(strings.Join(strings.Fields(stripped), " "))
}

// tokenSet splits a string into its set of lowercase words
func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(s)) {
		set[word] = true
	}
	return set
}

// jaccard computes intersection-over-union of two token sets. Two empty sets
// are not similar (0/0 counts as 0).
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for token := range a {
		if b[token] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
