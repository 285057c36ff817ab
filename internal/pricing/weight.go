package pricing

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pawcompare/backend/internal/domain"
)

// unitVocabulary is the single source of truth for package-size units.
// Two-letter tokens come first so "kg" wins over "g" and "ml" over "l".
const unitVocabulary = `kg|ml|lb|oz|g|l`

// Package-level compiled regex patterns for performance
var (
	// "4 x 100g" / "4x100g": effective weight is count * value
	multipackRegex = regexp.MustCompile(`(\d+)\s*x\s*(\d+(?:[.,]\d+)?)\s*(` + unitVocabulary + `)\b`)
	// "400g", "1,5kg": number immediately followed by a unit
	attachedUnitRegex = regexp.MustCompile(`(\d+(?:[.,]\d+)?)(` + unitVocabulary + `)\b`)
	// "400 g", "1.5 kg": number, whitespace, unit
	spacedUnitRegex = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s+(` + unitVocabulary + `)\b`)
	// last-resort bare integer
	bareNumberRegex = regexp.MustCompile(`\d+`)

	// weight token scan over raw free text, multipack form first
	multipackTokenRegex = regexp.MustCompile(`(?i)\d+\s*x\s*\d+(?:[.,]\d+)?\s*(?:` + unitVocabulary + `)\b`)
	weightTokenRegex    = regexp.MustCompile(`(?i)\d+(?:[.,]\d+)?\s*(?:` + unitVocabulary + `)\b`)
)

// gramsPerUnit converts a parsed unit to grams. Liquids use the pet-food
// density approximation 1 L ≈ 1 kg.
var gramsPerUnit = map[domain.Unit]float64{
	domain.UnitKilogram:   1000,
	domain.UnitGram:       1,
	domain.UnitPound:      453.592,
	domain.UnitOunce:      28.3495,
	domain.UnitLiter:      1000,
	domain.UnitMilliliter: 1,
}

// ParseWeight extracts a weight from a free-text size string. It returns nil
// when the string holds no usable weight; parsing never fails hard, callers
// treat nil as "no weight" and move on.
//
// Pattern precedence: multipack ("4 x 100g" -> 400g), number immediately
// followed by a unit, number-space-unit. When no unit-bearing pattern matches,
// the first bare integer is read as grams. That fallback is deliberately lossy
// and is known to misread strings like article codes.
func ParseWeight(s string) *domain.WeightSpec {
	if s == "" {
		return nil
	}
	norm := strings.Join(strings.Fields(strings.ToLower(s)), " ")

	if m := multipackRegex.FindStringSubmatch(norm); m != nil {
		count, err := strconv.ParseFloat(m[1], 64)
		value, verr := parseDecimal(m[2])
		if err == nil && verr == nil {
			return newWeightSpec(count*value, m[3])
		}
	}
	if m := attachedUnitRegex.FindStringSubmatch(norm); m != nil {
		if value, err := parseDecimal(m[1]); err == nil {
			return newWeightSpec(value, m[2])
		}
	}
	if m := spacedUnitRegex.FindStringSubmatch(norm); m != nil {
		if value, err := parseDecimal(m[1]); err == nil {
			return newWeightSpec(value, m[2])
		}
	}
	if m := bareNumberRegex.FindString(norm); m != "" {
		if value, err := strconv.ParseFloat(m, 64); err == nil {
			return newWeightSpec(value, "g")
		}
	}
	return nil
}

// ExtractWeightToken returns the raw weight substring found in free text
// (e.g. "15kg" out of "Royal Canin Adult Medium 15kg"), or "" when the text
// carries no unit-bearing token. Used to resolve a weight string from product
// names when the structured detail field is absent.
func ExtractWeightToken(s string) string {
	if m := multipackTokenRegex.FindString(s); m != "" {
		return m
	}
	return weightTokenRegex.FindString(s)
}

// ResolveWeightString picks the weight string for a listing: the structured
// detail field when present, otherwise a scan of the product name.
func ResolveWeightString(p domain.ProductListing) string {
	if p.DetailsWeight != "" {
		return p.DetailsWeight
	}
	return ExtractWeightToken(p.Name)
}

// Grams converts a weight to grams. An unrecognized unit returns the raw
// value unchanged rather than failing; callers can detect the degraded case
// with KnownUnit and log it.
func Grams(w domain.WeightSpec) float64 {
	if factor, ok := gramsPerUnit[w.Unit]; ok {
		return w.Value * factor
	}
	return w.Value
}

// KnownUnit reports whether the unit has an exact grams conversion.
func KnownUnit(u domain.Unit) bool {
	_, ok := gramsPerUnit[u]
	return ok
}

// parseDecimal parses a numeric token, accepting comma decimals ("1,5").
func parseDecimal(token string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(token, ",", "."), 64)
}

// newWeightSpec rejects non-finite and non-positive values.
func newWeightSpec(value float64, unit string) *domain.WeightSpec {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return nil
	}
	return &domain.WeightSpec{Value: value, Unit: domain.Unit(unit)}
}
