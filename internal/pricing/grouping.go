package pricing

import (
	"sort"
	"time"

	"github.com/pawcompare/backend/internal/domain"
)

// Mode selects the grouping strictness for the two call sites.
type Mode string

const (
	// LiveQuery keeps every cluster member as a variant (unpriced ones sort
	// last) and emits any group with at least one valid unit price, singletons
	// included. Used by the request handlers.
	LiveQuery Mode = "liveQuery"

	// BatchPersist drops members without a computable unit price and emits
	// only groups that still have at least two variants. Used by the
	// maintenance jobs before upserting group documents.
	BatchPersist Mode = "batchPersist"
)

// Grouper partitions product listings into base-product groups with computed
// unit prices, ranked variants and a best-value pick per group. It holds no
// mutable state and is safe for concurrent use.
type Grouper struct {
	matcher *Matcher
	now     func() time.Time
}

// NewGrouper creates a grouper around the given matcher. A nil matcher gets
// the default configuration.
func NewGrouper(matcher *Matcher) *Grouper {
	if matcher == nil {
		matcher = NewMatcher(MatcherConfig{})
	}
	return &Grouper{matcher: matcher, now: time.Now}
}

// Group clusters the listings into base-product groups. Greedy single pass:
// each unprocessed listing seeds a cluster and claims every later unprocessed
// listing the matcher accepts. Which listing becomes a seed follows input
// order only; callers may rely on the variant sort, not on seed choice.
//
// Malformed input is not an error: an empty or nil slice yields an empty
// result.
func (g *Grouper) Group(products []domain.ProductListing, mode Mode) []domain.ProductGroup {
	groups := make([]domain.ProductGroup, 0)
	if len(products) == 0 {
		return groups
	}

	processed := make([]bool, len(products))
	for i := range products {
		if processed[i] {
			continue
		}
		processed[i] = true
		seed := products[i]
		cluster := []domain.ProductListing{seed}

		for j := i + 1; j < len(products); j++ {
			if processed[j] {
				continue
			}
			if g.matcher.SameBaseProduct(seed, products[j]) {
				processed[j] = true
				cluster = append(cluster, products[j])
			}
		}

		if group, ok := g.buildGroup(seed, cluster, mode); ok {
			groups = append(groups, group)
		}
	}
	return groups
}

// buildGroup computes variants, ranks them and assembles the group document.
// ok is false when the cluster does not survive the mode's emission policy.
func (g *Grouper) buildGroup(seed domain.ProductListing, cluster []domain.ProductListing, mode Mode) (domain.ProductGroup, bool) {
	variants := make([]domain.Variant, 0, len(cluster))
	for _, p := range cluster {
		weightStr := ResolveWeightString(p)
		variant := domain.Variant{
			ProductID: p.ID,
			Size:      weightStr,
			Weight:    ParseWeight(weightStr),
			Price:     p.Price,
		}
		if value, ok := PricePerKilogram(p.Price, weightStr); ok {
			variant.UnitPrice = &domain.UnitPrice{Value: value, Unit: domain.UnitPriceUnit}
		}
		variants = append(variants, variant)
	}

	if mode == BatchPersist {
		kept := variants[:0]
		for _, v := range variants {
			if v.UnitPrice != nil {
				kept = append(kept, v)
			}
		}
		variants = kept
		if len(variants) < 2 {
			return domain.ProductGroup{}, false
		}
	}

	validPriced := 0
	for _, v := range variants {
		if v.UnitPrice != nil {
			validPriced++
		}
	}
	if validPriced < 1 {
		return domain.ProductGroup{}, false
	}

	// Ascending unit price, unpriced variants last; stable keeps input order
	// for equal unit prices.
	sort.SliceStable(variants, func(i, j int) bool {
		upI, upJ := variants[i].UnitPrice, variants[j].UnitPrice
		if upI == nil {
			return false
		}
		if upJ == nil {
			return true
		}
		return upI.Value < upJ.Value
	})

	group := domain.ProductGroup{
		BaseProductName: StripWeightTokens(seed.Name),
		Brand:           seed.Brand,
		Category:        seed.Category,
		PetType:         seed.PetType,
		Variants:        variants,
		VariantCount:    len(variants),
		LastUpdated:     g.now(),
	}

	if variants[0].UnitPrice != nil {
		variants[0].BestValue = true
		group.BestValueID = variants[0].ProductID
	}

	group.PriceRange = priceRange(variants)
	return group, true
}

// priceRange spans the raw prices of all variants and the unit prices of the
// valid-priced ones.
func priceRange(variants []domain.Variant) domain.PriceRange {
	var pr domain.PriceRange
	for i, v := range variants {
		if i == 0 || v.Price < pr.Min {
			pr.Min = v.Price
		}
		if i == 0 || v.Price > pr.Max {
			pr.Max = v.Price
		}
	}
	unitSeen := false
	for _, v := range variants {
		if v.UnitPrice == nil {
			continue
		}
		if !unitSeen || v.UnitPrice.Value < pr.UnitMin {
			pr.UnitMin = v.UnitPrice.Value
		}
		if !unitSeen || v.UnitPrice.Value > pr.UnitMax {
			pr.UnitMax = v.UnitPrice.Value
		}
		unitSeen = true
	}
	return pr
}
