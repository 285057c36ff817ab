package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/pawcompare/backend/internal/domain"
	"github.com/pawcompare/backend/internal/pricing"
)

// minQueryLength is the shortest search pattern the compare endpoint accepts.
const minQueryLength = 3

// ComparisonService answers the live comparison queries: free-text search
// grouped into base products, best-value picks per brand, and the size
// breakdown for a single product. It runs the grouping engine in its
// permissive live-query mode.
type ComparisonService struct {
	products domain.ProductRepository
	grouper  *pricing.Grouper
}

// NewComparisonService creates a comparison service with dependencies
func NewComparisonService(products domain.ProductRepository, grouper *pricing.Grouper) *ComparisonService {
	if grouper == nil {
		grouper = pricing.NewGrouper(nil)
	}
	return &ComparisonService{products: products, grouper: grouper}
}

// CompareByName searches listings by name pattern and returns them grouped
// into base products with unit prices and best-value picks. An empty result
// is a valid answer, not an error.
func (s *ComparisonService) CompareByName(ctx context.Context, pattern string) ([]domain.ProductGroup, error) {
	if len(strings.TrimSpace(pattern)) < minQueryLength {
		return nil, domain.ErrQueryTooShort
	}

	products, err := s.products.SearchByName(ctx, pattern)
	if err != nil {
		return nil, err
	}

	return s.grouper.Group(products, pricing.LiveQuery), nil
}

// BestValueByBrand returns the best-value listing of every base-product group
// under the given brand, annotated with unit prices and sorted cheapest per
// kilogram first. Zero matching products yields an empty slice.
func (s *ComparisonService) BestValueByBrand(ctx context.Context, brand string) ([]domain.PricedListing, error) {
	if strings.TrimSpace(brand) == "" {
		return nil, domain.ErrInvalidRequest
	}

	products, err := s.products.ListByBrand(ctx, brand)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.ProductListing, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	picks := make([]domain.PricedListing, 0)
	for _, group := range s.grouper.Group(products, pricing.LiveQuery) {
		if group.BestValueID == "" {
			continue
		}
		for _, v := range group.Variants {
			if v.ProductID != group.BestValueID {
				continue
			}
			if p, ok := byID[v.ProductID]; ok {
				picks = append(picks, domain.PricedListing{ProductListing: p, UnitPrice: v.UnitPrice})
			}
			break
		}
	}

	sort.SliceStable(picks, func(i, j int) bool {
		upI, upJ := picks[i].UnitPrice, picks[j].UnitPrice
		if upI == nil {
			return false
		}
		if upJ == nil {
			return true
		}
		return upI.Value < upJ.Value
	})

	return picks, nil
}

// SizeComparison returns the group of size variants the given product belongs
// to. Unknown product ids surface ErrProductNotFound; a product whose peers
// cannot be grouped still gets a group of itself, possibly without a unit
// price.
func (s *ComparisonService) SizeComparison(ctx context.Context, productID string) (*domain.ProductGroup, error) {
	if productID == "" {
		return nil, domain.ErrInvalidRequest
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	peers, err := s.products.ListByBrand(ctx, product.Brand)
	if err != nil {
		return nil, err
	}

	for _, group := range s.grouper.Group(peers, pricing.LiveQuery) {
		for _, v := range group.Variants {
			if v.ProductID == productID {
				return &group, nil
			}
		}
	}

	return s.fallbackGroup(*product), nil
}

// fallbackGroup wraps a lone product whose cluster did not survive grouping
// (typically no parseable weight anywhere) into a single-variant group.
func (s *ComparisonService) fallbackGroup(p domain.ProductListing) *domain.ProductGroup {
	priced := pricing.AnnotateUnitPrice(p)
	variant := domain.Variant{
		ProductID: p.ID,
		Size:      pricing.ResolveWeightString(p),
		Weight:    pricing.ParseWeight(pricing.ResolveWeightString(p)),
		Price:     p.Price,
		UnitPrice: priced.UnitPrice,
	}
	group := &domain.ProductGroup{
		BaseProductName: pricing.StripWeightTokens(p.Name),
		Brand:           p.Brand,
		Category:        p.Category,
		PetType:         p.PetType,
		Variants:        []domain.Variant{variant},
		PriceRange:      domain.PriceRange{Min: p.Price, Max: p.Price},
		VariantCount:    1,
	}
	if variant.UnitPrice != nil {
		group.Variants[0].BestValue = true
		group.BestValueID = p.ID
		group.PriceRange.UnitMin = variant.UnitPrice.Value
		group.PriceRange.UnitMax = variant.UnitPrice.Value
	}
	return group
}
