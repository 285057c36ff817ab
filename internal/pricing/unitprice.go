package pricing

import (
	"math"

	"github.com/pawcompare/backend/internal/domain"
)

// PricePerKilogram normalizes a price and a free-text weight string to EUR
// per kilogram. The second return value is false when the price is not a
// finite positive number or the weight string yields no usable mass; that is
// the only failure mode, nothing here errors.
//
// The result is the raw float. Rounding and "€/kg" formatting belong to the
// presentation layer.
func PricePerKilogram(price float64, weightStr string) (float64, bool) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, false
	}
	w := ParseWeight(weightStr)
	if w == nil {
		return 0, false
	}
	grams := Grams(*w)
	if grams <= 0 {
		return 0, false
	}
	return price / grams * 1000, true
}

// AnnotateUnitPrice attaches the computed unit price to a listing. The
// annotation is nil when it cannot be computed.
func AnnotateUnitPrice(p domain.ProductListing) domain.PricedListing {
	priced := domain.PricedListing{ProductListing: p}
	if value, ok := PricePerKilogram(p.Price, ResolveWeightString(p)); ok {
		priced.UnitPrice = &domain.UnitPrice{Value: value, Unit: domain.UnitPriceUnit}
	}
	return priced
}
