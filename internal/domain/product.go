package domain

import "time"

// Unit is a package-size unit as it appears in product listings.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitPound      Unit = "lb"
	UnitOunce      Unit = "oz"
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"
)

// WeightSpec is a parsed package size. Value is always positive; a listing
// without a usable size has no WeightSpec at all.
type WeightSpec struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// UnitPriceUnit is the single normalization target for unit prices.
const UnitPriceUnit = "EUR/kg"

// UnitPrice is a price normalized to EUR per kilogram. It is derived from a
// listing's price and weight and recomputed whenever either changes; it is
// never edited on its own.
type UnitPrice struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// ProductListing is one scraped retail listing. The pricing engine reads
// Name, Brand, Price and DetailsWeight and never mutates a listing.
type ProductListing struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	Category      string  `json:"category,omitempty"`
	PetType       string  `json:"petType,omitempty"`
	Source        string  `json:"source"`
	DetailsWeight string  `json:"detailsWeight,omitempty"`
}

// PricedListing is a listing annotated with its computed unit price.
// UnitPrice is nil when the listing's weight could not be parsed.
type PricedListing struct {
	ProductListing
	UnitPrice *UnitPrice `json:"unitPrice,omitempty"`
}

// Variant is one purchasable size of a base product inside a group.
type Variant struct {
	ProductID string      `json:"productId"`
	Size      string      `json:"size"`
	Weight    *WeightSpec `json:"weight,omitempty"`
	Price     float64     `json:"price"`
	UnitPrice *UnitPrice  `json:"unitPrice,omitempty"`
	BestValue bool        `json:"bestValue"`
}

// PriceRange spans a group's raw prices and its valid unit prices.
// UnitMin and UnitMax cover only variants with a computed unit price.
type PriceRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	UnitMin float64 `json:"unitMin"`
	UnitMax float64 `json:"unitMax"`
}

// ProductGroup collects the size variants of one base product. Groups are
// rebuilt wholesale on every grouping run; they are never patched in place.
// BestValueID references the variant with the lowest valid unit price, and
// exactly one variant carries the BestValue flag whenever any variant has a
// valid unit price.
type ProductGroup struct {
	BaseProductName string     `json:"baseProductName"`
	Brand           string     `json:"brand"`
	Category        string     `json:"category,omitempty"`
	PetType         string     `json:"petType,omitempty"`
	Variants        []Variant  `json:"variants"`
	PriceRange      PriceRange `json:"priceRange"`
	BestValueID     string     `json:"bestValueId,omitempty"`
	VariantCount    int        `json:"variantCount"`
	LastUpdated     time.Time  `json:"lastUpdated"`
}
