package mongodb

import (
	"github.com/pawcompare/backend/internal/domain"
)

// productDocument mirrors the shape the scrapers write. Derived fields
// (unitPrice, packageInfo, base-product refs) are owned by the sync jobs and
// absent on freshly scraped documents.
type productDocument struct {
	ID            string          `bson:"_id"`
	Name          string          `bson:"name"`
	Brand         string          `bson:"brand"`
	Price         float64         `bson:"price"`
	Currency      string          `bson:"currency,omitempty"`
	Category      string          `bson:"category,omitempty"`
	PetType       string          `bson:"petType,omitempty"`
	Source        string          `bson:"source,omitempty"`
	Details       *detailsDoc     `bson:"details,omitempty"`
	UnitPrice     *unitPriceDoc   `bson:"unitPrice,omitempty"`
	PackageInfo   *packageInfoDoc `bson:"packageInfo,omitempty"`
	IsBaseProduct *bool           `bson:"isBaseProduct,omitempty"`
	BaseProductID string          `bson:"baseProductId,omitempty"`
}

type detailsDoc struct {
	Weight string `bson:"weight,omitempty"`
}

type unitPriceDoc struct {
	Value float64 `bson:"value"`
	Unit  string  `bson:"unit"`
}

type packageInfoDoc struct {
	Weight *weightDoc `bson:"weight,omitempty"`
}

type weightDoc struct {
	Value float64 `bson:"value"`
	Unit  string  `bson:"unit"`
}

// groupDocument is the persisted form of a product group, keyed by
// (brand, baseProductName).
type groupDocument struct {
	BaseProductName string        `bson:"baseProductName"`
	Brand           string        `bson:"brand"`
	Category        string        `bson:"category,omitempty"`
	PetType         string        `bson:"petType,omitempty"`
	Variants        []variantDoc  `bson:"variants"`
	PriceRange      priceRangeDoc `bson:"priceRange"`
	BestValueID     string        `bson:"bestValueId,omitempty"`
	VariantCount    int           `bson:"variantCount"`
	LastUpdated     int64         `bson:"lastUpdated"`
}

type variantDoc struct {
	ProductID string        `bson:"productId"`
	Size      string        `bson:"size,omitempty"`
	Weight    *weightDoc    `bson:"weight,omitempty"`
	Price     float64       `bson:"price"`
	UnitPrice *unitPriceDoc `bson:"unitPrice,omitempty"`
	BestValue bool          `bson:"bestValue"`
}

type priceRangeDoc struct {
	Min     float64 `bson:"min"`
	Max     float64 `bson:"max"`
	UnitMin float64 `bson:"unitMin"`
	UnitMax float64 `bson:"unitMax"`
}

func toDomainProduct(doc productDocument) domain.ProductListing {
	p := domain.ProductListing{
		ID:       doc.ID,
		Name:     doc.Name,
		Brand:    doc.Brand,
		Price:    doc.Price,
		Currency: doc.Currency,
		Category: doc.Category,
		PetType:  doc.PetType,
		Source:   doc.Source,
	}
	if doc.Details != nil {
		p.DetailsWeight = doc.Details.Weight
	}
	return p
}

func toWeightDoc(w *domain.WeightSpec) *weightDoc {
	if w == nil {
		return nil
	}
	return &weightDoc{Value: w.Value, Unit: string(w.Unit)}
}

func toUnitPriceDoc(up *domain.UnitPrice) *unitPriceDoc {
	if up == nil {
		return nil
	}
	return &unitPriceDoc{Value: up.Value, Unit: up.Unit}
}

func toGroupDocument(g domain.ProductGroup) groupDocument {
	doc := groupDocument{
		BaseProductName: g.BaseProductName,
		Brand:           g.Brand,
		Category:        g.Category,
		PetType:         g.PetType,
		Variants:        make([]variantDoc, 0, len(g.Variants)),
		PriceRange: priceRangeDoc{
			Min:     g.PriceRange.Min,
			Max:     g.PriceRange.Max,
			UnitMin: g.PriceRange.UnitMin,
			UnitMax: g.PriceRange.UnitMax,
		},
		BestValueID:  g.BestValueID,
		VariantCount: g.VariantCount,
		LastUpdated:  g.LastUpdated.UnixMilli(),
	}
	for _, v := range g.Variants {
		doc.Variants = append(doc.Variants, variantDoc{
			ProductID: v.ProductID,
			Size:      v.Size,
			Weight:    toWeightDoc(v.Weight),
			Price:     v.Price,
			UnitPrice: toUnitPriceDoc(v.UnitPrice),
			BestValue: v.BestValue,
		})
	}
	return doc
}
