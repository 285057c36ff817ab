package domain

import (
	"context"
	"time"
)

// ProductRepository defines read access to the product collection plus the
// derived-field writes performed by the maintenance jobs.
type ProductRepository interface {
	ListAll(ctx context.Context) ([]ProductListing, error)
	FindByID(ctx context.Context, id string) (*ProductListing, error)
	SearchByName(ctx context.Context, pattern string) ([]ProductListing, error)
	// ListByBrand matches the brand case-insensitively; sources disagree on
	// brand casing and the live endpoints should not care.
	ListByBrand(ctx context.Context, brand string) ([]ProductListing, error)
	// UpdateDerivedPricing persists the computed unit price and parsed weight
	// back onto a product document.
	UpdateDerivedPricing(ctx context.Context, id string, weight *WeightSpec, unitPrice *UnitPrice) error
	// SetBaseProductRef stamps the reverse reference written by the group sync
	// job: whether this product is the group's base product, and which product
	// id was chosen as base.
	SetBaseProductRef(ctx context.Context, id string, baseProductID string, isBase bool) error
}

// GroupRepository persists product groups keyed by (brand, baseProductName).
type GroupRepository interface {
	Upsert(ctx context.Context, group ProductGroup) error
	// DeleteUpdatedBefore removes groups not touched by the current rebuild,
	// since every run replaces the full group set.
	DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// GroupIndexer pushes product groups into the external search index.
type GroupIndexer interface {
	IndexGroups(ctx context.Context, groups []ProductGroup) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
