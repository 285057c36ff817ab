package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pawcompare/backend/internal/domain"
)

// ProductRepository reads product listings from the scraped collection and
// writes the derived fields maintained by the sync jobs.
type ProductRepository struct {
	collection *mongo.Collection
}

// NewProductRepository creates a product repository on the given database
func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{collection: db.Collection(productCollection)}
}

func (r *ProductRepository) ListAll(ctx context.Context) ([]domain.ProductListing, error) {
	return r.find(ctx, bson.M{})
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.ProductListing, error) {
	var doc productDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, storageError("finding product", err)
	}
	product := toDomainProduct(doc)
	return &product, nil
}

func (r *ProductRepository) SearchByName(ctx context.Context, pattern string) ([]domain.ProductListing, error) {
	filter := bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(pattern), Options: "i"}}
	return r.find(ctx, filter)
}

// ListByBrand matches the whole brand case-insensitively; scrapers disagree
// on casing between sources.
func (r *ProductRepository) ListByBrand(ctx context.Context, brand string) ([]domain.ProductListing, error) {
	filter := bson.M{"brand": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(brand) + "$", Options: "i"}}
	return r.find(ctx, filter)
}

func (r *ProductRepository) UpdateDerivedPricing(ctx context.Context, id string, weight *domain.WeightSpec, unitPrice *domain.UnitPrice) error {
	update := bson.M{"$set": bson.M{
		"unitPrice":          toUnitPriceDoc(unitPrice),
		"packageInfo.weight": toWeightDoc(weight),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return storageError("updating derived pricing", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) SetBaseProductRef(ctx context.Context, id string, baseProductID string, isBase bool) error {
	update := bson.M{"$set": bson.M{
		"isBaseProduct": isBase,
		"baseProductId": baseProductID,
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return storageError("setting base product ref", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M) ([]domain.ProductListing, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, storageError("querying products", err)
	}
	defer cursor.Close(ctx)

	products := make([]domain.ProductListing, 0)
	for cursor.Next(ctx) {
		var doc productDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, storageError("decoding product", err)
		}
		products = append(products, toDomainProduct(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, storageError("iterating products", err)
	}
	return products, nil
}

// storageError folds driver failures into the storage sentinel so handlers can
// map them to 503 without knowing about the driver.
func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, op, err)
}
