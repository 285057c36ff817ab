package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pawcompare/backend/internal/domain"
)

// GroupRepository persists product groups, replacing whole documents keyed by
// (brand, baseProductName) on every rebuild.
type GroupRepository struct {
	collection *mongo.Collection
}

// NewGroupRepository creates a group repository on the given database
func NewGroupRepository(db *mongo.Database) *GroupRepository {
	return &GroupRepository{collection: db.Collection(groupCollection)}
}

func (r *GroupRepository) Upsert(ctx context.Context, group domain.ProductGroup) error {
	filter := bson.M{
		"brand":           group.Brand,
		"baseProductName": group.BaseProductName,
	}
	_, err := r.collection.ReplaceOne(ctx, filter, toGroupDocument(group), options.Replace().SetUpsert(true))
	if err != nil {
		return storageError("upserting group", err)
	}
	return nil
}

// DeleteUpdatedBefore removes groups last touched before the cutoff. The sync
// job calls this after a full rebuild to drop groups whose products vanished.
func (r *GroupRepository) DeleteUpdatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"lastUpdated": bson.M{"$lt": cutoff.UnixMilli()}})
	if err != nil {
		return 0, storageError("deleting stale groups", err)
	}
	return result.DeletedCount, nil
}

// EnsureIndexes creates the unique group key and the cleanup index. Safe to
// call on every startup.
func (r *GroupRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "brand", Value: 1}, {Key: "baseProductName", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "lastUpdated", Value: 1}},
		},
	})
	if err != nil {
		return storageError("creating group indexes", err)
	}
	return nil
}
