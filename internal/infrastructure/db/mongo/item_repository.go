package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/barterqween/barter-api/internal/core/domain"
	"github.com/barterqween/barter-api/internal/core/ports"
)

const collectionItems = "items"

type ItemRepository struct {
	col *mongo.Collection
}

func NewItemRepository(db *mongo.Database) *ItemRepository {
	return &ItemRepository{col: db.Collection(collectionItems)}
}

// Create inserts a new item document.
func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	_, err := r.col.InsertOne(ctx, item)
	return err
}

func (r *ItemRepository) FindByID(ctx context.Context, id string) (*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var item domain.Item
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Update merges the non-nil fields of upd into the item. The filter matches
// on both id and owner, so a non-owner update never touches the document.
func (r *ItemRepository) Update(ctx context.Context, id, ownerID string, upd ports.ItemUpdate) (*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Condition != nil {
		set["condition"] = *upd.Condition
	}
	if upd.Images != nil {
		set["images"] = *upd.Images
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var item domain.Item
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id, "user_id": ownerID}, bson.M{"$set": set}, opts).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// Delete removes the item owned by ownerID.
func (r *ItemRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// List returns a page of the public feed ordered by created_at descending,
// plus the total match count. Search terms are quoted before being compiled
// into the case-insensitive regex so user input cannot inject operators.
func (r *ItemRepository) List(ctx context.Context, filter ports.ListItemsFilter) ([]*domain.Item, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var items []*domain.Item
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByOwner returns every item owned by ownerID, newest first.
func (r *ItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []*domain.Item
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"user_id": ownerID})
}

// EnsureIndexes creates the indexes backing the feed and ownership queries.
func (r *ItemRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
