package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/barterqween/barter-api/internal/core/domain"
)

const collectionTrades = "trades"

type TradeRepository struct {
	col *mongo.Collection
}

func NewTradeRepository(db *mongo.Database) *TradeRepository {
	return &TradeRepository{col: db.Collection(collectionTrades)}
}

// Create inserts a new trade document. A duplicate idempotency key loses the
// race against the unique sparse index and surfaces as a conflict.
func (r *TradeRepository) Create(ctx context.Context, trade *domain.Trade) error {
	_, err := r.col.InsertOne(ctx, trade)
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrTradeConflict
	}
	return err
}

func (r *TradeRepository) FindByID(ctx context.Context, id string) (*domain.Trade, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *TradeRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Trade, error) {
	if key == "" {
		return nil, domain.ErrTradeNotFound
	}
	return r.findOne(ctx, bson.M{"idempotency_key": key})
}

func (r *TradeRepository) findOne(ctx context.Context, filter bson.M) (*domain.Trade, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Trade
	if err := r.col.FindOne(ctx, filter).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTradeNotFound
		}
		return nil, err
	}
	return &t, nil
}

// UpdateStatus transitions the trade from `from` to `to` with a single
// compare-and-swap: the filter matches on both id and current status, so two
// concurrent transitions resolve to exactly one winner. The loser gets
// domain.ErrTradeConflict, a missing trade domain.ErrTradeNotFound.
func (r *TradeRepository) UpdateStatus(ctx context.Context, id string, from, to domain.TradeStatus, at time.Time) (*domain.Trade, error) {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": at}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var t domain.Trade
	err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&t)
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// Distinguish "gone" from "already decided".
	current, findErr := r.FindByID(ctx, id)
	if findErr != nil {
		return nil, findErr
	}
	return nil, fmt.Errorf("%w (status %s, wanted %s)", domain.ErrTradeConflict, current.Status, from)
}

// RejectOtherPending rejects every pending trade on itemID except exceptID.
// Runs in the accept transaction so the winning offer and the losers flip
// together.
func (r *TradeRepository) RejectOtherPending(ctx context.Context, itemID, exceptID string, at time.Time) (int64, error) {
	filter := bson.M{
		"item_id": itemID,
		"status":  domain.TradePending,
		"_id":     bson.M{"$ne": exceptID},
	}
	update := bson.M{"$set": bson.M{"status": domain.TradeRejected, "updated_at": at}}

	res, err := r.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// InvalidatePendingByItem invalidates every pending trade referencing itemID.
func (r *TradeRepository) InvalidatePendingByItem(ctx context.Context, itemID string, at time.Time) (int64, error) {
	filter := bson.M{"item_id": itemID, "status": domain.TradePending}
	update := bson.M{"$set": bson.M{"status": domain.TradeInvalidated, "updated_at": at}}

	res, err := r.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ListBySender returns the trades sent by senderID, newest first.
func (r *TradeRepository) ListBySender(ctx context.Context, senderID string) ([]*domain.Trade, error) {
	return r.list(ctx, bson.M{"sender_id": senderID})
}

// ListByRecipient returns the trades received by recipientID, newest first.
func (r *TradeRepository) ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Trade, error) {
	return r.list(ctx, bson.M{"recipient_id": recipientID})
}

func (r *TradeRepository) list(ctx context.Context, filter bson.M) ([]*domain.Trade, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var trades []*domain.Trade
	if err := cur.All(ctx, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// CountCompletedByUser counts completed trades where userID was either party.
func (r *TradeRepository) CountCompletedByUser(ctx context.Context, userID string) (int64, error) {
	filter := bson.M{
		"status": domain.TradeCompleted,
		"$or": bson.A{
			bson.M{"sender_id": userID},
			bson.M{"recipient_id": userID},
		},
	}
	return r.col.CountDocuments(ctx, filter)
}

// EnsureIndexes creates the indexes the trade queries rely on. The unique
// sparse index on idempotency_key is the persistent half of the offer
// deduplication story.
func (r *TradeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "item_id", Value: 1}, {Key: "status", Value: 1}}},
		{
			Keys:    bson.D{{Key: "idempotency_key", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
