package ports

import (
	"context"
	"time"

	"github.com/barterqween/barter-api/internal/core/domain"
)

// TradeRepository defines persistence for the trades collection.
//
// UpdateStatus is the compare-and-swap primitive every lifecycle transition
// goes through: the update only matches a document whose current status is
// `from`, so two concurrent transitions on the same trade resolve to exactly
// one winner.
type TradeRepository interface {
	Create(ctx context.Context, trade *domain.Trade) error
	FindByID(ctx context.Context, id string) (*domain.Trade, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Trade, error)
	// UpdateStatus transitions the trade from `from` to `to` and returns the
	// updated document. domain.ErrTradeNotFound when the trade does not
	// exist, domain.ErrTradeConflict when it exists in a different status.
	UpdateStatus(ctx context.Context, id string, from, to domain.TradeStatus, at time.Time) (*domain.Trade, error)
	// RejectOtherPending rejects every pending trade on itemID except
	// exceptID, returning the number of trades rejected.
	RejectOtherPending(ctx context.Context, itemID, exceptID string, at time.Time) (int64, error)
	// InvalidatePendingByItem invalidates every pending trade referencing
	// itemID, returning the number of trades invalidated.
	InvalidatePendingByItem(ctx context.Context, itemID string, at time.Time) (int64, error)
	ListBySender(ctx context.Context, senderID string) ([]*domain.Trade, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Trade, error)
	CountCompletedByUser(ctx context.Context, userID string) (int64, error)
}
