package ports

import (
	"context"

	"github.com/barterqween/barter-api/internal/core/domain"
)

// CreateTradeInput carries a new trade offer. IdempotencyKey is a
// client-generated token; resubmitting the same key returns the original
// trade instead of creating a duplicate.
type CreateTradeInput struct {
	SenderID       string
	ItemID         string
	Message        string
	IdempotencyKey string
}

// CreateTradeResult is returned by Create. AlreadyExisted is true when the
// idempotency key matched a previously created trade.
type CreateTradeResult struct {
	Trade          *domain.Trade
	AlreadyExisted bool
}

// TradeService defines the trade workflow use cases. Accept and Reject are
// recipient-only; Complete may be invoked by either participant of an
// accepted trade. Every transition is validated against the state machine
// and applied atomically.
type TradeService interface {
	Create(ctx context.Context, input CreateTradeInput) (*CreateTradeResult, error)
	Get(ctx context.Context, tradeID, actorID string) (*domain.Trade, error)
	Accept(ctx context.Context, tradeID, actorID string) (*domain.Trade, error)
	Reject(ctx context.Context, tradeID, actorID string) (*domain.Trade, error)
	Complete(ctx context.Context, tradeID, actorID string) (*domain.Trade, error)
	ListReceived(ctx context.Context, userID string) ([]*domain.Trade, error)
	ListSent(ctx context.Context, userID string) ([]*domain.Trade, error)
}
