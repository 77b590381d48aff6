package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/barterqween/barter-api/internal/api/metrics"
	"github.com/barterqween/barter-api/internal/core/domain"
	"github.com/barterqween/barter-api/internal/core/ports"
)

// OfferDeduper abstracts the short-window idempotency store (Redis). It
// absorbs tight retry races before the created trade document becomes
// visible to the persistent idempotency-key lookup.
type OfferDeduper interface {
	// Claim atomically marks the key as in-flight. Returns false when another
	// request already holds it.
	Claim(ctx context.Context, key string) (bool, error)
	// Release frees the key after a failed creation so the client can retry.
	Release(ctx context.Context, key string) error
}

// TradeService implements the trade-offer workflow: creation, the
// pending → accepted/rejected/invalidated → completed lifecycle, and the two
// inbox views. All multi-document effects run inside a transaction.
type TradeService struct {
	trades ports.TradeRepository
	items  ports.ItemRepository
	users  ports.UserRepository
	tx     ports.TxManager
	dedup  OfferDeduper
	log    zerolog.Logger
}

func NewTradeService(
	trades ports.TradeRepository,
	items ports.ItemRepository,
	users ports.UserRepository,
	tx ports.TxManager,
	dedup OfferDeduper,
	log zerolog.Logger,
) *TradeService {
	return &TradeService{trades: trades, items: items, users: users, tx: tx, dedup: dedup, log: log}
}

// Create persists a new pending trade offer on an item. The item title,
// first image, and both display names are snapshotted at creation time.
// When an idempotency key is supplied and already seen, the original trade
// is returned without side effects.
func (s *TradeService) Create(ctx context.Context, input ports.CreateTradeInput) (*ports.CreateTradeResult, error) {
	message, err := domain.ValidateMessage(input.Message)
	if err != nil {
		return nil, err
	}

	releaseClaim := false
	if input.IdempotencyKey != "" {
		existing, err := s.trades.FindByIdempotencyKey(ctx, input.IdempotencyKey)
		if err == nil && existing != nil {
			metrics.OfferDedupTotal.WithLabelValues("replay").Inc()
			s.log.Info().Str("idempotency_key", input.IdempotencyKey).Str("trade_id", existing.ID).Msg("idempotent replay")
			return &ports.CreateTradeResult{Trade: existing, AlreadyExisted: true}, nil
		}

		if s.dedup != nil {
			claimed, err := s.dedup.Claim(ctx, input.IdempotencyKey)
			if err != nil {
				s.log.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("dedup claim failed, proceeding")
			} else if !claimed {
				// A concurrent request with the same key is in flight. If its
				// trade is already visible, replay it; otherwise tell the
				// caller to retry instead of risking a duplicate offer.
				existing, err := s.trades.FindByIdempotencyKey(ctx, input.IdempotencyKey)
				if err == nil && existing != nil {
					metrics.OfferDedupTotal.WithLabelValues("replay").Inc()
					return &ports.CreateTradeResult{Trade: existing, AlreadyExisted: true}, nil
				}
				return nil, domain.ErrTradeConflict
			} else {
				releaseClaim = true
				metrics.OfferDedupTotal.WithLabelValues("new").Inc()
			}
		}
	}

	// A held claim is freed on every exit that did not persist the trade.
	// Leaving it behind would make a corrected retry with the same key look
	// like a concurrent request and fail with a conflict until the TTL expires.
	defer func() {
		if !releaseClaim {
			return
		}
		if err := s.dedup.Release(ctx, input.IdempotencyKey); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to release dedup claim")
		}
	}()

	item, err := s.items.FindByID(ctx, input.ItemID)
	if err != nil {
		return nil, fmt.Errorf("create trade: %w", err)
	}
	if item.UserID == input.SenderID {
		return nil, domain.ErrSelfTrade
	}

	sender, err := s.users.FindByID(ctx, input.SenderID)
	if err != nil {
		return nil, fmt.Errorf("create trade: sender: %w", err)
	}
	recipient, err := s.users.FindByID(ctx, item.UserID)
	if err != nil {
		return nil, fmt.Errorf("create trade: recipient: %w", err)
	}

	now := time.Now().UTC()
	trade := &domain.Trade{
		ID:             uuid.NewString(),
		SenderID:       sender.ID,
		RecipientID:    recipient.ID,
		ItemID:         item.ID,
		ItemTitle:      item.Title,
		ItemImage:      item.MainImage(),
		SenderName:     sender.DisplayName,
		RecipientName:  recipient.DisplayName,
		Message:        message,
		Status:         domain.TradePending,
		IdempotencyKey: input.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.trades.Create(ctx, trade); err != nil {
		s.log.Error().Err(err).Str("item_id", item.ID).Msg("failed to create trade")
		return nil, err
	}

	// The trade is durable now; the claim stays to absorb the retry window.
	releaseClaim = false

	metrics.TradesCreatedTotal.Inc()
	s.log.Info().
		Str("trade_id", trade.ID).
		Str("item_id", item.ID).
		Str("sender_id", sender.ID).
		Str("recipient_id", recipient.ID).
		Msg("trade offer created")

	return &ports.CreateTradeResult{Trade: trade}, nil
}

// Get returns a trade to one of its participants.
func (s *TradeService) Get(ctx context.Context, tradeID, actorID string) (*domain.Trade, error) {
	trade, err := s.trades.FindByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if !trade.Participant(actorID) {
		return nil, domain.ErrForbidden
	}
	return trade, nil
}

// Accept transitions a pending trade to accepted. Only the recipient may
// accept, and only while the trade is pending; every other pending offer on
// the same item is auto-rejected in the same transaction.
func (s *TradeService) Accept(ctx context.Context, tradeID, actorID string) (*domain.Trade, error) {
	trade, err := s.authorizeTransition(ctx, tradeID, actorID, domain.TradeAccepted)
	if err != nil {
		return nil, err
	}

	if err := s.ensureItemLive(ctx, trade); err != nil {
		return nil, err
	}

	var updated *domain.Trade
	var rejected int64
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		updated, err = s.trades.UpdateStatus(ctx, trade.ID, domain.TradePending, domain.TradeAccepted, now)
		if err != nil {
			return err
		}
		rejected, err = s.trades.RejectOtherPending(ctx, trade.ItemID, trade.ID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.TradeTransitionsTotal.WithLabelValues(string(domain.TradeAccepted)).Inc()
	if rejected > 0 {
		metrics.TradesAutoRejectedTotal.Add(float64(rejected))
	}
	s.log.Info().
		Str("trade_id", trade.ID).
		Str("item_id", trade.ItemID).
		Int64("competing_rejected", rejected).
		Msg("trade accepted")

	return updated, nil
}

// Reject transitions a pending trade to rejected. Recipient-only; competing
// offers are untouched.
func (s *TradeService) Reject(ctx context.Context, tradeID, actorID string) (*domain.Trade, error) {
	trade, err := s.authorizeTransition(ctx, tradeID, actorID, domain.TradeRejected)
	if err != nil {
		return nil, err
	}

	if err := s.ensureItemLive(ctx, trade); err != nil {
		return nil, err
	}

	updated, err := s.trades.UpdateStatus(ctx, trade.ID, domain.TradePending, domain.TradeRejected, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	metrics.TradeTransitionsTotal.WithLabelValues(string(domain.TradeRejected)).Inc()
	s.log.Info().Str("trade_id", trade.ID).Msg("trade rejected")

	return updated, nil
}

// Complete marks an accepted trade as carried out. Either participant may
// complete; both parties' trades_count is incremented in the same
// transaction as the status change.
func (s *TradeService) Complete(ctx context.Context, tradeID, actorID string) (*domain.Trade, error) {
	trade, err := s.trades.FindByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if !trade.Participant(actorID) {
		return nil, domain.ErrForbidden
	}
	if !trade.Status.CanTransitionTo(domain.TradeCompleted) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrTradeConflict, trade.Status, domain.TradeCompleted)
	}

	var updated *domain.Trade
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		updated, err = s.trades.UpdateStatus(ctx, trade.ID, domain.TradeAccepted, domain.TradeCompleted, time.Now().UTC())
		if err != nil {
			return err
		}
		if err := s.users.IncrementCounters(ctx, trade.SenderID, 0, 1); err != nil {
			return err
		}
		return s.users.IncrementCounters(ctx, trade.RecipientID, 0, 1)
	})
	if err != nil {
		return nil, err
	}

	metrics.TradeTransitionsTotal.WithLabelValues(string(domain.TradeCompleted)).Inc()
	s.log.Info().Str("trade_id", trade.ID).Msg("trade completed")

	return updated, nil
}

// ListReceived returns the trades where userID is the recipient.
func (s *TradeService) ListReceived(ctx context.Context, userID string) ([]*domain.Trade, error) {
	return s.trades.ListByRecipient(ctx, userID)
}

// ListSent returns the trades where userID is the sender.
func (s *TradeService) ListSent(ctx context.Context, userID string) ([]*domain.Trade, error) {
	return s.trades.ListBySender(ctx, userID)
}

// authorizeTransition loads the trade and verifies that actorID is the
// recipient and that the requested transition is valid from the current
// status. The status check here is advisory; the authoritative guard is the
// compare-and-swap filter in the repository update.
func (s *TradeService) authorizeTransition(ctx context.Context, tradeID, actorID string, to domain.TradeStatus) (*domain.Trade, error) {
	trade, err := s.trades.FindByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if trade.RecipientID != actorID {
		return nil, domain.ErrForbidden
	}
	if !trade.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrTradeConflict, trade.Status, to)
	}
	return trade, nil
}

// ensureItemLive verifies the referenced item still exists. A pending trade
// whose item was deleted out-of-band is invalidated on the spot and the
// caller gets the item's not-found error; deciding a trade on a vanished
// item must never silently succeed.
func (s *TradeService) ensureItemLive(ctx context.Context, trade *domain.Trade) error {
	_, err := s.items.FindByID(ctx, trade.ItemID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrItemNotFound) {
		return err
	}

	if _, invErr := s.trades.UpdateStatus(ctx, trade.ID, domain.TradePending, domain.TradeInvalidated, time.Now().UTC()); invErr != nil {
		s.log.Warn().Err(invErr).Str("trade_id", trade.ID).Msg("failed to invalidate trade on missing item")
	} else {
		metrics.TradeTransitionsTotal.WithLabelValues(string(domain.TradeInvalidated)).Inc()
		s.log.Info().Str("trade_id", trade.ID).Str("item_id", trade.ItemID).Msg("trade invalidated, item gone")
	}
	return fmt.Errorf("decide trade: %w", domain.ErrItemNotFound)
}
