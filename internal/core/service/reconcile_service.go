package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/barterqween/barter-api/internal/api/metrics"
	"github.com/barterqween/barter-api/internal/core/ports"
)

const defaultReconcileInterval = 10 * time.Minute

// Reconciler periodically recomputes the denormalized profile counters from
// the source collections and repairs any drift. The transactional writes keep
// counters correct going forward; this sweep is the safety net for partial
// failures and for historical documents written before the guarantees existed.
type Reconciler struct {
	users    ports.UserRepository
	items    ports.ItemRepository
	trades   ports.TradeRepository
	interval time.Duration
	log      zerolog.Logger
}

func NewReconciler(
	users ports.UserRepository,
	items ports.ItemRepository,
	trades ports.TradeRepository,
	interval time.Duration,
	log zerolog.Logger,
) *Reconciler {
	if interval <= 0 {
		interval = defaultReconcileInterval
	}
	return &Reconciler{users: users, items: items, trades: trades, interval: interval, log: log}
}

// Start launches the reconciliation loop. It stops when ctx is cancelled.
func (r *Reconciler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := r.RunOnce(ctx); err != nil {
					metrics.ReconcileRunsTotal.WithLabelValues("error").Inc()
					r.log.Error().Err(err).Msg("counter reconciliation failed")
				} else {
					metrics.ReconcileRunsTotal.WithLabelValues("ok").Inc()
				}
			}
		}
	}()
}

// RunOnce performs a single full sweep and returns the first hard error.
// Per-user failures are logged and skipped so one broken document cannot
// starve the rest of the sweep.
func (r *Reconciler) RunOnce(ctx context.Context) error {
	ids, err := r.users.AllIDs(ctx)
	if err != nil {
		return err
	}

	var repaired int
	for _, id := range ids {
		n, err := r.reconcileUser(ctx, id)
		if err != nil {
			r.log.Warn().Err(err).Str("user_id", id).Msg("skipping user in reconciliation sweep")
			continue
		}
		repaired += n
	}

	r.log.Debug().Int("users", len(ids)).Int("repaired", repaired).Msg("reconciliation sweep done")
	return nil
}

func (r *Reconciler) reconcileUser(ctx context.Context, userID string) (int, error) {
	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		return 0, err
	}

	itemsCount, err := r.items.CountByOwner(ctx, userID)
	if err != nil {
		return 0, err
	}
	tradesCount, err := r.trades.CountCompletedByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	if user.ItemsCount == itemsCount && user.TradesCount == tradesCount {
		return 0, nil
	}

	if err := r.users.SetCounters(ctx, userID, itemsCount, tradesCount); err != nil {
		return 0, err
	}

	repaired := 0
	if user.ItemsCount != itemsCount {
		metrics.CounterRepairsTotal.WithLabelValues("items_count").Inc()
		repaired++
	}
	if user.TradesCount != tradesCount {
		metrics.CounterRepairsTotal.WithLabelValues("trades_count").Inc()
		repaired++
	}

	r.log.Warn().
		Str("user_id", userID).
		Int64("items_count_was", user.ItemsCount).
		Int64("items_count_now", itemsCount).
		Int64("trades_count_was", user.TradesCount).
		Int64("trades_count_now", tradesCount).
		Msg("repaired drifted counters")

	return repaired, nil
}
