package service

import (
	"context"
	"testing"
	"time"

	"github.com/barterqween/barter-api/internal/core/domain"
)

func TestReconciler_RepairsDriftedCounters(t *testing.T) {
	users := newStubUserRepo()
	items := newStubItemRepo()
	trades := newStubTradeRepo()

	// Drifted profile: claims 5 items and 0 trades, reality is 2 and 1.
	users.add(&domain.User{ID: "u1", DisplayName: "Alice", ItemsCount: 5, TradesCount: 0})
	items.add(&domain.Item{ID: "i1", UserID: "u1"})
	items.add(&domain.Item{ID: "i2", UserID: "u1"})
	trades.add(&domain.Trade{ID: "t1", SenderID: "u2", RecipientID: "u1", Status: domain.TradeCompleted})
	trades.add(&domain.Trade{ID: "t2", SenderID: "u2", RecipientID: "u1", Status: domain.TradePending})

	r := NewReconciler(users, items, trades, time.Minute, discardLogger)
	if err := r.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	u, _ := users.FindByID(context.Background(), "u1")
	if u.ItemsCount != 2 {
		t.Errorf("items_count must be repaired to 2, got %d", u.ItemsCount)
	}
	if u.TradesCount != 1 {
		t.Errorf("trades_count must be repaired to 1, got %d", u.TradesCount)
	}
}

func TestReconciler_LeavesCorrectCountersAlone(t *testing.T) {
	users := newStubUserRepo()
	items := newStubItemRepo()
	trades := newStubTradeRepo()

	users.add(&domain.User{ID: "u1", DisplayName: "Alice", ItemsCount: 1, TradesCount: 0})
	items.add(&domain.Item{ID: "i1", UserID: "u1"})

	r := NewReconciler(users, items, trades, time.Minute, discardLogger)
	if err := r.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	u, _ := users.FindByID(context.Background(), "u1")
	if u.ItemsCount != 1 || u.TradesCount != 0 {
		t.Errorf("correct counters must be untouched, got items=%d trades=%d", u.ItemsCount, u.TradesCount)
	}
}

func TestReconciler_CountsCompletedForBothParticipants(t *testing.T) {
	users := newStubUserRepo()
	items := newStubItemRepo()
	trades := newStubTradeRepo()

	users.add(&domain.User{ID: "a", DisplayName: "A"})
	users.add(&domain.User{ID: "b", DisplayName: "B", TradesCount: 9})
	trades.add(&domain.Trade{ID: "t1", SenderID: "a", RecipientID: "b", Status: domain.TradeCompleted})

	r := NewReconciler(users, items, trades, time.Minute, discardLogger)
	if err := r.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	a, _ := users.FindByID(context.Background(), "a")
	b, _ := users.FindByID(context.Background(), "b")
	if a.TradesCount != 1 || b.TradesCount != 1 {
		t.Errorf("completed trade counts for both parties: a=%d b=%d", a.TradesCount, b.TradesCount)
	}
}
