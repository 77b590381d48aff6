// Package metrics defines the custom Prometheus metrics for the Barter Qween
// API. It is the single source of truth for metric names, labels, and help
// strings; metrics register themselves with the default registry via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "barter"

// ── Trade metrics ─────────────────────────────────────────────────────────────

// TradesCreatedTotal counts new trade offers that were persisted.
var TradesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trades_created_total",
		Help:      "Total number of trade offers created.",
	},
)

// TradeTransitionsTotal counts lifecycle transitions applied to trades.
// Label:
//   - to: the resulting status (accepted, rejected, completed, invalidated)
var TradeTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trade_transitions_total",
		Help:      "Total number of trade status transitions, by resulting status.",
	},
	[]string{"to"},
)

// TradesAutoRejectedTotal counts competing pending offers rejected as a side
// effect of another offer being accepted.
var TradesAutoRejectedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trades_auto_rejected_total",
		Help:      "Total number of competing pending offers auto-rejected on accept.",
	},
)

// OfferDedupTotal counts idempotency decisions on trade creation.
// Label:
//   - result: "replay" (key matched an existing trade) or "new" (a fresh
//     claim was actually taken)
var OfferDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offer_dedup_total",
		Help:      "Total number of idempotency checks on offer creation, by result.",
	},
	[]string{"result"},
)

// ── Item metrics ──────────────────────────────────────────────────────────────

// ItemsCreatedTotal counts new listings, by category.
var ItemsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_created_total",
		Help:      "Total number of items listed, by category.",
	},
	[]string{"category"},
)

// ItemsDeletedTotal counts listing deletions.
var ItemsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_deleted_total",
		Help:      "Total number of items deleted.",
	},
)

// ── Reconciler metrics ────────────────────────────────────────────────────────

// CounterRepairsTotal counts profile counters that the reconciler found
// drifted and overwrote.
// Label:
//   - field: "items_count" or "trades_count"
var CounterRepairsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "counter_repairs_total",
		Help:      "Total number of denormalized counters repaired by the reconciler.",
	},
	[]string{"field"},
)

// ReconcileRunsTotal counts reconciliation sweeps.
// Label:
//   - result: "ok" or "error"
var ReconcileRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconcile_runs_total",
		Help:      "Total number of counter reconciliation sweeps, by result.",
	},
	[]string{"result"},
)
