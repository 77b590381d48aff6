package domain

import (
	"errors"
	"strings"
	"time"
)

var ErrTradeNotFound = errors.New("trade not found")
var ErrTradeConflict = errors.New("trade is not in the expected status")
var ErrSelfTrade = errors.New("cannot send a trade offer on your own item")
var ErrEmptyMessage = errors.New("trade message cannot be empty")

// TradeStatus is the lifecycle state of a trade offer.
type TradeStatus string

const (
	TradePending     TradeStatus = "pending"
	TradeAccepted    TradeStatus = "accepted"
	TradeRejected    TradeStatus = "rejected"
	TradeCompleted   TradeStatus = "completed"
	TradeInvalidated TradeStatus = "invalidated"
)

// tradeTransitions defines the allowed state machine transitions.
// rejected, completed and invalidated are terminal.
var tradeTransitions = map[TradeStatus][]TradeStatus{
	TradePending:  {TradeAccepted, TradeRejected, TradeInvalidated},
	TradeAccepted: {TradeCompleted},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s TradeStatus) CanTransitionTo(next TradeStatus) bool {
	for _, allowed := range tradeTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition can leave s.
func (s TradeStatus) Terminal() bool {
	return len(tradeTransitions[s]) == 0
}

// Trade is an offer from a sender to the owner of an item. ItemTitle,
// ItemImage and the two display names are snapshotted at creation time and do
// not track later edits to the item or the profiles.
type Trade struct {
	ID             string      `json:"id" bson:"_id"`
	SenderID       string      `json:"sender_id" bson:"sender_id"`
	RecipientID    string      `json:"recipient_id" bson:"recipient_id"`
	ItemID         string      `json:"item_id" bson:"item_id"`
	ItemTitle      string      `json:"item_title" bson:"item_title"`
	ItemImage      string      `json:"item_image,omitempty" bson:"item_image,omitempty"`
	SenderName     string      `json:"sender_name" bson:"sender_name"`
	RecipientName  string      `json:"recipient_name" bson:"recipient_name"`
	Message        string      `json:"message" bson:"message"`
	Status         TradeStatus `json:"status" bson:"status"`
	IdempotencyKey string      `json:"-" bson:"idempotency_key,omitempty"`
	CreatedAt      time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" bson:"updated_at"`
}

// Participant reports whether userID is the sender or the recipient.
func (t *Trade) Participant(userID string) bool {
	return t.SenderID == userID || t.RecipientID == userID
}

// ValidateMessage trims msg and rejects whitespace-only offers.
func ValidateMessage(msg string) (string, error) {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "", ErrEmptyMessage
	}
	return msg, nil
}
