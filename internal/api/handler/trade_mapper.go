package handler

import (
	"github.com/barterqween/barter-api/internal/core/domain"
)

func toTradeResponse(t *domain.Trade) tradeResponse {
	return tradeResponse{
		ID:            t.ID,
		SenderID:      t.SenderID,
		RecipientID:   t.RecipientID,
		ItemID:        t.ItemID,
		ItemTitle:     t.ItemTitle,
		ItemImage:     t.ItemImage,
		SenderName:    t.SenderName,
		RecipientName: t.RecipientName,
		Message:       t.Message,
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt.UTC(),
		UpdatedAt:     t.UpdatedAt.UTC(),
	}
}

func toTradeResponses(trades []*domain.Trade) []tradeResponse {
	out := make([]tradeResponse, len(trades))
	for i, t := range trades {
		out[i] = toTradeResponse(t)
	}
	return out
}
