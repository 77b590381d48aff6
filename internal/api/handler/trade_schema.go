package handler

import "time"

type createTradeRequest struct {
	ItemID  string `json:"item_id" validate:"required"`
	Message string `json:"message" validate:"required,max=1000"`
}

type tradeResponse struct {
	ID            string    `json:"id"`
	SenderID      string    `json:"sender_id"`
	RecipientID   string    `json:"recipient_id"`
	ItemID        string    `json:"item_id"`
	ItemTitle     string    `json:"item_title"`
	ItemImage     string    `json:"item_image,omitempty"`
	SenderName    string    `json:"sender_name"`
	RecipientName string    `json:"recipient_name"`
	Message       string    `json:"message"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type listTradesResponse struct {
	Data []tradeResponse `json:"data"`
}
