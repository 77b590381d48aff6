package handler

import "time"

// --- Request types ---

type itemImageRequest struct {
	URL      string `json:"url"       validate:"required,url"`
	PublicID string `json:"public_id"`
}

type createItemRequest struct {
	Title       string             `json:"title"       validate:"required,max=120"`
	Description string             `json:"description" validate:"required,max=2000"`
	Category    string             `json:"category"    validate:"required"`
	Condition   string             `json:"condition"   validate:"required"`
	Images      []itemImageRequest `json:"images"      validate:"required,min=1,max=5,dive"`
}

// updateItemRequest is a partial edit: absent fields are left untouched.
type updateItemRequest struct {
	Title       *string             `json:"title"`
	Description *string             `json:"description"`
	Category    *string             `json:"category"`
	Condition   *string             `json:"condition"`
	Images      *[]itemImageRequest `json:"images"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract is not coupled to
// internal domain changes.

type itemImageResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id,omitempty"`
}

type itemResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Condition   string              `json:"condition"`
	Images      []itemImageResponse `json:"images"`
	MainImage   string              `json:"main_image,omitempty"`
	OwnerName   string              `json:"owner_name"`
	OwnerAvatar string              `json:"owner_avatar,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listItemsResponse struct {
	Data       []itemResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type myItemsResponse struct {
	Data []itemResponse `json:"data"`
}
