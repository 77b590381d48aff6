package ports

import (
	"context"

	"github.com/barterqween/barter-api/internal/core/domain"
)

// CreateItemInput carries all data needed to create a listing.
type CreateItemInput struct {
	OwnerID     string
	Title       string
	Description string
	Category    string
	Condition   string
	Images      []domain.ItemImage
}

// UpdateItemInput carries a partial listing edit performed by OwnerID.
type UpdateItemInput struct {
	OwnerID string
	ItemID  string
	Update  ItemUpdate
}

// ListItemsInput carries the parameters of the public feed endpoint.
type ListItemsInput struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// ListItemsResult is the paginated feed.
type ListItemsResult struct {
	Items      []*domain.Item
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ItemService defines the listing manager use cases. Update and Delete are
// owner-only; the service enforces this regardless of what the client renders.
type ItemService interface {
	Create(ctx context.Context, input CreateItemInput) (*domain.Item, error)
	Get(ctx context.Context, id string) (*domain.Item, error)
	Update(ctx context.Context, input UpdateItemInput) (*domain.Item, error)
	Delete(ctx context.Context, ownerID, itemID string) error
	List(ctx context.Context, input ListItemsInput) (*ListItemsResult, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Item, error)
}
