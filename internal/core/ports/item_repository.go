package ports

import (
	"context"

	"github.com/barterqween/barter-api/internal/core/domain"
)

// ListItemsFilter carries the query parameters for the public listing feed.
type ListItemsFilter struct {
	Category string // optional: exact category match
	Search   string // optional: case-insensitive match on title or description
	Page     int    // 1-based
	Limit    int    // rows per page, capped by the service
}

// ItemUpdate carries a partial listing edit. Nil fields are left untouched.
type ItemUpdate struct {
	Title       *string
	Description *string
	Category    *domain.Category
	Condition   *domain.Condition
	Images      *[]domain.ItemImage
}

func (u ItemUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Category == nil &&
		u.Condition == nil && u.Images == nil
}

// ItemRepository defines persistence for the items collection.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	FindByID(ctx context.Context, id string) (*domain.Item, error)
	// Update merges the non-nil fields of upd into the item owned by ownerID.
	// Returns domain.ErrItemNotFound when no document matches both filters.
	Update(ctx context.Context, id, ownerID string, upd ItemUpdate) (*domain.Item, error)
	// Delete removes the item owned by ownerID.
	Delete(ctx context.Context, id, ownerID string) error
	// List returns a page ordered by created_at descending plus the total count.
	List(ctx context.Context, filter ListItemsFilter) ([]*domain.Item, int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Item, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}
