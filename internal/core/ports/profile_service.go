package ports

import (
	"context"

	"github.com/barterqween/barter-api/internal/core/domain"
)

// PublicProfile is the view of a user exposed to other users: no email, no
// credential material.
type PublicProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Location    string `json:"location,omitempty"`
	ItemsCount  int64  `json:"items_count"`
	TradesCount int64  `json:"trades_count"`
}

// ProfileService bridges the authenticated session and the users collection.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	GetPublic(ctx context.Context, userID string) (*PublicProfile, error)
	Update(ctx context.Context, userID string, upd ProfileUpdate) (*domain.User, error)
}
