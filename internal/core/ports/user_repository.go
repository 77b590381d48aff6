package ports

import (
	"context"

	"github.com/barterqween/barter-api/internal/core/domain"
)

// ProfileUpdate carries a partial profile edit. Nil fields are left
// untouched (merge semantics).
type ProfileUpdate struct {
	DisplayName *string
	AvatarURL   *string
	Bio         *string
	Location    *string
}

// Empty reports whether the update would change nothing.
func (u ProfileUpdate) Empty() bool {
	return u.DisplayName == nil && u.AvatarURL == nil && u.Bio == nil && u.Location == nil
}

// UserRepository defines persistence for the users collection. It doubles as
// the credential store: email/password sign-in and the profile document live
// in the same document set.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateProfile merges the non-nil fields of upd into the document.
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*domain.User, error)
	// IncrementCounters adjusts the denormalized counters. Callers must run
	// this in the same transaction as the write that changes the real count.
	IncrementCounters(ctx context.Context, id string, itemsDelta, tradesDelta int64) error
	// SetCounters overwrites both counters; used by the reconciler.
	SetCounters(ctx context.Context, id string, itemsCount, tradesCount int64) error
	// AllIDs returns the identifiers of every user, for reconciliation sweeps.
	AllIDs(ctx context.Context) ([]string, error)
}
