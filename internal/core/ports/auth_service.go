package ports

import (
	"context"

	"github.com/barterqween/barter-api/internal/core/domain"
)

// AuthService handles account provisioning and sign-in. Register is the
// "first sign-in" step: it creates the profile document with zero counters.
type AuthService interface {
	Register(ctx context.Context, email, password, displayName string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
