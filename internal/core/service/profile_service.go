package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/barterqween/barter-api/internal/core/domain"
	"github.com/barterqween/barter-api/internal/core/ports"
)

// ProfileService exposes the session's own profile and the public view of
// other users. Updates merge: only fields the caller supplied change.
type ProfileService struct {
	users   ports.UserRepository
	cleaner AssetCleaner
	log     zerolog.Logger
}

func NewProfileService(users ports.UserRepository, cleaner AssetCleaner, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, cleaner: cleaner, log: log}
}

// Get returns the full profile of the authenticated user.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// GetPublic returns the profile view other users see.
func (s *ProfileService) GetPublic(ctx context.Context, userID string) (*ports.PublicProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ports.PublicProfile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		Bio:         user.Bio,
		Location:    user.Location,
		ItemsCount:  user.ItemsCount,
		TradesCount: user.TradesCount,
	}, nil
}

// Update merges the non-nil fields of upd into the profile. Replacing the
// avatar destroys the previous blob asset, best effort.
func (s *ProfileService) Update(ctx context.Context, userID string, upd ports.ProfileUpdate) (*domain.User, error) {
	existing, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if upd.Empty() {
		return existing, nil
	}

	updated, err := s.users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return nil, err
	}

	if upd.AvatarURL != nil && existing.AvatarURL != "" && existing.AvatarURL != *upd.AvatarURL {
		if s.cleaner != nil {
			if id := publicIDFromURL(existing.AvatarURL); id != "" {
				if err := s.cleaner.Destroy(ctx, []string{id}); err != nil {
					s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to destroy previous avatar")
				}
			}
		}
	}

	s.log.Info().Str("user_id", userID).Msg("profile updated")
	return updated, nil
}

// publicIDFromURL extracts the blob-store public ID from a Cloudinary
// delivery URL, e.g.
// https://res.cloudinary.com/demo/image/upload/v1719/avatars/u1/pic.jpg
// yields "avatars/u1/pic". Returns "" for URLs that are not deliveries.
func publicIDFromURL(rawURL string) string {
	idx := strings.Index(rawURL, "/upload/")
	if idx < 0 {
		return ""
	}
	rest := rawURL[idx+len("/upload/"):]
	if strings.HasPrefix(rest, "v") {
		if slash := strings.IndexByte(rest, '/'); slash > 1 {
			if _, err := strconv.Atoi(rest[1:slash]); err == nil {
				rest = rest[slash+1:]
			}
		}
	}
	if dot := strings.LastIndexByte(rest, '.'); dot > 0 {
		rest = rest[:dot]
	}
	return rest
}
