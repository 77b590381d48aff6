package service

import (
	"context"
	"errors"
	"testing"

	"github.com/barterqween/barter-api/internal/core/domain"
	"github.com/barterqween/barter-api/internal/core/ports"
)

func TestProfileService_Update_MergesPartialFields(t *testing.T) {
	users := newStubUserRepo()
	users.add(&domain.User{ID: "u1", Email: "a@example.com", DisplayName: "Alice", Bio: "old bio", Location: "Berlin"})
	svc := NewProfileService(users, &stubCleaner{}, discardLogger)

	bio := "new bio"
	updated, err := svc.Update(context.Background(), "u1", ports.ProfileUpdate{Bio: &bio})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Bio != "new bio" {
		t.Errorf("bio not updated: %q", updated.Bio)
	}
	// Unspecified fields survive the merge.
	if updated.DisplayName != "Alice" || updated.Location != "Berlin" {
		t.Errorf("merge must not clear other fields: %q %q", updated.DisplayName, updated.Location)
	}
}

func TestProfileService_Update_EmptyIsNoop(t *testing.T) {
	users := newStubUserRepo()
	users.add(&domain.User{ID: "u1", DisplayName: "Alice"})
	svc := NewProfileService(users, &stubCleaner{}, discardLogger)

	updated, err := svc.Update(context.Background(), "u1", ports.ProfileUpdate{})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.DisplayName != "Alice" {
		t.Errorf("noop update must return the profile unchanged")
	}
}

func TestProfileService_Update_ReplacingAvatarDestroysOldAsset(t *testing.T) {
	users := newStubUserRepo()
	users.add(&domain.User{
		ID:          "u1",
		DisplayName: "Alice",
		AvatarURL:   "https://res.cloudinary.com/demo/image/upload/v1719/avatars/u1/old.jpg",
	})
	cleaner := &stubCleaner{}
	svc := NewProfileService(users, cleaner, discardLogger)

	avatar := "https://res.cloudinary.com/demo/image/upload/v1720/avatars/u1/new.jpg"
	if _, err := svc.Update(context.Background(), "u1", ports.ProfileUpdate{AvatarURL: &avatar}); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if len(cleaner.destroyed) != 1 || cleaner.destroyed[0] != "avatars/u1/old" {
		t.Errorf("expected old avatar destroyed, got %v", cleaner.destroyed)
	}
}

func TestProfileService_Update_UnknownUser(t *testing.T) {
	svc := NewProfileService(newStubUserRepo(), &stubCleaner{}, discardLogger)
	name := "Ghost"
	if _, err := svc.Update(context.Background(), "missing", ports.ProfileUpdate{DisplayName: &name}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestProfileService_GetPublic_HidesPrivateFields(t *testing.T) {
	users := newStubUserRepo()
	users.add(&domain.User{
		ID: "u1", Email: "a@example.com", PasswordHash: "hash",
		DisplayName: "Alice", ItemsCount: 3, TradesCount: 2,
	})
	svc := NewProfileService(users, &stubCleaner{}, discardLogger)

	pub, err := svc.GetPublic(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pub.DisplayName != "Alice" || pub.ItemsCount != 3 || pub.TradesCount != 2 {
		t.Errorf("public fields wrong: %+v", pub)
	}
}

func TestPublicIDFromURL(t *testing.T) {
	cases := []struct {
		url, want string
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1719/avatars/u1/pic.jpg", "avatars/u1/pic"},
		{"https://res.cloudinary.com/demo/image/upload/avatars/u1/pic.png", "avatars/u1/pic"},
		{"https://example.com/no-upload-segment.jpg", ""},
	}
	for _, c := range cases {
		if got := publicIDFromURL(c.url); got != c.want {
			t.Errorf("publicIDFromURL(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}
