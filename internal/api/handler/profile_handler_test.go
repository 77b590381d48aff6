package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/barterqween/barter-api/internal/core/domain"
	"github.com/barterqween/barter-api/internal/core/ports"
)

type stubProfileService struct {
	getFn       func(ctx context.Context, userID string) (*domain.User, error)
	getPublicFn func(ctx context.Context, userID string) (*ports.PublicProfile, error)
	updateFn    func(ctx context.Context, userID string, upd ports.ProfileUpdate) (*domain.User, error)
}

func (s *stubProfileService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.getFn(ctx, userID)
}

func (s *stubProfileService) GetPublic(ctx context.Context, userID string) (*ports.PublicProfile, error) {
	return s.getPublicFn(ctx, userID)
}

func (s *stubProfileService) Update(ctx context.Context, userID string, upd ports.ProfileUpdate) (*domain.User, error) {
	return s.updateFn(ctx, userID, upd)
}

func TestProfileHandler_Get_Success(t *testing.T) {
	stub := &stubProfileService{
		getFn: func(ctx context.Context, userID string) (*domain.User, error) {
			if userID != "u1" {
				t.Fatalf("wrong user: %q", userID)
			}
			return &domain.User{ID: "u1", Email: "a@example.com", DisplayName: "Alice", PasswordHash: "hash"}, nil
		},
	}
	handler := NewProfileHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/v1/profile", "")
	c.Set("user_id", "u1")

	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, leaked := resp["password_hash"]; leaked {
		t.Fatal("password hash must never be serialized")
	}
}

func TestProfileHandler_Update_PartialFields(t *testing.T) {
	stub := &stubProfileService{
		updateFn: func(ctx context.Context, userID string, upd ports.ProfileUpdate) (*domain.User, error) {
			if upd.Bio == nil || *upd.Bio != "Collector of odd lamps" {
				t.Fatalf("bio must be set: %+v", upd)
			}
			if upd.DisplayName != nil || upd.AvatarURL != nil || upd.Location != nil {
				t.Fatalf("absent fields must stay nil: %+v", upd)
			}
			return &domain.User{ID: userID, Bio: *upd.Bio}, nil
		},
	}
	handler := NewProfileHandler(stub)

	c, rec := newTestContext(t, http.MethodPatch, "/v1/profile", `{"bio":"Collector of odd lamps"}`)
	c.Set("user_id", "u1")

	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProfileHandler_Update_Validation(t *testing.T) {
	handler := NewProfileHandler(&stubProfileService{
		updateFn: func(ctx context.Context, userID string, upd ports.ProfileUpdate) (*domain.User, error) {
			t.Fatal("service must not be called on invalid input")
			return nil, nil
		},
	})

	c, _ := newTestContext(t, http.MethodPatch, "/v1/profile", `{"avatar_url":"not a url"}`)
	c.Set("user_id", "u1")

	if code := httpErrorCode(t, handler.Update(c)); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestProfileHandler_GetPublic(t *testing.T) {
	stub := &stubProfileService{
		getPublicFn: func(ctx context.Context, userID string) (*ports.PublicProfile, error) {
			if userID != "u2" {
				t.Fatalf("wrong user: %q", userID)
			}
			return &ports.PublicProfile{ID: "u2", DisplayName: "Bob", ItemsCount: 3}, nil
		},
	}
	handler := NewProfileHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/v1/users/u2", "")
	c.SetParamNames("id")
	c.SetParamValues("u2")
	c.Set("user_id", "u1")

	if err := handler.GetPublic(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, hasEmail := resp["email"]; hasEmail {
		t.Fatal("public profile must not expose email")
	}
	if resp["display_name"] != "Bob" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestProfileHandler_GetPublic_NotFoundBubblesUp(t *testing.T) {
	stub := &stubProfileService{
		getPublicFn: func(ctx context.Context, userID string) (*ports.PublicProfile, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	handler := NewProfileHandler(stub)

	c, _ := newTestContext(t, http.MethodGet, "/v1/users/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	c.Set("user_id", "u1")

	if err := handler.GetPublic(c); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
