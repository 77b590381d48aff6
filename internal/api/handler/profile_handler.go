package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/barterqween/barter-api/internal/core/ports"
)

// ProfileHandler handles HTTP requests for the session profile and public
// user views.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// updateProfileRequest is a partial edit: absent fields are left untouched.
type updateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=60"`
	AvatarURL   *string `json:"avatar_url"   validate:"omitempty,url"`
	Bio         *string `json:"bio"          validate:"omitempty,max=500"`
	Location    *string `json:"location"     validate:"omitempty,max=120"`
}

// Get handles GET /v1/profile.
//
// @Summary      Get the authenticated user's profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /v1/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PATCH /v1/profile.
//
// @Summary      Update the authenticated user's profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/profile [patch]
func (h *ProfileHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), userID, ports.ProfileUpdate{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Bio:         req.Bio,
		Location:    req.Location,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// GetPublic handles GET /v1/users/:id.
//
// @Summary      Get another user's public profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  ports.PublicProfile
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id} [get]
func (h *ProfileHandler) GetPublic(c echo.Context) error {
	profile, err := h.service.GetPublic(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
