package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/barterqween/barter-api/internal/core/ports"
)

// ItemHandler handles HTTP requests for listing operations.
type ItemHandler struct {
	service ports.ItemService
}

func NewItemHandler(service ports.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// List handles GET /v1/items.
//
// @Summary      List items (public feed)
// @Tags         items
// @Produce      json
// @Param        category  query     string  false  "Filter by category"
// @Param        search    query     string  false  "Case-insensitive match on title or description"
// @Param        page      query     int     false  "Page number (1-based)"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Success      200       {object}  listItemsResponse
// @Failure      500       {object}  map[string]string
// @Router       /v1/items [get]
func (h *ItemHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), ports.ListItemsInput{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListItemsResponse(result))
}

// Get handles GET /v1/items/:id.
//
// @Summary      Get a single item
// @Tags         items
// @Produce      json
// @Param        id   path      string  true  "Item id"
// @Success      200  {object}  itemResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/items/{id} [get]
func (h *ItemHandler) Get(c echo.Context) error {
	item, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

// Create handles POST /v1/items.
//
// @Summary      Create a listing
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createItemRequest  true  "Listing details"
// @Success      201   {object}  itemResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/items [post]
func (h *ItemHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.service.Create(c.Request().Context(), toCreateItemInput(req, userID))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toItemResponse(item))
}

// Update handles PATCH /v1/items/:id.
//
// @Summary      Update a listing (owner only)
// @Tags         items
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Item id"
// @Param        body  body      updateItemRequest  true  "Fields to change"
// @Success      200   {object}  itemResponse
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/items/{id} [patch]
func (h *ItemHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	item, err := h.service.Update(c.Request().Context(), ports.UpdateItemInput{
		OwnerID: userID,
		ItemID:  c.Param("id"),
		Update:  toItemUpdate(req),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toItemResponse(item))
}

// Delete handles DELETE /v1/items/:id.
//
// @Summary      Delete a listing (owner only)
// @Tags         items
// @Security     BearerAuth
// @Param        id  path  string  true  "Item id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/items/{id} [delete]
func (h *ItemHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// ListMine handles GET /v1/my/items.
//
// @Summary      List the authenticated user's items
// @Tags         items
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  myItemsResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/my/items [get]
func (h *ItemHandler) ListMine(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, myItemsResponse{Data: toItemResponses(items)})
}
