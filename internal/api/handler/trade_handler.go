package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/barterqween/barter-api/internal/core/domain"
	"github.com/barterqween/barter-api/internal/core/ports"
)

// TradeHandler handles HTTP requests for the trade workflow.
type TradeHandler struct {
	service ports.TradeService
}

func NewTradeHandler(service ports.TradeService) *TradeHandler {
	return &TradeHandler{service: service}
}

// Create handles POST /v1/trades.
//
// @Summary      Send a trade offer on an item
// @Tags         trades
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Idempotency key to prevent duplicate offers"
// @Param        body             body      createTradeRequest  true   "Offer details"
// @Success      200              {object}  tradeResponse  "Replay of a previously created offer"
// @Success      201              {object}  tradeResponse
// @Failure      404              {object}  map[string]string
// @Failure      409              {object}  map[string]string
// @Failure      422              {object}  map[string]string
// @Router       /v1/trades [post]
func (h *TradeHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createTradeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.service.Create(c.Request().Context(), ports.CreateTradeInput{
		SenderID:       userID,
		ItemID:         req.ItemID,
		Message:        req.Message,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, toTradeResponse(result.Trade))
}

// Get handles GET /v1/trades/:id.
//
// @Summary      Get a trade (participants only)
// @Tags         trades
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Trade id"
// @Success      200  {object}  tradeResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/trades/{id} [get]
func (h *TradeHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	trade, err := h.service.Get(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTradeResponse(trade))
}

// Accept handles POST /v1/trades/:id/accept.
//
// @Summary      Accept a pending trade (recipient only)
// @Tags         trades
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Trade id"
// @Success      200  {object}  tradeResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/trades/{id}/accept [post]
func (h *TradeHandler) Accept(c echo.Context) error {
	return h.transition(c, h.service.Accept)
}

// Reject handles POST /v1/trades/:id/reject.
//
// @Summary      Reject a pending trade (recipient only)
// @Tags         trades
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Trade id"
// @Success      200  {object}  tradeResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/trades/{id}/reject [post]
func (h *TradeHandler) Reject(c echo.Context) error {
	return h.transition(c, h.service.Reject)
}

// Complete handles POST /v1/trades/:id/complete.
//
// @Summary      Mark an accepted trade as completed (either participant)
// @Tags         trades
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Trade id"
// @Success      200  {object}  tradeResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /v1/trades/{id}/complete [post]
func (h *TradeHandler) Complete(c echo.Context) error {
	return h.transition(c, h.service.Complete)
}

func (h *TradeHandler) transition(c echo.Context, fn func(ctx context.Context, tradeID, actorID string) (*domain.Trade, error)) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	trade, err := fn(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTradeResponse(trade))
}

// ListReceived handles GET /v1/trades/received.
//
// @Summary      List trades received by the authenticated user
// @Tags         trades
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listTradesResponse
// @Router       /v1/trades/received [get]
func (h *TradeHandler) ListReceived(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	trades, err := h.service.ListReceived(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listTradesResponse{Data: toTradeResponses(trades)})
}

// ListSent handles GET /v1/trades/sent.
//
// @Summary      List trades sent by the authenticated user
// @Tags         trades
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listTradesResponse
// @Router       /v1/trades/sent [get]
func (h *TradeHandler) ListSent(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	trades, err := h.service.ListSent(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listTradesResponse{Data: toTradeResponses(trades)})
}
