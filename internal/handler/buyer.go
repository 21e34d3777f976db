package handler

import (
	"errors"   // errors.Is comparisons against sentinel errors
	"net/http" // HTTP status codes
	"time"     // timestamps on published events

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/show-ticket-office/internal/booking"    // core seat and order engine
	"github.com/iliyamo/show-ticket-office/internal/model"      // domain models
	"github.com/iliyamo/show-ticket-office/internal/queue"      // event payloads
	"github.com/iliyamo/show-ticket-office/internal/repository" // sentinel errors
	qp "github.com/iliyamo/show-ticket-office/internal/service" // best-effort event publisher
)

// BuyerHandler serves the buyer-facing surface used by the
// conversational front-end: show browsing, seat toggling, hold
// confirmation, order submission and session state.  All methods
// assume JWT authentication and role validation have already been
// performed by middleware.
type BuyerHandler struct {
	Svc         *booking.Service // core engine; all state changes go through it
	HoldMinutes int              // hold lifetime applied on seat acquisition
}

// NewBuyerHandler constructs a BuyerHandler.  Svc must be non-nil and
// holdMinutes positive.
func NewBuyerHandler(svc *booking.Service, holdMinutes int) *BuyerHandler {
	if svc == nil {
		panic("nil service passed to NewBuyerHandler")
	}
	if holdMinutes <= 0 {
		panic("non-positive hold minutes passed to NewBuyerHandler")
	}
	return &BuyerHandler{Svc: svc, HoldMinutes: holdMinutes}
}

// ListShows handles GET /v1/shows.  It returns upcoming shows only;
// shows whose start time has passed drop out of the listing.
func (h *BuyerHandler) ListShows(c echo.Context) error {
	shows, err := h.Svc.ListShows(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load shows"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": shows})
}

// GetShow handles GET /v1/shows/:id.
func (h *BuyerHandler) GetShow(c echo.Context) error {
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	show, err := h.Svc.GetShow(c.Request().Context(), showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load show"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": show})
}

// SeatMap handles GET /v1/shows/:id/seats.  It returns every seat of
// the show in grid order with its current status; expired holds are
// reverted before the snapshot is taken.
func (h *BuyerHandler) SeatMap(c echo.Context) error {
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	seats, err := h.Svc.SeatStatusMap(c.Request().Context(), showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seat map"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": seats})
}

// ToggleSeat handles POST /v1/shows/:id/seats/:code/toggle.  The
// response always carries the outcome; a sold or foreign-held seat is
// a 409 so the front-end can tell the buyer to pick another seat.
func (h *BuyerHandler) ToggleSeat(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	code := c.Param("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat code"})
	}
	outcome, err := h.Svc.Toggle(c.Request().Context(), showID, code, userID, h.HoldMinutes)
	if err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to toggle seat"})
	}
	status := http.StatusOK
	if outcome == booking.ToggleSold || outcome == booking.ToggleHeldByOther {
		status = http.StatusConflict
	}
	return c.JSON(status, echo.Map{"outcome": outcome})
}

// ConfirmSeats handles POST /v1/shows/:id/confirm.  It freezes the
// buyer's current holds so they can no longer lapse and returns the
// quoted total.  When nothing is held — including when every hold
// expired before the buyer confirmed — it returns 409 so the
// front-end restarts seat selection.
func (h *BuyerHandler) ConfirmSeats(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	codes, total, err := h.Svc.Freeze(c.Request().Context(), showID, userID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNoSeatsHeld):
			return c.JSON(http.StatusConflict, echo.Map{"error": "no seats held"})
		case errors.Is(err, repository.ErrShowNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm seats"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"seats":        codes,
		"amount_cents": total,
	})
}

// CreateOrder handles POST /v1/orders.  The request carries the show,
// the frozen seat codes, the quoted amount and the payment receipt
// (an image reference or a free-text note).  On success the order is
// PENDING and an order.created event is published for the operator
// channel; publish failures are ignored because the database row is
// the source of truth.
func (h *BuyerHandler) CreateOrder(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ShowID      uint64        `json:"show_id"`
		Seats       []string      `json:"seats"`
		AmountCents uint32        `json:"amount_cents"`
		Receipt     model.Receipt `json:"receipt"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ShowID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_id is required"})
	}
	ctx := c.Request().Context()
	order, err := h.Svc.CreateOrder(ctx, userID, body.ShowID, body.Seats, body.AmountCents, body.Receipt)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidReceipt):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid receipt"})
		case errors.Is(err, booking.ErrNoSeatsHeld):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats are required"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create order"})
	}
	title := ""
	if show, err := h.Svc.GetShow(ctx, order.ShowID); err == nil {
		title = show.Title
	}
	_ = qp.PublishOrderEvent(ctx, queue.OrderEvent{
		Type:        queue.OrderCreated,
		OrderID:     order.ID,
		UserID:      order.UserID,
		ShowID:      order.ShowID,
		ShowTitle:   title,
		SeatCodes:   order.SeatCodes,
		AmountCents: order.AmountCents,
		Status:      order.Status,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusCreated, echo.Map{"item": order})
}

// GetSession handles GET /v1/session.  It returns the buyer's stored
// conversation state or 404 when none exists.
func (h *BuyerHandler) GetSession(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sess, err := h.Svc.GetSession(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load session"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": sess})
}

// PutSession handles PUT /v1/session.  The front-end overwrites the
// buyer's conversation state whenever the dialog advances.
func (h *BuyerHandler) PutSession(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		State      string   `json:"state"`
		ShowID     *uint64  `json:"show_id"`
		SeatCodes  []string `json:"seat_codes"`
		TotalCents uint32   `json:"total_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.State == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "state is required"})
	}
	sess := &model.Session{
		UserID:     userID,
		State:      body.State,
		ShowID:     body.ShowID,
		SeatCodes:  body.SeatCodes,
		TotalCents: body.TotalCents,
	}
	if err := h.Svc.SetSession(c.Request().Context(), sess); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store session"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": sess})
}

// DeleteSession handles DELETE /v1/session.  Clearing a session that
// does not exist is a no-op 204.
func (h *BuyerHandler) DeleteSession(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Svc.ClearSession(c.Request().Context(), userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to clear session"})
	}
	return c.NoContent(http.StatusNoContent)
}
