package handler

import (
	"errors"   // errors.Is comparisons against sentinel errors
	"net/http" // HTTP status codes
	"time"     // parsing the show start time

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/show-ticket-office/internal/booking"    // core seat and order engine
	"github.com/iliyamo/show-ticket-office/internal/model"      // domain models
	"github.com/iliyamo/show-ticket-office/internal/queue"      // event payloads
	"github.com/iliyamo/show-ticket-office/internal/repository" // sentinel errors
	qp "github.com/iliyamo/show-ticket-office/internal/service" // best-effort event publisher
)

// OperatorHandler serves the operator surface: show administration and
// receipt settlement.  Role enforcement happens in middleware; every
// settlement is stamped with the authenticated operator's ID.
type OperatorHandler struct {
	Svc *booking.Service
}

// NewOperatorHandler constructs an OperatorHandler.  Svc must be non-nil.
func NewOperatorHandler(svc *booking.Service) *OperatorHandler {
	if svc == nil {
		panic("nil service passed to NewOperatorHandler")
	}
	return &OperatorHandler{Svc: svc}
}

// CreateShow handles POST /v1/operator/shows.  The body carries the
// title, an RFC3339 start time, the seat grid dimensions and the unit
// price; the show and its full seat grid are created atomically.
func (h *OperatorHandler) CreateShow(c echo.Context) error {
	var body struct {
		Title      string `json:"title"`
		StartsAt   string `json:"starts_at"`
		Rows       uint8  `json:"rows"`
		Cols       uint8  `json:"cols"`
		PriceCents uint32 `json:"price_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}
	show, err := h.Svc.CreateShow(c.Request().Context(), body.Title, startsAt, body.Rows, body.Cols, body.PriceCents)
	if err != nil {
		if errors.Is(err, booking.ErrValidation) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create show"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": show})
}

// UpdatePrice handles PATCH /v1/operator/shows/:id/price.  Only the
// unit price changes; pending and settled orders keep the amount they
// were quoted at.
func (h *OperatorHandler) UpdatePrice(c echo.Context) error {
	showID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var body struct {
		PriceCents uint32 `json:"price_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.Svc.UpdatePrice(c.Request().Context(), showID, body.PriceCents); err != nil {
		switch {
		case errors.Is(err, booking.ErrValidation):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrShowNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update price"})
	}
	return c.JSON(http.StatusOK, echo.Map{"show_id": showID, "price_cents": body.PriceCents})
}

// ListOrders handles GET /v1/operator/orders.  An optional ?status=
// query narrows the listing; operators usually ask for PENDING to work
// the review backlog.  Orders come back newest first.
func (h *OperatorHandler) ListOrders(c echo.Context) error {
	status := c.QueryParam("status")
	switch status {
	case "", model.OrderPending, model.OrderApproved, model.OrderRejected:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status filter"})
	}
	orders, err := h.Svc.ListOrders(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load orders"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": orders})
}

// GetOrder handles GET /v1/operator/orders/:id.  Operators open a
// single order to inspect the receipt before settling it.
func (h *OperatorHandler) GetOrder(c echo.Context) error {
	orderID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	order, err := h.Svc.GetOrder(c.Request().Context(), orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load order"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": order})
}

// ApproveOrder handles POST /v1/operator/orders/:id/approve.  Seats
// become SOLD to the buyer and the order is stamped APPROVED.  A
// repeated approve (or an approve after reject) changes nothing and
// publishes nothing.
func (h *OperatorHandler) ApproveOrder(c echo.Context) error {
	return h.settle(c, model.OrderApproved)
}

// RejectOrder handles POST /v1/operator/orders/:id/reject.  Seats
// revert to AVAILABLE and the order is stamped REJECTED.
func (h *OperatorHandler) RejectOrder(c echo.Context) error {
	return h.settle(c, model.OrderRejected)
}

func (h *OperatorHandler) settle(c echo.Context, status string) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
	}
	ctx := c.Request().Context()
	var (
		order   *model.Order
		changed bool
	)
	if status == model.OrderApproved {
		order, changed, err = h.Svc.Approve(ctx, orderID, operatorID)
	} else {
		order, changed, err = h.Svc.Reject(ctx, orderID, operatorID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to settle order"})
	}
	// Only the settlement that actually flipped the order notifies the
	// buyer; idempotent re-settlements stay silent.
	if changed {
		eventType := queue.OrderApproved
		if status == model.OrderRejected {
			eventType = queue.OrderRejected
		}
		title := ""
		if show, err := h.Svc.GetShow(ctx, order.ShowID); err == nil {
			title = show.Title
		}
		_ = qp.PublishOrderEvent(ctx, queue.OrderEvent{
			Type:        eventType,
			OrderID:     order.ID,
			UserID:      order.UserID,
			ShowID:      order.ShowID,
			ShowTitle:   title,
			SeatCodes:   order.SeatCodes,
			AmountCents: order.AmountCents,
			Status:      order.Status,
			OccurredAt:  time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": order, "changed": changed})
}
