package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"ticket-booking/internal/booking"
)

// PurchaseHandler serves POST /api/events/:id/purchase by delegating
// to the booking engine and translating its verdict to HTTP.
type PurchaseHandler struct {
	Engine PurchaseEngine
}

// NewPurchaseHandler constructs a PurchaseHandler. engine must be non-nil.
func NewPurchaseHandler(engine PurchaseEngine) *PurchaseHandler {
	if engine == nil {
		panic("nil engine passed to NewPurchaseHandler")
	}
	return &PurchaseHandler{Engine: engine}
}

// Purchase decides one purchase request. Outcome mapping:
//
//	Committed                            -> 200 with the grant
//	NotFound (event, section, row)       -> 404
//	InvalidRequest / Capacity / Conflict -> 400 with kind and detail
//	store unavailable                    -> 500, nothing was mutated
//
// A Conflict response means the row changed between snapshot and
// commit; the client may re-read availability and resubmit.
func (h *PurchaseHandler) Purchase(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid event id"})
	}

	var req booking.PurchaseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if strings.TrimSpace(req.SectionName) == "" || strings.TrimSpace(req.RowName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "section and row are required"})
	}

	result, err := h.Engine.Purchase(c.Request().Context(), eventID, &req)
	if err != nil {
		log.Printf("handler: purchase for event %d failed: %v", eventID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "inventory store unavailable"})
	}

	if !result.Committed {
		rej := result.Rejection
		status := http.StatusBadRequest
		if rej.Kind == booking.KindNotFound {
			status = http.StatusNotFound
		}
		return c.JSON(status, echo.Map{
			"committed": false,
			"kind":      rej.Kind,
			"detail":    rej.Detail,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"committed":     true,
		"groupDiscount": result.GroupDiscount,
		"bookingRef":    result.BookingRef,
		"booked":        result.Booked,
	})
}
