package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"ticket-booking/internal/booking"
	"ticket-booking/internal/model"
)

// EventHandler serves the catalog endpoints: event creation, listing
// and per-row availability. Cache may be nil, in which case every
// availability request hits the store.
type EventHandler struct {
	Catalog Catalog
	Cache   AvailabilityCache
}

// NewEventHandler constructs an EventHandler. catalog must be non-nil.
func NewEventHandler(catalog Catalog, cache AvailabilityCache) *EventHandler {
	if catalog == nil {
		panic("nil catalog passed to NewEventHandler")
	}
	return &EventHandler{Catalog: catalog, Cache: cache}
}

// CreateEvent handles POST /api/events. The payload is validated
// structurally (names, date, unique sections/rows, positive seat
// counts) before anything is written; rows always start with zero
// booked seats.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var in model.CreateEventInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := in.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	}
	ev, err := h.Catalog.CreateEvent(c.Request().Context(), &in)
	if err != nil {
		log.Printf("handler: create event failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create event"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "event": ev})
}

// ListEvents handles GET /api/events and returns every event with its
// section names.
func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.Catalog.ListEvents(c.Request().Context())
	if err != nil {
		log.Printf("handler: list events failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not list events"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "events": events})
}

// availabilityResponse is the cached/rendered shape of the
// availability endpoint.
type availabilityResponse struct {
	Success      bool                        `json:"success"`
	EventID      uint64                      `json:"eventId"`
	Availability []model.SectionAvailability `json:"availability"`
}

// GetAvailability handles GET /api/events/:id/availability. The
// rendered payload is cached in redis; committed purchases invalidate
// the entry, so a hit is at most one TTL stale and never wrong after a
// booking.
func (h *EventHandler) GetAvailability(c echo.Context) error {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || eventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid event id"})
	}
	ctx := c.Request().Context()

	if h.Cache != nil {
		if payload, err := h.Cache.Get(ctx, eventID); err == nil && payload != nil {
			return c.JSONBlob(http.StatusOK, payload)
		}
	}

	ev, err := h.Catalog.ReadEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, booking.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "event not found"})
		}
		log.Printf("handler: read event %d failed: %v", eventID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not load event"})
	}

	resp := availabilityResponse{Success: true, EventID: ev.ID, Availability: ev.Availability()}
	payload, err := json.Marshal(resp)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not render availability"})
	}
	if h.Cache != nil {
		if err := h.Cache.Set(ctx, eventID, payload); err != nil {
			log.Printf("handler: cache availability for event %d failed: %v", eventID, err)
		}
	}
	return c.JSONBlob(http.StatusOK, payload)
}
