// Package handler contains the HTTP handlers for the catalog and
// purchase endpoints. Handlers depend on small interfaces rather than
// concrete types so tests can swap in in-memory implementations.
package handler

import (
	"context"

	"ticket-booking/internal/booking"
	"ticket-booking/internal/model"
)

// Catalog is the read/write surface of the event catalog, implemented
// by repository.InventoryRepo.
type Catalog interface {
	CreateEvent(ctx context.Context, in *model.CreateEventInput) (*model.Event, error)
	ListEvents(ctx context.Context) ([]model.EventSummary, error)
	ReadEvent(ctx context.Context, eventID uint64) (*model.Event, error)
}

// PurchaseEngine decides purchase requests, implemented by
// booking.Service.
type PurchaseEngine interface {
	Purchase(ctx context.Context, eventID uint64, req *booking.PurchaseRequest) (*booking.PurchaseResult, error)
}

// AvailabilityCache caches marshaled availability payloads. A nil
// cache disables caching entirely.
type AvailabilityCache interface {
	Get(ctx context.Context, eventID uint64) ([]byte, error)
	Set(ctx context.Context, eventID uint64, payload []byte) error
}
