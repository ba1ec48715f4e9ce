package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"ticket-booking/internal/monitoring"
	"ticket-booking/internal/queue"
)

// AvailabilityInvalidator drops the cached availability view of an
// event after its counters change. Implemented by the redis cache in
// internal/repository; may be nil when caching is disabled.
type AvailabilityInvalidator interface {
	Invalidate(ctx context.Context, eventID uint64) error
}

// EventPublisher emits a message for every committed purchase.
// Publishing is best effort: failures are logged, never surfaced to
// the buyer. May be nil when no broker is configured.
type EventPublisher interface {
	PublishTicketsPurchased(ctx context.Context, ev queue.TicketsPurchasedEvent) error
}

// Service orchestrates a single purchase request through its state
// machine: Received → Validated → {Committed | Rejected | Conflict}.
// It holds no locks and keeps no per-request state, so any number of
// Purchase calls may run concurrently; the store's atomic conditional
// write is the only synchronization point.
type Service struct {
	store     InventoryStore
	committer *Committer
	cache     AvailabilityInvalidator
	publisher EventPublisher
}

// NewService constructs the purchase engine. cache and publisher are
// optional; store must be non-nil.
func NewService(store InventoryStore, cache AvailabilityInvalidator, publisher EventPublisher) *Service {
	if store == nil {
		panic("nil store passed to booking.NewService")
	}
	return &Service{
		store:     store,
		committer: NewCommitter(store),
		cache:     cache,
		publisher: publisher,
	}
}

// Purchase decides one purchase request. A rejection (validation
// failure or commit conflict) is reported inside the result; an error
// is returned only when the store itself is unreachable, in which case
// nothing was mutated.
func (s *Service) Purchase(ctx context.Context, eventID uint64, req *PurchaseRequest) (*PurchaseResult, error) {
	start := time.Now()

	ev, err := s.store.ReadEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			monitoring.ObservePurchase(string(KindNotFound), time.Since(start))
			return &PurchaseResult{
				Rejection: reject(KindNotFound, "event not found: %d", eventID),
			}, nil
		}
		monitoring.ObservePurchase("store_error", time.Since(start))
		return nil, storeErr(err)
	}

	intent, rej := Validate(ev, req)
	if rej != nil {
		monitoring.ObservePurchase(string(rej.Kind), time.Since(start))
		return &PurchaseResult{Rejection: rej}, nil
	}

	booked, rej, err := s.committer.Commit(ctx, intent)
	if err != nil {
		monitoring.ObservePurchase("store_error", time.Since(start))
		return nil, err
	}
	if rej != nil {
		monitoring.ObservePurchase(string(rej.Kind), time.Since(start))
		return &PurchaseResult{Rejection: rej}, nil
	}

	result := &PurchaseResult{
		Committed:     true,
		GroupDiscount: intent.GroupDiscount,
		BookingRef:    uuid.NewString(),
		Booked:        booked,
	}
	monitoring.ObservePurchase("committed", time.Since(start))

	s.afterCommit(ctx, eventID, result)
	return result, nil
}

// afterCommit runs the non-essential side effects of a successful
// booking: cache invalidation and event publishing. Neither can undo
// the committed write, so failures are only logged.
func (s *Service) afterCommit(ctx context.Context, eventID uint64, result *PurchaseResult) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, eventID); err != nil {
			log.Printf("booking: availability cache invalidation failed for event %d: %v", eventID, err)
		}
	}
	if s.publisher != nil {
		msg := queue.TicketsPurchasedEvent{
			BookingRef:    result.BookingRef,
			EventID:       eventID,
			Section:       result.Booked.Section,
			Row:           result.Booked.Row,
			Quantity:      result.Booked.Quantity,
			SeatNumbers:   result.Booked.SeatNumbers,
			GroupDiscount: result.GroupDiscount,
			PurchasedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.publisher.PublishTicketsPurchased(ctx, msg); err != nil {
			log.Printf("booking: publish tickets.purchased failed for %s: %v", result.BookingRef, err)
		}
	}
}
