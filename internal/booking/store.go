package booking

import (
	"context"
	"errors"

	"ticket-booking/internal/model"
)

// ErrEventNotFound is returned by InventoryStore.ReadEvent when the
// event identifier does not exist.
var ErrEventNotFound = errors.New("event not found")

// InventoryStore is the engine's only dependency: a non-atomic snapshot
// read plus two conditional-write primitives. Both writes are guarded
// by the row's bookedSeats as observed in the snapshot and report the
// number of rows affected (0 or 1); affecting zero rows is the only
// conflict signal.
//
// The production implementation lives in internal/repository; tests
// use an in-memory fake.
type InventoryStore interface {
	// ReadEvent loads a full event snapshot including row counters and
	// booked seat indices.
	ReadEvent(ctx context.Context, eventID uint64) (*model.Event, error)

	// BookQuantity increments the row's bookedSeats by qty, guarded by
	// bookedSeats == snapshotBooked.
	BookQuantity(ctx context.Context, eventID uint64, section, row string, snapshotBooked, qty int) (int64, error)

	// BookSeats records the given seat numbers and increments
	// bookedSeats by len(seats), guarded by bookedSeats ==
	// snapshotBooked AND none of the seats being currently recorded.
	BookSeats(ctx context.Context, eventID uint64, section, row string, snapshotBooked int, seats []int) (int64, error)
}
