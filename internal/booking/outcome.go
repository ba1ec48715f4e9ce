// Package booking implements the seat inventory booking engine: a
// validator that checks a purchase request against an event snapshot,
// and an optimistic committer that turns the validated request into a
// single conditional write against the inventory store.
//
// Validation failures and commit conflicts are expected outcomes and
// travel as data (Rejection), never as Go errors; only store I/O
// failures surface as errors.
package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// RejectKind classifies why a purchase request was not committed.
type RejectKind string

const (
	// KindNotFound means the event, section or row does not exist.
	KindNotFound RejectKind = "not_found"
	// KindInvalidRequest means a malformed quantity or seat list.
	KindInvalidRequest RejectKind = "invalid_request"
	// KindCapacity means not enough free seats at validation time.
	KindCapacity RejectKind = "capacity"
	// KindConflict means a racing request changed the row between the
	// snapshot read and the conditional write; the caller may
	// re-snapshot and resubmit.
	KindConflict RejectKind = "conflict"
)

// Rejection is the terminal non-success outcome of a purchase attempt.
// Detail carries enough context (which seat, which field) for the
// caller to re-prompt without another diagnosis round trip.
type Rejection struct {
	Kind   RejectKind `json:"kind"`
	Detail string     `json:"detail"`
}

func reject(kind RejectKind, format string, args ...any) *Rejection {
	return &Rejection{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// rejectSeatsTaken formats the already-booked seat numbers into the
// rejection detail, listing them for the caller.
func rejectSeatsTaken(seats []int) *Rejection {
	parts := make([]string, len(seats))
	for i, n := range seats {
		parts[i] = strconv.Itoa(n)
	}
	return reject(KindConflict, "seats already booked: %s", strings.Join(parts, ", "))
}

// Booked describes what a committed purchase actually granted.
type Booked struct {
	Section     string `json:"section"`
	Row         string `json:"row"`
	Quantity    int    `json:"quantity"`
	SeatNumbers []int  `json:"seatNumbers,omitempty"`
}

// PurchaseResult is the engine's verdict for a single purchase request.
// Exactly one of Booked or Rejection is set.
type PurchaseResult struct {
	Committed     bool       `json:"committed"`
	GroupDiscount bool       `json:"groupDiscount,omitempty"`
	BookingRef    string     `json:"bookingRef,omitempty"`
	Booked        *Booked    `json:"booked,omitempty"`
	Rejection     *Rejection `json:"rejection,omitempty"`
}

// ErrStoreUnavailable wraps I/O or communication failures talking to
// the inventory store. The conditional write either fully applies or
// not at all, so no partial state exists when this is returned.
var ErrStoreUnavailable = errors.New("inventory store unavailable")

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
