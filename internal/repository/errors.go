// Package repository implements the inventory store on MySQL: catalog
// reads plus the two conditional writes the booking committer issues.
package repository

import "ticket-booking/internal/booking"

// ErrEventNotFound is returned when an event lookup yields no rows.
// It is the store contract's sentinel so that errors.Is works across
// layers; handlers translate it into an HTTP 404 response.
var ErrEventNotFound = booking.ErrEventNotFound
