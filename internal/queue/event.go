// Package queue defines the message payloads exchanged over the broker
// and the publisher/consumer pair for committed purchases.
package queue

// TicketsPurchasedEvent is published after a purchase commits. It
// carries enough for downstream consumers (audit log, analytics) to act
// without querying the catalog store.
type TicketsPurchasedEvent struct {
	BookingRef    string `json:"booking_ref"`
	EventID       uint64 `json:"event_id"`
	Section       string `json:"section"`
	Row           string `json:"row"`
	Quantity      int    `json:"quantity"`
	SeatNumbers   []int  `json:"seat_numbers,omitempty"`
	GroupDiscount bool   `json:"group_discount"`
	PurchasedAt   string `json:"purchased_at"`
}
