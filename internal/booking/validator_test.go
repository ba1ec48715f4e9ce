package booking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-booking/internal/booking"
)

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		booked     int
		indices    []int
		req        booking.PurchaseRequest
		wantKind   booking.RejectKind
		wantDetail string
	}{
		{
			name:       "unknown section",
			total:      10,
			req:        booking.PurchaseRequest{SectionName: "Balcony", RowName: "A", Quantity: 1},
			wantKind:   booking.KindNotFound,
			wantDetail: "Balcony",
		},
		{
			name:       "unknown row",
			total:      10,
			req:        booking.PurchaseRequest{SectionName: "Main", RowName: "Z", Quantity: 1},
			wantKind:   booking.KindNotFound,
			wantDetail: "Z",
		},
		{
			name:     "neither quantity nor seats",
			total:    10,
			req:      booking.PurchaseRequest{SectionName: "Main", RowName: "A"},
			wantKind: booking.KindInvalidRequest,
		},
		{
			name:     "both quantity and seats",
			total:    10,
			req:      booking.PurchaseRequest{SectionName: "Main", RowName: "A", Quantity: 2, SeatNumbers: []int{1, 2}},
			wantKind: booking.KindInvalidRequest,
		},
		{
			name:     "negative quantity",
			total:    10,
			req:      booking.PurchaseRequest{SectionName: "Main", RowName: "A", Quantity: -3},
			wantKind: booking.KindInvalidRequest,
		},
		{
			name:       "seat number below range",
			total:      10,
			req:        booking.PurchaseRequest{SectionName: "Main", RowName: "A", SeatNumbers: []int{0}},
			wantKind:   booking.KindInvalidRequest,
			wantDetail: "0",
		},
		{
			name:       "seat number above range",
			total:      10,
			req:        booking.PurchaseRequest{SectionName: "Main", RowName: "A", SeatNumbers: []int{3, 11}},
			wantKind:   booking.KindInvalidRequest,
			wantDetail: "11",
		},
		{
			name:       "duplicate seat in request",
			total:      10,
			req:        booking.PurchaseRequest{SectionName: "Main", RowName: "A", SeatNumbers: []int{2, 5, 2}},
			wantKind:   booking.KindInvalidRequest,
			wantDetail: "2",
		},
		{
			name:       "seat already booked",
			total:      10,
			booked:     2,
			indices:    []int{3, 7},
			req:        booking.PurchaseRequest{SectionName: "Main", RowName: "A", SeatNumbers: []int{3, 5}},
			wantKind:   booking.KindConflict,
			wantDetail: "3",
		},
		{
			name:     "quantity on seat-numbered row",
			total:    10,
			booked:   1,
			indices:  []int{4},
			req:      booking.PurchaseRequest{SectionName: "Main", RowName: "A", Quantity: 2},
			wantKind: booking.KindInvalidRequest,
		},
		{
			name:     "insufficient capacity",
			total:    5,
			booked:   5,
			req:      booking.PurchaseRequest{SectionName: "Main", RowName: "A", Quantity: 1},
			wantKind: booking.KindCapacity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := testEvent(tt.total, tt.booked, tt.indices...)
			intent, rej := booking.Validate(ev, &tt.req)
			require.Nil(t, intent)
			require.NotNil(t, rej)
			assert.Equal(t, tt.wantKind, rej.Kind)
			if tt.wantDetail != "" {
				assert.Contains(t, rej.Detail, tt.wantDetail)
			}
		})
	}
}

func TestValidate_QuantityIntent(t *testing.T) {
	ev := testEvent(10, 3)
	req := &booking.PurchaseRequest{SectionName: "Main", RowName: "A", Quantity: 3}

	intent, rej := booking.Validate(ev, req)
	require.Nil(t, rej)
	require.NotNil(t, intent)
	assert.Equal(t, booking.ModeQuantity, intent.Mode)
	assert.Equal(t, 3, intent.Quantity)
	assert.Equal(t, 3, intent.SnapshotBooked)
	assert.False(t, intent.GroupDiscount, "quantity 3 must not qualify for group discount")
}

func TestValidate_SeatIntent(t *testing.T) {
	ev := testEvent(10, 2, 9, 10)
	req := &booking.PurchaseRequest{SectionName: "Main", RowName: "A", SeatNumbers: []int{1, 2, 3, 4}}

	intent, rej := booking.Validate(ev, req)
	require.Nil(t, rej)
	require.NotNil(t, intent)
	assert.Equal(t, booking.ModeSeats, intent.Mode)
	assert.Equal(t, []int{1, 2, 3, 4}, intent.SeatNumbers)
	assert.Equal(t, 2, intent.SnapshotBooked)
	assert.True(t, intent.GroupDiscount)
}

func TestValidate_GroupDiscountThreshold(t *testing.T) {
	ev := testEvent(20, 0)

	intent, rej := booking.Validate(ev, &booking.PurchaseRequest{SectionName: "Main", RowName: "A", Quantity: 4})
	require.Nil(t, rej)
	assert.True(t, intent.GroupDiscount)

	intent, rej = booking.Validate(ev, &booking.PurchaseRequest{SectionName: "Main", RowName: "A", SeatNumbers: []int{5, 6, 7}})
	require.Nil(t, rej)
	assert.False(t, intent.GroupDiscount)
}

// Validating the same request twice against the same snapshot must
// yield the same verdict: validation is pure.
func TestValidate_Idempotent(t *testing.T) {
	ev := testEvent(10, 4, 1, 2, 3, 4)
	req := &booking.PurchaseRequest{SectionName: "Main", RowName: "A", SeatNumbers: []int{2, 5}}

	_, first := booking.Validate(ev, req)
	_, second := booking.Validate(ev, req)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first, second)

	okReq := &booking.PurchaseRequest{SectionName: "Main", RowName: "A", SeatNumbers: []int{5, 6}}
	i1, rej := booking.Validate(ev, okReq)
	require.Nil(t, rej)
	i2, rej := booking.Validate(ev, okReq)
	require.Nil(t, rej)
	assert.Equal(t, i1, i2)
}
