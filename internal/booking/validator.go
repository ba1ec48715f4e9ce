package booking

import "ticket-booking/internal/model"

// GroupDiscountThreshold is the request size (seats) at which a single
// purchase qualifies for the group discount.
const GroupDiscountThreshold = 4

// Mode distinguishes the two mutually exclusive purchase shapes.
type Mode int

const (
	// ModeQuantity books N unspecified seats, tracked by counter only.
	ModeQuantity Mode = iota
	// ModeSeats books explicitly numbered seats.
	ModeSeats
)

// PurchaseRequest is the wire shape of a purchase. Exactly one of
// Quantity or SeatNumbers must be supplied; the validator rejects
// requests carrying both or neither.
type PurchaseRequest struct {
	SectionName string `json:"sectionName"`
	RowName     string `json:"rowName"`
	Quantity    int    `json:"quantity,omitempty"`
	SeatNumbers []int  `json:"seatNumbers,omitempty"`
}

// Size is the number of seats the request asks for.
func (r *PurchaseRequest) Size() int {
	if len(r.SeatNumbers) > 0 {
		return len(r.SeatNumbers)
	}
	return r.Quantity
}

// Intent is a validated purchase request carrying the snapshot values
// that become the precondition of the conditional write. Time passes
// between the snapshot read and the commit attempt, so the committer
// must re-verify nothing changed via the store's guard, not in code.
type Intent struct {
	EventID        uint64
	Section        string
	Row            string
	Mode           Mode
	Quantity       int
	SeatNumbers    []int
	SnapshotBooked int
	GroupDiscount  bool
}

// Validate checks a purchase request against an event snapshot and
// either produces an intent or a rejection. Checks run in a fixed
// order and the first failure wins:
//
//  1. section exists
//  2. row exists
//  3. exactly one of quantity / seatNumbers is supplied
//  4. seat-number mode: numbers in range, none already booked
//  5. quantity mode: row not already sold by seat number, enough free seats
//
// Validation is pure: the same request against the same snapshot always
// yields the same verdict.
func Validate(ev *model.Event, req *PurchaseRequest) (*Intent, *Rejection) {
	sec := ev.FindSection(req.SectionName)
	if sec == nil {
		return nil, reject(KindNotFound, "section not found: %s", req.SectionName)
	}
	row := sec.FindRow(req.RowName)
	if row == nil {
		return nil, reject(KindNotFound, "row not found: %s", req.RowName)
	}

	hasQty := req.Quantity > 0
	hasSeats := len(req.SeatNumbers) > 0
	if hasQty == hasSeats {
		// both or neither
		return nil, reject(KindInvalidRequest, "provide a valid quantity or specific seatNumbers")
	}

	intent := &Intent{
		EventID:        ev.ID,
		Section:        sec.Name,
		Row:            row.Name,
		SnapshotBooked: row.BookedSeats,
	}

	if hasSeats {
		for _, n := range req.SeatNumbers {
			if n < 1 || n > row.TotalSeats {
				return nil, reject(KindInvalidRequest, "invalid seat number: %d", n)
			}
		}
		if dup := firstDuplicate(req.SeatNumbers); dup != 0 {
			return nil, reject(KindInvalidRequest, "duplicate seat number: %d", dup)
		}
		var taken []int
		for _, n := range req.SeatNumbers {
			if row.IsBooked(n) {
				taken = append(taken, n)
			}
		}
		if len(taken) > 0 {
			return nil, rejectSeatsTaken(taken)
		}
		intent.Mode = ModeSeats
		intent.SeatNumbers = append([]int(nil), req.SeatNumbers...)
		intent.GroupDiscount = len(req.SeatNumbers) >= GroupDiscountThreshold
		return intent, nil
	}

	// Quantity mode. A row that has ever been sold by explicit seat
	// number keeps bookedIndices authoritative; allowing counter-only
	// bookings on it would let bookedSeats drift from the recorded
	// indices, so mixing is refused.
	if len(row.BookedIndices) > 0 {
		return nil, reject(KindInvalidRequest, "row %s is sold by seat number; provide seatNumbers", row.Name)
	}
	if row.AvailableSeats() < req.Quantity {
		return nil, reject(KindCapacity, "not enough seats available: %d requested, %d free", req.Quantity, row.AvailableSeats())
	}
	intent.Mode = ModeQuantity
	intent.Quantity = req.Quantity
	intent.GroupDiscount = req.Quantity >= GroupDiscountThreshold
	return intent, nil
}

// firstDuplicate returns the first repeated value, or 0 when all are
// distinct. Seat numbers are 1-based so 0 is never a valid seat.
func firstDuplicate(seats []int) int {
	seen := make(map[int]struct{}, len(seats))
	for _, n := range seats {
		if _, ok := seen[n]; ok {
			return n
		}
		seen[n] = struct{}{}
	}
	return 0
}
