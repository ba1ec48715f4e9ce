package booking

import "context"

// Committer converts a validated intent into exactly one conditional
// write against the inventory store and classifies the outcome. It is
// a single-row optimistic-concurrency protocol: the "expected value"
// is the snapshot's bookedSeats counter, extended in seat-number mode
// by a negative membership test over the requested seats. The store's
// conditional write is atomic over the guarded fields, so of two
// colliding commits at most one can succeed.
//
// The committer never retries. A conflicting attempt is terminal for
// this request; whether to re-snapshot and resubmit is the caller's
// policy, since a blind retry could resubmit a now-stale seat guard.
type Committer struct {
	store InventoryStore
}

// NewCommitter wires a committer to the given store.
func NewCommitter(store InventoryStore) *Committer {
	return &Committer{store: store}
}

// Commit attempts the conditional write for the intent. It returns the
// booked grant on success, a conflict rejection when the guard did not
// match (zero rows affected), or an error when the store itself failed.
func (c *Committer) Commit(ctx context.Context, intent *Intent) (*Booked, *Rejection, error) {
	var (
		affected int64
		err      error
	)
	switch intent.Mode {
	case ModeSeats:
		affected, err = c.store.BookSeats(ctx,
			intent.EventID, intent.Section, intent.Row,
			intent.SnapshotBooked, intent.SeatNumbers)
	default:
		affected, err = c.store.BookQuantity(ctx,
			intent.EventID, intent.Section, intent.Row,
			intent.SnapshotBooked, intent.Quantity)
	}
	if err != nil {
		return nil, nil, storeErr(err)
	}
	if affected == 0 {
		// The guard no longer matched: another request committed
		// between our snapshot read and this write.
		return nil, reject(KindConflict, "seats changed, please try again"), nil
	}

	booked := &Booked{
		Section:  intent.Section,
		Row:      intent.Row,
		Quantity: intent.Quantity,
	}
	if intent.Mode == ModeSeats {
		booked.Quantity = len(intent.SeatNumbers)
		booked.SeatNumbers = intent.SeatNumbers
	}
	return booked, nil, nil
}
