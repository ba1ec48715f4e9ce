package booking_test

import (
	"context"
	"sync"

	"ticket-booking/internal/booking"
	"ticket-booking/internal/model"
)

// memStore is an in-memory implementation of booking.InventoryStore.
// Reads hand out deep copies so callers hold true snapshots, and both
// conditional writes run under one mutex, giving the same atomicity
// the SQL store gets from its guarded UPDATE.
type memStore struct {
	mu       sync.Mutex
	events   map[uint64]*model.Event
	readErr  error
	writeErr error
}

func newMemStore(events ...*model.Event) *memStore {
	m := &memStore{events: make(map[uint64]*model.Event)}
	for _, ev := range events {
		m.events[ev.ID] = ev
	}
	return m
}

func (m *memStore) ReadEvent(ctx context.Context, eventID uint64) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	ev, ok := m.events[eventID]
	if !ok {
		return nil, booking.ErrEventNotFound
	}
	return copyEvent(ev), nil
}

func (m *memStore) BookQuantity(ctx context.Context, eventID uint64, section, row string, snapshotBooked, qty int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	r := m.findRow(eventID, section, row)
	if r == nil || r.BookedSeats != snapshotBooked {
		return 0, nil
	}
	r.BookedSeats += qty
	return 1, nil
}

func (m *memStore) BookSeats(ctx context.Context, eventID uint64, section, row string, snapshotBooked int, seats []int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	r := m.findRow(eventID, section, row)
	if r == nil || r.BookedSeats != snapshotBooked {
		return 0, nil
	}
	for _, n := range seats {
		if r.IsBooked(n) {
			return 0, nil
		}
	}
	r.BookedIndices = append(r.BookedIndices, seats...)
	r.BookedSeats += len(seats)
	return 1, nil
}

// row returns the live row for assertions on final state.
func (m *memStore) row(eventID uint64, section, row string) *model.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findRow(eventID, section, row)
}

func (m *memStore) findRow(eventID uint64, section, row string) *model.Row {
	ev, ok := m.events[eventID]
	if !ok {
		return nil
	}
	sec := ev.FindSection(section)
	if sec == nil {
		return nil
	}
	return sec.FindRow(row)
}

func copyEvent(ev *model.Event) *model.Event {
	out := *ev
	out.Sections = make([]model.Section, len(ev.Sections))
	for i, sec := range ev.Sections {
		cp := sec
		cp.Rows = make([]model.Row, len(sec.Rows))
		for j, row := range sec.Rows {
			rcp := row
			rcp.BookedIndices = append([]int(nil), row.BookedIndices...)
			cp.Rows[j] = rcp
		}
		out.Sections[i] = cp
	}
	return &out
}

// testEvent builds a single-section, single-row event for the common
// test shape: section "Main", row "A".
func testEvent(totalSeats, bookedSeats int, bookedIndices ...int) *model.Event {
	return &model.Event{
		ID:   1,
		Name: "Test Event",
		Sections: []model.Section{{
			Name: "Main",
			Rows: []model.Row{{
				Name:          "A",
				TotalSeats:    totalSeats,
				BookedSeats:   bookedSeats,
				BookedIndices: bookedIndices,
			}},
		}},
	}
}
