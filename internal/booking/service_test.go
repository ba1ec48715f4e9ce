package booking_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-booking/internal/booking"
	"ticket-booking/internal/queue"
)

type recordingCache struct {
	mu          sync.Mutex
	invalidated []uint64
}

func (c *recordingCache) Invalidate(ctx context.Context, eventID uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, eventID)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.TicketsPurchasedEvent
}

func (p *recordingPublisher) PublishTicketsPurchased(ctx context.Context, ev queue.TicketsPurchasedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func TestPurchase_CommitQuantity(t *testing.T) {
	store := newMemStore(testEvent(10, 0))
	cache := &recordingCache{}
	pub := &recordingPublisher{}
	svc := booking.NewService(store, cache, pub)

	res, err := svc.Purchase(context.Background(), 1,
		&booking.PurchaseRequest{SectionName: "Main", RowName: "A", Quantity: 2})
	require.NoError(t, err)
	require.True(t, res.Committed)
	assert.False(t, res.GroupDiscount)
	assert.NotEmpty(t, res.BookingRef)
	assert.Equal(t, 2, res.Booked.Quantity)
	assert.Equal(t, 2, store.row(1, "Main", "A").BookedSeats)

	assert.Equal(t, []uint64{1}, cache.invalidated)
	require.Len(t, pub.events, 1)
	assert.Equal(t, res.BookingRef, pub.events[0].BookingRef)
	assert.Equal(t, "Main", pub.events[0].Section)
}

func TestPurchase_EventNotFound(t *testing.T) {
	svc := booking.NewService(newMemStore(), nil, nil)

	res, err := svc.Purchase(context.Background(), 42,
		&booking.PurchaseRequest{SectionName: "Main", RowName: "A", Quantity: 1})
	require.NoError(t, err)
	require.False(t, res.Committed)
	assert.Equal(t, booking.KindNotFound, res.Rejection.Kind)
}

func TestPurchase_StoreUnavailable(t *testing.T) {
	store := newMemStore(testEvent(10, 0))
	store.readErr = errors.New("dial tcp: connection refused")
	svc := booking.NewService(store, nil, nil)

	res, err := svc.Purchase(context.Background(), 1,
		&booking.PurchaseRequest{SectionName: "Main", RowName: "A", Quantity: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, booking.ErrStoreUnavailable))
	assert.Nil(t, res)
}

func TestPurchase_FullRowReturnsCapacity(t *testing.T) {
	svc := booking.NewService(newMemStore(testEvent(5, 5)), nil, nil)

	res, err := svc.Purchase(context.Background(), 1,
		&booking.PurchaseRequest{SectionName: "Main", RowName: "A", Quantity: 1})
	require.NoError(t, err)
	require.False(t, res.Committed)
	assert.Equal(t, booking.KindCapacity, res.Rejection.Kind)
}

// Spec scenario: A books seats 1-4 and gets the group discount; B then
// asks for 3 and 5 and must be told seat 3 is taken.
func TestPurchase_SeatCollisionSequential(t *testing.T) {
	store := newMemStore(testEvent(10, 0))
	svc := booking.NewService(store, nil, nil)
	ctx := context.Background()

	resA, err := svc.Purchase(ctx, 1,
		&booking.PurchaseRequest{SectionName: "Main", RowName: "A", SeatNumbers: []int{1, 2, 3, 4}})
	require.NoError(t, err)
	require.True(t, resA.Committed)
	assert.True(t, resA.GroupDiscount)

	resB, err := svc.Purchase(ctx, 1,
		&booking.PurchaseRequest{SectionName: "Main", RowName: "A", SeatNumbers: []int{3, 5}})
	require.NoError(t, err)
	require.False(t, resB.Committed)
	assert.Equal(t, booking.KindConflict, resB.Rejection.Kind)
	assert.Contains(t, resB.Rejection.Detail, "3")

	row := store.row(1, "Main", "A")
	assert.Equal(t, 4, row.BookedSeats)
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, row.BookedIndices)
}

// Two concurrent quantity-3 requests against a 5-seat row: at most one
// can commit, the other sees Conflict (or Capacity when it validated
// after the winner's commit).
func TestPurchase_ConcurrentQuantityExactlyOneWinner(t *testing.T) {
	store := newMemStore(testEvent(5, 0))
	svc := booking.NewService(store, nil, nil)

	results := make([]*booking.PurchaseResult, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.Purchase(context.Background(), 1,
				&booking.PurchaseRequest{SectionName: "Main", RowName: "A", Quantity: 3})
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	committed := 0
	for _, res := range results {
		if res.Committed {
			committed++
		} else {
			assert.Contains(t,
				[]booking.RejectKind{booking.KindConflict, booking.KindCapacity},
				res.Rejection.Kind)
		}
	}
	assert.Equal(t, 1, committed)
	assert.Equal(t, 3, store.row(1, "Main", "A").BookedSeats)
}

// No oversell: many concurrent quantity requests against one row never
// push bookedSeats past totalSeats, and the counter always equals the
// sum of what the winners were told they got.
func TestPurchase_ConcurrentQuantityNoOversell(t *testing.T) {
	const total = 10
	store := newMemStore(testEvent(total, 0))
	svc := booking.NewService(store, nil, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Purchase(context.Background(), 1,
				&booking.PurchaseRequest{SectionName: "Main", RowName: "A", Quantity: 2})
			assert.NoError(t, err)
			if res.Committed {
				mu.Lock()
				granted += res.Booked.Quantity
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	row := store.row(1, "Main", "A")
	assert.LessOrEqual(t, row.BookedSeats, total)
	assert.Equal(t, granted, row.BookedSeats)
}

// No duplicate seat grant: concurrent seat-number requests with
// overlapping sets never hand the same seat to two buyers.
func TestPurchase_ConcurrentSeatRequestsNoDuplicateGrant(t *testing.T) {
	store := newMemStore(testEvent(10, 0))
	svc := booking.NewService(store, nil, nil)

	requests := [][]int{
		{1, 2, 3},
		{3, 4, 5},
		{5, 6, 7},
		{7, 8, 1},
	}
	var wg sync.WaitGroup
	var mu sync.Mutex
	var grantedSeats []int
	for _, seats := range requests {
		wg.Add(1)
		go func(seats []int) {
			defer wg.Done()
			res, err := svc.Purchase(context.Background(), 1,
				&booking.PurchaseRequest{SectionName: "Main", RowName: "A", SeatNumbers: seats})
			assert.NoError(t, err)
			if res.Committed {
				mu.Lock()
				grantedSeats = append(grantedSeats, res.Booked.SeatNumbers...)
				mu.Unlock()
			}
		}(seats)
	}
	wg.Wait()

	seen := make(map[int]bool)
	for _, n := range grantedSeats {
		assert.False(t, seen[n], "seat %d granted twice", n)
		seen[n] = true
	}

	row := store.row(1, "Main", "A")
	assert.Equal(t, len(grantedSeats), row.BookedSeats)
	assert.ElementsMatch(t, grantedSeats, row.BookedIndices)
}
