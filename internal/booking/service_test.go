package booking

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/show-ticket-office/internal/model"
	"github.com/iliyamo/show-ticket-office/internal/repository"
)

// Integration tests run against a real MySQL with the migrations
// applied.  They are skipped unless TEST_DATABASE_DSN is set, e.g.
// "user:pass@tcp(127.0.0.1:3306)/office_test?parseTime=true&loc=UTC".
func newTestService(t *testing.T) *Service {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	t.Cleanup(func() { _ = db.Close() })
	return New(db,
		repository.NewShowRepo(db),
		repository.NewSeatRepo(db),
		repository.NewOrderRepo(db),
		repository.NewSessionRepo(db),
	)
}

// newTestShow creates a fresh 2x2 show so tests never share seats.
func newTestShow(t *testing.T, svc *Service, priceCents uint32) *model.Show {
	t.Helper()
	title := fmt.Sprintf("test show %d", time.Now().UnixNano())
	show, err := svc.CreateShow(context.Background(), title, time.Now().UTC().Add(24*time.Hour), 2, 2, priceCents)
	require.NoError(t, err)
	return show
}

// uid generates user IDs unique across test runs so leftover rows in a
// shared test database cannot interfere.
func uid() uint64 { return uint64(time.Now().UnixNano()) }

func seatStatus(t *testing.T, svc *Service, showID uint64, code string) model.SeatStatus {
	t.Helper()
	seats, err := svc.SeatStatusMap(context.Background(), showID)
	require.NoError(t, err)
	for _, s := range seats {
		if s.Code == code {
			return s
		}
	}
	t.Fatalf("seat %s not found in show %d", code, showID)
	return model.SeatStatus{}
}

func TestCreateShowSeedsGrid(t *testing.T) {
	svc := newTestService(t)
	show := newTestShow(t, svc, 1500)

	seats, err := svc.SeatStatusMap(context.Background(), show.ID)
	require.NoError(t, err)
	require.Len(t, seats, 4)
	assert.Equal(t, "A1", seats[0].Code)
	assert.Equal(t, "A2", seats[1].Code)
	assert.Equal(t, "B1", seats[2].Code)
	assert.Equal(t, "B2", seats[3].Code)
	for _, s := range seats {
		assert.Equal(t, model.SeatAvailable, s.Status)
	}
}

func TestToggleRoundTrip(t *testing.T) {
	svc := newTestService(t)
	show := newTestShow(t, svc, 1500)
	ctx := context.Background()
	alice := uid()

	outcome, err := svc.Toggle(ctx, show.ID, "A1", alice, 5)
	require.NoError(t, err)
	assert.Equal(t, ToggleHeld, outcome)
	assert.Equal(t, model.SeatHeld, seatStatus(t, svc, show.ID, "A1").Status)

	outcome, err = svc.Toggle(ctx, show.ID, "A1", alice, 5)
	require.NoError(t, err)
	assert.Equal(t, ToggleReleased, outcome)
	assert.Equal(t, model.SeatAvailable, seatStatus(t, svc, show.ID, "A1").Status)
}

func TestToggleForeignHoldRefused(t *testing.T) {
	svc := newTestService(t)
	show := newTestShow(t, svc, 1500)
	ctx := context.Background()
	alice, bob := uid(), uid()+1

	_, err := svc.Toggle(ctx, show.ID, "A1", alice, 5)
	require.NoError(t, err)

	outcome, err := svc.Toggle(ctx, show.ID, "A1", bob, 5)
	require.NoError(t, err)
	assert.Equal(t, ToggleHeldByOther, outcome)

	// The hold must still belong to the first user.
	st := seatStatus(t, svc, show.ID, "A1")
	require.NotNil(t, st.HolderID)
	assert.Equal(t, alice, *st.HolderID)
}

func TestToggleUnknownSeat(t *testing.T) {
	svc := newTestService(t)
	show := newTestShow(t, svc, 1500)

	_, err := svc.Toggle(context.Background(), show.ID, "Z99", uid(), 5)
	assert.ErrorIs(t, err, repository.ErrSeatNotFound)
}

// Many buyers race for the same seat; exactly one may win the hold.
func TestConcurrentToggleSingleWinner(t *testing.T) {
	svc := newTestService(t)
	show := newTestShow(t, svc, 1500)
	ctx := context.Background()

	const buyers = 8
	base := uid()
	outcomes := make([]ToggleOutcome, buyers)
	errs := make([]error, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = svc.Toggle(ctx, show.ID, "B2", base+uint64(i), 5)
		}(i)
	}
	wg.Wait()

	winners := 0
	for i := 0; i < buyers; i++ {
		require.NoError(t, errs[i])
		if outcomes[i] == ToggleHeld {
			winners++
		} else {
			assert.Equal(t, ToggleHeldByOther, outcomes[i])
		}
	}
	assert.Equal(t, 1, winners)
}

// A hold created with a zero lifetime lapses immediately: the next
// read reverts it and the seat toggles as available for anyone.
func TestExpiredHoldReclaimed(t *testing.T) {
	svc := newTestService(t)
	show := newTestShow(t, svc, 1500)
	ctx := context.Background()
	alice, bob := uid(), uid()+1

	outcome, err := svc.Toggle(ctx, show.ID, "A1", alice, 0)
	require.NoError(t, err)
	require.Equal(t, ToggleHeld, outcome)

	time.Sleep(1100 * time.Millisecond) // DATETIME has second precision

	assert.Equal(t, model.SeatAvailable, seatStatus(t, svc, show.ID, "A1").Status)

	outcome, err = svc.Toggle(ctx, show.ID, "A1", bob, 5)
	require.NoError(t, err)
	assert.Equal(t, ToggleHeld, outcome)
}

func TestFreezeWithoutHolds(t *testing.T) {
	svc := newTestService(t)
	show := newTestShow(t, svc, 1500)

	_, _, err := svc.Freeze(context.Background(), show.ID, uid())
	assert.ErrorIs(t, err, ErrNoSeatsHeld)
}

// Frozen holds never lapse even after the original lifetime passes.
func TestFreezeStopsExpiry(t *testing.T) {
	svc := newTestService(t)
	show := newTestShow(t, svc, 1500)
	ctx := context.Background()
	alice := uid()

	_, err := svc.Toggle(ctx, show.ID, "A1", alice, 0)
	require.NoError(t, err)

	codes, total, err := svc.Freeze(ctx, show.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, codes)
	assert.Equal(t, uint32(1500), total)

	time.Sleep(1100 * time.Millisecond)

	st := seatStatus(t, svc, show.ID, "A1")
	assert.Equal(t, model.SeatHeld, st.Status)
}

func TestApproveFlow(t *testing.T) {
	svc := newTestService(t)
	show := newTestShow(t, svc, 2000)
	ctx := context.Background()
	alice := uid()
	operator := uint64(1)

	_, err := svc.Toggle(ctx, show.ID, "A1", alice, 5)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, show.ID, "B1", alice, 5)
	require.NoError(t, err)

	codes, total, err := svc.Freeze(ctx, show.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B1"}, codes) // grid order, not selection order
	assert.Equal(t, uint32(4000), total)

	require.NoError(t, svc.SetSession(ctx, &model.Session{
		UserID: alice, State: "awaiting_receipt", ShowID: &show.ID, SeatCodes: codes, TotalCents: total,
	}))

	order, err := svc.CreateOrder(ctx, alice, show.ID, codes, total, model.Receipt{Kind: model.ReceiptText, Value: "transfer ref 123"})
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, order.Status)

	settled, changed, err := svc.Approve(ctx, order.ID, operator)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.OrderApproved, settled.Status)
	require.NotNil(t, settled.SettledAt)
	require.NotNil(t, settled.SettledBy)
	assert.Equal(t, operator, *settled.SettledBy)

	for _, code := range codes {
		assert.Equal(t, model.SeatSold, seatStatus(t, svc, show.ID, code).Status)
	}

	// Settlement cleared the buyer's session transactionally.
	_, err = svc.GetSession(ctx, alice)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	// Repeated settlement in either direction is a silent no-op.
	again, changed, err := svc.Approve(ctx, order.ID, operator)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, model.OrderApproved, again.Status)

	rej, changed, err := svc.Reject(ctx, order.ID, operator)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, model.OrderApproved, rej.Status)
	assert.Equal(t, model.SeatSold, seatStatus(t, svc, show.ID, "A1").Status)
}

func TestRejectFlow(t *testing.T) {
	svc := newTestService(t)
	show := newTestShow(t, svc, 2000)
	ctx := context.Background()
	alice := uid()

	_, err := svc.Toggle(ctx, show.ID, "A2", alice, 5)
	require.NoError(t, err)
	codes, total, err := svc.Freeze(ctx, show.ID, alice)
	require.NoError(t, err)

	order, err := svc.CreateOrder(ctx, alice, show.ID, codes, total, model.Receipt{Kind: model.ReceiptImage, Value: "uploads/fake.jpg"})
	require.NoError(t, err)

	settled, changed, err := svc.Reject(ctx, order.ID, 1)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.OrderRejected, settled.Status)
	assert.Nil(t, settled.SettledAt) // only approvals stamp the sale time
	require.NotNil(t, settled.SettledBy)

	// The seat went back on sale, not back on hold.
	assert.Equal(t, model.SeatAvailable, seatStatus(t, svc, show.ID, "A2").Status)
}

func TestCreateOrderValidation(t *testing.T) {
	svc := newTestService(t)
	show := newTestShow(t, svc, 2000)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, uid(), show.ID, []string{"A1"}, 2000, model.Receipt{Kind: "pdf", Value: "x"})
	assert.ErrorIs(t, err, model.ErrInvalidReceipt)

	_, err = svc.CreateOrder(ctx, uid(), show.ID, nil, 2000, model.Receipt{Kind: model.ReceiptText, Value: "x"})
	assert.ErrorIs(t, err, ErrNoSeatsHeld)
}

func TestListOrdersByStatus(t *testing.T) {
	svc := newTestService(t)
	show := newTestShow(t, svc, 1000)
	ctx := context.Background()
	alice := uid()

	_, err := svc.Toggle(ctx, show.ID, "A1", alice, 5)
	require.NoError(t, err)
	codes, total, err := svc.Freeze(ctx, show.ID, alice)
	require.NoError(t, err)
	order, err := svc.CreateOrder(ctx, alice, show.ID, codes, total, model.Receipt{Kind: model.ReceiptText, Value: "ref"})
	require.NoError(t, err)

	pending, err := svc.ListOrders(ctx, model.OrderPending)
	require.NoError(t, err)
	found := false
	for _, o := range pending {
		assert.Equal(t, model.OrderPending, o.Status)
		if o.ID == order.ID {
			found = true
			assert.Equal(t, codes, o.SeatCodes)
		}
	}
	assert.True(t, found)
}

func TestSessionLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := uid()

	_, err := svc.GetSession(ctx, alice)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	sess := &model.Session{UserID: alice, State: "picking_seats", SeatCodes: []string{"A1"}, TotalCents: 1500}
	require.NoError(t, svc.SetSession(ctx, sess))

	got, err := svc.GetSession(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "picking_seats", got.State)
	assert.Equal(t, []string{"A1"}, got.SeatCodes)

	// Overwrite advances the conversation.
	sess.State = "awaiting_receipt"
	sess.SeatCodes = []string{"A1", "A2"}
	require.NoError(t, svc.SetSession(ctx, sess))
	got, err = svc.GetSession(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "awaiting_receipt", got.State)
	assert.Equal(t, []string{"A1", "A2"}, got.SeatCodes)

	require.NoError(t, svc.ClearSession(ctx, alice))
	_, err = svc.GetSession(ctx, alice)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	// Clearing an absent session stays a no-op.
	require.NoError(t, svc.ClearSession(ctx, alice))
}

func TestUpdatePrice(t *testing.T) {
	svc := newTestService(t)
	show := newTestShow(t, svc, 1000)
	ctx := context.Background()

	require.NoError(t, svc.UpdatePrice(ctx, show.ID, 2500))
	got, err := svc.GetShow(ctx, show.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(2500), got.PriceCents)

	err = svc.UpdatePrice(ctx, 0, 2500)
	assert.ErrorIs(t, err, repository.ErrShowNotFound)
}
