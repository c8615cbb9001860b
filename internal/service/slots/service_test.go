package slots

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots/memory"
	"github.com/m04kA/SMC-VenueSlots/internal/service/slots/models"
	"github.com/m04kA/SMC-VenueSlots/pkg/logger"
	"github.com/m04kA/SMC-VenueSlots/pkg/ptr"
	"github.com/m04kA/SMC-VenueSlots/pkg/retry"
	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

const testVenue = "venue-1"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []domain.SlotEvent
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, event domain.SlotEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *capturePublisher) Types() []domain.SlotEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.SlotEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type countingRecorder struct {
	mu        sync.Mutex
	results   map[string]int
	conflicts int
	swept     int
}

func (r *countingRecorder) ObserveTransition(operation, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = make(map[string]int)
	}
	r.results[operation+":"+result]++
}

func (r *countingRecorder) IncStoreConflict(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflicts++
}

func (r *countingRecorder) AddHoldsSwept(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.swept += n
}

type testEnv struct {
	svc       *Service
	repo      *memory.Repository
	clock     *fakeClock
	publisher *capturePublisher
	recorder  *countingRecorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := memory.NewRepository()
	clock := &fakeClock{now: time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)}
	publisher := &capturePublisher{}
	recorder := &countingRecorder{}

	venue := domain.NewVenueSlots(testVenue, domain.VenueSlotConfig{
		StartTime:           "06:00",
		EndTime:             "22:00",
		SlotDurationMinutes: 60,
		DaysOfWeek:          []int{1, 2, 3, 4, 5},
		Timezone:            domain.DefaultTimezone,
	}, clock.Now())
	require.NoError(t, repo.Create(context.Background(), venue))

	svc := NewService(repo, publisher, recorder, logger.NewNop(), Options{
		Retry: retry.Config{MaxRetries: 50, InitialInterval: time.Microsecond, MaxInterval: time.Millisecond, Multiplier: 2, JitterFactor: 0.5},
	})
	svc.timeProvider = clock

	return &testEnv{svc: svc, repo: repo, clock: clock, publisher: publisher, recorder: recorder}
}

func (e *testEnv) venue(t *testing.T) *domain.VenueSlots {
	t.Helper()
	v, err := e.repo.Get(context.Background(), testVenue)
	require.NoError(t, err)
	return v
}

func slotRef(start types.TimeString) models.SlotRef {
	return models.SlotRef{
		VenueID:   testVenue,
		Date:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime: start,
	}
}

func holdReq(start types.TimeString, userID, bookingID string) *models.HoldRequest {
	return &models.HoldRequest{SlotRef: slotRef(start), UserID: userID, BookingID: bookingID}
}

func bookReq(start types.TimeString, bookingID string) *models.BookRequest {
	return &models.BookRequest{
		SlotRef:     slotRef(start),
		BookingID:   bookingID,
		BookingType: domain.BookingTypeOnline,
		Status:      domain.BookedStatusConfirmed,
	}
}

func TestService_Hold(t *testing.T) {
	ctx := context.Background()

	t.Run("creates hold with default duration", func(t *testing.T) {
		env := newTestEnv(t)

		resp, err := env.svc.Hold(ctx, holdReq("10:00", "u1", "b1"))
		require.NoError(t, err)

		assert.True(t, resp.Created)
		assert.Equal(t, env.clock.Now().Add(5*time.Minute), resp.Hold.HoldExpiresAt)
		assert.Equal(t, "2026-03-10", resp.Hold.Date)

		v := env.venue(t)
		require.Len(t, v.Held, 1)
		assert.Equal(t, "u1", v.Held[0].UserID)
		assert.Equal(t, []domain.SlotEventType{domain.EventSlotHeld}, env.publisher.Types())
		assert.Equal(t, 1, env.recorder.results["hold:ok"])
	})

	t.Run("custom duration", func(t *testing.T) {
		env := newTestEnv(t)
		req := holdReq("10:00", "u1", "b1")
		req.DurationMinutes = 15

		resp, err := env.svc.Hold(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, env.clock.Now().Add(15*time.Minute), resp.Hold.HoldExpiresAt)
	})

	t.Run("held by other user", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Hold(ctx, holdReq("10:00", "u1", "b1"))
		require.NoError(t, err)

		_, err = env.svc.Hold(ctx, holdReq("10:00", "u2", "b2"))
		assert.ErrorIs(t, err, domain.ErrHeldByOther)
		assert.Equal(t, 1, env.recorder.results["hold:held_by_other"])
	})

	t.Run("same user gets existing hold unchanged", func(t *testing.T) {
		env := newTestEnv(t)
		first, err := env.svc.Hold(ctx, holdReq("10:00", "u1", "b1"))
		require.NoError(t, err)

		env.clock.Advance(2 * time.Minute)
		second, err := env.svc.Hold(ctx, holdReq("10:00", "u1", "b1-retry"))
		require.NoError(t, err)

		assert.False(t, second.Created)
		assert.Equal(t, first.Hold, second.Hold)
		assert.Len(t, env.venue(t).Held, 1)
		assert.Len(t, env.publisher.Types(), 1)
	})

	t.Run("expired hold is replaced", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Hold(ctx, holdReq("10:00", "u1", "b1"))
		require.NoError(t, err)

		env.clock.Advance(5 * time.Minute)
		resp, err := env.svc.Hold(ctx, holdReq("10:00", "u2", "b2"))
		require.NoError(t, err)

		assert.True(t, resp.Created)
		v := env.venue(t)
		require.Len(t, v.Held, 1)
		assert.Equal(t, "u2", v.Held[0].UserID)
	})

	t.Run("booked slot", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Book(ctx, bookReq("10:00", "b1"))
		require.NoError(t, err)

		_, err = env.svc.Hold(ctx, holdReq("10:00", "u1", "b2"))
		assert.ErrorIs(t, err, domain.ErrAlreadyBooked)
	})

	t.Run("validation", func(t *testing.T) {
		env := newTestEnv(t)

		bad := []*models.HoldRequest{
			holdReq("10:00", "", "b1"),
			holdReq("10:00", "u1", ""),
			holdReq("24:00", "u1", "b1"),
			holdReq("10:0", "u1", "b1"),
			{SlotRef: models.SlotRef{VenueID: testVenue, StartTime: "10:00"}, UserID: "u1", BookingID: "b1"},
			{SlotRef: slotRef("10:00"), UserID: "u1", BookingID: "b1", DurationMinutes: 61},
		}
		for _, req := range bad {
			_, err := env.svc.Hold(ctx, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		}
		assert.Empty(t, env.venue(t).Held)
	})

	t.Run("venue not initialized", func(t *testing.T) {
		env := newTestEnv(t)
		req := holdReq("10:00", "u1", "b1")
		req.VenueID = "unknown"

		_, err := env.svc.Hold(ctx, req)
		assert.ErrorIs(t, err, domain.ErrNotInitialized)
	})
}

func TestService_ReleaseHold(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.Hold(ctx, holdReq("10:00", "u1", "b1"))
	require.NoError(t, err)

	require.NoError(t, env.svc.ReleaseHold(ctx, slotRef("10:00")))
	assert.Empty(t, env.venue(t).Held)

	// повторный вызов ничего не меняет
	require.NoError(t, env.svc.ReleaseHold(ctx, slotRef("10:00")))
	assert.Equal(t, 1, env.recorder.results["release_hold:noop"])
	assert.Equal(t, []domain.SlotEventType{domain.EventSlotHeld, domain.EventSlotHoldReleased}, env.publisher.Types())

	// после снятия слот может удержать другой пользователь
	_, err = env.svc.Hold(ctx, holdReq("10:00", "u2", "b2"))
	assert.NoError(t, err)

	ref := slotRef("10:00")
	ref.VenueID = "unknown"
	assert.ErrorIs(t, env.svc.ReleaseHold(ctx, ref), domain.ErrNotInitialized)
}

func TestService_Book(t *testing.T) {
	ctx := context.Background()

	t.Run("book removes hold", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Hold(ctx, holdReq("10:00", "u1", "b1"))
		require.NoError(t, err)

		req := bookReq("10:00", "b1")
		req.UserID = ptr.Ptr("u1")
		req.Notes = ptr.Ptr("bring own ball")
		booking, err := env.svc.Book(ctx, req)
		require.NoError(t, err)

		assert.Equal(t, "b1", booking.BookingID)
		v := env.venue(t)
		assert.Empty(t, v.Held)
		require.Len(t, v.Bookings, 1)
		assert.Equal(t, "bring own ball", *v.Bookings[0].Notes)
	})

	t.Run("book ignores hold of another user", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Hold(ctx, holdReq("10:00", "u1", "b1"))
		require.NoError(t, err)

		_, err = env.svc.Book(ctx, bookReq("10:00", "b-cashier"))
		require.NoError(t, err)

		v := env.venue(t)
		assert.Empty(t, v.Held)
		assert.Len(t, v.Bookings, 1)
	})

	t.Run("double booking", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Book(ctx, bookReq("10:00", "b1"))
		require.NoError(t, err)

		_, err = env.svc.Book(ctx, bookReq("10:00", "b2"))
		assert.ErrorIs(t, err, domain.ErrAlreadyBooked)
		assert.Len(t, env.venue(t).Bookings, 1)
	})

	t.Run("invalid enums", func(t *testing.T) {
		env := newTestEnv(t)

		req := bookReq("10:00", "b1")
		req.BookingType = "phone"
		_, err := env.svc.Book(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput)

		req = bookReq("10:00", "b1")
		req.Status = "paid"
		_, err = env.svc.Book(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unbook frees slot", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Book(ctx, bookReq("10:00", "b1"))
		require.NoError(t, err)

		require.NoError(t, env.svc.Unbook(ctx, slotRef("10:00")))
		assert.Empty(t, env.venue(t).Bookings)

		_, err = env.svc.Book(ctx, bookReq("10:00", "b2"))
		assert.NoError(t, err)
	})
}

func TestService_BlockAndReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("block replaces existing record", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.svc.Block(ctx, &models.BlockRequest{SlotRef: slotRef("10:00"), Reason: ptr.Ptr("rain")})
		require.NoError(t, err)
		_, err = env.svc.Block(ctx, &models.BlockRequest{SlotRef: slotRef("10:00"), Reason: ptr.Ptr("maintenance")})
		require.NoError(t, err)

		v := env.venue(t)
		require.Len(t, v.Blocked, 1)
		assert.Equal(t, "maintenance", *v.Blocked[0].Reason)

		require.NoError(t, env.svc.Unblock(ctx, slotRef("10:00")))
		assert.Empty(t, env.venue(t).Blocked)
	})

	t.Run("reserve returns reference", func(t *testing.T) {
		env := newTestEnv(t)

		resp, err := env.svc.Reserve(ctx, &models.ReserveRequest{SlotRef: slotRef("10:00"), ReservedBy: "admin-1", Note: ptr.Ptr("walk-in")})
		require.NoError(t, err)

		assert.Regexp(t, `^physical_[0-9a-f-]{36}$`, resp.ReservationID)
		assert.Equal(t, "admin-1", resp.Reserved.ReservedBy)

		_, err = env.svc.Reserve(ctx, &models.ReserveRequest{SlotRef: slotRef("10:00"), ReservedBy: "admin-2"})
		require.NoError(t, err)
		v := env.venue(t)
		require.Len(t, v.Reserved, 1)
		assert.Equal(t, "admin-2", v.Reserved[0].ReservedBy)

		require.NoError(t, env.svc.Unreserve(ctx, slotRef("10:00")))
		assert.Empty(t, env.venue(t).Reserved)
	})

	t.Run("reserve requires reservedBy", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Reserve(ctx, &models.ReserveRequest{SlotRef: slotRef("10:00")})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_CleanExpiredHolds(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for _, start := range []types.TimeString{"10:00", "11:00", "12:00"} {
		_, err := env.svc.Hold(ctx, holdReq(start, "u1", "b-"+start.String()))
		require.NoError(t, err)
	}
	env.clock.Advance(3 * time.Minute)
	longer := holdReq("13:00", "u2", "b-13")
	longer.DurationMinutes = 30
	_, err := env.svc.Hold(ctx, longer)
	require.NoError(t, err)

	// первые три истекают ровно сейчас: граница включается
	env.clock.Advance(2 * time.Minute)
	resp, err := env.svc.CleanExpiredHolds(ctx, testVenue)
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Removed)
	assert.Equal(t, 3, env.recorder.swept)

	v := env.venue(t)
	require.Len(t, v.Held, 1)
	assert.Equal(t, "u2", v.Held[0].UserID)
	updatedAt := v.UpdatedAt

	// нечего удалять: агрегат не переписывается
	env.clock.Advance(time.Minute)
	resp, err = env.svc.CleanExpiredHolds(ctx, testVenue)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Removed)
	assert.Equal(t, updatedAt, env.venue(t).UpdatedAt)

	_, err = env.svc.CleanExpiredHolds(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestService_NormalizesStartTime(t *testing.T) {
	ctx := context.Background()

	t.Run("unpadded start hits the same booking", func(t *testing.T) {
		env := newTestEnv(t)

		_, err := env.svc.Book(ctx, bookReq("09:00", "b1"))
		require.NoError(t, err)
		_, err = env.svc.Book(ctx, bookReq("9:00", "b2"))
		assert.ErrorIs(t, err, domain.ErrAlreadyBooked)

		v := env.venue(t)
		require.Len(t, v.Bookings, 1)
		assert.Equal(t, types.TimeString("09:00"), v.Bookings[0].StartTime)
	})

	t.Run("hold stored in padded form and released by either spelling", func(t *testing.T) {
		env := newTestEnv(t)

		resp, err := env.svc.Hold(ctx, holdReq("9:00", "u1", "b1"))
		require.NoError(t, err)
		assert.Equal(t, types.TimeString("09:00"), resp.Hold.StartTime)

		_, err = env.svc.Hold(ctx, holdReq("09:00", "u2", "b2"))
		assert.ErrorIs(t, err, domain.ErrHeldByOther)

		require.NoError(t, env.svc.ReleaseHold(ctx, slotRef("9:00")))
		assert.Empty(t, env.venue(t).Held)
	})

	t.Run("signed start rejected", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.svc.Book(ctx, bookReq("+9:00", "b1"))
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Empty(t, env.venue(t).Bookings)
	})
}

func TestService_MutationsOnMissingVenue(t *testing.T) {
	ctx := context.Background()
	ref := slotRef("10:00")
	ref.VenueID = "unknown"

	tests := []struct {
		name string
		run  func(svc *Service) error
	}{
		{name: "hold", run: func(svc *Service) error {
			_, err := svc.Hold(ctx, &models.HoldRequest{SlotRef: ref, UserID: "u1", BookingID: "b1"})
			return err
		}},
		{name: "release hold", run: func(svc *Service) error { return svc.ReleaseHold(ctx, ref) }},
		{name: "book", run: func(svc *Service) error {
			_, err := svc.Book(ctx, &models.BookRequest{SlotRef: ref, BookingID: "b1",
				BookingType: domain.BookingTypeOnline, Status: domain.BookedStatusConfirmed})
			return err
		}},
		{name: "unbook", run: func(svc *Service) error { return svc.Unbook(ctx, ref) }},
		{name: "block", run: func(svc *Service) error {
			_, err := svc.Block(ctx, &models.BlockRequest{SlotRef: ref})
			return err
		}},
		{name: "unblock", run: func(svc *Service) error { return svc.Unblock(ctx, ref) }},
		{name: "reserve", run: func(svc *Service) error {
			_, err := svc.Reserve(ctx, &models.ReserveRequest{SlotRef: ref, ReservedBy: "admin-1"})
			return err
		}},
		{name: "unreserve", run: func(svc *Service) error { return svc.Unreserve(ctx, ref) }},
		{name: "clean expired holds", run: func(svc *Service) error {
			_, err := svc.CleanExpiredHolds(ctx, ref.VenueID)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			assert.ErrorIs(t, tt.run(env.svc), domain.ErrNotInitialized)
		})
	}
}

func TestService_PublisherFailureDoesNotFailTransition(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = errors.New("broker unavailable")

	_, err := env.svc.Book(context.Background(), bookReq("10:00", "b1"))
	require.NoError(t, err)
	assert.Len(t, env.venue(t).Bookings, 1)
}

type conflictingRepo struct {
	calls int
}

func (r *conflictingRepo) AtomicUpdate(context.Context, string, venueslots.UpdateFunc) (*domain.VenueSlots, error) {
	r.calls++
	return nil, venueslots.ErrConflict
}

func TestService_ConflictRetriesExhausted(t *testing.T) {
	repo := &conflictingRepo{}
	recorder := &countingRecorder{}
	svc := NewService(repo, nil, recorder, logger.NewNop(), Options{
		Retry: retry.Config{MaxRetries: 3, InitialInterval: time.Microsecond, MaxInterval: time.Microsecond},
	})

	_, err := svc.Book(context.Background(), bookReq("10:00", "b1"))

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 4, repo.calls)
	assert.Equal(t, 4, recorder.conflicts)
	assert.Equal(t, 1, recorder.results["book:conflict"])
}

type failingRepo struct{}

func (failingRepo) AtomicUpdate(context.Context, string, venueslots.UpdateFunc) (*domain.VenueSlots, error) {
	return nil, errors.New("connection refused")
}

func TestService_StoreFailureIsInternal(t *testing.T) {
	svc := NewService(failingRepo{}, nil, nil, logger.NewNop(), Options{})

	err := svc.Unbook(context.Background(), slotRef("10:00"))
	assert.ErrorIs(t, err, ErrInternal)
}
