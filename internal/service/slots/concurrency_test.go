package slots

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

func TestService_ConcurrentBookSameSlot(t *testing.T) {
	const writers = 20
	env := newTestEnv(t)
	ctx := context.Background()

	var (
		wg            sync.WaitGroup
		successes     atomic.Int32
		alreadyBooked atomic.Int32
	)
	start := make(chan struct{})
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := env.svc.Book(ctx, bookReq("10:00", fmt.Sprintf("b%d", i)))
			switch {
			case err == nil:
				successes.Add(1)
			case assert.ErrorIs(t, err, domain.ErrAlreadyBooked):
				alreadyBooked.Add(1)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.EqualValues(t, 1, successes.Load())
	assert.EqualValues(t, writers-1, alreadyBooked.Load())
	assert.Len(t, env.venue(t).Bookings, 1)
}

func TestService_ConcurrentHoldSameSlot(t *testing.T) {
	const writers = 20
	env := newTestEnv(t)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		successes atomic.Int32
	)
	start := make(chan struct{})
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := env.svc.Hold(ctx, holdReq("10:00", fmt.Sprintf("u%d", i), fmt.Sprintf("b%d", i)))
			if err == nil {
				successes.Add(1)
				return
			}
			assert.ErrorIs(t, err, domain.ErrHeldByOther)
		}(i)
	}
	close(start)
	wg.Wait()

	assert.EqualValues(t, 1, successes.Load())
	assert.Len(t, env.venue(t).Held, 1)
}

func TestService_ConcurrentDifferentSlotsAllCommit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	grid, err := domain.GenerateTimeSlots("06:00", "22:00", 60)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i, start := range grid {
		wg.Add(1)
		go func(i int, start types.TimeString) {
			defer wg.Done()
			_, err := env.svc.Book(ctx, bookReq(start, fmt.Sprintf("b%d", i)))
			assert.NoError(t, err)
		}(i, start)
	}
	wg.Wait()

	assert.Len(t, env.venue(t).Bookings, len(grid))
}
