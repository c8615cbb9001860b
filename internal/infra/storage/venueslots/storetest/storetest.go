// Package storetest содержит общий набор проверок для реализаций хранилища агрегатов.
package storetest

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
)

var errAborted = errors.New("aborted by update func")

// Factory возвращает пустое хранилище для одного подтеста
type Factory func(t *testing.T) venueslots.Repository

// NewVenue возвращает агрегат с конфигурацией 06:00-22:00 по часу, пн-пт
func NewVenue(venueID string) *domain.VenueSlots {
	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	return domain.NewVenueSlots(venueID, domain.VenueSlotConfig{
		StartTime:           "06:00",
		EndTime:             "22:00",
		SlotDurationMinutes: 60,
		DaysOfWeek:          []int{1, 2, 3, 4, 5},
		Timezone:            domain.DefaultTimezone,
	}, now)
}

// Run прогоняет контракт venueslots.Repository
func Run(t *testing.T, newRepo Factory) {
	ctx := context.Background()

	t.Run("get missing venue", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Get(ctx, "missing")
		assert.ErrorIs(t, err, venueslots.ErrVenueNotFound)
	})

	t.Run("create and get", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, NewVenue("venue-1")))

		got, err := repo.Get(ctx, "venue-1")
		require.NoError(t, err)
		assert.Equal(t, "venue-1", got.VenueID)
		assert.Equal(t, 60, got.Config.SlotDurationMinutes)
		assert.Empty(t, got.Bookings)
	})

	t.Run("create twice", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, NewVenue("venue-1")))
		err := repo.Create(ctx, NewVenue("venue-1"))
		assert.ErrorIs(t, err, venueslots.ErrVenueAlreadyExists)
	})

	t.Run("atomic update commits change", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, NewVenue("venue-1")))

		updated, err := repo.AtomicUpdate(ctx, "venue-1", func(v *domain.VenueSlots) (bool, error) {
			v.Bookings = append(v.Bookings, domain.BookedSlot{
				Date: "2026-03-10", StartTime: "10:00", BookingID: "b1",
				BookingType: domain.BookingTypeOnline, Status: domain.BookedStatusConfirmed,
			})
			return true, nil
		})
		require.NoError(t, err)
		require.Len(t, updated.Bookings, 1)

		got, err := repo.Get(ctx, "venue-1")
		require.NoError(t, err)
		require.Len(t, got.Bookings, 1)
		assert.Equal(t, "b1", got.Bookings[0].BookingID)
	})

	t.Run("atomic update error writes nothing", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, NewVenue("venue-1")))

		_, err := repo.AtomicUpdate(ctx, "venue-1", func(v *domain.VenueSlots) (bool, error) {
			v.Bookings = append(v.Bookings, domain.BookedSlot{Date: "2026-03-10", StartTime: "10:00", BookingID: "b1"})
			return true, errAborted
		})
		assert.ErrorIs(t, err, errAborted)

		got, err := repo.Get(ctx, "venue-1")
		require.NoError(t, err)
		assert.Empty(t, got.Bookings)
	})

	t.Run("atomic update unchanged writes nothing", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, NewVenue("venue-1")))

		_, err := repo.AtomicUpdate(ctx, "venue-1", func(v *domain.VenueSlots) (bool, error) {
			v.Reserved = append(v.Reserved, domain.ReservedSlot{Date: "2026-03-10", StartTime: "10:00", ReservedBy: "x"})
			return false, nil
		})
		require.NoError(t, err)

		got, err := repo.Get(ctx, "venue-1")
		require.NoError(t, err)
		assert.Empty(t, got.Reserved)
	})

	t.Run("atomic update missing venue", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.AtomicUpdate(ctx, "missing", func(v *domain.VenueSlots) (bool, error) {
			t.Fatal("update func must not run")
			return false, nil
		})
		assert.ErrorIs(t, err, venueslots.ErrVenueNotFound)
	})

	t.Run("interleaved writer causes conflict", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, NewVenue("venue-1")))

		_, err := repo.AtomicUpdate(ctx, "venue-1", func(v *domain.VenueSlots) (bool, error) {
			// другой писатель успевает зафиксировать изменение между чтением и записью
			_, innerErr := repo.AtomicUpdate(ctx, "venue-1", func(inner *domain.VenueSlots) (bool, error) {
				inner.Blocked = append(inner.Blocked, domain.BlockedSlot{Date: "2026-03-10", StartTime: "09:00"})
				return true, nil
			})
			require.NoError(t, innerErr)

			v.Bookings = append(v.Bookings, domain.BookedSlot{Date: "2026-03-10", StartTime: "10:00", BookingID: "b1"})
			return true, nil
		})
		assert.ErrorIs(t, err, venueslots.ErrConflict)

		got, err := repo.Get(ctx, "venue-1")
		require.NoError(t, err)
		assert.Len(t, got.Blocked, 1)
		assert.Empty(t, got.Bookings)
	})

	t.Run("concurrent updates never lose writes", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, NewVenue("venue-1")))

		const writers = 10
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			committed int
		)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := repo.AtomicUpdate(ctx, "venue-1", func(v *domain.VenueSlots) (bool, error) {
					v.Reserved = append(v.Reserved, domain.ReservedSlot{
						Date: "2026-03-10", StartTime: "10:00", ReservedBy: string(rune('a' + i)),
					})
					return true, nil
				})
				if err == nil {
					mu.Lock()
					committed++
					mu.Unlock()
					return
				}
				assert.ErrorIs(t, err, venueslots.ErrConflict)
			}(i)
		}
		wg.Wait()

		got, err := repo.Get(ctx, "venue-1")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, committed, 1)
		assert.Len(t, got.Reserved, committed)
	})

	t.Run("list venue ids", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, NewVenue("venue-b")))
		require.NoError(t, repo.Create(ctx, NewVenue("venue-a")))

		ids, err := repo.ListVenueIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"venue-a", "venue-b"}, ids)
	})
}
