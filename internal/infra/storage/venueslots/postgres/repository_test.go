package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots/document"
	"github.com/m04kA/SMC-VenueSlots/internal/infra/storage/venueslots/storetest"
)

const (
	selectQuery = "SELECT document, version FROM venue_slots WHERE venue_id = $1"
	insertQuery = "INSERT INTO venue_slots (venue_id,document,version) VALUES ($1,$2,$3) ON CONFLICT (venue_id) DO NOTHING"
	updateQuery = "UPDATE venue_slots SET document = $1, version = version + 1, updated_at = NOW() WHERE venue_id = $2 AND version = $3"
	listQuery   = "SELECT venue_id FROM venue_slots ORDER BY venue_id"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewRepository(db), mock
}

func venueRow(t *testing.T, v *domain.VenueSlots, version int64) *sqlmock.Rows {
	raw, err := json.Marshal(document.FromDomain(v, version))
	require.NoError(t, err)
	return sqlmock.NewRows([]string{"document", "version"}).AddRow(raw, version)
}

func TestRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs("venue-1").
			WillReturnRows(venueRow(t, storetest.NewVenue("venue-1"), 4))

		got, err := repo.Get(ctx, "venue-1")
		require.NoError(t, err)
		assert.Equal(t, "venue-1", got.VenueID)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, got.Config.DaysOfWeek)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"document", "version"}))

		_, err := repo.Get(ctx, "missing")
		assert.ErrorIs(t, err, venueslots.ErrVenueNotFound)
	})

	t.Run("broken document", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs("venue-1").
			WillReturnRows(sqlmock.NewRows([]string{"document", "version"}).AddRow([]byte("{"), 1))

		_, err := repo.Get(ctx, "venue-1")
		assert.ErrorIs(t, err, venueslots.ErrDecode)
	})
}

func TestRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserted", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
			WithArgs("venue-1", sqlmock.AnyArg(), 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Create(ctx, storetest.NewVenue("venue-1")))
	})

	t.Run("already exists", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
			WithArgs("venue-1", sqlmock.AnyArg(), 1).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Create(ctx, storetest.NewVenue("venue-1"))
		assert.ErrorIs(t, err, venueslots.ErrVenueAlreadyExists)
	})

	t.Run("exec error", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
			WillReturnError(errors.New("connection reset"))

		err := repo.Create(ctx, storetest.NewVenue("venue-1"))
		assert.ErrorIs(t, err, venueslots.ErrExecQuery)
	})
}

func TestRepository_AtomicUpdate(t *testing.T) {
	ctx := context.Background()
	addBooking := func(v *domain.VenueSlots) (bool, error) {
		v.Bookings = append(v.Bookings, domain.BookedSlot{
			Date: "2026-03-10", StartTime: "10:00", BookingID: "b1",
			BookingType: domain.BookingTypeOnline, Status: domain.BookedStatusConfirmed,
		})
		return true, nil
	}

	t.Run("committed", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs("venue-1").
			WillReturnRows(venueRow(t, storetest.NewVenue("venue-1"), 7))
		mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
			WithArgs(sqlmock.AnyArg(), "venue-1", int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		got, err := repo.AtomicUpdate(ctx, "venue-1", addBooking)
		require.NoError(t, err)
		assert.Len(t, got.Bookings, 1)
	})

	t.Run("version moved", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs("venue-1").
			WillReturnRows(venueRow(t, storetest.NewVenue("venue-1"), 7))
		mock.ExpectExec(regexp.QuoteMeta(updateQuery)).
			WithArgs(sqlmock.AnyArg(), "venue-1", int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.AtomicUpdate(ctx, "venue-1", addBooking)
		assert.ErrorIs(t, err, venueslots.ErrConflict)
	})

	t.Run("unchanged skips write", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs("venue-1").
			WillReturnRows(venueRow(t, storetest.NewVenue("venue-1"), 2))

		_, err := repo.AtomicUpdate(ctx, "venue-1", func(v *domain.VenueSlots) (bool, error) {
			return false, nil
		})
		assert.NoError(t, err)
	})

	t.Run("update func error skips write", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs("venue-1").
			WillReturnRows(venueRow(t, storetest.NewVenue("venue-1"), 2))

		_, err := repo.AtomicUpdate(ctx, "venue-1", func(v *domain.VenueSlots) (bool, error) {
			return true, domain.ErrAlreadyBooked
		})
		assert.ErrorIs(t, err, domain.ErrAlreadyBooked)
	})

	t.Run("missing venue", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs("venue-1").
			WillReturnRows(sqlmock.NewRows([]string{"document", "version"}))

		_, err := repo.AtomicUpdate(ctx, "venue-1", addBooking)
		assert.ErrorIs(t, err, venueslots.ErrVenueNotFound)
	})
}

func TestRepository_ListVenueIDs(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(regexp.QuoteMeta(listQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"venue_id"}).AddRow("venue-a").AddRow("venue-b"))

	ids, err := repo.ListVenueIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"venue-a", "venue-b"}, ids)
}

func TestRepository_EnsureSchema(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS venue_slots")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.EnsureSchema(context.Background()))
}
