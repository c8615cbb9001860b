package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	getVenueSlotsUC "github.com/m04kA/SMC-VenueSlots/internal/usecase/get_venue_slots"
	"github.com/m04kA/SMC-VenueSlots/pkg/ptr"
	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// runCommand выполняет новую корневую команду и возвращает весь вывод
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func memoryConfig(t *testing.T) string {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\ndriver = \"memory\"\n"), 0o644))
	return path
}

func TestRootCommand_ShowsHelpWhenNoSubcommand(t *testing.T) {
	output, err := runCommand(t)

	assert.NoError(t, err)
	assert.Contains(t, output, "Usage:")
	for _, sub := range []string{"init", "calendar", "sweep", "migrate"} {
		assert.Contains(t, output, sub)
	}
}

func TestRootCommand_RejectsUnknownFlags(t *testing.T) {
	_, err := runCommand(t, "--unknown-flag", "value")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestInitCommand(t *testing.T) {
	path := memoryConfig(t)

	t.Run("initializes venue", func(t *testing.T) {
		output, err := runCommand(t, "init", "court-7", "--config", path, "--days", "5,1", "--duration", "30")
		require.NoError(t, err)
		assert.Contains(t, output, "✓ venue court-7 initialized: 06:00-22:00 every 30 min, days [1 5], "+domain.DefaultTimezone)
	})

	t.Run("requires venue id", func(t *testing.T) {
		_, err := runCommand(t, "init", "--config", path)
		assert.Error(t, err)
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		_, err := runCommand(t, "init", "court-7", "--config", path, "--start", "23:00", "--end", "22:00")
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := runCommand(t, "init", "court-7", "--config", filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}

func TestCalendarCommand_NotInitialized(t *testing.T) {
	path := memoryConfig(t)

	output, err := runCommand(t, "calendar", "court-7", "--config", path, "--days", "3")
	require.NoError(t, err)
	assert.Contains(t, output, "venue court-7 is not initialized")

	_, err = runCommand(t, "calendar", "court-7", "--config", path, "--from", "07.03.2026")
	assert.Error(t, err)
	_, err = runCommand(t, "calendar", "court-7", "--config", path, "--days", "0")
	assert.Error(t, err)
}

func TestSweepCommand_EmptyStore(t *testing.T) {
	output, err := runCommand(t, "sweep", "--config", memoryConfig(t))
	require.NoError(t, err)
	assert.Contains(t, output, "removed 0 expired holds across 0 venues")
}

func TestMigrateCommand_NonPostgres(t *testing.T) {
	output, err := runCommand(t, "migrate", "--config", memoryConfig(t))
	require.NoError(t, err)
	assert.Contains(t, output, "storage driver memory needs no schema")
}

func TestParseDays(t *testing.T) {
	days, err := parseDays(" 1, 3 ,5,")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, days)

	_, err = parseDays("mon")
	assert.Error(t, err)
	_, err = parseDays(" , ")
	assert.Error(t, err)
}

func TestBuildVenueConfig(t *testing.T) {
	cfg, err := buildVenueConfig("08:00", "20:00", 90, "0,6", "Europe/Moscow")
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("08:00"), cfg.StartTime)
	assert.Equal(t, types.TimeString("20:00"), cfg.EndTime)
	assert.Equal(t, 90, cfg.SlotDurationMinutes)
	assert.Equal(t, []int{0, 6}, cfg.DaysOfWeek)
	assert.Equal(t, "Europe/Moscow", cfg.Timezone)

	_, err = buildVenueConfig("8am", "20:00", 90, "0", "")
	assert.Error(t, err)
	_, err = buildVenueConfig("08:00", "25:00", 90, "0", "")
	assert.Error(t, err)
}

func TestRenderCalendar(t *testing.T) {
	day := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	expires := time.Date(2026, 3, 9, 9, 5, 0, 0, time.UTC)

	t.Run("statuses and summary", func(t *testing.T) {
		resp := &getVenueSlotsUC.Response{
			VenueID:             "court-7",
			StartDate:           day,
			EndDate:             day.AddDate(0, 0, 1),
			Initialized:         true,
			SlotDurationMinutes: 60,
			Timezone:            "UTC",
			Slots: []domain.ReconstructedSlot{
				{Date: "2026-03-09", StartTime: "09:00", EndTime: "10:00", Status: domain.SlotStatusHeld,
					UserID: ptr.Ptr("u1"), HoldExpiresAt: &expires},
				{Date: "2026-03-09", StartTime: "10:00", EndTime: "11:00", Status: domain.SlotStatusBooked,
					BookingID: ptr.Ptr("b1")},
				{Date: "2026-03-10", StartTime: "09:00", EndTime: "10:00", Status: domain.SlotStatusBlocked,
					Reason: ptr.Ptr("maintenance")},
				{Date: "2026-03-10", StartTime: "10:00", EndTime: "11:00", Status: domain.SlotStatusAvailable},
			},
		}

		buf := new(bytes.Buffer)
		renderCalendar(buf, resp)
		output := buf.String()

		assert.Contains(t, output, "court-7  2026-03-09..2026-03-10  (60 min, UTC)")
		assert.Contains(t, output, "\n2026-03-09\n")
		assert.Contains(t, output, "\n2026-03-10\n")
		assert.Contains(t, output, "09:00-10:00  HELD      user=u1 until 2026-03-09T09:05:00Z")
		assert.Contains(t, output, "10:00-11:00  BOOKED    booking=b1 user=-")
		assert.Contains(t, output, "09:00-10:00  BLOCKED   maintenance")
		assert.Contains(t, output, "available=1 booked=1 held=1 reserved=0 blocked=1")
	})

	t.Run("no slots", func(t *testing.T) {
		buf := new(bytes.Buffer)
		renderCalendar(buf, &getVenueSlotsUC.Response{VenueID: "court-7", Initialized: true, StartDate: day, EndDate: day})
		assert.Contains(t, buf.String(), "no upcoming slots in range")
	})
}
