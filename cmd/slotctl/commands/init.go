package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	"github.com/m04kA/SMC-VenueSlots/pkg/types"
)

func newInitCmd() *cobra.Command {
	var (
		start    string
		end      string
		duration int
		days     string
		timezone string
	)

	cmd := &cobra.Command{
		Use:   "init <venueId>",
		Short: "Initialize the slot aggregate of a venue",
		Example: `  slotctl init court-7 --start 06:00 --end 22:00 --duration 60 --days 1,2,3,4,5
  slotctl init court-7 --days 0,6 --timezone Europe/Moscow`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildVenueConfig(start, end, duration, days, timezone)
			if err != nil {
				return err
			}

			e, err := openEnv(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			slots, err := e.venues.Initialize(cmd.Context(), args[0], cfg)
			if err != nil {
				return err
			}
			success(cmd, "venue %s initialized: %s-%s every %d min, days %v, %s",
				slots.VenueID, slots.Config.StartTime, slots.Config.EndTime,
				slots.Config.SlotDurationMinutes, slots.Config.SortedDays(), slots.Config.Timezone)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "06:00", "First slot start (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "22:00", "Closing time (HH:MM)")
	cmd.Flags().IntVar(&duration, "duration", 60, "Slot duration in minutes")
	cmd.Flags().StringVar(&days, "days", "0,1,2,3,4,5,6", "Open weekdays, 0 = Sunday")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone (default "+domain.DefaultTimezone+")")
	return cmd
}

func buildVenueConfig(start, end string, duration int, days, timezone string) (domain.VenueSlotConfig, error) {
	startTime, err := types.NewTimeStringFromString(start)
	if err != nil {
		return domain.VenueSlotConfig{}, fail("--start: %v", err)
	}
	endTime, err := types.NewTimeStringFromString(end)
	if err != nil {
		return domain.VenueSlotConfig{}, fail("--end: %v", err)
	}
	weekdays, err := parseDays(days)
	if err != nil {
		return domain.VenueSlotConfig{}, err
	}
	return domain.VenueSlotConfig{
		StartTime:           startTime,
		EndTime:             endTime,
		SlotDurationMinutes: duration,
		DaysOfWeek:          weekdays,
		Timezone:            timezone,
	}, nil
}

func parseDays(s string) ([]int, error) {
	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		day, err := strconv.Atoi(part)
		if err != nil {
			return nil, fail("--days: %q is not a weekday number", part)
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return nil, fail("--days: at least one weekday is required")
	}
	return days, nil
}
