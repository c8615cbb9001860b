package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-VenueSlots/internal/domain"
	getVenueSlotsUC "github.com/m04kA/SMC-VenueSlots/internal/usecase/get_venue_slots"
	"github.com/m04kA/SMC-VenueSlots/pkg/ptr"
)

func newCalendarCmd() *cobra.Command {
	var (
		from string
		days int
	)

	cmd := &cobra.Command{
		Use:   "calendar <venueId>",
		Short: "Print the reconstructed slot calendar of a venue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now().UTC()
			if from != "" {
				parsed, err := time.Parse(domain.DateFormat, from)
				if err != nil {
					return fail("--from: expected YYYY-MM-DD, got %q", from)
				}
				start = parsed
			}
			if days < 1 {
				return fail("--days must be positive")
			}

			e, err := openEnv(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			resp, err := e.calendar.Execute(cmd.Context(), &getVenueSlotsUC.Request{
				VenueID:   args[0],
				StartDate: start,
				EndDate:   start.AddDate(0, 0, days-1),
			})
			if err != nil {
				return err
			}
			renderCalendar(cmd.OutOrStdout(), resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First date (YYYY-MM-DD), default today")
	cmd.Flags().IntVar(&days, "days", 7, "Number of days to show")
	return cmd
}

func statusColor(status domain.SlotStatus) *color.Color {
	switch status {
	case domain.SlotStatusBlocked:
		return red
	case domain.SlotStatusBooked:
		return blue
	case domain.SlotStatusHeld:
		return yellow
	case domain.SlotStatusReserved:
		return cyan
	default:
		return green
	}
}

// renderCalendar печатает блок на каждую дату, по строке на слот
func renderCalendar(w io.Writer, resp *getVenueSlotsUC.Response) {
	if !resp.Initialized {
		yellow.Fprintf(w, "venue %s is not initialized\n", resp.VenueID)
		return
	}

	fmt.Fprintf(w, "%s  %s..%s  (%d min, %s)\n", resp.VenueID,
		resp.StartDate.Format(domain.DateFormat), resp.EndDate.Format(domain.DateFormat),
		resp.SlotDurationMinutes, resp.Timezone)
	if len(resp.Slots) == 0 {
		faint.Fprintln(w, "no upcoming slots in range")
		return
	}

	counts := make(map[domain.SlotStatus]int)
	currentDate := ""
	for _, slot := range resp.Slots {
		if slot.Date != currentDate {
			currentDate = slot.Date
			fmt.Fprintf(w, "\n%s\n", currentDate)
		}
		counts[slot.Status]++

		fmt.Fprintf(w, "  %s-%s  ", slot.StartTime, slot.EndTime)
		statusColor(slot.Status).Fprintf(w, "%-9s", slot.Status)
		if detail := slotDetail(slot); detail != "" {
			faint.Fprintf(w, " %s", detail)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\navailable=%d booked=%d held=%d reserved=%d blocked=%d\n",
		counts[domain.SlotStatusAvailable], counts[domain.SlotStatusBooked], counts[domain.SlotStatusHeld],
		counts[domain.SlotStatusReserved], counts[domain.SlotStatusBlocked])
}

func slotDetail(slot domain.ReconstructedSlot) string {
	switch slot.Status {
	case domain.SlotStatusBooked:
		return fmt.Sprintf("booking=%s user=%s", ptr.Deref(slot.BookingID, "-"), ptr.Deref(slot.UserID, "-"))
	case domain.SlotStatusHeld:
		expires := "-"
		if slot.HoldExpiresAt != nil {
			expires = slot.HoldExpiresAt.UTC().Format(time.RFC3339)
		}
		return fmt.Sprintf("user=%s until %s", ptr.Deref(slot.UserID, "-"), expires)
	case domain.SlotStatusBlocked:
		return ptr.Deref(slot.Reason, "")
	case domain.SlotStatusReserved:
		return ptr.Deref(slot.Note, "")
	default:
		return ""
	}
}
