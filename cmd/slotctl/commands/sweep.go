package commands

import (
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-VenueSlots/internal/worker"
)

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove expired holds from every venue once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			sweeper := worker.NewHoldSweeper(e.storage.Repository, e.slots, worker.DefaultHoldSweeperConfig(), e.log)
			result := sweeper.RunOnce(cmd.Context())
			if result.Failed > 0 {
				warning(cmd, "%d of %d venues failed, see log", result.Failed, result.Venues)
			}
			success(cmd, "removed %d expired holds across %d venues", result.Removed, result.Venues)
			return nil
		},
	}
}
