package commands

import (
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-VenueSlots/internal/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the venue_slots table in postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer e.Close()

			if e.storage.Driver != config.StoragePostgres {
				warning(cmd, "storage driver %s needs no schema", e.storage.Driver)
				return nil
			}
			success(cmd, "schema is up to date")
			return nil
		},
	}
}
