package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var configPath string

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	blue   = color.New(color.FgBlue)
	faint  = color.New(color.Faint)
)

// rootCmd корневая команда, без подкоманды показывает справку
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slotctl",
		Short: "slotctl - venue slot administration",
		Long: `slotctl works directly against the configured slot store.

It initializes venues, prints the reconstructed slot calendar,
sweeps expired holds and prepares the postgres schema.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath(), "Path to config.toml")

	cmd.AddCommand(newInitCmd(), newCalendarCmd(), newSweepCmd(), newMigrateCmd())
	return cmd
}

func defaultConfigPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.toml"
}

// Execute запускает корневую команду и печатает ошибку красным
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		red.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func success(cmd *cobra.Command, format string, a ...any) {
	green.Fprintf(cmd.OutOrStdout(), "✓ "+format+"\n", a...)
}

func warning(cmd *cobra.Command, format string, a ...any) {
	yellow.Fprintf(cmd.OutOrStdout(), "⚠ "+format+"\n", a...)
}

func fail(format string, a ...any) error {
	return fmt.Errorf(format, a...)
}
