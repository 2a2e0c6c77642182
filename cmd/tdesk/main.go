package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tdesk-io/tdesk/internal/interfaces/cli/admin"
	"github.com/tdesk-io/tdesk/internal/interfaces/cli/bootstrap"
	"github.com/tdesk-io/tdesk/internal/interfaces/cli/migrate"
	"github.com/tdesk-io/tdesk/internal/interfaces/cli/server"
	"github.com/tdesk-io/tdesk/internal/shared/constants"
	"github.com/tdesk-io/tdesk/internal/shared/version"
)

func main() {
	flags := &bootstrap.Flags{}

	rootCmd := &cobra.Command{
		Use:           "tdesk",
		Short:         "tdesk - support ticket helpdesk",
		Long:          `tdesk serves the helpdesk API and provides migration and account maintenance commands.`,
		Version:       version.Current,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.Env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Add source locations to every log line")

	rootCmd.AddCommand(
		server.NewCommand(flags),
		migrate.NewCommand(flags),
		admin.NewCommand(flags),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
