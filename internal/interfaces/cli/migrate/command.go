package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tdesk-io/tdesk/internal/infrastructure/database"
	"github.com/tdesk-io/tdesk/internal/infrastructure/migration"
	"github.com/tdesk-io/tdesk/internal/interfaces/cli/bootstrap"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

const scriptsDir = "./internal/infrastructure/migration/scripts"

func NewCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, roll back and inspect schema migrations, or scaffold a new migration script.`,
	}

	cmd.AddCommand(
		newUpCommand(flags),
		newDownCommand(flags),
		newStatusCommand(flags),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand(flags *bootstrap.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, log, err := open(flags)
			if err != nil {
				return err
			}
			defer database.Close()

			log.Infow("running up migrations", "environment", flags.Env)
			if err := mgr.Migrate(database.Get()); err != nil {
				return err
			}
			log.Infow("migrations completed successfully")
			return nil
		},
	}
}

func newDownCommand(flags *bootstrap.Flags) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			mgr, log, err := open(flags)
			if err != nil {
				return err
			}
			defer database.Close()

			log.Infow("running down migrations", "environment", flags.Env, "steps", steps)
			if err := mgr.Rollback(database.Get(), steps); err != nil {
				return fmt.Errorf("down migration failed: %w", err)
			}
			log.Infow("down migration completed successfully")
			return nil
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to roll back")

	return cmd
}

func newStatusCommand(flags *bootstrap.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := open(flags)
			if err != nil {
				return err
			}
			defer database.Close()

			v, err := mgr.Version(database.Get())
			if err != nil {
				return fmt.Errorf("failed to get migration version: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nMigration Status:\n")
			fmt.Fprintf(out, "  Environment:     %s\n", flags.Env)
			fmt.Fprintf(out, "  Current Version: %d\n", v)

			return mgr.Status(database.Get())
		},
	}
}

func newCreateCommand() *cobra.Command {
	var (
		name string
		dir  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new SQL migration script",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := migration.NewGooseStrategy().Create(dir, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migration %q created in %s\n", name, dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	cmd.Flags().StringVar(&dir, "dir", scriptsDir, "Directory to write the script into")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func open(flags *bootstrap.Flags) (*migration.Manager, logger.Interface, error) {
	cfg, err := bootstrap.OpenDatabase(flags)
	if err != nil {
		return nil, nil, err
	}
	mgr, err := migration.NewManager(cfg.Database.Driver)
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	return mgr, logger.WithComponent("migrate"), nil
}
