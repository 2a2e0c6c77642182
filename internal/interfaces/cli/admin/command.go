package admin

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	userUsecases "github.com/tdesk-io/tdesk/internal/application/user/usecases"
	"github.com/tdesk-io/tdesk/internal/infrastructure/auth"
	"github.com/tdesk-io/tdesk/internal/infrastructure/database"
	"github.com/tdesk-io/tdesk/internal/interfaces/cli/bootstrap"
	"github.com/tdesk-io/tdesk/internal/shared/authorization"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

func NewCommand(flags *bootstrap.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Account and data maintenance",
	}

	cmd.AddCommand(
		newCreateCommand(flags),
		newSeedCommand(flags),
		newPromoteCommand(flags),
	)

	return cmd
}

func newCreateCommand(flags *bootstrap.Flags) *cobra.Command {
	var name, email, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user, an administrator by default",
		Long:  `Create a user account. The password is prompted for on a terminal or read from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(os.Stdin, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return withApp(flags, func(ctx context.Context, a *app) error {
				u, err := a.createUser.Execute(ctx, userUsecases.CreateUserCommand{
					Actor:    operator,
					Name:     name,
					Email:    email,
					Password: password,
					Role:     role,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (id %d)\n", u.Role, u.Email, u.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&role, "role", string(authorization.RoleAdmin), "Role: admin, support or client")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newSeedCommand(flags *bootstrap.Flags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo users and tickets from a YAML fixture",
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture, err := loadFixture(file)
			if err != nil {
				return err
			}

			return withApp(flags, func(ctx context.Context, a *app) error {
				report, err := a.seed(ctx, fixture)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Users created: %d, skipped: %d, tickets created: %d\n",
					report.UsersCreated, report.UsersSkipped, report.TicketsCreated)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "configs/seed.yaml", "Fixture file")

	return cmd
}

func newPromoteCommand(flags *bootstrap.Flags) *cobra.Command {
	var email, role string

	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Change the role of an existing user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, a *app) error {
				u, err := a.lookup(ctx, email)
				if err != nil {
					return err
				}
				if err := a.updateRole.Execute(ctx, userUsecases.UpdateUserRoleCommand{
					Actor:  operator,
					UserID: u.ID(),
					Role:   role,
				}); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Email(), role)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address of the user (required)")
	cmd.Flags().StringVar(&role, "role", string(authorization.RoleAdmin), "New role: admin, support or client")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// withApp opens the database, runs fn and waits for background work before
// closing it.
func withApp(flags *bootstrap.Flags, fn func(context.Context, *app) error) error {
	cfg, err := bootstrap.OpenDatabase(flags)
	if err != nil {
		return err
	}
	defer database.Close()

	log := logger.WithComponent("admin")
	a := newApp(database.Get(), auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost), log)
	defer a.tracker.Wait()

	return fn(context.Background(), a)
}
