package admin

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	ticketUsecases "github.com/tdesk-io/tdesk/internal/application/ticket/usecases"
	userUsecases "github.com/tdesk-io/tdesk/internal/application/user/usecases"
	"github.com/tdesk-io/tdesk/internal/domain/user"
	"github.com/tdesk-io/tdesk/internal/shared/errors"
)

// Fixture is the document read by "admin seed".
type Fixture struct {
	Users   []FixtureUser   `yaml:"users"`
	Tickets []FixtureTicket `yaml:"tickets"`
}

type FixtureUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// FixtureTicket refers to users by email. Assignee and Status are optional.
type FixtureTicket struct {
	Title       string `yaml:"title"`
	Category    string `yaml:"category"`
	Priority    string `yaml:"priority"`
	Description string `yaml:"description"`
	Owner       string `yaml:"owner"`
	Assignee    string `yaml:"assignee"`
	Status      string `yaml:"status"`
}

// SeedReport counts what a seed run created.
type SeedReport struct {
	UsersCreated   int
	UsersSkipped   int
	TicketsCreated int
}

func loadFixture(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// seed creates the fixture users, skipping emails that already exist, then
// files every ticket as its owner and applies assignment and status as the
// operator. Ticket creation is not idempotent.
func (a *app) seed(ctx context.Context, f *Fixture) (*SeedReport, error) {
	report := &SeedReport{}

	for _, u := range f.Users {
		_, err := a.createUser.Execute(ctx, userUsecases.CreateUserCommand{
			Actor:    operator,
			Name:     u.Name,
			Email:    u.Email,
			Password: u.Password,
			Role:     u.Role,
		})
		switch {
		case err == nil:
			report.UsersCreated++
		case errors.IsConflictError(err):
			report.UsersSkipped++
		default:
			return report, fmt.Errorf("user %s: %w", u.Email, err)
		}
	}

	for i, t := range f.Tickets {
		owner, err := a.lookup(ctx, t.Owner)
		if err != nil {
			return report, fmt.Errorf("ticket %d: owner: %w", i+1, err)
		}

		res, err := a.createTicket.Execute(ctx, ticketUsecases.CreateTicketCommand{
			Actor:       owner.Identity(),
			Title:       t.Title,
			Category:    t.Category,
			Priority:    t.Priority,
			Description: t.Description,
		})
		if err != nil {
			return report, fmt.Errorf("ticket %d: %w", i+1, err)
		}
		report.TicketsCreated++

		if t.Assignee != "" {
			agent, err := a.lookup(ctx, t.Assignee)
			if err != nil {
				return report, fmt.Errorf("ticket %d: assignee: %w", i+1, err)
			}
			if _, err := a.assignTicket.Execute(ctx, ticketUsecases.AssignTicketCommand{
				Actor:    operator,
				TicketID: res.TicketID,
				AgentID:  agent.ID(),
			}); err != nil {
				return report, fmt.Errorf("ticket %d: assign: %w", i+1, err)
			}
		}

		if t.Status != "" {
			if _, err := a.updateStatus.Execute(ctx, ticketUsecases.UpdateTicketStatusCommand{
				Actor:    operator,
				TicketID: res.TicketID,
				Status:   t.Status,
			}); err != nil {
				return report, fmt.Errorf("ticket %d: status: %w", i+1, err)
			}
		}
	}

	return report, nil
}

func (a *app) lookup(ctx context.Context, email string) (*user.User, error) {
	u, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", email, err)
	}
	return u, nil
}
