package usecases

import (
	"context"

	"github.com/tdesk-io/tdesk/internal/application/ticket/dto"
	"github.com/tdesk-io/tdesk/internal/application/ticket/services"
	"github.com/tdesk-io/tdesk/internal/domain/ticket"
)

type TransactionRunner = services.TransactionRunner

// AuditTrail appends activity entries inside the mutation transaction.
type AuditTrail interface {
	Record(ctx context.Context, e services.AuditEntry) error
}

type AttachmentRecorder interface {
	RecordForTicket(ctx context.Context, ticketID uint, items []ticket.AttachmentMetadata) error
	RecordForResponse(ctx context.Context, responseID uint, items []ticket.AttachmentMetadata) error
}

// CommitNotifier is told about every mutation after its transaction commits.
type CommitNotifier interface {
	Committed(ctx context.Context, event ticket.Event)
}

// FileRemover deletes stored attachment files and reports how many failed.
type FileRemover interface {
	RemoveAll(paths []string) int
}

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*CreateTicketResult, error)
}

type UpdateTicketStatusExecutor interface {
	Execute(ctx context.Context, cmd UpdateTicketStatusCommand) (*UpdateTicketStatusResult, error)
}

type AssignTicketExecutor interface {
	Execute(ctx context.Context, cmd AssignTicketCommand) (*AssignTicketResult, error)
}

type UpdateTicketExecutor interface {
	Execute(ctx context.Context, cmd UpdateTicketCommand) (*UpdateTicketResult, error)
}

type DeleteTicketExecutor interface {
	Execute(ctx context.Context, cmd DeleteTicketCommand) error
}

type AddResponseExecutor interface {
	Execute(ctx context.Context, cmd AddResponseCommand) (*AddResponseResult, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDetailsDTO, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query ListTicketsQuery) ([]dto.TicketDTO, error)
}

type GetTicketStatsExecutor interface {
	Execute(ctx context.Context, query GetTicketStatsQuery) (*dto.StatsDTO, error)
}

type GetTicketChartExecutor interface {
	Execute(ctx context.Context, query GetTicketChartQuery) ([]dto.DailyPointDTO, error)
}

type ListRecentActivityExecutor interface {
	Execute(ctx context.Context, query ListRecentActivityQuery) ([]dto.ActivityDTO, error)
}
