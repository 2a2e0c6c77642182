// Package services holds the collaborators shared by the ticket use cases:
// the audit trail recorder, the attachment ledger and the post-commit notifier.
package services

import (
	"context"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
)

// TransactionRunner runs fn in a transaction, or in a savepoint when ctx
// already carries one.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// DegradeRecorder counts optional writes skipped because their table is missing.
type DegradeRecorder interface {
	DegradedWrite(table string)
}

// UserChecker resolves actor references.
type UserChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event ticket.Event) error
}

type MutationRecorder interface {
	MutationCommitted(operation string)
}
