package services

import (
	"context"
	"fmt"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/shared/constants"
	"github.com/tdesk-io/tdesk/internal/shared/db"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

// AttachmentLedger records metadata of files the storage already holds.
// It never touches the files themselves.
type AttachmentLedger struct {
	attachmentRepo ticket.AttachmentRepository
	txRunner       TransactionRunner
	degrade        DegradeRecorder
	logger         logger.Interface
}

func NewAttachmentLedger(
	attachmentRepo ticket.AttachmentRepository,
	txRunner TransactionRunner,
	degrade DegradeRecorder,
	logger logger.Interface,
) *AttachmentLedger {
	return &AttachmentLedger{
		attachmentRepo: attachmentRepo,
		txRunner:       txRunner,
		degrade:        degrade,
		logger:         logger,
	}
}

func (l *AttachmentLedger) RecordForTicket(ctx context.Context, ticketID uint, items []ticket.AttachmentMetadata) error {
	return l.record(ctx, constants.TableTicketAttachments, ticketID, items, l.attachmentRepo.AddToTicket)
}

func (l *AttachmentLedger) RecordForResponse(ctx context.Context, responseID uint, items []ticket.AttachmentMetadata) error {
	return l.record(ctx, constants.TableTicketResponseAttachments, responseID, items, l.attachmentRepo.AddToResponse)
}

func (l *AttachmentLedger) record(
	ctx context.Context,
	table string,
	ownerID uint,
	items []ticket.AttachmentMetadata,
	add func(ctx context.Context, ownerID uint, items []ticket.AttachmentMetadata) error,
) error {
	if len(items) == 0 {
		return nil
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("attachment %d: %w", i, err)
		}
	}

	err := l.txRunner.RunInTransaction(ctx, func(ctx context.Context) error {
		return add(ctx, ownerID, items)
	})
	if err == nil {
		return nil
	}
	if db.IsRelationNotFound(err) {
		l.logger.Warnw("attachment table not found, metadata skipped",
			"table", table,
			"owner_id", ownerID,
			"count", len(items),
		)
		l.degrade.DegradedWrite(table)
		return nil
	}
	return fmt.Errorf("failed to record attachments in %s: %w", table, err)
}
