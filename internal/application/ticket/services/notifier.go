package services

import (
	"context"
	"time"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/shared/goroutine"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

const publishTimeout = 10 * time.Second

// MutationNotifier runs after a ticket transaction commits: it counts the
// mutation and publishes its event in the background.
type MutationNotifier struct {
	publisher EventPublisher
	recorder  MutationRecorder
	tracker   *goroutine.Tracker
	logger    logger.Interface
}

func NewMutationNotifier(publisher EventPublisher, recorder MutationRecorder, tracker *goroutine.Tracker, logger logger.Interface) *MutationNotifier {
	return &MutationNotifier{
		publisher: publisher,
		recorder:  recorder,
		tracker:   tracker,
		logger:    logger,
	}
}

// Committed must only be called once the transaction has committed.
func (n *MutationNotifier) Committed(ctx context.Context, event ticket.Event) {
	if n == nil {
		return
	}
	n.recorder.MutationCommitted(event.EventType)

	// The request context ends with the response; the publish must outlive it.
	base := context.WithoutCancel(ctx)
	n.tracker.Go("ticket-event-publish", func() {
		pctx, cancel := context.WithTimeout(base, publishTimeout)
		defer cancel()
		if err := n.publisher.Publish(pctx, event); err != nil {
			n.logger.Warnw("ticket event not published",
				"event_type", event.EventType,
				"ticket_id", event.TicketID,
				"error", err,
			)
		}
	})
}

// Wait blocks until pending publishes finish.
func (n *MutationNotifier) Wait() {
	if n == nil {
		return
	}
	n.tracker.Wait()
}
