package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	"github.com/tdesk-io/tdesk/internal/shared/goroutine"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

func TestMutationNotifier_Committed(t *testing.T) {
	pub := &recordingPublisher{}
	muts := &countingMutations{}
	log := logger.NewDiscard()
	n := NewMutationNotifier(pub, muts, goroutine.NewTracker(log), log)

	ctx, cancel := context.WithCancel(context.Background())
	n.Committed(ctx, ticket.NewEvent(ticket.EventTypeTicketCreated, 5, 1))
	cancel()
	n.Wait()

	require.Len(t, pub.events, 1)
	assert.Equal(t, uint(5), pub.events[0].TicketID)
	assert.Equal(t, []string{ticket.EventTypeTicketCreated}, muts.ops)
}

func TestMutationNotifier_PublishFailureIsSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	log := logger.NewDiscard()
	n := NewMutationNotifier(pub, &countingMutations{}, goroutine.NewTracker(log), log)

	assert.NotPanics(t, func() {
		n.Committed(context.Background(), ticket.NewEvent(ticket.EventTypeTicketDeleted, 5, 1))
		n.Wait()
	})

	var nilNotifier *MutationNotifier
	assert.NotPanics(t, func() {
		nilNotifier.Committed(context.Background(), ticket.NewEvent(ticket.EventTypeTicketDeleted, 5, 1))
		nilNotifier.Wait()
	})
}
