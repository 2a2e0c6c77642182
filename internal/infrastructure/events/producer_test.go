package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
)

type fakeWriter struct {
	errs   []error
	msgs   []kafka.Message
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if len(w.errs) > 0 {
		err := w.errs[0]
		w.errs = w.errs[1:]
		if err != nil {
			return err
		}
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

// writerSequence hands out the given writers in order, one per open.
func writerSequence(ws ...*fakeWriter) (func(ProducerConfig) eventWriter, *int) {
	opened := 0
	return func(ProducerConfig) eventWriter {
		w := ws[opened]
		opened++
		return w
	}, &opened
}

func TestProducer_ProduceEvent(t *testing.T) {
	w := &fakeWriter{}
	open, _ := writerSequence(w)
	p := newProducer(ProducerConfig{Topic: "ticket-events"}, open)

	ev := ticket.NewEvent(ticket.EventTypeTicketAssigned, 42, 1)
	require.NoError(t, p.ProduceEvent(context.Background(), ev))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, ev.OccurredAt, msg.Time)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, headerEventType, msg.Headers[0].Key)
	assert.Equal(t, ticket.EventTypeTicketAssigned, string(msg.Headers[0].Value))

	var decoded ticket.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "ticket:42", decoded.AggregateID)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
	assert.ErrorIs(t, p.ProduceEvent(context.Background(), ev), errProducerClosed)
}

func TestProducer_RebuildsWriterOnConnectionError(t *testing.T) {
	first := &fakeWriter{errs: []error{fmt.Errorf("write: %w", syscall.ECONNREFUSED)}}
	second := &fakeWriter{}
	open, opened := writerSequence(first, second)
	p := newProducer(ProducerConfig{}, open)

	require.NoError(t, p.ProduceEvent(context.Background(), ticket.NewEvent(ticket.EventTypeTicketCreated, 7, 1)))
	assert.True(t, first.closed)
	assert.Len(t, second.msgs, 1)
	assert.Equal(t, 2, *opened)
}

func TestProducer_DoesNotRetryPermanentErrors(t *testing.T) {
	w := &fakeWriter{errs: []error{kafka.MessageSizeTooLarge}}
	open, opened := writerSequence(w)
	p := newProducer(ProducerConfig{}, open)

	err := p.ProduceEvent(context.Background(), ticket.NewEvent(ticket.EventTypeTicketCreated, 7, 1))
	assert.ErrorIs(t, err, kafka.MessageSizeTooLarge)
	assert.Equal(t, 1, *opened)
	assert.False(t, w.closed)
}

func TestProducer_RebuildCooldown(t *testing.T) {
	first := &fakeWriter{errs: []error{io.EOF}}
	second := &fakeWriter{errs: []error{nil, io.EOF}}
	open, opened := writerSequence(first, second, &fakeWriter{})
	p := newProducer(ProducerConfig{}, open)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	ev := ticket.NewEvent(ticket.EventTypeTicketUpdated, 3, 1)
	require.NoError(t, p.ProduceEvent(context.Background(), ev))
	require.Equal(t, 2, *opened)

	// a second failure inside the cooldown is returned without a rebuild
	now = now.Add(time.Second)
	assert.ErrorIs(t, p.ProduceEvent(context.Background(), ev), io.EOF)
	assert.Equal(t, 2, *opened)
}

func TestReconnectable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"eof", io.ErrUnexpectedEOF, true},
		{"refused", fmt.Errorf("dial: %w", syscall.ECONNREFUSED), true},
		{"net op", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("no route to host")}, true},
		{"deadline", context.DeadlineExceeded, true},
		{"not leader", kafka.NotLeaderForPartition, true},
		{"too large", kafka.MessageSizeTooLarge, false},
		{"batch with one stale leader", kafka.WriteErrors{nil, kafka.LeaderNotAvailable}, true},
		{"batch of permanent errors", kafka.WriteErrors{kafka.InvalidMessage}, false},
		{"plain", errors.New("message rejected"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reconnectable(tt.err))
		})
	}
}
