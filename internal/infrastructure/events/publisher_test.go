package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
	vo "github.com/tdesk-io/tdesk/internal/domain/ticket/valueobjects"
	"github.com/tdesk-io/tdesk/internal/shared/logger"
)

type stubProducer struct {
	got    []ticket.Event
	err    error
	closed bool
}

func (s *stubProducer) ProduceEvent(_ context.Context, event ticket.Event) error {
	s.got = append(s.got, event)
	return s.err
}

func (s *stubProducer) Close() error {
	s.closed = true
	return nil
}

type countingRecorder struct {
	published, failed map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{published: map[string]int{}, failed: map[string]int{}}
}

func (r *countingRecorder) EventPublished(t string) { r.published[t]++ }
func (r *countingRecorder) EventFailed(t string)    { r.failed[t]++ }

func TestKafkaPublisher_Publish(t *testing.T) {
	prod := &stubProducer{}
	rec := newCountingRecorder()
	p := newKafkaPublisher(prod, rec, logger.NewDiscard())

	ev := ticket.NewEvent(ticket.EventTypeTicketStatusChanged, 42, 2)
	ev.FromStatus = vo.StatusOpen
	ev.ToStatus = vo.StatusInProgress

	require.NoError(t, p.Publish(context.Background(), ev))
	require.Len(t, prod.got, 1)
	assert.Equal(t, uint(42), prod.got[0].TicketID)
	assert.Equal(t, vo.StatusInProgress, prod.got[0].ToStatus)
	assert.Equal(t, 1, rec.published[ticket.EventTypeTicketStatusChanged])

	require.NoError(t, p.Close())
	assert.True(t, prod.closed)
}

func TestKafkaPublisher_Failure(t *testing.T) {
	prod := &stubProducer{err: errors.New("dial tcp: connection refused")}
	rec := newCountingRecorder()
	p := newKafkaPublisher(prod, rec, logger.NewDiscard())

	err := p.Publish(context.Background(), ticket.NewEvent(ticket.EventTypeTicketCreated, 1, 1))
	assert.Error(t, err)
	assert.Equal(t, 1, rec.failed[ticket.EventTypeTicketCreated])
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), ticket.NewEvent(ticket.EventTypeTicketDeleted, 1, 1)))
	assert.NoError(t, p.Close())
}

func TestRedisPublisher_RoundTrip(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	rec := newCountingRecorder()
	p := NewRedisPublisher(client, rec, logger.NewDiscard())

	received := make(chan ticket.Event, 1)
	subCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() {
		_ = p.Subscribe(subCtx, func(ev ticket.Event) { received <- ev })
	}()

	require.Eventually(t, func() bool {
		n, err := client.PubSubNumSub(ctx, RedisChannel).Result()
		return err == nil && n[RedisChannel] > 0
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, p.Publish(ctx, ticket.NewEvent(ticket.EventTypeTicketAssigned, 9, 1)))

	select {
	case ev := <-received:
		assert.Equal(t, uint(9), ev.TicketID)
	case <-ctx.Done():
		t.Fatal("event not received")
	}
	assert.Equal(t, 1, rec.published[ticket.EventTypeTicketAssigned])
}
