package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
)

const (
	defaultWriteTimeout = 5 * time.Second
	reconnectCooldown   = 2 * time.Second

	headerEventType = "event_type"
	headerVersion   = "version"
)

var errProducerClosed = errors.New("kafka producer is closed")

type ProducerConfig struct {
	Brokers      []string
	Topic        string
	ClientID     string
	WriteTimeout time.Duration
}

func (c ProducerConfig) writeTimeout() time.Duration {
	if c.WriteTimeout <= 0 {
		return defaultWriteTimeout
	}
	return c.WriteTimeout
}

// eventWriter is the subset of *kafka.Writer the producer uses.
type eventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer writes ticket events to one topic. Messages are keyed by ticket
// id. A write that fails on a broker or connection error rebuilds the
// writer and is retried once; rebuilds happen at most once per cooldown.
type Producer struct {
	mu        sync.Mutex
	cfg       ProducerConfig
	open      func(ProducerConfig) eventWriter
	w         eventWriter
	rebuiltAt time.Time
	now       func() time.Time
}

func NewProducer(cfg ProducerConfig) *Producer {
	return newProducer(cfg, openWriter)
}

func newProducer(cfg ProducerConfig, open func(ProducerConfig) eventWriter) *Producer {
	return &Producer{cfg: cfg, open: open, w: open(cfg), now: time.Now}
}

func openWriter(cfg ProducerConfig) eventWriter {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		// Short metadata TTL so moved brokers are picked up without a restart.
		Transport: &kafka.Transport{ClientID: cfg.ClientID, MetadataTTL: 10 * time.Second},
	}
}

// ProduceEvent encodes event and writes it synchronously.
func (p *Producer) ProduceEvent(ctx context.Context, event ticket.Event) error {
	msg, err := eventMessage(event)
	if err != nil {
		return err
	}

	err = p.write(ctx, msg)
	if err == nil || ctx.Err() != nil || !reconnectable(err) {
		return err
	}
	if !p.rebuild() {
		return err
	}
	return p.write(ctx, msg)
}

func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.w == nil {
		return nil
	}
	err := p.w.Close()
	p.w = nil
	return err
}

func (p *Producer) write(ctx context.Context, msg kafka.Message) error {
	p.mu.Lock()
	w := p.w
	p.mu.Unlock()
	if w == nil {
		return errProducerClosed
	}

	wctx, cancel := context.WithTimeout(ctx, p.cfg.writeTimeout())
	defer cancel()
	return w.WriteMessages(wctx, msg)
}

// rebuild replaces the writer unless the producer is closed or was rebuilt
// within the cooldown.
func (p *Producer) rebuild() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.w == nil {
		return false
	}
	now := p.now()
	if !p.rebuiltAt.IsZero() && now.Sub(p.rebuiltAt) < reconnectCooldown {
		return false
	}
	_ = p.w.Close()
	p.w = p.open(p.cfg)
	p.rebuiltAt = now
	return true
}

func eventMessage(event ticket.Event) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal ticket event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(event.TicketID), 10)),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: headerEventType, Value: []byte(event.EventType)},
			{Key: headerVersion, Value: []byte(strconv.Itoa(event.Version))},
		},
	}, nil
}

// reconnectable reports whether err points at stale broker metadata or a
// broken connection, both of which a fresh writer can recover from.
func reconnectable(err error) bool {
	if err == nil {
		return false
	}

	var writeErrs kafka.WriteErrors
	if errors.As(err, &writeErrs) {
		for _, e := range writeErrs {
			if reconnectable(e) {
				return true
			}
		}
		return false
	}

	// kafka.Error also satisfies net.Error, so it is checked first.
	var kerr kafka.Error
	if errors.As(err, &kerr) {
		switch kerr {
		case kafka.NotLeaderForPartition, kafka.LeaderNotAvailable,
			kafka.BrokerNotAvailable, kafka.NetworkException:
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}
