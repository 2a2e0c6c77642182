package services

import (
	"context"
	"sync"

	"github.com/tdesk-io/tdesk/internal/domain/ticket"
)

type mockActivityRepository struct {
	AppendFunc func(ctx context.Context, a *ticket.Activity) error
	appended   []*ticket.Activity
}

func (m *mockActivityRepository) Append(ctx context.Context, a *ticket.Activity) error {
	if m.AppendFunc != nil {
		if err := m.AppendFunc(ctx, a); err != nil {
			return err
		}
	}
	m.appended = append(m.appended, a)
	return nil
}

func (m *mockActivityRepository) ListForTicket(ctx context.Context, ticketID uint, limit int) ([]ticket.ActivityEntry, error) {
	return nil, nil
}

func (m *mockActivityRepository) Recent(ctx context.Context, scope ticket.Scope, limit int) ([]ticket.ActivityEntry, error) {
	return nil, nil
}

type mockUserChecker struct {
	ExistsFunc func(ctx context.Context, id uint) (bool, error)
}

func (m *mockUserChecker) Exists(ctx context.Context, id uint) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return true, nil
}

// inlineRunner runs fn directly, standing in for a savepoint.
type inlineRunner struct{ calls int }

func (r *inlineRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls++
	return fn(ctx)
}

type countingDegrade struct {
	mu     sync.Mutex
	tables []string
}

func (d *countingDegrade) DegradedWrite(table string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tables = append(d.tables, table)
}

type countingMutations struct {
	mu  sync.Mutex
	ops []string
}

func (c *countingMutations) MutationCommitted(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, op)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ticket.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev ticket.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}
