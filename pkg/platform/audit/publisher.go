package audit

import (
	"context"
	"log/slog"
	"sync"

	id "sentinela/pkg/domain"
)

// Publisher decouples audit emission from persistence. In sync mode Emit
// writes straight through; with WithAsyncBuffer entries are queued and
// drained by a background goroutine, and Close flushes what remains.
//
// Emit never returns a caller-visible failure for a full buffer or a sink
// error: audit is best-effort by contract.
type Publisher struct {
	store  Store
	logger *slog.Logger

	inbox  chan Entry
	done   chan struct{}
	closed sync.Once
	wg     sync.WaitGroup
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer enables asynchronous emission with the given queue size.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		p.inbox = make(chan Entry, size)
	}
}

// WithLogger attaches a logger for dropped or failed entries.
func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher constructs a Publisher over the given store.
func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store, done: make(chan struct{})}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records an entry. Sink failures are logged, never propagated.
func (p *Publisher) Emit(ctx context.Context, entry Entry) error {
	if p.inbox == nil {
		p.append(ctx, entry)
		return nil
	}
	select {
	case p.inbox <- entry:
	case <-p.done:
		// Publisher closing; write through rather than drop the entry.
		p.append(ctx, entry)
	default:
		p.logWarn("audit buffer full, dropping entry", entry)
	}
	return nil
}

// List returns all entries recorded for a tenant.
func (p *Publisher) List(ctx context.Context, tenantID id.TenantID) ([]Entry, error) {
	return p.store.ListByTenant(ctx, tenantID)
}

// Close drains pending entries and stops the background worker.
func (p *Publisher) Close() {
	p.closed.Do(func() {
		close(p.done)
		if p.inbox != nil {
			close(p.inbox)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for entry := range p.inbox {
		p.append(context.Background(), entry)
	}
}

func (p *Publisher) append(ctx context.Context, entry Entry) {
	if err := p.store.Append(ctx, entry); err != nil {
		p.logWarn("audit append failed", entry, "error", err)
	}
}

func (p *Publisher) logWarn(msg string, entry Entry, extra ...any) {
	if p.logger == nil {
		return
	}
	args := append([]any{
		"action", string(entry.Action),
		"resource", entry.Resource,
		"resource_id", entry.ResourceID,
		"tenant_id", entry.TenantID.String(),
	}, extra...)
	p.logger.Warn(msg, args...)
}
