package audit

import (
	"context"
	"log/slog"

	id "sentinela/pkg/domain"
)

// Appender is the write-only side of a Store. Mirrors (Kafka, SIEM
// forwarders) implement only this.
type Appender interface {
	Append(ctx context.Context, entry Entry) error
}

// Fanout writes every entry to a primary store and mirrors it to any number
// of secondary sinks. Reads come from the primary only. A mirror failure is
// logged and does not affect the primary write.
type Fanout struct {
	primary Store
	mirrors []Appender
	logger  *slog.Logger
}

func NewFanout(primary Store, logger *slog.Logger, mirrors ...Appender) *Fanout {
	return &Fanout{primary: primary, mirrors: mirrors, logger: logger}
}

func (f *Fanout) Append(ctx context.Context, entry Entry) error {
	err := f.primary.Append(ctx, entry)
	for _, m := range f.mirrors {
		if mErr := m.Append(ctx, entry); mErr != nil && f.logger != nil {
			f.logger.Warn("audit mirror append failed", "action", string(entry.Action), "error", mErr)
		}
	}
	return err
}

func (f *Fanout) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]Entry, error) {
	return f.primary.ListByTenant(ctx, tenantID)
}
