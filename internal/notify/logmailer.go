package notify

import (
	"context"
	"log/slog"
)

// LogMailer writes notifications to the structured log instead of sending
// them. Used in development and in deployments with no SMTP relay.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, to []string, kind TemplateKind, payload Payload) error {
	subject, _ := Render(kind, payload)
	m.logger.InfoContext(ctx, "notification (log only)",
		"to", to,
		"template", string(kind),
		"subject", subject,
		"incident_id", payload.IncidentID,
	)
	return nil
}
