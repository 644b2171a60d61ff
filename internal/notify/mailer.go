// Package notify dispatches workflow e-mails to the responsible parties of
// an incident. Delivery is best-effort: a failed send is logged and
// swallowed, and never rolls back the state transition that triggered it.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// TemplateKind selects which notification template a dispatch renders.
type TemplateKind string

const (
	TemplateIncidentReported  TemplateKind = "incident_reported"
	TemplateExtensionRequest  TemplateKind = "extension_requested"
	TemplateExtensionApproved TemplateKind = "extension_approved"
	TemplateExtensionRejected TemplateKind = "extension_rejected"
	TemplateEscalation        TemplateKind = "escalation"
)

// Payload carries the template fields. Unused fields stay zero; templates
// only read what they render.
type Payload struct {
	IncidentID    string
	TenantName    string
	Sector        string
	Description   string
	RiskLevel     string
	Deadline      *time.Time
	Justification string
}

// Mailer delivers one rendered notification to a recipient list.
type Mailer interface {
	Send(ctx context.Context, to []string, kind TemplateKind, payload Payload) error
}

// Render produces the pt-BR subject and body for a dispatch. Mailer
// implementations share it so every transport sends identical content.
func Render(kind TemplateKind, p Payload) (subject, body string) {
	switch kind {
	case TemplateIncidentReported:
		subject = fmt.Sprintf("[Sentinela] Novo evento adverso - risco %s", p.RiskLevel)
		body = fmt.Sprintf(
			"Um novo evento adverso foi registrado.\n\nInstituição: %s\nSetor: %s\nRisco: %s\nProtocolo: %s\n\nDescrição:\n%s\n",
			p.TenantName, p.Sector, p.RiskLevel, p.IncidentID, p.Description)
	case TemplateExtensionRequest:
		subject = "[Sentinela] Solicitação de prorrogação de prazo"
		body = fmt.Sprintf(
			"O setor responsável solicitou prorrogação do prazo do protocolo %s.\n\nJustificativa:\n%s\n",
			p.IncidentID, p.Justification)
	case TemplateExtensionApproved:
		subject = "[Sentinela] Prorrogação de prazo aprovada"
		body = fmt.Sprintf(
			"A prorrogação do protocolo %s foi aprovada.\nNovo prazo: %s\n",
			p.IncidentID, formatDeadline(p.Deadline))
	case TemplateExtensionRejected:
		subject = "[Sentinela] Prorrogação de prazo negada"
		body = fmt.Sprintf(
			"A prorrogação do protocolo %s foi negada. O prazo original permanece: %s\n",
			p.IncidentID, formatDeadline(p.Deadline))
	case TemplateEscalation:
		subject = fmt.Sprintf("[Sentinela] ESCALONAMENTO - protocolo %s", p.IncidentID)
		body = fmt.Sprintf(
			"O protocolo %s foi escalonado para a alta gestão.\n\nInstituição: %s\nSetor: %s\nRisco: %s\n\nDescrição:\n%s\n",
			p.IncidentID, p.TenantName, p.Sector, p.RiskLevel, p.Description)
	default:
		subject = "[Sentinela] Notificação"
		body = fmt.Sprintf("Protocolo: %s\n", p.IncidentID)
	}
	return subject, strings.TrimSpace(body) + "\n"
}

func formatDeadline(t *time.Time) string {
	if t == nil {
		return "não definido"
	}
	return t.Format("02/01/2006 15:04")
}
