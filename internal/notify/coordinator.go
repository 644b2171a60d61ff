package notify

//go:generate mockgen -destination=mocks/mocks.go -package=mocks sentinela/internal/notify Mailer,ManagerFinder

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"sentinela/internal/incident/models"
	tenantmodels "sentinela/internal/tenant/models"
	id "sentinela/pkg/domain"
	dErrors "sentinela/pkg/domain-errors"
	"sentinela/pkg/platform/sentinel"
)

// ManagerFinder resolves notification targets within a tenant.
type ManagerFinder interface {
	FindBySector(ctx context.Context, tenantID id.TenantID, sector string) (*models.SectorManager, error)
	FindByRole(ctx context.Context, tenantID id.TenantID, role models.Role) ([]*models.SectorManager, error)
}

// Coordinator decides who gets mailed on each workflow event.
//
// Every dispatch is best-effort: a missing target degrades to a warning and
// a failed send is logged per recipient. The one exception is escalation,
// which fails loudly when the tenant has no high-management contact at all.
type Coordinator struct {
	mailer   Mailer
	managers ManagerFinder
	logger   *slog.Logger
}

// CoordinatorOption configures optional coordinator dependencies.
type CoordinatorOption func(*Coordinator)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCoordinator constructs a Coordinator. Mailer and finder are required.
func NewCoordinator(mailer Mailer, managers ManagerFinder, opts ...CoordinatorOption) (*Coordinator, error) {
	if mailer == nil {
		return nil, errors.New("notify: mailer is required")
	}
	if managers == nil {
		return nil, errors.New("notify: manager finder is required")
	}
	c := &Coordinator{
		mailer:   mailer,
		managers: managers,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// IncidentReported mails the tenant's risk manager and, when one manages
// the notified sector, the responsible sector manager.
func (c *Coordinator) IncidentReported(ctx context.Context, tenant *tenantmodels.Tenant, incident *models.Incident) {
	payload := incidentPayload(tenant, incident)

	c.deliver(ctx, []string{tenant.RiskManagerEmail}, TemplateIncidentReported, payload)

	manager, err := c.managers.FindBySector(ctx, tenant.ID, incident.NotifiedSector)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			c.logger.WarnContext(ctx, "no sector manager for reported incident",
				"sector", incident.NotifiedSector, "incident_id", incident.ID.String())
			return
		}
		c.logger.ErrorContext(ctx, "sector manager lookup failed",
			"error", err, "incident_id", incident.ID.String())
		return
	}
	c.deliver(ctx, []string{manager.Email}, TemplateIncidentReported, payload)
}

// ExtensionRequested mails the tenant's risk manager, who owns the decision.
func (c *Coordinator) ExtensionRequested(ctx context.Context, tenant *tenantmodels.Tenant, incident *models.Incident, justification string) {
	payload := incidentPayload(tenant, incident)
	payload.Justification = justification
	c.deliver(ctx, []string{tenant.RiskManagerEmail}, TemplateExtensionRequest, payload)
}

// ExtensionResolved mails the sector manager of the incident's sector with
// the decision outcome. No matching manager is a warning, not a failure.
func (c *Coordinator) ExtensionResolved(ctx context.Context, tenant *tenantmodels.Tenant, incident *models.Incident, approved bool) {
	kind := TemplateExtensionRejected
	if approved {
		kind = TemplateExtensionApproved
	}

	manager, err := c.managers.FindBySector(ctx, tenant.ID, incident.NotifiedSector)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			c.logger.WarnContext(ctx, "no sector manager for extension decision",
				"sector", incident.NotifiedSector, "incident_id", incident.ID.String())
			return
		}
		c.logger.ErrorContext(ctx, "sector manager lookup failed",
			"error", err, "incident_id", incident.ID.String())
		return
	}
	c.deliver(ctx, []string{manager.Email}, kind, incidentPayload(tenant, incident))
}

// Escalated fans the escalation out to every high-management contact. A
// tenant with zero such contacts is a hard error so the caller can surface
// that escalation went nowhere.
func (c *Coordinator) Escalated(ctx context.Context, tenant *tenantmodels.Tenant, incident *models.Incident) error {
	targets, err := c.managers.FindByRole(ctx, tenant.ID, models.RoleHighManagement)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "high management lookup failed")
	}
	if len(targets) == 0 {
		return dErrors.New(dErrors.CodeNotFound, "no high management contact registered for tenant")
	}

	payload := incidentPayload(tenant, incident)
	var g errgroup.Group
	for _, target := range targets {
		g.Go(func() error {
			if err := c.mailer.Send(ctx, []string{target.Email}, TemplateEscalation, payload); err != nil {
				c.logger.ErrorContext(ctx, "escalation delivery failed",
					"to", target.Email, "error", err, "incident_id", incident.ID.String())
			}
			return nil
		})
	}
	_ = g.Wait()
	return nil
}

// deliver sends and swallows failure, logging per target.
func (c *Coordinator) deliver(ctx context.Context, to []string, kind TemplateKind, payload Payload) {
	if err := c.mailer.Send(ctx, to, kind, payload); err != nil {
		c.logger.ErrorContext(ctx, "notification delivery failed",
			"to", to, "template", string(kind), "error", err,
			"incident_id", payload.IncidentID)
	}
}

func incidentPayload(tenant *tenantmodels.Tenant, incident *models.Incident) Payload {
	return Payload{
		IncidentID:  incident.ID.String(),
		TenantName:  tenant.Name,
		Sector:      incident.NotifiedSector,
		Description: incident.Description,
		RiskLevel:   string(incident.RiskLevel),
		Deadline:    incident.ActionPlanDeadline,
	}
}
