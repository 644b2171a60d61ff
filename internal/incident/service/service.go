// Package service orchestrates the adverse-event workflow: intake,
// classification, SLA tracking, extension decisions, closure and
// escalation. Transition rules live on the models; this layer wires stores,
// the classification gateway, notifications and audit together.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	oteltrace "go.opentelemetry.io/otel/trace"

	"sentinela/internal/classifier"
	"sentinela/internal/incident/metrics"
	"sentinela/internal/incident/models"
	tenantmodels "sentinela/internal/tenant/models"
	id "sentinela/pkg/domain"
	dErrors "sentinela/pkg/domain-errors"
	"sentinela/pkg/platform/audit"
	"sentinela/pkg/platform/sentinel"
	"sentinela/pkg/requestcontext"
)

type IncidentStore interface {
	Create(ctx context.Context, incident *models.Incident) error
	FindByID(ctx context.Context, incidentID id.IncidentID, tenantID id.TenantID) (*models.Incident, error)
	Update(ctx context.Context, incident *models.Incident) error
	FindAll(ctx context.Context, tenantID id.TenantID) ([]*models.Incident, error)
	FindOverdue(ctx context.Context, tenantID id.TenantID, now time.Time) ([]*models.Incident, error)
}

type ManagerStore interface {
	Create(ctx context.Context, manager *models.SectorManager) error
	FindByID(ctx context.Context, managerID id.ManagerID, tenantID id.TenantID) (*models.SectorManager, error)
	Update(ctx context.Context, manager *models.SectorManager) error
	Delete(ctx context.Context, managerID id.ManagerID, tenantID id.TenantID) error
	FindAll(ctx context.Context, tenantID id.TenantID) ([]*models.SectorManager, error)
}

type TenantStore interface {
	FindByID(ctx context.Context, tenantID id.TenantID) (*tenantmodels.Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*tenantmodels.Tenant, error)
}

// Classifier is the AI gateway surface the workflow depends on. All methods
// absorb provider failure, so the workflow never blocks on them.
type Classifier interface {
	Classify(ctx context.Context, description string) (classifier.Classification, error)
	GenerateRootCauseAnalysis(ctx context.Context, description, eventType, investigationNotes string) (classifier.RootCauseAnalysis, error)
	Chat(ctx context.Context, message, chatContext string) string
}

// Notifier dispatches workflow e-mails. Only escalation may fail.
type Notifier interface {
	IncidentReported(ctx context.Context, tenant *tenantmodels.Tenant, incident *models.Incident)
	ExtensionRequested(ctx context.Context, tenant *tenantmodels.Tenant, incident *models.Incident, justification string)
	ExtensionResolved(ctx context.Context, tenant *tenantmodels.Tenant, incident *models.Incident, approved bool)
	Escalated(ctx context.Context, tenant *tenantmodels.Tenant, incident *models.Incident) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, entry audit.Entry) error
}

// Service is the incident workflow façade used by the HTTP layer.
type Service struct {
	incidents  IncidentStore
	managers   ManagerStore
	tenants    TenantStore
	classifier Classifier
	notifier   Notifier

	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         oteltrace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs the workflow service. Stores, classifier and notifier are
// required; audit and metrics are optional.
func New(incidents IncidentStore, managers ManagerStore, tenants TenantStore, cls Classifier, notifier Notifier, opts ...Option) (*Service, error) {
	if incidents == nil || managers == nil || tenants == nil {
		return nil, errors.New("service: all stores are required")
	}
	if cls == nil {
		return nil, errors.New("service: classifier is required")
	}
	if notifier == nil {
		return nil, errors.New("service: notifier is required")
	}
	s := &Service{
		incidents:  incidents,
		managers:   managers,
		tenants:    tenants,
		classifier: cls,
		notifier:   notifier,
		logger:     slog.Default(),
		tracer:     otel.Tracer("sentinela/incident"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// tenantFromContext loads the caller's tenant. Authenticated routes always
// carry a tenant id; a missing one is an auth wiring bug, not user error.
func (s *Service) tenantFromContext(ctx context.Context) (*tenantmodels.Tenant, error) {
	tenantID := requestcontext.TenantID(ctx)
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeForbidden, "missing tenant scope")
	}
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "tenant not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant")
	}
	return tenant, nil
}

// loadIncident fetches a tenant-scoped incident, translating store errors.
func (s *Service) loadIncident(ctx context.Context, incidentID id.IncidentID, tenantID id.TenantID) (*models.Incident, error) {
	incident, err := s.incidents.FindByID(ctx, incidentID, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "incident not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load incident")
	}
	return incident, nil
}

// saveIncident persists a mutation, translating the CAS conflict.
func (s *Service) saveIncident(ctx context.Context, incident *models.Incident) error {
	if err := s.incidents.Update(ctx, incident); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			return dErrors.New(dErrors.CodeConflict, "incident was modified concurrently, reload and retry")
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.New(dErrors.CodeNotFound, "incident not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist incident")
	}
	return nil
}

// logAudit records a workflow event. Failures are logged and swallowed so
// audit never aborts the audited operation.
func (s *Service) logAudit(ctx context.Context, tenantID id.TenantID, action audit.Action, resource, resourceID string, details map[string]string) {
	if details == nil {
		details = map[string]string{}
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		details["request_id"] = requestID
	}
	if ua := requestcontext.UserAgent(ctx); ua != "" {
		details["user_agent"] = ua
	}
	entry := audit.Entry{
		Action:      action,
		Resource:    resource,
		ResourceID:  resourceID,
		ActorUserID: requestcontext.UserID(ctx),
		TenantID:    tenantID,
		IPAddress:   requestcontext.ClientIP(ctx),
		Details:     details,
		Timestamp:   requestcontext.Now(ctx),
	}
	s.logger.InfoContext(ctx, string(action),
		"resource", resource, "resource_id", resourceID,
		"tenant_id", tenantID.String(), "log_type", "audit")
	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed", "action", string(action), "error", err)
	}
}
