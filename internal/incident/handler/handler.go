// Package handler is the thin HTTP layer over the incident workflow
// service. Handlers decode, validate, delegate and translate domain errors;
// business rules stay in the service and models.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sentinela/internal/classifier"
	"sentinela/internal/incident/models"
	"sentinela/internal/incident/service"
	id "sentinela/pkg/domain"
	dErrors "sentinela/pkg/domain-errors"
	"sentinela/pkg/platform/httputil"
	"sentinela/pkg/requestcontext"
)

// Service defines the workflow operations the HTTP layer depends on.
type Service interface {
	Report(ctx context.Context, in service.ReportInput) (*models.Incident, error)
	Get(ctx context.Context, incidentID id.IncidentID) (*models.Incident, error)
	List(ctx context.Context) ([]*models.Incident, error)
	FindOverdue(ctx context.Context) ([]*models.Incident, error)
	StartActionPlan(ctx context.Context, incidentID id.IncidentID, explicitDeadline *time.Time) (*models.Incident, error)
	RequestExtension(ctx context.Context, incidentID id.IncidentID, justification string) (*models.Incident, error)
	ApproveExtension(ctx context.Context, incidentID id.IncidentID, newDeadline *time.Time) (*models.Incident, error)
	RejectExtension(ctx context.Context, incidentID id.IncidentID) (*models.Incident, error)
	Update(ctx context.Context, incidentID id.IncidentID, in service.UpdateInput) (*models.Incident, error)
	Reanalyze(ctx context.Context, incidentID id.IncidentID) (*models.Incident, error)
	Escalate(ctx context.Context, incidentID id.IncidentID) error
	RootCauseAnalysis(ctx context.Context, incidentID id.IncidentID, investigationNotes string) (classifier.RootCauseAnalysis, error)
	Chat(ctx context.Context, message, chatContext string) string
	CreateManager(ctx context.Context, in service.ManagerInput) (*models.SectorManager, error)
	UpdateManager(ctx context.Context, managerID id.ManagerID, in service.ManagerInput) (*models.SectorManager, error)
	DeleteManager(ctx context.Context, managerID id.ManagerID) error
	ListManagers(ctx context.Context) ([]*models.SectorManager, error)
}

// TraceSource exposes the classifier's diagnostic ring buffer.
type TraceSource interface {
	TraceSnapshot() []classifier.TraceEntry
}

// Handler wires incident endpoints to the workflow service.
type Handler struct {
	service Service
	trace   TraceSource
	logger  *slog.Logger
}

// New constructs the incident handler.
func New(service Service, trace TraceSource, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, trace: trace, logger: logger}
}

// RegisterPublic mounts the unauthenticated intake endpoint.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/report", h.HandleReport)
}

// Register mounts the authenticated workflow endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Route("/incidents", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/overdue", h.HandleOverdue)
		r.Route("/{incidentID}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Patch("/", h.HandleUpdate)
			r.Post("/action-plan", h.HandleStartActionPlan)
			r.Post("/extension", h.HandleRequestExtension)
			r.Post("/extension/approve", h.HandleApproveExtension)
			r.Post("/extension/reject", h.HandleRejectExtension)
			r.Post("/reanalyze", h.HandleReanalyze)
			r.Post("/escalate", h.HandleEscalate)
			r.Post("/root-cause-analysis", h.HandleRootCauseAnalysis)
		})
	})
	r.Post("/chat", h.HandleChat)
	r.Route("/managers", func(r chi.Router) {
		r.Get("/", h.HandleListManagers)
		r.Post("/", h.HandleCreateManager)
		r.Put("/{managerID}", h.HandleUpdateManager)
		r.Delete("/{managerID}", h.HandleDeleteManager)
	})
}

// RegisterAdmin mounts the diagnostics endpoints.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/classifier/trace", h.HandleClassifierTrace)
}

func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ReportRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	incident, err := h.service.Report(ctx, service.ReportInput{
		TenantSlug:  req.TenantSlug,
		Description: req.Description,
		EventType:   req.EventType,
		Sector:      req.Sector,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromIncident(incident))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromIncidents(incidents))
}

func (h *Handler) HandleOverdue(w http.ResponseWriter, r *http.Request) {
	incidents, err := h.service.FindOverdue(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromIncidents(incidents))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	incidentID, ok := h.incidentID(w, r)
	if !ok {
		return
	}
	incident, err := h.service.Get(r.Context(), incidentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromIncident(incident))
}

func (h *Handler) HandleStartActionPlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	incidentID, ok := h.incidentID(w, r)
	if !ok {
		return
	}
	req := &StartActionPlanRequest{}
	if r.ContentLength > 0 {
		req, ok = httputil.DecodeAndPrepare[StartActionPlanRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
		if !ok {
			return
		}
	}

	incident, err := h.service.StartActionPlan(ctx, incidentID, req.Deadline)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromIncident(incident))
}

func (h *Handler) HandleRequestExtension(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	incidentID, ok := h.incidentID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ExtensionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	incident, err := h.service.RequestExtension(ctx, incidentID, req.Justification)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromIncident(incident))
}

func (h *Handler) HandleApproveExtension(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	incidentID, ok := h.incidentID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ApproveExtensionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	incident, err := h.service.ApproveExtension(ctx, incidentID, req.NewDeadline)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromIncident(incident))
}

func (h *Handler) HandleRejectExtension(w http.ResponseWriter, r *http.Request) {
	incidentID, ok := h.incidentID(w, r)
	if !ok {
		return
	}
	incident, err := h.service.RejectExtension(r.Context(), incidentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromIncident(incident))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	incidentID, ok := h.incidentID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateIncidentRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	incident, err := h.service.Update(ctx, incidentID, service.UpdateInput{
		RootCause:  req.RootCause,
		ActionPlan: req.ActionPlan,
		RiskLevel:  req.ParsedRisk(),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromIncident(incident))
}

func (h *Handler) HandleReanalyze(w http.ResponseWriter, r *http.Request) {
	incidentID, ok := h.incidentID(w, r)
	if !ok {
		return
	}
	incident, err := h.service.Reanalyze(r.Context(), incidentID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromIncident(incident))
}

func (h *Handler) HandleEscalate(w http.ResponseWriter, r *http.Request) {
	incidentID, ok := h.incidentID(w, r)
	if !ok {
		return
	}
	if err := h.service.Escalate(r.Context(), incidentID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "escalated"})
}

func (h *Handler) HandleRootCauseAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	incidentID, ok := h.incidentID(w, r)
	if !ok {
		return
	}
	req := &RootCauseRequest{}
	if r.ContentLength > 0 {
		req, ok = httputil.DecodeAndPrepare[RootCauseRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
		if !ok {
			return
		}
	}

	analysis, err := h.service.RootCauseAnalysis(ctx, incidentID, req.InvestigationNotes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, analysis)
}

func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ChatRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	reply := h.service.Chat(ctx, req.Message, req.Context)
	httputil.WriteJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

func (h *Handler) HandleCreateManager(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ManagerRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	manager, err := h.service.CreateManager(ctx, service.ManagerInput{
		Name:    req.Name,
		Email:   req.Email,
		Sectors: req.Sectors,
		Role:    req.ParsedRole(),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromManager(manager))
}

func (h *Handler) HandleUpdateManager(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	managerID, ok := h.managerID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ManagerRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	manager, err := h.service.UpdateManager(ctx, managerID, service.ManagerInput{
		Name:    req.Name,
		Email:   req.Email,
		Sectors: req.Sectors,
		Role:    req.ParsedRole(),
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromManager(manager))
}

func (h *Handler) HandleDeleteManager(w http.ResponseWriter, r *http.Request) {
	managerID, ok := h.managerID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteManager(r.Context(), managerID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListManagers(w http.ResponseWriter, r *http.Request) {
	managers, err := h.service.ListManagers(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromManagers(managers))
}

// HandleClassifierTrace dumps the gateway's diagnostic ring buffer.
func (h *Handler) HandleClassifierTrace(w http.ResponseWriter, r *http.Request) {
	if h.trace == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "classifier trace not configured"))
		return
	}
	snapshot := h.trace.TraceSnapshot()
	if snapshot == nil {
		snapshot = []classifier.TraceEntry{}
	}
	httputil.WriteJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) incidentID(w http.ResponseWriter, r *http.Request) (id.IncidentID, bool) {
	incidentID, err := id.ParseIncidentID(chi.URLParam(r, "incidentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.IncidentID{}, false
	}
	return incidentID, true
}

func (h *Handler) managerID(w http.ResponseWriter, r *http.Request) (id.ManagerID, bool) {
	managerID, err := id.ParseManagerID(chi.URLParam(r, "managerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.ManagerID{}, false
	}
	return managerID, true
}
