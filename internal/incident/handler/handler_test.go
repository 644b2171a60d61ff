package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"sentinela/internal/classifier"
	"sentinela/internal/incident/handler"
	"sentinela/internal/incident/models"
	"sentinela/internal/incident/service"
	incidentstore "sentinela/internal/incident/store/incident"
	managerstore "sentinela/internal/incident/store/manager"
	tenantmodels "sentinela/internal/tenant/models"
	tenantstore "sentinela/internal/tenant/store"
	id "sentinela/pkg/domain"
	"sentinela/pkg/testutil"
)

type stubClassifier struct{}

func (stubClassifier) Classify(context.Context, string) (classifier.Classification, error) {
	return classifier.Classification{
		EventType:      "QUEDA",
		RiskLevel:      models.RiskModerado,
		Recommendation: "Avaliar protocolo.",
	}, nil
}

func (stubClassifier) GenerateRootCauseAnalysis(context.Context, string, string, string) (classifier.RootCauseAnalysis, error) {
	return classifier.RootCauseAnalysis{RootCauseConclusion: "conclusão"}, nil
}

func (stubClassifier) Chat(context.Context, string, string) string { return "resposta" }

type stubNotifier struct{}

func (stubNotifier) IncidentReported(context.Context, *tenantmodels.Tenant, *models.Incident) {}
func (stubNotifier) ExtensionRequested(context.Context, *tenantmodels.Tenant, *models.Incident, string) {
}
func (stubNotifier) ExtensionResolved(context.Context, *tenantmodels.Tenant, *models.Incident, bool) {
}
func (stubNotifier) Escalated(context.Context, *tenantmodels.Tenant, *models.Incident) error {
	return nil
}

type stubTrace struct{}

func (stubTrace) TraceSnapshot() []classifier.TraceEntry {
	return []classifier.TraceEntry{{Op: "classify", Outcome: classifier.TraceSuccess}}
}

type HandlerSuite struct {
	suite.Suite
	router http.Handler
	tenant *tenantmodels.Tenant
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	tenants := tenantstore.NewInMemory()
	tenant, err := tenantmodels.NewTenant(id.NewTenantID(), "Hospital Santa Clara",
		"santa-clara", "risco@santaclara.example", now)
	s.Require().NoError(err)
	s.Require().NoError(tenants.Create(context.Background(), tenant))
	s.tenant = tenant

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := service.New(incidentstore.NewInMemory(), managerstore.NewInMemory(),
		tenants, stubClassifier{}, stubNotifier{}, service.WithLogger(logger))
	s.Require().NoError(err)

	h := handler.New(svc, stubTrace{}, logger)
	r := chi.NewRouter()
	h.RegisterPublic(r)
	h.Register(r)
	r.Route("/admin", h.RegisterAdmin)
	s.router = r
}

func (s *HandlerSuite) report() *handler.IncidentResponse {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/report", map[string]any{
		"tenant_slug": "santa-clara",
		"description": "Paciente caiu do leito",
		"event_type":  "QUEDA",
		"sector":      "Emergência",
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	return testutil.UnmarshalResponse[handler.IncidentResponse](s.T(), rr)
}

func (s *HandlerSuite) authed(req *http.Request) *http.Request {
	return testutil.WithAuth(req, s.tenant.ID, id.NewUserID(), "GESTOR_RISCO")
}

func (s *HandlerSuite) TestReportCreatesIncident() {
	resp := s.report()
	s.Equal("OPEN", resp.Status)
	s.Equal("MODERADO", resp.RiskLevel)
	s.Equal("QUEDA", resp.AIEventType)
}

func (s *HandlerSuite) TestReportUnknownSlugIsValidationError() {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/report", map[string]any{
		"tenant_slug": "nao-existe",
		"description": "Paciente caiu",
		"event_type":  "QUEDA",
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")
}

func (s *HandlerSuite) TestReportMalformedJSON() {
	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/report", "{not json")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")
}

func (s *HandlerSuite) TestGetRejectsMalformedID() {
	req := s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/incidents/not-a-uuid"))
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
}

func (s *HandlerSuite) TestGetUnknownIncidentIs404() {
	req := s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/incidents/"+id.NewIncidentID().String()))
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}

func (s *HandlerSuite) TestWorkflowOverHTTP() {
	created := s.report()

	// Start the action plan; MODERADO gets a three-day deadline.
	req := s.authed(testutil.NewRequest(s.T(), http.MethodPost, "/incidents/"+created.ID+"/action-plan"))
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	started := testutil.UnmarshalResponse[handler.IncidentResponse](s.T(), rr)
	s.Equal("IN_PROGRESS", started.Status)
	s.Require().NotNil(started.ActionPlanDeadline)

	// Extension without justification is rejected.
	req = s.authed(testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/incidents/"+created.ID+"/extension", map[string]any{"justification": " "}))
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")

	req = s.authed(testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/incidents/"+created.ID+"/extension", map[string]any{"justification": "aguardando laudo"}))
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	// Approval without the new deadline is rejected.
	req = s.authed(testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/incidents/"+created.ID+"/extension/approve", map[string]any{}))
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")

	req = s.authed(testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/incidents/"+created.ID+"/extension/approve",
		map[string]any{"new_deadline": "2026-02-20T12:00:00Z"}))
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	// Close via patch.
	req = s.authed(testutil.NewJSONRequest(s.T(), http.MethodPatch,
		"/incidents/"+created.ID, map[string]any{
			"root_cause":  "Grade do leito abaixada",
			"action_plan": "Revisar checklist noturno",
		}))
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	closed := testutil.UnmarshalResponse[handler.IncidentResponse](s.T(), rr)
	s.Equal("CLOSED", closed.Status)

	// Closed incidents are frozen.
	req = s.authed(testutil.NewJSONRequest(s.T(), http.MethodPatch,
		"/incidents/"+created.ID, map[string]any{"root_cause": "outra"}))
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnprocessableEntity, "invariant_violation")
}

func (s *HandlerSuite) TestUpdateRequiresAtLeastOneField() {
	created := s.report()
	req := s.authed(testutil.NewJSONRequest(s.T(), http.MethodPatch,
		"/incidents/"+created.ID, map[string]any{}))
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")
}

func (s *HandlerSuite) TestChat() {
	req := s.authed(testutil.NewJSONRequest(s.T(), http.MethodPost, "/chat",
		map[string]any{"message": "como investigar uma queda?"}))
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[handler.ChatResponse](s.T(), rr)
	s.Equal("resposta", resp.Reply)
}

func (s *HandlerSuite) TestManagersCRUD() {
	req := s.authed(testutil.NewJSONRequest(s.T(), http.MethodPost, "/managers", map[string]any{
		"name":    "Gestora UTI",
		"email":   "uti@santaclara.example",
		"sectors": []string{"UTI"},
		"role":    "SECTOR_MANAGER",
	}))
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[handler.ManagerResponse](s.T(), rr)

	req = s.authed(testutil.NewRequest(s.T(), http.MethodGet, "/managers"))
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	req = s.authed(testutil.NewRequest(s.T(), http.MethodDelete, "/managers/"+created.ID))
	rr = testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
}

func (s *HandlerSuite) TestManagerUnknownRoleRejected() {
	req := s.authed(testutil.NewJSONRequest(s.T(), http.MethodPost, "/managers", map[string]any{
		"name":  "Gestora",
		"email": "g@santaclara.example",
		"role":  "CHEFE",
	}))
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation")
}

func (s *HandlerSuite) TestClassifierTraceEndpoint() {
	req := testutil.NewRequest(s.T(), http.MethodGet, "/admin/classifier/trace")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	entries := testutil.UnmarshalResponse[[]classifier.TraceEntry](s.T(), rr)
	require.Len(s.T(), *entries, 1)
}
