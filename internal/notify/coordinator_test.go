package notify_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"sentinela/internal/incident/models"
	"sentinela/internal/notify"
	"sentinela/internal/notify/mocks"
	tenantmodels "sentinela/internal/tenant/models"
	id "sentinela/pkg/domain"
	dErrors "sentinela/pkg/domain-errors"
	"sentinela/pkg/platform/sentinel"
)

type CoordinatorSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockMailer  *mocks.MockMailer
	mockFinder  *mocks.MockManagerFinder
	coordinator *notify.Coordinator
	ctx         context.Context
	tenant      *tenantmodels.Tenant
	incident    *models.Incident
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockMailer = mocks.NewMockMailer(s.ctrl)
	s.mockFinder = mocks.NewMockManagerFinder(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var err error
	s.coordinator, err = notify.NewCoordinator(s.mockMailer, s.mockFinder,
		notify.WithLogger(logger))
	s.Require().NoError(err)

	s.ctx = context.Background()
	s.tenant = &tenantmodels.Tenant{
		ID:               id.NewTenantID(),
		Name:             "Hospital Santa Clara",
		Slug:             "santa-clara",
		RiskManagerEmail: "risco@santaclara.example",
	}

	incident, err := models.NewIncident(id.NewIncidentID(), s.tenant.ID,
		"Paciente caiu do leito", "QUEDA", "Emergência", time.Now())
	s.Require().NoError(err)
	s.incident = incident
}

func (s *CoordinatorSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *CoordinatorSuite) sectorManager(email string) *models.SectorManager {
	manager, err := models.NewSectorManager(id.NewManagerID(), s.tenant.ID,
		"Gestor", email, []string{s.incident.NotifiedSector},
		models.RoleSectorManager, time.Now())
	s.Require().NoError(err)
	return manager
}

func (s *CoordinatorSuite) TestNewCoordinatorRequiresDeps() {
	_, err := notify.NewCoordinator(nil, s.mockFinder)
	s.Require().Error(err)
	_, err = notify.NewCoordinator(s.mockMailer, nil)
	s.Require().Error(err)
}

func (s *CoordinatorSuite) TestIncidentReportedMailsRiskAndSectorManager() {
	s.mockFinder.EXPECT().
		FindBySector(gomock.Any(), s.tenant.ID, "Emergência").
		Return(s.sectorManager("setor@santaclara.example"), nil)

	s.mockMailer.EXPECT().
		Send(gomock.Any(), []string{"risco@santaclara.example"}, notify.TemplateIncidentReported, gomock.Any()).
		Return(nil)
	s.mockMailer.EXPECT().
		Send(gomock.Any(), []string{"setor@santaclara.example"}, notify.TemplateIncidentReported, gomock.Any()).
		Return(nil)

	s.coordinator.IncidentReported(s.ctx, s.tenant, s.incident)
}

func (s *CoordinatorSuite) TestIncidentReportedNoSectorManagerIsNonFatal() {
	s.mockFinder.EXPECT().
		FindBySector(gomock.Any(), s.tenant.ID, "Emergência").
		Return(nil, sentinel.ErrNotFound)

	s.mockMailer.EXPECT().
		Send(gomock.Any(), []string{"risco@santaclara.example"}, notify.TemplateIncidentReported, gomock.Any()).
		Return(nil)

	s.coordinator.IncidentReported(s.ctx, s.tenant, s.incident)
}

func (s *CoordinatorSuite) TestIncidentReportedDeliveryFailureIsSwallowed() {
	s.mockFinder.EXPECT().
		FindBySector(gomock.Any(), s.tenant.ID, "Emergência").
		Return(nil, sentinel.ErrNotFound)

	s.mockMailer.EXPECT().
		Send(gomock.Any(), gomock.Any(), notify.TemplateIncidentReported, gomock.Any()).
		Return(errors.New("relay down"))

	s.coordinator.IncidentReported(s.ctx, s.tenant, s.incident)
}

func (s *CoordinatorSuite) TestExtensionRequestedCarriesJustification() {
	s.mockMailer.EXPECT().
		Send(gomock.Any(), []string{"risco@santaclara.example"}, notify.TemplateExtensionRequest, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ []string, _ notify.TemplateKind, payload notify.Payload) error {
			s.Equal("aguardando peças do leito", payload.Justification)
			return nil
		})

	s.coordinator.ExtensionRequested(s.ctx, s.tenant, s.incident, "aguardando peças do leito")
}

func (s *CoordinatorSuite) TestExtensionResolvedPicksTemplate() {
	cases := []struct {
		name     string
		approved bool
		want     notify.TemplateKind
	}{
		{"approved", true, notify.TemplateExtensionApproved},
		{"rejected", false, notify.TemplateExtensionRejected},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.mockFinder.EXPECT().
				FindBySector(gomock.Any(), s.tenant.ID, "Emergência").
				Return(s.sectorManager("setor@santaclara.example"), nil)
			s.mockMailer.EXPECT().
				Send(gomock.Any(), []string{"setor@santaclara.example"}, tc.want, gomock.Any()).
				Return(nil)

			s.coordinator.ExtensionResolved(s.ctx, s.tenant, s.incident, tc.approved)
		})
	}
}

func (s *CoordinatorSuite) TestExtensionResolvedNoManagerIsNonFatal() {
	s.mockFinder.EXPECT().
		FindBySector(gomock.Any(), s.tenant.ID, "Emergência").
		Return(nil, sentinel.ErrNotFound)

	s.coordinator.ExtensionResolved(s.ctx, s.tenant, s.incident, true)
}

func (s *CoordinatorSuite) TestEscalatedRequiresHighManagement() {
	s.mockFinder.EXPECT().
		FindByRole(gomock.Any(), s.tenant.ID, models.RoleHighManagement).
		Return(nil, nil)

	err := s.coordinator.Escalated(s.ctx, s.tenant, s.incident)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *CoordinatorSuite) TestEscalatedFansOutToAllContacts() {
	targets := []*models.SectorManager{
		s.highManagement("diretoria@santaclara.example"),
		s.highManagement("qualidade@santaclara.example"),
	}
	s.mockFinder.EXPECT().
		FindByRole(gomock.Any(), s.tenant.ID, models.RoleHighManagement).
		Return(targets, nil)

	var mu sync.Mutex
	delivered := make(map[string]bool)
	s.mockMailer.EXPECT().
		Send(gomock.Any(), gomock.Any(), notify.TemplateEscalation, gomock.Any()).
		Times(2).
		DoAndReturn(func(_ context.Context, to []string, _ notify.TemplateKind, _ notify.Payload) error {
			mu.Lock()
			defer mu.Unlock()
			for _, addr := range to {
				delivered[addr] = true
			}
			return nil
		})

	s.Require().NoError(s.coordinator.Escalated(s.ctx, s.tenant, s.incident))
	s.True(delivered["diretoria@santaclara.example"])
	s.True(delivered["qualidade@santaclara.example"])
}

func (s *CoordinatorSuite) TestEscalatedDeliveryFailureStillSucceeds() {
	s.mockFinder.EXPECT().
		FindByRole(gomock.Any(), s.tenant.ID, models.RoleHighManagement).
		Return([]*models.SectorManager{s.highManagement("diretoria@santaclara.example")}, nil)
	s.mockMailer.EXPECT().
		Send(gomock.Any(), gomock.Any(), notify.TemplateEscalation, gomock.Any()).
		Return(errors.New("relay down"))

	s.Require().NoError(s.coordinator.Escalated(s.ctx, s.tenant, s.incident))
}

func (s *CoordinatorSuite) highManagement(email string) *models.SectorManager {
	manager, err := models.NewSectorManager(id.NewManagerID(), s.tenant.ID,
		"Direção", email, nil, models.RoleHighManagement, time.Now())
	s.Require().NoError(err)
	return manager
}
