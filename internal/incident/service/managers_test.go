package service

import (
	"sentinela/internal/incident/models"
	id "sentinela/pkg/domain"
	dErrors "sentinela/pkg/domain-errors"
)

func (s *WorkflowSuite) TestCreateManagerValidation() {
	_, err := s.service.CreateManager(s.ctx, ManagerInput{
		Name:  "",
		Email: "gestor@santaclara.example",
		Role:  models.RoleSectorManager,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.CreateManager(s.ctx, ManagerInput{
		Name:  "Gestora",
		Email: "sem-arroba",
		Role:  models.RoleSectorManager,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *WorkflowSuite) TestManagerLifecycle() {
	created, err := s.service.CreateManager(s.ctx, ManagerInput{
		Name:    "Gestora UTI",
		Email:   "uti@santaclara.example",
		Sectors: []string{"UTI", " uti "},
		Role:    models.RoleSectorManager,
	})
	s.Require().NoError(err)
	s.Equal([]string{"UTI"}, created.Sectors)

	updated, err := s.service.UpdateManager(s.ctx, created.ID, ManagerInput{
		Name:    "Gestora UTI",
		Email:   "uti@santaclara.example",
		Sectors: []string{"UTI", "Pediatria"},
		Role:    models.RoleSectorManager,
	})
	s.Require().NoError(err)
	s.Equal([]string{"UTI", "Pediatria"}, updated.Sectors)
	s.Equal(created.CreatedAt, updated.CreatedAt)

	listed, err := s.service.ListManagers(s.ctx)
	s.Require().NoError(err)
	s.Len(listed, 1)

	s.Require().NoError(s.service.DeleteManager(s.ctx, created.ID))
	listed, err = s.service.ListManagers(s.ctx)
	s.Require().NoError(err)
	s.Empty(listed)
}

func (s *WorkflowSuite) TestDeleteUnknownManagerIsNotFound() {
	err := s.service.DeleteManager(s.ctx, id.NewManagerID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
