package service

import (
	"context"
	"errors"

	"sentinela/internal/incident/models"
	id "sentinela/pkg/domain"
	dErrors "sentinela/pkg/domain-errors"
	"sentinela/pkg/platform/audit"
	"sentinela/pkg/platform/sentinel"
	"sentinela/pkg/requestcontext"
)

// ManagerInput carries the admin payload for creating or updating a
// sector manager.
type ManagerInput struct {
	Name    string
	Email   string
	Sectors []string
	Role    models.Role
}

// CreateManager registers a notification target in the caller's tenant.
func (s *Service) CreateManager(ctx context.Context, in ManagerInput) (*models.SectorManager, error) {
	tenant, err := s.tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	manager, err := models.NewSectorManager(id.NewManagerID(), tenant.ID,
		in.Name, in.Email, in.Sectors, in.Role, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	if err := s.managers.Create(ctx, manager); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist manager")
	}
	s.logAudit(ctx, tenant.ID, audit.ActionManagerCreated, "manager", manager.ID.String(), map[string]string{
		"role": string(manager.Role),
	})
	return manager, nil
}

// UpdateManager replaces a manager's contact data and sector set.
func (s *Service) UpdateManager(ctx context.Context, managerID id.ManagerID, in ManagerInput) (*models.SectorManager, error) {
	tenant, err := s.tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	current, err := s.managers.FindByID(ctx, managerID, tenant.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "manager not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load manager")
	}

	// Re-run construction validation, keeping identity and creation time.
	updated, err := models.NewSectorManager(current.ID, tenant.ID,
		in.Name, in.Email, in.Sectors, in.Role, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	updated.CreatedAt = current.CreatedAt

	if err := s.managers.Update(ctx, updated); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist manager")
	}
	s.logAudit(ctx, tenant.ID, audit.ActionManagerUpdated, "manager", updated.ID.String(), nil)
	return updated, nil
}

// DeleteManager removes a notification target.
func (s *Service) DeleteManager(ctx context.Context, managerID id.ManagerID) error {
	tenant, err := s.tenantFromContext(ctx)
	if err != nil {
		return err
	}
	if err := s.managers.Delete(ctx, managerID, tenant.ID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "manager not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete manager")
	}
	s.logAudit(ctx, tenant.ID, audit.ActionManagerDeleted, "manager", managerID.String(), nil)
	return nil
}

// ListManagers returns the tenant's managers name-ascending.
func (s *Service) ListManagers(ctx context.Context) ([]*models.SectorManager, error) {
	tenant, err := s.tenantFromContext(ctx)
	if err != nil {
		return nil, err
	}
	managers, err := s.managers.FindAll(ctx, tenant.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list managers")
	}
	return managers, nil
}
