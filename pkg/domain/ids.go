// Package domain defines the typed identifiers shared across sentinela.
//
// Every aggregate gets its own UUID-backed type so a TenantID can never be
// passed where an IncidentID is expected. Parsing happens once, at trust
// boundaries (HTTP handlers, store row mapping); services only ever see
// already-validated IDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "sentinela/pkg/domain-errors"
)

type (
	// TenantID identifies a hospital/organization account. All data is
	// partitioned by it.
	TenantID uuid.UUID

	// IncidentID identifies an adverse-event incident within a tenant.
	IncidentID uuid.UUID

	// ManagerID identifies a sector manager within a tenant.
	ManagerID uuid.UUID

	// UserID identifies the acting staff member (from the auth layer).
	UserID uuid.UUID
)

func (id TenantID) String() string   { return uuid.UUID(id).String() }
func (id IncidentID) String() string { return uuid.UUID(id).String() }
func (id ManagerID) String() string  { return uuid.UUID(id).String() }
func (id UserID) String() string     { return uuid.UUID(id).String() }

func (id TenantID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id IncidentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ManagerID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// NewTenantID returns a fresh random tenant identifier.
func NewTenantID() TenantID { return TenantID(uuid.New()) }

// NewIncidentID returns a fresh random incident identifier.
func NewIncidentID() IncidentID { return IncidentID(uuid.New()) }

// NewManagerID returns a fresh random manager identifier.
func NewManagerID() ManagerID { return ManagerID(uuid.New()) }

// NewUserID returns a fresh random user identifier.
func NewUserID() UserID { return UserID(uuid.New()) }

func parseUUID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id is not a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return parsed, nil
}

// ParseTenantID validates raw input into a TenantID.
func ParseTenantID(raw string) (TenantID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return TenantID{}, err
	}
	return TenantID(parsed), nil
}

// ParseIncidentID validates raw input into an IncidentID.
func ParseIncidentID(raw string) (IncidentID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return IncidentID{}, err
	}
	return IncidentID(parsed), nil
}

// ParseManagerID validates raw input into a ManagerID.
func ParseManagerID(raw string) (ManagerID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return ManagerID{}, err
	}
	return ManagerID(parsed), nil
}

// ParseUserID validates raw input into a UserID.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return UserID{}, err
	}
	return UserID(parsed), nil
}
