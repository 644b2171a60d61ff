package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "sentinela/pkg/domain"
)

func TestNewSectorManager_Validation(t *testing.T) {
	now := time.Now()
	tenantID := id.NewTenantID()

	t.Run("valid manager", func(t *testing.T) {
		m, err := NewSectorManager(id.NewManagerID(), tenantID, "Ana Souza", "ana@hospital.example",
			[]string{"Emergência", "UTI"}, RoleSectorManager, now)
		require.NoError(t, err)
		assert.Equal(t, []string{"Emergência", "UTI"}, m.Sectors)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewSectorManager(id.NewManagerID(), tenantID, " ", "a@b.c", nil, RoleRiskManager, now)
		require.Error(t, err)
	})

	t.Run("rejects bad email", func(t *testing.T) {
		_, err := NewSectorManager(id.NewManagerID(), tenantID, "Ana", "not-an-email", nil, RoleRiskManager, now)
		require.Error(t, err)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewSectorManager(id.NewManagerID(), tenantID, "Ana", "a@b.c", nil, Role("JANITOR"), now)
		require.Error(t, err)
	})

	t.Run("dedupes sectors under fold", func(t *testing.T) {
		m, err := NewSectorManager(id.NewManagerID(), tenantID, "Ana", "a@b.c",
			[]string{"Emergência", "emergencia", " ", "UTI"}, RoleSectorManager, now)
		require.NoError(t, err)
		assert.Equal(t, []string{"Emergência", "UTI"}, m.Sectors)
	})
}

func TestManagesSector(t *testing.T) {
	m := &SectorManager{Sectors: []string{"Emergência", "Centro Cirúrgico"}}

	assert.True(t, m.ManagesSector("emergencia"))
	assert.True(t, m.ManagesSector("EMERGÊNCIA"))
	assert.True(t, m.ManagesSector("centro cirurgico"))
	assert.False(t, m.ManagesSector("Pediatria"))
	assert.False(t, (&SectorManager{}).ManagesSector("Emergência"))
}

// Legacy rows stored sectors as a bare string or comma list; decode must
// tolerate every historical shape and always yield the canonical set.
func TestParseSectors_LegacyShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"canonical json array", `["Emergência","UTI"]`, []string{"Emergência", "UTI"}},
		{"empty json array", `[]`, nil},
		{"single bare value", "Emergência", []string{"Emergência"}},
		{"comma list", "Emergência, UTI ,Pediatria", []string{"Emergência", "UTI", "Pediatria"}},
		{"comma list with empties", "UTI,,  ,Pediatria", []string{"UTI", "Pediatria"}},
		{"empty string", "", nil},
		{"malformed json falls back to comma shim", `["UTI"`, []string{`["UTI"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSectors(tt.raw))
		})
	}
}

func TestEncodeSectors_Canonical(t *testing.T) {
	assert.Equal(t, `["Emergência","UTI"]`, EncodeSectors([]string{"Emergência", "emergencia", "UTI"}))
	assert.Equal(t, `[]`, EncodeSectors(nil))

	// Round trip through decode yields the same set.
	assert.Equal(t, []string{"Emergência", "UTI"}, ParseSectors(EncodeSectors([]string{"Emergência", "UTI"})))
}
