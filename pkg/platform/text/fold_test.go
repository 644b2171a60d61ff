package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Emergência", "emergencia"},
		{"UTI NEONATAL", "uti neonatal"},
		{"  Farmácia  ", "farmacia"},
		{"Centro Cirúrgico", "centro cirurgico"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.input), "Fold(%q)", tt.input)
	}
}

func TestEqualFold(t *testing.T) {
	assert.True(t, EqualFold("Emergência", "emergencia"))
	assert.True(t, EqualFold("PEDIATRIA", "Pediatria"))
	assert.False(t, EqualFold("UTI", "CTI"))
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Paciente sofreu QUEDA do leito", "queda"))
	assert.True(t, ContainsFold("erro de medicação na enfermaria", "medicacao"))
	assert.False(t, ContainsFold("paciente estável", "queda"))
}
