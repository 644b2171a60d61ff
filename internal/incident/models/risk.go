package models

// RiskLevel is the severity classification of a reported incident. The
// values are the pt-BR labels clinical staff see; they double as the wire
// encoding.
type RiskLevel string

const (
	RiskLeve     RiskLevel = "LEVE"
	RiskModerado RiskLevel = "MODERADO"
	RiskGrave    RiskLevel = "GRAVE"

	// RiskNA marks report categories exempt from risk scoring. It is a
	// terminal classification value assigned by the workflow, never produced
	// by the classifier.
	RiskNA RiskLevel = "NA"
)

// ParseRiskLevel normalizes raw classifier or caller output. Unknown values
// degrade to LEVE rather than failing: a misbehaving classifier must not
// block report intake.
func ParseRiskLevel(raw string) RiskLevel {
	switch RiskLevel(raw) {
	case RiskLeve, RiskModerado, RiskGrave, RiskNA:
		return RiskLevel(raw)
	default:
		return RiskLeve
	}
}

// Valid reports whether the value is one of the four known levels.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLeve, RiskModerado, RiskGrave, RiskNA:
		return true
	}
	return false
}

// EventTypeNonConformity is the administrative category reserved for
// non-incident process deviations. Reports in this category skip the
// classifier entirely and are force-set to RiskNA.
const EventTypeNonConformity = "NAO_CONFORMIDADE"
