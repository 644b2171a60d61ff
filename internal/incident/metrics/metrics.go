package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the incident workflow.
type Metrics struct {
	Reported    *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Escalations prometheus.Counter
	ClosedLate  prometheus.Counter
}

// New creates and registers all incident workflow metrics.
func New() *Metrics {
	return &Metrics{
		Reported: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinela_incidents_reported_total",
			Help: "Reported incidents by assigned risk level",
		}, []string{"risk_level"}),
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinela_incident_transitions_total",
			Help: "Status transitions by target status",
		}, []string{"to"}),
		Escalations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sentinela_incident_escalations_total",
			Help: "Incidents escalated to high management",
		}),
		ClosedLate: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sentinela_incidents_closed_late_total",
			Help: "Incidents closed after their action plan deadline",
		}),
	}
}

func (m *Metrics) RecordReported(riskLevel string) {
	if m == nil {
		return
	}
	m.Reported.WithLabelValues(riskLevel).Inc()
}

func (m *Metrics) RecordTransition(to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(to).Inc()
}

func (m *Metrics) RecordEscalation() {
	if m == nil {
		return
	}
	m.Escalations.Inc()
}

func (m *Metrics) RecordClosedLate() {
	if m == nil {
		return
	}
	m.ClosedLate.Inc()
}
