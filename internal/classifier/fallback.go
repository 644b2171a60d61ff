package classifier

import (
	"sentinela/internal/incident/models"
	"sentinela/pkg/platform/text"
)

// The offline fallback does no language understanding. It is a
// case-insensitive, accent-insensitive substring scan over a small fixed
// keyword table, returning pre-written templates. It must never fail and
// always yields complete structured output.

type keywordClass string

const (
	classFall       keywordClass = "fall"
	classMedication keywordClass = "medication"
	classGeneric    keywordClass = "generic"
)

// Keywords are matched against the folded description, so "Queda", "QUEDA"
// and "queda" all hit.
var keywordTable = []struct {
	class    keywordClass
	keywords []string
}{
	{classFall, []string{"queda", "caiu", "fall", "fell"}},
	{classMedication, []string{"medicacao", "medicamento", "medication", "dose errada", "dose incorreta"}},
}

func classify(description string) keywordClass {
	folded := text.Fold(description)
	for _, row := range keywordTable {
		for _, kw := range row.keywords {
			if text.ContainsFold(folded, kw) {
				return row.class
			}
		}
	}
	return classGeneric
}

// offlineClassification returns the deterministic classification template
// for a description.
func offlineClassification(description string) Classification {
	switch classify(description) {
	case classFall:
		return Classification{
			EventType:      "QUEDA",
			RiskLevel:      models.RiskModerado,
			Recommendation: "Possível queda de paciente. Avaliar lesões, revisar grades do leito e protocolo de prevenção de quedas do setor.",
		}
	case classMedication:
		return Classification{
			EventType:      "ERRO_MEDICACAO",
			RiskLevel:      models.RiskGrave,
			Recommendation: "Possível erro de medicação. Verificar prescrição, dupla checagem de dose e notificar farmácia clínica imediatamente.",
		}
	default:
		// Middle of the scale: an unrecognized event during provider
		// downtime must not silently land in the lowest-urgency queue.
		return Classification{
			EventType:      "OUTRO",
			RiskLevel:      models.RiskModerado,
			Recommendation: "Evento não reconhecido automaticamente. Investigar o relato com o gestor do setor e classificar manualmente.",
		}
	}
}

// offlineRootCause returns the deterministic root-cause template keyed by
// the same keyword scan.
func offlineRootCause(description string) RootCauseAnalysis {
	switch classify(description) {
	case classFall:
		return RootCauseAnalysis{
			RootCauseConclusion:   "Queda de paciente provavelmente associada a falha nas barreiras de prevenção (grades, acompanhamento, sinalização de risco).",
			SuggestedDeadlineDays: 3,
			Ishikawa: map[string][]string{
				"Método":       {"Protocolo de prevenção de quedas não seguido"},
				"Mão de obra":  {"Equipe sem reforço no período noturno"},
				"Máquina":      {"Grade do leito com trava defeituosa"},
				"Meio":         {"Piso escorregadio ou iluminação insuficiente"},
				"Material":     {"Ausência de pulseira de risco de queda"},
				"Mensuração":   {"Escala de Morse desatualizada"},
			},
			FiveWhys: []string{
				"Por que o paciente caiu? Estava sem supervisão ao sair do leito.",
				"Por que estava sem supervisão? A equipe estava em troca de plantão.",
				"Por que a troca deixou o setor descoberto? Não há rotina de passagem à beira-leito.",
				"Por que não há essa rotina? O protocolo de quedas não a exige.",
				"Por que o protocolo não exige? Não foi revisado após os últimos eventos.",
			},
			ActionPlan: []string{
				"Reavaliar escala de risco de queda de todos os pacientes do setor",
				"Checar travas e grades de todos os leitos",
				"Instituir passagem de plantão à beira-leito",
			},
		}
	case classMedication:
		return RootCauseAnalysis{
			RootCauseConclusion:   "Erro de medicação provavelmente associado a falha na checagem de prescrição ou na identificação do paciente.",
			SuggestedDeadlineDays: 1,
			Ishikawa: map[string][]string{
				"Método":      {"Dupla checagem não realizada"},
				"Mão de obra": {"Sobrecarga da equipe de enfermagem"},
				"Material":    {"Rótulos de medicamentos semelhantes"},
				"Meio":        {"Interrupções frequentes durante o preparo"},
			},
			FiveWhys: []string{
				"Por que a dose errada foi administrada? O rótulo foi lido incorretamente.",
				"Por que foi lido incorretamente? Os frascos são visualmente semelhantes.",
				"Por que frascos semelhantes ficam juntos? O armazenamento não segue separação por risco.",
				"Por que não segue? A farmácia não padronizou o armário do setor.",
				"Por que não padronizou? Não havia registro de eventos anteriores no setor.",
			},
			ActionPlan: []string{
				"Notificar farmácia clínica e revisar prescrição do paciente",
				"Separar medicamentos de alta vigilância no armário do setor",
				"Reforçar dupla checagem com registro assinado",
			},
		}
	default:
		return RootCauseAnalysis{
			RootCauseConclusion:   "Causa raiz não determinada automaticamente. Conduzir investigação presencial com os envolvidos.",
			SuggestedDeadlineDays: 5,
			Ishikawa: map[string][]string{
				"Método":      {"A investigar"},
				"Mão de obra": {"A investigar"},
				"Meio":        {"A investigar"},
			},
			FiveWhys: []string{
				"Por que o evento ocorreu? A investigar com a equipe do setor.",
			},
			ActionPlan: []string{
				"Entrevistar os profissionais envolvidos",
				"Levantar linha do tempo do evento",
				"Definir plano de ação com o gestor do setor",
			},
		}
	}
}

// chatUnavailableReply is returned by Chat when every attempt fails. Fixed
// string, never an error.
const chatUnavailableReply = "Desculpe, não consegui processar sua pergunta agora. Tente novamente em alguns instantes."
