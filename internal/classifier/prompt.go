package classifier

import (
	"fmt"
	"strings"

	"sentinela/internal/incident/models"
)

// Prompts instruct the provider to answer with a bare JSON object. Fence
// stripping in decodeJSON covers providers that wrap it anyway.

func classifyPrompt(description string) string {
	var b strings.Builder
	b.WriteString("Você é um classificador de eventos adversos hospitalares. ")
	b.WriteString("Analise o relato abaixo e responda apenas com um objeto JSON ")
	b.WriteString(`no formato {"eventType": string, "riskLevel": "LEVE"|"MODERADO"|"GRAVE", "recommendation": string}.`)
	b.WriteString("\n\nRelato:\n")
	b.WriteString(description)
	return b.String()
}

func rootCausePrompt(description, eventType, investigationNotes string, similar []*models.Incident) string {
	var b strings.Builder
	b.WriteString("Você é um especialista em segurança do paciente conduzindo análise de causa raiz. ")
	b.WriteString("Responda apenas com um objeto JSON no formato ")
	b.WriteString(`{"rootCauseConclusion": string, "suggestedDeadlineDays": number, "ishikawa": {categoria: [causas]}, "fiveWhys": [string], "actionPlan": [string]}.`)
	fmt.Fprintf(&b, "\n\nTipo de evento: %s\nRelato:\n%s\n", eventType, description)
	if investigationNotes != "" {
		b.WriteString("\nNotas da investigação:\n")
		b.WriteString(investigationNotes)
		b.WriteString("\n")
	}
	// Similar incidents may come from other tenants; only the anonymized
	// outcome goes to the provider, never their free text.
	if len(similar) > 0 {
		b.WriteString("\nDesfechos de eventos semelhantes já resolvidos (tipo | risco):\n")
		for _, inc := range similar {
			fmt.Fprintf(&b, "- %s | %s\n", inc.AIEventType, inc.RiskLevel)
		}
	}
	return b.String()
}

func chatPrompt(message, chatContext string) string {
	if chatContext == "" {
		return message
	}
	return fmt.Sprintf("Contexto:\n%s\n\nPergunta:\n%s", chatContext, message)
}
