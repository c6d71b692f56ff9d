package reformulator

import (
	"fmt"
	"strings"

	"github.com/prospectscan/prospectscan/internal/model"
)

// audienceInstructions sets the register per audience. The model only ever
// rephrases fields that are already in the record; it is explicitly told not
// to add findings of its own.
var audienceInstructions = map[Audience]string{
	AudienceExecutive: "Redacta un resumen ejecutivo de máximo tres párrafos, sin jerga técnica, " +
		"orientado a decisión de negocio y riesgo.",
	AudienceSales: "Redacta un guion breve de llamada comercial: apertura, dos argumentos basados " +
		"en los talking points, y un cierre con siguiente paso concreto.",
	AudienceTechnical: "Redacta un resumen técnico conciso para un responsable de TI, " +
		"mencionando los hallazgos y su urgencia, sin inventar detalle que no esté en los datos.",
}

// BuildPrompt renders the deterministic prompt for one record and audience.
// Exported so tests can verify the prompt carries only record data.
func BuildPrompt(res model.CrossReferenceResult, aud Audience) (string, error) {
	instr, ok := audienceInstructions[aud]
	if !ok {
		return "", fmt.Errorf("reformulator: unknown audience %q", aud)
	}

	var b strings.Builder
	b.WriteString("Eres un asistente que reformula registros de decisión comercial de ciberseguridad.\n")
	b.WriteString("Usa exclusivamente los datos siguientes; no añadas hallazgos ni cifras nuevas.\n\n")

	fmt.Fprintf(&b, "Dominio: %s\n", orNA(res.Domain))
	fmt.Fprintf(&b, "Industria: %s\n", orNA(res.Context.DetectedIndustry))
	fmt.Fprintf(&b, "Estado organizacional: %s\n", string(res.Context.State))
	fmt.Fprintf(&b, "Postura general: %s\n", string(res.Posture.General))
	fmt.Fprintf(&b, "Prioridad: %s\n", string(res.Priority))
	fmt.Fprintf(&b, "Score de oportunidad: %d/100\n", res.OpportunityScore)
	fmt.Fprintf(&b, "Momento oportuno: %t (%s)\n", res.IsTimely, orNA(res.TimingReason))
	fmt.Fprintf(&b, "Budget estimado: %d-%d\n", res.Budget.Min, res.Budget.Max)

	writeList(&b, "Factores positivos", res.PositiveFactors)
	writeList(&b, "Factores negativos", res.NegativeFactors)
	writeList(&b, "Talking points", res.TalkingPoints)

	if len(res.Insights) > 0 {
		b.WriteString("Hallazgos:\n")
		for _, in := range res.Insights {
			fmt.Fprintf(&b, "- [%s] %s: %s\n", in.Status, in.Title, in.BusinessImpact)
		}
	}

	b.WriteString("\n")
	b.WriteString(instr)
	b.WriteString("\n")
	return b.String(), nil
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		fmt.Fprintf(b, "%s: %s\n", title, model.NotAvailable)
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
}

func orNA(s string) string {
	if s == "" {
		return model.NotAvailable
	}
	return s
}
