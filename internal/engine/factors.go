package engine

import (
	"fmt"
	"strings"

	"github.com/prospectscan/prospectscan/internal/model"
	"github.com/prospectscan/prospectscan/internal/rules"
)

// factors collects the human-readable reasons behind a decision. Every string
// is tied to a concrete input field: ablate the field and the string
// disappears. The unknown state and medium pressure contribute nothing, which
// is why the neutral MEDIA fallback can legitimately carry empty lists.
func factors(bc model.BusinessContext, sp model.SecurityPosture) (positives, negatives []string) {
	switch bc.State {
	case model.StateTransitioning:
		positives = append(positives, "Organización en transición: ventana de decisión abierta")
	case model.StateMAActive:
		positives = append(positives, "Proceso M&A activo: revisión de proveedores en curso")
	case model.StateGrowing:
		positives = append(positives, "Organización en crecimiento: superficie digital en expansión")
	case model.StateStable:
		negatives = append(negatives, "Organización estable: sin disparador de cambio")
	case model.StateContracting:
		negatives = append(negatives, "Organización en contracción: presupuesto bajo presión")
	}

	switch bc.Pressure {
	case model.PressureCritical:
		positives = append(positives, "Presión externa crítica sobre la organización")
	case model.PressureHigh:
		positives = append(positives, "Presión externa alta sobre la organización")
	case model.PressureLow:
		negatives = append(negatives, "Presión externa baja: sin urgencia percibida")
	}

	if len(bc.InvestmentSignals) > 0 {
		positives = append(positives,
			fmt.Sprintf("Señales de inversión detectadas: %s", strings.Join(bc.InvestmentSignals, ", ")))
	}

	switch sp.General {
	case model.PostureBasic:
		positives = append(positives, "Postura de seguridad básica: brecha clara frente al mercado")
	case model.PostureAdvanced:
		negatives = append(negatives, "Postura de seguridad avanzada: poco margen de mejora visible")
	}

	if len(sp.SecurityVendors) > 0 {
		positives = append(positives,
			fmt.Sprintf("Inversión existente en seguridad de correo: %s", strings.Join(sp.SecurityVendors, ", ")))
	}
	if !sp.HasDMARC {
		positives = append(positives, "DMARC ausente: mejora de costo cero disponible")
	}

	return positives, negatives
}

// timing derives the is-timely flag with its one-line justification from
// organizational state and pressure alone.
func timing(bc model.BusinessContext) (bool, string) {
	switch bc.State {
	case model.StateTransitioning:
		return true, "La transición organizacional abre una ventana natural de decisión."
	case model.StateMAActive:
		return true, "Un proceso M&A activo exige revisión inmediata de postura y proveedores."
	case model.StateGrowing:
		if bc.Pressure == model.PressureHigh || bc.Pressure == model.PressureCritical {
			return true, "Crecimiento acelerado bajo presión externa elevada."
		}
		return true, "El crecimiento sostenido amplía la superficie a proteger."
	case model.StateContracting:
		return false, "La contracción organizacional congela iniciativas nuevas."
	case model.StateStable:
		if bc.Pressure == model.PressureCritical {
			return true, "Organización estable pero bajo presión externa crítica."
		}
		return false, "Organización estable sin presión externa que justifique anticiparse."
	default:
		return false, "Contexto organizacional insuficiente para afirmar un momento oportuno."
	}
}

// estimateBudget derives an annual budget range from detected vendor cost
// signals. Per-user vendors extrapolate over the catalog's seat band; flat
// vendors annualize. No signals at all yield the catalog's documented wide
// default range, never zero and never an error.
func estimateBudget(sp model.SecurityPosture, cat *rules.Catalog) (model.BudgetRange, []string) {
	var (
		min, max int
		signals  []string
	)

	addVendor := func(name string) {
		cost, ok := cat.VendorCosts[name]
		if !ok {
			return
		}
		signals = append(signals, fmt.Sprintf("%s: %d-%d %s", name, cost.Min, cost.Max, cost.Unit))
		if cost.PerUser {
			min += cost.Min * cat.SeatsMin
			max += cost.Max * cat.SeatsMax
		} else {
			// Flat pricing is monthly in the catalog.
			min += cost.Min * 12
			max += cost.Max * 12
		}
	}

	for _, v := range sp.SecurityVendors {
		addVendor(v)
	}
	for _, v := range sp.EmailVendors {
		addVendor(v)
	}
	if sp.CDNWAF != "" {
		addVendor(sp.CDNWAF)
	}

	if len(signals) == 0 {
		return model.BudgetRange{Min: cat.DefaultBudgetMin, Max: cat.DefaultBudgetMax}, nil
	}
	return model.BudgetRange{Min: min, Max: max}, signals
}

// talkingPoints generates at most four sales-facing sentences, in strict
// priority order: investment/gap contradiction, quantified financial impact,
// competitive posture gap, zero-cost quick wins. A category with no
// qualifying input is skipped, never padded.
func talkingPoints(bc model.BusinessContext, sp model.SecurityPosture, insights []model.Insight, budgetSignals []string, industry string) []string {
	var points []string

	var criticals []model.Insight
	for _, in := range insights {
		if in.Status == "critical" {
			criticals = append(criticals, in)
		}
	}

	// 1. Contradiction between existing security investment and detected gaps.
	if len(budgetSignals) > 0 && len(criticals) > 0 {
		top := budgetSignals
		if len(top) > 2 {
			top = top[:2]
		}
		points = append(points, fmt.Sprintf(
			"Detectamos inversión en seguridad (%s), pero identificamos vulnerabilidades críticas en su infraestructura web. Esta contradicción pone en riesgo su inversión actual.",
			strings.Join(top, ", ")))
	}

	// 2. Quantified financial impact from the highest-severity insight.
	if len(criticals) > 0 {
		in := criticals[0]
		if loss, ok := in.CostEstimate["potential_loss"]; ok {
			fix := in.CostEstimate["fix_cost"]
			if fix == "" {
				fix = model.NotAvailable
			}
			points = append(points, fmt.Sprintf(
				"%s: %s de pérdida potencial. Costo de solución: %s. ROI inmediato.", in.Title, loss, fix))
		}
	}

	// 3. Competitive posture gap.
	if sp.General == model.PostureBasic {
		points = append(points, fmt.Sprintf(
			"Su postura de seguridad actual es básica. Los líderes de %s mantienen postura avanzada; esta brecha puede afectar contratos empresariales.",
			industry))
	}

	// 4. Zero-cost quick wins.
	var freeFixes []model.Insight
	for _, in := range insights {
		if fix, ok := in.CostEstimate["fix_cost"]; ok && strings.Contains(fix, "$0") {
			freeFixes = append(freeFixes, in)
		}
	}
	if len(freeFixes) > 0 {
		points = append(points, fmt.Sprintf(
			"Identificamos %d mejora(s) de costo cero con ROI inmediato, empezando por: %s",
			len(freeFixes), freeFixes[0].Title))
	}

	if len(points) > maxTalkingPoints {
		points = points[:maxTalkingPoints]
	}
	return points
}

// maxTalkingPoints caps the list a seller gets; more than this dilutes the
// pitch.
const maxTalkingPoints = 4
