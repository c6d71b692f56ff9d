// Package deriver turns read-only source company records into the
// BusinessContext the engine consumes. It interprets, it never edits: the
// snapshot data stays untouched and the derivation records its provenance
// (snapshot id, timestamp, confidence).
//
// The heuristics are deliberately coarse. When the source reports nothing
// useful, the derivation lands on the "desconocido" state with low
// confidence instead of guessing.
package deriver

import (
	"strings"
	"time"

	"github.com/prospectscan/prospectscan/internal/model"
	"github.com/prospectscan/prospectscan/internal/rules"
)

// Deriver builds BusinessContext values against an injected catalog (for
// industry detection and the regulation map).
type Deriver struct {
	catalog *rules.Catalog
}

// New creates a Deriver. nil catalog falls back to the built-in one.
func New(catalog *rules.Catalog) *Deriver {
	if catalog == nil {
		catalog = rules.DefaultCatalog()
	}
	return &Deriver{catalog: catalog}
}

// Derive interprets one source record into a BusinessContext.
func (d *Deriver) Derive(rec model.SourceCompanyRecord) model.BusinessContext {
	state, rate := classifyState(rec)
	industry := rec.Industry
	if industry == "" {
		industry = d.catalog.MatchIndustry(strings.ToLower(rec.Domain))
	}

	bc := model.BusinessContext{
		Domain:            rec.Domain,
		State:             state,
		RateOfChange:      rate,
		Pressure:          classifyPressure(rec, industry),
		InvestmentSignals: investmentSignals(rec),
		DigitalMaturity:   digitalMaturity(rec),
		DetectedIndustry:  industry,
		Regulations:       d.catalog.Regulations[industry],
		SourceSnapshotID:  rec.SnapshotID,
		DerivedAt:         time.Now().UTC(),
		Confidence:        confidence(rec, state),
	}
	return bc
}

// classifyState maps the twelve-month headcount change onto an
// organizational state and a rate-of-change descriptor.
func classifyState(rec model.SourceCompanyRecord) (model.OrganizationalState, string) {
	if rec.EmployeeGrowth12M == nil {
		return model.StateUnknown, model.NotAvailable
	}
	g := *rec.EmployeeGrowth12M
	switch {
	case g <= -15:
		return model.StateContracting, "acelerado"
	case g <= -5:
		// A sustained moderate shrink usually means restructuring.
		return model.StateTransitioning, "moderado"
	case g < 5:
		return model.StateStable, "lento"
	case g < 25:
		return model.StateGrowing, "moderado"
	default:
		return model.StateGrowing, "acelerado"
	}
}

// regulated industries carry standing external pressure regardless of
// trajectory.
var highPressureIndustries = map[string]bool{
	"Financiero": true,
	"Salud":      true,
	"Gobierno":   true,
}

func classifyPressure(rec model.SourceCompanyRecord, industry string) model.ExternalPressure {
	if highPressureIndustries[industry] {
		return model.PressureHigh
	}
	if rec.RecentFunding != nil && *rec.RecentFunding {
		// Fresh capital brings board-level scrutiny.
		return model.PressureMedium
	}
	if rec.EmployeeGrowth12M != nil && *rec.EmployeeGrowth12M >= 25 {
		return model.PressureMedium
	}
	return model.PressureLow
}

func investmentSignals(rec model.SourceCompanyRecord) []string {
	var signals []string
	if rec.RecentFunding != nil && *rec.RecentFunding {
		signals = append(signals, "funding")
	}
	if rec.EmployeeGrowth12M != nil {
		if *rec.EmployeeGrowth12M >= 10 {
			signals = append(signals, "hiring")
		}
		if *rec.EmployeeGrowth12M >= 25 {
			signals = append(signals, "expansion")
		}
	}
	return signals
}

func digitalMaturity(rec model.SourceCompanyRecord) string {
	switch n := len(rec.KnownTechStack); {
	case n >= 5:
		return "madura"
	case n >= 2:
		return "en_desarrollo"
	default:
		return "emergente"
	}
}

// confidence scores how much of the derivation rests on reported fields
// versus defaults. Floor at 0.3: even an empty record tells us something
// (that the source knows nothing).
func confidence(rec model.SourceCompanyRecord, state model.OrganizationalState) float64 {
	c := 0.9
	if rec.EmployeeGrowth12M == nil {
		c -= 0.3
	}
	if rec.RecentFunding == nil {
		c -= 0.1
	}
	if rec.Industry == "" {
		c -= 0.1
	}
	if state == model.StateUnknown && c > 0.4 {
		c = 0.4
	}
	if c < 0.3 {
		c = 0.3
	}
	return c
}
