// Package engine implements the cross-reference motor: it combines a
// BusinessContext with a SecurityPosture through the injected rule table and
// assembles the full decision record: priority, opportunity score, factors,
// timing signal, budget range and talking points.
//
// CrossReference is a pure function of its two inputs plus the static rule
// data (the generated ID and timestamp aside). It never performs I/O, never
// mutates its inputs and never fails: missing optional fields degrade to the
// documented "No disponible" defaults.
package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/prospectscan/prospectscan/internal/insight"
	"github.com/prospectscan/prospectscan/internal/logging"
	"github.com/prospectscan/prospectscan/internal/model"
	"github.com/prospectscan/prospectscan/internal/rules"
)

// Engine evaluates (context, posture) pairs against a versioned rule table
// and commercial catalog.
type Engine struct {
	table   *rules.Table
	catalog *rules.Catalog
	logger  logging.Logger
}

// New creates an Engine. nil table or catalog fall back to the built-in
// defaults; nil logger falls back to a stdout logger.
func New(table *rules.Table, catalog *rules.Catalog, logger logging.Logger) *Engine {
	if table == nil {
		table = rules.DefaultTable()
	}
	if catalog == nil {
		catalog = rules.DefaultCatalog()
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("engine")
	}
	return &Engine{table: table, catalog: catalog, logger: logger}
}

// Table exposes the rule table read-only, for audit endpoints.
func (e *Engine) Table() *rules.Table { return e.table }

// Catalog exposes the commercial catalog read-only, for audit endpoints.
func (e *Engine) Catalog() *rules.Catalog { return e.catalog }

// CrossReference combines one business context with one security posture and
// returns the decision record. The pair is looked up in the rule table;
// unmapped pairs resolve to the table's fallback priority and are logged as a
// data-quality signal, never surfaced as an error.
func (e *Engine) CrossReference(bc model.BusinessContext, sp model.SecurityPosture) model.CrossReferenceResult {
	domain := bc.Domain
	if domain == "" {
		domain = sp.Domain
	}

	priority, mapped := e.table.Lookup(bc.State, sp.General)
	if !mapped {
		e.logger.Warn("unmapped rule key, using fallback priority",
			logging.Field{Key: "domain", Value: domain},
			logging.Field{Key: "state", Value: string(bc.State)},
			logging.Field{Key: "posture", Value: string(sp.General)},
			logging.Field{Key: "fallback", Value: string(e.table.Fallback())},
		)
	}

	industry := bc.DetectedIndustry
	if industry == "" {
		industry = insight.DetectIndustry(domain, e.catalog)
	}
	insights := insight.Derive(sp, industry, e.catalog)

	positives, negatives := factors(bc, sp)
	timely, timingReason := timing(bc)
	budget, budgetSignals := estimateBudget(sp, e.catalog)
	score := opportunityScore(priority, bc, sp)
	points := talkingPoints(bc, sp, insights, budgetSignals, industry)

	return model.CrossReferenceResult{
		ID:                uuid.New().String(),
		Domain:            domain,
		Context:           bc,
		Posture:           sp,
		Priority:          priority,
		OpportunityScore:  score,
		PositiveFactors:   positives,
		NegativeFactors:   negatives,
		IsTimely:          timely,
		TimingReason:      timingReason,
		Budget:            budget,
		TalkingPoints:     points,
		Insights:          insights,
		CrossReferencedAt: time.Now().UTC(),
		RuleSetVersion:    e.table.Version(),
	}
}
