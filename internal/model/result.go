package model

import "time"

// BudgetRange is an estimated annual budget window in whole currency units.
// It is a range on purpose: the engine never pretends to know an exact figure.
type BudgetRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// CrossReferenceResult is the engine's decision record for one
// (context, posture) pair. It answers "is it prudent to anticipate a security
// initiative here?", never "which vulnerability exists?".
//
// Created once per analysis and never mutated; re-analysis produces a new
// instance with a new ID and timestamp.
type CrossReferenceResult struct {
	// ID uniquely identifies this decision record.
	ID string `json:"result_id"`

	Domain string `json:"domain"`

	// Context and Posture are read-only references to the inputs the engine
	// combined. They are embedded so the record is auditable on its own.
	Context BusinessContext `json:"context"`
	Posture SecurityPosture `json:"posture"`

	// Priority is the rule-table output.
	Priority ActionPriority `json:"priority"`

	// OpportunityScore is a 0-100 ranking value, monotonic with Priority.
	OpportunityScore int `json:"opportunity_score"`

	// Human-readable reasons for the decision. Every entry traces back to a
	// concrete input field; nothing here is fabricated.
	PositiveFactors []string `json:"positive_factors,omitempty"`
	NegativeFactors []string `json:"negative_factors,omitempty"`

	// Timing signal with its one-line justification.
	IsTimely     bool   `json:"is_timely"`
	TimingReason string `json:"timing_reason"`

	// Budget is the estimated range, wide by default when no cost signals
	// were detected.
	Budget BudgetRange `json:"estimated_budget"`

	// TalkingPoints are short sales-facing sentences, at most four.
	TalkingPoints []string `json:"talking_points,omitempty"`

	// Insights are the severity-tagged technical observations that fed the
	// factor and talking-point derivation.
	Insights []Insight `json:"insights,omitempty"`

	// CrossReferencedAt is when the engine ran; RuleSetVersion records which
	// rule table produced the priority, for re-scoring audits.
	CrossReferencedAt time.Time `json:"cross_referenced_at"`
	RuleSetVersion    string    `json:"rule_set_version"`
}

// Insight is one severity-tagged observation derived from a posture
// dimension, enriched with the commercial context a seller needs.
type Insight struct {
	// Category buckets the observation: "ssl", "email", "infrastructure".
	Category string `json:"category"`

	Title string `json:"title"`

	// Status is "ok", "warning" or "critical".
	Status string `json:"status"`

	TechnicalDetail string `json:"technical_detail"`
	BusinessImpact  string `json:"business_impact"`

	// CostEstimate pairs the fix cost against the potential loss; nil when
	// the severity catalog has no entry for this observation.
	CostEstimate map[string]string `json:"cost_estimate,omitempty"`

	Recommendation string `json:"recommendation"`

	// Urgency is "immediate", "high", "medium" or "low".
	Urgency string `json:"urgency"`
}

// ReviewRecord is the human-review overlay for a CrossReferenceResult.
// It references the result by ID only and never mutates it; a priority
// override is recorded side by side with the engine's output.
type ReviewRecord struct {
	ID     string `json:"review_id"`
	Domain string `json:"domain"`

	// ResultID points at the decision record under review.
	ResultID string `json:"result_id"`

	State      ReviewState `json:"state"`
	ReviewerID string      `json:"reviewer_id"`

	// Notes is optional free text from the reviewer.
	Notes string `json:"notes,omitempty"`

	// PriorityOverride, when set, records the human's adjusted priority.
	// Only terminal states may carry one.
	PriorityOverride *ActionPriority `json:"priority_override,omitempty"`

	// ReferenceURL is an optional external link (e.g. a company profile),
	// reference only, never scraped.
	ReferenceURL string `json:"reference_url,omitempty"`

	// RefreshRequested signals the upstream pipeline to re-derive; it always
	// carries a reason.
	RefreshRequested bool   `json:"refresh_requested"`
	RefreshReason    string `json:"refresh_reason,omitempty"`

	AssignedAt  time.Time  `json:"assigned_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
