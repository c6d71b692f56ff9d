package model

import "time"

// BusinessContext is the non-technical situational classification derived
// from one or more source company records.
//
// Invariants: it carries no technical security detail and no data about
// individual people. Provenance always points at the snapshot the derivation
// read from.
type BusinessContext struct {
	Domain string `json:"domain"`

	// State classifies the company's business trajectory.
	State OrganizationalState `json:"organizational_state"`

	// RateOfChange is a coarse descriptor: "lento", "moderado", "acelerado".
	RateOfChange string `json:"rate_of_change"`

	// Pressure is the interpreted external pressure level.
	Pressure ExternalPressure `json:"external_pressure"`

	// InvestmentSignals are non-technical opportunity indicators such as
	// "funding", "expansion", "hiring".
	InvestmentSignals []string `json:"investment_signals,omitempty"`

	// DigitalMaturity is a coarse descriptor: "emergente", "en_desarrollo",
	// "madura".
	DigitalMaturity string `json:"digital_maturity"`

	// DetectedIndustry is the best-effort industry classification.
	DetectedIndustry string `json:"detected_industry"`

	// Regulations lists regimes applicable to the detected industry,
	// e.g. "GDPR", "PCI-DSS".
	Regulations []string `json:"applicable_regulations,omitempty"`

	// SourceSnapshotID records which snapshot the derivation read.
	SourceSnapshotID string `json:"source_snapshot_id"`

	// DerivedAt is when the derivation ran.
	DerivedAt time.Time `json:"derived_at"`

	// Confidence is the derivation confidence in [0,1].
	Confidence float64 `json:"confidence"`
}
