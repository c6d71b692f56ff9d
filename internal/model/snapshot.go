package model

import "time"

// NotAvailable is the sentinel propagated into human-facing text whenever an
// optional input field is absent. Outputs must carry this marker instead of
// silently dropping or inventing the value.
const NotAvailable = "No disponible"

// Snapshot is one immutable ingestion batch from the external data source.
// ProspectScan never edits snapshots, it only interprets them; a refresh
// produces a new Snapshot with an incremented Version.
type Snapshot struct {
	// ID is the unique snapshot identifier.
	ID string `json:"snapshot_id"`

	// Source tags where the batch came from.
	Source DataSource `json:"source"`

	// IngestedAt is when the batch was ingested.
	IngestedAt time.Time `json:"ingested_at"`

	// Version increments with every refresh of the same source feed.
	Version int `json:"version"`

	// RawPayload is the source payload, kept opaque and unmodified.
	RawPayload map[string]any `json:"raw_payload,omitempty"`

	// Checksum is the sha256 hex digest of the canonical record set, used to
	// validate integrity and to detect no-op refreshes.
	Checksum string `json:"checksum"`

	// Ingestion counters relative to the previous version.
	TotalRecords   int `json:"total_records"`
	NewRecords     int `json:"new_records"`
	UpdatedRecords int `json:"updated_records"`

	// Records are the company projections owned by this snapshot.
	Records []SourceCompanyRecord `json:"records,omitempty"`
}

// SourceCompanyRecord is the read-only projection of one company inside a
// Snapshot. Downstream layers never modify these fields.
type SourceCompanyRecord struct {
	// SourceID is the identifier assigned by the data source.
	SourceID string `json:"source_id"`

	// Domain is the company's registrable domain.
	Domain string `json:"domain"`

	Name        string `json:"name"`
	Industry    string `json:"industry"`
	SubIndustry string `json:"sub_industry,omitempty"`

	// EmployeeRange and RevenueRange are source-provided buckets such as
	// "51-200" and "$10M-$50M"; empty means not provided.
	EmployeeRange string `json:"employee_range,omitempty"`
	RevenueRange  string `json:"revenue_range,omitempty"`

	Country string `json:"country,omitempty"`
	Region  string `json:"region,omitempty"`

	// EmployeeGrowth12M is the percentage headcount change over twelve
	// months; nil when the source did not report it.
	EmployeeGrowth12M *float64 `json:"employee_growth_12m,omitempty"`

	// RecentFunding reports whether the source flagged recent funding;
	// nil when unknown.
	RecentFunding *bool `json:"recent_funding,omitempty"`

	// KnownTechStack lists technologies the source attributes to the company.
	KnownTechStack []string `json:"known_tech_stack,omitempty"`

	// SnapshotID links back to the owning snapshot.
	SnapshotID string `json:"snapshot_id"`

	// SourceTimestamp is the source-side record timestamp.
	SourceTimestamp time.Time `json:"source_timestamp"`
}
