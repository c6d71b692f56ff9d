package model

// Closed vocabularies for the cross-reference data model. Wire values are the
// Spanish terms the business uses; Go identifiers stay English. Parsers accept
// the wire value and fall back to the "unknown"/zero member instead of erroring
// so that a malformed upstream field degrades to a documented default.

// DataSource identifies where a snapshot came from. ZoomInfo is the source of
// truth; "manual" exists for testing and demos only.
type DataSource string

const (
	SourceZoomInfo DataSource = "zoominfo"
	SourceManual   DataSource = "manual"
)

// OrganizationalState is the non-technical classification of a company's
// business trajectory, derived from source records.
type OrganizationalState string

const (
	StateStable        OrganizationalState = "estable"
	StateGrowing       OrganizationalState = "en_crecimiento"
	StateTransitioning OrganizationalState = "en_transicion"
	StateContracting   OrganizationalState = "en_contraccion"
	StateMAActive      OrganizationalState = "ma_activo"
	StateUnknown       OrganizationalState = "desconocido"
)

// OrganizationalStates lists every member, unknown included. Rule-table
// totality tests range over this slice.
func OrganizationalStates() []OrganizationalState {
	return []OrganizationalState{
		StateStable, StateGrowing, StateTransitioning,
		StateContracting, StateMAActive, StateUnknown,
	}
}

// ParseOrganizationalState maps a wire value to its member, defaulting to
// StateUnknown for anything unrecognized.
func ParseOrganizationalState(s string) OrganizationalState {
	switch OrganizationalState(s) {
	case StateStable, StateGrowing, StateTransitioning, StateContracting, StateMAActive:
		return OrganizationalState(s)
	default:
		return StateUnknown
	}
}

// ExternalPressure is the interpreted level of outside pressure (regulatory,
// competitive, M&A scrutiny) acting on an organization.
type ExternalPressure string

const (
	PressureLow      ExternalPressure = "baja"
	PressureMedium   ExternalPressure = "media"
	PressureHigh     ExternalPressure = "alta"
	PressureCritical ExternalPressure = "critica"
)

// PostureLevel is the aggregated technical security maturity bucket.
// It is a coarse classification, never a vulnerability list.
type PostureLevel string

const (
	PostureBasic        PostureLevel = "basica"
	PostureIntermediate PostureLevel = "intermedia"
	PostureAdvanced     PostureLevel = "avanzada"
)

// PostureLevels lists the members in ascending maturity order.
func PostureLevels() []PostureLevel {
	return []PostureLevel{PostureBasic, PostureIntermediate, PostureAdvanced}
}

// ParsePostureLevel maps a wire value to its member, defaulting to
// PostureBasic (the conservative floor) for anything unrecognized.
func ParsePostureLevel(s string) PostureLevel {
	switch PostureLevel(s) {
	case PostureIntermediate, PostureAdvanced:
		return PostureLevel(s)
	default:
		return PostureBasic
	}
}

// ActionPriority is the cross-reference output: a prioritization, not a
// diagnosis.
type ActionPriority string

const (
	PriorityCritical  ActionPriority = "critica"    // act immediately
	PriorityHigh      ActionPriority = "alta"       // prioritize this week
	PriorityMedium    ActionPriority = "media"      // review within two weeks
	PriorityLow       ActionPriority = "baja"       // monitor
	PriorityDiscarded ActionPriority = "descartada" // not the right moment
)

// Rank orders priorities by severity: critica=4 down to descartada=0.
// Used by monotonicity checks and result sorting; an unknown value ranks
// below everything.
func (p ActionPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	case PriorityDiscarded:
		return 0
	default:
		return -1
	}
}

// Valid reports whether p is one of the five defined priorities.
func (p ActionPriority) Valid() bool {
	return p.Rank() >= 0
}

// ReviewState is the human-review lifecycle state for a decision record.
type ReviewState string

const (
	ReviewPending      ReviewState = "pendiente"
	ReviewInReview     ReviewState = "en_revision"
	ReviewValidated    ReviewState = "validado"
	ReviewRejected     ReviewState = "rechazado"
	ReviewNeedsRefresh ReviewState = "requiere_refresco"
)

// Terminal reports whether the state admits no further transitions.
// requiere_refresco is deliberately non-terminal: it signals the upstream
// pipeline to produce a fresh decision record.
func (s ReviewState) Terminal() bool {
	return s == ReviewValidated || s == ReviewRejected
}
