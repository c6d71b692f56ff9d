package server

import (
	"github.com/prospectscan/prospectscan/internal/model"
)

// Request/response shapes for the JSON API. Kept separate from the domain
// records so the wire surface can evolve without touching internal/model.

// analyzeRequest carries one (context, posture) pair.
type analyzeRequest struct {
	Context model.BusinessContext `json:"context"`
	Posture model.SecurityPosture `json:"posture"`

	// Persist stores the resulting decision record when true.
	Persist bool `json:"persist,omitempty"`
}

// batchItemRequest is one domain inside a batch. Context or Posture may be
// null to represent an upstream derivation failure for that domain.
type batchItemRequest struct {
	Domain  string                 `json:"domain"`
	Context *model.BusinessContext `json:"context"`
	Posture *model.SecurityPosture `json:"posture"`
}

// batchRequest carries up to maxBatchSize domains.
type batchRequest struct {
	Items   []batchItemRequest `json:"items"`
	Persist bool               `json:"persist,omitempty"`
}

// maxBatchSize bounds one batch request.
const maxBatchSize = 100

// emailsRequest carries raw email addresses; the response lists the unique
// company domains extracted from them.
type emailsRequest struct {
	Emails []string `json:"emails"`
}

type emailsResponse struct {
	Domains []string `json:"domains"`
}

// snapshotRequest seals a batch of parsed source records into a snapshot.
type snapshotRequest struct {
	Source  model.DataSource            `json:"source"`
	Records []model.SourceCompanyRecord `json:"records"`
}

// deriveRequest asks for a BusinessContext derivation from one record.
type deriveRequest struct {
	Record model.SourceCompanyRecord `json:"record"`
}

// reviewCreateRequest opens a pending review on a stored decision record.
type reviewCreateRequest struct {
	ResultID   string `json:"result_id"`
	ReviewerID string `json:"reviewer_id"`
}

// reviewTransitionRequest advances a review's state machine.
type reviewTransitionRequest struct {
	To               model.ReviewState     `json:"to"`
	Notes            string                `json:"notes,omitempty"`
	PriorityOverride *model.ActionPriority `json:"priority_override,omitempty"`
	RefreshReason    string                `json:"refresh_reason,omitempty"`
	ReferenceURL     string                `json:"reference_url,omitempty"`
}

// reformulateRequest selects the audience for the LLM rewrite.
type reformulateRequest struct {
	Audience string `json:"audience"`
}

type reformulateResponse struct {
	ResultID string `json:"result_id"`
	Audience string `json:"audience"`
	Text     string `json:"text"`
}
