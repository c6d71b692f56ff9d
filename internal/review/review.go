// Package review implements the human-in-the-loop gate over decision records.
// A review never mutates the CrossReferenceResult it points at: the human's
// verdict, notes and optional priority override are recorded side by side,
// and a refresh request signals the upstream pipeline to produce a fresh
// result (and, later, a fresh review referencing it; the old one is kept
// for audit).
package review

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/prospectscan/prospectscan/internal/model"
)

var (
	// ErrInvalidTransition is returned when the requested state change is not
	// allowed by the review state machine.
	ErrInvalidTransition = errors.New("review: invalid state transition")

	// ErrOverrideNotAllowed is returned when a priority override accompanies
	// a non-terminal transition.
	ErrOverrideNotAllowed = errors.New("review: priority override only allowed on validado/rechazado")

	// ErrReasonRequired is returned when requiere_refresco is requested
	// without a reason.
	ErrReasonRequired = errors.New("review: requiere_refresco requires a non-empty reason")
)

// New creates a pending review record for a decision record.
func New(domain, resultID, reviewerID string) model.ReviewRecord {
	return model.ReviewRecord{
		ID:         uuid.New().String(),
		Domain:     domain,
		ResultID:   resultID,
		State:      model.ReviewPending,
		ReviewerID: reviewerID,
		AssignedAt: time.Now().UTC(),
	}
}

// Transition describes one requested state change.
type Transition struct {
	To model.ReviewState

	// Notes is optional reviewer free text, appended on any transition.
	Notes string

	// PriorityOverride may only accompany a transition to a terminal state.
	PriorityOverride *model.ActionPriority

	// RefreshReason is mandatory for requiere_refresco.
	RefreshReason string

	// ReferenceURL optionally attaches an external link.
	ReferenceURL string
}

// allowed is the transition relation:
// pendiente -> en_revision -> {validado | rechazado | requiere_refresco},
// and requiere_refresco back to en_revision if the reviewer resumes before
// the upstream refresh lands.
var allowed = map[model.ReviewState][]model.ReviewState{
	model.ReviewPending:      {model.ReviewInReview},
	model.ReviewInReview:     {model.ReviewValidated, model.ReviewRejected, model.ReviewNeedsRefresh},
	model.ReviewNeedsRefresh: {model.ReviewInReview},
}

// Apply validates tr against rec's current state and returns the advanced
// record. rec itself is not modified.
func Apply(rec model.ReviewRecord, tr Transition) (model.ReviewRecord, error) {
	if rec.State.Terminal() {
		return rec, fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, rec.State)
	}
	if !transitionAllowed(rec.State, tr.To) {
		return rec, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rec.State, tr.To)
	}
	if tr.PriorityOverride != nil {
		if !tr.To.Terminal() {
			return rec, ErrOverrideNotAllowed
		}
		if !tr.PriorityOverride.Valid() {
			return rec, fmt.Errorf("review: invalid priority override %q", *tr.PriorityOverride)
		}
	}
	if tr.To == model.ReviewNeedsRefresh && tr.RefreshReason == "" {
		return rec, ErrReasonRequired
	}

	out := rec
	out.State = tr.To
	if tr.Notes != "" {
		if out.Notes != "" {
			out.Notes += "\n"
		}
		out.Notes += tr.Notes
	}
	if tr.ReferenceURL != "" {
		out.ReferenceURL = tr.ReferenceURL
	}
	if tr.PriorityOverride != nil {
		p := *tr.PriorityOverride
		out.PriorityOverride = &p
	}
	if tr.To == model.ReviewNeedsRefresh {
		out.RefreshRequested = true
		out.RefreshReason = tr.RefreshReason
	}
	if tr.To.Terminal() {
		now := time.Now().UTC()
		out.CompletedAt = &now
	}
	return out, nil
}

func transitionAllowed(from, to model.ReviewState) bool {
	for _, s := range allowed[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Successor creates the fresh review for the result produced after a refresh
// request. The superseded review is left untouched for the audit trail.
func Successor(old model.ReviewRecord, newResultID string) model.ReviewRecord {
	next := New(old.Domain, newResultID, old.ReviewerID)
	return next
}
