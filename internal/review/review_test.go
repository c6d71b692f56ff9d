package review_test

import (
	"errors"
	"testing"

	"github.com/prospectscan/prospectscan/internal/model"
	"github.com/prospectscan/prospectscan/internal/review"
)

func pending(t *testing.T) model.ReviewRecord {
	t.Helper()
	rec := review.New("empresa.com", "result-1", "reviewer-1")
	if rec.State != model.ReviewPending {
		t.Fatalf("new review state = %s, want pendiente", rec.State)
	}
	if rec.ID == "" || rec.AssignedAt.IsZero() {
		t.Fatalf("new review must carry id and assignment time")
	}
	return rec
}

func advance(t *testing.T, rec model.ReviewRecord, to model.ReviewState) model.ReviewRecord {
	t.Helper()
	next, err := review.Apply(rec, review.Transition{To: to})
	if err != nil {
		t.Fatalf("Apply(%s -> %s): %v", rec.State, to, err)
	}
	return next
}

func TestHappyPathValidation(t *testing.T) {
	rec := pending(t)
	rec = advance(t, rec, model.ReviewInReview)

	override := model.PriorityHigh
	final, err := review.Apply(rec, review.Transition{
		To:               model.ReviewValidated,
		Notes:            "confirmado con el cliente",
		PriorityOverride: &override,
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if final.State != model.ReviewValidated {
		t.Errorf("state = %s, want validado", final.State)
	}
	if final.PriorityOverride == nil || *final.PriorityOverride != model.PriorityHigh {
		t.Errorf("override not recorded: %v", final.PriorityOverride)
	}
	if final.CompletedAt == nil {
		t.Errorf("terminal transition must stamp completion time")
	}
	if final.Notes != "confirmado con el cliente" {
		t.Errorf("notes = %q", final.Notes)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	rec := pending(t)
	_, err := review.Apply(rec, review.Transition{To: model.ReviewInReview})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if rec.State != model.ReviewPending {
		t.Errorf("input record was mutated to %s", rec.State)
	}
}

func TestInvalidTransitionsRejected(t *testing.T) {
	cases := []struct {
		from model.ReviewState
		to   model.ReviewState
	}{
		{model.ReviewPending, model.ReviewValidated},
		{model.ReviewPending, model.ReviewRejected},
		{model.ReviewPending, model.ReviewNeedsRefresh},
		{model.ReviewInReview, model.ReviewPending},
		{model.ReviewNeedsRefresh, model.ReviewValidated},
	}
	for _, c := range cases {
		rec := pending(t)
		rec.State = c.from
		if _, err := review.Apply(rec, review.Transition{To: c.to, RefreshReason: "x"}); !errors.Is(err, review.ErrInvalidTransition) {
			t.Errorf("%s -> %s: err = %v, want ErrInvalidTransition", c.from, c.to, err)
		}
	}
}

func TestTerminalStatesAreFinal(t *testing.T) {
	for _, terminal := range []model.ReviewState{model.ReviewValidated, model.ReviewRejected} {
		rec := pending(t)
		rec.State = terminal
		if _, err := review.Apply(rec, review.Transition{To: model.ReviewInReview}); !errors.Is(err, review.ErrInvalidTransition) {
			t.Errorf("transition out of %s: err = %v, want ErrInvalidTransition", terminal, err)
		}
	}
}

func TestOverrideOnlyOnTerminal(t *testing.T) {
	rec := pending(t)
	override := model.PriorityCritical
	_, err := review.Apply(rec, review.Transition{To: model.ReviewInReview, PriorityOverride: &override})
	if !errors.Is(err, review.ErrOverrideNotAllowed) {
		t.Errorf("err = %v, want ErrOverrideNotAllowed", err)
	}

	rec = advance(t, pending(t), model.ReviewInReview)
	bogus := model.ActionPriority("urgentisima")
	if _, err := review.Apply(rec, review.Transition{To: model.ReviewValidated, PriorityOverride: &bogus}); err == nil {
		t.Errorf("invalid override priority must be rejected")
	}
}

func TestRefreshRequiresReason(t *testing.T) {
	rec := advance(t, pending(t), model.ReviewInReview)

	if _, err := review.Apply(rec, review.Transition{To: model.ReviewNeedsRefresh}); !errors.Is(err, review.ErrReasonRequired) {
		t.Fatalf("err = %v, want ErrReasonRequired", err)
	}

	next, err := review.Apply(rec, review.Transition{To: model.ReviewNeedsRefresh, RefreshReason: "datos de hace 6 meses"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !next.RefreshRequested || next.RefreshReason == "" {
		t.Errorf("refresh flag/reason not recorded: %+v", next)
	}

	// The reviewer can resume before the refresh lands.
	resumed := advance(t, next, model.ReviewInReview)
	if resumed.State != model.ReviewInReview {
		t.Errorf("state = %s, want en_revision", resumed.State)
	}
}

func TestSuccessorKeepsAuditTrail(t *testing.T) {
	old := advance(t, pending(t), model.ReviewInReview)
	old, err := review.Apply(old, review.Transition{To: model.ReviewNeedsRefresh, RefreshReason: "refrescar"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	next := review.Successor(old, "result-2")
	if next.ID == old.ID {
		t.Errorf("successor must be a fresh record")
	}
	if next.ResultID != "result-2" || next.State != model.ReviewPending {
		t.Errorf("successor = %+v", next)
	}
	if next.Domain != old.Domain || next.ReviewerID != old.ReviewerID {
		t.Errorf("successor must keep domain and reviewer")
	}
}

func TestNotesAccumulate(t *testing.T) {
	rec := pending(t)
	rec, err := review.Apply(rec, review.Transition{To: model.ReviewInReview, Notes: "primera pasada"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	rec, err = review.Apply(rec, review.Transition{To: model.ReviewRejected, Notes: "sin encaje"})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if rec.Notes != "primera pasada\nsin encaje" {
		t.Errorf("notes = %q", rec.Notes)
	}
}
