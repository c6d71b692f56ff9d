package model_test

import (
	"testing"

	"github.com/prospectscan/prospectscan/internal/model"
)

func TestParseOrganizationalStateDefaultsToUnknown(t *testing.T) {
	cases := []struct {
		in   string
		want model.OrganizationalState
	}{
		{"estable", model.StateStable},
		{"en_crecimiento", model.StateGrowing},
		{"en_transicion", model.StateTransitioning},
		{"en_contraccion", model.StateContracting},
		{"ma_activo", model.StateMAActive},
		{"desconocido", model.StateUnknown},
		{"", model.StateUnknown},
		{"STABLE", model.StateUnknown},
		{"growing", model.StateUnknown},
	}
	for _, c := range cases {
		if got := model.ParseOrganizationalState(c.in); got != c.want {
			t.Errorf("ParseOrganizationalState(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParsePostureLevelDefaultsToBasic(t *testing.T) {
	cases := []struct {
		in   string
		want model.PostureLevel
	}{
		{"basica", model.PostureBasic},
		{"intermedia", model.PostureIntermediate},
		{"avanzada", model.PostureAdvanced},
		{"", model.PostureBasic},
		{"advanced", model.PostureBasic},
	}
	for _, c := range cases {
		if got := model.ParsePostureLevel(c.in); got != c.want {
			t.Errorf("ParsePostureLevel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPriorityRankOrdering(t *testing.T) {
	ordered := []model.ActionPriority{
		model.PriorityDiscarded,
		model.PriorityLow,
		model.PriorityMedium,
		model.PriorityHigh,
		model.PriorityCritical,
	}
	for i := 1; i < len(ordered); i++ {
		if ordered[i].Rank() <= ordered[i-1].Rank() {
			t.Errorf("Rank(%s)=%d not above Rank(%s)=%d",
				ordered[i], ordered[i].Rank(), ordered[i-1], ordered[i-1].Rank())
		}
	}
	if model.ActionPriority("bogus").Rank() != -1 {
		t.Errorf("unknown priority should rank -1")
	}
	if model.ActionPriority("bogus").Valid() {
		t.Errorf("unknown priority should not be valid")
	}
}

func TestReviewStateTerminal(t *testing.T) {
	if !model.ReviewValidated.Terminal() || !model.ReviewRejected.Terminal() {
		t.Errorf("validado/rechazado must be terminal")
	}
	for _, s := range []model.ReviewState{model.ReviewPending, model.ReviewInReview, model.ReviewNeedsRefresh} {
		if s.Terminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
}

func TestOrganizationalStatesIncludesUnknown(t *testing.T) {
	found := false
	for _, s := range model.OrganizationalStates() {
		if s == model.StateUnknown {
			found = true
		}
	}
	if !found {
		t.Fatalf("OrganizationalStates() must include desconocido")
	}
}
