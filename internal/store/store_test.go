package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/prospectscan/prospectscan/internal/engine"
	"github.com/prospectscan/prospectscan/internal/ingest"
	"github.com/prospectscan/prospectscan/internal/logging"
	"github.com/prospectscan/prospectscan/internal/model"
	"github.com/prospectscan/prospectscan/internal/review"
	"github.com/prospectscan/prospectscan/internal/store"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prospectscan_test.db")
	s, err := store.Open(path, logging.NewTestLogger(false))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleResult(t *testing.T, domain string) model.CrossReferenceResult {
	t.Helper()
	eng := engine.New(nil, nil, logging.NewTestLogger(false))
	bc := model.BusinessContext{Domain: domain, State: model.StateTransitioning, Pressure: model.PressureHigh}
	sp := model.SecurityPosture{Domain: domain, General: model.PostureBasic}
	return eng.CrossReference(bc, sp)
}

func TestResultRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	res := sampleResult(t, "empresa.com")
	if err := s.SaveResult(ctx, res); err != nil {
		t.Fatalf("SaveResult: %v", err)
	}

	got, err := s.GetResult(ctx, res.ID)
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if got.ID != res.ID || got.Domain != res.Domain || got.Priority != res.Priority {
		t.Errorf("round trip mismatch: %+v vs %+v", got, res)
	}
	if got.OpportunityScore != res.OpportunityScore || got.RuleSetVersion != res.RuleSetVersion {
		t.Errorf("score/version mismatch")
	}
	if len(got.Insights) != len(res.Insights) {
		t.Errorf("insights = %d, want %d", len(got.Insights), len(res.Insights))
	}
}

func TestGetResultNotFound(t *testing.T) {
	s := newStore(t)
	if _, err := s.GetResult(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// The (domain, timestamp) unique index makes result writes at-most-once.
func TestDuplicateResultRejected(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	res := sampleResult(t, "empresa.com")
	if err := s.SaveResult(ctx, res); err != nil {
		t.Fatalf("first SaveResult: %v", err)
	}

	dup := res
	dup.ID = "otra-id"
	if err := s.SaveResult(ctx, dup); !errors.Is(err, store.ErrDuplicateResult) {
		t.Errorf("err = %v, want ErrDuplicateResult", err)
	}

	// A later analysis of the same domain is a distinct record.
	later := sampleResult(t, "empresa.com")
	later.CrossReferencedAt = res.CrossReferencedAt.Add(time.Minute)
	if err := s.SaveResult(ctx, later); err != nil {
		t.Errorf("later analysis should persist: %v", err)
	}
}

func TestLatestResultByDomain(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	first := sampleResult(t, "empresa.com")
	second := sampleResult(t, "empresa.com")
	second.CrossReferencedAt = first.CrossReferencedAt.Add(time.Hour)
	other := sampleResult(t, "otra.es")

	for _, r := range []model.CrossReferenceResult{first, second, other} {
		if err := s.SaveResult(ctx, r); err != nil {
			t.Fatalf("SaveResult: %v", err)
		}
	}

	got, err := s.LatestResultByDomain(ctx, "empresa.com")
	if err != nil {
		t.Fatalf("LatestResultByDomain: %v", err)
	}
	if got.ID != second.ID {
		t.Errorf("latest = %s, want %s", got.ID, second.ID)
	}

	if _, err := s.LatestResultByDomain(ctx, "nadie.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListResultsAndStats(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	base := sampleResult(t, "empresa.com")
	for i := 0; i < 3; i++ {
		r := sampleResult(t, "empresa.com")
		r.CrossReferencedAt = base.CrossReferencedAt.Add(time.Duration(i) * time.Minute)
		if err := s.SaveResult(ctx, r); err != nil {
			t.Fatalf("SaveResult: %v", err)
		}
	}

	all, err := s.ListResults(ctx, 0)
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("listed %d results, want 3", len(all))
	}
	// Most recent first.
	for i := 1; i < len(all); i++ {
		if all[i].CrossReferencedAt.After(all[i-1].CrossReferencedAt) {
			t.Errorf("results not ordered most recent first")
		}
	}

	limited, err := s.ListResults(ctx, 2)
	if err != nil {
		t.Fatalf("ListResults limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("limited list = %d, want 2", len(limited))
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats["total_results"] != 3 {
		t.Errorf("total_results = %d, want 3", stats["total_results"])
	}
	if stats["priority_critica"] != 3 {
		t.Errorf("priority_critica = %d, want 3", stats["priority_critica"])
	}
}

func TestSnapshotRoundTripAndLatest(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	recs := []model.SourceCompanyRecord{{SourceID: "1", Domain: "a.com", Name: "A"}}
	v1 := ingest.BuildSnapshot(model.SourceZoomInfo, recs, nil)
	if err := s.SaveSnapshot(ctx, v1); err != nil {
		t.Fatalf("SaveSnapshot v1: %v", err)
	}
	v2 := ingest.BuildSnapshot(model.SourceZoomInfo, recs, &v1)
	if err := s.SaveSnapshot(ctx, v2); err != nil {
		t.Fatalf("SaveSnapshot v2: %v", err)
	}

	got, err := s.GetSnapshot(ctx, v1.ID)
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if got.Checksum != v1.Checksum || len(got.Records) != 1 {
		t.Errorf("snapshot round trip mismatch")
	}

	latest, err := s.LatestSnapshot(ctx, model.SourceZoomInfo)
	if err != nil {
		t.Fatalf("LatestSnapshot: %v", err)
	}
	if latest.ID != v2.ID || latest.Version != 2 {
		t.Errorf("latest = v%d (%s), want v2 (%s)", latest.Version, latest.ID, v2.ID)
	}

	if _, err := s.LatestSnapshot(ctx, model.SourceManual); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	// Snapshots are immutable: same id twice is an error.
	if err := s.SaveSnapshot(ctx, v1); err == nil {
		t.Errorf("re-saving a snapshot must fail")
	}
}

func TestReviewAuditTrail(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	rec := review.New("empresa.com", "result-1", "reviewer-1")
	if err := s.SaveReview(ctx, rec); err != nil {
		t.Fatalf("SaveReview: %v", err)
	}

	advanced, err := review.Apply(rec, review.Transition{To: model.ReviewInReview})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := s.SaveReview(ctx, advanced); err != nil {
		t.Fatalf("SaveReview update: %v", err)
	}

	got, err := s.GetReview(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetReview: %v", err)
	}
	if got.State != model.ReviewInReview {
		t.Errorf("state = %s, want en_revision", got.State)
	}

	// A successor review for the same domain joins the trail.
	successor := review.Successor(advanced, "result-2")
	successor.AssignedAt = rec.AssignedAt.Add(time.Minute)
	if err := s.SaveReview(ctx, successor); err != nil {
		t.Fatalf("SaveReview successor: %v", err)
	}

	trail, err := s.ListReviewsByDomain(ctx, "empresa.com")
	if err != nil {
		t.Fatalf("ListReviewsByDomain: %v", err)
	}
	if len(trail) != 2 {
		t.Fatalf("trail = %d records, want 2", len(trail))
	}
	// Oldest first.
	if trail[0].ID != rec.ID {
		t.Errorf("trail not ordered oldest first")
	}

	if _, err := s.GetReview(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
