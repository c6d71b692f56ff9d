package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prospectscan/prospectscan/internal/batch"
	"github.com/prospectscan/prospectscan/internal/ingest"
	"github.com/prospectscan/prospectscan/internal/logging"
	"github.com/prospectscan/prospectscan/internal/model"
	"github.com/prospectscan/prospectscan/internal/reformulator"
	"github.com/prospectscan/prospectscan/internal/review"
	"github.com/prospectscan/prospectscan/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"service":          "prospectscan",
		"rule_set_version": s.engine.Table().Version(),
		"reformulator":     s.reformer != nil,
	})
}

func (s *Server) handleGetRules(w http.ResponseWriter, r *http.Request) {
	t := s.engine.Table()
	writeJSON(w, http.StatusOK, map[string]any{
		"version":  t.Version(),
		"fallback": t.Fallback(),
		"rules":    t.Entries(),
	})
}

func (s *Server) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Catalog())
}

// --- analysis ---

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.Context.Domain == "" && body.Posture.Domain == "" {
		writeError(w, http.StatusBadRequest, "context or posture must carry a domain")
		return
	}

	res := s.engine.CrossReference(body.Context, body.Posture)

	if body.Persist {
		if err := s.store.SaveResult(r.Context(), res); err != nil && !errors.Is(err, store.ErrDuplicateResult) {
			s.logger.Warn("persisting result", logging.Field{Key: "error", Value: err.Error()})
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	s.logger.Info("cross-reference computed",
		logging.Field{Key: "domain", Value: res.Domain},
		logging.Field{Key: "priority", Value: string(res.Priority)})
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var body batchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(body.Items) == 0 {
		writeError(w, http.StatusBadRequest, "empty batch")
		return
	}
	if len(body.Items) > maxBatchSize {
		writeError(w, http.StatusBadRequest, "batch exceeds "+strconv.Itoa(maxBatchSize)+" domains")
		return
	}

	items := make([]batch.Item, len(body.Items))
	for i, it := range body.Items {
		items[i] = batch.Item{Domain: it.Domain, Context: it.Context, Posture: it.Posture}
	}
	results := s.runner.Run(r.Context(), items, nil)

	if body.Persist {
		for _, dr := range results {
			if dr.Result == nil {
				continue
			}
			if err := s.store.SaveResult(r.Context(), *dr.Result); err != nil && !errors.Is(err, store.ErrDuplicateResult) {
				s.logger.Warn("persisting batch result",
					logging.Field{Key: "domain", Value: dr.Domain},
					logging.Field{Key: "error", Value: err.Error()})
			}
		}
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleAnalyzeEmails(w http.ResponseWriter, r *http.Request) {
	var body emailsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(body.Emails) == 0 || len(body.Emails) > maxBatchSize {
		writeError(w, http.StatusBadRequest, "between 1 and "+strconv.Itoa(maxBatchSize)+" emails required")
		return
	}
	domains := ingest.UniqueDomains(body.Emails)
	if len(domains) == 0 {
		writeError(w, http.StatusBadRequest, "no valid company domains in email list")
		return
	}
	writeJSON(w, http.StatusOK, emailsResponse{Domains: domains})
}

func (s *Server) handleDerive(w http.ResponseWriter, r *http.Request) {
	var body deriveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.Record.Domain == "" {
		writeError(w, http.StatusBadRequest, "record domain is required")
		return
	}
	writeJSON(w, http.StatusOK, s.deriver.Derive(body.Record))
}

// --- snapshots ---

func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	var body snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.Source == "" {
		body.Source = model.SourceManual
	}

	var prev *model.Snapshot
	if latest, err := s.store.LatestSnapshot(r.Context(), body.Source); err == nil {
		prev = &latest
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	snap := ingest.BuildSnapshot(body.Source, body.Records, prev)
	if err := s.store.SaveSnapshot(r.Context(), snap); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "snapshotID")
	snap, err := s.store.GetSnapshot(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "snapshot not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// --- decision records ---

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	results, err := s.store.ListResults(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "resultID")
	res, err := s.store.GetResult(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "result not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleLatestResult(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	res, err := s.store.LatestResultByDomain(r.Context(), domain)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "no results for domain")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// --- human review ---

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var body reviewCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.ResultID == "" || body.ReviewerID == "" {
		writeError(w, http.StatusBadRequest, "result_id and reviewer_id are required")
		return
	}

	res, err := s.store.GetResult(r.Context(), body.ResultID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "result not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	rec := review.New(res.Domain, res.ID, body.ReviewerID)
	if err := s.store.SaveReview(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleTransitionReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "reviewID")

	var body reviewTransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	rec, err := s.store.GetReview(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "review not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	next, err := review.Apply(rec, review.Transition{
		To:               body.To,
		Notes:            body.Notes,
		PriorityOverride: body.PriorityOverride,
		RefreshReason:    body.RefreshReason,
		ReferenceURL:     body.ReferenceURL,
	})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.store.SaveReview(r.Context(), next); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("review transitioned",
		logging.Field{Key: "review_id", Value: next.ID},
		logging.Field{Key: "state", Value: string(next.State)})
	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	recs, err := s.store.ListReviewsByDomain(r.Context(), domain)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// --- reformulation ---

func (s *Server) handleReformulate(w http.ResponseWriter, r *http.Request) {
	if s.reformer == nil {
		writeError(w, http.StatusServiceUnavailable, "reformulator not configured")
		return
	}
	id := chi.URLParam(r, "resultID")

	var body reformulateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	aud := reformulator.Audience(body.Audience)
	if !reformulator.ValidAudience(aud) {
		writeError(w, http.StatusBadRequest, "unknown audience")
		return
	}

	res, err := s.store.GetResult(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "result not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	text, err := s.reformer.Reformulate(r.Context(), res, aud)
	if err != nil {
		// The decision record stays valid; only the rewrite failed.
		s.logger.Warn("reformulation failed",
			logging.Field{Key: "result_id", Value: id},
			logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reformulateResponse{ResultID: id, Audience: string(aud), Text: text})
}
