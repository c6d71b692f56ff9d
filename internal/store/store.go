// Package store is the persistence collaborator: snapshots, decision records
// and review overlays in SQLite. Full records are serialized as JSON
// payloads next to the columns queries filter on; the engine itself never
// touches this package.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prospectscan/prospectscan/internal/logging"
	"github.com/prospectscan/prospectscan/internal/model"

	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed schema.sql
var schemaFS embed.FS

var (
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateResult is returned when a (domain, timestamp) pair is
	// written twice; the unique index enforces at-most-once per analysis.
	ErrDuplicateResult = errors.New("store: result already persisted for this domain and timestamp")
)

// Store wraps the SQLite handle.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" style DSNs in tests.
func Open(path string, logger logging.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening database: %w", err)
	}
	return New(db, logger)
}

// New wraps an existing handle and applies the schema.
func New(db *sql.DB, logger logging.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("store: db is nil")
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("store")
	}
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return nil, fmt.Errorf("store: reading schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return nil, fmt.Errorf("store: applying schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying handle.
func (s *Store) Close() error { return s.db.Close() }

// --- snapshots ---

// SaveSnapshot persists an ingested batch. Snapshots are immutable: saving
// the same id twice is an error.
func (s *Store) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("store: marshaling snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, source, ingested_at, version, checksum, total_records, new_records, updated_records, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, string(snap.Source), snap.IngestedAt.Format(time.RFC3339Nano),
		snap.Version, snap.Checksum, snap.TotalRecords, snap.NewRecords, snap.UpdatedRecords,
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("store: inserting snapshot %s: %w", snap.ID, err)
	}
	s.logger.Info("snapshot persisted",
		logging.Field{Key: "snapshot_id", Value: snap.ID},
		logging.Field{Key: "version", Value: snap.Version},
		logging.Field{Key: "records", Value: snap.TotalRecords})
	return nil
}

// GetSnapshot loads a snapshot by id.
func (s *Store) GetSnapshot(ctx context.Context, id string) (model.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("store: loading snapshot %s: %w", id, err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("store: decoding snapshot %s: %w", id, err)
	}
	return snap, nil
}

// LatestSnapshot loads the highest-version snapshot for a source.
func (s *Store) LatestSnapshot(ctx context.Context, source model.DataSource) (model.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM snapshots WHERE source = ?
		ORDER BY version DESC LIMIT 1`, string(source)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("store: loading latest snapshot for %s: %w", source, err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("store: decoding snapshot: %w", err)
	}
	return snap, nil
}

// --- decision records ---

// SaveResult persists a decision record. The (domain, timestamp) unique
// index makes the write at-most-once; a second attempt returns
// ErrDuplicateResult.
func (s *Store) SaveResult(ctx context.Context, res model.CrossReferenceResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("store: marshaling result: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO results (id, domain, cross_referenced_at, rule_set_version, priority, opportunity_score, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.Domain, res.CrossReferencedAt.Format(time.RFC3339Nano),
		res.RuleSetVersion, string(res.Priority), res.OpportunityScore, string(payload),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateResult
		}
		return fmt.Errorf("store: inserting result for %s: %w", res.Domain, err)
	}
	return nil
}

// GetResult loads a decision record by id.
func (s *Store) GetResult(ctx context.Context, id string) (model.CrossReferenceResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM results WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CrossReferenceResult{}, ErrNotFound
	}
	if err != nil {
		return model.CrossReferenceResult{}, fmt.Errorf("store: loading result %s: %w", id, err)
	}
	return decodeResult(payload)
}

// LatestResultByDomain loads the most recent decision record for a domain.
func (s *Store) LatestResultByDomain(ctx context.Context, domain string) (model.CrossReferenceResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM results WHERE domain = ?
		ORDER BY cross_referenced_at DESC LIMIT 1`, domain).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CrossReferenceResult{}, ErrNotFound
	}
	if err != nil {
		return model.CrossReferenceResult{}, fmt.Errorf("store: loading latest result for %s: %w", domain, err)
	}
	return decodeResult(payload)
}

// ListResults returns up to limit decision records, most recent first.
// limit <= 0 means a sane default page.
func (s *Store) ListResults(ctx context.Context, limit int) ([]model.CrossReferenceResult, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM results
		ORDER BY cross_referenced_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: listing results: %w", err)
	}
	defer rows.Close()

	var out []model.CrossReferenceResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("store: scanning result row: %w", err)
		}
		res, err := decodeResult(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Stats aggregates counts per priority plus totals, for the stats endpoint.
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	stats := map[string]int{}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&total); err != nil {
		return nil, fmt.Errorf("store: counting results: %w", err)
	}
	stats["total_results"] = total

	rows, err := s.db.QueryContext(ctx, `SELECT priority, COUNT(*) FROM results GROUP BY priority`)
	if err != nil {
		return nil, fmt.Errorf("store: counting by priority: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p string
		var n int
		if err := rows.Scan(&p, &n); err != nil {
			return nil, fmt.Errorf("store: scanning priority count: %w", err)
		}
		stats["priority_"+p] = n
	}

	var snaps int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&snaps); err != nil {
		return nil, fmt.Errorf("store: counting snapshots: %w", err)
	}
	stats["total_snapshots"] = snaps

	return stats, rows.Err()
}

// --- reviews ---

// SaveReview inserts or updates one review record. Superseded reviews are
// never deleted; the audit trail keeps every record.
func (s *Store) SaveReview(ctx context.Context, rec model.ReviewRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: marshaling review: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO reviews (id, result_id, domain, state, reviewer_id, assigned_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET state = excluded.state, payload = excluded.payload`,
		rec.ID, rec.ResultID, rec.Domain, string(rec.State), rec.ReviewerID,
		rec.AssignedAt.Format(time.RFC3339Nano), string(payload),
	)
	if err != nil {
		return fmt.Errorf("store: saving review %s: %w", rec.ID, err)
	}
	return nil
}

// GetReview loads a review record by id.
func (s *Store) GetReview(ctx context.Context, id string) (model.ReviewRecord, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM reviews WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ReviewRecord{}, ErrNotFound
	}
	if err != nil {
		return model.ReviewRecord{}, fmt.Errorf("store: loading review %s: %w", id, err)
	}
	var rec model.ReviewRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return model.ReviewRecord{}, fmt.Errorf("store: decoding review %s: %w", id, err)
	}
	return rec, nil
}

// ListReviewsByDomain returns every review for a domain, oldest first, for
// the audit trail.
func (s *Store) ListReviewsByDomain(ctx context.Context, domain string) ([]model.ReviewRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM reviews WHERE domain = ? ORDER BY assigned_at ASC`, domain)
	if err != nil {
		return nil, fmt.Errorf("store: listing reviews for %s: %w", domain, err)
	}
	defer rows.Close()

	var out []model.ReviewRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("store: scanning review row: %w", err)
		}
		var rec model.ReviewRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("store: decoding review: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func decodeResult(payload string) (model.CrossReferenceResult, error) {
	var res model.CrossReferenceResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return model.CrossReferenceResult{}, fmt.Errorf("store: decoding result: %w", err)
	}
	return res, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
