package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ksenkov/verdikt/internal/model"
)

// SQLiteStore persists verifications and fingerprint history in a local
// SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS verifications (
	id                 TEXT PRIMARY KEY,
	overall_confidence REAL NOT NULL,
	trust_label        TEXT NOT NULL,
	retry_count        INTEGER NOT NULL,
	processing_time_ms REAL NOT NULL,
	created_at         TIMESTAMP NOT NULL,
	payload            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS fingerprints (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	source_id   TEXT NOT NULL,
	fingerprint TEXT NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fingerprints_source ON fingerprints(source_id, id DESC);
`

// OpenSQLite opens (and if needed initializes) the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	// modernc sqlite handles one writer; serialize access.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveResult(ctx context.Context, r *model.VerificationResult) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO verifications
			(id, overall_confidence, trust_label, retry_count, processing_time_ms, created_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.VerificationID, r.OverallConfidence, string(r.TrustLabel),
		r.RetryCount, r.ProcessingTimeMs, r.CreatedAt.UTC(), string(payload))
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetResult(ctx context.Context, id string) (*model.VerificationResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM verifications WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load result: %w", err)
	}
	var r model.VerificationResult
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &r, nil
}

// ListResults returns the most recent results, newest first.
func (s *SQLiteStore) ListResults(ctx context.Context, limit int) ([]model.VerificationResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM verifications ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()
	var out []model.VerificationResult
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var r model.VerificationResult
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetLatest(ctx context.Context, sourceID string) (string, bool, error) {
	var fp string
	err := s.db.QueryRowContext(ctx, `
		SELECT fingerprint FROM fingerprints
		WHERE source_id = ? ORDER BY id DESC LIMIT 1`, sourceID).Scan(&fp)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load fingerprint: %w", err)
	}
	return fp, true, nil
}

func (s *SQLiteStore) Record(ctx context.Context, sourceID, fingerprint string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fingerprints (source_id, fingerprint, recorded_at)
		VALUES (?, ?, ?)`, sourceID, fingerprint, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record fingerprint: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
