// Package storage persists assessments to a local SQLite file so a clinic
// can review past results across sessions.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"risk-assessor/internal/models"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS assessments (
	id          TEXT PRIMARY KEY,
	features    TEXT    NOT NULL,
	risk        INTEGER NOT NULL,
	probability REAL    NOT NULL,
	created_at  INTEGER NOT NULL,
	duration_us INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assessments_created_at ON assessments (created_at);
`

// HistoryStore is the SQLite-backed assessment log.
type HistoryStore struct {
	db *sql.DB
}

// Open creates the database file and its parent directory if needed.
func Open(path string) (*HistoryStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &HistoryStore{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func (s *HistoryStore) Save(ctx context.Context, a models.Assessment) error {
	features, err := json.Marshal([]float64(a.Features))
	if err != nil {
		return fmt.Errorf("encode features: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assessments (id, features, risk, probability, created_at, duration_us)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, string(features), int(a.Risk), a.Probability,
		a.CreatedAt.UnixMicro(), a.Duration.Microseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert assessment %s: %w", a.ID, err)
	}
	return nil
}

// Recent returns up to limit assessments, newest first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]models.Assessment, error) {
	if limit <= 0 {
		limit = models.DefaultHistorySize
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, features, risk, probability, created_at, duration_us
		 FROM assessments ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	var out []models.Assessment
	for rows.Next() {
		var (
			a          models.Assessment
			features   string
			risk       int
			createdAt  int64
			durationUS int64
		)
		if err := rows.Scan(&a.ID, &features, &risk, &a.Probability, &createdAt, &durationUS); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		var values []float64
		if err := json.Unmarshal([]byte(features), &values); err != nil {
			return nil, fmt.Errorf("decode features of %s: %w", a.ID, err)
		}
		a.Features = models.FeatureVector(values)
		a.Risk = models.RiskFromClass(risk)
		a.CreatedAt = time.UnixMicro(createdAt)
		a.Duration = time.Duration(durationUS) * time.Microsecond
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *HistoryStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assessments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assessments: %w", err)
	}
	return n, nil
}

func (s *HistoryStore) Close() error {
	return s.db.Close()
}
