// Package store persists synthesis runs and their traceability rows in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/ppiankov/specsynth/internal/model"
)

// Run summarizes one synthesis run
type Run struct {
	ID           string
	GeneratedAt  time.Time
	ConfigMode   model.ConfigMode
	ClusterCount int
	ClaimCount   int
}

// Store is a SQLite-backed traceability history
type Store struct {
	conn   *sql.DB
	logger *zap.Logger
	dbPath string
}

// Open opens or creates the database at dbPath
func Open(dbPath string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open traceability database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{conn: conn, logger: logger, dbPath: dbPath}
	if err := s.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize traceability schema: %w", err)
	}

	logger.Debug("traceability database opened", zap.String("path", dbPath))
	return s, nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			generated_at TEXT NOT NULL,
			config_mode TEXT NOT NULL,
			cluster_count INTEGER NOT NULL,
			claim_count INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_runs_generated_at ON runs(generated_at DESC);

		CREATE TABLE IF NOT EXISTS traceability (
			run_id TEXT NOT NULL REFERENCES runs(run_id) ON DELETE CASCADE,
			canonical_spec TEXT NOT NULL,
			claim_id TEXT NOT NULL,
			statement TEXT NOT NULL,
			source_path TEXT NOT NULL,
			source_heading TEXT NOT NULL,
			short_quote TEXT NOT NULL,
			status TEXT NOT NULL,
			PRIMARY KEY (run_id, canonical_spec, claim_id)
		);
		CREATE INDEX IF NOT EXISTS idx_traceability_source ON traceability(source_path);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.dbPath
}

// SaveRun records a run and all of its traceability rows in one transaction
func (s *Store) SaveRun(ctx context.Context, run Run, rows []model.TraceabilityRow) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, generated_at, config_mode, cluster_count, claim_count) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.GeneratedAt.UTC().Format(time.RFC3339), string(run.ConfigMode), run.ClusterCount, run.ClaimCount,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO traceability (run_id, canonical_spec, claim_id, statement, source_path, source_heading, short_quote, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare traceability insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, run.ID, r.CanonicalSpec, r.ClaimID, r.Statement,
			r.SourcePath, r.SourceHeading, r.ShortQuote, string(r.Status)); err != nil {
			return fmt.Errorf("insert claim %s: %w", r.ClaimID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}

	s.logger.Info("run recorded",
		zap.String("run_id", run.ID),
		zap.Int("clusters", run.ClusterCount),
		zap.Int("claims", len(rows)))
	return nil
}

// LatestRun returns the most recently generated run
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT run_id, generated_at, config_mode, cluster_count, claim_count
		FROM runs ORDER BY generated_at DESC, rowid DESC LIMIT 1
	`)

	var (
		run       Run
		generated string
		mode      string
	)
	if err := row.Scan(&run.ID, &generated, &mode, &run.ClusterCount, &run.ClaimCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query latest run: %w", err)
	}

	t, err := time.Parse(time.RFC3339, generated)
	if err != nil {
		return nil, fmt.Errorf("parse generated_at %q: %w", generated, err)
	}
	run.GeneratedAt = t
	run.ConfigMode = model.ConfigMode(mode)
	return &run, nil
}

// Rows returns the traceability rows of a run in insertion order
func (s *Store) Rows(ctx context.Context, runID string) ([]model.TraceabilityRow, error) {
	rs, err := s.conn.QueryContext(ctx, `
		SELECT canonical_spec, claim_id, statement, source_path, source_heading, short_quote, status
		FROM traceability WHERE run_id = ? ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query traceability: %w", err)
	}
	defer func() { _ = rs.Close() }()

	var rows []model.TraceabilityRow
	for rs.Next() {
		var (
			r      model.TraceabilityRow
			status string
		)
		if err := rs.Scan(&r.CanonicalSpec, &r.ClaimID, &r.Statement, &r.SourcePath,
			&r.SourceHeading, &r.ShortQuote, &status); err != nil {
			return nil, fmt.Errorf("scan traceability row: %w", err)
		}
		r.Status = model.TraceStatus(status)
		rows = append(rows, r)
	}
	return rows, rs.Err()
}

// SourceHistory counts recorded claims per run for one source document
func (s *Store) SourceHistory(ctx context.Context, sourcePath string) (map[string]int, error) {
	rs, err := s.conn.QueryContext(ctx, `
		SELECT run_id, COUNT(*) FROM traceability WHERE source_path = ? GROUP BY run_id
	`, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("query source history: %w", err)
	}
	defer func() { _ = rs.Close() }()

	history := make(map[string]int)
	for rs.Next() {
		var (
			runID string
			n     int
		)
		if err := rs.Scan(&runID, &n); err != nil {
			return nil, fmt.Errorf("scan source history: %w", err)
		}
		history[runID] = n
	}
	return history, rs.Err()
}
