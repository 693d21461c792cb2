package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/wfstage/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// CreateStage inserts a stage record.
func (s *SQLiteStore) CreateStage(ctx context.Context, rec *model.StageRecord) error {
	s.logger.Debug("sql", "op", "insert", "table", "stages", "id", rec.ID)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stages (id, name, workflow_id, workflow_type, raw, normalized, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.WorkflowID, rec.WorkflowType, rec.Raw, rec.Normalized,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// GetStage returns the record with the given id, or nil if absent.
func (s *SQLiteStore) GetStage(ctx context.Context, id string) (*model.StageRecord, error) {
	s.logger.Debug("sql", "op", "select", "table", "stages", "id", id)

	var rec model.StageRecord
	var createdAt string

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, workflow_id, workflow_type, raw, normalized, created_at
		 FROM stages WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Name, &rec.WorkflowID, &rec.WorkflowType, &rec.Raw, &rec.Normalized, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &rec, nil
}

// ListStages returns records newest first, plus the total count.
func (s *SQLiteStore) ListStages(ctx context.Context, opts model.ListOptions) ([]*model.StageRecord, int, error) {
	opts.Clamp()
	s.logger.Debug("sql", "op", "select", "table", "stages", "limit", opts.Limit, "offset", opts.Offset)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stages`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, workflow_id, workflow_type, raw, normalized, created_at
		 FROM stages ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var recs []*model.StageRecord
	for rows.Next() {
		var rec model.StageRecord
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.WorkflowID, &rec.WorkflowType,
			&rec.Raw, &rec.Normalized, &createdAt); err != nil {
			return nil, 0, err
		}
		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, 0, fmt.Errorf("parse created_at: %w", err)
		}
		recs = append(recs, &rec)
	}
	return recs, total, rows.Err()
}

// DeleteStage removes a record, reporting whether it existed.
func (s *SQLiteStore) DeleteStage(ctx context.Context, id string) (bool, error) {
	s.logger.Debug("sql", "op", "delete", "table", "stages", "id", id)

	res, err := s.db.ExecContext(ctx, `DELETE FROM stages WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
