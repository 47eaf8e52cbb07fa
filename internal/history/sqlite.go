package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore keeps records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (or creates) the database at path and its parent
// directory.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		language TEXT,
		code_input TEXT,
		code_output TEXT,
		report_json TEXT,
		score INTEGER,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_user ON history(user_id);
	CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) Save(ctx context.Context, rec Record) (string, error) {
	rec, err := prepare(rec, time.Now())
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var report any
	if len(rec.Report) > 0 {
		report = string(rec.Report)
	}
	_, err = s.db.ExecContext(ctx, `
	INSERT INTO history (id, user_id, type, title, language, code_input, code_output, report_json, score, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, string(rec.Kind), rec.Title, rec.Language,
		rec.Input, rec.Output, report, rec.Score, rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("save history record: %w", err)
	}
	return rec.ID, nil
}

const selectColumns = `SELECT id, user_id, type, title, language, code_input, code_output, report_json, score, created_at FROM history`

func (s *SQLiteStore) List(ctx context.Context, opts ListOptions) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectColumns + ` WHERE user_id = ?`
	args := []any{opts.UserID}
	if opts.Kind != "" {
		query += ` AND type = ?`
		args = append(args, string(opts.Kind))
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limitOrDefault(opts.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Get(ctx context.Context, userID, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE user_id = ? AND id = ?`, userID, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

func (s *SQLiteStore) Rename(ctx context.Context, userID, id, title string) error {
	return s.exec(ctx, id, `UPDATE history SET title = ? WHERE id = ? AND user_id = ?`, title, id, userID)
}

func (s *SQLiteStore) Delete(ctx context.Context, userID, id string) error {
	return s.exec(ctx, id, `DELETE FROM history WHERE id = ? AND user_id = ?`, id, userID)
}

// exec runs a statement that must touch exactly the record id.
func (s *SQLiteStore) exec(ctx context.Context, id, query string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update history: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec                     Record
		kind, createdAt         string
		language, input, output sql.NullString
		report                  sql.NullString
		score                   sql.NullInt64
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &kind, &rec.Title, &language, &input, &output, &report, &score, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan history record: %w", err)
	}

	rec.Kind = Kind(kind)
	rec.Language = language.String
	rec.Input = input.String
	rec.Output = output.String
	if report.Valid && report.String != "" {
		rec.Report = []byte(report.String)
	}
	if score.Valid {
		v := int(score.Int64)
		rec.Score = &v
	}
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return Record{}, fmt.Errorf("parse created_at: %w", err)
	}
	rec.CreatedAt = t
	return rec, nil
}
