package jobstore

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

	"github.com/vcutpro/vcut/internal/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	id         TEXT PRIMARY KEY,
	status     TEXT NOT NULL,
	progress   INTEGER NOT NULL DEFAULT 0,
	stage      TEXT NOT NULL DEFAULT '',
	mode       TEXT NOT NULL DEFAULT '',
	clips      TEXT NOT NULL DEFAULT '[]',
	error      TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);
`

// SQLiteStore persists jobs in a local sqlite database so job state
// survives restarts.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open job store: %w", err)
	}
	// modernc sqlite serializes writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, job *Job) error {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	clips, err := json.Marshal(job.Clips)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, status, progress, stage, mode, clips, error, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID, string(job.Status), job.Progress, job.Stage, job.Mode,
		string(clips), job.Error,
		job.CreatedAt.Format(time.RFC3339Nano), job.UpdatedAt.Format(time.RFC3339Nano),
	)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, progress, stage, mode, clips, error, created_at, updated_at
		 FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return job, err
}

func (s *SQLiteStore) Update(ctx context.Context, job *Job) error {
	job.UpdatedAt = time.Now().UTC()

	clips, err := json.Marshal(job.Clips)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, progress = ?, stage = ?, mode = ?, clips = ?, error = ?, updated_at = ?
		 WHERE id = ?`,
		string(job.Status), job.Progress, job.Stage, job.Mode,
		string(clips), job.Error, job.UpdatedAt.Format(time.RFC3339Nano),
		job.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, progress, stage, mode, clips, error, created_at, updated_at
		 FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*Job, error) {
	var (
		job        Job
		status     string
		clipsJSON  string
		createdRaw string
		updatedRaw string
	)
	if err := row.Scan(&job.ID, &status, &job.Progress, &job.Stage, &job.Mode,
		&clipsJSON, &job.Error, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	job.Status = Status(status)
	job.Clips = []types.ClipResult{}
	if err := json.Unmarshal([]byte(clipsJSON), &job.Clips); err != nil {
		return nil, fmt.Errorf("decode clips for job %s: %w", job.ID, err)
	}
	var err error
	if job.CreatedAt, err = time.Parse(time.RFC3339Nano, createdRaw); err != nil {
		return nil, err
	}
	if job.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedRaw); err != nil {
		return nil, err
	}
	return &job, nil
}

var _ Store = (*SQLiteStore)(nil)
