// Package store keeps a history of program runs in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bloch-lang/bloch/internal/pipeline"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	file       TEXT NOT NULL,
	seed       TEXT NOT NULL,
	version    TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	output     TEXT NOT NULL,
	qasm       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS measurements (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	seq    INTEGER NOT NULL,
	line   INTEGER NOT NULL,
	col    INTEGER NOT NULL,
	kind   TEXT NOT NULL,
	bit    INTEGER NOT NULL,
	PRIMARY KEY (run_id, seq)
);
CREATE TABLE IF NOT EXISTS qubits (
	run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	idx      INTEGER NOT NULL,
	name     TEXT NOT NULL,
	measured INTEGER NOT NULL,
	PRIMARY KEY (run_id, idx)
);
CREATE INDEX IF NOT EXISTS runs_created_at ON runs(created_at);
`

// Run is one stored execution.
type Run struct {
	ID        string
	File      string
	Seed      uint64
	Version   string
	CreatedAt time.Time
	Output    string
	Qasm      string

	Measurements []pipeline.Measurement
	Qubits       []pipeline.QubitRecord
}

// Unmeasured returns the names of qubits that were never measured.
func (r *Run) Unmeasured() []string {
	var names []string
	for _, q := range r.Qubits {
		if !q.Measured {
			names = append(names, q.Name)
		}
	}
	return names
}

// FromContext builds a Run from the artefacts of a finished pipeline.
func FromContext(ctx *pipeline.PipelineContext, output, version string) Run {
	return Run{
		ID:           ctx.RunID,
		File:         ctx.FilePath,
		Seed:         ctx.Seed,
		Version:      version,
		CreatedAt:    time.Now(),
		Output:       output,
		Qasm:         ctx.Qasm,
		Measurements: ctx.Measurements,
		Qubits:       ctx.Qubits,
	}
}

type Store struct {
	db     *sql.DB
	Logger *slog.Logger
}

// Open opens the database at path, creating the file, its directory and the
// schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history %s: %w", path, err)
	}
	// SQLite allows one writer; serialising here avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db, Logger: slog.Default()}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores run with its measurement trace and qubit table.
func (s *Store) SaveRun(ctx context.Context, run Run) (err error) {
	if run.ID == "" {
		return errors.New("saving run: empty id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, file, seed, version, created_at, output, qasm) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.File, strconv.FormatUint(run.Seed, 10), run.Version, run.CreatedAt.UnixNano(), run.Output, run.Qasm)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}

	for i, m := range run.Measurements {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO measurements (run_id, seq, line, col, kind, bit) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, i, m.Line, m.Column, m.Kind, m.Bit)
		if err != nil {
			return fmt.Errorf("saving measurement %d of run %s: %w", i, run.ID, err)
		}
	}

	for _, q := range run.Qubits {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO qubits (run_id, idx, name, measured) VALUES (?, ?, ?, ?)`,
			run.ID, q.Index, q.Name, q.Measured)
		if err != nil {
			return fmt.Errorf("saving qubit %d of run %s: %w", q.Index, run.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	s.Logger.Info("run saved", "id", run.ID, "file", run.File,
		"measurements", len(run.Measurements), "qubits", len(run.Qubits))
	return nil
}

// GetRun loads a run with its measurement trace and qubit table. It returns
// ErrNotFound when no run has the given id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, file, seed, version, created_at, output, qasm FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", id, err)
	}

	if run.Measurements, err = s.measurements(ctx, id); err != nil {
		return nil, err
	}
	if run.Qubits, err = s.qubits(ctx, id); err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. Measurement traces and
// qubit tables are not loaded.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file, seed, version, created_at, output, qasm FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("listing runs: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		run     Run
		seed    string
		created int64
	)
	if err := sc.Scan(&run.ID, &run.File, &seed, &run.Version, &created, &run.Output, &run.Qasm); err != nil {
		return nil, err
	}
	n, err := strconv.ParseUint(seed, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad seed %q: %w", seed, err)
	}
	run.Seed = n
	run.CreatedAt = time.Unix(0, created)
	return &run, nil
}

func (s *Store) measurements(ctx context.Context, id string) ([]pipeline.Measurement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT line, col, kind, bit FROM measurements WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("loading measurements of run %s: %w", id, err)
	}
	defer rows.Close()

	var out []pipeline.Measurement
	for rows.Next() {
		var m pipeline.Measurement
		if err := rows.Scan(&m.Line, &m.Column, &m.Kind, &m.Bit); err != nil {
			return nil, fmt.Errorf("loading measurements of run %s: %w", id, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) qubits(ctx context.Context, id string) ([]pipeline.QubitRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, name, measured FROM qubits WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("loading qubits of run %s: %w", id, err)
	}
	defer rows.Close()

	var out []pipeline.QubitRecord
	for rows.Next() {
		var q pipeline.QubitRecord
		if err := rows.Scan(&q.Index, &q.Name, &q.Measured); err != nil {
			return nil, fmt.Errorf("loading qubits of run %s: %w", id, err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
