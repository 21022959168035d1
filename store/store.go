// Package store persists event logs and simulation results in a local
// SQLite database. Payloads are stored as JSON documents keyed by UUID;
// the engine neither knows nor cares that this layer exists.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/flowmetriq/flowmetriq/sim"
)

// ErrNotFound is returned when a log or result ID does not exist.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS event_logs (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	uploaded_at TEXT NOT NULL,
	num_events  INTEGER NOT NULL,
	records     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS simulation_results (
	id         TEXT PRIMARY KEY,
	log_id     TEXT NOT NULL REFERENCES event_logs(id) ON DELETE CASCADE,
	created_at TEXT NOT NULL,
	result     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_log ON simulation_results(log_id);
`

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path with foreign keys
// on, and applies the schema.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=foreign_keys(1)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LogMeta describes a stored event log.
type LogMeta struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	UploadedAt time.Time `json:"uploaded_at"`
	NumEvents  int       `json:"num_events"`
}

// SaveLog stores a cleaned event log under a fresh UUID.
func (s *Store) SaveLog(ctx context.Context, name string, records []sim.Record) (LogMeta, error) {
	payload, err := json.Marshal(records)
	if err != nil {
		return LogMeta{}, fmt.Errorf("encoding records: %w", err)
	}
	meta := LogMeta{
		ID:         uuid.NewString(),
		Name:       name,
		UploadedAt: time.Now().UTC(),
		NumEvents:  len(records),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO event_logs (id, name, uploaded_at, num_events, records) VALUES (?, ?, ?, ?, ?)`,
		meta.ID, meta.Name, meta.UploadedAt.Format(time.RFC3339Nano), meta.NumEvents, string(payload))
	if err != nil {
		return LogMeta{}, fmt.Errorf("inserting event log: %w", err)
	}
	return meta, nil
}

// GetLog returns the stored records and metadata for a log ID.
func (s *Store) GetLog(ctx context.Context, id string) ([]sim.Record, LogMeta, error) {
	var meta LogMeta
	var uploadedAt, payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, uploaded_at, num_events, records FROM event_logs WHERE id = ?`, id).
		Scan(&meta.ID, &meta.Name, &uploadedAt, &meta.NumEvents, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, LogMeta{}, ErrNotFound
	}
	if err != nil {
		return nil, LogMeta{}, fmt.Errorf("loading event log: %w", err)
	}
	meta.UploadedAt, err = time.Parse(time.RFC3339Nano, uploadedAt)
	if err != nil {
		return nil, LogMeta{}, fmt.Errorf("parsing uploaded_at: %w", err)
	}
	var records []sim.Record
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, LogMeta{}, fmt.Errorf("decoding records: %w", err)
	}
	return records, meta, nil
}

// ListLogs returns metadata for all stored logs, newest first.
func (s *Store) ListLogs(ctx context.Context) ([]LogMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, uploaded_at, num_events FROM event_logs ORDER BY uploaded_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing event logs: %w", err)
	}
	defer rows.Close()

	var metas []LogMeta
	for rows.Next() {
		var meta LogMeta
		var uploadedAt string
		if err := rows.Scan(&meta.ID, &meta.Name, &uploadedAt, &meta.NumEvents); err != nil {
			return nil, err
		}
		meta.UploadedAt, err = time.Parse(time.RFC3339Nano, uploadedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing uploaded_at: %w", err)
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// DeleteLog removes a log and, via cascade, its simulation results.
func (s *Store) DeleteLog(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM event_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting event log: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ResultMeta describes a stored simulation result.
type ResultMeta struct {
	ID        string    `json:"id"`
	LogID     string    `json:"log_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveResult stores a simulation result against the log it was run from.
func (s *Store) SaveResult(ctx context.Context, logID string, result *sim.SimulationResult) (ResultMeta, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return ResultMeta{}, fmt.Errorf("encoding result: %w", err)
	}
	meta := ResultMeta{
		ID:        uuid.NewString(),
		LogID:     logID,
		CreatedAt: time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO simulation_results (id, log_id, created_at, result) VALUES (?, ?, ?, ?)`,
		meta.ID, meta.LogID, meta.CreatedAt.Format(time.RFC3339Nano), string(payload))
	if err != nil {
		return ResultMeta{}, fmt.Errorf("inserting result: %w", err)
	}
	return meta, nil
}

// GetResult loads a stored simulation result by ID.
func (s *Store) GetResult(ctx context.Context, id string) (*sim.SimulationResult, ResultMeta, error) {
	var meta ResultMeta
	var createdAt, payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, log_id, created_at, result FROM simulation_results WHERE id = ?`, id).
		Scan(&meta.ID, &meta.LogID, &createdAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ResultMeta{}, ErrNotFound
	}
	if err != nil {
		return nil, ResultMeta{}, fmt.Errorf("loading result: %w", err)
	}
	meta.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, ResultMeta{}, fmt.Errorf("parsing created_at: %w", err)
	}
	var result sim.SimulationResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, ResultMeta{}, fmt.Errorf("decoding result: %w", err)
	}
	return &result, meta, nil
}

// ListResults returns result metadata for one log, newest first.
func (s *Store) ListResults(ctx context.Context, logID string) ([]ResultMeta, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, log_id, created_at FROM simulation_results WHERE log_id = ? ORDER BY created_at DESC, id`, logID)
	if err != nil {
		return nil, fmt.Errorf("listing results: %w", err)
	}
	defer rows.Close()

	var metas []ResultMeta
	for rows.Next() {
		var meta ResultMeta
		var createdAt string
		if err := rows.Scan(&meta.ID, &meta.LogID, &createdAt); err != nil {
			return nil, err
		}
		meta.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}
