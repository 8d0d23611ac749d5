// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// The dataset is NOT normalised into relational tables. Each collection
// is stored as one JSON payload in a key/value "state" table:
//
//	bucket          | payload
//	────────────────┼──────────────────────────
//	persons         | [ {...}, {...} ]
//	firestations    | [ {...} ]
//	medicalrecords  | [ {...} ]
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/safety-alerts/internal/storage"
	"github.com/aanand-mishra/safety-alerts/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

var _ storage.Storage = (*SQLite)(nil)

// Bucket names double as the JSON keys of the persisted document.
const (
	bucketPersons        = "persons"
	bucketFireStations   = "firestations"
	bucketMedicalRecords = "medicalrecords"
)

// SQLite is the concrete SQLite implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at path, creates the state table if it
// does not already exist, and returns a ready-to-use *SQLite.
func New(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite.New: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("sqlite.New: create dirs: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Idempotent; runs on every startup.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS state (
			bucket  TEXT PRIMARY KEY,
			payload BLOB NOT NULL
		)
	`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Read assembles the dataset from the three buckets.
// An empty table means nothing was ever written: that is storage.ErrEmpty,
// not an empty dataset, so the caller can decide whether to seed.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Read(ctx context.Context) (types.Dataset, error) {
	rows, err := s.Db.QueryContext(ctx, "SELECT bucket, payload FROM state")
	if err != nil {
		return types.Dataset{}, fmt.Errorf("Read: query: %w", err)
	}
	defer rows.Close()

	var ds types.Dataset
	found := 0

	for rows.Next() {
		var (
			bucket  string
			payload []byte
		)
		if err := rows.Scan(&bucket, &payload); err != nil {
			return types.Dataset{}, fmt.Errorf("Read: scan row: %w", err)
		}

		var target any
		switch bucket {
		case bucketPersons:
			target = &ds.Persons
		case bucketFireStations:
			target = &ds.FireStations
		case bucketMedicalRecords:
			target = &ds.MedicalRecords
		default:
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return types.Dataset{}, fmt.Errorf("Read: decode %s: %w", bucket, err)
		}
		found++
	}

	if err := rows.Err(); err != nil {
		return types.Dataset{}, fmt.Errorf("Read: rows iteration: %w", err)
	}
	if found == 0 {
		return types.Dataset{}, fmt.Errorf("Read: %w", storage.ErrEmpty)
	}

	return ds, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Write upserts all three buckets inside one transaction. Either every
// collection is replaced or none is.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Write(ctx context.Context, ds types.Dataset) (retErr error) {
	payloads := make(map[string][]byte, 3)
	for bucket, v := range map[string]any{
		bucketPersons:        ds.Persons,
		bucketFireStations:   ds.FireStations,
		bucketMedicalRecords: ds.MedicalRecords,
	} {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("Write: encode %s: %w", bucket, err)
		}
		payloads[bucket] = b
	}

	tx, err := s.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Write: begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO state (bucket, payload) VALUES (?, ?)
		 ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
	)
	if err != nil {
		return fmt.Errorf("Write: prepare: %w", err)
	}
	defer stmt.Close()

	for _, bucket := range []string{bucketPersons, bucketFireStations, bucketMedicalRecords} {
		if _, err := stmt.ExecContext(ctx, bucket, payloads[bucket]); err != nil {
			return fmt.Errorf("Write: upsert %s: %w", bucket, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Write: commit: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}
