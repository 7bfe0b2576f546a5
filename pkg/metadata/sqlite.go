// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metadata

import (
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	// Registers the pure Go "sqlite" driver.
	_ "modernc.org/sqlite"
)

const sqliteFileName = "metadata.db"

//go:embed migrations/*.sql
var migrations embed.FS

// SQLite keeps records of one sweep in a local database file.
type SQLite struct {
	sweepID string
	db      *sql.DB
}

// NewSQLite opens (or creates) the database at dbPath and migrates its schema.
func NewSQLite(sweepID string, dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open sqlite database %q", dbPath)
	}
	// A single connection serializes writers within the process.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "cannot connect to sqlite database %q", dbPath)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{sweepID: sweepID, db: db}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite"); err != nil {
		return errors.Wrap(err, "failed to set dialect")
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}
	return nil
}

// Record stores a key and value and associates with the sweep id.
func (m *SQLite) Record(key, value, kind string) error {
	return m.RecordMap(map[string]string{key: value}, kind)
}

// RecordMap stores the map in one transaction.
func (m *SQLite) RecordMap(metadata map[string]string, kind string) (err error) {
	tx, err := m.db.Begin()
	if err != nil {
		return errors.Wrapf(err, "cannot start transaction for kind %q", kind)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	result, err := tx.Exec(`INSERT OR IGNORE INTO metadata (sweep_id, kind, recorded) VALUES (?, ?, ?)`, m.sweepID, kind, time.Now().UTC())
	if err != nil {
		return errors.Wrapf(err, "cannot publish metadata of kind %q", kind)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "cannot publish metadata of kind %q", kind)
	}
	if inserted == 0 {
		return errors.Wrapf(ErrAlreadyRecorded, "kind %q", kind)
	}

	for key, value := range metadata {
		if _, err = tx.Exec(`INSERT INTO metadata_values (sweep_id, kind, key, value) VALUES (?, ?, ?, ?)`, m.sweepID, kind, key, value); err != nil {
			return errors.Wrapf(err, "cannot publish metadata of kind %q", kind)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrapf(err, "cannot commit metadata of kind %q", kind)
	}
	return nil
}

// GetByKind retrieves a single kind.
func (m *SQLite) GetByKind(kind string) (map[string]string, error) {
	var exists int
	err := m.db.QueryRow(`SELECT COUNT(*) FROM metadata WHERE sweep_id = ? AND kind = ?`, m.sweepID, kind).Scan(&exists)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot query metadata of kind %q", kind)
	}
	if exists == 0 {
		return nil, errors.Wrapf(ErrNotFound, "kind %q", kind)
	}

	rows, err := m.db.Query(`SELECT key, value FROM metadata_values WHERE sweep_id = ? AND kind = ?`, m.sweepID, kind)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot query metadata of kind %q", kind)
	}
	defer rows.Close()

	metadata := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, errors.Wrapf(err, "cannot read metadata of kind %q", kind)
		}
		metadata[key] = value
	}
	return metadata, errors.Wrapf(rows.Err(), "cannot read metadata of kind %q", kind)
}

// Kinds lists every kind recorded for the sweep.
func (m *SQLite) Kinds() ([]string, error) {
	rows, err := m.db.Query(`SELECT kind FROM metadata WHERE sweep_id = ?`, m.sweepID)
	if err != nil {
		return nil, errors.Wrap(err, "cannot list metadata kinds")
	}
	defer rows.Close()

	kinds := []string{}
	for rows.Next() {
		var kind string
		if err := rows.Scan(&kind); err != nil {
			return nil, errors.Wrap(err, "cannot list metadata kinds")
		}
		kinds = append(kinds, kind)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot list metadata kinds")
	}
	sort.Strings(kinds)
	return kinds, nil
}

// Clear deletes all metadata entries associated with the current sweep id.
func (m *SQLite) Clear() error {
	for _, table := range []string{"metadata_values", "metadata"} {
		if _, err := m.db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE sweep_id = ?`, table), m.sweepID); err != nil {
			return errors.Wrapf(err, "cannot clear %s", table)
		}
	}
	return nil
}

// Close closes the database.
func (m *SQLite) Close() error {
	return m.db.Close()
}
