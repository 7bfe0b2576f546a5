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

package dataset

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const eventsTable = "events"

// DuckDB is a dataset scanned by an in-memory DuckDB database.
type DuckDB struct {
	path string
	db   *sql.DB
	rows int
}

// OpenDuckDB loads a CSV or Parquet file into an in-memory table.
func OpenDuckDB(path string) (*DuckDB, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(err, "cannot open duckdb")
	}

	reader := "read_csv_auto('%s', header=true)"
	if strings.ToLower(filepath.Ext(path)) == ".parquet" {
		reader = "read_parquet('%s')"
	}
	source := fmt.Sprintf(reader, strings.Replace(path, "'", "''", -1))

	logrus.Debugf("Loading dataset %q with duckdb", path)
	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE %s AS SELECT * FROM %s", eventsTable, source)); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "cannot load dataset %q", path)
	}

	d := &DuckDB{path: path, db: db}
	if err := db.QueryRow("SELECT COUNT(*) FROM " + eventsTable).Scan(&d.rows); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "cannot count events of %q", path)
	}
	return d, nil
}

// Rows returns the number of events.
func (d *DuckDB) Rows() int {
	return d.rows
}

// Column returns the named column cast to double.
func (d *DuckDB) Column(name string) ([]float64, error) {
	exists := 0
	err := d.db.QueryRow(
		"SELECT COUNT(*) FROM information_schema.columns WHERE table_name = ? AND column_name = ?",
		eventsTable, name).Scan(&exists)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot inspect columns of %q", d.path)
	}
	if exists == 0 {
		return nil, errors.Wrapf(ErrNoColumn, "%q in %q", name, d.path)
	}

	identifier := `"` + strings.Replace(name, `"`, `""`, -1) + `"`
	rows, err := d.db.Query(fmt.Sprintf("SELECT CAST(%s AS DOUBLE) FROM %s", identifier, eventsTable))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %q from %q", name, d.path)
	}
	defer rows.Close()

	values := make([]float64, 0, d.rows)
	for rows.Next() {
		var value sql.NullFloat64
		if err := rows.Scan(&value); err != nil {
			return nil, errors.Wrapf(err, "cannot scan %q", name)
		}
		if !value.Valid {
			return nil, errors.Errorf("%q has null values in %q", name, d.path)
		}
		values = append(values, value.Float64)
	}
	return values, errors.Wrapf(rows.Err(), "cannot read %q from %q", name, d.path)
}

// Close closes the underlying database.
func (d *DuckDB) Close() error {
	return d.db.Close()
}
