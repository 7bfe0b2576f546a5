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

/*
Package metadata persists flat string records grouped by kind and scoped to one
sweep. Run descriptors are stored one record per run, with the decimal run index
as the kind; runtime information (flags, environment, platform, plan) uses the
predefined kinds below.

Records are append only: a kind is written once and never overwritten.
*/
package metadata

import (
	"path"

	"github.com/ldoney/CMS-ML-MASS/pkg/conf"
	"github.com/pkg/errors"
)

// Predefined types of metadata.
// This selector allows to group metadata by their common characteristics.
// Run records use the run index as their kind.
const (
	TypeEmpty    = ""
	TypeFlags    = "flags"
	TypeEnviron  = "environ"
	TypePlatform = "platform"
	TypeSweep    = "sweep"
)

var (
	// ErrNotFound is returned when no record of the requested kind exists.
	ErrNotFound = errors.New("metadata not found")
	// ErrAlreadyRecorded is returned when a kind is written for the second time.
	ErrAlreadyRecorded = errors.New("metadata already recorded")
)

// Metadata interface defines methods which must be supported by DB backend
type Metadata interface {
	// Record stores a key and value and associates with the sweep id.
	Record(key string, value string, kind string) error
	// RecordMap stores a key and value map and associates with the sweep id.
	RecordMap(metadata map[string]string, kind string) error
	// GetByKind retrieves single metadata type from the database.
	// Returns ErrNotFound if no record of that kind exists.
	GetByKind(kind string) (map[string]string, error)
	// Kinds lists every kind recorded for the sweep.
	Kinds() ([]string, error)
	// Clear deletes all metadata entries associated with the current sweep id.
	Clear() error
	// Close releases the connection.
	Close() error
}

// NewDefault initialize metadata object which is configured via flags.
// File based backends live inside sweepDir.
func NewDefault(sweepID string, sweepDir string) (Metadata, error) {
	switch conf.DefaultMetadataDB.Value() {
	case "file":
		return NewFile(path.Join(sweepDir, fileDirName))
	case "sqlite":
		return NewSQLite(sweepID, path.Join(sweepDir, sqliteFileName))
	case "cassandra":
		return NewCassandra(sweepID, DefaultCassandraConfig())
	case "influxdb":
		return NewInfluxDB(sweepID, DefaultInfluxDBConfig())
	}

	return nil, errors.Errorf("unsupported database for metadata: %s", conf.DefaultMetadataDB.Value())
}
