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
	"fmt"
	"sort"
	"strings"
	"time"

	client "github.com/influxdata/influxdb1-client/v2"
	"github.com/ldoney/CMS-ML-MASS/pkg/conf"
	"github.com/pkg/errors"
)

const (
	influxMetadata = "metadata"
)

// InfluxDBConfig holds configuration for InfluxDB
type InfluxDBConfig struct {
	httpConfig     client.HTTPConfig
	dbName         string
	createDatabase bool
}

// InfluxDB is a helper struct which keeps the InfluxDB session alive,
// holds the active configuration and the sweep id to tag the metadata with.
type InfluxDB struct {
	sweepID string
	session client.Client
	config  InfluxDBConfig
}

// DefaultInfluxDBConfig applies the InfluxDB settings from the command line flags and
// environment variables.
func DefaultInfluxDBConfig() InfluxDBConfig {
	return InfluxDBConfig{
		dbName:         conf.InfluxDBName.Value(),
		createDatabase: conf.InfluxDBCreateDatabase.Value(),
		httpConfig: client.HTTPConfig{
			Addr:               fmt.Sprintf("http://%s:%d", conf.InfluxDBAddress.Value(), conf.InfluxDBPort.Value()),
			Password:           conf.InfluxDBPassword.Value(),
			Username:           conf.InfluxDBUsername.Value(),
			InsecureSkipVerify: conf.InfluxDBInsecureSkipVerify.Value(),
		},
	}
}

// NewInfluxDB returns the Metadata helper from a sweep id and configuration.
func NewInfluxDB(sweepID string, config InfluxDBConfig) (*InfluxDB, error) {
	var err error

	metadata := &InfluxDB{
		sweepID: sweepID,
		config:  config,
	}

	metadata.session, err = client.NewHTTPClient(metadata.config.httpConfig)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create influx client for sweep %s", sweepID)
	}

	if config.createDatabase {
		if _, err := metadata.query(fmt.Sprintf("CREATE DATABASE %s", config.dbName), ""); err != nil {
			metadata.session.Close()
			return nil, errors.Wrapf(err, "cannot create influx database for sweep %s", sweepID)
		}
	}

	return metadata, nil
}

func (m *InfluxDB) query(command string, database string) ([]client.Result, error) {
	response, err := m.session.Query(client.Query{Command: command, Database: database})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query influxdb for sweep %s", m.sweepID)
	}
	if response.Error() != nil {
		return nil, errors.Wrapf(response.Error(), "response from influxdb contained error for sweep %s", m.sweepID)
	}
	return response.Results, nil
}

// influxDBStoreMap writes metadata to the database with tags attached to it.
// All values of a kind are written as fields of a single point.
func influxDBStoreMap(m *InfluxDB, metadata map[string]string, kind string) error {
	if _, err := m.GetByKind(kind); err == nil {
		return errors.Wrapf(ErrAlreadyRecorded, "kind %q", kind)
	} else if errors.Cause(err) != ErrNotFound {
		return err
	}

	batchPoints, err := client.NewBatchPoints(client.BatchPointsConfig{Database: m.config.dbName})
	if err != nil {
		return errors.Wrapf(err, "creation of batch points for InfluxDB failed for metadata kind %q", kind)
	}

	tags := map[string]string{"kind": kind, "sweep_id": m.sweepID}

	fields := make(map[string]interface{})
	for key := range metadata {
		fields[key] = metadata[key]
	}
	if len(fields) == 0 {
		// A point needs at least one field.
		fields[emptyMarker] = ""
	}
	point, err := client.NewPoint(influxMetadata, tags, fields, time.Now())
	if err != nil {
		return errors.Wrapf(err, "cannot create new point, kind %q", kind)
	}

	batchPoints.AddPoint(point)

	if err = m.session.Write(batchPoints); err != nil {
		return errors.Wrapf(err, "cannot publish metadata of kind %q", kind)
	}
	return nil
}

const emptyMarker = "_empty"

// Record stores a key and value and associates with the sweep id.
func (m *InfluxDB) Record(key, value, kind string) error {
	metadata := map[string]string{}
	metadata[key] = value
	return influxDBStoreMap(m, metadata, kind)
}

// RecordMap stores a key and value map and associates with the sweep id.
func (m *InfluxDB) RecordMap(metadata map[string]string, kind string) error {
	return influxDBStoreMap(m, metadata, kind)
}

// GetByKind retrieves single kind from the database.
func (m *InfluxDB) GetByKind(kind string) (map[string]string, error) {
	// There are two tags currently and query gets rid of them by grouping.
	cmd := fmt.Sprintf("SELECT last(*) FROM %s WHERE sweep_id='%s' AND kind='%s' GROUP BY sweep_id,kind",
		influxMetadata, escape(m.sweepID), escape(kind))

	results, err := m.query(cmd, m.config.dbName)
	if err != nil {
		return nil, err
	}

	var metadata map[string]string
	for _, result := range results {
		for _, row := range result.Series {
			for _, value := range row.Values {
				if metadata == nil {
					metadata = map[string]string{}
				}
				for idx, cell := range value {
					// InfluxDB at index 0 returns timestamp and timestamp is not needed in the metadata. Skip it.
					// Also the results may be sparse thus skip empty cells.
					if cell == nil || idx == 0 {
						continue
					}
					column := strings.Replace(row.Columns[idx], "last_", "", 1)
					if column == emptyMarker {
						continue
					}
					if text, ok := cell.(string); ok {
						metadata[column] = text
					}
				}
			}
		}
	}

	if metadata == nil {
		return nil, errors.Wrapf(ErrNotFound, "sweep %q kind %q", m.sweepID, kind)
	}
	return metadata, nil
}

// Kinds lists every kind recorded for the sweep.
func (m *InfluxDB) Kinds() ([]string, error) {
	cmd := fmt.Sprintf(`SHOW TAG VALUES FROM %s WITH KEY = "kind" WHERE sweep_id='%s'`, influxMetadata, escape(m.sweepID))
	results, err := m.query(cmd, m.config.dbName)
	if err != nil {
		return nil, err
	}

	kinds := []string{}
	for _, result := range results {
		for _, row := range result.Series {
			for _, value := range row.Values {
				// Rows are (key, value) pairs.
				if len(value) < 2 {
					continue
				}
				if kind, ok := value[1].(string); ok {
					kinds = append(kinds, kind)
				}
			}
		}
	}
	sort.Strings(kinds)
	return kinds, nil
}

// Clear deletes all metadata entries associated with the current sweep id.
func (m *InfluxDB) Clear() error {
	cmd := fmt.Sprintf("DROP SERIES FROM %s WHERE sweep_id='%s'", influxMetadata, escape(m.sweepID))
	_, err := m.query(cmd, m.config.dbName)
	return err
}

// Close closes the HTTP client.
func (m *InfluxDB) Close() error {
	return m.session.Close()
}

func escape(value string) string {
	return strings.Replace(value, "'", "\\'", -1)
}
