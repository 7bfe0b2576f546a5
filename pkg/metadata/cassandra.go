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
	"time"

	"github.com/gocql/gocql"
	"github.com/ldoney/CMS-ML-MASS/pkg/conf"
	"github.com/pkg/errors"
)

// CassandraConfig encodes the settings for connecting to the database.
type CassandraConfig struct {
	Address           string
	ConnectionTimeout time.Duration
	CreateKeyspace    bool
	IgnorePeerAddr    bool
	InitialHostLookup bool
	KeyspaceName      string
	Password          string
	Port              int
	SslCAPath         string
	SslCertPath       string
	SslEnabled        bool
	SslHostValidation bool
	SslKeyPath        string
	Timeout           time.Duration
	Username          string
}

// Cassandra is a helper struct which keeps the Cassandra session alive,
// holds the active configuration and the sweep id to tag the metadata with.
type Cassandra struct {
	sweepID string
	config  CassandraConfig
	session *gocql.Session
}

// DefaultCassandraConfig applies the Cassandra settings from the command line flags and
// environment variables.
func DefaultCassandraConfig() CassandraConfig {
	return CassandraConfig{
		Address:           conf.CassandraAddress.Value(),
		ConnectionTimeout: time.Duration(conf.CassandraConnectionTimeout.Value()) * time.Second,
		CreateKeyspace:    conf.CassandraCreateKeyspace.Value(),
		IgnorePeerAddr:    conf.CassandraIgnorePeerAddr.Value(),
		InitialHostLookup: conf.CassandraInitialHostLookup.Value(),
		KeyspaceName:      conf.CassandraKeyspaceName.Value(),
		Password:          conf.CassandraPassword.Value(),
		Port:              conf.CassandraPort.Value(),
		SslCAPath:         conf.CassandraSslCAPath.Value(),
		SslCertPath:       conf.CassandraSslCertPath.Value(),
		SslEnabled:        conf.CassandraSslEnabled.Value(),
		SslHostValidation: conf.CassandraSslHostValidation.Value(),
		SslKeyPath:        conf.CassandraSslKeyPath.Value(),
		Timeout:           time.Duration(conf.CassandraTimeout.Value()) * time.Second,
		Username:          conf.CassandraUsername.Value(),
	}
}

// NewCassandra returns the Metadata helper from a sweep id and configuration.
func NewCassandra(sweepID string, config CassandraConfig) (*Cassandra, error) {
	metadata := &Cassandra{
		sweepID: sweepID,
		config:  config,
	}
	err := connect(metadata)
	if err != nil {
		return nil, err
	}

	return metadata, nil
}

func sslOptions(config CassandraConfig) *gocql.SslOptions {
	sslOptions := &gocql.SslOptions{
		EnableHostVerification: config.SslHostValidation,
	}

	if config.SslCAPath != "" {
		sslOptions.CaPath = config.SslCAPath
	}

	if config.SslCertPath != "" {
		sslOptions.CertPath = config.SslCertPath
	}

	if config.SslKeyPath != "" {
		sslOptions.KeyPath = config.SslKeyPath
	}

	return sslOptions
}

// getClusterConfig prepares configuration to Cassandra cluster.
func getClusterConfig(m *Cassandra) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(m.config.Address)
	cluster.Port = m.config.Port

	cluster.Consistency = gocql.LocalOne
	cluster.SerialConsistency = gocql.LocalSerial

	cluster.ProtoVersion = 4
	cluster.ConnectTimeout = m.config.ConnectionTimeout
	cluster.Timeout = m.config.Timeout
	cluster.IgnorePeerAddr = m.config.IgnorePeerAddr
	cluster.DisableInitialHostLookup = !m.config.InitialHostLookup

	return cluster
}

func createKeyspace(m *Cassandra, clusterConfig *gocql.ClusterConfig) error {
	session, err := clusterConfig.CreateSession()
	if err != nil {
		return errors.Wrap(err, "cannot create session for creating keyspace")
	}
	defer session.Close()

	query := fmt.Sprintf("CREATE KEYSPACE IF NOT EXISTS %s WITH REPLICATION = {'class': 'SimpleStrategy', 'replication_factor': 1};", m.config.KeyspaceName)

	return errors.Wrap(session.Query(query).Exec(), "cannot create keyspace")

}

// connect creates a session to the Cassandra cluster. This function should only be called once.
func connect(m *Cassandra) error {
	cluster := getClusterConfig(m)

	if m.config.Username != "" && m.config.Password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: m.config.Username,
			Password: m.config.Password,
		}
	}

	if m.config.SslEnabled {
		cluster.SslOpts = sslOptions(m.config)
	}

	// The keyspace has to exist before a session can be bound to it.
	if m.config.CreateKeyspace {
		if err := createKeyspace(m, cluster); err != nil {
			return err
		}
	}

	cluster.Keyspace = m.config.KeyspaceName
	session, err := cluster.CreateSession()
	if err != nil {
		return errors.Wrapf(err, "cannot connect to cassandra at %s:%d", m.config.Address, m.config.Port)
	}

	m.session = session

	if err = session.Query("CREATE TABLE IF NOT EXISTS metadata (sweep_id text, kind text, time timestamp, metadata map<text,text>, PRIMARY KEY ((sweep_id), kind));").Exec(); err != nil {
		session.Close()
		return errors.Wrap(err, "cannot create metadata table")
	}

	return nil
}

// storeMap inserts the map unless the kind is already present.
func storeMap(m *Cassandra, metadata map[string]string, kind string) error {
	applied, err := m.session.Query(`INSERT INTO metadata (sweep_id, kind, time, metadata) VALUES (?, ?, ?, ?) IF NOT EXISTS`,
		m.sweepID, kind, time.Now(), metadata).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return errors.Wrapf(err, "cannot publish metadata of kind %q", kind)
	}
	if !applied {
		return errors.Wrapf(ErrAlreadyRecorded, "kind %q", kind)
	}
	return nil
}

// Record stores a key and value and associates with the sweep id.
func (m *Cassandra) Record(key, value, kind string) error {
	metadata := map[string]string{}
	metadata[key] = value
	return storeMap(m, metadata, kind)
}

// RecordMap stores a key and value map and associates with the sweep id.
func (m *Cassandra) RecordMap(metadata map[string]string, kind string) error {
	return storeMap(m, metadata, kind)
}

// GetByKind retrieves single kind from the database.
func (m *Cassandra) GetByKind(kind string) (map[string]string, error) {
	var metadata map[string]string

	err := m.session.Query(`SELECT metadata FROM metadata WHERE sweep_id = ? AND kind = ?`, m.sweepID, kind).Scan(&metadata)
	if err == gocql.ErrNotFound {
		return nil, errors.Wrapf(ErrNotFound, "sweep %q kind %q", m.sweepID, kind)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot retrieve metadata for sweep %q and kind %q", m.sweepID, kind)
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	return metadata, nil
}

// Kinds lists every kind recorded for the sweep.
func (m *Cassandra) Kinds() ([]string, error) {
	var kind string
	kinds := []string{}

	iter := m.session.Query(`SELECT kind FROM metadata WHERE sweep_id = ?`, m.sweepID).Iter()
	for iter.Scan(&kind) {
		kinds = append(kinds, kind)
	}
	if err := iter.Close(); err != nil {
		return nil, errors.Wrapf(err, "cannot list kinds of sweep %q", m.sweepID)
	}
	sort.Strings(kinds)
	return kinds, nil
}

// Clear deletes all metadata entries associated with the current sweep id.
func (m *Cassandra) Clear() error {
	return errors.Wrapf(m.session.Query(`DELETE FROM metadata WHERE sweep_id = ?`, m.sweepID).Exec(),
		"cannot clear metadata of sweep %q", m.sweepID)
}

// Close closes the session.
func (m *Cassandra) Close() error {
	m.session.Close()
	return nil
}
