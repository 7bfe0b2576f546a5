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

package conf

// Flags shared by every entry point.
var (
	// OutputDir is where sweep directories are created.
	OutputDir = NewStringFlag("output_dir", "Directory under which every sweep gets its own directory", ".")
	// StopOnError aborts the sweep after the first failed run has been recorded.
	StopOnError = NewBoolFlag("stop_on_error", "Stop the sweep after the first failed run", false)

	// DefaultMetadataDB selects the metadata backend.
	DefaultMetadataDB = NewStringFlag("metadata_db", "Metadata backend: file, sqlite, cassandra or influxdb", "file")

	// CassandraAddress represents cassandra address flag.
	CassandraAddress = NewStringFlag("cassandra_addr", "Address of Cassandra DB endpoint", "127.0.0.1")
	// CassandraUsername is the user name used to authenticate.
	CassandraUsername = NewStringFlag("cassandra_username", "The user name which will be presented when connecting to the cluster", "")
	// CassandraPassword is the password used to authenticate.
	CassandraPassword = NewStringFlag("cassandra_password", "The password which will be presented when connecting to the cluster", "")
	// CassandraPort is the native transport port.
	CassandraPort = NewIntFlag("cassandra_port", "Port of Cassandra DB endpoint", 9042)
	// CassandraConnectionTimeout is the initial connection timeout in seconds.
	CassandraConnectionTimeout = NewIntFlag("cassandra_connection_timeout", "Initial connection timeout in seconds", 10)
	// CassandraTimeout is the query timeout in seconds.
	CassandraTimeout = NewIntFlag("cassandra_timeout", "Time in seconds to wait for a query response", 10)
	// CassandraCreateKeyspace creates the keyspace when it is missing.
	CassandraCreateKeyspace = NewBoolFlag("cassandra_create_keyspace", "Create the keyspace when it does not exist", true)
	// CassandraKeyspaceName is the keyspace holding the metadata table.
	CassandraKeyspaceName = NewStringFlag("cassandra_keyspace_name", "Keyspace used to store metadata", "mass")
	// CassandraIgnorePeerAddr makes the driver use the configured address for every peer.
	CassandraIgnorePeerAddr = NewBoolFlag("cassandra_ignore_peer_addr", "Ignore the peer address reported by the cluster", false)
	// CassandraInitialHostLookup enables looking up the cluster topology at connection time.
	CassandraInitialHostLookup = NewBoolFlag("cassandra_initial_host_lookup", "Look up the cluster topology at connection time", true)
	// CassandraSslEnabled turns on client TLS.
	CassandraSslEnabled = NewBoolFlag("cassandra_ssl", "Use SSL to connect to Cassandra", false)
	// CassandraSslHostValidation verifies the server certificate host name.
	CassandraSslHostValidation = NewBoolFlag("cassandra_ssl_host_validation", "Validate the host name of the server certificate", false)
	// CassandraSslCAPath is the CA certificate path.
	CassandraSslCAPath = NewStringFlag("cassandra_ssl_ca_path", "Path to the CA certificate", "")
	// CassandraSslCertPath is the client certificate path.
	CassandraSslCertPath = NewStringFlag("cassandra_ssl_cert_path", "Path to the client certificate", "")
	// CassandraSslKeyPath is the client key path.
	CassandraSslKeyPath = NewStringFlag("cassandra_ssl_key_path", "Path to the client key", "")

	// InfluxDBAddress represents the InfluxDB host.
	InfluxDBAddress = NewStringFlag("influxdb_addr", "Address of InfluxDB endpoint", "127.0.0.1")
	// InfluxDBPort represents the InfluxDB HTTP port.
	InfluxDBPort = NewIntFlag("influxdb_port", "Port of InfluxDB endpoint", 8086)
	// InfluxDBName is the database holding the metadata measurement.
	InfluxDBName = NewStringFlag("influxdb_db_name", "Name of the InfluxDB database used to store metadata", "mass")
	// InfluxDBUsername is the user name used to authenticate.
	InfluxDBUsername = NewStringFlag("influxdb_username", "InfluxDB user name", "")
	// InfluxDBPassword is the password used to authenticate.
	InfluxDBPassword = NewStringFlag("influxdb_password", "InfluxDB password", "")
	// InfluxDBInsecureSkipVerify disables certificate verification.
	InfluxDBInsecureSkipVerify = NewBoolFlag("influxdb_insecure_skip_verify", "Skip TLS certificate verification", false)
	// InfluxDBCreateDatabase creates the database when it is missing.
	InfluxDBCreateDatabase = NewBoolFlag("influxdb_create_database", "Create the InfluxDB database if it does not exist", true)
)
