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

package engine

import "github.com/ldoney/CMS-ML-MASS/pkg/conf"

// DataConfig locates the event samples every run trains on.
type DataConfig struct {
	SignalPath     string `help:"Signal event sample (CSV, Parquet or anything DuckDB reads)" default:""`
	BackgroundPath string `help:"Background event sample" default:""`
	EventLimit     int    `help:"Maximum number of events read per class; 0 means no limit" default:"0"`

	flagPrefix string
}

var defaultDataConfig = DataConfig{flagPrefix: "Data"}

func init() {
	conf.Process(&defaultDataConfig)
}

// DefaultDataSource returns the data source read from flags.
func DefaultDataSource() DataSource {
	conf.Process(&defaultDataConfig)
	return DataSource{
		SignalPath:     defaultDataConfig.SignalPath,
		BackgroundPath: defaultDataConfig.BackgroundPath,
		EventLimit:     defaultDataConfig.EventLimit,
	}
}
