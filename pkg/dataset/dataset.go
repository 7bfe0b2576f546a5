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

// Package dataset reads event samples and computes the per variable
// statistics used to normalize training inputs.
package dataset

import (
	"github.com/pkg/errors"
)

// ErrNoColumn is returned when a dataset has no column with the requested name.
var ErrNoColumn = errors.New("no such column")

// Dataset is a table of events with named numeric columns.
type Dataset interface {
	Rows() int
	Column(name string) ([]float64, error)
	Close() error
}

// Open loads a CSV or Parquet sample with DuckDB.
func Open(path string) (Dataset, error) {
	return OpenDuckDB(path)
}
