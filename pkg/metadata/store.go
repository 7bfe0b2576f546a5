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
	"sort"
	"strconv"

	"github.com/ldoney/CMS-ML-MASS/pkg/run"
	"github.com/ldoney/CMS-ML-MASS/pkg/workspace"
	"github.com/pkg/errors"
)

// RunStore saves and loads run descriptors, one record per run index.
type RunStore struct {
	backend Metadata
}

// NewRunStore wraps a backend.
func NewRunStore(backend Metadata) *RunStore {
	return &RunStore{backend: backend}
}

// Save records the descriptor of the run executed in wc, keyed by its index.
// A run is saved once.
func (s *RunStore) Save(wc workspace.Context, d *run.Descriptor) error {
	index := wc.Index
	record, err := ToRecord(d)
	if err != nil {
		return errors.Wrapf(err, "cannot encode run %d", index)
	}
	return errors.Wrapf(s.backend.RecordMap(record, strconv.Itoa(index)), "cannot save run %d", index)
}

// Load reads back the descriptor of run index.
func (s *RunStore) Load(index int) (*run.Descriptor, error) {
	record, err := s.backend.GetByKind(strconv.Itoa(index))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot load run %d", index)
	}
	d, err := FromRecord(record)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot decode run %d", index)
	}
	return d, nil
}

// Indices returns the recorded run indices in ascending order.
// Kinds that are not run indices are skipped.
func (s *RunStore) Indices() ([]int, error) {
	kinds, err := s.backend.Kinds()
	if err != nil {
		return nil, err
	}

	indices := []int{}
	for _, kind := range kinds {
		index, err := strconv.Atoi(kind)
		if err != nil || index < 0 || strconv.Itoa(index) != kind {
			continue
		}
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices, nil
}
