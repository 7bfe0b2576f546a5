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
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// Stats computes normalization statistics over one dataset, normally the
// signal sample.
type Stats struct {
	dataset Dataset
}

// NewStats returns statistics backed by dataset.
func NewStats(dataset Dataset) *Stats {
	return &Stats{dataset: dataset}
}

// Stats returns the mean of the column and half of its standard deviation.
func (s *Stats) Stats(expression string) (mean float64, halfSpread float64, err error) {
	values, err := s.dataset.Column(expression)
	if err != nil {
		return 0, 0, err
	}
	if len(values) == 0 {
		return 0, 0, errors.Errorf("column %q is empty", expression)
	}

	mean, err = stats.Mean(values)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "cannot compute mean of %q", expression)
	}
	deviation, err := stats.StandardDeviationPopulation(values)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "cannot compute spread of %q", expression)
	}
	return mean, deviation / 2, nil
}
