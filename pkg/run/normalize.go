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

package run

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// NormalizedPrefix marks the display name of a normalized variable.
const NormalizedPrefix = "Norm_"

// ErrZeroSpread is returned when a variable has no spread in the signal sample.
var ErrZeroSpread = errors.New("variable has zero spread")

// StatsSource computes normalization statistics of one variable over the signal sample.
type StatsSource interface {
	Stats(expression string) (mean float64, halfSpread float64, err error)
}

type columnStats struct {
	mean       decimal.Decimal
	halfSpread decimal.Decimal
}

// Normalizer rewrites selected variables to (raw - mean) / halfSpread.
// Statistics are computed once per expression and reused for every descriptor.
type Normalizer struct {
	source  StatsSource
	targets map[string]bool
	cache   map[string]columnStats
}

// NewNormalizer returns a normalizer for the given expressions.
// With no expressions every variable of a descriptor is normalized.
func NewNormalizer(source StatsSource, expressions ...string) *Normalizer {
	targets := map[string]bool{}
	for _, e := range expressions {
		targets[e] = true
	}
	return &Normalizer{
		source:  source,
		targets: targets,
		cache:   map[string]columnStats{},
	}
}

// Prepare computes statistics for every expression up front so that a bad
// column surfaces before the first run starts.
func (n *Normalizer) Prepare(expressions []string) error {
	for _, e := range expressions {
		if !n.selected(Variable{Expression: e, Name: e}) {
			continue
		}
		if _, err := n.stats(e); err != nil {
			return err
		}
	}
	return nil
}

// Apply rewrites the selected variables of d in place and returns how many
// were rewritten. Variables that are already normalized are left alone.
func (n *Normalizer) Apply(d *Descriptor) (int, error) {
	rewritten := 0
	for i, v := range d.Variables {
		if !n.selected(v) {
			continue
		}
		stats, err := n.stats(v.Expression)
		if err != nil {
			return rewritten, err
		}
		d.Variables[i] = Variable{
			Expression: "(" + v.Expression + " - (" + stats.mean.String() + "))/(" + stats.halfSpread.String() + ")",
			Name:       NormalizedPrefix + v.Name,
			Unit:       v.Unit,
			Type:       v.Type,
		}
		rewritten++
	}
	return rewritten, nil
}

// CutReferences returns the raw expressions of normalized variables that the
// selection cut of d still mentions. The cut is never rewritten.
func CutReferences(d *Descriptor) []string {
	if d.SelectionCut == "" {
		return nil
	}
	references := []string{}
	for _, v := range d.Variables {
		if !strings.HasPrefix(v.Name, NormalizedPrefix) {
			continue
		}
		raw := strings.TrimPrefix(v.Name, NormalizedPrefix)
		if strings.Contains(d.SelectionCut, raw) {
			references = append(references, raw)
		}
	}
	return references
}

func (n *Normalizer) selected(v Variable) bool {
	if strings.HasPrefix(v.Name, NormalizedPrefix) {
		return false
	}
	return len(n.targets) == 0 || n.targets[v.Expression]
}

func (n *Normalizer) stats(expression string) (columnStats, error) {
	if cached, ok := n.cache[expression]; ok {
		return cached, nil
	}
	mean, halfSpread, err := n.source.Stats(expression)
	if err != nil {
		return columnStats{}, errors.Wrapf(err, "cannot compute statistics of %q", expression)
	}
	if halfSpread == 0 {
		return columnStats{}, errors.Wrapf(ErrZeroSpread, "%q", expression)
	}
	stats := columnStats{
		mean:       decimal.NewFromFloat(mean),
		halfSpread: decimal.NewFromFloat(halfSpread),
	}
	n.cache[expression] = stats
	return stats, nil
}
