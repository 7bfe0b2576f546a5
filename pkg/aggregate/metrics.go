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

package aggregate

import (
	"math"
	"sort"

	"github.com/ldoney/CMS-ML-MASS/pkg/engine"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// ErrEmptyDistribution is returned when a distribution has no weight.
var ErrEmptyDistribution = errors.New("distribution is empty")

func sortedByX(points []engine.Point) []engine.Point {
	sorted := append([]engine.Point(nil), points...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })
	return sorted
}

// clipToUnit returns the abscissas and ordinates of the curve restricted to
// [0, 1]. Segments crossing the bounds end at linearly interpolated points.
func clipToUnit(points []engine.Point) (x, y []float64) {
	sorted := sortedByX(points)
	for i := 1; i < len(sorted); i++ {
		a, b := sorted[i-1], sorted[i]
		if b.X <= a.X {
			continue
		}
		lo, hi := math.Max(a.X, 0), math.Min(b.X, 1)
		if hi <= lo {
			continue
		}
		slope := (b.Y - a.Y) / (b.X - a.X)
		x = append(x, lo, hi)
		y = append(y, a.Y+slope*(lo-a.X), a.Y+slope*(hi-a.X))
	}
	return x, y
}

// Integral returns the trapezoidal integral of the curve over [0, 1].
// Nothing outside the unit domain is integrated.
func Integral(points []engine.Point) float64 {
	x, y := clipToUnit(points)
	if len(x) < 2 {
		return 0
	}
	return integrate.Trapezoidal(x, y)
}

// KolmogorovSmirnov returns the largest distance between the cumulative
// distributions of two binned samples. Y holds the bin contents at X.
func KolmogorovSmirnov(first, second []engine.Point) (float64, error) {
	x, xWeights := binned(first)
	y, yWeights := binned(second)
	if weight(xWeights) == 0 || weight(yWeights) == 0 {
		return 0, ErrEmptyDistribution
	}
	return stat.KolmogorovSmirnov(x, xWeights, y, yWeights), nil
}

func binned(points []engine.Point) (x, weights []float64) {
	for _, p := range sortedByX(points) {
		x = append(x, p.X)
		weights = append(weights, p.Y)
	}
	return x, weights
}

func weight(weights []float64) float64 {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	return total
}
