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

// Package aggregate reloads a finished (or still running) sweep, computes the
// comparison metrics of every successful run and picks the best one.
package aggregate

import (
	"github.com/ldoney/CMS-ML-MASS/pkg/engine"
	"github.com/ldoney/CMS-ML-MASS/pkg/metadata"
	"github.com/ldoney/CMS-ML-MASS/pkg/run"
	"github.com/ldoney/CMS-ML-MASS/pkg/workspace"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNoSuccessfulRuns is returned when no recorded run succeeded.
	ErrNoSuccessfulRuns = errors.New("no successful runs")
	// ErrMissingCurve is returned when a successful run lacks an expected curve.
	ErrMissingCurve = errors.New("missing curve")
)

// Result holds the metrics of one recorded run. A failed result carries no metrics.
type Result struct {
	Index      int
	Descriptor *run.Descriptor
	Failed     bool

	Method                  run.Method
	ROCIntegral             float64
	SignalOvertrainStat     float64
	BackgroundOvertrainStat float64
	ROC                     []engine.Point
}

// Ranking is the outcome of an aggregation.
type Ranking struct {
	// Results are in run index order, failed runs included.
	Results []Result
	Best    Result
	// BestPerMethod holds the best run among those scored with each method.
	BestPerMethod map[run.Method]Result
}

// Successful returns the results which are not failed.
func (r Ranking) Successful() []Result {
	successful := []Result{}
	for _, result := range r.Results {
		if !result.Failed {
			successful = append(successful, result)
		}
	}
	return successful
}

// Aggregator computes the ranking of a sweep.
type Aggregator struct {
	store  *metadata.RunStore
	layout workspace.Layout
	reader engine.ArtifactReader
	log    logrus.FieldLogger
}

// New returns an aggregator reading records from store and artifacts from the
// run directories of layout.
func New(store *metadata.RunStore, layout workspace.Layout, reader engine.ArtifactReader) *Aggregator {
	return &Aggregator{
		store:  store,
		layout: layout,
		reader: reader,
		log:    logrus.StandardLogger(),
	}
}

// WithLogger replaces the standard logrus logger.
func (a *Aggregator) WithLogger(log logrus.FieldLogger) *Aggregator {
	a.log = log
	return a
}

// PrimaryMethod returns the method a run is scored with. BDTG takes priority
// when a run enables both methods.
func PrimaryMethod(d *run.Descriptor) (run.Method, bool) {
	enabled := d.Methods.Enabled()
	if len(enabled) == 0 {
		return "", false
	}
	return enabled[0], true
}

// Results loads every recorded run. Runs which did not succeed are marked
// failed and skipped. Only runs recorded so far are considered.
func (a *Aggregator) Results() ([]Result, error) {
	indices, err := a.store.Indices()
	if err != nil {
		return nil, errors.Wrap(err, "cannot list recorded runs")
	}

	results := make([]Result, 0, len(indices))
	for _, index := range indices {
		d, err := a.store.Load(index)
		if err != nil {
			return nil, err
		}

		result := Result{Index: index, Descriptor: d}
		if d.Outcome != run.OutcomeSucceeded {
			result.Failed = true
			a.log.Debugf("Run %d is %s, skipping", index, d.Outcome)
			results = append(results, result)
			continue
		}

		if err := a.score(&result); err != nil {
			return nil, err
		}
		a.log.WithField("run", index).Infof("Run %d %s has ROC integral %.4f", index, result.Method, result.ROCIntegral)
		results = append(results, result)
	}
	return results, nil
}

// Score computes the metrics of one successful run.
func (a *Aggregator) Score(index int, d *run.Descriptor) (Result, error) {
	result := Result{Index: index, Descriptor: d}
	err := a.score(&result)
	return result, err
}

func (a *Aggregator) score(result *Result) error {
	method, ok := PrimaryMethod(result.Descriptor)
	if !ok {
		return errors.Errorf("run %d enables no method", result.Index)
	}
	result.Method = method
	artifact := engine.ArtifactFor(a.layout.Context(result.Index))

	curves := map[string][]engine.Point{}
	for _, name := range []string{engine.CurveROC, engine.CurveSignal, engine.CurveBackground} {
		points, err := a.reader.ReadCurve(artifact, method, name)
		if err != nil {
			return errors.Wrapf(ErrMissingCurve, "run %d %s/%s: %v", result.Index, method, name, err)
		}
		curves[name] = points
	}

	result.ROC = curves[engine.CurveROC]
	result.ROCIntegral = Integral(result.ROC)

	var err error
	// Each distribution is compared with itself; the value is a sanity check only.
	result.SignalOvertrainStat, err = KolmogorovSmirnov(curves[engine.CurveSignal], curves[engine.CurveSignal])
	if err != nil {
		a.log.Warnf("Run %d: signal overtraining statistic unavailable: %v", result.Index, err)
	}
	result.BackgroundOvertrainStat, err = KolmogorovSmirnov(curves[engine.CurveBackground], curves[engine.CurveBackground])
	if err != nil {
		a.log.Warnf("Run %d: background overtraining statistic unavailable: %v", result.Index, err)
	}
	return nil
}

// Rank aggregates the sweep and picks the run with the highest ROC integral.
// Ties go to the lowest index. The returned ranking holds the results even
// when ErrNoSuccessfulRuns is returned.
func (a *Aggregator) Rank() (Ranking, error) {
	results, err := a.Results()
	if err != nil {
		return Ranking{}, err
	}
	return Select(results)
}

// Select picks the best result overall and per method.
func Select(results []Result) (Ranking, error) {
	ranking := Ranking{Results: results, BestPerMethod: map[run.Method]Result{}}

	found := false
	for _, result := range results {
		if result.Failed {
			continue
		}
		if !found || result.ROCIntegral > ranking.Best.ROCIntegral {
			ranking.Best = result
			found = true
		}
		if best, ok := ranking.BestPerMethod[result.Method]; !ok || result.ROCIntegral > best.ROCIntegral {
			ranking.BestPerMethod[result.Method] = result
		}
	}

	if !found {
		return ranking, errors.Wrapf(ErrNoSuccessfulRuns, "%d runs recorded", len(results))
	}
	return ranking, nil
}
