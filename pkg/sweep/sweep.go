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

// Package sweep runs every variant of a plan once, in index order, and
// records each run regardless of its outcome.
package sweep

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/ldoney/CMS-ML-MASS/pkg/engine"
	"github.com/ldoney/CMS-ML-MASS/pkg/metadata"
	"github.com/ldoney/CMS-ML-MASS/pkg/run"
	"github.com/ldoney/CMS-ML-MASS/pkg/workspace"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrCancelled is returned when the context is cancelled between runs.
var ErrCancelled = errors.New("sweep cancelled")

// Outcome is the result of a single run. A nil Err means the run succeeded.
type Outcome struct {
	Index      int
	Total      int
	Context    workspace.Context
	Descriptor *run.Descriptor
	Artifact   engine.Artifact
	Err        error
}

// Succeeded reports whether the run produced its artifact.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Summary counts the runs a sweep executed.
type Summary struct {
	Total     int
	Succeeded int
	Failed    []int
}

// Executed returns the number of runs which reached a terminal state.
func (s Summary) Executed() int {
	return s.Succeeded + len(s.Failed)
}

func (s Summary) String() string {
	return fmt.Sprintf("%d/%d runs executed, %d succeeded, %d failed %v",
		s.Executed(), s.Total, s.Succeeded, len(s.Failed), s.Failed)
}

// Option configures a Sweep.
type Option func(*Sweep)

// WithNormalizer normalizes variables of every run before dispatch.
func WithNormalizer(n *run.Normalizer) Option {
	return func(s *Sweep) { s.normalizer = n }
}

// WithLogger replaces the standard logrus logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Sweep) { s.log = log }
}

// WithProgress calls fn after every recorded run.
func WithProgress(fn func(Outcome)) Option {
	return func(s *Sweep) { s.progress = fn }
}

// WithStopOnError stops the sweep after the first failed run is recorded.
func WithStopOnError(stop bool) Option {
	return func(s *Sweep) { s.stopOnError = stop }
}

// WithDataSource sets the event samples handed to the engine.
func WithDataSource(data engine.DataSource) Option {
	return func(s *Sweep) { s.data = data }
}

// Sweep drives the runs of a plan.
type Sweep struct {
	plan   *Plan
	engine engine.Engine
	store  *metadata.RunStore
	layout workspace.Layout

	normalizer  *run.Normalizer
	data        engine.DataSource
	stopOnError bool
	log         logrus.FieldLogger
	progress    func(Outcome)
}

// New returns a sweep over a validated plan.
func New(plan *Plan, eng engine.Engine, store *metadata.RunStore, layout workspace.Layout, options ...Option) *Sweep {
	s := &Sweep{
		plan:     plan,
		engine:   eng,
		store:    store,
		layout:   layout,
		log:      logrus.StandardLogger(),
		progress: func(Outcome) {},
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Run executes every run of the plan in index order.
//
// Configuration errors are returned before the first run. A failing run is
// recorded as failed and the sweep goes on, unless stop on error is set.
// Cancellation is checked between runs only. Failing to record a run is fatal.
func (s *Sweep) Run(ctx context.Context) (Summary, error) {
	summary := Summary{Total: s.plan.Size(), Failed: []int{}}

	if err := s.prepare(); err != nil {
		return summary, err
	}

	for index := 0; index < summary.Total; index++ {
		if err := ctx.Err(); err != nil {
			s.log.Warnf("Sweep cancelled before run %d/%d", index, summary.Total)
			return summary, errors.Wrapf(ErrCancelled, "%d of %d runs executed: %v", summary.Executed(), summary.Total, err)
		}

		d, err := s.plan.Descriptor(index)
		if err != nil {
			return summary, errors.Wrapf(ErrConfiguration, "run %d: %v", index, err)
		}

		log := s.log.WithField("run", index)
		log.Infof("Running iteration %d/%d) %s", index, summary.Total, d.Summary())

		outcome := s.execute(ctx, index, d, log)
		outcome.Total = summary.Total

		if outcome.Succeeded() {
			d.Outcome = run.OutcomeSucceeded
			summary.Succeeded++
			log.Infof("Run %d succeeded: %s", index, outcome.Artifact.Path)
		} else {
			d.Outcome = run.OutcomeFailed
			summary.Failed = append(summary.Failed, index)
			log.Errorf("Run %d failed: %v", index, outcome.Err)
		}

		if err := s.store.Save(outcome.Context, d); err != nil {
			return summary, errors.Wrapf(err, "cannot record run %d", index)
		}
		s.progress(outcome)

		if !outcome.Succeeded() && s.stopOnError {
			return summary, errors.Wrapf(outcome.Err, "sweep stopped after failed run %d", index)
		}
	}

	s.log.Infof("Sweep finished: %s", summary)
	return summary, nil
}

// prepare computes normalization statistics for every variable the plan uses
// so that a bad column aborts the sweep before any run starts.
func (s *Sweep) prepare() error {
	if s.normalizer == nil {
		return nil
	}
	if err := s.normalizer.Prepare(s.plan.Expressions()); err != nil {
		return errors.Wrapf(ErrConfiguration, "normalization: %v", err)
	}
	return nil
}

// execute is the error boundary of a single run. It turns every failure,
// panics included, into the outcome of the run.
func (s *Sweep) execute(ctx context.Context, index int, d *run.Descriptor, log logrus.FieldLogger) (outcome Outcome) {
	outcome = Outcome{Index: index, Context: s.layout.Context(index), Descriptor: d}

	defer func() {
		if r := recover(); r != nil {
			log.Debugf("Run %d panicked: %v\n%s", index, r, debug.Stack())
			outcome.Err = errors.Errorf("run %d panicked: %v", index, r)
		}
	}()

	if s.normalizer != nil {
		if _, err := s.normalizer.Apply(d); err != nil {
			outcome.Err = errors.Wrap(err, "cannot normalize variables")
			return outcome
		}
		if references := run.CutReferences(d); len(references) > 0 {
			log.Warnf("Cut %q refers to normalized variables %v by their raw expression", d.SelectionCut, references)
		}
	}

	if err := d.Validate(); err != nil {
		outcome.Err = errors.Wrap(err, "invalid run")
		return outcome
	}

	wc, err := s.layout.Create(index)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Context = wc

	artifact, err := s.engine.Train(ctx, engine.NewJob(d, s.data), wc)
	if err != nil {
		outcome.Err = errors.Wrapf(err, "training failed in %s", wc)
		return outcome
	}

	outcome.Artifact = artifact
	return outcome
}
