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

package sweep

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ldoney/CMS-ML-MASS/pkg/engine"
	"github.com/ldoney/CMS-ML-MASS/pkg/engine/mocks"
	"github.com/ldoney/CMS-ML-MASS/pkg/metadata"
	"github.com/ldoney/CMS-ML-MASS/pkg/run"
	"github.com/ldoney/CMS-ML-MASS/pkg/workspace"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/mock"
)

const sixRunPlan = `
template:
  variables: [muPairs.mass, muPairs.pt]
  numSignalTrain: 100
  numBackgroundTrain: 100
  numSignalTest: 50
  numBackgroundTest: 50
segments:
  - methods: [BDTG]
    ints:
      - name: numTrees
        values: [10, 20, 30, 40, 50, 60]
`

type constantStats struct {
	err error
}

func (c constantStats) Stats(expression string) (float64, float64, error) {
	return 1, 2, c.err
}

func runAt(index int) interface{} {
	return mock.MatchedBy(func(wc workspace.Context) bool { return wc.Index == index })
}

func artifactInRunDir(ctx context.Context, job engine.Job, wc workspace.Context) engine.Artifact {
	return engine.ArtifactFor(wc)
}

func TestSweep(t *testing.T) {
	Convey("When running a sweep of six runs", t, func() {
		sweepDir, err := ioutil.TempDir("", "sweep")
		So(err, ShouldBeNil)
		defer os.RemoveAll(sweepDir)

		cwd, err := os.Getwd()
		So(err, ShouldBeNil)

		plan, err := ParsePlan([]byte(sixRunPlan))
		So(err, ShouldBeNil)

		backend, err := metadata.NewFile(filepath.Join(sweepDir, "metadata"))
		So(err, ShouldBeNil)
		store := metadata.NewRunStore(backend)
		layout := workspace.NewLayout(sweepDir)
		eng := &mocks.Engine{}

		Convey("A failing run is recorded and the next run still executes", func() {
			eng.On("Train", mock.Anything, mock.Anything, runAt(3)).Return(engine.Artifact{}, errors.New("bad split sizes"))
			eng.On("Train", mock.Anything, mock.Anything, mock.Anything).Return(artifactInRunDir, nil)

			summary, err := New(plan, eng, store, layout).Run(context.Background())
			So(err, ShouldBeNil)
			So(summary.Succeeded, ShouldEqual, 5)
			So(summary.Failed, ShouldResemble, []int{3})
			So(eng.Calls, ShouldHaveLength, 6)

			failed, err := store.Load(3)
			So(err, ShouldBeNil)
			So(failed.Outcome, ShouldEqual, run.OutcomeFailed)
			So(failed.BDTG.TreeCount, ShouldEqual, 40)

			next, err := store.Load(4)
			So(err, ShouldBeNil)
			So(next.Outcome, ShouldEqual, run.OutcomeSucceeded)
			So(next.BDTG.TreeCount, ShouldEqual, 50)

			Convey("Every run got its own directory and the process cwd is untouched", func() {
				for i := 0; i < 6; i++ {
					_, err := os.Stat(layout.RunDir(i))
					So(err, ShouldBeNil)
				}
				now, err := os.Getwd()
				So(err, ShouldBeNil)
				So(now, ShouldEqual, cwd)
			})
		})

		Convey("A panicking engine fails only its own run", func() {
			eng.On("Train", mock.Anything, mock.Anything, runAt(2)).
				Run(func(mock.Arguments) { panic("engine crashed") }).
				Return(engine.Artifact{}, nil)
			eng.On("Train", mock.Anything, mock.Anything, mock.Anything).Return(artifactInRunDir, nil)

			summary, err := New(plan, eng, store, layout).Run(context.Background())
			So(err, ShouldBeNil)
			So(summary.Failed, ShouldResemble, []int{2})

			indices, err := store.Indices()
			So(err, ShouldBeNil)
			So(indices, ShouldResemble, []int{0, 1, 2, 3, 4, 5})
		})

		Convey("With stop on error the sweep ends after recording the failure", func() {
			eng.On("Train", mock.Anything, mock.Anything, runAt(3)).Return(engine.Artifact{}, errors.New("bad split sizes"))
			eng.On("Train", mock.Anything, mock.Anything, mock.Anything).Return(artifactInRunDir, nil)

			summary, err := New(plan, eng, store, layout, WithStopOnError(true)).Run(context.Background())
			So(err, ShouldNotBeNil)
			So(summary.Executed(), ShouldEqual, 4)

			indices, err := store.Indices()
			So(err, ShouldBeNil)
			So(indices, ShouldResemble, []int{0, 1, 2, 3})
		})

		Convey("Cancelling stops the sweep between runs", func() {
			eng.On("Train", mock.Anything, mock.Anything, mock.Anything).Return(artifactInRunDir, nil)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			progress := []int{}
			summary, err := New(plan, eng, store, layout, WithProgress(func(o Outcome) {
				progress = append(progress, o.Index)
				if o.Index == 1 {
					cancel()
				}
			})).Run(ctx)

			So(errors.Cause(err), ShouldEqual, ErrCancelled)
			So(summary.Executed(), ShouldEqual, 2)
			So(progress, ShouldResemble, []int{0, 1})
			_, err = os.Stat(layout.RunDir(2))
			So(os.IsNotExist(err), ShouldBeTrue)
		})

		Convey("An invalid run fails without reaching the engine", func() {
			invalid, err := ParsePlan([]byte(`
template: {variables: [a]}
segments: [{methods: [BDTG], ints: [{name: numTrees, values: [0]}]}]
`))
			So(err, ShouldBeNil)

			var outcomes []Outcome
			summary, err := New(invalid, eng, store, layout, WithProgress(func(o Outcome) {
				outcomes = append(outcomes, o)
			})).Run(context.Background())
			So(err, ShouldBeNil)
			So(summary.Failed, ShouldResemble, []int{0})
			So(eng.Calls, ShouldBeEmpty)

			So(outcomes, ShouldHaveLength, 1)
			So(outcomes[0].Context.Index, ShouldEqual, 0)
			So(outcomes[0].Context.Dir, ShouldEqual, layout.RunDir(0))

			d, err := store.Load(0)
			So(err, ShouldBeNil)
			So(d.Outcome, ShouldEqual, run.OutcomeFailed)
		})

		Convey("Normalization rewrites variables before dispatch", func() {
			normalized := mock.MatchedBy(func(job engine.Job) bool {
				return strings.HasPrefix(job.Variables[0].Name, run.NormalizedPrefix)
			})
			eng.On("Train", mock.Anything, normalized, mock.Anything).Return(artifactInRunDir, nil)

			normalizer := run.NewNormalizer(constantStats{}, "muPairs.mass")
			summary, err := New(plan, eng, store, layout, WithNormalizer(normalizer)).Run(context.Background())
			So(err, ShouldBeNil)
			So(summary.Succeeded, ShouldEqual, 6)

			d, err := store.Load(0)
			So(err, ShouldBeNil)
			So(d.Expressions()[0], ShouldEqual, "(muPairs.mass - (1))/(2)")
		})

		Convey("Missing statistics abort the sweep before the first run", func() {
			normalizer := run.NewNormalizer(constantStats{err: errors.New("no column")})
			_, err := New(plan, eng, store, layout, WithNormalizer(normalizer)).Run(context.Background())
			So(errors.Cause(err), ShouldEqual, ErrConfiguration)
			So(eng.Calls, ShouldBeEmpty)

			indices, err := store.Indices()
			So(err, ShouldBeNil)
			So(indices, ShouldBeEmpty)
		})
	})
}
