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
	"testing"

	"github.com/ldoney/CMS-ML-MASS/pkg/conf"
	"github.com/ldoney/CMS-ML-MASS/pkg/run"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPlanFromFlags(t *testing.T) {
	// List flags accumulate across parses so the flags are parsed once.
	Convey("When the plan is built from flags", t, func() {
		err := conf.ParseArgs([]string{
			"--methods", "BDTG,DNN",
			"--num_trees", "100,200",
			"--cuts", "muPairs.pt > 20",
			"--variables_preset", "MUONPAIRS",
		})
		So(err, ShouldBeNil)

		plan, err := PlanFromFlags()
		So(err, ShouldBeNil)

		So(plan.Segments, ShouldHaveLength, 2)
		So(plan.Size(), ShouldEqual, 2+1)

		d, err := plan.Descriptor(1)
		So(err, ShouldBeNil)
		So(d.ContainsMethod(run.DNN), ShouldBeFalse)
		So(d.BDTG.TreeCount, ShouldEqual, 200)
		So(d.SelectionCut, ShouldEqual, "muPairs.pt > 20")
		So(d.TrainSignal, ShouldEqual, 1000000)
		So(d.BackgroundWeight, ShouldEqual, "PU_wgt")

		d, err = plan.Descriptor(2)
		So(err, ShouldBeNil)
		So(d.DNN.LayerSpec, ShouldEqual, "DENSE|100|RELU")
		So(d.DNN.LearningRate, ShouldEqual, "1e-3")
		So(d.TestBackground, ShouldEqual, 4000000)
		So(d.Variables, ShouldHaveLength, 4)
	})
}
