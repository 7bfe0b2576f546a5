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
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeStats struct {
	mean, halfSpread map[string]float64
	calls            map[string]int
}

func (f *fakeStats) Stats(expression string) (float64, float64, error) {
	f.calls[expression]++
	mean, ok := f.mean[expression]
	if !ok {
		return 0, 0, errors.Errorf("no column %q", expression)
	}
	return mean, f.halfSpread[expression], nil
}

func TestNormalizer(t *testing.T) {
	Convey("When normalizing variables", t, func() {
		source := &fakeStats{
			mean:       map[string]float64{"muPairs.mass": 125.5, "muPairs.pt": 40, "muPairs.eta": 0},
			halfSpread: map[string]float64{"muPairs.mass": 2.25, "muPairs.pt": 10, "muPairs.eta": 0},
			calls:      map[string]int{},
		}
		d := newTestDescriptor(NewMethodSet(BDTG))

		Convey("Selected expressions are rewritten and renamed", func() {
			n := NewNormalizer(source, "muPairs.mass")
			count, err := n.Apply(d)
			So(err, ShouldBeNil)
			So(count, ShouldEqual, 1)
			So(d.Variables[0].Expression, ShouldEqual, "(muPairs.mass - (125.5))/(2.25)")
			So(d.Variables[0].Name, ShouldEqual, "Norm_muPairs.mass")
			So(d.Variables[1].Expression, ShouldEqual, "muPairs.pt")
		})

		Convey("Applying twice changes nothing the second time", func() {
			n := NewNormalizer(source, "muPairs.mass", "muPairs.pt")
			_, err := n.Apply(d)
			So(err, ShouldBeNil)
			before := d.Expressions()

			count, err := n.Apply(d)
			So(err, ShouldBeNil)
			So(count, ShouldEqual, 0)
			So(d.Expressions(), ShouldResemble, before)
		})

		Convey("Statistics are computed once per expression", func() {
			n := NewNormalizer(source, "muPairs.pt")
			So(n.Prepare([]string{"muPairs.mass", "muPairs.pt"}), ShouldBeNil)
			_, err := n.Apply(d)
			So(err, ShouldBeNil)
			_, err = n.Apply(newTestDescriptor(NewMethodSet(BDTG)))
			So(err, ShouldBeNil)
			So(source.calls["muPairs.pt"], ShouldEqual, 1)
			So(source.calls["muPairs.mass"], ShouldEqual, 0)
		})

		Convey("A variable without spread is an error", func() {
			n := NewNormalizer(source)
			_, err := n.Apply(d)
			So(errors.Cause(err), ShouldEqual, ErrZeroSpread)
		})

		Convey("A missing column is reported by Prepare", func() {
			n := NewNormalizer(source)
			So(n.Prepare([]string{"met.pt"}), ShouldNotBeNil)
		})

		Convey("Cuts mentioning a normalized variable are reported, not rewritten", func() {
			d.SelectionCut = "muPairs.pt > 20"
			n := NewNormalizer(source, "muPairs.pt")
			_, err := n.Apply(d)
			So(err, ShouldBeNil)
			So(CutReferences(d), ShouldResemble, []string{"muPairs.pt"})
			So(d.SelectionCut, ShouldEqual, "muPairs.pt > 20")
		})
	})
}
