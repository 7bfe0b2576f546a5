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
	"testing"

	"github.com/ldoney/CMS-ML-MASS/pkg/engine"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIntegral(t *testing.T) {
	Convey("When integrating a curve over the unit domain", t, func() {
		Convey("A constant curve integrates to its value", func() {
			So(Integral([]engine.Point{{X: 0, Y: 0.8}, {X: 0.5, Y: 0.8}, {X: 1, Y: 0.8}}), ShouldAlmostEqual, 0.8)
		})

		Convey("A diagonal integrates to one half", func() {
			So(Integral([]engine.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}), ShouldAlmostEqual, 0.5)
		})

		Convey("Points outside the domain are clipped", func() {
			So(Integral([]engine.Point{{X: -1, Y: 1}, {X: 2, Y: 1}}), ShouldAlmostEqual, 1)
			So(Integral([]engine.Point{{X: 0, Y: 0}, {X: 2, Y: 2}}), ShouldAlmostEqual, 0.5)
		})

		Convey("Point order does not matter", func() {
			So(Integral([]engine.Point{{X: 1, Y: 0}, {X: 0.5, Y: 0.9}, {X: 0, Y: 1}}),
				ShouldAlmostEqual, Integral([]engine.Point{{X: 0, Y: 1}, {X: 0.5, Y: 0.9}, {X: 1, Y: 0}}))
		})

		Convey("Degenerate curves integrate to zero", func() {
			So(Integral(nil), ShouldEqual, 0)
			So(Integral([]engine.Point{{X: 0.5, Y: 1}}), ShouldEqual, 0)
		})
	})
}

func TestKolmogorovSmirnov(t *testing.T) {
	Convey("When comparing binned distributions", t, func() {
		signal := []engine.Point{{X: 0.1, Y: 5}, {X: 0.5, Y: 10}, {X: 0.9, Y: 85}}

		Convey("A distribution is at distance zero from itself", func() {
			distance, err := KolmogorovSmirnov(signal, signal)
			So(err, ShouldBeNil)
			So(distance, ShouldEqual, 0)
		})

		Convey("Disjoint distributions are at distance one", func() {
			distance, err := KolmogorovSmirnov([]engine.Point{{X: 0, Y: 1}}, []engine.Point{{X: 1, Y: 1}})
			So(err, ShouldBeNil)
			So(distance, ShouldAlmostEqual, 1)
		})

		Convey("Scaling a distribution does not change the distance", func() {
			doubled := []engine.Point{{X: 0.1, Y: 10}, {X: 0.5, Y: 20}, {X: 0.9, Y: 170}}
			distance, err := KolmogorovSmirnov(signal, doubled)
			So(err, ShouldBeNil)
			So(distance, ShouldAlmostEqual, 0)
		})

		Convey("An empty distribution is an error", func() {
			_, err := KolmogorovSmirnov(signal, nil)
			So(errors.Cause(err), ShouldEqual, ErrEmptyDistribution)
		})
	})
}
