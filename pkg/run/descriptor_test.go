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

func newTestDescriptor(methods MethodSet) *Descriptor {
	d := &Descriptor{
		Variables:       VariablesFromExpressions([]string{"muPairs.mass", "muPairs.pt", "muPairs.eta"}),
		Methods:         methods,
		TrainSignal:     1000,
		TrainBackground: 2000,
		TestSignal:      500,
		TestBackground:  600,
	}
	d.Gate()
	return d
}

func TestContainsMethod(t *testing.T) {
	Convey("When a descriptor enables every method", t, func() {
		d := newTestDescriptor(AllMethods())

		Convey("Both concrete methods are reported as enabled", func() {
			So(d.ContainsMethod(BDTG), ShouldBeTrue)
			So(d.ContainsMethod(DNN), ShouldBeTrue)
			So(d.Methods.Enabled(), ShouldResemble, []Method{BDTG, DNN})
		})
	})

	Convey("When a descriptor enables BDTG only", t, func() {
		d := newTestDescriptor(NewMethodSet(BDTG))

		Convey("DNN is not enabled", func() {
			So(d.ContainsMethod(BDTG), ShouldBeTrue)
			So(d.ContainsMethod(DNN), ShouldBeFalse)
		})

		Convey("Only BDTG hyperparameters are present", func() {
			So(d.BDTG, ShouldResemble, &BDTGParams{TreeCount: 100, MaxDepth: 3})
			So(d.DNN, ShouldBeNil)
		})
	})

	Convey("The zero method set enables nothing", t, func() {
		set := MethodSet{}
		So(set.Empty(), ShouldBeTrue)
		So(set.Contains(BDTG), ShouldBeFalse)
		So(set.Contains(DNN), ShouldBeFalse)
	})
}

func TestParseMethodSet(t *testing.T) {
	Convey("When parsing method names", t, func() {
		Convey("Concrete names and the wildcard are accepted", func() {
			set, err := ParseMethodSet([]string{"BDTG", "ALL"})
			So(err, ShouldBeNil)
			So(set.AllEnabled, ShouldBeTrue)
			So(set.Names(), ShouldResemble, []string{"BDTG", "ALL"})
		})

		Convey("The legacy wildcard spelling is accepted", func() {
			set, err := ParseMethodSet([]string{"ALL_METHODS"})
			So(err, ShouldBeNil)
			So(set.Equal(AllMethods()), ShouldBeTrue)
		})

		Convey("Names are case insensitive", func() {
			set, err := ParseMethodSet([]string{"dnn"})
			So(err, ShouldBeNil)
			So(set.Equal(NewMethodSet(DNN)), ShouldBeTrue)
		})

		Convey("An unknown name is an error", func() {
			_, err := ParseMethodSet([]string{"SVM"})
			So(errors.Cause(err), ShouldEqual, ErrUnknownMethod)
		})
	})
}

func TestDescriptorVariables(t *testing.T) {
	Convey("When changing the variables of a descriptor", t, func() {
		d := newTestDescriptor(NewMethodSet(BDTG))

		Convey("An included variable goes first", func() {
			So(d.IncludeVariable(NewVariable("met.pt")), ShouldBeNil)
			So(d.Expressions(), ShouldResemble, []string{"met.pt", "muPairs.mass", "muPairs.pt", "muPairs.eta"})
		})

		Convey("Including an existing expression fails", func() {
			err := d.IncludeVariable(NewVariable("muPairs.pt"))
			So(errors.Cause(err), ShouldEqual, ErrDuplicateVariable)
			So(d.Variables, ShouldHaveLength, 3)
		})

		Convey("Excluding by expression removes the variable", func() {
			So(d.ExcludeVariable("muPairs.pt"), ShouldBeTrue)
			So(d.ExcludeVariable("muPairs.pt"), ShouldBeFalse)
			So(d.Expressions(), ShouldResemble, []string{"muPairs.mass", "muPairs.eta"})
		})

		Convey("Excluding by mask uses positions of the original list", func() {
			So(d.ExcludeMask(5), ShouldEqual, 2)
			So(d.Expressions(), ShouldResemble, []string{"muPairs.pt"})
		})

		Convey("A clone does not share variables with the original", func() {
			c := d.Clone()
			c.ExcludeMask(1)
			c.BDTG.TreeCount = 7
			So(d.Variables, ShouldHaveLength, 3)
			So(d.BDTG.TreeCount, ShouldEqual, 100)
		})
	})

	Convey("Presets expand into variables with default metadata", t, func() {
		variables, err := PresetVariables("muonpairs")
		So(err, ShouldBeNil)
		So(variables, ShouldHaveLength, 4)
		So(variables[0], ShouldResemble, Variable{Expression: "muPairs.mass", Name: "muPairs.mass", Unit: DefaultUnit, Type: DefaultType})

		_, err = PresetVariables("ELECTRONS")
		So(err, ShouldNotBeNil)
	})
}

func TestDescriptorValidate(t *testing.T) {
	Convey("When validating a descriptor", t, func() {
		d := newTestDescriptor(AllMethods())

		Convey("A gated descriptor is valid", func() {
			So(d.Validate(), ShouldBeNil)
		})

		Convey("Missing methods are rejected", func() {
			d.Methods = MethodSet{}
			So(d.Validate(), ShouldNotBeNil)
		})

		Convey("Negative split counts are rejected", func() {
			d.TestBackground = -1
			So(d.Validate(), ShouldNotBeNil)

			Convey("The first negative count in split order is reported", func() {
				d.TrainSignal = -2
				for i := 0; i < 20; i++ {
					So(d.Validate().Error(), ShouldEqual, "signal train count must not be negative, got -2")
				}
			})
		})

		Convey("Non positive tree counts are rejected", func() {
			d.BDTG.TreeCount = 0
			So(d.Validate(), ShouldNotBeNil)
		})

		Convey("An enabled method without hyperparameters is rejected", func() {
			d.DNN = nil
			So(d.Validate(), ShouldNotBeNil)
		})

		Convey("Duplicated variables are rejected", func() {
			d.Variables = append(d.Variables, NewVariable("muPairs.mass"))
			So(errors.Cause(d.Validate()), ShouldEqual, ErrDuplicateVariable)
		})
	})
}

func TestDerivedOptions(t *testing.T) {
	Convey("When deriving engine options", t, func() {
		d := newTestDescriptor(NewMethodSet(DNN))
		d.SelectionCut = "muPairs.pt > 20"
		d.BackgroundWeight = "PU_wgt"

		Convey("Only enabled methods are configured", func() {
			config := d.ToMethodConfig()
			So(config.BDTG, ShouldBeNil)
			So(*config.DNN, ShouldResemble, DefaultDNNParams())
		})

		Convey("Hyperparameters leaking from a disabled method are not emitted", func() {
			d.BDTG = &BDTGParams{TreeCount: 10, MaxDepth: 2}
			So(d.ToMethodConfig().BDTG, ShouldBeNil)
		})

		Convey("The cut is applied to both classes", func() {
			spec := d.ToTrainTestSpec()
			So(spec.SignalCut, ShouldEqual, "muPairs.pt > 20")
			So(spec.BackgroundCut, ShouldEqual, "muPairs.pt > 20")
			So(spec.TrainBackground, ShouldEqual, 2000)
			So(spec.BackgroundWeight, ShouldEqual, "PU_wgt")
		})

		Convey("The summary names methods and split", func() {
			So(d.Summary(), ShouldContainSubstring, "methods=[DNN]")
			So(d.Summary(), ShouldContainSubstring, "train=1000/2000")
			So(d.String(), ShouldContainSubstring, "layerString: DENSE|100|RELU")
			So(d.String(), ShouldNotContainSubstring, "numTrees")
		})
	})
}
