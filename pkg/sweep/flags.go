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
	"strconv"
	"strings"

	"github.com/ldoney/CMS-ML-MASS/pkg/conf"
	"github.com/ldoney/CMS-ML-MASS/pkg/run"
	"github.com/pkg/errors"
)

var (
	planFileFlag = conf.NewStringFlag("plan", "YAML sweep plan; when empty the plan is built from the flags below", "")

	methodsFlag = conf.NewSliceFlag("methods",
		"Comma-separated list of method families (BDTG, DNN, ALL), one plan segment each", "ALL")
	presetFlag           = conf.NewStringFlag("variables_preset", "Variable preset: MUONS, JETS, MUONPAIRS, MUONPAIRS_AND_JETS or ALL", "ALL")
	includeVariablesFlag = conf.NewSliceFlag("include_variables", "Comma-separated list of expressions prepended to the preset")
	excludeVariablesFlag = conf.NewSliceFlag("exclude_variables", "Comma-separated list of expressions removed from the preset")
	backgroundWeightFlag = conf.NewStringFlag("background_weight", "Per event weight expression of the background sample", "PU_wgt")
	normalizeFlag        = conf.NewBoolFlag("normalize", "Normalize variables with signal sample statistics before the first run", false)
	normalizeOnlyFlag    = conf.NewSliceFlag("normalize_variables", "Comma-separated list of expressions to normalize; empty means all")

	cutsFlag          = conf.NewSliceFlag("cuts", "Comma-separated list of selection cuts to try; empty means no cut")
	signalTrainFlag   = conf.NewSliceFlag("num_signal_train", "Comma-separated list of signal training sizes", "1000000")
	bgTrainFlag       = conf.NewSliceFlag("num_background_train", "Comma-separated list of background training sizes", "1000000")
	signalTestFlag    = conf.NewSliceFlag("num_signal_test", "Comma-separated list of signal test sizes", "4000000")
	bgTestFlag        = conf.NewSliceFlag("num_background_test", "Comma-separated list of background test sizes", "4000000")
	variableMasksFlag = conf.NewSliceFlag("variable_masks", "Comma-separated list of variable masks; bit i excludes the i-th variable")

	numTreesFlag         = conf.NewSliceFlag("num_trees", "Comma-separated list of BDTG tree counts", "100")
	maxDepthFlag         = conf.NewSliceFlag("max_depth", "Comma-separated list of BDTG tree depths", "3")
	numLayersFlag        = conf.NewSliceFlag("num_layers", "Comma-separated list of DNN hidden layer counts", "5")
	convergenceStepsFlag = conf.NewSliceFlag("convergence_steps", "Comma-separated list of DNN convergence steps", "30")
	layerStringsFlag     = conf.NewSliceFlag("layer_strings", "Comma-separated list of DNN hidden layer specs", "DENSE|100|RELU")
	learningRatesFlag    = conf.NewSliceFlag("learning_rates", "Comma-separated list of DNN learning rates", "1e-3")
)

// PlanFromFlags loads the plan file given by the plan flag or, without one,
// builds a plan with one segment per method family from the list flags.
func PlanFromFlags() (*Plan, error) {
	if path := planFileFlag.Value(); path != "" {
		return LoadPlan(path)
	}

	plan := &Plan{
		Template: Template{
			Preset:           presetFlag.Value(),
			Include:          includeVariablesFlag.Value(),
			Exclude:          excludeVariablesFlag.Value(),
			BackgroundWeight: backgroundWeightFlag.Value(),
		},
	}
	if normalizeFlag.Value() {
		plan.Normalize = &Normalization{Variables: normalizeOnlyFlag.Value()}
	}

	cuts := cutsFlag.Value()
	if len(cuts) == 0 {
		cuts = []string{""}
	}

	splits, err := intAxes(
		flagAxis{AxisSignalTrain, signalTrainFlag.Value()},
		flagAxis{AxisBackgroundTrain, bgTrainFlag.Value()},
		flagAxis{AxisSignalTest, signalTestFlag.Value()},
		flagAxis{AxisBackgroundTest, bgTestFlag.Value()},
	)
	if err != nil {
		return nil, err
	}
	trees, err := intAxes(flagAxis{AxisNumTrees, numTreesFlag.Value()}, flagAxis{AxisMaxDepth, maxDepthFlag.Value()})
	if err != nil {
		return nil, err
	}
	network, err := intAxes(
		flagAxis{AxisNumLayers, numLayersFlag.Value()},
		flagAxis{AxisConvergenceSteps, convergenceStepsFlag.Value()},
	)
	if err != nil {
		return nil, err
	}
	masks, err := intAxes(flagAxis{AxisVariableMask, variableMasksFlag.Value()})
	if err != nil {
		return nil, err
	}

	cutAxis := TextAxis{Name: AxisCut, Values: cuts}
	networkText := []TextAxis{
		{Name: AxisLayerString, Values: layerStringsFlag.Value()},
		{Name: AxisLearningRate, Values: learningRatesFlag.Value()},
	}

	for _, family := range methodsFlag.Value() {
		methods, err := run.ParseMethodSet([]string{family})
		if err != nil {
			return nil, errors.Wrapf(ErrConfiguration, "methods flag: %v", err)
		}

		segment := &Segment{Methods: []string{strings.ToUpper(family)}, Text: []TextAxis{cutAxis}}
		if methods.Contains(run.DNN) {
			segment.Text = append(segment.Text, networkText...)
		}
		if methods.Contains(run.BDTG) {
			segment.Ints = append(segment.Ints, trees...)
		}
		segment.Ints = append(segment.Ints, splits...)
		if methods.Contains(run.DNN) {
			segment.Ints = append(segment.Ints, network...)
		}
		segment.Ints = append(segment.Ints, masks...)
		plan.Segments = append(plan.Segments, segment)
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

type flagAxis struct {
	name   string
	values []string
}

// intAxes parses list flags into integral axes. Flags without values are skipped.
func intAxes(flags ...flagAxis) ([]IntAxis, error) {
	axes := []IntAxis{}
	for _, flag := range flags {
		if len(flag.values) == 0 {
			continue
		}
		axis := IntAxis{Name: flag.name}
		for _, value := range flag.values {
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return nil, errors.Wrapf(ErrConfiguration, "axis %s: %q is not an integer", flag.name, value)
			}
			axis.Values = append(axis.Values, parsed)
		}
		axes = append(axes, axis)
	}
	return axes, nil
}
