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

package metadata

import (
	"encoding/json"
	"strconv"

	"github.com/ldoney/CMS-ML-MASS/pkg/run"
	"github.com/pkg/errors"
)

// Keys of a run record.
const (
	KeyTrainSignal      = "numSignalTrain"
	KeyTrainBackground  = "numBackgroundTrain"
	KeyTestSignal       = "numSignalTest"
	KeyTestBackground   = "numBackgroundTest"
	KeyCut              = "cut"
	KeySuccess          = "isSuccess"
	KeyMethods          = "methods"
	KeyVariables        = "variables"
	KeyTreeCount        = "numTrees"
	KeyMaxDepth         = "maxDepth"
	KeyLayerCount       = "numLayers"
	KeyConvergenceSteps = "convergenceSteps"
	KeyLayerSpec        = "layerString"
	KeyLearningRate     = "learningRate"
	KeyBackgroundWeight = "backgroundWeight"

	// KeyLegacyMassCut is a boolean written by old sweeps instead of a cut expression.
	KeyLegacyMassCut = "performMassCut"
)

// LegacyMassCut is the cut a true KeyLegacyMassCut stands for.
const LegacyMassCut = "120 < muPairs.mass && muPairs.mass < 150"

// ToRecord flattens a descriptor. Hyperparameters of disabled methods are left out
// and an unknown outcome writes no KeySuccess.
func ToRecord(d *run.Descriptor) (map[string]string, error) {
	methods, err := json.Marshal(d.Methods.Names())
	if err != nil {
		return nil, errors.Wrap(err, "cannot encode methods")
	}
	variables, err := json.Marshal(d.Expressions())
	if err != nil {
		return nil, errors.Wrap(err, "cannot encode variables")
	}

	record := map[string]string{
		KeyTrainSignal:     strconv.Itoa(d.TrainSignal),
		KeyTrainBackground: strconv.Itoa(d.TrainBackground),
		KeyTestSignal:      strconv.Itoa(d.TestSignal),
		KeyTestBackground:  strconv.Itoa(d.TestBackground),
		KeyCut:             d.SelectionCut,
		KeyMethods:         string(methods),
		KeyVariables:       string(variables),
	}

	switch d.Outcome {
	case run.OutcomeSucceeded:
		record[KeySuccess] = "1"
	case run.OutcomeFailed:
		record[KeySuccess] = "0"
	}

	if d.BackgroundWeight != "" {
		record[KeyBackgroundWeight] = d.BackgroundWeight
	}

	if d.ContainsMethod(run.BDTG) && d.BDTG != nil {
		record[KeyTreeCount] = strconv.Itoa(d.BDTG.TreeCount)
		record[KeyMaxDepth] = strconv.Itoa(d.BDTG.MaxDepth)
	}
	if d.ContainsMethod(run.DNN) && d.DNN != nil {
		record[KeyLayerCount] = strconv.Itoa(d.DNN.LayerCount)
		record[KeyConvergenceSteps] = strconv.Itoa(d.DNN.ConvergenceSteps)
		record[KeyLayerSpec] = d.DNN.LayerSpec
		record[KeyLearningRate] = d.DNN.LearningRate
	}

	return record, nil
}

// FromRecord parses a record into a descriptor. Variables are rebuilt from their
// bare expressions. Hyperparameters are read only for enabled methods and are
// left unset when absent.
func FromRecord(record map[string]string) (*run.Descriptor, error) {
	d := &run.Descriptor{}

	var methodNames []string
	if err := decodeList(record, KeyMethods, &methodNames); err != nil {
		return nil, err
	}
	methods, err := run.ParseMethodSet(methodNames)
	if err != nil {
		return nil, err
	}
	d.Methods = methods

	var expressions []string
	if err := decodeList(record, KeyVariables, &expressions); err != nil {
		return nil, err
	}
	d.Variables = run.VariablesFromExpressions(expressions)

	counts := []struct {
		key    string
		target *int
	}{
		{KeyTrainSignal, &d.TrainSignal},
		{KeyTrainBackground, &d.TrainBackground},
		{KeyTestSignal, &d.TestSignal},
		{KeyTestBackground, &d.TestBackground},
	}
	for _, count := range counts {
		if *count.target, err = requiredInt(record, count.key); err != nil {
			return nil, err
		}
	}

	d.SelectionCut = record[KeyCut]
	if legacy, ok := record[KeyLegacyMassCut]; ok && d.SelectionCut == "" {
		massCut, err := strconv.ParseBool(legacy)
		if err != nil {
			return nil, errors.Wrapf(err, "malformed %s", KeyLegacyMassCut)
		}
		if massCut {
			d.SelectionCut = LegacyMassCut
		}
	}

	if success, ok := record[KeySuccess]; ok {
		succeeded, err := strconv.ParseBool(success)
		if err != nil {
			return nil, errors.Wrapf(err, "malformed %s", KeySuccess)
		}
		d.Outcome = run.OutcomeFailed
		if succeeded {
			d.Outcome = run.OutcomeSucceeded
		}
	}

	d.BackgroundWeight = record[KeyBackgroundWeight]

	if d.ContainsMethod(run.BDTG) {
		d.BDTG, err = decodeBDTG(record)
		if err != nil {
			return nil, err
		}
	}
	if d.ContainsMethod(run.DNN) {
		d.DNN, err = decodeDNN(record)
		if err != nil {
			return nil, err
		}
	}

	return d, nil
}

func decodeBDTG(record map[string]string) (*run.BDTGParams, error) {
	if !hasAny(record, KeyTreeCount, KeyMaxDepth) {
		return nil, nil
	}
	params := &run.BDTGParams{}
	var err error
	if params.TreeCount, err = requiredInt(record, KeyTreeCount); err != nil {
		return nil, err
	}
	if params.MaxDepth, err = requiredInt(record, KeyMaxDepth); err != nil {
		return nil, err
	}
	return params, nil
}

func decodeDNN(record map[string]string) (*run.DNNParams, error) {
	if !hasAny(record, KeyLayerCount, KeyConvergenceSteps, KeyLayerSpec, KeyLearningRate) {
		return nil, nil
	}
	params := &run.DNNParams{
		LayerSpec:    record[KeyLayerSpec],
		LearningRate: record[KeyLearningRate],
	}
	var err error
	if params.LayerCount, err = requiredInt(record, KeyLayerCount); err != nil {
		return nil, err
	}
	if params.ConvergenceSteps, err = requiredInt(record, KeyConvergenceSteps); err != nil {
		return nil, err
	}
	return params, nil
}

func hasAny(record map[string]string, keys ...string) bool {
	for _, key := range keys {
		if _, ok := record[key]; ok {
			return true
		}
	}
	return false
}

func requiredInt(record map[string]string, key string) (int, error) {
	value, ok := record[key]
	if !ok {
		return 0, errors.Errorf("missing %s", key)
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.Wrapf(err, "malformed %s", key)
	}
	return parsed, nil
}

func decodeList(record map[string]string, key string, target *[]string) error {
	value, ok := record[key]
	if !ok {
		return errors.Errorf("missing %s", key)
	}
	if err := json.Unmarshal([]byte(value), target); err != nil {
		return errors.Wrapf(err, "malformed %s", key)
	}
	return nil
}
