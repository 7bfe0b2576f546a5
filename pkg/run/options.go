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

// MethodConfig carries the hyperparameters of the enabled methods only.
type MethodConfig struct {
	BDTG *BDTGParams `json:"bdtg,omitempty"`
	DNN  *DNNParams  `json:"dnn,omitempty"`
}

// TrainTestSpec describes how events are split between training and testing.
// The same selection cut applies to both classes.
type TrainTestSpec struct {
	TrainSignal      int    `json:"nTrain_Signal"`
	TrainBackground  int    `json:"nTrain_Background"`
	TestSignal       int    `json:"nTest_Signal"`
	TestBackground   int    `json:"nTest_Background"`
	SignalCut        string `json:"signalCut"`
	BackgroundCut    string `json:"backgroundCut"`
	BackgroundWeight string `json:"backgroundWeight,omitempty"`
}

// ToMethodConfig emits the hyperparameters of each enabled method.
func (d *Descriptor) ToMethodConfig() MethodConfig {
	config := MethodConfig{}
	if d.ContainsMethod(BDTG) && d.BDTG != nil {
		bdtg := *d.BDTG
		config.BDTG = &bdtg
	}
	if d.ContainsMethod(DNN) && d.DNN != nil {
		dnn := *d.DNN
		config.DNN = &dnn
	}
	return config
}

// ToTrainTestSpec emits the split counts and applies the selection cut to both classes.
func (d *Descriptor) ToTrainTestSpec() TrainTestSpec {
	return TrainTestSpec{
		TrainSignal:      d.TrainSignal,
		TrainBackground:  d.TrainBackground,
		TestSignal:       d.TestSignal,
		TestBackground:   d.TestBackground,
		SignalCut:        d.SelectionCut,
		BackgroundCut:    d.SelectionCut,
		BackgroundWeight: d.BackgroundWeight,
	}
}
