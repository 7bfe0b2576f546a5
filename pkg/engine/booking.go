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

package engine

import (
	"fmt"
	"strings"

	"github.com/ldoney/CMS-ML-MASS/pkg/run"
)

const (
	bdtgOptionsFormat = "!H:!V:NTrees=%d:MinNodeSize=2.5%%:BoostType=Grad:Shrinkage=0.10:UseBaggedBoost:" +
		"BaggedSampleFraction=0.5:nCuts=20:MaxDepth=%d"

	dnnBaseOptions    = "!H:V:ErrorStrategy=CROSSENTROPY:VarTransform=None:WeightInitialization=XAVIER"
	dnnOutputLayer    = "DENSE|1|LINEAR"
	dnnNormalization  = "BNORM"
	dnnTrainingFormat = "LearningRate=%s,Momentum=0.9,Repetitions=1,ConvergenceSteps=%d,BatchSize=10," +
		"TestRepetitions=1,MaxEpochs=20,WeightDecay=1e-4,Regularization=None,Optimizer=ADAM,DropConfig=0.0+0.0+0.0+0."
)

// BookingOptions are the option strings the engine books each method with.
// An empty string means the method is not booked.
type BookingOptions struct {
	BDTG string `json:"bdtg,omitempty"`
	DNN  string `json:"dnn,omitempty"`
}

// NewBookingOptions renders option strings for the configured methods.
func NewBookingOptions(config run.MethodConfig) BookingOptions {
	options := BookingOptions{}
	if config.BDTG != nil {
		options.BDTG = BDTGOptions(*config.BDTG)
	}
	if config.DNN != nil {
		options.DNN = DNNOptions(*config.DNN)
	}
	return options
}

// BDTGOptions renders the gradient boosted trees options.
func BDTGOptions(params run.BDTGParams) string {
	return fmt.Sprintf(bdtgOptionsFormat, params.TreeCount, params.MaxDepth)
}

// DNNOptions renders the network layout and training strategy.
// Hidden layers are separated by batch normalization and followed by one linear output.
func DNNOptions(params run.DNNParams) string {
	layers := []string{}
	for i := 0; i < params.LayerCount; i++ {
		layers = append(layers, params.LayerSpec)
		if i != params.LayerCount-1 {
			layers = append(layers, dnnNormalization)
		}
	}
	layers = append(layers, dnnOutputLayer)

	return strings.Join([]string{
		dnnBaseOptions,
		"Layout=" + strings.Join(layers, ","),
		"TrainingStrategy=" + fmt.Sprintf(dnnTrainingFormat, params.LearningRate, params.ConvergenceSteps),
	}, ":")
}
