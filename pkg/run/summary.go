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
	"bytes"
	"fmt"
	"strings"
)

// Summary returns a one line description suitable for progress logs.
func (d *Descriptor) Summary() string {
	parts := []string{
		"methods=" + d.Methods.String(),
		fmt.Sprintf("variables=%d", len(d.Variables)),
		fmt.Sprintf("train=%d/%d", d.TrainSignal, d.TrainBackground),
		fmt.Sprintf("test=%d/%d", d.TestSignal, d.TestBackground),
	}
	if d.SelectionCut != "" {
		parts = append(parts, fmt.Sprintf("cut=%q", d.SelectionCut))
	}
	if d.BDTG != nil && d.ContainsMethod(BDTG) {
		parts = append(parts, fmt.Sprintf("trees=%d depth=%d", d.BDTG.TreeCount, d.BDTG.MaxDepth))
	}
	if d.DNN != nil && d.ContainsMethod(DNN) {
		parts = append(parts, fmt.Sprintf("layers=%d steps=%d layer=%q rate=%s",
			d.DNN.LayerCount, d.DNN.ConvergenceSteps, d.DNN.LayerSpec, d.DNN.LearningRate))
	}
	return strings.Join(parts, " ")
}

// String renders the whole descriptor, one field per line.
func (d *Descriptor) String() string {
	buffer := &bytes.Buffer{}
	fmt.Fprintf(buffer, "Run:\n  - methods: %s\n", d.Methods)
	fmt.Fprintf(buffer, "  - variables: [%s]\n", strings.Join(d.Expressions(), ", "))
	if d.SelectionCut == "" {
		buffer.WriteString("  - with no cut\n")
	} else {
		fmt.Fprintf(buffer, "  - cut: %s\n", d.SelectionCut)
	}
	fmt.Fprintf(buffer, "  - numSignalTrain: %d\n  - numBackgroundTrain: %d\n", d.TrainSignal, d.TrainBackground)
	fmt.Fprintf(buffer, "  - numSignalTest: %d\n  - numBackgroundTest: %d\n", d.TestSignal, d.TestBackground)
	if d.BDTG != nil && d.ContainsMethod(BDTG) {
		fmt.Fprintf(buffer, "  - BDTG:\n    - numTrees: %d\n    - maxDepth: %d\n", d.BDTG.TreeCount, d.BDTG.MaxDepth)
	}
	if d.DNN != nil && d.ContainsMethod(DNN) {
		fmt.Fprintf(buffer, "  - DNN:\n    - numLayers: %d\n    - convergenceSteps: %d\n    - layerString: %s\n    - learningRate: %s\n",
			d.DNN.LayerCount, d.DNN.ConvergenceSteps, d.DNN.LayerSpec, d.DNN.LearningRate)
	}
	fmt.Fprintf(buffer, "  - outcome: %s", d.Outcome)
	return buffer.String()
}
