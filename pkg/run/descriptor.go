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

/*
Package run holds the complete description of one training variant (Descriptor)
and derives from it what the training engine needs (MethodConfig, TrainTestSpec)
without knowing anything about the engine itself.

Method specific hyperparameters are present only when their method is enabled.
Gate drops the ones that are not; Validate reports the ones that are missing.
*/
package run

import (
	"github.com/pkg/errors"
)

// Outcome is the tri-state result of executing a run.
type Outcome int

const (
	// OutcomeUnknown means the run was not executed (or the record predates it).
	OutcomeUnknown Outcome = iota
	// OutcomeSucceeded means the engine finished and produced its artifact.
	OutcomeSucceeded
	// OutcomeFailed means the run was aborted at the run boundary.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// BDTGParams are the boosted decision tree hyperparameters.
type BDTGParams struct {
	TreeCount int
	MaxDepth  int
}

// DefaultBDTGParams returns the tree settings used when a plan gives none.
func DefaultBDTGParams() BDTGParams {
	return BDTGParams{TreeCount: 100, MaxDepth: 3}
}

// DNNParams are the neural network hyperparameters.
type DNNParams struct {
	LayerCount       int
	ConvergenceSteps int
	LayerSpec        string
	LearningRate     string
}

// DefaultDNNParams returns the network settings used when a plan gives none.
func DefaultDNNParams() DNNParams {
	return DNNParams{
		LayerCount:       5,
		ConvergenceSteps: 30,
		LayerSpec:        "DENSE|100|RELU",
		LearningRate:     "1e-3",
	}
}

// Descriptor is the full, serializable description of one variant.
type Descriptor struct {
	Variables []Variable
	Methods   MethodSet

	TrainSignal     int
	TrainBackground int
	TestSignal      int
	TestBackground  int

	// BDTG is set iff Methods contains BDTG.
	BDTG *BDTGParams
	// DNN is set iff Methods contains DNN.
	DNN *DNNParams

	// SelectionCut is an opaque filter expression; empty means no filter.
	SelectionCut string
	// BackgroundWeight is an opaque per-event weight expression for the background class.
	BackgroundWeight string

	Outcome Outcome
}

// ContainsMethod reports whether m is enabled, explicitly or through "all methods".
func (d *Descriptor) ContainsMethod(m Method) bool {
	return d.Methods.Contains(m)
}

// Clone returns a deep copy of the descriptor.
func (d *Descriptor) Clone() *Descriptor {
	c := *d
	c.Variables = append([]Variable(nil), d.Variables...)
	c.Methods = d.Methods.Clone()
	if d.BDTG != nil {
		bdtg := *d.BDTG
		c.BDTG = &bdtg
	}
	if d.DNN != nil {
		dnn := *d.DNN
		c.DNN = &dnn
	}
	return &c
}

// Gate drops hyperparameters of disabled methods and fills defaults for enabled
// methods that have none.
func (d *Descriptor) Gate() {
	if d.ContainsMethod(BDTG) {
		if d.BDTG == nil {
			params := DefaultBDTGParams()
			d.BDTG = &params
		}
	} else {
		d.BDTG = nil
	}

	if d.ContainsMethod(DNN) {
		if d.DNN == nil {
			params := DefaultDNNParams()
			d.DNN = &params
		}
	} else {
		d.DNN = nil
	}
}

// IncludeVariable prepends v to the variable list.
func (d *Descriptor) IncludeVariable(v Variable) error {
	if d.HasVariable(v.Expression) {
		return errors.Wrapf(ErrDuplicateVariable, "%q", v.Expression)
	}
	d.Variables = append([]Variable{v}, d.Variables...)
	return nil
}

// HasVariable reports whether a variable with the expression is present.
func (d *Descriptor) HasVariable(expression string) bool {
	for _, v := range d.Variables {
		if v.Expression == expression {
			return true
		}
	}
	return false
}

// ExcludeVariable removes the variable with the given expression.
// It returns false when no such variable exists.
func (d *Descriptor) ExcludeVariable(expression string) bool {
	kept := d.Variables[:0:0]
	for _, v := range d.Variables {
		if v.Expression != expression {
			kept = append(kept, v)
		}
	}
	removed := len(kept) != len(d.Variables)
	d.Variables = kept
	return removed
}

// ExcludeMask removes every variable whose position has its bit set in mask.
// Positions refer to the list before any removal. It returns how many were removed.
func (d *Descriptor) ExcludeMask(mask int) int {
	kept := d.Variables[:0:0]
	for i, v := range d.Variables {
		if i < 63 && mask&(1<<uint(i)) != 0 {
			continue
		}
		kept = append(kept, v)
	}
	removed := len(d.Variables) - len(kept)
	d.Variables = kept
	return removed
}

// Expressions returns the variable expressions in order.
func (d *Descriptor) Expressions() []string {
	expressions := make([]string, 0, len(d.Variables))
	for _, v := range d.Variables {
		expressions = append(expressions, v.Expression)
	}
	return expressions
}

// Validate checks that the descriptor can be handed to the training engine.
func (d *Descriptor) Validate() error {
	if d.Methods.Empty() {
		return errors.New("no method enabled")
	}
	if len(d.Variables) == 0 {
		return errors.New("no variables")
	}

	seen := map[string]bool{}
	for _, v := range d.Variables {
		if seen[v.Expression] {
			return errors.Wrapf(ErrDuplicateVariable, "%q", v.Expression)
		}
		seen[v.Expression] = true
	}

	counts := []struct {
		name  string
		count int
	}{
		{"signal train count", d.TrainSignal},
		{"background train count", d.TrainBackground},
		{"signal test count", d.TestSignal},
		{"background test count", d.TestBackground},
	}
	for _, c := range counts {
		if c.count < 0 {
			return errors.Errorf("%s must not be negative, got %d", c.name, c.count)
		}
	}

	if d.ContainsMethod(BDTG) {
		if d.BDTG == nil {
			return errors.New("BDTG enabled without hyperparameters")
		}
		if d.BDTG.TreeCount <= 0 || d.BDTG.MaxDepth <= 0 {
			return errors.Errorf("BDTG needs positive tree count and depth, got %d and %d", d.BDTG.TreeCount, d.BDTG.MaxDepth)
		}
	}

	if d.ContainsMethod(DNN) {
		if d.DNN == nil {
			return errors.New("DNN enabled without hyperparameters")
		}
		if d.DNN.LayerCount <= 0 || d.DNN.ConvergenceSteps <= 0 {
			return errors.Errorf("DNN needs positive layer count and convergence steps, got %d and %d", d.DNN.LayerCount, d.DNN.ConvergenceSteps)
		}
		if d.DNN.LayerSpec == "" || d.DNN.LearningRate == "" {
			return errors.New("DNN needs a layer spec and a learning rate")
		}
	}

	return nil
}
