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
	"strings"

	"github.com/pkg/errors"
)

const (
	// DefaultUnit is assigned to variables rebuilt from a bare expression.
	DefaultUnit = "units"
	// DefaultType is the type tag of floating point variables.
	DefaultType = 'F'
)

// ErrDuplicateVariable is returned when a variable expression is included twice.
var ErrDuplicateVariable = errors.New("variable already included")

// Variable is one input feature handed to the training engine.
// Expression is opaque to this package and identifies the variable within a run.
type Variable struct {
	Expression string
	Name       string
	Unit       string
	Type       byte
}

// NewVariable rebuilds a variable from its bare expression using the default
// name, unit and type.
func NewVariable(expression string) Variable {
	return Variable{
		Expression: expression,
		Name:       expression,
		Unit:       DefaultUnit,
		Type:       DefaultType,
	}
}

// Preset names a predefined list of variables.
type Preset string

// Predefined variable presets.
const (
	PresetMuons            Preset = "MUONS"
	PresetJets             Preset = "JETS"
	PresetMuonPairs        Preset = "MUONPAIRS"
	PresetMuonPairsAndJets Preset = "MUONPAIRS_AND_JETS"
	PresetAll              Preset = "ALL"
)

var presets = map[Preset][]string{
	PresetMuons:     {"muons.charge", "muons.pt", "muons.eta", "muons.phi"},
	PresetMuonPairs: {"muPairs.mass", "muPairs.pt", "muPairs.eta", "muPairs.phi"},
	PresetJets:      {"jets.charge", "jets.pt", "jets.eta", "jets.mass"},
	PresetMuonPairsAndJets: {
		"muPairs.mass", "muPairs.charge", "muPairs.pt", "muPairs.eta", "muPairs.phi",
		"jets.mass", "jets.charge", "jets.pt", "jets.eta", "jets.phi",
	},
	// muPairs.charge is left out on purpose, the engine rejects it.
	PresetAll: {
		"Alt$(muons.pt[0],-99)", "Alt$(muons.pt[1],-99)",
		"muPairs.mass", "muPairs.pt", "muPairs.eta", "muPairs.phi",
		"muPairs.dR", "muPairs.dEta", "muPairs.dPhi", "muPairs.dPhiStar",
		"met.px", "met.py", "met.pt", "met.phi", "met.sumEt",
		"jets.pt[0]",
		"jetPairs.mass", "jetPairs.pt", "jetPairs.eta", "jetPairs.phi",
		"jetPairs.dR", "jetPairs.dEta", "jetPairs.dPhi",
	},
}

// PresetVariables expands a preset into variables with default metadata.
func PresetVariables(p Preset) ([]Variable, error) {
	expressions, ok := presets[Preset(strings.ToUpper(string(p)))]
	if !ok {
		return nil, errors.Errorf("unknown variable preset %q", p)
	}
	return VariablesFromExpressions(expressions), nil
}

// VariablesFromExpressions rebuilds variables from bare expressions.
func VariablesFromExpressions(expressions []string) []Variable {
	variables := make([]Variable, 0, len(expressions))
	for _, e := range expressions {
		variables = append(variables, NewVariable(e))
	}
	return variables
}
