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
	"io/ioutil"

	"github.com/ldoney/CMS-ML-MASS/pkg/run"
	"github.com/ldoney/CMS-ML-MASS/pkg/space"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrConfiguration marks errors which abort the sweep before any run starts.
var ErrConfiguration = errors.New("invalid sweep configuration")

// Axis names. They match the record keys of a run.
const (
	AxisCut              = "cut"
	AxisLayerString      = "layerString"
	AxisLearningRate     = "learningRate"
	AxisNumTrees         = "numTrees"
	AxisMaxDepth         = "maxDepth"
	AxisSignalTrain      = "numSignalTrain"
	AxisBackgroundTrain  = "numBackgroundTrain"
	AxisSignalTest       = "numSignalTest"
	AxisBackgroundTest   = "numBackgroundTest"
	AxisNumLayers        = "numLayers"
	AxisConvergenceSteps = "convergenceSteps"
	// AxisVariableMask excludes the i-th template variable when bit i is set.
	AxisVariableMask = "variableMask"
)

type textBinding struct {
	method run.Method
	bind   func(d *run.Descriptor, value string)
}

type intBinding struct {
	method run.Method
	bind   func(d *run.Descriptor, value int)
}

// An empty method means the axis applies to every method family.
var textBindings = map[string]textBinding{
	AxisCut:          {"", func(d *run.Descriptor, v string) { d.SelectionCut = v }},
	AxisLayerString:  {run.DNN, func(d *run.Descriptor, v string) { d.DNN.LayerSpec = v }},
	AxisLearningRate: {run.DNN, func(d *run.Descriptor, v string) { d.DNN.LearningRate = v }},
}

var intBindings = map[string]intBinding{
	AxisNumTrees:         {run.BDTG, func(d *run.Descriptor, v int) { d.BDTG.TreeCount = v }},
	AxisMaxDepth:         {run.BDTG, func(d *run.Descriptor, v int) { d.BDTG.MaxDepth = v }},
	AxisSignalTrain:      {"", func(d *run.Descriptor, v int) { d.TrainSignal = v }},
	AxisBackgroundTrain:  {"", func(d *run.Descriptor, v int) { d.TrainBackground = v }},
	AxisSignalTest:       {"", func(d *run.Descriptor, v int) { d.TestSignal = v }},
	AxisBackgroundTest:   {"", func(d *run.Descriptor, v int) { d.TestBackground = v }},
	AxisNumLayers:        {run.DNN, func(d *run.Descriptor, v int) { d.DNN.LayerCount = v }},
	AxisConvergenceSteps: {run.DNN, func(d *run.Descriptor, v int) { d.DNN.ConvergenceSteps = v }},
	AxisVariableMask:     {"", func(d *run.Descriptor, v int) { d.ExcludeMask(v) }},
}

// TextAxis is a named list of textual candidates.
type TextAxis struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`
}

// IntAxis is a named list of integral candidates.
type IntAxis struct {
	Name   string `yaml:"name"`
	Values []int  `yaml:"values"`
}

// Segment is one method family with the axes relevant to it.
type Segment struct {
	Methods []string   `yaml:"methods"`
	Text    []TextAxis `yaml:"text,omitempty"`
	Ints    []IntAxis  `yaml:"ints,omitempty"`

	methods run.MethodSet
	space   *space.Space
}

// Size returns the number of runs of the segment. It is valid after Plan.Validate.
func (s *Segment) Size() int {
	return s.space.Size()
}

// BDTGTemplate are the tree settings of the template.
type BDTGTemplate struct {
	NumTrees int `yaml:"numTrees"`
	MaxDepth int `yaml:"maxDepth"`
}

// DNNTemplate are the network settings of the template.
type DNNTemplate struct {
	NumLayers        int    `yaml:"numLayers"`
	ConvergenceSteps int    `yaml:"convergenceSteps"`
	LayerString      string `yaml:"layerString"`
	LearningRate     string `yaml:"learningRate"`
}

// Template holds the values shared by every run before axes are bound.
type Template struct {
	Preset           string        `yaml:"preset,omitempty"`
	Variables        []string      `yaml:"variables,omitempty"`
	Include          []string      `yaml:"include,omitempty"`
	Exclude          []string      `yaml:"exclude,omitempty"`
	SignalTrain      int           `yaml:"numSignalTrain"`
	BackgroundTrain  int           `yaml:"numBackgroundTrain"`
	SignalTest       int           `yaml:"numSignalTest"`
	BackgroundTest   int           `yaml:"numBackgroundTest"`
	Cut              string        `yaml:"cut,omitempty"`
	BackgroundWeight string        `yaml:"backgroundWeight,omitempty"`
	BDTG             *BDTGTemplate `yaml:"bdtg,omitempty"`
	DNN              *DNNTemplate  `yaml:"dnn,omitempty"`
}

// Normalization selects variables normalized before the first run.
// No variables means every variable.
type Normalization struct {
	Variables []string `yaml:"variables,omitempty"`
}

// Plan is an ordered list of segments bound onto a common template.
// Global run indices enumerate the segments in order.
type Plan struct {
	Template  Template       `yaml:"template"`
	Normalize *Normalization `yaml:"normalize,omitempty"`
	Segments  []*Segment     `yaml:"segments"`

	template *run.Descriptor
	size     int
}

// LoadPlan reads and validates a YAML plan file.
func LoadPlan(path string) (*Plan, error) {
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read plan %q", path)
	}
	return ParsePlan(content)
}

// ParsePlan decodes and validates a YAML plan.
func ParsePlan(content []byte) (*Plan, error) {
	plan := &Plan{}
	if err := yaml.Unmarshal(content, plan); err != nil {
		return nil, errors.Wrapf(ErrConfiguration, "cannot decode plan: %v", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

// YAML renders the plan for the sweep record.
func (p *Plan) YAML() (string, error) {
	content, err := yaml.Marshal(p)
	if err != nil {
		return "", errors.Wrap(err, "cannot encode plan")
	}
	return string(content), nil
}

// Validate builds the template and the segment spaces. Every problem is
// reported as ErrConfiguration.
func (p *Plan) Validate() error {
	template, err := p.Template.descriptor()
	if err != nil {
		return errors.Wrapf(ErrConfiguration, "template: %v", err)
	}
	if len(p.Segments) == 0 {
		return errors.Wrap(ErrConfiguration, "plan has no segments")
	}

	size := 0
	for i, segment := range p.Segments {
		if err := segment.validate(); err != nil {
			return errors.Wrapf(ErrConfiguration, "segment %d: %v", i, err)
		}
		if size > maxInt-segment.Size() {
			return errors.Wrapf(ErrConfiguration, "segment %d: %v", i, space.ErrTooLarge)
		}
		size += segment.Size()
	}

	p.template = template
	p.size = size
	return nil
}

const maxInt = int(^uint(0) >> 1)

// Size returns the number of runs of the whole plan.
func (p *Plan) Size() int {
	return p.size
}

// Descriptor builds the run at a global index: the owning segment decodes its
// local index and binds the values onto a copy of the template.
func (p *Plan) Descriptor(index int) (*run.Descriptor, error) {
	if p.template == nil {
		return nil, errors.Wrap(ErrConfiguration, "plan was not validated")
	}
	if index < 0 || index >= p.size {
		return nil, errors.Wrapf(space.ErrIndexOutOfRange, "index %d not in [0, %d)", index, p.size)
	}

	local := index
	for _, segment := range p.Segments {
		if local >= segment.Size() {
			local -= segment.Size()
			continue
		}
		return segment.bind(p.template, local)
	}
	// Unreachable after the range check.
	return nil, errors.Wrapf(space.ErrIndexOutOfRange, "index %d", index)
}

// Expressions returns every variable expression any run of the plan may use.
func (p *Plan) Expressions() []string {
	if p.template == nil {
		return nil
	}
	return p.template.Expressions()
}

func (t Template) descriptor() (*run.Descriptor, error) {
	d := &run.Descriptor{
		TrainSignal:      t.SignalTrain,
		TrainBackground:  t.BackgroundTrain,
		TestSignal:       t.SignalTest,
		TestBackground:   t.BackgroundTest,
		SelectionCut:     t.Cut,
		BackgroundWeight: t.BackgroundWeight,
	}

	if t.Preset != "" {
		variables, err := run.PresetVariables(run.Preset(t.Preset))
		if err != nil {
			return nil, err
		}
		d.Variables = variables
	}
	for _, v := range run.VariablesFromExpressions(t.Variables) {
		if d.HasVariable(v.Expression) {
			return nil, errors.Wrapf(run.ErrDuplicateVariable, "%q", v.Expression)
		}
		d.Variables = append(d.Variables, v)
	}
	for _, e := range t.Include {
		if err := d.IncludeVariable(run.NewVariable(e)); err != nil {
			return nil, err
		}
	}
	for _, e := range t.Exclude {
		if !d.ExcludeVariable(e) {
			return nil, errors.Errorf("cannot exclude unknown variable %q", e)
		}
	}
	if len(d.Variables) == 0 {
		return nil, errors.New("no variables")
	}

	if t.BDTG != nil {
		d.BDTG = &run.BDTGParams{TreeCount: t.BDTG.NumTrees, MaxDepth: t.BDTG.MaxDepth}
	}
	if t.DNN != nil {
		d.DNN = &run.DNNParams{
			LayerCount:       t.DNN.NumLayers,
			ConvergenceSteps: t.DNN.ConvergenceSteps,
			LayerSpec:        t.DNN.LayerString,
			LearningRate:     t.DNN.LearningRate,
		}
	}
	return d, nil
}

func (s *Segment) validate() error {
	methods, err := run.ParseMethodSet(s.Methods)
	if err != nil {
		return err
	}
	if methods.Empty() {
		return errors.New("no methods")
	}

	seen := map[string]bool{}
	text := make([][]string, 0, len(s.Text))
	for _, axis := range s.Text {
		binding, ok := textBindings[axis.Name]
		if !ok {
			return errors.Errorf("unknown textual axis %q", axis.Name)
		}
		if err := checkAxis(axis.Name, binding.method, methods, seen); err != nil {
			return err
		}
		text = append(text, axis.Values)
	}

	ints := make([][]int, 0, len(s.Ints))
	for _, axis := range s.Ints {
		binding, ok := intBindings[axis.Name]
		if !ok {
			return errors.Errorf("unknown integral axis %q", axis.Name)
		}
		if err := checkAxis(axis.Name, binding.method, methods, seen); err != nil {
			return err
		}
		ints = append(ints, axis.Values)
	}

	sp, err := space.New(text, ints)
	if err != nil {
		return err
	}
	s.methods = methods
	s.space = sp
	return nil
}

func checkAxis(name string, method run.Method, methods run.MethodSet, seen map[string]bool) error {
	if seen[name] {
		return errors.Errorf("axis %q given twice", name)
	}
	seen[name] = true
	if method != "" && !methods.Contains(method) {
		return errors.Errorf("axis %q needs %s which segment %s does not enable", name, method, methods)
	}
	return nil
}

func (s *Segment) bind(template *run.Descriptor, local int) (*run.Descriptor, error) {
	tuple, err := s.space.Decode(local)
	if err != nil {
		return nil, err
	}

	d := template.Clone()
	d.Methods = s.methods.Clone()
	d.Gate()

	for i, axis := range s.Text {
		textBindings[axis.Name].bind(d, tuple.Text[i])
	}
	for i, axis := range s.Ints {
		intBindings[axis.Name].bind(d, tuple.Ints[i])
	}
	return d, nil
}
