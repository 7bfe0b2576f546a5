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
	"encoding/json"
	"io/ioutil"

	"github.com/ldoney/CMS-ML-MASS/pkg/run"
	"github.com/pkg/errors"
)

// DataSource names the signal and background inputs of a training.
type DataSource struct {
	SignalPath     string `json:"signal"`
	BackgroundPath string `json:"background"`
	// EventLimit caps the number of events read per class; zero means no limit.
	EventLimit int `json:"eventLimit,omitempty"`
}

// Empty reports whether no sample is set.
func (d DataSource) Empty() bool {
	return d == DataSource{}
}

// JobVariable is a variable as handed to the engine.
type JobVariable struct {
	Expression string `json:"expression"`
	Name       string `json:"name"`
	Unit       string `json:"unit"`
	Type       string `json:"type"`
}

// Job is everything the engine needs to train one run.
type Job struct {
	Variables    []JobVariable     `json:"variables"`
	Methods      []string          `json:"methods"`
	MethodConfig run.MethodConfig  `json:"methodConfig"`
	TrainTest    run.TrainTestSpec `json:"trainTest"`
	Booking      BookingOptions    `json:"booking"`
	Data         DataSource        `json:"data"`
}

// NewJob derives the engine job from a descriptor.
func NewJob(d *run.Descriptor, data DataSource) Job {
	variables := make([]JobVariable, 0, len(d.Variables))
	for _, v := range d.Variables {
		variables = append(variables, JobVariable{
			Expression: v.Expression,
			Name:       v.Name,
			Unit:       v.Unit,
			Type:       string(v.Type),
		})
	}

	methods := []string{}
	for _, m := range d.Methods.Enabled() {
		methods = append(methods, string(m))
	}

	config := d.ToMethodConfig()
	return Job{
		Variables:    variables,
		Methods:      methods,
		MethodConfig: config,
		TrainTest:    d.ToTrainTestSpec(),
		Booking:      NewBookingOptions(config),
		Data:         data,
	}
}

// WriteJob stores the job as indented JSON.
func WriteJob(path string, job Job) error {
	content, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot encode job")
	}
	return errors.Wrapf(ioutil.WriteFile(path, content, 0644), "cannot write job to %q", path)
}

// ReadJob loads a job written by WriteJob.
func ReadJob(path string) (Job, error) {
	job := Job{}
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return job, errors.Wrapf(err, "cannot read job from %q", path)
	}
	return job, errors.Wrapf(json.Unmarshal(content, &job), "cannot decode job from %q", path)
}
