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

// Package engine is the boundary to the external training engine.
// The sweep layer hands over a Job and a working context and gets back the
// location of the produced artifact. Engine specific vocabulary stays here.
package engine

import (
	"context"

	"github.com/ldoney/CMS-ML-MASS/pkg/run"
	"github.com/ldoney/CMS-ML-MASS/pkg/workspace"
)

const (
	// JobFile is the name of the job description written into the run directory.
	JobFile = "job.json"
	// ArtifactFile is the name of the artifact the engine must produce in the run directory.
	ArtifactFile = "artifact.json"
)

// Curve names every artifact provides per method.
const (
	// CurveROC is background rejection versus signal efficiency.
	CurveROC = "rejBvsS"
	// CurveSignal is the classifier score distribution of the signal test sample.
	CurveSignal = "S"
	// CurveBackground is the classifier score distribution of the background test sample.
	CurveBackground = "B"
)

// Engine trains the methods of a job inside the given working context.
type Engine interface {
	Train(ctx context.Context, job Job, wc workspace.Context) (Artifact, error)
}

// Artifact locates the output of one training.
type Artifact struct {
	Path string
}

// Point is a single (x, y) sample of a curve.
type Point struct {
	X float64
	Y float64
}

// ArtifactReader reads named curves out of an artifact.
type ArtifactReader interface {
	ReadCurve(artifact Artifact, method run.Method, name string) ([]Point, error)
}

// ArtifactFor returns the artifact location of a run without checking that it exists.
func ArtifactFor(wc workspace.Context) Artifact {
	return Artifact{Path: wc.Path(ArtifactFile)}
}
