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

// ErrMalformedCurve is returned when a curve cannot be turned into points.
var ErrMalformedCurve = errors.New("malformed curve")

// ErrNoCurve is returned when an artifact lacks the requested method or curve.
var ErrNoCurve = errors.New("curve not found")

type curveDocument struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

type artifactDocument struct {
	Methods map[string]map[string]curveDocument `json:"methods"`
}

// JSONArtifacts reads artifacts stored as artifact.json documents:
//
//	{"methods": {"BDTG": {"rejBvsS": {"x": [...], "y": [...]}}}}
type JSONArtifacts struct{}

// ReadCurve returns the named curve of method in artifact order.
func (JSONArtifacts) ReadCurve(artifact Artifact, method run.Method, name string) ([]Point, error) {
	content, err := ioutil.ReadFile(artifact.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read artifact %q", artifact.Path)
	}

	document := artifactDocument{}
	if err := json.Unmarshal(content, &document); err != nil {
		return nil, errors.Wrapf(err, "cannot decode artifact %q", artifact.Path)
	}

	curves, ok := document.Methods[string(method)]
	if !ok {
		return nil, errors.Wrapf(ErrNoCurve, "no method %s in %q", method, artifact.Path)
	}
	curve, ok := curves[name]
	if !ok {
		return nil, errors.Wrapf(ErrNoCurve, "no curve %s/%s in %q", method, name, artifact.Path)
	}
	if len(curve.X) != len(curve.Y) {
		return nil, errors.Wrapf(ErrMalformedCurve, "%s/%s has %d x and %d y values",
			method, name, len(curve.X), len(curve.Y))
	}

	points := make([]Point, len(curve.X))
	for i := range curve.X {
		points[i] = Point{X: curve.X[i], Y: curve.Y[i]}
	}
	return points, nil
}

// WriteArtifact stores curves per method in the format read by JSONArtifacts.
func WriteArtifact(path string, curves map[run.Method]map[string][]Point) error {
	document := artifactDocument{Methods: map[string]map[string]curveDocument{}}
	for method, named := range curves {
		documentCurves := map[string]curveDocument{}
		for name, points := range named {
			curve := curveDocument{X: make([]float64, len(points)), Y: make([]float64, len(points))}
			for i, p := range points {
				curve.X[i], curve.Y[i] = p.X, p.Y
			}
			documentCurves[name] = curve
		}
		document.Methods[string(method)] = documentCurves
	}

	content, err := json.Marshal(document)
	if err != nil {
		return errors.Wrap(err, "cannot encode artifact")
	}
	return errors.Wrapf(ioutil.WriteFile(path, content, 0644), "cannot write artifact %q", path)
}
