package mocks

import "github.com/ldoney/CMS-ML-MASS/pkg/engine"
import "github.com/ldoney/CMS-ML-MASS/pkg/run"
import "github.com/stretchr/testify/mock"

// ArtifactReader mock
type ArtifactReader struct {
	mock.Mock
}

// ReadCurve provides a mock function with given fields: artifact, method, name
func (_m *ArtifactReader) ReadCurve(artifact engine.Artifact, method run.Method, name string) ([]engine.Point, error) {
	ret := _m.Called(artifact, method, name)

	var r0 []engine.Point
	if rf, ok := ret.Get(0).(func(engine.Artifact, run.Method, string) []engine.Point); ok {
		r0 = rf(artifact, method, name)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]engine.Point)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(engine.Artifact, run.Method, string) error); ok {
		r1 = rf(artifact, method, name)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
