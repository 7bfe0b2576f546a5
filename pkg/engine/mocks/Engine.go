package mocks

import "context"
import "github.com/ldoney/CMS-ML-MASS/pkg/engine"
import "github.com/ldoney/CMS-ML-MASS/pkg/workspace"
import "github.com/stretchr/testify/mock"

// Engine mock
type Engine struct {
	mock.Mock
}

// Train provides a mock function with given fields: ctx, job, wc
func (_m *Engine) Train(ctx context.Context, job engine.Job, wc workspace.Context) (engine.Artifact, error) {
	ret := _m.Called(ctx, job, wc)

	var r0 engine.Artifact
	if rf, ok := ret.Get(0).(func(context.Context, engine.Job, workspace.Context) engine.Artifact); ok {
		r0 = rf(ctx, job, wc)
	} else {
		r0 = ret.Get(0).(engine.Artifact)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, engine.Job, workspace.Context) error); ok {
		r1 = rf(ctx, job, wc)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
