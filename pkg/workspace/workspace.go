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

// Package workspace lays out a sweep directory and hands out the per run
// working context. Nothing here changes the process working directory.
package workspace

import (
	"fmt"
	"path"

	"github.com/ldoney/CMS-ML-MASS/pkg/utils/fs"
	"github.com/pkg/errors"
)

const runDirPrefix = "Run-"

// Context is the explicit working context of one run.
type Context struct {
	Index int
	Dir   string
}

// Path joins elements onto the run directory.
func (c Context) Path(elem ...string) string {
	return path.Join(append([]string{c.Dir}, elem...)...)
}

func (c Context) String() string {
	return fmt.Sprintf("run %d (%s)", c.Index, c.Dir)
}

// Layout describes where a sweep keeps its runs.
type Layout struct {
	SweepDir string
}

// NewLayout returns the layout rooted at sweepDir.
func NewLayout(sweepDir string) Layout {
	return Layout{SweepDir: sweepDir}
}

// RunDir returns the directory of run index without touching the filesystem.
func (l Layout) RunDir(index int) string {
	return path.Join(l.SweepDir, fmt.Sprintf("%s%d", runDirPrefix, index))
}

// Context returns the working context of an existing run.
func (l Layout) Context(index int) Context {
	return Context{Index: index, Dir: l.RunDir(index)}
}

// Create makes a fresh directory for run index. It fails when the directory
// already exists so that runs never share a working context.
func (l Layout) Create(index int) (Context, error) {
	if index < 0 {
		return Context{}, errors.Errorf("negative run index %d", index)
	}
	ctx := l.Context(index)
	if err := fs.CreateFresh(ctx.Dir); err != nil {
		return Context{}, errors.Wrapf(err, "cannot create working context of run %d", index)
	}
	return ctx, nil
}
