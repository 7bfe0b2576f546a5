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
	"context"
	"os"
	"time"

	"github.com/ldoney/CMS-ML-MASS/pkg/conf"
	"github.com/ldoney/CMS-ML-MASS/pkg/executor"
	"github.com/ldoney/CMS-ML-MASS/pkg/utils/err_collection"
	"github.com/ldoney/CMS-ML-MASS/pkg/utils/fs"
	"github.com/ldoney/CMS-ML-MASS/pkg/workspace"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// JobEnv carries the path of the job file to the engine process.
	JobEnv = "MASS_JOB"
	// RunDirEnv carries the run directory to the engine process.
	RunDirEnv = "MASS_RUN_DIR"
)

// ErrMissingArtifact is returned when the engine exits cleanly without an artifact.
var ErrMissingArtifact = errors.New("engine produced no artifact")

// CommandConfig configures the external engine process.
type CommandConfig struct {
	Command     string        `help:"Command launching the training engine; it reads the job from $MASS_JOB and runs in the run directory" default:"mass-train"`
	Timeout     time.Duration `help:"Maximum duration of a single training; 0 means no limit" default:"0s"`
	KillTimeout time.Duration `help:"Grace period between SIGTERM and SIGKILL when stopping the engine" default:"5s"`
	StderrLines int           `help:"Number of trailing stderr lines attached to a failed run" default:"20"`

	flagPrefix string
}

var defaultCommandConfig = CommandConfig{flagPrefix: "Engine"}

func init() {
	conf.Process(&defaultCommandConfig)
}

// DefaultCommandConfig returns the engine configuration read from flags.
func DefaultCommandConfig() CommandConfig {
	conf.Process(&defaultCommandConfig)
	return defaultCommandConfig
}

// Command runs the engine as an external process once per run.
type Command struct {
	config CommandConfig
	data   DataSource
}

// NewCommand returns an Engine launching config.Command for every job.
func NewCommand(config CommandConfig, data DataSource) *Command {
	return &Command{config: config, data: data}
}

// Train writes the job file into the run directory, runs the engine there and
// checks that it left an artifact behind. The context is checked before launch;
// a started engine runs until it exits or hits the configured timeout.
func (c *Command) Train(ctx context.Context, job Job, wc workspace.Context) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, errors.Wrapf(err, "%s not started", wc)
	}
	if job.Data.Empty() {
		job.Data = c.data
	}

	jobPath := wc.Path(JobFile)
	if err := WriteJob(jobPath, job); err != nil {
		return Artifact{}, err
	}

	local := executor.NewLocal(wc.Dir).
		WithEnv(JobEnv+"="+jobPath, RunDirEnv+"="+wc.Dir).
		WithKillTimeout(c.config.KillTimeout)
	task, err := local.Execute(c.config.Command)
	if err != nil {
		return Artifact{}, errors.Wrapf(err, "cannot launch engine for %s", wc)
	}

	errs := &errcollection.ErrorCollection{}
	errs.Add(c.wait(task, wc))
	errs.Add(task.Clean())
	if err := errs.GetErrIfAny(); err != nil {
		return Artifact{}, err
	}

	artifact := ArtifactFor(wc)
	if _, err := os.Stat(artifact.Path); err != nil {
		if os.IsNotExist(err) {
			return Artifact{}, errors.Wrapf(ErrMissingArtifact, "%q", artifact.Path)
		}
		return Artifact{}, errors.Wrapf(err, "cannot stat %q", artifact.Path)
	}
	return artifact, nil
}

func (c *Command) wait(task executor.TaskHandle, wc workspace.Context) error {
	if !task.Wait(c.config.Timeout) {
		logrus.Warnf("Engine for %s exceeded %s, stopping it", wc, c.config.Timeout)
		if err := task.Stop(); err != nil {
			return errors.Wrapf(err, "cannot stop engine for %s", wc)
		}
		return errors.Errorf("engine for %s timed out after %s", wc, c.config.Timeout)
	}

	exitCode, err := task.ExitCode()
	if err != nil {
		return errors.Wrapf(err, "cannot get exit code of engine for %s", wc)
	}
	if exitCode == 0 {
		return nil
	}

	tail, err := fs.ReadTail(task.StderrPath(), c.config.StderrLines)
	if err != nil {
		logrus.Debugf("Cannot read engine stderr: %v", err)
	}
	return errors.Errorf("engine for %s exited with code %d: %s", wc, exitCode, tail)
}
