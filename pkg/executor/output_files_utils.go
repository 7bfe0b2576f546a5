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

package executor

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	stdoutFileName = "stdout"
	stderrFileName = "stderr"
)

func getBinaryNameFromCommand(command string) (string, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "", errors.Errorf("failed to extract command name from %q", command)
	}
	return filepath.Base(fields[0]), nil
}

// createExecutorOutputFiles creates stdout and stderr files for the command in dir.
// Existing files are truncated.
func createExecutorOutputFiles(command, dir string) (stdout, stderr *os.File, err error) {
	if len(strings.TrimSpace(command)) == 0 {
		return nil, nil, errors.New("empty command string")
	}
	if dir == "" {
		return nil, nil, errors.New("empty output directory")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, errors.Wrapf(err, "failed to create output directory %q", dir)
	}

	stdoutPath := filepath.Join(dir, stdoutFileName)
	stdout, err = os.Create(stdoutPath)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to create %q", stdoutPath)
	}

	stderr, err = os.Create(filepath.Join(dir, stderrFileName))
	if err != nil {
		stdout.Close()
		os.Remove(stdoutPath)
		return nil, nil, errors.Wrapf(err, "failed to create stderr file in %q", dir)
	}

	return stdout, stderr, nil
}
