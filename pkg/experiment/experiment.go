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

// Package experiment holds the process level plumbing shared by the sweep
// binaries: exit codes, flag parsing and the sweep directory.
package experiment

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ldoney/CMS-ML-MASS/pkg/conf"
	"github.com/pkg/errors"
)

const (
	// ExUsage is the exit code for command line usage errors.
	ExUsage = 64
	// ExSoftware is the exit code for internal software errors.
	ExSoftware = 70

	sweepDirTimeFormat = "2006-01-02T15-04-05"
)

// OutputDirFlag is the directory sweep directories are created in.
var OutputDirFlag = conf.NewStringFlag("output_dir", "Directory in which sweep directories are created.", ".")

// SweepDirName returns the directory name of a sweep started at start.
func SweepDirName(start time.Time, sweepID string) string {
	return start.Format(sweepDirTimeFormat) + "_" + sweepID
}

// SweepIDFromDir recovers the sweep id from a directory created by CreateSweepDir.
func SweepIDFromDir(dir string) (string, error) {
	name := filepath.Base(filepath.Clean(dir))
	i := strings.Index(name, "_")
	if i < 0 || i == len(name)-1 {
		return "", errors.Errorf("%q is not a sweep directory", dir)
	}
	return name[i+1:], nil
}

// CreateSweepDir creates a unique directory for the sweep logs, records and
// runs under baseDir, together with the master log file named after appName.
func CreateSweepDir(baseDir, sweepID, appName string, start time.Time) (sweepDir string, logFile *os.File, err error) {
	sweepDir, err = filepath.Abs(filepath.Join(baseDir, SweepDirName(start, sweepID)))
	if err != nil {
		return "", nil, errors.Wrapf(err, "cannot resolve sweep directory in %q", baseDir)
	}
	if err = os.MkdirAll(sweepDir, 0755); err != nil {
		return "", nil, errors.Wrapf(err, "cannot create sweep directory %q", sweepDir)
	}

	logPath := filepath.Join(sweepDir, filepath.Base(appName)+".log")
	logFile, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", nil, errors.Wrapf(err, "cannot create log file %q", logPath)
	}
	return sweepDir, logFile, nil
}
