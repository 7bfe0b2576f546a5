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

package experiment

import (
	"fmt"
	"os"

	"github.com/ldoney/CMS-ML-MASS/pkg/conf"
	"github.com/ldoney/CMS-ML-MASS/pkg/metadata"
	"github.com/ldoney/CMS-ML-MASS/pkg/utils/errutil"
	"github.com/sirupsen/logrus"
)

var (
	// DumpConfigFlag name includes dash to excluded it from dumping.
	dumpConfigFlag = conf.NewBoolFlag("config-dump", "Dump configuration as environment script.", false)

	// DumpConfigSweepDirFlag name includes dash to excluded it from dumping.
	dumpConfigSweepDirFlag = conf.NewStringFlag("config-dump-sweep-dir", "Dump configuration recorded by a previous sweep.", "")
)

// Configure handles configuration parsing, generation and restoration based on config-* flags.
// Note: exits if configuration generation was requested.
// Returns true when the log level is error, in which case progress bars replace logs.
func Configure() bool {
	err := conf.ParseFlags()
	if err != nil {
		logrus.Errorf("Cannot parse flags: %q", err.Error())
		os.Exit(ExUsage)
	}
	logrus.SetLevel(conf.LogLevel())

	if dumpConfigFlag.Value() {
		flags, err := recordedFlags(dumpConfigSweepDirFlag.Value())
		errutil.Check(err)
		fmt.Println(conf.DumpConfigMap(flags))
		os.Exit(0)
	}

	return logrus.GetLevel() == logrus.ErrorLevel
}

// recordedFlags returns the flags recorded by the sweep in dir, or nil when dir is empty.
func recordedFlags(dir string) (map[string]string, error) {
	if dir == "" {
		return nil, nil
	}
	sweepID, err := SweepIDFromDir(dir)
	if err != nil {
		return nil, err
	}
	records, err := metadata.NewDefault(sweepID, dir)
	if err != nil {
		return nil, err
	}
	defer records.Close()
	return records.GetByKind(metadata.TypeFlags)
}
