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

package main

import (
	"fmt"
	"os"

	"github.com/ldoney/CMS-ML-MASS/pkg/aggregate"
	"github.com/ldoney/CMS-ML-MASS/pkg/conf"
	"github.com/ldoney/CMS-ML-MASS/pkg/engine"
	"github.com/ldoney/CMS-ML-MASS/pkg/experiment"
	"github.com/ldoney/CMS-ML-MASS/pkg/metadata"
	"github.com/ldoney/CMS-ML-MASS/pkg/utils/errutil"
	"github.com/ldoney/CMS-ML-MASS/pkg/visualization"
	"github.com/ldoney/CMS-ML-MASS/pkg/workspace"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var sweepDirFlag = conf.NewStringFlag("sweep_dir", "Directory of the sweep to compare", "")

func main() {
	conf.SetAppName("mass-compare")
	conf.SetHelp("Ranks the runs of a finished or running sweep by ROC integral.")
	experiment.Configure()

	sweepDir := sweepDirFlag.Value()
	sweepID, err := experiment.SweepIDFromDir(sweepDir)
	if err != nil {
		logrus.Errorf("Invalid sweep directory: %v", err)
		os.Exit(experiment.ExUsage)
	}

	records, err := metadata.NewDefault(sweepID, sweepDir)
	errutil.CheckWithContext(err, "Cannot connect to metadata database")
	defer records.Close()

	if recorded, err := records.GetByKind(metadata.TypeSweep); err == nil {
		logrus.Infof("Sweep %s recorded %s runs", sweepID, recorded["size"])
	}

	ranking, err := aggregate.New(metadata.NewRunStore(records), workspace.NewLayout(sweepDir), engine.JSONArtifacts{}).Rank()
	if err != nil && errors.Cause(err) != aggregate.ErrNoSuccessfulRuns {
		logrus.Errorf("Cannot aggregate sweep %s: %v", sweepID, err)
		records.Close()
		os.Exit(experiment.ExSoftware)
	}

	fmt.Println(visualization.NewSweepMetadata(sweepID, sweepDir))
	visualization.DrawRanking(os.Stdout, ranking)

	failed := []string{}
	for _, result := range ranking.Results {
		if result.Failed {
			failed = append(failed, fmt.Sprintf("%d: %s", result.Index, result.Descriptor.Summary()))
		}
	}
	if len(failed) > 0 {
		fmt.Printf("\n%d failed runs:\n", len(failed))
		visualization.PrintList(os.Stdout, visualization.NewList(failed, "  - run "))
	}

	if err != nil {
		logrus.Errorf("Sweep %s: %v", sweepID, err)
		records.Close()
		os.Exit(experiment.ExSoftware)
	}
}
