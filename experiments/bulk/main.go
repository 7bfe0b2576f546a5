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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ldoney/CMS-ML-MASS/pkg/aggregate"
	"github.com/ldoney/CMS-ML-MASS/pkg/conf"
	"github.com/ldoney/CMS-ML-MASS/pkg/dataset"
	"github.com/ldoney/CMS-ML-MASS/pkg/engine"
	"github.com/ldoney/CMS-ML-MASS/pkg/experiment"
	"github.com/ldoney/CMS-ML-MASS/pkg/experiment/logger"
	"github.com/ldoney/CMS-ML-MASS/pkg/metadata"
	"github.com/ldoney/CMS-ML-MASS/pkg/run"
	"github.com/ldoney/CMS-ML-MASS/pkg/sweep"
	"github.com/ldoney/CMS-ML-MASS/pkg/utils/errutil"
	"github.com/ldoney/CMS-ML-MASS/pkg/utils/uuid"
	"github.com/ldoney/CMS-ML-MASS/pkg/visualization"
	"github.com/ldoney/CMS-ML-MASS/pkg/workspace"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/cheggaaa/pb.v1"
)

var (
	stopOnErrorFlag = conf.NewBoolFlag("stop_on_error", "Stop the sweep after the first failed run", false)
	dryRunFlag      = conf.NewBoolFlag("dry_run", "Print the descriptor of every run without training", false)
	appName         = os.Args[0]
)

func main() {
	sweepStart := time.Now()
	conf.SetAppName("mass-bulk")
	conf.SetHelp("Trains one classifier per point of the hyperparameter grid and ranks them by ROC integral.")
	errorLevelEnabled := experiment.Configure()

	plan, err := sweep.PlanFromFlags()
	if err != nil {
		logrus.Errorf("Invalid sweep plan: %v", err)
		os.Exit(experiment.ExUsage)
	}

	if dryRunFlag.Value() {
		for index := 0; index < plan.Size(); index++ {
			d, err := plan.Descriptor(index)
			errutil.CheckWithContext(err, "Cannot build run descriptor")
			fmt.Printf("%d) %s\n", index, d)
		}
		return
	}

	// Generate a sweep ID and set up the sweep directory and logs.
	sweepID, err := uuid.New()
	errutil.CheckWithContext(err, "Cannot generate sweep ID")
	sweepDir := logger.Initialize(appName, sweepID, sweepStart)

	records, err := metadata.NewDefault(sweepID, sweepDir)
	errutil.CheckWithContext(err, "Cannot connect to metadata database")

	summary, err := runSweep(plan, records, sweepDir, sweepStart, errorLevelEnabled)
	if closeErr := records.Close(); closeErr != nil {
		logrus.Warnf("Cannot close metadata database: %v", closeErr)
	}
	if err != nil {
		logrus.Errorf("Sweep %s: %v", sweepID, err)
		if errors.Cause(err) == sweep.ErrConfiguration {
			os.Exit(experiment.ExUsage)
		}
		os.Exit(experiment.ExSoftware)
	}
	if summary.Succeeded == 0 {
		logrus.Errorf("Sweep %s: %v", sweepID, aggregate.ErrNoSuccessfulRuns)
		os.Exit(experiment.ExSoftware)
	}
}

func runSweep(plan *sweep.Plan, records metadata.Metadata, sweepDir string, sweepStart time.Time, errorLevelEnabled bool) (sweep.Summary, error) {
	// Store flags, MASS_ environment and the plan.
	if err := metadata.RecordRuntimeEnv(records, sweepStart); err != nil {
		return sweep.Summary{}, err
	}
	planYAML, err := plan.YAML()
	if err != nil {
		return sweep.Summary{}, err
	}
	if err := metadata.RecordSweep(records, planYAML, plan.Size()); err != nil {
		return sweep.Summary{}, err
	}
	logrus.Infof("Sweep has %d runs", plan.Size())

	store := metadata.NewRunStore(records)
	layout := workspace.NewLayout(sweepDir)
	aggregator := aggregate.New(store, layout, engine.JSONArtifacts{})

	data := engine.DefaultDataSource()
	options := []sweep.Option{
		sweep.WithDataSource(data),
		sweep.WithStopOnError(stopOnErrorFlag.Value()),
	}

	if plan.Normalize != nil {
		if data.SignalPath == "" {
			return sweep.Summary{}, errors.Wrap(sweep.ErrConfiguration, "normalization needs a signal sample")
		}
		sample, err := dataset.Open(data.SignalPath)
		if err != nil {
			return sweep.Summary{}, errors.Wrapf(sweep.ErrConfiguration, "cannot open signal sample: %v", err)
		}
		defer sample.Close()
		logrus.Infof("Normalizing with %d signal events from %q", sample.Rows(), data.SignalPath)
		options = append(options, sweep.WithNormalizer(run.NewNormalizer(dataset.NewStats(sample), plan.Normalize.Variables...)))
	}

	// Initialize progress bar when log level is error.
	var bar *pb.ProgressBar
	if errorLevelEnabled {
		bar = pb.StartNew(plan.Size())
		bar.ShowCounters = false
		bar.ShowTimeLeft = true
		defer bar.Finish()
	}
	options = append(options, sweep.WithProgress(func(outcome sweep.Outcome) {
		status := "failed"
		if outcome.Succeeded() {
			status = "done"
			if result, err := aggregator.Score(outcome.Index, outcome.Descriptor); err != nil {
				logrus.Warnf("Run %d: %v", outcome.Index, err)
			} else {
				logrus.Infof("Run %d: %s ROC integral %.4f", outcome.Index, result.Method, result.ROCIntegral)
			}
		}
		if bar != nil {
			bar.Prefix(fmt.Sprintf("[run %d/%d %s %s] ", outcome.Index+1, outcome.Total, outcome.Descriptor.Methods, status))
			bar.Add(1)
		}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		select {
		case s := <-signals:
			logrus.Warnf("Received %s, stopping after the current run", s)
			cancel()
		case <-ctx.Done():
		}
	}()

	eng := engine.NewCommand(engine.DefaultCommandConfig(), data)

	summary, err := sweep.New(plan, eng, store, layout, options...).Run(ctx)
	logrus.Infof("Sweep summary: %s", summary)
	if err != nil {
		return summary, err
	}

	if summary.Succeeded > 0 {
		ranking, err := aggregator.Rank()
		if err != nil {
			return summary, err
		}
		visualization.DrawRanking(os.Stdout, ranking)
	}
	return summary, nil
}
