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

package metadata

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/ldoney/CMS-ML-MASS/pkg/conf"
	"github.com/pkg/errors"
)

// RecordRuntimeEnv stores the sweep environment: flags, MASS_ environment
// variables, host and start time.
func RecordRuntimeEnv(metadata Metadata, sweepStart time.Time) error {
	// Store configuration.
	err := recordFlags(metadata)
	if err != nil {
		return err
	}

	// Store MASS_ environment configuration.
	err = recordEnv(metadata, conf.EnvPrefix+"_")
	if err != nil {
		return err
	}

	// Store hardware & OS details together with host and start time.
	return recordPlatform(metadata, sweepStart)
}

// RecordSweep stores the plan the sweep was generated from.
func RecordSweep(metadata Metadata, plan string, size int) error {
	return errors.Wrap(metadata.RecordMap(map[string]string{
		"plan": plan,
		"size": strconv.Itoa(size),
	}, TypeSweep), "cannot record sweep plan")
}

// recordFlags saves whole flags based configuration in the metadata information.
func recordFlags(metadata Metadata) error {
	flags := conf.GetFlags()
	return errors.Wrap(metadata.RecordMap(flags, TypeFlags), "cannot record flags")
}

// recordEnv adds all OS Environment variables that starts with prefix 'prefix'
// in the metadata information
func recordEnv(metadata Metadata, prefix string) error {
	envMetadata := map[string]string{}
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, prefix) {
			fields := strings.SplitN(env, "=", 2)
			envMetadata[fields[0]] = fields[1]
		}
	}
	return errors.Wrap(metadata.RecordMap(envMetadata, TypeEnviron), "cannot record environment")
}

func recordPlatform(metadata Metadata, sweepStart time.Time) error {
	hostname, err := os.Hostname()
	if err != nil {
		return errors.Wrap(err, "cannot retrieve hostname")
	}
	platform := map[string]string{
		"host":    hostname,
		"time":    sweepStart.Format(time.RFC822Z),
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
		"cpus":    strconv.Itoa(runtime.NumCPU()),
		"version": runtime.Version(),
	}
	return errors.Wrap(metadata.RecordMap(platform, TypePlatform), "cannot record platform")
}
