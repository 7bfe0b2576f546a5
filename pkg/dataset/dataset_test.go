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

package dataset

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/ldoney/CMS-ML-MASS/pkg/run"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

const signalCSV = "muPairs.mass,muPairs.pt,flag\n124,10,1\n126,30,1\n125,20,1\n127,40,1\n"

func writeSample(dir, name, content string) string {
	path := filepath.Join(dir, name)
	So(ioutil.WriteFile(path, []byte(content), 0644), ShouldBeNil)
	return path
}

func TestDataset(t *testing.T) {
	Convey("When reading a csv dataset", t, func() {
		dir, err := ioutil.TempDir("", "dataset")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		ds, err := Open(writeSample(dir, "signal.csv", signalCSV))
		So(err, ShouldBeNil)
		defer ds.Close()

		Convey("Rows and columns are available by header name", func() {
			So(ds.Rows(), ShouldEqual, 4)
			values, err := ds.Column("muPairs.pt")
			So(err, ShouldBeNil)
			So(values, ShouldResemble, []float64{10, 30, 20, 40})
		})

		Convey("An unknown column is reported", func() {
			_, err := ds.Column("met.pt")
			So(errors.Cause(err), ShouldEqual, ErrNoColumn)
		})

		Convey("Statistics are the mean and half of the standard deviation", func() {
			mean, halfSpread, err := NewStats(ds).Stats("muPairs.mass")
			So(err, ShouldBeNil)
			So(mean, ShouldAlmostEqual, 125.5)
			So(halfSpread, ShouldAlmostEqual, 0.5590169943749474)
		})

		Convey("A constant column has no spread and cannot be normalized", func() {
			d := &run.Descriptor{Variables: run.VariablesFromExpressions([]string{"flag"})}
			_, err := run.NewNormalizer(NewStats(ds)).Apply(d)
			So(errors.Cause(err), ShouldEqual, run.ErrZeroSpread)
		})
	})

	Convey("A file with a non numeric value fails on that column", t, func() {
		dir, err := ioutil.TempDir("", "dataset")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		ds, err := Open(writeSample(dir, "broken.csv", "a,b\n1,x\n2,y\n"))
		So(err, ShouldBeNil)
		defer ds.Close()
		values, err := ds.Column("a")
		So(err, ShouldBeNil)
		So(values, ShouldResemble, []float64{1, 2})
		_, err = ds.Column("b")
		So(err, ShouldNotBeNil)
	})

	Convey("A missing file cannot be opened", t, func() {
		_, err := Open(filepath.Join(os.TempDir(), "no-such-sample.csv"))
		So(err, ShouldNotBeNil)
	})
}
