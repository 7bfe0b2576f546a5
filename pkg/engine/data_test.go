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
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultDataSource(t *testing.T) {
	Convey("Without flags the data source is empty", t, func() {
		So(DefaultDataSource(), ShouldResemble, DataSource{})
		So(DefaultDataSource().Empty(), ShouldBeTrue)
	})

	Convey("A data source with a sample is not empty", t, func() {
		So(DataSource{SignalPath: "signal.csv"}.Empty(), ShouldBeFalse)
	})
}
