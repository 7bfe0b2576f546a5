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
	"io/ioutil"
	"os"
	"path"
	"testing"
	"time"

	"github.com/ldoney/CMS-ML-MASS/pkg/workspace"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

// backendBehaves checks the contract shared by every local backend.
func backendBehaves(backend Metadata) {
	Convey("A recorded kind can be read back", func() {
		So(backend.RecordMap(map[string]string{"a": "1", "b": "two"}, "0"), ShouldBeNil)

		metadata, err := backend.GetByKind("0")
		So(err, ShouldBeNil)
		So(metadata, ShouldResemble, map[string]string{"a": "1", "b": "two"})

		Convey("Writing the same kind again fails", func() {
			err := backend.RecordMap(map[string]string{"a": "2"}, "0")
			So(errors.Cause(err), ShouldEqual, ErrAlreadyRecorded)

			metadata, err := backend.GetByKind("0")
			So(err, ShouldBeNil)
			So(metadata["a"], ShouldEqual, "1")
		})

		Convey("Kinds lists it", func() {
			So(backend.Record("key", "value", TypeFlags), ShouldBeNil)
			kinds, err := backend.Kinds()
			So(err, ShouldBeNil)
			So(kinds, ShouldResemble, []string{"0", TypeFlags})
		})

		Convey("Clear removes everything", func() {
			So(backend.Clear(), ShouldBeNil)
			kinds, err := backend.Kinds()
			So(err, ShouldBeNil)
			So(kinds, ShouldBeEmpty)
		})
	})

	Convey("A missing kind is reported as not found", func() {
		_, err := backend.GetByKind("42")
		So(errors.Cause(err), ShouldEqual, ErrNotFound)
	})

	Convey("An empty map can be recorded", func() {
		So(backend.RecordMap(map[string]string{}, TypeEnviron), ShouldBeNil)
		metadata, err := backend.GetByKind(TypeEnviron)
		So(err, ShouldBeNil)
		So(metadata, ShouldBeEmpty)
	})

	Convey("Runs can be stored and listed", func() {
		store := NewRunStore(backend)
		layout := workspace.NewLayout("/sweep")
		d := bdtgDescriptor()
		for _, index := range []int{10, 2, 0} {
			So(store.Save(layout.Context(index), d), ShouldBeNil)
		}
		So(backend.Record("plan", "x", TypeSweep), ShouldBeNil)

		indices, err := store.Indices()
		So(err, ShouldBeNil)
		So(indices, ShouldResemble, []int{0, 2, 10})

		loaded, err := store.Load(2)
		So(err, ShouldBeNil)
		So(loaded.BDTG, ShouldResemble, d.BDTG)

		So(errors.Cause(store.Save(layout.Context(2), d)), ShouldEqual, ErrAlreadyRecorded)

		_, err = store.Load(3)
		So(errors.Cause(err), ShouldEqual, ErrNotFound)
	})

	Convey("The runtime environment is recorded", func() {
		os.Setenv("MASS_TEST_RECORDED", "yes")
		defer os.Unsetenv("MASS_TEST_RECORDED")

		So(RecordRuntimeEnv(backend, time.Now()), ShouldBeNil)
		So(RecordSweep(backend, "segments: []", 0), ShouldBeNil)

		environ, err := backend.GetByKind(TypeEnviron)
		So(err, ShouldBeNil)
		So(environ["MASS_TEST_RECORDED"], ShouldEqual, "yes")

		flags, err := backend.GetByKind(TypeFlags)
		So(err, ShouldBeNil)
		So(flags, ShouldContainKey, "metadata_db")

		platform, err := backend.GetByKind(TypePlatform)
		So(err, ShouldBeNil)
		So(platform["host"], ShouldNotBeEmpty)

		sweep, err := backend.GetByKind(TypeSweep)
		So(err, ShouldBeNil)
		So(sweep["size"], ShouldEqual, "0")
	})
}

func TestFileBackend(t *testing.T) {
	Convey("While using the file backend", t, func() {
		dir, err := ioutil.TempDir("", "metadata")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		backend, err := NewFile(path.Join(dir, fileDirName))
		So(err, ShouldBeNil)
		defer backend.Close()

		backendBehaves(backend)

		Convey("Temporary files are not listed as kinds", func() {
			So(ioutil.WriteFile(path.Join(dir, fileDirName, tempPrefix+"123"), []byte("{"), 0644), ShouldBeNil)
			kinds, err := backend.Kinds()
			So(err, ShouldBeNil)
			So(kinds, ShouldBeEmpty)
		})

		Convey("Kinds cannot escape the directory", func() {
			So(backend.Record("a", "b", "../escape"), ShouldNotBeNil)
		})
	})
}

func TestSQLiteBackend(t *testing.T) {
	Convey("While using the sqlite backend", t, func() {
		dir, err := ioutil.TempDir("", "metadata")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		backend, err := NewSQLite("sweep-a", path.Join(dir, sqliteFileName))
		So(err, ShouldBeNil)
		defer backend.Close()

		backendBehaves(backend)

		Convey("Sweeps sharing a database do not see each other", func() {
			other, err := NewSQLite("sweep-b", path.Join(dir, sqliteFileName))
			So(err, ShouldBeNil)
			defer other.Close()

			So(backend.Record("a", "1", "0"), ShouldBeNil)
			So(other.Record("a", "2", "0"), ShouldBeNil)

			metadata, err := other.GetByKind("0")
			So(err, ShouldBeNil)
			So(metadata["a"], ShouldEqual, "2")
		})
	})
}

func TestNewDefault(t *testing.T) {
	Convey("The default backend stores records inside the sweep directory", t, func() {
		dir, err := ioutil.TempDir("", "sweep")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		backend, err := NewDefault("sweep", dir)
		So(err, ShouldBeNil)
		defer backend.Close()

		So(NewRunStore(backend).Save(workspace.NewLayout(dir).Context(0), bdtgDescriptor()), ShouldBeNil)
		_, err = os.Stat(path.Join(dir, fileDirName, "0.json"))
		So(err, ShouldBeNil)

	})
}
