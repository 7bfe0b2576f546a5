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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func readFile(path string) string {
	content, err := ioutil.ReadFile(path)
	So(err, ShouldBeNil)
	return string(content)
}

func TestLocal(t *testing.T) {
	Convey("While using Local Shell in a run directory", t, func() {
		dir, err := ioutil.TempDir("", "local-executor")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		cwd, err := os.Getwd()
		So(err, ShouldBeNil)

		l := NewLocal(dir)

		Convey("When command `echo output` is executed", func() {
			task, err := l.Execute("echo output")
			So(err, ShouldBeNil)

			Convey("The task terminates with exit code 0 and its output is in the run directory", func() {
				So(task.Wait(0), ShouldBeTrue)
				So(task.Status(), ShouldEqual, TERMINATED)

				exitCode, err := task.ExitCode()
				So(err, ShouldBeNil)
				So(exitCode, ShouldEqual, 0)

				So(task.Clean(), ShouldBeNil)
				So(task.StdoutPath(), ShouldEqual, filepath.Join(dir, "stdout"))
				So(readFile(task.StdoutPath()), ShouldEqual, "output\n")
			})
		})

		Convey("When a command writes a relative file", func() {
			task, err := l.Execute("pwd && touch artifact.json")
			So(err, ShouldBeNil)
			So(task.Wait(0), ShouldBeTrue)
			So(task.Clean(), ShouldBeNil)

			Convey("The file lands in the run directory and the process cwd is untouched", func() {
				_, err := os.Stat(filepath.Join(dir, "artifact.json"))
				So(err, ShouldBeNil)

				resolved, err := filepath.EvalSymlinks(dir)
				So(err, ShouldBeNil)
				So(readFile(task.StdoutPath()), ShouldContainSubstring, filepath.Base(resolved))

				now, err := os.Getwd()
				So(err, ShouldBeNil)
				So(now, ShouldEqual, cwd)
			})
		})

		Convey("When a failing command is executed", func() {
			task, err := l.Execute("echo broken >&2; exit 3")
			So(err, ShouldBeNil)
			So(task.Wait(0), ShouldBeTrue)

			Convey("The exit code and stderr are reported", func() {
				exitCode, err := task.ExitCode()
				So(err, ShouldBeNil)
				So(exitCode, ShouldEqual, 3)
				So(task.Clean(), ShouldBeNil)
				So(readFile(task.StderrPath()), ShouldEqual, "broken\n")
			})
		})

		Convey("When command which does not exists is executed", func() {
			task, err := l.Execute("commandThatDoesNotExists")
			So(err, ShouldBeNil)
			So(task.Wait(0), ShouldBeTrue)

			Convey("The exit code should be 127", func() {
				exitCode, err := task.ExitCode()
				So(err, ShouldBeNil)
				So(exitCode, ShouldEqual, 127)
			})
		})

		Convey("When blocking infinitively sleep command is executed", func() {
			task, err := l.Execute("sleep 60")
			So(err, ShouldBeNil)

			Convey("The task is running and has no exit code yet", func() {
				So(task.Status(), ShouldEqual, RUNNING)
				_, err := task.ExitCode()
				So(err, ShouldNotBeNil)
				So(task.Stop(), ShouldBeNil)
			})

			Convey("Waiting with a short timeout does not terminate it", func() {
				So(task.Wait(10*time.Millisecond), ShouldBeFalse)
				So(task.Status(), ShouldEqual, RUNNING)
				So(task.Stop(), ShouldBeNil)
			})

			Convey("When we stop the task the exit code should be 143", func() {
				So(task.Stop(), ShouldBeNil)
				So(task.Status(), ShouldEqual, TERMINATED)

				exitCode, err := task.ExitCode()
				So(err, ShouldBeNil)
				So(exitCode, ShouldEqual, 143)

				Convey("Stopping again is a no-op", func() {
					So(task.Stop(), ShouldBeNil)
				})
			})
		})

		Convey("When a command ignoring SIGTERM is stopped", func() {
			start := time.Now()
			task, err := l.WithKillTimeout(100 * time.Millisecond).Execute("trap '' TERM; sleep 30")
			So(err, ShouldBeNil)
			// Give the shell time to install the trap.
			So(task.Wait(100*time.Millisecond), ShouldBeFalse)

			So(task.Stop(), ShouldBeNil)
			So(task.Status(), ShouldEqual, TERMINATED)

			Convey("It is killed after the kill timeout", func() {
				So(time.Since(start), ShouldBeLessThan, 5*time.Second)
				exitCode, err := task.ExitCode()
				So(err, ShouldBeNil)
				So(exitCode, ShouldEqual, 137)
				So(task.Clean(), ShouldBeNil)
			})
		})

		Convey("When environment entries are added", func() {
			task, err := l.WithEnv("MASS_RUN_INDEX=7").Execute("echo $MASS_RUN_INDEX")
			So(err, ShouldBeNil)
			So(task.Wait(0), ShouldBeTrue)
			So(task.Clean(), ShouldBeNil)
			So(readFile(task.StdoutPath()), ShouldEqual, "7\n")
		})

		Convey("An empty command is rejected", func() {
			_, err := l.Execute("  ")
			So(err, ShouldNotBeNil)
		})
	})
}
