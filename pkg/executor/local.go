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
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Local provides an execution API for the local host.
// Every command runs with its working directory set to Dir and writes its
// output files there. The executor never changes the process working directory.
type Local struct {
	dir         string
	env         []string
	killTimeout time.Duration
}

// DefaultKillTimeout is how long Stop waits after SIGTERM before sending SIGKILL.
const DefaultKillTimeout = 5 * time.Second

// NewLocal returns a Local executor which runs commands in dir.
func NewLocal(dir string) Local {
	return Local{dir: dir, killTimeout: DefaultKillTimeout}
}

// WithKillTimeout returns a copy of the executor whose tasks get SIGKILL when
// they are still running timeout after SIGTERM. Non positive values select
// DefaultKillTimeout.
func (l Local) WithKillTimeout(timeout time.Duration) Local {
	if timeout <= 0 {
		timeout = DefaultKillTimeout
	}
	l.killTimeout = timeout
	return l
}

// WithEnv returns a copy of the executor which adds the given "KEY=value"
// entries to the environment of every command.
func (l Local) WithEnv(env ...string) Local {
	l.env = append(append([]string{}, l.env...), env...)
	return l
}

// Name returns user-friendly name of executor.
func (l Local) Name() string {
	return "Local Executor"
}

// Dir returns the working directory of executed commands.
func (l Local) Dir() string {
	return l.dir
}

// Execute runs the command given as input.
// Returned Task Handle is able to stop & monitor the provisioned process.
func (l Local) Execute(command string) (TaskHandle, error) {
	stdoutFile, stderrFile, err := createExecutorOutputFiles(command, l.dir)
	if err != nil {
		return nil, err
	}

	name, err := getBinaryNameFromCommand(command)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("Starting %s (%q) in %q", name, command, l.dir)

	cmd := exec.Command("sh", "-c", command)
	cmd.Dir = l.dir
	cmd.Stdout = stdoutFile
	cmd.Stderr = stderrFile
	if len(l.env) > 0 {
		cmd.Env = append(os.Environ(), l.env...)
	}
	// Separate process group so Stop reaches children of the shell.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		stdoutFile.Close()
		stderrFile.Close()
		return nil, errors.Wrapf(err, "cannot start %q", command)
	}

	logrus.Debugf("Started with pid %d", cmd.Process.Pid)

	task := newLocalTaskHandle(cmd, stdoutFile, stderrFile, l.killTimeout)
	go task.wait()

	return task, nil
}

// localTaskHandle implements TaskHandle for a local process.
type localTaskHandle struct {
	cmd        *exec.Cmd
	stdoutFile *os.File
	stderrFile *os.File

	killTimeout time.Duration

	mutex    sync.Mutex
	exitCode *int
	waitErr  error
	done     chan struct{}
}

func newLocalTaskHandle(cmd *exec.Cmd, stdoutFile, stderrFile *os.File, killTimeout time.Duration) *localTaskHandle {
	return &localTaskHandle{
		cmd:         cmd,
		stdoutFile:  stdoutFile,
		stderrFile:  stderrFile,
		killTimeout: killTimeout,
		done:        make(chan struct{}),
	}
}

func (t *localTaskHandle) wait() {
	err := t.cmd.Wait()

	exitCode := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			t.setResult(-1, errors.Wrapf(err, "wait for pid %d failed", t.cmd.Process.Pid))
			return
		}
		waitStatus := exitErr.Sys().(syscall.WaitStatus)
		if waitStatus.Signaled() {
			exitCode = 128 + int(waitStatus.Signal())
		} else {
			exitCode = waitStatus.ExitStatus()
		}
	}

	logrus.Debugf("Process %d finished with exit code %d", t.cmd.Process.Pid, exitCode)
	t.setResult(exitCode, nil)
}

func (t *localTaskHandle) setResult(exitCode int, err error) {
	t.mutex.Lock()
	t.exitCode = &exitCode
	t.waitErr = err
	t.mutex.Unlock()
	close(t.done)
}

// Stop sends SIGTERM to the task's process group and waits for termination.
// A group still running after the kill timeout gets SIGKILL.
func (t *localTaskHandle) Stop() error {
	if t.Status() == TERMINATED {
		return nil
	}

	pid := t.cmd.Process.Pid
	logrus.Debugf("Sending SIGTERM to process group %d", pid)
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil && err != syscall.ESRCH {
		return errors.Wrapf(err, "cannot terminate process group %d", pid)
	}
	if t.Wait(t.killTimeout) {
		return nil
	}

	logrus.Warnf("Process group %d still running %s after SIGTERM, sending SIGKILL", pid, t.killTimeout)
	if err := syscall.Kill(-pid, syscall.SIGKILL); err != nil && err != syscall.ESRCH {
		return errors.Wrapf(err, "cannot kill process group %d", pid)
	}
	if !t.Wait(t.killTimeout) {
		return errors.Errorf("cannot terminate process group %d", pid)
	}
	return nil
}

// Status returns a state of the task.
func (t *localTaskHandle) Status() TaskState {
	select {
	case <-t.done:
		return TERMINATED
	default:
		return RUNNING
	}
}

// ExitCode returns the exit code of a terminated task.
// A task killed by a signal reports 128 plus the signal number.
func (t *localTaskHandle) ExitCode() (int, error) {
	if t.Status() == RUNNING {
		return -1, errors.New("task is still running")
	}
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.waitErr != nil {
		return -1, t.waitErr
	}
	return *t.exitCode, nil
}

// StdoutPath returns path to the file with the task's stdout.
func (t *localTaskHandle) StdoutPath() string {
	return t.stdoutFile.Name()
}

// StderrPath returns path to the file with the task's stderr.
func (t *localTaskHandle) StderrPath() string {
	return t.stderrFile.Name()
}

// Wait blocks until the task terminates or the timeout passes.
// Zero timeout means no timeout. It returns true if task is terminated.
func (t *localTaskHandle) Wait(timeout time.Duration) bool {
	if timeout == 0 {
		<-t.done
		return true
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-t.done:
		return true
	case <-timer.C:
		return false
	}
}

// Clean closes the task's stdout & stderr files.
func (t *localTaskHandle) Clean() error {
	if t.Status() == RUNNING {
		return errors.New("cannot clean running task")
	}
	if err := t.stdoutFile.Close(); err != nil && !isAlreadyClosed(err) {
		return errors.Wrapf(err, "cannot close %q", t.stdoutFile.Name())
	}
	if err := t.stderrFile.Close(); err != nil && !isAlreadyClosed(err) {
		return errors.Wrapf(err, "cannot close %q", t.stderrFile.Name())
	}
	return nil
}

// EraseOutput removes task's stdout & stderr files.
func (t *localTaskHandle) EraseOutput() error {
	for _, path := range []string{t.StdoutPath(), t.StderrPath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "cannot remove %q", path)
		}
	}
	return nil
}

func isAlreadyClosed(err error) bool {
	return errors.Is(err, os.ErrClosed)
}
