// Copyright 2020 Nelson Elhage
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package debugger pauses the bootstrap until a debugger is attached.
package debugger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

var ErrNotAttached = errors.New("debugger failed to attach")

// Gate blocks on a single read of Stdin until the user says a debugger
// is attached. Prompts go to Stderr.
type Gate struct {
	Enabled bool

	Stdin  io.Reader
	Stderr io.Writer
	Logger *slog.Logger

	// Attached reports whether a debugger is tracing this process.
	Attached func() (bool, error)
	Pid      func() (int, error)
}

func NewGate(enabled bool, stdin io.Reader, stderr io.Writer, logger *slog.Logger) *Gate {
	return &Gate{
		Enabled:  enabled,
		Stdin:    stdin,
		Stderr:   stderr,
		Logger:   logger,
		Attached: IsAttached,
		Pid:      func() (int, error) { return os.Getpid(), nil },
	}
}

func (g *Gate) attached() bool {
	ok, err := g.Attached()
	if err != nil {
		g.Logger.Warn("cannot tell whether a debugger is attached", "error", err)
		return false
	}
	return ok
}

// Wait returns immediately unless the gate is enabled and no debugger
// is attached. Otherwise it prompts, reads once from Stdin (EOF
// counts), and returns ErrNotAttached if there is still no debugger.
func (g *Gate) Wait() error {
	if !g.Enabled || g.attached() {
		return nil
	}

	target := ""
	if pid, err := g.Pid(); err != nil {
		g.Logger.Warn("failed to retrieve PID", "error", err)
	} else {
		target = fmt.Sprintf(" to attach to %d PID", pid)
	}
	fmt.Fprintf(g.Stderr, "Runtime started, waiting for debugger%s\n", target)
	fmt.Fprintln(g.Stderr, "Press any key after attaching to continue...")

	var buf [1]byte
	if _, err := g.Stdin.Read(buf[:]); err != nil && err != io.EOF {
		g.Logger.Debug("reading stdin", "error", err)
	}

	if !g.attached() {
		fmt.Fprintln(g.Stderr, "Debugger failed to attach, terminating")
		return ErrNotAttached
	}
	return nil
}
