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

// Package harness runs a single function invocation the way the
// hosted runtime would, framed by START, END and REPORT lines.
//
// Stdout only ever receives the event body echo and the function's
// output. Everything else goes to Stderr.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mocklambda/mocklambda/cmd/internal/cli"
	"github.com/mocklambda/mocklambda/debugger"
	"github.com/mocklambda/mocklambda/invocation"
	"github.com/mocklambda/mocklambda/loader"
	"github.com/mocklambda/mocklambda/tracing"
)

const EnvTrace = "MOCKBOOTSTRAP_TRACE"

type Harness struct {
	Args   []string
	Env    cli.Env
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	NewLoader func(handler string, opts loader.Options) loader.Loader
	// Attached overrides debugger detection.
	Attached func() (bool, error)
	Clock    func() time.Time
}

// New snapshots env; nothing the harness does later reads the live
// environment.
func New(args []string, env cli.Env, stdin io.Reader, stdout, stderr io.Writer) *Harness {
	snapshot := cli.MapEnv(cli.Snapshot(env))
	return &Harness{
		Args:      args,
		Env:       snapshot,
		Stdin:     stdin,
		Stdout:    stdout,
		Stderr:    stderr,
		Logger:    cli.LoggerFromEnv(snapshot, stderr),
		NewLoader: loader.New,
		Clock:     time.Now,
	}
}

// result is what came out of the one invocation attempt.
type result struct {
	output string
	err    error
}

// Run performs the invocation and returns the process exit status.
func (h *Harness) Run(ctx context.Context) int {
	env := cli.MapEnv(cli.Snapshot(h.Env))
	if path := cli.GetOrDefault(env, EnvTrace, ""); path != "" {
		var wt *tracing.WriterTracer
		var err error
		ctx, wt, err = tracing.WithTraceFile(ctx, path)
		if err != nil {
			h.Logger.Warn("cannot open trace file", "path", path, "error", err)
		} else {
			defer func() {
				if err := wt.Close(); err != nil {
					h.Logger.Warn("writing trace file", "path", path, "error", err)
				}
			}()
		}
	}
	return h.run(ctx, env)
}

// run reads the environment only through env, which both the function
// process and the invocation context are built from.
func (h *Harness) run(ctx context.Context, env cli.MapEnv) int {
	cfg := cli.ReadFunctionConfig(env, h.Logger)
	// The resolver must exist before anything tries to load code.
	resolver := loader.NewResolver(cfg.TaskRoot)

	req, err := cli.ResolveRequest(h.Args, env, h.Stdin)
	if err != nil {
		fmt.Fprintln(h.Stderr, err.Error())
		return 1
	}

	ctx, root := tracing.StartInvocation(ctx, req.Handler)
	defer root.End()

	fmt.Fprintln(h.Stdout, req.Body)

	sink := func(text string) { fmt.Fprintln(h.Stderr, text) }
	ld := h.NewLoader(req.Handler, loader.Options{
		Resolver: resolver,
		Env:      env.Environ(),
		Stderr:   h.Stderr,
		Logger:   h.Logger,
	})
	defer ld.Close()

	if err := h.initialize(ctx, ld, sink); err != nil {
		var depErr *loader.DependencyError
		if errors.As(err, &depErr) {
			root.SetError(err)
			return 1
		}
		h.Logger.Debug("function initialization failed", "error", err)
	}

	ictx := invocation.New(cfg, req.Handler, req.Body, invocation.WithClock(h.Clock))
	internal := ictx.Internal(sink, env)
	root.SetLabel("request_id", ictx.RequestID)

	if err := h.waitForDebugger(ctx, req.WaitForDebugger); err != nil {
		root.SetError(err)
		return 1
	}

	h.logRequestStart(ictx)
	res := h.invoke(ctx, ld, ictx, internal)
	usage := ictx.Finish(h.memoryUsed(ctx, ld))
	h.logRequestEnd(ictx, usage)

	if res.err != nil {
		root.SetError(res.err)
		fmt.Fprintln(h.Stderr, loader.Describe(res.err))
		return 1
	}
	fmt.Fprintln(h.Stdout, res.output)
	return 0
}

func (h *Harness) initialize(ctx context.Context, ld loader.Loader, sink loader.LogSink) error {
	ctx, span := tracing.StartSpan(ctx, "init")
	defer span.End()
	err := ld.Init(ctx, sink)
	span.SetError(err)
	return err
}

func (h *Harness) waitForDebugger(ctx context.Context, enabled bool) error {
	_, span := tracing.StartSpan(ctx, "debugger")
	defer span.End()
	gate := debugger.NewGate(enabled, h.Stdin, h.Stderr, h.Logger)
	if h.Attached != nil {
		gate.Attached = h.Attached
	}
	err := gate.Wait()
	span.SetError(err)
	return err
}

func (h *Harness) invoke(ctx context.Context, ld loader.Loader, ictx *invocation.Context, internal *invocation.Internal) result {
	ctx, span := tracing.StartSpan(ctx, "invoke")
	defer span.End()
	err := ld.Invoke(ctx, ictx.Input, ictx.Output, internal)
	span.SetError(err)
	if err != nil {
		return result{err: err}
	}
	span.SetMetric("output_bytes", float64(ictx.Output.Len()))
	return result{output: ictx.OutputText()}
}

func (h *Harness) memoryUsed(ctx context.Context, ld loader.Loader) uint64 {
	if mr, ok := ld.(loader.MemoryReporter); ok {
		mem, err := mr.MemoryUsed(ctx)
		if err != nil {
			h.Logger.Warn("cannot measure function memory", "error", err)
			return 0
		}
		return mem
	}
	mem, err := invocation.SelfPeakMemory(ctx)
	if err != nil {
		h.Logger.Debug("measuring bootstrap memory", "error", err)
		return 0
	}
	return mem
}
