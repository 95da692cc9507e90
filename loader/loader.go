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

// Package loader finds user function code and invokes it.
//
// Two kinds of handler are supported. A handler of the form
// PLUGIN::SYMBOL names a Go plugin and an exported Handler-typed symbol
// inside it, and runs in-process. Any other handler names an executable
// under the task root that was built with aws-lambda-go; it is started
// as a child process and driven over net/rpc.
package loader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/mocklambda/mocklambda/invocation"
)

// LogSink receives initialization failures. It writes to the error
// stream.
type LogSink func(string)

type Loader interface {
	// Init loads the function. Failures are reported to sink as well
	// as returned; a loader whose Init failed returns the failure again
	// from Invoke.
	Init(ctx context.Context, sink LogSink) error
	Invoke(ctx context.Context, in io.Reader, out io.Writer, ic *invocation.Internal) error
	Close() error
}

// MemoryReporter is implemented by loaders that can measure the
// memory used by the function.
type MemoryReporter interface {
	MemoryUsed(ctx context.Context) (uint64, error)
}

var ErrNotInitialized = errors.New("function was not initialized")

const pluginSeparator = "::"

// DefaultTaskRoot is where function code lives when no Resolver is
// given.
const DefaultTaskRoot = "/var/task"

type Options struct {
	// Resolver defaults to one rooted at DefaultTaskRoot.
	Resolver *Resolver
	// Env is the base environment for function processes.
	Env []string
	// Stderr receives anything the function process prints.
	Stderr io.Writer
	Logger *slog.Logger
}

func New(handler string, opts Options) Loader {
	if opts.Resolver == nil {
		opts.Resolver = NewResolver(DefaultTaskRoot)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if strings.Contains(handler, pluginSeparator) {
		return &PluginLoader{
			Handler:  handler,
			Resolver: opts.Resolver,
			Logger:   opts.Logger,
		}
	}
	return &RPCLoader{
		Handler:  handler,
		TaskRoot: opts.Resolver.TaskRoot,
		Env:      opts.Env,
		Stderr:   opts.Stderr,
		Logger:   opts.Logger,
	}
}
