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

package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/mocklambda/mocklambda/invocation"
)

// Handler is the type a plugin must export, either as a function or
// as a variable holding one.
type Handler = func(context.Context, []byte) ([]byte, error)

// PluginLoader runs a handler exported from a Go plugin in-process.
type PluginLoader struct {
	// Handler is PLUGIN::SYMBOL
	Handler  string
	Resolver *Resolver
	Logger   *slog.Logger

	fn      Handler
	initErr error
}

func splitHandler(handler string) (string, string, error) {
	lib, sym, ok := strings.Cut(handler, pluginSeparator)
	if !ok || lib == "" || sym == "" {
		return "", "", fmt.Errorf("handler %q is not of the form PLUGIN%sSYMBOL", handler, pluginSeparator)
	}
	return lib, sym, nil
}

func (l *PluginLoader) Init(ctx context.Context, sink LogSink) error {
	l.fn, l.initErr = l.load()
	if l.initErr != nil {
		sink(l.initErr.Error())
	}
	return l.initErr
}

func (l *PluginLoader) load() (Handler, error) {
	libName, symName, err := splitHandler(l.Handler)
	if err != nil {
		return nil, err
	}
	lib, err := l.Resolver.Open(libName)
	if err != nil {
		return nil, err
	}
	sym, err := lib.Lookup(symName)
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", symName, err)
	}
	l.Logger.Debug("loaded plugin handler", "library", libName, "symbol", symName)
	switch fn := sym.(type) {
	case Handler:
		return fn, nil
	case *Handler:
		if *fn != nil {
			return *fn, nil
		}
	}
	return nil, fmt.Errorf("%s: invalid handler type %T", l.Handler, sym)
}

func (l *PluginLoader) Invoke(ctx context.Context, in io.Reader, out io.Writer, ic *invocation.Internal) error {
	if l.initErr != nil {
		return fmt.Errorf("%w: %w", ErrNotInitialized, l.initErr)
	}
	if l.fn == nil {
		return ErrNotInitialized
	}
	payload, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading event: %w", err)
	}

	ctx, cancel := context.WithDeadline(ctx, ic.Deadline())
	defer cancel()
	ctx = lambdacontext.NewContext(ctx, ic.LambdaContext())
	ctx = invocation.NewContext(ctx, ic)

	resp, err := l.call(ctx, payload)
	if err != nil {
		return err
	}
	if _, err := out.Write(resp); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

func (l *PluginLoader) call(ctx context.Context, payload []byte) (resp []byte, err error) {
	defer func() {
		if v := recover(); v != nil {
			// Skip runtime.Callers, fromPanic, this closure and gopanic.
			err = fromPanic(v, 4)
		}
	}()
	resp, err = l.fn(ctx, payload)
	if err != nil {
		return nil, fromHandlerError(err)
	}
	return resp, nil
}

func (l *PluginLoader) MemoryUsed(ctx context.Context) (uint64, error) {
	return invocation.SelfPeakMemory(ctx)
}

func (l *PluginLoader) Close() error { return nil }
