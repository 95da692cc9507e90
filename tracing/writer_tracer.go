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

package tracing

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"
)

// WriterTracer streams spans to a writer as JSON lines.
type WriterTracer struct {
	ctx     context.Context
	w       io.Writer
	closers []io.Closer
	ch      chan Span
	wg      *errgroup.Group
}

func (wt *WriterTracer) Submit(span *Span) {
	select {
	case <-wt.ctx.Done():
	case wt.ch <- *span:
	}
}

// Close flushes outstanding spans and closes the underlying writer,
// if it is closable.
func (wt *WriterTracer) Close() error {
	close(wt.ch)
	err := wt.wg.Wait()
	for _, cl := range wt.closers {
		if cerr := cl.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (wt *WriterTracer) writer(ctx context.Context) error {
	encoder := json.NewEncoder(wt.w)
	// A failed write is reported from Close. Keep draining so Submit
	// never blocks, and so the context handed out stays live.
	var werr error
	for {
		select {
		case span, ok := <-wt.ch:
			if !ok {
				return werr
			}
			if werr == nil {
				werr = encoder.Encode(&span)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

const bufferSize = 10

func WithWriterTracer(ctx context.Context, w io.Writer) (context.Context, *WriterTracer) {
	wg, ctx := errgroup.WithContext(ctx)
	wt := &WriterTracer{
		ctx: ctx,
		wg:  wg,
		w:   w,
		ch:  make(chan Span, bufferSize),
	}
	if cl, ok := w.(io.Closer); ok {
		wt.closers = append(wt.closers, cl)
	}
	wt.wg.Go(func() error { return wt.writer(ctx) })
	return WithTracer(ctx, wt), wt
}

// WithTraceFile traces to the file at path, compressing with zstd if
// the name ends in .zst or .zstd.
func WithTraceFile(ctx context.Context, path string) (context.Context, *WriterTracer, error) {
	fh, err := os.Create(path)
	if err != nil {
		return ctx, nil, err
	}
	if !strings.HasSuffix(path, ".zstd") && !strings.HasSuffix(path, ".zst") {
		ctx, wt := WithWriterTracer(ctx, fh)
		return ctx, wt, nil
	}
	zw, err := zstd.NewWriter(fh,
		zstd.WithEncoderLevel(zstd.SpeedFastest),
	)
	if err != nil {
		fh.Close()
		return ctx, nil, err
	}
	ctx, wt := WithWriterTracer(ctx, zw)
	// The encoder must be flushed before the file is closed.
	wt.closers = append(wt.closers, fh)
	return ctx, wt, nil
}
