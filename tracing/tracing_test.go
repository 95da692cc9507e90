package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTracer(t *testing.T) {
	var mt MemoryTracer
	ctx := WithTracer(context.Background(), &mt)

	ctx, root := StartInvocation(ctx, "fn::Handler")
	root.SetLabel("request_id", "req-1")
	_, child := StartSpan(ctx, "invoke")
	child.SetMetric("bytes", 12)
	child.End()
	root.End()

	require.Len(t, mt.Spans, 2)
	inv, ok := mt.Find("invoke")
	require.True(t, ok)
	top, ok := mt.Find("invocation")
	require.True(t, ok)

	assert.Equal(t, "req-1", top.Labels["request_id"])
	assert.Equal(t, top.TraceId, inv.TraceId)
	assert.Equal(t, top.SpanId, inv.ParentId)
	assert.Equal(t, "fn::Handler", top.Labels["handler"])
	assert.Equal(t, 12.0, inv.Metrics["bytes"])

	_, ok = mt.Find("missing")
	assert.False(t, ok)
}

func TestSpanWithoutTracer(t *testing.T) {
	_, sb := StartSpan(context.Background(), "lonely")
	sb.SetError(nil)
	span := sb.End()
	assert.Equal(t, "lonely", span.Name)
	assert.NotEmpty(t, span.TraceId)
	assert.Nil(t, span.Labels)
}

func readSpans(t *testing.T, scanner *bufio.Scanner) []Span {
	var spans []Span
	for scanner.Scan() {
		var sp Span
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &sp))
		spans = append(spans, sp)
	}
	require.NoError(t, scanner.Err())
	return spans
}

func TestTraceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json")
	ctx, wt, err := WithTraceFile(context.Background(), path)
	require.NoError(t, err)

	_, sb := StartInvocation(ctx, "handler")
	sb.SetLabel("request_id", "req-2")
	sb.End()
	require.NoError(t, wt.Close())

	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()
	spans := readSpans(t, bufio.NewScanner(fh))
	require.Len(t, spans, 1)
	assert.Equal(t, "req-2", spans[0].Labels["request_id"])
}

func TestCompressedTraceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.json.zst")
	ctx, wt, err := WithTraceFile(context.Background(), path)
	require.NoError(t, err)

	_, sb := StartInvocation(ctx, "handler")
	sb.End()
	require.NoError(t, wt.Close())

	fh, err := os.Open(path)
	require.NoError(t, err)
	defer fh.Close()
	zr, err := zstd.NewReader(fh)
	require.NoError(t, err)
	defer zr.Close()

	spans := readSpans(t, bufio.NewScanner(zr))
	require.Len(t, spans, 1)
	assert.Equal(t, "invocation", spans[0].Name)
}
