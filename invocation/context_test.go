package invocation

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/mocklambda/mocklambda/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

var testConfig = protocol.FunctionConfig{
	FunctionName:    "fn",
	FunctionVersion: "$LATEST",
	MemorySize:      128,
	Timeout:         3 * time.Second,
	Region:          "us-west-2",
	AccountID:       "123456789012",
}

func TestNewContext(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := New(testConfig, "handler", `{"x":1}`, WithClock(clock.Now))

	assert.NotEmpty(t, c.RequestID)
	assert.Equal(t, "handler", c.Handler)
	assert.Equal(t, "$LATEST", c.FunctionVersion())
	assert.Equal(t, "arn:aws:lambda:us-west-2:123456789012:function:fn", c.Arn())

	body, err := io.ReadAll(c.Input)
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, string(body))

	assert.Equal(t, 3*time.Second, c.RemainingTime())
	clock.Advance(time.Second)
	assert.Equal(t, 2*time.Second, c.RemainingTime())
	assert.Equal(t, time.Unix(1003, 0), c.Deadline())
}

func TestRequestIDsAreUnique(t *testing.T) {
	a := New(testConfig, "", "")
	b := New(testConfig, "", "")
	assert.NotEqual(t, a.RequestID, b.RequestID)

	c := New(testConfig, "", "", WithRequestID("fixed"))
	assert.Equal(t, "fixed", c.RequestID)
}

func TestFunctionArnPartition(t *testing.T) {
	cfg := testConfig
	cfg.Region = "cn-north-1"
	assert.Equal(t, "arn:aws-cn:lambda:cn-north-1:123456789012:function:fn", FunctionArn(&cfg))

	cfg.Region = "local"
	assert.Equal(t, "arn:aws:lambda:local:123456789012:function:fn", FunctionArn(&cfg))
}

func TestFinish(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := New(testConfig, "", "", WithClock(clock.Now))

	_, ok := c.Usage()
	assert.False(t, ok, "usage before Finish")

	clock.Advance(250 * time.Millisecond)
	usage := c.Finish(5 * 1024 * 1024)
	assert.Equal(t, protocol.Usage{
		Duration:       250 * time.Millisecond,
		BilledDuration: 300 * time.Millisecond,
		MemorySize:     128,
		MemoryUsed:     5 * 1024 * 1024,
	}, usage)

	clock.Advance(time.Second)
	again := c.Finish(0)
	assert.Equal(t, usage, again)

	got, ok := c.Usage()
	assert.True(t, ok)
	assert.Equal(t, usage, got)
}

func TestInternal(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := New(testConfig, "", "", WithClock(clock.Now))

	var logged []string
	env := map[string]string{"A": "1"}
	ic := c.Internal(func(s string) { logged = append(logged, s) }, env)
	env["A"] = "changed"

	assert.Equal(t, c.RequestID, ic.AwsRequestID())
	assert.Equal(t, c.Arn(), ic.InvokedFunctionArn())
	assert.Equal(t, "", ic.CognitoIdentityID())
	assert.Equal(t, "", ic.CognitoIdentityPoolID())
	assert.Equal(t, map[string]string{"A": "1"}, ic.Environment())
	assert.Same(t, ic.ClientContext(), ic.ClientContext())
	assert.Empty(t, ic.ClientContext().Env)

	clock.Advance(time.Second)
	assert.Equal(t, 2*time.Second, ic.RemainingTime())
	assert.Equal(t, c.Deadline(), ic.Deadline())

	ic.Log("hello")
	assert.Equal(t, []string{"hello"}, logged)

	lc := ic.LambdaContext()
	assert.Equal(t, c.RequestID, lc.AwsRequestID)
	assert.Equal(t, c.Arn(), lc.InvokedFunctionArn)
}

func TestSelfPeakMemory(t *testing.T) {
	mem, err := SelfPeakMemory(context.Background())
	if err != nil {
		t.Skipf("process memory not available: %s", err)
	}
	assert.Greater(t, mem, uint64(0))
}
