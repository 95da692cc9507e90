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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/rpc"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/lambda/messages"
	"github.com/mocklambda/mocklambda/invocation"
)

const (
	EnvServerPort = "_LAMBDA_SERVER_PORT"

	dialAttempts = 100
	dialBackoff  = 50 * time.Millisecond
)

// RPCLoader runs a function executable built with aws-lambda-go and
// talks to it over net/rpc.
type RPCLoader struct {
	Handler  string
	TaskRoot string
	Env      []string
	Stderr   io.Writer
	Logger   *slog.Logger

	cmd     *exec.Cmd
	client  *rpcClient
	initErr error
}

type rpcClient struct {
	conn *rpc.Client
}

func (c *rpcClient) Close() error {
	return c.conn.Close()
}

func (c *rpcClient) Ping() error {
	var out messages.PingResponse
	return c.conn.Call("Function.Ping", &messages.PingRequest{}, &out)
}

func (c *rpcClient) Invoke(ctx context.Context, in *messages.InvokeRequest) (*messages.InvokeResponse, error) {
	var out messages.InvokeResponse
	call := c.conn.Go("Function.Invoke", in, &out, make(chan *rpc.Call, 1))
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-call.Done:
		return &out, call.Error
	}
}

func (l *RPCLoader) Path() string {
	return filepath.Join(l.TaskRoot, l.Handler)
}

func (l *RPCLoader) Init(ctx context.Context, sink LogSink) error {
	l.initErr = l.start(ctx)
	if l.initErr != nil {
		sink(l.initErr.Error())
		l.stop()
	}
	return l.initErr
}

func (l *RPCLoader) start(ctx context.Context) error {
	if l.Handler == "" {
		return errors.New("no handler specified")
	}
	port, err := freePort()
	if err != nil {
		return fmt.Errorf("allocating port: %w", err)
	}

	cmd := exec.Command(l.Path())
	cmd.Dir = l.TaskRoot
	cmd.Env = append(append([]string(nil), l.Env...),
		EnvServerPort+"="+strconv.Itoa(port),
		"_HANDLER="+l.Handler,
	)
	// The function's own output is diagnostic, never the result.
	cmd.Stdout = l.Stderr
	cmd.Stderr = l.Stderr
	setProcessGroup(cmd)

	l.Logger.Debug("starting function process", "path", cmd.Path, "port", port)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Path, err)
	}
	l.cmd = cmd

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	l.client, err = dialFunction(ctx, addr, dialAttempts, dialBackoff)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", l.Handler, err)
	}
	return nil
}

// dialFunction retries until the function's RPC server answers a Ping.
func dialFunction(ctx context.Context, addr string, attempts int, backoff time.Duration) (*rpcClient, error) {
	var err error
	for i := 0; i < attempts; i++ {
		var conn *rpc.Client
		conn, err = rpc.Dial("tcp", addr)
		if err == nil {
			client := &rpcClient{conn}
			if err = client.Ping(); err == nil {
				return client, nil
			}
			client.Close()
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, fmt.Errorf("gave up after %d attempts: %w", attempts, err)
}

func freePort() (int, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port, nil
}

func (l *RPCLoader) Invoke(ctx context.Context, in io.Reader, out io.Writer, ic *invocation.Internal) error {
	if l.initErr != nil {
		return fmt.Errorf("%w: %w", ErrNotInitialized, l.initErr)
	}
	if l.client == nil {
		return ErrNotInitialized
	}
	payload, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading event: %w", err)
	}

	deadline := ic.Deadline()
	req := messages.InvokeRequest{
		Payload:   payload,
		RequestId: ic.AwsRequestID(),
		Deadline: messages.InvokeRequest_Timestamp{
			Seconds: deadline.Unix(),
			Nanos:   int64(deadline.Nanosecond()),
		},
		InvokedFunctionArn:    ic.InvokedFunctionArn(),
		CognitoIdentityId:     ic.CognitoIdentityID(),
		CognitoIdentityPoolId: ic.CognitoIdentityPoolID(),
	}

	resp, err := l.client.Invoke(ctx, &req)
	if err != nil {
		return fmt.Errorf("invoking %s: %w", l.Handler, err)
	}
	if resp.Error != nil {
		return fromInvokeError(resp.Error)
	}
	if _, err := out.Write(resp.Payload); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

func (l *RPCLoader) MemoryUsed(ctx context.Context) (uint64, error) {
	if l.cmd == nil || l.cmd.Process == nil {
		return 0, ErrNotInitialized
	}
	return invocation.PeakMemory(ctx, l.cmd.Process.Pid)
}

func (l *RPCLoader) Close() error {
	l.stop()
	return nil
}

func (l *RPCLoader) stop() {
	if l.client != nil {
		l.client.Close()
		l.client = nil
	}
	if l.cmd != nil {
		if err := killProcessGroup(l.cmd); err != nil {
			l.Logger.Debug("killing function process", "error", err)
		}
		l.cmd.Wait()
		l.cmd = nil
	}
}
