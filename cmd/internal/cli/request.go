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

package cli

import (
	"fmt"
	"io"

	"github.com/mocklambda/mocklambda/protocol"
)

const (
	EnvTaskRoot = "LAMBDA_TASK_ROOT"
	EnvHandler  = "AWS_LAMBDA_FUNCTION_HANDLER"
	EnvBody     = "AWS_LAMBDA_EVENT_BODY"
	// EnvUseStdin only needs to be present; its value is ignored.
	EnvUseStdin = "DOCKER_LAMBDA_USE_STDIN"
)

// FunctionHandler returns the first positional argument, falling back
// to the environment. An empty handler is returned as-is and fails
// later, when the loader tries to use it.
func FunctionHandler(args *Args, env Env) string {
	if h, ok := args.positional(0); ok {
		return h
	}
	return GetOrDefault(env, EnvHandler, "")
}

// EventBody returns the second positional argument, or the body from
// the environment, or all of stdin if EnvUseStdin is set, or
// protocol.FallbackBody.
func EventBody(args *Args, env Env, stdin io.Reader) (string, error) {
	if b, ok := args.positional(1); ok {
		return b, nil
	}
	if b, ok := env.LookupEnv(EnvBody); ok {
		return b, nil
	}
	if _, ok := env.LookupEnv(EnvUseStdin); ok {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading event body from stdin: %w", err)
		}
		return string(data), nil
	}
	return protocol.FallbackBody, nil
}

func ResolveRequest(argv []string, env Env, stdin io.Reader) (protocol.InvocationRequest, error) {
	args := ParseArgs(argv)
	body, err := EventBody(&args, env, stdin)
	if err != nil {
		return protocol.InvocationRequest{}, err
	}
	return protocol.InvocationRequest{
		Handler:         FunctionHandler(&args, env),
		Body:            body,
		WaitForDebugger: args.WaitForDebugger,
	}, nil
}
