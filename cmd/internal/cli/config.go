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
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/mocklambda/mocklambda/loader"
	"github.com/mocklambda/mocklambda/protocol"
)

const (
	EnvFunctionName    = "AWS_LAMBDA_FUNCTION_NAME"
	EnvFunctionVersion = "AWS_LAMBDA_FUNCTION_VERSION"
	EnvMemorySize      = "AWS_LAMBDA_FUNCTION_MEMORY_SIZE"
	EnvTimeout         = "AWS_LAMBDA_FUNCTION_TIMEOUT"
	EnvRegion          = "AWS_REGION"
	EnvDefaultRegion   = "AWS_DEFAULT_REGION"
	EnvAccountID       = "AWS_ACCOUNT_ID"
)

const DefaultTaskRoot = loader.DefaultTaskRoot

var DefaultConfig = protocol.FunctionConfig{
	FunctionName:    "test",
	FunctionVersion: "$LATEST",
	MemorySize:      1536,
	Timeout:         300 * time.Second,
	Region:          "us-east-1",
	TaskRoot:        DefaultTaskRoot,
}

// ReadFunctionConfig builds the function's configuration from env,
// starting from DefaultConfig. Malformed numbers keep their default.
func ReadFunctionConfig(env Env, logger *slog.Logger) protocol.FunctionConfig {
	out := DefaultConfig

	out.FunctionName = GetOrDefault(env, EnvFunctionName, out.FunctionName)
	out.FunctionVersion = GetOrDefault(env, EnvFunctionVersion, out.FunctionVersion)
	out.Region = GetOrDefault(env, EnvRegion, GetOrDefault(env, EnvDefaultRegion, out.Region))
	out.AccountID = GetOrDefault(env, EnvAccountID, "")
	if out.AccountID == "" {
		out.AccountID = randomAccountID()
	}

	if v, ok := env.LookupEnv(EnvMemorySize); ok {
		mb, err := strconv.ParseInt(v, 10, 64)
		if err != nil || mb <= 0 {
			logger.Warn("ignoring invalid memory size", "var", EnvMemorySize, "value", v)
		} else {
			out.MemorySize = mb
		}
	}
	if v, ok := env.LookupEnv(EnvTimeout); ok {
		secs, err := strconv.ParseInt(v, 10, 64)
		if err != nil || secs <= 0 {
			logger.Warn("ignoring invalid timeout", "var", EnvTimeout, "value", v)
		} else {
			out.Timeout = time.Duration(secs) * time.Second
		}
	}

	root := GetOrDefault(env, EnvTaskRoot, out.TaskRoot)
	expanded, err := homedir.Expand(root)
	if err != nil {
		logger.Warn("cannot expand task root", "root", root, "error", err)
		expanded = root
	}
	out.TaskRoot = expanded

	return out
}

func randomAccountID() string {
	return fmt.Sprintf("%d%d", 100000000+rand.IntN(899999999), 100+rand.IntN(899))
}
