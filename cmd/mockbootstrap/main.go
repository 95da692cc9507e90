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

// Command mockbootstrap runs one invocation of a Go function locally,
// printing the same START, END and REPORT lines the hosted runtime
// does.
//
//	mockbootstrap [-d] [HANDLER [BODY]]
package main

import (
	"context"
	"os"

	"github.com/mocklambda/mocklambda/cmd/internal/cli"
	"github.com/mocklambda/mocklambda/cmd/internal/harness"
)

func main() {
	h := harness.New(os.Args[1:], cli.OSEnv, os.Stdin, os.Stdout, os.Stderr)
	os.Exit(h.Run(context.Background()))
}
