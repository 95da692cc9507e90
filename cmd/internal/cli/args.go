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

import "strings"

const flagPrefix = "-"

type Args struct {
	WaitForDebugger bool
	// Positional holds the non-flag arguments in order: handler, then body.
	Positional []string
}

type argSpec struct {
	flag   string
	action func(a *Args)
}

var argSpecs = []argSpec{
	{"d", func(a *Args) { a.WaitForDebugger = true }},
}

// ParseArgs splits argv (without the program name) into flags and
// positional arguments. Flags we do not know about are dropped.
func ParseArgs(argv []string) Args {
	out := Args{
		Positional: make([]string, 0, len(argv)),
	}
	for _, arg := range argv {
		if !strings.HasPrefix(arg, flagPrefix) {
			out.Positional = append(out.Positional, arg)
			continue
		}
		name := arg[len(flagPrefix):]
		for _, spec := range argSpecs {
			if spec.flag == name {
				spec.action(&out)
				break
			}
		}
	}
	return out
}

func (a *Args) positional(i int) (string, bool) {
	if len(a.Positional) > i {
		return a.Positional[i], true
	}
	return "", false
}
