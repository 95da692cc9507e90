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
	"maps"
	"os"
	"slices"
	"strings"
)

// Env is the subset of the process environment the bootstrap reads.
type Env interface {
	LookupEnv(name string) (string, bool)
	Environ() []string
}

type osEnv struct{}

func (osEnv) LookupEnv(name string) (string, bool) { return os.LookupEnv(name) }
func (osEnv) Environ() []string                    { return os.Environ() }

// OSEnv reads the real process environment.
var OSEnv Env = osEnv{}

// MapEnv is an Env backed by a map.
type MapEnv map[string]string

func (m MapEnv) LookupEnv(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Environ returns the variables as KEY=value pairs, sorted by key.
func (m MapEnv) Environ() []string {
	out := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		out = append(out, k+"="+m[k])
	}
	return out
}

// GetOrDefault returns the named variable if it is set, even to the
// empty string, and fallback otherwise.
func GetOrDefault(env Env, name, fallback string) string {
	if v, ok := env.LookupEnv(name); ok {
		return v
	}
	return fallback
}

// Snapshot copies the environment into a map. Later changes to the
// environment are not reflected in the result.
func Snapshot(env Env) map[string]string {
	vars := env.Environ()
	out := make(map[string]string, len(vars))
	for _, ev := range vars {
		eq := strings.IndexRune(ev, '=')
		if eq < 0 {
			continue
		}
		out[ev[:eq]] = ev[eq+1:]
	}
	return out
}
