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
	"fmt"
	"os"
	"path/filepath"
	"plugin"
	"sync"
)

const LibraryExt = ".so"

// Library is the part of *plugin.Plugin we use.
type Library interface {
	Lookup(symName string) (plugin.Symbol, error)
}

// DependencyError is returned when a library cannot be found or opened
// from the task root. It is fatal to the run.
type DependencyError struct {
	Name string
	Path string
	Err  error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("loading dependency %q from %s: %s", e.Name, e.Path, e.Err.Error())
}

func (e *DependencyError) Unwrap() error { return e.Err }

// Resolver opens libraries by name. A name that does not exist as
// given is looked up again as TaskRoot/<name>.so.
type Resolver struct {
	TaskRoot string

	open func(path string) (Library, error)

	mu     sync.Mutex
	loaded map[string]Library
}

func NewResolver(taskRoot string) *Resolver {
	return &Resolver{
		TaskRoot: taskRoot,
		open: func(path string) (Library, error) {
			return plugin.Open(path)
		},
		loaded: make(map[string]Library),
	}
}

// Locate returns the path Open would load name from.
func (r *Resolver) Locate(name string) string {
	if name != "" {
		if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
			return name
		}
	}
	return filepath.Join(r.TaskRoot, name+LibraryExt)
}

// Open loads the named library. Successful loads are cached, so
// repeated calls for the same name are cheap and return the same
// Library.
func (r *Resolver) Open(name string) (Library, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lib, ok := r.loaded[name]; ok {
		return lib, nil
	}
	path := r.Locate(name)
	if _, err := os.Stat(path); err != nil {
		return nil, &DependencyError{Name: name, Path: path, Err: err}
	}
	lib, err := r.open(path)
	if err != nil {
		return nil, &DependencyError{Name: name, Path: path, Err: err}
	}
	r.loaded[name] = lib
	return lib, nil
}
