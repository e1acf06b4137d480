// Copyright 2026 Google LLC
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

package prebuild

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// ModuleFile is the name of the module manifest within a module root.
const ModuleFile = "moon.mod.json"

// Module contains the parts of a module manifest relevant to prebuild hooks.
type Module struct {
	Name string `json:"name"`
	// Prebuild is the hook script, relative to the module root.  It is
	// empty if the module has no hook.
	Prebuild string `json:"--moonbit-unstable-prebuild"`
}

// ReadModule parses the module manifest at the root of fsys.
func ReadModule(fsys fs.FS) (*Module, error) {
	b, err := fs.ReadFile(fsys, ModuleFile)
	if err != nil {
		return nil, err
	}
	m := new(Module)
	if err := json.Unmarshal(b, m); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ModuleFile, err)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("%s doesn’t specify a module name", ModuleFile)
	}
	return m, nil
}

// LoadHook returns the prebuild hook of the module rooted at dir, or nil if
// the module doesn’t declare one.
func LoadHook(dir string) (*Hook, error) {
	m, err := ReadModule(os.DirFS(dir))
	if err != nil {
		return nil, err
	}
	if m.Prebuild == "" {
		return nil, nil
	}
	return &Hook{Module: m.Name, Dir: dir, Script: m.Prebuild}, nil
}

// Environment is the document a prebuild hook receives on standard input.
type Environment struct {
	Env   map[string]string `json:"env"`
	Paths Paths             `json:"paths"`
}

type Paths struct {
	// ModuleRoot is the directory containing moon.mod.json.
	ModuleRoot string `json:"module_root"`
	// OutDir is a directory the hook may write to.
	OutDir string `json:"out_dir"`
}

// CurrentEnv returns the environment of the current process as a map.
func CurrentEnv() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		// On Windows, there are pseudo-variables like “=C:”.
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}
