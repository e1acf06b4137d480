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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Hook describes a prebuild hook of a single module.
type Hook struct {
	// Module is the name of the module declaring the hook.
	Module string
	// Dir is the module root.  The hook runs in this directory.
	Dir string
	// Script is the hook script, either absolute or relative to Dir.
	Script string
	// OutDir is passed to the hook as [Paths.OutDir].
	OutDir string
}

func (h Hook) String() string {
	return fmt.Sprintf("prebuild script %s for module %s", h.Script, h.Module)
}

var (
	nodeExecutables   = []string{"node.cmd", "node"}
	pythonExecutables = []string{"python3", "python", "python3.exe", "python.exe"}
)

// command returns the program and arguments that run the hook script.
func (h Hook) command() (string, []string, error) {
	script := h.Script
	if !filepath.IsAbs(script) {
		script = filepath.Join(h.Dir, script)
	}
	switch ext := strings.ToLower(filepath.Ext(script)); ext {
	case ".js", ".cjs", ".mjs":
		node, err := lookPath(nodeExecutables)
		if err != nil {
			return "", nil, fmt.Errorf("running %s needs node in PATH: %w", h, err)
		}
		return node, []string{"--", script}, nil
	case ".py":
		python, err := lookPath(pythonExecutables)
		if err != nil {
			return "", nil, fmt.Errorf("running %s needs python or python3 in PATH: %w", h, err)
		}
		return python, []string{"--", script}, nil
	default:
		if isExecutable(script) {
			return script, nil, nil
		}
		return "", nil, fmt.Errorf("unknown extension %q of %s; allowed are .js, .cjs, .mjs (run with node), .py (run with python), or an executable file", ext, h)
	}
}

// isExecutable reports whether name is a regular file that can be run
// directly.
func isExecutable(name string) bool {
	info, err := os.Stat(name)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return strings.EqualFold(filepath.Ext(name), ".exe")
	}
	return info.Mode().Perm()&0111 != 0
}

func lookPath(names []string) (string, error) {
	var first error
	for _, name := range names {
		p, err := exec.LookPath(name)
		if err == nil {
			return p, nil
		}
		if first == nil {
			first = err
		}
	}
	return "", first
}

// Run runs the hook and returns its decoded output.  env becomes
// [Environment.Env].  The hook inherits the environment of the current
// process and writes its diagnostics to the current standard error stream.
// Canceling ctx kills the hook.
func Run(ctx context.Context, h Hook, env map[string]string) (*Output, error) {
	name, args, err := h.command()
	if err != nil {
		return nil, err
	}
	input, err := json.Marshal(Environment{
		Env:   env,
		Paths: Paths{ModuleRoot: h.Dir, OutDir: h.OutDir},
	})
	if err != nil {
		return nil, fmt.Errorf("can’t encode input for %s: %w", h, err)
	}
	log.Printf("running external %s; the script can execute arbitrary code", h)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = h.Dir
	cmd.Stdin = bytes.NewReader(input)
	stdout := new(bytes.Buffer)
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s failed: %w", h, err)
	}
	out, err := Decode(stdout)
	if err != nil {
		return nil, fmt.Errorf("can’t decode output of %s: %w", h, err)
	}
	return out, nil
}

// RunAll runs the given hooks concurrently and returns their outputs keyed
// by module name.  At most one hook per module is allowed.  The first failure
// cancels the remaining hooks.
func RunAll(ctx context.Context, hooks []Hook, env map[string]string) (map[string]*Output, error) {
	seen := make(map[string]struct{}, len(hooks))
	for _, h := range hooks {
		if _, dup := seen[h.Module]; dup {
			return nil, fmt.Errorf("module %s has more than one prebuild hook", h.Module)
		}
		seen[h.Module] = struct{}{}
	}
	var mu sync.Mutex
	outputs := make(map[string]*Output, len(hooks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, h := range hooks {
		h := h
		g.Go(func() error {
			out, err := Run(ctx, h, env)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			outputs[h.Module] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outputs, nil
}
