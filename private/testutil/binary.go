// Copyright 2025, 2026 Google LLC
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

// Package testutil contains internal test-related utilities.
package testutil

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/bazelbuild/rules_go/go/runfiles"
)

// RunfileFlag defines a command-line flag that receives the runfile location
// of a binary as returned by the Bazel $(rlocationpath …) construct and
// resolves it to a local filename using [runfiles.Rlocation].  The flag name
// is usually the absolute Bazel label of the binary.  The resolved filename is
// stored in the string that the return value points to.  Pass the result to
// [Binary].
func RunfileFlag(name string) *string {
	r := new(runfile)
	flag.Var(r, name, fmt.Sprintf("location of %s relative to the runfiles root", name))
	return (*string)(r)
}

type runfile string

func (r runfile) String() string { return string(r) }

func (r *runfile) Set(s string) error {
	p, err := runfiles.Rlocation(s)
	if err != nil {
		return err
	}
	*r = runfile(p)
	return nil
}

// Binary returns the filename of a Go binary needed by a test.  If the flag
// defined by [RunfileFlag] was set, which is the case under Bazel, Binary
// returns its value.  Otherwise it builds the main package pkg, a path
// relative to the module root such as “./tests/prebuild”, using “go build”.
func Binary(tb testing.TB, flagValue *string, pkg string) string {
	tb.Helper()
	if *flagValue != "" {
		return *flagValue
	}
	root, err := moduleRoot()
	if err != nil {
		tb.Fatal(err)
	}
	name := filepath.Base(pkg)
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	out := filepath.Join(tb.TempDir(), name)
	cmd := exec.Command("go", "build", "-o", out, pkg)
	cmd.Dir = root
	cmd.Stderr = os.Stderr
	tb.Logf("building %s", pkg)
	if err := cmd.Run(); err != nil {
		tb.Fatalf("can’t build %s: %s", pkg, err)
	}
	return out
}

// moduleRoot returns the closest directory above the working directory that
// contains a go.mod file.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found")
		}
		dir = parent
	}
}
