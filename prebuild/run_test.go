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

package prebuild_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bazelbuild/bazel-gazelle/testtools"
	"github.com/google/go-cmp/cmp"

	"github.com/phst/rules_moonbit/prebuild"
)

// helperVar selects the behavior of the test binary when it runs as a fake
// prebuild hook.
const helperVar = "PREBUILD_TEST_HOOK"

func TestMain(m *testing.M) {
	if mode := os.Getenv(helperVar); mode != "" {
		fakeHook(mode)
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// fakeHook echoes parts of its input back as hook output.
func fakeHook(mode string) {
	switch mode {
	case "echo":
		var env prebuild.Environment
		if err := json.NewDecoder(os.Stdin).Decode(&env); err != nil {
			log.Fatalf("can’t decode hook input: %s", err)
		}
		wd, err := os.Getwd()
		if err != nil {
			log.Fatal(err)
		}
		out := &prebuild.Output{
			Vars: map[string]string{
				"ROOT":  env.Paths.ModuleRoot,
				"OUT":   env.Paths.OutDir,
				"INPUT": env.Env["INPUT"],
				"WD":    wd,
			},
		}
		if err := prebuild.Encode(os.Stdout, out); err != nil {
			log.Fatal(err)
		}
	case "fail":
		fmt.Fprintln(os.Stderr, "failing on purpose")
		os.Exit(1)
	case "garbage":
		fmt.Println("this is not JSON")
	default:
		log.Fatalf("unknown mode %q", mode)
	}
}

func helperHook(t *testing.T, module, mode string) prebuild.Hook {
	t.Helper()
	exe, err := os.Executable()
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv(helperVar, mode)
	return prebuild.Hook{Module: module, Dir: t.TempDir(), Script: exe, OutDir: "/out"}
}

func TestRun(t *testing.T) {
	h := helperHook(t, "user/mod", "echo")
	got, err := prebuild.Run(context.Background(), h, map[string]string{"INPUT": "value"})
	if err != nil {
		t.Fatal(err)
	}
	wd, err := filepath.EvalSymlinks(got.Vars["WD"])
	if err != nil {
		t.Fatal(err)
	}
	dir, err := filepath.EvalSymlinks(h.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if wd != dir {
		t.Errorf("hook ran in directory %s, want %s", wd, dir)
	}
	delete(got.Vars, "WD")
	want := &prebuild.Output{
		Vars:        map[string]string{"ROOT": h.Dir, "OUT": "/out", "INPUT": "value"},
		LinkConfigs: []prebuild.LinkConfig{},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Error("-got +want:\n", diff)
	}
}

func TestRunError(t *testing.T) {
	for _, mode := range []string{"fail", "garbage"} {
		t.Run(mode, func(t *testing.T) {
			h := helperHook(t, "user/mod", mode)
			if got, err := prebuild.Run(context.Background(), h, nil); err == nil {
				t.Errorf("Run: got %#v, want error", got)
			}
		})
	}
}

func TestRunCanceled(t *testing.T) {
	h := helperHook(t, "user/mod", "echo")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got, err := prebuild.Run(ctx, h, nil); err == nil {
		t.Errorf("Run: got %#v, want error", got)
	}
}

func TestRunUnknownExtension(t *testing.T) {
	dir, cleanup := testtools.CreateFiles(t, []testtools.FileSpec{
		{Path: "build.rb", Content: "puts 1\n"},
		{Path: "notes", Content: "not executable\n"},
	})
	t.Cleanup(cleanup)
	for _, script := range []string{"build.rb", "notes", "missing.sh"} {
		h := prebuild.Hook{Module: "user/mod", Dir: dir, Script: script}
		if got, err := prebuild.Run(context.Background(), h, nil); err == nil {
			t.Errorf("Run(%s): got %#v, want error", script, got)
		}
	}
}

func TestRunAll(t *testing.T) {
	exe, err := os.Executable()
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv(helperVar, "echo")
	var hooks []prebuild.Hook
	for _, m := range []string{"user/a", "user/b", "user/c"} {
		hooks = append(hooks, prebuild.Hook{Module: m, Dir: t.TempDir(), Script: exe, OutDir: "/out/" + m})
	}
	got, err := prebuild.RunAll(context.Background(), hooks, map[string]string{"INPUT": "all"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(hooks) {
		t.Fatalf("RunAll: got %d outputs, want %d", len(got), len(hooks))
	}
	for _, h := range hooks {
		out := got[h.Module]
		if out == nil {
			t.Errorf("no output for module %s", h.Module)
			continue
		}
		if g, w := out.Vars["OUT"], h.OutDir; g != w {
			t.Errorf("module %s: got OUT = %q, want %q", h.Module, g, w)
		}
		if g, w := out.Vars["INPUT"], "all"; g != w {
			t.Errorf("module %s: got INPUT = %q, want %q", h.Module, g, w)
		}
	}
}

func TestRunAllDuplicate(t *testing.T) {
	h := helperHook(t, "user/mod", "echo")
	if got, err := prebuild.RunAll(context.Background(), []prebuild.Hook{h, h}, nil); err == nil {
		t.Errorf("RunAll: got %v, want error", got)
	}
}

func TestRunAllFailure(t *testing.T) {
	h := helperHook(t, "user/mod", "fail")
	if got, err := prebuild.RunAll(context.Background(), []prebuild.Hook{h}, nil); err == nil {
		t.Errorf("RunAll: got %v, want error", got)
	}
}

func TestLoadHook(t *testing.T) {
	dir, cleanup := testtools.CreateFiles(t, []testtools.FileSpec{
		{
			Path:    "hook/moon.mod.json",
			Content: `{"name": "username/hello", "--moonbit-unstable-prebuild": "build.py"}`,
		},
		{
			Path:    "plain/moon.mod.json",
			Content: `{"name": "username/plain"}`,
		},
		{
			Path:    "unnamed/moon.mod.json",
			Content: `{"--moonbit-unstable-prebuild": "build.py"}`,
		},
		{
			Path:    "broken/moon.mod.json",
			Content: `{"name": `,
		},
	})
	t.Cleanup(cleanup)

	hookDir := filepath.Join(dir, "hook")
	got, err := prebuild.LoadHook(hookDir)
	if err != nil {
		t.Fatal(err)
	}
	want := &prebuild.Hook{Module: "username/hello", Dir: hookDir, Script: "build.py"}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Error("-got +want:\n", diff)
	}

	if got, err := prebuild.LoadHook(filepath.Join(dir, "plain")); err != nil || got != nil {
		t.Errorf("LoadHook(plain) = %v, %v; want nil, nil", got, err)
	}
	for _, sub := range []string{"unnamed", "broken", "missing"} {
		if got, err := prebuild.LoadHook(filepath.Join(dir, sub)); err == nil {
			t.Errorf("LoadHook(%s) = %v, want error", sub, got)
		}
	}
}

func TestCurrentEnv(t *testing.T) {
	t.Setenv("PREBUILD_TEST_VALUE", "a=b")
	env := prebuild.CurrentEnv()
	if got, want := env["PREBUILD_TEST_VALUE"], "a=b"; got != want {
		t.Errorf("CurrentEnv: got %q, want %q", got, want)
	}
}
