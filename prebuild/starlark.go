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
	"slices"

	"github.com/bazelbuild/buildtools/build"
)

// Starlark returns a Starlark file that assigns o to the global variable
// symbol.  The value is a dictionary with the same structure as the JSON
// encoding of o, so that Bazel repository rules can load hook output.  Use
// [build.Format] to render the file.
func Starlark(symbol string, o *Output) *build.File {
	entries := []*build.KeyValueExpr{
		entry("vars", stringDict(o.Vars)),
		entry("link_configs", linkConfigs(o.LinkConfigs)),
	}
	if len(o.RerunIf) > 0 {
		entries = append(entries, entry("rerun_if", rerunIf(o.RerunIf)))
	}
	return &build.File{
		Type: build.TypeBzl,
		Stmt: []build.Expr{
			&build.AssignExpr{
				LHS: &build.Ident{Name: symbol},
				Op:  "=",
				RHS: &build.DictExpr{List: entries, ForceMultiLine: true},
			},
		},
	}
}

func linkConfigs(cs []LinkConfig) *build.ListExpr {
	l := &build.ListExpr{List: []build.Expr{}, ForceMultiLine: len(cs) > 0}
	for _, c := range cs {
		l.List = append(l.List, &build.DictExpr{
			List: []*build.KeyValueExpr{
				entry("package", str(c.Package)),
				entry("link_flags", str(c.LinkFlags)),
				entry("link_libs", stringList(c.LinkLibs)),
				entry("link_search_paths", stringList(c.LinkSearchPaths)),
			},
			ForceMultiLine: true,
		})
	}
	return l
}

func rerunIf(rs []RerunIf) *build.ListExpr {
	l := &build.ListExpr{List: []build.Expr{}, ForceMultiLine: true}
	for _, r := range rs {
		var k, v string
		switch {
		case r.File != "":
			k, v = "File", r.File
		case r.Dir != "":
			k, v = "Dir", r.Dir
		default:
			k, v = "Env", r.Env
		}
		l.List = append(l.List, &build.DictExpr{List: []*build.KeyValueExpr{entry(k, str(v))}})
	}
	return l
}

func stringDict(m map[string]string) *build.DictExpr {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys) // deterministic output
	d := &build.DictExpr{List: []*build.KeyValueExpr{}}
	for _, k := range keys {
		d.List = append(d.List, entry(k, str(m[k])))
	}
	return d
}

func stringList(ss []string) *build.ListExpr {
	l := &build.ListExpr{List: []build.Expr{}}
	for _, s := range ss {
		l.List = append(l.List, str(s))
	}
	return l
}

func entry(key string, value build.Expr) *build.KeyValueExpr {
	return &build.KeyValueExpr{Key: str(key), Value: value}
}

func str(s string) *build.StringExpr {
	return &build.StringExpr{Value: s}
}
