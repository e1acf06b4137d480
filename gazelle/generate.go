// Copyright 2021-2026 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gazelle

import (
	"log"
	"os"
	"path"
	"slices"

	"github.com/bazelbuild/bazel-gazelle/language"
	"github.com/bazelbuild/bazel-gazelle/rule"

	"github.com/phst/rules_moonbit/prebuild"
)

// GenerateRules implements [language.Language.GenerateRules].  If the
// directory is a module root whose manifest declares a prebuild hook, it
// generates a single moonbit_prebuild_config rule for the hook.  If the
// manifest declares no hook, it marks an existing rule of that name as empty
// so that Gazelle removes it.
func (moonbit) GenerateRules(args language.GenerateArgs) language.GenerateResult {
	var res language.GenerateResult
	if ext := getExtension(args.Config); ext != nil && !ext.generate {
		return res
	}
	if !slices.Contains(args.RegularFiles, prebuild.ModuleFile) {
		return res
	}
	m, err := prebuild.ReadModule(os.DirFS(args.Dir))
	if err != nil {
		// Don’t touch existing rules if we can’t read the manifest.
		log.Printf("%s: %s", path.Join(args.Rel, prebuild.ModuleFile), err)
		return res
	}
	if m.Prebuild == "" {
		res.Empty = append(res.Empty, rule.NewRule(prebuildKind, prebuildName))
		return res
	}
	r := rule.NewRule(prebuildKind, prebuildName)
	r.SetAttr("src", m.Prebuild)
	r.SetAttr("module", m.Name)
	res.Gen = append(res.Gen, r)
	res.Imports = append(res.Imports, nil)
	return res
}
