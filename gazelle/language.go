// Copyright 2021, 2022, 2023, 2024, 2025, 2026 Google LLC
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

// Package gazelle implements Gazelle support for MoonBit prebuild
// configuration hooks.  It generates and maintains moonbit_prebuild_config
// rules from the phst_rules_moonbit repository for modules whose
// moon.mod.json declares a hook.  See
// https://github.com/bazelbuild/bazel-gazelle/blob/master/extend.md.
package gazelle

import (
	"flag"
	"log"
	"strconv"

	"github.com/bazelbuild/bazel-gazelle/config"
	"github.com/bazelbuild/bazel-gazelle/label"
	"github.com/bazelbuild/bazel-gazelle/language"
	"github.com/bazelbuild/bazel-gazelle/repo"
	"github.com/bazelbuild/bazel-gazelle/resolve"
	"github.com/bazelbuild/bazel-gazelle/rule"
)

// NewLanguage returns a Gazelle language object for MoonBit prebuild hooks.
func NewLanguage() language.Language {
	return moonbit{}
}

const languageName = "moonbit"

type moonbit struct{}

// RegisterFlags implements [config.Configurer.RegisterFlags].  It does
// nothing.
func (moonbit) RegisterFlags(fs *flag.FlagSet, cmd string, c *config.Config) {}

// CheckFlags implements [config.Configurer.CheckFlags].  It does nothing.
func (moonbit) CheckFlags(fs *flag.FlagSet, c *config.Config) error { return nil }

// KnownDirectives implements [config.Configurer.KnownDirectives].  The only
// directive is “# gazelle:moonbit_prebuild BOOL”, which turns rule generation
// on or off for a directory and its subdirectories.
func (moonbit) KnownDirectives() []string { return []string{prebuildDirective} }

// Configure implements [config.Configurer.Configure].
func (moonbit) Configure(c *config.Config, rel string, f *rule.File) {
	ext := initExtension(c)
	if f == nil {
		return
	}
	for _, d := range f.Directives {
		if d.Key != prebuildDirective {
			continue
		}
		b, err := strconv.ParseBool(d.Value)
		if err != nil {
			log.Printf("%s: invalid value for directive %s: %s", f.Path, d.Key, err)
			continue
		}
		ext.generate = b
	}
}

// Name implements [resolve.Resolver.Name].
func (moonbit) Name() string { return languageName }

// Imports implements [resolve.Resolver.Imports].  Prebuild rules don’t provide
// anything that other rules import.
func (moonbit) Imports(c *config.Config, r *rule.Rule, f *rule.File) []resolve.ImportSpec {
	return nil
}

// Embeds implements [resolve.Resolver.Embeds].  It returns nil.
func (moonbit) Embeds(r *rule.Rule, from label.Label) []label.Label { return nil }

// Resolve implements [resolve.Resolver.Resolve].  Prebuild rules have no
// dependencies, so it does nothing.
func (moonbit) Resolve(
	c *config.Config, ix *resolve.RuleIndex, rc *repo.RemoteCache,
	r *rule.Rule, imports any, from label.Label,
) {
}

// Kinds implements [language.Language.Kinds].
func (moonbit) Kinds() map[string]rule.KindInfo {
	return map[string]rule.KindInfo{
		prebuildKind: {
			NonEmptyAttrs: map[string]bool{
				"src":    true,
				"module": true,
			},
			MergeableAttrs: map[string]bool{
				"src":    true,
				"module": true,
			},
		},
	}
}

// Loads implements [language.Language.Loads].
func (moonbit) Loads() []rule.LoadInfo {
	return []rule.LoadInfo{{
		Name:    "@phst_rules_moonbit//moonbit:defs.bzl",
		Symbols: []string{prebuildKind},
	}}
}

// Fix implements [language.Language.Fix].  It does nothing.
func (moonbit) Fix(c *config.Config, f *rule.File) {}

const (
	prebuildKind      = "moonbit_prebuild_config"
	prebuildName      = "prebuild_config"
	prebuildDirective = "moonbit_prebuild"
)
