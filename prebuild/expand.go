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
	"fmt"
	"regexp"
)

var varPattern = regexp.MustCompile(`\$\{build\.([a-zA-Z0-9_]+)\}`)

// ExpandVars replaces each ${build.NAME} placeholder in s with vars[NAME].
// It fails if s refers to a variable that isn’t in vars.
func ExpandVars(s string, vars map[string]string) (string, error) {
	var err error
	r := varPattern.ReplaceAllStringFunc(s, func(m string) string {
		name := varPattern.FindStringSubmatch(m)[1]
		v, ok := vars[name]
		if !ok && err == nil {
			err = fmt.Errorf("unknown build variable %s", name)
		}
		return v
	})
	if err != nil {
		return "", err
	}
	return r, nil
}

// NativeConfig holds the native compiler and linker settings of a package,
// as found in the link.native section of moon.pkg.json.
type NativeConfig struct {
	CC              string `json:"cc,omitempty"`
	CCFlags         string `json:"cc-flags,omitempty"`
	CCLinkFlags     string `json:"cc-link-flags,omitempty"`
	StubCC          string `json:"stub-cc,omitempty"`
	StubCCFlags     string `json:"stub-cc-flags,omitempty"`
	StubCCLinkFlags string `json:"stub-cc-link-flags,omitempty"`
}

// Expand calls [ExpandVars] on every field of c.  On error, c is left
// partially expanded.
func (c *NativeConfig) Expand(vars map[string]string) error {
	for _, f := range []struct {
		name string
		ptr  *string
	}{
		{"cc", &c.CC},
		{"cc-flags", &c.CCFlags},
		{"cc-link-flags", &c.CCLinkFlags},
		{"stub-cc", &c.StubCC},
		{"stub-cc-flags", &c.StubCCFlags},
		{"stub-cc-link-flags", &c.StubCCLinkFlags},
	} {
		s, err := ExpandVars(*f.ptr, vars)
		if err != nil {
			return fmt.Errorf("when replacing %s: %w", f.name, err)
		}
		*f.ptr = s
	}
	return nil
}
