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
	"errors"
	"fmt"

	"github.com/bazelbuild/bazel-gazelle/pathtools"
)

// PackageConfigs maps the link configurations in o to packages of module.
// packages lists the packages of the module relative to the module root; the
// root package itself is the empty string.  The keys of the returned map are
// such relative package names.  A hook may only configure packages of its own
// module.  If o contains more than one configuration for a package, the last
// one wins.
func PackageConfigs(module string, packages []string, o *Output) (map[string]LinkConfig, error) {
	if module == "" {
		return nil, errors.New("empty module name")
	}
	known := make(map[string]struct{}, len(packages))
	for _, p := range packages {
		known[p] = struct{}{}
	}
	r := make(map[string]LinkConfig)
	for _, c := range o.LinkConfigs {
		if !pathtools.HasPrefix(c.Package, module) {
			return nil, fmt.Errorf("link config package name %s does not start with module name %s, cannot apply config to an external package", c.Package, module)
		}
		rel := pathtools.TrimPrefix(c.Package, module)
		if _, ok := known[rel]; !ok {
			return nil, fmt.Errorf("link config package name %s does not match any package in module %s", c.Package, module)
		}
		r[rel] = c
	}
	return r, nil
}
