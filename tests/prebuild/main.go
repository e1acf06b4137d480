// Copyright 2026 Google LLC
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

// Binary prebuild is a prebuild configuration hook for //tests:prebuild_test,
// which see.  It ignores its input and always prints the same configuration.
// The values are chosen so that they are easy to find in compiler and linker
// command lines.
package main

import (
	"log"
	"os"

	"github.com/phst/rules_moonbit/prebuild"
)

func main() {
	if err := prebuild.Encode(os.Stdout, emit()); err != nil {
		log.Fatalf("can’t write prebuild configuration: %s", err)
	}
}

func emit() *prebuild.Output {
	return &prebuild.Output{
		Vars: map[string]string{"HELLO": "------this-is-added-by-config-script------"},
		LinkConfigs: []prebuild.LinkConfig{{
			Package:         "username/hello/dep",
			LinkFlags:       "-l______this_is_added_by_config_script_______",
			LinkLibs:        []string{"mylib"},
			LinkSearchPaths: []string{"/my-search-path"},
		}},
	}
}
