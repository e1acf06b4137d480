// Copyright 2021-2026 Google LLC
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

// Helper binary to convert the output of a prebuild configuration hook into
// a Starlark file that repository rules can load.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"

	"github.com/bazelbuild/buildtools/build"

	"github.com/phst/rules_moonbit/prebuild"
)

func main() {
	flag.Usage = usage
	symbol := flag.String("symbol", "PREBUILD_CONFIG", "name of the global variable to define")
	flag.Parse()
	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}
	input := flag.Arg(0)
	output := flag.Arg(1)
	in, err := os.Open(input)
	if err != nil {
		log.Fatal(err)
	}
	defer in.Close()
	b, err := convert(in, *symbol)
	if err != nil {
		log.Fatalf("%s: %s", input, err)
	}
	file, err := os.OpenFile(output, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0400)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()
	if _, err := file.Write(b); err != nil {
		log.Fatal(err)
	}
	if err := file.Sync(); err != nil {
		log.Fatal(err)
	}
	if err := file.Close(); err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: prebuild2bzl [-symbol NAME] INPUT OUTPUT")
	flag.PrintDefaults()
}

// convert reads hook output from r and returns the formatted Starlark file.
func convert(r io.Reader, symbol string) ([]byte, error) {
	if !identPattern.MatchString(symbol) {
		return nil, fmt.Errorf("invalid Starlark identifier %q", symbol)
	}
	o, err := prebuild.Decode(r)
	if err != nil {
		return nil, err
	}
	return build.Format(prebuild.Starlark(symbol, o)), nil
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
