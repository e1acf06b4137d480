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

// Package prebuild implements the protocol between the MoonBit build and
// prebuild configuration hooks.  A hook is a script declared in a module’s
// moon.mod.json.  It receives an [Environment] on standard input and writes
// an [Output] to standard output before the module is built.
package prebuild

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Output is the document a prebuild hook writes to standard output.
// Field order matters: it determines the order of keys in the encoded
// document.
type Output struct {
	// Vars are substituted for ${build.NAME} placeholders in the native
	// settings of the module’s packages.
	Vars map[string]string `json:"vars"`
	// LinkConfigs override the link settings of individual packages.
	// Entries are applied in order.
	LinkConfigs []LinkConfig `json:"link_configs"`
	// RerunIf lists conditions that should cause the hook to rerun.  The
	// build currently ignores them and always reruns the hook.
	RerunIf []RerunIf `json:"rerun_if,omitempty"`
}

// LinkConfig overrides the native link settings of a single package.
type LinkConfig struct {
	// Package is the fully-qualified package name, starting with the
	// module name.
	Package string `json:"package"`
	// LinkFlags is passed to the linker verbatim.
	LinkFlags string `json:"link_flags"`
	// LinkLibs are the libraries to link against, in link order.
	LinkLibs []string `json:"link_libs"`
	// LinkSearchPaths are added to the library search path, in order.
	LinkSearchPaths []string `json:"link_search_paths"`
}

// RerunIf is a single rerun condition.  Exactly one field is set.  The JSON
// form is an object with a single key, e.g. {"File": "src/stub.c"}.
type RerunIf struct {
	File string `json:"File,omitempty"`
	Dir  string `json:"Dir,omitempty"`
	Env  string `json:"Env,omitempty"`
}

func (r RerunIf) kinds() int {
	n := 0
	for _, s := range []string{r.File, r.Dir, r.Env} {
		if s != "" {
			n++
		}
	}
	return n
}

// Validate checks the invariants of o and returns all violations joined
// into one error.
func (o *Output) Validate() error {
	var errs []error
	for k := range o.Vars {
		if k == "" {
			errs = append(errs, errors.New("empty variable name"))
		}
	}
	for i, c := range o.LinkConfigs {
		if c.Package == "" {
			errs = append(errs, fmt.Errorf("link config #%d: empty package name", i))
		}
	}
	for i, r := range o.RerunIf {
		if n := r.kinds(); n != 1 {
			errs = append(errs, fmt.Errorf("rerun condition #%d: got %d kinds, want exactly one", i, n))
		}
	}
	return errors.Join(errs...)
}

// normalize replaces nil maps and slices with empty ones so that the encoded
// document never contains null.
func (o *Output) normalize() {
	if o.Vars == nil {
		o.Vars = make(map[string]string)
	}
	if o.LinkConfigs == nil {
		o.LinkConfigs = []LinkConfig{}
	}
	for i := range o.LinkConfigs {
		c := &o.LinkConfigs[i]
		if c.LinkLibs == nil {
			c.LinkLibs = []string{}
		}
		if c.LinkSearchPaths == nil {
			c.LinkSearchPaths = []string{}
		}
	}
}

// Encode writes o as a single JSON document followed by a newline.  It
// doesn’t modify o.
func Encode(w io.Writer, o *Output) error {
	c := *o
	c.LinkConfigs = append([]LinkConfig(nil), o.LinkConfigs...)
	c.normalize()
	enc := json.NewEncoder(w)
	// Link flags routinely contain characters such as “<” and “&”.
	enc.SetEscapeHTML(false)
	return enc.Encode(&c)
}

// Decode reads exactly one hook output document from r.  Missing lists and
// maps default to empty ones.  Decode fails if the document is malformed,
// followed by more data, or invalid according to [Output.Validate].
func Decode(r io.Reader) (*Output, error) {
	dec := json.NewDecoder(r)
	o := new(Output)
	if err := dec.Decode(o); err != nil {
		return nil, fmt.Errorf("malformed prebuild output: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("malformed prebuild output: unexpected data after JSON document")
	}
	o.normalize()
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("invalid prebuild output: %w", err)
	}
	return o, nil
}
