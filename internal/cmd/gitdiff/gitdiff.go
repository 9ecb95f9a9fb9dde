// Copyright 2025 Florian Zenker (flo@znkr.io)
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

// gitdiff renders diffs for git using GIT_EXTERNAL_DIFF, which makes it straightforward to
// compare the output with git's own diff on a real repository:
//
//	GIT_EXTERNAL_DIFF=gitdiff git log -p
//
// The number of context lines can be set with GITDIFF_CONTEXT (default 3).
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"znkr.io/bdiff"
	"znkr.io/bdiff/textdiff"
)

func main() {
	if err := run(os.Args, os.Getenv("GITDIFF_CONTEXT"), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run handles a single GIT_EXTERNAL_DIFF invocation:
//
//	path old-file old-hex old-mode new-file new-hex new-mode
func run(args []string, context string, w io.Writer) error {
	if len(args) < 8 {
		return fmt.Errorf("expected at least 8 args, got %v: %v", len(args), args)
	}
	path, oldFile, oldHex, newFile, newHex, newMode := args[1], args[2], args[3], args[5], args[6], args[7]

	n := 3
	if context != "" {
		var err error
		n, err = strconv.Atoi(context)
		if err != nil {
			return fmt.Errorf("invalid context %q: %v", context, err)
		}
	}

	read := func(name string) ([]byte, error) {
		if name == "/dev/null" {
			return nil, nil
		}
		return os.ReadFile(name)
	}
	old, err := read(oldFile)
	if err != nil {
		return fmt.Errorf("reading old file: %v", err)
	}
	new, err := read(newFile)
	if err != nil {
		return fmt.Errorf("reading new file: %v", err)
	}

	fmt.Fprintf(w, "diff --git a/%s b/%s\n", path, path)
	fmt.Fprintf(w, "index %s..%s %s\n", abbrev(oldHex), abbrev(newHex), newMode)
	fmt.Fprintf(w, "--- a/%s\n", path)
	fmt.Fprintf(w, "+++ b/%s\n", path)
	_, err = w.Write(textdiff.UnifiedBytes(old, new, bdiff.Context(n)))
	return err
}

func abbrev(hex string) string {
	if len(hex) > 10 {
		return hex[:10]
	}
	return hex
}
