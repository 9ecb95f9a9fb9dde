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

// bdiff compares two files line by line and prints the result as matching blocks, as a binary
// patch, as decoded patch records, or as a unified diff.
//
// The exit code is 0 if the files are identical, 1 if they differ, and 2 on errors.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang/glog"
	"znkr.io/bdiff"
	"znkr.io/bdiff/patch"
	"znkr.io/bdiff/textdiff"
)

// errFlagParse indicates that flag parsing failed. The flag package already printed the error.
var errFlagParse = errors.New("flag parse error")

func main() {
	code, err := run(os.Args, os.Stdout, os.Stderr)
	if err != nil && err != errFlagParse {
		fmt.Fprintf(os.Stderr, "bdiff: %v\n", err)
	}
	glog.Flush()
	os.Exit(code)
}

type options struct {
	mode    string
	context int
	maxSize int
	color   bool
	indent  bool
}

func run(args []string, w io.Writer, wErr io.Writer) (int, error) {
	var opts options
	flags := flag.NewFlagSet("bdiff", flag.ContinueOnError)
	flags.SetOutput(wErr)
	// glog registers its flags (-v, -logtostderr, ...) on the default flag set.
	flag.CommandLine.VisitAll(func(f *flag.Flag) {
		flags.Var(f.Value, f.Name, f.Usage)
	})
	flags.StringVar(&opts.mode, "mode", "unified", "output mode: blocks, patch, records, or unified")
	flags.IntVar(&opts.context, "U", 3, "output NUM lines of unified context")
	flags.IntVar(&opts.maxSize, "max-size", 0, "reject files larger than NUM bytes (0 means no limit)")
	flags.BoolVar(&opts.color, "color", false, "color unified output")
	flags.BoolVar(&opts.indent, "indent-heuristic", false, "move changes in unified output to indentation boundaries")
	flags.Usage = func() {
		fmt.Fprintln(wErr, "bdiff compares two files line by line")
		fmt.Fprintln(wErr, "")
		fmt.Fprintln(wErr, "usage: bdiff [-mode blocks|patch|records|unified] [-U NUM] [-max-size NUM] [-color] [-indent-heuristic] file1 file2")
		fmt.Fprintln(wErr, "")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return 0, nil
		}
		return 2, errFlagParse
	}
	if flags.NArg() != 2 {
		flags.Usage()
		return 2, nil
	}
	switch opts.mode {
	case "blocks", "patch", "records", "unified":
	default:
		return 2, fmt.Errorf("unknown mode %q", opts.mode)
	}

	hasDiff, err := files(w, flags.Arg(0), flags.Arg(1), opts)
	if err != nil {
		return 2, err
	}
	if hasDiff {
		return 1, nil
	}
	return 0, nil
}

func files(w io.Writer, oldFile, newFile string, opts options) (bool, error) {
	x, err := os.ReadFile(oldFile)
	if err != nil {
		return false, err
	}
	y, err := os.ReadFile(newFile)
	if err != nil {
		return false, err
	}

	start := time.Now()
	p, err := bdiff.Diff(x, y, bdiff.MaxSize(opts.maxSize))
	if err != nil {
		return false, err
	}
	glog.V(1).Infof("compared %s (%d bytes) and %s (%d bytes) in %v, patch has %d bytes", oldFile, len(x), newFile, len(y), time.Since(start), len(p))
	hasDiff := len(p) > 0

	switch opts.mode {
	case "blocks":
		blocks, err := bdiff.Blocks(x, y, bdiff.MaxSize(opts.maxSize))
		if err != nil {
			return false, err
		}
		for _, b := range blocks {
			if _, err := fmt.Fprintf(w, "%d %d %d %d\n", b.PosX, b.EndX, b.PosY, b.EndY); err != nil {
				return false, err
			}
		}
	case "patch":
		if _, err := w.Write(p); err != nil {
			return false, err
		}
	case "records":
		frags, err := patch.Parse(p)
		if err != nil {
			return false, fmt.Errorf("internal error: %w", err)
		}
		for _, f := range frags {
			if _, err := fmt.Fprintf(w, "%d %d %d %q\n", f.Start, f.End, len(f.Data), f.Data); err != nil {
				return false, err
			}
		}
	case "unified":
		if !hasDiff {
			return false, nil
		}
		var uopts []bdiff.Option
		uopts = append(uopts, bdiff.Context(opts.context))
		if opts.color {
			uopts = append(uopts, textdiff.TerminalColors())
		}
		if opts.indent {
			uopts = append(uopts, textdiff.IndentHeuristic())
		}
		if _, err := fmt.Fprintf(w, "--- %s\n+++ %s\n", oldFile, newFile); err != nil {
			return false, err
		}
		if _, err := w.Write(textdiff.UnifiedBytes(x, y, uopts...)); err != nil {
			return false, err
		}
	default:
		panic("never reached")
	}
	return hasDiff, nil
}
