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

// Package bdiff computes line based binary deltas between two versions of a file.
//
// The main functions are [Blocks], which returns the runs of lines both inputs have in common,
// and [Diff], which encodes the differences between the inputs as a compact binary patch that
// can be applied with [znkr.io/bdiff/patch.Apply].
//
// A line is a run of bytes terminated by a newline byte, or the final unterminated run of bytes
// in an input. The content of the inputs doesn't matter otherwise, any byte sequence is valid.
//
// The algorithm recursively finds the longest run of matching lines and then does the same for
// the lines before and after that run. Lines that appear very often in large inputs (e.g. blank
// lines) are ignored when searching for the longest run. This keeps the typical running time
// close to O(N log N), but the worst case is O(N*M) where N and M are the number of lines in the
// inputs. Callers should bound the size of untrusted inputs, see [MaxSize].
//
// All functions in this package are safe for concurrent use.
//
// Note: For a line-by-line diff of text in unified format, please see [znkr.io/bdiff/textdiff].
//
// [znkr.io/bdiff/patch.Apply]: https://pkg.go.dev/znkr.io/bdiff/patch#Apply
// [znkr.io/bdiff/textdiff]: https://pkg.go.dev/znkr.io/bdiff/textdiff
package bdiff
