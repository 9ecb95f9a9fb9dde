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

// Package lines splits byte buffers into hashed line records.
package lines

import (
	"math/bits"
	"strings"

	"znkr.io/bdiff/internal/byteview"
)

// None marks the absence of a line index.
const None = -1

// Line describes a single line in an input buffer.
//
// A line is a run of bytes terminated by a newline byte, or the final unterminated run of a
// buffer. The line content is v[Pos:Pos+Len] for the view v the line was split from.
type Line struct {
	Hash uint32 // Rolling hash of the line's bytes multiplied by Len.
	Pos  int    // Byte offset of the line in the buffer.
	Len  int    // Number of bytes, including the trailing newline if present.

	// Class identifies the equivalence class of the line, it's only valid after classification.
	// Two lines have the same class iff they have byte identical content.
	Class int

	// Next is the index of the next line in y with the same class or None.
	Next int
}

// Split splits v into lines.
//
// The returned slice has one more element than there are lines in v: the last element is a
// sentinel of length zero positioned at v.Len(). This makes it possible to compute the byte
// offset of any line range [i, j) as lines[i].Pos and lines[j].Pos without special cases.
func Split(v byteview.ByteView) []Line {
	lines := make([]Line, 0, Count(v)+1) // +1 for the sentinel
	var h uint32
	start := 0
	for i := range v.Len() {
		c := v.At(i)
		h = uint32(c) + bits.RotateLeft32(h, 7)
		if c == '\n' || i == v.Len()-1 {
			length := i + 1 - start
			lines = append(lines, Line{
				Hash:  h * uint32(length),
				Pos:   start,
				Len:   length,
				Class: None,
				Next:  None,
			})
			start = i + 1
			h = 0
		}
	}
	lines = append(lines, Line{Pos: v.Len(), Class: None, Next: None})
	return lines
}

// Count returns the number of lines in v.
func Count(v byteview.ByteView) int {
	s := v.String()
	n := strings.Count(s, "\n")
	if len(s) > 0 && s[len(s)-1] != '\n' {
		n++
	}
	return n
}
