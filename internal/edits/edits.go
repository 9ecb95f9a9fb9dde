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

// Package edits groups the differences between matching blocks into hunks with context.
package edits

import (
	"iter"

	"znkr.io/bdiff/internal/match"
)

// Hunk describes a range of lines in x and y that contains at least one change, surrounded by
// matching context lines.
type Hunk struct {
	S0, S1 int // Start and end of the hunk in x.
	T0, T1 int // Start and end of the hunk in y.
}

// Changes returns the ranges between consecutive blocks, i.e., the lines that have to be deleted
// from x and inserted from y. The blocks must be sentinel terminated as returned by [match.Diff].
func Changes(blocks []match.Block) iter.Seq[Hunk] {
	return func(yield func(Hunk) bool) {
		s, t := 0, 0 // end of the previous block
		for _, b := range blocks {
			if b.PosX != s || b.PosY != t {
				if !yield(Hunk{s, b.PosX, t, b.PosY}) {
					return
				}
			}
			s, t = b.EndX, b.EndY
		}
	}
}

// Hunks groups all changes between the blocks into hunks with up to context matching lines
// before and after each change. Two changes are part of the same hunk if there are at most
// 2*context matching lines between them.
//
// The blocks must be sentinel terminated as returned by [match.Diff].
func Hunks(blocks []match.Block, context int) iter.Seq[Hunk] {
	return func(yield func(Hunk) bool) {
		if len(blocks) == 0 {
			return
		}
		n := blocks[len(blocks)-1].EndX

		var h Hunk
		open := false
		last := 0 // end of the previous change in x
		for c := range Changes(blocks) {
			// The lines between two changes always match, so the number of context lines is the
			// same in x and y.
			if open && c.S0-h.S1 > 2*context {
				h.S1 += context
				h.T1 += context
				if !yield(h) {
					return
				}
				open = false
			}
			if open {
				h.S1, h.T1 = c.S1, c.T1
			} else {
				k := min(context, c.S0-last)
				h = Hunk{c.S0 - k, c.S1, c.T0 - k, c.T1}
				open = true
			}
			last = c.S1
		}
		if open {
			k := min(context, n-h.S1)
			h.S1 += k
			h.T1 += k
			yield(h)
		}
	}
}
