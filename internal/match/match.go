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

// Package match finds the matching blocks between two sequences of lines.
//
// The algorithm is a divide and conquer approach similar to Python's difflib: Find the longest
// run of matching lines, then recursively do the same for the lines before and after that run.
// Lines are grouped into equivalence classes using a hash table and lines that appear very often
// are excluded from the search for the longest run. That keeps the average case close to linear
// even though the worst case is O(N*M).
package match

import (
	"znkr.io/bdiff/internal/byteview"
	"znkr.io/bdiff/internal/lines"
)

// Block describes a run of matching lines: x[PosX:EndX] is equal to y[PosY:EndY].
type Block struct {
	PosX, EndX int // Start and end position in x.
	PosY, EndY int // Start and end position in y.
}

// Len returns the number of lines in the block.
func (b Block) Len() int { return b.EndX - b.PosX }

// run records the longest run of matches that ends in a given line in y.
type run struct {
	i int // Line in x where the run ends.
	k int // Length of the run.
}

type matcher struct {
	x, y []lines.Line

	// Longest known run ending at y[j], indexed by j. The table is shared between all
	// rectangles of a comparison. An entry is only used if it records a run ending in the
	// previous line of x and those entries are always rewritten when that line is scanned.
	pos []run
}

// Diff computes the matching blocks of x and y. The lines must be split from xv and yv
// respectively using [lines.Split]. Diff assigns the equivalence classes of all lines in x
// and y.
//
// The blocks are returned in increasing order and don't overlap. The last block is always a
// sentinel block (n, n, m, m) where n and m are the number of lines in x and y.
func Diff(x, y []lines.Line, xv, yv byteview.ByteView) []Block {
	n, m := len(x)-1, len(y)-1
	equate(x, y, xv, yv)

	mt := matcher{
		x:   x,
		y:   y,
		pos: make([]run, m),
	}
	for j := range mt.pos {
		mt.pos[j].i = lines.None
	}

	// We can't have more blocks than lines in the shorter input, +1 for the sentinel.
	blocks := make([]Block, 0, min(n, m)+1)

	// The recursion is unrolled into an explicit stack, the depth is only bounded by the number
	// of blocks. To emit blocks in order, a rectangle is replaced by the rectangle after its
	// longest match, the match itself, and the rectangle before its longest match (in that
	// order, it's a stack).
	type rect struct {
		s0, s1, t0, t1 int
		match          bool // The rectangle is a match that's ready to be emitted.
	}
	stack := []rect{{0, n, 0, m, false}}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if r.match {
			blocks = append(blocks, Block{r.s0, r.s1, r.t0, r.t1})
			continue
		}
		if r.s0 == r.s1 || r.t0 == r.t1 {
			continue
		}
		s, t, k := mt.longestMatch(r.s0, r.s1, r.t0, r.t1)
		if k == 0 {
			continue
		}
		stack = append(stack,
			rect{s + k, r.s1, t + k, r.t1, false},
			rect{s, s + k, t, t + k, true},
			rect{r.s0, s, r.t0, t, false},
		)
	}

	return append(blocks, Block{n, n, m, m})
}

// longestMatch finds the longest run of matching lines in x[s0:s1] and y[t0:t1]. It returns the
// start of the run in x and y and its length, which is 0 if there's no match.
//
// If there are multiple runs of the same length, the first one found while scanning x in
// ascending order and y in descending order wins.
func (m *matcher) longestMatch(s0, s1, t0, t1 int) (ms, mt, mk int) {
	x, y, pos := m.x, m.y, m.pos
	ms, mt = s0, t0
	for s := s0; s < s1; s++ {
		// Skip lines after the current rectangle. lines.None is always out of range.
		t := x[s].Next
		for t >= t1 {
			t = y[t].Next
		}

		// Loop over all lines in the rectangle matching x[s]
		for ; t >= t0; t = y[t].Next {
			// Does this extend an earlier match?
			k := 1
			if s > s0 && t > t0 && pos[t-1].i == s-1 {
				k = pos[t-1].k + 1
			}
			pos[t] = run{s, k}

			if k > mk {
				ms, mt, mk = s, t, k
			}
		}
	}

	if mk > 0 {
		ms, mt = ms-mk+1, mt-mk+1
	}

	// Expand the match to include neighboring lines that were skipped because they're too
	// popular.
	mb := 0
	for ms-mb > s0 && mt-mb > t0 && x[ms-mb-1].Class == y[mt-mb-1].Class {
		mb++
	}
	for ms+mk < s1 && mt+mk < t1 && x[ms+mk].Class == y[mt+mk].Class {
		mk++
	}

	return ms - mb, mt - mb, mk + mb
}
