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

// Package rvecs converts matching blocks into result vectors and back. A result vector marks
// every line of an input that is not part of a match. Result vectors make it cheap to move
// changes around without having to maintain a list of blocks.
package rvecs

import "znkr.io/bdiff/internal/match"

// FromBlocks returns the result vectors for blocks. The blocks must be sentinel terminated as
// returned by [match.Diff].
//
// rx[i] is true if line i of x is deleted, ry[j] is true if line j of y is inserted. Both
// vectors have one extra element at the end that is always false.
func FromBlocks(blocks []match.Block) (rx, ry []bool) {
	last := blocks[len(blocks)-1]
	n, m := last.EndX, last.EndY

	r := make([]bool, n+m+2)
	rx = r[: n+1 : n+1]
	ry = r[n+1:]
	for i := range rx[:n] {
		rx[i] = true
	}
	for j := range ry[:m] {
		ry[j] = true
	}
	for _, b := range blocks {
		for k := range b.Len() {
			rx[b.PosX+k] = false
			ry[b.PosY+k] = false
		}
	}
	return rx, ry
}

// ToBlocks returns the maximal matching blocks described by rx and ry, terminated by a sentinel
// block.
func ToBlocks(rx, ry []bool) []match.Block {
	n, m := len(rx)-1, len(ry)-1
	var blocks []match.Block
	s, t := 0, 0
	for s < n || t < m {
		for s < n && rx[s] {
			s++
		}
		for t < m && ry[t] {
			t++
		}
		b := match.Block{PosX: s, PosY: t}
		for s < n && t < m && !rx[s] && !ry[t] {
			s++
			t++
		}
		if s == b.PosX {
			if (s < n && !rx[s]) != (t < m && !ry[t]) {
				panic("result vectors out of sync")
			}
			continue
		}
		b.EndX, b.EndY = s, t
		blocks = append(blocks, b)
	}
	return append(blocks, match.Block{PosX: n, EndX: n, PosY: m, EndY: m})
}
