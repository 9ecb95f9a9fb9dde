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

package match

import (
	"znkr.io/bdiff/internal/byteview"
	"znkr.io/bdiff/internal/lines"
)

// Minimum number of lines in y before the popularity threshold kicks in. Below that, no line is
// ever considered too popular.
const popularityMinLines = 200

// bucket is an entry in the open-addressed hash table used to find equivalence classes.
type bucket struct {
	head       int // Most recently added line in y with this class or lines.None.
	population int // Number of lines in y with this class.
}

// equate assigns an equivalence class to every line in x and y and links lines in x to the
// chain of lines in y with the same content.
//
// Lines in y are chained from the last occurrence to the first, so that walking the chain
// visits y in descending order. Lines in x point to the head of the chain of their class in y,
// unless the class is so common in y that it doesn't help to discriminate between candidate
// matches. Those lines are left unlinked. This only suppresses matches, it never produces wrong
// ones.
//
// Both x and y must be sentinel terminated as returned by [lines.Split].
func equate(x, y []lines.Line, xv, yv byteview.ByteView) {
	xn, yn := len(x)-1, len(y)-1

	// Build a hash table with the next power of 2 that can hold all lines in y plus at least
	// one empty bucket to terminate probing.
	n := 1
	for n < yn+1 {
		n *= 2
	}
	mask := uint32(n - 1)
	buckets := make([]bucket, n)
	for i := range buckets {
		buckets[i].head = lines.None
	}

	// find returns the bucket of the class of l or the empty bucket where that class would go.
	find := func(v byteview.ByteView, l *lines.Line) int {
		j := l.Hash & mask
		for buckets[j].head != lines.None {
			c := &y[buckets[j].head]
			if c.Hash == l.Hash && c.Len == l.Len && yv.Slice(c.Pos, c.Pos+c.Len).Equal(v.Slice(l.Pos, l.Pos+l.Len)) {
				break
			}
			j = (j + 1) & mask
		}
		return int(j)
	}

	for i := range yn {
		l := &y[i]
		j := find(yv, l)
		l.Class = j
		l.Next = buckets[j].head
		buckets[j].head = i
		buckets[j].population++
	}

	threshold := yn + 1
	if yn >= popularityMinLines {
		threshold = yn / 100
	}

	for i := range xn {
		l := &x[i]
		j := find(xv, l)
		l.Class = j
		if buckets[j].population <= threshold {
			l.Next = buckets[j].head
		} else {
			l.Next = lines.None // too popular
		}
	}
}
