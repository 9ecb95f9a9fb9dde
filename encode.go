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

package bdiff

import "znkr.io/bdiff/internal/byteview"

// Size of the start, end, and length fields of a patch record.
const recordHeaderLen = 12

// encode appends the binary patch for the comparison to dst.
//
// A record is emitted for every gap between two consecutive blocks. The sentinel block at the
// end makes sure that a difference at the end of the inputs is emitted as well. The size of the
// patch is computed first, so that the output is allocated at once.
func (c *comparison) encode(dst []byte) []byte {
	x, y := c.x, c.y

	size := 0
	s, t := 0, 0 // end of the previous block
	for _, b := range c.blocks {
		if b.PosX != s || b.PosY != t {
			size += recordHeaderLen + y[b.PosY].Pos - y[t].Pos
		}
		s, t = b.EndX, b.EndY
	}
	if size == 0 {
		return dst
	}

	var out byteview.Builder[[]byte]
	out.Reset(dst)
	out.Grow(size)
	s, t = 0, 0
	for _, b := range c.blocks {
		if b.PosX != s || b.PosY != t {
			out.WriteUint32(uint32(x[s].Pos))
			out.WriteUint32(uint32(x[b.PosX].Pos))
			out.WriteUint32(uint32(y[b.PosY].Pos - y[t].Pos))
			out.WriteByteView(c.yv.Slice(y[t].Pos, y[b.PosY].Pos))
		}
		s, t = b.EndX, b.EndY
	}
	return out.Build()
}
