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

// Package patch applies and composes binary patches as produced by [znkr.io/bdiff.Diff].
//
// A patch is a sequence of records. Each record replaces a range of bytes of the original with
// new data:
//
//	start:  uint32, big-endian
//	end:    uint32, big-endian
//	length: uint32, big-endian
//	data:   [length]byte
//
// Records are ordered by start and don't overlap, applying a patch is therefore a single pass
// over the original.
//
// [znkr.io/bdiff.Diff]: https://pkg.go.dev/znkr.io/bdiff#Diff
package patch

import (
	"encoding/binary"
	"fmt"
	"slices"

	"znkr.io/bdiff/internal/byteview"
)

const headerLen = 12

// Fragment replaces the bytes in the range [Start, End) of the original with Data.
//
// A fragment is an insertion if Start == End, a deletion if Data is empty, and a replacement
// otherwise.
type Fragment struct {
	Start, End int
	Data       []byte
}

// delta returns by how many bytes the fragment grows or shrinks the patched data.
func (f Fragment) delta() int { return len(f.Data) - (f.End - f.Start) }

// Parse splits a patch into its fragments. The data of the fragments aliases p.
func Parse(p []byte) ([]Fragment, error) {
	var frags []Fragment
	end := 0 // end of the previous fragment
	for i, off := 0, 0; off < len(p); i++ {
		rest := p[off:]
		if len(rest) < headerLen {
			return nil, fmt.Errorf("%w: record %d at offset %d has a %d byte header", ErrTruncated, i, off, len(rest))
		}
		start := binary.BigEndian.Uint32(rest[0:])
		stop := binary.BigEndian.Uint32(rest[4:])
		n := binary.BigEndian.Uint32(rest[8:])
		if uint64(n) > uint64(len(rest)-headerLen) {
			return nil, fmt.Errorf("%w: record %d at offset %d needs %d bytes of data, %d are left", ErrTruncated, i, off, n, len(rest)-headerLen)
		}
		if start > stop {
			return nil, fmt.Errorf("%w: record %d at offset %d starts at %d after its end %d", ErrInvalid, i, off, start, stop)
		}
		if uint64(start) < uint64(end) {
			return nil, fmt.Errorf("%w: record %d at offset %d starts at %d before the end of the previous record %d", ErrInvalid, i, off, start, end)
		}
		f := Fragment{
			Start: int(start),
			End:   int(stop),
			Data:  rest[headerLen : headerLen+int(n) : headerLen+int(n)],
		}
		frags = append(frags, f)
		end = f.End
		off += headerLen + int(n)
	}
	return frags, nil
}

// Size returns the size of the result of applying frags to an original of n bytes.
func Size(n int, frags []Fragment) int {
	for _, f := range frags {
		n += f.delta()
	}
	return n
}

// Apply applies the patch p to orig and returns the result in a new buffer. orig is not
// modified.
func Apply(orig, p []byte) ([]byte, error) {
	frags, err := Parse(p)
	if err != nil {
		return nil, err
	}
	return ApplyFragments(orig, frags)
}

// ApplyFragments applies frags to orig and returns the result in a new buffer. orig is not
// modified.
func ApplyFragments(orig []byte, frags []Fragment) ([]byte, error) {
	last := 0
	for i, f := range frags {
		if f.Start < last || f.Start > f.End {
			return nil, fmt.Errorf("%w: fragment %d [%d, %d) after end %d", ErrInvalid, i, f.Start, f.End, last)
		}
		if f.End > len(orig) {
			return nil, fmt.Errorf("%w: fragment %d [%d, %d) exceeds original of %d bytes", ErrOutOfRange, i, f.Start, f.End, len(orig))
		}
		last = f.End
	}

	out := make([]byte, 0, Size(len(orig), frags))
	last = 0
	for _, f := range frags {
		out = append(out, orig[last:f.Start]...)
		out = append(out, f.Data...)
		last = f.End
	}
	return append(out, orig[last:]...), nil
}

// Combine returns the fragments of a single patch that has the same effect as applying p
// followed by q. The fragments of q refer to the result of applying p. Neither input is
// modified, but the result shares data with both.
func Combine(p, q []Fragment) []Fragment {
	if len(p) == 0 {
		return slices.Clone(q)
	}
	if len(q) == 0 {
		return slices.Clone(p)
	}

	ps := slices.Clone(p) // fragment data is trimmed while q is processed
	out := make([]Fragment, 0, len(p)+len(q))
	offset := 0 // growth caused by the fragments of p added so far
	pos := 0    // next fragment of p
	for _, f := range q {
		// Fragments of p that end before f starts are kept as they are.
		for pos < len(ps) && ps[pos].Start+offset+len(ps[pos].Data) <= f.Start {
			offset += ps[pos].delta()
			out = append(out, ps[pos])
			pos++
		}

		// If a fragment of p overlaps the start of f, its data before f survives as an insertion.
		if pos < len(ps) && ps[pos].Start+offset < f.Start {
			cur := &ps[pos]
			n := f.Start - (cur.Start + offset)
			left := Fragment{Start: cur.Start, End: cur.Start, Data: cur.Data[:n:n]}
			cur.Data = cur.Data[n:]
			offset += left.delta()
			out = append(out, left)
		}

		// The start of f is adjusted with offset, the end with next.
		next := offset

		// Fragments of p that are completely covered by f are dropped.
		for pos < len(ps) && ps[pos].Start+next+len(ps[pos].Data) <= f.End {
			next += ps[pos].delta()
			pos++
		}

		// If a fragment of p overlaps the end of f, the data covered by f is dropped.
		if pos < len(ps) && ps[pos].Start+next < f.End {
			cur := &ps[pos]
			n := f.End - (cur.Start + next)
			cur.Data = cur.Data[n:]
			next += n
		}

		out = append(out, Fragment{
			Start: f.Start - offset,
			End:   f.End - next,
			Data:  f.Data,
		})
		offset = next
	}
	return append(out, ps[pos:]...)
}

// Fold combines a chain of patches into one. Each patch refers to the result of applying all
// patches before it.
func Fold(patches [][]Fragment) []Fragment {
	switch len(patches) {
	case 0:
		return nil
	case 1:
		return slices.Clone(patches[0])
	}
	mid := len(patches) / 2
	return Combine(Fold(patches[:mid]), Fold(patches[mid:]))
}

// Append appends the binary encoding of frags to dst and returns the extended buffer.
func Append(dst []byte, frags []Fragment) []byte {
	n := 0
	for _, f := range frags {
		n += headerLen + len(f.Data)
	}
	var b byteview.Builder[[]byte]
	b.Reset(dst)
	b.Grow(n)
	for _, f := range frags {
		b.WriteUint32(uint32(f.Start))
		b.WriteUint32(uint32(f.End))
		b.WriteUint32(uint32(len(f.Data)))
		b.Write(f.Data)
	}
	return b.Build()
}
