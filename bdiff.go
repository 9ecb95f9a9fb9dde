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

import (
	"fmt"
	"math"

	"znkr.io/bdiff/internal/byteview"
	"znkr.io/bdiff/internal/config"
	"znkr.io/bdiff/internal/lines"
	"znkr.io/bdiff/internal/match"
)

// Block describes a run of matching lines: the lines x[PosX:EndX] are byte for byte identical to
// the lines y[PosY:EndY].
type Block struct {
	PosX, EndX int // Start and end line in x.
	PosY, EndY int // Start and end line in y.
}

// Blocks compares the lines in x and y and returns the runs of lines they have in common.
//
// The blocks are returned in increasing order and don't overlap, neither in x nor in y. The
// lines between two consecutive blocks (and before the first and after the last) are the lines
// that differ between x and y. If x and y are identical, the output is a single block covering
// all lines. If x and y are both empty, the output has length zero.
//
// The following option is supported: [bdiff.MaxSize]
//
// Important: The output is deterministic, but it's not guaranteed to be minimal.
func Blocks[T string | []byte](x, y T, opts ...Option) ([]Block, error) {
	cfg := config.FromOptions(opts, config.MaxSize)
	xv, yv := byteview.From(x), byteview.From(y)
	if err := checkSize(limit(cfg, math.MaxInt), xv, yv); err != nil {
		return nil, err
	}

	blocks := compare(xv, yv).blocks
	blocks = blocks[:len(blocks)-1] // drop sentinel
	if len(blocks) == 0 {
		return nil, nil
	}
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = Block(b)
	}
	return out, nil
}

// Diff compares the lines in x and y and returns a binary patch that transforms x into y.
//
// The patch is a sequence of records, one for each run of lines that differ between x and y:
//
//	start:  uint32, big-endian  byte offset of the first replaced byte in x
//	end:    uint32, big-endian  byte offset after the last replaced byte in x
//	length: uint32, big-endian  number of replacement bytes
//	data:   [length]byte        replacement bytes from y
//
// Records are ordered by start offset and don't overlap. If x and y are identical, the patch is
// empty. Use [znkr.io/bdiff/patch.Apply] to apply a patch.
//
// The following option is supported: [bdiff.MaxSize]
//
// Diff returns [ErrTooLarge] if an input is larger than 4 GiB.
//
// [znkr.io/bdiff/patch.Apply]: https://pkg.go.dev/znkr.io/bdiff/patch#Apply
func Diff[T string | []byte](x, y T, opts ...Option) ([]byte, error) {
	return AppendDiff(nil, x, y, opts...)
}

// AppendDiff is like [Diff] but appends the patch to dst and returns the extended buffer. The
// buffer is grown at most once.
//
// If an error occurs, AppendDiff returns nil and the error.
func AppendDiff[T string | []byte](dst []byte, x, y T, opts ...Option) ([]byte, error) {
	cfg := config.FromOptions(opts, config.MaxSize)
	xv, yv := byteview.From(x), byteview.From(y)
	if err := checkSize(limit(cfg, math.MaxUint32), xv, yv); err != nil {
		return nil, err
	}
	return compare(xv, yv).encode(dst), nil
}

// comparison holds the state of a single comparison of x and y.
type comparison struct {
	xv, yv byteview.ByteView
	x, y   []lines.Line
	blocks []match.Block // Sentinel terminated.
}

func compare(xv, yv byteview.ByteView) *comparison {
	c := &comparison{
		xv: xv,
		yv: yv,
		x:  lines.Split(xv),
		y:  lines.Split(yv),
	}
	c.blocks = match.Diff(c.x, c.y, xv, yv)
	return c
}

// limit returns the effective size limit for inputs given the hard limit of a function.
func limit(cfg config.Config, hard uint64) uint64 {
	if cfg.MaxSize > 0 && uint64(cfg.MaxSize) < hard {
		return uint64(cfg.MaxSize)
	}
	return hard
}

func checkSize(limit uint64, views ...byteview.ByteView) error {
	for _, v := range views {
		if uint64(v.Len()) > limit {
			return fmt.Errorf("%w: %d bytes exceeds the limit of %d bytes", ErrTooLarge, v.Len(), limit)
		}
	}
	return nil
}
