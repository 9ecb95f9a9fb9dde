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

// Package textdiff renders the differences between two texts as unified diffs.
package textdiff

import (
	"fmt"

	"znkr.io/bdiff"
	"znkr.io/bdiff/internal/byteview"
	"znkr.io/bdiff/internal/config"
	"znkr.io/bdiff/internal/edits"
	"znkr.io/bdiff/internal/indentheuristic"
	"znkr.io/bdiff/internal/lines"
	"znkr.io/bdiff/internal/match"
	"znkr.io/bdiff/internal/rvecs"
	"znkr.io/bdiff/textdiff/color"
)

const (
	prefixMatch  = " "
	prefixDelete = "-"
	prefixInsert = "+"
)

const missingNewline = "\n\\ No newline at end of file\n"

// Unified compares the lines in x and y and returns the changes necessary to convert from one to
// the other in unified format. The result is empty if x and y are identical.
//
// The following options are supported: [bdiff.Context], [TerminalColors], [IndentHeuristic]
//
// Important: The output is deterministic, but it's not guaranteed to be minimal.
func Unified(x, y string, opts ...bdiff.Option) string {
	return unified(x, y, opts)
}

// UnifiedBytes compares the lines in x and y and returns the changes necessary to convert from one
// to the other in unified format. The result is empty if x and y are identical.
//
// The following options are supported: [bdiff.Context], [TerminalColors], [IndentHeuristic]
//
// Important: The output is deterministic, but it's not guaranteed to be minimal.
func UnifiedBytes(x, y []byte, opts ...bdiff.Option) []byte {
	return unified(x, y, opts)
}

func unified[T string | []byte](x, y T, opts []bdiff.Option) T {
	cfg := config.FromOptions(opts, config.Context|config.Color|config.IndentHeuristic)

	xv, yv := byteview.From(x), byteview.From(y)
	xl, yl := lines.Split(xv), lines.Split(yv)
	blocks := match.Diff(xl, yl, xv, yv)
	if cfg.IndentHeuristic {
		rx, ry := rvecs.FromBlocks(blocks)
		indentheuristic.Apply(xv, yv, xl, yl, rx, ry)
		blocks = rvecs.ToBlocks(rx, ry)
	}

	w := writer[T]{
		xv:     xv,
		yv:     yv,
		x:      xl,
		y:      yl,
		blocks: blocks,
	}
	if cfg.Color != nil {
		w.colors = *cfg.Color
	}
	for h := range edits.Hunks(blocks, cfg.Context) {
		w.hunk(h)
	}
	return w.out.Build()
}

type writer[T string | []byte] struct {
	out    byteview.Builder[T]
	xv, yv byteview.ByteView
	x, y   []lines.Line
	blocks []match.Block // Sentinel terminated.
	bi     int           // First block that might intersect the next hunk.
	colors config.ColorConfig
}

func (w *writer[T]) hunk(h edits.Hunk) {
	w.begin(w.colors.HunkHeader)
	fmt.Fprintf(&w.out, "@@ -%d,%d +%d,%d @@", start(h.S0, h.S1), h.S1-h.S0, start(h.T0, h.T1), h.T1-h.T0)
	w.end(w.colors.HunkHeader)
	w.out.WriteString("\n")

	s, t := h.S0, h.T0
	for s < h.S1 || t < h.T1 {
		for w.bi < len(w.blocks)-1 && w.blocks[w.bi].EndX <= s && w.blocks[w.bi].EndY <= t {
			w.bi++
		}
		b := w.blocks[w.bi]

		// Changes are never split between hunks, a gap before a block is always written
		// completely.
		if s < b.PosX || t < b.PosY {
			for ; s < b.PosX; s++ {
				w.line(prefixDelete, w.colors.Delete, w.xv, w.x[s])
			}
			for ; t < b.PosY; t++ {
				w.line(prefixInsert, w.colors.Insert, w.yv, w.y[t])
			}
			continue
		}
		for end := min(b.EndX, h.S1); s < end; s, t = s+1, t+1 {
			w.line(prefixMatch, w.colors.Match, w.xv, w.x[s])
		}
	}
}

// start returns the line number printed in a hunk header for the range [i, j). Line numbers are
// 1-based, an empty range is identified by the line preceding it.
func start(i, j int) int {
	if i == j {
		return i
	}
	return i + 1
}

func (w *writer[T]) line(prefix, code string, v byteview.ByteView, l lines.Line) {
	content := v.Slice(l.Pos, l.Pos+l.Len)
	eol := content.Len() > 0 && content.At(content.Len()-1) == '\n'
	if eol {
		content = content.Slice(0, content.Len()-1)
	}

	w.begin(code)
	w.out.WriteString(prefix)
	w.out.WriteByteView(content)
	w.end(code)
	if eol {
		w.out.WriteString("\n")
	} else {
		w.out.WriteString(missingNewline)
	}
}

func (w *writer[T]) begin(code string) {
	if code != "" {
		w.out.WriteString(code)
	}
}

func (w *writer[T]) end(code string) {
	if code != "" {
		w.out.WriteString(color.Reset)
	}
}
