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

// Package indentheuristic moves changes in unified output to positions that are easier to read
// for humans. It implements the indentation heuristic by Michael Haggerty
// (https://github.com/mhagger/diff-slider-tools).
//
// The matching blocks of a comparison are often not the only valid alignment. A group of
// deleted lines that is followed by a line equal to its first line can be shifted down by one
// (and the other way around for a group preceded by a line equal to its last one). The same is
// true for inserted lines. The heuristic uses that freedom in this order:
//
//  1. Slide every group as far as possible and merge it with the groups it touches.
//  2. If a deletion group can be aligned with an insertion group in the other input, align
//     them so that the change reads as a replacement.
//  3. Otherwise, place the group boundaries at the lines that score best based on the
//     indentation and blank lines around them.
//
// The weights used in (3) were tuned on human rated diffs.
package indentheuristic

import (
	"cmp"

	"znkr.io/bdiff/internal/byteview"
	"znkr.io/bdiff/internal/lines"
)

// Never move a group more than this many lines.
const maxSliding = 100

// Indentation is clamped at maxIndent, anything deeper is not human readable text anyway.
const maxIndent = 200

// Don't look at more than this many consecutive blank lines.
const maxBlanks = 20

const (
	startOfFilePenalty              = 1   // No non-blank lines before the split
	endOfFilePenalty                = 21  // No non-blank lines after the split
	totalBlankWeight                = -30 // Weight for number of blank lines around the split
	postBlankWeight                 = 6   // Weight for number of blank lines after the split
	relativeIndentPenalty           = -4  // Indented more than predecessor
	relativeIndentWithBlankPenalty  = 10  // Indented more than predecessor, with blank lines
	relativeOutdentPenalty          = 24  // Indented less than predecessor
	relativeOutdentWithBlankPenalty = 17  // Indented less than predecessor, with blank lines
	relativeDentPenalty             = 23  // Indented less than predecessor but not less than successor
	relativeDentWithBlankPenalty    = 17  // Same as above, with blank lines
)

// Only the sign of the difference between the effective indents of two splits matters. It's
// multiplied by this weight and combined with the penalties to rank the splits.
const indentWeight = 60

// Apply moves the changes described by the result vectors rx and ry. The lines must be split
// from xv and yv using [lines.Split] and the result vectors sized as returned by
// [rvecs.FromBlocks].
//
// Apply only moves changes along lines with equal content, the result describes the same edit.
func Apply(xv, yv byteview.ByteView, x, y []lines.Line, rx, ry []bool) {
	tx, ty := text{xv, x[:len(x)-1]}, text{yv, y[:len(y)-1]}
	slide(tx, ty, rx, ry) // deletions
	slide(ty, tx, ry, rx) // insertions
}

// text is a sequence of lines that can be compared and measured.
type text struct {
	v     byteview.ByteView
	lines []lines.Line
}

func (t text) len() int { return len(t.lines) }

func (t text) line(i int) byteview.ByteView {
	l := t.lines[i]
	return t.v.Slice(l.Pos, l.Pos+l.Len)
}

func (t text) equal(i, j int) bool {
	li, lj := t.lines[i], t.lines[j]
	return li.Hash == lj.Hash && li.Len == lj.Len && t.line(i).Equal(t.line(j))
}

// indent returns the indentation width of line i with tabs expanded to multiples of 8, or -1
// if the line is blank.
func (t text) indent(i int) int {
	line := t.line(i)
	indent := 0
	for k := range line.Len() {
		switch line.At(k) {
		case ' ':
			indent++
		case '\t':
			indent += 8 - indent%8
		case '\n', '\v', '\r':
		default:
			return indent
		}
		if indent >= maxIndent {
			return maxIndent
		}
	}
	return -1
}

// slide moves the change groups in r. The groups of the other input in ro are kept in sync, so
// that group i in r is always adjacent to group i in ro.
func slide(t, to text, r, ro []bool) {
	g, gg := newGroups(t, r), newGroups(to, ro)
	for g.next() {
		if !gg.next() {
			panic("groups out of sync")
		}
		if g.len() == 0 {
			continue
		}

		aligned := -1   // End of the group when it's adjacent to a group in the other input.
		lowest := g.end // Smallest end the group can be moved to.
		n := 0
		for n != g.len() {
			n = g.len()
			aligned = -1

			for g.up() {
				if !gg.prev() {
					panic("groups out of sync")
				}
			}
			lowest = g.end
			if gg.len() > 0 {
				aligned = g.end
			}

			for g.down() {
				if !gg.next() {
					panic("groups out of sync")
				}
				if gg.len() > 0 {
					aligned = g.end
				}
			}
		}

		switch {
		case lowest == g.end:
			// Can't be moved.
		case aligned != -1:
			for gg.len() == 0 {
				if !g.up() {
					panic("aligned group disappeared")
				}
				if !gg.prev() {
					panic("groups out of sync")
				}
			}
		default:
			// The group is at its highest end, only shifts up need to be scored.
			best := -1
			var bestScore score
			for end := max(lowest, g.end-n-1, g.end-maxSliding); end <= g.end; end++ {
				var s score
				s.add(measureSplit(t, end))
				s.add(measureSplit(t, end-n))
				if best == -1 || s.cmp(bestScore) <= 0 {
					best = end
					bestScore = s
				}
			}
			for g.end > best {
				if !g.up() {
					panic("best split not reachable")
				}
				if !gg.prev() {
					panic("groups out of sync")
				}
			}
		}
	}
	if gg.next() {
		panic("groups out of sync")
	}
}

// groups iterates over the (possibly empty) groups of changed lines in r. There is an empty
// group between two adjacent unchanged lines.
type groups struct {
	start, end int // Current group is [start, end), start == end for an empty group.
	t          text
	r          []bool
}

func newGroups(t text, r []bool) *groups {
	return &groups{start: -1, end: -1, t: t, r: r}
}

func (g *groups) len() int { return g.end - g.start }

func (g *groups) next() bool {
	if g.end == len(g.r)-1 {
		return false
	}
	g.start, g.end = g.end+1, g.end+1
	for g.end < len(g.r)-1 && g.r[g.end] {
		g.end++
	}
	return true
}

func (g *groups) prev() bool {
	if g.start == 0 {
		return false
	}
	g.start, g.end = g.start-1, g.start-1
	for g.start > 0 && g.r[g.start-1] {
		g.start--
	}
	return true
}

// down moves the group one line down and merges it with a group it touches afterwards.
func (g *groups) down() bool {
	if g.end >= len(g.r)-1 || !g.t.equal(g.start, g.end) {
		return false
	}
	g.r[g.start], g.r[g.end] = false, true
	g.start++
	g.end++
	for g.end < len(g.r)-1 && g.r[g.end] {
		g.end++
	}
	return true
}

// up moves the group one line up and merges it with a group it touches afterwards.
func (g *groups) up() bool {
	if g.start == 0 || !g.t.equal(g.start-1, g.end-1) {
		return false
	}
	g.r[g.start-1], g.r[g.end-1] = true, false
	g.start--
	g.end--
	for g.start > 0 && g.r[g.start-1] {
		g.start--
	}
	return true
}

// measure describes the surroundings of a split, the position between two lines.
type measure struct {
	endOfFile  bool
	indent     int // Indent of the line after the split or -1 if it's blank.
	preBlank   int // Blank lines before the split.
	preIndent  int // Indent of the first non-blank line before the split or -1.
	postBlank  int // Blank lines after the line after the split.
	postIndent int // Indent of the first non-blank line after that or -1.
}

func measureSplit(t text, split int) measure {
	m := measure{indent: -1, preIndent: -1, postIndent: -1}
	if split >= t.len() {
		m.endOfFile = true
	} else {
		m.indent = t.indent(split)
	}

	for i := split - 1; i >= 0; i-- {
		if m.preIndent = t.indent(i); m.preIndent != -1 {
			break
		}
		m.preBlank++
		if m.preBlank == maxBlanks {
			m.preIndent = 0
			break
		}
	}

	for i := split + 1; i < t.len(); i++ {
		if m.postIndent = t.indent(i); m.postIndent != -1 {
			break
		}
		m.postBlank++
		if m.postBlank == maxBlanks {
			m.postIndent = 0
			break
		}
	}
	return m
}

type score struct {
	effectiveIndent int // smaller is better
	penalty         int // smaller is better
}

func (s *score) add(m measure) {
	if m.preIndent == -1 && m.preBlank == 0 {
		s.penalty += startOfFilePenalty
	}
	if m.endOfFile {
		s.penalty += endOfFilePenalty
	}

	postBlank := 0
	if m.indent == -1 {
		postBlank = 1 + m.postBlank
	}
	totalBlank := m.preBlank + postBlank

	s.penalty += totalBlankWeight * totalBlank
	s.penalty += postBlankWeight * postBlank

	indent := m.indent
	if indent == -1 {
		indent = m.postIndent
	}
	s.effectiveIndent += indent

	switch {
	case indent == -1 || m.preIndent == -1:
	case indent > m.preIndent:
		if totalBlank != 0 {
			s.penalty += relativeIndentWithBlankPenalty
		} else {
			s.penalty += relativeIndentPenalty
		}
	case indent == m.preIndent:
	case m.postIndent != -1 && m.postIndent > indent:
		// Outdented, but the next line is indented again: likely the start of a new block.
		if totalBlank != 0 {
			s.penalty += relativeOutdentWithBlankPenalty
		} else {
			s.penalty += relativeOutdentPenalty
		}
	default:
		// Outdented, likely the end of the previous block.
		if totalBlank != 0 {
			s.penalty += relativeDentWithBlankPenalty
		} else {
			s.penalty += relativeDentPenalty
		}
	}
}

func (s score) cmp(t score) int {
	return indentWeight*cmp.Compare(s.effectiveIndent, t.effectiveIndent) + s.penalty - t.penalty
}
