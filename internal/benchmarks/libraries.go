package benchmarks

import (
	"bytes"
	"strings"

	"github.com/aymanbagabas/go-udiff"
	godebug "github.com/kylelemons/godebug/diff"
	mb0 "github.com/mb0/diff"
	gointernal "github.com/rogpeppe/go-internal/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
	"znkr.io/bdiff"
	"znkr.io/bdiff/textdiff"
)

// Impl is a line diff implementation that produces a unified diff or something close to it.
type Impl struct {
	Name string
	Diff func(x, y []byte) []byte
}

// Impls lists all implementations that are compared in the benchmarks.
var Impls = []Impl{
	{
		Name: "bdiff",
		Diff: func(x, y []byte) []byte {
			return textdiff.UnifiedBytes(x, y)
		},
	},
	{
		Name: "bdiff-indent",
		Diff: func(x, y []byte) []byte {
			return textdiff.UnifiedBytes(x, y, textdiff.IndentHeuristic())
		},
	},
	{
		Name: "bdiff-patch",
		Diff: func(x, y []byte) []byte {
			// The binary patch isn't a unified diff, it's listed to measure the cost of rendering
			// text compared to the plain comparison.
			p, err := bdiff.Diff(x, y)
			if err != nil {
				panic(err)
			}
			return p
		},
	},
	{Name: "go-internal", Diff: func(x, y []byte) []byte { return gointernal.Diff("x", x, "y", y) }},
	{Name: "udiff", Diff: func(x, y []byte) []byte { return []byte(udiff.Unified("x", "y", string(x), string(y))) }},
	// The remaining libraries don't create unified diffs. Their results are rendered as a single
	// hunk without header, that's close enough to be comparable.
	{Name: "diffmatchpatch", Diff: diffmatchpatchLines},
	{Name: "godebug", Diff: func(x, y []byte) []byte { return []byte(godebug.Diff(string(x), string(y))) }},
	{Name: "mb0", Diff: mb0Lines},
}

// hunk renders lines prefixed by " ", "-", or "+".
type hunk struct{ bytes.Buffer }

func (h *hunk) lines(prefix string, lines ...[]byte) {
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		h.WriteString(prefix)
		h.Write(line)
	}
}

func diffmatchpatchLines(x, y []byte) []byte {
	dmp := diffmatchpatch.New()
	rx, ry, lines := dmp.DiffLinesToRunes(string(x), string(y))
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(rx, ry, false), lines)

	prefixes := map[diffmatchpatch.Operation]string{
		diffmatchpatch.DiffEqual:  " ",
		diffmatchpatch.DiffDelete: "-",
		diffmatchpatch.DiffInsert: "+",
	}
	var h hunk
	for _, d := range diffs {
		for line := range strings.Lines(d.Text) {
			h.lines(prefixes[d.Type], []byte(line))
		}
	}
	return h.Bytes()
}

func mb0Lines(x, y []byte) []byte {
	d := lineSeqs{
		x: bytes.SplitAfter(x, []byte("\n")),
		y: bytes.SplitAfter(y, []byte("\n")),
	}
	var h hunk
	s := 0
	for _, c := range mb0.Diff(len(d.x), len(d.y), d) {
		h.lines(" ", d.x[s:c.A]...)
		h.lines("-", d.x[c.A:c.A+c.Del]...)
		h.lines("+", d.y[c.B:c.B+c.Ins]...)
		s = c.A + c.Del
	}
	h.lines(" ", d.x[s:]...)
	return h.Bytes()
}

// lineSeqs implements [mb0.Data] for two line sequences.
type lineSeqs struct {
	x, y [][]byte
}

func (d lineSeqs) Equal(i, j int) bool { return bytes.Equal(d.x[i], d.y[j]) }
