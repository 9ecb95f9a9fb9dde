package benchmarks

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
	"znkr.io/bdiff"
)

type testdata struct {
	name string
	x, y []byte
}

// loadTestdata loads the corpus of the bdiff package and adds generated inputs of various sizes.
func loadTestdata(t testing.TB) []testdata {
	t.Helper()
	testFiles, err := filepath.Glob("../../testdata/*.test")
	if err != nil {
		t.Fatalf("Failed to read testdata: %v", err)
	}
	var tests []testdata
	for _, filename := range testFiles {
		ar, err := txtar.ParseFile(filename)
		if err != nil {
			t.Fatalf("failed to parse test case: %v", err)
		}
		test := testdata{
			name: strings.TrimSuffix(filepath.Base(filename), ".test"),
		}
		for _, f := range ar.Files {
			switch f.Name {
			case "x":
				test.x = f.Data
			case "y":
				test.y = f.Data
			}
		}
		tests = append(tests, test)
	}

	for _, n := range []int{1000, 10000} {
		rng := rand.New(rand.NewChaCha8([32]byte{byte(n), byte(n >> 8)}))
		x, y := generate(rng, n)
		tests = append(tests, testdata{name: fmt.Sprintf("generated-%d", n), x: x, y: y})
	}
	return tests
}

// generate returns a text of n lines and a copy of it with about 5% of the lines changed.
func generate(rng *rand.Rand, n int) (x, y []byte) {
	var bx, by bytes.Buffer
	for i := range n {
		line := fmt.Sprintf("line %d: %d\n", i%(n/4+1), rng.IntN(100))
		bx.WriteString(line)
		switch r := rng.IntN(100); {
		case r < 2:
			// deleted
		case r < 4:
			by.WriteString(line)
			fmt.Fprintf(&by, "inserted %d\n", rng.Int())
		case r < 5:
			fmt.Fprintf(&by, "replaced %d\n", rng.Int())
		default:
			by.WriteString(line)
		}
	}
	return bx.Bytes(), by.Bytes()
}

func BenchmarkDiffs(b *testing.B) {
	for _, impl := range Impls {
		b.Run("impl="+impl.Name, func(b *testing.B) {
			for _, td := range loadTestdata(b) {
				b.Run("name="+td.name, func(b *testing.B) {
					for b.Loop() {
						_ = impl.Diff(td.x, td.y)
					}
					b.StopTimer()

					out := impl.Diff(td.x, td.y)
					edits := 0
					for _, line := range bytes.Split(out, []byte("\n")) {
						if bytes.HasPrefix(line, []byte{'+'}) || bytes.HasPrefix(line, []byte{'-'}) {
							edits++
						}
					}
					b.ReportMetric(float64(edits), "edits")
				})
			}
		})
	}
}

// BenchmarkPatchSize reports the size of the binary patch relative to the size of the new
// version.
func BenchmarkPatchSize(b *testing.B) {
	for _, td := range loadTestdata(b) {
		b.Run("name="+td.name, func(b *testing.B) {
			var p []byte
			for b.Loop() {
				p, _ = bdiff.AppendDiff(p[:0], td.x, td.y)
			}
			b.ReportMetric(float64(len(p))/float64(max(1, len(td.y))), "patch/new")
		})
	}
}
