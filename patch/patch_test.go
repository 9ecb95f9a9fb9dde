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

package patch

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"znkr.io/bdiff"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		p       []byte
		want    []Fragment
		wantErr error
	}{
		{
			name: "empty",
			p:    nil,
			want: nil,
		},
		{
			name: "insert",
			p:    record(0, 0, "hello\n"),
			want: []Fragment{{0, 0, []byte("hello\n")}},
		},
		{
			name: "delete",
			p:    record(0, 6, ""),
			want: []Fragment{{0, 6, []byte{}}},
		},
		{
			name: "multiple",
			p:    append(record(0, 0, "C\nB\n"), append(record(4, 4, "A\n"), record(6, 14, "")...)...),
			want: []Fragment{
				{0, 0, []byte("C\nB\n")},
				{4, 4, []byte("A\n")},
				{6, 14, []byte{}},
			},
		},
		{
			name:    "truncated-header",
			p:       record(0, 0, "x")[:11],
			wantErr: ErrTruncated,
		},
		{
			name:    "truncated-data",
			p:       record(0, 0, "xyz")[:14],
			wantErr: ErrTruncated,
		},
		{
			name:    "start-after-end",
			p:       record(4, 2, ""),
			wantErr: ErrInvalid,
		},
		{
			name:    "overlapping",
			p:       append(record(0, 4, "a"), record(2, 6, "b")...),
			wantErr: ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.p)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(...) returned error %v, want %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(...) result is different [-want, +got]:\n%s", diff)
			}
		})
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		orig    string
		p       []byte
		want    string
		wantErr error
	}{
		{
			name: "empty",
			orig: "unchanged\n",
			want: "unchanged\n",
		},
		{
			name: "insert",
			p:    record(0, 0, "hello\n"),
			want: "hello\n",
		},
		{
			name: "replace",
			orig: "a\nb\nc\n",
			p:    record(2, 4, "x\n"),
			want: "a\nx\nc\n",
		},
		{
			name:    "out-of-range",
			orig:    "a\n",
			p:       record(0, 3, ""),
			wantErr: ErrOutOfRange,
		},
		{
			name:    "truncated",
			orig:    "a\n",
			p:       record(0, 2, "b\n")[:13],
			wantErr: ErrTruncated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply([]byte(tt.orig), tt.p)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Apply(...) returned error %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				if got != nil {
					t.Errorf("Apply(...) returned %q on error, want nil", got)
				}
				return
			}
			if diff := cmp.Diff(tt.want, string(got)); diff != "" {
				t.Errorf("Apply(...) result is different [-want, +got]:\n%s", diff)
			}
		})
	}
}

func TestApplyFragmentsInvalid(t *testing.T) {
	_, err := ApplyFragments([]byte("abcdef"), []Fragment{{2, 4, nil}, {3, 5, nil}})
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("ApplyFragments(...) returned error %v, want %v", err, ErrInvalid)
	}
}

func TestSize(t *testing.T) {
	frags := []Fragment{
		{0, 0, []byte("C\nB\n")}, // +4
		{4, 4, []byte("A\n")},    // +2
		{6, 14, nil},             // -8
	}
	if got, want := Size(14, frags), 12; got != want {
		t.Errorf("Size(...) = %d, want %d", got, want)
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name string
		p, q []Fragment
		want []byte
	}{
		{
			name: "ends-before",
			p:    []Fragment{{0, 1, []byte{1, 2}}},
			q:    []Fragment{{2, 4, []byte{3, 4}}},
			want: []byte{1, 2, 3, 4},
		},
		{
			name: "starts-after",
			p:    []Fragment{{2, 3, []byte{3}}},
			q:    []Fragment{{1, 2, []byte{1, 2}}},
			want: []byte{0, 1, 2, 3},
		},
		{
			name: "overridden",
			p:    []Fragment{{1, 2, []byte{3, 4}}},
			q:    []Fragment{{1, 4, []byte{1, 2, 3}}},
			want: []byte{0, 1, 2, 3},
		},
		{
			name: "right-most-part-is-overridden",
			p:    []Fragment{{0, 1, []byte{1, 3}}},
			q:    []Fragment{{1, 4, []byte{2, 3, 4}}},
			want: []byte{1, 2, 3, 4},
		},
		{
			name: "left-most-part-is-overridden",
			p:    []Fragment{{1, 3, []byte{1, 3, 4}}},
			q:    []Fragment{{0, 2, []byte{1, 2}}},
			want: []byte{1, 2, 3, 4},
		},
		{
			name: "mid-is-overridden",
			p:    []Fragment{{0, 3, []byte{1, 3, 3, 4}}},
			q:    []Fragment{{1, 3, []byte{2, 3}}},
			want: []byte{1, 2, 3, 4},
		},
		{
			name: "p-empty",
			q:    []Fragment{{1, 2, []byte{1}}},
			want: []byte{0, 1, 0},
		},
		{
			name: "q-empty",
			p:    []Fragment{{1, 2, []byte{1}}},
			want: []byte{0, 1, 0},
		},
	}

	orig := []byte{0, 0, 0}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pBefore := cloneFragments(tt.p)
			combined := Combine(tt.p, tt.q)
			got, err := ApplyFragments(orig, combined)
			if err != nil {
				t.Fatalf("ApplyFragments(...) failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Combine(...) applied result is different [-want, +got]:\n%s", diff)
			}
			if diff := cmp.Diff(pBefore, tt.p, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Combine(...) modified p [-before, +after]:\n%s", diff)
			}
		})
	}
}

// TestFold checks that folding the patches of a chain of revisions produces the same result as
// applying each patch in turn.
func TestFold(t *testing.T) {
	for seed := range uint64(50) {
		t.Run(strconv.FormatUint(seed, 10), func(t *testing.T) {
			rng := rand.New(rand.NewChaCha8([32]byte{byte(seed), byte(seed >> 8)}))
			revs := []string{randomText(rng, 1+rng.IntN(50))}
			for range 1 + rng.IntN(8) {
				revs = append(revs, mutate(rng, revs[len(revs)-1]))
			}

			var patches [][]Fragment
			for i := 1; i < len(revs); i++ {
				p, err := bdiff.Diff(revs[i-1], revs[i])
				if err != nil {
					t.Fatalf("bdiff.Diff(...) failed: %v", err)
				}
				frags, err := Parse(p)
				if err != nil {
					t.Fatalf("Parse(...) failed: %v", err)
				}
				patches = append(patches, frags)
			}

			folded := Fold(patches)
			got, err := ApplyFragments([]byte(revs[0]), folded)
			if err != nil {
				t.Fatalf("ApplyFragments(...) failed: %v", err)
			}
			if diff := cmp.Diff(revs[len(revs)-1], string(got)); diff != "" {
				t.Errorf("applying the folded patch is different from the last revision [-want, +got]:\n%s", diff)
			}
			if got, want := Size(len(revs[0]), folded), len(revs[len(revs)-1]); got != want {
				t.Errorf("Size(...) of the folded patch = %d, want %d", got, want)
			}

			// The encoding of the folded patch must parse again.
			encoded := Append(nil, folded)
			reparsed, err := Parse(encoded)
			if err != nil {
				t.Fatalf("Parse(Append(...)) failed: %v", err)
			}
			if diff := cmp.Diff(folded, reparsed, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Parse(Append(...)) is different [-want, +got]:\n%s", diff)
			}
		})
	}
}

func TestFoldEdgeCases(t *testing.T) {
	if got := Fold(nil); got != nil {
		t.Errorf("Fold(nil) = %v, want nil", got)
	}
	single := []Fragment{{0, 1, []byte("x")}}
	if diff := cmp.Diff(single, Fold([][]Fragment{single})); diff != "" {
		t.Errorf("Fold(single) result is different [-want, +got]:\n%s", diff)
	}
}

func TestAppend(t *testing.T) {
	got := Append([]byte("prefix"), []Fragment{{2, 4, []byte("x\n")}})
	want := append([]byte("prefix"), record(2, 4, "x\n")...)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Append(...) result is different [-want, +got]:\n%s", diff)
	}
}

func FuzzApply(f *testing.F) {
	f.Add([]byte("a\nb\nc\n"), record(2, 4, "x\n"))
	f.Add([]byte(""), record(0, 0, "hello\n"))
	f.Add([]byte("abc"), []byte{0, 0, 0})
	f.Fuzz(func(t *testing.T, orig, p []byte) {
		got, err := Apply(orig, p)
		if err != nil {
			if got != nil {
				t.Fatalf("Apply(...) returned data and error %v", err)
			}
			return
		}
		frags, err := Parse(p)
		if err != nil {
			t.Fatalf("Parse(...) failed after Apply(...) succeeded: %v", err)
		}
		if len(got) != Size(len(orig), frags) {
			t.Fatalf("len(Apply(...)) = %d, want Size(...) = %d", len(got), Size(len(orig), frags))
		}
	})
}

func BenchmarkFold(b *testing.B) {
	rng := rand.New(rand.NewChaCha8([32]byte{}))
	rev := randomText(rng, 2000)
	var patches [][]Fragment
	for range 100 {
		next := mutate(rng, rev)
		p, _ := bdiff.Diff(rev, next)
		frags, _ := Parse(p)
		patches = append(patches, frags)
		rev = next
	}
	b.ReportAllocs()
	for b.Loop() {
		_ = Fold(patches)
	}
}

func record(start, end uint32, data string) []byte {
	var b []byte
	for _, v := range []uint32{start, end, uint32(len(data))} {
		b = append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	}
	return append(b, data...)
}

func cloneFragments(frags []Fragment) []Fragment {
	var out []Fragment
	for _, f := range frags {
		out = append(out, Fragment{f.Start, f.End, append([]byte(nil), f.Data...)})
	}
	return out
}

func randomText(rng *rand.Rand, n int) string {
	var b strings.Builder
	for range n {
		fmt.Fprintf(&b, "line %d\n", rng.IntN(16))
	}
	return b.String()
}

func mutate(rng *rand.Rand, s string) string {
	ls := strings.SplitAfter(s, "\n")
	if ls[len(ls)-1] == "" {
		ls = ls[:len(ls)-1]
	}
	for range 1 + rng.IntN(4) {
		i := rng.IntN(len(ls) + 1)
		line := fmt.Sprintf("rev %d\n", rng.IntN(16))
		switch rng.IntN(3) {
		case 0:
			ls = append(ls[:i], append([]string{line}, ls[i:]...)...)
		case 1:
			if i < len(ls) {
				ls = append(ls[:i], ls[i+1:]...)
			}
		case 2:
			if i < len(ls) {
				ls[i] = line
			}
		}
	}
	return strings.Join(ls, "")
}
