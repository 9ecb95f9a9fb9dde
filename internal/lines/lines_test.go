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

package lines

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"znkr.io/bdiff/internal/byteview"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Line
	}{
		{
			name:  "empty",
			input: "",
			want: []Line{
				{Pos: 0, Class: None, Next: None},
			},
		},
		{
			name:  "newline-only",
			input: "\n",
			want: []Line{
				{Hash: 10, Pos: 0, Len: 1, Class: None, Next: None},
				{Pos: 1, Class: None, Next: None},
			},
		},
		{
			name:  "missing-newline",
			input: "a\nx",
			want: []Line{
				{Hash: (10 + 97<<7) * 2, Pos: 0, Len: 2, Class: None, Next: None},
				{Hash: 120, Pos: 2, Len: 1, Class: None, Next: None},
				{Pos: 3, Class: None, Next: None},
			},
		},
		{
			name:  "missing-newline-in-first-line",
			input: "x",
			want: []Line{
				{Hash: 120, Pos: 0, Len: 1, Class: None, Next: None},
				{Pos: 1, Class: None, Next: None},
			},
		},
		{
			name:  "empty-lines",
			input: "\n\n",
			want: []Line{
				{Hash: 10, Pos: 0, Len: 1, Class: None, Next: None},
				{Hash: 10, Pos: 1, Len: 1, Class: None, Next: None},
				{Pos: 2, Class: None, Next: None},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(byteview.From(tt.input))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Split(%q) result difference [-want,+got]:\n%s", tt.input, diff)
			}
		})
	}
}

func TestSplitHashesContent(t *testing.T) {
	v := byteview.From("foo\nbar\nfoo\noof\nfoo")
	lines := Split(v)
	if got, want := len(lines), 6; got != want {
		t.Fatalf("len(Split(...)) = %d, want %d", got, want)
	}
	if lines[0].Hash != lines[2].Hash {
		t.Errorf("identical lines have different hashes: %v vs %v", lines[0].Hash, lines[2].Hash)
	}
	if lines[0].Hash == lines[3].Hash {
		t.Errorf("rolling hash is not order sensitive: %q and %q both hash to %v", "foo\n", "oof\n", lines[0].Hash)
	}
	if lines[0].Hash == lines[4].Hash {
		t.Errorf("lines with different lengths have the same hash %v", lines[0].Hash)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"\n", 1},
		{"foo", 1},
		{"foo\n", 1},
		{"foo\nbar", 2},
		{"foo\nbar\n", 2},
		{"\n\n\n", 3},
	}
	for _, tt := range tests {
		if got := Count(byteview.From(tt.input)); got != tt.want {
			t.Errorf("Count(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
