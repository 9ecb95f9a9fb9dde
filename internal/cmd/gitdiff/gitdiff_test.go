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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	oldFile := filepath.Join(dir, "old")
	newFile := filepath.Join(dir, "new")
	if err := os.WriteFile(oldFile, []byte("a\nb\nc\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newFile, []byte("a\nx\nc\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		context string
		want    string
		wantErr bool
	}{
		{
			name:    "modified",
			args:    []string{"gitdiff", "file.txt", oldFile, "0123456789abcdef", "100644", newFile, "fedcba9876543210", "100644"},
			context: "",
			want: "diff --git a/file.txt b/file.txt\n" +
				"index 0123456789..fedcba9876 100644\n" +
				"--- a/file.txt\n" +
				"+++ b/file.txt\n" +
				"@@ -1,3 +1,3 @@\n a\n-b\n+x\n c\n",
		},
		{
			name:    "new-file-no-context",
			args:    []string{"gitdiff", "file.txt", "/dev/null", ".", ".", newFile, "fedcba9876543210", "100644"},
			context: "0",
			want: "diff --git a/file.txt b/file.txt\n" +
				"index ...fedcba9876 100644\n" +
				"--- a/file.txt\n" +
				"+++ b/file.txt\n" +
				"@@ -0,0 +1,3 @@\n+a\n+x\n+c\n",
		},
		{
			name:    "too-few-args",
			args:    []string{"gitdiff", "file.txt"},
			wantErr: true,
		},
		{
			name:    "invalid-context",
			args:    []string{"gitdiff", "file.txt", oldFile, "0", "100644", newFile, "1", "100644"},
			context: "many",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := run(tt.args, tt.context, &buf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("run(...) returned error %v, want error: %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("run(...) output is different [-want,+got]:\n%s", diff)
			}
		})
	}
}
