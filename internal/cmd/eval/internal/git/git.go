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

// Package git provides a simplified git interface for reading a repository for evaluations
package git

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// NullID is the object id git uses for a missing side of a change.
const NullID = "0000000000000000000000000000000000000000"

type Repo struct {
	dir string

	mu  sync.Mutex // guards the cat-file process
	cmd *exec.Cmd
	in  io.WriteCloser
	out *bufio.Reader
}

// Open starts a reader for the repository in dir. The reader must be closed with Close.
func Open(dir string) (*Repo, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}

	cmd := exec.Command("git", "-C", dir, "cat-file", "--batch")
	in, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("connecting stdin: %w", err)
	}
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("connecting stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting git cat-file: %w", err)
	}
	return &Repo{
		dir: dir,
		cmd: cmd,
		in:  in,
		out: bufio.NewReaderSize(out, 1<<16),
	}, nil
}

func (r *Repo) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return errors.Join(r.in.Close(), r.cmd.Wait())
}

// RevList returns the ids of all non-merge commits reachable from HEAD.
func (r *Repo) RevList(ctx context.Context) ([]string, error) {
	out, err := r.git(ctx, "rev-list", "--no-merges", "HEAD")
	if err != nil {
		return nil, err
	}
	return strings.Fields(out), nil
}

type FileDiff struct {
	Name  string
	OldID string
	NewID string
}

// DiffTree returns the files changed by a commit relative to its first parent.
func (r *Repo) DiffTree(ctx context.Context, commit string) ([]FileDiff, error) {
	out, err := r.git(ctx, "diff-tree", "-r", "--no-commit-id", commit)
	if err != nil {
		return nil, err
	}
	var ret []FileDiff
	for line := range strings.Lines(out) {
		line = strings.TrimSuffix(line, "\n")
		if len(line) == 0 {
			continue
		}
		if line[0] != ':' {
			return nil, fmt.Errorf("diff-tree file not starting with ':': %q", line)
		}
		fields := strings.Fields(line[1:])
		if len(fields) < 6 {
			return nil, fmt.Errorf("diff-tree line with %d fields: %q", len(fields), line)
		}
		ret = append(ret, FileDiff{
			Name:  fields[5],
			OldID: fields[2],
			NewID: fields[3],
		})
	}
	return ret, nil
}

// Blob returns the content of a blob. The null id is read as an empty blob.
func (r *Repo) Blob(id string) ([]byte, error) {
	if id == NullID {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := fmt.Fprintf(r.in, "%s\n", id); err != nil {
		return nil, fmt.Errorf("requesting blob %s: %w", id, err)
	}
	header, err := r.out.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("reading header of blob %s: %w", id, err)
	}
	fields := strings.Fields(header)
	if len(fields) != 3 {
		return nil, fmt.Errorf("reading blob %s: unexpected header %q", id, header)
	}
	if fields[0] != id {
		return nil, fmt.Errorf("ids don't match %s vs %s", fields[0], id)
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, fmt.Errorf("reading size of blob %s: %w", id, err)
	}
	buf := make([]byte, n+1) // content is followed by a newline
	if _, err := io.ReadFull(r.out, buf); err != nil {
		return nil, fmt.Errorf("reading blob %s: %w", id, err)
	}
	return buf[:n], nil
}

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	var wout, werr strings.Builder
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", r.dir}, args...)...)
	cmd.Stdout = &wout
	cmd.Stderr = &werr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running git command %v: %w\n%s", cmd, err, werr.String())
	}
	return wout.String(), nil
}
