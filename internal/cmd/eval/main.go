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

// eval validates the diff engine on the history of a git repository: For every changed file, it
// checks that the binary patch turns the old version into the new one, that combining the patch
// with its inverse restores the old version, and optionally that the unified diff is accepted by
// the unix patch tool.
package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
	"znkr.io/bdiff"
	"znkr.io/bdiff/internal/byteview"
	"znkr.io/bdiff/internal/cmd/eval/internal/git"
	"znkr.io/bdiff/internal/lines"
	"znkr.io/bdiff/internal/unixpatch"
	"znkr.io/bdiff/patch"
	"znkr.io/bdiff/textdiff"
)

type config struct {
	repo      string
	sample    int
	parallel  int
	stats     string
	unixpatch bool
	progress  bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.repo, "repo", "", "repository to use for evaluation")
	flag.IntVar(&cfg.sample, "sample", 0, "if >0, sample commits to the value of the flag")
	flag.IntVar(&cfg.parallel, "parallel", runtime.GOMAXPROCS(0), "number of evaluations to run in parallel")
	flag.StringVar(&cfg.stats, "stats", "", "file to store stats in")
	flag.BoolVar(&cfg.unixpatch, "unixpatch", false, "also validate unified diffs with the unix patch tool")
	flag.BoolVar(&cfg.progress, "progress", true, "render a progress bar")
	flag.Parse()
	defer glog.Flush()

	if len(flag.CommandLine.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "error: unexpected command line arguments: %v\n", flag.CommandLine.Args())
		os.Exit(2)
	}
	if cfg.repo == "" {
		fmt.Fprintf(os.Stderr, "error: -repo is required\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failures, err := run(ctx, &cfg)
	if err != nil {
		glog.Errorf("evaluation failed: %v", err)
		glog.Flush()
		os.Exit(1)
	}
	if failures > 0 {
		glog.Errorf("%d validation failures", failures)
		glog.Flush()
		os.Exit(1)
	}
}

var bars = []string{
	" ",
	"▏",
	"▎",
	"▍",
	"▌",
	"▋",
	"▊",
	"▉",
	"█",
}

type result struct {
	commitID string
	file     string
	N, M     int // number of lines in the old and new version
	blocks   int // number of matching blocks
	size     int // size of the binary patch
	duration time.Duration
}

type evaluator struct {
	cfg      *config
	repo     *git.Repo
	commits  atomic.Int64
	files    atomic.Int64
	failures atomic.Int64

	mu    sync.Mutex // guards stats
	stats *bufio.Writer
}

func run(ctx context.Context, cfg *config) (int64, error) {
	repo, err := git.Open(cfg.repo)
	if err != nil {
		return 0, fmt.Errorf("opening git repository: %w", err)
	}
	defer repo.Close()

	commitIDs, err := repo.RevList(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading rev-list: %w", err)
	}
	if cfg.sample > 0 && cfg.sample < len(commitIDs) {
		rand.Shuffle(len(commitIDs), func(i, j int) {
			commitIDs[i], commitIDs[j] = commitIDs[j], commitIDs[i]
		})
		commitIDs = commitIDs[:cfg.sample]
	}
	glog.Infof("evaluating %d commits of %s", len(commitIDs), cfg.repo)

	e := &evaluator{cfg: cfg, repo: repo}
	if cfg.stats != "" {
		f, err := os.Create(cfg.stats)
		if err != nil {
			return 0, fmt.Errorf("creating stats file: %w", err)
		}
		defer f.Close()
		e.stats = bufio.NewWriter(f)
		e.stats.WriteString("commit_id,file,N,M,blocks,patch_size,duration_ns\n")
	}

	start := time.Now()
	done := make(chan struct{})
	var progressWG sync.WaitGroup
	if cfg.progress {
		progressWG.Add(1)
		go func() {
			defer progressWG.Done()
			e.renderProgress(start, len(commitIDs), done)
		}()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.parallel))
	for _, commitID := range commitIDs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			defer e.commits.Add(1)
			return e.evalCommit(gctx, commitID)
		})
	}
	err = g.Wait()
	close(done)
	progressWG.Wait()
	if err != nil {
		return e.failures.Load(), err
	}

	if e.stats != nil {
		if err := e.stats.Flush(); err != nil {
			return e.failures.Load(), fmt.Errorf("writing stats: %w", err)
		}
	}
	glog.Infof("evaluated %d files in %d commits in %v", e.files.Load(), e.commits.Load(), time.Since(start).Round(time.Millisecond))
	return e.failures.Load(), nil
}

func (e *evaluator) evalCommit(ctx context.Context, commitID string) error {
	files, err := e.repo.DiffTree(ctx, commitID)
	if err != nil {
		return fmt.Errorf("commit %s: %w", commitID, err)
	}
	glog.V(1).Infof("%s: %d changed files", commitID, len(files))
	for _, file := range files {
		if strings.HasSuffix(file.Name, ".zip") || strings.HasSuffix(file.Name, ".syso") {
			continue
		}
		old, err := e.repo.Blob(file.OldID)
		if err != nil {
			glog.Warningf("%s:%s: skipping file: %v", commitID, file.Name, err)
			continue
		}
		new, err := e.repo.Blob(file.NewID)
		if err != nil {
			glog.Warningf("%s:%s: skipping file: %v", commitID, file.Name, err)
			continue
		}
		if err := e.evalFile(ctx, commitID, file.Name, old, new); err != nil {
			e.failures.Add(1)
			glog.Errorf("%s:%s: %v", commitID, file.Name, err)
		}
		e.files.Add(1)
	}
	return nil
}

// evalFile validates the patches between old and new.
func (e *evaluator) evalFile(ctx context.Context, commitID, name string, old, new []byte) error {
	start := time.Now()
	forward, err := bdiff.Diff(old, new)
	if err != nil {
		return fmt.Errorf("computing binary patch: %w", err)
	}
	duration := time.Since(start)

	patched, err := patch.Apply(old, forward)
	if err != nil {
		return fmt.Errorf("applying binary patch: %w", err)
	}
	if !bytes.Equal(patched, new) {
		return fmt.Errorf("file is different after applying binary patch")
	}

	// Applying the inverse patch after the forward patch must restore the old version.
	backward, err := bdiff.Diff(new, old)
	if err != nil {
		return fmt.Errorf("computing inverse binary patch: %w", err)
	}
	fwd, err := patch.Parse(forward)
	if err != nil {
		return fmt.Errorf("parsing binary patch: %w", err)
	}
	bwd, err := patch.Parse(backward)
	if err != nil {
		return fmt.Errorf("parsing inverse binary patch: %w", err)
	}
	restored, err := patch.ApplyFragments(old, patch.Combine(fwd, bwd))
	if err != nil {
		return fmt.Errorf("applying combined patch: %w", err)
	}
	if !bytes.Equal(restored, old) {
		return fmt.Errorf("file is different after applying combined patch")
	}

	if e.cfg.unixpatch {
		unified := textdiff.UnifiedBytes(old, new)
		patched, err := unixpatch.Patch(ctx, old, unified)
		if err != nil {
			return fmt.Errorf("failed to run patch: %w", err)
		}
		if !bytes.Equal(patched, new) {
			return fmt.Errorf("file is different after applying unified diff:\n%s", unified)
		}
	}

	if e.stats != nil {
		blocks, err := bdiff.Blocks(old, new)
		if err != nil {
			return fmt.Errorf("computing blocks: %w", err)
		}
		e.record(result{
			commitID: commitID,
			file:     name,
			N:        lines.Count(byteview.From(old)),
			M:        lines.Count(byteview.From(new)),
			blocks:   len(blocks),
			size:     len(forward),
			duration: duration,
		})
	}
	return nil
}

func (e *evaluator) record(r result) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Fprintf(e.stats, "%s,%s,%d,%d,%d,%d,%d\n", r.commitID, r.file, r.N, r.M, r.blocks, r.size, r.duration.Nanoseconds())
}

func (e *evaluator) renderProgress(start time.Time, total int, done <-chan struct{}) {
	render := func() {
		const width = 60
		commits := e.commits.Load()
		files := e.files.Load()
		progress := 1.0
		if total > 0 {
			progress = float64(commits) / float64(total)
		}
		whole := int(progress * width)
		remainder := math.Mod(progress*width, 1)
		last := bars[max(0, min(len(bars)-1, int(remainder*float64(len(bars)))))]
		if width-whole < 1 {
			last = ""
		}
		bar := strings.Repeat(bars[len(bars)-1], whole) + last
		var commitsPerSec, filesPerSec int
		if elapsed := time.Since(start); elapsed > 0 {
			commitsPerSec = int(time.Duration(commits) * time.Second / elapsed)
			filesPerSec = int(time.Duration(files) * time.Second / elapsed)
		}
		fmt.Fprintf(os.Stderr, "\r[%-*s] % 3.1f%% (%d commits/s, %d files/s) ", width, bar, 100*progress, commitsPerSec, filesPerSec)
	}

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			render()
		case <-done:
			render()
			fmt.Fprintln(os.Stderr)
			return
		}
	}
}
