// Copyright 2026 CGraph Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@cgraph.dev
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cgraph/cgraph/internal/cgerrors"
	"github.com/cgraph/cgraph/internal/graphstore"
	"github.com/cgraph/cgraph/internal/parser"
	"github.com/cgraph/cgraph/internal/symboltable"
)

// Orchestrator owns the resources of a single pipeline run: the graph
// store, symbol table, and parser pool. Created fresh per run and
// disposed on completion or error; nothing here is process-global.
type Orchestrator struct {
	logger    *slog.Logger
	cfg       ProcessConfig
	cacheSize int
	metrics   *Metrics
}

// Config bundles the orchestrator's tunables.
type Config struct {
	Process       ProcessConfig
	CacheCapacity int
}

// DefaultConfig returns the standard tunables.
func DefaultConfig() Config {
	return Config{Process: DefaultProcessConfig(), CacheCapacity: parser.DefaultCacheCapacity}
}

// New creates an Orchestrator. A nil logger defaults to slog.Default().
func New(cfg Config, logger *slog.Logger, metrics *Metrics) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Orchestrator{logger: logger, cfg: cfg.Process, cacheSize: cfg.CacheCapacity, metrics: metrics}
}

// Result is the orchestrator's full output: the graph, per-file
// contents (for BM25/embedding indexing), and the community/process
// aggregates.
type Result struct {
	Store          *graphstore.Store
	Symbols        *symboltable.Table
	ImportMap      ImportMap
	FileContents   map[string]string
	Community      CommunityResult
	Process        ProcessResult
	FilesProcessed int
	FilesSkipped   int
}

// Run executes the fixed phase sequence: structure, parsing, imports,
// calls, heritage, communities, processes. Cancellation is polled
// between phases and between files; on cancel, resources are disposed
// and cgerrors.ErrCancelled is returned.
func (o *Orchestrator) Run(ctx context.Context, files []FileEntry, progress ProgressFunc) (result *Result, err error) {
	store := graphstore.New()
	symbols := symboltable.New()
	pool := parser.NewPool(o.cacheSize, o.logger)

	o.metrics.runsStarted.Inc()
	start := time.Now()

	// An internal invariant violation inside a stage aborts the run as a
	// stage error: resources are disposed, an error phase event is
	// emitted, and the failure is returned rather than rethrown.
	defer func() {
		if r := recover(); r != nil {
			pool.Reset()
			stageErr := cgerrors.NewStagePanic("pipeline", "internal invariant violation", fmt.Errorf("%v", r))
			o.logger.Error("pipeline.stage.panic", "error", stageErr.Error())
			emit(progress, PhaseError, 0, stageErr.Error(), nil)
			o.metrics.runsFailed.Inc()
			result, err = nil, stageErr
		}
	}()

	emit(progress, PhaseExtracting, percentWithin(PhaseExtracting, 1), fmt.Sprintf("%d files queued", len(files)), &Stats{TotalFiles: len(files)})

	if err := checkCancel(ctx); err != nil {
		pool.Reset()
		return nil, err
	}

	runStructure(store, files, progress)
	if err := checkCancel(ctx); err != nil {
		pool.Reset()
		return nil, err
	}

	parsed, skipped := runParsing(ctx, pool, store, symbols, files, o.logger, progress)
	if err := checkCancel(ctx); err != nil {
		pool.Reset()
		return nil, err
	}

	importMap := runImports(store, files, parsed, progress)
	if err := checkCancel(ctx); err != nil {
		pool.Reset()
		return nil, err
	}

	runCalls(store, symbols, importMap, parsed, progress)
	if err := checkCancel(ctx); err != nil {
		pool.Reset()
		return nil, err
	}

	runHeritage(store, symbols, parsed, progress)
	if err := checkCancel(ctx); err != nil {
		pool.Reset()
		return nil, err
	}

	communityResult := runCommunity(store, progress)
	if err := checkCancel(ctx); err != nil {
		pool.Reset()
		return nil, err
	}

	processResult := runProcess(store, o.cfg, progress)

	contents := make(map[string]string, len(files))
	for _, f := range files {
		contents[f.Path] = string(f.Content)
	}

	pool.Reset()
	emit(progress, PhaseComplete, 100, "ingestion complete", &Stats{
		FilesProcessed: len(files) - skipped,
		TotalFiles:     len(files),
		NodesCreated:   store.NodeCount(),
	})

	o.metrics.runsCompleted.Inc()
	o.metrics.runDuration.Observe(time.Since(start).Seconds())

	return &Result{
		Store:          store,
		Symbols:        symbols,
		ImportMap:      importMap,
		FileContents:   contents,
		Community:      communityResult,
		Process:        processResult,
		FilesProcessed: len(files) - skipped,
		FilesSkipped:   skipped,
	}, nil
}

func checkCancel(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return cgerrors.ErrCancelled
	default:
		return nil
	}
}
