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

package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"github.com/cgraph/cgraph/internal/cgerrors"
	"github.com/cgraph/cgraph/internal/config"
	"github.com/cgraph/cgraph/internal/embedding"
	"github.com/cgraph/cgraph/internal/ignore"
	"github.com/cgraph/cgraph/internal/pipeline"
	"github.com/cgraph/cgraph/internal/snapshot"
	"github.com/cgraph/cgraph/internal/types"
	"github.com/cgraph/cgraph/internal/ui"
)

// SnapshotPath returns where the graph snapshot lives under repoRoot.
func SnapshotPath(repoRoot string) string {
	return filepath.Join(config.ConfigDir(repoRoot), "graph.json")
}

// runIndex executes the 'index' CLI command: walk the repository, run
// the ingestion pipeline, build the embedding vectors, and write the
// graph snapshot.
//
// Flags:
//   - --debug: Enable debug logging
//   - --quiet: Suppress the progress bar
//   - --no-color: Disable colored output
//   - --embed-workers: Parallel embedding workers
//   - --provider: Embedding provider override (hash, mock)
//   - --metrics-addr: HTTP address for Prometheus metrics (default: disabled)
func runIndex(args []string, repoRoot string) {
	fs := pflag.NewFlagSet("index", pflag.ExitOnError)
	debug := fs.Bool("debug", false, "Enable debug logging")
	quiet := fs.BoolP("quiet", "q", false, "Suppress progress output")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	embedWorkers := fs.Int("embed-workers", 0, "Number of parallel embedding workers (default: from config)")
	provider := fs.String("provider", "", "Embedding provider override (hash, mock)")
	metricsAddr := fs.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cgraph index [options]

Ingests the repository using configuration from .cgraph/project.yaml
and writes the graph snapshot to .cgraph/graph.json.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(cgerrors.ExitConfig)
	}

	ui.InitColors(*noColor)

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfg, err := config.LoadOrDefault(repoRoot)
	if err != nil {
		cgerrors.FatalError(cgerrors.NewConfigError("cannot load configuration", err.Error(), "run 'cgraph init' to regenerate it", err), false)
	}
	if *embedWorkers > 0 {
		cfg.Embedding.Workers = *embedWorkers
	}
	if *provider != "" {
		cfg.Embedding.Provider = *provider
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv := &http.Server{Addr: *metricsAddr, Handler: mux}
			logger.Info("metrics.http.start", "addr", *metricsAddr, "path", "/metrics")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Warn("metrics.http.error", "err", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("shutdown.signal", "signal", sig.String())
		cancel()
	}()

	files, err := collectFiles(repoRoot, cfg)
	if err != nil {
		cgerrors.FatalError(cgerrors.NewInputError("cannot read repository", err.Error(), "check --repo points at a readable directory"), false)
	}
	if len(files) == 0 {
		ui.Warnf("no source files found after filtering")
		os.Exit(cgerrors.ExitSuccess)
	}

	logger.Info("indexing.starting", "project_id", cfg.ProjectID, "repo_path", repoRoot, "files", len(files))

	progCfg := NewProgressConfig(*quiet, *noColor)
	bar := NewProgressBar(progCfg, 100, "indexing")

	orch := pipeline.New(pipeline.Config{
		Process: pipeline.ProcessConfig{
			MaxTraceDepth: cfg.Process.MaxTraceDepth,
			MaxBranching:  cfg.Process.MaxBranching,
			MaxProcesses:  cfg.Process.MaxProcesses,
			MinSteps:      cfg.Process.MinSteps,
		},
		CacheCapacity: cfg.Indexing.ASTCacheEntries,
	}, logger, nil)

	result, err := orch.Run(ctx, files, func(ev pipeline.ProgressEvent) {
		if bar != nil {
			_ = bar.Set(int(ev.Percent))
		}
		if ev.Phase == pipeline.PhaseError {
			ui.Failf("%s", ev.Message)
		}
	})
	if err != nil {
		if err == cgerrors.ErrCancelled {
			ui.Warnf("indexing cancelled")
			os.Exit(cgerrors.ExitCancelled)
		}
		cgerrors.FatalError(err, false)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	vectorCount, err := buildVectors(ctx, cfg, result, logger, progCfg)
	if err != nil {
		if ctx.Err() != nil {
			ui.Warnf("indexing cancelled")
			os.Exit(cgerrors.ExitCancelled)
		}
		cgerrors.FatalError(cgerrors.NewStageError("embedding generation failed", err.Error(), "retry with --provider mock", err), false)
	}

	if err := snapshot.Save(SnapshotPath(repoRoot), result.Store, result.FileContents); err != nil {
		cgerrors.FatalError(cgerrors.NewInternalError("cannot write snapshot", err.Error(), "check .cgraph is writable", err), false)
	}

	printIndexResult(repoRoot, result, vectorCount)
}

// collectFiles walks repoRoot and returns the accepted {path, content}
// sequence, ordered by path for deterministic runs.
func collectFiles(repoRoot string, cfg *config.Config) ([]pipeline.FileEntry, error) {
	filter := ignore.Default()
	var files []pipeline.FileEntry

	err := filepath.WalkDir(repoRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(repoRoot, path)
		if relErr != nil {
			return relErr
		}
		rel = types.NormalizePath(rel)

		if d.IsDir() {
			if rel != "" && filter.Reject(rel) {
				return fs.SkipDir
			}
			return nil
		}
		if filter.Reject(rel) || !cfg.Matches(rel) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		if cfg.Indexing.MaxFileSize > 0 && info.Size() > int64(cfg.Indexing.MaxFileSize) {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		files = append(files, pipeline.FileEntry{Path: rel, Content: content})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// buildVectors runs the embedding generator over the ingested graph
// and reports how many vectors were produced. The vectors themselves
// are regenerated on demand at search time from the same deterministic
// provider, so only the count is surfaced here.
func buildVectors(ctx context.Context, cfg *config.Config, result *pipeline.Result, logger *slog.Logger, progCfg ProgressConfig) (int, error) {
	provider, err := embedding.NewProvider(cfg.Embedding.Provider, cfg.Embedding.Dimension, logger)
	if err != nil {
		return 0, err
	}

	items := embedding.CollectItems(result.Store, result.FileContents)
	if len(items) == 0 {
		return 0, nil
	}

	bar := NewProgressBar(progCfg, int64(len(items)), "embedding")
	gen := embedding.NewGenerator(provider, cfg.Embedding.BatchSize, cfg.Embedding.Workers, logger)
	vectors, err := gen.Generate(ctx, items, func(done, total int) {
		if bar != nil {
			_ = bar.Set(done)
		}
	})
	if err != nil {
		return 0, err
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return len(vectors), nil
}

// printIndexResult prints the indexing summary to stdout.
func printIndexResult(repoRoot string, result *pipeline.Result, vectorCount int) {
	fmt.Println()
	ui.Title("Indexing Complete")
	fmt.Printf("%s %d\n", ui.Label("Files Processed:"), result.FilesProcessed)
	if result.FilesSkipped > 0 {
		fmt.Printf("%s %d\n", ui.Label("Files Skipped:"), result.FilesSkipped)
	}
	fmt.Printf("%s %d\n", ui.Label("Nodes:"), result.Store.NodeCount())
	fmt.Printf("%s %d\n", ui.Label("Edges:"), result.Store.EdgeCount())
	fmt.Printf("%s %d\n", ui.Label("Communities:"), len(result.Community.Communities))
	fmt.Printf("%s %d\n", ui.Label("Processes:"), len(result.Process.Processes))
	fmt.Printf("%s %d\n", ui.Label("Vectors:"), vectorCount)
	fmt.Println()
	fmt.Printf("Snapshot stored in: %s\n", ui.Dim(SnapshotPath(repoRoot)))
}
