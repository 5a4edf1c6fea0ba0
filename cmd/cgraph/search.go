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
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/cgraph/cgraph/internal/bm25"
	"github.com/cgraph/cgraph/internal/cgerrors"
	"github.com/cgraph/cgraph/internal/config"
	"github.com/cgraph/cgraph/internal/embedding"
	"github.com/cgraph/cgraph/internal/graphstore"
	"github.com/cgraph/cgraph/internal/output"
	"github.com/cgraph/cgraph/internal/retrieval"
	"github.com/cgraph/cgraph/internal/snapshot"
	"github.com/cgraph/cgraph/internal/ui"
)

// SearchHitJSON is the --json rendering of one fused search hit.
type SearchHitJSON struct {
	Rank      int                `json:"rank"`
	NodeID    string             `json:"node_id"`
	Name      string             `json:"name"`
	Kind      string             `json:"kind"`
	FilePath  string             `json:"file_path"`
	StartLine int                `json:"start_line,omitempty"`
	EndLine   int                `json:"end_line,omitempty"`
	Score     float64            `json:"score"`
	Sources   []string           `json:"sources"`
	RawScores map[string]float64 `json:"raw_scores"`
}

// runSearch executes the 'search' CLI command over the stored snapshot.
//
// Modes:
//   - hybrid (default): BM25 + vector, RRF-fused
//   - bm25: lexical only
//   - semantic: vector only
func runSearch(args []string, repoRoot string) {
	fs := pflag.NewFlagSet("search", pflag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Output as JSON")
	noColor := fs.Bool("no-color", false, "Disable colored output")
	k := fs.IntP("limit", "k", 10, "Number of results")
	mode := fs.String("mode", "hybrid", "Search mode: hybrid, bm25, semantic")
	maxDistance := fs.Float64("max-distance", 0, "Vector distance threshold (default: from config)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cgraph search <text> [options]

Searches the indexed repository with BM25 keyword matching, vector
similarity, or both fused with Reciprocal Rank Fusion.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(cgerrors.ExitConfig)
	}
	ui.InitColors(*noColor)

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		os.Exit(cgerrors.ExitInput)
	}
	query := strings.Join(rest, " ")

	cfg, err := config.LoadOrDefault(repoRoot)
	if err != nil {
		cgerrors.FatalError(cgerrors.NewConfigError("cannot load configuration", err.Error(), "run 'cgraph init' to regenerate it", err), *jsonOut)
	}
	if *maxDistance <= 0 {
		*maxDistance = cfg.Retrieval.MaxDistance
	}

	store, contents, err := snapshot.Load(SnapshotPath(repoRoot))
	if err != nil {
		cgerrors.FatalError(cgerrors.NewNotFoundError("no graph snapshot found", err.Error(), "run 'cgraph index' first"), *jsonOut)
	}

	ctx := context.Background()
	lexical := bm25.Build(contents)

	var vector retrieval.VectorSearcher
	if *mode != "bm25" {
		vector, err = buildSearcher(ctx, cfg, store, contents)
		if err != nil {
			if *mode == "semantic" {
				cgerrors.FatalError(cgerrors.NewStageError("vector index unavailable", err.Error(), "retry with --mode bm25", err), *jsonOut)
			}
			ui.Warnf("vector index unavailable, falling back to keyword search: %v", err)
			vector = nil
		}
	}

	var hits []retrieval.SearchHit
	switch *mode {
	case "semantic":
		matches, err := vector.Search(ctx, query, *k, *maxDistance)
		if err != nil {
			cgerrors.FatalError(cgerrors.NewStageError("semantic search failed", err.Error(), "", err), *jsonOut)
		}
		for i, m := range matches {
			hits = append(hits, retrieval.SearchHit{
				NodeID: m.NodeID, Name: m.Name, Kind: m.Kind, FilePath: m.FilePath,
				StartLine: m.StartLine, EndLine: m.EndLine, Rank: i + 1,
				Score:   1 - m.Distance,
				Sources: []string{retrieval.SourceSemantic},
				RawScores: map[string]float64{
					retrieval.SourceSemantic: m.Distance,
				},
			})
		}
	case "bm25":
		hits, err = retrieval.New(lexical, nil, *maxDistance, nil).Search(ctx, query, *k)
		if err != nil {
			cgerrors.FatalError(err, *jsonOut)
		}
	default:
		hits, err = retrieval.New(lexical, vector, *maxDistance, nil).Search(ctx, query, *k)
		if err != nil {
			cgerrors.FatalError(err, *jsonOut)
		}
	}

	if *jsonOut {
		out := make([]SearchHitJSON, len(hits))
		for i, h := range hits {
			out[i] = SearchHitJSON{
				Rank: h.Rank, NodeID: h.NodeID, Name: h.Name, Kind: string(h.Kind),
				FilePath: h.FilePath, StartLine: h.StartLine, EndLine: h.EndLine,
				Score: h.Score, Sources: h.Sources, RawScores: h.RawScores,
			}
		}
		if err := output.Emit(out); err != nil {
			cgerrors.FatalError(err, true)
		}
		return
	}

	if len(hits) == 0 {
		ui.Notef("no results")
		return
	}
	for _, h := range hits {
		fmt.Printf("%2d. %s %s %s %s\n", h.Rank, ui.Kind(h.Kind), ui.Label(h.Name),
			ui.Location(h.FilePath, h.StartLine), ui.SourceTags(h.Sources))
	}
}

// buildSearcher regenerates the vector index from the snapshot using
// the configured deterministic provider.
func buildSearcher(ctx context.Context, cfg *config.Config, store *graphstore.Store, contents map[string]string) (retrieval.VectorSearcher, error) {
	provider, err := embedding.NewProvider(cfg.Embedding.Provider, cfg.Embedding.Dimension, nil)
	if err != nil {
		return nil, err
	}

	items := embedding.CollectItems(store, contents)
	gen := embedding.NewGenerator(provider, cfg.Embedding.BatchSize, cfg.Embedding.Workers, nil)
	vectors, err := gen.Generate(ctx, items, nil)
	if err != nil {
		return nil, err
	}

	idx, err := embedding.BuildIndex(vectors, provider.Dimension())
	if err != nil {
		return nil, err
	}
	return embedding.NewSearcher(provider, idx, store), nil
}
