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

package embedding

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cgraph/cgraph/internal/graphstore"
	"github.com/cgraph/cgraph/internal/types"
)

const (
	// DefaultBatchSize is how many items each encoder batch holds.
	DefaultBatchSize = 16

	fileTextCap   = 10_000
	symbolTextCap = 5_000
	symbolPadding = 2
)

// embeddableKinds are the node kinds the vector index covers.
var embeddableKinds = []types.NodeKind{
	types.KindClass, types.KindFunction, types.KindInterface,
	types.KindMethod, types.KindFile,
}

// Item is one (node, text) pair queued for encoding.
type Item struct {
	NodeID string
	Text   string
}

// Vector is one stored (node_id, vector) pair.
type Vector struct {
	NodeID string
	Vec    []float32
}

// Generator encodes graph entities in ordered batches and accumulates
// the vector table the nearest-neighbor index is built from.
type Generator struct {
	provider  Provider
	batchSize int
	workers   int
	logger    *slog.Logger
}

// NewGenerator creates a Generator. Zero batchSize or workers take
// defaults; a nil logger defaults to slog.Default().
func NewGenerator(provider Provider, batchSize, workers int, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if workers <= 0 {
		workers = 1
	}
	return &Generator{provider: provider, batchSize: batchSize, workers: workers, logger: logger}
}

// CollectItems walks the store and produces the ordered input set: for
// a File node, the first part of its content; for a symbol, the content
// between its start and end lines with two lines of context either side.
// Nodes whose text comes up empty are dropped.
func CollectItems(store *graphstore.Store, contents map[string]string) []Item {
	var items []Item
	for _, kind := range embeddableKinds {
		ids := store.NodesOfKind(kind)
		sort.Strings(ids)
		for _, id := range ids {
			n, ok := store.Node(id)
			if !ok {
				continue
			}
			text := nodeText(n, contents)
			if text == "" {
				continue
			}
			items = append(items, Item{NodeID: id, Text: text})
		}
	}
	return items
}

func nodeText(n *types.Node, contents map[string]string) string {
	content, ok := contents[n.FilePath]
	if !ok {
		return ""
	}

	if n.Kind == types.KindFile {
		if len(content) > fileTextCap {
			return content[:fileTextCap]
		}
		return content
	}

	lines := strings.Split(content, "\n")
	start := n.StartLine - 1 - symbolPadding
	end := n.EndLine + symbolPadding
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return ""
	}
	text := strings.Join(lines[start:end], "\n")
	if len(text) > symbolTextCap {
		text = text[:symbolTextCap]
	}
	return text
}

// BatchProgress reports completion after each encoder batch.
type BatchProgress func(done, total int)

// Generate encodes items batch by batch, in order, fanning each batch
// out across the generator's workers. Per-item encoder errors drop that
// item with a warning; only context cancellation aborts the whole run.
func (g *Generator) Generate(ctx context.Context, items []Item, progress BatchProgress) ([]Vector, error) {
	vectors := make([]Vector, 0, len(items))

	for offset := 0; offset < len(items); offset += g.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := offset + g.batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[offset:end]

		results := make([][]float32, len(batch))
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(g.workers)
		for i, item := range batch {
			eg.Go(func() error {
				vec, err := g.provider.Embed(egCtx, item.Text)
				if err != nil {
					if egCtx.Err() != nil {
						return egCtx.Err()
					}
					g.logger.Warn("embedding.item.failed", "node_id", item.NodeID, "error", err)
					return nil
				}
				results[i] = vec
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}

		for i, vec := range results {
			if vec == nil {
				continue
			}
			vectors = append(vectors, Vector{NodeID: batch[i].NodeID, Vec: vec})
		}

		if progress != nil {
			progress(end, len(items))
		}
	}

	return vectors, nil
}
