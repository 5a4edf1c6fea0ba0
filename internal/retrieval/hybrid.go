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

// Package retrieval fuses the lexical and vector result lists into one
// ranking with Reciprocal Rank Fusion.
package retrieval

import (
	"context"
	"log/slog"
	"sort"

	"github.com/cgraph/cgraph/internal/bm25"
	"github.com/cgraph/cgraph/internal/embedding"
	"github.com/cgraph/cgraph/internal/types"
)

// RRFConstant is the K in rrf(rank) = 1/(K + rank + 1).
const RRFConstant = 60

// Source names tag which lists contributed a hit.
const (
	SourceBM25     = "bm25"
	SourceSemantic = "semantic"
)

// SearchHit is one fused result with its contributing sources and
// per-source raw scores preserved.
type SearchHit struct {
	NodeID    string
	Name      string
	Kind      types.NodeKind
	FilePath  string
	StartLine int
	EndLine   int
	Score     float64
	Rank      int // 1-indexed in the fused list
	Sources   []string
	RawScores map[string]float64
}

// VectorSearcher is the slice of the embedding index the retriever
// needs; nil means the vector side is unavailable and the retriever
// degrades to lexical-only.
type VectorSearcher interface {
	Search(ctx context.Context, query string, k int, maxDistance float64) ([]embedding.Match, error)
}

// Retriever fuses BM25 and vector results.
type Retriever struct {
	lexical     *bm25.Index
	vector      VectorSearcher
	maxDistance float64
	logger      *slog.Logger
}

// New creates a Retriever. vector may be nil. maxDistance <= 0 takes
// the embedding default.
func New(lexical *bm25.Index, vector VectorSearcher, maxDistance float64, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	if maxDistance <= 0 {
		maxDistance = embedding.DefaultMaxDistance
	}
	return &Retriever{lexical: lexical, vector: vector, maxDistance: maxDistance, logger: logger}
}

func rrf(rank int) float64 {
	return 1.0 / float64(RRFConstant+rank+1)
}

// Search requests top 3k results from each available source, fuses them
// with RRF, and returns the top k hits with 1-indexed ranks. When the
// vector side is missing or fails, hits carry only the bm25 source.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]SearchHit, error) {
	if k <= 0 {
		return nil, nil
	}
	fetch := 3 * k

	hits := make(map[string]*SearchHit)

	for rank, res := range r.lexical.Search(query, fetch) {
		id := types.FileID(res.Path)
		h := &SearchHit{
			NodeID:    id,
			Name:      res.Path,
			Kind:      types.KindFile,
			FilePath:  res.Path,
			Sources:   []string{SourceBM25},
			RawScores: map[string]float64{SourceBM25: res.Score},
			Score:     rrf(rank),
		}
		hits[id] = h
	}

	if r.vector != nil {
		matches, err := r.vector.Search(ctx, query, fetch, r.maxDistance)
		if err != nil {
			r.logger.Warn("retrieval.vector.unavailable", "error", err)
		} else {
			for rank, m := range matches {
				if h, ok := hits[m.NodeID]; ok {
					h.Score += rrf(rank)
					h.Sources = append(h.Sources, SourceSemantic)
					h.RawScores[SourceSemantic] = m.Distance
					continue
				}
				hits[m.NodeID] = &SearchHit{
					NodeID:    m.NodeID,
					Name:      m.Name,
					Kind:      m.Kind,
					FilePath:  m.FilePath,
					StartLine: m.StartLine,
					EndLine:   m.EndLine,
					Sources:   []string{SourceSemantic},
					RawScores: map[string]float64{SourceSemantic: m.Distance},
					Score:     rrf(rank),
				}
			}
		}
	}

	fused := make([]SearchHit, 0, len(hits))
	for _, h := range hits {
		fused = append(fused, *h)
	}
	sort.SliceStable(fused, func(i, j int) bool {
		if fused[i].Score != fused[j].Score {
			return fused[i].Score > fused[j].Score
		}
		return fused[i].NodeID < fused[j].NodeID
	})
	if len(fused) > k {
		fused = fused[:k]
	}
	for i := range fused {
		fused[i].Rank = i + 1
	}
	return fused, nil
}
