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
	"fmt"
	"sort"

	"github.com/cgraph/cgraph/internal/graphstore"
	"github.com/cgraph/cgraph/internal/types"
)

// DefaultMaxDistance is the search distance threshold callers filter by.
const DefaultMaxDistance = 0.5

// Match is one nearest-neighbor hit, annotated with node metadata so
// retrieval surfaces don't need a second graph lookup.
type Match struct {
	NodeID    string
	Name      string
	Kind      types.NodeKind
	FilePath  string
	StartLine int
	EndLine   int
	Distance  float64
}

// Index is the cosine nearest-neighbor index, built once after all
// vectors are stored and immutable thereafter. Vectors are expected
// unit-normalized, so cosine distance reduces to 1 - dot product.
type Index struct {
	vectors   []Vector
	dimension int
	byNode    map[string]int
}

// BuildIndex constructs the index from the generator's vector table.
func BuildIndex(vectors []Vector, dimension int) (*Index, error) {
	byNode := make(map[string]int, len(vectors))
	for i, v := range vectors {
		if len(v.Vec) != dimension {
			return nil, fmt.Errorf("embedding: vector for %s has dimension %d, want %d", v.NodeID, len(v.Vec), dimension)
		}
		byNode[v.NodeID] = i
	}
	return &Index{vectors: vectors, dimension: dimension, byNode: byNode}, nil
}

// Size returns the number of indexed vectors.
func (idx *Index) Size() int { return len(idx.vectors) }

// Has reports whether nodeID has a stored vector.
func (idx *Index) Has(nodeID string) bool {
	_, ok := idx.byNode[nodeID]
	return ok
}

// Search returns the k nearest vectors to query by cosine distance,
// closest first. Callers apply their own distance threshold.
func (idx *Index) Search(query []float32, k int) []Match {
	if len(query) != idx.dimension || k <= 0 {
		return nil
	}

	matches := make([]Match, 0, len(idx.vectors))
	for _, v := range idx.vectors {
		var dot float64
		for i := range query {
			dot += float64(query[i]) * float64(v.Vec[i])
		}
		matches = append(matches, Match{NodeID: v.NodeID, Distance: 1 - dot})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].NodeID < matches[j].NodeID
	})
	if len(matches) > k {
		matches = matches[:k]
	}
	return matches
}

// Searcher bundles a provider and an index into the vector_search
// surface: embed the query text, search, threshold, annotate.
type Searcher struct {
	provider Provider
	index    *Index
	store    *graphstore.Store
}

// NewSearcher creates a Searcher over the given index and store.
func NewSearcher(provider Provider, index *Index, store *graphstore.Store) *Searcher {
	return &Searcher{provider: provider, index: index, store: store}
}

// Search embeds query, finds the k nearest entities within maxDistance,
// and fills in each hit's node metadata. maxDistance <= 0 takes the
// default threshold.
func (s *Searcher) Search(ctx context.Context, query string, k int, maxDistance float64) ([]Match, error) {
	if maxDistance <= 0 {
		maxDistance = DefaultMaxDistance
	}

	vec, err := s.provider.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding: embed query: %w", err)
	}

	var out []Match
	for _, m := range s.index.Search(vec, k) {
		if m.Distance > maxDistance {
			continue
		}
		if n, ok := s.store.Node(m.NodeID); ok {
			m.Name = n.Name
			m.Kind = n.Kind
			m.FilePath = n.FilePath
			m.StartLine = n.StartLine
			m.EndLine = n.EndLine
		}
		out = append(out, m)
	}
	return out, nil
}
