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

package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgraph/cgraph/internal/bm25"
	"github.com/cgraph/cgraph/internal/embedding"
	"github.com/cgraph/cgraph/internal/types"
)

// fixedVector returns a canned match list regardless of query.
type fixedVector struct {
	matches []embedding.Match
	err     error
}

func (f *fixedVector) Search(ctx context.Context, query string, k int, maxDistance float64) ([]embedding.Match, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.matches) > k {
		return f.matches[:k], nil
	}
	return f.matches, nil
}

func TestRRFFusionBothSources(t *testing.T) {
	idx := bm25.Build(map[string]string{
		"auth/login.ts": "login password credentials validate",
		"other.ts":      "unrelated render canvas",
	})

	// login.ts appears at rank 0 lexically and rank 2 in vector results.
	vec := &fixedVector{matches: []embedding.Match{
		{NodeID: "Function:auth/login.ts:check", Name: "check", Kind: types.KindFunction, FilePath: "auth/login.ts", Distance: 0.1},
		{NodeID: "Function:auth/session.ts:start", Name: "start", Kind: types.KindFunction, FilePath: "auth/session.ts", Distance: 0.2},
		{NodeID: types.FileID("auth/login.ts"), Name: "auth/login.ts", Kind: types.KindFile, FilePath: "auth/login.ts", Distance: 0.3},
	}}

	r := New(idx, vec, 0.5, nil)
	hits, err := r.Search(context.Background(), "login password", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	var fused *SearchHit
	for i := range hits {
		if hits[i].NodeID == "file:auth/login.ts" {
			fused = &hits[i]
		}
	}
	require.NotNil(t, fused)
	assert.ElementsMatch(t, []string{SourceBM25, SourceSemantic}, fused.Sources)
	// 1/(60+0+1) + 1/(60+2+1)
	assert.InDelta(t, 1.0/61.0+1.0/63.0, fused.Score, 1e-9)
	assert.Contains(t, fused.RawScores, SourceBM25)
	assert.Contains(t, fused.RawScores, SourceSemantic)
}

func TestRanksAreOneIndexedAndDescending(t *testing.T) {
	idx := bm25.Build(map[string]string{
		"a.ts": "alpha beta gamma",
		"b.ts": "alpha beta",
		"c.ts": "alpha",
	})
	r := New(idx, nil, 0, nil)
	hits, err := r.Search(context.Background(), "alpha", 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	for i, h := range hits {
		assert.Equal(t, i+1, h.Rank)
		if i > 0 {
			assert.LessOrEqual(t, h.Score, hits[i-1].Score)
		}
	}
}

func TestVectorUnavailableFallsBackToLexical(t *testing.T) {
	idx := bm25.Build(map[string]string{"a.ts": "alpha beta"})

	r := New(idx, nil, 0, nil)
	hits, err := r.Search(context.Background(), "alpha", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, []string{SourceBM25}, hits[0].Sources)

	r = New(idx, &fixedVector{err: assert.AnError}, 0, nil)
	hits, err = r.Search(context.Background(), "alpha", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, []string{SourceBM25}, hits[0].Sources)
}

func TestSearchZeroK(t *testing.T) {
	idx := bm25.Build(map[string]string{"a.ts": "alpha"})
	r := New(idx, nil, 0, nil)
	hits, err := r.Search(context.Background(), "alpha", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
