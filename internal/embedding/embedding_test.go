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
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgraph/cgraph/internal/graphstore"
	"github.com/cgraph/cgraph/internal/types"
)

func assertUnitNorm(t *testing.T, vec []float32) {
	t.Helper()
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestMockProviderDeterministicAndNormalized(t *testing.T) {
	p := NewMockProvider(DefaultDimension, nil)
	a, err := p.Embed(context.Background(), "func login() {}")
	require.NoError(t, err)
	b, err := p.Embed(context.Background(), "func login() {}")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, DefaultDimension)
	assertUnitNorm(t, a)
}

func TestHashProviderSharedTokensAreCloser(t *testing.T) {
	p := NewHashProvider(DefaultDimension)
	ctx := context.Background()

	login, err := p.Embed(ctx, "func login user session token")
	require.NoError(t, err)
	logout, err := p.Embed(ctx, "func logout user session token")
	require.NoError(t, err)
	chart, err := p.Embed(ctx, "draw render canvas pixel color")
	require.NoError(t, err)

	dot := func(a, b []float32) float64 {
		var d float64
		for i := range a {
			d += float64(a[i]) * float64(b[i])
		}
		return d
	}
	assert.Greater(t, dot(login, logout), dot(login, chart))
	assertUnitNorm(t, login)
}

func TestHashProviderEmptyText(t *testing.T) {
	p := NewHashProvider(DefaultDimension)
	_, err := p.Embed(context.Background(), "   \n\t ")
	assert.Error(t, err)
}

func buildTestStore() (*graphstore.Store, map[string]string) {
	store := graphstore.New()
	content := strings.Join([]string{
		"export function alpha() {",
		"  return beta()",
		"}",
		"export function beta() {",
		"  return 42",
		"}",
	}, "\n")

	store.AddNode(&types.Node{ID: types.FileID("a.ts"), Kind: types.KindFile, Name: "a.ts", FilePath: "a.ts"})
	store.AddNode(&types.Node{
		ID: types.SymbolID(types.KindFunction, "a.ts", "alpha"), Kind: types.KindFunction,
		Name: "alpha", FilePath: "a.ts", StartLine: 1, EndLine: 3,
	})
	store.AddNode(&types.Node{
		ID: types.SymbolID(types.KindFunction, "a.ts", "beta"), Kind: types.KindFunction,
		Name: "beta", FilePath: "a.ts", StartLine: 4, EndLine: 6,
	})

	return store, map[string]string{"a.ts": content}
}

func TestCollectItemsCoversEligibleKinds(t *testing.T) {
	store, contents := buildTestStore()
	items := CollectItems(store, contents)

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.NodeID
	}
	assert.Contains(t, ids, "file:a.ts")
	assert.Contains(t, ids, "Function:a.ts:alpha")
	assert.Contains(t, ids, "Function:a.ts:beta")

	for _, it := range items {
		assert.NotEmpty(t, it.Text)
	}
}

func TestCollectItemsCapsFileText(t *testing.T) {
	store := graphstore.New()
	store.AddNode(&types.Node{ID: types.FileID("big.ts"), Kind: types.KindFile, Name: "big.ts", FilePath: "big.ts"})
	contents := map[string]string{"big.ts": strings.Repeat("x", 20_000)}

	items := CollectItems(store, contents)
	require.Len(t, items, 1)
	assert.Len(t, items[0].Text, 10_000)
}

func TestGenerateAndSearch(t *testing.T) {
	store, contents := buildTestStore()
	provider := NewHashProvider(DefaultDimension)
	gen := NewGenerator(provider, DefaultBatchSize, 2, nil)

	items := CollectItems(store, contents)
	var batchCalls int
	vectors, err := gen.Generate(context.Background(), items, func(done, total int) { batchCalls++ })
	require.NoError(t, err)
	require.Len(t, vectors, len(items))
	assert.Equal(t, 1, batchCalls)

	idx, err := BuildIndex(vectors, DefaultDimension)
	require.NoError(t, err)
	assert.Equal(t, len(items), idx.Size())

	searcher := NewSearcher(provider, idx, store)
	matches, err := searcher.Search(context.Background(), "export function alpha", 5, 2.0)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.NotEmpty(t, matches[0].Name)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i].Distance, matches[i-1].Distance)
	}
}

func TestGenerateCancellation(t *testing.T) {
	provider := NewHashProvider(DefaultDimension)
	gen := NewGenerator(provider, 2, 1, nil)

	items := make([]Item, 10)
	for i := range items {
		items[i] = Item{NodeID: "n", Text: "some text"}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := gen.Generate(ctx, items, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildIndexRejectsDimensionMismatch(t *testing.T) {
	_, err := BuildIndex([]Vector{{NodeID: "a", Vec: make([]float32, 3)}}, DefaultDimension)
	assert.Error(t, err)
}
