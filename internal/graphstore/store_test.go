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

package graphstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgraph/cgraph/internal/types"
)

func TestAddNodeIdempotent(t *testing.T) {
	s := New()
	n := &types.Node{ID: types.FileID("a/b.go"), Kind: types.KindFile, FilePath: "a/b.go"}

	s.AddNode(n)
	require.Equal(t, 1, s.NodeCount())

	dup := &types.Node{ID: n.ID, Kind: types.KindFile, FilePath: "a/b.go", Name: "different"}
	s.AddNode(dup)

	assert.Equal(t, 1, s.NodeCount(), "re-adding an existing ID must not grow the store")
	got, ok := s.Node(n.ID)
	require.True(t, ok)
	assert.Empty(t, got.Name, "first-write-wins: the original node must not be overwritten")
}

func TestAddEdgeIdempotent(t *testing.T) {
	s := New()
	fileA := types.FileID("a.go")
	fileB := types.FileID("b.go")
	e := &types.Edge{ID: "e1", Source: fileA, Target: fileB, Kind: types.EdgeImports}

	s.AddEdge(e)
	s.AddEdge(&types.Edge{ID: "e1", Source: fileA, Target: fileB, Kind: types.EdgeImports, Confidence: 0.9})

	assert.Equal(t, 1, s.EdgeCount())
}

func TestIndicesTrackInsertions(t *testing.T) {
	s := New()
	fn := &types.Node{ID: types.SymbolID(types.KindFunction, "a.go", "Foo"), Kind: types.KindFunction, FilePath: "a.go", Name: "Foo"}
	s.AddNode(fn)

	assert.Contains(t, s.NodesInFile("a.go"), fn.ID)
	assert.Contains(t, s.NodesOfKind(types.KindFunction), fn.ID)

	caller := types.SymbolID(types.KindFunction, "a.go", "Bar")
	s.AddEdge(&types.Edge{ID: "call1", Source: caller, Target: fn.ID, Kind: types.EdgeCalls, Confidence: 0.9})

	assert.Len(t, s.EdgesTo(fn.ID), 1)
	assert.Len(t, s.EdgesFrom(caller), 1)
	assert.Equal(t, 1, s.InDegree(fn.ID, types.EdgeCalls))
	assert.Equal(t, 0, s.InDegree(fn.ID, types.EdgeImports))
}

func TestHasNode(t *testing.T) {
	s := New()
	id := types.FileID("x.go")
	assert.False(t, s.HasNode(id))
	s.AddNode(&types.Node{ID: id, Kind: types.KindFile, FilePath: "x.go"})
	assert.True(t, s.HasNode(id))
}
