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

package graphquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgraph/cgraph/internal/graphstore"
	"github.com/cgraph/cgraph/internal/types"
)

// chainStore builds main -> a -> b with File and Function nodes.
func chainStore() *graphstore.Store {
	s := graphstore.New()
	s.AddNode(&types.Node{ID: "file:src/main.ts", Kind: types.KindFile, Name: "main.ts", FilePath: "src/main.ts"})
	for _, name := range []string{"main", "a", "b"} {
		s.AddNode(&types.Node{
			ID: "Function:src/main.ts:" + name, Kind: types.KindFunction,
			Name: name, FilePath: "src/main.ts", IsExported: name == "main",
		})
	}
	s.AddEdge(&types.Edge{
		ID: "calls:1", Source: "Function:src/main.ts:main", Target: "Function:src/main.ts:a",
		Kind: types.EdgeCalls, Confidence: 0.85, Reason: types.ReasonSameFile,
	})
	s.AddEdge(&types.Edge{
		ID: "calls:2", Source: "Function:src/main.ts:a", Target: "Function:src/main.ts:b",
		Kind: types.EdgeCalls, Confidence: 0.85, Reason: types.ReasonSameFile,
	})
	s.AddEdge(&types.Edge{
		ID: "defines:1", Source: "file:src/main.ts", Target: "Function:src/main.ts:main",
		Kind: types.EdgeDefines, Confidence: 1.0,
	})
	return s
}

func TestLabelFilter(t *testing.T) {
	e := New(chainStore())
	res, err := e.Query("MATCH (n:Function) RETURN n.name")
	require.NoError(t, err)
	assert.Equal(t, []string{"n.name"}, res.Headers)
	assert.Len(t, res.Rows, 3)
}

func TestRelationshipTypeFilter(t *testing.T) {
	e := New(chainStore())
	res, err := e.Query("MATCH (a:Function)-[:CALLS]->(b:Function) RETURN a.name, b.name")
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Contains(t, res.Rows, []any{"main", "a"})
	assert.Contains(t, res.Rows, []any{"a", "b"})
}

func TestBoundedPathPattern(t *testing.T) {
	e := New(chainStore())

	res, err := e.Query("MATCH (a:Function)-[:CALLS*1..2]->(b:Function) WHERE a.name = 'main' RETURN b.name")
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Contains(t, res.Rows, []any{"a"})
	assert.Contains(t, res.Rows, []any{"b"})

	// Exactly two hops reaches only b.
	res, err = e.Query("MATCH (a:Function)-[:CALLS*2]->(b:Function) WHERE a.name = 'main' RETURN b.name")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []any{"b"}, res.Rows[0])
}

func TestReverseDirection(t *testing.T) {
	e := New(chainStore())
	res, err := e.Query("MATCH (callee:Function)<-[:CALLS]-(caller:Function) WHERE callee.name = 'b' RETURN caller.name")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []any{"a"}, res.Rows[0])
}

func TestWhereContainsAndLimit(t *testing.T) {
	e := New(chainStore())
	res, err := e.Query("MATCH (n:Function) WHERE n.file_path CONTAINS 'src/' RETURN n.name LIMIT 2")
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)
}

func TestWhereBooleanProperty(t *testing.T) {
	e := New(chainStore())
	res, err := e.Query("MATCH (n:Function) WHERE n.is_exported = 'true' RETURN n.name")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []any{"main"}, res.Rows[0])
}

func TestMixedLabelChain(t *testing.T) {
	e := New(chainStore())
	res, err := e.Query("MATCH (f:File)-[:DEFINES]->(s:Function) RETURN f.file_path, s.name")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, []any{"src/main.ts", "main"}, res.Rows[0])
}

func TestParseErrors(t *testing.T) {
	e := New(chainStore())
	for _, stmt := range []string{
		"",
		"RETURN n",
		"MATCH (n:Function)",
		"MATCH (n:Function) RETURN m.name",
		"MATCH (n:Function) WHERE x.name = 'a' RETURN n.name",
		"MATCH (n:Function) WHERE n.name LIKE 'a' RETURN n.name",
		"MATCH (a)-[:CALLS*3..1]->(b) RETURN a",
	} {
		_, err := e.Query(stmt)
		assert.Error(t, err, "statement %q should not parse", stmt)
	}
}

func TestQueryNeverMutates(t *testing.T) {
	s := chainStore()
	e := New(s)
	nodesBefore, edgesBefore := s.NodeCount(), s.EdgeCount()
	_, err := e.Query("MATCH (n) RETURN n.id")
	require.NoError(t, err)
	assert.Equal(t, nodesBefore, s.NodeCount())
	assert.Equal(t, edgesBefore, s.EdgeCount())
}
