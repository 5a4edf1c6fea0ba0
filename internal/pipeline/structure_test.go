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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cgraph/cgraph/internal/graphstore"
	"github.com/cgraph/cgraph/internal/types"
)

func TestRunStructureCreatesFolderChain(t *testing.T) {
	store := graphstore.New()
	runStructure(store, []FileEntry{{Path: "src/auth/login.ts", Content: []byte("x")}}, nil)

	assert.True(t, store.HasNode(types.FolderID("src")))
	assert.True(t, store.HasNode(types.FolderID("src/auth")))
	assert.True(t, store.HasNode(types.FileID("src/auth/login.ts")))

	edges := store.EdgesOfKind(types.EdgeContains)
	assert.Len(t, edges, 2)
}

func TestRunStructureIsIdempotent(t *testing.T) {
	store := graphstore.New()
	files := []FileEntry{
		{Path: "a/b.go", Content: []byte("x")},
		{Path: "a/c.go", Content: []byte("y")},
	}
	runStructure(store, files, nil)
	countBefore := store.NodeCount()
	runStructure(store, files, nil)
	assert.Equal(t, countBefore, store.NodeCount())
}

func TestRunStructureZeroDefinitionFile(t *testing.T) {
	store := graphstore.New()
	runStructure(store, []FileEntry{{Path: "empty.go", Content: nil}}, nil)
	assert.True(t, store.HasNode(types.FileID("empty.go")))
	assert.Empty(t, store.EdgesOfKind(types.EdgeDefines))
}
