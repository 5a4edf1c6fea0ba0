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

package symboltable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgraph/cgraph/internal/types"
)

func TestExactLookup(t *testing.T) {
	tbl := New()
	tbl.Insert("a.go", "Foo", types.SymbolID(types.KindFunction, "a.go", "Foo"), types.KindFunction)

	id, ok := tbl.LookupExact("a.go", "Foo")
	require.True(t, ok)
	assert.Equal(t, types.SymbolID(types.KindFunction, "a.go", "Foo"), id)

	_, ok = tbl.LookupExact("a.go", "Bar")
	assert.False(t, ok)
}

func TestFuzzyLookupAcrossFiles(t *testing.T) {
	tbl := New()
	tbl.Insert("a.go", "Helper", "Function:a.go:Helper", types.KindFunction)
	tbl.Insert("b.go", "Helper", "Function:b.go:Helper", types.KindFunction)

	entries := tbl.LookupFuzzy("Helper")
	require.Len(t, entries, 2)
	assert.Equal(t, "a.go", entries[0].FilePath)
	assert.Equal(t, "b.go", entries[1].FilePath)
}

func TestNamesInFile(t *testing.T) {
	tbl := New()
	tbl.Insert("a.go", "Foo", "x", types.KindFunction)
	tbl.Insert("a.go", "Bar", "y", types.KindFunction)

	assert.ElementsMatch(t, []string{"Foo", "Bar"}, tbl.NamesInFile("a.go"))
	assert.Empty(t, tbl.NamesInFile("nonexistent.go"))
}
