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

	"github.com/cgraph/cgraph/internal/symboltable"
	"github.com/cgraph/cgraph/internal/types"
)

func TestResolveHeritageNodePrefersExactLookup(t *testing.T) {
	symbols := symboltable.New()
	symbols.Insert("k.ts", "B", "Class:k.ts:B", types.KindClass)

	assert.Equal(t, "Class:k.ts:B", resolveHeritageNode(symbols, "k.ts", "B", types.KindClass))
}

func TestResolveHeritageNodeSynthesizesWhenUnknown(t *testing.T) {
	symbols := symboltable.New()
	assert.Equal(t, "Class:k.ts:Unknown", resolveHeritageNode(symbols, "k.ts", "Unknown", types.KindClass))
	assert.Equal(t, "Impl:lib.rs:Display", resolveHeritageNode(symbols, "lib.rs", "Display", types.KindImpl))
}

func TestResolveHeritageTargetFuzzyThenPlaceholder(t *testing.T) {
	symbols := symboltable.New()
	symbols.Insert("base.ts", "Base", "Class:base.ts:Base", types.KindClass)

	// Fuzzy hit in another file wins.
	assert.Equal(t, "Class:base.ts:Base", resolveHeritageTarget(symbols, "Base", types.KindClass, "k.ts"))

	// No hit anywhere: placeholder in the referencing file.
	assert.Equal(t, "Interface:k.ts:Serializable", resolveHeritageTarget(symbols, "Serializable", types.KindInterface, "k.ts"))
}

func TestResolveHeritageTargetAmbiguousPicksFirst(t *testing.T) {
	symbols := symboltable.New()
	symbols.Insert("one.ts", "Base", "Class:one.ts:Base", types.KindClass)
	symbols.Insert("two.ts", "Base", "Class:two.ts:Base", types.KindClass)

	assert.Equal(t, "Class:one.ts:Base", resolveHeritageTarget(symbols, "Base", types.KindClass, "k.ts"))
}
