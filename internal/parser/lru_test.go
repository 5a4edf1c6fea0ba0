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

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheHitAndMiss(t *testing.T) {
	c := newASTCache(2)
	res := &ParseResult{FilePath: "a.ts"}
	c.put("a.ts", res)

	got, ok := c.get("a.ts")
	require.True(t, ok)
	assert.Same(t, res, got)

	_, ok = c.get("missing.ts")
	assert.False(t, ok)
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := newASTCache(2)
	c.put("a.ts", &ParseResult{FilePath: "a.ts"})
	c.put("b.ts", &ParseResult{FilePath: "b.ts"})

	// Touch a.ts so b.ts becomes the eviction candidate.
	_, ok := c.get("a.ts")
	require.True(t, ok)

	c.put("c.ts", &ParseResult{FilePath: "c.ts"})
	assert.Equal(t, 2, c.len())

	_, ok = c.get("b.ts")
	assert.False(t, ok)
	_, ok = c.get("a.ts")
	assert.True(t, ok)
	_, ok = c.get("c.ts")
	assert.True(t, ok)
}

func TestCacheRemoveAndClear(t *testing.T) {
	c := newASTCache(4)
	c.put("a.ts", &ParseResult{FilePath: "a.ts"})
	c.put("b.ts", &ParseResult{FilePath: "b.ts"})

	c.remove("a.ts")
	_, ok := c.get("a.ts")
	assert.False(t, ok)
	assert.Equal(t, 1, c.len())

	c.clear()
	assert.Equal(t, 0, c.len())
}
