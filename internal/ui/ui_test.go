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

package ui

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/cgraph/cgraph/internal/types"
)

// withoutColor runs fn with color output forced off so Sprint results
// are comparable as plain strings.
func withoutColor(t *testing.T, fn func()) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()
	fn()
}

func TestInitColorsDisables(t *testing.T) {
	prev := color.NoColor
	defer func() { color.NoColor = prev }()

	color.NoColor = false
	InitColors(true)
	assert.True(t, color.NoColor)

	// InitColors(false) must not re-enable color that NO_COLOR or a
	// non-TTY already turned off.
	InitColors(false)
	assert.True(t, color.NoColor)
}

func TestKindCoversEveryFamily(t *testing.T) {
	withoutColor(t, func() {
		assert.Equal(t, "File", Kind(types.KindFile))
		assert.Equal(t, "Folder", Kind(types.KindFolder))
		assert.Equal(t, "Function", Kind(types.KindFunction))
		assert.Equal(t, "Method", Kind(types.KindMethod))
		assert.Equal(t, "Class", Kind(types.KindClass))
		assert.Equal(t, "Interface", Kind(types.KindInterface))
		assert.Equal(t, "Community", Kind(types.KindCommunity))
		assert.Equal(t, "Process", Kind(types.KindProcess))
	})
}

func TestKindColorsByFamily(t *testing.T) {
	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = false

	// Same family, same escape sequence; different family, different one.
	assert.Equal(t,
		Kind(types.KindFunction)[:5],
		Kind(types.KindMethod)[:5])
	assert.NotEqual(t,
		Kind(types.KindFunction)[:5],
		Kind(types.KindFile)[:5])
}

func TestConfidenceTiers(t *testing.T) {
	withoutColor(t, func() {
		assert.Equal(t, "1.00", Confidence(1.0))
		assert.Equal(t, "0.90", Confidence(0.9))
		assert.Equal(t, "0.85", Confidence(0.85))
		assert.Equal(t, "0.50", Confidence(0.5))
		assert.Equal(t, "0.30", Confidence(0.3))
	})

	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = false

	// The three tiers render with three distinct colors.
	high := Confidence(0.9)[:5]
	mid := Confidence(0.5)[:5]
	low := Confidence(0.3)[:5]
	assert.NotEqual(t, high, mid)
	assert.NotEqual(t, mid, low)
	assert.NotEqual(t, high, low)
}

func TestLocationWithAndWithoutLine(t *testing.T) {
	withoutColor(t, func() {
		assert.Equal(t, "src/auth/login.ts:42", Location("src/auth/login.ts", 42))
		assert.Equal(t, "src/auth", Location("src/auth", 0))
	})
}

func TestSourceTags(t *testing.T) {
	withoutColor(t, func() {
		assert.Equal(t, "[bm25]", SourceTags([]string{"bm25"}))
		assert.Equal(t, "[bm25+semantic]", SourceTags([]string{"bm25", "semantic"}))
	})
}

func TestLabelDimCountPlain(t *testing.T) {
	withoutColor(t, func() {
		assert.Equal(t, "Nodes:", Label("Nodes:"))
		assert.Equal(t, ".cgraph/graph.json", Dim(".cgraph/graph.json"))
		assert.Equal(t, "42", Count(42))
	})
}
