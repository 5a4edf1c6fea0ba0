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

package bm25

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRanksMatchingDocFirst(t *testing.T) {
	idx := Build(map[string]string{
		"auth/login.ts":   "function loginUser(credentials) { validatePassword(credentials) }",
		"auth/logout.ts":  "function logoutUser(session) { clearSession(session) }",
		"render/chart.ts": "function drawChart(canvas) { canvas.render() }",
	})

	results := idx.Search("login password", 10)
	require.NotEmpty(t, results)
	assert.Equal(t, "auth/login.ts", results[0].Path)
	for _, r := range results {
		assert.Greater(t, r.Score, 0.0)
	}
}

func TestSearchNoMatch(t *testing.T) {
	idx := Build(map[string]string{"a.go": "package main"})
	assert.Empty(t, idx.Search("zzzzunknownterm", 5))
	assert.Empty(t, idx.Search("", 5))
}

func TestSearchRespectsK(t *testing.T) {
	contents := map[string]string{
		"a.ts": "widget factory widget",
		"b.ts": "widget assembly line",
		"c.ts": "widget polish station",
	}
	idx := Build(contents)
	results := idx.Search("widget", 2)
	assert.Len(t, results, 2)
}

func TestAddIsFirstWriteWins(t *testing.T) {
	idx := New()
	idx.Add("a.ts", "original content here")
	idx.Add("a.ts", "replacement text")
	assert.Equal(t, 1, idx.DocCount())

	results := idx.Search("original", 5)
	require.Len(t, results, 1)
	assert.Equal(t, "a.ts", results[0].Path)
}

func TestTokenizeSplitsIdentifiers(t *testing.T) {
	terms := Tokenize("parseFile snake_case_name HTTPServer")
	// Stemmed forms; the exact stems matter less than the splits.
	assert.Contains(t, terms, "pars")
	assert.Contains(t, terms, "file")
	assert.Contains(t, terms, "snake")
	assert.Contains(t, terms, "server")
}

func TestTokenizeDropsStopwordsAndShortTerms(t *testing.T) {
	terms := Tokenize("the function returns a value if x")
	assert.NotContains(t, terms, "the")
	assert.NotContains(t, terms, "function")
	assert.NotContains(t, terms, "if")
	assert.NotContains(t, terms, "a")
	assert.NotContains(t, terms, "x")
	assert.Contains(t, terms, "valu")
}

func TestCamelCaseQueryHitsCamelCaseDoc(t *testing.T) {
	idx := Build(map[string]string{
		"handler.ts": "export function handleRequest(req) {}",
	})
	results := idx.Search("handle request", 5)
	require.Len(t, results, 1)
	assert.Equal(t, "handler.ts", results[0].Path)
}
