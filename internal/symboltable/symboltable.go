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

// Package symboltable implements the two-level definition index: an
// exact per-file index and a global fuzzy-by-name index, populated only
// during parsing and read thereafter by import, call, and heritage
// resolution.
package symboltable

import (
	"sync"

	"github.com/cgraph/cgraph/internal/types"
)

// Entry is one definition recorded in the global fuzzy index.
type Entry struct {
	NodeID   string
	FilePath string
	Kind     types.NodeKind
}

// Table is the two-level symbol index.
type Table struct {
	mu sync.RWMutex

	// exact is (file_path, symbol_name) -> node_id.
	exact map[string]map[string]string

	// global is symbol_name -> list of Entry, in insertion order.
	global map[string][]Entry
}

// New creates an empty Table.
func New() *Table {
	return &Table{
		exact:  make(map[string]map[string]string),
		global: make(map[string][]Entry),
	}
}

// Insert records a definition. Called once per code-element node
// created by the Parsing Stage.
func (t *Table) Insert(filePath, name, nodeID string, kind types.NodeKind) {
	t.mu.Lock()
	defer t.mu.Unlock()

	byName, ok := t.exact[filePath]
	if !ok {
		byName = make(map[string]string)
		t.exact[filePath] = byName
	}
	if _, exists := byName[name]; !exists {
		byName[name] = nodeID
	}

	t.global[name] = append(t.global[name], Entry{NodeID: nodeID, FilePath: filePath, Kind: kind})
}

// LookupExact is the O(1) (file_path, symbol_name) -> node_id lookup.
func (t *Table) LookupExact(filePath, name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	byName, ok := t.exact[filePath]
	if !ok {
		return "", false
	}
	id, ok := byName[name]
	return id, ok
}

// LookupFuzzy returns every definition across the project named name.
func (t *Table) LookupFuzzy(name string) []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Entry(nil), t.global[name]...)
}

// NamesInFile returns the symbol names defined in filePath.
func (t *Table) NamesInFile(filePath string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	byName, ok := t.exact[filePath]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(byName))
	for name := range byName {
		out = append(out, name)
	}
	return out
}
