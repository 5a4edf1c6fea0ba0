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
	"github.com/cgraph/cgraph/internal/graphstore"
	"github.com/cgraph/cgraph/internal/parser"
	"github.com/cgraph/cgraph/internal/symboltable"
	"github.com/cgraph/cgraph/internal/types"
)

// resolveHeritageNode finds the class node by exact lookup, falling
// back to a synthesized ID of the given default kind when the symbol
// table has no entry. An unresolved base never fails the edge; it gets
// a placeholder target instead.
func resolveHeritageNode(symbols *symboltable.Table, filePath, name string, fallback types.NodeKind) string {
	if id, ok := symbols.LookupExact(filePath, name); ok {
		return id
	}
	return types.SymbolID(fallback, filePath, name)
}

func resolveHeritageTarget(symbols *symboltable.Table, name string, fallback types.NodeKind, fallbackFile string) string {
	entries := symbols.LookupFuzzy(name)
	if len(entries) > 0 {
		return entries[0].NodeID
	}
	return types.SymbolID(fallback, fallbackFile, name)
}

// runHeritage implements the heritage stage.
func runHeritage(store *graphstore.Store, symbols *symboltable.Table, parsed []parsedFile, progress ProgressFunc) {
	for i, pf := range parsed {
		for _, h := range pf.result.Heritage {
			className := parser.NodeText(h.ClassNode, pf.content)
			targetName := parser.NodeText(h.TargetNode, pf.content)
			if className == "" || targetName == "" || className == targetName {
				continue
			}

			classKind := types.KindClass
			if h.IsTrait {
				classKind = types.KindImpl
			}
			classID := resolveHeritageNode(symbols, pf.path, className, classKind)

			targetFallbackKind := types.KindClass
			if h.IsIface {
				targetFallbackKind = types.KindInterface
			}
			if h.IsTrait {
				targetFallbackKind = types.KindTrait
			}
			targetID := resolveHeritageTarget(symbols, targetName, targetFallbackKind, pf.path)

			if classID == targetID {
				continue
			}

			kind := types.EdgeExtends
			reason := ""
			if h.IsIface {
				kind = types.EdgeImplements
			}
			if h.IsTrait {
				reason = types.ReasonTraitImpl
			}

			store.AddEdge(&types.Edge{
				ID:         "heritage:" + classID + ":" + targetID,
				Source:     classID,
				Target:     targetID,
				Kind:       kind,
				Confidence: 1.0,
				Reason:     reason,
			})
		}

		if i%100 == 0 {
			emit(progress, PhaseHeritage, percentWithin(PhaseHeritage, float64(i)/float64(len(parsed)+1)),
				"resolving heritage", &Stats{FilesProcessed: i, TotalFiles: len(parsed)})
		}
	}
	emit(progress, PhaseHeritage, phaseRange[PhaseHeritage][1], "heritage resolved", &Stats{FilesProcessed: len(parsed), TotalFiles: len(parsed)})
}
