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
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/cgraph/cgraph/internal/graphstore"
	"github.com/cgraph/cgraph/internal/parser"
	"github.com/cgraph/cgraph/internal/symboltable"
	"github.com/cgraph/cgraph/internal/types"
)

var callableKindGuess = map[string]types.NodeKind{
	"function_declaration": types.KindFunction,
	"function_definition":  types.KindFunction,
	"function_item":        types.KindFunction,
	"method_declaration":   types.KindMethod,
	"method_definition":    types.KindMethod,
	"constructor_declaration": types.KindConstructor,
	"impl_item":            types.KindImpl,
	"arrow_function":       types.KindFunction,
	"function_expression":  types.KindFunction,
	"lambda":               types.KindFunction,
	"closure_expression":   types.KindFunction,
}

// callerID derives the graph ID of the callable enclosing a call site,
// preferring the symbol table's exact ID over a synthesized one, and
// falling back to the enclosing File when no callable boundary exists.
func callerID(symbols *symboltable.Table, filePath string, callNode *sitter.Node, content []byte) string {
	boundary, nameNode := parser.EnclosingCallable(callNode)
	if boundary == nil {
		return types.FileID(filePath)
	}

	name := parser.NodeText(nameNode, content)
	if name == "" {
		name = "<anonymous>"
	}

	if id, ok := symbols.LookupExact(filePath, name); ok {
		return id
	}

	kind, ok := callableKindGuess[boundary.Type()]
	if !ok {
		kind = types.KindFunction
	}
	return types.SymbolID(kind, filePath, name)
}

// resolveCallee resolves a call target through the tiers in order:
// defined in an imported file, defined in the same file, unique global
// match, ambiguous global match (first wins, reduced confidence).
func resolveCallee(symbols *symboltable.Table, importMap ImportMap, callerFile, calleeName string) (targetID string, confidence float64, reason string, ok bool) {
	entries := symbols.LookupFuzzy(calleeName)
	if len(entries) == 0 {
		return "", 0, "", false
	}

	imported := importMap[callerFile]
	for _, e := range entries {
		if imported[e.FilePath] {
			return e.NodeID, 0.9, types.ReasonImportResolved, true
		}
	}

	if id, ok := symbols.LookupExact(callerFile, calleeName); ok {
		return id, 0.85, types.ReasonSameFile, true
	}

	if len(entries) == 1 {
		return entries[0].NodeID, 0.5, types.ReasonFuzzyGlobal, true
	}
	return entries[0].NodeID, 0.3, types.ReasonFuzzyGlobal, true
}

// runCalls implements the call stage.
func runCalls(store *graphstore.Store, symbols *symboltable.Table, importMap ImportMap, parsed []parsedFile, progress ProgressFunc) {
	for i, pf := range parsed {
		for _, call := range pf.result.Calls {
			name := parser.NodeText(call.NameNode, pf.content)
			if name == "" || IsWellKnown(name) {
				continue
			}

			caller := callerID(symbols, pf.path, call.CallNode, pf.content)
			targetID, confidence, reason, ok := resolveCallee(symbols, importMap, pf.path, name)
			if !ok {
				continue
			}

			store.AddEdge(&types.Edge{
				ID:         "calls:" + caller + ":" + name + ":" + targetID,
				Source:     caller,
				Target:     targetID,
				Kind:       types.EdgeCalls,
				Confidence: confidence,
				Reason:     reason,
			})
		}

		if i%100 == 0 {
			emit(progress, PhaseCalls, percentWithin(PhaseCalls, float64(i)/float64(len(parsed)+1)),
				"resolving calls", &Stats{FilesProcessed: i, TotalFiles: len(parsed)})
		}
	}
	emit(progress, PhaseCalls, phaseRange[PhaseCalls][1], "calls resolved", &Stats{FilesProcessed: len(parsed), TotalFiles: len(parsed)})
}
