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
	"context"
	"log/slog"
	"path/filepath"

	"github.com/cgraph/cgraph/internal/cgerrors"
	"github.com/cgraph/cgraph/internal/graphstore"
	"github.com/cgraph/cgraph/internal/parser"
	"github.com/cgraph/cgraph/internal/symboltable"
	"github.com/cgraph/cgraph/internal/types"
)

// parsedFile carries forward what later stages (imports, calls,
// heritage) need without reparsing: the raw content (for CALLS/IMPORTS
// text extraction) and the parse result (for AST-anchored captures).
type parsedFile struct {
	path    string
	content []byte
	result  *parser.ParseResult
}

// runParsing implements the parsing stage: selects a language by
// extension, parses, and for every definition capture creates a node,
// a DEFINES edge, and inserts both symbol-table indices. Parse failures
// and unsupported languages are skip-file errors, never fatal.
func runParsing(ctx context.Context, pool *parser.Pool, store *graphstore.Store, symbols *symboltable.Table, files []FileEntry, logger *slog.Logger, progress ProgressFunc) ([]parsedFile, int) {
	var parsed []parsedFile
	skipped := 0

	for i, f := range files {
		select {
		case <-ctx.Done():
			return parsed, skipped
		default:
		}

		ext := filepath.Ext(f.Path)
		lang, ok := parser.LanguageFromPath(ext)
		if !ok {
			skipped++
			continue
		}

		res, err := pool.ParseFile(ctx, f.Path, ext, f.Content)
		if err != nil {
			logger.Warn("parsing.skip_file", "error", (&cgerrors.SkipFileError{FilePath: f.Path, Stage: "parsing", Reason: err}).Error())
			skipped++
			continue
		}

		for _, d := range res.Definitions {
			name := parser.NodeText(d.NameNode, f.Content)
			if name == "" {
				continue
			}
			id := types.SymbolID(d.Kind, f.Path, name)
			startLine := int(d.NameNode.StartPoint().Row) + 1
			endLine := int(d.NameNode.EndPoint().Row) + 1
			if d.DefNode != nil {
				startLine = int(d.DefNode.StartPoint().Row) + 1
				endLine = int(d.DefNode.EndPoint().Row) + 1
			}

			store.AddNode(&types.Node{
				ID:         id,
				Kind:       d.Kind,
				Name:       name,
				FilePath:   f.Path,
				StartLine:  startLine,
				EndLine:    endLine,
				IsExported: parser.IsExported(lang, name, d.DefNode, f.Content),
				Language:   string(lang),
			})

			store.AddEdge(&types.Edge{
				ID:         "defines:" + types.FileID(f.Path) + ":" + id,
				Source:     types.FileID(f.Path),
				Target:     id,
				Kind:       types.EdgeDefines,
				Confidence: 1.0,
			})

			symbols.Insert(f.Path, name, id, d.Kind)
		}

		parsed = append(parsed, parsedFile{path: f.Path, content: f.Content, result: res})

		if i%100 == 0 {
			emit(progress, PhaseParsing, percentWithin(PhaseParsing, float64(i)/float64(len(files)+1)),
				"parsing files", &Stats{FilesProcessed: i, TotalFiles: len(files), NodesCreated: store.NodeCount()})
		}
	}

	emit(progress, PhaseParsing, phaseRange[PhaseParsing][1], "parsing complete",
		&Stats{FilesProcessed: len(files) - skipped, TotalFiles: len(files), NodesCreated: store.NodeCount()})

	return parsed, skipped
}
