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
	"path"
	"strings"

	"github.com/cgraph/cgraph/internal/graphstore"
	"github.com/cgraph/cgraph/internal/parser"
	"github.com/cgraph/cgraph/internal/types"
)

// relativeSuffixes is the fixed, ordered probe list for relative
// specifiers. The index-file probes carry one entry per extension.
var relativeSuffixes = []string{
	"", ".tsx", ".ts", ".jsx", ".js",
	"/index.tsx", "/index.ts", "/index.jsx", "/index.js",
	".py", "/__init__.py",
	".java",
	".c", ".h", ".cpp", ".hpp", ".cc",
	".cs",
	".go",
	".rs", "/mod.rs",
}

// ImportMap is a file_path -> set of resolved file paths, built by the
// Import Stage and consumed by the Call Stage's tier-1 resolution.
type ImportMap map[string]map[string]bool

func (m ImportMap) add(from, to string) {
	set, ok := m[from]
	if !ok {
		set = make(map[string]bool)
		m[from] = set
	}
	set[to] = true
}

// Imports reports whether importingFile has a resolved import of target.
func (m ImportMap) Imports(importingFile, target string) bool {
	return m[importingFile][target]
}

// projectIndex supports suffix-based resolution across every accepted
// project file, case-sensitively and with a case-insensitive fallback.
type projectIndex struct {
	paths      map[string]bool
	lowerPaths map[string]string // lowercased path -> original path
}

func newProjectIndex(files []FileEntry) *projectIndex {
	pi := &projectIndex{
		paths:      make(map[string]bool, len(files)),
		lowerPaths: make(map[string]string, len(files)),
	}
	for _, f := range files {
		norm := types.NormalizePath(f.Path)
		pi.paths[norm] = true
		pi.lowerPaths[strings.ToLower(norm)] = norm
	}
	return pi
}

func (pi *projectIndex) has(p string) bool { return pi.paths[p] }

// matchSuffix finds a project file whose normalized path ends in tail,
// trying an exact match first and a case-insensitive fallback second.
func (pi *projectIndex) matchSuffix(tail string) (string, bool) {
	for p := range pi.paths {
		if strings.HasSuffix(p, tail) {
			return p, true
		}
	}
	lowerTail := strings.ToLower(tail)
	for lp, orig := range pi.lowerPaths {
		if strings.HasSuffix(lp, lowerTail) {
			return orig, true
		}
	}
	return "", false
}

// resolveImport resolves one specifier imported from sourceFile:
// relative specifiers probe the suffix list from the importing file's
// directory; wildcards stay unresolved; package-style specifiers are
// left-trimmed segment by segment and suffix-matched against the
// project index.
func resolveImport(pi *projectIndex, sourceFile, specifier string) (string, bool) {
	if strings.HasSuffix(specifier, ".*") {
		return "", false
	}

	if strings.HasPrefix(specifier, ".") {
		dir := path.Dir(types.NormalizePath(sourceFile))
		base := types.NormalizePath(path.Join(dir, specifier))
		for _, suf := range relativeSuffixes {
			candidate := base + suf
			if pi.has(candidate) {
				return candidate, true
			}
		}
		return "", false
	}

	spec := specifier
	if strings.Contains(spec, ".") && !strings.Contains(spec, "/") {
		spec = strings.ReplaceAll(spec, ".", "/")
	}
	segments := strings.Split(strings.Trim(spec, "/"), "/")

	for start := 0; start < len(segments); start++ {
		tail := strings.Join(segments[start:], "/")
		for _, suf := range relativeSuffixes {
			candidate := tail + suf
			if pi.has(candidate) {
				return candidate, true
			}
			if match, ok := pi.matchSuffix("/" + candidate); ok {
				return match, true
			}
		}
	}
	return "", false
}

// stripQuotes removes a single layer of matching quote characters from
// an import-source capture's raw text.
func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// runImports implements the import stage.
func runImports(store *graphstore.Store, files []FileEntry, parsed []parsedFile, progress ProgressFunc) ImportMap {
	pi := newProjectIndex(files)
	importMap := make(ImportMap)
	memo := make(map[string]map[string]struct {
		target string
		ok     bool
	})

	for i, pf := range parsed {
		memoForFile, ok := memo[pf.path]
		if !ok {
			memoForFile = make(map[string]struct {
				target string
				ok     bool
			})
			memo[pf.path] = memoForFile
		}

		for _, imp := range pf.result.Imports {
			spec := stripQuotes(parser.NodeText(imp.SourceNode, pf.content))
			if spec == "" {
				continue
			}

			cached, seen := memoForFile[spec]
			var target string
			var resolved bool
			if seen {
				target, resolved = cached.target, cached.ok
			} else {
				target, resolved = resolveImport(pi, pf.path, spec)
				memoForFile[spec] = struct {
					target string
					ok     bool
				}{target, resolved}
			}

			if !resolved {
				continue
			}

			importMap.add(pf.path, target)
			store.AddEdge(&types.Edge{
				ID:         "imports:" + types.FileID(pf.path) + ":" + types.FileID(target),
				Source:     types.FileID(pf.path),
				Target:     types.FileID(target),
				Kind:       types.EdgeImports,
				Confidence: 1.0,
			})
		}

		if i%100 == 0 {
			emit(progress, PhaseImports, percentWithin(PhaseImports, float64(i)/float64(len(parsed)+1)),
				"resolving imports", &Stats{FilesProcessed: i, TotalFiles: len(parsed)})
		}
	}

	emit(progress, PhaseImports, phaseRange[PhaseImports][1], "imports resolved", &Stats{FilesProcessed: len(parsed), TotalFiles: len(parsed)})
	return importMap
}
