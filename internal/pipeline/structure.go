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
	"strings"

	"github.com/cgraph/cgraph/internal/graphstore"
	"github.com/cgraph/cgraph/internal/types"
)

// runStructure builds the file tree: for each accepted
// file path, split on "/", create missing Folder nodes for each
// prefix, a File node for the leaf, and CONTAINS edges linking them.
func runStructure(store *graphstore.Store, files []FileEntry, progress ProgressFunc) {
	for i, f := range files {
		addPathStructure(store, f.Path)
		if i%200 == 0 {
			emit(progress, PhaseStructure, percentWithin(PhaseStructure, float64(i)/float64(max(len(files), 1))),
				"building file tree", &Stats{FilesProcessed: i, TotalFiles: len(files)})
		}
	}
	emit(progress, PhaseStructure, phaseRange[PhaseStructure][1], "file tree complete", &Stats{FilesProcessed: len(files), TotalFiles: len(files)})
}

func addPathStructure(store *graphstore.Store, filePath string) {
	norm := types.NormalizePath(filePath)
	if norm == "" {
		return
	}
	segments := strings.Split(norm, "/")

	var prefix string
	var prevID string
	isRoot := true

	for i, seg := range segments {
		if prefix == "" {
			prefix = seg
		} else {
			prefix = prefix + "/" + seg
		}

		isLeaf := i == len(segments)-1
		var curID string
		if isLeaf {
			curID = types.FileID(prefix)
			store.AddNode(&types.Node{ID: curID, Kind: types.KindFile, Name: seg, FilePath: prefix})
		} else {
			curID = types.FolderID(prefix)
			store.AddNode(&types.Node{ID: curID, Kind: types.KindFolder, Name: seg, FilePath: prefix})
		}

		if !isRoot {
			store.AddEdge(&types.Edge{
				ID:         "contains:" + prevID + ":" + curID,
				Source:     prevID,
				Target:     curID,
				Kind:       types.EdgeContains,
				Confidence: 1.0,
			})
		}
		prevID = curID
		isRoot = false
	}
}
