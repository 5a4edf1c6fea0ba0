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

// Package types defines the tagged-variant node and edge representation
// shared by every stage of the ingestion pipeline, plus the deterministic
// ID scheme from which the graph's dedup and round-trip guarantees follow.
//
// The representation is flat and string-ID-keyed rather than a pointer
// graph: nodes and edges are looked up by ID in flat maps, never
// referenced directly, so the whole store can be discarded or snapshotted
// without chasing cycles.
package types

import (
	"fmt"
	"path"
	"strings"
)

// NodeKind tags the variant a Node carries.
type NodeKind string

const (
	KindFolder      NodeKind = "Folder"
	KindFile        NodeKind = "File"
	KindFunction    NodeKind = "Function"
	KindMethod      NodeKind = "Method"
	KindClass       NodeKind = "Class"
	KindInterface   NodeKind = "Interface"
	KindStruct      NodeKind = "Struct"
	KindEnum        NodeKind = "Enum"
	KindTrait       NodeKind = "Trait"
	KindImpl        NodeKind = "Impl"
	KindNamespace   NodeKind = "Namespace"
	KindModule      NodeKind = "Module"
	KindTypeAlias   NodeKind = "TypeAlias"
	KindTypedef     NodeKind = "Typedef"
	KindMacro       NodeKind = "Macro"
	KindUnion       NodeKind = "Union"
	KindConst       NodeKind = "Const"
	KindStatic      NodeKind = "Static"
	KindProperty    NodeKind = "Property"
	KindRecord      NodeKind = "Record"
	KindDelegate    NodeKind = "Delegate"
	KindAnnotation  NodeKind = "Annotation"
	KindConstructor NodeKind = "Constructor"
	KindTemplate    NodeKind = "Template"
	KindCodeElement NodeKind = "CodeElement"
	KindCommunity   NodeKind = "Community"
	KindProcess     NodeKind = "Process"
)

// codeElementKinds are the kinds produced by the parsing stage that
// are addressable by the symbol table and eligible for CALLS/heritage
// resolution, embedding, and community membership.
var codeElementKinds = map[NodeKind]bool{
	KindFunction: true, KindMethod: true, KindClass: true, KindInterface: true,
	KindStruct: true, KindEnum: true, KindTrait: true, KindImpl: true,
	KindNamespace: true, KindModule: true, KindTypeAlias: true, KindTypedef: true,
	KindMacro: true, KindUnion: true, KindConst: true, KindStatic: true,
	KindProperty: true, KindRecord: true, KindDelegate: true, KindAnnotation: true,
	KindConstructor: true, KindTemplate: true, KindCodeElement: true,
}

// IsCodeElement reports whether kind is a symbol-table-addressable definition.
func IsCodeElement(kind NodeKind) bool { return codeElementKinds[kind] }

// Node is the shared header plus kind-specific refinements, all inlined
// into a single struct (a tagged variant keyed by Kind). Fields that only
// apply to some kinds are left zero-valued for the rest.
type Node struct {
	ID       string
	Kind     NodeKind
	Name     string
	FilePath string

	// Code-element refinements.
	StartLine  int
	EndLine    int
	IsExported bool
	Language   string
	Content    string

	// Community refinements.
	SymbolCount int
	Cohesion    float64
	MemberIDs   []string

	// Process refinements.
	StepCount   int
	EntryPoint  string
	Terminal    string
	ProcessKind string // "intra_community" | "cross_community"
}

// EdgeKind tags the variant an Edge carries.
type EdgeKind string

const (
	EdgeContains       EdgeKind = "CONTAINS"
	EdgeDefines        EdgeKind = "DEFINES"
	EdgeImports        EdgeKind = "IMPORTS"
	EdgeCalls          EdgeKind = "CALLS"
	EdgeExtends        EdgeKind = "EXTENDS"
	EdgeImplements     EdgeKind = "IMPLEMENTS"
	EdgeMemberOf       EdgeKind = "MEMBER_OF"
	EdgeStepInProcess  EdgeKind = "STEP_IN_PROCESS"
)

// Resolution reasons recorded on CALLS and trait-impl IMPLEMENTS edges.
const (
	ReasonImportResolved = "import-resolved"
	ReasonSameFile       = "same-file"
	ReasonFuzzyGlobal    = "fuzzy-global"
	ReasonTraitImpl      = "trait-impl"
)

// Edge is the shared header plus kind-specific refinements.
type Edge struct {
	ID         string
	Source     string
	Target     string
	Kind       EdgeKind
	Confidence float64
	Reason     string

	// STEP_IN_PROCESS refinement: 1-indexed position within the process.
	Step int
}

// NormalizePath converts backslashes to forward slashes, strips a leading
// "./", and cleans redundant separators, matching the ignore filter's
// normalization so IDs and ignore rules agree.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// FolderID returns the deterministic ID for a directory node.
func FolderID(dirPath string) string {
	return fmt.Sprintf("folder:%s", NormalizePath(dirPath))
}

// FileID returns the deterministic ID for a file node.
func FileID(filePath string) string {
	return fmt.Sprintf("file:%s", NormalizePath(filePath))
}

// SymbolID returns the deterministic ID for a definition of the given
// kind, declared in filePath, named name. The `<kind>:<file_path>:<name>`
// scheme is what makes re-runs over identical input reproduce identical
// graphs.
func SymbolID(kind NodeKind, filePath, name string) string {
	return fmt.Sprintf("%s:%s:%s", kind, NormalizePath(filePath), name)
}

// CommunityID returns the deterministic ID for the community at index i
// (0-based internally; the label carries the human-facing numbering).
func CommunityID(i int) string {
	return fmt.Sprintf("comm_%d", i)
}

// ProcessID returns the deterministic ID for the ordinal-th retained
// trace, rooted at a seed named headName.
func ProcessID(ordinal int, headName string) string {
	return fmt.Sprintf("proc_%d_%s", ordinal, safeName(headName))
}

func safeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "anon"
	}
	return b.String()
}
