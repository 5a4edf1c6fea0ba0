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
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/cgraph/cgraph/internal/types"
)

// DefinitionMatch is one `@definition.<kind>` + `@name` pair.
type DefinitionMatch struct {
	Kind     types.NodeKind
	NameNode *sitter.Node
	DefNode  *sitter.Node
}

// ImportMatch is one `@import` + `@import.source` pair.
type ImportMatch struct {
	SourceNode *sitter.Node
}

// CallMatch is one `@call` + `@call.name` pair.
type CallMatch struct {
	CallNode *sitter.Node
	NameNode *sitter.Node
}

// HeritageMatch is one `@heritage.class` paired with its base/trait.
type HeritageMatch struct {
	ClassNode  *sitter.Node
	TargetNode *sitter.Node
	IsTrait    bool // trait-impl, Rust `impl Trait for Struct`
	IsIface    bool // implements rather than extends
}

var captureKind = map[string]types.NodeKind{
	"definition.function":    types.KindFunction,
	"definition.method":      types.KindMethod,
	"definition.class":       types.KindClass,
	"definition.interface":   types.KindInterface,
	"definition.struct":      types.KindStruct,
	"definition.enum":        types.KindEnum,
	"definition.trait":       types.KindTrait,
	"definition.impl":        types.KindImpl,
	"definition.namespace":   types.KindNamespace,
	"definition.module":      types.KindModule,
	"definition.typealias":   types.KindTypeAlias,
	"definition.typedef":     types.KindTypedef,
	"definition.macro":       types.KindMacro,
	"definition.union":       types.KindUnion,
	"definition.const":       types.KindConst,
	"definition.static":      types.KindStatic,
	"definition.property":    types.KindProperty,
	"definition.record":      types.KindRecord,
	"definition.delegate":    types.KindDelegate,
	"definition.annotation":  types.KindAnnotation,
	"definition.constructor": types.KindConstructor,
	"definition.template":    types.KindTemplate,
}

func runQuery(q *sitter.Query, root *sitter.Node) []*sitter.QueryMatch {
	if q == nil {
		return nil
	}
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q, root)

	var matches []*sitter.QueryMatch
	for {
		m, ok := cursor.NextMatch()
		if !ok {
			break
		}
		matches = append(matches, m)
	}
	return matches
}

// extractCaptures runs each of the four compiled queries over root and
// groups captures into the per-capability match lists the Parsing,
// Import, Call, and Heritage stages consume.
func extractCaptures(qc *queryCaptures, root *sitter.Node, content []byte) (defs []DefinitionMatch, imps []ImportMatch, calls []CallMatch, heritage []HeritageMatch) {
	for _, m := range runQuery(qc.definitions, root) {
		var kind types.NodeKind
		var nameNode, defNode *sitter.Node
		for _, c := range m.Captures {
			name := qc.definitions.CaptureNameForId(c.Index)
			if name == "name" {
				nameNode = c.Node
				continue
			}
			if k, ok := captureKind[name]; ok {
				kind = k
				defNode = c.Node
			}
		}
		if kind != "" && nameNode != nil {
			defs = append(defs, DefinitionMatch{Kind: kind, NameNode: nameNode, DefNode: defNode})
		}
	}

	for _, m := range runQuery(qc.imports, root) {
		for _, c := range m.Captures {
			if qc.imports.CaptureNameForId(c.Index) == "import.source" {
				imps = append(imps, ImportMatch{SourceNode: c.Node})
			}
		}
	}

	for _, m := range runQuery(qc.calls, root) {
		var callNode, nameNode *sitter.Node
		for _, c := range m.Captures {
			switch qc.calls.CaptureNameForId(c.Index) {
			case "call":
				callNode = c.Node
			case "call.name":
				nameNode = c.Node
			}
		}
		if callNode != nil && nameNode != nil {
			calls = append(calls, CallMatch{CallNode: callNode, NameNode: nameNode})
		}
	}

	for _, m := range runQuery(qc.heritage, root) {
		var classNode, extendsNode, implementsNode, traitNode *sitter.Node
		for _, c := range m.Captures {
			switch qc.heritage.CaptureNameForId(c.Index) {
			case "heritage.class":
				classNode = c.Node
			case "heritage.extends":
				extendsNode = c.Node
			case "heritage.implements":
				implementsNode = c.Node
			case "heritage.trait":
				traitNode = c.Node
			}
		}
		if classNode == nil {
			continue
		}
		if traitNode != nil {
			heritage = append(heritage, HeritageMatch{ClassNode: classNode, TargetNode: traitNode, IsTrait: true, IsIface: true})
		}
		if extendsNode != nil {
			heritage = append(heritage, HeritageMatch{ClassNode: classNode, TargetNode: extendsNode})
		}
		if implementsNode != nil {
			heritage = append(heritage, HeritageMatch{ClassNode: classNode, TargetNode: implementsNode, IsIface: true})
		}
	}

	return
}

// NodeText returns the source text spanned by n.
func NodeText(n *sitter.Node, content []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(content)
}

// IsExported implements the per-language visibility rules, walking
// ancestors of defNode when a language needs structural checks.
func IsExported(lang Language, name string, defNode *sitter.Node, content []byte) bool {
	switch lang {
	case LangPython:
		return !strings.HasPrefix(name, "_")
	case LangGo:
		return name != "" && name[0] >= 'A' && name[0] <= 'Z'
	case LangC, LangCPP:
		return false
	case LangJavaScript, LangTypeScript, LangTSX:
		for n := defNode; n != nil; n = n.Parent() {
			if n.Type() == "export_statement" {
				return true
			}
		}
		return strings.HasPrefix(strings.TrimSpace(NodeText(defNode, content)), "export")
	case LangJava, LangCSharp:
		for n := defNode; n != nil; n = n.Parent() {
			if n.Type() == "modifiers" && strings.Contains(n.Content(content), "public") {
				return true
			}
			for i := 0; i < int(n.ChildCount()); i++ {
				child := n.Child(i)
				if child.Type() == "modifiers" && strings.Contains(child.Content(content), "public") {
					return true
				}
			}
		}
		return false
	case LangRust:
		for n := defNode; n != nil; n = n.Parent() {
			if n.Type() == "visibility_modifier" {
				return strings.Contains(n.Content(content), "pub")
			}
			for i := 0; i < int(n.ChildCount()); i++ {
				child := n.Child(i)
				if child.Type() == "visibility_modifier" && strings.Contains(child.Content(content), "pub") {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}

// callableKinds are AST node types treated as callable boundaries for
// caller attribution.
var callableKinds = map[string]bool{
	"function_declaration": true, "function_definition": true, "function_item": true,
	"method_declaration": true, "method_definition": true,
	"arrow_function": true, "function_expression": true,
	"lambda": true, "closure_expression": true,
	"constructor_declaration": true,
	"impl_item":               true,
}

// EnclosingCallable walks ancestors of n up to the nearest callable
// boundary, returning its node and name node (if one exists), or nil if
// none is found (the caller is the enclosing File).
func EnclosingCallable(n *sitter.Node) (boundary *sitter.Node, nameNode *sitter.Node) {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if callableKinds[cur.Type()] {
			return cur, findNameChild(cur)
		}
	}
	return nil, nil
}

func findNameChild(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "identifier", "field_identifier", "property_identifier", "type_identifier":
			return c
		}
	}
	if fieldName := n.ChildByFieldName("name"); fieldName != nil {
		return fieldName
	}
	return nil
}
