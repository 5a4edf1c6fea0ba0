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
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// queryCaptures holds the compiled, per-capability query for one
// language: definitions, imports, calls, and heritage. Each is compiled
// as its own query, so a compile failure names the capability that
// failed; a capability with no query source is left nil.
type queryCaptures struct {
	definitions *sitter.Query
	imports     *sitter.Query
	calls       *sitter.Query
	heritage    *sitter.Query
}

// querySource gives the four S-expression query strings for lang. Named
// captures follow the @definition.<kind>/@name, @import/@import.source,
// @call/@call.name, and @heritage.* convention the extraction code keys
// on.
func querySource(lang Language) (definitions, imports, calls, heritage string) {
	switch lang {
	case LangGo:
		definitions = `
			(function_declaration name: (identifier) @name) @definition.function
			(method_declaration name: (field_identifier) @name) @definition.method
			(type_spec name: (type_identifier) @name type: (struct_type)) @definition.struct
			(type_spec name: (type_identifier) @name type: (interface_type)) @definition.interface
			(type_spec name: (type_identifier) @name) @definition.typealias
			(const_spec name: (identifier) @name) @definition.const
		`
		imports = `(import_spec path: (interpreted_string_literal) @import.source) @import`
		calls = `(call_expression function: (identifier) @call.name) @call
			(call_expression function: (selector_expression field: (field_identifier) @call.name)) @call`
		heritage = ``

	case LangTypeScript, LangTSX, LangJavaScript:
		definitions = `
			(function_declaration name: (identifier) @name) @definition.function
			(class_declaration name: (type_identifier) @name) @definition.class
			(method_definition name: (property_identifier) @name) @definition.method
			(interface_declaration name: (type_identifier) @name) @definition.interface
			(lexical_declaration (variable_declarator name: (identifier) @name value: (arrow_function))) @definition.function
			(variable_declarator name: (identifier) @name value: (arrow_function)) @definition.function
		`
		imports = `(import_statement source: (string) @import.source) @import
			(call_expression function: (identifier) @_req (#eq? @_req "require") arguments: (arguments (string) @import.source)) @import`
		calls = `(call_expression function: (identifier) @call.name) @call
			(call_expression function: (member_expression property: (property_identifier) @call.name)) @call`
		heritage = `(class_declaration name: (type_identifier) @heritage.class
				(class_heritage (extends_clause value: (identifier) @heritage.extends)))
			(class_declaration name: (type_identifier) @heritage.class
				(class_heritage (implements_clause (type_identifier) @heritage.implements)))`

	case LangPython:
		definitions = `
			(function_definition name: (identifier) @name) @definition.function
			(class_definition name: (identifier) @name) @definition.class
		`
		imports = `(import_from_statement module_name: (dotted_name) @import.source) @import
			(import_statement name: (dotted_name) @import.source) @import`
		calls = `(call function: (identifier) @call.name) @call
			(call function: (attribute attribute: (identifier) @call.name)) @call`
		heritage = `(class_definition name: (identifier) @heritage.class
			superclasses: (argument_list (identifier) @heritage.extends))`

	case LangJava:
		definitions = `
			(method_declaration name: (identifier) @name) @definition.method
			(class_declaration name: (identifier) @name) @definition.class
			(interface_declaration name: (identifier) @name) @definition.interface
			(constructor_declaration name: (identifier) @name) @definition.constructor
		`
		imports = `(import_declaration (scoped_identifier) @import.source) @import`
		calls = `(method_invocation name: (identifier) @call.name) @call`
		heritage = `(class_declaration name: (identifier) @heritage.class
				superclass: (superclass (type_identifier) @heritage.extends))
			(class_declaration name: (identifier) @heritage.class
				interfaces: (super_interfaces (type_list (type_identifier) @heritage.implements)))`

	case LangC, LangCPP:
		definitions = `
			(function_definition declarator: (function_declarator declarator: (identifier) @name)) @definition.function
			(struct_specifier name: (type_identifier) @name) @definition.struct
			(class_specifier name: (type_identifier) @name) @definition.class
			(union_specifier name: (type_identifier) @name) @definition.union
			(enum_specifier name: (type_identifier) @name) @definition.enum
		`
		imports = `(preproc_include path: (string_literal) @import.source) @import
			(preproc_include path: (system_lib_string) @import.source) @import`
		calls = `(call_expression function: (identifier) @call.name) @call
			(call_expression function: (field_expression field: (field_identifier) @call.name)) @call`
		heritage = `(class_specifier name: (type_identifier) @heritage.class
			(base_class_clause (type_identifier) @heritage.extends))`

	case LangCSharp:
		definitions = `
			(method_declaration name: (identifier) @name) @definition.method
			(class_declaration name: (identifier) @name) @definition.class
			(interface_declaration name: (identifier) @name) @definition.interface
			(struct_declaration name: (identifier) @name) @definition.struct
			(constructor_declaration name: (identifier) @name) @definition.constructor
		`
		imports = `(using_directive (qualified_name) @import.source) @import`
		calls = `(invocation_expression function: (identifier) @call.name) @call
			(invocation_expression function: (member_access_expression name: (identifier) @call.name)) @call`
		heritage = `(class_declaration name: (identifier) @heritage.class
			bases: (base_list (identifier) @heritage.extends))`

	case LangRust:
		definitions = `
			(function_item name: (identifier) @name) @definition.function
			(struct_item name: (type_identifier) @name) @definition.struct
			(enum_item name: (type_identifier) @name) @definition.enum
			(trait_item name: (type_identifier) @name) @definition.trait
			(impl_item type: (type_identifier) @name) @definition.impl
		`
		imports = `(use_declaration argument: (scoped_identifier) @import.source) @import
			(use_declaration argument: (identifier) @import.source) @import`
		calls = `(call_expression function: (identifier) @call.name) @call
			(call_expression function: (field_expression field: (field_identifier) @call.name)) @call`
		heritage = `(impl_item trait: (type_identifier) @heritage.trait type: (type_identifier) @heritage.class) @heritage`
	}
	return
}

// compileQueries compiles the four capability queries for lang, each
// independently; a capability that fails to compile is left nil and the
// first failure is returned. The pool turns that failure into a
// skip-file error for files of lang; other languages are unaffected.
func compileQueries(lang Language, sl *sitter.Language) (*queryCaptures, error) {
	defSrc, impSrc, callSrc, herSrc := querySource(lang)

	qc := &queryCaptures{}
	var firstErr error

	if defSrc != "" {
		q, err := sitter.NewQuery([]byte(defSrc), sl)
		if err != nil {
			firstErr = fmt.Errorf("definitions query: %w", err)
		} else {
			qc.definitions = q
		}
	}
	if impSrc != "" {
		q, err := sitter.NewQuery([]byte(impSrc), sl)
		if err == nil {
			qc.imports = q
		} else if firstErr == nil {
			firstErr = fmt.Errorf("imports query: %w", err)
		}
	}
	if callSrc != "" {
		q, err := sitter.NewQuery([]byte(callSrc), sl)
		if err == nil {
			qc.calls = q
		} else if firstErr == nil {
			firstErr = fmt.Errorf("calls query: %w", err)
		}
	}
	if herSrc != "" {
		q, err := sitter.NewQuery([]byte(herSrc), sl)
		if err == nil {
			qc.heritage = q
		} else if firstErr == nil {
			firstErr = fmt.Errorf("heritage query: %w", err)
		}
	}

	return qc, firstErr
}
