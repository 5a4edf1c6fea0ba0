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

// wellKnownCalls is the built-in set of language primitives and
// ubiquitous standard-library symbols skipped by call resolution to
// avoid a combinatorial blowup resolving them against every project
// definition.
var wellKnownCalls = buildWellKnownSet()

func buildWellKnownSet() map[string]bool {
	names := []string{
		// Generic / cross-language
		"print", "println", "printf", "sprintf", "fprintf", "len", "range",
		"append", "make", "new", "delete", "copy", "panic", "recover",
		// JavaScript / TypeScript
		"log", "warn", "error", "debug", "info", "assert",
		"map", "filter", "reduce", "forEach", "find", "findIndex", "some",
		"every", "includes", "indexOf", "slice", "splice", "join", "push",
		"pop", "shift", "unshift", "concat", "sort", "reverse", "flat",
		"flatMap", "keys", "values", "entries", "toString", "valueOf",
		"useState", "useEffect", "useMemo", "useCallback", "useRef",
		"useContext", "useReducer", "setTimeout", "setInterval",
		"clearTimeout", "clearInterval", "parseInt", "parseFloat",
		"stringify", "parse", "then", "catch", "finally", "resolve", "reject",
		"require", "import",
		// Python
		"str", "int", "float", "bool", "list", "dict", "set", "tuple",
		"isinstance", "hasattr", "getattr", "setattr", "super", "open",
		"format", "enumerate", "zip", "sorted", "iter", "next", "repr",
		// Java / C#
		"toString", "equals", "hashCode", "getClass", "Console", "WriteLine",
		// Go
		"Println", "Printf", "Sprintf", "Errorf", "Fatal", "Fatalf",
		// Rust
		"println", "format", "unwrap", "expect", "clone", "to_string",
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// IsWellKnown reports whether name is in the built-in skip set.
func IsWellKnown(name string) bool { return wellKnownCalls[name] }
