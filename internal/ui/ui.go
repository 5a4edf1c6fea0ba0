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

// Package ui renders graph entities for terminal output: node kinds get
// a stable color per family, call confidence is traffic-lighted by
// resolution tier, and source locations and search-source tags are
// dimmed so the symbol names stay prominent.
//
// All helpers respect NO_COLOR and the --no-color flag via InitColors;
// fatih/color additionally disables itself when stdout is not a TTY.
package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/cgraph/cgraph/internal/types"
)

var (
	ok   = color.New(color.FgGreen)
	warn = color.New(color.FgYellow)
	fail = color.New(color.FgRed)
	note = color.New(color.FgCyan)
	bold = color.New(color.Bold)
	dim  = color.New(color.Faint)

	// Kind families: containers, callables, type shapes, and the
	// derived (community/process) nodes each get one color so a mixed
	// result list reads by shape at a glance.
	containerColor = color.New(color.FgBlue)
	callableColor  = color.New(color.FgGreen)
	typeColor      = color.New(color.FgMagenta)
	derivedColor   = color.New(color.FgCyan)
)

// InitColors applies the --no-color flag globally. Call once after flag
// parsing; NO_COLOR is honored by the color library regardless.
func InitColors(noColor bool) {
	if noColor {
		color.NoColor = true
	}
}

// Okf prints a green confirmation line.
func Okf(format string, args ...any) {
	_, _ = ok.Printf("✓ "+format+"\n", args...)
}

// Warnf prints a yellow warning line.
func Warnf(format string, args ...any) {
	_, _ = warn.Printf("⚠ "+format+"\n", args...)
}

// Failf prints a red failure line.
func Failf(format string, args ...any) {
	_, _ = fail.Printf("✗ "+format+"\n", args...)
}

// Notef prints a cyan informational line.
func Notef(format string, args ...any) {
	_, _ = note.Printf("ℹ "+format+"\n", args...)
}

// Title prints a bold heading with an underline the width of the text.
func Title(text string) {
	_, _ = bold.Println(text)
	fmt.Println(strings.Repeat("=", len(text)))
}

// Section prints a bold sub-heading.
func Section(text string) {
	_, _ = bold.Println(text)
}

// Label returns text bolded for inline use before a value.
func Label(text string) string {
	return bold.Sprint(text)
}

// Dim returns text faint, for paths and other secondary detail.
func Dim(text string) string {
	return dim.Sprint(text)
}

// Count returns n cyan, for statistics rows.
func Count(n int) string {
	return note.Sprint(n)
}

var callableKinds = map[types.NodeKind]bool{
	types.KindFunction: true, types.KindMethod: true,
	types.KindConstructor: true, types.KindMacro: true,
}

var containerKinds = map[types.NodeKind]bool{
	types.KindFolder: true, types.KindFile: true,
	types.KindNamespace: true, types.KindModule: true,
}

var derivedKinds = map[types.NodeKind]bool{
	types.KindCommunity: true, types.KindProcess: true,
}

// Kind returns the kind name colored by family: blue containers, green
// callables, cyan derived nodes, magenta everything type-shaped.
func Kind(kind types.NodeKind) string {
	switch {
	case containerKinds[kind]:
		return containerColor.Sprint(string(kind))
	case callableKinds[kind]:
		return callableColor.Sprint(string(kind))
	case derivedKinds[kind]:
		return derivedColor.Sprint(string(kind))
	default:
		return typeColor.Sprint(string(kind))
	}
}

// Confidence renders a resolution confidence traffic-lighted by tier:
// green for syntax-certain and import/same-file resolution (>= 0.85),
// yellow for a unique fuzzy match (>= 0.5), red for an ambiguous pick.
func Confidence(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	switch {
	case v >= 0.85:
		return ok.Sprint(s)
	case v >= 0.5:
		return warn.Sprint(s)
	default:
		return fail.Sprint(s)
	}
}

// Location formats a path with an optional 1-based line, dimmed. Line 0
// means the entity has no line span (folders, files).
func Location(path string, line int) string {
	if line > 0 {
		return dim.Sprintf("%s:%d", path, line)
	}
	return dim.Sprint(path)
}

// SourceTags renders the retrieval sources that contributed a hit, e.g.
// "[bm25+semantic]", dimmed.
func SourceTags(sources []string) string {
	return dim.Sprintf("[%s]", strings.Join(sources, "+"))
}
