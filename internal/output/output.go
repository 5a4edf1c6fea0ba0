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

// Package output renders command results: indented JSON documents for
// --json mode and padded column tables for query rows. Each command
// builds one result value and hands it here, so machine and human
// output stay in lockstep.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Emit writes v as an indented JSON document to stdout, one trailing
// newline. This is the single rendering path for --json mode.
func Emit(v any) error {
	return EmitTo(os.Stdout, v)
}

// EmitTo writes v as an indented JSON document to w.
func EmitTo(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("output: encode result: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("output: write result: %w", err)
	}
	return nil
}

// errDoc is the JSON rendering of a failed command.
type errDoc struct {
	Error string `json:"error"`
}

// EmitError writes err as {"error": ...} to stderr, so --json consumers
// get parseable failures on the same stream errors always use.
func EmitError(err error) error {
	return EmitErrorTo(os.Stderr, err)
}

// EmitErrorTo writes err as an error document to w.
func EmitErrorTo(w io.Writer, err error) error {
	return EmitTo(w, errDoc{Error: err.Error()})
}

// Table writes headers and rows to w as left-aligned padded columns
// with a dashed rule under the header and a row count footer. Cells are
// already-rendered strings; column widths follow the widest cell.
func Table(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for c, cell := range row {
			if c < len(widths) && len(cell) > widths[c] {
				widths[c] = len(cell)
			}
		}
	}

	writeRow := func(cells []string) {
		for c, cell := range cells {
			if c < len(widths) {
				fmt.Fprintf(w, "%-*s", widths[c], cell)
				if c < len(widths)-1 {
					fmt.Fprint(w, "  ")
				}
			}
		}
		fmt.Fprintln(w)
	}

	writeRow(headers)
	rule := make([]string, len(headers))
	for i := range rule {
		rule[i] = strings.Repeat("-", widths[i])
	}
	writeRow(rule)
	for _, row := range rows {
		writeRow(row)
	}
	fmt.Fprintf(w, "\n%d row(s)\n", len(rows))
}
