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

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/cgraph/cgraph/internal/cgerrors"
	"github.com/cgraph/cgraph/internal/graphquery"
	"github.com/cgraph/cgraph/internal/output"
	"github.com/cgraph/cgraph/internal/snapshot"
	"github.com/cgraph/cgraph/internal/ui"
)

// QueryResultJSON is the --json rendering of a query result.
type QueryResultJSON struct {
	Headers []string `json:"headers"`
	Rows    [][]any  `json:"rows"`
	Count   int      `json:"count"`
}

// runQuery executes the 'query' CLI command against the stored graph
// snapshot.
//
// Examples:
//
//	cgraph query "MATCH (n:Function) RETURN n.name LIMIT 10"
//	cgraph query "MATCH (a:Function)-[:CALLS*1..3]->(b:Function) WHERE a.name = 'main' RETURN b.name" --json
func runQuery(args []string, repoRoot string) {
	fs := pflag.NewFlagSet("query", pflag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Output as JSON")
	noColor := fs.Bool("no-color", false, "Disable colored output")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cgraph query <statement> [options]

Runs a read-only structural query against .cgraph/graph.json.

The statement supports label filters, relationship-type filters,
bounded path patterns, WHERE conjunctions, and projections:

  MATCH (a:Function)-[:CALLS*1..3]->(b:Function)
  WHERE a.file_path CONTAINS 'src/' RETURN a.name, b.name LIMIT 20

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(cgerrors.ExitConfig)
	}
	ui.InitColors(*noColor)

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		os.Exit(cgerrors.ExitInput)
	}
	statement := strings.Join(rest, " ")

	store, _, err := snapshot.Load(SnapshotPath(repoRoot))
	if err != nil {
		cgerrors.FatalError(cgerrors.NewNotFoundError("no graph snapshot found", err.Error(), "run 'cgraph index' first"), *jsonOut)
	}

	res, err := graphquery.New(store).Query(statement)
	if err != nil {
		cgerrors.FatalError(cgerrors.NewInputError("query failed", err.Error(), "check the statement syntax against 'cgraph query --help'"), *jsonOut)
	}

	if *jsonOut {
		if err := output.Emit(QueryResultJSON{Headers: res.Headers, Rows: res.Rows, Count: len(res.Rows)}); err != nil {
			cgerrors.FatalError(err, true)
		}
		return
	}

	cells := make([][]string, len(res.Rows))
	for r, row := range res.Rows {
		cells[r] = make([]string, len(row))
		for c, v := range row {
			cells[r][c] = graphquery.FormatValue(v)
		}
	}
	output.Table(os.Stdout, res.Headers, cells)
}
