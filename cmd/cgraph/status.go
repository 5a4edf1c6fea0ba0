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
	"sort"
	"time"

	"github.com/spf13/pflag"

	"github.com/cgraph/cgraph/internal/cgerrors"
	"github.com/cgraph/cgraph/internal/config"
	"github.com/cgraph/cgraph/internal/output"
	"github.com/cgraph/cgraph/internal/snapshot"
	"github.com/cgraph/cgraph/internal/types"
	"github.com/cgraph/cgraph/internal/ui"
)

// StatusResult represents the graph status for JSON output.
type StatusResult struct {
	ProjectID   string         `json:"project_id"`
	Snapshot    string         `json:"snapshot"`
	Nodes       int            `json:"nodes"`
	Edges       int            `json:"edges"`
	Files       int            `json:"files"`
	Communities int            `json:"communities"`
	Processes   int            `json:"processes"`
	NodeKinds   map[string]int `json:"node_kinds"`
	EdgeKinds   map[string]int `json:"edge_kinds"`
	Timestamp   time.Time      `json:"timestamp"`
}

// runStatus executes the 'status' CLI command, summarizing the stored
// graph snapshot.
//
// Flags:
//   - --json: Output results as JSON (default: false)
func runStatus(args []string, repoRoot string) {
	fs := pflag.NewFlagSet("status", pflag.ExitOnError)
	jsonOut := fs.Bool("json", false, "Output as JSON")
	noColor := fs.Bool("no-color", false, "Disable colored output")

	if err := fs.Parse(args); err != nil {
		os.Exit(cgerrors.ExitConfig)
	}
	ui.InitColors(*noColor)

	cfg, err := config.LoadOrDefault(repoRoot)
	if err != nil {
		cgerrors.FatalError(cgerrors.NewConfigError("cannot load configuration", err.Error(), "run 'cgraph init' to regenerate it", err), *jsonOut)
	}

	store, _, err := snapshot.Load(SnapshotPath(repoRoot))
	if err != nil {
		cgerrors.FatalError(cgerrors.NewNotFoundError("no graph snapshot found", err.Error(), "run 'cgraph index' first"), *jsonOut)
	}

	res := StatusResult{
		ProjectID: cfg.ProjectID,
		Snapshot:  SnapshotPath(repoRoot),
		Nodes:     store.NodeCount(),
		Edges:     store.EdgeCount(),
		NodeKinds: make(map[string]int),
		EdgeKinds: make(map[string]int),
		Timestamp: time.Now().UTC(),
	}
	for _, n := range store.Nodes() {
		res.NodeKinds[string(n.Kind)]++
	}
	for _, e := range store.Edges() {
		res.EdgeKinds[string(e.Kind)]++
	}
	res.Files = res.NodeKinds[string(types.KindFile)]
	res.Communities = res.NodeKinds[string(types.KindCommunity)]
	res.Processes = res.NodeKinds[string(types.KindProcess)]

	if *jsonOut {
		if err := output.Emit(res); err != nil {
			cgerrors.FatalError(err, true)
		}
		return
	}

	ui.Title("cgraph Project Status")
	fmt.Printf("%s %s\n", ui.Label("Project ID:"), res.ProjectID)
	fmt.Printf("%s %s\n", ui.Label("Snapshot:"), ui.Dim(res.Snapshot))
	fmt.Println()
	ui.Section("Graph:")
	fmt.Printf("  Nodes: %s\n", ui.Count(res.Nodes))
	fmt.Printf("  Edges: %s\n", ui.Count(res.Edges))
	fmt.Printf("  Files: %s\n", ui.Count(res.Files))
	fmt.Printf("  Communities: %s\n", ui.Count(res.Communities))
	fmt.Printf("  Processes: %s\n", ui.Count(res.Processes))
	fmt.Println()
	ui.Section("Node kinds:")
	printKindCounts(res.NodeKinds)
	ui.Section("Edge kinds:")
	printKindCounts(res.EdgeKinds)
}

func printKindCounts(counts map[string]int) {
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("  %-16s %s\n", k, ui.Count(counts[k]))
	}
	fmt.Println()
}
