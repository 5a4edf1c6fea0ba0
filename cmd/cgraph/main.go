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

// Package main implements the cgraph CLI for building and querying a
// code-intelligence graph over a source repository.
//
// Usage:
//
//	cgraph init                       Create .cgraph/project.yaml configuration
//	cgraph index                      Ingest the current repository
//	cgraph status [--json]            Show graph statistics
//	cgraph query <statement> [--json] Run a structural graph query
//	cgraph search <text> [--json]     Hybrid lexical + semantic search
package main

import (
	"flag"
	"fmt"
	"os"
)

// Version information (set via ldflags during build)
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version and exit")
		repoRoot    = flag.String("repo", "", "Repository root (default: current directory)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `cgraph - Code Intelligence Graph CLI

Usage:
  cgraph <command> [options]

Commands:
  init          Create .cgraph/project.yaml configuration
  index         Ingest the repository into a graph snapshot
  status        Show graph statistics
  query         Run a structural graph query
  search        Hybrid lexical + semantic search

Global Options:
  --repo        Repository root (default: current directory)
  --version     Show version and exit

Examples:
  cgraph init -y
  cgraph index
  cgraph status --json
  cgraph query "MATCH (a:Function)-[:CALLS]->(b:Function) RETURN a.name, b.name LIMIT 20"
  cgraph search "token refresh logic" -k 10

Data Storage:
  The graph snapshot is stored in .cgraph/graph.json inside the repository.

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("cgraph version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	root := *repoRoot
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot get current directory: %v\n", err)
			os.Exit(1)
		}
		root = cwd
	}

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "init":
		runInit(cmdArgs, root)
	case "index":
		runIndex(cmdArgs, root)
	case "status":
		runStatus(cmdArgs, root)
	case "query":
		runQuery(cmdArgs, root)
	case "search":
		runSearch(cmdArgs, root)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
