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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/cgraph/cgraph/internal/cgerrors"
	"github.com/cgraph/cgraph/internal/config"
	"github.com/cgraph/cgraph/internal/ui"
)

// runInit executes the 'init' CLI command, creating .cgraph/project.yaml.
//
// Flags:
//   - --force: Overwrite existing configuration
//   - -y: Non-interactive mode, use all defaults
//   - --project-id: Project identifier (default: directory name)
//   - --provider: Embedding provider (hash, mock)
func runInit(args []string, repoRoot string) {
	fs := pflag.NewFlagSet("init", pflag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite existing configuration")
	nonInteractive := fs.BoolP("yes", "y", false, "Non-interactive mode (use defaults)")
	projectID := fs.String("project-id", "", "Project identifier")
	provider := fs.String("provider", "", "Embedding provider (hash, mock)")

	if err := fs.Parse(args); err != nil {
		os.Exit(cgerrors.ExitConfig)
	}

	configPath := config.ConfigPath(repoRoot)
	if _, err := os.Stat(configPath); err == nil && !*force {
		cgerrors.FatalError(cgerrors.NewInputError(
			fmt.Sprintf("%s already exists", configPath),
			"a configuration was created by a previous 'cgraph init'",
			"pass --force to overwrite it"), false)
	}

	id := *projectID
	if id == "" {
		id = filepath.Base(repoRoot)
	}
	cfg := config.Default(id)
	if *provider != "" {
		cfg.Embedding.Provider = *provider
	}

	if !*nonInteractive {
		reader := bufio.NewReader(os.Stdin)
		cfg.ProjectID = prompt(reader, "Project ID", cfg.ProjectID)
		cfg.Embedding.Provider = prompt(reader, "Embedding provider (hash, mock)", cfg.Embedding.Provider)
	}

	if err := cfg.Validate(); err != nil {
		cgerrors.FatalError(cgerrors.NewConfigError("invalid configuration", err.Error(), "", err), false)
	}
	if err := cfg.Save(configPath); err != nil {
		cgerrors.FatalError(cgerrors.NewInternalError("cannot write configuration", err.Error(), "check the repository is writable", err), false)
	}

	ui.Okf("wrote %s", configPath)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  cgraph index     Build the graph snapshot")
	fmt.Println("  cgraph status    Inspect it")
}

func prompt(reader *bufio.Reader, label, def string) string {
	fmt.Printf("%s [%s]: ", label, def)
	line, err := reader.ReadString('\n')
	if err != nil {
		return def
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return def
	}
	return line
}
