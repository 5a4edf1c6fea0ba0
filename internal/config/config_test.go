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

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValues(t *testing.T) {
	cfg := Default("myproject")
	assert.Equal(t, "myproject", cfg.ProjectID)
	assert.Equal(t, 10, cfg.Process.MaxTraceDepth)
	assert.Equal(t, 4, cfg.Process.MaxBranching)
	assert.Equal(t, 75, cfg.Process.MaxProcesses)
	assert.Equal(t, 2, cfg.Process.MinSteps)
	assert.Equal(t, 384, cfg.Embedding.Dimension)
	assert.Equal(t, 16, cfg.Embedding.BatchSize)
	assert.Equal(t, 1.0, cfg.Community.Resolution)
	assert.Equal(t, 0.5, cfg.Retrieval.MaxDistance)
	assert.Equal(t, 60, cfg.Retrieval.RRFConstant)
	require.NoError(t, cfg.Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".cgraph", "project.yaml")

	cfg := Default("roundtrip")
	cfg.Indexing.Exclude = []string{"**/generated/**"}
	cfg.Embedding.Provider = "mock"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.ProjectID, loaded.ProjectID)
	assert.Equal(t, cfg.Indexing.Exclude, loaded.Indexing.Exclude)
	assert.Equal(t, "mock", loaded.Embedding.Provider)
	assert.Equal(t, cfg.Process, loaded.Process)
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadOrDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), cfg.ProjectID)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default("x")
	cfg.Embedding.Dimension = 0
	assert.Error(t, cfg.Validate())

	cfg = Default("x")
	cfg.Indexing.Exclude = []string{"[unclosed"}
	assert.Error(t, cfg.Validate())

	cfg = Default("x")
	cfg.Community.Resolution = -1
	assert.Error(t, cfg.Validate())
}

func TestMatchesGlobs(t *testing.T) {
	cfg := Default("x")
	cfg.Indexing.Include = []string{"src/**"}
	cfg.Indexing.Exclude = []string{"src/gen/**"}

	assert.True(t, cfg.Matches("src/app/main.ts"))
	assert.False(t, cfg.Matches("src/gen/api.ts"))
	assert.False(t, cfg.Matches("docs/readme.md"))

	cfg.Indexing.Include = nil
	assert.True(t, cfg.Matches("docs/readme.md"))
}
