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

// Package config loads and saves the per-project cgraph configuration
// from .cgraph/project.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config is the full .cgraph/project.yaml document.
type Config struct {
	ProjectID string         `yaml:"project_id"`
	Indexing  IndexingConfig `yaml:"indexing"`
	Embedding EmbedConfig    `yaml:"embedding"`
	Community CommunityConfig `yaml:"community"`
	Process   ProcessConfig  `yaml:"process"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// IndexingConfig controls file selection and parse limits.
type IndexingConfig struct {
	Include         []string `yaml:"include,omitempty"`
	Exclude         []string `yaml:"exclude,omitempty"`
	MaxFileSize     int      `yaml:"max_file_size"`
	ASTCacheEntries int      `yaml:"ast_cache_entries"`
}

// EmbedConfig selects and tunes the embedding provider.
type EmbedConfig struct {
	Provider  string `yaml:"provider"` // "mock", "hash"
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
	Workers   int    `yaml:"workers"`
}

// CommunityConfig tunes community detection.
type CommunityConfig struct {
	Resolution float64 `yaml:"resolution"`
}

// ProcessConfig tunes trace extraction.
type ProcessConfig struct {
	MaxTraceDepth int `yaml:"max_trace_depth"`
	MaxBranching  int `yaml:"max_branching"`
	MaxProcesses  int `yaml:"max_processes"`
	MinSteps      int `yaml:"min_steps"`
}

// RetrievalConfig tunes the hybrid retriever.
type RetrievalConfig struct {
	MaxDistance float64 `yaml:"max_distance"`
	RRFConstant int     `yaml:"rrf_constant"`
}

// Default returns a Config populated with every built-in default. The
// projectID is usually the repository directory name.
func Default(projectID string) *Config {
	return &Config{
		ProjectID: projectID,
		Indexing: IndexingConfig{
			MaxFileSize:     1 << 20,
			ASTCacheEntries: 50,
		},
		Embedding: EmbedConfig{
			Provider:  "hash",
			Dimension: 384,
			BatchSize: 16,
			Workers:   4,
		},
		Community: CommunityConfig{Resolution: 1.0},
		Process: ProcessConfig{
			MaxTraceDepth: 10,
			MaxBranching:  4,
			MaxProcesses:  75,
			MinSteps:      2,
		},
		Retrieval: RetrievalConfig{
			MaxDistance: 0.5,
			RRFConstant: 60,
		},
	}
}

// ConfigDir returns the .cgraph directory under repoRoot.
func ConfigDir(repoRoot string) string {
	return filepath.Join(repoRoot, ".cgraph")
}

// ConfigPath returns the project.yaml path under repoRoot.
func ConfigPath(repoRoot string) string {
	return filepath.Join(ConfigDir(repoRoot), "project.yaml")
}

// Load reads and validates the config at path. A missing file is an
// error; callers that want defaults should use Default directly.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads the config at ConfigPath(repoRoot), falling back
// to Default when the file does not exist.
func LoadOrDefault(repoRoot string) (*Config, error) {
	path := ConfigPath(repoRoot)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(filepath.Base(repoRoot)), nil
	}
	return Load(path)
}

// Save writes cfg to path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks glob syntax and numeric ranges.
func (c *Config) Validate() error {
	for _, g := range append(append([]string(nil), c.Indexing.Include...), c.Indexing.Exclude...) {
		if !doublestar.ValidatePattern(g) {
			return fmt.Errorf("invalid glob pattern %q", g)
		}
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", c.Embedding.Dimension)
	}
	if c.Embedding.BatchSize <= 0 {
		return fmt.Errorf("embedding batch size must be positive, got %d", c.Embedding.BatchSize)
	}
	if c.Community.Resolution <= 0 {
		return fmt.Errorf("community resolution must be positive, got %v", c.Community.Resolution)
	}
	if c.Process.MinSteps < 1 {
		return fmt.Errorf("process min_steps must be at least 1, got %d", c.Process.MinSteps)
	}
	if c.Retrieval.MaxDistance < 0 || c.Retrieval.MaxDistance > 2 {
		return fmt.Errorf("retrieval max_distance must be in [0,2], got %v", c.Retrieval.MaxDistance)
	}
	return nil
}

// Matches reports whether path passes the include/exclude globs:
// excluded paths lose, and a non-empty include list admits only matches.
func (c *Config) Matches(path string) bool {
	for _, g := range c.Indexing.Exclude {
		if ok, _ := doublestar.Match(g, path); ok {
			return false
		}
	}
	if len(c.Indexing.Include) == 0 {
		return true
	}
	for _, g := range c.Indexing.Include {
		if ok, _ := doublestar.Match(g, path); ok {
			return true
		}
	}
	return false
}
