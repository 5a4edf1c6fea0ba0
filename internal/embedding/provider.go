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

// Package embedding implements the vector index over graph entities: a
// pluggable text encoder producing unit-normalized vectors, a batched
// generator over the eligible node kinds, and a cosine nearest-neighbor
// index with distance-thresholded search.
package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// DefaultDimension is the encoder output width.
const DefaultDimension = 384

// Provider generates embeddings for code text. Implementations must
// return unit-normalized (L2 norm = 1.0) vectors of a fixed dimension.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// NewProvider constructs the named provider, falling back to the mock
// provider when name is unknown. The error return is reserved for
// providers with real initialization (accelerators, remote endpoints).
func NewProvider(name string, dimension int, logger *slog.Logger) (Provider, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	switch name {
	case "hash":
		return NewHashProvider(dimension), nil
	case "mock", "":
		return NewMockProvider(dimension, logger), nil
	default:
		logger.Warn("embedding.provider.unknown", "provider", name, "fallback", "mock")
		return NewMockProvider(dimension, logger), nil
	}
}

// MockProvider generates deterministic embeddings for testing: a cheap
// text hash spread over the vector, then normalized.
type MockProvider struct {
	dimension int
	logger    *slog.Logger
}

// NewMockProvider creates a mock embedding provider.
func NewMockProvider(dimension int, logger *slog.Logger) *MockProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockProvider{dimension: dimension, logger: logger}
}

func (m *MockProvider) Dimension() int { return m.dimension }

// Embed generates a deterministic embedding based on text hash. Not
// semantically meaningful.
func (m *MockProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hash := djb2(text)

	vec := make([]float32, m.dimension)
	for i := 0; i < m.dimension; i++ {
		val := float32((hash+uint64(i)*7919)%10000) / 10000.0
		vec[i] = val*2.0 - 1.0
	}
	return Normalize(vec), nil
}

// HashProvider is the CPU encoder: mean-pooled token hash features. It
// carries more signal than MockProvider (shared identifiers land in
// shared buckets) while staying dependency-free and deterministic.
type HashProvider struct {
	dimension int
}

// NewHashProvider creates a HashProvider of the given dimension.
func NewHashProvider(dimension int) *HashProvider {
	return &HashProvider{dimension: dimension}
}

func (h *HashProvider) Dimension() int { return h.dimension }

// Embed hashes each whitespace-separated token into a bucket, mean-pools
// the resulting one-hot features, and normalizes.
func (h *HashProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, h.dimension)
	count := 0
	start := -1
	for i, r := range text {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
			if start >= 0 {
				bucket := djb2(text[start:i]) % uint64(h.dimension)
				vec[bucket]++
				count++
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		bucket := djb2(text[start:]) % uint64(h.dimension)
		vec[bucket]++
		count++
	}

	if count == 0 {
		return nil, fmt.Errorf("embedding: empty input text")
	}
	for i := range vec {
		vec[i] /= float32(count)
	}
	return Normalize(vec), nil
}

// Normalize scales vec to unit L2 norm in place and returns it. An
// all-zero vector is returned unchanged.
func Normalize(vec []float32) []float32 {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

func djb2(s string) uint64 {
	var hash uint64 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint64(c)
	}
	return hash
}
