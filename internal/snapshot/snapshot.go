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

// Package snapshot persists and restores a graph store. Encoding and
// decoding the same store must yield equal node and edge sets; nodes
// and edges are written sorted by ID so identical graphs produce
// byte-identical snapshots.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/cgraph/cgraph/internal/graphstore"
	"github.com/cgraph/cgraph/internal/types"
)

// FormatVersion guards against decoding snapshots written by an
// incompatible layout.
const FormatVersion = 1

// Codec encodes a graph store plus its file contents to a stream and
// back. Implementations must round-trip losslessly.
type Codec interface {
	Encode(w io.Writer, store *graphstore.Store, contents map[string]string) error
	Decode(r io.Reader) (*graphstore.Store, map[string]string, error)
}

// document is the on-disk layout.
type document struct {
	Version  int               `json:"version"`
	Nodes    []*types.Node     `json:"nodes"`
	Edges    []*types.Edge     `json:"edges"`
	Contents map[string]string `json:"contents,omitempty"`
}

// JSONCodec is the default Codec: a single JSON document.
type JSONCodec struct{}

// Encode writes store and contents to w.
func (JSONCodec) Encode(w io.Writer, store *graphstore.Store, contents map[string]string) error {
	nodes := store.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	edges := store.Edges()
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	doc := document{Version: FormatVersion, Nodes: nodes, Edges: edges, Contents: contents}
	enc := json.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	return nil
}

// Decode reads a snapshot from r into a fresh store.
func (JSONCodec) Decode(r io.Reader) (*graphstore.Store, map[string]string, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if doc.Version != FormatVersion {
		return nil, nil, fmt.Errorf("snapshot: unsupported format version %d", doc.Version)
	}

	store := graphstore.New()
	for _, n := range doc.Nodes {
		store.AddNode(n)
	}
	for _, e := range doc.Edges {
		store.AddEdge(e)
	}
	return store, doc.Contents, nil
}

// Save encodes to path atomically: write a temp file in the same
// directory, then rename over the destination.
func Save(path string, store *graphstore.Store, contents map[string]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("snapshot: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("snapshot: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := (JSONCodec{}).Encode(tmp, store, contents); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("snapshot: close temp: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Load decodes the snapshot at path.
func Load(path string) (*graphstore.Store, map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot: open: %w", err)
	}
	defer f.Close()
	return JSONCodec{}.Decode(f)
}
