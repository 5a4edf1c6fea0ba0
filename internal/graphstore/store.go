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

// Package graphstore implements the in-memory, single-writer graph
// container: two ID-keyed maps, idempotent on re-add, with the
// secondary indices later pipeline stages need (by file, by kind, by
// edge endpoint) built incrementally as nodes and edges are added.
package graphstore

import (
	"sync"

	"github.com/cgraph/cgraph/internal/types"
)

// Store is the deduplicated node/edge container. It is safe for
// concurrent readers once a pipeline run's single writer phase has
// finished; writes themselves are expected to come from one stage at a
// time.
type Store struct {
	mu sync.RWMutex

	nodes map[string]*types.Node
	edges map[string]*types.Edge

	nodesByFile    map[string][]string
	nodesByKind    map[types.NodeKind][]string
	edgesBySource  map[string][]string
	edgesByTarget  map[string][]string
	edgesByKind    map[types.EdgeKind][]string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		nodes:         make(map[string]*types.Node),
		edges:         make(map[string]*types.Edge),
		nodesByFile:   make(map[string][]string),
		nodesByKind:   make(map[types.NodeKind][]string),
		edgesBySource: make(map[string][]string),
		edgesByTarget: make(map[string][]string),
		edgesByKind:   make(map[types.EdgeKind][]string),
	}
}

// AddNode inserts n if its ID is not already present. Re-adding an
// existing ID is a no-op: first write wins, never updated in place.
func (s *Store) AddNode(n *types.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.nodes[n.ID]; exists {
		return
	}
	s.nodes[n.ID] = n
	if n.FilePath != "" {
		s.nodesByFile[n.FilePath] = append(s.nodesByFile[n.FilePath], n.ID)
	}
	s.nodesByKind[n.Kind] = append(s.nodesByKind[n.Kind], n.ID)
}

// AddEdge inserts e if its ID is not already present.
func (s *Store) AddEdge(e *types.Edge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.edges[e.ID]; exists {
		return
	}
	s.edges[e.ID] = e
	s.edgesBySource[e.Source] = append(s.edgesBySource[e.Source], e.ID)
	s.edgesByTarget[e.Target] = append(s.edgesByTarget[e.Target], e.ID)
	s.edgesByKind[e.Kind] = append(s.edgesByKind[e.Kind], e.ID)
}

// Node looks up a node by ID.
func (s *Store) Node(id string) (*types.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	return n, ok
}

// HasNode reports whether id is present.
func (s *Store) HasNode(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[id]
	return ok
}

// Nodes returns a snapshot slice of all nodes.
func (s *Store) Nodes() []*types.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	return out
}

// Edges returns a snapshot slice of all edges.
func (s *Store) Edges() []*types.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.Edge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, e)
	}
	return out
}

// NodeCount returns the number of distinct node IDs stored.
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// EdgeCount returns the number of distinct edge IDs stored.
func (s *Store) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edges)
}

// NodesInFile returns the IDs of nodes whose FilePath equals filePath,
// in insertion order.
func (s *Store) NodesInFile(filePath string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.nodesByFile[filePath]...)
}

// NodesOfKind returns the IDs of nodes of the given kind, in insertion order.
func (s *Store) NodesOfKind(kind types.NodeKind) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.nodesByKind[kind]...)
}

// EdgesFrom returns edges whose Source equals id.
func (s *Store) EdgesFrom(id string) []*types.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.edgesBySource[id]
	out := make([]*types.Edge, 0, len(ids))
	for _, eid := range ids {
		out = append(out, s.edges[eid])
	}
	return out
}

// EdgesTo returns edges whose Target equals id.
func (s *Store) EdgesTo(id string) []*types.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.edgesByTarget[id]
	out := make([]*types.Edge, 0, len(ids))
	for _, eid := range ids {
		out = append(out, s.edges[eid])
	}
	return out
}

// EdgesOfKind returns every edge of the given kind.
func (s *Store) EdgesOfKind(kind types.EdgeKind) []*types.Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.edgesByKind[kind]
	out := make([]*types.Edge, 0, len(ids))
	for _, eid := range ids {
		out = append(out, s.edges[eid])
	}
	return out
}

// OutDegree returns the number of edges of kind with id as their source.
func (s *Store) OutDegree(id string, kind types.EdgeKind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, eid := range s.edgesBySource[id] {
		if s.edges[eid].Kind == kind {
			n++
		}
	}
	return n
}

// InDegree returns the number of edges of kind with id as their target.
func (s *Store) InDegree(id string, kind types.EdgeKind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, eid := range s.edgesByTarget[id] {
		if s.edges[eid].Kind == kind {
			n++
		}
	}
	return n
}
