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

// Louvain modularity optimization, after Blondel et al.: a local-moving
// pass that greedily maximizes modularity gain, followed by aggregation
// of the resulting communities into a coarser graph, repeated until no
// further merge improves modularity.
package pipeline

import "sort"

// weightedGraph is an undirected multigraph represented as adjacency
// lists of (neighbor, weight) pairs, indexed by compact integer ID.
type weightedGraph struct {
	n    int
	adj  []map[int]float64
	self []float64 // self-loop weight per node (counted twice in degree)
}

func newWeightedGraph(n int) *weightedGraph {
	adj := make([]map[int]float64, n)
	for i := range adj {
		adj[i] = make(map[int]float64)
	}
	return &weightedGraph{n: n, adj: adj, self: make([]float64, n)}
}

func (g *weightedGraph) addEdge(a, b int, w float64) {
	if a == b {
		g.self[a] += w
		return
	}
	g.adj[a][b] += w
	g.adj[b][a] += w
}

func (g *weightedGraph) degree(i int) float64 {
	d := 2 * g.self[i]
	for _, w := range g.adj[i] {
		d += w
	}
	return d
}

func (g *weightedGraph) totalWeight() float64 {
	total := 0.0
	for i := 0; i < g.n; i++ {
		total += g.self[i]
		for j, w := range g.adj[i] {
			if j > i {
				total += w
			}
		}
	}
	return total
}

// louvainResult maps each original compact node ID to its final
// community index (0-based, dense, not yet filtered by size).
type louvainResult struct {
	communityOf []int
	numCommunities int
}

const louvainResolution = 1.0

// runLouvain executes the local-moving + aggregation loop until a pass
// produces no merges, returning the final community assignment for the
// original n nodes.
func runLouvain(g *weightedGraph) louvainResult {
	n := g.n
	assignment := make([]int, n)
	for i := range assignment {
		assignment[i] = i
	}

	current := g
	mapping := make([]int, n) // original node -> current-level node
	for i := range mapping {
		mapping[i] = i
	}

	for pass := 0; pass < 50; pass++ {
		comm, moved := localMoving(current)
		if !moved {
			break
		}

		agg, renumber, numComm := aggregate(current, comm)
		if numComm == current.n {
			break
		}

		for i := range mapping {
			mapping[i] = renumber[comm[mapping[i]]]
		}
		current = agg
	}

	for i := range assignment {
		assignment[i] = mapping[i]
	}

	numComm := 0
	seen := make(map[int]int)
	for i, c := range assignment {
		if _, ok := seen[c]; !ok {
			seen[c] = numComm
			numComm++
		}
		assignment[i] = seen[c]
	}

	return louvainResult{communityOf: assignment, numCommunities: numComm}
}

// localMoving runs repeated sweeps reassigning each node to the
// neighboring community maximizing modularity gain, until a full sweep
// makes no move. Returns the per-node community assignment (dense over
// g.n, not yet renumbered) and whether any node moved at all.
func localMoving(g *weightedGraph) ([]int, bool) {
	n := g.n
	comm := make([]int, n)
	for i := range comm {
		comm[i] = i
	}

	degree := make([]float64, n)
	for i := 0; i < n; i++ {
		degree[i] = g.degree(i)
	}
	m2 := g.totalWeight() * 2
	if m2 == 0 {
		return comm, false
	}

	commTot := make([]float64, n)
	for i := 0; i < n; i++ {
		commTot[comm[i]] += degree[i]
	}

	anyMoved := false
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	for sweep := 0; sweep < 20; sweep++ {
		movedThisSweep := false

		for _, i := range order {
			oldComm := comm[i]
			commTot[oldComm] -= degree[i]

			neighborWeight := make(map[int]float64)
			for j, w := range g.adj[i] {
				neighborWeight[comm[j]] += w
			}

			bestComm := oldComm
			bestGain := neighborWeight[oldComm] - louvainResolution*commTot[oldComm]*degree[i]/m2

			candidates := make([]int, 0, len(neighborWeight))
			for c := range neighborWeight {
				candidates = append(candidates, c)
			}
			sort.Ints(candidates)

			for _, c := range candidates {
				gain := neighborWeight[c] - louvainResolution*commTot[c]*degree[i]/m2
				if gain > bestGain {
					bestGain = gain
					bestComm = c
				}
			}

			comm[i] = bestComm
			commTot[bestComm] += degree[i]
			if bestComm != oldComm {
				movedThisSweep = true
				anyMoved = true
			}
		}

		if !movedThisSweep {
			break
		}
	}

	return comm, anyMoved
}

// aggregate builds the coarser graph where each distinct community from
// comm becomes one node, renumbered densely. The renumber map is
// returned so callers can translate old comm values into new node IDs.
func aggregate(g *weightedGraph, comm []int) (agg *weightedGraph, renumber map[int]int, numComm int) {
	renumber = make(map[int]int)
	for _, c := range comm {
		if _, ok := renumber[c]; !ok {
			renumber[c] = len(renumber)
		}
	}

	agg = newWeightedGraph(len(renumber))
	for i := 0; i < g.n; i++ {
		ci := renumber[comm[i]]
		agg.self[ci] += g.self[i]
		for j, w := range g.adj[i] {
			if j < i {
				continue // count each undirected pair once
			}
			cj := renumber[comm[j]]
			agg.addEdge(ci, cj, w)
		}
	}
	return agg, renumber, len(renumber)
}
