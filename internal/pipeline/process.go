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

package pipeline

import (
	"sort"
	"strings"

	"github.com/cgraph/cgraph/internal/graphstore"
	"github.com/cgraph/cgraph/internal/types"
)

// ProcessConfig holds the trace-extraction tunables.
type ProcessConfig struct {
	MaxTraceDepth int
	MaxBranching  int
	MaxProcesses  int
	MinSteps      int
}

// DefaultProcessConfig returns the standard trace-extraction limits.
func DefaultProcessConfig() ProcessConfig {
	return ProcessConfig{MaxTraceDepth: 10, MaxBranching: 4, MaxProcesses: 75, MinSteps: 2}
}

const entryPointSeedLimit = 200

// ProcessResult is the aggregate output of trace extraction.
type ProcessResult struct {
	Processes []*types.Node
}

type scoredSeed struct {
	id    string
	score float64
}

// runProcess scores entry points, extracts bounded traces over the
// CALLS subgraph, deduplicates them, and materializes Process nodes
// with their STEP_IN_PROCESS edges.
func runProcess(store *graphstore.Store, cfg ProcessConfig, progress ProgressFunc) ProcessResult {
	seeds := scoreEntryPoints(store)

	var traces [][]string
	for i, s := range seeds {
		traces = append(traces, extractTraces(store, s.id, cfg)...)
		if i%10 == 0 {
			emit(progress, PhaseProcesses, percentWithin(PhaseProcesses, float64(i)/float64(len(seeds)+1)),
				"extracting traces", nil)
		}
	}

	kept := dedupeTraces(traces, cfg.MaxProcesses)

	var out ProcessResult
	for ordinal, trace := range kept {
		out.Processes = append(out.Processes, buildProcessNode(store, trace, ordinal))
	}

	for _, p := range out.Processes {
		store.AddNode(p)
		for step, memberID := range p.MemberIDs {
			store.AddEdge(&types.Edge{
				ID:         "step:" + p.ID + ":" + memberID,
				Source:     memberID,
				Target:     p.ID,
				Kind:       types.EdgeStepInProcess,
				Confidence: 1.0,
				Step:       step + 1,
			})
		}
	}

	emit(progress, PhaseProcesses, phaseRange[PhaseProcesses][1], "process extraction complete", nil)
	return out
}

func scoreEntryPoints(store *graphstore.Store) []scoredSeed {
	var candidates []scoredSeed

	for _, kind := range []types.NodeKind{types.KindFunction, types.KindMethod} {
		for _, id := range store.NodesOfKind(kind) {
			n, ok := store.Node(id)
			if !ok || isTestFile(n.FilePath) {
				continue
			}
			outDeg := store.OutDegree(id, types.EdgeCalls)
			if outDeg == 0 {
				continue
			}
			inDeg := store.InDegree(id, types.EdgeCalls)

			callRatio := float64(outDeg) / float64(inDeg+1)
			exportFactor := 1.0
			if n.IsExported {
				exportFactor = 2.0
			}
			nameFactor := 1.0
			if matchesAny(utilityNamePatterns, n.Name) {
				nameFactor = 0.3
			} else if matchesAny(entryNamePatterns, n.Name) {
				nameFactor = 1.5
			}

			score := callRatio * exportFactor * nameFactor * frameworkFactor(n.FilePath)
			candidates = append(candidates, scoredSeed{id: id, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if len(candidates) > entryPointSeedLimit {
		candidates = candidates[:entryPointSeedLimit]
	}
	return candidates
}

// extractTraces runs bounded forward traversal over the CALLS subgraph
// from seed, yielding at most MaxBranching*3 completed paths.
func extractTraces(store *graphstore.Store, seed string, cfg ProcessConfig) [][]string {
	limit := cfg.MaxBranching * 3
	var out [][]string

	var walk func(path []string, visited map[string]bool)
	walk = func(path []string, visited map[string]bool) {
		if len(out) >= limit {
			return
		}

		cur := path[len(path)-1]
		children := sortedCalleeTargets(store, cur)
		if len(children) > cfg.MaxBranching {
			children = children[:cfg.MaxBranching]
		}

		if len(path) >= cfg.MaxTraceDepth || len(children) == 0 {
			if len(path) >= cfg.MinSteps {
				out = append(out, append([]string(nil), path...))
			}
			return
		}

		expanded := false
		for _, child := range children {
			if len(out) >= limit {
				return
			}
			if visited[child] {
				if len(path) >= cfg.MinSteps {
					out = append(out, append([]string(nil), path...))
				}
				continue
			}
			expanded = true
			nextVisited := make(map[string]bool, len(visited)+1)
			for k := range visited {
				nextVisited[k] = true
			}
			nextVisited[child] = true
			walk(append(path, child), nextVisited)
		}

		if !expanded && len(path) >= cfg.MinSteps {
			out = append(out, append([]string(nil), path...))
		}
	}

	walk([]string{seed}, map[string]bool{seed: true})
	return out
}

func sortedCalleeTargets(store *graphstore.Store, id string) []string {
	edges := store.EdgesFrom(id)
	var targets []string
	for _, e := range edges {
		if e.Kind == types.EdgeCalls {
			targets = append(targets, e.Target)
		}
	}
	sort.Strings(targets)
	return targets
}

// dedupeTraces sorts by length descending and keeps a trace only if no
// already-kept trace's serialization contains its serialization.
func dedupeTraces(traces [][]string, maxProcesses int) [][]string {
	sort.SliceStable(traces, func(i, j int) bool { return len(traces[i]) > len(traces[j]) })

	var kept [][]string
	var keptSerial []string

	for _, t := range traces {
		serial := strings.Join(t, "\x00")
		redundant := false
		for _, ks := range keptSerial {
			if strings.Contains(ks, serial) {
				redundant = true
				break
			}
		}
		if redundant {
			continue
		}
		kept = append(kept, t)
		keptSerial = append(keptSerial, serial)
	}

	if len(kept) > maxProcesses {
		kept = kept[:maxProcesses]
	}
	return kept
}

func buildProcessNode(store *graphstore.Store, trace []string, ordinal int) *types.Node {
	head, _ := store.Node(trace[0])
	tail, _ := store.Node(trace[len(trace)-1])

	headName, tailName := "", ""
	if head != nil {
		headName = head.Name
	}
	if tail != nil {
		tailName = tail.Name
	}

	communities := make(map[string]bool)
	for _, id := range trace {
		for _, e := range store.EdgesFrom(id) {
			if e.Kind == types.EdgeMemberOf {
				communities[e.Target] = true
			}
		}
	}

	kind := "intra_community"
	if len(communities) > 1 {
		kind = "cross_community"
	}

	return &types.Node{
		ID:          types.ProcessID(ordinal, headName),
		Kind:        types.KindProcess,
		Name:        titleCase(headName) + " → " + titleCase(tailName),
		StepCount:   len(trace),
		EntryPoint:  trace[0],
		Terminal:    trace[len(trace)-1],
		ProcessKind: kind,
		MemberIDs:   trace,
	}
}
