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
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/cgraph/cgraph/internal/graphstore"
	"github.com/cgraph/cgraph/internal/types"
)

var genericDirNames = map[string]bool{
	"src": true, "lib": true, "core": true, "utils": true,
	"common": true, "shared": true, "helpers": true,
}

var communityEligibleKinds = map[types.NodeKind]bool{
	types.KindFunction:  true,
	types.KindClass:     true,
	types.KindMethod:    true,
	types.KindInterface: true,
}

// CommunityResult is the aggregate output of community detection.
type CommunityResult struct {
	Communities []*types.Node
}

// runCommunity builds an
// undirected symbol graph from CALLS/EXTENDS/IMPLEMENTS edges, runs
// Louvain, derives a label per surviving community, computes cohesion,
// and emits Community nodes plus MEMBER_OF edges.
func runCommunity(store *graphstore.Store, progress ProgressFunc) CommunityResult {
	var nodeIDs []string
	for kind := range communityEligibleKinds {
		nodeIDs = append(nodeIDs, store.NodesOfKind(kind)...)
	}
	sort.Strings(nodeIDs)

	index := make(map[string]int, len(nodeIDs))
	for i, id := range nodeIDs {
		index[id] = i
	}

	g := newWeightedGraph(len(nodeIDs))
	for _, kind := range []types.EdgeKind{types.EdgeCalls, types.EdgeExtends, types.EdgeImplements} {
		for _, e := range store.EdgesOfKind(kind) {
			a, okA := index[e.Source]
			b, okB := index[e.Target]
			if !okA || !okB || a == b {
				continue
			}
			g.addEdge(a, b, 1)
		}
	}

	emit(progress, PhaseCommunities, percentWithin(PhaseCommunities, 0.2), "running community detection", nil)

	result := runLouvain(g)

	members := make([][]string, result.numCommunities)
	for i, c := range result.communityOf {
		members[c] = append(members[c], nodeIDs[i])
	}

	type candidate struct {
		memberIDs []string
		cohesion  float64
	}
	var candidates []candidate
	for _, ids := range members {
		if len(ids) < 2 {
			continue
		}
		candidates = append(candidates, candidate{memberIDs: ids, cohesion: cohesion(store, index, ids)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].memberIDs) > len(candidates[j].memberIDs)
	})

	var out CommunityResult
	for i, c := range candidates {
		label := communityLabel(store, c.memberIDs, i)
		commID := types.CommunityID(i)

		node := &types.Node{
			ID:          commID,
			Kind:        types.KindCommunity,
			Name:        label,
			SymbolCount: len(c.memberIDs),
			Cohesion:    c.cohesion,
			MemberIDs:   append([]string(nil), c.memberIDs...),
		}
		store.AddNode(node)
		out.Communities = append(out.Communities, node)

		for _, memberID := range c.memberIDs {
			store.AddEdge(&types.Edge{
				ID:         "member_of:" + memberID + ":" + commID,
				Source:     memberID,
				Target:     commID,
				Kind:       types.EdgeMemberOf,
				Confidence: 1.0,
			})
		}
	}

	emit(progress, PhaseCommunities, phaseRange[PhaseCommunities][1],
		fmt.Sprintf("found %d communities", len(out.Communities)), nil)
	return out
}

// cohesion computes actual internal edges / possible internal pairs;
// singleton density is defined as 1.0 (unreachable here since callers
// filter len<2, kept for completeness of the formula's domain).
func cohesion(store *graphstore.Store, index map[string]int, memberIDs []string) float64 {
	if len(memberIDs) < 2 {
		return 1.0
	}
	set := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		set[id] = true
	}

	internal := 0
	seen := make(map[string]bool)
	for _, id := range memberIDs {
		for _, kind := range []types.EdgeKind{types.EdgeCalls, types.EdgeExtends, types.EdgeImplements} {
			for _, e := range store.EdgesFrom(id) {
				if e.Kind != kind || !set[e.Target] {
					continue
				}
				key := e.Source + "|" + e.Target
				revKey := e.Target + "|" + e.Source
				if seen[key] || seen[revKey] {
					continue
				}
				seen[key] = true
				internal++
			}
		}
	}

	possible := float64(len(memberIDs)*(len(memberIDs)-1)) / 2
	if possible == 0 {
		return 1.0
	}
	return float64(internal) / possible
}

// communityLabel derives a label: most frequent non-generic parent
// directory among member file paths, else longest common prefix
// (>=3 chars) of member names, else an edit-distance pass picking the
// most representative member name, else Cluster_<index>.
func communityLabel(store *graphstore.Store, memberIDs []string, index int) string {
	dirCounts := make(map[string]int)
	var names []string

	for _, id := range memberIDs {
		n, ok := store.Node(id)
		if !ok {
			continue
		}
		names = append(names, n.Name)
		dir := path.Base(path.Dir(n.FilePath))
		if dir != "" && dir != "." && !genericDirNames[strings.ToLower(dir)] {
			dirCounts[dir]++
		}
	}

	if best, count := mostFrequent(dirCounts); count > 0 {
		return titleCase(best)
	}

	if prefix := longestCommonPrefix(names); len(prefix) >= 3 {
		return titleCase(prefix)
	}

	if label, ok := similarityLabel(names); ok {
		return titleCase(label)
	}

	return fmt.Sprintf("Cluster_%d", index)
}

func mostFrequent(counts map[string]int) (string, int) {
	best, bestCount := "", 0
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best, bestCount
}

func longestCommonPrefix(names []string) string {
	if len(names) == 0 {
		return ""
	}
	prefix := names[0]
	for _, n := range names[1:] {
		prefix = commonPrefix(prefix, n)
		if prefix == "" {
			break
		}
	}
	return prefix
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

// similarityLabel picks the name most similar (by Levenshtein distance
// via go-edlib) to the rest of the set as a representative label when
// no literal prefix is shared, a softer fallback than jumping straight
// to Cluster_<index>.
func similarityLabel(names []string) (string, bool) {
	if len(names) < 2 {
		return "", false
	}

	bestName := ""
	bestScore := float32(-1)
	for i, a := range names {
		total := float32(0)
		for j, b := range names {
			if i == j {
				continue
			}
			sim, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
			if err != nil {
				continue
			}
			total += sim
		}
		if total > bestScore {
			bestScore = total
			bestName = a
		}
	}

	if bestScore <= 0 || bestName == "" {
		return "", false
	}
	return bestName, true
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'a' && r[0] <= 'z' {
		r[0] = r[0] - 'a' + 'A'
	}
	return string(r)
}
