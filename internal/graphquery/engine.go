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

// Package graphquery provides a read-only structural query surface over
// a graph store: a Cypher-like statement with label filters,
// relationship-type filters, bounded path patterns, and projections.
package graphquery

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cgraph/cgraph/internal/graphstore"
	"github.com/cgraph/cgraph/internal/types"
)

// Result is a tabular query result.
type Result struct {
	Headers []string
	Rows    [][]any
}

// Engine evaluates parsed queries against a store snapshot.
type Engine struct {
	store *graphstore.Store
}

// New creates an Engine over store. The engine never mutates the store.
func New(store *graphstore.Store) *Engine {
	return &Engine{store: store}
}

// Query parses and evaluates statement.
func (e *Engine) Query(statement string) (*Result, error) {
	q, err := Parse(statement)
	if err != nil {
		return nil, err
	}
	return e.eval(q)
}

// binding maps pattern variables to node IDs, one entry per node
// pattern position (unnamed patterns occupy a slot too).
type binding []string

func (e *Engine) eval(q *Query) (*Result, error) {
	varIndex := make(map[string]int)
	for i, np := range q.nodes {
		if np.variable == "" {
			continue
		}
		if prev, ok := varIndex[np.variable]; ok && prev != i {
			return nil, fmt.Errorf("graphquery: variable %q bound twice", np.variable)
		}
		varIndex[np.variable] = i
	}

	for _, c := range q.conditions {
		if _, ok := varIndex[c.variable]; !ok {
			return nil, fmt.Errorf("graphquery: WHERE references unknown variable %q", c.variable)
		}
	}
	for _, pr := range q.projections {
		if _, ok := varIndex[pr.variable]; !ok {
			return nil, fmt.Errorf("graphquery: RETURN references unknown variable %q", pr.variable)
		}
	}

	// Seed bindings from nodes matching the first pattern, then extend
	// through each relationship hop.
	bindings := []binding{}
	for _, id := range e.candidateIDs(q.nodes[0].label) {
		bindings = append(bindings, binding{id})
	}

	for i, rel := range q.rels {
		target := q.nodes[i+1]
		var extended []binding
		for _, b := range bindings {
			for _, nextID := range e.expand(b[i], rel) {
				n, ok := e.store.Node(nextID)
				if !ok {
					continue
				}
				if target.label != "" && !strings.EqualFold(string(n.Kind), target.label) {
					continue
				}
				nb := make(binding, len(b)+1)
				copy(nb, b)
				nb[len(b)] = nextID
				extended = append(extended, nb)
			}
		}
		bindings = extended
		if len(bindings) == 0 {
			break
		}
	}

	var rows [][]any
	for _, b := range bindings {
		if !e.satisfies(b, q.conditions, varIndex) {
			continue
		}
		row := make([]any, len(q.projections))
		for j, pr := range q.projections {
			row[j] = e.project(b[varIndex[pr.variable]], pr.property)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return fmt.Sprint(rows[i]) < fmt.Sprint(rows[j])
	})
	rows = dedupeRows(rows)
	if q.limit >= 0 && len(rows) > q.limit {
		rows = rows[:q.limit]
	}

	headers := make([]string, len(q.projections))
	for j, pr := range q.projections {
		if pr.property == "" {
			headers[j] = pr.variable
		} else {
			headers[j] = pr.variable + "." + pr.property
		}
	}
	return &Result{Headers: headers, Rows: rows}, nil
}

func (e *Engine) candidateIDs(label string) []string {
	var ids []string
	if label == "" {
		for _, n := range e.store.Nodes() {
			ids = append(ids, n.ID)
		}
	} else {
		// NodesOfKind is keyed by exact kind; resolve the label
		// case-insensitively against the known kinds.
		for _, n := range e.store.Nodes() {
			if strings.EqualFold(string(n.Kind), label) {
				ids = append(ids, n.ID)
			}
		}
	}
	sort.Strings(ids)
	return ids
}

// expand returns node IDs reachable from id through rel: edges of the
// requested kind, followed in the pattern's direction, between minHops
// and maxHops steps away.
func (e *Engine) expand(id string, rel relPattern) []string {
	reached := make(map[string]bool)
	frontier := []string{id}
	visited := map[string]bool{id: true}

	for hop := 1; hop <= rel.maxHops && len(frontier) > 0; hop++ {
		var next []string
		for _, cur := range frontier {
			var edges []*types.Edge
			if rel.right {
				edges = e.store.EdgesFrom(cur)
			} else {
				edges = e.store.EdgesTo(cur)
			}
			for _, edge := range edges {
				if rel.relType != "" && !strings.EqualFold(string(edge.Kind), rel.relType) {
					continue
				}
				var neighbor string
				if rel.right {
					neighbor = edge.Target
				} else {
					neighbor = edge.Source
				}
				if visited[neighbor] {
					continue
				}
				visited[neighbor] = true
				next = append(next, neighbor)
				if hop >= rel.minHops {
					reached[neighbor] = true
				}
			}
		}
		frontier = next
	}

	out := make([]string, 0, len(reached))
	for id := range reached {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (e *Engine) satisfies(b binding, conds []condition, varIndex map[string]int) bool {
	for _, c := range conds {
		val := e.project(b[varIndex[c.variable]], c.property)
		got := fmt.Sprint(val)
		switch c.op {
		case opEq:
			if got != c.value {
				return false
			}
		case opNeq:
			if got == c.value {
				return false
			}
		case opContains:
			if !strings.Contains(got, c.value) {
				return false
			}
		}
	}
	return true
}

// project resolves a node property by name; an empty property projects
// the node's ID.
func (e *Engine) project(id, property string) any {
	n, ok := e.store.Node(id)
	if !ok {
		return nil
	}
	switch property {
	case "", "id":
		return n.ID
	case "name":
		return n.Name
	case "kind":
		return string(n.Kind)
	case "file_path":
		return n.FilePath
	case "start_line":
		return n.StartLine
	case "end_line":
		return n.EndLine
	case "is_exported":
		return n.IsExported
	case "language":
		return n.Language
	case "symbol_count":
		return n.SymbolCount
	case "cohesion":
		return n.Cohesion
	case "step_count":
		return n.StepCount
	case "process_kind":
		return n.ProcessKind
	default:
		return nil
	}
}

func dedupeRows(rows [][]any) [][]any {
	seen := make(map[string]bool, len(rows))
	out := rows[:0]
	for _, r := range rows {
		key := fmt.Sprint(r)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// FormatValue renders a projected value for table output.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'g', 4, 64)
	default:
		return fmt.Sprint(t)
	}
}
