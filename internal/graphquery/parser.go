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

package graphquery

import (
	"fmt"
	"strconv"
	"strings"
)

// nodePattern is one `(v:Label)` element of a MATCH chain. Empty Label
// matches any node kind.
type nodePattern struct {
	variable string
	label    string
}

// relPattern is one `-[:TYPE*min..max]->` element. Direction right
// means source-to-target. minHops/maxHops default to 1/1; a bare `*`
// is 1..unboundedHops.
type relPattern struct {
	relType string
	right   bool
	minHops int
	maxHops int
}

const unboundedHops = 8

// condition is one `v.prop OP literal` predicate; only AND-conjunction
// is supported so Query holds a flat list.
type condOp int

const (
	opEq condOp = iota
	opNeq
	opContains
)

type condition struct {
	variable string
	property string
	op       condOp
	value    string
}

// projection is one RETURN item: a variable alone (projects its ID) or
// `v.prop`.
type projection struct {
	variable string
	property string
}

// Query is a parsed statement: one MATCH chain, optional WHERE
// conjunction, RETURN projections, optional LIMIT.
type Query struct {
	nodes       []nodePattern
	rels        []relPattern
	conditions  []condition
	projections []projection
	limit       int
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) next() token { t := p.toks[p.pos]; p.pos++; return t }

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	t := p.next()
	if t.kind != kind {
		return token{}, fmt.Errorf("graphquery: expected %s at %d, got %q", what, t.pos, t.text)
	}
	return t, nil
}

func (p *parser) keyword(word string) bool {
	t := p.cur()
	if t.kind == tokIdent && strings.EqualFold(t.text, word) {
		p.pos++
		return true
	}
	return false
}

// Parse compiles statement into a Query.
func Parse(statement string) (*Query, error) {
	toks, err := lex(statement)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}

	if !p.keyword("MATCH") {
		return nil, fmt.Errorf("graphquery: statement must begin with MATCH")
	}

	q := &Query{limit: -1}
	if err := p.parsePattern(q); err != nil {
		return nil, err
	}

	if p.keyword("WHERE") {
		if err := p.parseWhere(q); err != nil {
			return nil, err
		}
	}

	if !p.keyword("RETURN") {
		return nil, fmt.Errorf("graphquery: missing RETURN clause")
	}
	if err := p.parseReturn(q); err != nil {
		return nil, err
	}

	if p.keyword("LIMIT") {
		t, err := p.expect(tokNumber, "limit count")
		if err != nil {
			return nil, err
		}
		q.limit, _ = strconv.Atoi(t.text)
	}

	if p.cur().kind != tokEOF {
		return nil, fmt.Errorf("graphquery: trailing input at %d: %q", p.cur().pos, p.cur().text)
	}
	return q, nil
}

func (p *parser) parsePattern(q *Query) error {
	node, err := p.parseNode()
	if err != nil {
		return err
	}
	q.nodes = append(q.nodes, node)

	for {
		var rel relPattern
		switch p.cur().kind {
		case tokDash: // -[:TYPE]-> only; undirected chains are not supported
			p.pos++
			rel, err = p.parseRelBody()
			if err != nil {
				return err
			}
			if _, err := p.expect(tokArrowRight, "'->'"); err != nil {
				return err
			}
			rel.right = true
		case tokArrowLeft: // <-[:TYPE]-
			p.pos++
			rel, err = p.parseRelBody()
			if err != nil {
				return err
			}
			if _, err := p.expect(tokDash, "'-'"); err != nil {
				return err
			}
			rel.right = false
		default:
			return nil
		}

		q.rels = append(q.rels, rel)
		node, err = p.parseNode()
		if err != nil {
			return err
		}
		q.nodes = append(q.nodes, node)
	}
}

func (p *parser) parseNode() (nodePattern, error) {
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nodePattern{}, err
	}

	var node nodePattern
	if p.cur().kind == tokIdent {
		node.variable = p.next().text
	}
	if p.cur().kind == tokColon {
		p.pos++
		t, err := p.expect(tokIdent, "node label")
		if err != nil {
			return nodePattern{}, err
		}
		node.label = t.text
	}

	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nodePattern{}, err
	}
	return node, nil
}

// parseRelBody parses the optional `[:TYPE*min..max]` between the dash
// and the arrow. A bare dash-arrow (no brackets) matches any edge kind
// at exactly one hop.
func (p *parser) parseRelBody() (relPattern, error) {
	rel := relPattern{minHops: 1, maxHops: 1}
	if p.cur().kind != tokLBracket {
		return rel, nil
	}
	p.pos++

	if p.cur().kind == tokIdent { // optional edge variable, unused in projections
		p.pos++
	}
	if p.cur().kind == tokColon {
		p.pos++
		t, err := p.expect(tokIdent, "relationship type")
		if err != nil {
			return relPattern{}, err
		}
		rel.relType = t.text
	}

	if p.cur().kind == tokStar {
		p.pos++
		rel.minHops, rel.maxHops = 1, unboundedHops
		if p.cur().kind == tokNumber {
			rel.minHops, _ = strconv.Atoi(p.next().text)
			rel.maxHops = rel.minHops
			if p.cur().kind == tokDotDot {
				p.pos++
				t, err := p.expect(tokNumber, "max hop count")
				if err != nil {
					return relPattern{}, err
				}
				rel.maxHops, _ = strconv.Atoi(t.text)
			}
		}
		if rel.minHops < 1 || rel.maxHops < rel.minHops {
			return relPattern{}, fmt.Errorf("graphquery: invalid hop range %d..%d", rel.minHops, rel.maxHops)
		}
		if rel.maxHops > unboundedHops {
			rel.maxHops = unboundedHops
		}
	}

	if _, err := p.expect(tokRBracket, "']'"); err != nil {
		return relPattern{}, err
	}
	return rel, nil
}

func (p *parser) parseWhere(q *Query) error {
	for {
		v, err := p.expect(tokIdent, "variable")
		if err != nil {
			return err
		}
		if _, err := p.expect(tokDot, "'.'"); err != nil {
			return err
		}
		prop, err := p.expect(tokIdent, "property name")
		if err != nil {
			return err
		}

		var op condOp
		switch p.cur().kind {
		case tokEq:
			op = opEq
			p.pos++
		case tokNeq:
			op = opNeq
			p.pos++
		case tokIdent:
			if !p.keyword("CONTAINS") {
				return fmt.Errorf("graphquery: unknown operator %q at %d", p.cur().text, p.cur().pos)
			}
			op = opContains
		default:
			return fmt.Errorf("graphquery: expected operator at %d", p.cur().pos)
		}

		val := p.next()
		if val.kind != tokString && val.kind != tokNumber {
			return fmt.Errorf("graphquery: expected literal at %d, got %q", val.pos, val.text)
		}

		q.conditions = append(q.conditions, condition{
			variable: v.text, property: prop.text, op: op, value: val.text,
		})

		if !p.keyword("AND") {
			return nil
		}
	}
}

func (p *parser) parseReturn(q *Query) error {
	for {
		v, err := p.expect(tokIdent, "variable")
		if err != nil {
			return err
		}
		proj := projection{variable: v.text}
		if p.cur().kind == tokDot {
			p.pos++
			prop, err := p.expect(tokIdent, "property name")
			if err != nil {
				return err
			}
			proj.property = prop.text
		}
		q.projections = append(q.projections, proj)

		if p.cur().kind != tokComma {
			return nil
		}
		p.pos++
	}
}
