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

// Package bm25 implements the keyword index over file contents: an
// inverted index with Okapi BM25 scoring, stemmed with Porter2.
package bm25

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/surgebase/porter2"
)

const (
	k1 = 1.2
	b  = 0.75
)

// stopwords are dropped at both index and query time. Code-oriented:
// language keywords rank alongside English filler.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "to": true, "was": true, "were": true,
	"will": true, "with": true,
	"if": true, "else": true, "return": true, "func": true, "function": true,
	"var": true, "let": true, "const": true, "new": true, "this": true,
	"import": true, "export": true, "class": true, "def": true, "pub": true,
}

// Result is one scored hit from Search.
type Result struct {
	Path  string
	Score float64
}

type docInfo struct {
	path   string
	length int
}

// Index is the BM25 inverted index. Build fully before the first Search;
// Add is not safe to interleave with queries.
type Index struct {
	docs      []docInfo
	docIndex  map[string]int
	postings  map[string]map[int]int // term -> doc ordinal -> frequency
	totalLen  int
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		docIndex: make(map[string]int),
		postings: make(map[string]map[int]int),
	}
}

// Build indexes every (path, content) pair in contents.
func Build(contents map[string]string) *Index {
	idx := New()
	paths := make([]string, 0, len(contents))
	for p := range contents {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		idx.Add(p, contents[p])
	}
	return idx
}

// Add indexes one document. Re-adding an existing path replaces nothing:
// first write wins, matching the graph store's discipline.
func (idx *Index) Add(path, content string) {
	if _, exists := idx.docIndex[path]; exists {
		return
	}

	terms := Tokenize(content)
	ord := len(idx.docs)
	idx.docs = append(idx.docs, docInfo{path: path, length: len(terms)})
	idx.docIndex[path] = ord
	idx.totalLen += len(terms)

	for _, t := range terms {
		m, ok := idx.postings[t]
		if !ok {
			m = make(map[int]int)
			idx.postings[t] = m
		}
		m[ord]++
	}
}

// DocCount returns the number of indexed documents.
func (idx *Index) DocCount() int { return len(idx.docs) }

// Search returns the top-k documents for query, ordered by descending
// BM25 score. Documents matching no query term are omitted.
func (idx *Index) Search(query string, k int) []Result {
	if len(idx.docs) == 0 || k <= 0 {
		return nil
	}

	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	n := float64(len(idx.docs))
	avgLen := float64(idx.totalLen) / n

	scores := make(map[int]float64)
	for _, t := range terms {
		posting, ok := idx.postings[t]
		if !ok {
			continue
		}
		df := float64(len(posting))
		idf := math.Log((n-df+0.5)/(df+0.5) + 1)
		for ord, tf := range posting {
			dl := float64(idx.docs[ord].length)
			num := float64(tf) * (k1 + 1)
			den := float64(tf) + k1*(1-b+b*dl/avgLen)
			scores[ord] += idf * num / den
		}
	}

	out := make([]Result, 0, len(scores))
	for ord, s := range scores {
		out = append(out, Result{Path: idx.docs[ord].path, Score: s})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Path < out[j].Path
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

// Tokenize lowercases, splits on non-alphanumeric runs and camelCase
// boundaries, drops stopwords and single characters, and stems each
// surviving term.
func Tokenize(text string) []string {
	var terms []string
	for _, raw := range splitIdentifiers(text) {
		t := strings.ToLower(raw)
		if len(t) < 2 || stopwords[t] {
			continue
		}
		terms = append(terms, porter2.Stem(t))
	}
	return terms
}

// splitIdentifiers breaks text into word runs, further splitting
// camelCase and snake_case identifiers into their components so a query
// for "parse" hits "parseFile" and "parse_file" alike.
func splitIdentifiers(text string) []string {
	runes := []rune(text)
	var words []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}

	for i, r := range runes {
		switch {
		case unicode.IsLetter(r):
			if len(cur) > 0 && unicode.IsUpper(r) {
				prev := cur[len(cur)-1]
				// camelCase boundary, plus the acronym case: the last
				// upper of a run starts the next word (HTTPServer).
				if unicode.IsLower(prev) {
					flush()
				} else if unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
					flush()
				}
			}
			cur = append(cur, r)
		case unicode.IsDigit(r):
			cur = append(cur, r)
		default:
			flush()
		}
	}
	flush()
	return words
}
