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

// Package parser wraps the per-language tree-sitter grammars: lazy
// grammar and query loading, AST parsing, and a bounded LRU cache so
// each file is parsed at most once across the parsing, import, call,
// and heritage stages.
//
// Extraction is driven by named-capture queries rather than hand-rolled
// AST walks per language, so adding a language means adding a grammar
// and four query strings, not a new visitor.
package parser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language identifies one of the ten supported grammars by the file
// extension used to select it.
type Language string

const (
	LangGo         Language = "go"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
	LangJava       Language = "java"
	LangC          Language = "c"
	LangCPP        Language = "cpp"
	LangCSharp     Language = "csharp"
	LangRust       Language = "rust"
)

// extToLang maps file extensions (including the dot) to a Language.
var extToLang = map[string]Language{
	".go":    LangGo,
	".ts":    LangTypeScript,
	".tsx":   LangTSX,
	".js":    LangJavaScript,
	".jsx":   LangJavaScript,
	".mjs":   LangJavaScript,
	".cjs":   LangJavaScript,
	".py":    LangPython,
	".pyi":   LangPython,
	".java":  LangJava,
	".c":     LangC,
	".h":     LangC,
	".cpp":   LangCPP,
	".cc":    LangCPP,
	".cxx":   LangCPP,
	".hpp":   LangCPP,
	".hh":    LangCPP,
	".cs":    LangCSharp,
	".rs":    LangRust,
}

// LanguageFromPath selects a Language by file extension, reporting false
// for unknown extensions (the file is skipped by the Parsing Stage).
func LanguageFromPath(ext string) (Language, bool) {
	l, ok := extToLang[ext]
	return l, ok
}

// grammar bundles a compiled grammar with its query set, initialized
// lazily and shared immutably across a pipeline run.
type grammar struct {
	lang    *sitter.Language
	queries *queryCaptures
}

// Pool lazy-loads one grammar per language and caches parsed trees in a
// bounded LRU so repeated stages over the same file reuse the same AST.
// Created fresh per pipeline run; there is deliberately no process-global
// parser or grammar cache.
type Pool struct {
	mu       sync.Mutex
	grammars map[Language]*grammar
	cache    *astCache
	logger   *slog.Logger

	truncatedCount  int
	maxCodeTextSize int
}

// DefaultMaxCodeTextSize bounds how much of a file's content is retained
// for embedding generation; zero means unbounded.
const DefaultMaxCodeTextSize = 0

// DefaultCacheCapacity is the pool's default bounded LRU size.
const DefaultCacheCapacity = 50

// NewPool creates a Pool with a fresh AST cache of the given capacity.
// A nil logger defaults to slog.Default().
func NewPool(cacheCapacity int, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	if cacheCapacity <= 0 {
		cacheCapacity = DefaultCacheCapacity
	}
	return &Pool{
		grammars: make(map[Language]*grammar),
		cache:    newASTCache(cacheCapacity),
		logger:   logger,
	}
}

// SetMaxCodeTextSize bounds the content length retained on ParseResult.
func (p *Pool) SetMaxCodeTextSize(n int) { p.maxCodeTextSize = n }

// GetTruncatedCount returns how many files had content truncated.
func (p *Pool) GetTruncatedCount() int { return p.truncatedCount }

// ResetTruncatedCount zeroes the truncation counter between runs.
func (p *Pool) ResetTruncatedCount() { p.truncatedCount = 0 }

// ensureGrammar lazily compiles the grammar and query set for lang,
// sharing the result across subsequent calls. A query-compile failure
// is logged and returned, and nothing is cached for lang.
func (p *Pool) ensureGrammar(lang Language) (*grammar, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if g, ok := p.grammars[lang]; ok {
		return g, nil
	}

	sl, err := languageFor(lang)
	if err != nil {
		return nil, err
	}
	qc, err := compileQueries(lang, sl)
	if err != nil {
		p.logger.Warn("parser.query.compile_failed", "language", lang, "error", err)
		return nil, fmt.Errorf("query compile: %w", err)
	}

	g := &grammar{lang: sl, queries: qc}
	p.grammars[lang] = g
	p.logger.Debug("parser.lazy_init", "language", lang)
	return g, nil
}

// ParseResult is the artifact the Parsing/Import/Call/Heritage stages
// share for one file: the AST, the language it was parsed as, and the
// captures extracted from running the language's query over it.
type ParseResult struct {
	FilePath   string
	Language   Language
	Tree       *sitter.Tree
	Content    []byte
	HasError   bool
	Definitions []DefinitionMatch
	Imports     []ImportMatch
	Calls       []CallMatch
	Heritage    []HeritageMatch
}

// ParseFile parses content for filePath, using the cache when available,
// and runs the language's compiled query over the resulting tree. A
// query-compile or parse failure returns an error; the parsing stage must
// treat it as a skip-file error, not abort the pipeline.
func (p *Pool) ParseFile(ctx context.Context, filePath string, ext string, content []byte) (*ParseResult, error) {
	lang, ok := LanguageFromPath(ext)
	if !ok {
		return nil, fmt.Errorf("parser: unsupported extension %q", ext)
	}

	if cached, ok := p.cache.get(filePath); ok {
		return cached, nil
	}

	g, err := p.ensureGrammar(lang)
	if err != nil {
		return nil, fmt.Errorf("parser: language %s: %w", lang, err)
	}

	sp := sitter.NewParser()
	sp.SetLanguage(g.lang)

	tree, err := sp.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parser: parse %s: %w", filePath, err)
	}

	text := content
	truncated := false
	if p.maxCodeTextSize > 0 && len(text) > p.maxCodeTextSize {
		text = text[:p.maxCodeTextSize]
		truncated = true
	}
	if truncated {
		p.truncatedCount++
	}

	res := &ParseResult{
		FilePath: filePath,
		Language: lang,
		Tree:     tree,
		Content:  text,
		HasError: tree.RootNode().HasError(),
	}

	if g.queries != nil {
		res.Definitions, res.Imports, res.Calls, res.Heritage = extractCaptures(g.queries, tree.RootNode(), content)
	}

	p.cache.put(filePath, res)
	return res, nil
}

// Release drops filePath's cached tree, allowing it to be garbage
// collected once no stage holds a reference. The orchestrator does not
// call it; it drops every cached tree with Reset at the end of a run.
func (p *Pool) Release(filePath string) {
	p.cache.remove(filePath)
}

// Reset drops every cached tree. Called by the orchestrator on
// cancellation or completion.
func (p *Pool) Reset() {
	p.cache.clear()
}
