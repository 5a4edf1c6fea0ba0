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

// Package ignore implements the path classifier that keeps build
// artifacts, dependency directories, IDE metadata, media/binary files,
// secrets, and VCS metadata out of the ingestion pipeline.
package ignore

import (
	"path"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// RuleKind tags which of the five matcher types a Rule uses.
type RuleKind int

const (
	// RuleSegment matches when any "/"-separated path segment equals Value.
	RuleSegment RuleKind = iota
	// RuleExtension matches when the path ends in Value (supports compound
	// extensions like ".min.js").
	RuleExtension
	// RuleFilename matches when the final path segment equals Value exactly.
	RuleFilename
	// RuleGlob matches the whole normalized path against a doublestar pattern.
	RuleGlob
	// RuleRegex matches the whole normalized path against a compiled regexp.
	RuleRegex
)

// Rule is one matcher in the Filter's rule set.
type Rule struct {
	Kind  RuleKind
	Value string
	re    *regexp.Regexp
}

// Filter classifies paths as accepted or rejected. Matching short-circuits
// on the first rule that hits.
type Filter struct {
	rules []Rule
}

// New builds a Filter from rules, compiling any RuleRegex entries.
func New(rules []Rule) *Filter {
	compiled := make([]Rule, len(rules))
	for i, r := range rules {
		if r.Kind == RuleRegex {
			r.re = regexp.MustCompile(r.Value)
		}
		compiled[i] = r
	}
	return &Filter{rules: compiled}
}

// Default returns the built-in rule set covering build artifacts,
// dependency directories, IDE metadata, binary/media extensions, secrets,
// and VCS metadata.
func Default() *Filter {
	return New(DefaultRules())
}

// DefaultRules is the built-in set, exposed separately so callers can
// extend it with project-specific rules rather than replace it outright.
func DefaultRules() []Rule {
	var rules []Rule

	segments := []string{
		"node_modules", "vendor", "dist", "build", "out", "target",
		".git", ".hg", ".svn", ".idea", ".vscode", "__pycache__",
		".pytest_cache", ".mypy_cache", ".tox", "venv", ".venv",
		"env", "bin", "obj", ".next", ".nuxt", "coverage", ".terraform",
		"Pods", "DerivedData", ".gradle",
	}
	for _, s := range segments {
		rules = append(rules, Rule{Kind: RuleSegment, Value: s})
	}

	extensions := []string{
		".min.js", ".min.css", ".map",
		".png", ".jpg", ".jpeg", ".gif", ".bmp", ".ico", ".webp", ".svg",
		".mp3", ".mp4", ".mov", ".avi", ".wav", ".flac",
		".zip", ".tar", ".gz", ".tgz", ".7z", ".rar", ".jar", ".war",
		".exe", ".dll", ".so", ".dylib", ".a", ".o", ".obj", ".class",
		".pyc", ".pyo", ".woff", ".woff2", ".ttf", ".eot", ".otf",
		".pdf", ".lock",
	}
	for _, e := range extensions {
		rules = append(rules, Rule{Kind: RuleExtension, Value: e})
	}

	filenames := []string{
		".DS_Store", "Thumbs.db", "package-lock.json", "yarn.lock",
		"pnpm-lock.yaml", "go.sum", "Cargo.lock", "poetry.lock",
		".env", ".env.local", ".env.production", "credentials.json",
		"id_rsa", "id_rsa.pub",
	}
	for _, f := range filenames {
		rules = append(rules, Rule{Kind: RuleFilename, Value: f})
	}

	rules = append(rules,
		Rule{Kind: RuleRegex, Value: `(?i)\.(pem|key|pfx|p12)$`},
		Rule{Kind: RuleRegex, Value: `(?i)(^|/)\.env\..*`},
	)

	return rules
}

// normalize converts backslashes to forward slashes before matching, per
// the Ignore Filter's contract.
func normalize(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// Accept reports whether p survives every rule (i.e. should be ingested).
func (f *Filter) Accept(p string) bool {
	return !f.Reject(p)
}

// Reject reports whether p is excluded by any rule.
func (f *Filter) Reject(p string) bool {
	norm := normalize(p)
	base := path.Base(norm)

	for _, r := range f.rules {
		switch r.Kind {
		case RuleSegment:
			for _, seg := range strings.Split(norm, "/") {
				if seg == r.Value {
					return true
				}
			}
		case RuleExtension:
			if strings.HasSuffix(strings.ToLower(norm), strings.ToLower(r.Value)) {
				return true
			}
		case RuleFilename:
			if base == r.Value {
				return true
			}
		case RuleGlob:
			ok, err := doublestar.Match(r.Value, norm)
			if err == nil && ok {
				return true
			}
		case RuleRegex:
			if r.re != nil && r.re.MatchString(norm) {
				return true
			}
		}
	}
	return false
}

// AddGlob appends a user-supplied doublestar glob exclusion rule.
func (f *Filter) AddGlob(pattern string) {
	f.rules = append(f.rules, Rule{Kind: RuleGlob, Value: pattern})
}
