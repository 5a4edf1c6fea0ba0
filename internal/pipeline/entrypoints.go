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

import "regexp"

// utilityNamePatterns match low-signal accessor/helper names that are
// unlikely to be meaningful process entry points; matching dampens the
// candidate's score.
var utilityNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(get|set|is|has)[A-Z_]`),
	regexp.MustCompile(`(?i)^(get|set|is|has)$`),
	regexp.MustCompile(`(?i)^to[A-Z]`),
	regexp.MustCompile(`(?i)^(util|helper|format|parse)`),
}

// entryNamePatterns are the name patterns whose match boosts a
// candidate's entry-point score. It is a single list applied to every
// language; there are no per-language pattern sets.
var entryNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^main$`),
	regexp.MustCompile(`(?i)^(handle|handler)`),
	regexp.MustCompile(`(?i)^(run|start|execute|process)`),
	regexp.MustCompile(`(?i)(controller|route|endpoint|view)$`),
	regexp.MustCompile(`(?i)^on[A-Z]`),
	regexp.MustCompile(`(?i)^(init|setup|bootstrap)`),
}

// frameworkPathRules assigns a framework_factor multiplier by path
// pattern (Next.js routes, Express routes, Django views, Spring
// controllers, language main entries).
type frameworkRule struct {
	pattern *regexp.Regexp
	factor  float64
}

var frameworkPathRules = []frameworkRule{
	{regexp.MustCompile(`(^|/)(pages|app)/api/`), 1.8},
	{regexp.MustCompile(`(^|/)pages/`), 1.4},
	{regexp.MustCompile(`(^|/)routes?/`), 1.6},
	{regexp.MustCompile(`(?i)views\.py$`), 1.6},
	{regexp.MustCompile(`(?i)urls\.py$`), 1.4},
	{regexp.MustCompile(`(?i)Controller\.(java|cs)$`), 1.6},
	{regexp.MustCompile(`(^|/)main\.go$`), 1.8},
	{regexp.MustCompile(`(^|/)main\.rs$`), 1.8},
	{regexp.MustCompile(`(^|/)main\.c(pp)?$`), 1.8},
	{regexp.MustCompile(`(^|/)(index|main)\.(ts|tsx|js|jsx)$`), 1.3},
}

var testPathPattern = regexp.MustCompile(`(?i)(^|/)(tests?|__tests__|spec)(/|$)|[._](test|spec)\.|_test\.`)

func isTestFile(path string) bool {
	return testPathPattern.MatchString(path)
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func frameworkFactor(path string) float64 {
	for _, r := range frameworkPathRules {
		if r.pattern.MatchString(path) {
			return r.factor
		}
	}
	return 1.0
}
