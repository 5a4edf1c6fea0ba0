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

// Package pipeline implements the staged ingestion pipeline and its
// orchestrator: structure, parsing, imports, calls, heritage,
// communities, and processes, run in sequence over a shared
// graphstore.Store, symboltable.Table, and parser.Pool, reporting
// progress through callbacks.
package pipeline

// FileEntry is one {path, content} pair from the pre-filtered input
// sequence.
type FileEntry struct {
	Path    string
	Content []byte
}

// Stats accompanies a ProgressEvent with running totals.
type Stats struct {
	FilesProcessed int
	TotalFiles     int
	NodesCreated   int
}

// Phase names the fixed sequence the orchestrator runs through.
type Phase string

const (
	PhaseExtracting  Phase = "extracting"
	PhaseStructure   Phase = "structure"
	PhaseParsing     Phase = "parsing"
	PhaseImports     Phase = "imports"
	PhaseCalls       Phase = "calls"
	PhaseHeritage    Phase = "heritage"
	PhaseCommunities Phase = "communities"
	PhaseProcesses   Phase = "processes"
	PhaseComplete    Phase = "complete"
	PhaseError       Phase = "error"
)

// ProgressEvent is one record in the progress stream.
type ProgressEvent struct {
	Phase   Phase
	Percent float64
	Message string
	Detail  string
	Stats   *Stats
}

// ProgressFunc receives progress events as the pipeline advances. A nil
// ProgressFunc is valid; callers that don't need progress may omit it.
type ProgressFunc func(ProgressEvent)

func emit(cb ProgressFunc, phase Phase, percent float64, message string, stats *Stats) {
	if cb == nil {
		return
	}
	cb(ProgressEvent{Phase: phase, Percent: percent, Message: message, Stats: stats})
}

// phaseRange is the deterministic percent allocation per phase.
var phaseRange = map[Phase][2]float64{
	PhaseExtracting:  {0, 15},
	PhaseStructure:   {15, 30},
	PhaseParsing:     {30, 70},
	PhaseImports:     {70, 82},
	PhaseCalls:       {82, 92},
	PhaseHeritage:    {88, 92},
	PhaseCommunities: {92, 98},
	PhaseProcesses:   {98, 99},
	PhaseComplete:    {100, 100},
}

// percentWithin linearly interpolates frac∈[0,1] within phase's allotted range.
func percentWithin(phase Phase, frac float64) float64 {
	r := phaseRange[phase]
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return r[0] + frac*(r[1]-r[0])
}
