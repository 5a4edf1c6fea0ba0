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

// Package graphdb names the contract a persistent graph database
// adapter must satisfy to receive an ingested graph. The engine behind
// it is replaceable; only the ingestion contract is fixed. No concrete
// adapter ships in this module.
package graphdb

import (
	"context"

	"github.com/cgraph/cgraph/internal/types"
)

// Backend ingests graph batches and answers read-only queries.
//
// Ingestion contract: IngestNodes is called before IngestEdges for any
// batch whose edges reference those nodes; re-ingesting an existing ID
// must be a no-op; Flush makes all prior ingests durable and visible to
// Query. Implementations must tolerate placeholder edge targets that
// were never ingested as nodes.
type Backend interface {
	IngestNodes(ctx context.Context, nodes []*types.Node) error
	IngestEdges(ctx context.Context, edges []*types.Edge) error
	Flush(ctx context.Context) error

	// Query executes a read-only statement in the backend's query
	// language and returns tabular results.
	Query(ctx context.Context, statement string) (*QueryResult, error)

	Close() error
}

// QueryResult is the tabular shape every backend returns.
type QueryResult struct {
	Headers []string
	Rows    [][]any
}
