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

package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitToRoundTrips(t *testing.T) {
	type statusDoc struct {
		ProjectID string         `json:"project_id"`
		Nodes     int            `json:"nodes"`
		NodeKinds map[string]int `json:"node_kinds"`
	}
	in := statusDoc{ProjectID: "demo", Nodes: 7, NodeKinds: map[string]int{"File": 3, "Function": 4}}

	var buf bytes.Buffer
	require.NoError(t, EmitTo(&buf, in))

	var out statusDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, in, out)

	// Indented, newline-terminated.
	assert.Contains(t, buf.String(), "\n  \"project_id\"")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestEmitToRejectsUnencodable(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, EmitTo(&buf, make(chan int)))
	assert.Empty(t, buf.String())
}

func TestEmitErrorToDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EmitErrorTo(&buf, errors.New("no graph snapshot found")))

	var doc map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "no graph snapshot found", doc["error"])
}

func TestTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"a.name", "b.name"}, [][]string{
		{"main", "handleLogin"},
		{"handleLogin", "db"},
	})

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "a.name       b.name", strings.TrimRight(lines[0], " "))
	assert.Equal(t, "-----------  -----------", strings.TrimRight(lines[1], " "))
	assert.Equal(t, "main         handleLogin", strings.TrimRight(lines[2], " "))
	assert.Contains(t, buf.String(), "2 row(s)")
}

func TestTableEmptyRows(t *testing.T) {
	var buf bytes.Buffer
	Table(&buf, []string{"n.name"}, nil)
	assert.Contains(t, buf.String(), "n.name")
	assert.Contains(t, buf.String(), "0 row(s)")
}
