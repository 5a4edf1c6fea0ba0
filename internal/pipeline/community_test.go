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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgraph/cgraph/internal/graphstore"
	"github.com/cgraph/cgraph/internal/types"
)

func addFunc(store *graphstore.Store, file, name string) string {
	id := types.SymbolID(types.KindFunction, file, name)
	store.AddNode(&types.Node{ID: id, Kind: types.KindFunction, Name: name, FilePath: file})
	return id
}

func addCall(store *graphstore.Store, from, to string) {
	store.AddEdge(&types.Edge{
		ID: "calls:" + from + ":" + to, Source: from, Target: to,
		Kind: types.EdgeCalls, Confidence: 0.85, Reason: types.ReasonSameFile,
	})
}

func TestCommunityFromMutualCalls(t *testing.T) {
	store := graphstore.New()
	login := addFunc(store, "src/auth/login.ts", "login")
	logout := addFunc(store, "src/auth/logout.ts", "logout")
	session := addFunc(store, "src/auth/session.ts", "session")
	addCall(store, login, logout)
	addCall(store, logout, session)
	addCall(store, session, login)

	result := runCommunity(store, nil)
	require.Len(t, result.Communities, 1)

	comm := result.Communities[0]
	assert.Equal(t, "Auth", comm.Name)
	assert.Equal(t, 3, comm.SymbolCount)
	assert.Equal(t, 1.0, comm.Cohesion)

	// Community node landed in the store with one MEMBER_OF per member.
	stored, ok := store.Node(comm.ID)
	require.True(t, ok)
	assert.Equal(t, types.KindCommunity, stored.Kind)
	for _, member := range []string{login, logout, session} {
		memberOf := 0
		for _, e := range store.EdgesFrom(member) {
			if e.Kind == types.EdgeMemberOf {
				memberOf++
				assert.Equal(t, comm.ID, e.Target)
			}
		}
		assert.Equal(t, 1, memberOf, "member %s", member)
	}
}

func TestSingletonCommunitiesDiscarded(t *testing.T) {
	store := graphstore.New()
	addFunc(store, "src/a.ts", "isolated")

	result := runCommunity(store, nil)
	assert.Empty(t, result.Communities)
	assert.Empty(t, store.NodesOfKind(types.KindCommunity))
}

func TestCommunitiesSortedByMemberCount(t *testing.T) {
	store := graphstore.New()

	// A triangle in payments and a pair in mail, disconnected.
	a := addFunc(store, "src/payments/charge.ts", "charge")
	b := addFunc(store, "src/payments/refund.ts", "refund")
	c := addFunc(store, "src/payments/ledger.ts", "ledger")
	addCall(store, a, b)
	addCall(store, b, c)
	addCall(store, c, a)

	d := addFunc(store, "src/mail/send.ts", "send")
	e := addFunc(store, "src/mail/render.ts", "render")
	addCall(store, d, e)

	result := runCommunity(store, nil)
	require.Len(t, result.Communities, 2)
	assert.GreaterOrEqual(t, result.Communities[0].SymbolCount, result.Communities[1].SymbolCount)
	assert.Equal(t, 3, result.Communities[0].SymbolCount)
	assert.Equal(t, "Payments", result.Communities[0].Name)
	assert.Equal(t, "Mail", result.Communities[1].Name)
}

func TestCohesionInUnitRange(t *testing.T) {
	store := graphstore.New()
	a := addFunc(store, "src/x/a.ts", "alpha")
	b := addFunc(store, "src/x/b.ts", "beta")
	c := addFunc(store, "src/x/c.ts", "gamma")
	// A path, not a triangle: 2 internal edges over 3 possible pairs.
	addCall(store, a, b)
	addCall(store, b, c)

	result := runCommunity(store, nil)
	for _, comm := range result.Communities {
		assert.GreaterOrEqual(t, comm.Cohesion, 0.0)
		assert.LessOrEqual(t, comm.Cohesion, 1.0)
	}
}

func TestCommunityLabelFallsBackToNamePrefix(t *testing.T) {
	store := graphstore.New()
	// Generic dirs only, so the directory heuristic yields nothing.
	a := addFunc(store, "src/a.ts", "parseHeader")
	b := addFunc(store, "lib/b.ts", "parseBody")
	addCall(store, a, b)

	result := runCommunity(store, nil)
	require.Len(t, result.Communities, 1)
	assert.Equal(t, "Parse", result.Communities[0].Name[:5])
}

func TestLouvainSplitsDisconnectedCliques(t *testing.T) {
	g := newWeightedGraph(6)
	// Two triangles with no bridge.
	g.addEdge(0, 1, 1)
	g.addEdge(1, 2, 1)
	g.addEdge(2, 0, 1)
	g.addEdge(3, 4, 1)
	g.addEdge(4, 5, 1)
	g.addEdge(5, 3, 1)

	res := runLouvain(g)
	require.Len(t, res.communityOf, 6)
	assert.Equal(t, res.communityOf[0], res.communityOf[1])
	assert.Equal(t, res.communityOf[1], res.communityOf[2])
	assert.Equal(t, res.communityOf[3], res.communityOf[4])
	assert.Equal(t, res.communityOf[4], res.communityOf[5])
	assert.NotEqual(t, res.communityOf[0], res.communityOf[3])
}

func TestLouvainEmptyGraph(t *testing.T) {
	res := runLouvain(newWeightedGraph(0))
	assert.Empty(t, res.communityOf)
	assert.Equal(t, 0, res.numCommunities)
}

func TestLongestCommonPrefix(t *testing.T) {
	assert.Equal(t, "handle", longestCommonPrefix([]string{"handleGet", "handlePost", "handlePut"}))
	assert.Equal(t, "", longestCommonPrefix([]string{"alpha", "beta"}))
	assert.Equal(t, "", longestCommonPrefix(nil))
}
