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

package ignore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRejectsVendorAndBinaries(t *testing.T) {
	f := Default()

	assert.True(t, f.Reject("node_modules/react/index.js"))
	assert.True(t, f.Reject("vendor/github.com/pkg/errors/errors.go"))
	assert.True(t, f.Reject("assets/logo.png"))
	assert.True(t, f.Reject("dist/bundle.min.js"))
	assert.True(t, f.Reject(".git/HEAD"))
	assert.True(t, f.Reject("src/.env"))
}

func TestDefaultAcceptsSourceFiles(t *testing.T) {
	f := Default()

	assert.True(t, f.Accept("src/main.go"))
	assert.True(t, f.Accept("lib/util.py"))
	assert.True(t, f.Accept("pkg/graph/store.ts"))
}

func TestBackslashNormalization(t *testing.T) {
	f := Default()
	assert.True(t, f.Reject(`node_modules\react\index.js`))
}

func TestGlobRule(t *testing.T) {
	f := New(nil)
	f.AddGlob("**/*_generated.go")
	assert.True(t, f.Reject("internal/api/types_generated.go"))
	assert.False(t, f.Reject("internal/api/types.go"))
}

func TestFilenameRule(t *testing.T) {
	f := Default()
	assert.True(t, f.Reject("go.sum"))
	assert.True(t, f.Reject("a/b/.DS_Store"))
}
