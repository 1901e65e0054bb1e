// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cbor_test

import (
	"encoding/hex"
	"testing"

	"github.com/blinklabs-io/gohedera/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodeTestDefinition struct {
	CborHex   string
	Object    any
	BytesRead int
}

var decodeTests = []decodeTestDefinition{
	// Simple list of numbers
	{
		CborHex: "83010203",
		Object:  []any{uint64(1), uint64(2), uint64(3)},
	},
	// Multiple CBOR objects
	{
		CborHex:   "81018102",
		Object:    []any{uint64(1)},
		BytesRead: 2,
	},
}

func TestDecode(t *testing.T) {
	for _, test := range decodeTests {
		cborData, err := hex.DecodeString(test.CborHex)
		require.NoError(t, err)
		var dest any
		bytesRead, err := cbor.Decode(cborData, &dest)
		require.NoError(t, err)
		if test.BytesRead > 0 {
			assert.Equal(t, test.BytesRead, bytesRead)
		}
		assert.Equal(t, test.Object, dest)
	}
}

func TestDecodeSkipsUnknownField(t *testing.T) {
	type small struct {
		Num uint64 `cbor:"1,keyasint"`
	}
	// {1: 7, 2: "x"}
	cborData, err := hex.DecodeString("a20107026178")
	require.NoError(t, err)
	var dest small
	bytesRead, err := cbor.Decode(cborData, &dest)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), dest.Num)
	assert.Equal(t, len(cborData), bytesRead)
}
