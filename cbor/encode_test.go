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

type encodeTestDefinition struct {
	CborHex string
	Object  any
}

var encodeTests = []encodeTestDefinition{
	// Simple list of numbers
	{
		CborHex: "83010203",
		Object:  []any{1, 2, 3},
	},
	// Map keys are sorted regardless of insertion order
	{
		CborHex: "a2016161026162",
		Object:  map[int]string{2: "b", 1: "a"},
	},
}

func TestEncode(t *testing.T) {
	for _, test := range encodeTests {
		cborData, err := cbor.Encode(test.Object)
		require.NoError(t, err)
		assert.Equal(t, test.CborHex, hex.EncodeToString(cborData))
	}
}

type genericTestType struct {
	cbor.DecodeStoreCbor
	Num  uint64 `cbor:"1,keyasint"`
	Name string `cbor:"2,keyasint,omitempty"`
}

func (g *genericTestType) MarshalCBOR() ([]byte, error) {
	// Never used by EncodeGeneric
	return nil, nil
}

func (g *genericTestType) UnmarshalCBOR(data []byte) error {
	return cbor.DecodeGeneric(data, g)
}

func TestEncodeDecodeGeneric(t *testing.T) {
	src := &genericTestType{Num: 7, Name: "seven"}
	cborData, err := cbor.EncodeGeneric(src)
	require.NoError(t, err)
	assert.Equal(t, "a201070265736576656e", hex.EncodeToString(cborData))
	var dest genericTestType
	_, err = cbor.Decode(cborData, &dest)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), dest.Num)
	assert.Equal(t, "seven", dest.Name)
	assert.Equal(t, cborData, dest.Cbor())
}

func TestEncodeGenericRequiresStructPointer(t *testing.T) {
	_, err := cbor.EncodeGeneric(genericTestType{})
	assert.Error(t, err)
	err = cbor.DecodeGeneric([]byte{0x01}, new(int))
	assert.Error(t, err)
}
