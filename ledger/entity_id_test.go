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

package ledger_test

import (
	"errors"
	"testing"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIdRoundTrip(t *testing.T) {
	testDefs := []string{
		"0.0.0",
		"0.0.3",
		"0.0.123",
		"1.2.3",
		"18446744073709551615.0.42",
		"0.0.18446744073709551615",
	}
	for _, input := range testDefs {
		t.Run(input, func(t *testing.T) {
			id, err := ledger.AccountIdFromString(input)
			require.NoError(t, err)
			assert.Equal(t, input, id.String())
		})
	}
}

func TestEntityIdParseErrors(t *testing.T) {
	testDefs := []struct {
		input       string
		expectedErr error
	}{
		{"", ledger.ErrInvalidEntityId},
		{"0.0", ledger.ErrInvalidEntityId},
		{"0.0.1.2", ledger.ErrInvalidEntityId},
		{"0.0.abc", nil},
		{"-1.0.1", nil},
		{"0.0.123-abc", ledger.ErrInvalidChecksum},
		{"0.0.123-ABCDE", ledger.ErrInvalidChecksum},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.input, func(t *testing.T) {
			_, err := ledger.AccountIdFromString(testDef.input)
			require.Error(t, err)
			var parseErr *ledger.ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Equal(t, testDef.input, parseErr.Input)
			if testDef.expectedErr != nil {
				assert.ErrorIs(t, err, testDef.expectedErr)
			}
		})
	}
}

func TestChecksum(t *testing.T) {
	testDefs := []struct {
		ledgerId ledger.LedgerId
		expected string
	}{
		{ledger.LedgerIdMainnet, "vfmkw"},
		{ledger.LedgerIdTestnet, "esxsf"},
		{ledger.LedgerIdPreviewnet, "ogizo"},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.ledgerId.String(), func(t *testing.T) {
			assert.Equal(
				t,
				testDef.expected,
				ledger.Checksum(testDef.ledgerId, 0, 0, 123),
			)
			id, err := ledger.AccountIdFromString("0.0.123-" + testDef.expected)
			require.NoError(t, err)
			assert.NoError(t, id.ValidateChecksum(testDef.ledgerId))
			assert.Equal(
				t,
				"0.0.123-"+testDef.expected,
				id.StringWithChecksum(testDef.ledgerId),
			)
		})
	}
}

func TestChecksumMismatch(t *testing.T) {
	id, err := ledger.AccountIdFromString("0.0.123-ntjli")
	require.NoError(t, err)
	err = id.ValidateChecksum(ledger.LedgerIdPreviewnet)
	require.ErrorIs(t, err, ledger.ErrBadChecksum)
	var badErr *ledger.BadChecksumError
	require.True(t, errors.As(err, &badErr))
	assert.Equal(t, "ogizo", badErr.Expected)
	assert.Equal(t, "ntjli", badErr.Actual)
	assert.ErrorIs(
		t,
		id.ValidateChecksum(nil),
		ledger.ErrMissingLedgerId,
	)
}

func TestAccountIdEqualIgnoresChecksum(t *testing.T) {
	a, err := ledger.AccountIdFromString("0.0.123-vfmkw")
	require.NoError(t, err)
	b := ledger.NewAccountId(0, 0, 123)
	assert.True(t, a.Equal(b))
	assert.NotEqual(t, a, b)
	assert.Equal(t, b, a.WithoutChecksum())
}

func TestLedgerIdFromString(t *testing.T) {
	id, err := ledger.LedgerIdFromString("testnet")
	require.NoError(t, err)
	assert.True(t, id.Equal(ledger.LedgerIdTestnet))
	id, err = ledger.LedgerIdFromString("03")
	require.NoError(t, err)
	assert.Equal(t, "03", id.String())
	_, err = ledger.LedgerIdFromString("zz")
	assert.Error(t, err)
}

func TestBlake2b384Hash(t *testing.T) {
	hash := ledger.Blake2b384Hash([]byte("abc"))
	assert.Len(t, hash.Bytes(), ledger.Blake2b384Size)
	assert.Equal(t, hash, ledger.Blake2b384Hash([]byte("abc")))
	assert.NotEqual(t, hash, ledger.Blake2b384Hash([]byte("abd")))
}
