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
	"strconv"
	"testing"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseError(t *testing.T) {
	testDefs := []struct {
		input       string
		expectedErr error
		expectedMsg string
	}{
		{
			input:       "0.0",
			expectedErr: ledger.ErrInvalidEntityId,
			expectedMsg: `failed to parse account id "0.0": expected <shard>.<realm>.<num>`,
		},
		{
			input:       "0.0.123-ABCDE",
			expectedErr: ledger.ErrInvalidChecksum,
			expectedMsg: `failed to parse account id "0.0.123-ABCDE": checksum must be exactly 5 lowercase letters`,
		},
		{
			input:       "0.0.abc",
			expectedErr: strconv.ErrSyntax,
		},
	}
	for _, testDef := range testDefs {
		_, err := ledger.AccountIdFromString(testDef.input)
		require.Error(t, err, "input: %s", testDef.input)
		var parseErr *ledger.ParseError
		require.True(t, errors.As(err, &parseErr), "input: %s", testDef.input)
		assert.Equal(t, "account id", parseErr.Kind)
		assert.Equal(t, testDef.input, parseErr.Input)
		assert.ErrorIs(t, err, testDef.expectedErr, "input: %s", testDef.input)
		if testDef.expectedMsg != "" {
			assert.Equal(t, testDef.expectedMsg, err.Error())
		}
	}
}

func TestBadChecksumError(t *testing.T) {
	err := &ledger.BadChecksumError{
		Id:       ledger.NewEntityId(0, 0, 123),
		Expected: "ogizo",
		Actual:   "ntjli",
	}
	assert.Equal(
		t,
		"invalid checksum for entity id 0.0.123: expected ogizo, found ntjli",
		err.Error(),
	)
	assert.ErrorIs(t, err, ledger.ErrBadChecksum)
	assert.NotErrorIs(t, err, ledger.ErrMissingLedgerId)
}

func TestLedgerIdString(t *testing.T) {
	assert.Equal(t, "mainnet", ledger.LedgerIdMainnet.String())
	assert.Equal(t, "previewnet", ledger.LedgerIdPreviewnet.String())
	assert.Equal(t, "0a0b", ledger.LedgerId{0x0a, 0x0b}.String())
	assert.True(t, ledger.LedgerId(nil).IsZero())
	assert.False(t, ledger.LedgerIdMainnet.IsZero())
	_, err := ledger.LedgerIdFromString("zz")
	var parseErr *ledger.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "ledger id", parseErr.Kind)
}
