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

package hedera_test

import (
	"testing"
	"time"

	"github.com/blinklabs-io/gohedera"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTransactionId(t *testing.T) {
	accountId := ledger.NewAccountId(0, 0, 1001)
	for i := 0; i < 20; i++ {
		before := time.Now()
		transactionId := hedera.GenerateTransactionId(accountId)
		after := time.Now()
		assert.Equal(t, accountId, transactionId.AccountId)
		assert.False(t, transactionId.ValidStart.Before(before.Add(-8*time.Second)))
		assert.False(t, transactionId.ValidStart.After(after.Add(-5*time.Second)))
	}
}

func TestTransactionIdString(t *testing.T) {
	testDefs := []struct {
		input         string
		expected      hedera.TransactionId
		invalid       bool
		canonicalForm string
	}{
		{
			input: "0.0.1001@1700000000.000000500",
			expected: hedera.NewTransactionId(
				ledger.NewAccountId(0, 0, 1001),
				time.Unix(1700000000, 500),
			),
		},
		{
			input: "0.0.2@1700000000.5?scheduled/3",
			expected: hedera.TransactionId{
				AccountId:  ledger.NewAccountId(0, 0, 2),
				ValidStart: time.Unix(1700000000, 5).UTC(),
				Scheduled:  true,
				Nonce:      3,
			},
			canonicalForm: "0.0.2@1700000000.000000005?scheduled/3",
		},
		{input: "0.0.2", invalid: true},
		{input: "0.0.2@1700000000", invalid: true},
		{input: "0.0.2@abc.5", invalid: true},
		{input: "0.0.2@1700000000.1000000000", invalid: true},
		{input: "0.0.x@1700000000.5", invalid: true},
	}
	for _, testDef := range testDefs {
		transactionId, err := hedera.TransactionIdFromString(testDef.input)
		if testDef.invalid {
			assert.Error(t, err, "input %q", testDef.input)
			continue
		}
		require.NoError(t, err, "input %q", testDef.input)
		assert.True(
			t,
			testDef.expected.Equal(transactionId),
			"input %q: got %s", testDef.input, transactionId.String(),
		)
		canonicalForm := testDef.canonicalForm
		if canonicalForm == "" {
			canonicalForm = testDef.input
		}
		assert.Equal(t, canonicalForm, transactionId.String())
	}
}

func TestTransactionIdIsZero(t *testing.T) {
	assert.True(t, hedera.TransactionId{}.IsZero())
	assert.False(t, hedera.GenerateTransactionId(ledger.NewAccountId(0, 0, 2)).IsZero())
}
