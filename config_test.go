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
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blinklabs-io/gohedera"
	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientFromConfig(t *testing.T) {
	key, err := keys.GenerateEd25519PrivateKey()
	require.NoError(t, err)
	configJson := fmt.Sprintf(
		`{
			"nodes": {"127.0.0.1:50211": "0.0.3", "127.0.0.1:50212": "0.0.4"},
			"mirrorNetwork": ["127.0.0.1:5600"],
			"ledgerId": "testnet",
			"operator": {"accountId": "0.0.1001", "privateKey": %q},
			"maxAttempts": 4,
			"maxTransactionFee": "3",
			"maxQueryPayment": 0.5,
			"requestTimeout": "30s",
			"attemptTimeout": "5s",
			"regenerateTransactionIds": false,
			"autoValidateChecksums": true
		}`,
		key.String(),
	)
	config, err := hedera.NewClientConfigFromReader(strings.NewReader(configJson))
	require.NoError(t, err)
	client, err := hedera.NewClientFromConfig(config)
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, 4, client.MaxAttempts())
	assert.Equal(t, hedera.NewHbar(3), client.MaxTransactionFee())
	assert.Equal(t, hedera.NewHbar(0.5), client.MaxQueryPayment())
	assert.True(t, client.LedgerId().Equal(ledger.LedgerIdTestnet))
	assert.True(t, client.AutoValidateChecksums())
	assert.ElementsMatch(
		t,
		[]ledger.AccountId{
			ledger.NewAccountId(0, 0, 3),
			ledger.NewAccountId(0, 0, 4),
		},
		client.Registry().NodeAccountIds(),
	)
	assert.Equal(t, []string{"127.0.0.1:5600"}, client.MirrorNetwork().Addresses())
	accountId, ok := client.OperatorAccountId()
	require.True(t, ok)
	assert.Equal(t, ledger.NewAccountId(0, 0, 1001), accountId)
	publicKey, ok := client.OperatorPublicKey()
	require.True(t, ok)
	assert.True(t, publicKey.Equal(key.PublicKey()))
}

func TestNewClientConfigFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "client.json")
	require.NoError(
		t,
		os.WriteFile(configPath, []byte(`{"network": "previewnet", "maxAttempts": 2}`), 0o600),
	)
	config, err := hedera.NewClientConfigFromFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "previewnet", config.Network)
	client, err := hedera.NewClientFromConfig(config)
	require.NoError(t, err)
	defer client.Close()
	assert.Equal(t, 2, client.MaxAttempts())
	assert.Equal(t, "previewnet", client.Network().Name)
	assert.True(t, client.LedgerId().Equal(ledger.LedgerIdPreviewnet))

	_, err = hedera.NewClientConfigFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestClientConfigErrors(t *testing.T) {
	testDefs := []struct {
		name        string
		configJson  string
		expectedErr error
	}{
		{
			name:        "unknown network",
			configJson:  `{"network": "bogus"}`,
			expectedErr: hedera.ErrUnknownNetwork,
		},
		{
			name:       "bad node account",
			configJson: `{"nodes": {"127.0.0.1:50211": "zero.zero.three"}}`,
		},
		{
			name:       "bad operator key",
			configJson: `{"network": "testnet", "operator": {"accountId": "0.0.2", "privateKey": "nothex"}}`,
		},
		{
			name:       "bad duration",
			configJson: `{"network": "testnet", "requestTimeout": "soon"}`,
		},
		{
			name:       "bad amount",
			configJson: `{"network": "testnet", "maxQueryPayment": "lots"}`,
		},
		{
			name:        "no nodes",
			configJson:  `{"maxAttempts": 3}`,
			expectedErr: hedera.ErrNoNodes,
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			config, err := hedera.NewClientConfigFromReader(strings.NewReader(testDef.configJson))
			if err == nil {
				_, err = hedera.NewClientFromConfig(config)
			}
			require.Error(t, err)
			if testDef.expectedErr != nil {
				assert.ErrorIs(t, err, testDef.expectedErr)
			}
		})
	}
}
