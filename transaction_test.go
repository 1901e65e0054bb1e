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

package hedera

import (
	"bytes"
	"testing"
	"time"

	"github.com/blinklabs-io/gohedera/cbor"
	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testPayer = ledger.NewAccountId(0, 0, 1001)
	testNode3 = ledger.NewAccountId(0, 0, 3)
	testNode4 = ledger.NewAccountId(0, 0, 4)
)

func testTransactionId() TransactionId {
	return NewTransactionId(testPayer, time.Unix(1700000000, 500))
}

func decodeBody(t *testing.T, body *frozenBody) *protocol.TransactionBody {
	t.Helper()
	ret := &protocol.TransactionBody{}
	_, err := cbor.Decode(body.bodyBytes, ret)
	require.NoError(t, err)
	return ret
}

func TestFreezeRequiresNodeAccountIds(t *testing.T) {
	_, err := NewTransferTransaction().
		SetTransactionId(testTransactionId()).
		Freeze()
	assert.ErrorIs(t, err, ErrFreezeUnsetNodeAccountIds)
}

func TestFreezeRequiresTransactionId(t *testing.T) {
	_, err := NewTransferTransaction().
		SetNodeAccountIds(testNode3).
		Freeze()
	assert.ErrorIs(t, err, ErrNoPayerAccountOrTransactionId)
}

func TestMutationAfterFreeze(t *testing.T) {
	tx, err := NewTransferTransaction().
		SetNodeAccountIds(testNode3).
		SetTransactionId(testTransactionId()).
		AddHbarTransfer(testPayer, NewHbar(-1)).
		AddHbarTransfer(testNode3, NewHbar(1)).
		Freeze()
	require.NoError(t, err)
	assert.True(t, tx.IsFrozen())
	assert.Equal(t, TransactionStateFrozen, tx.State())
	tx.SetTransactionMemo("too late")
	assert.ErrorIs(t, tx.Err(), ErrTransactionFrozen)
	tx.AddHbarTransfer(testPayer, NewHbar(1))
	assert.Equal(t, NewHbar(-1), tx.GetHbarTransfers()[testPayer])
	_, err = tx.Freeze()
	assert.ErrorIs(t, err, ErrTransactionFrozen)
}

func TestSignBeforeFreeze(t *testing.T) {
	key, err := keys.GenerateEd25519PrivateKey()
	require.NoError(t, err)
	tx := NewTransferTransaction().Sign(key)
	assert.ErrorIs(t, tx.Err(), ErrTransactionNotFrozen)
}

func TestSignSkipsDuplicateKeys(t *testing.T) {
	key, err := keys.GenerateEd25519PrivateKey()
	require.NoError(t, err)
	tx, err := NewTransferTransaction().
		SetNodeAccountIds(testNode3, testNode4).
		SetTransactionId(testTransactionId()).
		Freeze()
	require.NoError(t, err)
	tx.Sign(key).Sign(key)
	require.NoError(t, tx.Err())
	assert.Equal(t, TransactionStateSigned, tx.State())
	sigs, err := tx.GetSignatures()
	require.NoError(t, err)
	require.Len(t, sigs, 2)
	for nodeAccountId, pairs := range sigs {
		require.Len(t, pairs, 1, "node %s", nodeAccountId.String())
		body := tx.chunks[0].body(nodeAccountId)
		assert.True(t, key.PublicKey().Verify(body.bodyBytes, pairs[0].Signature()))
	}
}

func TestTransferSumsAmountsPerAccount(t *testing.T) {
	tx := NewTransferTransaction().
		AddHbarTransfer(testPayer, NewHbar(-1)).
		AddHbarTransfer(testPayer, NewHbar(-2)).
		AddHbarTransfer(testNode3, NewHbar(3))
	transfers := tx.GetHbarTransfers()
	assert.Len(t, transfers, 2)
	assert.Equal(t, NewHbar(-3), transfers[testPayer])
	assert.Equal(t, NewHbar(3), transfers[testNode3])
}

func TestChunkLayout(t *testing.T) {
	contents := bytes.Repeat([]byte{0xab}, 2*DefaultFileAppendChunkSize+1808)
	initialId := testTransactionId()
	tx, err := NewFileAppendTransaction().
		SetNodeAccountIds(testNode3, testNode4).
		SetTransactionId(initialId).
		SetFileId(ledger.NewFileId(0, 0, 150)).
		SetContents(contents).
		Freeze()
	require.NoError(t, err)
	require.Len(t, tx.chunks, 3)
	expectedSizes := []int{DefaultFileAppendChunkSize, DefaultFileAppendChunkSize, 1808}
	for i, chunk := range tx.chunks {
		expectedId := initialId.withOffset(i)
		assert.True(t, expectedId.Equal(chunk.transactionId), "chunk %d", i)
		require.Len(t, chunk.bodies, 2)
		for j, nodeAccountId := range []ledger.AccountId{testNode3, testNode4} {
			body := decodeBody(t, chunk.bodies[j])
			assert.Equal(t, nodeAccountId, body.NodeAccountID.AccountId())
			assert.True(
				t,
				initialId.ValidStart.Add(time.Duration(i)).Equal(body.TransactionID.ValidStart.Time()),
			)
			require.NotNil(t, body.ChunkInfo)
			assert.Equal(t, int32(3), body.ChunkInfo.Total)
			assert.Equal(t, int32(i+1), body.ChunkInfo.Number)
			assert.Equal(t, initialId.toProtocol(), body.ChunkInfo.InitialTransactionID)
			require.NotNil(t, body.FileAppend)
			assert.Len(t, body.FileAppend.Contents, expectedSizes[i])
		}
	}
}

func TestChunkLayoutSingleChunk(t *testing.T) {
	tx, err := NewTopicMessageSubmitTransaction().
		SetNodeAccountIds(testNode3).
		SetTransactionId(testTransactionId()).
		SetTopicId(ledger.NewTopicId(0, 0, 1234)).
		Freeze()
	require.NoError(t, err)
	require.Len(t, tx.chunks, 1)
	body := decodeBody(t, tx.chunks[0].bodies[0])
	require.NotNil(t, body.ChunkInfo)
	assert.Equal(t, int32(1), body.ChunkInfo.Total)
	assert.Equal(t, int32(1), body.ChunkInfo.Number)
}

func TestMaxChunksExceeded(t *testing.T) {
	_, err := NewTopicMessageSubmitTransaction().
		SetNodeAccountIds(testNode3).
		SetTransactionId(testTransactionId()).
		SetTopicId(ledger.NewTopicId(0, 0, 1234)).
		SetMessage(make([]byte, 3*DefaultTopicMessageChunkSize)).
		SetMaxChunks(2).
		Freeze()
	assert.ErrorIs(t, err, ErrMaxChunksExceeded)
}

func TestMissingTopicId(t *testing.T) {
	_, err := NewTopicMessageSubmitTransaction().
		SetNodeAccountIds(testNode3).
		SetTransactionId(testTransactionId()).
		SetMessage([]byte("hello")).
		Freeze()
	assert.ErrorIs(t, err, ErrMissingTopicId)
}

func TestDefaultMaxTransactionFee(t *testing.T) {
	testDefs := []struct {
		name     string
		freeze   func() (*frozenBody, error)
		expected Hbar
	}{
		{
			name: "transfer",
			freeze: func() (*frozenBody, error) {
				tx, err := NewTransferTransaction().
					SetNodeAccountIds(testNode3).
					SetTransactionId(testTransactionId()).
					Freeze()
				if err != nil {
					return nil, err
				}
				return tx.chunks[0].bodies[0], nil
			},
			expected: NewHbar(1),
		},
		{
			name: "topic create",
			freeze: func() (*frozenBody, error) {
				tx, err := NewTopicCreateTransaction().
					SetNodeAccountIds(testNode3).
					SetTransactionId(testTransactionId()).
					Freeze()
				if err != nil {
					return nil, err
				}
				return tx.chunks[0].bodies[0], nil
			},
			expected: NewHbar(25),
		},
		{
			name: "explicit",
			freeze: func() (*frozenBody, error) {
				tx, err := NewAccountCreateTransaction().
					SetNodeAccountIds(testNode3).
					SetTransactionId(testTransactionId()).
					SetMaxTransactionFee(NewHbar(7)).
					Freeze()
				if err != nil {
					return nil, err
				}
				return tx.chunks[0].bodies[0], nil
			},
			expected: NewHbar(7),
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			frozen, err := testDef.freeze()
			require.NoError(t, err)
			body := decodeBody(t, frozen)
			assert.Equal(t, uint64(testDef.expected.AsTinybar()), body.TransactionFee)
			assert.Equal(t, DefaultTransactionValidDuration, body.ValidDuration.Duration())
		})
	}
}

func TestTransactionHash(t *testing.T) {
	tx, err := NewTransferTransaction().
		SetNodeAccountIds(testNode3, testNode4).
		SetTransactionId(testTransactionId()).
		Freeze()
	require.NoError(t, err)
	_, err = tx.GetTransactionHash()
	assert.ErrorIs(t, err, ErrTransactionHashMultipleNodes)
	hashes, err := tx.GetTransactionHashPerNode()
	require.NoError(t, err)
	assert.Len(t, hashes, 2)
	assert.NotEqual(t, hashes[testNode3], hashes[testNode4])

	single, err := NewTransferTransaction().
		SetNodeAccountIds(testNode3).
		SetTransactionId(testTransactionId()).
		Freeze()
	require.NoError(t, err)
	hash, err := single.GetTransactionHash()
	require.NoError(t, err)
	signedBytes, err := single.chunks[0].bodies[0].signedTransactionBytes()
	require.NoError(t, err)
	assert.Equal(t, ledger.Blake2b384Hash(signedBytes), hash)
}

func TestRegenerateTransactionId(t *testing.T) {
	key, err := keys.GenerateEd25519PrivateKey()
	require.NoError(t, err)
	tx, err := NewTransferTransaction().
		SetNodeAccountIds(testNode3).
		SetTransactionId(GenerateTransactionId(testPayer)).
		Freeze()
	require.NoError(t, err)
	tx.Sign(key)
	oldId := tx.GetTransactionId()
	require.NoError(t, tx.regenerateTransactionId())
	assert.False(t, oldId.Equal(tx.GetTransactionId()))
	assert.Equal(t, TransactionStateSigned, tx.State())
	body := tx.chunks[0].bodies[0]
	require.Len(t, body.sigPairs, 1)
	assert.True(t, key.PublicKey().Verify(body.bodyBytes, body.sigPairs[0].Signature()))
	assert.Equal(t, tx.GetTransactionId().toProtocol(), decodeBody(t, body).TransactionID)
}
