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

func TestTransactionBytesSecondSigner(t *testing.T) {
	keyA, err := keys.GenerateEd25519PrivateKey()
	require.NoError(t, err)
	keyB, err := keys.GenerateEcdsaPrivateKey()
	require.NoError(t, err)
	message := bytes.Repeat([]byte{0x42}, 2*DefaultTopicMessageChunkSize+10)
	tx, err := NewTopicMessageSubmitTransaction().
		SetNodeAccountIds(testNode3, testNode4).
		SetTransactionId(testTransactionId()).
		SetTransactionMemo("two signers").
		SetMaxTransactionFee(NewHbar(3)).
		SetTopicId(ledger.NewTopicId(0, 0, 1234)).
		SetMessage(message).
		Freeze()
	require.NoError(t, err)
	tx.Sign(keyA)
	require.NoError(t, tx.Err())
	data, err := tx.ToBytes()
	require.NoError(t, err)

	restored, err := TransactionFromBytes(data)
	require.NoError(t, err)
	copied, ok := restored.(*TopicMessageSubmitTransaction)
	require.True(t, ok, "got %T", restored)
	assert.Equal(t, TransactionStateSigned, copied.State())
	assert.Equal(t, []ledger.AccountId{testNode3, testNode4}, copied.GetNodeAccountIds())
	assert.True(t, testTransactionId().Equal(copied.GetTransactionId()))
	assert.Equal(t, "two signers", copied.GetTransactionMemo())
	assert.Equal(t, NewHbar(3), copied.GetMaxTransactionFee())
	assert.Equal(t, DefaultTransactionValidDuration, copied.GetTransactionValidDuration())
	assert.Equal(t, ledger.NewTopicId(0, 0, 1234), copied.GetTopicId())
	assert.Equal(t, message, copied.GetMessage())
	assert.Equal(t, DefaultTopicMessageChunkSize, copied.GetChunkSize())
	require.Len(t, copied.chunks, 3)

	// Signing again with A is a no-op, B signs every body
	copied.Sign(keyA).Sign(keyB)
	require.NoError(t, copied.Err())
	for i, chunk := range copied.chunks {
		require.Len(t, chunk.bodies, 2)
		for j, body := range chunk.bodies {
			assert.Equal(t, tx.chunks[i].bodies[j].bodyBytes, body.bodyBytes)
			require.Len(t, body.sigPairs, 2, "chunk %d node %d", i, j)
			assert.True(t, keyA.PublicKey().Verify(body.bodyBytes, body.sigPairs[0].Signature()))
			assert.True(t, keyB.PublicKey().Verify(body.bodyBytes, body.sigPairs[1].Signature()))
		}
	}
	// The original is unchanged
	sigs, err := tx.GetSignatures()
	require.NoError(t, err)
	assert.Len(t, sigs[testNode3], 1)

	// And the bytes round trip again with both signatures
	data2, err := copied.ToBytes()
	require.NoError(t, err)
	restored2, err := TransactionFromBytes(data2)
	require.NoError(t, err)
	sigs, err = restored2.(*TopicMessageSubmitTransaction).GetSignatures()
	require.NoError(t, err)
	assert.Len(t, sigs[testNode4], 2)
}

type transactionBytes interface {
	ToBytes() ([]byte, error)
}

func TestTransactionBytesKindFields(t *testing.T) {
	key, err := keys.GenerateEd25519PrivateKey()
	require.NoError(t, err)
	expirationTime := time.Unix(1800000000, 0)
	testDefs := []struct {
		name  string
		build func() (transactionBytes, error)
		check func(t *testing.T, restored any)
	}{
		{
			name: "Transfer",
			build: func() (transactionBytes, error) {
				return NewTransferTransaction().
					SetNodeAccountIds(testNode3).
					SetTransactionId(testTransactionId()).
					AddHbarTransfer(testPayer, NewHbar(-2)).
					AddHbarTransfer(testNode3, NewHbar(2)).
					Freeze()
			},
			check: func(t *testing.T, restored any) {
				transfer, ok := restored.(*TransferTransaction)
				require.True(t, ok)
				assert.Equal(
					t,
					map[ledger.AccountId]Hbar{testPayer: NewHbar(-2), testNode3: NewHbar(2)},
					transfer.GetHbarTransfers(),
				)
			},
		},
		{
			name: "AccountCreate",
			build: func() (transactionBytes, error) {
				return NewAccountCreateTransaction().
					SetNodeAccountIds(testNode3).
					SetTransactionId(testTransactionId()).
					SetKey(key.PublicKey()).
					SetInitialBalance(NewHbar(7)).
					SetReceiverSignatureRequired(true).
					SetAccountMemo("memo").
					Freeze()
			},
			check: func(t *testing.T, restored any) {
				create, ok := restored.(*AccountCreateTransaction)
				require.True(t, ok)
				assert.True(t, key.PublicKey().Equal(create.GetKey()))
				assert.Equal(t, NewHbar(7), create.GetInitialBalance())
				assert.True(t, create.GetReceiverSignatureRequired())
				assert.Equal(t, "memo", create.GetAccountMemo())
			},
		},
		{
			name: "FileCreate",
			build: func() (transactionBytes, error) {
				return NewFileCreateTransaction().
					SetNodeAccountIds(testNode3).
					SetTransactionId(testTransactionId()).
					SetKeys(key.PublicKey()).
					SetContents([]byte("hello")).
					SetExpirationTime(expirationTime).
					SetFileMemo("file").
					Freeze()
			},
			check: func(t *testing.T, restored any) {
				create, ok := restored.(*FileCreateTransaction)
				require.True(t, ok)
				require.Len(t, create.GetKeys(), 1)
				assert.True(t, key.PublicKey().Equal(create.GetKeys()[0]))
				assert.Equal(t, []byte("hello"), create.GetContents())
				assert.True(t, expirationTime.Equal(create.GetExpirationTime()))
				assert.Equal(t, "file", create.GetFileMemo())
			},
		},
		{
			name: "FileAppend",
			build: func() (transactionBytes, error) {
				return NewFileAppendTransaction().
					SetNodeAccountIds(testNode3).
					SetTransactionId(testTransactionId()).
					SetFileId(ledger.NewFileId(0, 0, 150)).
					SetChunkSize(4).
					SetContents([]byte("0123456789")).
					Freeze()
			},
			check: func(t *testing.T, restored any) {
				appendTx, ok := restored.(*FileAppendTransaction)
				require.True(t, ok)
				assert.Equal(t, ledger.NewFileId(0, 0, 150), appendTx.GetFileId())
				assert.Equal(t, []byte("0123456789"), appendTx.GetContents())
				assert.Equal(t, 4, appendTx.GetChunkSize())
				assert.Len(t, appendTx.chunks, 3)
			},
		},
		{
			name: "TopicCreate",
			build: func() (transactionBytes, error) {
				return NewTopicCreateTransaction().
					SetNodeAccountIds(testNode3).
					SetTransactionId(testTransactionId()).
					SetTopicMemo("topic").
					SetSubmitKey(key.PublicKey()).
					Freeze()
			},
			check: func(t *testing.T, restored any) {
				create, ok := restored.(*TopicCreateTransaction)
				require.True(t, ok)
				assert.Equal(t, "topic", create.GetTopicMemo())
				assert.True(t, create.GetAdminKey().IsZero())
				assert.True(t, key.PublicKey().Equal(create.GetSubmitKey()))
			},
		},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			tx, err := testDef.build()
			require.NoError(t, err)
			data, err := tx.ToBytes()
			require.NoError(t, err)
			restored, err := TransactionFromBytes(data)
			require.NoError(t, err)
			testDef.check(t, restored)
			// Unsigned bytes restore as frozen
			state := restored.(interface{ State() protocol.State }).State()
			assert.Equal(t, TransactionStateFrozen, state)
		})
	}
}

func TestAddSignature(t *testing.T) {
	key, err := keys.GenerateEd25519PrivateKey()
	require.NoError(t, err)
	other, err := keys.GenerateEd25519PrivateKey()
	require.NoError(t, err)
	tx, err := NewTransferTransaction().
		SetNodeAccountIds(testNode3).
		SetTransactionId(testTransactionId()).
		Freeze()
	require.NoError(t, err)
	bodyBytes, err := tx.GetBodyBytes()
	require.NoError(t, err)
	sig, err := key.Sign(bodyBytes)
	require.NoError(t, err)

	tx.AddSignature(key.PublicKey(), sig).AddSignature(key.PublicKey(), sig)
	require.NoError(t, tx.Err())
	assert.Equal(t, TransactionStateSigned, tx.State())
	sigs, err := tx.GetSignatures()
	require.NoError(t, err)
	require.Len(t, sigs[testNode3], 1)
	assert.Equal(t, key.PublicKey().Bytes(), sigs[testNode3][0].PubKeyPrefix)
	assert.Equal(t, sig, sigs[testNode3][0].Signature())
	// Already signed by this key
	tx.Sign(key)
	sigs, err = tx.GetSignatures()
	require.NoError(t, err)
	assert.Len(t, sigs[testNode3], 1)

	tx.AddSignature(other.PublicKey(), sig)
	assert.ErrorIs(t, tx.Err(), ErrInvalidSignature)
}

func TestAddSignatureMultipleBodies(t *testing.T) {
	key, err := keys.GenerateEd25519PrivateKey()
	require.NoError(t, err)
	tx, err := NewTransferTransaction().
		SetNodeAccountIds(testNode3, testNode4).
		SetTransactionId(testTransactionId()).
		Freeze()
	require.NoError(t, err)
	_, err = tx.GetBodyBytes()
	assert.ErrorIs(t, err, ErrSignatureMultipleBodies)
	tx.AddSignature(key.PublicKey(), []byte{1, 2, 3})
	assert.ErrorIs(t, tx.Err(), ErrSignatureMultipleBodies)

	unfrozen := NewTransferTransaction()
	_, err = unfrozen.ToBytes()
	assert.ErrorIs(t, err, ErrTransactionNotFrozen)
	unfrozen.AddSignature(key.PublicKey(), []byte{1, 2, 3})
	assert.ErrorIs(t, unfrozen.Err(), ErrTransactionNotFrozen)
}

func TestTransactionFromBytesInvalid(t *testing.T) {
	body := &protocol.TransactionBody{
		TransactionID:  testTransactionId().toProtocol(),
		NodeAccountID:  protocol.NewEntityID(testNode3.EntityId),
		CryptoTransfer: &protocol.CryptoTransferBody{},
	}
	bodyBytes, err := cbor.Encode(body)
	require.NoError(t, err)
	signedBytes, err := signedTransactionBytes(bodyBytes, nil)
	require.NoError(t, err)
	encodeList := func(items ...[]byte) []byte {
		list := &protocol.TransactionList{}
		for _, item := range items {
			list.TransactionList = append(
				list.TransactionList,
				protocol.Transaction{SignedTransactionBytes: item},
			)
		}
		ret, err := cbor.Encode(list)
		require.NoError(t, err)
		return ret
	}
	otherBody := *body
	otherBody.TransactionID = testTransactionId().withOffset(1).toProtocol()
	otherBodyBytes, err := cbor.Encode(&otherBody)
	require.NoError(t, err)
	otherSignedBytes, err := signedTransactionBytes(otherBodyBytes, nil)
	require.NoError(t, err)

	testDefs := []struct {
		name string
		data []byte
	}{
		{name: "Empty", data: encodeList()},
		{name: "DuplicateNode", data: encodeList(signedBytes, signedBytes)},
		// Transfers are never chunked
		{name: "UnchunkedKindWithChunks", data: encodeList(signedBytes, otherSignedBytes)},
		{name: "TrailingBytes", data: append(encodeList(signedBytes), 0x00)},
	}
	for _, testDef := range testDefs {
		t.Run(testDef.name, func(t *testing.T) {
			_, err := TransactionFromBytes(testDef.data)
			assert.ErrorIs(t, err, ErrInvalidTransactionBytes)
		})
	}

	_, err = TransactionFromBytes([]byte{0xff, 0x00})
	var codecErr *CodecError
	assert.ErrorAs(t, err, &codecErr)
}
