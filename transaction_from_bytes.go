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
	"fmt"

	"github.com/blinklabs-io/gohedera/cbor"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
)

type restorableTransaction interface {
	transactionData
	restoreFrozen(chunks []*frozenChunk, body *protocol.TransactionBody)
}

// TransactionFromBytes restores a transaction serialized with ToBytes. The
// result is frozen and keeps its signatures. It is one of
// *TransferTransaction, *AccountCreateTransaction, *FileCreateTransaction,
// *FileAppendTransaction, *TopicCreateTransaction or
// *TopicMessageSubmitTransaction.
func TransactionFromBytes(data []byte) (any, error) {
	list := &protocol.TransactionList{}
	if err := decodeExact(data, list); err != nil {
		return nil, err
	}
	if len(list.TransactionList) == 0 {
		return nil, fmt.Errorf("%w: no transactions", ErrInvalidTransactionBytes)
	}
	var chunks []*frozenChunk
	var firstBodies []*protocol.TransactionBody
	for _, item := range list.TransactionList {
		signed := &protocol.SignedTransaction{}
		if err := decodeExact(item.SignedTransactionBytes, signed); err != nil {
			return nil, err
		}
		body := &protocol.TransactionBody{}
		if err := decodeExact(signed.BodyBytes, body); err != nil {
			return nil, err
		}
		transactionId := transactionIdFromProtocol(body.TransactionID)
		if len(chunks) == 0 || !chunks[len(chunks)-1].transactionId.Equal(transactionId) {
			chunks = append(chunks, &frozenChunk{transactionId: transactionId})
			firstBodies = append(firstBodies, body)
		}
		chunk := chunks[len(chunks)-1]
		nodeAccountId := body.NodeAccountID.AccountId()
		if chunk.body(nodeAccountId) != nil {
			return nil, fmt.Errorf(
				"%w: node %s appears twice in chunk %s",
				ErrInvalidTransactionBytes,
				nodeAccountId.String(),
				transactionId.String(),
			)
		}
		chunk.bodies = append(
			chunk.bodies,
			&frozenBody{
				nodeAccountId: nodeAccountId,
				bodyBytes:     signed.BodyBytes,
				sigPairs:      signed.SigMap.SigPair,
			},
		)
	}
	if err := validateRestoredChunks(chunks, firstBodies); err != nil {
		return nil, err
	}
	tx, err := newTransactionForBody(firstBodies[0])
	if err != nil {
		return nil, err
	}
	_, chunkSize, _ := tx.chunking()
	if chunkSize == 0 && len(chunks) > 1 {
		return nil, fmt.Errorf(
			"%w: %s can't have %d chunks",
			ErrInvalidTransactionBytes,
			tx.transactionName(),
			len(chunks),
		)
	}
	if err := tx.restorePayload(firstBodies); err != nil {
		return nil, err
	}
	tx.restoreFrozen(chunks, firstBodies[0])
	return tx, nil
}

func decodeExact(data []byte, dest any) error {
	n, err := cbor.Decode(data, dest)
	if err != nil {
		return &CodecError{Op: "decode", Err: err}
	}
	if n != len(data) {
		return &CodecError{
			Op:  "decode",
			Err: fmt.Errorf("%w: %d trailing bytes", ErrInvalidTransactionBytes, len(data)-n),
		}
	}
	return nil
}

// validateRestoredChunks checks that every chunk targets the same nodes and
// carries the same kind of payload, and that chunk numbers are in order
func validateRestoredChunks(chunks []*frozenChunk, firstBodies []*protocol.TransactionBody) error {
	method, err := firstBodies[0].Method()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTransactionBytes, err)
	}
	for i, chunk := range chunks {
		if len(chunk.bodies) != len(chunks[0].bodies) {
			return fmt.Errorf("%w: chunk %d has a different node list", ErrInvalidTransactionBytes, i+1)
		}
		for j, body := range chunk.bodies {
			if !body.nodeAccountId.Equal(chunks[0].bodies[j].nodeAccountId) {
				return fmt.Errorf("%w: chunk %d has a different node list", ErrInvalidTransactionBytes, i+1)
			}
		}
		chunkMethod, err := firstBodies[i].Method()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidTransactionBytes, err)
		}
		if chunkMethod != method {
			return fmt.Errorf("%w: chunk %d has a different payload", ErrInvalidTransactionBytes, i+1)
		}
		info := firstBodies[i].ChunkInfo
		if info == nil {
			if len(chunks) > 1 {
				return fmt.Errorf("%w: chunk %d has no chunk info", ErrInvalidTransactionBytes, i+1)
			}
			continue
		}
		if int(info.Number) != i+1 || int(info.Total) != len(chunks) {
			return fmt.Errorf(
				"%w: chunk %d of %d found at position %d of %d",
				ErrInvalidTransactionBytes,
				info.Number,
				info.Total,
				i+1,
				len(chunks),
			)
		}
		initialId := transactionIdFromProtocol(info.InitialTransactionID)
		if !initialId.Equal(chunks[0].transactionId) {
			return fmt.Errorf("%w: chunk %d has a different initial transaction id", ErrInvalidTransactionBytes, i+1)
		}
	}
	return nil
}

func newTransactionForBody(body *protocol.TransactionBody) (restorableTransaction, error) {
	switch {
	case body.CryptoTransfer != nil:
		return NewTransferTransaction(), nil
	case body.CryptoCreateAccount != nil:
		return NewAccountCreateTransaction(), nil
	case body.FileCreate != nil:
		return NewFileCreateTransaction(), nil
	case body.FileAppend != nil:
		return NewFileAppendTransaction(), nil
	case body.ConsensusCreateTopic != nil:
		return NewTopicCreateTransaction(), nil
	case body.ConsensusSubmitMessage != nil:
		return NewTopicMessageSubmitTransaction(), nil
	default:
		return nil, fmt.Errorf("%w: %w", ErrInvalidTransactionBytes, protocol.ErrEmptyPayload)
	}
}

// restoreFrozen sets the shared fields from a deserialized transaction
func (tx *Transaction[T]) restoreFrozen(chunks []*frozenChunk, body *protocol.TransactionBody) {
	tx.chunks = chunks
	tx.nodeAccountIds = make([]ledger.AccountId, 0, len(chunks[0].bodies))
	for _, frozen := range chunks[0].bodies {
		tx.nodeAccountIds = append(tx.nodeAccountIds, frozen.nodeAccountId)
	}
	tx.transactionId = chunks[0].transactionId
	tx.generatedTransactionId = false
	tx.validDuration = body.ValidDuration.Duration()
	tx.maxTransactionFee = HbarFromTinybars(int64(body.TransactionFee)) // #nosec G115
	tx.maxTransactionFeeSet = true
	tx.memo = body.Memo
	tx.state = TransactionStateFrozen
	for _, chunk := range chunks {
		for _, frozen := range chunk.bodies {
			if len(frozen.sigPairs) > 0 {
				tx.state = TransactionStateSigned
			}
		}
	}
}

// restoredChunkSize picks a chunk size that splits the contents the same
// way again
func restoredChunkSize(firstChunkLen int, total int, defaultSize int) int {
	if total > 1 {
		return firstChunkLen
	}
	return max(firstChunkLen, defaultSize)
}
