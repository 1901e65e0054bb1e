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
	"slices"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
)

const (
	DefaultTopicMessageChunkSize = 1024
	DefaultTopicMessageMaxChunks = 20
)

// TopicMessageSubmitTransaction submits a message to a topic. Messages
// larger than the chunk size are split, and subscribers reassemble them.
type TopicMessageSubmitTransaction struct {
	Transaction[*TopicMessageSubmitTransaction]
	topicId   ledger.TopicId
	message   []byte
	chunkSize int
	maxChunks int
}

func NewTopicMessageSubmitTransaction() *TopicMessageSubmitTransaction {
	tx := &TopicMessageSubmitTransaction{
		chunkSize: DefaultTopicMessageChunkSize,
		maxChunks: DefaultTopicMessageMaxChunks,
	}
	tx.Transaction = newTransaction(tx, tx)
	return tx
}

func (tx *TopicMessageSubmitTransaction) SetTopicId(topicId ledger.TopicId) *TopicMessageSubmitTransaction {
	if tx.requireNotFrozen() {
		tx.topicId = topicId
	}
	return tx
}

func (tx *TopicMessageSubmitTransaction) GetTopicId() ledger.TopicId {
	return tx.topicId
}

func (tx *TopicMessageSubmitTransaction) SetMessage(message []byte) *TopicMessageSubmitTransaction {
	if tx.requireNotFrozen() {
		tx.message = slices.Clone(message)
	}
	return tx
}

func (tx *TopicMessageSubmitTransaction) GetMessage() []byte {
	return slices.Clone(tx.message)
}

func (tx *TopicMessageSubmitTransaction) SetChunkSize(size int) *TopicMessageSubmitTransaction {
	if tx.requireNotFrozen() {
		if size <= 0 {
			tx.setError(fmt.Errorf("invalid chunk size: %d", size))
			return tx
		}
		tx.chunkSize = size
	}
	return tx
}

func (tx *TopicMessageSubmitTransaction) GetChunkSize() int {
	return tx.chunkSize
}

func (tx *TopicMessageSubmitTransaction) SetMaxChunks(maxChunks int) *TopicMessageSubmitTransaction {
	if tx.requireNotFrozen() {
		if maxChunks <= 0 {
			tx.setError(fmt.Errorf("invalid max chunks: %d", maxChunks))
			return tx
		}
		tx.maxChunks = maxChunks
	}
	return tx
}

func (tx *TopicMessageSubmitTransaction) GetMaxChunks() int {
	return tx.maxChunks
}

func (tx *TopicMessageSubmitTransaction) transactionName() string {
	return "TopicMessageSubmitTransaction"
}

func (tx *TopicMessageSubmitTransaction) method() string {
	return protocol.MethodConsensusSubmitMessage
}

func (tx *TopicMessageSubmitTransaction) defaultMaxTransactionFee() Hbar {
	return NewHbar(2)
}

func (tx *TopicMessageSubmitTransaction) chunking() (int, int, int) {
	return len(tx.message), tx.chunkSize, tx.maxChunks
}

func (tx *TopicMessageSubmitTransaction) validate() error {
	if tx.topicId.IsZero() {
		return ErrMissingTopicId
	}
	return nil
}

func (tx *TopicMessageSubmitTransaction) buildPayload(body *protocol.TransactionBody, chunk int, _ int) {
	body.ConsensusSubmitMessage = &protocol.ConsensusSubmitMessageBody{
		TopicID: protocol.NewEntityID(tx.topicId.EntityId),
		Message: chunkBytes(tx.message, tx.chunkSize, chunk),
	}
}

func (tx *TopicMessageSubmitTransaction) restorePayload(bodies []*protocol.TransactionBody) error {
	tx.topicId = bodies[0].ConsensusSubmitMessage.TopicID.TopicId()
	for _, body := range bodies {
		tx.message = append(tx.message, body.ConsensusSubmitMessage.Message...)
	}
	tx.chunkSize = restoredChunkSize(
		len(bodies[0].ConsensusSubmitMessage.Message),
		len(bodies),
		DefaultTopicMessageChunkSize,
	)
	tx.maxChunks = max(len(bodies), DefaultTopicMessageMaxChunks)
	return nil
}

func (tx *TopicMessageSubmitTransaction) validateChecksums(ledgerId ledger.LedgerId) error {
	return tx.topicId.ValidateChecksum(ledgerId)
}
