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
	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
)

// TopicCreateTransaction creates a consensus topic. The new topic id is
// found in the receipt.
type TopicCreateTransaction struct {
	Transaction[*TopicCreateTransaction]
	topicMemo string
	adminKey  keys.PublicKey
	submitKey keys.PublicKey
}

func NewTopicCreateTransaction() *TopicCreateTransaction {
	tx := &TopicCreateTransaction{}
	tx.Transaction = newTransaction(tx, tx)
	return tx
}

func (tx *TopicCreateTransaction) SetTopicMemo(memo string) *TopicCreateTransaction {
	if tx.requireNotFrozen() {
		tx.topicMemo = memo
	}
	return tx
}

func (tx *TopicCreateTransaction) GetTopicMemo() string {
	return tx.topicMemo
}

func (tx *TopicCreateTransaction) SetAdminKey(key keys.PublicKey) *TopicCreateTransaction {
	if tx.requireNotFrozen() {
		tx.adminKey = key
	}
	return tx
}

func (tx *TopicCreateTransaction) GetAdminKey() keys.PublicKey {
	return tx.adminKey
}

// SetSubmitKey restricts message submission to holders of the key
func (tx *TopicCreateTransaction) SetSubmitKey(key keys.PublicKey) *TopicCreateTransaction {
	if tx.requireNotFrozen() {
		tx.submitKey = key
	}
	return tx
}

func (tx *TopicCreateTransaction) GetSubmitKey() keys.PublicKey {
	return tx.submitKey
}

func (tx *TopicCreateTransaction) transactionName() string {
	return "TopicCreateTransaction"
}

func (tx *TopicCreateTransaction) method() string {
	return protocol.MethodConsensusCreateTopic
}

func (tx *TopicCreateTransaction) defaultMaxTransactionFee() Hbar {
	return NewHbar(25)
}

func (tx *TopicCreateTransaction) chunking() (int, int, int) {
	return 0, 0, 0
}

func (tx *TopicCreateTransaction) validate() error {
	return nil
}

func (tx *TopicCreateTransaction) buildPayload(body *protocol.TransactionBody, _ int, _ int) {
	payload := &protocol.ConsensusCreateTopicBody{
		Memo: tx.topicMemo,
	}
	if !tx.adminKey.IsZero() {
		adminKey := tx.adminKey.ProtocolKey()
		payload.AdminKey = &adminKey
	}
	if !tx.submitKey.IsZero() {
		submitKey := tx.submitKey.ProtocolKey()
		payload.SubmitKey = &submitKey
	}
	body.ConsensusCreateTopic = payload
}

func (tx *TopicCreateTransaction) restorePayload(bodies []*protocol.TransactionBody) error {
	payload := bodies[0].ConsensusCreateTopic
	tx.topicMemo = payload.Memo
	if payload.AdminKey != nil {
		adminKey, err := keys.PublicKeyFromProtocol(*payload.AdminKey)
		if err != nil {
			return err
		}
		tx.adminKey = adminKey
	}
	if payload.SubmitKey != nil {
		submitKey, err := keys.PublicKeyFromProtocol(*payload.SubmitKey)
		if err != nil {
			return err
		}
		tx.submitKey = submitKey
	}
	return nil
}

func (tx *TopicCreateTransaction) validateChecksums(_ ledger.LedgerId) error {
	return nil
}
