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
	"slices"
	"time"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
)

// TransactionReceipt is the consensus outcome of a transaction. Entity ids
// are only set for the transaction kinds that create them.
type TransactionReceipt struct {
	Status                  protocol.Status
	TransactionId           TransactionId
	AccountId               *ledger.AccountId
	FileId                  *ledger.FileId
	TopicId                 *ledger.TopicId
	TopicSequenceNumber     uint64
	TopicRunningHash        []byte
	TopicRunningHashVersion uint64
}

func transactionReceiptFromProtocol(r protocol.TransactionReceipt, transactionId TransactionId) TransactionReceipt {
	ret := TransactionReceipt{
		Status:                  r.Status,
		TransactionId:           transactionId,
		TopicSequenceNumber:     r.TopicSequenceNumber,
		TopicRunningHash:        slices.Clone(r.TopicRunningHash),
		TopicRunningHashVersion: r.TopicRunningHashVersion,
	}
	if r.AccountID != nil {
		tmp := r.AccountID.AccountId()
		ret.AccountId = &tmp
	}
	if r.FileID != nil {
		tmp := r.FileID.FileId()
		ret.FileId = &tmp
	}
	if r.TopicID != nil {
		tmp := r.TopicID.TopicId()
		ret.TopicId = &tmp
	}
	return ret
}

// ValidateStatus returns a *ReceiptStatusError for any status other than
// SUCCESS when validate is true
func (r TransactionReceipt) ValidateStatus(validate bool) error {
	if !validate || r.Status == protocol.StatusSuccess {
		return nil
	}
	return &ReceiptStatusError{
		Status:        r.Status,
		TransactionId: r.TransactionId,
		Receipt:       r,
	}
}

type Transfer struct {
	AccountId ledger.AccountId
	Amount    Hbar
}

// TransactionRecord extends the receipt with the consensus timestamp, fee
// and transfers of the transaction
type TransactionRecord struct {
	Receipt            TransactionReceipt
	TransactionHash    []byte
	ConsensusTimestamp time.Time
	TransactionId      TransactionId
	TransactionMemo    string
	TransactionFee     Hbar
	Transfers          []Transfer
}

func transactionRecordFromProtocol(r protocol.TransactionRecord) TransactionRecord {
	transactionId := transactionIdFromProtocol(r.TransactionID)
	ret := TransactionRecord{
		Receipt:            transactionReceiptFromProtocol(r.Receipt, transactionId),
		TransactionHash:    slices.Clone(r.TransactionHash),
		ConsensusTimestamp: r.ConsensusTimestamp.Time(),
		TransactionId:      transactionId,
		TransactionMemo:    r.Memo,
		TransactionFee:     HbarFromTinybars(int64(r.TransactionFee)), // #nosec G115
	}
	for _, transfer := range r.TransferList {
		ret.Transfers = append(
			ret.Transfers,
			Transfer{
				AccountId: transfer.AccountID.AccountId(),
				Amount:    HbarFromTinybars(transfer.Amount),
			},
		)
	}
	return ret
}
