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
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
)

type hbarTransfer struct {
	accountId ledger.AccountId
	amount    Hbar
}

// TransferTransaction moves hbar between accounts. The amounts must sum to
// zero.
type TransferTransaction struct {
	Transaction[*TransferTransaction]
	transfers []hbarTransfer
}

func NewTransferTransaction() *TransferTransaction {
	tx := &TransferTransaction{}
	tx.Transaction = newTransaction(tx, tx)
	return tx
}

// AddHbarTransfer adds an amount to an account. Repeated transfers for the
// same account are summed.
func (tx *TransferTransaction) AddHbarTransfer(accountId ledger.AccountId, amount Hbar) *TransferTransaction {
	if !tx.requireNotFrozen() {
		return tx
	}
	for i := range tx.transfers {
		if tx.transfers[i].accountId.Equal(accountId) {
			tx.transfers[i].amount = HbarFromTinybars(
				tx.transfers[i].amount.AsTinybar() + amount.AsTinybar(),
			)
			return tx
		}
	}
	tx.transfers = append(
		tx.transfers,
		hbarTransfer{accountId: accountId, amount: amount},
	)
	return tx
}

func (tx *TransferTransaction) GetHbarTransfers() map[ledger.AccountId]Hbar {
	ret := make(map[ledger.AccountId]Hbar, len(tx.transfers))
	for _, transfer := range tx.transfers {
		ret[transfer.accountId] = transfer.amount
	}
	return ret
}

func (tx *TransferTransaction) transactionName() string {
	return "TransferTransaction"
}

func (tx *TransferTransaction) method() string {
	return protocol.MethodCryptoTransfer
}

func (tx *TransferTransaction) defaultMaxTransactionFee() Hbar {
	return NewHbar(1)
}

func (tx *TransferTransaction) chunking() (int, int, int) {
	return 0, 0, 0
}

func (tx *TransferTransaction) validate() error {
	return nil
}

func (tx *TransferTransaction) buildPayload(body *protocol.TransactionBody, _ int, _ int) {
	transfers := make([]protocol.AccountAmount, 0, len(tx.transfers))
	for _, transfer := range tx.transfers {
		transfers = append(
			transfers,
			protocol.AccountAmount{
				AccountID: protocol.NewEntityID(transfer.accountId.EntityId),
				Amount:    transfer.amount.AsTinybar(),
			},
		)
	}
	body.CryptoTransfer = &protocol.CryptoTransferBody{
		Transfers: transfers,
	}
}

func (tx *TransferTransaction) restorePayload(bodies []*protocol.TransactionBody) error {
	for _, transfer := range bodies[0].CryptoTransfer.Transfers {
		tx.transfers = append(
			tx.transfers,
			hbarTransfer{
				accountId: transfer.AccountID.AccountId(),
				amount:    HbarFromTinybars(transfer.Amount),
			},
		)
	}
	return nil
}

func (tx *TransferTransaction) validateChecksums(ledgerId ledger.LedgerId) error {
	for _, transfer := range tx.transfers {
		if err := transfer.accountId.ValidateChecksum(ledgerId); err != nil {
			return err
		}
	}
	return nil
}
