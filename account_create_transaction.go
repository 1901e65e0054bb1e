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

	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
)

// AccountCreateTransaction creates a new account. The new account id is
// found in the receipt.
type AccountCreateTransaction struct {
	Transaction[*AccountCreateTransaction]
	key                       keys.PublicKey
	initialBalance            Hbar
	receiverSignatureRequired bool
	accountMemo               string
}

func NewAccountCreateTransaction() *AccountCreateTransaction {
	tx := &AccountCreateTransaction{}
	tx.Transaction = newTransaction(tx, tx)
	return tx
}

func (tx *AccountCreateTransaction) SetKey(key keys.PublicKey) *AccountCreateTransaction {
	if tx.requireNotFrozen() {
		tx.key = key
	}
	return tx
}

func (tx *AccountCreateTransaction) GetKey() keys.PublicKey {
	return tx.key
}

func (tx *AccountCreateTransaction) SetInitialBalance(balance Hbar) *AccountCreateTransaction {
	if tx.requireNotFrozen() {
		if balance.AsTinybar() < 0 {
			tx.setError(fmt.Errorf("invalid initial balance: %s", balance))
			return tx
		}
		tx.initialBalance = balance
	}
	return tx
}

func (tx *AccountCreateTransaction) GetInitialBalance() Hbar {
	return tx.initialBalance
}

// SetReceiverSignatureRequired makes the new account's key sign any transfer
// into the account
func (tx *AccountCreateTransaction) SetReceiverSignatureRequired(required bool) *AccountCreateTransaction {
	if tx.requireNotFrozen() {
		tx.receiverSignatureRequired = required
	}
	return tx
}

func (tx *AccountCreateTransaction) GetReceiverSignatureRequired() bool {
	return tx.receiverSignatureRequired
}

func (tx *AccountCreateTransaction) SetAccountMemo(memo string) *AccountCreateTransaction {
	if tx.requireNotFrozen() {
		tx.accountMemo = memo
	}
	return tx
}

func (tx *AccountCreateTransaction) GetAccountMemo() string {
	return tx.accountMemo
}

func (tx *AccountCreateTransaction) transactionName() string {
	return "AccountCreateTransaction"
}

func (tx *AccountCreateTransaction) method() string {
	return protocol.MethodCryptoCreateAccount
}

func (tx *AccountCreateTransaction) defaultMaxTransactionFee() Hbar {
	return NewHbar(5)
}

func (tx *AccountCreateTransaction) chunking() (int, int, int) {
	return 0, 0, 0
}

func (tx *AccountCreateTransaction) validate() error {
	return nil
}

func (tx *AccountCreateTransaction) buildPayload(body *protocol.TransactionBody, _ int, _ int) {
	payload := &protocol.CryptoCreateAccountBody{
		InitialBalance:      uint64(tx.initialBalance.AsTinybar()), // #nosec G115
		ReceiverSigRequired: tx.receiverSignatureRequired,
		Memo:                tx.accountMemo,
	}
	if !tx.key.IsZero() {
		payload.Key = tx.key.ProtocolKey()
	}
	body.CryptoCreateAccount = payload
}

func (tx *AccountCreateTransaction) restorePayload(bodies []*protocol.TransactionBody) error {
	payload := bodies[0].CryptoCreateAccount
	if !payload.Key.IsZero() {
		key, err := keys.PublicKeyFromProtocol(payload.Key)
		if err != nil {
			return err
		}
		tx.key = key
	}
	tx.initialBalance = HbarFromTinybars(int64(payload.InitialBalance)) // #nosec G115
	tx.receiverSignatureRequired = payload.ReceiverSigRequired
	tx.accountMemo = payload.Memo
	return nil
}

func (tx *AccountCreateTransaction) validateChecksums(_ ledger.LedgerId) error {
	return nil
}
