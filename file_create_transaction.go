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

	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
)

// FileCreateTransaction creates a file. A file created with no keys is
// immutable.
type FileCreateTransaction struct {
	Transaction[*FileCreateTransaction]
	keys           []keys.PublicKey
	contents       []byte
	expirationTime time.Time
	fileMemo       string
}

func NewFileCreateTransaction() *FileCreateTransaction {
	tx := &FileCreateTransaction{}
	tx.Transaction = newTransaction(tx, tx)
	return tx
}

func (tx *FileCreateTransaction) SetKeys(keyList ...keys.PublicKey) *FileCreateTransaction {
	if tx.requireNotFrozen() {
		tx.keys = slices.Clone(keyList)
	}
	return tx
}

func (tx *FileCreateTransaction) GetKeys() []keys.PublicKey {
	return slices.Clone(tx.keys)
}

func (tx *FileCreateTransaction) SetContents(contents []byte) *FileCreateTransaction {
	if tx.requireNotFrozen() {
		tx.contents = slices.Clone(contents)
	}
	return tx
}

func (tx *FileCreateTransaction) GetContents() []byte {
	return slices.Clone(tx.contents)
}

func (tx *FileCreateTransaction) SetExpirationTime(expirationTime time.Time) *FileCreateTransaction {
	if tx.requireNotFrozen() {
		tx.expirationTime = expirationTime
	}
	return tx
}

func (tx *FileCreateTransaction) GetExpirationTime() time.Time {
	return tx.expirationTime
}

func (tx *FileCreateTransaction) SetFileMemo(memo string) *FileCreateTransaction {
	if tx.requireNotFrozen() {
		tx.fileMemo = memo
	}
	return tx
}

func (tx *FileCreateTransaction) GetFileMemo() string {
	return tx.fileMemo
}

func (tx *FileCreateTransaction) transactionName() string {
	return "FileCreateTransaction"
}

func (tx *FileCreateTransaction) method() string {
	return protocol.MethodFileCreate
}

func (tx *FileCreateTransaction) defaultMaxTransactionFee() Hbar {
	return NewHbar(5)
}

func (tx *FileCreateTransaction) chunking() (int, int, int) {
	return 0, 0, 0
}

func (tx *FileCreateTransaction) validate() error {
	return nil
}

func (tx *FileCreateTransaction) buildPayload(body *protocol.TransactionBody, _ int, _ int) {
	payload := &protocol.FileCreateBody{
		Keys:     keys.KeyListFromPublicKeys(tx.keys...),
		Contents: tx.contents,
		Memo:     tx.fileMemo,
	}
	if !tx.expirationTime.IsZero() {
		expirationTime := protocol.NewTimestamp(tx.expirationTime)
		payload.ExpirationTime = &expirationTime
	}
	body.FileCreate = payload
}

func (tx *FileCreateTransaction) restorePayload(bodies []*protocol.TransactionBody) error {
	payload := bodies[0].FileCreate
	for _, protocolKey := range payload.Keys.Keys {
		key, err := keys.PublicKeyFromProtocol(protocolKey)
		if err != nil {
			return err
		}
		tx.keys = append(tx.keys, key)
	}
	tx.contents = payload.Contents
	if payload.ExpirationTime != nil {
		tx.expirationTime = payload.ExpirationTime.Time()
	}
	tx.fileMemo = payload.Memo
	return nil
}

func (tx *FileCreateTransaction) validateChecksums(_ ledger.LedgerId) error {
	return nil
}
