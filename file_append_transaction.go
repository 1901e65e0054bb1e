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
	DefaultFileAppendChunkSize = 4096
	DefaultFileAppendMaxChunks = 20
)

// FileAppendTransaction appends contents to a file. Contents larger than the
// chunk size are split into one transaction per chunk.
type FileAppendTransaction struct {
	Transaction[*FileAppendTransaction]
	fileId    ledger.FileId
	contents  []byte
	chunkSize int
	maxChunks int
}

func NewFileAppendTransaction() *FileAppendTransaction {
	tx := &FileAppendTransaction{
		chunkSize: DefaultFileAppendChunkSize,
		maxChunks: DefaultFileAppendMaxChunks,
	}
	tx.Transaction = newTransaction(tx, tx)
	return tx
}

func (tx *FileAppendTransaction) SetFileId(fileId ledger.FileId) *FileAppendTransaction {
	if tx.requireNotFrozen() {
		tx.fileId = fileId
	}
	return tx
}

func (tx *FileAppendTransaction) GetFileId() ledger.FileId {
	return tx.fileId
}

func (tx *FileAppendTransaction) SetContents(contents []byte) *FileAppendTransaction {
	if tx.requireNotFrozen() {
		tx.contents = slices.Clone(contents)
	}
	return tx
}

func (tx *FileAppendTransaction) GetContents() []byte {
	return slices.Clone(tx.contents)
}

func (tx *FileAppendTransaction) SetChunkSize(size int) *FileAppendTransaction {
	if tx.requireNotFrozen() {
		if size <= 0 {
			tx.setError(fmt.Errorf("invalid chunk size: %d", size))
			return tx
		}
		tx.chunkSize = size
	}
	return tx
}

func (tx *FileAppendTransaction) GetChunkSize() int {
	return tx.chunkSize
}

func (tx *FileAppendTransaction) SetMaxChunks(maxChunks int) *FileAppendTransaction {
	if tx.requireNotFrozen() {
		if maxChunks <= 0 {
			tx.setError(fmt.Errorf("invalid max chunks: %d", maxChunks))
			return tx
		}
		tx.maxChunks = maxChunks
	}
	return tx
}

func (tx *FileAppendTransaction) GetMaxChunks() int {
	return tx.maxChunks
}

func (tx *FileAppendTransaction) transactionName() string {
	return "FileAppendTransaction"
}

func (tx *FileAppendTransaction) method() string {
	return protocol.MethodFileAppend
}

func (tx *FileAppendTransaction) defaultMaxTransactionFee() Hbar {
	return NewHbar(5)
}

func (tx *FileAppendTransaction) chunking() (int, int, int) {
	return len(tx.contents), tx.chunkSize, tx.maxChunks
}

func (tx *FileAppendTransaction) validate() error {
	if tx.fileId.IsZero() {
		return ErrMissingFileId
	}
	return nil
}

func (tx *FileAppendTransaction) buildPayload(body *protocol.TransactionBody, chunk int, _ int) {
	body.FileAppend = &protocol.FileAppendBody{
		FileID:   protocol.NewEntityID(tx.fileId.EntityId),
		Contents: chunkBytes(tx.contents, tx.chunkSize, chunk),
	}
}

func (tx *FileAppendTransaction) restorePayload(bodies []*protocol.TransactionBody) error {
	tx.fileId = bodies[0].FileAppend.FileID.FileId()
	for _, body := range bodies {
		tx.contents = append(tx.contents, body.FileAppend.Contents...)
	}
	tx.chunkSize = restoredChunkSize(
		len(bodies[0].FileAppend.Contents),
		len(bodies),
		DefaultFileAppendChunkSize,
	)
	tx.maxChunks = max(len(bodies), DefaultFileAppendMaxChunks)
	return nil
}

func (tx *FileAppendTransaction) validateChecksums(ledgerId ledger.LedgerId) error {
	return tx.fileId.ValidateChecksum(ledgerId)
}

// chunkBytes returns the given chunk of the data
func chunkBytes(data []byte, chunkSize int, chunk int) []byte {
	start := min(chunk*chunkSize, len(data))
	end := min(start+chunkSize, len(data))
	return data[start:end]
}
