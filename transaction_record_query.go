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
	"context"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
)

// TransactionRecordQuery fetches the record of a transaction once it has
// reached consensus
type TransactionRecordQuery struct {
	Query[*TransactionRecordQuery]
	transactionId  TransactionId
	validateStatus bool
}

func NewTransactionRecordQuery() *TransactionRecordQuery {
	q := &TransactionRecordQuery{
		validateStatus: true,
	}
	q.Query = newQuery(q, q)
	return q
}

func (q *TransactionRecordQuery) SetTransactionId(transactionId TransactionId) *TransactionRecordQuery {
	q.transactionId = transactionId
	return q
}

func (q *TransactionRecordQuery) GetTransactionId() TransactionId {
	return q.transactionId
}

func (q *TransactionRecordQuery) SetValidateStatus(validate bool) *TransactionRecordQuery {
	q.validateStatus = validate
	return q
}

func (q *TransactionRecordQuery) Execute(ctx context.Context, client *Client) (TransactionRecord, error) {
	resp, err := q.execute(ctx, client)
	if err != nil {
		return TransactionRecord{}, err
	}
	return transactionRecordFromProtocol(resp.TransactionGetRecord.Record), nil
}

func (q *TransactionRecordQuery) queryName() string {
	return "TransactionRecordQuery"
}

func (q *TransactionRecordQuery) method() string {
	return protocol.MethodGetTxRecordByTxID
}

func (q *TransactionRecordQuery) paymentExempt() bool {
	return false
}

func (q *TransactionRecordQuery) validate() error {
	if q.transactionId.IsZero() {
		return ErrMissingTransactionId
	}
	return nil
}

func (q *TransactionRecordQuery) buildQuery(header protocol.QueryHeader) *protocol.Query {
	return &protocol.Query{
		Header: header,
		TransactionGetRecord: &protocol.TransactionGetRecordQuery{
			TransactionID: q.transactionId.toProtocol(),
		},
	}
}

func (q *TransactionRecordQuery) classifyStatus(status protocol.Status) (protocol.StatusClass, bool) {
	return classifyReceiptQueryStatus(status)
}

func (q *TransactionRecordQuery) validateResponse(resp *protocol.Response) error {
	if resp.TransactionGetRecord == nil {
		return missingAnswer(q.queryName())
	}
	record := transactionRecordFromProtocol(resp.TransactionGetRecord.Record)
	return validateReceipt(record.Receipt, q.validateStatus)
}

func (q *TransactionRecordQuery) validateChecksums(ledgerId ledger.LedgerId) error {
	return q.transactionId.AccountId.ValidateChecksum(ledgerId)
}
