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
	"fmt"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
	"github.com/blinklabs-io/gohedera/retry"
)

// TransactionReceiptQuery polls for the receipt of a transaction until
// consensus is reached. It is free.
type TransactionReceiptQuery struct {
	Query[*TransactionReceiptQuery]
	transactionId  TransactionId
	validateStatus bool
}

func NewTransactionReceiptQuery() *TransactionReceiptQuery {
	q := &TransactionReceiptQuery{
		validateStatus: true,
	}
	q.Query = newQuery(q, q)
	return q
}

func (q *TransactionReceiptQuery) SetTransactionId(transactionId TransactionId) *TransactionReceiptQuery {
	q.transactionId = transactionId
	return q
}

func (q *TransactionReceiptQuery) GetTransactionId() TransactionId {
	return q.transactionId
}

// SetValidateStatus controls whether a failure status in the receipt is
// returned as a *ReceiptStatusError. It defaults to true.
func (q *TransactionReceiptQuery) SetValidateStatus(validate bool) *TransactionReceiptQuery {
	q.validateStatus = validate
	return q
}

func (q *TransactionReceiptQuery) GetValidateStatus() bool {
	return q.validateStatus
}

func (q *TransactionReceiptQuery) Execute(ctx context.Context, client *Client) (TransactionReceipt, error) {
	resp, err := q.execute(ctx, client)
	if err != nil {
		return TransactionReceipt{}, err
	}
	return transactionReceiptFromProtocol(resp.TransactionGetReceipt.Receipt, q.transactionId), nil
}

func (q *TransactionReceiptQuery) queryName() string {
	return "TransactionReceiptQuery"
}

func (q *TransactionReceiptQuery) method() string {
	return protocol.MethodGetTransactionReceipts
}

func (q *TransactionReceiptQuery) paymentExempt() bool {
	return true
}

func (q *TransactionReceiptQuery) validate() error {
	if q.transactionId.IsZero() {
		return ErrMissingTransactionId
	}
	return nil
}

func (q *TransactionReceiptQuery) buildQuery(header protocol.QueryHeader) *protocol.Query {
	return &protocol.Query{
		Header: header,
		TransactionGetReceipt: &protocol.TransactionGetReceiptQuery{
			TransactionID: q.transactionId.toProtocol(),
		},
	}
}

func (q *TransactionReceiptQuery) classifyStatus(status protocol.Status) (protocol.StatusClass, bool) {
	return classifyReceiptQueryStatus(status)
}

func (q *TransactionReceiptQuery) validateResponse(resp *protocol.Response) error {
	if resp.TransactionGetReceipt == nil {
		return missingAnswer(q.queryName())
	}
	return validateReceipt(
		transactionReceiptFromProtocol(resp.TransactionGetReceipt.Receipt, q.transactionId),
		q.validateStatus,
	)
}

func (q *TransactionReceiptQuery) validateChecksums(ledgerId ledger.LedgerId) error {
	return q.transactionId.AccountId.ValidateChecksum(ledgerId)
}

// classifyReceiptQueryStatus treats a missing receipt or record as not yet
// available, since nodes only learn about a transaction once it reaches
// them through consensus
func classifyReceiptQueryStatus(status protocol.Status) (protocol.StatusClass, bool) {
	switch status {
	case protocol.StatusReceiptNotFound, protocol.StatusRecordNotFound:
		return protocol.ClassTransient, true
	}
	return 0, false
}

// validateReceipt polls again while the receipt is pending and stops with
// an error on a failure status when validate is set
func validateReceipt(receipt TransactionReceipt, validate bool) error {
	switch protocol.ClassifyReceipt(receipt.Status) {
	case protocol.ReceiptPending:
		return retry.Transient(fmt.Errorf("%w: %s", errReceiptPending, receipt.Status))
	case protocol.ReceiptFailure:
		if err := receipt.ValidateStatus(validate); err != nil {
			return retry.Permanent(err)
		}
	}
	return nil
}
