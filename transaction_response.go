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
)

// TransactionResponse is returned when a node accepts a transaction at
// precheck. Acceptance doesn't mean the transaction reached consensus, use
// GetReceipt for that.
type TransactionResponse struct {
	NodeId        ledger.AccountId
	TransactionId TransactionId
	Hash          ledger.Blake2b384
}

// GetReceiptQuery returns a receipt query aimed at the node that accepted
// the transaction
func (r *TransactionResponse) GetReceiptQuery() *TransactionReceiptQuery {
	return NewTransactionReceiptQuery().
		SetTransactionId(r.TransactionId).
		SetNodeAccountIds(r.NodeId)
}

// GetReceipt waits for the transaction to reach consensus. A receipt with a
// failure status is returned along with a *ReceiptStatusError.
func (r *TransactionResponse) GetReceipt(ctx context.Context, client *Client) (TransactionReceipt, error) {
	return r.GetReceiptQuery().Execute(ctx, client)
}

func (r *TransactionResponse) GetRecordQuery() *TransactionRecordQuery {
	return NewTransactionRecordQuery().
		SetTransactionId(r.TransactionId).
		SetNodeAccountIds(r.NodeId)
}

// GetRecord waits for the receipt and then fetches the record
func (r *TransactionResponse) GetRecord(ctx context.Context, client *Client) (TransactionRecord, error) {
	if _, err := r.GetReceipt(ctx, client); err != nil {
		return TransactionRecord{}, err
	}
	return r.GetRecordQuery().Execute(ctx, client)
}
