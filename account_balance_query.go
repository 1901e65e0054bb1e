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

type AccountBalance struct {
	AccountId ledger.AccountId
	Hbars     Hbar
}

// AccountBalanceQuery fetches the hbar balance of an account. It is free.
type AccountBalanceQuery struct {
	Query[*AccountBalanceQuery]
	accountId ledger.AccountId
}

func NewAccountBalanceQuery() *AccountBalanceQuery {
	q := &AccountBalanceQuery{}
	q.Query = newQuery(q, q)
	return q
}

func (q *AccountBalanceQuery) SetAccountId(accountId ledger.AccountId) *AccountBalanceQuery {
	q.accountId = accountId
	return q
}

func (q *AccountBalanceQuery) GetAccountId() ledger.AccountId {
	return q.accountId
}

func (q *AccountBalanceQuery) Execute(ctx context.Context, client *Client) (AccountBalance, error) {
	resp, err := q.execute(ctx, client)
	if err != nil {
		return AccountBalance{}, err
	}
	return AccountBalance{
		AccountId: resp.CryptoGetAccountBalance.AccountID.AccountId(),
		Hbars:     HbarFromTinybars(int64(resp.CryptoGetAccountBalance.Balance)), // #nosec G115
	}, nil
}

func (q *AccountBalanceQuery) queryName() string {
	return "AccountBalanceQuery"
}

func (q *AccountBalanceQuery) method() string {
	return protocol.MethodCryptoGetBalance
}

func (q *AccountBalanceQuery) paymentExempt() bool {
	return true
}

func (q *AccountBalanceQuery) validate() error {
	if q.accountId.IsZero() {
		return ErrMissingAccountId
	}
	return nil
}

func (q *AccountBalanceQuery) buildQuery(header protocol.QueryHeader) *protocol.Query {
	return &protocol.Query{
		Header: header,
		CryptoGetAccountBalance: &protocol.CryptoGetAccountBalanceQuery{
			AccountID: protocol.NewEntityID(q.accountId.EntityId),
		},
	}
}

func (q *AccountBalanceQuery) classifyStatus(_ protocol.Status) (protocol.StatusClass, bool) {
	return 0, false
}

func (q *AccountBalanceQuery) validateResponse(resp *protocol.Response) error {
	if resp.CryptoGetAccountBalance == nil {
		return missingAnswer(q.queryName())
	}
	return nil
}

func (q *AccountBalanceQuery) validateChecksums(ledgerId ledger.LedgerId) error {
	return q.accountId.ValidateChecksum(ledgerId)
}
