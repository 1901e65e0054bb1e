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

	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
)

type AccountInfo struct {
	AccountId                 ledger.AccountId
	Key                       keys.PublicKey
	Balance                   Hbar
	ReceiverSignatureRequired bool
	AccountMemo               string
	Deleted                   bool
}

// AccountInfoQuery fetches the state of an account
type AccountInfoQuery struct {
	Query[*AccountInfoQuery]
	accountId ledger.AccountId
}

func NewAccountInfoQuery() *AccountInfoQuery {
	q := &AccountInfoQuery{}
	q.Query = newQuery(q, q)
	return q
}

func (q *AccountInfoQuery) SetAccountId(accountId ledger.AccountId) *AccountInfoQuery {
	q.accountId = accountId
	return q
}

func (q *AccountInfoQuery) GetAccountId() ledger.AccountId {
	return q.accountId
}

func (q *AccountInfoQuery) Execute(ctx context.Context, client *Client) (AccountInfo, error) {
	resp, err := q.execute(ctx, client)
	if err != nil {
		return AccountInfo{}, err
	}
	info := resp.CryptoGetInfo
	ret := AccountInfo{
		AccountId:                 info.AccountID.AccountId(),
		Balance:                   HbarFromTinybars(int64(info.Balance)), // #nosec G115
		ReceiverSignatureRequired: info.ReceiverSigRequired,
		AccountMemo:               info.Memo,
		Deleted:                   info.Deleted,
	}
	// Accounts without a key have none to report
	if info.Key.Ed25519 != nil || info.Key.ECDSASecp256k1 != nil {
		key, err := keys.PublicKeyFromProtocol(info.Key)
		if err != nil {
			return AccountInfo{}, &CodecError{Op: "decode", Err: err}
		}
		ret.Key = key
	}
	return ret, nil
}

func (q *AccountInfoQuery) queryName() string {
	return "AccountInfoQuery"
}

func (q *AccountInfoQuery) method() string {
	return protocol.MethodCryptoGetInfo
}

func (q *AccountInfoQuery) paymentExempt() bool {
	return false
}

func (q *AccountInfoQuery) validate() error {
	if q.accountId.IsZero() {
		return ErrMissingAccountId
	}
	return nil
}

func (q *AccountInfoQuery) buildQuery(header protocol.QueryHeader) *protocol.Query {
	return &protocol.Query{
		Header: header,
		CryptoGetInfo: &protocol.CryptoGetInfoQuery{
			AccountID: protocol.NewEntityID(q.accountId.EntityId),
		},
	}
}

func (q *AccountInfoQuery) classifyStatus(_ protocol.Status) (protocol.StatusClass, bool) {
	return 0, false
}

func (q *AccountInfoQuery) validateResponse(resp *protocol.Response) error {
	if resp.CryptoGetInfo == nil {
		return missingAnswer(q.queryName())
	}
	return nil
}

func (q *AccountInfoQuery) validateChecksums(ledgerId ledger.LedgerId) error {
	return q.accountId.ValidateChecksum(ledgerId)
}
