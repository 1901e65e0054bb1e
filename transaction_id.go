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
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
)

// Generated transaction ids start in the past by a random amount in this
// range, so that clock skew with the network doesn't produce
// INVALID_TRANSACTION_START
const (
	transactionIdMinBackdate = 5 * time.Second
	transactionIdMaxBackdate = 8 * time.Second
)

// TransactionId identifies a transaction by its payer and the start of its
// validity window
type TransactionId struct {
	AccountId  ledger.AccountId
	ValidStart time.Time
	Scheduled  bool
	Nonce      int32
}

func NewTransactionId(accountId ledger.AccountId, validStart time.Time) TransactionId {
	return TransactionId{
		AccountId:  accountId,
		ValidStart: validStart.UTC(),
	}
}

// GenerateTransactionId returns a transaction id for the payer with a valid
// start between 5 and 8 seconds in the past
func GenerateTransactionId(accountId ledger.AccountId) TransactionId {
	backdate := transactionIdMinBackdate + time.Duration(rand.Int63n(int64(transactionIdMaxBackdate-transactionIdMinBackdate)))
	return NewTransactionId(accountId, time.Now().Add(-backdate))
}

// TransactionIdFromString parses the "account@seconds.nanos[?scheduled][/nonce]" form
func TransactionIdFromString(s string) (TransactionId, error) {
	tmpAccount, rest, ok := strings.Cut(s, "@")
	if !ok {
		return TransactionId{}, ledger.NewParseError("transaction id", s, errors.New("missing '@'"))
	}
	accountId, err := ledger.AccountIdFromString(tmpAccount)
	if err != nil {
		return TransactionId{}, ledger.NewParseError("transaction id", s, err)
	}
	ret := TransactionId{AccountId: accountId}
	if tmp, tmpNonce, ok := strings.Cut(rest, "/"); ok {
		nonce, err := strconv.ParseInt(tmpNonce, 10, 32)
		if err != nil {
			return TransactionId{}, ledger.NewParseError("transaction id", s, err)
		}
		ret.Nonce = int32(nonce)
		rest = tmp
	}
	if tmp, ok := strings.CutSuffix(rest, "?scheduled"); ok {
		ret.Scheduled = true
		rest = tmp
	}
	tmpSecs, tmpNanos, ok := strings.Cut(rest, ".")
	if !ok {
		return TransactionId{}, ledger.NewParseError("transaction id", s, ledger.ErrInvalidTimestamp)
	}
	secs, err := strconv.ParseInt(tmpSecs, 10, 64)
	if err != nil {
		return TransactionId{}, ledger.NewParseError("transaction id", s, ledger.ErrInvalidTimestamp)
	}
	nanos, err := strconv.ParseInt(tmpNanos, 10, 64)
	if err != nil || nanos < 0 || nanos >= int64(time.Second) {
		return TransactionId{}, ledger.NewParseError("transaction id", s, ledger.ErrInvalidTimestamp)
	}
	ret.ValidStart = time.Unix(secs, nanos).UTC()
	return ret, nil
}

func (t TransactionId) String() string {
	ret := fmt.Sprintf(
		"%s@%d.%09d",
		t.AccountId.String(),
		t.ValidStart.Unix(),
		t.ValidStart.Nanosecond(),
	)
	if t.Scheduled {
		ret += "?scheduled"
	}
	if t.Nonce != 0 {
		ret += "/" + strconv.Itoa(int(t.Nonce))
	}
	return ret
}

func (t TransactionId) IsZero() bool {
	return t.AccountId.IsZero() && t.ValidStart.IsZero()
}

func (t TransactionId) Equal(other TransactionId) bool {
	return t.AccountId.Equal(other.AccountId) &&
		t.ValidStart.Equal(other.ValidStart) &&
		t.Scheduled == other.Scheduled &&
		t.Nonce == other.Nonce
}

// withOffset returns the id of a later chunk of the same transaction
func (t TransactionId) withOffset(nanos int) TransactionId {
	t.ValidStart = t.ValidStart.Add(time.Duration(nanos))
	return t
}

func (t TransactionId) toProtocol() protocol.TransactionID {
	return protocol.TransactionID{
		AccountID:  protocol.NewEntityID(t.AccountId.EntityId),
		ValidStart: protocol.NewTimestamp(t.ValidStart),
		Scheduled:  t.Scheduled,
		Nonce:      t.Nonce,
	}
}

func transactionIdFromProtocol(id protocol.TransactionID) TransactionId {
	return TransactionId{
		AccountId:  id.AccountID.AccountId(),
		ValidStart: id.ValidStart.Time(),
		Scheduled:  id.Scheduled,
		Nonce:      id.Nonce,
	}
}
