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

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
	"github.com/blinklabs-io/gohedera/retry"
	"google.golang.org/grpc/status"
)

var (
	ErrTransactionFrozen             = errors.New("transaction is frozen and can no longer be modified")
	ErrTransactionNotFrozen          = errors.New("transaction must be frozen before it can be signed")
	ErrFreezeUnsetNodeAccountIds     = errors.New("node account ids must be set to freeze a transaction without a client")
	ErrNoPayerAccountOrTransactionId = errors.New("transaction id or client operator must be set")
	ErrMaxChunksExceeded             = errors.New("message requires more chunks than allowed")
	ErrNoOperator                    = errors.New("client has no operator")
	ErrNoNodes                       = errors.New("client has no nodes")
	ErrNoMirrorNodes                 = errors.New("client has no mirror nodes")
	ErrSubscriptionClosed            = errors.New("subscription closed")
	ErrTransactionHashMultipleNodes  = errors.New("transaction has more than one node; use GetTransactionHashPerNode")
	ErrUnknownNetwork                = errors.New("unknown network")
	ErrMissingTopicId                = errors.New("topic id must be set")
	ErrMissingFileId                 = errors.New("file id must be set")
	ErrMissingAccountId              = errors.New("account id must be set")
	ErrMissingTransactionId          = errors.New("transaction id must be set")
	ErrInvalidTransactionBytes       = errors.New("invalid serialized transaction")
	ErrSignatureMultipleBodies       = errors.New("signature can only be added to a transaction with one chunk and one node")
	ErrInvalidSignature              = errors.New("signature does not match the transaction body")
	errReceiptPending                = errors.New("receipt is not available yet")
)

// TimedOutError is returned when a request exhausted its retry budget
type TimedOutError = retry.TimedOutError

// CodecError indicates a message could not be encoded or a response could
// not be decoded
type CodecError struct {
	Op  string
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("failed to %s message: %s", e.Op, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// PreCheckStatusError is returned when a node rejects a request before
// submitting it to consensus
type PreCheckStatusError struct {
	Status        protocol.Status
	TransactionId TransactionId
	NodeId        ledger.AccountId
	Cost          Hbar
}

func (e *PreCheckStatusError) Error() string {
	ret := fmt.Sprintf("node %s returned precheck status %s", e.NodeId.String(), e.Status.String())
	if !e.TransactionId.IsZero() {
		ret += " for transaction " + e.TransactionId.String()
	}
	return ret
}

// ReceiptStatusError is returned when consensus reached a status other
// than SUCCESS. The transaction needs to be resubmitted to try again.
type ReceiptStatusError struct {
	Status        protocol.Status
	TransactionId TransactionId
	Receipt       TransactionReceipt
}

func (e *ReceiptStatusError) Error() string {
	return fmt.Sprintf(
		"receipt for transaction %s contained error status %s",
		e.TransactionId.String(),
		e.Status.String(),
	)
}

// MaxQueryPaymentExceededError is returned, without a paid call having been
// made, when a query costs more than the allowed payment
type MaxQueryPaymentExceededError struct {
	QueryName string
	Max       Hbar
	Cost      Hbar
}

func (e *MaxQueryPaymentExceededError) Error() string {
	return fmt.Sprintf(
		"cost of %s (%s) exceeds max query payment (%s)",
		e.QueryName,
		e.Cost.String(),
		e.Max.String(),
	)
}

// GrpcStatusError is a transport failure reported by a node
type GrpcStatusError struct {
	NodeId ledger.AccountId
	Err    error
}

func (e *GrpcStatusError) Error() string {
	if e.NodeId.IsZero() {
		return fmt.Sprintf("grpc: %s", e.Err)
	}
	return fmt.Sprintf("grpc call to node %s failed: %s", e.NodeId.String(), e.Err)
}

func (e *GrpcStatusError) Unwrap() error {
	return e.Err
}

// GRPCStatus allows status.FromError and status.Code to see through the error
func (e *GrpcStatusError) GRPCStatus() *status.Status {
	return status.Convert(e.Err)
}
