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

package protocol

import (
	"fmt"

	"github.com/blinklabs-io/gohedera/cbor"
)

type ResponseType uint8

const (
	ResponseTypeAnswerOnly ResponseType = 0
	ResponseTypeCostAnswer ResponseType = 2
)

type QueryHeader struct {
	Payment      *Transaction `cbor:"1,keyasint,omitempty"`
	ResponseType ResponseType `cbor:"2,keyasint,omitempty"`
}

// Query carries the header and exactly one kind-specific query
type Query struct {
	Header                  QueryHeader                   `cbor:"1,keyasint"`
	CryptoGetAccountBalance *CryptoGetAccountBalanceQuery `cbor:"10,keyasint,omitempty"`
	CryptoGetInfo           *CryptoGetInfoQuery           `cbor:"11,keyasint,omitempty"`
	FileGetInfo             *FileGetInfoQuery             `cbor:"12,keyasint,omitempty"`
	FileGetContents         *FileGetContentsQuery         `cbor:"13,keyasint,omitempty"`
	TransactionGetReceipt   *TransactionGetReceiptQuery   `cbor:"14,keyasint,omitempty"`
	TransactionGetRecord    *TransactionGetRecordQuery    `cbor:"15,keyasint,omitempty"`
	NetworkGetVersionInfo   *NetworkGetVersionInfoQuery   `cbor:"16,keyasint,omitempty"`
}

func (q *Query) MarshalCBOR() ([]byte, error) {
	if _, err := q.Method(); err != nil {
		return nil, err
	}
	return cbor.EncodeGeneric(q)
}

func (q *Query) UnmarshalCBOR(data []byte) error {
	if err := cbor.DecodeGeneric(data, q); err != nil {
		return err
	}
	_, err := q.Method()
	return err
}

// Method returns the RPC that answers this query
func (q *Query) Method() (string, error) {
	var methods []string
	if q.CryptoGetAccountBalance != nil {
		methods = append(methods, MethodCryptoGetBalance)
	}
	if q.CryptoGetInfo != nil {
		methods = append(methods, MethodCryptoGetInfo)
	}
	if q.FileGetInfo != nil {
		methods = append(methods, MethodFileGetInfo)
	}
	if q.FileGetContents != nil {
		methods = append(methods, MethodFileGetContents)
	}
	if q.TransactionGetReceipt != nil {
		methods = append(methods, MethodGetTransactionReceipts)
	}
	if q.TransactionGetRecord != nil {
		methods = append(methods, MethodGetTxRecordByTxID)
	}
	if q.NetworkGetVersionInfo != nil {
		methods = append(methods, MethodNetworkGetVersionInfo)
	}
	switch len(methods) {
	case 0:
		return "", ErrEmptyPayload
	case 1:
		return methods[0], nil
	default:
		return "", fmt.Errorf("%w: %v", ErrMultiplePayloads, methods)
	}
}

type CryptoGetAccountBalanceQuery struct {
	AccountID EntityID `cbor:"1,keyasint"`
}

type CryptoGetInfoQuery struct {
	AccountID EntityID `cbor:"1,keyasint"`
}

type FileGetInfoQuery struct {
	FileID EntityID `cbor:"1,keyasint"`
}

type FileGetContentsQuery struct {
	FileID EntityID `cbor:"1,keyasint"`
}

type TransactionGetReceiptQuery struct {
	TransactionID TransactionID `cbor:"1,keyasint"`
}

type TransactionGetRecordQuery struct {
	TransactionID TransactionID `cbor:"1,keyasint"`
}

type NetworkGetVersionInfoQuery struct{}

type ResponseHeader struct {
	NodeTransactionPrecheckCode Status       `cbor:"1,keyasint"`
	ResponseType                ResponseType `cbor:"2,keyasint,omitempty"`
	Cost                        uint64       `cbor:"3,keyasint,omitempty"`
}

// Response carries the header and at most one kind-specific answer. Cost
// answers and failed prechecks carry no answer.
type Response struct {
	Header                  ResponseHeader                   `cbor:"1,keyasint"`
	CryptoGetAccountBalance *CryptoGetAccountBalanceResponse `cbor:"10,keyasint,omitempty"`
	CryptoGetInfo           *CryptoGetInfoResponse           `cbor:"11,keyasint,omitempty"`
	FileGetInfo             *FileGetInfoResponse             `cbor:"12,keyasint,omitempty"`
	FileGetContents         *FileGetContentsResponse         `cbor:"13,keyasint,omitempty"`
	TransactionGetReceipt   *TransactionGetReceiptResponse   `cbor:"14,keyasint,omitempty"`
	TransactionGetRecord    *TransactionGetRecordResponse    `cbor:"15,keyasint,omitempty"`
	NetworkGetVersionInfo   *NetworkGetVersionInfoResponse   `cbor:"16,keyasint,omitempty"`
}

type CryptoGetAccountBalanceResponse struct {
	AccountID EntityID `cbor:"1,keyasint"`
	Balance   uint64   `cbor:"2,keyasint"`
}

type CryptoGetInfoResponse struct {
	AccountID           EntityID `cbor:"1,keyasint"`
	Key                 Key      `cbor:"2,keyasint"`
	Balance             uint64   `cbor:"3,keyasint"`
	ReceiverSigRequired bool     `cbor:"4,keyasint,omitempty"`
	Memo                string   `cbor:"5,keyasint,omitempty"`
	Deleted             bool     `cbor:"6,keyasint,omitempty"`
}

type FileGetInfoResponse struct {
	FileID         EntityID  `cbor:"1,keyasint"`
	Size           int64     `cbor:"2,keyasint"`
	ExpirationTime Timestamp `cbor:"3,keyasint"`
	Deleted        bool      `cbor:"4,keyasint,omitempty"`
	Keys           KeyList   `cbor:"5,keyasint"`
	Memo           string    `cbor:"6,keyasint,omitempty"`
}

type FileGetContentsResponse struct {
	FileID   EntityID `cbor:"1,keyasint"`
	Contents []byte   `cbor:"2,keyasint,omitempty"`
}

type TransactionGetReceiptResponse struct {
	Receipt TransactionReceipt `cbor:"1,keyasint"`
}

type TransactionGetRecordResponse struct {
	Record TransactionRecord `cbor:"1,keyasint"`
}

type NetworkGetVersionInfoResponse struct {
	ProtocolVersion SemanticVersion `cbor:"1,keyasint"`
	ServicesVersion SemanticVersion `cbor:"2,keyasint"`
}

type TransactionReceipt struct {
	Status                  Status    `cbor:"1,keyasint"`
	AccountID               *EntityID `cbor:"2,keyasint,omitempty"`
	FileID                  *EntityID `cbor:"3,keyasint,omitempty"`
	TopicID                 *EntityID `cbor:"4,keyasint,omitempty"`
	TopicSequenceNumber     uint64    `cbor:"5,keyasint,omitempty"`
	TopicRunningHash        []byte    `cbor:"6,keyasint,omitempty"`
	TopicRunningHashVersion uint64    `cbor:"7,keyasint,omitempty"`
}

type TransactionRecord struct {
	Receipt            TransactionReceipt `cbor:"1,keyasint"`
	TransactionHash    []byte             `cbor:"2,keyasint"`
	ConsensusTimestamp Timestamp          `cbor:"3,keyasint"`
	TransactionID      TransactionID      `cbor:"4,keyasint"`
	Memo               string             `cbor:"5,keyasint,omitempty"`
	TransactionFee     uint64             `cbor:"6,keyasint"`
	TransferList       []AccountAmount    `cbor:"7,keyasint,omitempty"`
}
