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

// Transaction is the message sent to a node for every transaction RPC
type Transaction struct {
	SignedTransactionBytes []byte `cbor:"1,keyasint"`
}

// TransactionList is the serialized form of a frozen transaction. It holds
// one entry per chunk and node, ordered by chunk.
type TransactionList struct {
	TransactionList []Transaction `cbor:"1,keyasint"`
}

type SignedTransaction struct {
	BodyBytes []byte       `cbor:"1,keyasint"`
	SigMap    SignatureMap `cbor:"2,keyasint"`
}

type SignatureMap struct {
	SigPair []SignaturePair `cbor:"1,keyasint,omitempty"`
}

type SignaturePair struct {
	PubKeyPrefix   []byte `cbor:"1,keyasint"`
	Ed25519        []byte `cbor:"2,keyasint,omitempty"`
	ECDSASecp256k1 []byte `cbor:"3,keyasint,omitempty"`
}

// Signature returns whichever signature is populated
func (p SignaturePair) Signature() []byte {
	if p.Ed25519 != nil {
		return p.Ed25519
	}
	return p.ECDSASecp256k1
}

// TransactionBody carries exactly one kind-specific payload. The original
// bytes are kept on decode since signatures cover them.
type TransactionBody struct {
	cbor.DecodeStoreCbor
	TransactionID          TransactionID               `cbor:"1,keyasint"`
	NodeAccountID          EntityID                    `cbor:"2,keyasint"`
	TransactionFee         uint64                      `cbor:"3,keyasint"`
	ValidDuration          Duration                    `cbor:"4,keyasint"`
	Memo                   string                      `cbor:"5,keyasint,omitempty"`
	ChunkInfo              *ChunkInfo                  `cbor:"6,keyasint,omitempty"`
	CryptoTransfer         *CryptoTransferBody         `cbor:"10,keyasint,omitempty"`
	CryptoCreateAccount    *CryptoCreateAccountBody    `cbor:"11,keyasint,omitempty"`
	FileCreate             *FileCreateBody             `cbor:"12,keyasint,omitempty"`
	FileAppend             *FileAppendBody             `cbor:"13,keyasint,omitempty"`
	ConsensusCreateTopic   *ConsensusCreateTopicBody   `cbor:"14,keyasint,omitempty"`
	ConsensusSubmitMessage *ConsensusSubmitMessageBody `cbor:"15,keyasint,omitempty"`
}

func (b *TransactionBody) MarshalCBOR() ([]byte, error) {
	if _, err := b.payloadName(); err != nil {
		return nil, err
	}
	return cbor.EncodeGeneric(b)
}

func (b *TransactionBody) UnmarshalCBOR(data []byte) error {
	if err := cbor.DecodeGeneric(data, b); err != nil {
		return err
	}
	_, err := b.payloadName()
	return err
}

// Method returns the RPC used to submit a body with this payload
func (b *TransactionBody) Method() (string, error) {
	name, err := b.payloadName()
	if err != nil {
		return "", err
	}
	return transactionMethods[name], nil
}

func (b *TransactionBody) payloadName() (string, error) {
	var names []string
	if b.CryptoTransfer != nil {
		names = append(names, "cryptoTransfer")
	}
	if b.CryptoCreateAccount != nil {
		names = append(names, "cryptoCreateAccount")
	}
	if b.FileCreate != nil {
		names = append(names, "fileCreate")
	}
	if b.FileAppend != nil {
		names = append(names, "fileAppend")
	}
	if b.ConsensusCreateTopic != nil {
		names = append(names, "consensusCreateTopic")
	}
	if b.ConsensusSubmitMessage != nil {
		names = append(names, "consensusSubmitMessage")
	}
	switch len(names) {
	case 0:
		return "", ErrEmptyPayload
	case 1:
		return names[0], nil
	default:
		return "", fmt.Errorf("%w: %v", ErrMultiplePayloads, names)
	}
}

type CryptoTransferBody struct {
	Transfers []AccountAmount `cbor:"1,keyasint"`
}

type CryptoCreateAccountBody struct {
	Key                 Key    `cbor:"1,keyasint"`
	InitialBalance      uint64 `cbor:"2,keyasint,omitempty"`
	ReceiverSigRequired bool   `cbor:"3,keyasint,omitempty"`
	Memo                string `cbor:"4,keyasint,omitempty"`
}

type FileCreateBody struct {
	Keys           KeyList    `cbor:"1,keyasint"`
	Contents       []byte     `cbor:"2,keyasint,omitempty"`
	ExpirationTime *Timestamp `cbor:"3,keyasint,omitempty"`
	Memo           string     `cbor:"4,keyasint,omitempty"`
}

type FileAppendBody struct {
	FileID   EntityID `cbor:"1,keyasint"`
	Contents []byte   `cbor:"2,keyasint,omitempty"`
}

type ConsensusCreateTopicBody struct {
	Memo      string `cbor:"1,keyasint,omitempty"`
	AdminKey  *Key   `cbor:"2,keyasint,omitempty"`
	SubmitKey *Key   `cbor:"3,keyasint,omitempty"`
}

type ConsensusSubmitMessageBody struct {
	TopicID EntityID `cbor:"1,keyasint"`
	Message []byte   `cbor:"2,keyasint,omitempty"`
}

// TransactionResponse is the synchronous answer to a submitted transaction
type TransactionResponse struct {
	NodeTransactionPrecheckCode Status `cbor:"1,keyasint"`
	Cost                        uint64 `cbor:"2,keyasint,omitempty"`
}
