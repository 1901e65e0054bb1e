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
	"time"

	"github.com/blinklabs-io/gohedera/cbor"
	"github.com/blinklabs-io/gohedera/ledger"
)

type Timestamp struct {
	cbor.StructAsArray
	Seconds int64
	Nanos   int32
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{
		Seconds: t.Unix(),
		Nanos:   int32(t.Nanosecond()), // #nosec G115
	}
}

func (t Timestamp) Time() time.Time {
	return time.Unix(t.Seconds, int64(t.Nanos)).UTC()
}

type Duration struct {
	cbor.StructAsArray
	Seconds int64
}

func NewDuration(d time.Duration) Duration {
	return Duration{Seconds: int64(d / time.Second)}
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d.Seconds) * time.Second
}

// EntityID is the wire form of every shard.realm.num identifier
type EntityID struct {
	cbor.StructAsArray
	Shard uint64
	Realm uint64
	Num   uint64
}

func NewEntityID(id ledger.EntityId) EntityID {
	return EntityID{
		Shard: id.Shard,
		Realm: id.Realm,
		Num:   id.Num,
	}
}

func (e EntityID) EntityId() ledger.EntityId {
	return ledger.NewEntityId(e.Shard, e.Realm, e.Num)
}

func (e EntityID) AccountId() ledger.AccountId {
	return ledger.AccountId{EntityId: e.EntityId()}
}

func (e EntityID) FileId() ledger.FileId {
	return ledger.FileId{EntityId: e.EntityId()}
}

func (e EntityID) TopicId() ledger.TopicId {
	return ledger.TopicId{EntityId: e.EntityId()}
}

type TransactionID struct {
	AccountID  EntityID  `cbor:"1,keyasint"`
	ValidStart Timestamp `cbor:"2,keyasint"`
	Scheduled  bool      `cbor:"3,keyasint,omitempty"`
	Nonce      int32     `cbor:"4,keyasint,omitempty"`
}

// ChunkInfo ties one chunk of a multi-transaction payload to the first
// transaction of the group
type ChunkInfo struct {
	InitialTransactionID TransactionID `cbor:"1,keyasint"`
	Total                int32         `cbor:"2,keyasint"`
	Number               int32         `cbor:"3,keyasint"`
}

type Key struct {
	Ed25519        []byte   `cbor:"1,keyasint,omitempty"`
	ECDSASecp256k1 []byte   `cbor:"2,keyasint,omitempty"`
	KeyList        *KeyList `cbor:"3,keyasint,omitempty"`
}

func (k Key) IsZero() bool {
	return k.Ed25519 == nil && k.ECDSASecp256k1 == nil && k.KeyList == nil
}

type KeyList struct {
	Keys []Key `cbor:"1,keyasint,omitempty"`
}

type AccountAmount struct {
	AccountID EntityID `cbor:"1,keyasint"`
	Amount    int64    `cbor:"2,keyasint"`
}

type SemanticVersion struct {
	cbor.StructAsArray
	Major uint32
	Minor uint32
	Patch uint32
}
