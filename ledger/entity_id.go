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

package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// EntityId is the shard.realm.num triple shared by every ledger entity. The
// checksum is only populated when the id was parsed from a string that
// carried one.
type EntityId struct {
	Shard    uint64
	Realm    uint64
	Num      uint64
	Checksum string
}

func NewEntityId(shard uint64, realm uint64, num uint64) EntityId {
	return EntityId{
		Shard: shard,
		Realm: realm,
		Num:   num,
	}
}

// ParseEntityId parses the "shard.realm.num" form with an optional
// "-checksum" suffix
func ParseEntityId(kind string, s string) (EntityId, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return EntityId{}, NewParseError(kind, s, ErrInvalidEntityId)
	}
	last := parts[2]
	var checksum string
	if idx := strings.LastIndex(last, "-"); idx >= 0 {
		checksum = last[idx+1:]
		last = last[:idx]
		if !isChecksum(checksum) {
			return EntityId{}, NewParseError(kind, s, ErrInvalidChecksum)
		}
	}
	var ret EntityId
	for i, part := range []string{parts[0], parts[1], last} {
		val, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return EntityId{}, NewParseError(kind, s, err)
		}
		switch i {
		case 0:
			ret.Shard = val
		case 1:
			ret.Realm = val
		case 2:
			ret.Num = val
		}
	}
	ret.Checksum = checksum
	return ret, nil
}

func (e EntityId) String() string {
	return fmt.Sprintf("%d.%d.%d", e.Shard, e.Realm, e.Num)
}

// StringWithChecksum formats the id with the checksum for the given ledger
func (e EntityId) StringWithChecksum(ledgerId LedgerId) string {
	return e.String() + "-" + Checksum(ledgerId, e.Shard, e.Realm, e.Num)
}

// ValidateChecksum checks a parsed checksum against the given ledger. Ids
// without a checksum always validate.
func (e EntityId) ValidateChecksum(ledgerId LedgerId) error {
	if e.Checksum == "" {
		return nil
	}
	if ledgerId.IsZero() {
		return ErrMissingLedgerId
	}
	expected := Checksum(ledgerId, e.Shard, e.Realm, e.Num)
	if expected != e.Checksum {
		return &BadChecksumError{
			Id:       e,
			Expected: expected,
			Actual:   e.Checksum,
		}
	}
	return nil
}

// WithoutChecksum returns a copy that compares equal to any other parse of
// the same triple
func (e EntityId) WithoutChecksum() EntityId {
	e.Checksum = ""
	return e
}

func (e EntityId) IsZero() bool {
	return e.Shard == 0 && e.Realm == 0 && e.Num == 0
}

// Compare orders ids by shard, realm and num
func (e EntityId) Compare(other EntityId) int {
	switch {
	case e.Shard != other.Shard:
		return cmpUint(e.Shard, other.Shard)
	case e.Realm != other.Realm:
		return cmpUint(e.Realm, other.Realm)
	default:
		return cmpUint(e.Num, other.Num)
	}
}

func cmpUint(a uint64, b uint64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// AccountId identifies an account, including the node accounts that
// transactions are addressed to
type AccountId struct {
	EntityId
}

func NewAccountId(shard uint64, realm uint64, num uint64) AccountId {
	return AccountId{EntityId: NewEntityId(shard, realm, num)}
}

func AccountIdFromString(s string) (AccountId, error) {
	id, err := ParseEntityId("account id", s)
	if err != nil {
		return AccountId{}, err
	}
	return AccountId{EntityId: id}, nil
}

func (a AccountId) WithoutChecksum() AccountId {
	return AccountId{EntityId: a.EntityId.WithoutChecksum()}
}

// Equal ignores any parsed checksum
func (a AccountId) Equal(other AccountId) bool {
	return a.WithoutChecksum() == other.WithoutChecksum()
}

type FileId struct {
	EntityId
}

func NewFileId(shard uint64, realm uint64, num uint64) FileId {
	return FileId{EntityId: NewEntityId(shard, realm, num)}
}

func FileIdFromString(s string) (FileId, error) {
	id, err := ParseEntityId("file id", s)
	if err != nil {
		return FileId{}, err
	}
	return FileId{EntityId: id}, nil
}

type TopicId struct {
	EntityId
}

func NewTopicId(shard uint64, realm uint64, num uint64) TopicId {
	return TopicId{EntityId: NewEntityId(shard, realm, num)}
}

func TopicIdFromString(s string) (TopicId, error) {
	id, err := ParseEntityId("topic id", s)
	if err != nil {
		return TopicId{}, err
	}
	return TopicId{EntityId: id}, nil
}
