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
	"bytes"
	"encoding/hex"
)

// LedgerId identifies the ledger an entity id checksum is computed against
type LedgerId []byte

var (
	LedgerIdMainnet    = LedgerId{0}
	LedgerIdTestnet    = LedgerId{1}
	LedgerIdPreviewnet = LedgerId{2}
)

var ledgerIdNames = []struct {
	name string
	id   LedgerId
}{
	{"mainnet", LedgerIdMainnet},
	{"testnet", LedgerIdTestnet},
	{"previewnet", LedgerIdPreviewnet},
}

// LedgerIdFromString accepts one of the well-known network names or a hex
// encoded ledger id
func LedgerIdFromString(s string) (LedgerId, error) {
	for _, tmp := range ledgerIdNames {
		if tmp.name == s {
			return tmp.id, nil
		}
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, NewParseError("ledger id", s, err)
	}
	return LedgerId(data), nil
}

func (l LedgerId) Bytes() []byte {
	return []byte(l)
}

func (l LedgerId) Equal(other LedgerId) bool {
	return bytes.Equal(l, other)
}

func (l LedgerId) IsZero() bool {
	return len(l) == 0
}

func (l LedgerId) String() string {
	for _, tmp := range ledgerIdNames {
		if tmp.id.Equal(l) {
			return tmp.name
		}
	}
	return hex.EncodeToString(l)
}
