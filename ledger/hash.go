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
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const Blake2b384Size = 48

// Blake2b384 is the content hash of a signed transaction
type Blake2b384 [Blake2b384Size]byte

func NewBlake2b384(data []byte) Blake2b384 {
	b := Blake2b384{}
	copy(b[:], data)
	return b
}

func (b Blake2b384) String() string {
	return hex.EncodeToString(b[:])
}

func (b Blake2b384) Bytes() []byte {
	return b[:]
}

func (b Blake2b384) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// Blake2b384Hash generates a Blake2b-384 hash from the provided data
func Blake2b384Hash(data []byte) Blake2b384 {
	tmpHash, err := blake2b.New384(nil)
	if err != nil {
		panic(
			fmt.Sprintf(
				"unexpected error generating empty blake2b hash: %s",
				err,
			),
		)
	}
	tmpHash.Write(data)
	return Blake2b384(tmpHash.Sum(nil))
}
