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

import "fmt"

const (
	checksumLength = 5

	checksumDigits3 = 26 * 26 * 26
	// Named for 5 digits, but the network defines the modulus as 26^6
	checksumDigits5 = 26 * 26 * 26 * 26 * 26 * 26
	// Smallest prime above one million, used for the final permutation
	checksumPrime  = 1_000_003
	checksumWeight = 31
)

// Checksum computes the 5 letter checksum of shard.realm.num for the
// given ledger
func Checksum(ledgerId LedgerId, shard uint64, realm uint64, num uint64) string {
	addr := fmt.Sprintf("%d.%d.%d", shard, realm, num)
	var s, sumEven, sumOdd int
	for i, c := range addr {
		// '.' counts as digit 10
		digit := 10
		if c != '.' {
			digit = int(c - '0')
		}
		s = (checksumWeight*s + digit) % checksumDigits3
		if i%2 == 0 {
			sumEven = (sumEven + digit) % 11
		} else {
			sumOdd = (sumOdd + digit) % 11
		}
	}
	// The ledger id is padded with 6 zero bytes before hashing
	h := make([]byte, 0, len(ledgerId)+6)
	h = append(h, ledgerId...)
	h = append(h, make([]byte, 6)...)
	sh := 0
	for _, b := range h {
		sh = (checksumWeight*sh + int(b)) % checksumDigits5
	}
	c := len(addr) % 5
	c = c*11 + sumEven
	c = c*11 + sumOdd
	c = c*checksumDigits3 + s + sh
	c %= checksumDigits5
	c = (c * checksumPrime) % checksumDigits5
	ret := make([]byte, checksumLength)
	for i := checksumLength - 1; i >= 0; i-- {
		ret[i] = byte('a' + c%26)
		c /= 26
	}
	return string(ret)
}

func isChecksum(s string) bool {
	if len(s) != checksumLength {
		return false
	}
	for _, c := range s {
		if c < 'a' || c > 'z' {
			return false
		}
	}
	return true
}
