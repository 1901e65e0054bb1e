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
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/blinklabs-io/gohedera/ledger"
)

const TinybarsPerHbar = 100_000_000

// Hbar is an amount of the network's native currency, held in tinybars
type Hbar struct {
	tinybar int64
}

var HbarZero = Hbar{}

func NewHbar(hbars float64) Hbar {
	return Hbar{tinybar: int64(math.Round(hbars * TinybarsPerHbar))}
}

func HbarFromTinybars(tinybars int64) Hbar {
	return Hbar{tinybar: tinybars}
}

// HbarFromString parses amounts such as "1.5", "1.5 ℏ" or "100 tℏ"
func HbarFromString(s string) (Hbar, error) {
	tmp := strings.TrimSpace(s)
	if amount, ok := strings.CutSuffix(tmp, "tℏ"); ok {
		tinybars, err := strconv.ParseInt(strings.TrimSpace(amount), 10, 64)
		if err != nil {
			return Hbar{}, ledger.NewParseError("hbar", s, err)
		}
		return HbarFromTinybars(tinybars), nil
	}
	tmp = strings.TrimSpace(strings.TrimSuffix(tmp, "ℏ"))
	hbars, err := strconv.ParseFloat(tmp, 64)
	if err != nil {
		return Hbar{}, ledger.NewParseError("hbar", s, err)
	}
	if math.IsNaN(hbars) || math.IsInf(hbars, 0) {
		return Hbar{}, ledger.NewParseError("hbar", s, errors.New("not a finite number"))
	}
	return NewHbar(hbars), nil
}

func (h Hbar) AsTinybar() int64 {
	return h.tinybar
}

func (h Hbar) AsHbar() float64 {
	return float64(h.tinybar) / TinybarsPerHbar
}

func (h Hbar) Negated() Hbar {
	return Hbar{tinybar: -h.tinybar}
}

func (h Hbar) IsZero() bool {
	return h.tinybar == 0
}

func (h Hbar) Compare(other Hbar) int {
	switch {
	case h.tinybar < other.tinybar:
		return -1
	case h.tinybar > other.tinybar:
		return 1
	default:
		return 0
	}
}

func (h Hbar) String() string {
	if h.tinybar != 0 && h.tinybar > -10_000 && h.tinybar < 10_000 {
		return fmt.Sprintf("%d tℏ", h.tinybar)
	}
	return strconv.FormatFloat(h.AsHbar(), 'f', -1, 64) + " ℏ"
}

func (h Hbar) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON accepts a string amount or a number of hbars
func (h *Hbar) UnmarshalJSON(data []byte) error {
	var tmpString string
	if err := json.Unmarshal(data, &tmpString); err == nil {
		tmp, err := HbarFromString(tmpString)
		if err != nil {
			return err
		}
		*h = tmp
		return nil
	}
	var tmpFloat float64
	if err := json.Unmarshal(data, &tmpFloat); err != nil {
		return err
	}
	*h = NewHbar(tmpFloat)
	return nil
}
