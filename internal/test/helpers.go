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

package test

import (
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/blinklabs-io/gohedera/internal/test/mocknet"
	"github.com/blinklabs-io/gohedera/retry"
)

// FastBackoff keeps retry delays short in tests
var FastBackoff = retry.BackoffConfig{
	InitialInterval:     time.Millisecond,
	MaxInterval:         10 * time.Millisecond,
	MaxElapsedTime:      10 * time.Second,
	Multiplier:          2,
	RandomizationFactor: 0,
}

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline.
func DecodeHexString(hexData string) []byte {
	// Strip off any leading/trailing whitespace in hex string
	hexData = strings.TrimSpace(hexData)
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// NewMockNetwork starts a mock network that is stopped when the test ends
func NewMockNetwork(t testing.TB, options ...mocknet.OptionFunc) *mocknet.Network {
	t.Helper()
	m, err := mocknet.New(options...)
	if err != nil {
		t.Fatalf("failed to start mock network: %s", err)
	}
	t.Cleanup(m.Close)
	return m
}
