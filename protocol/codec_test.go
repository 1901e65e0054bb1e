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

package protocol_test

import (
	"testing"

	"github.com/blinklabs-io/gohedera/cbor"
	"github.com/blinklabs-io/gohedera/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecSkipsUnknownResponseFields(t *testing.T) {
	// A receipt answer with fields this client doesn't know about
	data, err := cbor.Encode(
		map[int]any{
			1: map[int]any{1: 0, 7: "extra"},
			14: map[int]any{
				1: map[int]any{1: int(protocol.StatusSuccess), 42: []byte{1, 2}},
			},
			99: "future answer",
		},
	)
	require.NoError(t, err)
	var resp protocol.Response
	require.NoError(t, protocol.Codec{}.Unmarshal(data, &resp))
	assert.Equal(t, protocol.StatusOk, resp.Header.NodeTransactionPrecheckCode)
	require.NotNil(t, resp.TransactionGetReceipt)
	assert.Equal(t, protocol.StatusSuccess, resp.TransactionGetReceipt.Receipt.Status)
}
