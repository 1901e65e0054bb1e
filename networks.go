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
	"fmt"
	"maps"

	"github.com/blinklabs-io/gohedera/ledger"
)

// Network definitions
var (
	NetworkMainnet = Network{
		Name:     "mainnet",
		LedgerId: ledger.LedgerIdMainnet,
		Nodes: map[string]ledger.AccountId{
			"35.237.200.180:50211": ledger.NewAccountId(0, 0, 3),
			"35.186.191.247:50211": ledger.NewAccountId(0, 0, 4),
			"35.192.2.25:50211":    ledger.NewAccountId(0, 0, 5),
			"35.199.161.108:50211": ledger.NewAccountId(0, 0, 6),
			"35.203.82.240:50211":  ledger.NewAccountId(0, 0, 7),
			"35.236.5.219:50211":   ledger.NewAccountId(0, 0, 8),
			"35.197.192.225:50211": ledger.NewAccountId(0, 0, 9),
		},
		MirrorAddresses: []string{"mainnet-public.mirrornode.hedera.com:443"},
	}
	NetworkTestnet = Network{
		Name:            "testnet",
		LedgerId:        ledger.LedgerIdTestnet,
		Nodes:           numberedNodes("testnet", 3, 9),
		MirrorAddresses: []string{"testnet.mirrornode.hedera.com:443"},
	}
	NetworkPreviewnet = Network{
		Name:            "previewnet",
		LedgerId:        ledger.LedgerIdPreviewnet,
		Nodes:           numberedNodes("previewnet", 3, 9),
		MirrorAddresses: []string{"previewnet.mirrornode.hedera.com:443"},
	}

	NetworkInvalid = Network{
		Name: "invalid",
	} // NetworkInvalid is used as a return value for lookup functions when a network isn't found
)

// List of valid networks for use in lookup functions
var networks = []Network{
	NetworkMainnet,
	NetworkTestnet,
	NetworkPreviewnet,
}

// NetworkByName returns a predefined network by name
func NetworkByName(name string) Network {
	for _, network := range networks {
		if network.Name == name {
			return network
		}
	}
	return NetworkInvalid
}

// NetworkByLedgerId returns a predefined network by ledger ID
func NetworkByLedgerId(ledgerId ledger.LedgerId) Network {
	for _, network := range networks {
		if network.LedgerId.Equal(ledgerId) {
			return network
		}
	}
	return NetworkInvalid
}

// Network represents a set of consensus nodes and mirror nodes sharing a ledger
type Network struct {
	Name            string
	LedgerId        ledger.LedgerId
	Nodes           map[string]ledger.AccountId // address to node account ID
	MirrorAddresses []string
}

func (n Network) String() string {
	return n.Name
}

// IsValid reports whether the network has any nodes
func (n Network) IsValid() bool {
	return len(n.Nodes) > 0
}

// Copy returns a copy of the network which can be modified without
// affecting the original
func (n Network) Copy() Network {
	ret := n
	ret.LedgerId = append(ledger.LedgerId(nil), n.LedgerId...)
	ret.Nodes = maps.Clone(n.Nodes)
	ret.MirrorAddresses = append([]string(nil), n.MirrorAddresses...)
	return ret
}

// numberedNodes returns nodes "N.<name>.hedera.com" for node account IDs
// 0.0.first through 0.0.last, where N counts up from 0
func numberedNodes(name string, first uint64, last uint64) map[string]ledger.AccountId {
	ret := map[string]ledger.AccountId{}
	for num := first; num <= last; num++ {
		address := fmt.Sprintf("%d.%s.hedera.com:50211", num-first, name)
		ret[address] = ledger.NewAccountId(0, 0, num)
	}
	return ret
}
