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
	"context"
	"fmt"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
	"github.com/jinzhu/copier"
)

type SemanticVersion struct {
	Major uint32
	Minor uint32
	Patch uint32
}

func (v SemanticVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

type NetworkVersionInfo struct {
	ProtocolVersion SemanticVersion
	ServicesVersion SemanticVersion
}

// NetworkVersionInfoQuery fetches the protocol and services versions run by
// a node
type NetworkVersionInfoQuery struct {
	Query[*NetworkVersionInfoQuery]
}

func NewNetworkVersionInfoQuery() *NetworkVersionInfoQuery {
	q := &NetworkVersionInfoQuery{}
	q.Query = newQuery(q, q)
	return q
}

func (q *NetworkVersionInfoQuery) Execute(ctx context.Context, client *Client) (NetworkVersionInfo, error) {
	resp, err := q.execute(ctx, client)
	if err != nil {
		return NetworkVersionInfo{}, err
	}
	var ret NetworkVersionInfo
	if err := copier.Copy(&ret, resp.NetworkGetVersionInfo); err != nil {
		return NetworkVersionInfo{}, &CodecError{Op: "decode", Err: err}
	}
	return ret, nil
}

func (q *NetworkVersionInfoQuery) queryName() string {
	return "NetworkVersionInfoQuery"
}

func (q *NetworkVersionInfoQuery) method() string {
	return protocol.MethodNetworkGetVersionInfo
}

func (q *NetworkVersionInfoQuery) paymentExempt() bool {
	return true
}

func (q *NetworkVersionInfoQuery) validate() error {
	return nil
}

func (q *NetworkVersionInfoQuery) buildQuery(header protocol.QueryHeader) *protocol.Query {
	return &protocol.Query{
		Header:                header,
		NetworkGetVersionInfo: &protocol.NetworkGetVersionInfoQuery{},
	}
}

func (q *NetworkVersionInfoQuery) classifyStatus(_ protocol.Status) (protocol.StatusClass, bool) {
	return 0, false
}

func (q *NetworkVersionInfoQuery) validateResponse(resp *protocol.Response) error {
	if resp.NetworkGetVersionInfo == nil {
		return missingAnswer(q.queryName())
	}
	return nil
}

func (q *NetworkVersionInfoQuery) validateChecksums(_ ledger.LedgerId) error {
	return nil
}
