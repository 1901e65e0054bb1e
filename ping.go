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
	"golang.org/x/sync/errgroup"
)

// Ping asks a node for the balance of its own account, which is free. The
// outcome updates the node's health like any other request.
func (c *Client) Ping(ctx context.Context, nodeAccountId ledger.AccountId) error {
	_, err := NewAccountBalanceQuery().
		SetAccountId(nodeAccountId).
		SetNodeAccountIds(nodeAccountId).
		Execute(ctx, c)
	return err
}

// PingAll pings every node of the network concurrently. It returns the first
// failure, which stops the remaining pings.
func (c *Client) PingAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, nodeAccountId := range c.registry.NodeAccountIds() {
		nodeAccountId := nodeAccountId
		g.Go(func() error {
			if err := c.Ping(ctx, nodeAccountId); err != nil {
				return fmt.Errorf("failed to ping node %s: %w", nodeAccountId.String(), err)
			}
			return nil
		})
	}
	return g.Wait()
}
