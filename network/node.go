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

package network

import (
	"slices"
	"sync"
	"time"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/cenkalti/backoff/v4"
	"google.golang.org/grpc"
)

// ChannelResetFailures is the number of consecutive Unavailable errors
// after which a channel is recreated instead of waiting on gRPC to reconnect
const ChannelResetFailures = 3

// HealthState represents what is known about a node's health
type HealthState uint8

const (
	HealthUnused HealthState = iota
	HealthHealthy
	HealthUnhealthy
)

func (s HealthState) String() string {
	switch s {
	case HealthHealthy:
		return "Healthy"
	case HealthUnhealthy:
		return "Unhealthy"
	default:
		return "Unused"
	}
}

// Node is a consensus node identified by its account id
type Node struct {
	accountId ledger.AccountId
	addresses []string
	channel   *Channel
	mutex     sync.Mutex
	state     HealthState
	healthyAt time.Time
	failures  int
	lastUsed  time.Time
	backoff   *backoff.ExponentialBackOff
	// Consecutive Unavailable errors on the current channel
	unavailable int
}

func newNode(accountId ledger.AccountId, addresses []string, cfg RegistryConfig) *Node {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.MinNodeBackoff
	b.MaxInterval = cfg.MaxNodeBackoff
	b.RandomizationFactor = 0.5
	b.Multiplier = 2
	// A node is never given up on
	b.MaxElapsedTime = 0
	b.Reset()
	return &Node{
		accountId: accountId,
		addresses: addresses,
		channel:   NewChannel(cfg.ChannelConfig, addresses),
		backoff:   b,
	}
}

func (n *Node) AccountId() ledger.AccountId {
	return n.accountId
}

func (n *Node) Addresses() []string {
	return slices.Clone(n.addresses)
}

func (n *Node) String() string {
	return n.accountId.String()
}

// Channel returns the node's cached gRPC connection
func (n *Node) Channel() (*grpc.ClientConn, error) {
	return n.channel.Conn()
}

// InvalidateChannel forces the connection to be recreated on next use
func (n *Node) InvalidateChannel() {
	n.channel.Invalidate()
}

// ReportUnavailable records an Unavailable error from the node's channel.
// The channel is recreated once ChannelResetFailures errors were reported
// in a row, and ReportUnavailable returns true.
func (n *Node) ReportUnavailable() bool {
	n.mutex.Lock()
	n.unavailable++
	reset := n.unavailable >= ChannelResetFailures
	if reset {
		n.unavailable = 0
	}
	n.mutex.Unlock()
	if reset {
		n.InvalidateChannel()
	}
	return reset
}

func (n *Node) State() HealthState {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.state
}

// HealthyAt returns the time before which the node should not be used
func (n *Node) HealthyAt() time.Time {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.healthyAt
}

// Failures returns the number of consecutive unhealthy outcomes
func (n *Node) Failures() int {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.failures
}

func (n *Node) LastUsed() time.Time {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.lastUsed
}

// IsHealthy reports whether the node's backoff has expired at the given time
func (n *Node) IsHealthy(now time.Time) bool {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return !n.healthyAt.After(now)
}

// markHealthy returns the previous state
func (n *Node) markHealthy(now time.Time) HealthState {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	prevState := n.state
	n.state = HealthHealthy
	n.failures = 0
	n.unavailable = 0
	n.healthyAt = time.Time{}
	n.lastUsed = now
	n.backoff.Reset()
	return prevState
}

// markUnhealthy returns the backoff applied to the node
func (n *Node) markUnhealthy(now time.Time) time.Duration {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	interval := n.backoff.NextBackOff()
	if interval == backoff.Stop {
		interval = n.backoff.MaxInterval
	}
	n.state = HealthUnhealthy
	n.failures++
	n.healthyAt = now.Add(interval)
	n.lastUsed = now
	return interval
}
