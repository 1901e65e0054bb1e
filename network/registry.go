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
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/metrics"
)

const (
	DefaultMinNodeBackoff = 250 * time.Millisecond
	DefaultMaxNodeBackoff = 1 * time.Hour
)

// Outcome is the result of an attempt against a node, as far as the node's
// health is concerned
type Outcome uint8

const (
	OutcomeHealthy Outcome = iota + 1
	OutcomeUnhealthy
)

type RegistryConfig struct {
	ChannelConfig
	Logger         *slog.Logger
	Metrics        metrics.Metrics
	MinNodeBackoff time.Duration
	MaxNodeBackoff time.Duration
}

// Registry holds the known consensus nodes and their health
type Registry struct {
	config RegistryConfig
	logger *slog.Logger
	nodes  []*Node
	byId   map[ledger.AccountId]*Node
	now    func() time.Time
}

// NewRegistry creates a registry from a map of address to node account id.
// Addresses sharing an account id belong to the same node.
func NewRegistry(cfg RegistryConfig, nodes map[string]ledger.AccountId) *Registry {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNopMetrics()
	}
	if cfg.MinNodeBackoff <= 0 {
		cfg.MinNodeBackoff = DefaultMinNodeBackoff
	}
	if cfg.MaxNodeBackoff <= 0 {
		cfg.MaxNodeBackoff = DefaultMaxNodeBackoff
	}
	r := &Registry{
		config: cfg,
		logger: cfg.Logger.With("component", "network"),
		byId:   make(map[ledger.AccountId]*Node),
		now:    time.Now,
	}
	addresses := make(map[ledger.AccountId][]string)
	for address, accountId := range nodes {
		accountId = accountId.WithoutChecksum()
		addresses[accountId] = append(addresses[accountId], address)
	}
	for accountId, tmpAddresses := range addresses {
		slices.Sort(tmpAddresses)
		node := newNode(accountId, tmpAddresses, cfg)
		r.nodes = append(r.nodes, node)
		r.byId[accountId] = node
	}
	slices.SortFunc(r.nodes, func(a, b *Node) int {
		return a.accountId.Compare(b.accountId.EntityId)
	})
	return r
}

// Nodes returns all nodes ordered by account id
func (r *Registry) Nodes() []*Node {
	return slices.Clone(r.nodes)
}

func (r *Registry) Node(accountId ledger.AccountId) (*Node, bool) {
	node, ok := r.byId[accountId.WithoutChecksum()]
	return node, ok
}

// NodeAccountIds returns the account ids of all nodes ordered by account id
func (r *Registry) NodeAccountIds() []ledger.AccountId {
	ret := make([]ledger.AccountId, 0, len(r.nodes))
	for _, node := range r.nodes {
		ret = append(ret, node.accountId)
	}
	return ret
}

// DefaultNodeCount returns the number of nodes a request is spread over when
// the caller doesn't choose: a third of the network, rounded up
func (r *Registry) DefaultNodeCount() int {
	return max((len(r.nodes)+2)/3, 1)
}

// SelectNodes returns candidate nodes for a request. Healthy nodes come
// first, followed by unhealthy nodes ordered by when their backoff expires.
// Explicit nodes keep the caller's order, other nodes are shuffled. A count
// of zero or less returns all candidates.
func (r *Registry) SelectNodes(explicit []ledger.AccountId, count int) ([]*Node, error) {
	var candidates []*Node
	if len(explicit) > 0 {
		for _, accountId := range explicit {
			node, ok := r.Node(accountId)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrNodeAccountUnknown, accountId.String())
			}
			candidates = append(candidates, node)
		}
	} else {
		if len(r.nodes) == 0 {
			return nil, ErrNoNodes
		}
		candidates = slices.Clone(r.nodes)
		rand.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
	}
	now := r.now()
	var healthy, unhealthy []*Node
	for _, node := range candidates {
		if node.IsHealthy(now) {
			healthy = append(healthy, node)
		} else {
			unhealthy = append(unhealthy, node)
		}
	}
	slices.SortStableFunc(unhealthy, func(a, b *Node) int {
		return a.HealthyAt().Compare(b.HealthyAt())
	})
	ret := append(healthy, unhealthy...)
	if count > 0 && count < len(ret) {
		ret = ret[:count]
	}
	return ret, nil
}

// IsHealthy reports whether the node may be used right now
func (r *Registry) IsHealthy(node *Node) bool {
	return node.IsHealthy(r.now())
}

// ReportOutcome updates the node's health after an attempt
func (r *Registry) ReportOutcome(node *Node, outcome Outcome) {
	now := r.now()
	nodeId := node.String()
	switch outcome {
	case OutcomeHealthy:
		if prevState := node.markHealthy(now); prevState == HealthUnhealthy {
			r.logger.Info(
				"node is healthy again",
				"node", nodeId,
			)
		}
		r.config.Metrics.SetNodeHealthy(nodeId, true)
	case OutcomeUnhealthy:
		interval := node.markUnhealthy(now)
		r.logger.Info(
			"marking node unhealthy",
			"node", nodeId,
			"backoff", interval,
			"failures", node.Failures(),
		)
		r.config.Metrics.IncNodeFailures(nodeId)
		r.config.Metrics.SetNodeHealthy(nodeId, false)
	default:
		r.logger.Debug(
			fmt.Sprintf("ignoring unknown outcome %d", outcome),
			"node", nodeId,
		)
	}
}

// Close closes the channels of all nodes
func (r *Registry) Close() error {
	var err error
	for _, node := range r.nodes {
		err = errors.Join(err, node.channel.Close())
	}
	return err
}
