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

// Package hedera implements the execution core of a client for a Hedera-style
// BFT ledger network.
//
// A Client holds the known consensus and mirror nodes along with the
// defaults used by transactions and queries. Transactions are frozen into
// one body per chunk and node, signed, and submitted through a retry engine
// that rotates across healthy nodes. Queries negotiate their cost before
// attaching a payment. Receipts are resolved by polling, and topic messages
// are streamed from mirror nodes with automatic reconnects.
package hedera

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/metrics"
	"github.com/blinklabs-io/gohedera/network"
	"github.com/blinklabs-io/gohedera/protocol"
	"github.com/blinklabs-io/gohedera/retry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

const (
	tracerName = "github.com/blinklabs-io/gohedera"

	DefaultTransactionValidDuration = 120 * time.Second
)

var (
	DefaultMaxTransactionFee = NewHbar(2)
	DefaultMaxQueryPayment   = NewHbar(1)
)

// Operator is the account that pays for transactions and queries by default
type Operator struct {
	AccountId ledger.AccountId
	Signer    keys.Signer
}

// Client holds the network and the defaults used to execute requests. It is
// safe for concurrent use.
type Client struct {
	network                  Network
	registry                 *network.Registry
	mirror                   *network.MirrorNetwork
	operator                 *Operator
	logger                   *slog.Logger
	metrics                  metrics.Metrics
	tracerProvider           trace.TracerProvider
	tracer                   trace.Tracer
	dialOptions              []grpc.DialOption
	maxAttempts              int
	backoff                  retry.BackoffConfig
	attemptTimeout           time.Duration
	requestTimeout           time.Duration
	minNodeBackoff           time.Duration
	maxNodeBackoff           time.Duration
	maxTransactionFee        Hbar
	maxQueryPayment          Hbar
	transactionValidDuration time.Duration
	regenerateTransactionIds bool
	autoValidateChecksums    bool
	classification           protocol.StatusClassification
	onceClose                sync.Once
}

// NewClient returns a new Client with the specified options. A network must
// be provided with WithNetwork or WithNodes
func NewClient(options ...ClientOptionFunc) (*Client, error) {
	c := &Client{
		maxAttempts:              retry.DefaultMaxAttempts,
		backoff:                  retry.DefaultBackoffConfig(),
		maxQueryPayment:          DefaultMaxQueryPayment,
		transactionValidDuration: DefaultTransactionValidDuration,
		regenerateTransactionIds: true,
		classification:           protocol.DefaultStatusClassification(),
	}
	// Apply provided options functions
	for _, option := range options {
		option(c)
	}
	if len(c.network.Nodes) == 0 {
		return nil, ErrNoNodes
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "client")
	if c.metrics == nil {
		c.metrics = metrics.NewNopMetrics()
	}
	if c.tracerProvider == nil {
		c.tracerProvider = otel.GetTracerProvider()
	}
	c.tracer = c.tracerProvider.Tracer(tracerName)
	channelConfig := network.ChannelConfig{
		DialOptions:    c.dialOptions,
		TracerProvider: c.tracerProvider,
	}
	c.registry = network.NewRegistry(
		network.RegistryConfig{
			ChannelConfig:  channelConfig,
			Logger:         c.logger,
			Metrics:        c.metrics,
			MinNodeBackoff: c.minNodeBackoff,
			MaxNodeBackoff: c.maxNodeBackoff,
		},
		c.network.Nodes,
	)
	c.mirror = network.NewMirrorNetwork(channelConfig, c.network.MirrorAddresses)
	return c, nil
}

// ClientForNetwork returns a client for a predefined network
func ClientForNetwork(net Network, options ...ClientOptionFunc) (*Client, error) {
	return NewClient(append([]ClientOptionFunc{WithNetwork(net)}, options...)...)
}

// ClientForName returns a client for a predefined network by name
func ClientForName(name string, options ...ClientOptionFunc) (*Client, error) {
	net := NetworkByName(name)
	if !net.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
	return ClientForNetwork(net, options...)
}

// Close closes all node and mirror channels
func (c *Client) Close() error {
	var err error
	c.onceClose.Do(func() {
		err = errors.Join(c.registry.Close(), c.mirror.Close())
	})
	return err
}

// Network returns the network the client was created with
func (c *Client) Network() Network {
	return c.network.Copy()
}

func (c *Client) LedgerId() ledger.LedgerId {
	return c.network.LedgerId
}

// Registry returns the consensus node registry
func (c *Client) Registry() *network.Registry {
	return c.registry
}

// MirrorNetwork returns the mirror node network
func (c *Client) MirrorNetwork() *network.MirrorNetwork {
	return c.mirror
}

// Operator returns the operator, or nil if none is set
func (c *Client) Operator() *Operator {
	return c.operator
}

func (c *Client) OperatorAccountId() (ledger.AccountId, bool) {
	if c.operator == nil {
		return ledger.AccountId{}, false
	}
	return c.operator.AccountId, true
}

func (c *Client) OperatorPublicKey() (keys.PublicKey, bool) {
	if c.operator == nil {
		return keys.PublicKey{}, false
	}
	return c.operator.Signer.PublicKey(), true
}

func (c *Client) Logger() *slog.Logger {
	return c.logger
}

func (c *Client) Metrics() metrics.Metrics {
	return c.metrics
}

func (c *Client) MaxTransactionFee() Hbar {
	return c.maxTransactionFee
}

func (c *Client) MaxQueryPayment() Hbar {
	return c.maxQueryPayment
}

func (c *Client) MaxAttempts() int {
	return c.maxAttempts
}

func (c *Client) AutoValidateChecksums() bool {
	return c.autoValidateChecksums
}

// StatusClassification returns a copy of the precheck status table in use
func (c *Client) StatusClassification() protocol.StatusClassification {
	return c.classification.Copy()
}

func (c *Client) retryConfig(method string) retry.Config {
	return retry.Config{
		Method:         method,
		MaxAttempts:    c.maxAttempts,
		Backoff:        c.backoff,
		AttemptTimeout: c.attemptTimeout,
		Logger:         c.logger,
		Metrics:        c.metrics,
	}
}

// requestContext applies the client's request timeout when the caller's
// context has no deadline of its own
func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.requestTimeout <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.requestTimeout)
}
