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
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/metrics"
	"github.com/blinklabs-io/gohedera/protocol"
	"github.com/blinklabs-io/gohedera/retry"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// ClientOptionFunc is a type that represents functions that modify the Client config
type ClientOptionFunc func(*Client)

// WithNetwork specifies the network, including its nodes and mirror nodes
func WithNetwork(network Network) ClientOptionFunc {
	return func(c *Client) {
		c.network = network.Copy()
	}
}

// WithNodes specifies the consensus nodes as a map of address to node account ID
func WithNodes(nodes map[string]ledger.AccountId) ClientOptionFunc {
	return func(c *Client) {
		c.network.Nodes = maps.Clone(nodes)
	}
}

// WithMirrorAddresses specifies the mirror node addresses
func WithMirrorAddresses(addresses ...string) ClientOptionFunc {
	return func(c *Client) {
		c.network.MirrorAddresses = slices.Clone(addresses)
	}
}

// WithLedgerId specifies the ledger ID used for entity ID checksums
func WithLedgerId(ledgerId ledger.LedgerId) ClientOptionFunc {
	return func(c *Client) {
		c.network.LedgerId = ledgerId
	}
}

// WithOperator specifies the account and key that pay for requests
func WithOperator(accountId ledger.AccountId, key keys.PrivateKey) ClientOptionFunc {
	return WithOperatorSigner(accountId, key)
}

// WithOperatorSigner specifies the paying account with a custom signer
func WithOperatorSigner(accountId ledger.AccountId, signer keys.Signer) ClientOptionFunc {
	return func(c *Client) {
		c.operator = &Operator{
			AccountId: accountId,
			Signer:    signer,
		}
	}
}

// WithLogger specifies the logger. The default is slog.Default()
func WithLogger(logger *slog.Logger) ClientOptionFunc {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics specifies where metrics are recorded. Metrics are discarded by default
func WithMetrics(m metrics.Metrics) ClientOptionFunc {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTracerProvider specifies the tracer provider for request spans and gRPC
// instrumentation. The global provider is used by default
func WithTracerProvider(tracerProvider trace.TracerProvider) ClientOptionFunc {
	return func(c *Client) {
		c.tracerProvider = tracerProvider
	}
}

// WithDialOptions specifies extra gRPC dial options applied to every channel
func WithDialOptions(opts ...grpc.DialOption) ClientOptionFunc {
	return func(c *Client) {
		c.dialOptions = append(c.dialOptions, opts...)
	}
}

// WithMaxAttempts specifies the max number of attempts per request
func WithMaxAttempts(maxAttempts int) ClientOptionFunc {
	return func(c *Client) {
		c.maxAttempts = maxAttempts
	}
}

// WithBackoff specifies the backoff between attempts of a request
func WithBackoff(cfg retry.BackoffConfig) ClientOptionFunc {
	return func(c *Client) {
		c.backoff = cfg
	}
}

// WithAttemptTimeout specifies the timeout of a single attempt. There is no
// per-attempt timeout by default
func WithAttemptTimeout(timeout time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.attemptTimeout = timeout
	}
}

// WithRequestTimeout specifies the overall timeout of a request when the
// caller's context has no deadline
func WithRequestTimeout(timeout time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.requestTimeout = timeout
	}
}

// WithNodeBackoff specifies the range of time unhealthy nodes are avoided for
func WithNodeBackoff(minBackoff time.Duration, maxBackoff time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.minNodeBackoff = minBackoff
		c.maxNodeBackoff = maxBackoff
	}
}

// WithMaxTransactionFee specifies the default max fee for all transactions.
// Each transaction kind has its own default otherwise
func WithMaxTransactionFee(fee Hbar) ClientOptionFunc {
	return func(c *Client) {
		c.maxTransactionFee = fee
	}
}

// WithMaxQueryPayment specifies the default max payment for queries
func WithMaxQueryPayment(payment Hbar) ClientOptionFunc {
	return func(c *Client) {
		c.maxQueryPayment = payment
	}
}

// WithTransactionValidDuration specifies the default valid duration of transactions
func WithTransactionValidDuration(duration time.Duration) ClientOptionFunc {
	return func(c *Client) {
		c.transactionValidDuration = duration
	}
}

// WithRegenerateTransactionIds specifies whether expired transaction IDs
// generated by the client are replaced and resubmitted. This is enabled by default
func WithRegenerateTransactionIds(regenerate bool) ClientOptionFunc {
	return func(c *Client) {
		c.regenerateTransactionIds = regenerate
	}
}

// WithAutoValidateChecksums specifies whether entity ID checksums are
// validated against the ledger ID before requests are sent
func WithAutoValidateChecksums(validate bool) ClientOptionFunc {
	return func(c *Client) {
		c.autoValidateChecksums = validate
	}
}

// WithStatusClassification specifies the precheck status table. Use
// protocol.DefaultStatusClassification().With(...) to override single entries
func WithStatusClassification(classification protocol.StatusClassification) ClientOptionFunc {
	return func(c *Client) {
		c.classification = classification.Copy()
	}
}
