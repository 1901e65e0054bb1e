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

// Package metrics defines the instrumentation hooks used by the client
package metrics

import (
	"time"
)

// Outcome labels for request attempts
const (
	OutcomeSuccess   = "success"
	OutcomeTransient = "transient"
	OutcomePermanent = "permanent"
	OutcomeNodeFault = "node_fault"
	OutcomeNoNodes   = "no_nodes"
)

// Metrics defines the interface for client metrics collection
type Metrics interface {
	// Request metrics
	IncAttempts(method string, outcome string)
	ObserveAttemptLatency(method string, latency time.Duration)
	IncRetries(method string)
	IncTimeouts(method string, reason string)

	// Node metrics
	SetNodeHealthy(node string, healthy bool)
	IncNodeFailures(node string)

	// Transaction metrics
	IncChunksSubmitted(method string)
	IncQueryPaymentRejected(query string)

	// Subscription metrics
	IncSubscriptionMessages(topic string)
	IncSubscriptionReconnects(topic string)
}
