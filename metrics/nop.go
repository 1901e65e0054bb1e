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

package metrics

import (
	"time"
)

// NopMetrics is a no-op implementation of the Metrics interface.
// This is the default when no metrics are configured.
type NopMetrics struct{}

func NewNopMetrics() *NopMetrics {
	return &NopMetrics{}
}

func (m *NopMetrics) IncAttempts(method string, outcome string)                  {}
func (m *NopMetrics) ObserveAttemptLatency(method string, latency time.Duration) {}
func (m *NopMetrics) IncRetries(method string)                                   {}
func (m *NopMetrics) IncTimeouts(method string, reason string)                   {}
func (m *NopMetrics) SetNodeHealthy(node string, healthy bool)                   {}
func (m *NopMetrics) IncNodeFailures(node string)                                {}
func (m *NopMetrics) IncChunksSubmitted(method string)                           {}
func (m *NopMetrics) IncQueryPaymentRejected(query string)                       {}
func (m *NopMetrics) IncSubscriptionMessages(topic string)                       {}
func (m *NopMetrics) IncSubscriptionReconnects(topic string)                     {}
