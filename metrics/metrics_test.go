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

package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blinklabs-io/gohedera/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ metrics.Metrics = (*metrics.PrometheusMetrics)(nil)
	_ metrics.Metrics = (*metrics.NopMetrics)(nil)
)

func TestPrometheusCounters(t *testing.T) {
	m := metrics.NewPrometheusMetrics("test")
	m.IncAttempts("/proto.CryptoService/cryptoTransfer", metrics.OutcomeSuccess)
	m.IncAttempts("/proto.CryptoService/cryptoTransfer", metrics.OutcomeNodeFault)
	m.IncAttempts("/proto.CryptoService/cryptoTransfer", metrics.OutcomeNodeFault)
	m.IncNodeFailures("0.0.3")
	m.SetNodeHealthy("0.0.3", false)
	m.SetNodeHealthy("0.0.4", true)
	m.ObserveAttemptLatency("/proto.CryptoService/cryptoTransfer", 20*time.Millisecond)

	count, err := testutil.GatherAndCount(m.Registry(), "test_attempts_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	count, err = testutil.GatherAndCount(m.Registry(), "test_node_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	count, err = testutil.GatherAndCount(m.Registry(), "test_node_healthy")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPrometheusHTTPHandler(t *testing.T) {
	m := metrics.NewPrometheusMetrics("gohedera")
	m.IncSubscriptionReconnects("0.0.1234")
	srv := httptest.NewServer(m.HTTPHandler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `gohedera_subscription_reconnects_total{topic="0.0.1234"} 1`)
}

func TestNopMetrics(t *testing.T) {
	m := metrics.NewNopMetrics()
	assert.NotPanics(t, func() {
		m.IncAttempts("x", metrics.OutcomePermanent)
		m.IncTimeouts("x", "deadline")
		m.IncSubscriptionMessages("0.0.1")
	})
}
