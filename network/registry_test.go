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
	"strings"
	"testing"
	"time"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/grpc/connectivity"
)

func testNodes(count int) map[string]ledger.AccountId {
	ret := map[string]ledger.AccountId{}
	for i := 0; i < count; i++ {
		num := uint64(3 + i) // #nosec G115
		ret[ledger.NewAccountId(0, 0, num).String()+".mocknet:50211"] = ledger.NewAccountId(0, 0, num)
	}
	return ret
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func newTestRegistry(t *testing.T, count int) (*Registry, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRegistry(RegistryConfig{}, testNodes(count))
	r.now = clock.Now
	t.Cleanup(func() {
		_ = r.Close()
	})
	return r, clock
}

func TestNewRegistryGroupsAddresses(t *testing.T) {
	nodes := map[string]ledger.AccountId{
		"10.0.0.2:50211": ledger.NewAccountId(0, 0, 4),
		"10.0.0.1:50211": ledger.NewAccountId(0, 0, 3),
		"10.0.1.1:50211": ledger.NewAccountId(0, 0, 3),
	}
	r := NewRegistry(RegistryConfig{}, nodes)
	defer r.Close()
	require.Len(t, r.Nodes(), 2)
	assert.Equal(
		t,
		[]ledger.AccountId{ledger.NewAccountId(0, 0, 3), ledger.NewAccountId(0, 0, 4)},
		r.NodeAccountIds(),
	)
	node, ok := r.Node(ledger.NewAccountId(0, 0, 3))
	require.True(t, ok)
	assert.Equal(t, []string{"10.0.0.1:50211", "10.0.1.1:50211"}, node.Addresses())
	assert.Equal(t, HealthUnused, node.State())
}

func TestDefaultNodeCount(t *testing.T) {
	testDefs := []struct {
		nodes    int
		expected int
	}{
		{nodes: 0, expected: 1},
		{nodes: 1, expected: 1},
		{nodes: 3, expected: 1},
		{nodes: 4, expected: 2},
		{nodes: 7, expected: 3},
	}
	for _, test := range testDefs {
		r := NewRegistry(RegistryConfig{}, testNodes(test.nodes))
		assert.Equal(t, test.expected, r.DefaultNodeCount(), "nodes: %d", test.nodes)
	}
}

func TestSelectNodesExplicit(t *testing.T) {
	r, _ := newTestRegistry(t, 4)
	explicit := []ledger.AccountId{
		ledger.NewAccountId(0, 0, 5),
		ledger.NewAccountId(0, 0, 3),
	}
	nodes, err := r.SelectNodes(explicit, 0)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "0.0.5", nodes[0].String())
	assert.Equal(t, "0.0.3", nodes[1].String())

	_, err = r.SelectNodes([]ledger.AccountId{ledger.NewAccountId(0, 0, 99)}, 0)
	assert.ErrorIs(t, err, ErrNodeAccountUnknown)
}

func TestSelectNodesHealthyFirst(t *testing.T) {
	r, clock := newTestRegistry(t, 4)
	node3, _ := r.Node(ledger.NewAccountId(0, 0, 3))
	node4, _ := r.Node(ledger.NewAccountId(0, 0, 4))
	// Repeated failures push node 3 further out than node 4
	for i := 0; i < 3; i++ {
		r.ReportOutcome(node3, OutcomeUnhealthy)
	}
	clock.now = clock.now.Add(time.Millisecond)
	r.ReportOutcome(node4, OutcomeUnhealthy)
	require.True(t, node3.HealthyAt().After(node4.HealthyAt()))

	for i := 0; i < 10; i++ {
		nodes, err := r.SelectNodes(nil, 0)
		require.NoError(t, err)
		require.Len(t, nodes, 4)
		for _, node := range nodes[:2] {
			assert.True(t, r.IsHealthy(node))
		}
		assert.Same(t, node4, nodes[2])
		assert.Same(t, node3, nodes[3])
	}
	// Explicit order is kept for healthy nodes only
	nodes, err := r.SelectNodes(
		[]ledger.AccountId{
			ledger.NewAccountId(0, 0, 3),
			ledger.NewAccountId(0, 0, 6),
			ledger.NewAccountId(0, 0, 5),
		},
		0,
	)
	require.NoError(t, err)
	assert.Equal(t, "0.0.6", nodes[0].String())
	assert.Equal(t, "0.0.5", nodes[1].String())
	assert.Equal(t, "0.0.3", nodes[2].String())
	// Count limits the result
	nodes, err = r.SelectNodes(nil, 2)
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
}

func TestReportOutcomeBackoff(t *testing.T) {
	m := metrics.NewPrometheusMetrics("test")
	clock := &testClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewRegistry(RegistryConfig{Metrics: m}, testNodes(1))
	defer r.Close()
	r.now = clock.Now
	node := r.Nodes()[0]
	assert.True(t, r.IsHealthy(node))

	r.ReportOutcome(node, OutcomeUnhealthy)
	assert.Equal(t, HealthUnhealthy, node.State())
	assert.Equal(t, 1, node.Failures())
	// 250ms with 0.5 randomization
	delay := node.HealthyAt().Sub(clock.now)
	assert.GreaterOrEqual(t, delay, 125*time.Millisecond)
	assert.LessOrEqual(t, delay, 375*time.Millisecond)
	assert.False(t, r.IsHealthy(node))

	clock.now = clock.now.Add(time.Second)
	assert.True(t, r.IsHealthy(node))
	r.ReportOutcome(node, OutcomeUnhealthy)
	assert.Equal(t, 2, node.Failures())
	// 500ms with 0.5 randomization
	delay = node.HealthyAt().Sub(clock.now)
	assert.GreaterOrEqual(t, delay, 250*time.Millisecond)
	assert.LessOrEqual(t, delay, 750*time.Millisecond)

	r.ReportOutcome(node, OutcomeHealthy)
	assert.Equal(t, HealthHealthy, node.State())
	assert.Equal(t, 0, node.Failures())
	assert.True(t, r.IsHealthy(node))
	assert.Equal(t, clock.now, node.LastUsed())

	expected := `
# HELP test_node_failures_total Total number of times a node was marked unhealthy
# TYPE test_node_failures_total counter
test_node_failures_total{node="0.0.3"} 2
`
	require.NoError(
		t,
		testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "test_node_failures_total"),
	)
}

func TestChannelReuse(t *testing.T) {
	defer goleak.VerifyNone(t)
	r := NewRegistry(RegistryConfig{}, testNodes(1))
	node := r.Nodes()[0]
	conn, err := node.Channel()
	require.NoError(t, err)
	conn2, err := node.Channel()
	require.NoError(t, err)
	assert.Same(t, conn, conn2)

	node.InvalidateChannel()
	conn3, err := node.Channel()
	require.NoError(t, err)
	assert.NotSame(t, conn, conn3)

	// A connection that was shut down elsewhere is recreated
	require.NoError(t, conn3.Close())
	conn4, err := node.Channel()
	require.NoError(t, err)
	assert.NotSame(t, conn3, conn4)

	require.NoError(t, r.Close())
	_, err = node.Channel()
	assert.ErrorIs(t, err, ErrChannelClosed)
}

func TestReportUnavailableRecreatesChannel(t *testing.T) {
	defer goleak.VerifyNone(t)
	r := NewRegistry(RegistryConfig{}, testNodes(1))
	defer r.Close()
	node := r.Nodes()[0]
	conn, err := node.Channel()
	require.NoError(t, err)

	for i := 0; i < ChannelResetFailures - 1; i++ {
		assert.False(t, node.ReportUnavailable())
	}
	conn2, err := node.Channel()
	require.NoError(t, err)
	assert.Same(t, conn, conn2)

	// A healthy outcome starts the count over
	r.ReportOutcome(node, OutcomeHealthy)
	assert.False(t, node.ReportUnavailable())
	conn2, err = node.Channel()
	require.NoError(t, err)
	assert.Same(t, conn, conn2)

	for i := 0; i < ChannelResetFailures - 2; i++ {
		assert.False(t, node.ReportUnavailable())
	}
	assert.True(t, node.ReportUnavailable())
	conn3, err := node.Channel()
	require.NoError(t, err)
	assert.NotSame(t, conn, conn3)
	assert.Equal(t, connectivity.Shutdown, conn.GetState())
}

func TestChannelNoAddresses(t *testing.T) {
	m := NewMirrorNetwork(ChannelConfig{}, nil)
	_, err := m.Channel()
	assert.ErrorIs(t, err, ErrNoAddresses)
}

func TestMirrorNetwork(t *testing.T) {
	defer goleak.VerifyNone(t)
	m := NewMirrorNetwork(
		ChannelConfig{},
		[]string{"mirror-a.mocknet:5600", "mirror-b.mocknet:5600"},
	)
	conn, err := m.Channel()
	require.NoError(t, err)
	conn2, err := m.Channel()
	require.NoError(t, err)
	assert.Same(t, conn, conn2)
	assert.Len(t, m.Addresses(), 2)
	require.NoError(t, m.Close())
}

func TestTransportCredentials(t *testing.T) {
	testDefs := []struct {
		address  string
		security string
	}{
		{address: "0.testnet.hedera.com:50211", security: "insecure"},
		{address: "0.testnet.hedera.com:50212", security: "tls"},
		{address: "testnet.mirrornode.hedera.com:443", security: "tls"},
		{address: "bogus", security: "insecure"},
	}
	for _, test := range testDefs {
		c := NewChannel(ChannelConfig{}, []string{test.address})
		assert.Equal(t, test.security, c.transportCredentials().Info().SecurityProtocol, test.address)
	}
}
