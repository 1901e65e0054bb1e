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

package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/network"
	"github.com/blinklabs-io/gohedera/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var errTest = errors.New("test error")

func testConfig() retry.Config {
	cfg := retry.NewConfig("/test.Service/method")
	cfg.Backoff = retry.BackoffConfig{
		InitialInterval:     time.Millisecond,
		MaxInterval:         5 * time.Millisecond,
		MaxElapsedTime:      200 * time.Millisecond,
		Multiplier:          2,
		RandomizationFactor: 0,
	}
	cfg.MaxAttempts = 1000
	return cfg
}

func testRegistry(t *testing.T, count int, nodeBackoff time.Duration) (*network.Registry, []*network.Node) {
	t.Helper()
	nodes := map[string]ledger.AccountId{}
	for i := 0; i < count; i++ {
		accountId := ledger.NewAccountId(0, 0, uint64(3+i)) // #nosec G115
		nodes[accountId.String()+".mocknet:50211"] = accountId
	}
	r := network.NewRegistry(
		network.RegistryConfig{
			MinNodeBackoff: nodeBackoff,
			MaxNodeBackoff: nodeBackoff,
		},
		nodes,
	)
	t.Cleanup(func() {
		_ = r.Close()
	})
	return r, r.Nodes()
}

func TestRunSuccess(t *testing.T) {
	defer goleak.VerifyNone(t)
	r, nodes := testRegistry(t, 3, time.Hour)
	result, err := retry.Run(
		context.Background(),
		testConfig(),
		r,
		nodes,
		func(ctx context.Context, node *network.Node) (string, error) {
			return node.String(), nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, "0.0.3", result)
	assert.Equal(t, network.HealthHealthy, nodes[0].State())
}

func TestRunPermanentSingleAttempt(t *testing.T) {
	defer goleak.VerifyNone(t)
	r, nodes := testRegistry(t, 3, time.Hour)
	attempts := 0
	_, err := retry.Run(
		context.Background(),
		testConfig(),
		r,
		nodes,
		func(ctx context.Context, node *network.Node) (int, error) {
			attempts++
			return 0, retry.Permanent(errTest)
		},
	)
	require.ErrorIs(t, err, errTest)
	assert.Equal(t, 1, attempts)
	// Permanent errors are returned without the outcome wrapper
	assert.Equal(t, errTest, err)
}

func TestRunUnmarkedErrorIsPermanent(t *testing.T) {
	r, nodes := testRegistry(t, 1, time.Hour)
	attempts := 0
	_, err := retry.Run(
		context.Background(),
		testConfig(),
		r,
		nodes,
		func(ctx context.Context, node *network.Node) (int, error) {
			attempts++
			return 0, errTest
		},
	)
	require.ErrorIs(t, err, errTest)
	assert.Equal(t, 1, attempts)
}

func TestRunAlwaysTransientTimesOut(t *testing.T) {
	defer goleak.VerifyNone(t)
	r, nodes := testRegistry(t, 2, time.Hour)
	attempts := 0
	_, err := retry.Run(
		context.Background(),
		testConfig(),
		r,
		nodes,
		func(ctx context.Context, node *network.Node) (int, error) {
			attempts++
			return 0, retry.Transient(errTest)
		},
	)
	var timedOutErr *retry.TimedOutError
	require.ErrorAs(t, err, &timedOutErr)
	assert.Equal(t, retry.ReasonBackoffExhausted, timedOutErr.Reason)
	assert.Equal(t, attempts, timedOutErr.Attempts)
	assert.Greater(t, attempts, 1)
	assert.ErrorIs(t, err, errTest)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunMaxAttempts(t *testing.T) {
	r, nodes := testRegistry(t, 2, time.Hour)
	cfg := testConfig()
	cfg.MaxAttempts = 3
	attempts := 0
	_, err := retry.Run(
		context.Background(),
		cfg,
		r,
		nodes,
		func(ctx context.Context, node *network.Node) (int, error) {
			attempts++
			return 0, retry.Transient(errTest)
		},
	)
	var timedOutErr *retry.TimedOutError
	require.ErrorAs(t, err, &timedOutErr)
	assert.Equal(t, retry.ReasonMaxAttempts, timedOutErr.Reason)
	assert.Equal(t, 3, attempts)
}

func TestRunRotatesTransient(t *testing.T) {
	r, nodes := testRegistry(t, 3, time.Hour)
	var seen []string
	result, err := retry.Run(
		context.Background(),
		testConfig(),
		r,
		nodes,
		func(ctx context.Context, node *network.Node) (string, error) {
			seen = append(seen, node.String())
			if len(seen) < 5 {
				return "", retry.Transient(errTest)
			}
			return node.String(), nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.0.3", "0.0.4", "0.0.5", "0.0.3", "0.0.4"}, seen)
	assert.Equal(t, "0.0.4", result)
}

func TestRunNodeFaultMarksUnhealthy(t *testing.T) {
	r, nodes := testRegistry(t, 3, time.Hour)
	var seen []string
	result, err := retry.Run(
		context.Background(),
		testConfig(),
		r,
		nodes,
		func(ctx context.Context, node *network.Node) (string, error) {
			seen = append(seen, node.String())
			if node.String() == "0.0.3" {
				return "", retry.NodeFault(errTest)
			}
			return node.String(), nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.0.3", "0.0.4"}, seen)
	assert.Equal(t, "0.0.4", result)
	assert.Equal(t, network.HealthUnhealthy, nodes[0].State())
	assert.False(t, r.IsHealthy(nodes[0]))

	// The unhealthy node is skipped on the next request
	seen = nil
	_, err = retry.Run(
		context.Background(),
		testConfig(),
		r,
		nodes,
		func(ctx context.Context, node *network.Node) (string, error) {
			seen = append(seen, node.String())
			return node.String(), nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.0.4"}, seen)
}

func TestRunNoHealthyNodes(t *testing.T) {
	r, nodes := testRegistry(t, 1, time.Hour)
	r.ReportOutcome(nodes[0], network.OutcomeUnhealthy)
	called := false
	_, err := retry.Run(
		context.Background(),
		testConfig(),
		r,
		nodes,
		func(ctx context.Context, node *network.Node) (int, error) {
			called = true
			return 0, nil
		},
	)
	assert.False(t, called)
	var timedOutErr *retry.TimedOutError
	require.ErrorAs(t, err, &timedOutErr)
	assert.ErrorIs(t, err, retry.ErrNoHealthyNodes)
}

func TestRunDeadline(t *testing.T) {
	defer goleak.VerifyNone(t)
	r, nodes := testRegistry(t, 1, time.Hour)
	cfg := testConfig()
	cfg.Backoff.MaxElapsedTime = time.Minute
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := retry.Run(
		ctx,
		cfg,
		r,
		nodes,
		func(ctx context.Context, node *network.Node) (int, error) {
			return 0, retry.Transient(errTest)
		},
	)
	var timedOutErr *retry.TimedOutError
	require.ErrorAs(t, err, &timedOutErr)
	assert.Equal(t, retry.ReasonDeadline, timedOutErr.Reason)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, errTest)
}

func TestRunCanceled(t *testing.T) {
	r, nodes := testRegistry(t, 1, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := retry.Run(
		ctx,
		testConfig(),
		r,
		nodes,
		func(ctx context.Context, node *network.Node) (int, error) {
			return 0, nil
		},
	)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunAttemptTimeout(t *testing.T) {
	r, nodes := testRegistry(t, 1, time.Hour)
	cfg := testConfig()
	cfg.AttemptTimeout = 10 * time.Millisecond
	attempts := 0
	result, err := retry.Run(
		context.Background(),
		cfg,
		r,
		nodes,
		func(ctx context.Context, node *network.Node) (int, error) {
			attempts++
			if attempts == 1 {
				<-ctx.Done()
				return 0, retry.Transient(ctx.Err())
			}
			return attempts, nil
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, result)
}

func TestRunNoCandidates(t *testing.T) {
	r, _ := testRegistry(t, 1, time.Hour)
	_, err := retry.Run(
		context.Background(),
		testConfig(),
		r,
		nil,
		func(ctx context.Context, node *network.Node) (int, error) {
			return 0, nil
		},
	)
	assert.ErrorIs(t, err, retry.ErrNoCandidates)
}
