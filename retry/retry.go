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

// Package retry runs a request against a rotating set of nodes until it
// succeeds, fails permanently or runs out of retry budget
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/blinklabs-io/gohedera/metrics"
	"github.com/blinklabs-io/gohedera/network"
	"github.com/cenkalti/backoff/v4"
)

// Attempt performs a single try of a request against the given node. Errors
// should be wrapped with Transient, Permanent or NodeFault. Unwrapped errors
// are permanent.
type Attempt[T any] func(ctx context.Context, node *network.Node) (T, error)

// Run calls attempt against the candidate nodes in order, wrapping around,
// skipping nodes under backoff. Every outcome is reported to the registry.
func Run[T any](
	ctx context.Context,
	cfg Config,
	registry *network.Registry,
	nodes []*network.Node,
	attempt Attempt[T],
) (T, error) {
	var zero T
	if len(nodes) == 0 {
		return zero, ErrNoCandidates
	}
	cfg = cfg.withDefaults()
	logger := cfg.Logger.With("component", "retry", "method", cfg.Method)
	b := cfg.Backoff.NewBackOff()
	var lastErr error
	reachedNode := false
	cursor := 0
	for attemptNum := 1; ; attemptNum++ {
		if err := ctx.Err(); err != nil {
			return zero, contextError(err, cfg, attemptNum-1, lastErr, reachedNode)
		}
		node := nextHealthy(registry, nodes, &cursor)
		var kind outcomeKind
		var cause error
		if node == nil {
			kind, cause = outcomeTransient, ErrEmptyTransient
			cfg.Metrics.IncAttempts(cfg.Method, metrics.OutcomeNoNodes)
			logger.Debug(
				"no healthy candidate node",
				"attempt", attemptNum,
			)
		} else {
			reachedNode = true
			attemptCtx := ctx
			cancel := func() {}
			if cfg.AttemptTimeout > 0 {
				attemptCtx, cancel = context.WithTimeout(ctx, cfg.AttemptTimeout)
			}
			start := time.Now()
			result, err := attempt(attemptCtx, node)
			cancel()
			cfg.Metrics.ObserveAttemptLatency(cfg.Method, time.Since(start))
			if err == nil {
				registry.ReportOutcome(node, network.OutcomeHealthy)
				cfg.Metrics.IncAttempts(cfg.Method, metrics.OutcomeSuccess)
				logger.Debug(
					"attempt succeeded",
					"attempt", attemptNum,
					"node", node.String(),
				)
				return result, nil
			}
			// The caller's context ending takes precedence over the attempt result
			if ctxErr := ctx.Err(); ctxErr != nil {
				return zero, contextError(ctxErr, cfg, attemptNum, err, reachedNode)
			}
			kind, cause = classify(err)
			switch kind {
			case outcomePermanent:
				// The node answered, so it's healthy
				registry.ReportOutcome(node, network.OutcomeHealthy)
				cfg.Metrics.IncAttempts(cfg.Method, metrics.OutcomePermanent)
				logger.Debug(
					"attempt failed permanently",
					"attempt", attemptNum,
					"node", node.String(),
					"error", cause,
				)
				return zero, cause
			case outcomeNodeFault:
				registry.ReportOutcome(node, network.OutcomeUnhealthy)
				cfg.Metrics.IncAttempts(cfg.Method, metrics.OutcomeNodeFault)
			default:
				registry.ReportOutcome(node, network.OutcomeHealthy)
				cfg.Metrics.IncAttempts(cfg.Method, metrics.OutcomeTransient)
			}
			logger.Debug(
				"attempt failed",
				"attempt", attemptNum,
				"node", node.String(),
				"error", cause,
			)
		}
		if !errors.Is(cause, ErrEmptyTransient) || lastErr == nil {
			lastErr = cause
		}
		if attemptNum >= cfg.MaxAttempts {
			return zero, timedOut(cfg, ReasonMaxAttempts, attemptNum, lastErr, reachedNode)
		}
		delay := b.NextBackOff()
		if delay == backoff.Stop {
			return zero, timedOut(cfg, ReasonBackoffExhausted, attemptNum, lastErr, reachedNode)
		}
		cfg.Metrics.IncRetries(cfg.Method)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, contextError(ctx.Err(), cfg, attemptNum, lastErr, reachedNode)
		case <-timer.C:
		}
	}
}

// nextHealthy returns the next healthy node starting at the cursor, or nil
func nextHealthy(registry *network.Registry, nodes []*network.Node, cursor *int) *network.Node {
	for i := 0; i < len(nodes); i++ {
		node := nodes[*cursor%len(nodes)]
		*cursor = (*cursor + 1) % len(nodes)
		if registry.IsHealthy(node) {
			return node
		}
	}
	return nil
}

func contextError(err error, cfg Config, attempts int, lastErr error, reachedNode bool) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return timedOut(cfg, ReasonDeadline, attempts, lastErr, reachedNode)
	}
	return err
}

func timedOut(cfg Config, reason Reason, attempts int, lastErr error, reachedNode bool) error {
	cause := lastErr
	if !reachedNode && attempts > 0 {
		cause = ErrNoHealthyNodes
	}
	cfg.Metrics.IncTimeouts(cfg.Method, reason.String())
	cfg.Logger.Debug(
		"giving up on request",
		"component", "retry",
		"method", cfg.Method,
		"reason", reason.String(),
		"attempts", attempts,
	)
	return &TimedOutError{
		Reason:   reason,
		Attempts: attempts,
		Cause:    cause,
	}
}
