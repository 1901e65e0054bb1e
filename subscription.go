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
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/gohedera/network"
	"github.com/blinklabs-io/gohedera/retry"
	"github.com/cenkalti/backoff/v4"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultRetryableStreamCodes are the stream errors that are retried a
// bounded number of times. Unavailable and ResourceExhausted are always
// retried, as is Canceled while the subscription is open.
var DefaultRetryableStreamCodes = []codes.Code{
	codes.NotFound,
	codes.Internal,
	codes.Aborted,
}

// streamHandler opens a server stream and turns its messages into values.
// Handlers keep whatever state they need to resume after a reconnect.
type streamHandler[T any] interface {
	name() string
	openStream(ctx context.Context, conn *grpc.ClientConn) (grpc.ClientStream, error)
	// receive reads one message. Messages that only contribute to a later
	// value return false.
	receive(stream grpc.ClientStream) (T, bool, error)
}

// Subscription is a resumable stream of values from the mirror network.
// The stream is opened on the first call to Next and reopened when it
// fails with a retryable error.
type Subscription[T any] struct {
	client         *Client
	handler        streamHandler[T]
	retryableCodes map[codes.Code]bool
	logger         *slog.Logger
	ctx            context.Context
	cancel         context.CancelFunc
	onceClose      sync.Once
	mutex          sync.Mutex
	stream         grpc.ClientStream
	streamCancel   context.CancelFunc
	retryBackoff   *backoff.ExponentialBackOff
	retryAttempts  int
	reconnectWait  *backoff.ExponentialBackOff
	unavailable    int
	err            error
}

func newSubscription[T any](
	ctx context.Context,
	client *Client,
	handler streamHandler[T],
	retryableCodes []codes.Code,
) *Subscription[T] {
	s := &Subscription[T]{
		client:         client,
		handler:        handler,
		retryableCodes: make(map[codes.Code]bool),
		logger: client.logger.With(
			"component", "subscription",
			"stream", handler.name(),
		),
		retryBackoff: client.backoff.NewBackOff(),
	}
	for _, code := range retryableCodes {
		s.retryableCodes[code] = true
	}
	// Reconnects after the mirror node goes away are never given up
	reconnectConfig := client.backoff
	reconnectConfig.MaxElapsedTime = 0
	s.reconnectWait = reconnectConfig.NewBackOff()
	// The subscription outlives the context used to create it
	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	return s
}

// Next blocks until the next value is available. It returns io.EOF when the
// stream completed, ErrSubscriptionClosed after Close, and ctx.Err() when
// the given context is done. A canceled Next doesn't end the subscription,
// the next call resumes where it left off.
func (s *Subscription[T]) Next(ctx context.Context) (T, error) {
	var zero T
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for {
		if s.ctx.Err() != nil {
			s.closeStream()
			return zero, ErrSubscriptionClosed
		}
		if s.err != nil {
			return zero, s.err
		}
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		if s.stream == nil {
			if err := s.openStream(); err != nil {
				if err := s.handleStreamError(ctx, err); err != nil {
					return zero, err
				}
				continue
			}
		}
		// Tear down the stream if the caller stops waiting. It is reopened
		// from the last delivered value on the next call.
		stop := context.AfterFunc(ctx, s.streamCancel)
		value, deliver, err := s.handler.receive(s.stream)
		if !stop() {
			// The stream was canceled under us even if this receive won
			s.closeStream()
		}
		if err == nil {
			s.retryBackoff.Reset()
			s.retryAttempts = 0
			s.unavailable = 0
			s.reconnectWait.Reset()
			if !deliver {
				continue
			}
			s.client.metrics.IncSubscriptionMessages(s.handler.name())
			return value, nil
		}
		s.closeStream()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}
		if err := s.handleStreamError(ctx, err); err != nil {
			return zero, err
		}
	}
}

// Close ends the subscription. It is safe to call more than once and from
// another goroutine while Next is blocked.
func (s *Subscription[T]) Close() {
	s.onceClose.Do(func() {
		s.cancel()
	})
}

func (s *Subscription[T]) openStream() error {
	conn, err := s.client.mirror.Channel()
	if err != nil {
		return err
	}
	streamCtx, streamCancel := context.WithCancel(s.ctx)
	stream, err := s.handler.openStream(streamCtx, conn)
	if err != nil {
		streamCancel()
		return err
	}
	s.stream = stream
	s.streamCancel = streamCancel
	return nil
}

func (s *Subscription[T]) closeStream() {
	if s.streamCancel != nil {
		s.streamCancel()
	}
	s.stream = nil
	s.streamCancel = nil
}

// handleStreamError waits before the next reconnect, or returns the error
// that ends the subscription
func (s *Subscription[T]) handleStreamError(ctx context.Context, err error) error {
	if s.ctx.Err() != nil {
		return ErrSubscriptionClosed
	}
	if errors.Is(err, io.EOF) {
		s.err = io.EOF
		return s.err
	}
	var wait time.Duration
	code := status.Code(err)
	switch {
	case code == codes.Unavailable:
		s.unavailable++
		if s.unavailable >= network.ChannelResetFailures {
			s.unavailable = 0
			s.logger.Debug("recreating mirror channel")
			s.client.mirror.InvalidateChannel()
		}
		wait = s.reconnectWait.NextBackOff()
	case code == codes.ResourceExhausted, code == codes.Canceled:
		// Canceled here means the channel was closed under the stream, since
		// both the subscription and the caller's context are still live
		wait = s.reconnectWait.NextBackOff()
	case s.retryableCodes[code]:
		s.retryAttempts++
		if s.retryAttempts >= s.client.maxAttempts {
			s.err = &TimedOutError{
				Reason:   retry.ReasonMaxAttempts,
				Attempts: s.retryAttempts,
				Cause:    err,
			}
			return s.err
		}
		wait = s.retryBackoff.NextBackOff()
		if wait == backoff.Stop {
			s.err = &TimedOutError{
				Reason:   retry.ReasonBackoffExhausted,
				Attempts: s.retryAttempts,
				Cause:    err,
			}
			return s.err
		}
	default:
		s.err = err
		return s.err
	}
	s.logger.Warn(
		"subscription stream failed, reconnecting",
		"error", err,
		"code", code.String(),
		"delay", wait,
	)
	s.client.metrics.IncSubscriptionReconnects(s.handler.name())
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return ErrSubscriptionClosed
	}
}
