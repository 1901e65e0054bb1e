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
	"io"
	"log/slog"
	"testing"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeClientStream struct {
	grpc.ClientStream
	ctx context.Context
}

func (s *fakeClientStream) Context() context.Context {
	return s.ctx
}

// fakeStreamHandler counts up from 1. The first receive cancels the
// caller's context before returning its value.
type fakeStreamHandler struct {
	opens        int
	next         int
	cancelCaller context.CancelFunc
}

func (h *fakeStreamHandler) name() string {
	return "fake"
}

func (h *fakeStreamHandler) openStream(ctx context.Context, _ *grpc.ClientConn) (grpc.ClientStream, error) {
	h.opens++
	return &fakeClientStream{ctx: ctx}, nil
}

func (h *fakeStreamHandler) receive(stream grpc.ClientStream) (int, bool, error) {
	if err := stream.Context().Err(); err != nil {
		return 0, false, status.Error(codes.Canceled, err.Error())
	}
	h.next++
	if h.next == 1 {
		h.cancelCaller()
	}
	return h.next, true, nil
}

func TestSubscriptionCancelDuringReceive(t *testing.T) {
	defer goleak.VerifyNone(t)
	client, err := NewClient(
		WithNodes(map[string]ledger.AccountId{"127.0.0.1:50211": testNode3}),
		WithMirrorAddresses("127.0.0.1:5600"),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)
	defer client.Close()

	handler := &fakeStreamHandler{}
	sub := newSubscription[int](context.Background(), client, handler, nil)
	defer sub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	handler.cancelCaller = cancel
	value, err := sub.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, value)

	// The stream canceled along with the first call is replaced, not
	// reported as the end of the subscription
	for expected := 2; expected <= 3; expected++ {
		value, err = sub.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, expected, value)
	}
	assert.Equal(t, 2, handler.opens)
}
