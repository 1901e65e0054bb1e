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
	"strings"

	"github.com/blinklabs-io/gohedera/network"
	"github.com/blinklabs-io/gohedera/protocol"
	"github.com/blinklabs-io/gohedera/retry"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// invoke makes a unary call to the node. Errors are classified for the
// retry engine.
func invoke(
	ctx context.Context,
	node *network.Node,
	method string,
	req any,
	resp any,
) error {
	conn, err := node.Channel()
	if err != nil {
		// Another node may still be reachable
		return retry.NodeFault(&GrpcStatusError{NodeId: node.AccountId(), Err: err})
	}
	if err := conn.Invoke(ctx, method, req, resp, grpc.CallContentSubtype(protocol.CodecName)); err != nil {
		return classifyTransportError(node, err)
	}
	return nil
}

func classifyTransportError(node *network.Node, err error) error {
	st := status.Convert(err)
	switch st.Code() {
	case codes.Unavailable:
		node.ReportUnavailable()
		return retry.NodeFault(&GrpcStatusError{NodeId: node.AccountId(), Err: err})
	case codes.ResourceExhausted:
		return retry.NodeFault(&GrpcStatusError{NodeId: node.AccountId(), Err: err})
	case codes.Canceled:
		// The retry engine checks the caller's context first, so this is a
		// channel that was closed under the call
		return retry.Transient(&GrpcStatusError{NodeId: node.AccountId(), Err: err})
	case codes.DeadlineExceeded:
		return retry.Transient(&GrpcStatusError{NodeId: node.AccountId(), Err: err})
	case codes.Internal:
		if strings.Contains(st.Message(), "unmarshal") {
			return retry.Permanent(&CodecError{Op: "decode", Err: err})
		}
	}
	return retry.Permanent(&GrpcStatusError{NodeId: node.AccountId(), Err: err})
}

// precheckOutcome maps a precheck status class to a retry outcome. Expired
// statuses are handled by the caller, since only it knows whether a new
// transaction ID may be used.
func precheckOutcome(class protocol.StatusClass, err error) error {
	switch class {
	case protocol.ClassBusy:
		return retry.NodeFault(err)
	case protocol.ClassTransient:
		return retry.Transient(err)
	default:
		return retry.Permanent(err)
	}
}

func (c *Client) startSpan(
	ctx context.Context,
	name string,
	attrs ...attribute.KeyValue,
) (context.Context, trace.Span) {
	return c.tracer.Start(
		ctx,
		name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}
