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
	"fmt"
	"slices"

	"github.com/blinklabs-io/gohedera/cbor"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/network"
	"github.com/blinklabs-io/gohedera/protocol"
	"github.com/blinklabs-io/gohedera/retry"
	"go.opentelemetry.io/otel/attribute"
)

// Query states
var (
	QueryStateBuilding   = protocol.NewState(1, "Building")
	QueryStateNegotiated = protocol.NewState(2, "Negotiated")
	QueryStateSubmitted  = protocol.NewState(3, "Submitted")
)

var queryStateMap = protocol.StateMap{
	QueryStateBuilding: []protocol.State{
		QueryStateNegotiated,
		QueryStateSubmitted,
	},
	QueryStateNegotiated: []protocol.State{
		QueryStateNegotiated,
		QueryStateSubmitted,
	},
	QueryStateSubmitted: []protocol.State{
		QueryStateNegotiated,
		QueryStateSubmitted,
	},
}

// queryData is implemented by every query kind
type queryData interface {
	queryName() string
	method() string
	// paymentExempt queries never pay and skip cost negotiation
	paymentExempt() bool
	validate() error
	buildQuery(header protocol.QueryHeader) *protocol.Query
	// classifyStatus overrides the client classification for statuses that
	// mean something different to this query kind
	classifyStatus(status protocol.Status) (protocol.StatusClass, bool)
	// validateResponse checks an OK answer, returning a retry outcome when
	// it isn't usable yet
	validateResponse(resp *protocol.Response) error
	validateChecksums(ledgerId ledger.LedgerId) error
}

// Query holds the state shared by all query kinds
type Query[T any] struct {
	self                 T
	data                 queryData
	state                protocol.State
	err                  error
	nodeAccountIds       []ledger.AccountId
	queryPayment         Hbar
	queryPaymentSet      bool
	maxQueryPayment      Hbar
	maxQueryPaymentSet   bool
	paymentTransactionId TransactionId
}

func newQuery[T any](self T, data queryData) Query[T] {
	return Query[T]{
		self:  self,
		data:  data,
		state: QueryStateBuilding,
	}
}

func (q *Query[T]) setState(state protocol.State) {
	if queryStateMap.CanTransition(q.state, state) {
		q.state = state
	}
}

func (q *Query[T]) State() protocol.State {
	return q.state
}

func (q *Query[T]) setError(err error) {
	if q.err == nil {
		q.err = err
	}
}

// Err returns the first error recorded by a setter
func (q *Query[T]) Err() error {
	return q.err
}

func (q *Query[T]) SetNodeAccountIds(nodeAccountIds ...ledger.AccountId) T {
	q.nodeAccountIds = slices.Clone(nodeAccountIds)
	return q.self
}

func (q *Query[T]) GetNodeAccountIds() []ledger.AccountId {
	return slices.Clone(q.nodeAccountIds)
}

// SetQueryPayment sets an explicit payment, which skips cost negotiation
func (q *Query[T]) SetQueryPayment(payment Hbar) T {
	if payment.AsTinybar() < 0 {
		q.setError(fmt.Errorf("invalid query payment: %s", payment))
		return q.self
	}
	q.queryPayment = payment
	q.queryPaymentSet = true
	return q.self
}

func (q *Query[T]) GetQueryPayment() (Hbar, bool) {
	return q.queryPayment, q.queryPaymentSet
}

// SetMaxQueryPayment overrides the client's ceiling for the negotiated cost
func (q *Query[T]) SetMaxQueryPayment(maxPayment Hbar) T {
	if maxPayment.AsTinybar() < 0 {
		q.setError(fmt.Errorf("invalid max query payment: %s", maxPayment))
		return q.self
	}
	q.maxQueryPayment = maxPayment
	q.maxQueryPaymentSet = true
	return q.self
}

func (q *Query[T]) GetMaxQueryPayment() (Hbar, bool) {
	return q.maxQueryPayment, q.maxQueryPaymentSet
}

// SetPaymentTransactionId sets an explicit ID for the payment transaction.
// Payments with an explicit ID aren't regenerated when they expire.
func (q *Query[T]) SetPaymentTransactionId(transactionId TransactionId) T {
	q.paymentTransactionId = transactionId
	return q.self
}

func (q *Query[T]) GetPaymentTransactionId() TransactionId {
	return q.paymentTransactionId
}

func (q *Query[T]) selectNodes(client *Client) ([]*network.Node, error) {
	if len(q.nodeAccountIds) > 0 {
		return client.registry.SelectNodes(q.nodeAccountIds, 0)
	}
	return client.registry.SelectNodes(nil, client.registry.DefaultNodeCount())
}

func (q *Query[T]) validateChecksums(ledgerId ledger.LedgerId) error {
	for _, nodeAccountId := range q.nodeAccountIds {
		if err := nodeAccountId.ValidateChecksum(ledgerId); err != nil {
			return err
		}
	}
	return q.data.validateChecksums(ledgerId)
}

// GetCost asks a node what the query would cost. Cost queries carry no
// payment. Payment exempt queries cost nothing.
func (q *Query[T]) GetCost(ctx context.Context, client *Client) (Hbar, error) {
	if client == nil {
		return HbarZero, ErrNoNodes
	}
	ctx, cancel := client.requestContext(ctx)
	defer cancel()
	ctx, span := client.startSpan(
		ctx,
		q.data.queryName()+".GetCost",
		attribute.String("rpc.method", q.data.method()),
	)
	cost, err := q.getCost(ctx, client)
	endSpan(span, err)
	return cost, err
}

func (q *Query[T]) getCost(ctx context.Context, client *Client) (Hbar, error) {
	if q.err != nil {
		return HbarZero, q.err
	}
	if err := q.data.validate(); err != nil {
		return HbarZero, err
	}
	if q.data.paymentExempt() {
		return HbarZero, nil
	}
	nodes, err := q.selectNodes(client)
	if err != nil {
		return HbarZero, err
	}
	header := protocol.QueryHeader{
		ResponseType: protocol.ResponseTypeCostAnswer,
	}
	resp, err := retry.Run(
		ctx,
		client.retryConfig(q.data.method()),
		client.registry,
		nodes,
		func(ctx context.Context, node *network.Node) (*protocol.Response, error) {
			return q.attempt(ctx, client, node, header, TransactionId{})
		},
	)
	if err != nil {
		return HbarZero, err
	}
	return HbarFromTinybars(int64(resp.Header.Cost)), nil // #nosec G115
}

// execute runs the query to completion, negotiating and paying the cost
// first when the query kind requires it
func (q *Query[T]) execute(ctx context.Context, client *Client) (*protocol.Response, error) {
	if client == nil {
		return nil, ErrNoNodes
	}
	ctx, cancel := client.requestContext(ctx)
	defer cancel()
	ctx, span := client.startSpan(
		ctx,
		q.data.queryName()+".Execute",
		attribute.String("rpc.method", q.data.method()),
	)
	resp, err := q.executeQuery(ctx, client)
	endSpan(span, err)
	return resp, err
}

func (q *Query[T]) executeQuery(ctx context.Context, client *Client) (*protocol.Response, error) {
	if q.err != nil {
		return nil, q.err
	}
	if err := q.data.validate(); err != nil {
		return nil, err
	}
	if client.autoValidateChecksums {
		if err := q.validateChecksums(client.LedgerId()); err != nil {
			return nil, err
		}
	}
	paid := !q.data.paymentExempt()
	var cost Hbar
	if paid {
		if client.operator == nil {
			return nil, ErrNoOperator
		}
		if q.queryPaymentSet {
			cost = q.queryPayment
		} else {
			var err error
			cost, err = q.getCost(ctx, client)
			if err != nil {
				return nil, err
			}
			maxPayment := client.maxQueryPayment
			if q.maxQueryPaymentSet {
				maxPayment = q.maxQueryPayment
			}
			if cost.Compare(maxPayment) > 0 {
				client.metrics.IncQueryPaymentRejected(q.data.queryName())
				return nil, &MaxQueryPaymentExceededError{
					QueryName: q.data.queryName(),
					Max:       maxPayment,
					Cost:      cost,
				}
			}
		}
		q.setState(QueryStateNegotiated)
	}
	nodes, err := q.selectNodes(client)
	if err != nil {
		return nil, err
	}
	resp, err := retry.Run(
		ctx,
		client.retryConfig(q.data.method()),
		client.registry,
		nodes,
		func(ctx context.Context, node *network.Node) (*protocol.Response, error) {
			header := protocol.QueryHeader{
				ResponseType: protocol.ResponseTypeAnswerOnly,
			}
			var paymentId TransactionId
			if paid {
				// Each attempt pays the node it is sent to
				payment, tmpId, err := q.buildPayment(client, node, cost)
				if err != nil {
					return nil, retry.Permanent(err)
				}
				header.Payment = payment
				paymentId = tmpId
			}
			return q.attempt(ctx, client, node, header, paymentId)
		},
	)
	if err != nil {
		return nil, err
	}
	q.setState(QueryStateSubmitted)
	return resp, nil
}

func (q *Query[T]) attempt(
	ctx context.Context,
	client *Client,
	node *network.Node,
	header protocol.QueryHeader,
	paymentId TransactionId,
) (*protocol.Response, error) {
	resp := &protocol.Response{}
	if err := invoke(ctx, node, q.data.method(), q.data.buildQuery(header), resp); err != nil {
		return nil, err
	}
	status := resp.Header.NodeTransactionPrecheckCode
	class, ok := q.data.classifyStatus(status)
	if !ok {
		class = client.classification.Classify(status)
	}
	if class == protocol.ClassOk {
		if header.ResponseType == protocol.ResponseTypeCostAnswer {
			return resp, nil
		}
		if err := q.data.validateResponse(resp); err != nil {
			return nil, err
		}
		return resp, nil
	}
	precheckErr := &PreCheckStatusError{
		Status:        status,
		TransactionId: paymentId,
		NodeId:        node.AccountId(),
		Cost:          HbarFromTinybars(int64(resp.Header.Cost)), // #nosec G115
	}
	if class == protocol.ClassExpired {
		// The next attempt builds its payment with a fresh ID
		if header.Payment != nil && q.paymentTransactionId.IsZero() {
			return nil, retry.Transient(precheckErr)
		}
		return nil, retry.Permanent(precheckErr)
	}
	return nil, precheckOutcome(class, precheckErr)
}

// buildPayment builds a transfer of the cost from the operator to the node
func (q *Query[T]) buildPayment(
	client *Client,
	node *network.Node,
	cost Hbar,
) (*protocol.Transaction, TransactionId, error) {
	operator := client.operator
	paymentId := q.paymentTransactionId
	if paymentId.IsZero() {
		paymentId = GenerateTransactionId(operator.AccountId)
	}
	fee := client.maxTransactionFee
	if fee.IsZero() {
		fee = DefaultMaxTransactionFee
	}
	body := &protocol.TransactionBody{
		TransactionID:  paymentId.toProtocol(),
		NodeAccountID:  protocol.NewEntityID(node.AccountId().EntityId),
		TransactionFee: uint64(fee.AsTinybar()), // #nosec G115
		ValidDuration:  protocol.NewDuration(client.transactionValidDuration),
		CryptoTransfer: &protocol.CryptoTransferBody{
			Transfers: []protocol.AccountAmount{
				{
					AccountID: protocol.NewEntityID(operator.AccountId.EntityId),
					Amount:    cost.Negated().AsTinybar(),
				},
				{
					AccountID: protocol.NewEntityID(node.AccountId().EntityId),
					Amount:    cost.AsTinybar(),
				},
			},
		},
	}
	bodyBytes, err := cbor.Encode(body)
	if err != nil {
		return nil, paymentId, &CodecError{Op: "encode", Err: err}
	}
	sig, err := operator.Signer.Sign(bodyBytes)
	if err != nil {
		return nil, paymentId, fmt.Errorf("failed to sign query payment: %w", err)
	}
	signedBytes, err := signedTransactionBytes(
		bodyBytes,
		[]protocol.SignaturePair{
			operator.Signer.PublicKey().SignaturePair(sig),
		},
	)
	if err != nil {
		return nil, paymentId, err
	}
	return &protocol.Transaction{SignedTransactionBytes: signedBytes}, paymentId, nil
}

// missingAnswer is returned when an OK response doesn't carry the answer for
// the query kind
func missingAnswer(queryName string) error {
	return retry.Permanent(
		&CodecError{
			Op:  "decode",
			Err: errors.New("response to " + queryName + " has no answer"),
		},
	)
}
