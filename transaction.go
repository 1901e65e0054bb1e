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
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/blinklabs-io/gohedera/cbor"
	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/network"
	"github.com/blinklabs-io/gohedera/protocol"
	"github.com/blinklabs-io/gohedera/retry"
	"go.opentelemetry.io/otel/attribute"
)

// Transaction states
var (
	TransactionStateBuilding  = protocol.NewState(1, "Building")
	TransactionStateFrozen    = protocol.NewState(2, "Frozen")
	TransactionStateSigned    = protocol.NewState(3, "Signed")
	TransactionStateSubmitted = protocol.NewState(4, "Submitted")
)

var transactionStateMap = protocol.StateMap{
	TransactionStateBuilding: []protocol.State{
		TransactionStateFrozen,
	},
	TransactionStateFrozen: []protocol.State{
		TransactionStateSigned,
		TransactionStateSubmitted,
	},
	// A regenerated transaction ID takes a signed transaction back to frozen
	TransactionStateSigned: []protocol.State{
		TransactionStateFrozen,
		TransactionStateSigned,
		TransactionStateSubmitted,
	},
	TransactionStateSubmitted: []protocol.State{
		TransactionStateFrozen,
		TransactionStateSigned,
		TransactionStateSubmitted,
	},
}

// transactionData is implemented by every transaction kind
type transactionData interface {
	transactionName() string
	method() string
	defaultMaxTransactionFee() Hbar
	// chunking returns the length of the chunked data, the chunk size and
	// the max number of chunks. A chunk size of zero means the kind isn't
	// chunked
	chunking() (int, int, int)
	// validate checks that required fields were set
	validate() error
	buildPayload(body *protocol.TransactionBody, chunk int, total int)
	// restorePayload is the inverse of buildPayload. It gets the first body
	// of every chunk.
	restorePayload(bodies []*protocol.TransactionBody) error
	validateChecksums(ledgerId ledger.LedgerId) error
}

type frozenBody struct {
	nodeAccountId ledger.AccountId
	bodyBytes     []byte
	sigPairs      []protocol.SignaturePair
}

func (b *frozenBody) signedTransactionBytes() ([]byte, error) {
	return signedTransactionBytes(b.bodyBytes, b.sigPairs)
}

type frozenChunk struct {
	transactionId TransactionId
	bodies        []*frozenBody
}

func (c *frozenChunk) body(nodeAccountId ledger.AccountId) *frozenBody {
	for _, body := range c.bodies {
		if body.nodeAccountId.Equal(nodeAccountId) {
			return body
		}
	}
	return nil
}

// Transaction holds the state shared by all transaction kinds. Setters
// record the first error, which is returned by Freeze and Execute.
type Transaction[T any] struct {
	self                   T
	data                   transactionData
	state                  protocol.State
	err                    error
	nodeAccountIds         []ledger.AccountId
	transactionId          TransactionId
	generatedTransactionId bool
	validDuration          time.Duration
	maxTransactionFee      Hbar
	maxTransactionFeeSet   bool
	memo                   string
	chunks                 []*frozenChunk
	signers                []keys.Signer
	// Signatures added by AddSignature can't be redone for a new ID
	addedSignatures bool
}

func newTransaction[T any](self T, data transactionData) Transaction[T] {
	return Transaction[T]{
		self:  self,
		data:  data,
		state: TransactionStateBuilding,
	}
}

func (tx *Transaction[T]) setError(err error) {
	if tx.err == nil {
		tx.err = err
	}
}

// requireNotFrozen records ErrTransactionFrozen if the transaction is frozen
func (tx *Transaction[T]) requireNotFrozen() bool {
	if tx.state != TransactionStateBuilding {
		tx.setError(ErrTransactionFrozen)
		return false
	}
	return true
}

func (tx *Transaction[T]) setState(state protocol.State) error {
	if tx.state == state && state != TransactionStateSigned && state != TransactionStateSubmitted {
		return nil
	}
	if !transactionStateMap.CanTransition(tx.state, state) {
		return fmt.Errorf("invalid transaction state transition from %s to %s", tx.state, state)
	}
	tx.state = state
	return nil
}

// Err returns the first error recorded by a setter
func (tx *Transaction[T]) Err() error {
	return tx.err
}

func (tx *Transaction[T]) State() protocol.State {
	return tx.state
}

func (tx *Transaction[T]) IsFrozen() bool {
	return tx.state != TransactionStateBuilding
}

// SetNodeAccountIds sets the nodes the transaction may be submitted to
func (tx *Transaction[T]) SetNodeAccountIds(nodeAccountIds ...ledger.AccountId) T {
	if tx.requireNotFrozen() {
		tx.nodeAccountIds = slices.Clone(nodeAccountIds)
	}
	return tx.self
}

func (tx *Transaction[T]) GetNodeAccountIds() []ledger.AccountId {
	return slices.Clone(tx.nodeAccountIds)
}

// SetTransactionId sets an explicit transaction ID. Explicit IDs are never
// regenerated.
func (tx *Transaction[T]) SetTransactionId(transactionId TransactionId) T {
	if tx.requireNotFrozen() {
		tx.transactionId = transactionId
		tx.generatedTransactionId = false
	}
	return tx.self
}

func (tx *Transaction[T]) GetTransactionId() TransactionId {
	return tx.transactionId
}

func (tx *Transaction[T]) SetTransactionValidDuration(duration time.Duration) T {
	if tx.requireNotFrozen() {
		if duration <= 0 {
			tx.setError(fmt.Errorf("invalid transaction valid duration: %s", duration))
			return tx.self
		}
		tx.validDuration = duration
	}
	return tx.self
}

func (tx *Transaction[T]) GetTransactionValidDuration() time.Duration {
	return tx.validDuration
}

func (tx *Transaction[T]) SetMaxTransactionFee(fee Hbar) T {
	if tx.requireNotFrozen() {
		if fee.AsTinybar() < 0 {
			tx.setError(fmt.Errorf("invalid max transaction fee: %s", fee))
			return tx.self
		}
		tx.maxTransactionFee = fee
		tx.maxTransactionFeeSet = true
	}
	return tx.self
}

func (tx *Transaction[T]) GetMaxTransactionFee() Hbar {
	if !tx.maxTransactionFeeSet && !tx.IsFrozen() {
		return tx.data.defaultMaxTransactionFee()
	}
	return tx.maxTransactionFee
}

func (tx *Transaction[T]) SetTransactionMemo(memo string) T {
	if tx.requireNotFrozen() {
		tx.memo = memo
	}
	return tx.self
}

func (tx *Transaction[T]) GetTransactionMemo() string {
	return tx.memo
}

// Freeze freezes the transaction without a client. Node account IDs and a
// transaction ID must have been set.
func (tx *Transaction[T]) Freeze() (T, error) {
	return tx.FreezeWith(nil)
}

// FreezeWith freezes the transaction, using the client to pick nodes and to
// generate a transaction ID when they weren't set
func (tx *Transaction[T]) FreezeWith(client *Client) (T, error) {
	if err := tx.freezeWith(client); err != nil {
		return tx.self, err
	}
	return tx.self, nil
}

func (tx *Transaction[T]) freezeWith(client *Client) error {
	if tx.err != nil {
		return tx.err
	}
	if tx.IsFrozen() {
		return nil
	}
	if err := tx.data.validate(); err != nil {
		return err
	}
	// Nodes
	if len(tx.nodeAccountIds) == 0 {
		if client == nil {
			return ErrFreezeUnsetNodeAccountIds
		}
		nodes, err := client.registry.SelectNodes(nil, client.registry.DefaultNodeCount())
		if err != nil {
			return err
		}
		for _, node := range nodes {
			tx.nodeAccountIds = append(tx.nodeAccountIds, node.AccountId())
		}
	} else if client != nil {
		if _, err := client.registry.SelectNodes(tx.nodeAccountIds, 0); err != nil {
			return err
		}
	}
	// Transaction ID
	if tx.transactionId.IsZero() {
		if client == nil || client.operator == nil {
			return ErrNoPayerAccountOrTransactionId
		}
		tx.transactionId = GenerateTransactionId(client.operator.AccountId)
		tx.generatedTransactionId = true
	}
	// Defaults
	if tx.validDuration == 0 {
		tx.validDuration = DefaultTransactionValidDuration
		if client != nil {
			tx.validDuration = client.transactionValidDuration
		}
	}
	if !tx.maxTransactionFeeSet {
		tx.maxTransactionFee = tx.data.defaultMaxTransactionFee()
		if client != nil && !client.maxTransactionFee.IsZero() {
			tx.maxTransactionFee = client.maxTransactionFee
		}
	}
	total, err := tx.chunkCount()
	if err != nil {
		return err
	}
	if err := tx.buildChunks(total); err != nil {
		return err
	}
	return tx.setState(TransactionStateFrozen)
}

func (tx *Transaction[T]) chunkCount() (int, error) {
	dataLen, chunkSize, maxChunks := tx.data.chunking()
	if chunkSize <= 0 {
		return 1, nil
	}
	total := max((dataLen+chunkSize-1)/chunkSize, 1)
	if total > maxChunks {
		return 0, fmt.Errorf(
			"%w: %d chunks required, max is %d",
			ErrMaxChunksExceeded,
			total,
			maxChunks,
		)
	}
	return total, nil
}

// buildChunks creates one body per chunk and node. Chunk N uses the initial
// transaction ID's valid start plus N nanoseconds.
func (tx *Transaction[T]) buildChunks(total int) error {
	_, chunkSize, _ := tx.data.chunking()
	initialId := tx.transactionId.toProtocol()
	chunks := make([]*frozenChunk, 0, total)
	for i := 0; i < total; i++ {
		chunkId := tx.transactionId.withOffset(i)
		chunk := &frozenChunk{
			transactionId: chunkId,
		}
		for _, nodeAccountId := range tx.nodeAccountIds {
			body := &protocol.TransactionBody{
				TransactionID:  chunkId.toProtocol(),
				NodeAccountID:  protocol.NewEntityID(nodeAccountId.EntityId),
				TransactionFee: uint64(tx.maxTransactionFee.AsTinybar()), // #nosec G115
				ValidDuration:  protocol.NewDuration(tx.validDuration),
				Memo:           tx.memo,
			}
			if chunkSize > 0 {
				body.ChunkInfo = &protocol.ChunkInfo{
					InitialTransactionID: initialId,
					Total:                int32(total), // #nosec G115
					Number:               int32(i + 1), // #nosec G115
				}
			}
			tx.data.buildPayload(body, i, total)
			bodyBytes, err := cbor.Encode(body)
			if err != nil {
				return &CodecError{Op: "encode", Err: err}
			}
			chunk.bodies = append(
				chunk.bodies,
				&frozenBody{
					nodeAccountId: nodeAccountId,
					bodyBytes:     bodyBytes,
				},
			)
		}
		chunks = append(chunks, chunk)
	}
	tx.chunks = chunks
	return nil
}

// Sign signs every body of the frozen transaction with the key
func (tx *Transaction[T]) Sign(key keys.PrivateKey) T {
	return tx.SignWith(key)
}

// SignWith signs every body of the frozen transaction. Signing twice with
// the same public key has no effect.
func (tx *Transaction[T]) SignWith(signer keys.Signer) T {
	if !tx.IsFrozen() {
		tx.setError(ErrTransactionNotFrozen)
		return tx.self
	}
	if err := tx.addSignature(signer); err != nil {
		tx.setError(err)
	}
	return tx.self
}

func (tx *Transaction[T]) hasSigner(publicKey keys.PublicKey) bool {
	for _, signer := range tx.signers {
		if signer.PublicKey().Equal(publicKey) {
			return true
		}
	}
	// Deserialized transactions carry signatures without their signers
	if len(tx.chunks) > 0 && len(tx.chunks[0].bodies) > 0 {
		for _, pair := range tx.chunks[0].bodies[0].sigPairs {
			if bytes.Equal(pair.PubKeyPrefix, publicKey.Bytes()) {
				return true
			}
		}
	}
	return false
}

func (tx *Transaction[T]) addSignature(signer keys.Signer) error {
	if tx.hasSigner(signer.PublicKey()) {
		return nil
	}
	if err := tx.signBodies(signer); err != nil {
		return err
	}
	tx.signers = append(tx.signers, signer)
	return tx.setState(TransactionStateSigned)
}

func (tx *Transaction[T]) signBodies(signer keys.Signer) error {
	publicKey := signer.PublicKey()
	for _, chunk := range tx.chunks {
		for _, body := range chunk.bodies {
			sig, err := signer.Sign(body.bodyBytes)
			if err != nil {
				return fmt.Errorf("failed to sign transaction: %w", err)
			}
			body.sigPairs = append(body.sigPairs, publicKey.SignaturePair(sig))
		}
	}
	return nil
}

// GetSignatures returns the signatures of the first chunk by node
func (tx *Transaction[T]) GetSignatures() (map[ledger.AccountId][]protocol.SignaturePair, error) {
	if !tx.IsFrozen() {
		return nil, ErrTransactionNotFrozen
	}
	ret := map[ledger.AccountId][]protocol.SignaturePair{}
	for _, body := range tx.chunks[0].bodies {
		ret[body.nodeAccountId] = slices.Clone(body.sigPairs)
	}
	return ret, nil
}

// AddSignature adds a signature made elsewhere over the transaction body.
// Every chunk and node has its own body, so the transaction must have exactly
// one of each. Adding a second signature for the same key has no effect.
func (tx *Transaction[T]) AddSignature(publicKey keys.PublicKey, signature []byte) T {
	if !tx.IsFrozen() {
		tx.setError(ErrTransactionNotFrozen)
		return tx.self
	}
	if len(tx.chunks) != 1 || len(tx.chunks[0].bodies) != 1 {
		tx.setError(ErrSignatureMultipleBodies)
		return tx.self
	}
	if tx.hasSigner(publicKey) {
		return tx.self
	}
	body := tx.chunks[0].bodies[0]
	if !publicKey.Verify(body.bodyBytes, signature) {
		tx.setError(fmt.Errorf("%w: key %s", ErrInvalidSignature, publicKey.String()))
		return tx.self
	}
	body.sigPairs = append(body.sigPairs, publicKey.SignaturePair(slices.Clone(signature)))
	tx.addedSignatures = true
	if err := tx.setState(TransactionStateSigned); err != nil {
		tx.setError(err)
	}
	return tx.self
}

// GetBodyBytes returns the body that AddSignature expects a signature over
func (tx *Transaction[T]) GetBodyBytes() ([]byte, error) {
	if !tx.IsFrozen() {
		return nil, ErrTransactionNotFrozen
	}
	if len(tx.chunks) != 1 || len(tx.chunks[0].bodies) != 1 {
		return nil, ErrSignatureMultipleBodies
	}
	return slices.Clone(tx.chunks[0].bodies[0].bodyBytes), nil
}

// ToBytes serializes the frozen transaction along with the signatures
// collected so far. TransactionFromBytes restores it, so that other parties
// can add their signatures before it is executed.
func (tx *Transaction[T]) ToBytes() ([]byte, error) {
	if !tx.IsFrozen() {
		return nil, ErrTransactionNotFrozen
	}
	list := &protocol.TransactionList{}
	for _, chunk := range tx.chunks {
		for _, body := range chunk.bodies {
			signedBytes, err := body.signedTransactionBytes()
			if err != nil {
				return nil, err
			}
			list.TransactionList = append(
				list.TransactionList,
				protocol.Transaction{SignedTransactionBytes: signedBytes},
			)
		}
	}
	ret, err := cbor.Encode(list)
	if err != nil {
		return nil, &CodecError{Op: "encode", Err: err}
	}
	return ret, nil
}

// GetTransactionHash returns the hash of the signed transaction. The
// transaction must target exactly one node, since each node gets a
// different body.
func (tx *Transaction[T]) GetTransactionHash() (ledger.Blake2b384, error) {
	hashes, err := tx.GetTransactionHashPerNode()
	if err != nil {
		return ledger.Blake2b384{}, err
	}
	if len(hashes) != 1 {
		return ledger.Blake2b384{}, ErrTransactionHashMultipleNodes
	}
	return hashes[tx.nodeAccountIds[0]], nil
}

// GetTransactionHashPerNode returns the hash of the first chunk's signed
// transaction for each node
func (tx *Transaction[T]) GetTransactionHashPerNode() (map[ledger.AccountId]ledger.Blake2b384, error) {
	if !tx.IsFrozen() {
		return nil, ErrTransactionNotFrozen
	}
	ret := map[ledger.AccountId]ledger.Blake2b384{}
	for _, body := range tx.chunks[0].bodies {
		signedBytes, err := body.signedTransactionBytes()
		if err != nil {
			return nil, err
		}
		ret[body.nodeAccountId] = ledger.Blake2b384Hash(signedBytes)
	}
	return ret, nil
}

func (tx *Transaction[T]) validateChecksums(ledgerId ledger.LedgerId) error {
	for _, nodeAccountId := range tx.nodeAccountIds {
		if err := nodeAccountId.ValidateChecksum(ledgerId); err != nil {
			return err
		}
	}
	if err := tx.transactionId.AccountId.ValidateChecksum(ledgerId); err != nil {
		return err
	}
	return tx.data.validateChecksums(ledgerId)
}

// canRegenerate reports whether an expired transaction may be resubmitted
// with a new transaction ID. Chunked transactions share their initial ID
// across chunks, so only single chunk transactions qualify. Signatures
// added by AddSignature would be lost.
func (tx *Transaction[T]) canRegenerate(client *Client) bool {
	return client.regenerateTransactionIds &&
		tx.generatedTransactionId &&
		!tx.addedSignatures &&
		len(tx.chunks) == 1
}

func (tx *Transaction[T]) regenerateTransactionId() error {
	tx.transactionId = GenerateTransactionId(tx.transactionId.AccountId)
	if err := tx.buildChunks(len(tx.chunks)); err != nil {
		return err
	}
	if err := tx.setState(TransactionStateFrozen); err != nil {
		return err
	}
	for _, signer := range tx.signers {
		if err := tx.signBodies(signer); err != nil {
			return err
		}
	}
	if len(tx.signers) > 0 {
		return tx.setState(TransactionStateSigned)
	}
	return nil
}

// Execute freezes the transaction if needed, adds the operator signature
// and submits every chunk. The response of the last chunk is returned.
func (tx *Transaction[T]) Execute(ctx context.Context, client *Client) (*TransactionResponse, error) {
	responses, err := tx.ExecuteAll(ctx, client)
	if err != nil {
		return nil, err
	}
	return responses[len(responses)-1], nil
}

// ExecuteAll is like Execute but returns the response of every chunk. On
// error, the responses of the chunks accepted so far are returned along
// with it.
func (tx *Transaction[T]) ExecuteAll(ctx context.Context, client *Client) ([]*TransactionResponse, error) {
	if client == nil {
		return nil, ErrNoNodes
	}
	ctx, cancel := client.requestContext(ctx)
	defer cancel()
	ctx, span := client.startSpan(
		ctx,
		tx.data.transactionName()+".Execute",
		attribute.String("rpc.method", tx.data.method()),
	)
	responses, err := tx.executeAll(ctx, client)
	if !tx.transactionId.IsZero() {
		span.SetAttributes(
			attribute.String("transaction.id", tx.transactionId.String()),
			attribute.Int("transaction.chunks", len(tx.chunks)),
		)
	}
	endSpan(span, err)
	return responses, err
}

func (tx *Transaction[T]) executeAll(ctx context.Context, client *Client) ([]*TransactionResponse, error) {
	if err := tx.freezeWith(client); err != nil {
		return nil, err
	}
	if client.autoValidateChecksums {
		if err := tx.validateChecksums(client.LedgerId()); err != nil {
			return nil, err
		}
	}
	if client.operator != nil {
		if err := tx.addSignature(client.operator.Signer); err != nil {
			return nil, err
		}
	}
	method := tx.data.method()
	nodes, err := client.registry.SelectNodes(tx.nodeAccountIds, 0)
	if err != nil {
		return nil, err
	}
	responses := make([]*TransactionResponse, 0, len(tx.chunks))
	var pinned *network.Node
	for i := range tx.chunks {
		// Only the first chunk may rotate, the rest go to the node that
		// accepted it
		candidates := nodes
		if pinned != nil {
			candidates = []*network.Node{pinned}
		}
		resp, err := retry.Run(
			ctx,
			client.retryConfig(method),
			client.registry,
			candidates,
			func(ctx context.Context, node *network.Node) (*TransactionResponse, error) {
				return tx.submitChunk(ctx, client, i, node)
			},
		)
		if err != nil {
			return responses, err
		}
		if pinned == nil {
			pinned, _ = client.registry.Node(resp.NodeId)
		}
		client.metrics.IncChunksSubmitted(method)
		responses = append(responses, resp)
	}
	if err := tx.setState(TransactionStateSubmitted); err != nil {
		return responses, err
	}
	return responses, nil
}

func (tx *Transaction[T]) submitChunk(
	ctx context.Context,
	client *Client,
	chunkIdx int,
	node *network.Node,
) (*TransactionResponse, error) {
	chunk := tx.chunks[chunkIdx]
	body := chunk.body(node.AccountId())
	if body == nil {
		return nil, retry.Permanent(
			fmt.Errorf("%w: no body for node %s", network.ErrNodeAccountUnknown, node.String()),
		)
	}
	signedBytes, err := body.signedTransactionBytes()
	if err != nil {
		return nil, retry.Permanent(err)
	}
	resp := &protocol.TransactionResponse{}
	err = invoke(
		ctx,
		node,
		tx.data.method(),
		&protocol.Transaction{SignedTransactionBytes: signedBytes},
		resp,
	)
	if err != nil {
		return nil, err
	}
	status := resp.NodeTransactionPrecheckCode
	class := client.classification.Classify(status)
	if class == protocol.ClassOk {
		return &TransactionResponse{
			NodeId:        node.AccountId(),
			TransactionId: chunk.transactionId,
			Hash:          ledger.Blake2b384Hash(signedBytes),
		}, nil
	}
	precheckErr := &PreCheckStatusError{
		Status:        status,
		TransactionId: chunk.transactionId,
		NodeId:        node.AccountId(),
		Cost:          HbarFromTinybars(int64(resp.Cost)), // #nosec G115
	}
	if class == protocol.ClassExpired {
		if !tx.canRegenerate(client) {
			return nil, retry.Permanent(precheckErr)
		}
		if err := tx.regenerateTransactionId(); err != nil {
			return nil, retry.Permanent(errors.Join(precheckErr, err))
		}
		client.logger.Debug(
			"regenerated expired transaction id",
			"old", chunk.transactionId.String(),
			"new", tx.transactionId.String(),
		)
		return nil, retry.Transient(precheckErr)
	}
	return nil, precheckOutcome(class, precheckErr)
}

func signedTransactionBytes(bodyBytes []byte, sigPairs []protocol.SignaturePair) ([]byte, error) {
	signed := &protocol.SignedTransaction{
		BodyBytes: bodyBytes,
		SigMap: protocol.SignatureMap{
			SigPair: sigPairs,
		},
	}
	ret, err := cbor.Encode(signed)
	if err != nil {
		return nil, &CodecError{Op: "encode", Err: err}
	}
	return ret, nil
}
