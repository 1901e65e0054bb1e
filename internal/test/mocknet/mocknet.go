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

// Package mocknet runs an in-process network of consensus nodes and a mirror
// node over bufconn listeners. Nodes keep a small ledger of accounts, files
// and topics, and can be scripted to fail requests.
package mocknet

import (
	"context"
	"errors"
	"fmt"
	"net"
	"slices"
	"sync"

	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/test/bufconn"
)

const (
	bufferSize = 1024 * 1024

	DefaultNodeCount    = 3
	DefaultQueryCost    = 100_000
	DefaultReceiptPolls = 1
	// Initial balance of the operator account, in tinybars
	DefaultOperatorBalance = 1_000_000 * 100_000_000

	mirrorAddress = "mocknet-mirror:5600"
)

var OperatorAccountId = ledger.NewAccountId(0, 0, 2)

// ScriptEntry replaces the normal handling of one request to a node. A
// non-zero Code fails the call with that gRPC code, otherwise the node
// answers with Status.
type ScriptEntry struct {
	// Method limits the entry to one RPC. Empty matches any method
	Method string
	Status protocol.Status
	Code   codes.Code
	Cost   uint64
}

// MirrorEntry fails a topic stream with Code after AfterMessages messages
// were sent on it
type MirrorEntry struct {
	AfterMessages int
	Code          codes.Code
}

// Request is a recorded unary call
type Request struct {
	Node   ledger.AccountId
	Method string
	// Set for transaction methods
	Body *protocol.TransactionBody
	// Set for query methods
	Query *protocol.Query
}

// Paid reports whether the request is a query carrying a payment
func (r Request) Paid() bool {
	return r.Query != nil && r.Query.Header.Payment != nil
}

type OptionFunc func(*Network)

// WithNodeCount sets the number of consensus nodes. Node account ids start
// at 0.0.3
func WithNodeCount(count int) OptionFunc {
	return func(n *Network) {
		n.nodeCount = count
	}
}

// WithQueryCost sets the cost in tinybars reported for paid queries
func WithQueryCost(cost uint64) OptionFunc {
	return func(n *Network) {
		n.queryCost = cost
	}
}

// WithReceiptPolls sets how many receipt queries answer UNKNOWN before the
// final status is returned
func WithReceiptPolls(polls int) OptionFunc {
	return func(n *Network) {
		n.receiptPolls = polls
	}
}

type mockServer struct {
	address  string
	listener *bufconn.Listener
	server   *grpc.Server
}

// Network is the mock network
type Network struct {
	nodeCount    int
	queryCost    uint64
	receiptPolls int
	operatorKey  keys.PrivateKey
	servers      []*mockServer
	nodes        map[string]ledger.AccountId
	serveWg      sync.WaitGroup
	onceClose    sync.Once
	mutex        sync.Mutex
	ledger       *mockLedger
	scripts      map[ledger.AccountId][]ScriptEntry
	mirrorScript []MirrorEntry
	requests     []Request
	subscribes   []protocol.ConsensusTopicQuery
}

// New starts a mock network
func New(options ...OptionFunc) (*Network, error) {
	n := &Network{
		nodeCount:    DefaultNodeCount,
		queryCost:    DefaultQueryCost,
		receiptPolls: DefaultReceiptPolls,
		nodes:        make(map[string]ledger.AccountId),
		scripts:      make(map[ledger.AccountId][]ScriptEntry),
	}
	for _, option := range options {
		option(n)
	}
	if n.nodeCount <= 0 {
		return nil, errors.New("mocknet: node count must be positive")
	}
	operatorKey, err := keys.GenerateEd25519PrivateKey()
	if err != nil {
		return nil, err
	}
	n.operatorKey = operatorKey
	n.ledger = newMockLedger()
	n.ledger.addAccount(OperatorAccountId, operatorKey.PublicKey(), DefaultOperatorBalance, false)
	for i := 0; i < n.nodeCount; i++ {
		accountId := ledger.NewAccountId(0, 0, uint64(3+i)) // #nosec G115
		address := fmt.Sprintf("mocknet-node-%d:50211", 3+i)
		n.nodes[address] = accountId
		// Nodes are accounts too, they receive query payments
		n.ledger.addAccount(accountId, keys.PublicKey{}, 0, false)
		server := grpc.NewServer(grpc.ForceServerCodec(protocol.Codec{}))
		n.registerNodeServices(server, accountId)
		n.start(address, server)
	}
	server := grpc.NewServer(grpc.ForceServerCodec(protocol.Codec{}))
	n.registerMirrorService(server)
	n.start(mirrorAddress, server)
	return n, nil
}

func (n *Network) start(address string, server *grpc.Server) {
	s := &mockServer{
		address:  address,
		listener: bufconn.Listen(bufferSize),
		server:   server,
	}
	n.servers = append(n.servers, s)
	n.serveWg.Add(1)
	go func() {
		defer n.serveWg.Done()
		// Serve only returns once the server is stopped
		_ = s.server.Serve(s.listener)
	}()
}

// Close stops every server and waits for them to exit
func (n *Network) Close() {
	n.onceClose.Do(func() {
		for _, s := range n.servers {
			s.server.Stop()
		}
		n.serveWg.Wait()
	})
}

// Nodes returns the node addresses and account ids
func (n *Network) Nodes() map[string]ledger.AccountId {
	ret := make(map[string]ledger.AccountId, len(n.nodes))
	for address, accountId := range n.nodes {
		ret[address] = accountId
	}
	return ret
}

// NodeAccountIds returns the node account ids in order
func (n *Network) NodeAccountIds() []ledger.AccountId {
	ret := make([]ledger.AccountId, 0, len(n.nodes))
	for _, accountId := range n.nodes {
		ret = append(ret, accountId)
	}
	slices.SortFunc(
		ret,
		func(a, b ledger.AccountId) int {
			return a.Compare(b.EntityId)
		},
	)
	return ret
}

func (n *Network) MirrorAddresses() []string {
	return []string{mirrorAddress}
}

// DialOption connects clients to the mock servers instead of the network
func (n *Network) DialOption() grpc.DialOption {
	return grpc.WithContextDialer(
		func(ctx context.Context, address string) (net.Conn, error) {
			for _, s := range n.servers {
				if s.address == address {
					return s.listener.DialContext(ctx)
				}
			}
			return nil, fmt.Errorf("mocknet: unknown address %s", address)
		},
	)
}

// OperatorKey returns the key of the operator account 0.0.2
func (n *Network) OperatorKey() keys.PrivateKey {
	return n.operatorKey
}

// Script queues entries that replace the handling of the next requests to
// the node
func (n *Network) Script(node ledger.AccountId, entries ...ScriptEntry) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.scripts[node] = append(n.scripts[node], entries...)
}

// ScriptMirror queues failures for the next topic streams
func (n *Network) ScriptMirror(entries ...MirrorEntry) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.mirrorScript = append(n.mirrorScript, entries...)
}

// Requests returns every unary request received so far
func (n *Network) Requests() []Request {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return slices.Clone(n.requests)
}

// RequestsFor returns the requests for a single method
func (n *Network) RequestsFor(method string) []Request {
	var ret []Request
	for _, req := range n.Requests() {
		if req.Method == method {
			ret = append(ret, req)
		}
	}
	return ret
}

// PaidQueries returns the number of queries that carried a payment
func (n *Network) PaidQueries() int {
	var ret int
	for _, req := range n.Requests() {
		if req.Paid() {
			ret++
		}
	}
	return ret
}

// SubscribeRequests returns the topic stream requests received so far
func (n *Network) SubscribeRequests() []protocol.ConsensusTopicQuery {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return slices.Clone(n.subscribes)
}

// AddAccount creates an account directly in the ledger
func (n *Network) AddAccount(key keys.PublicKey, balance int64, receiverSigRequired bool) ledger.AccountId {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	accountId := n.ledger.nextAccountId()
	n.ledger.addAccount(accountId, key, balance, receiverSigRequired)
	return accountId
}

// Balance returns the balance of an account in tinybars
func (n *Network) Balance(accountId ledger.AccountId) (int64, bool) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	account, ok := n.ledger.accounts[accountId]
	if !ok {
		return 0, false
	}
	return account.balance, true
}

// SubmitTopicMessage adds a message to a topic without going through a node
func (n *Network) SubmitTopicMessage(topicId ledger.TopicId, message []byte) error {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	topic, ok := n.ledger.topics[topicId]
	if !ok {
		return fmt.Errorf("mocknet: unknown topic %s", topicId.String())
	}
	n.ledger.appendTopicMessage(topic, message, nil)
	return nil
}

// CreateTopic creates a topic directly in the ledger
func (n *Network) CreateTopic() ledger.TopicId {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return n.ledger.createTopic("", nil)
}

// nextScript pops the next script entry for the node and method. The
// caller must hold the mutex
func (n *Network) nextScript(node ledger.AccountId, method string) (ScriptEntry, bool) {
	entries := n.scripts[node]
	for i, entry := range entries {
		if entry.Method == "" || entry.Method == method {
			n.scripts[node] = slices.Delete(entries, i, i+1)
			return entry, true
		}
	}
	return ScriptEntry{}, false
}
