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

package mocknet

import (
	"context"
	"slices"
	"strings"

	"github.com/blinklabs-io/gohedera/cbor"
	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Queries answered without a payment
var freeQueryMethods = []string{
	protocol.MethodCryptoGetBalance,
	protocol.MethodGetTransactionReceipts,
	protocol.MethodNetworkGetVersionInfo,
}

// Versions reported by every node
var (
	ProtocolVersion = protocol.SemanticVersion{Major: 0, Minor: 58, Patch: 0}
	ServicesVersion = protocol.SemanticVersion{Major: 0, Minor: 58, Patch: 3}
)

// registerNodeServices registers a handler for every transaction and query
// method, grouped into their services
func (n *Network) registerNodeServices(server *grpc.Server, node ledger.AccountId) {
	services := make(map[string]*grpc.ServiceDesc)
	serviceDesc := func(name string) *grpc.ServiceDesc {
		if _, ok := services[name]; !ok {
			services[name] = &grpc.ServiceDesc{
				ServiceName: name,
				HandlerType: (*any)(nil),
			}
		}
		return services[name]
	}
	for _, method := range protocol.TransactionMethods() {
		serviceName, methodName := protocol.SplitMethod(method)
		desc := serviceDesc(serviceName)
		desc.Methods = append(
			desc.Methods,
			grpc.MethodDesc{
				MethodName: methodName,
				Handler:    n.transactionHandler(node, method),
			},
		)
	}
	for _, method := range protocol.QueryMethods() {
		serviceName, methodName := protocol.SplitMethod(method)
		desc := serviceDesc(serviceName)
		desc.Methods = append(
			desc.Methods,
			grpc.MethodDesc{
				MethodName: methodName,
				Handler:    n.queryHandler(node, method),
			},
		)
	}
	for _, desc := range services {
		server.RegisterService(desc, struct{}{})
	}
}

func (n *Network) transactionHandler(node ledger.AccountId, method string) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(_ any, _ context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
		tx := &protocol.Transaction{}
		if err := dec(tx); err != nil {
			return nil, err
		}
		return n.handleTransaction(node, method, tx)
	}
}

func (n *Network) queryHandler(node ledger.AccountId, method string) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(_ any, _ context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
		query := &protocol.Query{}
		if err := dec(query); err != nil {
			return nil, err
		}
		return n.handleQuery(node, method, query)
	}
}

func precheck(status protocol.Status) *protocol.TransactionResponse {
	return &protocol.TransactionResponse{NodeTransactionPrecheckCode: status}
}

func (n *Network) handleTransaction(
	node ledger.AccountId,
	method string,
	tx *protocol.Transaction,
) (*protocol.TransactionResponse, error) {
	signed := &protocol.SignedTransaction{}
	if _, err := cbor.Decode(tx.SignedTransactionBytes, signed); err != nil {
		return precheck(protocol.StatusInvalidTransaction), nil
	}
	body := &protocol.TransactionBody{}
	if _, err := cbor.Decode(signed.BodyBytes, body); err != nil {
		return precheck(protocol.StatusInvalidTransactionBody), nil
	}
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.requests = append(
		n.requests,
		Request{Node: node, Method: method, Body: body},
	)
	if entry, ok := n.nextScript(node, method); ok {
		if entry.Code != codes.OK {
			return nil, status.Error(entry.Code, "mocknet: scripted failure")
		}
		return &protocol.TransactionResponse{
			NodeTransactionPrecheckCode: entry.Status,
			Cost:                        entry.Cost,
		}, nil
	}
	if bodyMethod, err := body.Method(); err != nil || bodyMethod != method {
		return precheck(protocol.StatusInvalidTransactionBody), nil
	}
	if !body.NodeAccountID.AccountId().Equal(node) {
		return precheck(protocol.StatusInvalidNodeAccount), nil
	}
	validStart := body.TransactionID.ValidStart.Time()
	now := n.ledger.consensusTime()
	if validStart.After(now) {
		return precheck(protocol.StatusInvalidTransactionStart), nil
	}
	if now.After(validStart.Add(body.ValidDuration.Duration())) {
		return precheck(protocol.StatusTransactionExpired), nil
	}
	payerId := body.TransactionID.AccountID.AccountId()
	payer, ok := n.ledger.accounts[payerId]
	if !ok {
		return precheck(protocol.StatusPayerAccountNotFound), nil
	}
	signerKeys := signers(signed)
	if !signedBy(signerKeys, payer.key) {
		return precheck(protocol.StatusInvalidSignature), nil
	}
	transactionId := transactionIdString(body.TransactionID)
	if _, ok := n.ledger.receipts[transactionId]; ok {
		return precheck(protocol.StatusDuplicateTransaction), nil
	}
	receipt := n.ledger.apply(body, signerKeys)
	var transfers []protocol.AccountAmount
	if body.CryptoTransfer != nil && receipt.Status == protocol.StatusSuccess {
		transfers = body.CryptoTransfer.Transfers
	}
	n.ledger.receipts[transactionId] = &mockReceipt{
		record: protocol.TransactionRecord{
			Receipt:            receipt,
			TransactionHash:    ledger.Blake2b384Hash(tx.SignedTransactionBytes).Bytes(),
			ConsensusTimestamp: protocol.NewTimestamp(n.ledger.consensusTime()),
			TransactionID:      body.TransactionID,
			Memo:               body.Memo,
			TransferList:       transfers,
		},
		pendingPolls: n.receiptPolls,
	}
	return precheck(protocol.StatusOk), nil
}

func transactionIdString(id protocol.TransactionID) string {
	var sb strings.Builder
	sb.WriteString(id.AccountID.AccountId().String())
	sb.WriteString("@")
	sb.WriteString(id.ValidStart.Time().Format("20060102150405.000000000"))
	return sb.String()
}

func queryResponse(status protocol.Status) *protocol.Response {
	return &protocol.Response{
		Header: protocol.ResponseHeader{NodeTransactionPrecheckCode: status},
	}
}

func (n *Network) handleQuery(
	node ledger.AccountId,
	method string,
	query *protocol.Query,
) (*protocol.Response, error) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.requests = append(
		n.requests,
		Request{Node: node, Method: method, Query: query},
	)
	if entry, ok := n.nextScript(node, method); ok {
		if entry.Code != codes.OK {
			return nil, status.Error(entry.Code, "mocknet: scripted failure")
		}
		resp := queryResponse(entry.Status)
		resp.Header.Cost = entry.Cost
		return resp, nil
	}
	free := slices.Contains(freeQueryMethods, method)
	if query.Header.ResponseType == protocol.ResponseTypeCostAnswer {
		resp := queryResponse(protocol.StatusOk)
		resp.Header.ResponseType = protocol.ResponseTypeCostAnswer
		if !free {
			resp.Header.Cost = n.queryCost
		}
		return resp, nil
	}
	if !free {
		if status := n.checkPayment(node, query.Header.Payment); status != protocol.StatusOk {
			return queryResponse(status), nil
		}
	}
	return n.answerQuery(query), nil
}

// checkPayment verifies that the payment pays this node at least the query
// cost and is signed by the payer. The caller must hold the mutex
func (n *Network) checkPayment(node ledger.AccountId, payment *protocol.Transaction) protocol.Status {
	if payment == nil {
		return protocol.StatusInsufficientTxFee
	}
	signed := &protocol.SignedTransaction{}
	if _, err := cbor.Decode(payment.SignedTransactionBytes, signed); err != nil {
		return protocol.StatusInvalidTransaction
	}
	body := &protocol.TransactionBody{}
	if _, err := cbor.Decode(signed.BodyBytes, body); err != nil || body.CryptoTransfer == nil {
		return protocol.StatusInvalidTransactionBody
	}
	payer, ok := n.ledger.accounts[body.TransactionID.AccountID.AccountId()]
	if !ok {
		return protocol.StatusPayerAccountNotFound
	}
	if !signedBy(signers(signed), payer.key) {
		return protocol.StatusInvalidSignature
	}
	var paid int64
	for _, amount := range body.CryptoTransfer.Transfers {
		if amount.AccountID.AccountId().Equal(node) {
			paid += amount.Amount
		}
	}
	if paid < int64(n.queryCost) { // #nosec G115
		return protocol.StatusInsufficientTxFee
	}
	return protocol.StatusOk
}

// answerQuery answers a query that passed precheck. The caller must hold
// the mutex
func (n *Network) answerQuery(query *protocol.Query) *protocol.Response {
	resp := queryResponse(protocol.StatusOk)
	switch {
	case query.CryptoGetAccountBalance != nil:
		account, ok := n.ledger.accounts[query.CryptoGetAccountBalance.AccountID.AccountId()]
		if !ok {
			return queryResponse(protocol.StatusInvalidAccountId)
		}
		resp.CryptoGetAccountBalance = &protocol.CryptoGetAccountBalanceResponse{
			AccountID: query.CryptoGetAccountBalance.AccountID,
			Balance:   uint64(account.balance), // #nosec G115
		}
	case query.CryptoGetInfo != nil:
		account, ok := n.ledger.accounts[query.CryptoGetInfo.AccountID.AccountId()]
		if !ok {
			return queryResponse(protocol.StatusInvalidAccountId)
		}
		resp.CryptoGetInfo = &protocol.CryptoGetInfoResponse{
			AccountID:           query.CryptoGetInfo.AccountID,
			Key:                 account.key.ProtocolKey(),
			Balance:             uint64(account.balance), // #nosec G115
			ReceiverSigRequired: account.receiverSigRequired,
			Memo:                account.memo,
		}
	case query.FileGetInfo != nil:
		file, ok := n.ledger.files[query.FileGetInfo.FileID.FileId()]
		if !ok {
			return queryResponse(protocol.StatusInvalidFileId)
		}
		resp.FileGetInfo = &protocol.FileGetInfoResponse{
			FileID:         query.FileGetInfo.FileID,
			Size:           int64(len(file.contents)),
			ExpirationTime: protocol.NewTimestamp(file.expirationTime),
			Keys:           keys.KeyListFromPublicKeys(file.keys...),
			Memo:           file.memo,
		}
	case query.FileGetContents != nil:
		file, ok := n.ledger.files[query.FileGetContents.FileID.FileId()]
		if !ok {
			return queryResponse(protocol.StatusInvalidFileId)
		}
		resp.FileGetContents = &protocol.FileGetContentsResponse{
			FileID:   query.FileGetContents.FileID,
			Contents: file.contents,
		}
	case query.TransactionGetReceipt != nil:
		receipt, ok := n.ledger.receipts[transactionIdString(query.TransactionGetReceipt.TransactionID)]
		if !ok {
			return queryResponse(protocol.StatusReceiptNotFound)
		}
		ret := receipt.record.Receipt
		if receipt.pendingPolls > 0 {
			receipt.pendingPolls--
			ret = protocol.TransactionReceipt{Status: protocol.StatusUnknown}
		}
		resp.TransactionGetReceipt = &protocol.TransactionGetReceiptResponse{
			Receipt: ret,
		}
	case query.TransactionGetRecord != nil:
		receipt, ok := n.ledger.receipts[transactionIdString(query.TransactionGetRecord.TransactionID)]
		if !ok {
			return queryResponse(protocol.StatusRecordNotFound)
		}
		resp.TransactionGetRecord = &protocol.TransactionGetRecordResponse{
			Record: receipt.record,
		}
	case query.NetworkGetVersionInfo != nil:
		resp.NetworkGetVersionInfo = &protocol.NetworkGetVersionInfoResponse{
			ProtocolVersion: ProtocolVersion,
			ServicesVersion: ServicesVersion,
		}
	default:
		return queryResponse(protocol.StatusEmptyQueryBody)
	}
	return resp
}
