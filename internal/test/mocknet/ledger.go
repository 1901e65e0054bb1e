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
	"encoding/binary"
	"time"

	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
	"golang.org/x/crypto/sha3"
)

const (
	firstEntityNum        = 1001
	defaultFileExpiration = 90 * 24 * time.Hour
	runningHashVersion    = 3
)

type mockAccount struct {
	key                 keys.PublicKey
	balance             int64
	receiverSigRequired bool
	memo                string
}

type mockFile struct {
	keys           []keys.PublicKey
	contents       []byte
	expirationTime time.Time
	memo           string
}

type mockTopicMessage struct {
	consensusTimestamp time.Time
	message            []byte
	runningHash        []byte
	sequenceNumber     uint64
	chunkInfo          *protocol.ChunkInfo
}

type mockTopic struct {
	id          ledger.TopicId
	memo        string
	submitKey   *keys.PublicKey
	runningHash []byte
	messages    []mockTopicMessage
	// Closed and replaced whenever a message is added
	notify chan struct{}
}

type mockReceipt struct {
	record       protocol.TransactionRecord
	pendingPolls int
}

type mockLedger struct {
	accounts      map[ledger.AccountId]*mockAccount
	files         map[ledger.FileId]*mockFile
	topics        map[ledger.TopicId]*mockTopic
	receipts      map[string]*mockReceipt
	nextNum       uint64
	lastConsensus time.Time
}

func newMockLedger() *mockLedger {
	return &mockLedger{
		accounts: make(map[ledger.AccountId]*mockAccount),
		files:    make(map[ledger.FileId]*mockFile),
		topics:   make(map[ledger.TopicId]*mockTopic),
		receipts: make(map[string]*mockReceipt),
		nextNum:  firstEntityNum,
	}
}

// consensusTime returns strictly increasing timestamps
func (l *mockLedger) consensusTime() time.Time {
	now := time.Now().UTC()
	if !now.After(l.lastConsensus) {
		now = l.lastConsensus.Add(time.Nanosecond)
	}
	l.lastConsensus = now
	return now
}

func (l *mockLedger) nextEntityNum() uint64 {
	ret := l.nextNum
	l.nextNum++
	return ret
}

func (l *mockLedger) nextAccountId() ledger.AccountId {
	return ledger.NewAccountId(0, 0, l.nextEntityNum())
}

func (l *mockLedger) addAccount(accountId ledger.AccountId, key keys.PublicKey, balance int64, receiverSigRequired bool) {
	l.accounts[accountId] = &mockAccount{
		key:                 key,
		balance:             balance,
		receiverSigRequired: receiverSigRequired,
	}
}

func (l *mockLedger) createTopic(memo string, submitKey *keys.PublicKey) ledger.TopicId {
	topicId := ledger.NewTopicId(0, 0, l.nextEntityNum())
	l.topics[topicId] = &mockTopic{
		id:          topicId,
		memo:        memo,
		submitKey:   submitKey,
		runningHash: make([]byte, 48),
		notify:      make(chan struct{}),
	}
	return topicId
}

func (l *mockLedger) appendTopicMessage(topic *mockTopic, message []byte, chunkInfo *protocol.ChunkInfo) mockTopicMessage {
	sequenceNumber := uint64(len(topic.messages)) + 1
	// Running hash over the previous hash, the topic and the message
	hasher := sha3.New384()
	hasher.Write(topic.runningHash)
	hasher.Write(binary.BigEndian.AppendUint64(nil, topic.id.Num))
	hasher.Write(binary.BigEndian.AppendUint64(nil, sequenceNumber))
	hasher.Write(message)
	topic.runningHash = hasher.Sum(nil)
	msg := mockTopicMessage{
		consensusTimestamp: l.consensusTime(),
		message:            append([]byte(nil), message...),
		runningHash:        topic.runningHash,
		sequenceNumber:     sequenceNumber,
		chunkInfo:          chunkInfo,
	}
	topic.messages = append(topic.messages, msg)
	close(topic.notify)
	topic.notify = make(chan struct{})
	return msg
}

// signers collects the public keys that produced valid signatures over the
// body
func signers(signed *protocol.SignedTransaction) []keys.PublicKey {
	var ret []keys.PublicKey
	for _, pair := range signed.SigMap.SigPair {
		publicKey, err := keys.PublicKeyFromBytes(pair.PubKeyPrefix)
		if err != nil {
			continue
		}
		if publicKey.Verify(signed.BodyBytes, pair.Signature()) {
			ret = append(ret, publicKey)
		}
	}
	return ret
}

func signedBy(signerKeys []keys.PublicKey, key keys.PublicKey) bool {
	for _, signerKey := range signerKeys {
		if signerKey.Equal(key) {
			return true
		}
	}
	return false
}

// apply executes a transaction that passed precheck and returns its
// receipt
func (l *mockLedger) apply(body *protocol.TransactionBody, signerKeys []keys.PublicKey) protocol.TransactionReceipt {
	switch {
	case body.CryptoTransfer != nil:
		return l.applyTransfer(body.CryptoTransfer, signerKeys)
	case body.CryptoCreateAccount != nil:
		return l.applyCreateAccount(body, signerKeys)
	case body.FileCreate != nil:
		return l.applyFileCreate(body.FileCreate)
	case body.FileAppend != nil:
		return l.applyFileAppend(body.FileAppend, signerKeys)
	case body.ConsensusCreateTopic != nil:
		return l.applyCreateTopic(body.ConsensusCreateTopic)
	case body.ConsensusSubmitMessage != nil:
		return l.applySubmitMessage(body, signerKeys)
	}
	return protocol.TransactionReceipt{Status: protocol.StatusInvalidTransactionBody}
}

func (l *mockLedger) applyTransfer(transfer *protocol.CryptoTransferBody, signerKeys []keys.PublicKey) protocol.TransactionReceipt {
	var sum int64
	for _, amount := range transfer.Transfers {
		account, ok := l.accounts[amount.AccountID.AccountId()]
		if !ok {
			return protocol.TransactionReceipt{Status: protocol.StatusInvalidAccountId}
		}
		// Senders always sign, receivers only when the account asks for it
		if amount.Amount < 0 || account.receiverSigRequired {
			if !signedBy(signerKeys, account.key) {
				return protocol.TransactionReceipt{Status: protocol.StatusInvalidSignature}
			}
		}
		if account.balance+amount.Amount < 0 {
			return protocol.TransactionReceipt{Status: protocol.StatusInsufficientAccountBalance}
		}
		sum += amount.Amount
	}
	if sum != 0 {
		return protocol.TransactionReceipt{Status: protocol.StatusInvalidAccountAmounts}
	}
	for _, amount := range transfer.Transfers {
		l.accounts[amount.AccountID.AccountId()].balance += amount.Amount
	}
	return protocol.TransactionReceipt{Status: protocol.StatusSuccess}
}

func (l *mockLedger) applyCreateAccount(body *protocol.TransactionBody, signerKeys []keys.PublicKey) protocol.TransactionReceipt {
	create := body.CryptoCreateAccount
	key, err := keys.PublicKeyFromProtocol(create.Key)
	if err != nil {
		return protocol.TransactionReceipt{Status: protocol.StatusKeyRequired}
	}
	if create.ReceiverSigRequired && !signedBy(signerKeys, key) {
		return protocol.TransactionReceipt{Status: protocol.StatusInvalidSignature}
	}
	payer := l.accounts[body.TransactionID.AccountID.AccountId()]
	initialBalance := int64(create.InitialBalance) // #nosec G115
	if payer.balance < initialBalance {
		return protocol.TransactionReceipt{Status: protocol.StatusInsufficientPayerBalance}
	}
	payer.balance -= initialBalance
	accountId := l.nextAccountId()
	l.addAccount(accountId, key, initialBalance, create.ReceiverSigRequired)
	l.accounts[accountId].memo = create.Memo
	tmpId := protocol.NewEntityID(accountId.EntityId)
	return protocol.TransactionReceipt{
		Status:    protocol.StatusSuccess,
		AccountID: &tmpId,
	}
}

func (l *mockLedger) applyFileCreate(create *protocol.FileCreateBody) protocol.TransactionReceipt {
	file := &mockFile{
		contents:       append([]byte(nil), create.Contents...),
		expirationTime: l.lastConsensus.Add(defaultFileExpiration),
		memo:           create.Memo,
	}
	if create.ExpirationTime != nil {
		file.expirationTime = create.ExpirationTime.Time()
	}
	for _, tmpKey := range create.Keys.Keys {
		key, err := keys.PublicKeyFromProtocol(tmpKey)
		if err != nil {
			return protocol.TransactionReceipt{Status: protocol.StatusInvalidKeyEncoding}
		}
		file.keys = append(file.keys, key)
	}
	fileId := ledger.NewFileId(0, 0, l.nextEntityNum())
	l.files[fileId] = file
	tmpId := protocol.NewEntityID(fileId.EntityId)
	return protocol.TransactionReceipt{
		Status: protocol.StatusSuccess,
		FileID: &tmpId,
	}
}

func (l *mockLedger) applyFileAppend(appendBody *protocol.FileAppendBody, signerKeys []keys.PublicKey) protocol.TransactionReceipt {
	file, ok := l.files[appendBody.FileID.FileId()]
	if !ok {
		return protocol.TransactionReceipt{Status: protocol.StatusInvalidFileId}
	}
	// Files without keys are immutable
	if len(file.keys) == 0 {
		return protocol.TransactionReceipt{Status: protocol.StatusInvalidSignature}
	}
	for _, key := range file.keys {
		if !signedBy(signerKeys, key) {
			return protocol.TransactionReceipt{Status: protocol.StatusInvalidSignature}
		}
	}
	file.contents = append(file.contents, appendBody.Contents...)
	return protocol.TransactionReceipt{Status: protocol.StatusSuccess}
}

func (l *mockLedger) applyCreateTopic(create *protocol.ConsensusCreateTopicBody) protocol.TransactionReceipt {
	var submitKey *keys.PublicKey
	if create.SubmitKey != nil {
		key, err := keys.PublicKeyFromProtocol(*create.SubmitKey)
		if err != nil {
			return protocol.TransactionReceipt{Status: protocol.StatusInvalidKeyEncoding}
		}
		submitKey = &key
	}
	topicId := l.createTopic(create.Memo, submitKey)
	tmpId := protocol.NewEntityID(topicId.EntityId)
	return protocol.TransactionReceipt{
		Status:  protocol.StatusSuccess,
		TopicID: &tmpId,
	}
}

func (l *mockLedger) applySubmitMessage(body *protocol.TransactionBody, signerKeys []keys.PublicKey) protocol.TransactionReceipt {
	submit := body.ConsensusSubmitMessage
	topic, ok := l.topics[submit.TopicID.TopicId()]
	if !ok {
		return protocol.TransactionReceipt{Status: protocol.StatusInvalidTopicId}
	}
	if topic.submitKey != nil && !signedBy(signerKeys, *topic.submitKey) {
		return protocol.TransactionReceipt{Status: protocol.StatusInvalidSignature}
	}
	if chunkInfo := body.ChunkInfo; chunkInfo != nil {
		if chunkInfo.Number < 1 || chunkInfo.Number > chunkInfo.Total {
			return protocol.TransactionReceipt{Status: protocol.StatusInvalidChunkNumber}
		}
		if !chunkInfo.InitialTransactionID.AccountID.AccountId().Equal(body.TransactionID.AccountID.AccountId()) {
			return protocol.TransactionReceipt{Status: protocol.StatusInvalidChunkTransactionId}
		}
	}
	msg := l.appendTopicMessage(topic, submit.Message, body.ChunkInfo)
	return protocol.TransactionReceipt{
		Status:                  protocol.StatusSuccess,
		TopicSequenceNumber:     msg.sequenceNumber,
		TopicRunningHash:        msg.runningHash,
		TopicRunningHashVersion: runningHashVersion,
	}
}
