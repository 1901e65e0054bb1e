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
	"io"
	"slices"
	"time"

	"github.com/blinklabs-io/gohedera/ledger"
	"github.com/blinklabs-io/gohedera/protocol"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
)

var topicStreamDesc = &grpc.StreamDesc{
	StreamName:    "subscribeTopic",
	ServerStreams: true,
}

type TopicMessageChunk struct {
	ConsensusTimestamp time.Time
	ContentSize        int
	RunningHash        []byte
	SequenceNumber     uint64
}

// TopicMessage is a message delivered by a topic subscription. Chunked
// messages are delivered once all of their chunks arrived, with the values
// of the last chunk.
type TopicMessage struct {
	ConsensusTimestamp time.Time
	Contents           []byte
	RunningHash        []byte
	SequenceNumber     uint64
	Chunks             []TopicMessageChunk
	TransactionId      *TransactionId
}

// TopicMessageQuery subscribes to the messages of a topic from the mirror
// network
type TopicMessageQuery struct {
	topicId        ledger.TopicId
	startTime      time.Time
	endTime        time.Time
	limit          uint64
	retryableCodes []codes.Code
}

func NewTopicMessageQuery() *TopicMessageQuery {
	return &TopicMessageQuery{
		retryableCodes: slices.Clone(DefaultRetryableStreamCodes),
	}
}

func (q *TopicMessageQuery) SetTopicId(topicId ledger.TopicId) *TopicMessageQuery {
	q.topicId = topicId
	return q
}

func (q *TopicMessageQuery) GetTopicId() ledger.TopicId {
	return q.topicId
}

// SetStartTime sets the consensus timestamp of the first message. Messages
// are streamed from the beginning of the topic by default.
func (q *TopicMessageQuery) SetStartTime(startTime time.Time) *TopicMessageQuery {
	q.startTime = startTime
	return q
}

func (q *TopicMessageQuery) GetStartTime() time.Time {
	return q.startTime
}

// SetEndTime ends the stream at the given consensus timestamp. The stream
// stays open for new messages by default.
func (q *TopicMessageQuery) SetEndTime(endTime time.Time) *TopicMessageQuery {
	q.endTime = endTime
	return q
}

func (q *TopicMessageQuery) GetEndTime() time.Time {
	return q.endTime
}

// SetLimit ends the stream after the given number of messages. Each chunk
// counts as a message.
func (q *TopicMessageQuery) SetLimit(limit uint64) *TopicMessageQuery {
	q.limit = limit
	return q
}

func (q *TopicMessageQuery) GetLimit() uint64 {
	return q.limit
}

// SetRetryableCodes replaces the stream error codes that are retried a
// bounded number of times
func (q *TopicMessageQuery) SetRetryableCodes(retryableCodes ...codes.Code) *TopicMessageQuery {
	q.retryableCodes = slices.Clone(retryableCodes)
	return q
}

// Subscribe returns a subscription to the topic. No stream is opened until
// the first call to Next.
func (q *TopicMessageQuery) Subscribe(ctx context.Context, client *Client) (*Subscription[TopicMessage], error) {
	if client == nil || len(client.mirror.Addresses()) == 0 {
		return nil, ErrNoMirrorNodes
	}
	if q.topicId.IsZero() {
		return nil, ErrMissingTopicId
	}
	if client.autoValidateChecksums {
		if err := q.topicId.ValidateChecksum(client.LedgerId()); err != nil {
			return nil, err
		}
	}
	handler := &topicMessageHandler{
		topicId:   q.topicId,
		startTime: q.startTime,
		endTime:   q.endTime,
		limit:     q.limit,
		pending:   make(map[string][]*protocol.ConsensusTopicResponse),
	}
	return newSubscription(ctx, client, handler, q.retryableCodes), nil
}

type topicMessageHandler struct {
	topicId   ledger.TopicId
	startTime time.Time
	endTime   time.Time
	limit     uint64
	// Resume point
	lastTimestamp time.Time
	received      uint64
	// Chunks by initial transaction ID
	pending map[string][]*protocol.ConsensusTopicResponse
}

func (h *topicMessageHandler) name() string {
	return h.topicId.String()
}

func (h *topicMessageHandler) openStream(ctx context.Context, conn *grpc.ClientConn) (grpc.ClientStream, error) {
	req := &protocol.ConsensusTopicQuery{
		TopicID: protocol.NewEntityID(h.topicId.EntityId),
	}
	startTime := h.startTime
	if !h.lastTimestamp.IsZero() {
		startTime = h.lastTimestamp.Add(time.Nanosecond)
	}
	if !startTime.IsZero() {
		tmp := protocol.NewTimestamp(startTime)
		req.ConsensusStartTime = &tmp
	}
	if !h.endTime.IsZero() {
		tmp := protocol.NewTimestamp(h.endTime)
		req.ConsensusEndTime = &tmp
	}
	if h.limit > 0 {
		if h.received >= h.limit {
			return nil, io.EOF
		}
		req.Limit = h.limit - h.received
	}
	stream, err := conn.NewStream(
		ctx,
		topicStreamDesc,
		protocol.MethodMirrorSubscribeTopic,
		grpc.CallContentSubtype(protocol.CodecName),
	)
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(req); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}
	return stream, nil
}

func (h *topicMessageHandler) receive(stream grpc.ClientStream) (TopicMessage, bool, error) {
	resp := &protocol.ConsensusTopicResponse{}
	if err := stream.RecvMsg(resp); err != nil {
		return TopicMessage{}, false, err
	}
	h.lastTimestamp = resp.ConsensusTimestamp.Time()
	h.received++
	if resp.ChunkInfo == nil || resp.ChunkInfo.Total <= 1 {
		return newTopicMessage([]*protocol.ConsensusTopicResponse{resp}), true, nil
	}
	key := transactionIdFromProtocol(resp.ChunkInfo.InitialTransactionID).String()
	h.pending[key] = append(h.pending[key], resp)
	if len(h.pending[key]) < int(resp.ChunkInfo.Total) {
		return TopicMessage{}, false, nil
	}
	chunks := h.pending[key]
	delete(h.pending, key)
	return newTopicMessage(chunks), true, nil
}

func newTopicMessage(chunks []*protocol.ConsensusTopicResponse) TopicMessage {
	slices.SortFunc(
		chunks,
		func(a, b *protocol.ConsensusTopicResponse) int {
			return int(chunkNumber(a) - chunkNumber(b))
		},
	)
	last := chunks[len(chunks)-1]
	ret := TopicMessage{
		ConsensusTimestamp: last.ConsensusTimestamp.Time(),
		RunningHash:        slices.Clone(last.RunningHash),
		SequenceNumber:     last.SequenceNumber,
	}
	var contents bytes.Buffer
	for _, chunk := range chunks {
		contents.Write(chunk.Message)
		ret.Chunks = append(
			ret.Chunks,
			TopicMessageChunk{
				ConsensusTimestamp: chunk.ConsensusTimestamp.Time(),
				ContentSize:        len(chunk.Message),
				RunningHash:        slices.Clone(chunk.RunningHash),
				SequenceNumber:     chunk.SequenceNumber,
			},
		)
	}
	ret.Contents = contents.Bytes()
	if first := chunks[0]; first.ChunkInfo != nil {
		transactionId := transactionIdFromProtocol(first.ChunkInfo.InitialTransactionID)
		ret.TransactionId = &transactionId
	}
	return ret
}

func chunkNumber(resp *protocol.ConsensusTopicResponse) int32 {
	if resp.ChunkInfo == nil {
		return 0
	}
	return resp.ChunkInfo.Number
}
