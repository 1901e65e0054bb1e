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
	"time"

	"github.com/blinklabs-io/gohedera/protocol"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (n *Network) registerMirrorService(server *grpc.Server) {
	serviceName, methodName := protocol.SplitMethod(protocol.MethodMirrorSubscribeTopic)
	server.RegisterService(
		&grpc.ServiceDesc{
			ServiceName: serviceName,
			HandlerType: (*any)(nil),
			Streams: []grpc.StreamDesc{
				{
					StreamName:    methodName,
					Handler:       n.subscribeTopicHandler,
					ServerStreams: true,
				},
			},
		},
		struct{}{},
	)
}

func (n *Network) subscribeTopicHandler(_ any, stream grpc.ServerStream) error {
	req := &protocol.ConsensusTopicQuery{}
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	n.mutex.Lock()
	n.subscribes = append(n.subscribes, *req)
	topic, ok := n.ledger.topics[req.TopicID.TopicId()]
	var failure *MirrorEntry
	if len(n.mirrorScript) > 0 {
		failure = &n.mirrorScript[0]
		n.mirrorScript = n.mirrorScript[1:]
	}
	n.mutex.Unlock()
	if !ok {
		return status.Error(codes.NotFound, "mocknet: topic does not exist")
	}
	if failure != nil && failure.AfterMessages == 0 {
		return status.Error(failure.Code, "mocknet: scripted stream failure")
	}
	var startTime, endTime time.Time
	if req.ConsensusStartTime != nil {
		startTime = req.ConsensusStartTime.Time()
	}
	if req.ConsensusEndTime != nil {
		endTime = req.ConsensusEndTime.Time()
	}
	var sent uint64
	next := 0
	for {
		n.mutex.Lock()
		pending := topic.messages[next:]
		next = len(topic.messages)
		notify := topic.notify
		n.mutex.Unlock()
		for _, msg := range pending {
			if msg.consensusTimestamp.Before(startTime) {
				continue
			}
			if !endTime.IsZero() && !msg.consensusTimestamp.Before(endTime) {
				return nil
			}
			resp := &protocol.ConsensusTopicResponse{
				ConsensusTimestamp: protocol.NewTimestamp(msg.consensusTimestamp),
				Message:            msg.message,
				RunningHash:        msg.runningHash,
				SequenceNumber:     msg.sequenceNumber,
				RunningHashVersion: runningHashVersion,
				ChunkInfo:          msg.chunkInfo,
			}
			if err := stream.SendMsg(resp); err != nil {
				return err
			}
			sent++
			if req.Limit > 0 && sent >= req.Limit {
				return nil
			}
			if failure != nil && sent >= uint64(failure.AfterMessages) { // #nosec G115
				return status.Error(failure.Code, "mocknet: scripted stream failure")
			}
		}
		if !endTime.IsZero() && !time.Now().Before(endTime) {
			return nil
		}
		select {
		case <-notify:
		case <-stream.Context().Done():
			return stream.Context().Err()
		}
	}
}
