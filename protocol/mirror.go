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

package protocol

// ConsensusTopicQuery opens a stream of messages submitted to a topic
type ConsensusTopicQuery struct {
	TopicID            EntityID   `cbor:"1,keyasint"`
	ConsensusStartTime *Timestamp `cbor:"2,keyasint,omitempty"`
	ConsensusEndTime   *Timestamp `cbor:"3,keyasint,omitempty"`
	Limit              uint64     `cbor:"4,keyasint,omitempty"`
}

type ConsensusTopicResponse struct {
	ConsensusTimestamp Timestamp  `cbor:"1,keyasint"`
	Message            []byte     `cbor:"2,keyasint,omitempty"`
	RunningHash        []byte     `cbor:"3,keyasint,omitempty"`
	SequenceNumber     uint64     `cbor:"4,keyasint"`
	RunningHashVersion uint64     `cbor:"5,keyasint,omitempty"`
	ChunkInfo          *ChunkInfo `cbor:"6,keyasint,omitempty"`
}
