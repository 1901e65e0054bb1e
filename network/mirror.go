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

package network

import (
	"google.golang.org/grpc"
)

// MirrorNetwork is the set of mirror node addresses used for streaming. It
// shares the channel contract of consensus nodes without health tracking,
// since gRPC balances across the addresses.
type MirrorNetwork struct {
	channel *Channel
}

func NewMirrorNetwork(cfg ChannelConfig, addresses []string) *MirrorNetwork {
	return &MirrorNetwork{
		channel: NewChannel(cfg, addresses),
	}
}

func (m *MirrorNetwork) Addresses() []string {
	return m.channel.Addresses()
}

func (m *MirrorNetwork) Channel() (*grpc.ClientConn, error) {
	return m.channel.Conn()
}

// InvalidateChannel forces the connection to be recreated on next use
func (m *MirrorNetwork) InvalidateChannel() {
	m.channel.Invalidate()
}

func (m *MirrorNetwork) Close() error {
	return m.channel.Close()
}
