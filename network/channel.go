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
	"crypto/tls"
	"net"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	grpcbackoff "google.golang.org/grpc/backoff"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/resolver"
	"google.golang.org/grpc/resolver/manual"
)

const (
	KeepaliveTime         = 10 * time.Second
	KeepaliveTimeout      = 10 * time.Second
	MinConnectTimeout     = 10 * time.Second
	channelResolverScheme = "gohedera"
	roundRobinConfig      = `{"loadBalancingConfig":[{"round_robin":{}}]}`
)

// Ports served with TLS by consensus and mirror nodes
var tlsPorts = []string{"443", "50212"}

// ChannelConfig holds the settings shared by all channels of a network
type ChannelConfig struct {
	// Extra dial options, applied after the defaults
	DialOptions    []grpc.DialOption
	TracerProvider trace.TracerProvider
}

// Channel is a lazily created, cached gRPC client connection to a set of
// equivalent addresses
type Channel struct {
	config    ChannelConfig
	addresses []string
	mutex     sync.Mutex
	conn      atomic.Pointer[grpc.ClientConn]
	closed    bool
}

func NewChannel(cfg ChannelConfig, addresses []string) *Channel {
	return &Channel{
		config:    cfg,
		addresses: slices.Clone(addresses),
	}
}

func (c *Channel) Addresses() []string {
	return slices.Clone(c.addresses)
}

// Conn returns the cached connection, creating it on first use or after the
// previous connection was shut down. No RPC is made.
func (c *Channel) Conn() (*grpc.ClientConn, error) {
	if conn := c.conn.Load(); conn != nil && conn.GetState() != connectivity.Shutdown {
		return conn, nil
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return nil, ErrChannelClosed
	}
	// Check again now that we hold the lock
	if conn := c.conn.Load(); conn != nil && conn.GetState() != connectivity.Shutdown {
		return conn, nil
	}
	conn, err := c.dial()
	if err != nil {
		return nil, err
	}
	c.conn.Store(conn)
	return conn, nil
}

// Invalidate drops the cached connection so that the next call to Conn
// creates a new one
func (c *Channel) Invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if conn := c.conn.Swap(nil); conn != nil {
		_ = conn.Close()
	}
}

// Close closes the connection. The channel can't be used afterward.
func (c *Channel) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.closed = true
	if conn := c.conn.Swap(nil); conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *Channel) dial() (*grpc.ClientConn, error) {
	if len(c.addresses) == 0 {
		return nil, ErrNoAddresses
	}
	// Addresses are fed through a manual resolver so that multiple
	// addresses for the same node are balanced round robin
	r := manual.NewBuilderWithScheme(channelResolverScheme)
	state := resolver.State{}
	for _, address := range c.addresses {
		state.Addresses = append(state.Addresses, resolver.Address{Addr: address})
	}
	r.InitialState(state)
	opts := []grpc.DialOption{
		grpc.WithResolvers(r),
		grpc.WithDefaultServiceConfig(roundRobinConfig),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                KeepaliveTime,
			Timeout:             KeepaliveTimeout,
			PermitWithoutStream: true,
		}),
		grpc.WithConnectParams(grpc.ConnectParams{
			Backoff:           grpcbackoff.DefaultConfig,
			MinConnectTimeout: MinConnectTimeout,
		}),
		grpc.WithTransportCredentials(c.transportCredentials()),
	}
	if c.config.TracerProvider != nil {
		opts = append(
			opts,
			grpc.WithStatsHandler(
				otelgrpc.NewClientHandler(
					otelgrpc.WithTracerProvider(c.config.TracerProvider),
				),
			),
		)
	}
	opts = append(opts, c.config.DialOptions...)
	return grpc.NewClient(channelResolverScheme+":///"+c.addresses[0], opts...)
}

func (c *Channel) transportCredentials() credentials.TransportCredentials {
	host, port, err := net.SplitHostPort(c.addresses[0])
	if err != nil || !slices.Contains(tlsPorts, port) {
		return insecure.NewCredentials()
	}
	return credentials.NewTLS(
		&tls.Config{
			ServerName: host,
			MinVersion: tls.VersionTLS12,
		},
	)
}
