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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blinklabs-io/gohedera"
	"github.com/blinklabs-io/gohedera/ledger"
)

type topicSubscribeFlags struct {
	flagset   *flag.FlagSet
	topic     string
	startTime string
	limit     uint64
}

func newTopicSubscribeFlags() *topicSubscribeFlags {
	f := &topicSubscribeFlags{
		flagset: flag.NewFlagSet("topic-subscribe", flag.ExitOnError),
	}
	f.flagset.StringVar(&f.topic, "topic", "", "topic ID to subscribe to, such as 0.0.1234")
	f.flagset.StringVar(
		&f.startTime,
		"start",
		"",
		"consensus time to start from in RFC3339 format (defaults to the beginning of the topic)",
	)
	f.flagset.Uint64Var(&f.limit, "limit", 0, "max number of messages to receive (0 for unlimited)")
	return f
}

func testTopicSubscribe(f *globalFlags) {
	subFlags := newTopicSubscribeFlags()
	err := subFlags.flagset.Parse(f.flagset.Args()[1:])
	if err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	if subFlags.topic == "" {
		fmt.Printf("ERROR: you must specify a topic with -topic\n")
		os.Exit(1)
	}
	topicId, err := ledger.TopicIdFromString(subFlags.topic)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	query := hedera.NewTopicMessageQuery().
		SetTopicId(topicId).
		SetLimit(subFlags.limit)
	if subFlags.startTime != "" {
		startTime, err := time.Parse(time.RFC3339Nano, subFlags.startTime)
		if err != nil {
			fmt.Printf("ERROR: invalid start time: %s\n", err)
			os.Exit(1)
		}
		query.SetStartTime(startTime)
	}
	client := createClient(f)
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	sub, err := query.Subscribe(ctx, client)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	defer sub.Close()
	for {
		msg, err := sub.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return
			}
			fmt.Printf("ERROR: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf(
			"seq=%d time=%s chunks=%d: %s\n",
			msg.SequenceNumber,
			msg.ConsensusTimestamp.Format(time.RFC3339Nano),
			len(msg.Chunks),
			msg.Contents,
		)
	}
}
