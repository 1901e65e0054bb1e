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
	"flag"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/blinklabs-io/gohedera/ledger"
)

type pingFlags struct {
	flagset *flag.FlagSet
	timeout time.Duration
	all     bool
}

func newPingFlags() *pingFlags {
	f := &pingFlags{
		flagset: flag.NewFlagSet("ping", flag.ExitOnError),
	}
	f.flagset.DurationVar(&f.timeout, "timeout", 10*time.Second, "timeout per node")
	f.flagset.BoolVar(&f.all, "all", false, "ping all nodes concurrently")
	return f
}

// testPing pings every node, one at a time unless -all is given
func testPing(f *globalFlags) {
	pingFlags := newPingFlags()
	err := pingFlags.flagset.Parse(f.flagset.Args()[1:])
	if err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	client := createClient(f)
	defer client.Close()

	if pingFlags.all {
		ctx, cancel := context.WithTimeout(context.Background(), pingFlags.timeout)
		defer cancel()
		start := time.Now()
		if err := client.PingAll(ctx); err != nil {
			fmt.Printf("ERROR: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("all nodes OK (%s)\n", time.Since(start).Round(time.Millisecond))
		return
	}
	nodeAccountIds := client.Registry().NodeAccountIds()
	slices.SortFunc(
		nodeAccountIds,
		func(a, b ledger.AccountId) int {
			return a.Compare(b.EntityId)
		},
	)
	failed := 0
	for _, nodeAccountId := range nodeAccountIds {
		ctx, cancel := context.WithTimeout(context.Background(), pingFlags.timeout)
		start := time.Now()
		err := client.Ping(ctx, nodeAccountId)
		cancel()
		if err != nil {
			fmt.Printf("%s: ERROR: %s\n", nodeAccountId.String(), err)
			failed++
			continue
		}
		fmt.Printf(
			"%s: OK (%s)\n",
			nodeAccountId.String(),
			time.Since(start).Round(time.Millisecond),
		)
	}
	if failed > 0 {
		fmt.Printf("ERROR: %d of %d nodes failed\n", failed, len(nodeAccountIds))
		os.Exit(1)
	}
}
