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
	"time"

	"github.com/blinklabs-io/gohedera"
	"github.com/blinklabs-io/gohedera/ledger"
)

type balanceFlags struct {
	flagset *flag.FlagSet
	account string
	timeout time.Duration
}

func newBalanceFlags() *balanceFlags {
	f := &balanceFlags{
		flagset: flag.NewFlagSet("balance", flag.ExitOnError),
	}
	f.flagset.StringVar(&f.account, "account", "", "account ID to query, such as 0.0.1001")
	f.flagset.DurationVar(&f.timeout, "timeout", 30*time.Second, "request timeout")
	return f
}

func testBalance(f *globalFlags) {
	balanceFlags := newBalanceFlags()
	err := balanceFlags.flagset.Parse(f.flagset.Args()[1:])
	if err != nil {
		fmt.Printf("failed to parse subcommand args: %s\n", err)
		os.Exit(1)
	}
	if balanceFlags.account == "" {
		fmt.Printf("ERROR: you must specify an account with -account\n")
		os.Exit(1)
	}
	accountId, err := ledger.AccountIdFromString(balanceFlags.account)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err)
		os.Exit(1)
	}
	client := createClient(f)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), balanceFlags.timeout)
	defer cancel()
	balance, err := hedera.NewAccountBalanceQuery().
		SetAccountId(accountId).
		Execute(ctx, client)
	if err != nil {
		fmt.Printf("ERROR: failure querying balance: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s: %s\n", balance.AccountId.String(), balance.Hbars.String())
}
