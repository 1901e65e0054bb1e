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
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/blinklabs-io/gohedera"
	"github.com/blinklabs-io/gohedera/metrics"
)

type globalFlags struct {
	flagset       *flag.FlagSet
	config        string
	network       string
	debug         bool
	metricsListen string
}

func newGlobalFlags() *globalFlags {
	f := &globalFlags{
		flagset: flag.NewFlagSet(os.Args[0], flag.ExitOnError),
	}
	f.flagset.StringVar(
		&f.config,
		"config",
		"",
		"path to a client config file in JSON format",
	)
	f.flagset.StringVar(
		&f.network,
		"network",
		"testnet",
		"named network to use when no config file is given",
	)
	f.flagset.BoolVar(&f.debug, "debug", false, "enable debug logging")
	f.flagset.StringVar(
		&f.metricsListen,
		"metrics-listen",
		"",
		"address to serve Prometheus metrics on, in address:port format",
	)
	return f
}

func main() {
	f := newGlobalFlags()
	err := f.flagset.Parse(os.Args[1:])
	if err != nil {
		fmt.Printf("failed to parse command args: %s\n", err)
		os.Exit(1)
	}

	if len(f.flagset.Args()) > 0 {
		switch f.flagset.Arg(0) {
		case "ping":
			testPing(f)
		case "balance":
			testBalance(f)
		case "topic-subscribe":
			testTopicSubscribe(f)
		default:
			fmt.Printf("Unknown subcommand: %s\n", f.flagset.Arg(0))
			os.Exit(1)
		}
	} else {
		fmt.Printf("You must specify a subcommand (ping, balance or topic-subscribe)\n")
		os.Exit(1)
	}
}

func createClient(f *globalFlags) *hedera.Client {
	logLevel := slog.LevelInfo
	if f.debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}),
	)
	options := []hedera.ClientOptionFunc{
		hedera.WithLogger(logger),
	}
	if f.metricsListen != "" {
		promMetrics := metrics.NewPrometheusMetrics("gohedera")
		options = append(options, hedera.WithMetrics(promMetrics))
		go serveMetrics(logger, f.metricsListen, promMetrics.HTTPHandler())
	}
	var client *hedera.Client
	var err error
	if f.config != "" {
		var config *hedera.ClientConfig
		config, err = hedera.NewClientConfigFromFile(f.config)
		if err != nil {
			fmt.Printf("ERROR: failed to load config: %s\n", err)
			os.Exit(1)
		}
		client, err = hedera.NewClientFromConfig(config, options...)
	} else {
		client, err = hedera.ClientForName(f.network, options...)
	}
	if err != nil {
		fmt.Printf("ERROR: failed to create client: %s\n", err)
		os.Exit(1)
	}
	return client
}

func serveMetrics(logger *slog.Logger, address string, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(
			"metrics listener failed",
			"error", err,
		)
	}
}
