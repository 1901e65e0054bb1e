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

package retry

import (
	"log/slog"
	"time"

	"github.com/blinklabs-io/gohedera/metrics"
	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultMaxAttempts = 10

	DefaultInitialInterval     = 250 * time.Millisecond
	DefaultMaxInterval         = 8 * time.Second
	DefaultMaxElapsedTime      = 2 * time.Minute
	DefaultMultiplier          = 2.0
	DefaultRandomizationFactor = 0.5
)

// BackoffConfig controls the delay between retries
type BackoffConfig struct {
	InitialInterval     time.Duration
	MaxInterval         time.Duration
	MaxElapsedTime      time.Duration
	Multiplier          float64
	RandomizationFactor float64
}

func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		InitialInterval:     DefaultInitialInterval,
		MaxInterval:         DefaultMaxInterval,
		MaxElapsedTime:      DefaultMaxElapsedTime,
		Multiplier:          DefaultMultiplier,
		RandomizationFactor: DefaultRandomizationFactor,
	}
}

// NewBackOff returns a fresh exponential backoff using the config
func (c BackoffConfig) NewBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.InitialInterval
	b.MaxInterval = c.MaxInterval
	b.MaxElapsedTime = c.MaxElapsedTime
	b.Multiplier = c.Multiplier
	b.RandomizationFactor = c.RandomizationFactor
	b.Reset()
	return b
}

type Config struct {
	// Method is used to label logs and metrics
	Method      string
	MaxAttempts int
	Backoff     BackoffConfig
	// Per-attempt timeout, zero disables it
	AttemptTimeout time.Duration
	Logger         *slog.Logger
	Metrics        metrics.Metrics
}

// NewConfig returns a Config with defaults applied
func NewConfig(method string) Config {
	return Config{
		Method:      method,
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     DefaultBackoffConfig(),
	}
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Backoff == (BackoffConfig{}) {
		c.Backoff = DefaultBackoffConfig()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Metrics == nil {
		c.Metrics = metrics.NewNopMetrics()
	}
	return c
}
