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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/blinklabs-io/gohedera/keys"
	"github.com/blinklabs-io/gohedera/ledger"
)

// ClientConfig is the JSON form of a client configuration. Either a network
// name or an explicit node map must be given.
type ClientConfig struct {
	Network                  string                `json:"network"`
	Nodes                    map[string]string     `json:"nodes"`
	MirrorNetwork            []string              `json:"mirrorNetwork"`
	LedgerId                 string                `json:"ledgerId"`
	Operator                 *ClientConfigOperator `json:"operator"`
	MaxAttempts              int                   `json:"maxAttempts"`
	MaxTransactionFee        *Hbar                 `json:"maxTransactionFee"`
	MaxQueryPayment          *Hbar                 `json:"maxQueryPayment"`
	RequestTimeout           string                `json:"requestTimeout"`
	AttemptTimeout           string                `json:"attemptTimeout"`
	RegenerateTransactionIds *bool                 `json:"regenerateTransactionIds"`
	AutoValidateChecksums    bool                  `json:"autoValidateChecksums"`
}

type ClientConfigOperator struct {
	AccountId  string `json:"accountId"`
	PrivateKey string `json:"privateKey"`
}

func NewClientConfigFromFile(path string) (*ClientConfig, error) {
	dataFile, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer dataFile.Close()
	return NewClientConfigFromReader(dataFile)
}

func NewClientConfigFromReader(r io.Reader) (*ClientConfig, error) {
	c := &ClientConfig{}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Options converts the config into client options
func (c *ClientConfig) Options() ([]ClientOptionFunc, error) {
	var ret []ClientOptionFunc
	if c.Network != "" {
		net := NetworkByName(c.Network)
		if !net.IsValid() {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, c.Network)
		}
		ret = append(ret, WithNetwork(net))
	}
	if len(c.Nodes) > 0 {
		nodes := make(map[string]ledger.AccountId, len(c.Nodes))
		for address, tmpAccountId := range c.Nodes {
			accountId, err := ledger.AccountIdFromString(tmpAccountId)
			if err != nil {
				return nil, err
			}
			nodes[address] = accountId
		}
		ret = append(ret, WithNodes(nodes))
	}
	if len(c.MirrorNetwork) > 0 {
		ret = append(ret, WithMirrorAddresses(c.MirrorNetwork...))
	}
	if c.LedgerId != "" {
		ledgerId, err := ledger.LedgerIdFromString(c.LedgerId)
		if err != nil {
			return nil, err
		}
		ret = append(ret, WithLedgerId(ledgerId))
	}
	if c.Operator != nil {
		accountId, err := ledger.AccountIdFromString(c.Operator.AccountId)
		if err != nil {
			return nil, fmt.Errorf("operator: %w", err)
		}
		key, err := keys.PrivateKeyFromString(c.Operator.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("operator: %w", err)
		}
		ret = append(ret, WithOperator(accountId, key))
	}
	if c.MaxAttempts > 0 {
		ret = append(ret, WithMaxAttempts(c.MaxAttempts))
	}
	if c.MaxTransactionFee != nil {
		ret = append(ret, WithMaxTransactionFee(*c.MaxTransactionFee))
	}
	if c.MaxQueryPayment != nil {
		ret = append(ret, WithMaxQueryPayment(*c.MaxQueryPayment))
	}
	if c.RequestTimeout != "" {
		timeout, err := time.ParseDuration(c.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("requestTimeout: %w", err)
		}
		ret = append(ret, WithRequestTimeout(timeout))
	}
	if c.AttemptTimeout != "" {
		timeout, err := time.ParseDuration(c.AttemptTimeout)
		if err != nil {
			return nil, fmt.Errorf("attemptTimeout: %w", err)
		}
		ret = append(ret, WithAttemptTimeout(timeout))
	}
	if c.RegenerateTransactionIds != nil {
		ret = append(ret, WithRegenerateTransactionIds(*c.RegenerateTransactionIds))
	}
	if c.AutoValidateChecksums {
		ret = append(ret, WithAutoValidateChecksums(true))
	}
	return ret, nil
}

// NewClientFromConfig creates a client from the config. Any options given
// are applied after the ones from the config.
func NewClientFromConfig(c *ClientConfig, options ...ClientOptionFunc) (*Client, error) {
	configOptions, err := c.Options()
	if err != nil {
		return nil, err
	}
	return NewClient(append(configOptions, options...)...)
}
