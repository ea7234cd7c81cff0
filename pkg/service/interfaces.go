// Copyright © 2025 Kaleido, Inc.
//
// SPDX-License-Identifier: Apache-2.0
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

package service

import (
	"context"
	"time"

	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
)

// BlockchainBackend is the client's view of the chain. For the harness this is always
// a test double, that only needs to supply the node identity.
type BlockchainBackend interface {
	PrivateKey(ctx context.Context) ([]byte, error)
	NodeAddress(ctx context.Context) (*ethtypes.Address0xHex, error)
}

// TokenRegistry is optionally implemented by a backend that knows the registered tokens
type TokenRegistry interface {
	Tokens(ctx context.Context) ([]*ethtypes.Address0xHex, error)
}

type TransportFactory interface {
	NewTransport(ctx context.Context, host string, port int) (Transport, error)
}

type Transport interface {
	Endpoint() string
	Stop()
}

type Discovery interface {
	Register(ctx context.Context, nodeAddress ethtypes.Address0xHex, host string, port int) error
	Get(ctx context.Context, nodeAddress ethtypes.Address0xHex) (endpoint string, err error)
}

type Timings struct {
	SendPingTime        time.Duration
	MaxUnresponsiveTime time.Duration
	RevealTimeout       time.Duration
}
