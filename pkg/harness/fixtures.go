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

package harness

import (
	"context"
	"net"
	"strconv"
	"sync"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/hyperledger/firefly-signer/pkg/secp256k1"
	"github.com/jeamick/raiden/internal/msgs"
	"github.com/jeamick/raiden/pkg/service"
)

// StaticBackend is a blockchain backend that only knows its own key, and optionally a
// fixed list of registered tokens
type StaticBackend struct {
	keyPair *secp256k1.KeyPair
	tokens  []*ethtypes.Address0xHex
}

var _ service.BlockchainBackend = &StaticBackend{}
var _ service.TokenRegistry = &StaticBackend{}

func NewStaticBackend(privateKey []byte, tokens ...*ethtypes.Address0xHex) (*StaticBackend, error) {
	kp, err := secp256k1.NewSecp256k1KeyPair(privateKey)
	if err != nil {
		return nil, err
	}
	return &StaticBackend{keyPair: kp, tokens: tokens}, nil
}

func (b *StaticBackend) PrivateKey(ctx context.Context) ([]byte, error) {
	return b.keyPair.PrivateKeyBytes(), nil
}

func (b *StaticBackend) NodeAddress(ctx context.Context) (*ethtypes.Address0xHex, error) {
	addr := b.keyPair.Address
	return &addr, nil
}

func (b *StaticBackend) Tokens(ctx context.Context) ([]*ethtypes.Address0xHex, error) {
	return append([]*ethtypes.Address0xHex{}, b.tokens...), nil
}

// DummyTransportFactory builds transports that never touch the network
type DummyTransportFactory struct {
	mux        sync.Mutex
	transports []*DummyTransport
}

var _ service.TransportFactory = &DummyTransportFactory{}

func (f *DummyTransportFactory) NewTransport(ctx context.Context, host string, port int) (service.Transport, error) {
	f.mux.Lock()
	defer f.mux.Unlock()
	t := &DummyTransport{endpoint: net.JoinHostPort(host, strconv.Itoa(port))}
	f.transports = append(f.transports, t)
	return t, nil
}

func (f *DummyTransportFactory) Transports() []*DummyTransport {
	f.mux.Lock()
	defer f.mux.Unlock()
	return append([]*DummyTransport{}, f.transports...)
}

type DummyTransport struct {
	endpoint string
	stopped  bool
	mux      sync.Mutex
}

func (t *DummyTransport) Endpoint() string {
	return t.endpoint
}

func (t *DummyTransport) Stop() {
	t.mux.Lock()
	defer t.mux.Unlock()
	t.stopped = true
}

func (t *DummyTransport) Stopped() bool {
	t.mux.Lock()
	defer t.mux.Unlock()
	return t.stopped
}

// InMemoryDiscovery maps node addresses to host:port endpoints
type InMemoryDiscovery struct {
	mux       sync.RWMutex
	endpoints map[ethtypes.Address0xHex]string
}

var _ service.Discovery = &InMemoryDiscovery{}

func NewInMemoryDiscovery() *InMemoryDiscovery {
	return &InMemoryDiscovery{endpoints: make(map[ethtypes.Address0xHex]string)}
}

func (d *InMemoryDiscovery) Register(ctx context.Context, nodeAddress ethtypes.Address0xHex, host string, port int) error {
	d.mux.Lock()
	defer d.mux.Unlock()
	d.endpoints[nodeAddress] = net.JoinHostPort(host, strconv.Itoa(port))
	return nil
}

func (d *InMemoryDiscovery) Get(ctx context.Context, nodeAddress ethtypes.Address0xHex) (string, error) {
	d.mux.RLock()
	defer d.mux.RUnlock()
	endpoint, ok := d.endpoints[nodeAddress]
	if !ok {
		return "", i18n.NewError(ctx, msgs.MsgMockNodeNotRegistered, nodeAddress.String())
	}
	return endpoint, nil
}
