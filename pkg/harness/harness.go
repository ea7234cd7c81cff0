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
	"encoding/hex"
	"testing"
	"time"

	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/hyperledger/firefly-signer/pkg/secp256k1"
	"github.com/jeamick/raiden/internal/log"
	"github.com/jeamick/raiden/pkg/api"
	"github.com/jeamick/raiden/pkg/apiclient"
	"github.com/jeamick/raiden/pkg/harnessconf"
	"github.com/jeamick/raiden/pkg/service"
	"github.com/stretchr/testify/require"
)

// TestBlockInterval is the block time assumed when converting durations into block counts
const TestBlockInterval = 1 * time.Second

func RevealTimeoutBlocks(revealTimeout time.Duration) uint64 {
	return uint64(revealTimeout / TestBlockInterval)
}

// Harness is a live API server and an assembled service sharing one facade, with the
// mock operations installed, for the duration of one test
type Harness struct {
	ctx         context.Context
	Facade      *api.Facade
	Server      *ServerHandle
	Service     *service.Service
	Mocks       *MockOperations
	Substitutor *Substitutor
	Transports  *DummyTransportFactory
	Discovery   *InMemoryDiscovery
}

type options struct {
	overrides   map[string]any
	apiHost     string
	apiPort     int
	apiAddrSet  bool
	serverOpts  []ServerOption
	stopTimeout time.Duration
	configFile  string
	tokens      []*ethtypes.Address0xHex
	skipMocks   bool
}

type Option func(o *options)

// WithOverrides sets service options on top of ServiceDefaults. Later calls win per key.
func WithOverrides(overrides map[string]any) Option {
	return func(o *options) {
		for k, v := range overrides {
			o.overrides[k] = v
		}
	}
}

// WithAPIServer sets the API server listen address, taking precedence over a config file.
// The default is an ephemeral port on 127.0.0.1.
func WithAPIServer(host string, port int) Option {
	return func(o *options) {
		o.apiHost = host
		o.apiPort = port
		o.apiAddrSet = true
	}
}

func WithServerOptions(opts ...ServerOption) Option {
	return func(o *options) {
		o.serverOpts = append(o.serverOpts, opts...)
	}
}

func WithStopTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.stopTimeout = timeout
	}
}

// WithConfigFile loads a HarnessConfig file. Its service section is applied before any
// WithOverrides, its apiServer section configures the API server, and its log section
// reconfigures the process-wide logger.
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configFile = path
	}
}

// WithTokens registers tokens with the blockchain backend fixture
func WithTokens(tokens ...*ethtypes.Address0xHex) Option {
	return func(o *options) {
		o.tokens = append(o.tokens, tokens...)
	}
}

// WithoutMockOperations leaves the service's own operations bound
func WithoutMockOperations() Option {
	return func(o *options) {
		o.skipMocks = true
	}
}

// New builds and starts everything, failing the test immediately on any error. Cleanup
// restores substitutions, then stops the service, then stops the API server.
func New(t testing.TB, opts ...Option) *Harness {
	o := &options{
		overrides:   map[string]any{},
		apiHost:     "127.0.0.1",
		stopTimeout: DefaultStopTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}

	ctx := log.WithLogField(context.Background(), "test", t.Name())
	h := &Harness{ctx: ctx, Facade: api.NewFacade()}

	overrides, err := o.serviceOverrides(ctx)
	require.NoError(t, err)
	if _, set := overrides[harnessconf.OptionPrivateKeyHex]; !set {
		kp, err := secp256k1.GenerateSecp256k1KeyPair()
		require.NoError(t, err)
		overrides[harnessconf.OptionPrivateKeyHex] = hex.EncodeToString(kp.PrivateKeyBytes())
	}
	conf, err := harnessconf.Overlay(ctx, harnessconf.ServiceDefaults(), overrides)
	require.NoError(t, err)
	privateKey, err := conf.PrivateKey(ctx)
	require.NoError(t, err)

	h.Server, err = StartServer(ctx, h.Facade, o.apiHost, o.apiPort, o.serverOpts...)
	require.NoError(t, err)
	t.Cleanup(func() { h.Server.Stop(o.stopTimeout) })

	backend, err := NewStaticBackend(privateKey, o.tokens...)
	require.NoError(t, err)
	h.Transports = &DummyTransportFactory{}
	h.Discovery = NewInMemoryDiscovery()
	h.Service, err = service.Assemble(ctx, backend, h.Transports, h.Discovery, conf, h.Facade)
	require.NoError(t, err)
	t.Cleanup(h.Service.Stop)

	h.Mocks = NewMockOperations(RevealTimeoutBlocks(h.Service.Timings().RevealTimeout))
	h.Mocks.SetNodeAddress(h.Service.Address())
	h.Substitutor = NewSubstitutor(t)
	if !o.skipMocks {
		require.NoError(t, h.Mocks.Install(h.Substitutor, h.Facade))
	}

	nodeAddress := h.Service.Address()
	log.L(ctx).Infof("Harness ready: api=%s node=%s", h.Server.URL(), nodeAddress.String())
	return h
}

func (o *options) serviceOverrides(ctx context.Context) (map[string]any, error) {
	overrides := map[string]any{}
	if o.configFile != "" {
		var hc harnessconf.HarnessConfig
		if err := harnessconf.ReadAndParseYAMLFile(ctx, o.configFile, &hc); err != nil {
			return nil, err
		}
		log.InitConfig(&hc.Log)
		for k, v := range hc.Service {
			overrides[k] = v
		}
		o.serverOpts = append([]ServerOption{WithServerConfig(&hc.APIServer)}, o.serverOpts...)
		if hc.APIServer.Address != nil && !o.apiAddrSet {
			o.apiHost = *hc.APIServer.Address
		}
		if hc.APIServer.Port != nil && !o.apiAddrSet {
			o.apiPort = *hc.APIServer.Port
		}
	}
	for k, v := range o.overrides {
		overrides[k] = v
	}
	return overrides, nil
}

func (h *Harness) Context() context.Context {
	return h.ctx
}

// Client returns an API client pointed at the harness server
func (h *Harness) Client() *apiclient.Client {
	return apiclient.New(h.Server.URL())
}
