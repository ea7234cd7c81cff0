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
	"bytes"
	"context"
	"net"
	"strconv"
	"sync"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/hyperledger/firefly-signer/pkg/secp256k1"
	"github.com/jeamick/raiden/internal/log"
	"github.com/jeamick/raiden/internal/msgs"
	"github.com/jeamick/raiden/pkg/api"
	"github.com/jeamick/raiden/pkg/confutil"
	"github.com/jeamick/raiden/pkg/harnessconf"
)

// Service is an assembled client. It owns its identity, transport and discovery
// registration, and binds its own operations onto the shared facade.
type Service struct {
	bgCtx     context.Context
	conf      *harnessconf.ServiceConfig
	facade    *api.Facade
	keyPair   *secp256k1.KeyPair
	backend   BlockchainBackend
	transport Transport
	discovery Discovery
	timings   Timings
	stopOnce  sync.Once
}

// Assemble validates the configuration, checks it against the identity held by the backend,
// then builds the transport and registers with discovery. Nothing is started if any
// step fails.
func Assemble(ctx context.Context, backend BlockchainBackend, transportFactory TransportFactory, discovery Discovery, conf *harnessconf.ServiceConfig, facade *api.Facade) (_ *Service, err error) {
	for name, missing := range map[string]bool{
		"blockchain backend": backend == nil,
		"transport factory":  transportFactory == nil,
		"discovery":          discovery == nil,
		"configuration":      conf == nil,
		"facade":             facade == nil,
	} {
		if missing {
			return nil, i18n.NewError(ctx, msgs.MsgAssemblyMissingComponent, name)
		}
	}

	if err := conf.Validate(ctx); err != nil {
		return nil, err
	}

	s := &Service{
		conf:      conf.Copy(),
		facade:    facade,
		backend:   backend,
		discovery: discovery,
	}

	if s.keyPair, err = s.resolveIdentity(ctx); err != nil {
		return nil, err
	}
	s.bgCtx = log.WithLogField(ctx, "node", s.keyPair.Address.String())

	defaults := harnessconf.ServiceDefaults()
	s.timings = Timings{
		SendPingTime:        confutil.DurationMin(conf.SendPingTime, 0, *defaults.SendPingTime),
		MaxUnresponsiveTime: confutil.DurationMin(conf.MaxUnresponsiveTime, 0, *defaults.MaxUnresponsiveTime),
		RevealTimeout:       confutil.DurationMin(conf.RevealTimeout, 0, *defaults.RevealTimeout),
	}

	host, port := *conf.Host, *conf.Port
	endpoint := net.JoinHostPort(host, strconv.Itoa(port))
	if s.transport, err = transportFactory.NewTransport(ctx, host, port); err != nil {
		return nil, i18n.WrapError(ctx, err, msgs.MsgAssemblyTransportFailed, endpoint)
	}
	if err = discovery.Register(ctx, s.keyPair.Address, host, port); err != nil {
		s.transport.Stop()
		return nil, i18n.WrapError(ctx, err, msgs.MsgAssemblyDiscoveryFailed, s.keyPair.Address)
	}

	if err = s.bindOperations(ctx); err != nil {
		s.transport.Stop()
		return nil, err
	}

	log.L(s.bgCtx).Infof("Service assembled: endpoint=%s ping=%s unresponsive=%s reveal=%s",
		s.transport.Endpoint(), s.timings.SendPingTime, s.timings.MaxUnresponsiveTime, s.timings.RevealTimeout)
	return s, nil
}

// resolveIdentity derives the node key from privatekey_hex, and requires the backend to
// hold the same key and report the same address
func (s *Service) resolveIdentity(ctx context.Context) (*secp256k1.KeyPair, error) {
	backendKey, err := s.backend.PrivateKey(ctx)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, msgs.MsgAssemblyNoPrivateKey)
	}
	if len(backendKey) == 0 {
		return nil, i18n.NewError(ctx, msgs.MsgAssemblyNoPrivateKey)
	}
	backendAddr, err := s.backend.NodeAddress(ctx)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, msgs.MsgAssemblyNoAddress)
	}
	if backendAddr == nil {
		return nil, i18n.NewError(ctx, msgs.MsgAssemblyNoAddress)
	}

	confKey, err := s.conf.PrivateKey(ctx)
	if err != nil {
		return nil, err
	}
	kp, err := secp256k1.NewSecp256k1KeyPair(confKey)
	if err != nil {
		return nil, i18n.WrapError(ctx, err, msgs.MsgConfigInvalidPrivateKeyHex)
	}
	if kp.Address != *backendAddr || !bytes.Equal(confKey, backendKey) {
		return nil, i18n.NewError(ctx, msgs.MsgAssemblyAddressMismatch, kp.Address.String(), backendAddr.String())
	}
	return kp, nil
}

func (s *Service) bindOperations(ctx context.Context) error {
	for name, impl := range s.operations() {
		if _, err := s.facade.Bind(ctx, name, impl); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) API() *api.Facade {
	return s.facade
}

func (s *Service) Address() ethtypes.Address0xHex {
	return s.keyPair.Address
}

func (s *Service) Config() *harnessconf.ServiceConfig {
	return s.conf.Copy()
}

func (s *Service) Timings() Timings {
	return s.timings
}

func (s *Service) Transport() Transport {
	return s.transport
}

func (s *Service) Discovery() Discovery {
	return s.discovery
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		log.L(s.bgCtx).Infof("Service stopping")
		s.transport.Stop()
	})
}
