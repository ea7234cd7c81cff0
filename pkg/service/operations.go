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

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/jeamick/raiden/internal/msgs"
	"github.com/jeamick/raiden/pkg/api"
)

// The service's own operations. Channel management needs a live chain, which the
// harness never provides, so these fail cleanly unless substituted. The token list
// is answered by the backend when it can.
func (s *Service) operations() map[api.OperationName]any {
	return map[api.OperationName]any{
		api.OpGetChannelList:        s.getChannelList,
		api.OpGetTokensList:         s.getTokensList,
		api.OpOpen:                  s.open,
		api.OpDeposit:               s.deposit,
		api.OpClose:                 s.close,
		api.OpSettle:                s.settle,
		api.OpGetChannel:            s.getChannel,
		api.OpGetNetworkEvents:      s.getNetworkEvents,
		api.OpGetTokenNetworkEvents: s.getTokenNetworkEvents,
		api.OpGetChannelEvents:      s.getChannelEvents,
		api.OpTransfer:              s.transfer,
		api.OpTokenSwap:             s.tokenSwap,
		api.OpExpectTokenSwap:       s.expectTokenSwap,
	}
}

func unavailable(ctx context.Context, op api.OperationName) error {
	return i18n.NewError(ctx, msgs.MsgOperationUnavailable, op)
}

func (s *Service) getChannelList(ctx context.Context, tokenAddress, partnerAddress *ethtypes.Address0xHex) ([]*api.Channel, error) {
	return nil, unavailable(ctx, api.OpGetChannelList)
}

func (s *Service) getTokensList(ctx context.Context) ([]*ethtypes.Address0xHex, error) {
	if registry, ok := s.backend.(TokenRegistry); ok {
		return registry.Tokens(ctx)
	}
	return nil, unavailable(ctx, api.OpGetTokensList)
}

func (s *Service) open(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex, settleTimeout, revealTimeout *uint64) (*api.Channel, error) {
	return nil, unavailable(ctx, api.OpOpen)
}

func (s *Service) deposit(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex, amount *ethtypes.HexInteger) (*api.Channel, error) {
	return nil, unavailable(ctx, api.OpDeposit)
}

func (s *Service) close(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex) (*api.Channel, error) {
	return nil, unavailable(ctx, api.OpClose)
}

func (s *Service) settle(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex) (*api.Channel, error) {
	return nil, unavailable(ctx, api.OpSettle)
}

func (s *Service) getChannel(ctx context.Context, channelAddress ethtypes.Address0xHex) (*api.Channel, error) {
	return nil, unavailable(ctx, api.OpGetChannel)
}

func (s *Service) getNetworkEvents(ctx context.Context, fromBlock, toBlock uint64) ([]*api.Event, error) {
	return nil, unavailable(ctx, api.OpGetNetworkEvents)
}

func (s *Service) getTokenNetworkEvents(ctx context.Context, tokenAddress ethtypes.Address0xHex, fromBlock, toBlock uint64) ([]*api.Event, error) {
	return nil, unavailable(ctx, api.OpGetTokenNetworkEvents)
}

func (s *Service) getChannelEvents(ctx context.Context, channelAddress ethtypes.Address0xHex, fromBlock, toBlock uint64) ([]*api.Event, error) {
	return nil, unavailable(ctx, api.OpGetChannelEvents)
}

func (s *Service) transfer(ctx context.Context, tokenAddress ethtypes.Address0xHex, amount *ethtypes.HexInteger, target ethtypes.Address0xHex, identifier *uint64) (*api.Transfer, error) {
	return nil, unavailable(ctx, api.OpTransfer)
}

func (s *Service) tokenSwap(ctx context.Context, swap *api.TokenSwap) (*api.TokenSwap, error) {
	return nil, unavailable(ctx, api.OpTokenSwap)
}

func (s *Service) expectTokenSwap(ctx context.Context, swap *api.TokenSwap) (*api.TokenSwap, error) {
	return nil, unavailable(ctx, api.OpExpectTokenSwap)
}
