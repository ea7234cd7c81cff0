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

package api

import (
	"context"
	"fmt"
	"sort"

	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
)

type OperationName string

const (
	OpGetChannelList        OperationName = "get_channel_list"
	OpGetTokensList         OperationName = "get_tokens_list"
	OpOpen                  OperationName = "open"
	OpDeposit               OperationName = "deposit"
	OpClose                 OperationName = "close"
	OpSettle                OperationName = "settle"
	OpGetChannel            OperationName = "get_channel"
	OpGetNetworkEvents      OperationName = "get_network_events"
	OpGetTokenNetworkEvents OperationName = "get_token_network_events"
	OpGetChannelEvents      OperationName = "get_channel_events"
	OpTransfer              OperationName = "transfer"
	OpTokenSwap             OperationName = "token_swap"
	OpExpectTokenSwap       OperationName = "expect_token_swap"
)

// The function type for each operation. These are aliases, so plain function
// literals and method values with the right signature can be bound directly.
type (
	GetChannelListFunc        = func(ctx context.Context, tokenAddress, partnerAddress *ethtypes.Address0xHex) ([]*Channel, error)
	GetTokensListFunc         = func(ctx context.Context) ([]*ethtypes.Address0xHex, error)
	OpenFunc                  = func(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex, settleTimeout, revealTimeout *uint64) (*Channel, error)
	DepositFunc               = func(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex, amount *ethtypes.HexInteger) (*Channel, error)
	CloseFunc                 = func(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex) (*Channel, error)
	SettleFunc                = func(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex) (*Channel, error)
	GetChannelFunc            = func(ctx context.Context, channelAddress ethtypes.Address0xHex) (*Channel, error)
	GetNetworkEventsFunc      = func(ctx context.Context, fromBlock, toBlock uint64) ([]*Event, error)
	GetTokenNetworkEventsFunc = func(ctx context.Context, tokenAddress ethtypes.Address0xHex, fromBlock, toBlock uint64) ([]*Event, error)
	GetChannelEventsFunc      = func(ctx context.Context, channelAddress ethtypes.Address0xHex, fromBlock, toBlock uint64) ([]*Event, error)
	TransferFunc              = func(ctx context.Context, tokenAddress ethtypes.Address0xHex, amount *ethtypes.HexInteger, target ethtypes.Address0xHex, identifier *uint64) (*Transfer, error)
	TokenSwapFunc             = func(ctx context.Context, swap *TokenSwap) (*TokenSwap, error)
	ExpectTokenSwapFunc       = func(ctx context.Context, swap *TokenSwap) (*TokenSwap, error)
)

type operationSlot struct {
	typeName string
	accepts  func(impl any) bool
}

func slotFor[F any]() *operationSlot {
	var zero F
	return &operationSlot{
		typeName: fmt.Sprintf("%T", zero),
		accepts: func(impl any) bool {
			_, ok := impl.(F)
			return ok
		},
	}
}

var operationSlots = map[OperationName]*operationSlot{
	OpGetChannelList:        slotFor[GetChannelListFunc](),
	OpGetTokensList:         slotFor[GetTokensListFunc](),
	OpOpen:                  slotFor[OpenFunc](),
	OpDeposit:               slotFor[DepositFunc](),
	OpClose:                 slotFor[CloseFunc](),
	OpSettle:                slotFor[SettleFunc](),
	OpGetChannel:            slotFor[GetChannelFunc](),
	OpGetNetworkEvents:      slotFor[GetNetworkEventsFunc](),
	OpGetTokenNetworkEvents: slotFor[GetTokenNetworkEventsFunc](),
	OpGetChannelEvents:      slotFor[GetChannelEventsFunc](),
	OpTransfer:              slotFor[TransferFunc](),
	OpTokenSwap:             slotFor[TokenSwapFunc](),
	OpExpectTokenSwap:       slotFor[ExpectTokenSwapFunc](),
}

// OperationNames returns every operation the facade exposes, sorted
func OperationNames() []OperationName {
	names := make([]OperationName, 0, len(operationSlots))
	for n := range operationSlots {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
