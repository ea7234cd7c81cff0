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
	"math"

	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
)

// LatestBlock can be passed as the upper bound of an event query to include everything up to the chain head
const LatestBlock uint64 = math.MaxUint64

type ChannelState string

const (
	ChannelStateOpened  ChannelState = "opened"
	ChannelStateClosed  ChannelState = "closed"
	ChannelStateSettled ChannelState = "settled"
)

type Channel struct {
	ChannelAddress ethtypes.Address0xHex `json:"channel_address"`
	TokenAddress   ethtypes.Address0xHex `json:"token_address"`
	PartnerAddress ethtypes.Address0xHex `json:"partner_address"`
	Balance        *ethtypes.HexInteger  `json:"balance"`
	SettleTimeout  uint64                `json:"settle_timeout"`
	RevealTimeout  uint64                `json:"reveal_timeout"`
	State          ChannelState          `json:"state"`
}

type Event struct {
	EventType   string         `json:"event_type"`
	BlockNumber uint64         `json:"block_number"`
	Data        map[string]any `json:"data,omitempty"`
}

type Transfer struct {
	Initiator  ethtypes.Address0xHex `json:"initiator_address"`
	Target     ethtypes.Address0xHex `json:"target_address"`
	Token      ethtypes.Address0xHex `json:"token_address"`
	Amount     *ethtypes.HexInteger  `json:"amount"`
	Identifier uint64                `json:"identifier"`
}

type TokenSwap struct {
	Identifier   uint64                `json:"identifier"`
	MakerToken   ethtypes.Address0xHex `json:"maker_token"`
	MakerAmount  *ethtypes.HexInteger  `json:"maker_amount"`
	MakerAddress ethtypes.Address0xHex `json:"maker_address"`
	TakerToken   ethtypes.Address0xHex `json:"taker_token"`
	TakerAmount  *ethtypes.HexInteger  `json:"taker_amount"`
	TakerAddress ethtypes.Address0xHex `json:"taker_address"`
}
