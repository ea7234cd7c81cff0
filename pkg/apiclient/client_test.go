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

package apiclient_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/jeamick/raiden/pkg/api"
	"github.com/jeamick/raiden/pkg/apiclient"
	"github.com/jeamick/raiden/pkg/harness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	token   = ethtypes.MustNewAddress("0x1c1e8f0e1c7a8f2b3c4d5e6f708192a3b4c5d6e7")
	partner = ethtypes.MustNewAddress("0x2d2e8f0e1c7a8f2b3c4d5e6f708192a3b4c5d6e7")
)

func TestChannelLifecycle(t *testing.T) {
	h := harness.New(t)
	ctx := h.Context()
	c := h.Client()

	channels, err := c.GetChannels(ctx)
	require.NoError(t, err)
	assert.Empty(t, channels)

	channel, err := c.OpenChannel(ctx, &apiclient.OpenChannelRequest{
		TokenAddress:   *token,
		PartnerAddress: *partner,
		Balance:        ethtypes.NewHexInteger64(100),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), channel.Balance.Int64())

	channel, err = c.Deposit(ctx, channel.ChannelAddress, ethtypes.NewHexInteger64(50))
	require.NoError(t, err)
	assert.Equal(t, int64(150), channel.Balance.Int64())

	channel, err = c.GetChannel(ctx, channel.ChannelAddress)
	require.NoError(t, err)
	assert.Equal(t, api.ChannelStateOpened, channel.State)

	partners, err := c.GetPartners(ctx, *token)
	require.NoError(t, err)
	require.Len(t, partners, 1)
	assert.Equal(t, *partner, partners[0].PartnerAddress)

	tokens, err := c.GetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*ethtypes.Address0xHex{token}, tokens)

	channel, err = c.CloseChannel(ctx, channel.ChannelAddress)
	require.NoError(t, err)
	assert.Equal(t, api.ChannelStateClosed, channel.State)

	channel, err = c.SettleChannel(ctx, channel.ChannelAddress)
	require.NoError(t, err)
	assert.Equal(t, api.ChannelStateSettled, channel.State)

	events, err := c.GetChannelEvents(ctx, channel.ChannelAddress, 0, api.LatestBlock)
	require.NoError(t, err)
	eventTypes := make([]string, len(events))
	for i, e := range events {
		eventTypes[i] = e.EventType
	}
	assert.Equal(t, []string{
		harness.EventChannelNewBalance,
		harness.EventChannelNewBalance,
		harness.EventChannelClosed,
		harness.EventChannelSettled,
	}, eventTypes)

	events, err = c.GetTokenNetworkEvents(ctx, *token, 0, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, harness.EventChannelNew, events[0].EventType)

	events, err = c.GetNetworkEvents(ctx, 0, api.LatestBlock)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, harness.EventTokenAdded, events[0].EventType)
}

func TestTransferAndSwaps(t *testing.T) {
	h := harness.New(t)
	ctx := h.Context()
	c := h.Client()

	id := uint64(11)
	transfer, err := c.Transfer(ctx, *token, *partner, &apiclient.TransferRequest{
		Amount:     ethtypes.NewHexInteger64(9),
		Identifier: &id,
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(11), transfer.Identifier)
	assert.Equal(t, *partner, transfer.Target)

	swap, err := c.TokenSwap(ctx, *partner, 1, &apiclient.TokenSwapRequest{
		Role:            apiclient.SwapRoleMaker,
		SendingAmount:   ethtypes.NewHexInteger64(1),
		SendingToken:    *token,
		ReceivingAmount: ethtypes.NewHexInteger64(2),
		ReceivingToken:  *partner,
	})
	require.NoError(t, err)
	assert.Equal(t, h.Service.Address(), swap.MakerAddress)
	assert.Equal(t, *partner, swap.TakerAddress)

	swap, err = c.TokenSwap(ctx, *partner, 1, &apiclient.TokenSwapRequest{
		Role:            apiclient.SwapRoleTaker,
		SendingAmount:   ethtypes.NewHexInteger64(2),
		SendingToken:    *partner,
		ReceivingAmount: ethtypes.NewHexInteger64(1),
		ReceivingToken:  *token,
	})
	require.NoError(t, err)
	assert.Equal(t, h.Service.Address(), swap.TakerAddress)
	assert.Equal(t, *partner, swap.MakerAddress)

	_, err = c.TokenSwap(ctx, *partner, 1, &apiclient.TokenSwapRequest{Role: apiclient.SwapRoleMaker})
	assert.Regexp(t, "PD030600.*409.*PD030504", err)
}

func TestErrorResponses(t *testing.T) {
	h := harness.New(t)
	ctx := h.Context()
	c := h.Client()

	_, err := c.GetChannel(ctx, *token)
	assert.Regexp(t, "PD030600.*404.*PD030500", err)

	res, err := c.R(ctx).SetBody(`{"state":"closed","balance":"0x1"}`).Patch("/channels/" + token.String())
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode())
}

func TestConnectionFailure(t *testing.T) {
	c := apiclient.New("http://127.0.0.1:1")
	_, err := c.GetChannels(context.Background())
	assert.Error(t, err)
}
