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
	"testing"

	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/jeamick/raiden/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testNode    = ethtypes.MustNewAddress("0x9a9e8f0e1c7a8f2b3c4d5e6f708192a3b4c5d6e7")
	testToken   = ethtypes.MustNewAddress("0x1c1e8f0e1c7a8f2b3c4d5e6f708192a3b4c5d6e7")
	testPartner = ethtypes.MustNewAddress("0x2d2e8f0e1c7a8f2b3c4d5e6f708192a3b4c5d6e7")
)

func newTestMockOps() *MockOperations {
	m := NewMockOperations(10)
	m.SetNodeAddress(*testNode)
	return m
}

func TestChannelAddressDeterministic(t *testing.T) {
	a1 := ChannelAddress(*testToken, *testPartner)
	a2 := ChannelAddress(*testToken, *testPartner)
	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, ChannelAddress(*testPartner, *testToken))
	assert.NotEqual(t, ethtypes.Address0xHex{}, a1)
}

func TestMockChannelLifecycle(t *testing.T) {
	ctx := context.Background()
	m := newTestMockOps()

	channels, err := m.GetChannelList(ctx, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, channels)
	assert.Empty(t, channels)

	channel, err := m.Open(ctx, *testToken, *testPartner, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ChannelAddress(*testToken, *testPartner), channel.ChannelAddress)
	assert.Equal(t, DefaultSettleTimeout, channel.SettleTimeout)
	assert.Equal(t, uint64(10), channel.RevealTimeout)
	assert.Equal(t, api.ChannelStateOpened, channel.State)
	assert.Equal(t, int64(0), channel.Balance.Int64())

	_, err = m.Open(ctx, *testToken, *testPartner, nil, nil)
	assert.Regexp(t, "PD030501", err)

	channel, err = m.Deposit(ctx, *testToken, *testPartner, ethtypes.NewHexInteger64(50))
	require.NoError(t, err)
	assert.Equal(t, int64(50), channel.Balance.Int64())
	channel, err = m.Deposit(ctx, *testToken, *testPartner, ethtypes.NewHexInteger64(25))
	require.NoError(t, err)
	assert.Equal(t, int64(75), channel.Balance.Int64())

	_, err = m.Deposit(ctx, *testToken, *testPartner, ethtypes.NewHexInteger64(0))
	assert.Regexp(t, "PD030503", err)
	_, err = m.Deposit(ctx, *testPartner, *testToken, ethtypes.NewHexInteger64(1))
	assert.Regexp(t, "PD030500", err)

	_, err = m.Settle(ctx, *testToken, *testPartner)
	assert.Regexp(t, "PD030502.*opened", err)

	channel, err = m.Close(ctx, *testToken, *testPartner)
	require.NoError(t, err)
	assert.Equal(t, api.ChannelStateClosed, channel.State)
	_, err = m.Close(ctx, *testToken, *testPartner)
	assert.Regexp(t, "PD030502.*closed", err)
	_, err = m.Deposit(ctx, *testToken, *testPartner, ethtypes.NewHexInteger64(1))
	assert.Regexp(t, "PD030502", err)

	channel, err = m.Settle(ctx, *testToken, *testPartner)
	require.NoError(t, err)
	assert.Equal(t, api.ChannelStateSettled, channel.State)

	fetched, err := m.GetChannel(ctx, channel.ChannelAddress)
	require.NoError(t, err)
	assert.Equal(t, channel, fetched)

	_, err = m.GetChannel(ctx, *testToken)
	assert.Regexp(t, "PD030500", err)
}

func TestMockOpenExplicitTimeouts(t *testing.T) {
	m := newTestMockOps()
	settle, reveal := uint64(100), uint64(7)
	channel, err := m.Open(context.Background(), *testToken, *testPartner, &settle, &reveal)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), channel.SettleTimeout)
	assert.Equal(t, uint64(7), channel.RevealTimeout)
}

func TestMockResultsAreCopies(t *testing.T) {
	ctx := context.Background()
	m := newTestMockOps()
	channel, err := m.Open(ctx, *testToken, *testPartner, nil, nil)
	require.NoError(t, err)
	channel.State = api.ChannelStateSettled
	channel.Balance = ethtypes.NewHexInteger64(999)

	fetched, err := m.GetChannel(ctx, channel.ChannelAddress)
	require.NoError(t, err)
	assert.Equal(t, api.ChannelStateOpened, fetched.State)
	assert.Equal(t, int64(0), fetched.Balance.Int64())
}

func TestMockChannelListFilters(t *testing.T) {
	ctx := context.Background()
	m := newTestMockOps()
	otherToken := ethtypes.MustNewAddress("0x3e3e8f0e1c7a8f2b3c4d5e6f708192a3b4c5d6e7")
	_, err := m.Open(ctx, *testToken, *testPartner, nil, nil)
	require.NoError(t, err)
	m.AddChannel(&api.Channel{
		ChannelAddress: *testNode,
		TokenAddress:   *otherToken,
		PartnerAddress: *testPartner,
		State:          api.ChannelStateClosed,
	})

	all, err := m.GetChannelList(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byToken, err := m.GetChannelList(ctx, otherToken, nil)
	require.NoError(t, err)
	require.Len(t, byToken, 1)
	assert.Equal(t, *testNode, byToken[0].ChannelAddress)

	byPartner, err := m.GetChannelList(ctx, nil, testPartner)
	require.NoError(t, err)
	assert.Len(t, byPartner, 2)

	none, err := m.GetChannelList(ctx, testToken, otherToken)
	require.NoError(t, err)
	assert.Empty(t, none)

	tokens, err := m.GetTokensList(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*ethtypes.Address0xHex{testToken, otherToken}, tokens)
}

func TestMockEvents(t *testing.T) {
	ctx := context.Background()
	m := newTestMockOps()

	channel, err := m.Open(ctx, *testToken, *testPartner, nil, nil)
	require.NoError(t, err)
	_, err = m.Deposit(ctx, *testToken, *testPartner, ethtypes.NewHexInteger64(10))
	require.NoError(t, err)
	_, err = m.Close(ctx, *testToken, *testPartner)
	require.NoError(t, err)

	// TokenAdded@1, ChannelNew@2, ChannelNewBalance@3, ChannelClosed@4
	network, err := m.GetNetworkEvents(ctx, 0, api.LatestBlock)
	require.NoError(t, err)
	require.Len(t, network, 1)
	assert.Equal(t, EventTokenAdded, network[0].EventType)
	assert.Equal(t, uint64(1), network[0].BlockNumber)

	tokenEvents, err := m.GetTokenNetworkEvents(ctx, *testToken, 0, api.LatestBlock)
	require.NoError(t, err)
	require.Len(t, tokenEvents, 1)
	assert.Equal(t, EventChannelNew, tokenEvents[0].EventType)
	assert.Equal(t, uint64(2), tokenEvents[0].BlockNumber)

	channelEvents, err := m.GetChannelEvents(ctx, channel.ChannelAddress, 0, api.LatestBlock)
	require.NoError(t, err)
	require.Len(t, channelEvents, 2)
	assert.Equal(t, EventChannelNewBalance, channelEvents[0].EventType)
	assert.Equal(t, "0xa", channelEvents[0].Data["balance"])
	assert.Equal(t, EventChannelClosed, channelEvents[1].EventType)

	ranged, err := m.GetChannelEvents(ctx, channel.ChannelAddress, 4, 4)
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, EventChannelClosed, ranged[0].EventType)

	empty, err := m.GetChannelEvents(ctx, channel.ChannelAddress, 5, api.LatestBlock)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestMockConfiguredEvents(t *testing.T) {
	ctx := context.Background()
	m := newTestMockOps()
	m.AddNetworkEvent(&api.Event{EventType: "Custom", BlockNumber: 100})
	m.AddTokenNetworkEvent(*testToken, &api.Event{EventType: "Custom", BlockNumber: 5})
	m.AddChannelEvent(*testPartner, &api.Event{EventType: "Custom", BlockNumber: 7})

	network, err := m.GetNetworkEvents(ctx, 50, 150)
	require.NoError(t, err)
	assert.Equal(t, []*api.Event{{EventType: "Custom", BlockNumber: 100}}, network)

	// recorded events continue after the highest configured block
	m.AddToken(*testPartner)
	network, err = m.GetNetworkEvents(ctx, 101, api.LatestBlock)
	require.NoError(t, err)
	require.Len(t, network, 1)
	assert.Equal(t, uint64(101), network[0].BlockNumber)

	tokenEvents, err := m.GetTokenNetworkEvents(ctx, *testToken, 0, 4)
	require.NoError(t, err)
	assert.Empty(t, tokenEvents)

	channelEvents, err := m.GetChannelEvents(ctx, *testPartner, 7, 7)
	require.NoError(t, err)
	assert.Len(t, channelEvents, 1)
}

func TestMockTransfers(t *testing.T) {
	ctx := context.Background()
	m := newTestMockOps()

	transfer, err := m.Transfer(ctx, *testToken, ethtypes.NewHexInteger64(5), *testPartner, nil)
	require.NoError(t, err)
	assert.Equal(t, &api.Transfer{
		Initiator:  *testNode,
		Target:     *testPartner,
		Token:      *testToken,
		Amount:     ethtypes.NewHexInteger64(5),
		Identifier: 1,
	}, transfer)

	id := uint64(42)
	transfer, err = m.Transfer(ctx, *testToken, ethtypes.NewHexInteger64(6), *testPartner, &id)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), transfer.Identifier)

	_, err = m.Transfer(ctx, *testToken, ethtypes.NewHexInteger64(-1), *testPartner, nil)
	assert.Regexp(t, "PD030503", err)
	_, err = m.Transfer(ctx, *testToken, nil, *testPartner, nil)
	assert.Regexp(t, "PD030503", err)

	assert.Len(t, m.Transfers(), 2)
}

func TestMockTokenSwaps(t *testing.T) {
	ctx := context.Background()
	m := newTestMockOps()

	swap := &api.TokenSwap{
		Identifier:   1,
		MakerToken:   *testToken,
		MakerAmount:  ethtypes.NewHexInteger64(10),
		TakerToken:   *testPartner,
		TakerAmount:  ethtypes.NewHexInteger64(20),
		TakerAddress: *testPartner,
	}
	made, err := m.TokenSwap(ctx, swap)
	require.NoError(t, err)
	assert.Equal(t, *testNode, made.MakerAddress)
	assert.Equal(t, ethtypes.Address0xHex{}, swap.MakerAddress)

	_, err = m.TokenSwap(ctx, swap)
	assert.Regexp(t, "PD030504", err)

	expected, err := m.ExpectTokenSwap(ctx, &api.TokenSwap{Identifier: 1, MakerAddress: *testPartner})
	require.NoError(t, err)
	assert.Equal(t, *testNode, expected.TakerAddress)
	_, err = m.ExpectTokenSwap(ctx, &api.TokenSwap{Identifier: 1})
	assert.Regexp(t, "PD030504", err)

	assert.Len(t, m.TokenSwaps(), 1)
	assert.Equal(t, *testPartner, m.ExpectedTokenSwaps()[1].MakerAddress)
}

// Every operation reached through the facade after substitution gives exactly what the
// mock gives when called directly, given the same fixtures
func TestInstalledOperationsMatchDirectCalls(t *testing.T) {
	ctx := context.Background()
	setup := func() *MockOperations {
		m := newTestMockOps()
		m.AddChannel(&api.Channel{
			ChannelAddress: ChannelAddress(*testToken, *testNode),
			TokenAddress:   *testToken,
			PartnerAddress: *testNode,
			Balance:        ethtypes.NewHexInteger64(3),
			State:          api.ChannelStateOpened,
		})
		m.AddNetworkEvent(&api.Event{EventType: "Custom", BlockNumber: 9})
		return m
	}
	installed, direct := setup(), setup()

	facade := api.NewFacade()
	sub := NewSubstitutor(t)
	require.NoError(t, installed.Install(sub, facade))
	assert.Equal(t, len(api.OperationNames()), sub.Active())

	settle := uint64(40)
	id := uint64(3)
	swap := &api.TokenSwap{Identifier: 8, MakerToken: *testToken, MakerAmount: ethtypes.NewHexInteger64(1)}
	type result struct {
		v      any
		errMsg string
	}
	r := func(v any, err error) result {
		if err != nil {
			return result{v, err.Error()}
		}
		return result{v, ""}
	}

	for _, step := range []struct {
		name               string
		viaFacade, viaMock func() result
	}{
		{"get_channel_list", func() result { return r(facade.GetChannelList(ctx, testToken, nil)) }, func() result { return r(direct.GetChannelList(ctx, testToken, nil)) }},
		{"get_tokens_list", func() result { return r(facade.GetTokensList(ctx)) }, func() result { return r(direct.GetTokensList(ctx)) }},
		{"open", func() result { return r(facade.Open(ctx, *testToken, *testPartner, &settle, nil)) }, func() result { return r(direct.Open(ctx, *testToken, *testPartner, &settle, nil)) }},
		{"open_again", func() result { return r(facade.Open(ctx, *testToken, *testPartner, nil, nil)) }, func() result { return r(direct.Open(ctx, *testToken, *testPartner, nil, nil)) }},
		{"deposit", func() result { return r(facade.Deposit(ctx, *testToken, *testPartner, ethtypes.NewHexInteger64(4))) }, func() result { return r(direct.Deposit(ctx, *testToken, *testPartner, ethtypes.NewHexInteger64(4))) }},
		{"close", func() result { return r(facade.Close(ctx, *testToken, *testPartner)) }, func() result { return r(direct.Close(ctx, *testToken, *testPartner)) }},
		{"settle", func() result { return r(facade.Settle(ctx, *testToken, *testPartner)) }, func() result { return r(direct.Settle(ctx, *testToken, *testPartner)) }},
		{"get_channel", func() result { return r(facade.GetChannel(ctx, ChannelAddress(*testToken, *testNode))) }, func() result { return r(direct.GetChannel(ctx, ChannelAddress(*testToken, *testNode))) }},
		{"get_network_events", func() result { return r(facade.GetNetworkEvents(ctx, 0, api.LatestBlock)) }, func() result { return r(direct.GetNetworkEvents(ctx, 0, api.LatestBlock)) }},
		{"get_token_network_events", func() result { return r(facade.GetTokenNetworkEvents(ctx, *testToken, 0, 100)) }, func() result { return r(direct.GetTokenNetworkEvents(ctx, *testToken, 0, 100)) }},
		{"get_channel_events", func() result {
			return r(facade.GetChannelEvents(ctx, ChannelAddress(*testToken, *testPartner), 0, api.LatestBlock))
		}, func() result {
			return r(direct.GetChannelEvents(ctx, ChannelAddress(*testToken, *testPartner), 0, api.LatestBlock))
		}},
		{"transfer", func() result { return r(facade.Transfer(ctx, *testToken, ethtypes.NewHexInteger64(2), *testPartner, &id)) }, func() result { return r(direct.Transfer(ctx, *testToken, ethtypes.NewHexInteger64(2), *testPartner, &id)) }},
		{"token_swap", func() result { return r(facade.TokenSwap(ctx, swap)) }, func() result { return r(direct.TokenSwap(ctx, swap)) }},
		{"expect_token_swap", func() result { return r(facade.ExpectTokenSwap(ctx, swap)) }, func() result { return r(direct.ExpectTokenSwap(ctx, swap)) }},
	} {
		assert.Equal(t, step.viaMock(), step.viaFacade(), step.name)
	}
}
