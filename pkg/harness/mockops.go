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
	"math/big"
	"sort"
	"sync"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/jeamick/raiden/internal/msgs"
	"github.com/jeamick/raiden/pkg/api"
	"golang.org/x/crypto/sha3"
)

const (
	DefaultSettleTimeout uint64 = 30
	// FirstMockBlock is the block number of the first event the mock operations record
	FirstMockBlock uint64 = 1
)

const (
	EventTokenAdded        = "TokenAdded"
	EventChannelNew        = "ChannelNew"
	EventChannelNewBalance = "ChannelNewBalance"
	EventChannelClosed     = "ChannelClosed"
	EventChannelSettled    = "ChannelSettled"
)

type eventScope int

const (
	scopeNetwork eventScope = iota
	scopeTokenNetwork
	scopeChannel
)

type scopedEvent struct {
	scope   eventScope
	address ethtypes.Address0xHex
	event   *api.Event
}

// MockOperations is an in-memory stand-in for every facade operation. Results depend only
// on the arguments and on the fixtures the test has configured, so HTTP level tests can
// assert exact responses.
type MockOperations struct {
	mux           sync.Mutex
	revealTimeout uint64
	nodeAddress   ethtypes.Address0xHex
	nextBlock     uint64
	tokens        []*ethtypes.Address0xHex
	channels      []*api.Channel
	events        []*scopedEvent
	transfers     []*api.Transfer
	swaps         map[uint64]*api.TokenSwap
	expectedSwaps map[uint64]*api.TokenSwap
}

// NewMockOperations uses revealTimeout (in blocks) for channels opened without one
func NewMockOperations(revealTimeout uint64) *MockOperations {
	return &MockOperations{
		revealTimeout: revealTimeout,
		nextBlock:     FirstMockBlock,
		swaps:         make(map[uint64]*api.TokenSwap),
		expectedSwaps: make(map[uint64]*api.TokenSwap),
	}
}

// ChannelAddress derives the address the mock assigns to a channel between the node
// and partner on token
func ChannelAddress(tokenAddress, partnerAddress ethtypes.Address0xHex) ethtypes.Address0xHex {
	hash := sha3.NewLegacyKeccak256()
	hash.Write(tokenAddress[:])
	hash.Write(partnerAddress[:])
	var addr ethtypes.Address0xHex
	copy(addr[:], hash.Sum(nil)[12:])
	return addr
}

// Install substitutes every operation on the facade, to be restored by sub
func (m *MockOperations) Install(sub *Substitutor, facade *api.Facade) error {
	ops := m.Operations()
	for _, name := range api.OperationNames() {
		if err := sub.Substitute(facade, name, ops[name]); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockOperations) Operations() map[api.OperationName]any {
	return map[api.OperationName]any{
		api.OpGetChannelList:        m.GetChannelList,
		api.OpGetTokensList:         m.GetTokensList,
		api.OpOpen:                  m.Open,
		api.OpDeposit:               m.Deposit,
		api.OpClose:                 m.Close,
		api.OpSettle:                m.Settle,
		api.OpGetChannel:            m.GetChannel,
		api.OpGetNetworkEvents:      m.GetNetworkEvents,
		api.OpGetTokenNetworkEvents: m.GetTokenNetworkEvents,
		api.OpGetChannelEvents:      m.GetChannelEvents,
		api.OpTransfer:              m.Transfer,
		api.OpTokenSwap:             m.TokenSwap,
		api.OpExpectTokenSwap:       m.ExpectTokenSwap,
	}
}

// SetNodeAddress sets the address reported as initiator, maker or taker for this node
func (m *MockOperations) SetNodeAddress(addr ethtypes.Address0xHex) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.nodeAddress = addr
}

func (m *MockOperations) AddToken(tokenAddress ethtypes.Address0xHex) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.addTokenLocked(tokenAddress)
}

// AddChannel adds a channel fixture as-is, without recording any event
func (m *MockOperations) AddChannel(channel *api.Channel) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.addTokenLocked(channel.TokenAddress)
	m.channels = append(m.channels, copyChannel(channel))
}

func (m *MockOperations) AddNetworkEvent(event *api.Event) {
	m.addEvent(scopeNetwork, ethtypes.Address0xHex{}, event)
}

func (m *MockOperations) AddTokenNetworkEvent(tokenAddress ethtypes.Address0xHex, event *api.Event) {
	m.addEvent(scopeTokenNetwork, tokenAddress, event)
}

func (m *MockOperations) AddChannelEvent(channelAddress ethtypes.Address0xHex, event *api.Event) {
	m.addEvent(scopeChannel, channelAddress, event)
}

func (m *MockOperations) addEvent(scope eventScope, addr ethtypes.Address0xHex, event *api.Event) {
	m.mux.Lock()
	defer m.mux.Unlock()
	m.events = append(m.events, &scopedEvent{scope: scope, address: addr, event: event})
	if event.BlockNumber >= m.nextBlock {
		m.nextBlock = event.BlockNumber + 1
	}
}

// Transfers returns the transfers made so far, in order
func (m *MockOperations) Transfers() []*api.Transfer {
	m.mux.Lock()
	defer m.mux.Unlock()
	return append([]*api.Transfer{}, m.transfers...)
}

func (m *MockOperations) TokenSwaps() map[uint64]*api.TokenSwap {
	m.mux.Lock()
	defer m.mux.Unlock()
	return copySwaps(m.swaps)
}

func (m *MockOperations) ExpectedTokenSwaps() map[uint64]*api.TokenSwap {
	m.mux.Lock()
	defer m.mux.Unlock()
	return copySwaps(m.expectedSwaps)
}

func (m *MockOperations) addTokenLocked(tokenAddress ethtypes.Address0xHex) {
	for _, t := range m.tokens {
		if *t == tokenAddress {
			return
		}
	}
	m.tokens = append(m.tokens, &tokenAddress)
	m.recordLocked(scopeNetwork, ethtypes.Address0xHex{}, EventTokenAdded, map[string]any{
		"token_address": tokenAddress.String(),
	})
}

func (m *MockOperations) recordLocked(scope eventScope, addr ethtypes.Address0xHex, eventType string, data map[string]any) {
	m.events = append(m.events, &scopedEvent{
		scope:   scope,
		address: addr,
		event: &api.Event{
			EventType:   eventType,
			BlockNumber: m.nextBlock,
			Data:        data,
		},
	})
	m.nextBlock++
}

func (m *MockOperations) findChannelLocked(tokenAddress, partnerAddress ethtypes.Address0xHex) *api.Channel {
	for _, c := range m.channels {
		if c.TokenAddress == tokenAddress && c.PartnerAddress == partnerAddress {
			return c
		}
	}
	return nil
}

func (m *MockOperations) GetChannelList(ctx context.Context, tokenAddress, partnerAddress *ethtypes.Address0xHex) ([]*api.Channel, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	channels := []*api.Channel{}
	for _, c := range m.channels {
		if (tokenAddress == nil || c.TokenAddress == *tokenAddress) &&
			(partnerAddress == nil || c.PartnerAddress == *partnerAddress) {
			channels = append(channels, copyChannel(c))
		}
	}
	return channels, nil
}

func (m *MockOperations) GetTokensList(ctx context.Context) ([]*ethtypes.Address0xHex, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	tokens := make([]*ethtypes.Address0xHex, len(m.tokens))
	for i, t := range m.tokens {
		tokenAddress := *t
		tokens[i] = &tokenAddress
	}
	return tokens, nil
}

func (m *MockOperations) Open(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex, settleTimeout, revealTimeout *uint64) (*api.Channel, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	if m.findChannelLocked(tokenAddress, partnerAddress) != nil {
		return nil, i18n.NewError(ctx, msgs.MsgMockChannelExists, m.nodeAddress.String(), partnerAddress.String(), tokenAddress.String())
	}
	channel := &api.Channel{
		ChannelAddress: ChannelAddress(tokenAddress, partnerAddress),
		TokenAddress:   tokenAddress,
		PartnerAddress: partnerAddress,
		Balance:        ethtypes.NewHexInteger64(0),
		SettleTimeout:  DefaultSettleTimeout,
		RevealTimeout:  m.revealTimeout,
		State:          api.ChannelStateOpened,
	}
	if settleTimeout != nil {
		channel.SettleTimeout = *settleTimeout
	}
	if revealTimeout != nil {
		channel.RevealTimeout = *revealTimeout
	}
	m.addTokenLocked(tokenAddress)
	m.channels = append(m.channels, channel)
	m.recordLocked(scopeTokenNetwork, tokenAddress, EventChannelNew, map[string]any{
		"channel_address": channel.ChannelAddress.String(),
		"partner_address": partnerAddress.String(),
		"settle_timeout":  channel.SettleTimeout,
	})
	return copyChannel(channel), nil
}

func (m *MockOperations) Deposit(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex, amount *ethtypes.HexInteger) (*api.Channel, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	if amount == nil || amount.BigInt().Sign() <= 0 {
		return nil, i18n.NewError(ctx, msgs.MsgMockInvalidAmount)
	}
	channel, err := m.channelInStateLocked(ctx, tokenAddress, partnerAddress, api.ChannelStateOpened)
	if err != nil {
		return nil, err
	}
	channel.Balance = ethtypes.NewHexInteger(new(big.Int).Add(channel.Balance.BigInt(), amount.BigInt()))
	m.recordLocked(scopeChannel, channel.ChannelAddress, EventChannelNewBalance, map[string]any{
		"token_address": tokenAddress.String(),
		"balance":       channel.Balance.String(),
	})
	return copyChannel(channel), nil
}

func (m *MockOperations) Close(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex) (*api.Channel, error) {
	return m.transition(ctx, tokenAddress, partnerAddress, api.ChannelStateOpened, api.ChannelStateClosed, EventChannelClosed)
}

func (m *MockOperations) Settle(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex) (*api.Channel, error) {
	return m.transition(ctx, tokenAddress, partnerAddress, api.ChannelStateClosed, api.ChannelStateSettled, EventChannelSettled)
}

func (m *MockOperations) transition(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex, from, to api.ChannelState, eventType string) (*api.Channel, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	channel, err := m.channelInStateLocked(ctx, tokenAddress, partnerAddress, from)
	if err != nil {
		return nil, err
	}
	channel.State = to
	m.recordLocked(scopeChannel, channel.ChannelAddress, eventType, nil)
	return copyChannel(channel), nil
}

func (m *MockOperations) channelInStateLocked(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex, state api.ChannelState) (*api.Channel, error) {
	channel := m.findChannelLocked(tokenAddress, partnerAddress)
	if channel == nil {
		channelAddress := ChannelAddress(tokenAddress, partnerAddress)
		return nil, i18n.NewError(ctx, msgs.MsgMockChannelNotFound, channelAddress.String())
	}
	if channel.State != state {
		return nil, i18n.NewError(ctx, msgs.MsgMockChannelStateInvalid, channel.ChannelAddress.String(), channel.State)
	}
	return channel, nil
}

func (m *MockOperations) GetChannel(ctx context.Context, channelAddress ethtypes.Address0xHex) (*api.Channel, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	for _, c := range m.channels {
		if c.ChannelAddress == channelAddress {
			return copyChannel(c), nil
		}
	}
	return nil, i18n.NewError(ctx, msgs.MsgMockChannelNotFound, channelAddress.String())
}

func (m *MockOperations) GetNetworkEvents(ctx context.Context, fromBlock, toBlock uint64) ([]*api.Event, error) {
	return m.queryEvents(scopeNetwork, ethtypes.Address0xHex{}, fromBlock, toBlock), nil
}

func (m *MockOperations) GetTokenNetworkEvents(ctx context.Context, tokenAddress ethtypes.Address0xHex, fromBlock, toBlock uint64) ([]*api.Event, error) {
	return m.queryEvents(scopeTokenNetwork, tokenAddress, fromBlock, toBlock), nil
}

func (m *MockOperations) GetChannelEvents(ctx context.Context, channelAddress ethtypes.Address0xHex, fromBlock, toBlock uint64) ([]*api.Event, error) {
	return m.queryEvents(scopeChannel, channelAddress, fromBlock, toBlock), nil
}

// queryEvents returns matching events with fromBlock <= block <= toBlock, ordered by block
func (m *MockOperations) queryEvents(scope eventScope, addr ethtypes.Address0xHex, fromBlock, toBlock uint64) []*api.Event {
	m.mux.Lock()
	defer m.mux.Unlock()
	events := []*api.Event{}
	for _, e := range m.events {
		if e.scope == scope && e.address == addr &&
			e.event.BlockNumber >= fromBlock && e.event.BlockNumber <= toBlock {
			eventCopy := *e.event
			events = append(events, &eventCopy)
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].BlockNumber < events[j].BlockNumber })
	return events
}

// Transfer records the transfer. Without an identifier, the next in sequence is used.
func (m *MockOperations) Transfer(ctx context.Context, tokenAddress ethtypes.Address0xHex, amount *ethtypes.HexInteger, target ethtypes.Address0xHex, identifier *uint64) (*api.Transfer, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	if amount == nil || amount.BigInt().Sign() <= 0 {
		return nil, i18n.NewError(ctx, msgs.MsgMockInvalidAmount)
	}
	transfer := &api.Transfer{
		Initiator:  m.nodeAddress,
		Target:     target,
		Token:      tokenAddress,
		Amount:     ethtypes.NewHexInteger(new(big.Int).Set(amount.BigInt())),
		Identifier: uint64(len(m.transfers) + 1),
	}
	if identifier != nil {
		transfer.Identifier = *identifier
	}
	m.transfers = append(m.transfers, transfer)
	result := *transfer
	return &result, nil
}

func (m *MockOperations) TokenSwap(ctx context.Context, swap *api.TokenSwap) (*api.TokenSwap, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	if _, exists := m.swaps[swap.Identifier]; exists {
		return nil, i18n.NewError(ctx, msgs.MsgMockSwapIdentifierUsed, swap.Identifier)
	}
	recorded := *swap
	recorded.MakerAddress = m.nodeAddress
	m.swaps[swap.Identifier] = &recorded
	result := recorded
	return &result, nil
}

func (m *MockOperations) ExpectTokenSwap(ctx context.Context, swap *api.TokenSwap) (*api.TokenSwap, error) {
	m.mux.Lock()
	defer m.mux.Unlock()
	if _, exists := m.expectedSwaps[swap.Identifier]; exists {
		return nil, i18n.NewError(ctx, msgs.MsgMockSwapIdentifierUsed, swap.Identifier)
	}
	recorded := *swap
	recorded.TakerAddress = m.nodeAddress
	m.expectedSwaps[swap.Identifier] = &recorded
	result := recorded
	return &result, nil
}

func copyChannel(c *api.Channel) *api.Channel {
	cc := *c
	if c.Balance != nil {
		cc.Balance = ethtypes.NewHexInteger(new(big.Int).Set(c.Balance.BigInt()))
	}
	return &cc
}

func copySwaps(swaps map[uint64]*api.TokenSwap) map[uint64]*api.TokenSwap {
	result := make(map[uint64]*api.TokenSwap, len(swaps))
	for id, s := range swaps {
		sc := *s
		result[id] = &sc
	}
	return result
}
