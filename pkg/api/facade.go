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
	"sync"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/jeamick/raiden/internal/msgs"
)

// Facade is the single entry point to the client's business operations. The same
// *Facade is handed to the service and to the API server, so that an operation
// re-bound on it is seen both by direct callers and by HTTP requests.
type Facade struct {
	mux         sync.RWMutex
	bindings    map[OperationName]any
	substituted map[OperationName]bool
}

func NewFacade() *Facade {
	return &Facade{
		bindings:    make(map[OperationName]any, len(operationSlots)),
		substituted: make(map[OperationName]bool),
	}
}

func checkBinding(ctx context.Context, name OperationName, impl any) error {
	slot := operationSlots[name]
	if slot == nil {
		return i18n.NewError(ctx, msgs.MsgOperationUnknown, name)
	}
	if impl != nil && !slot.accepts(impl) {
		return i18n.NewError(ctx, msgs.MsgOperationTypeMismatch, name, impl, slot.typeName)
	}
	return nil
}

func (f *Facade) bindLocked(name OperationName, impl any) (previous any) {
	previous = f.bindings[name]
	if impl == nil {
		delete(f.bindings, name)
	} else {
		f.bindings[name] = impl
	}
	return previous
}

// Bind sets the implementation of the named operation, returning the previous one (or nil).
// A nil implementation unbinds the operation.
func (f *Facade) Bind(ctx context.Context, name OperationName, impl any) (previous any, err error) {
	if err := checkBinding(ctx, name, impl); err != nil {
		return nil, err
	}
	f.mux.Lock()
	defer f.mux.Unlock()
	return f.bindLocked(name, impl), nil
}

// Substitute binds a temporary implementation, claiming the operation until Restore is
// called. A second substitution of the same operation fails, whoever makes it.
func (f *Facade) Substitute(ctx context.Context, name OperationName, impl any) (previous any, err error) {
	if err := checkBinding(ctx, name, impl); err != nil {
		return nil, err
	}
	f.mux.Lock()
	defer f.mux.Unlock()
	if f.substituted[name] {
		return nil, i18n.NewError(ctx, msgs.MsgSubstitutionConflict, name)
	}
	f.substituted[name] = true
	return f.bindLocked(name, impl), nil
}

// Restore puts back the implementation that was bound before Substitute, and releases the claim
func (f *Facade) Restore(ctx context.Context, name OperationName, original any) error {
	if err := checkBinding(ctx, name, original); err != nil {
		return err
	}
	f.mux.Lock()
	defer f.mux.Unlock()
	f.bindLocked(name, original)
	delete(f.substituted, name)
	return nil
}

// Substituted reports whether the named operation has an active substitution
func (f *Facade) Substituted(name OperationName) bool {
	f.mux.RLock()
	defer f.mux.RUnlock()
	return f.substituted[name]
}

// Binding returns the current implementation of the named operation
func (f *Facade) Binding(name OperationName) (impl any, bound bool) {
	f.mux.RLock()
	defer f.mux.RUnlock()
	impl, bound = f.bindings[name]
	return impl, bound
}

func binding[F any](ctx context.Context, f *Facade, name OperationName) (fn F, err error) {
	impl, bound := f.Binding(name)
	if !bound {
		return fn, i18n.NewError(ctx, msgs.MsgOperationNotBound, name)
	}
	return impl.(F), nil
}

func (f *Facade) GetChannelList(ctx context.Context, tokenAddress, partnerAddress *ethtypes.Address0xHex) ([]*Channel, error) {
	fn, err := binding[GetChannelListFunc](ctx, f, OpGetChannelList)
	if err != nil {
		return nil, err
	}
	return fn(ctx, tokenAddress, partnerAddress)
}

func (f *Facade) GetTokensList(ctx context.Context) ([]*ethtypes.Address0xHex, error) {
	fn, err := binding[GetTokensListFunc](ctx, f, OpGetTokensList)
	if err != nil {
		return nil, err
	}
	return fn(ctx)
}

func (f *Facade) Open(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex, settleTimeout, revealTimeout *uint64) (*Channel, error) {
	fn, err := binding[OpenFunc](ctx, f, OpOpen)
	if err != nil {
		return nil, err
	}
	return fn(ctx, tokenAddress, partnerAddress, settleTimeout, revealTimeout)
}

func (f *Facade) Deposit(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex, amount *ethtypes.HexInteger) (*Channel, error) {
	fn, err := binding[DepositFunc](ctx, f, OpDeposit)
	if err != nil {
		return nil, err
	}
	return fn(ctx, tokenAddress, partnerAddress, amount)
}

func (f *Facade) Close(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex) (*Channel, error) {
	fn, err := binding[CloseFunc](ctx, f, OpClose)
	if err != nil {
		return nil, err
	}
	return fn(ctx, tokenAddress, partnerAddress)
}

func (f *Facade) Settle(ctx context.Context, tokenAddress, partnerAddress ethtypes.Address0xHex) (*Channel, error) {
	fn, err := binding[SettleFunc](ctx, f, OpSettle)
	if err != nil {
		return nil, err
	}
	return fn(ctx, tokenAddress, partnerAddress)
}

func (f *Facade) GetChannel(ctx context.Context, channelAddress ethtypes.Address0xHex) (*Channel, error) {
	fn, err := binding[GetChannelFunc](ctx, f, OpGetChannel)
	if err != nil {
		return nil, err
	}
	return fn(ctx, channelAddress)
}

func (f *Facade) GetNetworkEvents(ctx context.Context, fromBlock, toBlock uint64) ([]*Event, error) {
	fn, err := binding[GetNetworkEventsFunc](ctx, f, OpGetNetworkEvents)
	if err != nil {
		return nil, err
	}
	return fn(ctx, fromBlock, toBlock)
}

func (f *Facade) GetTokenNetworkEvents(ctx context.Context, tokenAddress ethtypes.Address0xHex, fromBlock, toBlock uint64) ([]*Event, error) {
	fn, err := binding[GetTokenNetworkEventsFunc](ctx, f, OpGetTokenNetworkEvents)
	if err != nil {
		return nil, err
	}
	return fn(ctx, tokenAddress, fromBlock, toBlock)
}

func (f *Facade) GetChannelEvents(ctx context.Context, channelAddress ethtypes.Address0xHex, fromBlock, toBlock uint64) ([]*Event, error) {
	fn, err := binding[GetChannelEventsFunc](ctx, f, OpGetChannelEvents)
	if err != nil {
		return nil, err
	}
	return fn(ctx, channelAddress, fromBlock, toBlock)
}

func (f *Facade) Transfer(ctx context.Context, tokenAddress ethtypes.Address0xHex, amount *ethtypes.HexInteger, target ethtypes.Address0xHex, identifier *uint64) (*Transfer, error) {
	fn, err := binding[TransferFunc](ctx, f, OpTransfer)
	if err != nil {
		return nil, err
	}
	return fn(ctx, tokenAddress, amount, target, identifier)
}

func (f *Facade) TokenSwap(ctx context.Context, swap *TokenSwap) (*TokenSwap, error) {
	fn, err := binding[TokenSwapFunc](ctx, f, OpTokenSwap)
	if err != nil {
		return nil, err
	}
	return fn(ctx, swap)
}

func (f *Facade) ExpectTokenSwap(ctx context.Context, swap *TokenSwap) (*TokenSwap, error) {
	fn, err := binding[ExpectTokenSwapFunc](ctx, f, OpExpectTokenSwap)
	if err != nil {
		return nil, err
	}
	return fn(ctx, swap)
}
