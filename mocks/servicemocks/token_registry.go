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

package servicemocks

import (
	context "context"

	ethtypes "github.com/hyperledger/firefly-signer/pkg/ethtypes"
	mock "github.com/stretchr/testify/mock"
)

// TokenRegistry is an autogenerated mock type for the TokenRegistry type
type TokenRegistry struct {
	mock.Mock
}

// Tokens provides a mock function with given fields: ctx
func (_m *TokenRegistry) Tokens(ctx context.Context) ([]*ethtypes.Address0xHex, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Tokens")
	}

	var r0 []*ethtypes.Address0xHex
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) ([]*ethtypes.Address0xHex, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) []*ethtypes.Address0xHex); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]*ethtypes.Address0xHex)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewTokenRegistry creates a new instance of TokenRegistry. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewTokenRegistry(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenRegistry {
	mock := &TokenRegistry{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
