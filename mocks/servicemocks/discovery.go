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

// Discovery is an autogenerated mock type for the Discovery type
type Discovery struct {
	mock.Mock
}

// Get provides a mock function with given fields: ctx, nodeAddress
func (_m *Discovery) Get(ctx context.Context, nodeAddress ethtypes.Address0xHex) (string, error) {
	ret := _m.Called(ctx, nodeAddress)

	if len(ret) == 0 {
		panic("no return value specified for Get")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, ethtypes.Address0xHex) (string, error)); ok {
		return rf(ctx, nodeAddress)
	}
	if rf, ok := ret.Get(0).(func(context.Context, ethtypes.Address0xHex) string); ok {
		r0 = rf(ctx, nodeAddress)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(context.Context, ethtypes.Address0xHex) error); ok {
		r1 = rf(ctx, nodeAddress)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Register provides a mock function with given fields: ctx, nodeAddress, host, port
func (_m *Discovery) Register(ctx context.Context, nodeAddress ethtypes.Address0xHex, host string, port int) error {
	ret := _m.Called(ctx, nodeAddress, host, port)

	if len(ret) == 0 {
		panic("no return value specified for Register")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, ethtypes.Address0xHex, string, int) error); ok {
		r0 = rf(ctx, nodeAddress, host, port)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewDiscovery creates a new instance of Discovery. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewDiscovery(t interface {
	mock.TestingT
	Cleanup(func())
}) *Discovery {
	mock := &Discovery{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
