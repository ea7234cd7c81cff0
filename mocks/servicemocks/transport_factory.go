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

	service "github.com/jeamick/raiden/pkg/service"
	mock "github.com/stretchr/testify/mock"
)

// TransportFactory is an autogenerated mock type for the TransportFactory type
type TransportFactory struct {
	mock.Mock
}

// NewTransport provides a mock function with given fields: ctx, host, port
func (_m *TransportFactory) NewTransport(ctx context.Context, host string, port int) (service.Transport, error) {
	ret := _m.Called(ctx, host, port)

	if len(ret) == 0 {
		panic("no return value specified for NewTransport")
	}

	var r0 service.Transport
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, int) (service.Transport, error)); ok {
		return rf(ctx, host, port)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, int) service.Transport); ok {
		r0 = rf(ctx, host, port)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(service.Transport)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, int) error); ok {
		r1 = rf(ctx, host, port)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewTransportFactory creates a new instance of TransportFactory. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewTransportFactory(t interface {
	mock.TestingT
	Cleanup(func())
}) *TransportFactory {
	mock := &TransportFactory{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
