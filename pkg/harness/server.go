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
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jeamick/raiden/internal/log"
	"github.com/jeamick/raiden/internal/metrics"
	"github.com/jeamick/raiden/internal/restapi"
	"github.com/jeamick/raiden/pkg/api"
	"github.com/jeamick/raiden/pkg/confutil"
	"github.com/jeamick/raiden/pkg/harnessconf"
)

// DefaultStopTimeout bounds how long teardown waits for the API server
const DefaultStopTimeout = 10 * time.Second

type ServerState int32

const (
	ServerCreated ServerState = iota
	ServerServing
	ServerStopping
	ServerStopped
)

func (s ServerState) String() string {
	switch s {
	case ServerCreated:
		return "created"
	case ServerServing:
		return "serving"
	case ServerStopping:
		return "stopping"
	case ServerStopped:
		return "stopped"
	default:
		return fmt.Sprintf("unknown(%d)", int32(s))
	}
}

// ServerHandle is a running API server. The state only ever moves forwards, and stopped
// is terminal.
type ServerHandle struct {
	ctx      context.Context
	server   restapi.APIServer
	state    atomic.Int32
	stopLock sync.Mutex
}

type ServerOption func(conf *harnessconf.HTTPServerConfig)

// WithServerConfig starts from a full HTTP server configuration. The host and port
// passed to StartServer always take precedence.
func WithServerConfig(base *harnessconf.HTTPServerConfig) ServerOption {
	return func(conf *harnessconf.HTTPServerConfig) {
		*conf = *base
	}
}

func WithCORS(cors harnessconf.CORSConfig) ServerOption {
	return func(conf *harnessconf.HTTPServerConfig) {
		conf.CORS = cors
	}
}

func WithRequestTimeout(timeout time.Duration) ServerOption {
	return func(conf *harnessconf.HTTPServerConfig) {
		conf.DefaultRequestTimeout = confutil.P(timeout.String())
	}
}

// StartServer binds host:port (port 0 picks a free port) and begins serving the facade in
// the background. It returns once serving has been scheduled, which does not guarantee the
// server is already accepting. Connections made before then queue on the bound listener.
func StartServer(ctx context.Context, facade *api.Facade, host string, port int, opts ...ServerOption) (*ServerHandle, error) {
	conf := &harnessconf.HTTPServerConfig{}
	for _, o := range opts {
		o(conf)
	}
	conf.Address = &host
	conf.Port = &port

	server, err := restapi.NewAPIServer(ctx, facade, conf)
	if err != nil {
		return nil, err
	}
	h := &ServerHandle{ctx: ctx, server: server}
	h.state.Store(int32(ServerCreated))
	if err := server.Start(); err != nil {
		server.Stop()
		h.state.Store(int32(ServerStopped))
		return nil, err
	}
	h.state.Store(int32(ServerServing))
	return h, nil
}

// Stop waits up to timeout for in-flight requests, then forces the server closed. It never
// fails, and returning means the address has been released. Calling Stop again is a no-op.
func (h *ServerHandle) Stop(timeout time.Duration) {
	h.stopLock.Lock()
	defer h.stopLock.Unlock()
	if h.State() == ServerStopped {
		return
	}
	h.state.Store(int32(ServerStopping))
	// a forced close is logged as a warning by the server itself
	graceful := h.server.StopWithin(timeout)
	log.L(h.ctx).Debugf("API server stopped (graceful=%t)", graceful)
	h.state.Store(int32(ServerStopped))
}

func (h *ServerHandle) State() ServerState {
	return ServerState(h.state.Load())
}

func (h *ServerHandle) Addr() net.Addr {
	return h.server.Addr()
}

func (h *ServerHandle) URL() string {
	return fmt.Sprintf("http://%s", h.server.Addr())
}

func (h *ServerHandle) Metrics() metrics.APIMetrics {
	return h.server.Metrics()
}
