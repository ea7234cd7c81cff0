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

package restapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jeamick/raiden/internal/httpserver"
	"github.com/jeamick/raiden/internal/log"
	"github.com/jeamick/raiden/internal/metrics"
	"github.com/jeamick/raiden/pkg/api"
	"github.com/jeamick/raiden/pkg/harnessconf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const APIPrefix = "/api/1"

type APIServer interface {
	Start() error
	Stop()
	StopWithin(timeout time.Duration) (graceful bool)
	Addr() net.Addr
	Metrics() metrics.APIMetrics
}

var _ APIServer = &apiServer{}

type apiServer struct {
	bgCtx   context.Context
	facade  *api.Facade
	metrics metrics.APIMetrics
	router  *mux.Router
	server  httpserver.Server
}

// NewAPIServer binds the listener and the REST routes. Every request is dispatched through
// the facade at the time it arrives, so operations re-bound after start are honored.
func NewAPIServer(ctx context.Context, facade *api.Facade, conf *harnessconf.HTTPServerConfig) (_ APIServer, err error) {
	s := &apiServer{
		bgCtx:   log.WithLogField(ctx, "role", "api-server"),
		facade:  facade,
		metrics: metrics.InitMetrics(ctx, nil),
		router:  mux.NewRouter(),
	}
	s.addRoutes()

	s.server, err = httpserver.NewServer(s.bgCtx, "REST API", conf, s.router)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *apiServer) addRoutes() {
	r := s.router.PathPrefix(APIPrefix).Subrouter()
	r.HandleFunc("/channels", s.handle(s.getChannelList)).Methods(http.MethodGet)
	r.HandleFunc("/channels", s.handle(s.openChannel)).Methods(http.MethodPut)
	r.HandleFunc("/channels/{channel}", s.handle(s.getChannel)).Methods(http.MethodGet)
	r.HandleFunc("/channels/{channel}", s.handle(s.patchChannel)).Methods(http.MethodPatch)
	r.HandleFunc("/tokens", s.handle(s.getTokensList)).Methods(http.MethodGet)
	r.HandleFunc("/tokens/{token}/partners", s.handle(s.getPartners)).Methods(http.MethodGet)
	r.HandleFunc("/events/network", s.handle(s.getNetworkEvents)).Methods(http.MethodGet)
	r.HandleFunc("/events/tokens/{token}", s.handle(s.getTokenNetworkEvents)).Methods(http.MethodGet)
	r.HandleFunc("/events/channels/{channel}", s.handle(s.getChannelEvents)).Methods(http.MethodGet)
	r.HandleFunc("/transfers/{token}/{target}", s.handle(s.transfer)).Methods(http.MethodPost)
	r.HandleFunc("/token_swaps/{target}/{identifier}", s.handle(s.tokenSwap)).Methods(http.MethodPut)

	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

func (s *apiServer) Start() error {
	return s.server.Start()
}

func (s *apiServer) Stop() {
	s.server.Stop()
}

func (s *apiServer) StopWithin(timeout time.Duration) bool {
	return s.server.StopWithin(timeout)
}

func (s *apiServer) Addr() net.Addr {
	return s.server.Addr()
}

func (s *apiServer) Metrics() metrics.APIMetrics {
	return s.metrics
}
