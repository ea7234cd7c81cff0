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

package httpserver

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/jeamick/raiden/internal/log"
	"github.com/jeamick/raiden/internal/msgs"
	"github.com/jeamick/raiden/pkg/confutil"
	"github.com/jeamick/raiden/pkg/harnessconf"
)

type Server interface {
	Start() error
	// Stop shuts down using the configured shutdown timeout
	Stop()
	// StopWithin waits up to the timeout for in-flight requests to complete, then forcibly
	// closes all connections. Returns false if the forced path was needed.
	StopWithin(timeout time.Duration) (graceful bool)
	Addr() net.Addr
}

var _ Server = &httpServer{}

type httpServer struct {
	ctx             context.Context
	cancelCtx       func()
	description     string
	listener        net.Listener
	httpServer      *http.Server
	httpServerDone  chan error
	shutdownTimeout time.Duration
	stateLock       sync.Mutex
	started         bool
	stopped         bool
}

// NewServer binds the listener immediately, so an address already in use is reported here
// rather than from Start.
func NewServer(ctx context.Context, description string, conf *harnessconf.HTTPServerConfig, handler http.Handler) (_ Server, err error) {
	s := &httpServer{
		description:     description,
		httpServerDone:  make(chan error, 1),
		shutdownTimeout: confutil.DurationMin(conf.ShutdownTimeout, 0, *harnessconf.HTTPDefaults.ShutdownTimeout),
	}
	s.ctx, s.cancelCtx = context.WithCancel(ctx)

	if conf.Port == nil {
		return nil, i18n.NewError(ctx, msgs.MsgHTTPServerMissingPort, description)
	}

	listenAddr := net.JoinHostPort(confutil.StringNotEmpty(conf.Address, *harnessconf.HTTPDefaults.Address), strconv.Itoa(*conf.Port))
	if s.listener, err = net.Listen("tcp", listenAddr); err != nil {
		return nil, i18n.WrapError(ctx, err, msgs.MsgHTTPServerStartFailed, listenAddr)
	}
	log.L(ctx).Infof("%s server listening on %s", description, s.listener.Addr())

	maxRequestTimeout := confutil.DurationMin(conf.MaxRequestTimeout, 1*time.Second, *harnessconf.HTTPDefaults.MaxRequestTimeout)
	defaultRequestTimeout := confutil.DurationMin(conf.DefaultRequestTimeout, 1*time.Second, *harnessconf.HTTPDefaults.DefaultRequestTimeout)
	readTimeout := confutil.DurationMin(conf.ReadTimeout, maxRequestTimeout+1*time.Second, "0")
	writeTimeout := confutil.DurationMin(conf.WriteTimeout, maxRequestTimeout+1*time.Second, "0")

	handler = s.withLogAndTimeout(handler, defaultRequestTimeout, maxRequestTimeout)
	handler = WrapCorsIfEnabled(ctx, handler, &conf.CORS)

	log.L(ctx).Debugf("%s server timeouts: read=%s write=%s request=%s", description, readTimeout, writeTimeout, maxRequestTimeout)
	s.httpServer = &http.Server{
		Handler:           handler,
		WriteTimeout:      writeTimeout,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		ConnContext: func(newCtx context.Context, c net.Conn) context.Context {
			l := log.L(ctx).WithField("conn", uuid.NewString()[0:8])
			newCtx = log.WithLogger(newCtx, l)
			l.Debugf("New %s connection: remote=%s local=%s", description, c.RemoteAddr().String(), c.LocalAddr().String())
			return newCtx
		},
	}

	return s, err
}

func (s *httpServer) runAPIServer() {
	err := s.httpServer.Serve(s.listener)
	s.httpServerDone <- err
}

// calcRequestTimeout applies the optional Request-Timeout header (seconds, or a Go duration),
// capped at the max request timeout.
func (s *httpServer) calcRequestTimeout(req *http.Request, defaultTimeout, maxTimeout time.Duration) time.Duration {
	reqTimeout := defaultTimeout
	reqTimeoutHeader := req.Header.Get("Request-Timeout")
	if reqTimeoutHeader != "" {
		var customTimeout time.Duration
		timeoutInt, err := strconv.ParseInt(reqTimeoutHeader, 10, 32)
		if err == nil {
			customTimeout = (time.Duration)(timeoutInt) * time.Second
		} else {
			customTimeout, err = time.ParseDuration(reqTimeoutHeader)
		}
		if err != nil {
			log.L(req.Context()).Warnf("Invalid Request-Timeout header '%s': %s", reqTimeoutHeader, err)
		} else {
			reqTimeout = min(customTimeout, maxTimeout)
		}
	}
	return reqTimeout
}

func (s *httpServer) Addr() net.Addr {
	return s.listener.Addr()
}

type logCapture struct {
	status int
	res    http.ResponseWriter
}

func (lc *logCapture) Header() http.Header {
	return lc.res.Header()
}

func (lc *logCapture) Write(data []byte) (int, error) {
	return lc.res.Write(data)
}

func (lc *logCapture) WriteHeader(statusCode int) {
	lc.status = statusCode
	lc.res.WriteHeader(statusCode)
}

func (lc *logCapture) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := lc.res.(http.Hijacker)
	if !ok {
		return nil, nil, i18n.NewError(context.Background(), msgs.MsgHTTPServerNoWSUpgradeSupport, lc.res)
	}
	return hj.Hijack()
}

func (s *httpServer) withLogAndTimeout(handler http.Handler, defaultRequestTimeout, maxRequestTimeout time.Duration) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		startTime := time.Now()

		ctx, cancel := context.WithTimeout(req.Context(), s.calcRequestTimeout(req, defaultRequestTimeout, maxRequestTimeout))
		defer cancel()
		req = req.WithContext(ctx)

		log.L(ctx).Debugf("--> %s %s (%s)", req.Method, req.URL.Path, s.description)

		lc := &logCapture{res: res, status: http.StatusOK}
		handler.ServeHTTP(lc, req)

		durationMS := float64(time.Since(startTime)) / float64(time.Millisecond)
		log.L(ctx).Debugf("<-- %s %s [%d] (%.2fms)", req.Method, req.URL.Path, lc.status, durationMS)
	})
}

// Start schedules the serve loop and returns without waiting for it to run
func (s *httpServer) Start() error {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()
	if s.stopped {
		return i18n.NewError(s.ctx, msgs.MsgHTTPServerStartFailed, fmt.Sprintf("%s (stopped)", s.listener.Addr()))
	}
	if !s.started {
		s.started = true
		go s.runAPIServer()
	}
	return nil
}

func (s *httpServer) Stop() {
	_ = s.StopWithin(s.shutdownTimeout)
}

func (s *httpServer) StopWithin(timeout time.Duration) (graceful bool) {
	s.stateLock.Lock()
	defer s.stateLock.Unlock()
	if s.stopped {
		return true
	}
	s.stopped = true
	defer s.cancelCtx()

	if !s.started {
		// never served, but we still hold the address
		_ = s.listener.Close()
		return true
	}

	log.L(s.ctx).Infof("%s server shutting down", s.description)
	shutdownStarted := time.Now()
	shutdownCtx, cancelShutdown := context.WithTimeout(s.ctx, timeout)
	defer cancelShutdown()
	graceful = true
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		graceful = false
		log.L(s.ctx).Warn(i18n.NewError(s.ctx, msgs.MsgTeardownTimeout, s.description, time.Since(shutdownStarted)))
		_ = s.httpServer.Close()
	}
	err := <-s.httpServerDone
	log.L(s.ctx).Infof("%s server ended (err=%v)", s.description, err)
	return graceful
}
