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
	"net/http"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/jeamick/raiden/pkg/api"
	"github.com/jeamick/raiden/pkg/confutil"
	"github.com/jeamick/raiden/pkg/harnessconf"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerStateStrings(t *testing.T) {
	assert.Equal(t, "created", ServerCreated.String())
	assert.Equal(t, "serving", ServerServing.String())
	assert.Equal(t, "stopping", ServerStopping.String())
	assert.Equal(t, "stopped", ServerStopped.String())
	assert.Equal(t, "unknown(99)", ServerState(99).String())
}

func TestStartServerEphemeralPort(t *testing.T) {
	h, err := StartServer(context.Background(), api.NewFacade(), "127.0.0.1", 0)
	require.NoError(t, err)
	assert.Equal(t, ServerServing, h.State())
	port := h.Addr().(*net.TCPAddr).Port
	assert.NotZero(t, port)
	assert.Equal(t, fmt.Sprintf("http://127.0.0.1:%d", port), h.URL())
	assert.NotNil(t, h.Metrics())

	h.Stop(DefaultStopTimeout)
	assert.Equal(t, ServerStopped, h.State())

	// address released
	l, err := net.Listen("tcp", h.Addr().String())
	require.NoError(t, err)
	l.Close()
}

func TestStartServerSameAddressFails(t *testing.T) {
	ctx := context.Background()
	h1, err := StartServer(ctx, api.NewFacade(), "127.0.0.1", 0)
	require.NoError(t, err)
	defer h1.Stop(DefaultStopTimeout)

	port := h1.Addr().(*net.TCPAddr).Port
	_, err = StartServer(ctx, api.NewFacade(), "127.0.0.1", port)
	assert.Regexp(t, "PD030100", err)
	assert.True(t, IsStartupFailure(err))

	// the first server is unaffected
	assert.Equal(t, ServerServing, h1.State())
	res, err := resty.New().R().Get(h1.URL() + "/metrics")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode())
}

func TestStopAlreadyStoppedIsImmediate(t *testing.T) {
	h, err := StartServer(context.Background(), api.NewFacade(), "127.0.0.1", 0)
	require.NoError(t, err)
	h.Stop(DefaultStopTimeout)

	started := time.Now()
	h.Stop(1 * time.Hour)
	assert.Less(t, time.Since(started), 1*time.Second)
	assert.Equal(t, ServerStopped, h.State())
}

func TestStopForcesTerminationAfterTimeout(t *testing.T) {
	ctx := context.Background()
	facade := api.NewFacade()
	requestStarted := make(chan struct{})
	_, err := facade.Bind(ctx, api.OpGetTokensList, func(ctx context.Context) ([]*ethtypes.Address0xHex, error) {
		close(requestStarted)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	require.NoError(t, err)

	h, err := StartServer(ctx, facade, "127.0.0.1", 0)
	require.NoError(t, err)

	returned := make(chan error)
	go func() {
		_, err := resty.New().R().Get(h.URL() + "/api/1/tokens")
		returned <- err
	}()
	<-requestStarted

	logs := logrustest.NewGlobal()
	started := time.Now()
	h.Stop(10 * time.Millisecond)
	assert.Less(t, time.Since(started), 5*time.Second)
	assert.Equal(t, ServerStopped, h.State())
	assert.Error(t, <-returned)

	var warnings []string
	for _, e := range logs.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings = append(warnings, e.Message)
		}
	}
	require.Len(t, warnings, 1)
	assert.Regexp(t, "PD030101", warnings[0])
}

func TestStartServerOptions(t *testing.T) {
	h, err := StartServer(context.Background(), api.NewFacade(), "127.0.0.1", 0,
		WithServerConfig(&harnessconf.HTTPServerConfig{
			ShutdownTimeout: confutil.P("1s"),
		}),
		WithCORS(harnessconf.CORSConfig{Enabled: true}),
		WithRequestTimeout(5*time.Second),
	)
	require.NoError(t, err)
	defer h.Stop(DefaultStopTimeout)

	req := resty.New().R().
		SetHeader("Origin", "https://some.example").
		SetHeader("Access-Control-Request-Method", http.MethodGet)
	res, err := req.Options(h.URL() + "/api/1/channels")
	require.NoError(t, err)
	assert.Equal(t, "*", res.Header().Get("Access-Control-Allow-Origin"))
}
