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

package apiclient

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hyperledger/firefly-common/pkg/fftypes"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/jeamick/raiden/internal/msgs"
	"github.com/jeamick/raiden/internal/restapi"
	"github.com/jeamick/raiden/pkg/api"
)

type (
	OpenChannelRequest  = restapi.OpenChannelRequest
	PatchChannelRequest = restapi.PatchChannelRequest
	TransferRequest     = restapi.TransferRequest
	TokenSwapRequest    = restapi.TokenSwapRequest
	PartnerInfo         = restapi.PartnerInfo
	SwapRole            = restapi.SwapRole
)

const (
	SwapRoleMaker = restapi.SwapRoleMaker
	SwapRoleTaker = restapi.SwapRoleTaker
)

// Client calls the REST API of a running harness server
type Client struct {
	rc *resty.Client
}

func New(serverURL string) *Client {
	return Wrap(resty.New().SetBaseURL(strings.TrimSuffix(serverURL, "/") + restapi.APIPrefix))
}

// Wrap uses an existing resty client, which must have its base URL set to the API root
func Wrap(rc *resty.Client) *Client {
	return &Client{rc: rc}
}

// R gives raw access, for tests that need to send malformed requests
func (c *Client) R(ctx context.Context) *resty.Request {
	return c.rc.R().SetContext(ctx)
}

func (c *Client) do(ctx context.Context, method, path string, pathParams map[string]string, query map[string]string, body, result any) error {
	var restErr fftypes.RESTError
	req := c.R(ctx).
		SetPathParams(pathParams).
		SetQueryParams(query).
		SetResult(result).
		SetError(&restErr)
	if body != nil {
		req = req.SetBody(body)
	}
	res, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if res.IsError() {
		errMsg := restErr.Error
		if errMsg == "" {
			errMsg = res.String()
		}
		return i18n.NewError(ctx, msgs.MsgClientRequestFailed, method, res.Request.URL, res.StatusCode(), errMsg)
	}
	return nil
}

func blockQuery(fromBlock, toBlock uint64) map[string]string {
	q := map[string]string{"from_block": strconv.FormatUint(fromBlock, 10)}
	if toBlock == api.LatestBlock {
		q["to_block"] = "latest"
	} else {
		q["to_block"] = strconv.FormatUint(toBlock, 10)
	}
	return q
}

func (c *Client) GetChannels(ctx context.Context) (channels []*api.Channel, err error) {
	err = c.do(ctx, resty.MethodGet, "/channels", nil, nil, nil, &channels)
	return channels, err
}

func (c *Client) GetChannel(ctx context.Context, channelAddress ethtypes.Address0xHex) (channel *api.Channel, err error) {
	err = c.do(ctx, resty.MethodGet, "/channels/{channel}", map[string]string{
		"channel": channelAddress.String(),
	}, nil, nil, &channel)
	return channel, err
}

func (c *Client) OpenChannel(ctx context.Context, req *OpenChannelRequest) (channel *api.Channel, err error) {
	err = c.do(ctx, resty.MethodPut, "/channels", nil, nil, req, &channel)
	return channel, err
}

func (c *Client) PatchChannel(ctx context.Context, channelAddress ethtypes.Address0xHex, req *PatchChannelRequest) (channel *api.Channel, err error) {
	err = c.do(ctx, resty.MethodPatch, "/channels/{channel}", map[string]string{
		"channel": channelAddress.String(),
	}, nil, req, &channel)
	return channel, err
}

func (c *Client) CloseChannel(ctx context.Context, channelAddress ethtypes.Address0xHex) (*api.Channel, error) {
	return c.PatchChannel(ctx, channelAddress, &PatchChannelRequest{State: api.ChannelStateClosed})
}

func (c *Client) SettleChannel(ctx context.Context, channelAddress ethtypes.Address0xHex) (*api.Channel, error) {
	return c.PatchChannel(ctx, channelAddress, &PatchChannelRequest{State: api.ChannelStateSettled})
}

func (c *Client) Deposit(ctx context.Context, channelAddress ethtypes.Address0xHex, amount *ethtypes.HexInteger) (*api.Channel, error) {
	return c.PatchChannel(ctx, channelAddress, &PatchChannelRequest{Balance: amount})
}

func (c *Client) GetTokens(ctx context.Context) (tokens []*ethtypes.Address0xHex, err error) {
	err = c.do(ctx, resty.MethodGet, "/tokens", nil, nil, nil, &tokens)
	return tokens, err
}

func (c *Client) GetPartners(ctx context.Context, tokenAddress ethtypes.Address0xHex) (partners []*PartnerInfo, err error) {
	err = c.do(ctx, resty.MethodGet, "/tokens/{token}/partners", map[string]string{
		"token": tokenAddress.String(),
	}, nil, nil, &partners)
	return partners, err
}

func (c *Client) GetNetworkEvents(ctx context.Context, fromBlock, toBlock uint64) (events []*api.Event, err error) {
	err = c.do(ctx, resty.MethodGet, "/events/network", nil, blockQuery(fromBlock, toBlock), nil, &events)
	return events, err
}

func (c *Client) GetTokenNetworkEvents(ctx context.Context, tokenAddress ethtypes.Address0xHex, fromBlock, toBlock uint64) (events []*api.Event, err error) {
	err = c.do(ctx, resty.MethodGet, "/events/tokens/{token}", map[string]string{
		"token": tokenAddress.String(),
	}, blockQuery(fromBlock, toBlock), nil, &events)
	return events, err
}

func (c *Client) GetChannelEvents(ctx context.Context, channelAddress ethtypes.Address0xHex, fromBlock, toBlock uint64) (events []*api.Event, err error) {
	err = c.do(ctx, resty.MethodGet, "/events/channels/{channel}", map[string]string{
		"channel": channelAddress.String(),
	}, blockQuery(fromBlock, toBlock), nil, &events)
	return events, err
}

func (c *Client) Transfer(ctx context.Context, tokenAddress, target ethtypes.Address0xHex, req *TransferRequest) (transfer *api.Transfer, err error) {
	err = c.do(ctx, resty.MethodPost, "/transfers/{token}/{target}", map[string]string{
		"token":  tokenAddress.String(),
		"target": target.String(),
	}, nil, req, &transfer)
	return transfer, err
}

func (c *Client) TokenSwap(ctx context.Context, target ethtypes.Address0xHex, identifier uint64, req *TokenSwapRequest) (swap *api.TokenSwap, err error) {
	err = c.do(ctx, resty.MethodPut, "/token_swaps/{target}/{identifier}", map[string]string{
		"target":     target.String(),
		"identifier": strconv.FormatUint(identifier, 10),
	}, nil, req, &swap)
	return swap, err
}
