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
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/hyperledger/firefly-common/pkg/fftypes"
	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/hyperledger/firefly-signer/pkg/ethtypes"
	"github.com/jeamick/raiden/internal/log"
	"github.com/jeamick/raiden/internal/metrics"
	"github.com/jeamick/raiden/internal/msgs"
	"github.com/jeamick/raiden/pkg/api"
)

type routeHandler func(req *http.Request) (status int, result any, err error)

type OpenChannelRequest struct {
	TokenAddress   ethtypes.Address0xHex `json:"token_address"`
	PartnerAddress ethtypes.Address0xHex `json:"partner_address"`
	SettleTimeout  *uint64               `json:"settle_timeout,omitempty"`
	RevealTimeout  *uint64               `json:"reveal_timeout,omitempty"`
	Balance        *ethtypes.HexInteger  `json:"balance,omitempty"`
}

type PatchChannelRequest struct {
	State   api.ChannelState     `json:"state,omitempty"`
	Balance *ethtypes.HexInteger `json:"balance,omitempty"`
}

type TransferRequest struct {
	Amount     *ethtypes.HexInteger `json:"amount"`
	Identifier *uint64              `json:"identifier,omitempty"`
}

type SwapRole string

const (
	SwapRoleMaker SwapRole = "maker"
	SwapRoleTaker SwapRole = "taker"
)

type TokenSwapRequest struct {
	Role            SwapRole              `json:"role"`
	SendingAmount   *ethtypes.HexInteger  `json:"sending_amount"`
	SendingToken    ethtypes.Address0xHex `json:"sending_token"`
	ReceivingAmount *ethtypes.HexInteger  `json:"receiving_amount"`
	ReceivingToken  ethtypes.Address0xHex `json:"receiving_token"`
}

type PartnerInfo struct {
	PartnerAddress ethtypes.Address0xHex `json:"partner_address"`
	Channel        string                `json:"channel"`
}

func (s *apiServer) handle(fn routeHandler) http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		status, result, err := fn(req)
		res.Header().Set("Content-Type", "application/json")
		if err != nil {
			status = http.StatusInternalServerError
			var ffe i18n.FFError
			if errors.As(err, &ffe) && ffe.HTTPStatus() > 0 {
				status = ffe.HTTPStatus()
			}
			log.L(req.Context()).Errorf("%s %s failed [%d]: %s", req.Method, req.URL.Path, status, err)
			res.WriteHeader(status)
			_ = json.NewEncoder(res).Encode(&fftypes.RESTError{Error: err.Error()})
			return
		}
		res.WriteHeader(status)
		_ = json.NewEncoder(res).Encode(result)
	}
}

// invoke calls through to the facade, counting the outcome against the operation
func invoke[R any](s *apiServer, op api.OperationName, fn func() (R, error)) (R, error) {
	r, err := fn()
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	s.metrics.IncOperation(string(op), outcome)
	return r, err
}

func pathAddress(req *http.Request, name string) (*ethtypes.Address0xHex, error) {
	addr, err := ethtypes.NewAddress(mux.Vars(req)[name])
	if err != nil {
		return nil, i18n.NewError(req.Context(), msgs.MsgRESTInvalidAddress, name, err)
	}
	return addr, nil
}

func queryBlock(req *http.Request, name string, def uint64) (uint64, error) {
	v := req.URL.Query().Get(name)
	switch v {
	case "":
		return def, nil
	case "latest":
		return api.LatestBlock, nil
	}
	block, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, i18n.NewError(req.Context(), msgs.MsgRESTInvalidBlockNumber, name, v)
	}
	return block, nil
}

func queryBlockRange(req *http.Request) (fromBlock, toBlock uint64, err error) {
	if fromBlock, err = queryBlock(req, "from_block", 0); err == nil {
		toBlock, err = queryBlock(req, "to_block", api.LatestBlock)
	}
	return fromBlock, toBlock, err
}

func decodeBody(req *http.Request, body any) error {
	if err := json.NewDecoder(req.Body).Decode(body); err != nil {
		return i18n.NewError(req.Context(), msgs.MsgRESTInvalidRequestBody, err)
	}
	return nil
}

func (s *apiServer) getChannelList(req *http.Request) (int, any, error) {
	channels, err := invoke(s, api.OpGetChannelList, func() ([]*api.Channel, error) {
		return s.facade.GetChannelList(req.Context(), nil, nil)
	})
	if channels == nil {
		channels = []*api.Channel{}
	}
	return http.StatusOK, channels, err
}

func (s *apiServer) getChannel(req *http.Request) (int, any, error) {
	channelAddress, err := pathAddress(req, "channel")
	if err != nil {
		return -1, nil, err
	}
	channel, err := invoke(s, api.OpGetChannel, func() (*api.Channel, error) {
		return s.facade.GetChannel(req.Context(), *channelAddress)
	})
	return http.StatusOK, channel, err
}

func (s *apiServer) openChannel(req *http.Request) (int, any, error) {
	var body OpenChannelRequest
	if err := decodeBody(req, &body); err != nil {
		return -1, nil, err
	}
	channel, err := invoke(s, api.OpOpen, func() (*api.Channel, error) {
		return s.facade.Open(req.Context(), body.TokenAddress, body.PartnerAddress, body.SettleTimeout, body.RevealTimeout)
	})
	if err == nil && body.Balance != nil && body.Balance.BigInt().Sign() > 0 {
		channel, err = invoke(s, api.OpDeposit, func() (*api.Channel, error) {
			return s.facade.Deposit(req.Context(), body.TokenAddress, body.PartnerAddress, body.Balance)
		})
	}
	return http.StatusCreated, channel, err
}

// patchChannel resolves the channel to its token and partner, then applies exactly one
// of a state change or a deposit
func (s *apiServer) patchChannel(req *http.Request) (int, any, error) {
	channelAddress, err := pathAddress(req, "channel")
	if err != nil {
		return -1, nil, err
	}
	var body PatchChannelRequest
	if err := decodeBody(req, &body); err != nil {
		return -1, nil, err
	}
	if (body.State == "") == (body.Balance == nil) {
		return -1, nil, i18n.NewError(req.Context(), msgs.MsgRESTInvalidChannelPatch)
	}

	ctx := req.Context()
	channel, err := invoke(s, api.OpGetChannel, func() (*api.Channel, error) {
		return s.facade.GetChannel(ctx, *channelAddress)
	})
	if err != nil {
		return -1, nil, err
	}

	switch {
	case body.Balance != nil:
		channel, err = invoke(s, api.OpDeposit, func() (*api.Channel, error) {
			return s.facade.Deposit(ctx, channel.TokenAddress, channel.PartnerAddress, body.Balance)
		})
	case body.State == api.ChannelStateClosed:
		channel, err = invoke(s, api.OpClose, func() (*api.Channel, error) {
			return s.facade.Close(ctx, channel.TokenAddress, channel.PartnerAddress)
		})
	case body.State == api.ChannelStateSettled:
		channel, err = invoke(s, api.OpSettle, func() (*api.Channel, error) {
			return s.facade.Settle(ctx, channel.TokenAddress, channel.PartnerAddress)
		})
	default:
		err = i18n.NewError(ctx, msgs.MsgRESTInvalidChannelPatch)
	}
	return http.StatusOK, channel, err
}

func (s *apiServer) getTokensList(req *http.Request) (int, any, error) {
	tokens, err := invoke(s, api.OpGetTokensList, func() ([]*ethtypes.Address0xHex, error) {
		return s.facade.GetTokensList(req.Context())
	})
	if tokens == nil {
		tokens = []*ethtypes.Address0xHex{}
	}
	return http.StatusOK, tokens, err
}

func (s *apiServer) getPartners(req *http.Request) (int, any, error) {
	tokenAddress, err := pathAddress(req, "token")
	if err != nil {
		return -1, nil, err
	}
	channels, err := invoke(s, api.OpGetChannelList, func() ([]*api.Channel, error) {
		return s.facade.GetChannelList(req.Context(), tokenAddress, nil)
	})
	partners := make([]*PartnerInfo, 0, len(channels))
	for _, c := range channels {
		partners = append(partners, &PartnerInfo{
			PartnerAddress: c.PartnerAddress,
			Channel:        APIPrefix + "/channels/" + c.ChannelAddress.String(),
		})
	}
	return http.StatusOK, partners, err
}

func (s *apiServer) getNetworkEvents(req *http.Request) (int, any, error) {
	fromBlock, toBlock, err := queryBlockRange(req)
	if err != nil {
		return -1, nil, err
	}
	events, err := invoke(s, api.OpGetNetworkEvents, func() ([]*api.Event, error) {
		return s.facade.GetNetworkEvents(req.Context(), fromBlock, toBlock)
	})
	return http.StatusOK, nonNilEvents(events), err
}

func (s *apiServer) getTokenNetworkEvents(req *http.Request) (int, any, error) {
	tokenAddress, err := pathAddress(req, "token")
	if err != nil {
		return -1, nil, err
	}
	fromBlock, toBlock, err := queryBlockRange(req)
	if err != nil {
		return -1, nil, err
	}
	events, err := invoke(s, api.OpGetTokenNetworkEvents, func() ([]*api.Event, error) {
		return s.facade.GetTokenNetworkEvents(req.Context(), *tokenAddress, fromBlock, toBlock)
	})
	return http.StatusOK, nonNilEvents(events), err
}

func (s *apiServer) getChannelEvents(req *http.Request) (int, any, error) {
	channelAddress, err := pathAddress(req, "channel")
	if err != nil {
		return -1, nil, err
	}
	fromBlock, toBlock, err := queryBlockRange(req)
	if err != nil {
		return -1, nil, err
	}
	events, err := invoke(s, api.OpGetChannelEvents, func() ([]*api.Event, error) {
		return s.facade.GetChannelEvents(req.Context(), *channelAddress, fromBlock, toBlock)
	})
	return http.StatusOK, nonNilEvents(events), err
}

func nonNilEvents(events []*api.Event) []*api.Event {
	if events == nil {
		return []*api.Event{}
	}
	return events
}

func (s *apiServer) transfer(req *http.Request) (int, any, error) {
	tokenAddress, err := pathAddress(req, "token")
	if err != nil {
		return -1, nil, err
	}
	target, err := pathAddress(req, "target")
	if err != nil {
		return -1, nil, err
	}
	var body TransferRequest
	if err := decodeBody(req, &body); err != nil {
		return -1, nil, err
	}
	transfer, err := invoke(s, api.OpTransfer, func() (*api.Transfer, error) {
		return s.facade.Transfer(req.Context(), *tokenAddress, body.Amount, *target, body.Identifier)
	})
	return http.StatusOK, transfer, err
}

func (s *apiServer) tokenSwap(req *http.Request) (int, any, error) {
	ctx := req.Context()
	target, err := pathAddress(req, "target")
	if err != nil {
		return -1, nil, err
	}
	identifier, err := strconv.ParseUint(mux.Vars(req)["identifier"], 10, 64)
	if err != nil {
		return -1, nil, i18n.NewError(ctx, msgs.MsgRESTInvalidRequestBody, err)
	}
	var body TokenSwapRequest
	if err := decodeBody(req, &body); err != nil {
		return -1, nil, err
	}

	var swap *api.TokenSwap
	switch body.Role {
	case SwapRoleMaker:
		swap, err = invoke(s, api.OpTokenSwap, func() (*api.TokenSwap, error) {
			return s.facade.TokenSwap(ctx, &api.TokenSwap{
				Identifier:   identifier,
				MakerToken:   body.SendingToken,
				MakerAmount:  body.SendingAmount,
				TakerToken:   body.ReceivingToken,
				TakerAmount:  body.ReceivingAmount,
				TakerAddress: *target,
			})
		})
	case SwapRoleTaker:
		swap, err = invoke(s, api.OpExpectTokenSwap, func() (*api.TokenSwap, error) {
			return s.facade.ExpectTokenSwap(ctx, &api.TokenSwap{
				Identifier:   identifier,
				MakerToken:   body.ReceivingToken,
				MakerAmount:  body.ReceivingAmount,
				MakerAddress: *target,
				TakerToken:   body.SendingToken,
				TakerAmount:  body.SendingAmount,
			})
		})
	default:
		err = i18n.NewError(ctx, msgs.MsgRESTInvalidSwapRole, body.Role)
	}
	return http.StatusCreated, swap, err
}
