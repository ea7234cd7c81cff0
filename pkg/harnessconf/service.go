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

package harnessconf

import (
	"context"
	"encoding/hex"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/jeamick/raiden/internal/msgs"
	"github.com/jeamick/raiden/pkg/confutil"
)

// The recognized service options. Overrides using any other key are rejected.
const (
	OptionPort                = "port"
	OptionHost                = "host"
	OptionPrivateKeyHex       = "privatekey_hex"
	OptionSendPingTime        = "send_ping_time"
	OptionMaxUnresponsiveTime = "max_unresponsive_time"
	OptionRevealTimeout       = "reveal_timeout"
)

type ServiceConfig struct {
	Port                *int    `json:"port"`
	Host                *string `json:"host"`
	PrivateKeyHex       *string `json:"privatekey_hex"`
	SendPingTime        *string `json:"send_ping_time"`
	MaxUnresponsiveTime *string `json:"max_unresponsive_time"`
	RevealTimeout       *string `json:"reveal_timeout"`
}

var serviceDefaults = ServiceConfig{
	Port:                confutil.P(40001),
	Host:                confutil.P("127.0.0.1"),
	SendPingTime:        confutil.P("60s"),
	MaxUnresponsiveTime: confutil.P("120s"),
	RevealTimeout:       confutil.P("10s"),
}

// ServiceDefaults returns a fresh copy of the default service configuration on each call.
// Use Overlay to build a per-test configuration from it.
func ServiceDefaults() *ServiceConfig {
	return serviceDefaults.Copy()
}

// Copy returns a deep copy that shares no pointers with the original
func (sc *ServiceConfig) Copy() *ServiceConfig {
	return &ServiceConfig{
		Port:                confutil.Clone(sc.Port),
		Host:                confutil.Clone(sc.Host),
		PrivateKeyHex:       confutil.Clone(sc.PrivateKeyHex),
		SendPingTime:        confutil.Clone(sc.SendPingTime),
		MaxUnresponsiveTime: confutil.Clone(sc.MaxUnresponsiveTime),
		RevealTimeout:       confutil.Clone(sc.RevealTimeout),
	}
}

// Overlay builds the effective configuration for one test, by applying the named
// overrides on top of a copy of the defaults. The defaults are never modified.
func Overlay(ctx context.Context, defaults *ServiceConfig, overrides map[string]any) (*ServiceConfig, error) {
	conf := defaults.Copy()

	// sorted so the first failure reported is stable
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := overrides[k]
		var err error
		switch k {
		case OptionPort:
			conf.Port, err = intOption(ctx, k, v)
		case OptionHost:
			conf.Host, err = stringOption(ctx, k, v)
		case OptionPrivateKeyHex:
			conf.PrivateKeyHex, err = stringOption(ctx, k, v)
		case OptionSendPingTime:
			conf.SendPingTime, err = durationOption(ctx, k, v)
		case OptionMaxUnresponsiveTime:
			conf.MaxUnresponsiveTime, err = durationOption(ctx, k, v)
		case OptionRevealTimeout:
			conf.RevealTimeout, err = durationOption(ctx, k, v)
		default:
			err = i18n.NewError(ctx, msgs.MsgConfigUnknownOption, k)
		}
		if err != nil {
			return nil, err
		}
	}
	return conf, nil
}

// Validate checks the required options are present and well formed
func (sc *ServiceConfig) Validate(ctx context.Context) error {
	if sc.Port == nil {
		return i18n.NewError(ctx, msgs.MsgConfigMissingRequired, OptionPort)
	}
	if *sc.Port < 0 || *sc.Port > math.MaxUint16 {
		return i18n.NewError(ctx, msgs.MsgConfigInvalidOptionValue, OptionPort, *sc.Port)
	}
	if sc.Host == nil || *sc.Host == "" {
		return i18n.NewError(ctx, msgs.MsgConfigMissingRequired, OptionHost)
	}
	if sc.PrivateKeyHex == nil || *sc.PrivateKeyHex == "" {
		return i18n.NewError(ctx, msgs.MsgConfigMissingRequired, OptionPrivateKeyHex)
	}
	if _, err := sc.PrivateKey(ctx); err != nil {
		return err
	}
	for name, d := range map[string]*string{
		OptionSendPingTime:        sc.SendPingTime,
		OptionMaxUnresponsiveTime: sc.MaxUnresponsiveTime,
		OptionRevealTimeout:       sc.RevealTimeout,
	} {
		if d != nil {
			if _, err := time.ParseDuration(*d); err != nil {
				return i18n.NewError(ctx, msgs.MsgConfigInvalidOptionValue, name, *d)
			}
		}
	}
	return nil
}

// PrivateKey decodes privatekey_hex, which may optionally be 0x prefixed
func (sc *ServiceConfig) PrivateKey(ctx context.Context) ([]byte, error) {
	keyHex := strings.TrimPrefix(confutil.StringOrEmpty(sc.PrivateKeyHex, ""), "0x")
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) != 32 {
		return nil, i18n.NewError(ctx, msgs.MsgConfigInvalidPrivateKeyHex)
	}
	return key, nil
}

func intOption(ctx context.Context, name string, v any) (*int, error) {
	switch vt := v.(type) {
	case int:
		return &vt, nil
	case int32:
		return confutil.P(int(vt)), nil
	case int64:
		if vt >= math.MinInt32 && vt <= math.MaxInt32 {
			return confutil.P(int(vt)), nil
		}
	case uint16:
		return confutil.P(int(vt)), nil
	case float64:
		// YAML and JSON decode all numbers as float64
		if vt == math.Trunc(vt) && vt >= math.MinInt32 && vt <= math.MaxInt32 {
			return confutil.P(int(vt)), nil
		}
	}
	return nil, i18n.NewError(ctx, msgs.MsgConfigInvalidOptionValue, name, v)
}

func stringOption(ctx context.Context, name string, v any) (*string, error) {
	if s, ok := v.(string); ok {
		return &s, nil
	}
	return nil, i18n.NewError(ctx, msgs.MsgConfigInvalidOptionValue, name, v)
}

// Durations are stored in the same string form used in config files. Plain integers
// are interpreted as a number of seconds.
func durationOption(ctx context.Context, name string, v any) (*string, error) {
	switch vt := v.(type) {
	case time.Duration:
		return confutil.P(vt.String()), nil
	case string:
		if _, err := time.ParseDuration(vt); err == nil {
			return &vt, nil
		}
	default:
		if secs, err := intOption(ctx, name, v); err == nil {
			return confutil.P((time.Duration(*secs) * time.Second).String()), nil
		}
	}
	return nil, i18n.NewError(ctx, msgs.MsgConfigInvalidOptionValue, name, v)
}
