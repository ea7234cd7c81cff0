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

package msgs

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"golang.org/x/text/language"
)

const harnessPrefix = "PD03"

var registered sync.Once
var ffe = func(key, translation string, statusHint ...int) i18n.ErrorMessageKey {
	registered.Do(func() {
		i18n.RegisterPrefix(harnessPrefix, "REST API Test Harness")
	})
	if !strings.HasPrefix(key, harnessPrefix) {
		panic(fmt.Errorf("must have prefix '%s': %s", harnessPrefix, key))
	}
	return i18n.FFE(language.AmericanEnglish, key, translation, statusHint...)
}

var (
	// Config PD0300XX
	MsgConfigUnknownOption        = ffe("PD030000", "Unrecognized configuration option '%s'")
	MsgConfigInvalidOptionValue   = ffe("PD030001", "Invalid value for configuration option '%s': %v")
	MsgConfigMissingRequired      = ffe("PD030002", "Missing required configuration option '%s'")
	MsgConfigFileMissing          = ffe("PD030003", "Config file not found at path: %s")
	MsgConfigFileReadError        = ffe("PD030004", "Failed to read config file %s with error: %s")
	MsgConfigFileParseError       = ffe("PD030005", "Failed to parse config: %s")
	MsgConfigInvalidPrivateKeyHex = ffe("PD030007", "privatekey_hex must be a 32 byte hex encoded key")

	// HTTP server PD0301XX
	MsgHTTPServerStartFailed        = ffe("PD030100", "Failed to start server on '%s'")
	MsgTeardownTimeout              = ffe("PD030101", "%s server did not acknowledge shutdown within %s - forcing termination")
	MsgHTTPServerMissingPort        = ffe("PD030102", "HTTP server port must be specified for '%s'")
	MsgHTTPServerNoWSUpgradeSupport = ffe("PD030103", "HTTP server does not support WebSocket upgrade (%T)")

	// Facade and substitution PD0302XX
	MsgSubstitutionConflict  = ffe("PD030200", "Operation '%s' already has an active substitution")
	MsgOperationUnknown      = ffe("PD030201", "Unknown operation '%s'", http.StatusNotFound)
	MsgOperationTypeMismatch = ffe("PD030202", "Implementation for operation '%s' has type %T (expected %s)")
	MsgOperationNotBound     = ffe("PD030203", "No implementation bound for operation '%s'", http.StatusNotImplemented)
	MsgOperationUnavailable  = ffe("PD030204", "Operation '%s' requires a live blockchain backend", http.StatusServiceUnavailable)
	MsgSubstitutionNilFacade = ffe("PD030205", "Cannot substitute operation '%s' on a nil facade")

	// Assembly PD0303XX
	MsgAssemblyNoPrivateKey     = ffe("PD030300", "Blockchain backend did not supply a private key")
	MsgAssemblyNoAddress        = ffe("PD030301", "Blockchain backend did not supply a node address")
	MsgAssemblyAddressMismatch  = ffe("PD030302", "Configured private key resolves to address %s but blockchain backend address is %s")
	MsgAssemblyTransportFailed  = ffe("PD030303", "Failed to create transport for %s")
	MsgAssemblyDiscoveryFailed  = ffe("PD030304", "Failed to register %s with discovery")
	MsgAssemblyMissingComponent = ffe("PD030305", "Service assembly requires a %s")

	// REST API PD0304XX
	MsgRESTInvalidAddress      = ffe("PD030400", "Invalid address for '%s': %s", http.StatusBadRequest)
	MsgRESTInvalidRequestBody  = ffe("PD030401", "Invalid request body: %s", http.StatusBadRequest)
	MsgRESTInvalidBlockNumber  = ffe("PD030402", "Invalid block number for '%s': %s", http.StatusBadRequest)
	MsgRESTInvalidChannelPatch = ffe("PD030403", "Channel update must set exactly one of 'state' (closed|settled) or 'balance'", http.StatusBadRequest)
	MsgRESTInvalidSwapRole     = ffe("PD030404", "Token swap role must be 'maker' or 'taker': %q", http.StatusBadRequest)

	// Mock operations PD0305XX
	MsgMockChannelNotFound     = ffe("PD030500", "Channel %s not found", http.StatusNotFound)
	MsgMockChannelExists       = ffe("PD030501", "Channel already open between %s and %s on token %s", http.StatusConflict)
	MsgMockChannelStateInvalid = ffe("PD030502", "Channel %s is %s", http.StatusConflict)
	MsgMockInvalidAmount       = ffe("PD030503", "Amount must be positive", http.StatusBadRequest)
	MsgMockSwapIdentifierUsed  = ffe("PD030504", "Token swap with identifier %d already registered", http.StatusConflict)
	MsgMockNodeNotRegistered   = ffe("PD030505", "Node %s is not registered with discovery", http.StatusNotFound)

	// API client PD0306XX
	MsgClientRequestFailed = ffe("PD030600", "%s %s failed with status %d: %s")
)
