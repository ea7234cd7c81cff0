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
	"errors"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/jeamick/raiden/internal/msgs"
)

func hasMessageKey(err error, keys ...i18n.ErrorMessageKey) bool {
	var ffe i18n.FFError
	if !errors.As(err, &ffe) {
		return false
	}
	for _, k := range keys {
		if ffe.MessageKey() == k {
			return true
		}
	}
	return false
}

func IsStartupFailure(err error) bool {
	return hasMessageKey(err, msgs.MsgHTTPServerStartFailed, msgs.MsgHTTPServerMissingPort)
}

func IsSubstitutionConflict(err error) bool {
	return hasMessageKey(err, msgs.MsgSubstitutionConflict)
}

func IsConfigValidationError(err error) bool {
	return hasMessageKey(err,
		msgs.MsgConfigUnknownOption,
		msgs.MsgConfigInvalidOptionValue,
		msgs.MsgConfigMissingRequired,
		msgs.MsgConfigInvalidPrivateKeyHex,
	)
}

func IsAssemblyError(err error) bool {
	return hasMessageKey(err,
		msgs.MsgAssemblyNoPrivateKey,
		msgs.MsgAssemblyNoAddress,
		msgs.MsgAssemblyAddressMismatch,
		msgs.MsgAssemblyTransportFailed,
		msgs.MsgAssemblyDiscoveryFailed,
		msgs.MsgAssemblyMissingComponent,
	)
}
