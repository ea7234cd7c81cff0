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
	"testing"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/jeamick/raiden/internal/msgs"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	ctx := context.Background()

	startup := i18n.NewError(ctx, msgs.MsgHTTPServerStartFailed, "127.0.0.1:1")
	conflict := i18n.NewError(ctx, msgs.MsgSubstitutionConflict, "open")
	config := i18n.NewError(ctx, msgs.MsgConfigUnknownOption, "nope")
	assembly := i18n.NewError(ctx, msgs.MsgAssemblyNoAddress)
	wrapped := fmt.Errorf("outer: %w", assembly)

	assert.True(t, IsStartupFailure(startup))
	assert.False(t, IsStartupFailure(conflict))
	assert.True(t, IsSubstitutionConflict(conflict))
	assert.True(t, IsConfigValidationError(config))
	assert.False(t, IsConfigValidationError(assembly))
	assert.True(t, IsAssemblyError(assembly))
	assert.True(t, IsAssemblyError(wrapped))
	assert.False(t, IsAssemblyError(fmt.Errorf("plain")))
	assert.False(t, IsStartupFailure(nil))
}
