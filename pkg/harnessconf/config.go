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
	"os"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/jeamick/raiden/internal/msgs"

	"sigs.k8s.io/yaml" // handles json tags, so one set of struct tags serves YAML and JSON
)

// HarnessConfig is the file form of the harness configuration. The service
// section is a set of overrides, applied to ServiceDefaults with Overlay.
type HarnessConfig struct {
	Log       LogConfig        `json:"log"`
	APIServer HTTPServerConfig `json:"apiServer"`
	Service   map[string]any   `json:"service"`
}

func ReadAndParseYAMLFile(ctx context.Context, filePath string, config interface{}) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return i18n.NewError(ctx, msgs.MsgConfigFileMissing, filePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return i18n.NewError(ctx, msgs.MsgConfigFileReadError, filePath, err.Error())
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return i18n.NewError(ctx, msgs.MsgConfigFileParseError, err.Error())
	}

	return nil
}

// OverridesFromYAML parses a YAML (or JSON) document into an override map for Overlay
func OverridesFromYAML(ctx context.Context, data []byte) (map[string]any, error) {
	overrides := map[string]any{}
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, i18n.NewError(ctx, msgs.MsgConfigFileParseError, err.Error())
	}
	return overrides, nil
}
