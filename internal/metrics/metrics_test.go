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

package metrics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := InitMetrics(context.Background(), registry)
	assert.NotNil(t, metrics)
	assert.Same(t, registry, metrics.Registry())

	metrics.IncOperation("get_channel_list", OutcomeSuccess)

	metrics.IncOperation("open", OutcomeSuccess)
	metrics.IncOperation("open", OutcomeSuccess)
	metrics.IncOperation("open", OutcomeError)

	metricFamilies, err := registry.Gather()
	require.NoError(t, err, "Unexpected error gathering metrics")

	assert.Equal(t, "harness_api_operations_total", metricFamilies[0].GetName())

	am := metrics.(*apiMetrics)
	assert.Equal(t, float64(1), testutil.ToFloat64(am.operations.WithLabelValues("get_channel_list", "success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(am.operations.WithLabelValues("open", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(am.operations.WithLabelValues("open", "error")))
	assert.Equal(t, 3, testutil.CollectAndCount(am.operations))
}

func TestInitMetricsOwnRegistry(t *testing.T) {
	m1 := InitMetrics(context.Background(), nil)
	m2 := InitMetrics(context.Background(), nil)
	assert.NotSame(t, m1.Registry(), m2.Registry())

	m1.IncOperation("transfer", OutcomeSuccess)
	mf, err := m2.Registry().Gather()
	require.NoError(t, err)
	assert.Empty(t, mf)
}
