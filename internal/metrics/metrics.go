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

	"github.com/prometheus/client_golang/prometheus"
)

type APIMetrics interface {
	IncOperation(operation string, outcome Outcome)
	Registry() *prometheus.Registry
}

type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
)

var METRICS_SUBSYSTEM = "harness_api"

type apiMetrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
}

// InitMetrics uses a registry per server, so parallel tests do not share counters
func InitMetrics(ctx context.Context, registry *prometheus.Registry) APIMetrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics := &apiMetrics{registry: registry}

	labels := []string{"operation", "outcome"}
	metrics.operations = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "operations_total",
		Help: "Facade operations reached over HTTP", Subsystem: METRICS_SUBSYSTEM}, labels)

	registry.MustRegister(metrics.operations)
	return metrics
}

func (am *apiMetrics) IncOperation(operation string, outcome Outcome) {
	labels := prometheus.Labels{"operation": operation, "outcome": string(outcome)}
	am.operations.With(labels).Inc()
}

func (am *apiMetrics) Registry() *prometheus.Registry {
	return am.registry
}
