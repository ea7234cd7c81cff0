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
	"sync"
	"testing"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/jeamick/raiden/internal/log"
	"github.com/jeamick/raiden/internal/msgs"
	"github.com/jeamick/raiden/pkg/api"
)

type substitution struct {
	facade   *api.Facade
	name     api.OperationName
	original any
}

// Substitutor replaces named operations on a facade, remembering what was there before
// so everything can be put back at the end of a test.
type Substitutor struct {
	ctx     context.Context
	mux     sync.Mutex
	journal []*substitution
}

// NewSubstitutor returns a substitutor that restores every substitution when the test
// finishes, whether it passed, failed or panicked
func NewSubstitutor(t testing.TB) *Substitutor {
	s := newSubstitutor(log.WithLogField(context.Background(), "test", t.Name()))
	t.Cleanup(s.RestoreAll)
	return s
}

func newSubstitutor(ctx context.Context) *Substitutor {
	return &Substitutor{ctx: ctx}
}

// Substitute binds replacement as the named operation. Only one substitution per
// operation per facade can be active at a time, across all substitutors.
func (s *Substitutor) Substitute(facade *api.Facade, name api.OperationName, replacement any) error {
	if facade == nil {
		return i18n.NewError(s.ctx, msgs.MsgSubstitutionNilFacade, name)
	}
	if replacement == nil {
		return i18n.NewError(s.ctx, msgs.MsgOperationTypeMismatch, name, replacement, "a function")
	}

	s.mux.Lock()
	defer s.mux.Unlock()
	original, err := facade.Substitute(s.ctx, name, replacement)
	if err != nil {
		return err
	}
	s.journal = append(s.journal, &substitution{facade: facade, name: name, original: original})
	log.L(s.ctx).Debugf("Substituted operation %s", name)
	return nil
}

// RestoreAll puts back the originals in reverse order, and clears the journal
func (s *Substitutor) RestoreAll() {
	s.mux.Lock()
	defer s.mux.Unlock()
	for i := len(s.journal) - 1; i >= 0; i-- {
		r := s.journal[i]
		if err := r.facade.Restore(s.ctx, r.name, r.original); err != nil {
			log.L(s.ctx).Errorf("Failed to restore operation %s: %s", r.name, err)
		}
	}
	if len(s.journal) > 0 {
		log.L(s.ctx).Debugf("Restored %d operations", len(s.journal))
	}
	s.journal = nil
}

// Active returns the number of substitutions not yet restored
func (s *Substitutor) Active() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return len(s.journal)
}
