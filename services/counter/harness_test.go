// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package counter

import (
	"context"
	"github.com/orbs-network/counter-controller/config"
	"github.com/orbs-network/counter-controller/instrumentation/metric"
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"github.com/orbs-network/counter-controller/services/counter/adapter/memory"
	"github.com/orbs-network/counter-controller/test"
	"github.com/orbs-network/counter-controller/test/with"
	"github.com/orbs-network/go-mock"
	"github.com/stretchr/testify/require"
	"testing"
)

const ownerAddress = adapter.Identity("0xAbC0000000000000000000000000000000000001")
const strangerAddress = adapter.Identity("0xdef0000000000000000000000000000000000002")

type harness struct {
	ctx      context.Context
	t        testing.TB
	wallet   *memory.Wallet
	contract *memory.Contract
	registry metric.Registry
	service  *Service
}

func withService(t *testing.T, identity adapter.Identity, initial uint32, f func(h *harness)) {
	with.Logging(t, func(logging *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			wallet := memory.NewWallet(identity)
			contract := memory.NewContract(logging.Logger, wallet, ownerAddress)
			contract.Seed(initial)
			registry := metric.NewRegistry()

			h := &harness{
				ctx:      ctx,
				t:        t,
				wallet:   wallet,
				contract: contract,
				registry: registry,
				service:  NewService(ctx, config.ForTests(string(ownerAddress)), logging.Logger, wallet, contract, registry),
			}
			h.service.Coordinator().RefreshAll(ctx)
			f(h)
		})
	})
}

func (h *harness) requireEventuallyIdle(kind ActionKind) {
	require.True(h.t, test.Eventually(func() bool {
		return h.service.ActionState(kind).Status == IDLE
	}), "expected %s to return to idle", kind)
}

func (h *harness) requireEventuallyValue(value uint64) {
	require.True(h.t, test.Eventually(func() bool {
		r := h.service.Reading()
		return r.Known && r.Value == value && !r.Loading
	}), "expected counter to become %d, got %+v", value, h.service.Reading())
}

type contractMock struct {
	mock.Mock
}

func (m *contractMock) ReadCounter(ctx context.Context) (adapter.RemoteValue, error) {
	ret := m.Called(ctx)
	return ret.Get(0), ret.Error(1)
}

func (m *contractMock) ReadOwner(ctx context.Context) (adapter.RemoteValue, error) {
	ret := m.Called(ctx)
	return ret.Get(0), ret.Error(1)
}

func (m *contractMock) Submit(ctx context.Context, method adapter.Method, args ...interface{}) error {
	ret := m.Called(ctx, method, args)
	return ret.Error(0)
}
