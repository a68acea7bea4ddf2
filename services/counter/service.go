// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package counter

import (
	"context"
	"github.com/orbs-network/counter-controller/config"
	"github.com/orbs-network/counter-controller/instrumentation/logfields"
	"github.com/orbs-network/counter-controller/instrumentation/metric"
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"sync"
	"time"
)

var LogTag = log.Service("counter")

type Config interface {
	config.ControllerConfig
	config.ReadCoordinatorConfig
}

type Service struct {
	govnr.TreeSupervisor
	ctx         context.Context
	logger      log.Logger
	config      Config
	wallet      adapter.Wallet
	writer      adapter.ContractWriter
	coordinator *ReadCoordinator
	lifecycles  map[ActionKind]*actionLifecycle
	transitions dispatcher
	metrics     *serviceMetrics

	observers struct {
		sync.RWMutex
		list []func(Transition)
	}
}

// the context bounds background work: settlement of async submissions, refreshes and pollers
func NewService(ctx context.Context, cfg Config, parent log.Logger, wallet adapter.Wallet, contract adapter.Contract, metricFactory metric.Factory) *Service {
	logger := parent.WithTags(LogTag)
	s := &Service{
		ctx:         ctx,
		logger:      logger,
		config:      cfg,
		wallet:      wallet,
		writer:      contract,
		coordinator: NewReadCoordinator(logger, contract, metricFactory),
		lifecycles:  make(map[ActionKind]*actionLifecycle),
		metrics:     newServiceMetrics(metricFactory, cfg.TransactionTimeout()),
	}

	for _, kind := range AllActionKinds {
		s.lifecycles[kind] = newActionLifecycle(kind, logger, &s.transitions, s.notifyObservers)
	}

	s.coordinator.StartPolling(ctx, cfg)
	s.Supervise(&s.coordinator.TreeSupervisor)

	return s
}

func (s *Service) Coordinator() *ReadCoordinator {
	return s.coordinator
}

func (s *Service) Reading() Reading {
	return s.coordinator.Reading()
}

func (s *Service) Owner() OwnerRecord {
	return s.coordinator.Owner()
}

func (s *Service) Identity() adapter.Identity {
	return s.wallet.CurrentIdentity()
}

// Refresh re-reads both the counter and the owner, it never fails, read errors are recorded on the results
func (s *Service) Refresh(ctx context.Context) {
	s.coordinator.RefreshAll(ctx)
}

// ActionState is the zero (Idle) state for kinds the service does not know
func (s *Service) ActionState(kind ActionKind) ActionState {
	l, ok := s.lifecycles[kind]
	if !ok {
		return ActionState{}
	}
	return l.State()
}

// OnTransition observers run in transition order with no lifecycle lock held, they may read the service
func (s *Service) OnTransition(f func(Transition)) {
	s.observers.Lock()
	defer s.observers.Unlock()
	s.observers.list = append(s.observers.list, f)
}

func (s *Service) notifyObservers(t Transition) {
	s.observers.RLock()
	observers := append([]func(Transition){}, s.observers.list...)
	s.observers.RUnlock()

	for _, f := range observers {
		f(t)
	}
}

// Submit blocks until the request settled, the refresh after a success is only initiated
func (s *Service) Submit(ctx context.Context, request ActionRequest) error {
	if err := s.begin(request); err != nil {
		return err
	}
	return s.settle(ctx, request)
}

// SubmitAsync checks the guards and moves to Pending before returning, settlement is bound to the service context
func (s *Service) SubmitAsync(request ActionRequest) error {
	if err := s.begin(request); err != nil {
		return err
	}

	govnr.Once(logfields.GovnrErrorer(s.logger), func() {
		_ = s.settle(s.ctx, request)
	})
	return nil
}

func (s *Service) begin(request ActionRequest) error {
	kind := request.Kind()
	err := s.lifecycles[kind].begin(func() error {
		return s.checkEligibility(request)
	})

	if err != nil {
		s.metrics.actions[kind].rejected.Inc()
		s.logger.Info("action rejected", logfields.Action(kind), logfields.Identity(s.wallet.CurrentIdentity().String()), log.Error(err))
		return err
	}

	s.metrics.submissions.Measure(1)
	s.metrics.pending.Inc()
	return nil
}

func (s *Service) settle(ctx context.Context, request ActionRequest) error {
	kind := request.Kind()
	m := s.metrics.actions[kind]
	start := time.Now()

	submitCtx, cancel := context.WithTimeout(ctx, s.config.TransactionTimeout())
	defer cancel()

	var result error
	if err := s.writer.Submit(submitCtx, kind.Method(), request.args()...); err != nil {
		result = &TransportWriteError{Kind: kind, Cause: err}
	}

	m.settleLatency.RecordSince(start)
	s.metrics.pending.Dec()

	s.lifecycles[kind].settle(result, func() {
		s.coordinator.RefreshAsync(s.ctx)
	})

	if result != nil {
		m.failed.Inc()
		return result
	}

	m.succeeded.Inc()
	return nil
}

func (s *Service) checkEligibility(request ActionRequest) error {
	return checkEligibility(request.Kind(), s.wallet.CurrentIdentity(), s.coordinator.Owner(), s.coordinator.Reading())
}

// checkEligibility holds every guard, the affordance view derives its hints from the same errors
func checkEligibility(kind ActionKind, identity adapter.Identity, owner OwnerRecord, reading Reading) error {
	switch kind {
	case INCREASE, SET:
		return requireAuthorized(kind, identity, owner)
	case DECREASE:
		if err := requireAuthorized(kind, identity, owner); err != nil {
			return err
		}
		return requirePositive(kind, reading)
	case RESET:
		// any connected caller may reset, the fee is enforced by the contract
		if !identity.IsConnected() {
			return &IneligibleError{Kind: kind, Reason: REASON_DISCONNECTED}
		}
		return requirePositive(kind, reading)
	}
	return nil
}

func requireAuthorized(kind ActionKind, identity adapter.Identity, owner OwnerRecord) error {
	switch Authorize(identity, owner) {
	case Disconnected:
		return &IneligibleError{Kind: kind, Reason: REASON_DISCONNECTED}
	case NotAuthorized:
		return &AuthorizationDenied{Kind: kind, Identity: identity, Owner: owner}
	}
	return nil
}

func requirePositive(kind ActionKind, reading Reading) error {
	if !reading.Known {
		return &IneligibleError{Kind: kind, Reason: REASON_COUNTER_UNKNOWN}
	}
	if reading.Value == 0 {
		return &IneligibleError{Kind: kind, Reason: REASON_COUNTER_ZERO}
	}
	return nil
}
