// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package counter

import (
	"github.com/orbs-network/counter-controller/instrumentation/logfields"
	"github.com/orbs-network/scribe/log"
	"sync"
	"time"
)

// actionLifecycle owns the ActionState of a single kind, nothing else writes it
type actionLifecycle struct {
	kind       ActionKind
	logger     log.Logger
	notify     func(Transition)
	deliveries *dispatcher

	mu    sync.Mutex
	state ActionState
}

func newActionLifecycle(kind ActionKind, logger log.Logger, deliveries *dispatcher, notify func(Transition)) *actionLifecycle {
	return &actionLifecycle{
		kind:       kind,
		logger:     logger.WithTags(logfields.Action(kind), logfields.LifecycleLogTag),
		notify:     notify,
		deliveries: deliveries,
	}
}

func (l *actionLifecycle) State() ActionState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// begin moves Idle or Failed to Pending, the guard runs under the lifecycle lock
func (l *actionLifecycle) begin(guard func() error) error {
	defer l.deliveries.drain()
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.Status == PENDING {
		return ErrAlreadyPending
	}

	if err := guard(); err != nil {
		return err
	}

	l.transition(ActionState{Status: PENDING})
	return nil
}

// settle ends the pending request. On success onSucceeded runs with no lock held,
// after Succeeded was recorded and before the state returns to Idle.
func (l *actionLifecycle) settle(err error, onSucceeded func()) {
	if err != nil {
		l.transitionAndDeliver(ActionState{Status: FAILED, Reason: err.Error()})
		return
	}

	l.transitionAndDeliver(ActionState{Status: SUCCEEDED})
	onSucceeded()

	l.mu.Lock()
	// a request of the same kind may have begun while the lock was released
	if l.state.Status == SUCCEEDED {
		l.transition(ActionState{Status: IDLE})
	}
	l.mu.Unlock()
	l.deliveries.drain()
}

func (l *actionLifecycle) transitionAndDeliver(to ActionState) {
	l.mu.Lock()
	l.transition(to)
	l.mu.Unlock()
	l.deliveries.drain()
}

// transition must be called with mu held, observers are queued in transition order and run once it is released
func (l *actionLifecycle) transition(to ActionState) {
	from := l.state
	l.state = to

	if to.Status == FAILED {
		l.logger.Info("action failed", log.Stringable("from", from.Status), log.String("reason", to.Reason))
	} else {
		l.logger.Info("action state changed", log.Stringable("from", from.Status), log.Stringable("to", to.Status))
	}

	if l.notify != nil {
		t := Transition{Kind: l.kind, State: to, At: time.Now()}
		l.deliveries.enqueue(func() {
			l.notify(t)
		})
	}
}
