// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package synchronization

import (
	"context"
	"github.com/orbs-network/counter-controller/instrumentation/logfields"
	"github.com/orbs-network/govnr"
	"sync/atomic"
	"time"
)

// PeriodicalTrigger runs a handler every interval until its context ends or Stop is called.
// The handler runs on the trigger goroutine, ticks arriving while it still runs are dropped.
type PeriodicalTrigger struct {
	govnr.TreeSupervisor
	name     string
	interval time.Duration
	handler  func()
	onStop   func()
	logger   logfields.Errorer
	cancel   context.CancelFunc
	Closed   govnr.ContextEndedChan

	pendingImmediate int32
	timesTriggered   uint64
	lastTriggered    int64
}

func NewPeriodicalTrigger(ctx context.Context, name string, interval time.Duration, logger logfields.Errorer, trigger func(), onStop func()) *PeriodicalTrigger {
	return newTrigger(ctx, name, interval, logger, trigger, onStop, false)
}

// NewImmediateTrigger fires once as soon as the trigger goroutine starts and then every interval
func NewImmediateTrigger(ctx context.Context, name string, interval time.Duration, logger logfields.Errorer, trigger func(), onStop func()) *PeriodicalTrigger {
	return newTrigger(ctx, name, interval, logger, trigger, onStop, true)
}

func newTrigger(ctx context.Context, name string, interval time.Duration, logger logfields.Errorer, trigger func(), onStop func(), immediately bool) *PeriodicalTrigger {
	subCtx, cancel := context.WithCancel(ctx)
	t := &PeriodicalTrigger{
		name:     name,
		interval: interval,
		handler:  trigger,
		onStop:   onStop,
		logger:   logger,
		cancel:   cancel,
	}
	if immediately {
		t.pendingImmediate = 1
	}

	h := govnr.Forever(subCtx, name, logfields.GovnrErrorer(logger), func() {
		t.loop(subCtx)
	})
	t.Closed = h.Done()
	t.Supervise(h)

	return t
}

// loop is restarted by govnr after a panicking handler, the immediate tick is never repeated
func (t *PeriodicalTrigger) loop(ctx context.Context) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	if atomic.CompareAndSwapInt32(&t.pendingImmediate, 1, 0) {
		t.fire()
	}

	for {
		select {
		case <-ticker.C:
			t.fire()
		case <-ctx.Done():
			if t.onStop != nil {
				go t.onStop()
			}
			return
		}
	}
}

func (t *PeriodicalTrigger) fire() {
	atomic.AddUint64(&t.timesTriggered, 1)
	atomic.StoreInt64(&t.lastTriggered, time.Now().UnixNano())
	t.handler()
}

func (t *PeriodicalTrigger) TimesTriggered() uint64 {
	return atomic.LoadUint64(&t.timesTriggered)
}

// LastTriggered is the zero time until the first tick
func (t *PeriodicalTrigger) LastTriggered() time.Time {
	nanos := atomic.LoadInt64(&t.lastTriggered)
	if nanos == 0 {
		return time.Time{}
	}
	return time.Unix(0, nanos)
}

// Stop returns after the trigger goroutine exited
func (t *PeriodicalTrigger) Stop() {
	t.cancel()
	<-t.Closed
}
