// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package synchronization_test

import (
	"context"
	"github.com/orbs-network/counter-controller/synchronization"
	"github.com/orbs-network/counter-controller/test"
	"github.com/orbs-network/counter-controller/test/with"
	"github.com/stretchr/testify/require"
	"sync/atomic"
	"testing"
	"time"
)

func TestPeriodicalTrigger_FiresRepeatedly(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			var x int32
			p := synchronization.NewPeriodicalTrigger(ctx, "test-trigger", time.Millisecond, harness.Logger, func() { atomic.AddInt32(&x, 1) }, nil)
			defer p.Stop()

			require.True(t, test.Eventually(func() bool {
				return atomic.LoadInt32(&x) >= 3
			}), "expected at least three ticks")
			require.True(t, p.TimesTriggered() >= 3, "expected internal count to follow ticks")
		})
	})
}

func TestPeriodicalTrigger_StopPreventsFurtherTicks(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			var x int32
			p := synchronization.NewPeriodicalTrigger(ctx, "test-trigger", time.Millisecond, harness.Logger, func() { atomic.AddInt32(&x, 1) }, nil)
			p.Stop()

			ticksAtStop := atomic.LoadInt32(&x)
			time.Sleep(5 * time.Millisecond)
			require.Equal(t, ticksAtStop, atomic.LoadInt32(&x), "expected no ticks after stop")
		})
	})
}

func TestPeriodicalTrigger_CallsOnStopWhenContextEnds(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		ctx, cancel := context.WithCancel(context.Background())
		stopped := make(chan struct{})
		p := synchronization.NewPeriodicalTrigger(ctx, "test-trigger", time.Hour, harness.Logger, func() {}, func() { close(stopped) })

		cancel()
		<-p.Closed

		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("onStop was not called after context was cancelled")
		}
	})
}

func TestPeriodicalTrigger_RecoversFromPanickingHandler(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		harness.AllowRecoveredPanics()
		test.WithContext(func(ctx context.Context) {
			var x int32
			p := synchronization.NewPeriodicalTrigger(ctx, "panicking-trigger", time.Millisecond, harness.Logger, func() {
				if atomic.AddInt32(&x, 1) == 1 {
					panic("first tick panics")
				}
			}, nil)
			defer p.Stop()

			require.True(t, test.Eventually(func() bool {
				return atomic.LoadInt32(&x) >= 2
			}), "expected trigger to keep ticking after a panic")
		})
	})
}

func TestImmediateTrigger_FiresOnceBeforeTheFirstInterval(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			fired := make(chan struct{}, 2)
			p := synchronization.NewImmediateTrigger(ctx, "immediate-trigger", time.Hour, harness.Logger, func() { fired <- struct{}{} }, nil)
			defer p.Stop()

			select {
			case <-fired:
			case <-time.After(time.Second):
				t.Fatal("immediate trigger did not fire")
			}
			require.EqualValues(t, 1, p.TimesTriggered())
			require.False(t, p.LastTriggered().IsZero())
		})
	})
}

func TestPeriodicalTrigger_LastTriggeredIsZeroBeforeTheFirstTick(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			p := synchronization.NewPeriodicalTrigger(ctx, "idle-trigger", time.Hour, harness.Logger, func() {}, nil)
			defer p.Stop()

			require.True(t, p.LastTriggered().IsZero())
			require.Zero(t, p.TimesTriggered())
		})
	})
}
