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
	"github.com/orbs-network/counter-controller/test"
	"github.com/orbs-network/counter-controller/test/with"
	"github.com/orbs-network/go-mock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"math/big"
	"sync"
	"testing"
	"time"
)

type readResponse struct {
	value adapter.RemoteValue
	err   error
}

// every ReadCounter call waits until the test answers it
type blockingReader struct {
	calls chan chan readResponse
}

func newBlockingReader() *blockingReader {
	return &blockingReader{calls: make(chan chan readResponse)}
}

func (r *blockingReader) ReadCounter(ctx context.Context) (adapter.RemoteValue, error) {
	reply := make(chan readResponse, 1)
	r.calls <- reply
	resp := <-reply
	return resp.value, resp.err
}

func (r *blockingReader) ReadOwner(ctx context.Context) (adapter.RemoteValue, error) {
	return string(ownerAddress), nil
}

func TestReadCoordinator_LatestIssuedReadWins(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			reader := newBlockingReader()
			c := NewReadCoordinator(harness.Logger, reader, metric.NewRegistry())

			go c.Refresh(ctx)
			first := <-reader.calls
			go c.Refresh(ctx)
			second := <-reader.calls

			second <- readResponse{value: big.NewInt(3)}
			require.True(t, test.Eventually(func() bool {
				r := c.Reading()
				return r.Known && r.Value == 3
			}))
			require.True(t, c.Reading().Loading, "the older read is still in flight")

			first <- readResponse{value: big.NewInt(1)}
			require.True(t, test.Eventually(func() bool {
				return !c.Reading().Loading
			}))
			require.EqualValues(t, 3, c.Reading().Value, "a stale response must not overwrite a newer one")
			require.EqualValues(t, 1, c.metrics.staleReads.IntValue())
		})
	})
}

func TestReadCoordinator_InOrderResponsesAreAllApplied(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			reader := newBlockingReader()
			c := NewReadCoordinator(harness.Logger, reader, metric.NewRegistry())

			var mu sync.Mutex
			var seen []uint64
			c.Subscribe(func(r Reading) {
				if r.Known && !r.Loading {
					mu.Lock()
					seen = append(seen, r.Value)
					mu.Unlock()
				}
			})
			seenSoFar := func() []uint64 {
				mu.Lock()
				defer mu.Unlock()
				return append([]uint64{}, seen...)
			}

			go c.Refresh(ctx)
			(<-reader.calls) <- readResponse{value: uint32(1)}
			require.True(t, test.Eventually(func() bool { return c.Reading().Value == 1 }))

			go c.Refresh(ctx)
			(<-reader.calls) <- readResponse{value: uint32(2)}
			require.True(t, test.Eventually(func() bool { return len(seenSoFar()) == 2 }), "subscriber received %v", seenSoFar())
			require.Equal(t, []uint64{1, 2}, seenSoFar())
		})
	})
}

// answers with whatever the test set last
type stubReader struct {
	sync.Mutex
	counter    adapter.RemoteValue
	counterErr error
	owner      adapter.RemoteValue
	ownerErr   error
}

func (r *stubReader) respondCounter(value adapter.RemoteValue, err error) {
	r.Lock()
	defer r.Unlock()
	r.counter, r.counterErr = value, err
}

func (r *stubReader) respondOwner(value adapter.RemoteValue, err error) {
	r.Lock()
	defer r.Unlock()
	r.owner, r.ownerErr = value, err
}

func (r *stubReader) ReadCounter(ctx context.Context) (adapter.RemoteValue, error) {
	r.Lock()
	defer r.Unlock()
	return r.counter, r.counterErr
}

func (r *stubReader) ReadOwner(ctx context.Context) (adapter.RemoteValue, error) {
	r.Lock()
	defer r.Unlock()
	return r.owner, r.ownerErr
}

func TestReadCoordinator_FailedReadBecomesUnknownAndIsRetryable(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			reader := &stubReader{}
			c := NewReadCoordinator(harness.Logger, reader, metric.NewRegistry())

			reader.respondCounter(uint32(5), nil)
			c.Refresh(ctx)
			require.EqualValues(t, 5, c.Reading().Value)

			reader.respondCounter(nil, errors.New("connection refused"))
			c.Refresh(ctx)

			reading := c.Reading()
			require.False(t, reading.Known, "a failed read must not keep the previous value")
			require.IsType(t, &TransportReadError{}, reading.Err)
			require.Contains(t, reading.Err.Error(), "connection refused")
			require.EqualValues(t, 1, c.metrics.readFailures.IntValue())

			reader.respondCounter([]interface{}{big.NewInt(6)}, nil)
			c.Refresh(ctx)
			require.True(t, c.Reading().Known)
			require.EqualValues(t, 6, c.Reading().Value)
			require.NoError(t, c.Reading().Err)
		})
	})
}

func TestReadCoordinator_RefreshOwner(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			reader := &stubReader{}
			c := NewReadCoordinator(harness.Logger, reader, metric.NewRegistry())

			reader.respondOwner([]interface{}{"0xAbC"}, nil)
			c.RefreshOwner(ctx)
			require.Equal(t, OwnerRecord{Address: "0xAbC", Known: true}, c.Owner())
			require.Equal(t, "0xAbC", c.metrics.owner.Value())

			reader.respondOwner(nil, errors.New("timeout"))
			c.RefreshOwner(ctx)
			require.False(t, c.Owner().Known)
			require.IsType(t, &TransportReadError{}, c.Owner().Err)
		})
	})
}

func TestReadCoordinator_SubscribersReceiveTheSameReadings(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			reader := &contractMock{}
			reader.When("ReadCounter", mock.Any).Return(uint64(9), nil)
			c := NewReadCoordinator(harness.Logger, reader, metric.NewRegistry())

			var a, b []Reading
			unsubscribeA := c.Subscribe(func(r Reading) { a = append(a, r) })
			c.Subscribe(func(r Reading) { b = append(b, r) })

			c.Refresh(ctx)
			require.Equal(t, a, b)
			require.Len(t, a, 2, "one change for loading and one for the applied value")
			require.True(t, a[0].Loading)
			require.EqualValues(t, 9, a[1].Value)

			unsubscribeA()
			unsubscribeA()
			c.Refresh(ctx)
			require.Len(t, a, 2)
			require.Len(t, b, 4)
		})
	})
}

func TestReadCoordinator_RefreshAsyncMarksLoadingBeforeReturning(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		test.WithContext(func(ctx context.Context) {
			reader := newBlockingReader()
			c := NewReadCoordinator(harness.Logger, reader, metric.NewRegistry())

			c.RefreshAsync(ctx)
			require.True(t, c.Reading().Loading)

			(<-reader.calls) <- readResponse{value: uint8(4)}
			require.True(t, test.Eventually(func() bool {
				r := c.Reading()
				return r.Known && r.Value == 4 && !r.Loading
			}))
		})
	})
}

func TestReadCoordinator_PollersStopWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	with.Logging(t, func(harness *with.LoggingHarness) {
		ctx, cancel := context.WithCancel(context.Background())
		reader := &contractMock{}
		reader.When("ReadCounter", mock.Any).Return(uint32(1), nil)
		reader.When("ReadOwner", mock.Any).Return("0xabc", nil)

		cfg := config.ForTests("0xabc")
		cfg.SetDuration(config.COUNTER_POLLING_INTERVAL, time.Millisecond)
		cfg.SetDuration(config.OWNER_POLLING_INTERVAL, time.Millisecond)

		c := NewReadCoordinator(harness.Logger, reader, metric.NewRegistry())
		c.StartPolling(ctx, cfg)

		require.True(t, test.Eventually(func() bool {
			return c.Reading().Known && c.Owner().Known
		}), "pollers should have read both values")

		cancel()
		test.RequireShutdown(t, c, test.DEFAULT_SHUTDOWN_TIMEOUT)
	})
}
