// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"context"
	"github.com/beevik/ntp"
	"github.com/orbs-network/counter-controller/test"
	"github.com/orbs-network/counter-controller/test/with"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestRegistry_ExportAllIncludesEveryMetric(t *testing.T) {
	r := NewRegistry()
	r.NewGauge("Counter.Value").Update(5)
	r.NewText("Counter.Owner", "0xabc")
	r.NewRate("Counter.Submissions.Rate")
	r.NewLatency("Counter.Increase.Settle.Millis", time.Minute)

	all := r.ExportAll()
	require.Len(t, all, 4)
	require.EqualValues(t, 5, all["Counter.Value"].(gaugeExport).Value)
	require.Equal(t, "0xabc", all["Counter.Owner"].(textExport).Value)
	require.Nil(t, all["Counter.Increase.Settle.Millis"].LogRow(), "an empty histogram should not be logged")
}

func TestRegistry_StringListsMetrics(t *testing.T) {
	r := NewRegistry()
	r.NewGauge("Counter.Value").Update(7)
	require.Contains(t, r.String(), "metric Counter.Value: 7")
}

func TestGauge_Operations(t *testing.T) {
	g := NewRegistry().NewGauge("g")
	g.Inc()
	g.Inc()
	g.Dec()
	g.Add(10)
	require.EqualValues(t, 11, g.IntValue())

	g.UpdateBool(true)
	require.EqualValues(t, 1, g.IntValue())
	g.UpdateUint64(42)
	require.EqualValues(t, 42, g.IntValue())
}

func TestHistogram_RecordsMillisecondsAndSurvivesRotation(t *testing.T) {
	h := NewRegistry().NewLatency("h", time.Minute)
	h.Record(10 * time.Millisecond)
	h.Record(20 * time.Millisecond)
	h.Record(30 * time.Millisecond)

	e := h.Export().(histogramExport)
	require.EqualValues(t, 3, e.Samples)
	require.InDelta(t, 10, e.Min, 0.5)
	require.InDelta(t, 30, e.Max, 0.5)

	h.Rotate()
	require.EqualValues(t, 3, h.Export().(histogramExport).Samples, "rotation keeps older windows in the merged export")
}

func TestHistogram_CountsOverflow(t *testing.T) {
	h := NewRegistry().NewLatency("h", time.Second)
	h.Record(time.Hour)
	require.EqualValues(t, 1, h.Export().(histogramExport).Overflow)
	require.EqualValues(t, 0, h.Export().(histogramExport).Samples)
}

func TestRate_AveragesOverElapsedIntervals(t *testing.T) {
	r := NewRegistry().NewRate("r")
	r.nextTick = time.Now().Add(-tickInterval)
	r.Measure(10)
	r.nextTick = time.Now().Add(-time.Millisecond)
	require.True(t, r.Value() > 0, "expected the moving average to include the first interval")

	r.Reset()
	require.EqualValues(t, 0, r.Value())
}

func TestText_Update(t *testing.T) {
	text := NewRegistry().NewText("t")
	require.Equal(t, "", text.Value())
	text.Update("0xabc")
	require.Equal(t, "0xabc", text.Value())
}

func TestNtpReporter_UpdatesDriftGauge(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		r := newNtpReporter(NewRegistry(), "ntp.local")
		r.query = func(address string) (*ntp.Response, error) {
			return &ntp.Response{ClockOffset: 1500 * time.Millisecond}, nil
		}
		r.reportDrift(harness.Logger)
		require.EqualValues(t, 1500, r.metrics.drift.IntValue())

		r.query = func(address string) (*ntp.Response, error) {
			return nil, errors.New("timeout")
		}
		r.reportDrift(harness.Logger)
		require.EqualValues(t, 1500, r.metrics.drift.IntValue(), "a failed query keeps the last drift")
	})
}

func TestRegistry_ReportEveryStopsWithContext(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		ctx, cancel := context.WithCancel(context.Background())
		r := NewRegistry()
		r.NewGauge("g").Inc()
		waiter := r.ReportEvery(ctx, time.Millisecond, harness.Logger)
		time.Sleep(5 * time.Millisecond)
		cancel()

		test.RequireShutdown(t, waiter, test.DEFAULT_SHUTDOWN_TIMEOUT)
	})
}

func TestSystemReporter_ReportsGoroutinesWithoutProcfs(t *testing.T) {
	with.Logging(t, func(harness *with.LoggingHarness) {
		r := newSystemReporter(NewRegistry(), "/no/such/proc")

		r.reportSystemMetrics(context.Background(), harness.Logger)

		require.True(t, r.metrics.goroutines.IntValue() > 0, "expected the goroutine count to be reported")
		require.Zero(t, r.metrics.rssBytes.IntValue(), "without procfs nothing else is read")
	})
}
