// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"context"
	"fmt"
	"github.com/c9s/goprocinfo/linux"
	"github.com/orbs-network/counter-controller/synchronization"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"os"
	"runtime"
	"time"
)

type systemMetrics struct {
	rssBytes       *Gauge
	cpuUtilization *Gauge
	goroutines     *Gauge
}

type systemReporter struct {
	metrics  systemMetrics
	procRoot string
}

const SYSTEM_METRICS_INTERVAL = 3 * time.Second
const CPU_SAMPLE_INTERVAL = time.Second

// the goroutine count is where leaked settlements and refreshes show up first
func NewSystemReporter(ctx context.Context, metricFactory Factory, logger log.Logger) govnr.ShutdownWaiter {
	r := newSystemReporter(metricFactory, "/proc")

	return synchronization.NewPeriodicalTrigger(ctx, "system metric reporter", SYSTEM_METRICS_INTERVAL, logger, func() {
		r.reportSystemMetrics(ctx, logger)
	}, nil)
}

func newSystemReporter(metricFactory Factory, procRoot string) *systemReporter {
	return &systemReporter{
		metrics: systemMetrics{
			rssBytes:       metricFactory.NewGauge("OS.Process.Memory.Bytes"),
			cpuUtilization: metricFactory.NewGauge("OS.Process.CPU.PerCent"),
			goroutines:     metricFactory.NewGauge("Go.Runtime.Goroutines.Count"),
		},
		procRoot: procRoot,
	}
}

const PAGESIZE = 4096

func (r *systemReporter) reportSystemMetrics(ctx context.Context, logger log.Logger) {
	r.metrics.goroutines.Update(int64(runtime.NumGoroutine()))

	if _, err := os.Stat(r.procRoot); os.IsNotExist(err) {
		return
	}

	if rss, err := r.rssMemory(); err != nil {
		logger.Info("failed to retrieve memory stats", log.Error(err))
	} else {
		r.metrics.rssBytes.Update(rss)
	}

	if cpu, err := r.cpuUtilization(ctx); err != nil {
		logger.Info("failed to retrieve cpu stats", log.Error(err))
	} else {
		r.metrics.cpuUtilization.Update(cpu)
	}
}

func (r *systemReporter) rssMemory() (int64, error) {
	statm, err := linux.ReadProcessStatm(fmt.Sprintf("%s/%d/statm", r.procRoot, os.Getpid()))
	if err != nil {
		return 0, err
	}

	return int64(statm.Resident * PAGESIZE), nil
}

func (r *systemReporter) cpuTotal() (uint64, error) {
	cpu, err := linux.ReadStat(r.procRoot + "/stat")
	if err != nil {
		return 0, err
	}
	e := cpu.CPUStatAll
	return e.User + e.Nice + e.System + e.Idle, nil
}

// procfs counters are cumulative since boot, so utilization is the ratio of two deltas one sample interval apart
func (r *systemReporter) cpuUtilization(ctx context.Context) (int64, error) {
	pid := uint64(os.Getpid())

	firstSample, err := linux.ReadProcess(pid, r.procRoot)
	if err != nil {
		return 0, err
	}

	cpu1, err := r.cpuTotal()
	if err != nil {
		return 0, err
	}

	select {
	case <-time.After(CPU_SAMPLE_INTERVAL):
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	secondSample, err := linux.ReadProcess(pid, r.procRoot)
	if err != nil {
		return 0, err
	}

	user := (int64(secondSample.Stat.Utime) + secondSample.Stat.Cutime) - (int64(firstSample.Stat.Utime) + firstSample.Stat.Cutime)
	system := (int64(secondSample.Stat.Stime) + secondSample.Stat.Cstime) - (int64(firstSample.Stat.Stime) + firstSample.Stat.Cstime)
	cpu2, err := r.cpuTotal()
	if err != nil {
		return 0, err
	}
	if cpu2 == cpu1 {
		return 0, nil
	}

	percent := (float64(user+system) / float64(cpu2-cpu1)) * 100

	return int64(percent), nil
}
