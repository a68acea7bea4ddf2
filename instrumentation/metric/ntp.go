// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"context"
	"github.com/beevik/ntp"
	"github.com/orbs-network/counter-controller/synchronization"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"time"
)

type ntpMetrics struct {
	drift *Gauge
}

type ntpReporter struct {
	metrics ntpMetrics
	address string
	query   func(address string) (*ntp.Response, error)
}

const NTP_QUERY_INTERVAL = 30 * time.Second

// signed transactions carry timestamps, a drifting clock shows up here before it shows up as rejected transactions
func NewNtpReporter(ctx context.Context, metricFactory Factory, logger log.Logger, ntpServerAddress string) govnr.ShutdownWaiter {
	r := newNtpReporter(metricFactory, ntpServerAddress)
	return synchronization.NewImmediateTrigger(ctx, "NTP metric reporter", NTP_QUERY_INTERVAL, logger, func() {
		r.reportDrift(logger)
	}, nil)
}

func newNtpReporter(metricFactory Factory, ntpServerAddress string) *ntpReporter {
	return &ntpReporter{
		metrics: ntpMetrics{
			drift: metricFactory.NewGauge("OS.Time.Drift.Millis"),
		},
		address: ntpServerAddress,
		query:   ntp.Query,
	}
}

func (r *ntpReporter) reportDrift(logger log.Logger) {
	response, err := r.query(r.address)

	if err != nil {
		logger.Info("could not query ntp server", log.String("ntp-server", r.address), log.Error(err))
	} else {
		r.metrics.drift.Update(response.ClockOffset.Nanoseconds() / int64(time.Millisecond))
	}
}
