// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

// Package contractconnector holds what every remote contract connector shares
package contractconnector

import (
	"context"
	"github.com/orbs-network/counter-controller/instrumentation/metric"
	"github.com/orbs-network/counter-controller/services/counter/adapter"
	"github.com/orbs-network/counter-controller/synchronization"
	"github.com/orbs-network/scribe/log"
	"time"
)

const STATUS_FAILED = "failed"
const STATUS_SUCCESS = "success"

type statusMetrics struct {
	status      *metric.Text
	failures    *metric.Gauge
	lastSuccess *metric.Gauge
}

func createConnectionStatusMetrics(factory metric.Factory, name string) *statusMetrics {
	return &statusMetrics{
		status:      factory.NewText(name+".Connection.Status", STATUS_FAILED),
		failures:    factory.NewGauge(name + ".Connection.Failures.Count"),
		lastSuccess: factory.NewGauge(name + ".Connection.LastSuccess.UnixTime"),
	}
}

func updateConnectionStatus(ctx context.Context, checker adapter.HealthChecker, metrics *statusMetrics, logger log.Logger) error {
	if err := checker.CheckHealth(ctx); err != nil {
		logger.Info("contract connection status check failed", log.Error(err))
		metrics.status.Update(STATUS_FAILED)
		metrics.failures.Inc()
		return err
	}

	metrics.status.Update(STATUS_SUCCESS)
	metrics.lastSuccess.Update(time.Now().Unix())
	return nil
}

// ReportConnectionStatus checks the connector as soon as it starts and then every interval until ctx ends
func ReportConnectionStatus(ctx context.Context, name string, checker adapter.HealthChecker, factory metric.Factory, interval time.Duration, logger log.Logger) *synchronization.PeriodicalTrigger {
	metrics := createConnectionStatusMetrics(factory, name)
	logger = logger.WithTags(log.String("connector", name))

	return synchronization.NewImmediateTrigger(ctx, name+" connection status", interval, logger, func() {
		_ = updateConnectionStatus(ctx, checker, metrics, logger)
	}, nil)
}
