// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package counter

import (
	"fmt"
	"github.com/orbs-network/counter-controller/instrumentation/metric"
	"strings"
	"time"
)

type coordinatorMetrics struct {
	value         *metric.Gauge
	known         *metric.Gauge
	readLatency   *metric.Histogram
	readFailures  *metric.Gauge
	staleReads    *metric.Gauge
	owner         *metric.Text
	ownerFailures *metric.Gauge
}

func newCoordinatorMetrics(factory metric.Factory) *coordinatorMetrics {
	return &coordinatorMetrics{
		value:         factory.NewGauge("Counter.Value"),
		known:         factory.NewGauge("Counter.Value.Known"),
		readLatency:   factory.NewLatency("Counter.Read.Latency.Millis", 1*time.Minute),
		readFailures:  factory.NewGauge("Counter.Read.Failures.Count"),
		staleReads:    factory.NewGauge("Counter.Read.Stale.Count"),
		owner:         factory.NewText("Counter.Owner"),
		ownerFailures: factory.NewGauge("Counter.Owner.Read.Failures.Count"),
	}
}

type actionMetrics struct {
	settleLatency *metric.Histogram
	succeeded     *metric.Gauge
	failed        *metric.Gauge
	rejected      *metric.Gauge
}

type serviceMetrics struct {
	submissions *metric.Rate
	pending     *metric.Gauge
	actions     map[ActionKind]*actionMetrics
}

func newServiceMetrics(factory metric.Factory, transactionTimeout time.Duration) *serviceMetrics {
	m := &serviceMetrics{
		submissions: factory.NewRate("Counter.Submissions.PerSecond"),
		pending:     factory.NewGauge("Counter.Submissions.Pending"),
		actions:     make(map[ActionKind]*actionMetrics),
	}

	for _, kind := range AllActionKinds {
		prefix := fmt.Sprintf("Counter.%s", strings.Title(kind.String()))
		m.actions[kind] = &actionMetrics{
			settleLatency: factory.NewLatency(prefix+".Settle.Millis", transactionTimeout+time.Second),
			succeeded:     factory.NewGauge(prefix + ".Succeeded.Count"),
			failed:        factory.NewGauge(prefix + ".Failed.Count"),
			rejected:      factory.NewGauge(prefix + ".Rejected.Count"),
		}
	}

	return m
}
