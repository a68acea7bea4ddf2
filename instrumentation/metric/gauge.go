// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"fmt"
	"github.com/orbs-network/scribe/log"
	"sync/atomic"
)

type Gauge struct {
	namedMetric
	value int64
}

type gaugeExport struct {
	Name  string
	Value int64
}

func (g *Gauge) Export() exportedMetric {
	return gaugeExport{
		g.name,
		g.IntValue(),
	}
}

func (g *Gauge) String() string {
	return fmt.Sprintf("metric %s: %d\n", g.name, g.IntValue())
}

func (g *Gauge) Inc() {
	g.Add(1)
}

func (g *Gauge) Add(i int64) {
	atomic.AddInt64(&g.value, i)
}

func (g *Gauge) Dec() {
	g.Add(-1)
}

func (g *Gauge) Update(i int64) {
	atomic.StoreInt64(&g.value, i)
}

func (g *Gauge) UpdateUint64(i uint64) {
	g.Update(int64(i))
}

func (g *Gauge) UpdateBool(b bool) {
	if b {
		g.Update(1)
	} else {
		g.Update(0)
	}
}

func (g *Gauge) IntValue() int64 {
	return atomic.LoadInt64(&g.value)
}

func (g gaugeExport) LogRow() []*log.Field {
	return []*log.Field{
		log.String("metric", g.Name),
		log.String("metric-type", "gauge"),
		log.Int64("gauge", g.Value),
	}
}
