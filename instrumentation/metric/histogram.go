// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"fmt"
	"github.com/codahale/hdrhistogram"
	"github.com/orbs-network/scribe/log"
	"sync"
	"sync/atomic"
	"time"
)

// values are recorded in milliseconds
type Histogram struct {
	namedMetric
	overflowCount int64

	mu    sync.Mutex
	histo *hdrhistogram.WindowedHistogram
}

type histogramExport struct {
	Name     string
	Min      float64
	P50      float64
	P95      float64
	P99      float64
	Max      float64
	Avg      float64
	Samples  int64
	Overflow int64
}

func newHistogram(name string, max int64) *Histogram {
	return &Histogram{
		namedMetric: namedMetric{name: name},
		histo:       hdrhistogram.NewWindowed(5, 0, max, 3),
	}
}

func (h *Histogram) RecordSince(t time.Time) {
	h.Record(time.Since(t))
}

func (h *Histogram) Record(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.histo.Current.RecordValue(int64(d / time.Millisecond)); err != nil {
		atomic.AddInt64(&h.overflowCount, 1)
	}
}

func (h *Histogram) Rotate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.histo.Rotate()
}

func (h *Histogram) String() string {
	e := h.Export().(histogramExport)
	return fmt.Sprintf(
		"metric %s: [min=%f, p50=%f, p95=%f, p99=%f, max=%f, avg=%f, samples=%d, overflow=%d]\n",
		e.Name, e.Min, e.P50, e.P95, e.P99, e.Max, e.Avg, e.Samples, e.Overflow)
}

// the export merges all windows, the current window alone is empty right after a rotation
func (h *Histogram) Export() exportedMetric {
	h.mu.Lock()
	defer h.mu.Unlock()
	histo := h.histo.Merge()

	return histogramExport{
		Name:     h.name,
		Min:      float64(histo.Min()),
		P50:      float64(histo.ValueAtQuantile(50)),
		P95:      float64(histo.ValueAtQuantile(95)),
		P99:      float64(histo.ValueAtQuantile(99)),
		Max:      float64(histo.Max()),
		Avg:      histo.Mean(),
		Samples:  histo.TotalCount(),
		Overflow: atomic.LoadInt64(&h.overflowCount),
	}
}

func (h histogramExport) LogRow() []*log.Field {
	if h.Samples == 0 {
		return nil
	}

	return []*log.Field{
		log.String("metric", h.Name),
		log.String("metric-type", "histogram"),
		log.Float64("min", h.Min),
		log.Float64("p50", h.P50),
		log.Float64("p95", h.P95),
		log.Float64("p99", h.P99),
		log.Float64("max", h.Max),
		log.Float64("avg", h.Avg),
		log.Int64("samples", h.Samples),
	}
}
