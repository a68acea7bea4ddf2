// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.

package metric

import (
	"fmt"
	"strconv"
	"strings"
)

/*
*
Format reference: https://prometheus.io/docs/instrumenting/exposition_formats/
For info on Prometheus labels, see: https://prometheus.io/docs/practices/naming/#labels
*/
func (r *inMemoryRegistry) ExportPrometheus() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	labelsString := r.labelsString()

	var rows []string
	for _, metric := range r.mu.metrics {
		rows = append(rows, metric.exportPrometheus(labelsString))
	}

	return strings.Join(rows, "")
}

func (g *Gauge) exportPrometheus(labelString string) string {
	name := prometheusName(g.name)
	return prometheusType(name, "gauge") + prometheusRow(name, labelString, strconv.FormatInt(g.IntValue(), 10))
}

func (h *Histogram) exportPrometheus(labelString string) string {
	e := h.Export().(histogramExport)
	name := prometheusName(h.name)

	var rows strings.Builder
	rows.WriteString(prometheusType(name, "summary"))
	for _, q := range []struct {
		quantile string
		value    float64
	}{{"0.5", e.P50}, {"0.95", e.P95}, {"0.99", e.P99}} {
		rows.WriteString(prometheusRow(name, joinLabels(labelString, fmt.Sprintf("quantile=%q", q.quantile)), formatFloat(q.value)))
	}
	rows.WriteString(prometheusRow(name+"_sum", labelString, formatFloat(e.Avg*float64(e.Samples))))
	rows.WriteString(prometheusRow(name+"_count", labelString, strconv.FormatInt(e.Samples, 10)))
	return rows.String()
}

func (r *Rate) exportPrometheus(labelString string) string {
	name := prometheusName(r.name)
	return prometheusType(name, "gauge") + prometheusRow(name, labelString, formatFloat(r.Value()))
}

// texts are exported info-style, the value is a label on a constant 1
func (t *Text) exportPrometheus(labelString string) string {
	name := prometheusName(t.name) + "_info"
	return prometheusType(name, "gauge") + prometheusRow(name, joinLabels(labelString, fmt.Sprintf("value=%q", t.Value())), "1")
}

func prometheusRow(name string, labelString string, value string) string {
	if len(labelString) > 0 {
		return fmt.Sprintf("%s{%s} %s\n", name, labelString, value)
	}
	return fmt.Sprintf("%s %s\n", name, value)
}

func joinLabels(labels ...string) string {
	var nonEmpty []string
	for _, l := range labels {
		if l != "" {
			nonEmpty = append(nonEmpty, l)
		}
	}
	return strings.Join(nonEmpty, ",")
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func prometheusName(name string) string {
	return strings.Replace(name, ".", "_", -1)
}

func prometheusType(name string, typeString string) string {
	return fmt.Sprintf("# TYPE %s %s\n", name, typeString)
}
