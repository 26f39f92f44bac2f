// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Command outcomes recorded in memdb_commands_total.
const (
	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeUnknown     = "unknown"
	OutcomeInvalidArgs = "invalid_args"
)

// MetricsConfig contains configuration for dispatcher metrics.
type MetricsConfig struct {
	// Namespace is the Prometheus namespace for all metrics (default: "memdb")
	Namespace string

	// Registry is the Prometheus registry to use. If nil, a new registry is created.
	Registry *prometheus.Registry
}

// Metrics records command executions and the transaction depth.
type Metrics struct {
	commandsTotal    *prometheus.CounterVec
	transactionDepth prometheus.Gauge
	registry         *prometheus.Registry
}

// NewMetrics creates and registers the dispatcher metrics.
func NewMetrics(config *MetricsConfig) (*Metrics, error) {
	if config == nil {
		config = &MetricsConfig{}
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	if config.Namespace == "" {
		config.Namespace = "memdb"
	}

	m := &Metrics{registry: config.Registry}
	m.commandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "commands_total",
			Help:      "Total number of commands executed",
		},
		[]string{"command", "outcome"},
	)
	m.transactionDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "transaction_depth",
			Help:      "Current number of open transactions",
		},
	)

	for _, c := range []prometheus.Collector{m.commandsTotal, m.transactionDepth} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("register metric: %w", err)
		}
	}
	return m, nil
}

// Observe records one command execution.
func (m *Metrics) Observe(command, outcome string, depth int) {
	m.commandsTotal.WithLabelValues(command, outcome).Inc()
	m.transactionDepth.Set(float64(depth))
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Snapshot renders the gathered metric families as sorted text lines, e.g.
// memdb_commands_total{command="set",outcome="ok"} 2.
func (m *Metrics) Snapshot() ([]string, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	var lines []string
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			lines = append(lines, fmt.Sprintf("%s%s %s", mf.GetName(), formatLabels(metric.GetLabel()), formatValue(mf.GetType(), metric)))
		}
	}
	sort.Strings(lines)
	return lines, nil
}

func formatLabels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = fmt.Sprintf("%s=%q", p.GetName(), p.GetValue())
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func formatValue(typ dto.MetricType, metric *dto.Metric) string {
	switch typ {
	case dto.MetricType_COUNTER:
		return fmt.Sprintf("%g", metric.GetCounter().GetValue())
	case dto.MetricType_GAUGE:
		return fmt.Sprintf("%g", metric.GetGauge().GetValue())
	default:
		return "?"
	}
}
