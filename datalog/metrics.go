// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package datalog

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the counters a Logger updates.  A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	rows   prometheus.Counter
	syncs  prometheus.Counter
	files  prometheus.Counter
	open   prometheus.Gauge
	faults *prometheus.CounterVec
}

// NewMetrics creates the logger metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := Metrics{
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "datalog",
			Name:      "rows_total",
			Help:      "Rows written to the log file.",
		}),
		syncs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "datalog",
			Name:      "syncs_total",
			Help:      "Successful syncs to the card.",
		}),
		files: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "datalog",
			Name:      "files_opened_total",
			Help:      "Log files created.",
		}),
		open: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "datalog",
			Name:      "logging",
			Help:      "1 while a log file is open.",
		}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "datalog",
			Name:      "faults_total",
			Help:      "Storage faults by kind.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{m.rows, m.syncs, m.files, m.open, m.faults} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &m, nil
}

func (m *Metrics) row() {
	if m != nil {
		m.rows.Inc()
	}
}

func (m *Metrics) synced() {
	if m != nil {
		m.syncs.Inc()
	}
}

func (m *Metrics) opened() {
	if m != nil {
		m.files.Inc()
		m.open.Set(1)
	}
}

func (m *Metrics) closed() {
	if m != nil {
		m.open.Set(0)
	}
}

func (m *Metrics) fault(kind string) {
	if m != nil {
		m.faults.WithLabelValues(kind).Inc()
	}
}
