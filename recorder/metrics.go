// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package recorder

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/schmidtw/thermologger/units"
)

// Metrics are the gauges and counters the recorder updates.  A nil *Metrics
// records nothing.
type Metrics struct {
	ticks        prometheus.Counter
	sampleErrors prometheus.Counter
	invalid      *prometheus.CounterVec
	temperature  *prometheus.GaugeVec
}

// NewMetrics creates the recorder metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	m := Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recorder",
			Name:      "ticks_total",
			Help:      "Samples taken.",
		}),
		sampleErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recorder",
			Name:      "sample_errors_total",
			Help:      "Samples where the front end could not be read.",
		}),
		invalid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recorder",
			Name:      "invalid_readings_total",
			Help:      "Channel readings that could not be converted.",
		}, []string{"channel"}),
		temperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "physical",
			Name:      "temperature_celsius",
			Help:      "Latest temperature (C) by channel.",
		}, []string{"channel"}),
	}

	for _, c := range []prometheus.Collector{m.ticks, m.sampleErrors, m.invalid, m.temperature} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &m, nil
}

func (m *Metrics) tick(temps []units.Temperature) {
	if m == nil {
		return
	}

	m.ticks.Inc()
	for i, t := range temps {
		ch := strconv.Itoa(i)
		if !t.Valid() {
			m.invalid.WithLabelValues(ch).Inc()
			continue
		}
		m.temperature.WithLabelValues(ch).Set(t.Celsius())
	}
}

func (m *Metrics) sampleError() {
	if m != nil {
		m.sampleErrors.Inc()
	}
}
