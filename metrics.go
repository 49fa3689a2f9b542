// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jchunk

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus metrics for one or more parsers. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	bytes          prometheus.Counter
	values         prometheus.Counter
	syntaxErrors   prometheus.Counter
	internalFaults prometheus.Counter
	buffered       prometheus.Gauge
}

// NewMetrics constructs parser metrics registered with reg. If reg is nil the
// collectors are created but not registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		bytes: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "jchunk_bytes_total",
			Help: "Total number of input bytes fed to parsers.",
		}),
		values: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "jchunk_values_total",
			Help: "Total number of complete values emitted by parsers.",
		}),
		syntaxErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "jchunk_syntax_errors_total",
			Help: "Total number of syntax errors reported by parsers.",
		}),
		internalFaults: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "jchunk_internal_faults_total",
			Help: "Total number of values the decoder rejected after the parser accepted them.",
		}),
		buffered: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "jchunk_buffered_bytes",
			Help: "Bytes held by parsers, unconsumed input plus the value in progress.",
		}),
	}
}

func (m *Metrics) addBytes(n int) {
	if m != nil {
		m.bytes.Add(float64(n))
	}
}

func (m *Metrics) addValue() {
	if m != nil {
		m.values.Inc()
	}
}

func (m *Metrics) addSyntaxError() {
	if m != nil {
		m.syntaxErrors.Inc()
	}
}

func (m *Metrics) addInternalFault() {
	if m != nil {
		m.internalFaults.Inc()
	}
}

// adjustBuffered adds delta (which may be negative) to the buffered gauge.
func (m *Metrics) adjustBuffered(delta int) {
	if m != nil && delta != 0 {
		m.buffered.Add(float64(delta))
	}
}
