/*
   pulsecore, a streaming OOK/FSK pulse-extraction core for sub-GHz ISM
   band sensor decoders.
   Copyright (C) 2015  Douglas Hall

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package telemetry exposes a session's pulse detector activity as
// Prometheus metrics.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the counters and gauges one session's Detector drives. Every
// metric is labeled by session_id so that a single scrape can distinguish
// multiple concurrent radios sharing a registry.
type Metrics struct {
	OOKPackets      prometheus.Counter
	FSKPackets      prometheus.Counter
	BufferOverflows prometheus.Counter
	FSKDesyncs      prometheus.Counter

	LowLevel  prometheus.Gauge
	HighLevel prometheus.Gauge
}

// New registers and returns a Metrics bound to sessionID. reg may be nil,
// in which case the metrics are created but never registered, useful for
// tests that don't want a live registry.
func New(reg prometheus.Registerer, sessionID string) *Metrics {
	labels := prometheus.Labels{"session_id": sessionID}

	m := &Metrics{
		OOKPackets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "pulsecore",
			Name:        "ook_packets_total",
			Help:        "Number of OOK packets completed by the detector.",
			ConstLabels: labels,
		}),
		FSKPackets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "pulsecore",
			Name:        "fsk_packets_total",
			Help:        "Number of FSK packets completed by the detector.",
			ConstLabels: labels,
		}),
		BufferOverflows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "pulsecore",
			Name:        "buffer_overflows_total",
			Help:        "Number of packets forcibly terminated by hitting the pulse buffer capacity.",
			ConstLabels: labels,
		}),
		FSKDesyncs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "pulsecore",
			Name:        "fsk_desyncs_total",
			Help:        "Number of times the FSK tone tracker desynchronized.",
			ConstLabels: labels,
		}),
		LowLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "pulsecore",
			Name:        "low_level_estimate",
			Help:        "Current adaptive noise-floor level estimate.",
			ConstLabels: labels,
		}),
		HighLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "pulsecore",
			Name:        "high_level_estimate",
			Help:        "Current adaptive carrier level estimate.",
			ConstLabels: labels,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.OOKPackets, m.FSKPackets, m.BufferOverflows, m.FSKDesyncs, m.LowLevel, m.HighLevel)
	}

	return m
}
