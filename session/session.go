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

// Package session ties one pulse.Detector to a config, a set of Prometheus
// metrics and a logger, giving every radio a fully independent identity
// instead of leaning on shared package state.
package session

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bemasher/pulsecore/config"
	"github.com/bemasher/pulsecore/pulse"
	"github.com/bemasher/pulsecore/telemetry"
)

// Session owns one Detector, its buffers, and everything needed to observe
// it: metrics, structured logging, and a random identity generated when the
// Session is created.
type Session struct {
	ID       uuid.UUID
	Detector *pulse.Detector
	Config   config.Config
	Metrics  *telemetry.Metrics
	Logger   *log.Logger

	Pulses    pulse.Buffer
	FSKPulses pulse.Buffer
}

// New constructs a Session with a fresh Detector and a randomly generated
// identity. reg may be nil to skip Prometheus registration.
func New(cfg config.Config, reg prometheus.Registerer) *Session {
	id := uuid.New()
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "pulsecore"})
	logger = logger.With("session_id", id.String())

	return &Session{
		ID:       id,
		Detector: pulse.NewDetector(),
		Config:   cfg,
		Metrics:  telemetry.New(reg, id.String()),
		Logger:   logger,
	}
}

// Process runs one chunk of envelope/FM samples through the session's
// Detector, updating metrics and logging any diagnostic condition the
// Detector surfaced. chunkOffset is the absolute sample index of
// envelope[0] in the stream this session is demodulating.
func (s *Session) Process(envelope, fm []int16, chunkOffset uint64) pulse.Result {
	result := s.Detector.Process(envelope, fm, s.Config.LevelLimit, s.Config.SampleRate, chunkOffset, &s.Pulses, &s.FSKPulses)

	s.Metrics.LowLevel.Set(float64(s.Detector.LowEstimate()))
	s.Metrics.HighLevel.Set(float64(s.Detector.HighEstimate()))

	switch result {
	case pulse.ResultOOKPacket:
		s.Metrics.OOKPackets.Inc()
		if s.Pulses.NumPulses >= pulse.PDMaxPulses {
			s.Metrics.BufferOverflows.Inc()
		}
	case pulse.ResultFSKPacket:
		s.Metrics.FSKPackets.Inc()
	}

	if err := s.Detector.LastError; err != nil {
		s.Logger.Warn("detector diagnostic", "err", err)
		if err == pulse.ErrFSKDesync {
			s.Metrics.FSKDesyncs.Inc()
		}
		s.Detector.LastError = nil
	}

	return result
}
