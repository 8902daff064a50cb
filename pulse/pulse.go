/*
   pulsecore, a streaming OOK/FSK pulse-extraction core for sub-GHz ISM band
   sensor decoders.
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

// Package pulse implements the dual-modality pulse detector: a coupled pair
// of state machines that turn a time-aligned AM envelope stream and FM
// discriminator stream into discrete pulse packets tagged OOK or FSK.
package pulse

// Numeric contract shared by the OOK estimator, the FSK tracker and the
// top-level detector. These values are reproduced exactly from the reference
// implementation; changing them changes convergence and classification
// behavior observably.
const (
	// PDMaxPulses bounds the number of (pulse, gap) pairs a single packet
	// may hold.
	PDMaxPulses = 1024

	// OOKHighLowRatio is the default ratio between the high (carrier) and
	// low (noise) envelope level estimates.
	OOKHighLowRatio = 8
	// OOKMinHighLevel is the minimum estimate of the high level.
	OOKMinHighLevel = 1000
	// OOKMaxHighLevel is the maximum estimate for the high level. A unit
	// phasor is 128, anything above is overdrive.
	OOKMaxHighLevel = 128 * 128
	// OOKMaxLowLevel is the maximum estimate for the low (noise) level.
	OOKMaxLowLevel = OOKMaxHighLevel / 2
	// OOKEstHighRatio governs the slowness of the high level estimator.
	OOKEstHighRatio = 64
	// OOKEstLowRatio governs the slowness of the low (noise) level
	// estimator; deliberately very slow.
	OOKEstLowRatio = 1024

	// FSKDefaultFMDelta is the default estimate for the tone frequency
	// delta used to declare a tone boundary.
	FSKDefaultFMDelta = 6000
	// FSKEstRatio governs the slowness of the FSK tone estimators.
	FSKEstRatio = 32

	// PDMinPulseSamples is the minimum run length accepted as a real
	// pulse or gap; shorter runs are spurious and coalesced away.
	PDMinPulseSamples = 10
	// PDMinPulses is the minimum number of FSK pulses that must
	// accumulate inside the first AM pulse before FSK is declared.
	PDMinPulses = 16
	// PDMaxGapRatio and the two millisecond bounds below determine when a
	// gap is long enough to end a packet.
	PDMaxGapRatio = 10
	PDMinGapMs    = 10
	PDMaxGapMs    = 100

	// MaxHistBins bounds the number of equivalence-class bins the
	// analyzer's histograms may hold.
	MaxHistBins = 16
	// Tolerance is the relative-tolerance threshold used to decide
	// whether two widths belong in the same histogram bin.
	Tolerance = 0.20
)

func absInt32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func minInt32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func clipInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
